package clean

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/lakshaymaurya-felt/sweeper/internal/config"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/logger"
)

// auditTimeLayout is the local timestamp prefix of every audit line.
const auditTimeLayout = "2006-01-02 15:04"

// AuditLog appends one line per deletion batch to a per-user text file.
// Appends are serialized in-process with a mutex and across processes with
// a lock file next to the log.
type AuditLog struct {
	path  string
	clock config.Clock
	log   *logger.Logger
	mu    sync.Mutex
}

// NewAuditLog returns an audit log writing to path.
func NewAuditLog(path string, clock config.Clock, log *logger.Logger) *AuditLog {
	if clock == nil {
		clock = config.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuditLog{path: path, clock: clock, log: log}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.path }

// FormatEntry renders one audit line, including the trailing newline.
func FormatEntry(t time.Time, freed int64) string {
	return fmt.Sprintf("%s – freed %s\n", t.Format(auditTimeLayout), core.FormatSize(freed))
}

// Record appends an entry for freed bytes. Failures are logged and
// swallowed; they never affect the caller.
func (a *AuditLog) Record(freed int64) {
	if a == nil || a.path == "" {
		return
	}
	line := FormatEntry(a.clock.Now(), freed)
	if err := a.append(line); err != nil {
		a.log.Warn("audit log write failed",
			logger.Field{Key: "path", Value: a.path},
			logger.Field{Key: "error", Value: err.Error()})
		return
	}
	a.log.Debug("audit entry written", logger.Field{Key: "path", Value: a.path})
}

func (a *AuditLog) append(line string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	lock := flock.New(a.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock audit log: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			a.log.Debug("audit lock release failed", logger.Field{Key: "error", Value: err.Error()})
		}
	}()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("append audit log: %w", err)
	}
	return f.Close()
}

// Recent returns up to n of the most recent audit lines, oldest first.
// A missing log yields no lines and no error.
func (a *AuditLog) Recent(n int) ([]string, error) {
	f, err := os.Open(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return lines, nil
}
