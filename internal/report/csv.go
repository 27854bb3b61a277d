package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

var csvHeader = []string{"Label", "Size", "Severity", "Path"}

// WriteCSV writes candidates as Label,Size,Severity,Path with sizes in bytes.
func WriteCSV(w io.Writer, cs []rules.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range cs {
		rec := []string{c.Rule.Label, strconv.FormatInt(c.Size, 10), c.Rule.Severity.String(), c.Path}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV creates path and writes candidates to it.
func ExportCSV(path string, cs []rules.Candidate) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteCSV(f, cs)
}
