package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lakshaymaurya-felt/sweeper/internal/config"
	"github.com/lakshaymaurya-felt/sweeper/internal/logger"
)

const templateHeader = `# Sweeper rule file.
#
# Each rule names a location to reclaim:
#   label     display name
#   path      a path, a list of paths, a glob ("*", "**"), or one of the
#             built-in providers: edge_caches, chrome_caches
#             {LOCAL}, {SYSTEM_ROOT} and a leading ~ are expanded
#   min_size  skip when smaller (bytes, or "50MB")
#   min_age   only count files older than this many days
#   severity  safe | moderate | aggressive
#   reason    why it is safe to remove
`

// Store loads the rule set from a YAML file, falling back to the built-in
// rules when the file is missing or invalid.
type Store struct {
	Path  string
	Roots config.PathRoots
	Log   *logger.Logger
}

// Load never fails: any problem with the rule file is logged and the
// built-in rules are returned instead.
func (s Store) Load() []Rule {
	log := s.Log
	if log == nil {
		log = logger.Nop()
	}

	if s.Path == "" {
		return s.defaults(log)
	}
	rules, err := LoadFile(s.Path, s.Roots)
	switch {
	case err == nil:
		log.Debug("rule file loaded",
			logger.Field{Key: "path", Value: s.Path},
			logger.Field{Key: "rules", Value: len(rules)})
		return rules
	case errors.Is(err, fs.ErrNotExist):
		log.Info("rule file not found, using built-in rules",
			logger.Field{Key: "path", Value: s.Path})
	default:
		log.Warn("rule file rejected, using built-in rules",
			logger.Field{Key: "path", Value: s.Path},
			logger.Field{Key: "error", Value: err.Error()})
	}
	return s.defaults(log)
}

// defaults resolves the built-in rules, logging any that cannot be used
// with these roots.
func (s Store) defaults(log *logger.Logger) []Rule {
	out, errs := resolveEach(DefaultRecords(), s.Roots)
	for _, err := range errs {
		log.Warn("built-in rule skipped", logger.Field{Key: "error", Value: err.Error()})
	}
	return out
}

// LoadFile reads and resolves a rule file, reporting every problem.
func LoadFile(path string, roots config.PathRoots) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, roots)
}

// Parse decodes and resolves rule-file contents.
func Parse(data []byte, roots config.PathRoots) ([]Rule, error) {
	recs, err := DecodeRecords(data)
	if err != nil {
		return nil, err
	}
	return Resolve(recs, roots)
}

// WriteTemplate writes the built-in rules to path as an editable rule file.
// An existing file is only replaced when force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	body, err := EncodeRecords(DefaultRecords())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create rule directory: %w", err)
	}
	data := append([]byte(templateHeader+"\n"), body...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rule file: %w", err)
	}
	return nil
}
