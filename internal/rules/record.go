package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lakshaymaurya-felt/sweeper/internal/core"
)

// Record is one entry of the declarative rule file.
type Record struct {
	Label    string    `yaml:"label"`
	Path     PathValue `yaml:"path"`
	MinSize  ByteSize  `yaml:"min_size,omitempty"`
	MinAge   int       `yaml:"min_age,omitempty"`
	Severity string    `yaml:"severity"`
	Reason   string    `yaml:"reason,omitempty"`
}

// PathValue is either a single string or a list of strings.
type PathValue struct {
	One  string
	Many []string
}

func (p *PathValue) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		p.Many = nil
		return n.Decode(&p.One)
	case yaml.SequenceNode:
		p.One = ""
		p.Many = []string{}
		return n.Decode(&p.Many)
	default:
		return fmt.Errorf("line %d: path must be a string or a list of strings", n.Line)
	}
}

func (p PathValue) MarshalYAML() (any, error) {
	if p.Many != nil {
		return p.Many, nil
	}
	return p.One, nil
}

// ByteSize accepts an integer byte count or a human size such as "50MB".
type ByteSize int64

func (b *ByteSize) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: min_size must be a number or a size string", n.Line)
	}
	var i int64
	if err := n.Decode(&i); err == nil {
		*b = ByteSize(i)
		return nil
	}
	v, err := core.ParseSize(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*b = ByteSize(v)
	return nil
}

// MarshalYAML writes whole mebibyte values as "NMB" and anything else as a
// plain byte count.
func (b ByteSize) MarshalYAML() (any, error) {
	if b > 0 && int64(b)%core.MB == 0 {
		return fmt.Sprintf("%dMB", int64(b)/core.MB), nil
	}
	return int64(b), nil
}

// DecodeRecords parses a rule file. Unknown keys are rejected.
func DecodeRecords(data []byte) ([]Record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var recs []Record
	if err := dec.Decode(&recs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("rule file is empty")
		}
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("rule file defines no rules")
	}
	return recs, nil
}

// EncodeRecords renders records as YAML.
func EncodeRecords(recs []Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(recs); err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}
	return buf.Bytes(), nil
}
