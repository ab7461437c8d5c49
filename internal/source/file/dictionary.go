// Package file reads the data dictionary from a YAML document.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/dqc/internal/source"
)

type document struct {
	Fields []source.DictionaryRow `yaml:"fields"`
}

type Dictionary struct {
	path string
}

func NewDictionary(path string) *Dictionary {
	return &Dictionary{path: path}
}

func (d *Dictionary) Dictionary(_ context.Context) ([]source.DictionaryRow, error) {
	if d.path == "" {
		return nil, errors.New("dictionary path is required")
	}
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML dictionary document.
func Parse(data []byte) ([]source.DictionaryRow, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, errors.New("dictionary has no fields")
	}
	for i, row := range doc.Fields {
		if row.PK != 0 && row.PK != 1 {
			return nil, fmt.Errorf("dictionary entry %d (%s.%s): pk must be 0 or 1, got %d", i, row.Table, row.Field, row.PK)
		}
	}
	return doc.Fields, nil
}
