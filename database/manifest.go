package database

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fulldump/quickbase/table"
)

// Manifest declares the tables created at boot
type Manifest struct {
	Version int             `yaml:"version"`
	Tables  []TableManifest `yaml:"tables"`
}

type TableManifest struct {
	Name    string            `yaml:"name"`
	Kind    Kind              `yaml:"kind"`
	Columns []ColumnManifest  `yaml:"columns,omitempty"`
	Derived []DerivedManifest `yaml:"derived,omitempty"`
	Indexes []string          `yaml:"indexes,omitempty"`
}

// ColumnManifest is a physical column of a dynamic table. Default is parsed
// according to Type.
type ColumnManifest struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default string `yaml:"default,omitempty"`
}

type DerivedManifest struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Columns []string `yaml:"columns"`
}

func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return DecodeManifest(data)
}

func DecodeManifest(data []byte) (*Manifest, error) {
	manifest := &Manifest{}
	err := yaml.Unmarshal(data, manifest)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	err = manifest.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return manifest, nil
}

func (m *Manifest) Validate() error {
	if m.Version != 1 {
		return fmt.Errorf("unsupported version %d", m.Version)
	}

	names := map[string]bool{}
	for i, t := range m.Tables {
		if t.Name == "" {
			return fmt.Errorf("tables[%d]: %w", i, ErrInvalidTableName)
		}
		if names[t.Name] {
			return fmt.Errorf("table '%s': %w", t.Name, ErrTableAlreadyExists)
		}
		names[t.Name] = true

		switch t.Kind {
		case KindStatic:
			if len(t.Columns) > 0 || len(t.Derived) > 0 {
				return fmt.Errorf("table '%s': static tables have fixed columns", t.Name)
			}
		case KindDynamic:
		default:
			return fmt.Errorf("table '%s': %w", t.Name, ErrUnknownKind)
		}
	}

	return nil
}

// Apply creates every table of the manifest with its columns and indexes
func (db *Database) Apply(m *Manifest) error {
	for _, t := range m.Tables {
		entry, err := db.CreateTable(t.Name, t.Kind)
		if err != nil {
			return err
		}

		if t.Kind == KindDynamic {
			err = entry.WithDynamic(func(dt *table.DynamicTable) error {
				return applyColumns(dt, t)
			})
			if err != nil {
				return fmt.Errorf("table '%s': %w", t.Name, err)
			}
		}

		for _, column := range t.Indexes {
			err := entry.CreateIndex(column)
			if err != nil {
				return fmt.Errorf("table '%s': %w", t.Name, err)
			}
		}

		db.logger.Info("table loaded from manifest", "table", t.Name, "indexes", len(t.Indexes))
	}

	return nil
}

func applyColumns(dt *table.DynamicTable, t TableManifest) error {
	for _, c := range t.Columns {
		kind, err := table.ParseKind(c.Type)
		if err != nil {
			return fmt.Errorf("column '%s': %w", c.Name, err)
		}
		defaultValue := zeroValue(kind)
		if c.Default != "" {
			defaultValue, err = table.ParseValue(kind, c.Default)
		}
		if err != nil {
			return fmt.Errorf("column '%s': %w", c.Name, err)
		}
		if !dt.AddColumn(c.Name, defaultValue) {
			return fmt.Errorf("column '%s': %w", c.Name, ErrColumnTaken)
		}
	}

	for _, d := range t.Derived {
		fn, err := table.BuildDerived(d.Kind, d.Columns)
		if err != nil {
			return fmt.Errorf("derived '%s': %w", d.Name, err)
		}
		if !dt.AddDerivedColumn(d.Name, fn) {
			return fmt.Errorf("derived '%s': %w", d.Name, ErrColumnTaken)
		}
	}

	return nil
}

func zeroValue(kind table.Kind) table.Value {
	switch kind {
	case table.KindInt:
		return table.Int(0)
	case table.KindString:
		return table.String("")
	}
	return table.Uint(0)
}
