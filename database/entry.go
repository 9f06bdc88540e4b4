package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fulldump/quickbase/table"
)

// Kind selects the flavour of a catalog table
type Kind string

const (
	KindStatic  Kind = "static"
	KindDynamic Kind = "dynamic"
)

var (
	ErrWrongKind   = errors.New("operation not supported by this table kind")
	ErrColumnTaken = errors.New("column name already taken")
)

// Entry is a named table in the catalog. Tables are single threaded, so every
// access goes through the entry mutex.
type Entry struct {
	Name      string
	ID        uuid.UUID
	Kind      Kind
	CreatedAt time.Time

	mutex   sync.Mutex
	static  *table.Table
	dynamic *table.DynamicTable
}

func newEntry(name string, kind Kind) *Entry {
	return &Entry{
		Name:      name,
		ID:        uuid.New(),
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}

func (e *Entry) lockBlock(f func() error) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return f()
}

// WithStatic runs f holding the entry lock. It fails with ErrWrongKind on a
// dynamic table.
func (e *Entry) WithStatic(f func(t *table.Table) error) error {
	if e.static == nil {
		return fmt.Errorf("table '%s' is %s: %w", e.Name, e.Kind, ErrWrongKind)
	}
	return e.lockBlock(func() error {
		return f(e.static)
	})
}

// WithDynamic runs f holding the entry lock. It fails with ErrWrongKind on a
// static table.
func (e *Entry) WithDynamic(f func(t *table.DynamicTable) error) error {
	if e.dynamic == nil {
		return fmt.Errorf("table '%s' is %s: %w", e.Name, e.Kind, ErrWrongKind)
	}
	return e.lockBlock(func() error {
		return f(e.dynamic)
	})
}

func (e *Entry) Stats() (stats table.Stats) {
	e.lockBlock(func() error {
		if e.static != nil {
			stats = e.static.Stats()
		} else {
			stats = e.dynamic.Stats()
		}
		return nil
	})
	return
}

// IndexedColumns lists the secondary indexed columns, the primary key excluded
func (e *Entry) IndexedColumns() (columns []string) {
	e.lockBlock(func() error {
		if e.dynamic != nil {
			columns = e.dynamic.IndexedColumns()
			return nil
		}
		columns = []string{}
		for _, c := range e.static.IndexedColumns() {
			columns = append(columns, c.String())
		}
		return nil
	})
	return
}

// Columns lists the physical columns followed by the derived ones
func (e *Entry) Columns() (physical, derived []string) {
	e.lockBlock(func() error {
		if e.dynamic != nil {
			physical = append([]string{table.PrimaryKeyColumn}, e.dynamic.Columns()...)
			derived = append([]string{}, e.dynamic.DerivedColumns()...)
			return nil
		}
		for _, c := range []table.Column{table.Column0, table.Column1, table.Column2, table.Column3} {
			physical = append(physical, c.String())
		}
		derived = []string{}
		return nil
	})
	return
}

func (e *Entry) CreateIndex(column string) error {
	return e.lockBlock(func() error {
		if e.dynamic != nil {
			return e.dynamic.CreateIndex(column)
		}
		c, err := table.ParseColumn(column)
		if err != nil {
			return err
		}
		return e.static.CreateIndex(c)
	})
}

func (e *Entry) DropIndex(column string) error {
	return e.lockBlock(func() error {
		if e.dynamic != nil {
			return e.dynamic.DropIndex(column)
		}
		c, err := table.ParseColumn(column)
		if err != nil {
			return err
		}
		return e.static.DropIndex(c)
	})
}

func (e *Entry) Delete(id uint64, hardDelete bool) (deleted bool) {
	e.lockBlock(func() error {
		if e.dynamic != nil {
			deleted = e.dynamic.DeleteRecordByID(id, hardDelete)
		} else {
			deleted = e.static.DeleteRecordByID(id, hardDelete)
		}
		return nil
	})
	return
}

func (e *Entry) Compact() {
	e.lockBlock(func() error {
		if e.dynamic != nil {
			e.dynamic.CompactRecords()
		} else {
			e.static.CompactRecords()
		}
		return nil
	})
}
