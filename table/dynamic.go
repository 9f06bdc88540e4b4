package table

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// PrimaryKeyColumn is the reserved column name of DynamicRecord.ID
const PrimaryKeyColumn = "id"

// DynamicRecord carries any subset of the registered columns
type DynamicRecord struct {
	ID     uint64           `json:"id"`
	Fields map[string]Value `json:"fields"`
}

func (r DynamicRecord) clone() DynamicRecord {
	return DynamicRecord{
		ID:     r.ID,
		Fields: maps.Clone(r.Fields),
	}
}

func dynamicKey(r *DynamicRecord) uint64 {
	return r.ID
}

// DerivedFunc computes a derived column from a whole record. It is called on
// every access and its results are never cached. It receives a copy, so
// writing to the record has no effect on the table.
type DerivedFunc func(r DynamicRecord) Value

// DynamicTable is a table whose columns are registered at runtime. Besides
// physical columns it supports derived columns computed from the other fields.
// It is not safe for concurrent use.
type DynamicTable struct {
	records   *Store[DynamicRecord]
	columns   map[string]struct{}
	derived   map[string]DerivedFunc
	primary   *PrimaryIndex
	secondary *SecondaryIndexSet[string]
	logger    *slog.Logger
}

func NewDynamicTable() *DynamicTable {
	return &DynamicTable{
		records:   NewStore[DynamicRecord](),
		columns:   map[string]struct{}{},
		derived:   map[string]DerivedFunc{},
		primary:   NewPrimaryIndex(),
		secondary: NewSecondaryIndexSet[string](),
		logger:    slog.New(slog.DiscardHandler),
	}
}

func (t *DynamicTable) WithLogger(l *slog.Logger) *DynamicTable {
	t.logger = l
	return t
}

func (t *DynamicTable) isPhysical(name string) bool {
	_, ok := t.columns[name]
	return ok
}

func (t *DynamicTable) isDerived(name string) bool {
	_, ok := t.derived[name]
	return ok
}

func (t *DynamicTable) isKnown(name string) bool {
	return t.isPhysical(name) || t.isDerived(name)
}

// AddColumn registers a physical column and sets it to defaultValue on every
// stored record that does not have it yet. False if the name is taken.
func (t *DynamicTable) AddColumn(name string, defaultValue Value) bool {
	if name == PrimaryKeyColumn || t.isKnown(name) {
		return false
	}

	t.columns[name] = struct{}{}
	t.records.TraverseAll(func(pos int, r *DynamicRecord) bool {
		if r.Fields == nil {
			r.Fields = map[string]Value{}
		}
		if _, exists := r.Fields[name]; !exists {
			r.Fields[name] = defaultValue
		}
		return true
	})
	t.logger.Debug("column added", "column", name, "default", defaultValue.String())

	return true
}

// RemoveColumn unregisters a physical or derived column, drops its index and
// strips the field from every record. It can not be undone.
func (t *DynamicTable) RemoveColumn(name string) {
	if name == PrimaryKeyColumn {
		return
	}

	delete(t.columns, name)
	delete(t.derived, name)
	t.secondary.Unmark(name)
	t.records.TraverseAll(func(pos int, r *DynamicRecord) bool {
		delete(r.Fields, name)
		return true
	})
	t.logger.Debug("column removed", "column", name)
}

// AddDerivedColumn registers a computed column. False if the name is taken by
// a physical or derived column.
func (t *DynamicTable) AddDerivedColumn(name string, fn DerivedFunc) bool {
	if fn == nil || name == PrimaryKeyColumn || t.isKnown(name) {
		return false
	}

	t.derived[name] = fn
	t.logger.Debug("derived column added", "column", name)

	return true
}

// Columns lists the physical columns sorted
func (t *DynamicTable) Columns() []string {
	return slices.Sorted(maps.Keys(t.columns))
}

// DerivedColumns lists the derived columns sorted
func (t *DynamicTable) DerivedColumns() []string {
	return slices.Sorted(maps.Keys(t.derived))
}

// IndexedColumns lists the secondary indexed columns sorted
func (t *DynamicTable) IndexedColumns() []string {
	return t.secondary.Columns()
}

func (t *DynamicTable) IsColumnIndexed(name string) bool {
	if name == PrimaryKeyColumn {
		return true
	}
	return t.secondary.IsIndexed(name)
}

// resolve finds the value of column for r: physical field first, then derived
// column. ok is false when neither exists for this record.
func (t *DynamicTable) resolve(r *DynamicRecord, column string) (Value, bool) {
	if v, ok := r.Fields[column]; ok {
		return v, true
	}
	if fn, ok := t.derived[column]; ok {
		return fn(r.clone()), true
	}
	return Value{}, false
}

// Field returns the value of column for the record at pos, resolving a physical
// field first and then a derived column.
func (t *DynamicTable) Field(pos int, column string) (Value, error) {
	if !t.records.InRange(pos) {
		return Value{}, contractErrf("field", column, fmt.Errorf("%w: %d", ErrPositionOutOfRange, pos))
	}
	if column == PrimaryKeyColumn {
		return Value{}, contractErrf("field", column, ErrPrimaryKeyColumn)
	}
	v, ok := t.resolve(t.records.At(pos), column)
	if !ok {
		return Value{}, contractErrf("field", column, ErrUnknownColumn)
	}
	return v, nil
}

// AddRecord appends a copy of record. It is rejected with ErrUnknownField if
// any field is not a registered physical column and with ErrDuplicateKey if a
// live record already has its ID. Records do not need every column.
func (t *DynamicTable) AddRecord(record DynamicRecord) error {
	for name := range record.Fields {
		if !t.isPhysical(name) {
			t.logger.Debug("insert rejected", "id", record.ID, "field", name, "reason", ErrUnknownField)
			return fmt.Errorf("add record %d: field '%s': %w", record.ID, name, ErrUnknownField)
		}
	}
	if t.primary.Has(record.ID) {
		t.logger.Debug("insert rejected", "id", record.ID, "reason", ErrDuplicateKey)
		return fmt.Errorf("add record %d: %w", record.ID, ErrDuplicateKey)
	}

	pos := t.records.Append(record.clone())
	t.primary.Upsert(record.ID, pos)

	stored := t.records.At(pos)
	for _, column := range t.secondary.Columns() {
		if v, ok := t.resolve(stored, column); ok {
			t.secondary.Add(column, v, pos)
		}
	}

	return nil
}

// DeleteRecordByID works like Table.DeleteRecordByID
func (t *DynamicTable) DeleteRecordByID(id uint64, hardDelete bool) bool {
	pos, ok := t.primary.Get(id)
	if !ok {
		return false
	}

	if hardDelete {
		t.records.SwapRemove(pos)
		t.rebuildIndexes("hard delete")
		return true
	}

	if !t.records.Tombstone(pos) {
		return false
	}
	t.primary.Remove(id)

	record := t.records.At(pos)
	for _, column := range t.secondary.Columns() {
		v, found := t.resolve(record, column)
		if found && t.secondary.Remove(column, v, pos) {
			continue
		}
		// the value may have changed since indexing (derived or re-added columns)
		t.secondary.RemoveFromColumn(column, pos)
	}

	return true
}

// CreateIndex builds a secondary index over a physical or derived column.
// Records that do not carry a physical column are left out of its index.
func (t *DynamicTable) CreateIndex(column string) error {
	if column == PrimaryKeyColumn {
		return nil
	}
	if !t.isKnown(column) {
		return contractErrf("create index", column, ErrUnknownColumn)
	}
	if !t.secondary.Mark(column) {
		return nil
	}

	t.buildIndex(column)
	t.logger.Debug("index created", "column", column, "buckets", t.secondary.Buckets())

	return nil
}

// DropIndex forgets the secondary index on column. The primary key can not be
// dropped.
func (t *DynamicTable) DropIndex(column string) error {
	if column == PrimaryKeyColumn {
		return nil
	}
	if !t.isKnown(column) {
		return contractErrf("drop index", column, ErrUnknownColumn)
	}

	t.secondary.Unmark(column)
	t.logger.Debug("index dropped", "column", column)

	return nil
}

// FindMatching returns the live records whose column equals value. The
// primary key column only matches unsigned values.
func (t *DynamicTable) FindMatching(column string, value Value) []DynamicRecord {
	result := []DynamicRecord{}

	if column == PrimaryKeyColumn {
		id, ok := value.AsUint()
		if !ok {
			return result
		}
		pos, found := t.primary.Get(id)
		if !found || t.records.IsDeleted(pos) {
			return result
		}
		return append(result, t.records.At(pos).clone())
	}

	if t.secondary.IsIndexed(column) {
		positions, found := t.secondary.Lookup(column, value)
		if !found {
			return result
		}
		for _, pos := range positions {
			if t.records.IsDeleted(pos) {
				continue
			}
			result = append(result, t.records.At(pos).clone())
		}
		return result
	}

	t.records.Traverse(func(pos int, r *DynamicRecord) bool {
		if v, ok := t.resolve(r, column); ok && v == value {
			result = append(result, r.clone())
		}
		return true
	})

	return result
}

// CompactRecords purges every tombstoned record and rebuilds all indexes
func (t *DynamicTable) CompactRecords() {
	purged := t.records.Tombstones()
	t.records.Compact()
	t.rebuildIndexes("compaction")
	t.logger.Debug("compacted", "purged", purged, "total", t.records.Len())
}

func (t *DynamicTable) ActiveRecordsCount() int {
	return t.records.Live()
}

func (t *DynamicTable) TotalRecordsCount() int {
	return t.records.Len()
}

func (t *DynamicTable) Stats() Stats {
	return Stats{
		Total:      t.records.Len(),
		Active:     t.records.Live(),
		Tombstones: t.records.Tombstones(),
		Indexes:    len(t.secondary.Columns()),
		Buckets:    t.secondary.Buckets(),
	}
}

func (t *DynamicTable) buildIndex(column string) {
	t.secondary.ClearColumn(column)
	t.records.Traverse(func(pos int, r *DynamicRecord) bool {
		if v, ok := t.resolve(r, column); ok {
			t.secondary.Add(column, v, pos)
		}
		return true
	})
}

func (t *DynamicTable) rebuildIndexes(reason string) {
	rebuildPrimary(t.primary, t.records, dynamicKey)
	t.secondary.Clear()
	for _, column := range t.secondary.Columns() {
		t.buildIndex(column)
	}
	t.logger.Debug("indexes rebuilt",
		"reason", reason,
		"total", t.records.Len(),
		"active", t.records.Live(),
	)
}
