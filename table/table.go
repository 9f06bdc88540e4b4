package table

import (
	"fmt"
	"log/slog"
	"strings"
)

// Column identifies one of the four fixed columns of a Table
type Column uint8

const (
	Column0 Column = iota // primary key
	Column1
	Column2
	Column3
)

var columnNames = [...]string{"column0", "column1", "column2", "column3"}

func (c Column) String() string {
	if !c.Valid() {
		return fmt.Sprintf("column(%d)", uint8(c))
	}
	return columnNames[c]
}

func (c Column) Valid() bool {
	return c <= Column3
}

func ParseColumn(name string) (Column, error) {
	for i, n := range columnNames {
		if strings.EqualFold(n, name) {
			return Column(i), nil
		}
	}
	return 0, contractErrf("parse column", name, ErrUnknownColumn)
}

// Record is the fixed four column record, ID is Column0
type Record struct {
	ID      uint64 `json:"column0"`
	Column1 string `json:"column1"`
	Column2 int64  `json:"column2"`
	Column3 string `json:"column3"`
}

func recordKey(r *Record) uint64 {
	return r.ID
}

// Table is a single in-memory table of Records with a primary index on ID and
// optional secondary indexes on the other columns. It is not safe for
// concurrent use.
type Table struct {
	records   *Store[Record]
	primary   *PrimaryIndex
	secondary *SecondaryIndexSet[Column]
	logger    *slog.Logger
}

func NewTable() *Table {
	return &Table{
		records:   NewStore[Record](),
		primary:   NewPrimaryIndex(),
		secondary: NewSecondaryIndexSet[Column](),
		logger:    slog.New(slog.DiscardHandler),
	}
}

func (t *Table) WithLogger(l *slog.Logger) *Table {
	t.logger = l
	return t
}

// columnValue is never asked for Column0, the primary key has its own index
func columnValue(r *Record, c Column) Value {
	switch c {
	case Column1:
		return String(r.Column1)
	case Column2:
		return Int(r.Column2)
	case Column3:
		return String(r.Column3)
	}
	panic(contractErrf("column value", c.String(), ErrPrimaryKeyColumn))
}

// AddRecord appends record and indexes it. A record whose ID is already held by
// a live record is rejected with ErrDuplicateKey.
func (t *Table) AddRecord(record Record) error {
	if t.primary.Has(record.ID) {
		t.logger.Debug("insert rejected", "id", record.ID, "reason", ErrDuplicateKey)
		return fmt.Errorf("add record %d: %w", record.ID, ErrDuplicateKey)
	}

	pos := t.records.Append(record)
	t.primary.Upsert(record.ID, pos)

	stored := t.records.At(pos)
	for _, c := range t.secondary.Columns() {
		t.secondary.Add(c, columnValue(stored, c), pos)
	}

	return nil
}

// DeleteRecordByID removes the live record with key id. A soft delete
// tombstones it and evicts it from every index; a hard delete removes it from
// the store and rebuilds every index. False if no live record has that key.
func (t *Table) DeleteRecordByID(id uint64, hardDelete bool) bool {
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
	for _, c := range t.secondary.Columns() {
		if !t.secondary.Remove(c, columnValue(record, c), pos) {
			t.secondary.RemoveFromColumn(c, pos)
		}
	}

	return true
}

// CreateIndex builds a secondary index on c from every live record. It does
// nothing for Column0 or for an already indexed column.
func (t *Table) CreateIndex(c Column) error {
	if !c.Valid() {
		return contractErrf("create index", c.String(), ErrUnknownColumn)
	}
	if c == Column0 {
		return nil
	}
	if !t.secondary.Mark(c) {
		return nil
	}

	t.buildIndex(c)
	t.logger.Debug("index created", "column", c.String(), "buckets", t.secondary.Buckets())

	return nil
}

// DropIndex forgets the secondary index on c. Column0 can not be dropped.
func (t *Table) DropIndex(c Column) error {
	if !c.Valid() {
		return contractErrf("drop index", c.String(), ErrUnknownColumn)
	}
	if c == Column0 {
		return nil
	}

	t.secondary.Unmark(c)
	t.logger.Debug("index dropped", "column", c.String())

	return nil
}

func (t *Table) IsColumnIndexed(c Column) bool {
	if c == Column0 {
		return true
	}
	return t.secondary.IsIndexed(c)
}

// IndexedColumns lists the secondary indexed columns
func (t *Table) IndexedColumns() []Column {
	return t.secondary.Columns()
}

// FindMatching returns the live records whose column c matches matchString.
//
// Column0 and indexed columns use exact match. Non indexed string columns use
// substring containment and non indexed numeric columns exact match. Numeric
// match strings must parse entirely, otherwise the result is empty.
func (t *Table) FindMatching(c Column, matchString string) []Record {
	result := []Record{}

	if c == Column0 {
		id, ok := parseUint(matchString)
		if !ok {
			return result
		}
		pos, found := t.primary.Get(id)
		if !found || t.records.IsDeleted(pos) {
			return result
		}
		return append(result, *t.records.At(pos))
	}

	if !c.Valid() {
		return result
	}

	if t.secondary.IsIndexed(c) {
		var key Value
		switch c {
		case Column2:
			v, ok := parseInt(matchString)
			if !ok {
				return result
			}
			key = Int(v)
		default:
			key = String(matchString)
		}

		positions, found := t.secondary.Lookup(c, key)
		if !found {
			return result
		}
		for _, pos := range positions {
			if t.records.IsDeleted(pos) {
				continue
			}
			result = append(result, *t.records.At(pos))
		}
		return result
	}

	return t.linearScan(c, matchString)
}

func (t *Table) linearScan(c Column, matchString string) []Record {
	result := []Record{}

	var match func(r *Record) bool
	switch c {
	case Column1:
		match = func(r *Record) bool { return strings.Contains(r.Column1, matchString) }
	case Column2:
		v, ok := parseInt(matchString)
		if !ok {
			return result
		}
		match = func(r *Record) bool { return r.Column2 == v }
	case Column3:
		match = func(r *Record) bool { return strings.Contains(r.Column3, matchString) }
	default:
		return result
	}

	t.records.Traverse(func(pos int, r *Record) bool {
		if match(r) {
			result = append(result, *r)
		}
		return true
	})

	return result
}

// CompactRecords purges every tombstoned record and rebuilds all indexes
func (t *Table) CompactRecords() {
	purged := t.records.Tombstones()
	t.records.Compact()
	t.rebuildIndexes("compaction")
	t.logger.Debug("compacted", "purged", purged, "total", t.records.Len())
}

func (t *Table) ActiveRecordsCount() int {
	return t.records.Live()
}

func (t *Table) TotalRecordsCount() int {
	return t.records.Len()
}

func (t *Table) Stats() Stats {
	return Stats{
		Total:      t.records.Len(),
		Active:     t.records.Live(),
		Tombstones: t.records.Tombstones(),
		Indexes:    len(t.secondary.Columns()),
		Buckets:    t.secondary.Buckets(),
	}
}

func (t *Table) buildIndex(c Column) {
	t.secondary.ClearColumn(c)
	t.records.Traverse(func(pos int, r *Record) bool {
		t.secondary.Add(c, columnValue(r, c), pos)
		return true
	})
}

// rebuildIndexes is the only repair strategy after positions move: every
// index is recomputed from scratch.
func (t *Table) rebuildIndexes(reason string) {
	rebuildPrimary(t.primary, t.records, recordKey)
	t.secondary.Clear()
	for _, c := range t.secondary.Columns() {
		t.buildIndex(c)
	}
	t.logger.Debug("indexes rebuilt",
		"reason", reason,
		"total", t.records.Len(),
		"active", t.records.Live(),
	)
}
