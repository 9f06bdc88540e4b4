package table

import (
	"cmp"
	"slices"

	"github.com/google/btree"
)

// bucket holds the live positions sharing one (column, value) key. Positions
// are kept in append order, which is also ascending order.
type bucket[C cmp.Ordered] struct {
	column    C
	value     Value
	positions []int
}

func bucketLess[C cmp.Ordered](a, b *bucket[C]) bool {
	if a.column != b.column {
		return a.column < b.column
	}
	return Compare(a.value, b.value) < 0
}

// SecondaryIndexSet is one ordered container serving every indexed column,
// whatever the type of its values, keyed by (column, Value).
// An empty bucket never stays in the tree.
type SecondaryIndexSet[C cmp.Ordered] struct {
	columns map[C]struct{}
	buckets *btree.BTreeG[*bucket[C]]
}

func NewSecondaryIndexSet[C cmp.Ordered]() *SecondaryIndexSet[C] {
	return &SecondaryIndexSet[C]{
		columns: map[C]struct{}{},
		buckets: btree.NewG(32, bucketLess[C]),
	}
}

func (s *SecondaryIndexSet[C]) IsIndexed(column C) bool {
	_, ok := s.columns[column]
	return ok
}

// Columns returns the indexed columns sorted
func (s *SecondaryIndexSet[C]) Columns() []C {
	result := make([]C, 0, len(s.columns))
	for column := range s.columns {
		result = append(result, column)
	}
	slices.Sort(result)
	return result
}

// Mark registers column as indexed, false if it already was
func (s *SecondaryIndexSet[C]) Mark(column C) bool {
	if s.IsIndexed(column) {
		return false
	}
	s.columns[column] = struct{}{}
	return true
}

// Unmark forgets column and deletes every one of its buckets
func (s *SecondaryIndexSet[C]) Unmark(column C) {
	delete(s.columns, column)
	s.ClearColumn(column)
}

func (s *SecondaryIndexSet[C]) Add(column C, value Value, pos int) {
	b, found := s.buckets.Get(&bucket[C]{column: column, value: value})
	if !found {
		s.buckets.ReplaceOrInsert(&bucket[C]{column: column, value: value, positions: []int{pos}})
		return
	}
	b.positions = append(b.positions, pos)
}

// Remove deletes pos from the (column, value) bucket, false if it was not there
func (s *SecondaryIndexSet[C]) Remove(column C, value Value, pos int) bool {
	b, found := s.buckets.Get(&bucket[C]{column: column, value: value})
	if !found {
		return false
	}
	if !b.remove(pos) {
		return false
	}
	if len(b.positions) == 0 {
		s.buckets.Delete(b)
	}
	return true
}

// RemoveFromColumn deletes pos from whatever bucket of column holds it. It
// visits every bucket of the column.
func (s *SecondaryIndexSet[C]) RemoveFromColumn(column C, pos int) bool {
	var empty []*bucket[C]
	removed := false
	s.ascendColumn(column, func(b *bucket[C]) bool {
		if !b.remove(pos) {
			return true
		}
		removed = true
		if len(b.positions) == 0 {
			empty = append(empty, b)
		}
		return true
	})
	for _, b := range empty {
		s.buckets.Delete(b)
	}
	return removed
}

// Lookup returns the positions stored for (column, value); the slice belongs to
// the index and must not be modified.
func (s *SecondaryIndexSet[C]) Lookup(column C, value Value) ([]int, bool) {
	b, found := s.buckets.Get(&bucket[C]{column: column, value: value})
	if !found {
		return nil, false
	}
	return b.positions, true
}

// ClearColumn deletes every bucket of column, keeping it marked
func (s *SecondaryIndexSet[C]) ClearColumn(column C) {
	var doomed []*bucket[C]
	s.ascendColumn(column, func(b *bucket[C]) bool {
		doomed = append(doomed, b)
		return true
	})
	for _, b := range doomed {
		s.buckets.Delete(b)
	}
}

// Clear deletes every bucket, keeping the set of marked columns
func (s *SecondaryIndexSet[C]) Clear() {
	s.buckets.Clear(false)
}

// Buckets counts the (column, value) entries
func (s *SecondaryIndexSet[C]) Buckets() int {
	return s.buckets.Len()
}

// Traverse visits every bucket of every column in (column, value) order
func (s *SecondaryIndexSet[C]) Traverse(f func(column C, value Value, positions []int) bool) {
	s.buckets.Ascend(func(b *bucket[C]) bool {
		return f(b.column, b.value, b.positions)
	})
}

func (s *SecondaryIndexSet[C]) ascendColumn(column C, f func(b *bucket[C]) bool) {
	// the zero Value is the smallest one, so this pivot starts the column
	pivot := &bucket[C]{column: column}
	s.buckets.AscendGreaterOrEqual(pivot, func(b *bucket[C]) bool {
		if b.column != column {
			return false
		}
		return f(b)
	})
}

func (b *bucket[C]) remove(pos int) bool {
	i, found := slices.BinarySearch(b.positions, pos)
	if !found {
		return false
	}
	b.positions = slices.Delete(b.positions, i, i+1)
	return true
}
