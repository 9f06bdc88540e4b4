package table

// Store is an append-only positional array of records plus a parallel
// tombstone array of the same length. Position is the only identity a record
// has inside the store.
type Store[R any] struct {
	records    []R
	deleted    []bool
	tombstones int
}

func NewStore[R any]() *Store[R] {
	return &Store[R]{
		records: []R{},
		deleted: []bool{},
	}
}

// Append always writes at the next free position, holes are never reused
func (s *Store[R]) Append(record R) int {
	pos := len(s.records)
	s.records = append(s.records, record)
	s.deleted = append(s.deleted, false)
	return pos
}

func (s *Store[R]) Len() int {
	return len(s.records)
}

func (s *Store[R]) Live() int {
	return len(s.records) - s.tombstones
}

func (s *Store[R]) Tombstones() int {
	return s.tombstones
}

func (s *Store[R]) InRange(pos int) bool {
	return pos >= 0 && pos < len(s.records)
}

// At returns a pointer into the backing array. It is only valid until the next
// Append, SwapRemove or Compact.
func (s *Store[R]) At(pos int) *R {
	return &s.records[pos]
}

func (s *Store[R]) IsDeleted(pos int) bool {
	return s.deleted[pos]
}

// Tombstone marks pos as logically deleted, false if it already was
func (s *Store[R]) Tombstone(pos int) bool {
	if s.deleted[pos] {
		return false
	}
	s.deleted[pos] = true
	s.tombstones++
	return true
}

// SwapRemove physically removes pos by moving the last record into its slot
// and truncating. Every position held outside the store is invalid afterwards.
func (s *Store[R]) SwapRemove(pos int) {
	if s.deleted[pos] {
		s.tombstones--
	}

	last := len(s.records) - 1
	s.records[pos] = s.records[last]
	s.deleted[pos] = s.deleted[last]

	var zero R
	s.records[last] = zero
	s.records = s.records[:last]
	s.deleted = s.deleted[:last]
}

// Compact drops every tombstoned record, renumbering the survivors while
// keeping their relative order.
func (s *Store[R]) Compact() {
	compacted := make([]R, 0, s.Live())
	for pos, record := range s.records {
		if s.deleted[pos] {
			continue
		}
		compacted = append(compacted, record)
	}

	s.records = compacted
	s.deleted = make([]bool, len(compacted))
	s.tombstones = 0
}

// Traverse visits live records in position order until f returns false
func (s *Store[R]) Traverse(f func(pos int, record *R) bool) {
	for pos := range s.records {
		if s.deleted[pos] {
			continue
		}
		if !f(pos, &s.records[pos]) {
			return
		}
	}
}

// TraverseAll visits every record, tombstoned ones included
func (s *Store[R]) TraverseAll(f func(pos int, record *R) bool) {
	for pos := range s.records {
		if !f(pos, &s.records[pos]) {
			return
		}
	}
}
