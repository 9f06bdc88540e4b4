package table

// PrimaryIndex maps a unique key to the position of its live record
type PrimaryIndex struct {
	entries map[uint64]int
}

func NewPrimaryIndex() *PrimaryIndex {
	return &PrimaryIndex{
		entries: map[uint64]int{},
	}
}

// Upsert overwrites any previous mapping for key
func (p *PrimaryIndex) Upsert(key uint64, pos int) {
	p.entries[key] = pos
}

func (p *PrimaryIndex) Get(key uint64) (int, bool) {
	pos, ok := p.entries[key]
	return pos, ok
}

func (p *PrimaryIndex) Has(key uint64) bool {
	_, ok := p.entries[key]
	return ok
}

func (p *PrimaryIndex) Remove(key uint64) {
	delete(p.entries, key)
}

func (p *PrimaryIndex) Len() int {
	return len(p.entries)
}

// rebuildPrimary clears the index and repopulates it from every live position of s
func rebuildPrimary[R any](p *PrimaryIndex, s *Store[R], key func(record *R) uint64) {
	clear(p.entries)
	s.Traverse(func(pos int, record *R) bool {
		p.entries[key(record)] = pos
		return true
	})
}
