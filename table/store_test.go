package table

import (
	"testing"

	"github.com/fulldump/biff"
)

func collect(s *Store[string]) []string {
	result := []string{}
	s.Traverse(func(pos int, r *string) bool {
		result = append(result, *r)
		return true
	})
	return result
}

func TestStore(t *testing.T) {
	biff.Alternative("Store", func(a *biff.A) {
		s := NewStore[string]()

		a.Alternative("Append", func(a *biff.A) {
			biff.AssertEqual(s.Append("a"), 0)
			biff.AssertEqual(s.Append("b"), 1)
			biff.AssertEqual(s.Append("c"), 2)
			biff.AssertEqual(s.Len(), 3)
			biff.AssertEqual(s.Live(), 3)

			a.Alternative("Tombstone", func(a *biff.A) {
				biff.AssertTrue(s.Tombstone(1))
				biff.AssertFalse(s.Tombstone(1))
				biff.AssertTrue(s.IsDeleted(1))
				biff.AssertEqual(s.Live(), 2)
				biff.AssertEqual(s.Len(), 3)
				biff.AssertEqual(collect(s), []string{"a", "c"})

				a.Alternative("Compact", func(a *biff.A) {
					s.Compact()
					biff.AssertEqual(s.Len(), 2)
					biff.AssertEqual(s.Tombstones(), 0)
					biff.AssertEqual(*s.At(1), "c")
				})

				a.Alternative("SwapRemove a tombstone", func(a *biff.A) {
					s.SwapRemove(1)
					biff.AssertEqual(s.Len(), 2)
					biff.AssertEqual(s.Tombstones(), 0)
					biff.AssertEqual(collect(s), []string{"a", "c"})
				})

				a.Alternative("SwapRemove moves the tombstone", func(a *biff.A) {
					s.SwapRemove(0)
					biff.AssertEqual(s.Len(), 2)
					biff.AssertEqual(*s.At(0), "c")
					biff.AssertFalse(s.IsDeleted(0))
					biff.AssertTrue(s.IsDeleted(1))
					biff.AssertEqual(s.Tombstones(), 1)
				})
			})

			a.Alternative("SwapRemove last", func(a *biff.A) {
				s.SwapRemove(2)
				biff.AssertEqual(collect(s), []string{"a", "b"})
			})
		})
	})
}

func TestSecondaryIndexSet(t *testing.T) {
	biff.Alternative("Index set", func(a *biff.A) {
		s := NewSecondaryIndexSet[string]()
		biff.AssertTrue(s.Mark("color"))
		biff.AssertFalse(s.Mark("color"))
		biff.AssertTrue(s.Mark("size"))

		s.Add("color", String("red"), 0)
		s.Add("color", String("blue"), 1)
		s.Add("color", String("red"), 2)
		s.Add("size", Int(3), 0)
		s.Add("size", Uint(3), 1)

		positions, found := s.Lookup("color", String("red"))
		biff.AssertTrue(found)
		biff.AssertEqual(positions, []int{0, 2})
		biff.AssertEqual(s.Buckets(), 4)

		a.Alternative("Remove keeps no empty bucket", func(a *biff.A) {
			biff.AssertTrue(s.Remove("color", String("blue"), 1))
			biff.AssertFalse(s.Remove("color", String("blue"), 1))
			_, found := s.Lookup("color", String("blue"))
			biff.AssertFalse(found)
			biff.AssertEqual(s.Buckets(), 3)
		})

		a.Alternative("Remove from column", func(a *biff.A) {
			biff.AssertTrue(s.RemoveFromColumn("color", 2))
			biff.AssertFalse(s.RemoveFromColumn("color", 2))
			positions, _ := s.Lookup("color", String("red"))
			biff.AssertEqual(positions, []int{0})
		})

		a.Alternative("Typed keys do not collide", func(a *biff.A) {
			positions, _ := s.Lookup("size", Int(3))
			biff.AssertEqual(positions, []int{0})
			positions, _ = s.Lookup("size", Uint(3))
			biff.AssertEqual(positions, []int{1})
		})

		a.Alternative("Unmark drops only its buckets", func(a *biff.A) {
			s.Unmark("color")
			biff.AssertFalse(s.IsIndexed("color"))
			biff.AssertEqual(s.Columns(), []string{"size"})
			biff.AssertEqual(s.Buckets(), 2)
		})

		a.Alternative("Clear keeps marks", func(a *biff.A) {
			s.Clear()
			biff.AssertEqual(s.Buckets(), 0)
			biff.AssertEqual(s.Columns(), []string{"color", "size"})
		})
	})
}
