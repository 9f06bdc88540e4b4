package table

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/fulldump/biff"
)

func newPeople() *DynamicTable {
	people := NewDynamicTable()
	people.AddColumn("name", String(""))
	people.AddColumn("age", Int(0))
	people.AddColumn("city", String(""))

	people.AddRecord(DynamicRecord{ID: 1, Fields: map[string]Value{"name": String("alice"), "age": Int(30), "city": String("madrid")}})
	people.AddRecord(DynamicRecord{ID: 2, Fields: map[string]Value{"name": String("bob"), "age": Int(25), "city": String("lisbon")}})
	people.AddRecord(DynamicRecord{ID: 3, Fields: map[string]Value{"name": String("carol"), "age": Int(30)}})

	return people
}

func ids(records []DynamicRecord) []uint64 {
	result := []uint64{}
	for _, r := range records {
		result = append(result, r.ID)
	}
	return result
}

func assertDynamicConsistent(t *DynamicTable) {
	live := 0
	t.records.TraverseAll(func(pos int, r *DynamicRecord) bool {
		if t.records.IsDeleted(pos) {
			return true
		}
		live++
		p, ok := t.primary.Get(r.ID)
		biff.AssertTrue(ok)
		biff.AssertEqual(p, pos)
		for _, column := range t.secondary.Columns() {
			v, ok := t.resolve(r, column)
			if !ok {
				continue
			}
			positions, found := t.secondary.Lookup(column, v)
			biff.AssertTrue(found)
			biff.AssertInArray(positions, pos)
		}
		return true
	})
	biff.AssertEqual(t.ActiveRecordsCount(), live)
	t.secondary.Traverse(func(column string, v Value, positions []int) bool {
		biff.AssertTrue(len(positions) > 0)
		for _, pos := range positions {
			biff.AssertFalse(t.records.IsDeleted(pos))
		}
		return true
	})
}

func TestDynamicTable(t *testing.T) {

	biff.Alternative("People table", func(a *biff.A) {

		people := newPeople()
		biff.AssertEqual(people.Columns(), []string{"age", "city", "name"})
		biff.AssertEqual(people.ActiveRecordsCount(), 3)

		a.Alternative("Primary key", func(a *biff.A) {
			biff.AssertEqual(ids(people.FindMatching("id", Uint(2))), []uint64{2})
			biff.AssertEqual(ids(people.FindMatching("id", Int(2))), []uint64{})
			biff.AssertEqual(ids(people.FindMatching("id", Uint(9))), []uint64{})
		})

		a.Alternative("Linear scan is exact and typed", func(a *biff.A) {
			biff.AssertEqual(ids(people.FindMatching("age", Int(30))), []uint64{1, 3})
			biff.AssertEqual(ids(people.FindMatching("age", Uint(30))), []uint64{})
			biff.AssertEqual(ids(people.FindMatching("name", String("ali"))), []uint64{})
			biff.AssertEqual(ids(people.FindMatching("nope", String("x"))), []uint64{})
		})

		a.Alternative("Index on age", func(a *biff.A) {
			biff.AssertNil(people.CreateIndex("age"))
			biff.AssertTrue(people.IsColumnIndexed("age"))
			biff.AssertEqual(ids(people.FindMatching("age", Int(30))), []uint64{1, 3})
			assertDynamicConsistent(people)

			a.Alternative("Soft delete", func(a *biff.A) {
				biff.AssertTrue(people.DeleteRecordByID(1, false))
				biff.AssertFalse(people.DeleteRecordByID(1, false))
				biff.AssertEqual(ids(people.FindMatching("age", Int(30))), []uint64{3})
				biff.AssertEqual(people.TotalRecordsCount(), 3)
				biff.AssertEqual(people.ActiveRecordsCount(), 2)
				assertDynamicConsistent(people)

				a.Alternative("Compact", func(a *biff.A) {
					people.CompactRecords()
					biff.AssertEqual(people.TotalRecordsCount(), 2)
					biff.AssertEqual(people.ActiveRecordsCount(), 2)
					biff.AssertEqual(ids(people.FindMatching("age", Int(30))), []uint64{3})
					biff.AssertEqual(ids(people.FindMatching("id", Uint(2))), []uint64{2})
					assertDynamicConsistent(people)
				})
			})

			a.Alternative("Hard delete", func(a *biff.A) {
				biff.AssertTrue(people.DeleteRecordByID(1, true))
				biff.AssertEqual(people.TotalRecordsCount(), 2)
				biff.AssertEqual(ids(people.FindMatching("age", Int(30))), []uint64{3})
				biff.AssertEqual(ids(people.FindMatching("id", Uint(3))), []uint64{3})
				assertDynamicConsistent(people)
			})

			a.Alternative("Drop index", func(a *biff.A) {
				biff.AssertNil(people.DropIndex("age"))
				biff.AssertFalse(people.IsColumnIndexed("age"))
				biff.AssertEqual(people.secondary.Buckets(), 0)
			})
		})

		a.Alternative("Sparse records are not indexed", func(a *biff.A) {
			biff.AssertNil(people.CreateIndex("city"))
			biff.AssertEqual(ids(people.FindMatching("city", String("madrid"))), []uint64{1})
			biff.AssertTrue(people.DeleteRecordByID(3, false))
			assertDynamicConsistent(people)
		})

		a.Alternative("Schema enforcement", func(a *biff.A) {
			err := people.AddRecord(DynamicRecord{ID: 4, Fields: map[string]Value{"email": String("x")}})
			biff.AssertTrue(errors.Is(err, ErrUnknownField))
			biff.AssertFalse(IsContractViolation(err))
			biff.AssertEqual(people.TotalRecordsCount(), 3)

			err = people.AddRecord(DynamicRecord{ID: 2})
			biff.AssertTrue(errors.Is(err, ErrDuplicateKey))

			biff.AssertNil(people.AddRecord(DynamicRecord{ID: 4}))
			biff.AssertEqual(people.ActiveRecordsCount(), 4)
		})

		a.Alternative("Stored records are copies", func(a *biff.A) {
			fields := map[string]Value{"name": String("dave")}
			biff.AssertNil(people.AddRecord(DynamicRecord{ID: 4, Fields: fields}))
			fields["name"] = String("mallory")

			found := people.FindMatching("id", Uint(4))
			biff.AssertEqual(found[0].Fields["name"], String("dave"))
			found[0].Fields["name"] = String("eve")
			biff.AssertEqual(people.FindMatching("id", Uint(4))[0].Fields["name"], String("dave"))
		})

		a.Alternative("Add column", func(a *biff.A) {
			biff.AssertFalse(people.AddColumn("name", String("")))
			biff.AssertFalse(people.AddColumn("id", Uint(0)))
			biff.AssertTrue(people.AddColumn("active", Uint(1)))

			biff.AssertEqual(ids(people.FindMatching("active", Uint(1))), []uint64{1, 2, 3})
			v, err := people.Field(2, "active")
			biff.AssertNil(err)
			biff.AssertEqual(v, Uint(1))
		})

		a.Alternative("Remove column", func(a *biff.A) {
			biff.AssertNil(people.CreateIndex("city"))
			people.RemoveColumn("city")
			biff.AssertEqual(people.Columns(), []string{"age", "name"})
			biff.AssertFalse(people.IsColumnIndexed("city"))
			biff.AssertEqual(people.secondary.Buckets(), 0)

			_, err := people.Field(0, "city")
			biff.AssertTrue(errors.Is(err, ErrUnknownColumn))

			err = people.AddRecord(DynamicRecord{ID: 9, Fields: map[string]Value{"city": String("rome")}})
			biff.AssertTrue(errors.Is(err, ErrUnknownField))
		})

		a.Alternative("Derived column", func(a *biff.A) {
			biff.AssertFalse(people.AddDerivedColumn("name", DerivedLength("name")))
			biff.AssertTrue(people.AddDerivedColumn("label", DerivedConcat("name", "age")))
			biff.AssertFalse(people.AddDerivedColumn("label", DerivedLength("name")))
			biff.AssertEqual(people.DerivedColumns(), []string{"label"})

			v, err := people.Field(1, "label")
			biff.AssertNil(err)
			biff.AssertEqual(v, String("bob25"))

			biff.AssertEqual(ids(people.FindMatching("label", String("carol30"))), []uint64{3})

			a.Alternative("Indexed", func(a *biff.A) {
				biff.AssertNil(people.CreateIndex("label"))
				biff.AssertEqual(ids(people.FindMatching("label", String("alice30"))), []uint64{1})
				biff.AssertTrue(people.DeleteRecordByID(1, false))
				biff.AssertEqual(ids(people.FindMatching("label", String("alice30"))), []uint64{})
				assertDynamicConsistent(people)
			})

			a.Alternative("Stale index is still cleaned on delete", func(a *biff.A) {
				biff.AssertNil(people.CreateIndex("label"))
				people.RemoveColumn("age")
				// the index still holds "alice30" although label now computes "alice"
				biff.AssertEqual(ids(people.FindMatching("label", String("alice30"))), []uint64{1})
				biff.AssertTrue(people.DeleteRecordByID(1, false))
				biff.AssertEqual(ids(people.FindMatching("label", String("alice30"))), []uint64{})
				people.secondary.Traverse(func(column string, v Value, positions []int) bool {
					biff.AssertFalse(people.records.IsDeleted(positions[0]))
					return true
				})
			})
		})

		a.Alternative("Contract violations", func(a *biff.A) {
			err := people.CreateIndex("nope")
			biff.AssertTrue(IsContractViolation(err))
			biff.AssertTrue(errors.Is(err, ErrUnknownColumn))

			err = people.DropIndex("nope")
			biff.AssertTrue(IsContractViolation(err))

			biff.AssertNil(people.CreateIndex("id"))
			biff.AssertNil(people.DropIndex("id"))
			biff.AssertTrue(people.IsColumnIndexed("id"))

			_, err = people.Field(0, "nope")
			biff.AssertTrue(IsContractViolation(err))

			_, err = people.Field(0, "id")
			biff.AssertTrue(errors.Is(err, ErrPrimaryKeyColumn))

			_, err = people.Field(99, "name")
			biff.AssertTrue(errors.Is(err, ErrPositionOutOfRange))
		})
	})
}

func TestBuildDerived(t *testing.T) {

	r := DynamicRecord{ID: 1, Fields: map[string]Value{
		"a": Int(-3),
		"b": Uint(10),
		"c": String("hello"),
	}}

	sum, err := BuildDerived(DerivedKindSum, []string{"a", "b", "c", "missing"})
	biff.AssertNil(err)
	biff.AssertEqual(sum(r), Int(7))

	length, err := BuildDerived(DerivedKindLength, []string{"c"})
	biff.AssertNil(err)
	biff.AssertEqual(length(r), Uint(5))

	_, err = BuildDerived(DerivedKindLength, []string{"a", "b"})
	biff.AssertNotNil(err)

	_, err = BuildDerived("avg", nil)
	biff.AssertNotNil(err)
}

func TestDerivedSum_Saturates(t *testing.T) {

	r := DynamicRecord{ID: 1, Fields: map[string]Value{
		"huge":  Uint(math.MaxUint64),
		"big":   Int(math.MaxInt64),
		"small": Int(math.MinInt64),
		"one":   Int(-1),
	}}

	biff.AssertEqual(DerivedSum("huge")(r), Int(math.MaxInt64))
	biff.AssertEqual(DerivedSum("big", "huge")(r), Int(math.MaxInt64))
	biff.AssertEqual(DerivedSum("small", "one")(r), Int(math.MinInt64))
	biff.AssertEqual(DerivedSum("small", "big")(r), Int(-1))
}

func TestDynamicTable_DerivedGetsCopy(t *testing.T) {

	people := newPeople()
	people.AddDerivedColumn("greedy", func(r DynamicRecord) Value {
		r.Fields["name"] = String("mallory")
		delete(r.Fields, "age")
		return Uint(1)
	})
	biff.AssertNil(people.CreateIndex("name"))
	biff.AssertNil(people.CreateIndex("greedy"))

	biff.AssertEqual(ids(people.FindMatching("greedy", Uint(1))), []uint64{1, 2, 3})
	biff.AssertEqual(ids(people.FindMatching("name", String("alice"))), []uint64{1})
	biff.AssertEqual(ids(people.FindMatching("name", String("mallory"))), []uint64{})

	v, err := people.Field(0, "age")
	biff.AssertNil(err)
	biff.AssertEqual(v, Int(30))
	assertDynamicConsistent(people)
}

func TestDynamicTable_Churn(t *testing.T) {

	r := rand.New(rand.NewPCG(3, 4))

	tbl := NewDynamicTable()
	tbl.AddColumn("name", String(""))
	tbl.AddColumn("score", Int(0))
	tbl.AddColumn("tag", String(""))
	tbl.AddDerivedColumn("label", DerivedConcat("tag", "score"))
	biff.AssertNil(tbl.CreateIndex("tag"))
	biff.AssertNil(tbl.CreateIndex("label"))

	brute := func(column string, value Value) []uint64 {
		result := []uint64{}
		tbl.records.Traverse(func(pos int, rec *DynamicRecord) bool {
			if v, ok := tbl.resolve(rec, column); ok && v == value {
				result = append(result, rec.ID)
			}
			return true
		})
		return result
	}

	nextID := uint64(0)
	for step := 0; step < 2000; step++ {
		switch n := r.IntN(100); {
		case n < 60:
			// sparse records leave the indexed physical column out
			fields := map[string]Value{"name": String(fmt.Sprintf("name-%d", r.IntN(50)))}
			if r.IntN(3) > 0 {
				fields["tag"] = String(fmt.Sprintf("tag-%d", r.IntN(5)))
			}
			if r.IntN(2) > 0 {
				fields["score"] = Int(int64(r.IntN(4)))
			}
			biff.AssertNil(tbl.AddRecord(DynamicRecord{ID: nextID, Fields: fields}))
			nextID++
		case n < 85:
			tbl.DeleteRecordByID(uint64(r.IntN(int(nextID)+1)), false)
		case n < 97:
			tbl.DeleteRecordByID(uint64(r.IntN(int(nextID)+1)), true)
		default:
			tbl.CompactRecords()
		}
		assertDynamicConsistent(tbl)

		if step%50 == 0 {
			for v := 0; v < 5; v++ {
				tag := String(fmt.Sprintf("tag-%d", v))
				biff.AssertEqual(ids(tbl.FindMatching("tag", tag)), brute("tag", tag))
				label := String(fmt.Sprintf("tag-%d%d", v, v%4))
				biff.AssertEqual(ids(tbl.FindMatching("label", label)), brute("label", label))
			}
		}
	}
}
