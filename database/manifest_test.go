package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/quickbase/table"
)

const manifestYAML = `
version: 1
tables:
  - name: users
    kind: static
    indexes: [column2]
  - name: people
    kind: dynamic
    columns:
      - {name: name, type: string}
      - {name: age, type: int, default: "18"}
    derived:
      - {name: label, kind: concat, columns: [name, age]}
    indexes: [label]
`

func TestManifest(t *testing.T) {

	biff.Alternative("Manifest", func(a *biff.A) {

		m, err := DecodeManifest([]byte(manifestYAML))
		biff.AssertNil(err)
		biff.AssertEqual(len(m.Tables), 2)
		biff.AssertEqual(m.Tables[1].Columns[1], ColumnManifest{Name: "age", Type: "int", Default: "18"})

		a.Alternative("Apply", func(a *biff.A) {
			db := NewDatabase(&Config{})
			biff.AssertNil(db.Apply(m))

			users, err := db.GetTable("users")
			biff.AssertNil(err)
			biff.AssertEqual(users.IndexedColumns(), []string{"column2"})

			people, err := db.GetTable("people")
			biff.AssertNil(err)
			physical, derived := people.Columns()
			biff.AssertEqual(physical, []string{"id", "age", "name"})
			biff.AssertEqual(derived, []string{"label"})
			biff.AssertEqual(people.IndexedColumns(), []string{"label"})

			people.WithDynamic(func(t *table.DynamicTable) error {
				biff.AssertNil(t.AddRecord(table.DynamicRecord{ID: 1, Fields: map[string]table.Value{
					"name": table.String("ann"),
					"age":  table.Int(40),
				}}))
				biff.AssertEqual(len(t.FindMatching("label", table.String("ann40"))), 1)
				return nil
			})

			a.Alternative("Apply twice", func(a *biff.A) {
				err := db.Apply(m)
				biff.AssertTrue(errors.Is(err, ErrTableAlreadyExists))
			})
		})

		a.Alternative("From file", func(a *biff.A) {
			filename := filepath.Join(t.TempDir(), "tables.yaml")
			biff.AssertNil(os.WriteFile(filename, []byte(manifestYAML), 0644))

			fromFile, err := ParseManifest(filename)
			biff.AssertNil(err)
			biff.AssertEqual(fromFile, m)
		})
	})

	biff.Alternative("Invalid manifests", func(a *biff.A) {

		_, err := DecodeManifest([]byte("version: 2\n"))
		biff.AssertNotNil(err)

		_, err = DecodeManifest([]byte("version: 1\ntables: [{name: a, kind: columnar}]\n"))
		biff.AssertTrue(errors.Is(err, ErrUnknownKind))

		_, err = DecodeManifest([]byte("version: 1\ntables: [{name: a, kind: static}, {name: a, kind: dynamic}]\n"))
		biff.AssertTrue(errors.Is(err, ErrTableAlreadyExists))

		_, err = DecodeManifest([]byte("version: 1\ntables: [{name: a, kind: static, columns: [{name: x, type: int}]}]\n"))
		biff.AssertNotNil(err)

		m, err := DecodeManifest([]byte("version: 1\ntables: [{name: a, kind: dynamic, columns: [{name: x, type: float}]}]\n"))
		biff.AssertNil(err)
		biff.AssertNotNil(NewDatabase(&Config{}).Apply(m))
	})
}
