package apitablev1

import (
	"time"

	"github.com/fulldump/quickbase/database"
	"github.com/fulldump/quickbase/table"
)

type TableResponse struct {
	Name      string        `json:"name"`
	ID        string        `json:"id"`
	Kind      database.Kind `json:"kind"`
	CreatedAt time.Time     `json:"created_at"`
	Columns   []string      `json:"columns"`
	Derived   []string      `json:"derived"`
	Indexes   []string      `json:"indexes"`
	Stats     table.Stats   `json:"stats"`
}

func newTableResponse(entry *database.Entry) *TableResponse {
	columns, derived := entry.Columns()
	return &TableResponse{
		Name:      entry.Name,
		ID:        entry.ID.String(),
		Kind:      entry.Kind,
		CreatedAt: entry.CreatedAt,
		Columns:   columns,
		Derived:   derived,
		Indexes:   entry.IndexedColumns(),
		Stats:     entry.Stats(),
	}
}
