package apitablev1

import (
	"context"
	"fmt"

	"github.com/fulldump/quickbase/database"
	"github.com/fulldump/quickbase/table"
)

type findRequest struct {
	Column string       `json:"column"`
	Match  string       `json:"match"`
	Value  *table.Value `json:"value"`
}

// find returns the live records matching one column. Static tables take the
// textual match, dynamic tables a typed value.
func find(ctx context.Context, input *findRequest) (any, error) {

	entry, err := getEntry(ctx)
	if err != nil {
		return nil, err
	}

	if entry.Kind == database.KindStatic {
		column, err := table.ParseColumn(input.Column)
		if err != nil {
			return nil, err
		}
		var result []table.Record
		err = entry.WithStatic(func(t *table.Table) error {
			result = t.FindMatching(column, input.Match)
			return nil
		})
		return result, err
	}

	if input.Value == nil {
		return nil, fmt.Errorf("%w: field 'value' is required by dynamic tables", ErrInvalidInput)
	}
	var result []table.DynamicRecord
	err = entry.WithDynamic(func(t *table.DynamicTable) error {
		result = t.FindMatching(input.Column, *input.Value)
		return nil
	})
	return result, err
}
