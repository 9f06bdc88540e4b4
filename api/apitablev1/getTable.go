package apitablev1

import (
	"context"
)

func getTable(ctx context.Context) (*TableResponse, error) {

	entry, err := getEntry(ctx)
	if err != nil {
		return nil, err
	}

	return newTableResponse(entry), nil
}
