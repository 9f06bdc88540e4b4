package apitablev1

import (
	"context"
)

func compact(ctx context.Context) (*TableResponse, error) {

	entry, err := getEntry(ctx)
	if err != nil {
		return nil, err
	}

	entry.Compact()

	return newTableResponse(entry), nil
}
