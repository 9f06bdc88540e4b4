package apitablev1

import (
	"context"
)

func listTables(ctx context.Context) ([]*TableResponse, error) {

	result := []*TableResponse{}
	for _, entry := range GetServicer(ctx).ListTables() {
		result = append(result, newTableResponse(entry))
	}

	return result, nil
}
