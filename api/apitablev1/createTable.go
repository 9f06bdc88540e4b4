package apitablev1

import (
	"context"
	"net/http"

	"github.com/fulldump/quickbase/database"
)

type createTableRequest struct {
	Name string        `json:"name"`
	Kind database.Kind `json:"kind"`
}

func createTable(ctx context.Context, w http.ResponseWriter, input *createTableRequest) (*TableResponse, error) {

	kind := input.Kind
	if kind == "" {
		kind = database.KindStatic
	}

	entry, err := GetServicer(ctx).CreateTable(input.Name, kind)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newTableResponse(entry), nil
}
