package apitablev1

import (
	"context"
	"net/http"
)

type removeRequest struct {
	ID   uint64 `json:"id"`
	Hard bool   `json:"hard"`
}

type removeResponse struct {
	Removed bool `json:"removed"`
}

func remove(ctx context.Context, w http.ResponseWriter, input *removeRequest) (*removeResponse, error) {

	entry, err := getEntry(ctx)
	if err != nil {
		return nil, err
	}

	removed := entry.Delete(input.ID, input.Hard)
	if !removed {
		w.WriteHeader(http.StatusNotFound)
	}

	return &removeResponse{Removed: removed}, nil
}
