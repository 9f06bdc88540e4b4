package apitablev1

import (
	"context"
	"net/http"
)

type indexRequest struct {
	Column string `json:"column"`
}

type listIndexesItem struct {
	Column string `json:"column"`
}

func listIndexes(ctx context.Context) ([]*listIndexesItem, error) {

	entry, err := getEntry(ctx)
	if err != nil {
		return nil, err
	}

	result := []*listIndexesItem{}
	for _, column := range entry.IndexedColumns() {
		result = append(result, &listIndexesItem{Column: column})
	}

	return result, nil
}

func createIndex(ctx context.Context, w http.ResponseWriter, input *indexRequest) (*listIndexesItem, error) {

	entry, err := getEntry(ctx)
	if err != nil {
		return nil, err
	}

	err = entry.CreateIndex(input.Column)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return &listIndexesItem{Column: input.Column}, nil
}

func dropIndex(ctx context.Context, input *indexRequest) error {

	entry, err := getEntry(ctx)
	if err != nil {
		return err
	}

	return entry.DropIndex(input.Column)
}
