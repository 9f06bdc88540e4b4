package apitablev1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fulldump/quickbase/database"
	"github.com/fulldump/quickbase/table"
)

type addColumnRequest struct {
	Name    string      `json:"name"`
	Default table.Value `json:"default"`
}

func addColumn(ctx context.Context, w http.ResponseWriter, input *addColumnRequest) (*TableResponse, error) {

	entry, err := getEntry(ctx)
	if err != nil {
		return nil, err
	}

	err = entry.WithDynamic(func(t *table.DynamicTable) error {
		if !t.AddColumn(input.Name, input.Default) {
			return fmt.Errorf("add column '%s': %w", input.Name, database.ErrColumnTaken)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newTableResponse(entry), nil
}

type removeColumnRequest struct {
	Name string `json:"name"`
}

func removeColumn(ctx context.Context, input *removeColumnRequest) (*TableResponse, error) {

	entry, err := getEntry(ctx)
	if err != nil {
		return nil, err
	}

	err = entry.WithDynamic(func(t *table.DynamicTable) error {
		t.RemoveColumn(input.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return newTableResponse(entry), nil
}

type addDerivedColumnRequest struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`
}

func addDerivedColumn(ctx context.Context, w http.ResponseWriter, input *addDerivedColumnRequest) (*TableResponse, error) {

	entry, err := getEntry(ctx)
	if err != nil {
		return nil, err
	}

	fn, err := table.BuildDerived(input.Kind, input.Columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = entry.WithDynamic(func(t *table.DynamicTable) error {
		if !t.AddDerivedColumn(input.Name, fn) {
			return fmt.Errorf("add derived column '%s': %w", input.Name, database.ErrColumnTaken)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newTableResponse(entry), nil
}
