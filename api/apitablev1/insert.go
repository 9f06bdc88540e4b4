package apitablev1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/quickbase/database"
	"github.com/fulldump/quickbase/table"
)

// insert reads a stream of json records and echoes every stored one. The
// stream stops at the first rejected record, previous ones are kept.
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	entry, err := getEntry(ctx)
	if err != nil {
		return err
	}

	jsonReader := json.NewDecoder(r.Body)
	jsonReader.DisallowUnknownFields()
	jsonWriter := json.NewEncoder(w)

	for i := 0; true; i++ {
		var stored any
		switch entry.Kind {
		case database.KindStatic:
			stored, err = insertStatic(entry, jsonReader)
		default:
			stored, err = insertDynamic(entry, jsonReader)
		}
		if err == io.EOF {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			return err
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		jsonWriter.Encode(stored)
	}

	return nil
}

func insertStatic(entry *database.Entry, jsonReader *json.Decoder) (any, error) {
	record := table.Record{}
	err := jsonReader.Decode(&record)
	if err == io.EOF {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = entry.WithStatic(func(t *table.Table) error {
		return t.AddRecord(record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func insertDynamic(entry *database.Entry, jsonReader *json.Decoder) (any, error) {
	record := table.DynamicRecord{}
	err := jsonReader.Decode(&record)
	if err == io.EOF {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if record.Fields == nil {
		record.Fields = map[string]table.Value{}
	}

	err = entry.WithDynamic(func(t *table.DynamicTable) error {
		return t.AddRecord(record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
