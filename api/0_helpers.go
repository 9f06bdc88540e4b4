package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/quickbase/api/apitablev1"
	"github.com/fulldump/quickbase/database"
	"github.com/fulldump/quickbase/service"
	"github.com/fulldump/quickbase/table"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("%w: opening", ErrUnavailable))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: closing", ErrUnavailable))
				return
			}
			next(ctx)
		}
	}
}

// errorStatus classifies err into an http status and a short description
func errorStatus(ctx context.Context, err error) (int, string) {

	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "user is not authenticated"
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, "rate limit exceeded, retry later"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "database is not operating"
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String())
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method)
	case errors.Is(err, service.ErrorTableNotFound):
		return http.StatusNotFound, "Table not found"
	case errors.Is(err, service.ErrorTableAlreadyExists):
		return http.StatusConflict, "Table already exists"
	case errors.Is(err, table.ErrDuplicateKey):
		return http.StatusConflict, "Duplicated primary key"
	case errors.Is(err, database.ErrColumnTaken):
		return http.StatusConflict, "Column name already taken"
	case errors.Is(err, service.ErrorWrongTableKind):
		return http.StatusBadRequest, "Operation not supported by this table kind"
	case errors.Is(err, table.ErrUnknownField):
		return http.StatusBadRequest, "Record carries a field outside the schema"
	case table.IsContractViolation(err):
		return http.StatusBadRequest, "Invalid column"
	case errors.Is(err, database.ErrUnknownKind), errors.Is(err, database.ErrInvalidTableName):
		return http.StatusBadRequest, "Invalid table definition"
	case errors.Is(err, apitablev1.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	case errors.As(err, &syntaxError), errors.As(err, &typeError):
		return http.StatusBadRequest, "Malformed JSON"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		status, description := errorStatus(ctx, err)
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
