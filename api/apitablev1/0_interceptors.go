package apitablev1

import (
	"context"
	"errors"

	"github.com/fulldump/box"

	"github.com/fulldump/quickbase/database"
	"github.com/fulldump/quickbase/service"
)

var ErrInvalidInput = errors.New("invalid input")

type contextKey string

const ContextServicerKey contextKey = "servicer"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer)
}

// getEntry resolves the table named in the url
func getEntry(ctx context.Context) (*database.Entry, error) {
	tableName := box.GetUrlParameter(ctx, "tableName")
	return GetServicer(ctx).GetTable(tableName)
}
