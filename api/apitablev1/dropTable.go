package apitablev1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func dropTable(ctx context.Context, w http.ResponseWriter) error {

	tableName := box.GetUrlParameter(ctx, "tableName")

	return GetServicer(ctx).DropTable(tableName)
}
