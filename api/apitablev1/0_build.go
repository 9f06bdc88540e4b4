package apitablev1

import (
	"github.com/fulldump/box"
)

func BuildV1Table(v1 *box.R) *box.R {

	tables := v1.Resource("/tables").
		WithActions(
			box.Get(listTables).WithName("listTables"),
			box.Post(createTable).WithName("createTable"),
		)

	v1.Resource("/tables/{tableName}").
		WithActions(
			box.Get(getTable).WithName("getTable"),
			box.ActionPost(insert).WithName("insert"),
			box.ActionPost(find).WithName("find"),
			box.ActionPost(remove).WithName("remove"),
			box.ActionPost(compact).WithName("compact"),
			box.ActionPost(listIndexes).WithName("listIndexes"),
			box.ActionPost(createIndex).WithName("createIndex"),
			box.ActionPost(dropIndex).WithName("dropIndex"),
			box.ActionPost(addColumn).WithName("addColumn"),
			box.ActionPost(removeColumn).WithName("removeColumn"),
			box.ActionPost(addDerivedColumn).WithName("addDerivedColumn"),
			box.ActionPost(dropTable).WithName("dropTable"),
		)

	return tables
}
