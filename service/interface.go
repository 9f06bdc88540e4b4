package service

import (
	"github.com/fulldump/quickbase/database"
)

var (
	ErrorTableNotFound      = database.ErrTableNotFound
	ErrorTableAlreadyExists = database.ErrTableAlreadyExists
	ErrorWrongTableKind     = database.ErrWrongKind
)

type Servicer interface {
	CreateTable(name string, kind database.Kind) (*database.Entry, error)
	GetTable(name string) (*database.Entry, error)
	ListTables() []*database.Entry
	DropTable(name string) error
}
