package service

import (
	"github.com/fulldump/quickbase/database"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) CreateTable(name string, kind database.Kind) (*database.Entry, error) {
	return s.db.CreateTable(name, kind)
}

func (s *Service) GetTable(name string) (*database.Entry, error) {
	return s.db.GetTable(name)
}

func (s *Service) ListTables() []*database.Entry {
	return s.db.ListTables()
}

func (s *Service) DropTable(name string) error {
	return s.db.DropTable(name)
}
