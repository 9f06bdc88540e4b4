package database

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/fulldump/quickbase/table"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var (
	ErrTableNotFound      = errors.New("table not found")
	ErrTableAlreadyExists = errors.New("table already exists")
	ErrInvalidTableName   = errors.New("invalid table name")
	ErrUnknownKind        = errors.New("unknown table kind, it should be [static|dynamic]")
)

type Config struct {
	Logger *slog.Logger
}

// Database is the in-memory catalog of named tables
type Database struct {
	config *Config
	logger *slog.Logger
	status string
	tables map[string]*Entry
	mutex  *sync.RWMutex
	exit   chan struct{}
}

func NewDatabase(config *Config) *Database {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Database{
		config: config,
		logger: logger,
		status: StatusOpening,
		tables: map[string]*Entry{},
		mutex:  &sync.RWMutex{},
		exit:   make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
	db.logger.Info("database status", "status", status)
}

func (db *Database) CreateTable(name string, kind Kind) (*Entry, error) {
	if name == "" {
		return nil, ErrInvalidTableName
	}

	var entry *Entry
	switch kind {
	case KindStatic:
		entry = newEntry(name, kind)
		entry.static = table.NewTable().WithLogger(db.logger.With("table", name))
	case KindDynamic:
		entry = newEntry(name, kind)
		entry.dynamic = table.NewDynamicTable().WithLogger(db.logger.With("table", name))
	default:
		return nil, fmt.Errorf("create table '%s': %w", name, ErrUnknownKind)
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, exists := db.tables[name]; exists {
		return nil, fmt.Errorf("create table '%s': %w", name, ErrTableAlreadyExists)
	}
	db.tables[name] = entry

	db.logger.Info("table created", "table", name, "kind", kind, "id", entry.ID.String())

	return entry, nil
}

func (db *Database) GetTable(name string) (*Entry, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	entry, exists := db.tables[name]
	if !exists {
		return nil, fmt.Errorf("table '%s': %w", name, ErrTableNotFound)
	}
	return entry, nil
}

// ListTables returns every table sorted by name
func (db *Database) ListTables() []*Entry {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	result := make([]*Entry, 0, len(db.tables))
	for _, name := range slices.Sorted(maps.Keys(db.tables)) {
		result = append(result, db.tables[name])
	}
	return result
}

func (db *Database) DropTable(name string) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, exists := db.tables[name]; !exists {
		return fmt.Errorf("drop table '%s': %w", name, ErrTableNotFound)
	}
	delete(db.tables, name)

	db.logger.Info("table dropped", "table", name)

	return nil
}

// Load makes the database operational. Tables live only in memory so there is
// nothing to read back.
func (db *Database) Load() error {
	t0 := time.Now()
	db.setStatus(StatusOperating)
	db.logger.Debug("database loaded", "took", time.Since(t0))
	return nil
}

func (db *Database) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer close(db.exit)

	db.setStatus(StatusClosing)

	db.mutex.Lock()
	defer db.mutex.Unlock()
	for name, entry := range db.tables {
		stats := entry.Stats()
		db.logger.Info("closing table", "table", name, "active", stats.Active, "total", stats.Total)
	}
	clear(db.tables)

	return nil
}
