package core

import (
	"fmt"

	"estatecore/internal/infra/persistence/memory"
	"estatecore/internal/infra/persistence/postgres"
	"estatecore/internal/infra/persistence/sqlite"
	"estatecore/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend by driver name. path applies to
// sqlite, dsn to postgres. Defaults to sqlite when driver is empty.
func OpenPersistentStore(driver StorageDriver, path, dsn string, engine *domain.RulesEngine) (domain.PersistentStore, error) {
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		return sqlite.NewStore(path, engine)
	case StoragePostgres:
		return postgres.NewStore(dsn, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
