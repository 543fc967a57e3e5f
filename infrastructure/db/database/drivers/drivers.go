// Package drivers opens a database.Database by driver name.
package drivers

import (
	"os"

	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database/ldb"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database/pebbledb"
	"github.com/pkg/errors"
)

// Supported database types.
const (
	LevelDB = "leveldb"
	Pebble  = "pebble"
)

// DefaultCacheSizeMiB is the block cache size drivers are opened with.
const DefaultCacheSizeMiB = 64

// SupportedTypes returns the names of every database type Open accepts.
func SupportedTypes() []string {
	return []string{LevelDB, Pebble}
}

// IsSupported returns whether dbType names a database type Open accepts.
func IsSupported(dbType string) bool {
	for _, supported := range SupportedTypes() {
		if dbType == supported {
			return true
		}
	}
	return false
}

// Open opens or creates the database of the given type at path.
func Open(dbType string, path string) (database.Database, error) {
	err := os.MkdirAll(path, 0700)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create database directory %s", path)
	}

	log.Infof("Opening %s database at %s", dbType, path)
	switch dbType {
	case LevelDB:
		db, err := ldb.NewLevelDB(path, DefaultCacheSizeMiB)
		if err != nil {
			return nil, err
		}
		return db, nil
	case Pebble:
		db, err := pebbledb.NewPebbleDB(path, DefaultCacheSizeMiB)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, errors.Errorf("unknown database type %s, supported types are %v",
			dbType, SupportedTypes())
	}
}
