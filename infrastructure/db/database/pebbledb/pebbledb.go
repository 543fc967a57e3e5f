package pebbledb

import (
	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database"
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// PebbleDB defines a thin wrapper around pebble.
type PebbleDB struct {
	db *pebble.DB
}

// NewPebbleDB opens a pebble instance defined by the given path. The
// directory is created if it does not exist.
func NewPebbleDB(path string, cacheSizeMiB int) (*PebbleDB, error) {
	cache := pebble.NewCache(int64(cacheSizeMiB) << 20)
	defer cache.Unref()

	options := &pebble.Options{
		Cache:        cache,
		MaxOpenFiles: 500,
	}

	db, err := pebble.Open(path, options)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open pebble database at %s", path)
	}
	log.Debugf("Opened pebble database at %s", path)

	return &PebbleDB{db: db}, nil
}

// Close closes the pebble instance.
func (db *PebbleDB) Close() error {
	err := db.db.Close()
	return errors.WithStack(err)
}

// Put sets the value for the given key. It overwrites
// any previous value for that key.
func (db *PebbleDB) Put(key *database.Key, value []byte) error {
	err := db.db.Set(key.Bytes(), value, pebble.Sync)
	return errors.WithStack(err)
}

// Get gets the value for the given key. It returns
// ErrNotFound if the given key does not exist.
func (db *PebbleDB) Get(key *database.Key) ([]byte, error) {
	value, closer, err := db.db.Get(key.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.Wrapf(database.ErrNotFound,
				"key %s not found", key)
		}
		return nil, errors.WithStack(err)
	}
	defer closer.Close()

	// The returned slice is only valid until closer is closed.
	data := make([]byte, len(value))
	copy(data, value)
	return data, nil
}

// Has returns true if the database does contains the
// given key.
func (db *PebbleDB) Has(key *database.Key) (bool, error) {
	_, closer, err := db.db.Get(key.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	err = closer.Close()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return true, nil
}

// Delete deletes the value for the given key. Will not
// return an error if the key doesn't exist.
func (db *PebbleDB) Delete(key *database.Key) error {
	err := db.db.Delete(key.Bytes(), pebble.Sync)
	return errors.WithStack(err)
}
