package pebbledb

import (
	"bytes"

	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database"
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// PebbleCursor is a thin wrapper around native pebble iterators.
type PebbleCursor struct {
	iterator *pebble.Iterator
	bucket   *database.Bucket

	isPositioned bool
	isClosed     bool
}

// Cursor begins a new cursor over the given prefix.
func (db *PebbleDB) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	prefix := bucket.Path()
	iterator, err := db.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &PebbleCursor{
		iterator: iterator,
		bucket:   bucket,
		isClosed: false,
	}, nil
}

// prefixUpperBound returns the smallest key greater than every key starting
// with prefix, or nil when no such key exists.
func prefixUpperBound(prefix []byte) []byte {
	upperBound := append([]byte{}, prefix...)
	for i := len(upperBound) - 1; i >= 0; i-- {
		upperBound[i]++
		if upperBound[i] != 0 {
			return upperBound[:i+1]
		}
	}
	return nil
}

// Next moves the iterator to the next key/value pair. It returns whether the
// iterator is exhausted. Panics if the cursor is closed.
//
// Like goleveldb iterators, a fresh cursor's first Next positions it on the
// first pair.
func (c *PebbleCursor) Next() bool {
	if c.isClosed {
		panic("cannot call next on a closed cursor")
	}
	if !c.isPositioned {
		return c.First()
	}
	return c.iterator.Next()
}

// First moves the iterator to the first key/value pair. It returns false if
// such a pair does not exist. Panics if the cursor is closed.
func (c *PebbleCursor) First() bool {
	if c.isClosed {
		panic("cannot call first on a closed cursor")
	}
	c.isPositioned = true
	return c.iterator.First()
}

// Seek moves the iterator to the first key/value pair whose key is greater
// than or equal to the given key. It returns ErrNotFound if such pair does not
// exist.
func (c *PebbleCursor) Seek(key *database.Key) error {
	if c.isClosed {
		return errors.New("cannot seek a closed cursor")
	}

	c.isPositioned = true
	notFoundErr := errors.Wrapf(database.ErrNotFound, "key %s not found", key)
	found := c.iterator.SeekGE(key.Bytes())
	if !found {
		return notFoundErr
	}

	currentKey := c.iterator.Key()
	if !bytes.Equal(currentKey, key.Bytes()) {
		return notFoundErr
	}

	return nil
}

// Key returns the key of the current key/value pair, or ErrNotFound if done.
// Note that the key is trimmed to not include the prefix the cursor was opened
// with.
func (c *PebbleCursor) Key() (*database.Key, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the key of a closed cursor")
	}
	if !c.iterator.Valid() {
		return nil, errors.Wrapf(database.ErrNotFound, "cannot get the "+
			"key of an exhausted cursor")
	}
	suffix := bytes.TrimPrefix(c.iterator.Key(), c.bucket.Path())
	return c.bucket.Key(append([]byte{}, suffix...)), nil
}

// Value returns the value of the current key/value pair, or ErrNotFound if done.
// The caller should not modify the contents of the returned slice, and its
// contents may change on the next call to Next.
func (c *PebbleCursor) Value() ([]byte, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the value of a closed cursor")
	}
	if !c.iterator.Valid() {
		return nil, errors.Wrapf(database.ErrNotFound, "cannot get the "+
			"value of an exhausted cursor")
	}
	return c.iterator.Value(), nil
}

// Close releases associated resources.
func (c *PebbleCursor) Close() error {
	if c.isClosed {
		return errors.New("cannot close an already closed cursor")
	}
	c.isClosed = true
	err := c.iterator.Close()
	c.iterator = nil
	c.bucket = nil
	return errors.WithStack(err)
}
