// Package blockstore persists blocks, standalone headers and named block
// locators in a key/value database.
package blockstore

import (
	"sync"

	"github.com/Li-GuangCheng/fruitchain/domain/consensus/utils/lrucache"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/logger"
	"github.com/Li-GuangCheng/fruitchain/util"
	"github.com/Li-GuangCheng/fruitchain/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

var (
	blocksBucket   = database.MakeBucket([]byte("blocks"))
	headersBucket  = database.MakeBucket([]byte("headers"))
	locatorsBucket = database.MakeBucket([]byte("locators"))
)

// ErrNotFound denotes that the requested item was not found in the store.
var ErrNotFound = database.ErrNotFound

// IsNotFoundError checks whether an error is an ErrNotFound.
func IsNotFoundError(err error) bool {
	return database.IsNotFoundError(err)
}

// BlockStore represents a store of blocks, headers and locators. It is safe
// for concurrent use.
type BlockStore struct {
	db database.Database

	cacheLock sync.Mutex
	cache     *lrucache.LRUCache
}

// New instantiates a new BlockStore over db, keeping up to cacheSize
// serialized blocks in memory.
func New(db database.Database, cacheSize int) *BlockStore {
	return &BlockStore{
		db:    db,
		cache: lrucache.New(cacheSize),
	}
}

// StoreBlock writes the block in its wire encoding under its hash and
// returns the hash. The checked flag of the block is not stored.
func (bs *BlockStore) StoreBlock(block *util.Block) (*chainhash.Hash, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "StoreBlock")
	defer onEnd()

	blockBytes, err := block.Bytes()
	if err != nil {
		return nil, err
	}
	blockHash := block.Hash()

	err = bs.db.Put(blocksBucket.Key(blockHash[:]), blockBytes)
	if err != nil {
		return nil, err
	}
	bs.addToCache(blockHash, blockBytes)

	log.Debugf("Stored block %s (%d bytes, %d transactions, %d fruits)", blockHash,
		len(blockBytes), len(block.MsgBlock().Transactions), len(block.MsgBlock().Fruits))
	return blockHash, nil
}

// Block gets the block associated with the given blockHash. It returns
// ErrNotFound if the block is not in the store. The returned block is never
// marked as checked.
func (bs *BlockStore) Block(blockHash *chainhash.Hash) (*util.Block, error) {
	if blockBytes, ok := bs.getFromCache(blockHash); ok {
		return bs.deserializeBlock(blockHash, append([]byte{}, blockBytes...))
	}

	blockBytes, err := bs.db.Get(blocksBucket.Key(blockHash[:]))
	if err != nil {
		return nil, err
	}

	block, err := bs.deserializeBlock(blockHash, blockBytes)
	if err != nil {
		return nil, err
	}
	bs.addToCache(blockHash, blockBytes)
	return block, nil
}

func (bs *BlockStore) deserializeBlock(blockHash *chainhash.Hash, blockBytes []byte) (*util.Block, error) {
	block, err := util.NewBlockFromBytes(blockBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to deserialize stored block %s", blockHash)
	}
	return block, nil
}

// HasBlock returns whether a block with a given hash exists in the store.
func (bs *BlockStore) HasBlock(blockHash *chainhash.Hash) (bool, error) {
	bs.cacheLock.Lock()
	cached := bs.cache.Has(blockHash)
	bs.cacheLock.Unlock()
	if cached {
		return true, nil
	}

	return bs.db.Has(blocksBucket.Key(blockHash[:]))
}

// DeleteBlock deletes the block associated with the given blockHash. Deleting
// a block that is not in the store is not an error.
func (bs *BlockStore) DeleteBlock(blockHash *chainhash.Hash) error {
	bs.cacheLock.Lock()
	bs.cache.Remove(blockHash)
	bs.cacheLock.Unlock()

	return bs.db.Delete(blocksBucket.Key(blockHash[:]))
}

// BlockHashes returns the hashes of every stored block in key order.
func (bs *BlockStore) BlockHashes() ([]chainhash.Hash, error) {
	cursor, err := bs.db.Cursor(blocksBucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var blockHashes []chainhash.Hash
	for cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return nil, err
		}
		blockHash, err := chainhash.NewHash(key.Suffix())
		if err != nil {
			return nil, errors.Wrapf(err, "invalid block key %s", key)
		}
		blockHashes = append(blockHashes, *blockHash)
	}
	return blockHashes, nil
}

// StoreHeader writes a standalone header, such as a fruit, under its hash
// and returns the hash.
func (bs *BlockStore) StoreHeader(header *wire.BlockHeader) (*chainhash.Hash, error) {
	headerBytes, err := header.Bytes()
	if err != nil {
		return nil, err
	}
	headerHash := header.BlockHash()

	err = bs.db.Put(headersBucket.Key(headerHash[:]), headerBytes)
	if err != nil {
		return nil, err
	}
	log.Tracef("Stored header %s", headerHash)
	return &headerHash, nil
}

// Header gets the standalone header associated with the given hash. It
// returns ErrNotFound if the header is not in the store.
func (bs *BlockStore) Header(headerHash *chainhash.Hash) (*wire.BlockHeader, error) {
	headerBytes, err := bs.db.Get(headersBucket.Key(headerHash[:]))
	if err != nil {
		return nil, err
	}
	header, err := wire.NewBlockHeaderFromBytes(headerBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to deserialize stored header %s", headerHash)
	}
	return header, nil
}

// StoreLocator writes locator under name in DiskEncoding, prefixed by
// wire.ProtocolVersion.
func (bs *BlockStore) StoreLocator(name string, locator *wire.BlockLocator) error {
	locatorBytes, err := locator.Bytes(wire.ProtocolVersion, wire.DiskEncoding)
	if err != nil {
		return err
	}
	err = bs.db.Put(locatorsBucket.Key([]byte(name)), locatorBytes)
	if err != nil {
		return err
	}
	log.Debugf("Stored locator %s with %d hashes", name, len(locator.BlockHashes))
	return nil
}

// Locator gets the locator stored under name along with the protocol
// version it was stored with. It returns ErrNotFound if no locator was
// stored under name.
func (bs *BlockStore) Locator(name string) (*wire.BlockLocator, uint32, error) {
	locatorBytes, err := bs.db.Get(locatorsBucket.Key([]byte(name)))
	if err != nil {
		return nil, 0, err
	}
	locator, pver, err := wire.NewBlockLocatorFromBytes(locatorBytes, wire.DiskEncoding)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to deserialize stored locator %s", name)
	}
	return locator, pver, nil
}

func (bs *BlockStore) addToCache(blockHash *chainhash.Hash, blockBytes []byte) {
	bs.cacheLock.Lock()
	defer bs.cacheLock.Unlock()
	bs.cache.Add(blockHash, append([]byte{}, blockBytes...))
}

func (bs *BlockStore) getFromCache(blockHash *chainhash.Hash) ([]byte, bool) {
	bs.cacheLock.Lock()
	defer bs.cacheLock.Unlock()
	return bs.cache.Get(blockHash)
}
