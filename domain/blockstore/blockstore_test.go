package blockstore

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database/drivers"
	"github.com/Li-GuangCheng/fruitchain/util"
	"github.com/Li-GuangCheng/fruitchain/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
)

// testForAllDatabaseTypes runs testFunc against a fresh store backed by
// every supported database type.
func testForAllDatabaseTypes(t *testing.T, testName string,
	testFunc func(t *testing.T, store *BlockStore, testName string)) {

	for _, dbType := range drivers.SupportedTypes() {
		func() {
			db, err := drivers.Open(dbType, t.TempDir())
			if err != nil {
				t.Fatalf("%s: Open unexpectedly failed: %s", testName, err)
			}
			defer func() {
				err := db.Close()
				if err != nil {
					t.Fatalf("%s: Close unexpectedly failed: %s", testName, err)
				}
			}()

			testFunc(t, New(db, 2), fmt.Sprintf("%s: %s", dbType, testName))
		}()
	}
}

func testMsgBlock(nonce uint32) *wire.MsgBlock {
	msgBlock := wire.NewMsgBlock(&wire.BlockHeader{
		Version:       1,
		Timestamp:     1231006505,
		Bits:          0x1d00ffff,
		Nonce:         nonce,
		CreatorScript: []byte{0x51},
	})

	tx := btcwire.NewMsgTx(1)
	tx.AddTxIn(btcwire.NewTxIn(btcwire.NewOutPoint(&chainhash.Hash{}, 0), []byte{0x01}, nil))
	tx.AddTxOut(btcwire.NewTxOut(5000000000, []byte{0x51}))
	msgBlock.AddTransaction(tx)
	msgBlock.AddFruit(&wire.BlockHeader{Version: 1, Bits: 1, Nonce: nonce})
	msgBlock.Header.FruitsHash = msgBlock.FruitsHash()
	return msgBlock
}

func TestStoreBlock(t *testing.T) {
	testForAllDatabaseTypes(t, "TestStoreBlock", testStoreBlock)
}

func testStoreBlock(t *testing.T, store *BlockStore, testName string) {
	block := util.NewBlock(testMsgBlock(1))
	block.SetChecked(true)

	blockHash, err := store.StoreBlock(block)
	if err != nil {
		t.Fatalf("%s: StoreBlock unexpectedly failed: %s", testName, err)
	}
	if *blockHash != testMsgBlock(1).BlockHash() {
		t.Fatalf("%s: StoreBlock returned hash %s, want %s", testName, blockHash, testMsgBlock(1).BlockHash())
	}

	exists, err := store.HasBlock(blockHash)
	if err != nil {
		t.Fatalf("%s: HasBlock unexpectedly failed: %s", testName, err)
	}
	if !exists {
		t.Fatalf("%s: HasBlock unexpectedly returned false", testName)
	}

	stored, err := store.Block(blockHash)
	if err != nil {
		t.Fatalf("%s: Block unexpectedly failed: %s", testName, err)
	}
	if !reflect.DeepEqual(stored.MsgBlock(), testMsgBlock(1)) {
		t.Fatalf("%s: Block returned %v, want %v", testName,
			spew.Sdump(stored.MsgBlock()), spew.Sdump(testMsgBlock(1)))
	}
	if stored.Checked() {
		t.Fatalf("%s: the checked flag must not survive storage", testName)
	}
}

func TestBlockFromDatabase(t *testing.T) {
	testForAllDatabaseTypes(t, "TestBlockFromDatabase", testBlockFromDatabase)
}

// testBlockFromDatabase stores more blocks than the cache holds so that
// some of them are read back from the database.
func testBlockFromDatabase(t *testing.T, store *BlockStore, testName string) {
	var blockHashes []*chainhash.Hash
	for nonce := uint32(0); nonce < 5; nonce++ {
		blockHash, err := store.StoreBlock(util.NewBlock(testMsgBlock(nonce)))
		if err != nil {
			t.Fatalf("%s: StoreBlock unexpectedly failed: %s", testName, err)
		}
		blockHashes = append(blockHashes, blockHash)
	}

	for nonce, blockHash := range blockHashes {
		stored, err := store.Block(blockHash)
		if err != nil {
			t.Fatalf("%s: Block unexpectedly failed: %s", testName, err)
		}
		if *stored.Hash() != *blockHash {
			t.Fatalf("%s: Block %d returned hash %s, want %s", testName, nonce, stored.Hash(), blockHash)
		}
	}

	storedHashes, err := store.BlockHashes()
	if err != nil {
		t.Fatalf("%s: BlockHashes unexpectedly failed: %s", testName, err)
	}
	if len(storedHashes) != len(blockHashes) {
		t.Fatalf("%s: BlockHashes returned %d hashes, want %d", testName, len(storedHashes), len(blockHashes))
	}
	found := make(map[chainhash.Hash]bool)
	for _, blockHash := range storedHashes {
		found[blockHash] = true
	}
	for _, blockHash := range blockHashes {
		if !found[*blockHash] {
			t.Fatalf("%s: BlockHashes is missing %s", testName, blockHash)
		}
	}
}

func TestBlockNotFound(t *testing.T) {
	testForAllDatabaseTypes(t, "TestBlockNotFound", testBlockNotFound)
}

func testBlockNotFound(t *testing.T, store *BlockStore, testName string) {
	missing := chainhash.DoubleHashH([]byte("missing"))

	_, err := store.Block(&missing)
	if !IsNotFoundError(err) {
		t.Fatalf("%s: Block of a missing hash returned wrong error: %v", testName, err)
	}
	exists, err := store.HasBlock(&missing)
	if err != nil {
		t.Fatalf("%s: HasBlock unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: HasBlock unexpectedly returned true", testName)
	}
	_, err = store.Header(&missing)
	if !IsNotFoundError(err) {
		t.Fatalf("%s: Header of a missing hash returned wrong error: %v", testName, err)
	}
	_, _, err = store.Locator("missing")
	if !IsNotFoundError(err) {
		t.Fatalf("%s: Locator of a missing name returned wrong error: %v", testName, err)
	}
}

func TestDeleteBlock(t *testing.T) {
	testForAllDatabaseTypes(t, "TestDeleteBlock", testDeleteBlock)
}

func testDeleteBlock(t *testing.T, store *BlockStore, testName string) {
	blockHash, err := store.StoreBlock(util.NewBlock(testMsgBlock(1)))
	if err != nil {
		t.Fatalf("%s: StoreBlock unexpectedly failed: %s", testName, err)
	}

	err = store.DeleteBlock(blockHash)
	if err != nil {
		t.Fatalf("%s: DeleteBlock unexpectedly failed: %s", testName, err)
	}
	exists, err := store.HasBlock(blockHash)
	if err != nil {
		t.Fatalf("%s: HasBlock unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: HasBlock returned true for a deleted block", testName)
	}
	_, err = store.Block(blockHash)
	if !IsNotFoundError(err) {
		t.Fatalf("%s: Block of a deleted block returned wrong error: %v", testName, err)
	}
}

func TestStoreHeader(t *testing.T) {
	testForAllDatabaseTypes(t, "TestStoreHeader", testStoreHeader)
}

func testStoreHeader(t *testing.T, store *BlockStore, testName string) {
	header := testMsgBlock(3).BlockHeader()
	headerHash, err := store.StoreHeader(header)
	if err != nil {
		t.Fatalf("%s: StoreHeader unexpectedly failed: %s", testName, err)
	}
	if *headerHash != header.BlockHash() {
		t.Fatalf("%s: StoreHeader returned hash %s, want %s", testName, headerHash, header.BlockHash())
	}

	stored, err := store.Header(headerHash)
	if err != nil {
		t.Fatalf("%s: Header unexpectedly failed: %s", testName, err)
	}
	if !reflect.DeepEqual(stored, header) {
		t.Fatalf("%s: Header returned %v, want %v", testName, spew.Sdump(stored), spew.Sdump(header))
	}

	// Headers and blocks live in separate buckets.
	exists, err := store.HasBlock(headerHash)
	if err != nil {
		t.Fatalf("%s: HasBlock unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: a stored header must not be visible as a block", testName)
	}
}

func TestStoreLocator(t *testing.T) {
	testForAllDatabaseTypes(t, "TestStoreLocator", testStoreLocator)
}

func testStoreLocator(t *testing.T, store *BlockStore, testName string) {
	locator := wire.NewBlockLocator([]chainhash.Hash{
		testMsgBlock(2).BlockHash(),
		testMsgBlock(1).BlockHash(),
	})

	err := store.StoreLocator("tip", locator)
	if err != nil {
		t.Fatalf("%s: StoreLocator unexpectedly failed: %s", testName, err)
	}

	stored, pver, err := store.Locator("tip")
	if err != nil {
		t.Fatalf("%s: Locator unexpectedly failed: %s", testName, err)
	}
	if pver != wire.ProtocolVersion {
		t.Fatalf("%s: Locator returned protocol version %d, want %d", testName, pver, wire.ProtocolVersion)
	}
	if !reflect.DeepEqual(stored, locator) {
		t.Fatalf("%s: Locator returned %v, want %v", testName, spew.Sdump(stored), spew.Sdump(locator))
	}
	if stored.Hash() != locator.Hash() {
		t.Fatalf("%s: stored locator hashes differently", testName)
	}

	// Overwrite with an empty locator.
	err = store.StoreLocator("tip", wire.NewBlockLocator(nil))
	if err != nil {
		t.Fatalf("%s: StoreLocator unexpectedly failed: %s", testName, err)
	}
	stored, _, err = store.Locator("tip")
	if err != nil {
		t.Fatalf("%s: Locator unexpectedly failed: %s", testName, err)
	}
	if !stored.IsNull() {
		t.Fatalf("%s: expected the overwritten locator to be null", testName)
	}
}

func TestCorruptedRecord(t *testing.T) {
	testForAllDatabaseTypes(t, "TestCorruptedRecord", testCorruptedRecord)
}

func testCorruptedRecord(t *testing.T, store *BlockStore, testName string) {
	blockHash := chainhash.DoubleHashH([]byte("corrupted"))
	err := store.db.Put(blocksBucket.Key(blockHash[:]), []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("%s: Put unexpectedly failed: %s", testName, err)
	}

	_, err = store.Block(&blockHash)
	if !wire.IsMalformedError(err) {
		t.Fatalf("%s: Block of a corrupted record returned wrong error: %v", testName, err)
	}
	if database.IsNotFoundError(err) {
		t.Fatalf("%s: a corrupted record must not be reported as missing", testName)
	}
}

func TestConcurrentAccess(t *testing.T) {
	testForAllDatabaseTypes(t, "TestConcurrentAccess", testConcurrentAccess)
}

func testConcurrentAccess(t *testing.T, store *BlockStore, testName string) {
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for nonce := uint32(0); nonce < 8; nonce++ {
		wg.Add(1)
		go func(nonce uint32) {
			defer wg.Done()
			blockHash, err := store.StoreBlock(util.NewBlock(testMsgBlock(nonce)))
			if err != nil {
				errs <- err
				return
			}
			_, err = store.Block(blockHash)
			if err != nil {
				errs <- err
			}
		}(nonce)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("%s: concurrent access failed: %s", testName, err)
	}
}
