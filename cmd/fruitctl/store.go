package main

import (
	"fmt"
	"io"

	"github.com/Li-GuangCheng/fruitchain/domain/blockstore"
	"github.com/Li-GuangCheng/fruitchain/domain/consensus/processes/blockvalidator"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/config"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/db/database/drivers"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/logger"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

const blockStoreCacheSize = 16

// withBlockStore resolves cfgFlags, opens the configured database and runs f
// against a block store over it.
func withBlockStore(cfgFlags *config.Flags, f func(store *blockstore.BlockStore) error) error {
	cfg, err := cfgFlags.Resolve()
	if err != nil {
		return err
	}

	if cfg.LogFile != "" {
		err := logger.InitLogRotator(cfg.LogFile)
		if err != nil {
			return err
		}
		defer logger.CloseLogRotator()
	}

	db, err := drivers.Open(cfg.DBType, cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close()
		if closeErr != nil {
			log.Errorf("Failed to close the database: %s", closeErr)
		}
	}()

	return f(blockstore.New(db, blockStoreCacheSize))
}

func storeBlock(conf *storeBlockConfig, out io.Writer) error {
	block, err := parseBlock(conf.Hex)
	if err != nil {
		return err
	}
	err = blockvalidator.NewDefault().CheckBlockSanity(block)
	if err != nil {
		return err
	}

	return withBlockStore(&conf.Flags, func(store *blockstore.BlockStore) error {
		blockHash, err := store.StoreBlock(block)
		if err != nil {
			return err
		}
		log.Infof("Stored block %s", blockHash)
		_, err = fmt.Fprintln(out, blockHash)
		return err
	})
}

func getBlock(conf *getBlockConfig, out io.Writer) error {
	blockHash, err := chainhash.NewHashFromStr(conf.Hash)
	if err != nil {
		return errors.Wrapf(err, "invalid hash %s", conf.Hash)
	}

	return withBlockStore(&conf.Flags, func(store *blockstore.BlockStore) error {
		block, err := store.Block(blockHash)
		if database.IsNotFoundError(err) {
			return errors.Errorf("block %s is not in the database", blockHash)
		}
		if err != nil {
			return err
		}
		return printBlock(block, conf.Dump, out)
	})
}

func listBlocks(conf *listBlocksConfig, out io.Writer) error {
	return withBlockStore(&conf.Flags, func(store *blockstore.BlockStore) error {
		blockHashes, err := store.BlockHashes()
		if err != nil {
			return err
		}
		for _, blockHash := range blockHashes {
			_, err := fmt.Fprintln(out, blockHash)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
