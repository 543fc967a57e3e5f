package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/Li-GuangCheng/fruitchain/domain/consensus/processes/blockvalidator"
	"github.com/Li-GuangCheng/fruitchain/util"
	"github.com/Li-GuangCheng/fruitchain/util/blockweight"
	"github.com/Li-GuangCheng/fruitchain/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// dumpConfig prints every field. Methods are disabled so that the String
// summaries of headers and blocks do not stand in for their fields.
var dumpConfig = spew.ConfigState{
	Indent:                  " ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
}

func decodeHex(field string, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex in %s", field)
	}
	return b, nil
}

func parseHeader(s string) (*wire.BlockHeader, error) {
	headerBytes, err := decodeHex("--hex", s)
	if err != nil {
		return nil, err
	}
	return wire.NewBlockHeaderFromBytes(headerBytes)
}

func parseBlock(s string) (*util.Block, error) {
	blockBytes, err := decodeHex("--hex", s)
	if err != nil {
		return nil, err
	}
	return util.NewBlockFromBytes(blockBytes)
}

func decodeHeader(conf *decodeHeaderConfig, out io.Writer) error {
	header, err := parseHeader(conf.Hex)
	if err != nil {
		return err
	}
	if conf.Dump {
		_, err = fmt.Fprint(out, dumpConfig.Sdump(header))
		return err
	}
	_, err = fmt.Fprintln(out, header)
	return err
}

func decodeBlock(conf *decodeBlockConfig, out io.Writer) error {
	block, err := parseBlock(conf.Hex)
	if err != nil {
		return err
	}
	return printBlock(block, conf.Dump, out)
}

func printBlock(block *util.Block, dump bool, out io.Writer) error {
	if dump {
		_, err := fmt.Fprint(out, dumpConfig.Sdump(block.MsgBlock()))
		return err
	}
	_, err := fmt.Fprint(out, block.MsgBlock())
	return err
}

func headerHash(conf *headerHashConfig, out io.Writer) error {
	header, err := parseHeader(conf.Hex)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, header.BlockHash())
	return err
}

func fruitsHash(conf *fruitsHashConfig, out io.Writer) error {
	block, err := parseBlock(conf.Hex)
	if err != nil {
		return err
	}
	msgBlock := block.MsgBlock()
	calculated := msgBlock.FruitsHash()
	_, err = fmt.Fprintf(out, "fruits:     %d\ncalculated: %s\nheader:     %s\nmatch:      %t\n",
		len(msgBlock.Fruits), calculated, msgBlock.Header.FruitsHash,
		calculated == msgBlock.Header.FruitsHash)
	return err
}

func weight(conf *weightConfig, out io.Writer) error {
	block, err := parseBlock(conf.Hex)
	if err != nil {
		return err
	}
	msgBlock := block.MsgBlock()
	blockWeight := blockweight.BlockWeight(msgBlock)
	_, err = fmt.Fprintf(out, "stripped size: %d\ntotal size:    %d\nweight:        %d\nwithin limit:  %t\n",
		msgBlock.SerializeSizeStripped(), msgBlock.SerializeSize(), blockWeight,
		blockweight.IsWithinLimit(blockWeight))
	return err
}

func locatorHash(conf *locatorHashConfig, out io.Writer) error {
	blockHashes := make([]chainhash.Hash, len(conf.Hashes))
	for i, hashString := range conf.Hashes {
		blockHash, err := chainhash.NewHashFromStr(hashString)
		if err != nil {
			return errors.Wrapf(err, "invalid hash %s", hashString)
		}
		blockHashes[i] = *blockHash
	}
	locator := wire.NewBlockLocator(blockHashes)

	hashModeBytes, err := locator.Bytes(wire.ProtocolVersion, wire.HashEncoding)
	if err != nil {
		return err
	}
	networkModeBytes, err := locator.Bytes(wire.ProtocolVersion, wire.NetworkEncoding)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "hash:    %s\n%s: %x\n%s: %x\n", locator.Hash(),
		wire.HashEncoding, hashModeBytes, wire.NetworkEncoding, networkModeBytes)
	return err
}

func checkBlock(conf *checkBlockConfig, out io.Writer) error {
	block, err := parseBlock(conf.Hex)
	if err != nil {
		return err
	}
	err = blockvalidator.NewDefault().CheckBlockSanity(block)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "block %s passed the sanity checks\n", block.Hash())
	return err
}
