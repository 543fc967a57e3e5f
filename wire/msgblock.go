// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Li-GuangCheng/fruitchain/domain/consensus/utils/hashes"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// defaultTransactionAlloc is the default size used for the backing array
// for transactions. The transaction array will dynamically grow as needed, but
// this figure is intended to provide enough space for the number of
// transactions in the vast majority of blocks without needing to grow the
// backing array multiple times.
const defaultTransactionAlloc = 2048

// maxTxPerBlock is the maximum number of transactions that could
// possibly fit into a block.
const maxTxPerBlock = (MaxBlockPayload / minTxPayload) + 1

// maxFruitsPerBlock is the maximum number of fruit headers that could
// possibly fit into a block.
const maxFruitsPerBlock = (MaxBlockPayload / MinBlockHeaderPayload) + 1

// maxInitialAlloc bounds the capacity preallocated from a decoded count. The
// slices grow past it as items are actually read.
const maxInitialAlloc = 256

// initialAlloc returns the capacity to preallocate for count decoded items.
func initialAlloc(count uint64) uint64 {
	if count > maxInitialAlloc {
		return maxInitialAlloc
	}
	return count
}

// EmptyFruitsHash is the FruitsHash of a block without fruits. The fold over
// an empty sequence never leaves its initial accumulator, the zero hash.
var EmptyFruitsHash = chainhash.Hash{}

// MsgBlock implements the fruitchain block message. It is used to deliver
// block and transaction information in response to a getdata message for a
// given block hash and is the unit written to the block store.
//
// The header is held by value. Header fields are read through Header or
// through the delegating methods BlockHash, IsNull and BlockTime.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*btcwire.MsgTx
	Fruits       []*BlockHeader
}

// NewMsgBlock returns a new fruitchain block message holding a copy of the
// given header.
func NewMsgBlock(blockHeader *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header:       *blockHeader.Copy(),
		Transactions: make([]*btcwire.MsgTx, 0, defaultTransactionAlloc),
	}
}

// NewMsgBlockFromBytes decodes a block from b. It fails if b holds anything
// beyond a single block.
func NewMsgBlockFromBytes(b []byte) (*MsgBlock, error) {
	r := bytes.NewReader(b)
	msg := &MsgBlock{}
	err := msg.Deserialize(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("%d bytes left after block", r.Len())
		return nil, messageError("NewMsgBlockFromBytes", ErrTrailingBytes, str)
	}
	return msg, nil
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *btcwire.MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// ClearTransactions removes all transactions from the message.
func (msg *MsgBlock) ClearTransactions() {
	msg.Transactions = make([]*btcwire.MsgTx, 0, defaultTransactionAlloc)
}

// AddFruit appends a fruit header to the message. The fruit is used as is,
// callers that keep mutating it should pass a copy.
func (msg *MsgBlock) AddFruit(fruit *BlockHeader) {
	msg.Fruits = append(msg.Fruits, fruit)
}

// ClearFruits removes all fruits from the message.
func (msg *MsgBlock) ClearFruits() {
	msg.Fruits = nil
}

// Reset resets the header and removes every transaction and fruit.
func (msg *MsgBlock) Reset() {
	msg.Header.Reset()
	msg.Transactions = nil
	msg.Fruits = nil
}

// BlockHeader returns a new header holding a copy of the block's header
// fields. The returned header shares no memory with msg.
func (msg *MsgBlock) BlockHeader() *BlockHeader {
	return &BlockHeader{
		Version:       msg.Header.Version,
		PrevBlock:     msg.Header.PrevBlock,
		PrevEpisode:   msg.Header.PrevEpisode,
		MerkleRoot:    msg.Header.MerkleRoot,
		FruitsHash:    msg.Header.FruitsHash,
		Timestamp:     msg.Header.Timestamp,
		Bits:          msg.Header.Bits,
		Nonce:         msg.Header.Nonce,
		CreatorScript: cloneBytes(msg.Header.CreatorScript),
		Tax:           msg.Header.Tax,
	}
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// IsNull returns whether the block's header is null.
func (msg *MsgBlock) IsNull() bool {
	return msg.Header.IsNull()
}

// BlockTime returns the block's header timestamp widened to int64.
func (msg *MsgBlock) BlockTime() int64 {
	return msg.Header.BlockTime()
}

// FruitsHash folds the hashes of the block's fruits, in order, into a single
// hash:
//
//	acc = 0
//	for each fruit: acc = DoubleSHA256(acc || fruit.BlockHash())
//
// The result depends on the order of the fruits. A block without fruits
// yields EmptyFruitsHash.
func (msg *MsgBlock) FruitsHash() chainhash.Hash {
	fruitsHash := EmptyFruitsHash
	for _, fruit := range msg.Fruits {
		fruitHash := fruit.BlockHash()
		fruitsHash = hashes.DoubleHashPair(&fruitsHash, &fruitHash)
	}
	return fruitsHash
}

// TxHashes returns a slice of hashes of all of transactions in this block.
func (msg *MsgBlock) TxHashes() []chainhash.Hash {
	hashList := make([]chainhash.Hash, 0, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		hashList = append(hashList, tx.TxHash())
	}
	return hashList
}

// Deserialize decodes a block from r into the receiver. Transactions are
// decoded with witness data when present. The receiver is left untouched
// when decoding fails.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	var decoded MsgBlock
	err := readBlock(r, &decoded)
	if err != nil {
		return toMessageError("MsgBlock.Deserialize", err)
	}
	*msg = decoded
	return nil
}

// Serialize encodes the block to w, including transaction witness data.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	return writeBlock(w, msg, (*btcwire.MsgTx).Serialize)
}

// SerializeNoWitness encodes the block to w with every transaction stripped
// of its witness data.
func (msg *MsgBlock) SerializeNoWitness(w io.Writer) error {
	return writeBlock(w, msg, (*btcwire.MsgTx).SerializeNoWitness)
}

// Bytes returns the serialized block, including witness data.
func (msg *MsgBlock) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	err := msg.Serialize(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// block, including witness data.
func (msg *MsgBlock) SerializeSize() int {
	return msg.serializeSize((*btcwire.MsgTx).SerializeSize)
}

// SerializeSizeStripped returns the number of bytes it would take to serialize
// the block, excluding any witness data.
func (msg *MsgBlock) SerializeSizeStripped() int {
	return msg.serializeSize((*btcwire.MsgTx).SerializeSizeStripped)
}

func (msg *MsgBlock) serializeSize(txSize func(*btcwire.MsgTx) int) int {
	n := msg.Header.SerializeSize() +
		VarIntSerializeSize(uint64(len(msg.Transactions))) +
		VarIntSerializeSize(uint64(len(msg.Fruits)))

	for _, tx := range msg.Transactions {
		n += txSize(tx)
	}
	for _, fruit := range msg.Fruits {
		n += fruit.SerializeSize()
	}
	return n
}

// String returns a diagnostic representation of the block. The format is
// not stable.
func (msg *MsgBlock) String() string {
	// A malformed creator script is still displayed up to the offending
	// opcode, so the error is not interesting here.
	creator, _ := txscript.DisasmString(msg.Header.CreatorScript)

	var s strings.Builder
	fmt.Fprintf(&s, "MsgBlock(hash=%s, ver=0x%08x, prevBlock=%s, prevEpisode=%s, "+
		"merkleRoot=%s, fruitsHash=%s, time=%d, bits=%08x, nonce=%d, tax=%d, "+
		"creator=%q, vtx=%d, vfrt=%d)\n",
		msg.BlockHash(), uint32(msg.Header.Version), msg.Header.PrevBlock,
		msg.Header.PrevEpisode, msg.Header.MerkleRoot, msg.Header.FruitsHash,
		msg.Header.Timestamp, msg.Header.Bits, msg.Header.Nonce, msg.Header.Tax,
		creator, len(msg.Transactions), len(msg.Fruits))
	for _, tx := range msg.Transactions {
		fmt.Fprintf(&s, "  tx %s\n", tx.TxHash())
	}
	for _, fruit := range msg.Fruits {
		fmt.Fprintf(&s, "  fruit %s\n", fruit)
	}
	return s.String()
}

func readBlock(r io.Reader, msg *MsgBlock) error {
	err := readBlockHeader(r, &msg.Header)
	if err != nil {
		return err
	}

	txCount, err := readCount(r, maxTxPerBlock, "transactions")
	if err != nil {
		return err
	}
	if txCount > 0 {
		msg.Transactions = make([]*btcwire.MsgTx, 0, initialAlloc(txCount))
	}
	for i := uint64(0); i < txCount; i++ {
		tx, err := readTransaction(r)
		if err != nil {
			return err
		}
		msg.Transactions = append(msg.Transactions, tx)
	}

	fruitCount, err := readCount(r, maxFruitsPerBlock, "fruits")
	if err != nil {
		return err
	}
	if fruitCount > 0 {
		msg.Fruits = make([]*BlockHeader, 0, initialAlloc(fruitCount))
	}
	for i := uint64(0); i < fruitCount; i++ {
		fruit := &BlockHeader{}
		err := readBlockHeader(r, fruit)
		if err != nil {
			return err
		}
		msg.Fruits = append(msg.Fruits, fruit)
	}
	return nil
}

// readTransaction decodes one witness-aware transaction. btcd reports
// truncation with io errors and everything else with its own MessageError.
func readTransaction(r io.Reader) (*btcwire.MsgTx, error) {
	tx := &btcwire.MsgTx{}
	err := tx.Deserialize(r)
	if err == nil {
		return tx, nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, messageError("readTransaction", ErrTruncated, err.Error())
	}
	return nil, messageError("readTransaction", ErrInvalidTransaction, err.Error())
}

func writeBlock(w io.Writer, msg *MsgBlock, writeTx func(*btcwire.MsgTx, io.Writer) error) error {
	err := writeBlockHeader(w, &msg.Header)
	if err != nil {
		return err
	}

	err = WriteVarInt(w, uint64(len(msg.Transactions)))
	if err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		err = writeTx(tx, w)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	err = WriteVarInt(w, uint64(len(msg.Fruits)))
	if err != nil {
		return err
	}
	for _, fruit := range msg.Fruits {
		err = writeBlockHeader(w, fruit)
		if err != nil {
			return err
		}
	}
	return nil
}
