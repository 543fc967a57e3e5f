// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"sync/atomic"

	"github.com/Li-GuangCheng/fruitchain/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Block defines a fruitchain block that provides easier and more efficient
// manipulation of raw blocks. It also memoizes the hash and the serialized
// bytes of the block on their first access so subsequent accesses don't have
// to repeat the relatively expensive hashing and encoding operations.
//
// Block additionally carries the checked flag: a transient marker telling
// whether the context-free checks already passed. It is never serialized or
// hashed. Only one goroutine may set it, any number may read it.
//
// The memoized values are not synchronized. Call Hash and Bytes once before
// sharing a Block between goroutines, and do not modify the underlying
// MsgBlock after that.
type Block struct {
	// Underlying MsgBlock
	msgBlock *wire.MsgBlock

	// Serialized bytes for the block. This is used only internally, and .Bytes() should be used anywhere.
	serializedBlock []byte

	// Cached block hash. This is used only internally, and .Hash() should be used anywhere.
	blockHash *chainhash.Hash

	checked atomic.Bool
}

// NewBlock returns a new instance of a fruitchain block given an underlying
// wire.MsgBlock. See Block.
func NewBlock(msgBlock *wire.MsgBlock) *Block {
	return &Block{
		msgBlock: msgBlock,
	}
}

// NewBlockFromBytes returns a new instance of a fruitchain block given the
// serialized bytes. See Block.
func NewBlockFromBytes(serializedBlock []byte) (*Block, error) {
	msgBlock, err := wire.NewMsgBlockFromBytes(serializedBlock)
	if err != nil {
		return nil, err
	}
	b := NewBlock(msgBlock)
	b.serializedBlock = serializedBlock
	return b, nil
}

// MsgBlock returns the underlying wire.MsgBlock for the Block.
func (b *Block) MsgBlock() *wire.MsgBlock {
	// Return the cached block.
	return b.msgBlock
}

// Bytes returns the serialized bytes for the Block. This is equivalent to
// calling Serialize on the underlying wire.MsgBlock, however it caches the
// result so subsequent calls are more efficient.
func (b *Block) Bytes() ([]byte, error) {
	// Return the cached serialized bytes if it has already been generated.
	if len(b.serializedBlock) != 0 {
		return b.serializedBlock, nil
	}

	// Serialize the MsgBlock.
	w := bytes.NewBuffer(make([]byte, 0, b.msgBlock.SerializeSize()))
	err := b.msgBlock.Serialize(w)
	if err != nil {
		return nil, err
	}
	serializedBlock := w.Bytes()

	// Cache the serialized bytes and return them.
	b.serializedBlock = serializedBlock
	return serializedBlock, nil
}

// Hash returns the block identifier hash for the Block. This is equivalent to
// calling BlockHash on the underlying wire.MsgBlock, however it caches the
// result so subsequent calls are more efficient.
func (b *Block) Hash() *chainhash.Hash {
	// Return the cached block hash if it has already been generated.
	if b.blockHash != nil {
		return b.blockHash
	}

	// Cache the block hash and return it.
	hash := b.msgBlock.BlockHash()
	b.blockHash = &hash
	return &hash
}

// Checked returns whether the context-free checks already passed for this
// block.
func (b *Block) Checked() bool {
	return b.checked.Load()
}

// SetChecked sets the checked flag.
func (b *Block) SetChecked(checked bool) {
	b.checked.Store(checked)
}

// Reset resets the underlying block to its null state, clears the checked
// flag and drops the memoized hash and bytes.
func (b *Block) Reset() {
	b.msgBlock.Reset()
	b.serializedBlock = nil
	b.blockHash = nil
	b.checked.Store(false)
}
