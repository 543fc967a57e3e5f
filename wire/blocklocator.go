// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Li-GuangCheng/fruitchain/domain/consensus/utils/hashes"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// MaxBlockLocatorsPerMsg is the maximum number of block locator hashes
// allowed in a locator.
const MaxBlockLocatorsPerMsg = 500

// BlockLocator describes a place in the block chain to another node such that
// if the other node doesn't have the same branch, it can find a recent common
// trunk. The further back it is, the further before the fork it may be.
//
// BlockHashes is ordered from the most recent block backwards.
type BlockLocator struct {
	BlockHashes []chainhash.Hash
}

// NewBlockLocator returns a locator holding a copy of blockHashes.
func NewBlockLocator(blockHashes []chainhash.Hash) *BlockLocator {
	locator := &BlockLocator{}
	if len(blockHashes) > 0 {
		locator.BlockHashes = make([]chainhash.Hash, len(blockHashes))
		copy(locator.BlockHashes, blockHashes)
	}
	return locator
}

// NewBlockLocatorFromBytes decodes a locator from b using the given mode.
// It returns the protocol version that prefixed it, which is zero in
// HashEncoding.
func NewBlockLocatorFromBytes(b []byte, mode EncodingMode) (*BlockLocator, uint32, error) {
	r := bytes.NewReader(b)
	locator := &BlockLocator{}
	pver, err := locator.Decode(r, mode)
	if err != nil {
		return nil, 0, err
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("%d bytes left after block locator", r.Len())
		return nil, 0, messageError("NewBlockLocatorFromBytes", ErrTrailingBytes, str)
	}
	return locator, pver, nil
}

// Reset removes every hash from the locator.
func (l *BlockLocator) Reset() {
	l.BlockHashes = nil
}

// IsNull returns whether the locator holds no hashes.
func (l *BlockLocator) IsNull() bool {
	return len(l.BlockHashes) == 0
}

// Encode writes the locator to w. In NetworkEncoding and DiskEncoding the
// hashes are preceded by pver. In HashEncoding pver is ignored.
func (l *BlockLocator) Encode(w io.Writer, pver uint32, mode EncodingMode) error {
	if !mode.isValid() {
		return errors.Errorf("BlockLocator.Encode: invalid encoding mode %s", mode)
	}

	// Only the encodings that leave the process are bounded, so Hash works
	// for locators of any length.
	count := len(l.BlockHashes)
	if mode.includesVersion() && count > MaxBlockLocatorsPerMsg {
		str := fmt.Sprintf("too many block locator hashes [count %d, max %d]",
			count, MaxBlockLocatorsPerMsg)
		return messageError("BlockLocator.Encode", ErrInvalidLengthPrefix, str)
	}

	if mode.includesVersion() {
		err := writeElement(w, pver)
		if err != nil {
			return err
		}
	}

	err := WriteVarInt(w, uint64(count))
	if err != nil {
		return err
	}
	for i := range l.BlockHashes {
		err := writeElement(w, &l.BlockHashes[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a locator encoded in the given mode from r into the receiver
// and returns the protocol version it was encoded with. The receiver is left
// untouched when decoding fails.
func (l *BlockLocator) Decode(r io.Reader, mode EncodingMode) (uint32, error) {
	if !mode.isValid() {
		return 0, errors.Errorf("BlockLocator.Decode: invalid encoding mode %s", mode)
	}

	var pver uint32
	if mode.includesVersion() {
		err := readElement(r, &pver)
		if err != nil {
			return 0, toMessageError("BlockLocator.Decode", err)
		}
	}

	count, err := readCount(r, MaxBlockLocatorsPerMsg, "block locator hashes")
	if err != nil {
		return 0, err
	}

	var blockHashes []chainhash.Hash
	if count > 0 {
		blockHashes = make([]chainhash.Hash, count)
	}
	for i := range blockHashes {
		err := readElement(r, &blockHashes[i])
		if err != nil {
			return 0, toMessageError("BlockLocator.Decode", err)
		}
	}

	l.BlockHashes = blockHashes
	return pver, nil
}

// Bytes returns the locator encoded in the given mode.
func (l *BlockLocator) Bytes(pver uint32, mode EncodingMode) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, l.SerializeSize(mode)))
	err := l.Encode(buf, pver, mode)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeSize returns the number of bytes Encode writes in the given mode.
func (l *BlockLocator) SerializeSize(mode EncodingMode) int {
	n := VarIntSerializeSize(uint64(len(l.BlockHashes))) +
		len(l.BlockHashes)*chainhash.HashSize
	if mode.includesVersion() {
		n += 4
	}
	return n
}

// Hash returns the double SHA-256 of the locator's HashEncoding.
func (l *BlockLocator) Hash() chainhash.Hash {
	writer := hashes.NewDoubleHashWriter()
	err := l.Encode(writer, 0, HashEncoding)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}
	return writer.Finalize()
}
