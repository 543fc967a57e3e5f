// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/Li-GuangCheng/fruitchain/domain/consensus/utils/hashes"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/pkg/errors"
)

// BlockHeaderFixedPayload is the number of bytes of a block header not
// counting the creator script and its length prefix.
// Version 4 bytes + 4 hashes + Timestamp 4 bytes + Bits 4 bytes +
// Nonce 4 bytes + Tax 1 byte.
const BlockHeaderFixedPayload = 4 + 4*chainhash.HashSize + 4 + 4 + 4 + 1

// MinBlockHeaderPayload is the size of a block header with an empty creator
// script.
const MinBlockHeaderPayload = BlockHeaderFixedPayload + 1

// MaxCreatorScriptSize is the largest creator script a decoder accepts. It
// is the largest script the script engine would run.
const MaxCreatorScriptSize = txscript.MaxScriptSize

// BlockHeader defines information about a block and is used in the fruitchain
// block (MsgBlock) and as the element type of its fruits.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version int32

	// Hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// Hash of the previous episode.
	PrevEpisode chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Sequential aggregate of the hashes of the block's fruits. See
	// MsgBlock.FruitsHash.
	FruitsHash chainhash.Hash

	// Time the block was created, in seconds since the unix epoch. This is
	// encoded as a uint32 on the wire and therefore is limited to 2106.
	Timestamp uint32

	// Difficulty target for the block. A header with zero bits is null.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32

	// Payout script of the block's creator.
	CreatorScript []byte

	// Tax parameter of the block, fixed point.
	Tax uint8
}

// NewBlockHeader returns a new BlockHeader using the provided version, link
// hashes, roots, difficulty bits, nonce, creator script and tax. The timestamp
// is set to the current time with one second precision.
func NewBlockHeader(version int32, prevBlock, prevEpisode, merkleRoot, fruitsHash *chainhash.Hash,
	bits uint32, nonce uint32, creatorScript []byte, tax uint8) *BlockHeader {

	return &BlockHeader{
		Version:       version,
		PrevBlock:     *prevBlock,
		PrevEpisode:   *prevEpisode,
		MerkleRoot:    *merkleRoot,
		FruitsHash:    *fruitsHash,
		Timestamp:     uint32(time.Now().Unix()),
		Bits:          bits,
		Nonce:         nonce,
		CreatorScript: cloneBytes(creatorScript),
		Tax:           tax,
	}
}

// NewBlockHeaderFromBytes decodes a block header from b. It fails if b holds
// anything beyond a single header.
func NewBlockHeaderFromBytes(b []byte) (*BlockHeader, error) {
	r := bytes.NewReader(b)
	header := &BlockHeader{}
	err := header.Deserialize(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("%d bytes left after block header", r.Len())
		return nil, messageError("NewBlockHeaderFromBytes", ErrTrailingBytes, str)
	}
	return header, nil
}

// Reset sets every field to its zero value.
func (h *BlockHeader) Reset() {
	*h = BlockHeader{}
}

// IsNull returns whether the header is the null header. Only Bits is
// consulted: a header with zero bits is null whatever its other fields hold.
func (h *BlockHeader) IsNull() bool {
	return h.Bits == 0
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	writer := hashes.NewDoubleHashWriter()
	err := writeBlockHeader(writer, h)
	if err != nil {
		// The writer never fails and every element type is known, so this
		// can only be a programming error.
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}
	return writer.Finalize()
}

// BlockTime returns the header timestamp as a signed 64 bit number of seconds.
func (h *BlockHeader) BlockTime() int64 {
	return int64(h.Timestamp)
}

// Copy returns a deep copy of the header.
func (h *BlockHeader) Copy() *BlockHeader {
	clone := *h
	clone.CreatorScript = cloneBytes(h.CreatorScript)
	return &clone
}

// String returns a diagnostic representation of the header. The format is
// not stable.
func (h *BlockHeader) String() string {
	return fmt.Sprintf("BlockHeader(hash=%s, ver=0x%08x, prevBlock=%s, prevEpisode=%s, "+
		"merkleRoot=%s, fruitsHash=%s, time=%d, bits=%08x, nonce=%d, tax=%d)",
		h.BlockHash(), uint32(h.Version), h.PrevBlock, h.PrevEpisode,
		h.MerkleRoot, h.FruitsHash, h.Timestamp, h.Bits, h.Nonce, h.Tax)
}

// Deserialize decodes a block header from r into the receiver. The
// receiver is left untouched when decoding fails.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	var decoded BlockHeader
	err := readBlockHeader(r, &decoded)
	if err != nil {
		return toMessageError("BlockHeader.Deserialize", err)
	}
	*h = decoded
	return nil
}

// Serialize encodes the block header to w. The encoding is the same on the
// network, on disk and as hash input.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, h)
}

// Bytes returns the serialized header.
func (h *BlockHeader) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, h.SerializeSize()))
	err := h.Serialize(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// block header.
func (h *BlockHeader) SerializeSize() int {
	return BlockHeaderFixedPayload + varBytesSerializeSize(h.CreatorScript)
}

// readBlockHeader reads a block header from r.
func readBlockHeader(r io.Reader, bh *BlockHeader) error {
	err := readElements(r, &bh.Version, &bh.PrevBlock, &bh.PrevEpisode,
		&bh.MerkleRoot, &bh.FruitsHash, &bh.Timestamp, &bh.Bits, &bh.Nonce)
	if err != nil {
		return err
	}

	bh.CreatorScript, err = readVarBytes(r, MaxCreatorScriptSize, "CreatorScript")
	if err != nil {
		return err
	}

	return readElement(r, &bh.Tax)
}

// writeBlockHeader writes a block header to w in the canonical field order.
func writeBlockHeader(w io.Writer, bh *BlockHeader) error {
	err := writeElements(w, bh.Version, &bh.PrevBlock, &bh.PrevEpisode,
		&bh.MerkleRoot, &bh.FruitsHash, bh.Timestamp, bh.Bits, bh.Nonce)
	if err != nil {
		return err
	}

	err = writeVarBytes(w, bh.CreatorScript)
	if err != nil {
		return err
	}

	return writeElement(w, bh.Tax)
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	clone := make([]byte, len(b))
	copy(clone, b)
	return clone
}
