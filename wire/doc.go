// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the consensus encoding of fruitchain blocks.

A block is a header, an ordered list of transactions and an ordered list of
fruits. Fruits are block headers mined against an easier target; they are
committed to by the FruitsHash field of the including block's header.

Header layout

All integers are little endian.

	Version        int32     4 bytes
	PrevBlock      hash     32 bytes
	PrevEpisode    hash     32 bytes
	MerkleRoot     hash     32 bytes
	FruitsHash     hash     32 bytes
	Timestamp      uint32    4 bytes
	Bits           uint32    4 bytes
	Nonce          uint32    4 bytes
	CreatorScript  varbytes  varint length + script
	Tax            uint8     1 byte

The block hash is the double SHA-256 of exactly those bytes.

Block locators

A BlockLocator has two encodings selected by EncodingMode. HashEncoding omits
the protocol version and is the only encoding that may be fed to a hash
function. NetworkEncoding and DiskEncoding prepend the protocol version.

Errors

Decoding failures are returned as *MessageError wrapping one of ErrTruncated,
ErrInvalidLengthPrefix, ErrTrailingBytes or ErrInvalidTransaction. Decoders
never hand back a partially populated value.
*/
package wire
