// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// ProtocolVersion is the latest protocol version this package supports.
const ProtocolVersion uint32 = 70014

// EncodingMode selects between the encodings of records whose bytes differ
// depending on where they go. The zero value is not a valid mode, so every
// caller has to pick one explicitly.
type EncodingMode uint8

const (
	// HashEncoding is the encoding fed to the hash function. It never carries
	// a protocol version.
	HashEncoding EncodingMode = iota + 1

	// NetworkEncoding is the encoding sent to peers.
	NetworkEncoding

	// DiskEncoding is the encoding written to the block store.
	DiskEncoding
)

var encodingModeStrings = map[EncodingMode]string{
	HashEncoding:    "HashEncoding",
	NetworkEncoding: "NetworkEncoding",
	DiskEncoding:    "DiskEncoding",
}

// String returns the EncodingMode in human-readable form.
func (mode EncodingMode) String() string {
	if s, ok := encodingModeStrings[mode]; ok {
		return s
	}
	return fmt.Sprintf("Unknown EncodingMode (%d)", uint8(mode))
}

func (mode EncodingMode) isValid() bool {
	_, ok := encodingModeStrings[mode]
	return ok
}

// includesVersion returns whether records encoded in this mode are prefixed
// with the protocol version.
func (mode EncodingMode) includesVersion() bool {
	return mode != HashEncoding
}
