// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func locatorHashes() []chainhash.Hash {
	var first, second chainhash.Hash
	for i := range first {
		first[i] = 0x01
		second[i] = 0x02
	}
	return []chainhash.Hash{first, second}
}

var locatorHashEncoding = mustDecodeHex("02" +
	"0101010101010101010101010101010101010101010101010101010101010101" +
	"0202020202020202020202020202020202020202020202020202020202020202")

// locatorNetworkEncoding is locatorHashEncoding preceded by ProtocolVersion.
var locatorNetworkEncoding = append(mustDecodeHex("7e110100"), locatorHashEncoding...)

const locatorHash = "203e7d4eff9b0c949333bed87bc34a658919188ee0b6838a48cda610bd14e5bf"

func TestBlockLocatorIsNull(t *testing.T) {
	if !NewBlockLocator(nil).IsNull() {
		t.Errorf("IsNull: locator without hashes should be null")
	}
	if !(&BlockLocator{}).IsNull() {
		t.Errorf("IsNull: zero value locator should be null")
	}

	locator := NewBlockLocator(locatorHashes()[:1])
	if locator.IsNull() {
		t.Errorf("IsNull: locator with a hash should not be null")
	}

	locator.Reset()
	if !locator.IsNull() {
		t.Errorf("IsNull: locator should be null after Reset")
	}
}

func TestNewBlockLocatorCopies(t *testing.T) {
	hashes := locatorHashes()
	locator := NewBlockLocator(hashes)
	hashes[0][0] = 0xff

	if !reflect.DeepEqual(locator.BlockHashes, locatorHashes()) {
		t.Errorf("NewBlockLocator shares memory with its input: %v", spew.Sdump(locator.BlockHashes))
	}
}

// TestBlockLocatorEncodingModes tests that the same locator produces
// different bytes in hash mode and in network/disk mode.
func TestBlockLocatorEncodingModes(t *testing.T) {
	locator := NewBlockLocator(locatorHashes())

	tests := []struct {
		mode EncodingMode
		buf  []byte
	}{
		{HashEncoding, locatorHashEncoding},
		{NetworkEncoding, locatorNetworkEncoding},
		{DiskEncoding, locatorNetworkEncoding},
	}

	for _, test := range tests {
		encoded, err := locator.Bytes(ProtocolVersion, test.mode)
		if err != nil {
			t.Fatalf("%s: Bytes: %+v", test.mode, err)
		}
		if !bytes.Equal(encoded, test.buf) {
			t.Errorf("%s: Bytes: got %x, want %x", test.mode, encoded, test.buf)
		}
		if size := locator.SerializeSize(test.mode); size != len(test.buf) {
			t.Errorf("%s: SerializeSize: got %d, want %d", test.mode, size, len(test.buf))
		}

		decoded, pver, err := NewBlockLocatorFromBytes(test.buf, test.mode)
		if err != nil {
			t.Fatalf("%s: NewBlockLocatorFromBytes: %+v", test.mode, err)
		}
		if !reflect.DeepEqual(decoded, locator) {
			t.Errorf("%s: decoded %v, want %v", test.mode, spew.Sdump(decoded), spew.Sdump(locator))
		}
		wantPver := ProtocolVersion
		if test.mode == HashEncoding {
			wantPver = 0
		}
		if pver != wantPver {
			t.Errorf("%s: protocol version: got %d, want %d", test.mode, pver, wantPver)
		}
	}
}

// TestBlockLocatorHash ensures the locator hash is taken over the hash mode
// encoding, whatever protocol version the caller has at hand.
func TestBlockLocatorHash(t *testing.T) {
	locator := NewBlockLocator(locatorHashes())
	hash := locator.Hash()
	if hash.String() != locatorHash {
		t.Errorf("Hash: got %s, want %s", hash, locatorHash)
	}
	if hash != chainhash.DoubleHashH(locatorHashEncoding) {
		t.Errorf("Hash: not the double hash of the hash mode encoding")
	}
	if hash == chainhash.DoubleHashH(locatorNetworkEncoding) {
		t.Errorf("Hash: must not cover the protocol version")
	}
}

func TestBlockLocatorEmpty(t *testing.T) {
	locator := NewBlockLocator(nil)
	encoded, err := locator.Bytes(ProtocolVersion, HashEncoding)
	if err != nil {
		t.Fatalf("Bytes: %+v", err)
	}
	if !bytes.Equal(encoded, []byte{0x00}) {
		t.Errorf("Bytes: got %x, want 00", encoded)
	}

	decoded, _, err := NewBlockLocatorFromBytes(encoded, HashEncoding)
	if err != nil {
		t.Fatalf("NewBlockLocatorFromBytes: %+v", err)
	}
	if !decoded.IsNull() {
		t.Errorf("decoded empty locator should be null")
	}
}

func TestBlockLocatorInvalidMode(t *testing.T) {
	locator := NewBlockLocator(locatorHashes())

	var buf bytes.Buffer
	if err := locator.Encode(&buf, ProtocolVersion, EncodingMode(0)); err == nil {
		t.Errorf("Encode: expected an error for the zero mode")
	}
	if _, err := locator.Decode(bytes.NewReader(locatorHashEncoding), EncodingMode(42)); err == nil {
		t.Errorf("Decode: expected an error for an unknown mode")
	}
	if buf.Len() != 0 {
		t.Errorf("Encode: wrote %d bytes for an invalid mode", buf.Len())
	}
}

// TestBlockLocatorDecodeErrors performs negative tests against locator
// decoding, including decoding with the wrong mode.
func TestBlockLocatorDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		mode EncodingMode
		kind error
	}{
		{"empty", nil, HashEncoding, ErrTruncated},
		{"truncated version", locatorNetworkEncoding[:3], NetworkEncoding, ErrTruncated},
		{"truncated hash", locatorHashEncoding[:40], HashEncoding, ErrTruncated},
		// 0x7e is read as a count of 126 hashes.
		{"network bytes in hash mode", locatorNetworkEncoding, HashEncoding, ErrTruncated},
		// The count and first hash bytes are read as a protocol version.
		{"hash bytes in disk mode", locatorHashEncoding, DiskEncoding, ErrTrailingBytes},
		{"non-canonical count", []byte{0xfd, 0x02, 0x00}, HashEncoding, ErrInvalidLengthPrefix},
		{"count too large", []byte{0xfe, 0x00, 0x00, 0x00, 0x01}, HashEncoding, ErrInvalidLengthPrefix},
		{"count of a million hashes", []byte{0xfe, 0x00, 0x00, 0x10, 0x00}, HashEncoding, ErrInvalidLengthPrefix},
		{"one hash over the limit", []byte{0xfd, 0xf5, 0x01}, HashEncoding, ErrInvalidLengthPrefix},
		{"over the limit in network mode", append(mustDecodeHex("7e110100"), 0xfd, 0xf5, 0x01), NetworkEncoding, ErrInvalidLengthPrefix},
		{"trailing bytes", append(append([]byte{}, locatorHashEncoding...), 0x00), HashEncoding, ErrTrailingBytes},
	}

	for _, test := range tests {
		_, _, err := NewBlockLocatorFromBytes(test.buf, test.mode)
		if !errors.Is(err, test.kind) {
			t.Errorf("%s: expected kind %q, got %v", test.name, test.kind, err)
		}
	}
}

// TestBlockLocatorEncodeLimit ensures locators longer than
// MaxBlockLocatorsPerMsg are refused by the encodings that carry a protocol
// version but can still be hashed.
func TestBlockLocatorEncodeLimit(t *testing.T) {
	atLimit := NewBlockLocator(make([]chainhash.Hash, MaxBlockLocatorsPerMsg))
	encoded, err := atLimit.Bytes(ProtocolVersion, NetworkEncoding)
	if err != nil {
		t.Fatalf("Bytes: unexpected error at the limit: %+v", err)
	}
	decoded, _, err := NewBlockLocatorFromBytes(encoded, NetworkEncoding)
	if err != nil {
		t.Fatalf("NewBlockLocatorFromBytes: unexpected error at the limit: %+v", err)
	}
	if len(decoded.BlockHashes) != MaxBlockLocatorsPerMsg {
		t.Errorf("decoded %d hashes, want %d", len(decoded.BlockHashes), MaxBlockLocatorsPerMsg)
	}

	overLimit := NewBlockLocator(make([]chainhash.Hash, MaxBlockLocatorsPerMsg+1))
	for _, mode := range []EncodingMode{NetworkEncoding, DiskEncoding} {
		_, err := overLimit.Bytes(ProtocolVersion, mode)
		if !errors.Is(err, ErrInvalidLengthPrefix) {
			t.Errorf("%s: expected ErrInvalidLengthPrefix, got %v", mode, err)
		}
	}
	if _, err := overLimit.Bytes(ProtocolVersion, HashEncoding); err != nil {
		t.Errorf("HashEncoding: unexpected error: %+v", err)
	}
	overLimit.Hash()
}
