// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"runtime"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
)

// baseHeader is a header with every hash zeroed, version 1, bits 1, an
// empty creator script and everything else zero.
func baseHeader() *BlockHeader {
	return &BlockHeader{
		Version: 1,
		Bits:    1,
	}
}

// baseHeaderBytes is the canonical encoding of baseHeader.
var baseHeaderBytes = func() []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00})  // Version
	buf.Write(make([]byte, 4*chainhash.HashSize)) // PrevBlock, PrevEpisode, MerkleRoot, FruitsHash
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00})  // Timestamp
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00})  // Bits
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00})  // Nonce
	buf.Write([]byte{0x00})                    // CreatorScript length
	buf.Write([]byte{0x00})                    // Tax
	return buf.Bytes()
}()

// baseHeaderHash is the double SHA-256 of baseHeaderBytes, in display
// (byte reversed) order.
const baseHeaderHash = "c4154ed03848d72140a21bd3be163d6884b7ec1f7bf8228f182797aba7823279"

// sequentialHash returns a hash whose bytes count up from start.
func sequentialHash(start byte) chainhash.Hash {
	var hash chainhash.Hash
	for i := range hash {
		hash[i] = start + byte(i)
	}
	return hash
}

// p2pkhScript is a pay-to-pubkey-hash script paying to 0x11 repeated.
var p2pkhScript = append(append([]byte{0x76, 0xa9, 0x14}, bytes.Repeat([]byte{0x11}, 20)...), 0x88, 0xac)

// fullHeader is a header with every field set to a distinct value.
func fullHeader() *BlockHeader {
	return &BlockHeader{
		Version:       2,
		PrevBlock:     sequentialHash(0x00),
		PrevEpisode:   sequentialHash(0x20),
		MerkleRoot:    sequentialHash(0x40),
		FruitsHash:    sequentialHash(0x60),
		Timestamp:     1231006505,
		Bits:          0x1d00ffff,
		Nonce:         2083236893,
		CreatorScript: append([]byte{}, p2pkhScript...),
		Tax:           5,
	}
}

var fullHeaderBytes = mustDecodeHex("02000000" +
	"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f" +
	"202122232425262728292a2b2c2d2e2f303132333435363738393a3b3c3d3e3f" +
	"404142434445464748494a4b4c4d4e4f505152535455565758595a5b5c5d5e5f" +
	"606162636465666768696a6b6c6d6e6f707172737475767778797a7b7c7d7e7f" +
	"29ab5f49" + "ffff001d" + "1dac2b7c" +
	"1976a914111111111111111111111111111111111111111188ac" +
	"05")

const fullHeaderHash = "91dc6df9a04aa32f7c12f88950a13381bcb3694c5388387c181d8bcd46af844e"

// witnessTx returns a transaction spending one input with a single 72 byte
// witness item to a one byte output script. Its stripped size is 61 bytes
// and its full size is 137 bytes.
func witnessTx() *btcwire.MsgTx {
	tx := btcwire.NewMsgTx(1)
	prevOut := btcwire.NewOutPoint(&chainhash.Hash{}, 0)
	witness := btcwire.TxWitness{bytes.Repeat([]byte{0x30}, 72)}
	tx.AddTxIn(btcwire.NewTxIn(prevOut, nil, witness))
	tx.AddTxOut(btcwire.NewTxOut(5000000000, []byte{0x51}))
	return tx
}

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// allocatedBytes returns roughly how many bytes f allocates on the heap.
func allocatedBytes(f func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	f()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}
