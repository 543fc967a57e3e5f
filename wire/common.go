// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/Li-GuangCheng/fruitchain/util/binaryserializer"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)


// MaxBlockPayload is the maximum number of bytes a block can be. Every byte
// of a block weighs at least one weight unit, so the maximum block weight
// bounds the serialized size as well.
const MaxBlockPayload = 4000000

// minTxPayload is the minimum payload size for a transaction: version 4 bytes
// + varint number of inputs 1 byte + varint number of outputs 1 byte +
// lock time 4 bytes.
const minTxPayload = 10

// errNoEncodingForType signifies that there's no encoding for the given type.
var errNoEncodingForType = errors.New("there's no encoding for this type")

// readElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to.
func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		rv, err := binaryserializer.Int32(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *uint32:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *uint8:
		rv, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *chainhash.Hash:
		return binaryserializer.Hash(r, e)
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to read type %T", element)
}

// readElements reads multiple items from r. It is equivalent to multiple
// calls to readElement.
func readElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := readElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeElement writes the little endian representation of element to w.
func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case int32:
		return binaryserializer.PutInt32(w, e)

	case uint32:
		return binaryserializer.PutUint32(w, e)

	case uint8:
		return binaryserializer.PutUint8(w, e)

	case *chainhash.Hash:
		return binaryserializer.PutHash(w, e)
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to write type %T", element)
}

// writeElements writes multiple items to w. It is equivalent to multiple
// calls to writeElement.
func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := writeElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadVarInt reads a canonically encoded variable length integer from r.
func ReadVarInt(r io.Reader) (uint64, error) {
	count, err := btcwire.ReadVarInt(r, ProtocolVersion)
	if err != nil {
		return 0, toMessageError("ReadVarInt", err)
	}
	return count, nil
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, val uint64) error {
	return errors.WithStack(btcwire.WriteVarInt(w, ProtocolVersion, val))
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	return btcwire.VarIntSerializeSize(val)
}

// readCount reads a varint item count and rejects counts above maxCount.
func readCount(r io.Reader, maxCount uint64, fieldName string) (uint64, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return 0, err
	}
	if count > maxCount {
		str := fmt.Sprintf("too many %s [count %d, max %d]", fieldName, count, maxCount)
		return 0, messageError("readCount", ErrInvalidLengthPrefix, str)
	}
	return count, nil
}

// readVarBytes reads a variable length byte array. An empty array is returned
// as nil so that decoded records compare equal to freshly reset ones.
func readVarBytes(r io.Reader, maxAllowed uint32, fieldName string) ([]byte, error) {
	b, err := btcwire.ReadVarBytes(r, ProtocolVersion, maxAllowed, fieldName)
	if err != nil {
		return nil, toMessageError("readVarBytes", err)
	}
	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}

// writeVarBytes serializes a variable length byte array to w as a varInt
// containing the number of bytes, followed by the bytes themselves.
func writeVarBytes(w io.Writer, b []byte) error {
	return errors.WithStack(btcwire.WriteVarBytes(w, ProtocolVersion, b))
}

// varBytesSerializeSize returns the number of bytes writeVarBytes writes for b.
func varBytesSerializeSize(b []byte) int {
	return VarIntSerializeSize(uint64(len(b))) + len(b)
}
