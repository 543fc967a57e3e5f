package hashes

import (
	"crypto/sha256"
	"hash"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// DoubleHashWriter is used to incrementally double hash data without
// concatenating all of the data to a single buffer. It exposes an io.Writer
// api and a Finalize function to get the resulting hash.
// DoubleHashWriter.Write(slice).Finalize == chainhash.DoubleHashH(slice)
type DoubleHashWriter struct {
	inner hash.Hash
}

// NewDoubleHashWriter returns a new DoubleHashWriter
func NewDoubleHashWriter() *DoubleHashWriter {
	return &DoubleHashWriter{sha256.New()}
}

// Write will always return (len(p), nil)
func (h *DoubleHashWriter) Write(p []byte) (n int, err error) {
	return h.inner.Write(p)
}

// InfallibleWrite is just like write but doesn't return anything
func (h *DoubleHashWriter) InfallibleWrite(p []byte) {
	// This write can never return an error, this is part of the hash.Hash interface contract.
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors."))
	}
}

// Finalize returns the resulting double hash
func (h *DoubleHashWriter) Finalize() chainhash.Hash {
	var firstHash [sha256.Size]byte
	h.inner.Sum(firstHash[:0])
	return sha256.Sum256(firstHash[:])
}

// DoubleHashPair returns the double hash of left followed by right.
func DoubleHashPair(left, right *chainhash.Hash) chainhash.Hash {
	writer := NewDoubleHashWriter()
	writer.InfallibleWrite(left[:])
	writer.InfallibleWrite(right[:])
	return writer.Finalize()
}
