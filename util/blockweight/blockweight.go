// Package blockweight computes the consensus weight of blocks and
// transactions. Weight discounts witness data: every byte of the stripped
// encoding counts WitnessScaleFactor times, every witness byte counts once.
package blockweight

import (
	"github.com/Li-GuangCheng/fruitchain/wire"
	btcwire "github.com/btcsuite/btcd/wire"
)

const (
	// WitnessScaleFactor is the discount applied to witness bytes relative
	// to the rest of the encoding.
	WitnessScaleFactor = 4

	// MaxBlockWeight is the largest weight a block may have.
	MaxBlockWeight = 4000000
)

// WeightFromSizes returns the weight of a record whose encoding without
// witness data is strippedSize bytes long and whose full encoding is
// totalSize bytes long.
func WeightFromSizes(strippedSize, totalSize int) int64 {
	return int64(strippedSize)*(WitnessScaleFactor-1) + int64(totalSize)
}

// BlockWeight returns the weight of the given block, fruits included.
func BlockWeight(msgBlock *wire.MsgBlock) int64 {
	return WeightFromSizes(msgBlock.SerializeSizeStripped(), msgBlock.SerializeSize())
}

// TransactionWeight returns the weight of a single transaction.
func TransactionWeight(tx *btcwire.MsgTx) int64 {
	return WeightFromSizes(tx.SerializeSizeStripped(), tx.SerializeSize())
}

// IsWithinLimit returns whether a weight is acceptable for a block.
func IsWithinLimit(weight int64) bool {
	return weight <= MaxBlockWeight
}
