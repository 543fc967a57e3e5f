package blockvalidator

import (
	"github.com/Li-GuangCheng/fruitchain/util/blockweight"
)

// BlockValidator runs the context-free checks of a block: the ones that
// need nothing but the block itself.
type BlockValidator struct {
	maxBlockWeight int64
}

// New instantiates a new BlockValidator enforcing maxBlockWeight.
func New(maxBlockWeight int64) *BlockValidator {
	return &BlockValidator{
		maxBlockWeight: maxBlockWeight,
	}
}

// NewDefault instantiates a new BlockValidator enforcing
// blockweight.MaxBlockWeight.
func NewDefault() *BlockValidator {
	return New(blockweight.MaxBlockWeight)
}
