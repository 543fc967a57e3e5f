package blockvalidator

import (
	"github.com/Li-GuangCheng/fruitchain/domain/consensus/ruleerrors"
	"github.com/Li-GuangCheng/fruitchain/infrastructure/logger"
	"github.com/Li-GuangCheng/fruitchain/util"
	"github.com/Li-GuangCheng/fruitchain/util/blockweight"
	"github.com/pkg/errors"
)

// CheckBlockSanity performs the context-free checks of block. A block whose
// checked flag is already set is accepted without repeating them. On
// success the checked flag is set.
func (v *BlockValidator) CheckBlockSanity(block *util.Block) error {
	if block.Checked() {
		log.Tracef("Skipping sanity checks of already checked block %s", block.Hash())
		return nil
	}

	onEnd := logger.LogAndMeasureExecutionTime(log, "CheckBlockSanity")
	defer onEnd()

	err := v.checkHeaderIsNotNull(block)
	if err != nil {
		return err
	}

	err = v.checkFruitsAreNotNull(block)
	if err != nil {
		return err
	}

	err = v.checkBlockFruitsHash(block)
	if err != nil {
		return err
	}

	err = v.checkBlockWeight(block)
	if err != nil {
		return err
	}

	block.SetChecked(true)
	return nil
}

func (v *BlockValidator) checkHeaderIsNotNull(block *util.Block) error {
	if block.MsgBlock().IsNull() {
		return errors.Wrapf(ruleerrors.ErrNullBlockHeader, "block %s has zero bits", block.Hash())
	}
	return nil
}

func (v *BlockValidator) checkFruitsAreNotNull(block *util.Block) error {
	for i, fruit := range block.MsgBlock().Fruits {
		if fruit.IsNull() {
			return errors.Wrapf(ruleerrors.ErrNullBlockHeader, "fruit %d of block %s "+
				"has zero bits", i, block.Hash())
		}
	}
	return nil
}

func (v *BlockValidator) checkBlockFruitsHash(block *util.Block) error {
	msgBlock := block.MsgBlock()
	calculatedFruitsHash := msgBlock.FruitsHash()
	if msgBlock.Header.FruitsHash != calculatedFruitsHash {
		return errors.Wrapf(ruleerrors.ErrBadFruitsHash, "block fruits hash is invalid - block "+
			"header indicates %s, but calculated value is %s",
			msgBlock.Header.FruitsHash, calculatedFruitsHash)
	}
	return nil
}

func (v *BlockValidator) checkBlockWeight(block *util.Block) error {
	weight := blockweight.BlockWeight(block.MsgBlock())
	if weight > v.maxBlockWeight {
		return ruleerrors.NewErrWeightOutOfRange(weight, v.maxBlockWeight)
	}
	return nil
}
