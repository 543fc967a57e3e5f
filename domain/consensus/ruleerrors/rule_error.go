package ruleerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrBadFruitsHash indicates the fruits hash committed to by the block
	// header does not match the fold over the block's fruits.
	ErrBadFruitsHash = newRuleError("ErrBadFruitsHash")

	// ErrBlockWeightTooHigh indicates the weight of a block exceeds the
	// maximum allowed limits.
	ErrBlockWeightTooHigh = newRuleError("ErrBlockWeightTooHigh")

	// ErrNullBlockHeader indicates a block whose header is the null
	// header, i.e. has zero bits.
	ErrNullBlockHeader = newRuleError("ErrNullBlockHeader")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block failed due to one of the validation rules. The
// caller can use type assertions to determine if a failure was specifically
// due to a rule violation.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// ErrWeightOutOfRange carries the computed weight of a block that exceeded
// the allowed maximum.
type ErrWeightOutOfRange struct {
	Weight    int64
	MaxWeight int64
}

func (e ErrWeightOutOfRange) Error() string {
	return fmt.Sprintf("block weight %d is higher than the max of %d", e.Weight, e.MaxWeight)
}

// NewErrWeightOutOfRange creates a new ErrWeightOutOfRange error wrapped in a
// RuleError whose message matches ErrBlockWeightTooHigh.
func NewErrWeightOutOfRange(weight, maxWeight int64) error {
	return errors.WithStack(RuleError{
		message: ErrBlockWeightTooHigh.message,
		inner:   ErrWeightOutOfRange{Weight: weight, MaxWeight: maxWeight},
	})
}

// Is reports whether target is the RuleError with the same message, so that
// a detailed rule error still matches its sentinel with errors.Is.
func (e RuleError) Is(target error) bool {
	var other RuleError
	if !errors.As(target, &other) {
		return false
	}
	return other.inner == nil && other.message == e.message
}
