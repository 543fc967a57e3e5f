// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// Malformed encoding kinds. Every decoding error returned by this package
// wraps exactly one of them.
var (
	// ErrTruncated indicates the input ended before a complete record was read.
	ErrTruncated = errors.New("truncated stream")

	// ErrInvalidLengthPrefix indicates a variable length integer that is not
	// canonically encoded or that announces more items than may fit.
	ErrInvalidLengthPrefix = errors.New("invalid length prefix")

	// ErrTrailingBytes indicates bytes left over after a complete record.
	ErrTrailingBytes = errors.New("trailing bytes")

	// ErrInvalidTransaction indicates a transaction that btcd refused to decode
	// for a reason other than truncation.
	ErrInvalidTransaction = errors.New("invalid transaction encoding")
)

// MessageError describes a malformed encoding. Err holds the kind and can be
// matched with errors.Is.
type MessageError struct {
	Func        string // Function name
	Description string // Human readable description of the issue
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e *MessageError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("%s: %s: %s", e.Func, e.Err, e.Description)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Description)
}

// Unwrap returns the malformed encoding kind.
func (e *MessageError) Unwrap() error {
	return e.Err
}

// messageError creates an error for the given function, kind and description.
func messageError(f string, kind error, desc string) *MessageError {
	return &MessageError{Func: f, Description: desc, Err: kind}
}

// IsMalformedError returns whether the error indicates a malformed data source
func IsMalformedError(err error) bool {
	var msgErr *MessageError
	return errors.As(err, &msgErr)
}

// toMessageError maps low level read errors onto a *MessageError carrying
// the matching kind. Errors that are already a *MessageError are returned
// unchanged so the innermost function name is kept.
func toMessageError(f string, err error) error {
	if err == nil {
		return nil
	}

	var msgErr *MessageError
	if errors.As(err, &msgErr) {
		return msgErr
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return messageError(f, ErrTruncated, err.Error())
	}

	var btcErr *btcwire.MessageError
	if errors.As(err, &btcErr) {
		return messageError(f, ErrInvalidLengthPrefix, btcErr.Description)
	}

	return err
}
