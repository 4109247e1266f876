// SPDX-License-Identifier: MIT

package aplib

import "errors"

// Sentinel errors, one per error kind in the taxonomy. Structural decode
// failures wrap ErrBadInput via fmt.Errorf("%w: ...", ErrBadInput, ...) so
// callers can test the kind with errors.Is while still getting a
// descriptive message.
var (
	// ErrBadInput is returned when the decoder reaches an invalid state (e.g.
	// a match source position before the start of the output, or a malformed
	// token). A truncated stream is reported as ErrInputOverrun instead.
	ErrBadInput = errors.New("aplib: bad input")
	// ErrInputOverrun is returned when the decoder reads past the end of its
	// input buffer.
	ErrInputOverrun = errors.New("aplib: input overrun")
	// ErrOutputOverrun is returned when a write would exceed the declared
	// capacity of the output buffer.
	ErrOutputOverrun = errors.New("aplib: output overrun")
	// ErrLookBehindUnderrun is returned when a match's source position falls
	// before the start of the output buffer.
	ErrLookBehindUnderrun = errors.New("aplib: lookbehind underrun")
	// ErrEmptyInput is returned when Compress or Decompress is given a
	// zero-length input.
	ErrEmptyInput = errors.New("aplib: empty input")
	// ErrOptionsRequired is returned when Decompress is called with nil
	// options (OutLen is required to size the output buffer).
	ErrOptionsRequired = errors.New("aplib: options required: OutLen must be set")
	// ErrOutOfMemory names the out-of-memory error kind. No function in this
	// package returns it: scratch allocation uses plain make, and a failed
	// allocation is not turned into an error.
	ErrOutOfMemory = errors.New("aplib: out of memory")
	// ErrEncoderInternal is returned when an encoder invariant check fails.
	// This should never be triggered by valid input; it guards against bugs
	// in the match finder or parser, not against adversarial data.
	ErrEncoderInternal = errors.New("aplib: internal encoder error")
	// ErrWindowOutOfRange is returned when CompressOptions.Window falls
	// outside [MinWindow, MaxWindow].
	ErrWindowOutOfRange = errors.New("aplib: window out of range")
)
