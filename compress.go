// SPDX-License-Identifier: MIT

package aplib

// MaxCompressedSize returns a worst-case upper bound on the compressed size
// of an n-byte input: every byte emitted as a literal costs 9 bits (1
// prefix + 8 data), so the stream never exceeds n + ceil(n/8) bytes, plus a
// small constant for the leading raw byte, register flush padding, and the
// trailing EOD token.
func MaxCompressedSize(n int) int {
	if n <= 0 {
		return 16
	}
	return n + (n+7)/8 + 16
}

// Compress encodes src into a freshly allocated buffer sized by
// MaxCompressedSize, trimmed to the actual encoded length. A nil opts uses
// DefaultCompressOptions.
func Compress(src []byte, opts *CompressOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultCompressOptions()
	}
	if w := opts.window(); w < MinWindow || w > MaxWindow {
		return nil, ErrWindowOutOfRange
	}
	if len(src) == 0 {
		return nil, ErrEmptyInput
	}
	out := make([]byte, MaxCompressedSize(len(src)))
	n, err := CompressInto(src, out, opts)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// CompressInto encodes src into out, returning the number of bytes written.
// out must be at least MaxCompressedSize(len(src)) bytes; a smaller buffer
// may fail with ErrOutputOverrun even on compressible input, since the
// greedy parser does not backtrack to avoid an overrun.
func CompressInto(src, out []byte, opts *CompressOptions) (int, error) {
	if opts == nil {
		opts = DefaultCompressOptions()
	}
	if w := opts.window(); w < MinWindow || w > MaxWindow {
		return 0, ErrWindowOutOfRange
	}
	return compressCore(src, out, opts)
}
