// SPDX-License-Identifier: MIT

package aplib

// DecompressOptions configures decompression. OutLen is required: it
// bounds the output buffer the decoder is allowed to write into.
type DecompressOptions struct {
	// OutLen is the expected (maximum) decompressed size.
	OutLen int
	// Flags is a bitmask; the only recognized bit is FlagEnhanced.
	Flags uint32
}

// DefaultDecompressOptions returns options with the given output length and
// the standard (non-enhanced) format variant.
func DefaultDecompressOptions(outLen int) *DecompressOptions {
	return &DecompressOptions{OutLen: outLen}
}

// Stats carries diagnostic counters populated by Compress, reported as a
// side channel rather than as part of the compressed bytes.
type Stats struct {
	Literals     int
	NibbleZeros  int
	NibbleCopies int
	ShortMatches int
	LongMatches  int
	RepMatches   int
	OffsetSum    int64 // sum of match offsets, for computing a mean
	MatchCount   int
	MaxMatchLen  int
}

// ProgressFunc is invoked by Compress after every emitted token with the
// number of input bytes processed so far and the total input length. It is
// informational only and cannot cancel the call.
type ProgressFunc func(processed, total int)

// CompressOptions configures compression.
type CompressOptions struct {
	// Level selects match-finder search depth: 0 is fastest/weakest, 9 is
	// slowest/strongest. The token grammar and cost model are fixed by the
	// format; Level only tunes how hard the match finder looks.
	Level int
	// Window bounds match offsets the encoder may choose, in
	// [MinWindow, MaxWindow]. Zero means MaxWindow.
	Window int
	// Flags is a bitmask; the only recognized bit is FlagEnhanced.
	Flags uint32
	// Progress, if non-nil, is called after every emitted token during encoding.
	Progress ProgressFunc
	// Stats, if non-nil, is populated with token counts during encoding.
	Stats *Stats
}

// DefaultCompressOptions returns options for level 5 (a balanced
// depth/speed tradeoff) with the full window and the standard format
// variant.
func DefaultCompressOptions() *CompressOptions {
	return &CompressOptions{Level: 5, Window: MaxWindow}
}

func (o *CompressOptions) window() int {
	if o == nil || o.Window == 0 {
		return MaxWindow
	}
	return o.Window
}

func (o *CompressOptions) level() int {
	if o == nil {
		return 5
	}
	return o.Level
}

func (o *CompressOptions) flags() uint32 {
	if o == nil {
		return 0
	}
	return o.Flags
}
