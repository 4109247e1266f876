// SPDX-License-Identifier: MIT

/*
Package aplib implements an aPLib-compatible byte-stream compressor and
decompressor: a Lempel-Ziv codec built on a bit-packed token stream with
an Elias-gamma-like length encoding.

The package operates on caller-owned buffers rather than io.Reader /
io.Writer streams. Compress and Decompress allocate and return their own
output slice; CompressInto and DecompressInto instead write into a
caller-supplied buffer, sized ahead of time via MaxCompressedSize /
MaxDecompressedSize.

	out, err := aplib.Compress(src, aplib.DefaultCompressOptions())
	if err != nil {
		// handle error
	}

# Decompress

OutLen is required (use DefaultDecompressOptions):

	out, err := aplib.Decompress(compressed, aplib.DefaultDecompressOptions(expectedLen))

# Enhanced format variant

Setting FlagEnhanced on either side selects a three-register bit-packing
variant targeted at 8-bit microprocessors. The variant is not
self-describing in the stream; the caller must use the same flag on both
ends.
*/
package aplib
