// SPDX-License-Identifier: MIT

package aplib

import "io"

// DecompressFromReader reads r fully, then calls Decompress. It has no
// decoding logic of its own — a convenience wrapper over the buffer API,
// not a streaming decompressor (the core is not a streaming codec).
func DecompressFromReader(r io.Reader, opts *DecompressOptions) ([]byte, error) {
	if opts == nil {
		return nil, ErrOptionsRequired
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decompress(src, opts)
}

// CompressToWriter calls Compress, then writes the result to w. Like
// DecompressFromReader, this is a convenience wrapper over the buffer API:
// the whole input is compressed in memory before anything is written.
func CompressToWriter(w io.Writer, src []byte, opts *CompressOptions) error {
	out, err := Compress(src, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
