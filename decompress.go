// SPDX-License-Identifier: MIT

package aplib

import "fmt"

// Decompress decodes src into a freshly allocated buffer of opts.OutLen
// bytes, trimmed to the actual decompressed length. opts.OutLen is
// required: it is the hard capacity the decoder refuses to write past.
func Decompress(src []byte, opts *DecompressOptions) ([]byte, error) {
	if opts == nil {
		return nil, ErrOptionsRequired
	}
	out := make([]byte, opts.OutLen)
	n, err := DecompressInto(src, out, opts.Flags)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// DecompressInto decodes src into out, returning the number of bytes
// written. out's length is the decoder's hard output capacity; any write
// that would exceed it fails with ErrOutputOverrun. Safe for any src,
// including adversarial or truncated streams: every read and every write
// is bounds-checked before it happens, and no match may reference a
// source position before the start of out.
func DecompressInto(src, out []byte, flags uint32) (int, error) {
	if len(src) == 0 {
		return 0, ErrEmptyInput
	}
	enhanced := flags&FlagEnhanced != 0
	r := newBitReader(src)

	first, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, ErrOutputOverrun
	}
	out[0] = first
	outPos := 1
	lastOffset := 1
	followsLiteral := true

	for {
		bit, err := r.readBit(regSingle)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			b, err := r.readByte()
			if err != nil {
				return 0, err
			}
			if outPos >= len(out) {
				return 0, ErrOutputOverrun
			}
			out[outPos] = b
			outPos++
			followsLiteral = true
			continue
		}

		bit2, err := r.readBit(regSingle)
		if err != nil {
			return 0, err
		}
		if bit2 == 0 {
			n, err := decodeLongOrRepMatch(r, out, outPos, &lastOffset, followsLiteral, enhanced)
			if err != nil {
				return 0, err
			}
			outPos = n
			followsLiteral = false
			continue
		}

		bit3, err := r.readBit(regSingle)
		if err != nil {
			return 0, err
		}
		if bit3 == 0 {
			cmd, err := r.readByte()
			if err != nil {
				return 0, err
			}
			if cmd == 0 {
				return outPos, nil
			}
			offset := int(cmd >> 1)
			length := int(cmd&1) + 2
			if err := copyBackRef(out, outPos, offset, length); err != nil {
				return 0, fmt.Errorf("%w: short match offset %d length %d at position %d: %w", ErrBadInput, offset, length, outPos, err)
			}
			outPos += length
			lastOffset = offset
			followsLiteral = false
			continue
		}

		n, err := decodeNibbleMatch(r, out, outPos, enhanced)
		if err != nil {
			return 0, err
		}
		outPos = n
		followsLiteral = true
	}
}

// decodeLongOrRepMatch handles the '10' prefix: either a RepMatch (reuses
// lastOffset) or a LongMatch (reads a fresh offset). Returns the new output
// position.
func decodeLongOrRepMatch(r *bitReader, out []byte, outPos int, lastOffset *int, followsLiteral, enhanced bool) (int, error) {
	hi, err := r.readGamma2(gammaReg(enhanced), enhanced)
	if err != nil {
		return 0, err
	}

	isRep := false
	lenBias := 0
	offset := *lastOffset
	if !followsLiteral || hi != 2 {
		bias := 2
		if followsLiteral {
			bias = 3
		}
		offset = (hi - bias) << 8
		lo, err := r.readByte()
		if err != nil {
			return 0, err
		}
		offset |= int(lo)
		if offset < 128 {
			lenBias = 2
		}
	} else {
		isRep = true
	}

	length, err := r.readGamma2(gammaReg(enhanced), enhanced)
	if err != nil {
		return 0, err
	}
	if !isRep {
		if offset >= minMatch3Offset {
			length++
		}
		if offset >= minMatch4Offset {
			length++
		}
	}
	length += lenBias

	if err := copyBackRef(out, outPos, offset, length); err != nil {
		return 0, fmt.Errorf("%w: long match offset %d length %d at position %d: %w", ErrBadInput, offset, length, outPos, err)
	}
	*lastOffset = offset
	return outPos + length, nil
}

// decodeNibbleMatch handles the '111' prefix: a 4-bit offset, 0 meaning
// "emit one zero byte," otherwise a one-byte copy from out[pos-n].
func decodeNibbleMatch(r *bitReader, out []byte, outPos int, enhanced bool) (int, error) {
	n := 0
	reg := nibbleReg(enhanced)
	for i := 0; i < 4; i++ {
		bit, err := r.readBit(reg)
		if err != nil {
			return 0, err
		}
		n = (n << 1) | bit
	}
	if n == 0 {
		if outPos >= len(out) {
			return 0, ErrOutputOverrun
		}
		out[outPos] = 0
		return outPos + 1, nil
	}
	if err := copyBackRef(out, outPos, n, 1); err != nil {
		return 0, fmt.Errorf("%w: nibble match offset %d at position %d: %w", ErrBadInput, n, outPos, err)
	}
	return outPos + 1, nil
}

// MaxDecompressedSize parses src without writing any output, applying the
// same bounds checks as DecompressInto, and returns the length a full
// decode would produce. Agrees with DecompressInto on any stream both
// accept.
func MaxDecompressedSize(src []byte, flags uint32) (int, error) {
	if len(src) == 0 {
		return 0, ErrEmptyInput
	}
	enhanced := flags&FlagEnhanced != 0
	r := newBitReader(src)

	if _, err := r.readByte(); err != nil {
		return 0, err
	}
	size := 1
	lastOffset := 1
	followsLiteral := true

	for {
		bit, err := r.readBit(regSingle)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			if _, err := r.readByte(); err != nil {
				return 0, err
			}
			size++
			followsLiteral = true
			continue
		}

		bit2, err := r.readBit(regSingle)
		if err != nil {
			return 0, err
		}
		if bit2 == 0 {
			hi, err := r.readGamma2(gammaReg(enhanced), enhanced)
			if err != nil {
				return 0, err
			}
			isRep := false
			lenBias := 0
			offset := lastOffset
			if !followsLiteral || hi != 2 {
				bias := 2
				if followsLiteral {
					bias = 3
				}
				offset = (hi - bias) << 8
				lo, err := r.readByte()
				if err != nil {
					return 0, err
				}
				offset |= int(lo)
				if offset < 128 {
					lenBias = 2
				}
			} else {
				isRep = true
			}
			if offset <= 0 || offset > size {
				return 0, fmt.Errorf("%w: long match offset %d exceeds decoded size %d", ErrBadInput, offset, size)
			}
			length, err := r.readGamma2(gammaReg(enhanced), enhanced)
			if err != nil {
				return 0, err
			}
			if !isRep {
				if offset >= minMatch3Offset {
					length++
				}
				if offset >= minMatch4Offset {
					length++
				}
			}
			length += lenBias
			size += length
			lastOffset = offset
			followsLiteral = false
			continue
		}

		bit3, err := r.readBit(regSingle)
		if err != nil {
			return 0, err
		}
		if bit3 == 0 {
			cmd, err := r.readByte()
			if err != nil {
				return 0, err
			}
			if cmd == 0 {
				return size, nil
			}
			offset := int(cmd >> 1)
			length := int(cmd&1) + 2
			if offset <= 0 || offset > size {
				return 0, fmt.Errorf("%w: short match offset %d exceeds decoded size %d", ErrBadInput, offset, size)
			}
			size += length
			lastOffset = offset
			followsLiteral = false
			continue
		}

		reg := nibbleReg(enhanced)
		n := 0
		for i := 0; i < 4; i++ {
			bit, err := r.readBit(reg)
			if err != nil {
				return 0, err
			}
			n = (n << 1) | bit
		}
		if n != 0 && n > size {
			return 0, fmt.Errorf("%w: nibble match offset %d exceeds decoded size %d", ErrBadInput, n, size)
		}
		size++
		followsLiteral = true
	}
}

// DecompressAndCompare decodes src into a buffer sized by opts.OutLen and
// compares the result against want byte-for-byte, returning a structured
// mismatch instead of a bare boolean. Modeled on
// original_source/tools/apultra/src/apultra.c's do_compare, which the CLI's
// -c flag invokes after a round-trip test compression.
func DecompressAndCompare(src []byte, opts *DecompressOptions, want []byte) (*Mismatch, error) {
	got, err := Decompress(src, opts)
	if err != nil {
		return nil, err
	}
	if len(got) != len(want) {
		n := len(got)
		if len(want) < n {
			n = len(want)
		}
		return &Mismatch{Offset: n, GotLen: len(got), WantLen: len(want)}, nil
	}
	for i := range got {
		if got[i] != want[i] {
			return &Mismatch{Offset: i, Got: got[i], Want: want[i], GotLen: len(got), WantLen: len(want)}, nil
		}
	}
	return nil, nil
}

// Mismatch describes where DecompressAndCompare found the first
// difference between a decoded stream and a reference buffer.
type Mismatch struct {
	Offset          int
	Got, Want       byte
	GotLen, WantLen int
}

func (m *Mismatch) String() string {
	if m.GotLen != m.WantLen {
		return fmt.Sprintf("length mismatch: got %d bytes, want %d", m.GotLen, m.WantLen)
	}
	return fmt.Sprintf("byte mismatch at offset %d: got 0x%02x, want 0x%02x", m.Offset, m.Got, m.Want)
}
