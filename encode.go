// SPDX-License-Identifier: MIT

package aplib

// chooseToken decides the best token to emit at pos, considering a RepMatch
// against lastOffset, a hash-chain match, and a zero-byte NibbleMatch,
// preferring whichever consumes the most input bytes (ties broken by lower
// bit cost). Returns found == false when nothing beats emitting a literal.
func chooseToken(finder *matchFinder, src []byte, pos, window, maxChain, niceLen int, followsLiteral bool, lastOffset int) (candidate, bool) {
	limit := len(src)
	var best candidate
	found := false
	consider := func(c candidate) {
		// A token is only worth emitting if it costs fewer bits than its
		// length would cost as plain literals (9 bits each); otherwise a
		// large offset's gamma2-coded hi value can cost more than the bytes
		// it represents, which would make this candidate strictly worse
		// than falling through to literals.
		if c.bits >= c.length*9 {
			return
		}
		if !found || c.length > best.length || (c.length == best.length && c.bits < best.bits) {
			best = c
			found = true
		}
	}

	if src[pos] == 0 {
		consider(candidate{kind: tokNibbleZero, offset: 0, length: 1, bits: 7})
	}

	// RepMatch is only decodable when FollowsLiteralFlag is set: the
	// decoder only treats a gamma2 hi value of 2 as a RepMatch prefix in
	// that context (decodeLongOrRepMatch), otherwise it reads a fresh
	// offset byte as an ordinary LongMatch.
	if followsLiteral && lastOffset > 0 && lastOffset <= pos {
		repLen := extendMatch(src, pos-lastOffset, pos, limit)
		if bitCost, ok := repMatchFields(repLen); ok {
			consider(candidate{kind: tokRep, offset: lastOffset, length: repLen, bits: bitCost})
		}
	}

	if offset, length := finder.bestMatch(pos, window, maxChain, niceLen); length >= 1 {
		if c, ok := bestCandidateForMatch(offset, length, followsLiteral); ok {
			consider(c)
		}
	}

	return best, found
}

// emitLiteral writes the '0' prefix and the raw byte.
func emitLiteral(w *bitWriter, b byte) error {
	if err := w.writeBit(regSingle, 0); err != nil {
		return err
	}
	return w.writeRawByte(b)
}

// emitEOD writes the '110' prefix followed by the reserved zero command
// byte DecompressInto recognizes as end-of-data.
func emitEOD(w *bitWriter) error {
	if err := w.writeBit(regSingle, 1); err != nil {
		return err
	}
	if err := w.writeBit(regSingle, 1); err != nil {
		return err
	}
	if err := w.writeBit(regSingle, 0); err != nil {
		return err
	}
	return w.writeRawByte(0)
}

// emitToken writes the bit sequence for a chosen candidate other than a
// literal or EOD: '111' plus four nibble bits, '110' plus a command byte,
// or '10' plus gamma2-coded fields.
func emitToken(w *bitWriter, c candidate, enhanced bool) error {
	switch c.kind {
	case tokNibbleZero:
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		reg := nibbleReg(enhanced)
		for i := 3; i >= 0; i-- {
			if err := w.writeBit(reg, 0); err != nil {
				return err
			}
		}
		return nil

	case tokNibbleCopy:
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		reg := nibbleReg(enhanced)
		n := c.offset
		for i := 3; i >= 0; i-- {
			if err := w.writeBit(reg, (n>>uint(i))&1); err != nil {
				return err
			}
		}
		return nil

	case tokShort:
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		if err := w.writeBit(regSingle, 0); err != nil {
			return err
		}
		cmd := byte(c.offset<<1) | byte(c.length-2)
		return w.writeRawByte(cmd)

	case tokLong:
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		if err := w.writeBit(regSingle, 0); err != nil {
			return err
		}
		reg := gammaReg(enhanced)
		if err := w.writeGamma2(reg, c.hi, enhanced); err != nil {
			return err
		}
		lo := byte(c.offset & 0xff)
		if err := w.writeRawByte(lo); err != nil {
			return err
		}
		return w.writeGamma2(reg, c.encLen, enhanced)

	case tokRep:
		if err := w.writeBit(regSingle, 1); err != nil {
			return err
		}
		if err := w.writeBit(regSingle, 0); err != nil {
			return err
		}
		reg := gammaReg(enhanced)
		if err := w.writeGamma2(reg, 2, enhanced); err != nil {
			return err
		}
		return w.writeGamma2(reg, c.length, enhanced)

	default:
		return ErrEncoderInternal
	}
}

// compressCore runs the greedy parse loop: at each position it picks the
// best candidate via chooseToken, falling back to a literal when nothing
// beats one, and writes the corresponding token. The encoder always makes
// progress (every branch consumes at least one input byte), so it
// terminates on any input. It targets good compression, not bit-optimal
// compression: niceLen only bounds match-finder search effort, it never
// triggers lazy re-matching.
func compressCore(src, out []byte, opts *CompressOptions) (int, error) {
	if len(src) == 0 {
		return 0, ErrEmptyInput
	}
	enhanced := opts.flags()&FlagEnhanced != 0
	lvl := levelFor(opts.level())
	window := opts.window()
	stats := opts.Stats

	finder := acquireMatchFinder()
	defer releaseMatchFinder(finder)
	finder.init(src)

	w := newBitWriter(out)
	if err := w.writeRawByte(src[0]); err != nil {
		return 0, err
	}
	finder.insert(0)
	pos := 1
	lastOffset := 1
	followsLiteral := true
	total := len(src)

	report := func() {
		if opts.Progress != nil {
			opts.Progress(pos, total)
		}
	}

	for pos < len(src) {
		c, found := chooseToken(finder, src, pos, window, lvl.maxChain, lvl.niceLen, followsLiteral, lastOffset)
		if !found {
			if err := emitLiteral(w, src[pos]); err != nil {
				return 0, err
			}
			finder.insert(pos)
			pos++
			followsLiteral = true
			if stats != nil {
				stats.Literals++
			}
			report()
			continue
		}

		if err := emitToken(w, c, enhanced); err != nil {
			return 0, err
		}
		for i := 0; i < c.length && pos+i < len(src); i++ {
			finder.insert(pos + i)
		}
		pos += c.length

		switch c.kind {
		case tokNibbleZero:
			followsLiteral = true
			if stats != nil {
				stats.NibbleZeros++
			}
		case tokNibbleCopy:
			followsLiteral = true
			if stats != nil {
				stats.NibbleCopies++
			}
		case tokShort:
			followsLiteral = false
			lastOffset = c.offset
			if stats != nil {
				stats.ShortMatches++
			}
		case tokLong:
			followsLiteral = false
			lastOffset = c.offset
			if stats != nil {
				stats.LongMatches++
			}
		case tokRep:
			followsLiteral = false
			if stats != nil {
				stats.RepMatches++
			}
		}
		if stats != nil && c.kind != tokNibbleZero {
			stats.MatchCount++
			stats.OffsetSum += int64(c.offset)
			if c.length > stats.MaxMatchLen {
				stats.MaxMatchLen = c.length
			}
		}
		report()
	}

	if err := emitEOD(w); err != nil {
		return 0, err
	}
	if err := w.flushAll(); err != nil {
		return 0, err
	}
	return w.pos, nil
}
