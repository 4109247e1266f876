package aplib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLongMatchFields_RoundTripsThroughDecoder(t *testing.T) {
	cases := []struct {
		name           string
		offset, length int
		followsLiteral bool
	}{
		{"small-offset-short", 10, 4, false},
		{"small-offset-min", 10, 4, true},
		{"mid-offset", 500, 6, false},
		{"above-minmatch3", minMatch3Offset, 5, false},
		{"above-minmatch4", minMatch4Offset, 6, false},
		{"followsLiteral-biases-hi", 300, 5, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hi, encLen, bitCost, ok := longMatchFields(c.offset, c.length, c.followsLiteral)
			require.True(t, ok, "expected a valid encoding")
			require.GreaterOrEqual(t, encLen, 2)
			require.Greater(t, bitCost, 0)

			// Reconstruct the length the decoder would compute from (hi, encLen, offset).
			bias := 2
			if c.followsLiteral {
				bias = 3
			}
			gotOffset := (hi - bias) << 8
			gotOffset |= c.offset & 0xff
			require.Equal(t, c.offset, gotOffset, "hi must encode the offset's high byte")

			lenBias := 0
			if c.offset < 128 {
				lenBias = 2
			}
			decodedLen := encLen
			if c.offset >= minMatch3Offset {
				decodedLen++
			}
			if c.offset >= minMatch4Offset {
				decodedLen++
			}
			decodedLen += lenBias
			require.Equal(t, c.length, decodedLen, "encLen must decode back to the original length")
		})
	}
}

func TestLongMatchFields_RejectsUnencodableLengths(t *testing.T) {
	_, _, _, ok := longMatchFields(5000, 2, false)
	require.False(t, ok, "length 2 at offset >= minMatch3Offset needs an extra byte the format can't express")
}

func TestRepMatchFields_RejectsTooShort(t *testing.T) {
	_, ok := repMatchFields(1)
	require.False(t, ok)

	bitCost, ok := repMatchFields(10)
	require.True(t, ok)
	require.Greater(t, bitCost, 0)
}

func TestBestCandidateForMatch_PrefersLongestLength(t *testing.T) {
	c, ok := bestCandidateForMatch(4, 1, false)
	require.True(t, ok)
	require.Equal(t, tokNibbleCopy, c.kind)

	c, ok = bestCandidateForMatch(4, 20, false)
	require.True(t, ok)
	require.Equal(t, tokLong, c.kind)
	require.Equal(t, 20, c.length)
}

func TestGammaBitCost_MatchesWriteGamma2Length(t *testing.T) {
	out := make([]byte, 64)
	for _, v := range []int{2, 3, 4, 255, 256, 4095, 100000} {
		w := newBitWriter(out)
		require.NoError(t, w.writeGamma2(regSingle, v, false))
		require.NoError(t, w.flush(regSingle))
		require.Equal(t, gammaBitCost(v)/8+boolToInt(gammaBitCost(v)%8 != 0), w.pos)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
