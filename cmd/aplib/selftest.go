package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"

	"github.com/aplib-go/aplib"
)

// generateCompressibleData fills buf with a mix of random literal runs and
// self-referential copies, modeled on apultra.c's generate_compressible_data:
// tunable literal alphabet size and match probability let the self-test
// sweep from pure-random to highly repetitive input.
func generateCompressibleData(buf []byte, seed int64, numLiteralValues int, matchProbability float64) {
	if len(buf) == 0 {
		return
	}
	r := rand.New(rand.NewSource(seed))
	matchThreshold := int(matchProbability * 1023)

	idx := 0
	buf[idx] = byte(r.Intn(numLiteralValues))
	idx++

	for idx < len(buf) {
		if (r.Intn(1024)) >= matchThreshold {
			n := r.Intn(128)
			if n > len(buf)-idx {
				n = len(buf) - idx
			}
			for ; n > 0; n-- {
				buf[idx] = byte(r.Intn(numLiteralValues))
				idx++
			}
		} else {
			length := 3 + r.Intn(1024)
			if length > len(buf)-idx {
				length = len(buf) - idx
			}
			if length > idx {
				length = idx
			}
			offset := 0
			if length < idx {
				offset = r.Intn(idx - length)
			}
			for ; length > 0; length-- {
				buf[idx] = buf[idx-offset]
				idx++
			}
		}
	}
}

// xorData inverts each byte (XOR 0xff) with probability xorProbability,
// producing corrupted streams to feed to Decompress to confirm it returns
// instead of crashing or writing outside its buffer (apultra.c's xor_data).
func xorData(buf []byte, seed int64, xorProbability float64) {
	r := rand.New(rand.NewSource(seed))
	threshold := int(xorProbability * 1023)
	for i := range buf {
		if r.Intn(1024) < threshold {
			buf[i] ^= 0xff
		}
	}
}

const selfTestBlockSize = 65536

// runSelfTest sweeps input sizes, literal alphabets, and match probabilities,
// round-tripping each generated buffer and then feeding corrupted copies of
// the compressed stream back through Decompress to confirm it never panics
// or hangs; the result of decoding a corrupted stream is not checked, since
// a corrupted stream can still decode. quick restricts the sweep to a
// single size, matching apultra.c's -quicktest.
func runSelfTest(quick bool, window int) int {
	literalAlphabets := []int{1, 2, 3, 15, 30, 56, 96, 137, 178, 191, 255, 256}
	maxSize := 4 * selfTestBlockSize
	if quick {
		maxSize = 1024
	}

	seed := int64(123)
	sizeStep := 128
	probStep := 0.0005
	if quick {
		probStep = 0.005
	}

	for size := 1024; size <= maxSize; size += sizeStep {
		fmt.Printf("size %d", size)
		for prob := 0.0; prob <= 0.995; prob += probStep {
			fmt.Print(".")
			for _, alphabet := range literalAlphabets {
				data := make([]byte, size)
				generateCompressibleData(data, seed, alphabet, prob)

				cmp, err := aplib.Compress(data, &aplib.CompressOptions{Window: window, Level: 9})
				if err != nil {
					fmt.Println()
					fmt.Fprintf(os.Stderr, "self-test: error compressing size %d, seed %d, match probability %f, literals %d: %v\n", size, seed, prob, alphabet, err)
					return 100
				}
				if len(cmp) < 3 {
					fmt.Println()
					fmt.Fprintf(os.Stderr, "self-test: suspiciously short output for size %d\n", size)
					return 100
				}

				out, err := aplib.Decompress(cmp, aplib.DefaultDecompressOptions(size))
				if err != nil {
					fmt.Println()
					fmt.Fprintf(os.Stderr, "self-test: error decompressing size %d, seed %d, match probability %f, literals %d: %v\n", size, seed, prob, alphabet, err)
					return 100
				}
				if !bytes.Equal(out, data) {
					fmt.Println()
					fmt.Fprintf(os.Stderr, "self-test: decompressed data mismatch, size %d, seed %d, match probability %f, literals %d\n", size, seed, prob, alphabet)
					return 100
				}

				for xorProb := 0.05; xorProb <= 0.5; xorProb += 0.05 {
					corrupted := append([]byte(nil), cmp...)
					xorData(corrupted, seed, xorProb)
					// Must not panic or hang; the result, if any, is discarded.
					_, _ = aplib.Decompress(corrupted, aplib.DefaultDecompressOptions(size))
				}
			}
			seed++
		}
		fmt.Println()

		sizeStep <<= 1
		if sizeStep > 128*4096 {
			sizeStep = 128 * 4096
		}
		probStep *= 1.25
		if probStep > 0.0005*4096 {
			probStep = 0.0005 * 4096
		}
	}

	fmt.Println("All tests passed.")
	return 0
}
