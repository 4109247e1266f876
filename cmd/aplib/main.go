// Command aplib compresses and decompresses files using the aPLib-compatible
// codec in github.com/aplib-go/aplib. Flags follow the original apultra
// command-line tool: -z/-d select direction, -e switches to the enhanced
// 8-bit-micro format variant, -w bounds the match window, -stats prints
// token/offset/length statistics, and -test/-quicktest run the in-memory
// self-test harness instead of operating on files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aplib-go/aplib"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("aplib: ")

	flag.Bool("z", false, "compress (the default)")
	decompress := flag.Bool("d", false, "decompress (default: compress)")
	enhanced := flag.Bool("e", false, "use enhanced (incompatible) format for 8-bit micros")
	verify := flag.Bool("c", false, "check resulting stream after compressing")
	verbose := flag.Bool("v", false, "be verbose")
	stats := flag.Bool("stats", false, "show compressed data stats")
	window := flag.Int("w", aplib.MaxWindow, "maximum window size, in bytes (16..2097152)")
	level := flag.Int("level", 5, "compression level, 0 (fastest) .. 9 (strongest)")
	runTest := flag.Bool("test", false, "run full automated self-tests")
	runQuickTest := flag.Bool("quicktest", false, "run quick automated self-tests")
	flag.Parse()

	if *runTest || *runQuickTest {
		os.Exit(runSelfTest(*runQuickTest, *window))
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [-c] [-d] [-e] [-v] [-w size] [-stats] <infile> <outfile>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(100)
	}
	inPath, outPath := args[0], args[1]

	flags := uint32(0)
	if *enhanced {
		flags = aplib.FlagEnhanced
	}

	if *decompress {
		os.Exit(runDecompress(inPath, outPath, flags, *verbose))
	}
	os.Exit(runCompress(inPath, outPath, flags, *level, *window, *verify, *verbose, *stats))
}

func runCompress(inPath, outPath string, flags uint32, level, window int, verify, verbose, showStats bool) int {
	src, err := os.ReadFile(inPath)
	if err != nil {
		log.Printf("error opening %q for reading: %v", inPath, err)
		return 100
	}
	if len(src) == 0 {
		log.Printf("refusing to compress empty input %q", inPath)
		return 100
	}

	st := &aplib.Stats{}
	opts := &aplib.CompressOptions{Level: level, Window: window, Flags: flags, Stats: st}
	if verbose {
		opts.Progress = func(processed, total int) {
			fmt.Fprintf(os.Stderr, "\r%d => %d          ", processed, total)
		}
	}

	out, err := aplib.Compress(src, opts)
	if err != nil {
		log.Printf("compression error for %q: %v", inPath, err)
		return 100
	}
	if verbose {
		fmt.Fprintln(os.Stderr)
	}

	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		log.Printf("error writing %q: %v", outPath, err)
		return 100
	}

	if verbose {
		fmt.Printf("compressed %q: %d into %d bytes ==> %.2f%%\n", inPath, len(src), len(out), float64(len(out))*100/float64(len(src)))
	}
	if showStats {
		printStats(st)
	}

	if verify {
		mismatch, err := aplib.DecompressAndCompare(out, aplib.DefaultDecompressOptions(len(src)), src)
		if err != nil {
			log.Printf("error verifying %q: %v", outPath, err)
			return 100
		}
		if mismatch != nil {
			log.Printf("verification failed for %q: %s", outPath, mismatch)
			return 100
		}
	}
	return 0
}

func runDecompress(inPath, outPath string, flags uint32, verbose bool) int {
	src, err := os.ReadFile(inPath)
	if err != nil {
		log.Printf("error opening %q for reading: %v", inPath, err)
		return 100
	}

	maxSize, err := aplib.MaxDecompressedSize(src, flags)
	if err != nil {
		log.Printf("invalid compressed format for file %q: %v", inPath, err)
		return 100
	}

	out, err := aplib.Decompress(src, &aplib.DecompressOptions{OutLen: maxSize, Flags: flags})
	if err != nil {
		log.Printf("decompression error for %q: %v", inPath, err)
		return 100
	}

	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		log.Printf("error writing %q: %v", outPath, err)
		return 100
	}
	if verbose {
		fmt.Printf("decompressed %q into %d bytes\n", inPath, len(out))
	}
	return 0
}

func printStats(st *aplib.Stats) {
	fmt.Printf("Tokens: literals: %d nibble-zero: %d nibble-copy: %d short matches: %d long matches: %d rep matches: %d\n",
		st.Literals, st.NibbleZeros, st.NibbleCopies, st.ShortMatches, st.LongMatches, st.RepMatches)
	if st.MatchCount > 0 {
		fmt.Printf("Offsets: avg: %d max match len: %d count: %d\n", st.OffsetSum/int64(st.MatchCount), st.MaxMatchLen, st.MatchCount)
	} else {
		fmt.Println("Offsets: none")
	}
}
