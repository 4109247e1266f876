package aplib

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
)

// TestCompatibility_EmbeddedCorpus round-trips every file under ref/corpus
// (if present) and checks the decompressed xxhash matches the original's,
// a fingerprint-based comparison that needs no bit-exact reference
// fixtures in the repo.
func TestCompatibility_EmbeddedCorpus(t *testing.T) {
	corpusDir := filepath.Join("ref", "corpus")

	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		t.Skipf("corpus not found: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(corpusDir, name)
			plain, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile(%q): %v", path, err)
			}
			if len(plain) == 0 {
				t.Skip("empty corpus file")
			}

			wantSum := xxhash.Sum64(plain)

			cmp, err := Compress(plain, &CompressOptions{Level: 9, Window: MaxWindow})
			if err != nil {
				t.Fatalf("Compress(%q): %v", name, err)
			}
			out, err := Decompress(cmp, DefaultDecompressOptions(len(plain)))
			if err != nil {
				t.Fatalf("Decompress(%q): %v", name, err)
			}
			if gotSum := xxhash.Sum64(out); gotSum != wantSum {
				t.Fatalf("xxhash mismatch for %q: got=%x want=%x", name, gotSum, wantSum)
			}
			if !bytes.Equal(out, plain) {
				t.Fatalf("decoded mismatch for %q: got=%d bytes want=%d bytes", name, len(out), len(plain))
			}
		})
	}
}
