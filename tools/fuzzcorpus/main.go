package main

// fuzzcorpus is a tiny helper utility to generate deterministic test
// corpora for standalone exercising of the runtime core's hash table and
// argument parser, outside `go test`. It emits newline-separated records
// which can later be fed to external fuzzers or load generators.
//
// Usage:
//   go run ./tools/fuzzcorpus -mode=keys -n 1000000 -dist=zipf -seed=42 -out keys.txt
//   go run ./tools/fuzzcorpus -mode=formats -n 500 -seed=7 -out formats.txt
//
// Flags:
//   -mode    "keys" (uint64 table keys) or "formats" (argparse format strings)
//   -n       number of records to generate (default 1e6 for keys, 500 for formats)
//   -dist    key distribution: "uniform" or "zipf" (mode=keys only, default uniform)
//   -zipfs   Zipf s parameter (>1)  (default 1.2)
//   -zipfv   Zipf v parameter (>=1) (default 1.0)
//   -seed    RNG seed (default current time)
//   -out     output file (default stdout)
//
// The program is embarrassingly simple but kept under version control so
// any contributor can regenerate the exact corpus used in a regression hunt.
//
// © 2025 glimmer authors. MIT License.

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

// letters lists every type letter spec §4.5 defines.
var letters = []byte("OVzsbhHiIlkLKnNCfdp")

// modifiers lists the directive modifiers that may follow a type letter.
var modifiers = []byte("?!#")

func main() {
	var (
		mode    = flag.String("mode", "keys", "corpus kind: keys or formats")
		n       = flag.Int("n", 0, "number of records to generate (default depends on -mode)")
		dist    = flag.String("dist", "uniform", "key distribution: uniform or zipf (mode=keys only)")
		zipfS   = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV   = flag.Float64("zipfv", 1.0, "zipf v parameter (>=1)")
		seedVal = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seedVal))

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	switch *mode {
	case "keys":
		count := *n
		if count == 0 {
			count = 1_000_000
		}
		generateKeys(w, rnd, count, *dist, *zipfS, *zipfV)
	case "formats":
		count := *n
		if count == 0 {
			count = 500
		}
		generateFormats(w, rnd, count)
	default:
		fmt.Fprintln(os.Stderr, "unknown mode:", *mode)
		os.Exit(1)
	}
}

func generateKeys(w *bufio.Writer, rnd *rand.Rand, n int, dist string, zipfS, zipfV float64) {
	var gen func() uint64
	switch dist {
	case "uniform":
		gen = rnd.Uint64
	case "zipf":
		if zipfS <= 1.0 || zipfV < 1 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >=1")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, zipfS, zipfV, ^uint64(0))
		gen = z.Uint64
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", dist)
		os.Exit(1)
	}
	for i := 0; i < n; i++ {
		fmt.Fprintln(w, gen())
	}
}

// generateFormats emits random-but-grammatical format strings exercising
// spec §4.5's directive grammar: an optional leading '.', a run of
// letter[modifier] directives, an optional '|' splitting required from
// optional, an optional trailing '*', and an optional trailing '~'.
func generateFormats(w *bufio.Writer, rnd *rand.Rand, n int) {
	for i := 0; i < n; i++ {
		fmt.Fprintln(w, randomFormat(rnd))
	}
}

func randomFormat(rnd *rand.Rand) string {
	var b []byte
	if rnd.Intn(4) == 0 {
		b = append(b, '.')
	}
	declared := 1 + rnd.Intn(4)
	splitAt := -1
	if rnd.Intn(2) == 0 {
		splitAt = rnd.Intn(declared + 1)
	}
	for i := 0; i < declared; i++ {
		if i == splitAt {
			b = append(b, '|')
		}
		b = append(b, letters[rnd.Intn(len(letters))])
		if rnd.Intn(3) == 0 {
			b = append(b, modifiers[rnd.Intn(len(modifiers))])
		}
	}
	if rnd.Intn(5) == 0 {
		b = append(b, '*')
	}
	if rnd.Intn(5) == 0 {
		b = append(b, '~')
	}
	return string(b)
}
