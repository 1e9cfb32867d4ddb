// Bench is a benchmarking tool for measuring chonker Dataset build
// performance and memory usage over synthetic corpora.
//
// Usage:
//
//	go run ./cmd/bench -seqs 1000000 -batch 64 -by tokens
//
// Flags:
//
//	-seqs      Number of sequences in the corpus (default: 1,000,000)
//	-batch     Batch size: sequences per batch, or token budget with -by tokens (default: 64)
//	-by        Sizing mode: sequences or tokens (default: sequences)
//	-maxlen    Maximum sequence length (default: 128)
//	-maxpad    Padding budget; negative disables (default: -1)
//	-strategy  Padding-budget strategy: split, soft or hard (default: split)
//	-workers   Number of parallel collation workers (default: 1)
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"runtime"
	"time"

	"github.com/spaolacci/murmur3"

	chonker "github.com/okulic/chonker"
)

// corpusSeed keys the murmur3 stream so repeated runs batch an identical
// corpus.
const corpusSeed = uint32(0x1234)

// generateCorpus derives sequence lengths and token contents from murmur3
// of the sequence index, giving a deterministic corpus with a skewed but
// stable length distribution.
func generateCorpus(numSeqs, maxLen int) [][]int32 {
	corpus := make([][]int32, numSeqs)
	var idx [8]byte
	for i := range corpus {
		binary.LittleEndian.PutUint64(idx[:], uint64(i))
		h1, h2 := murmur3.Sum128WithSeed(idx[:], corpusSeed)
		length := int(h1%uint64(maxLen)) + 1
		seq := make([]int32, length)
		for t := range seq {
			seq[t] = int32((h2 >> (uint(t) % 32)) & 0x7FFF)
		}
		corpus[i] = seq
	}
	return corpus
}

func main() {
	seqsFlag := flag.Int("seqs", 1_000_000, "number of sequences")
	batchFlag := flag.Int("batch", 64, "batch size (sequences or token budget)")
	byFlag := flag.String("by", "sequences", "sizing mode: sequences or tokens")
	maxLenFlag := flag.Int("maxlen", 128, "maximum sequence length")
	maxPadFlag := flag.Int("maxpad", -1, "padding budget; negative disables")
	strategyFlag := flag.String("strategy", "split", "padding-budget strategy: split, soft or hard")
	workersFlag := flag.Int("workers", 1, "number of parallel collation workers")
	flag.Parse()

	fmt.Println("Generating corpus...")
	genStart := time.Now()
	corpus := generateCorpus(*seqsFlag, *maxLenFlag)
	genDuration := time.Since(genStart)

	opts := []chonker.BuildOption{
		chonker.WithWorkers(*workersFlag),
	}
	switch *byFlag {
	case "sequences":
		opts = append(opts, chonker.WithBatchBy(chonker.BySequences))
	case "tokens":
		opts = append(opts, chonker.WithBatchBy(chonker.ByTokens))
	default:
		fmt.Printf("Unknown sizing mode: %s (use 'sequences' or 'tokens')\n", *byFlag)
		return
	}
	if *maxPadFlag >= 0 {
		var strategy chonker.PadStrategy
		switch *strategyFlag {
		case "split":
			strategy = chonker.Split
		case "soft":
			strategy = chonker.SoftDrop
		case "hard":
			strategy = chonker.HardDrop
		default:
			fmt.Printf("Unknown strategy: %s (use 'split', 'soft' or 'hard')\n", *strategyFlag)
			return
		}
		opts = append(opts, chonker.WithMaxPadding(*maxPadFlag, strategy))
	}

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	fmt.Println("Building dataset...")
	buildStart := time.Now()
	ds, err := chonker.New(corpus, *batchFlag, 0, opts...)
	buildDuration := time.Since(buildStart)
	if err != nil {
		fmt.Printf("Build failed: %v\n", err)
		return
	}

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	totalTokens := 0
	paddedTokens := 0
	for i := 0; i < ds.Len(); i++ {
		b := ds.Batch(i)
		paddedTokens += b.MaxLen() * b.Size()
		for _, l := range b.Lengths() {
			totalTokens += l
		}
	}
	padOverhead := 0.0
	if totalTokens > 0 {
		padOverhead = float64(paddedTokens-totalTokens) / float64(totalTokens) * 100
	}
	retained := float64(ds.NumInstances()) / float64(*seqsFlag) * 100

	fmt.Printf("\n")
	fmt.Printf("Mode: %s  batch=%d  workers=%d\n", *byFlag, *batchFlag, *workersFlag)
	fmt.Printf("  Batches            %12d\n", ds.Len())
	fmt.Printf("  Instances retained %12d  (%.1f%%)\n", ds.NumInstances(), retained)
	fmt.Printf("  Token overhead     %11.2f%%  (padding)\n", padOverhead)
	fmt.Printf("  Generate time      %11.2fs\n", genDuration.Seconds())
	fmt.Printf("  Build time         %11.2fs\n", buildDuration.Seconds())
	fmt.Printf("  Build throughput   %11.2f M seqs/sec\n", float64(*seqsFlag)/buildDuration.Seconds()/1_000_000)
	fmt.Printf("  Heap growth        %11.1f MB\n", float64(after.Alloc-before.Alloc)/1_000_000)
	fmt.Printf("  Fingerprint        %#x\n", ds.Fingerprint())
}
