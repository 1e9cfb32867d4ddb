// Package chonker batches corpora of variable-length token sequences into
// padded, length-homogeneous groups suitable for vectorized model
// consumption, tracking the permutations needed to restore original order.
//
// # Basic Usage
//
// Building a length-sorted dataset:
//
//	ds, err := chonker.New(corpus, 32, padID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i := range ds.Len() {
//	    batch := ds.Batch(i)
//	    // batch.Data() is a (MaxLen x Size) padded buffer,
//	    // batch.Lengths() the original length of each member.
//	}
//
// Batching by token budget with a padding bound:
//
//	ds, err := chonker.New(corpus, 4096, padID,
//	    chonker.WithBatchBy(chonker.ByTokens),
//	    chonker.WithMaxPadding(16, chonker.Split))
//
// Restoring corpus order for outputs emitted in sorted order:
//
//	restored, err := permute.Apply(ds.UnsortPerm(), sortedOutputs)
//
// # Package Structure
//
// The implementation is organized as follows:
//
//   - Public API: dataset.go (New, Dataset), fixed.go (PadAndBatch, PartitionStream)
//   - Configuration: options.go (BuildOption, With* functions, BatchBy, PadStrategy)
//   - Partitioning: partition.go (range cutting, padding-budget policies)
//   - Collation: batch.go (Batch, padding), collate_parallel.go (worker pool)
//   - Integrity: fingerprint.go (deterministic dataset digest)
//   - Subpackages: permute/ (sort and shuffle permutations), vocab/,
//     tokenize/, embed/, schedule/, viterbi/
package chonker
