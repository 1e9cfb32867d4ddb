package chonker

import (
	"github.com/okulic/chonker/permute"
)

// Dataset is an immutable collection of padded, length-homogeneous batches
// built from a corpus of variable-length token sequences.
//
// Sequences are sorted by descending length before batching so that each
// batch pads only against near-equal lengths. The permutation used to sort
// and its inverse are retained: apply UnsortPerm to batch-order outputs to
// restore corpus order.
//
// Construction may discard sequences (full-batch trimming, padding-budget
// drop policies, final-batch trimming). That loss is designed behavior, not
// an error; NumInstances reports how many sequences the Dataset retains.
//
// A Dataset is read-only after New returns and safe for concurrent use
// without locking.
type Dataset struct {
	batches      []Batch
	sortPmt      permute.Permutation
	unsortPmt    permute.Permutation
	numInstances int
	padValue     int32
}

// New builds a Dataset from data under the given batch size, pad value, and
// options.
//
// batchSize counts sequences per batch (BySequences, the default) or the
// token budget per batch (ByTokens). Configuration is validated before any
// data is touched; an invalid configuration returns an error and no partial
// Dataset.
//
//	ds, err := chonker.New(corpus, 32, padID)
//	if err != nil { return err }
//	for i := range ds.Len() {
//	    batch := ds.Batch(i)
//	    // feed batch.Data() / batch.Lengths() to the model
//	}
func New(data [][]int32, batchSize int, padValue int32, opts ...BuildOption) (*Dataset, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(batchSize); err != nil {
		return nil, err
	}

	// Raw -> FullBatchTrimmed: under by-count sizing, drop trailing input
	// that cannot fill a full logical batch. Happens before any permutation
	// is computed, so dropped sequences never appear in the permutations.
	if cfg.batchBy == BySequences && cfg.dropFinal {
		fullBatch := batchSize * cfg.gradAccum
		numFull := len(data) / fullBatch
		data = data[:numFull*fullBatch]
	}

	// FullBatchTrimmed -> Sorted: order by descending length, ties keeping
	// original order.
	lengths := make([]int, len(data))
	for i, seq := range data {
		lengths[i] = len(seq)
	}
	sortPmt, unsortPmt := permute.SortUnsort(lengths, true)

	sorted := make([]member, len(data))
	sortedLengths := make([]int, len(data))
	for i, j := range sortPmt {
		sorted[i] = member{seq: data[j], length: lengths[j]}
		sortedLengths[i] = lengths[j]
	}

	// Sorted -> Partitioned: cut ranges and collate each into a Batch.
	numInstances := len(sorted)
	ranges, droppedByPolicy := cutRanges(sortedLengths, batchSize, cfg)
	numInstances -= droppedByPolicy

	batches, err := collateRanges(sorted, ranges, padValue, cfg.workers)
	if err != nil {
		return nil, err
	}

	// Partitioned -> FinalTrimmed: under by-budget sizing, drop trailing
	// batches that cannot fill a full accumulation group.
	if cfg.batchBy == ByTokens && cfg.dropFinal {
		keep := (len(batches) / cfg.gradAccum) * cfg.gradAccum
		for _, b := range batches[keep:] {
			numInstances -= b.Size()
		}
		batches = batches[:keep]
	}

	return &Dataset{
		batches:      batches,
		sortPmt:      sortPmt,
		unsortPmt:    unsortPmt,
		numInstances: numInstances,
		padValue:     padValue,
	}, nil
}

// Len returns the number of batches.
func (d *Dataset) Len() int {
	return len(d.batches)
}

// Batch returns batch i.
func (d *Dataset) Batch(i int) Batch {
	return d.batches[i]
}

// NumInstances returns the number of input sequences the Dataset retains.
// Compare against the input corpus size to detect shrinkage from trimming
// and drop policies.
func (d *Dataset) NumInstances() int {
	return d.numInstances
}

// PadValue returns the configured pad value.
func (d *Dataset) PadValue() int32 {
	return d.padValue
}

// SortPerm returns a copy of the permutation that sorted the (trimmed)
// corpus: sorted[i] = corpus[SortPerm()[i]].
func (d *Dataset) SortPerm() permute.Permutation {
	out := make(permute.Permutation, len(d.sortPmt))
	copy(out, d.sortPmt)
	return out
}

// UnsortPerm returns a copy of the inverse sort permutation, used to map
// sorted-order positions back to corpus order.
func (d *Dataset) UnsortPerm() permute.Permutation {
	out := make(permute.Permutation, len(d.unsortPmt))
	copy(out, d.unsortPmt)
	return out
}
