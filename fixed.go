package chonker

import (
	chonkerrors "github.com/okulic/chonker/errors"
	"github.com/okulic/chonker/permute"
)

// FixedDataset is the fixed-shape counterpart of Dataset: every batch has
// exactly batchSize members and shares one global padded length, so the
// whole dataset forms a (numBatches, maxLen, batchSize) block. Built by
// PadAndBatch.
//
// Like Dataset, it is immutable after construction.
type FixedDataset struct {
	batches      []Batch
	sortPmt      permute.Permutation
	unsortPmt    permute.Permutation
	shufflePmt   permute.Permutation // nil unless WithBatchShuffle was given
	unshufflePmt permute.Permutation
	numInstances int
	maxLen       int
}

// PadAndBatch sorts data into fixed-size batches by descending length,
// padding every sequence to the global maximum length.
//
// Trailing sequences that do not fill a full accumulation group
// (batchSize * gradient accumulation steps) are always dropped first, so
// every batch is complete. With WithBatchShuffle the batch order is
// randomly permuted and the shuffle/unshuffle permutations are recorded.
//
// Recognized options: WithGradAccumulation, WithBatchShuffle, WithWorkers.
// Sizing and padding-budget options do not apply to fixed-shape batching.
func PadAndBatch(data [][]int32, batchSize int, padValue int32, opts ...BuildOption) (*FixedDataset, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if batchSize <= 0 {
		return nil, chonkerrors.ErrInvalidBatchSize
	}
	if cfg.gradAccum <= 0 {
		return nil, chonkerrors.ErrInvalidGradAccum
	}

	// Trim to full accumulation groups before computing any permutation.
	fullBatch := batchSize * cfg.gradAccum
	numFull := len(data) / fullBatch
	data = data[:numFull*fullBatch]
	numBatches := numFull * cfg.gradAccum

	lengths := make([]int, len(data))
	maxLen := 0
	for i, seq := range data {
		lengths[i] = len(seq)
		if len(seq) > maxLen {
			maxLen = len(seq)
		}
	}
	sortPmt, unsortPmt := permute.SortUnsort(lengths, true)

	sorted := make([]member, len(data))
	for i, j := range sortPmt {
		sorted[i] = member{seq: data[j], length: lengths[j]}
	}

	// Equal-size contiguous ranges, every batch padded to the global max.
	ranges := make([]indexRange, numBatches)
	for i := range ranges {
		ranges[i] = indexRange{start: i * batchSize, end: (i + 1) * batchSize}
	}
	batches, err := collateRangesTo(sorted, ranges, padValue, maxLen, cfg.workers)
	if err != nil {
		return nil, err
	}

	ds := &FixedDataset{
		batches:      batches,
		sortPmt:      sortPmt,
		unsortPmt:    unsortPmt,
		numInstances: len(sorted),
		maxLen:       maxLen,
	}

	if cfg.shuffle {
		shufflePmt, unshufflePmt := permute.ShuffleUnshuffle(numBatches, cfg.shuffleRNG)
		shuffled, err := permute.Apply(shufflePmt, ds.batches)
		if err != nil {
			return nil, err
		}
		ds.batches = shuffled
		ds.shufflePmt = shufflePmt
		ds.unshufflePmt = unshufflePmt
	}

	return ds, nil
}

// Len returns the number of batches.
func (d *FixedDataset) Len() int {
	return len(d.batches)
}

// Batch returns batch i, in shuffled order when shuffling was enabled.
func (d *FixedDataset) Batch(i int) Batch {
	return d.batches[i]
}

// MaxLen returns the global padded length shared by all batches.
func (d *FixedDataset) MaxLen() int {
	return d.maxLen
}

// NumInstances returns the number of input sequences retained after
// full-batch trimming.
func (d *FixedDataset) NumInstances() int {
	return d.numInstances
}

// SortPerm returns a copy of the sort permutation over the trimmed corpus.
func (d *FixedDataset) SortPerm() permute.Permutation {
	out := make(permute.Permutation, len(d.sortPmt))
	copy(out, d.sortPmt)
	return out
}

// UnsortPerm returns a copy of the inverse sort permutation.
func (d *FixedDataset) UnsortPerm() permute.Permutation {
	out := make(permute.Permutation, len(d.unsortPmt))
	copy(out, d.unsortPmt)
	return out
}

// ShufflePerm returns a copy of the batch shuffle permutation, or nil when
// shuffling was not enabled.
func (d *FixedDataset) ShufflePerm() permute.Permutation {
	if d.shufflePmt == nil {
		return nil
	}
	out := make(permute.Permutation, len(d.shufflePmt))
	copy(out, d.shufflePmt)
	return out
}

// UnshufflePerm returns a copy of the inverse batch shuffle permutation, or
// nil when shuffling was not enabled.
func (d *FixedDataset) UnshufflePerm() permute.Permutation {
	if d.unshufflePmt == nil {
		return nil
	}
	out := make(permute.Permutation, len(d.unshufflePmt))
	copy(out, d.unshufflePmt)
	return out
}

// StreamMatrix is a flat token stream reshaped into batchSize parallel
// columns for language-model style training. Rows is always divisible by
// the sequence length passed to PartitionStream.
type StreamMatrix struct {
	data []int32 // row-major, rows x cols
	rows int
	cols int
}

// PartitionStream cuts a flat token stream into a (rows, batchSize) matrix
// whose row count is divisible by seqLen, discarding trailing tokens that
// do not fill the shape. Column b is a contiguous span of the input, so
// consecutive rows within a column continue the same text. Returns the
// matrix and the number of tokens retained.
func PartitionStream(data []int32, seqLen, batchSize int) (*StreamMatrix, int, error) {
	if seqLen <= 0 {
		return nil, 0, chonkerrors.ErrInvalidSeqLen
	}
	if batchSize <= 0 {
		return nil, 0, chonkerrors.ErrInvalidBatchSize
	}

	denom := seqLen * batchSize
	numBatches := len(data) / denom
	kept := numBatches * denom
	rows := kept / batchSize

	// out[t*batchSize + b] = data[b*rows + t]: each column is one
	// contiguous stream slice, transposed into row-major time steps.
	out := make([]int32, kept)
	for b := 0; b < batchSize; b++ {
		col := data[b*rows : (b+1)*rows]
		for t, v := range col {
			out[t*batchSize+b] = v
		}
	}
	return &StreamMatrix{data: out, rows: rows, cols: batchSize}, kept, nil
}

// Rows returns the number of time steps.
func (m *StreamMatrix) Rows() int {
	return m.rows
}

// Cols returns the number of parallel columns.
func (m *StreamMatrix) Cols() int {
	return m.cols
}

// At returns the token at time step t of column b.
func (m *StreamMatrix) At(t, b int) int32 {
	return m.data[t*m.cols+b]
}

// Data returns the underlying row-major buffer. Callers must not modify it.
func (m *StreamMatrix) Data() []int32 {
	return m.data
}
