// Package errors defines all exported error sentinels for the chonker library.
//
// This is the single source of truth for error values. Both the top-level
// chonker package and its subpackages import from here, ensuring errors.Is
// checks work across package boundaries.
package errors

import "errors"

// Configuration errors, raised at construction before any data is touched.
var (
	ErrInvalidBatchSize   = errors.New("chonker: batch size must be positive")
	ErrInvalidBatchBy     = errors.New("chonker: unrecognized batch-by mode")
	ErrInvalidPadStrategy = errors.New("chonker: unrecognized max-padding strategy")
	ErrInvalidGradAccum   = errors.New("chonker: gradient accumulation steps must be positive")
	ErrNegativeMaxPadding = errors.New("chonker: max padding must be non-negative")
	ErrInvalidSeqLen      = errors.New("chonker: sequence length must be positive")
)

// Shape errors. These indicate internal invariant violations, not
// user-facing conditions: a correct partitioner never produces them.
var (
	ErrEmptyBatch = errors.New("chonker: cannot collate an empty batch")
)

// Permutation errors
var (
	ErrLengthMismatch = errors.New("chonker: permutation length does not match slice length")
)

// Vocabulary errors
var (
	ErrEmptyVocab     = errors.New("chonker: vocabulary is empty")
	ErrVocabCorrupted = errors.New("chonker: vocabulary file has non-contiguous ids")
)

// Embedding import errors
var (
	ErrNotNumpy           = errors.New("chonker: file is not in NumPy .npy format")
	ErrUnsupportedNumpy   = errors.New("chonker: unsupported .npy dtype, order, or rank")
	ErrEmbeddingTruncated = errors.New("chonker: embedding file is shorter than its header declares")
)

// Schedule errors
var (
	ErrInvalidWarmup = errors.New("chonker: unrecognized warmup mode")
	ErrInvalidDecay  = errors.New("chonker: unrecognized decay mode")
	ErrInvalidSteps  = errors.New("chonker: step counts must be positive and warmup must not exceed total")
)

// Decoder errors
var (
	ErrNotSquare = errors.New("chonker: transition matrix must be square")
)
