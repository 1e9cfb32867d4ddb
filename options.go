package chonker

import (
	randv2 "math/rand/v2"

	chonkerrors "github.com/okulic/chonker/errors"
)

// BatchBy selects the unit by which batches are sized.
type BatchBy uint8

const (
	// BySequences sizes each batch as a fixed number of sequences.
	BySequences BatchBy = iota
	// ByTokens sizes each batch by a token budget: the number of sequences
	// is chosen so that members * maxLengthInBatch stays within the budget.
	ByTokens
)

// PadStrategy selects how a candidate batch that violates the padding
// budget is adjusted.
type PadStrategy uint8

const (
	// Split shrinks the batch to its legal prefix; the remainder starts a
	// new candidate batch. No sequences are dropped.
	Split PadStrategy = iota
	// SoftDrop keeps the legal prefix as a batch and discards the violating
	// remainder of the candidate range entirely.
	SoftDrop
	// HardDrop discards the whole candidate range, legal prefix included.
	HardDrop
)

// BuildOption is a functional option for configuring Dataset construction.
type BuildOption func(*buildConfig)

type buildConfig struct {
	batchBy    BatchBy
	gradAccum  int
	dropFinal  bool
	maxPadding int
	maxPadSet  bool
	strategy   PadStrategy
	workers    int
	shuffleRNG *randv2.Rand // batch shuffling entropy for PadAndBatch
	shuffle    bool
}

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		batchBy:   BySequences,
		gradAccum: 1,
		dropFinal: true,
		workers:   0, // Single-threaded collation; use WithWorkers(n) to parallelize
	}
}

// validate rejects unrecognized enum values and out-of-range parameters.
// Called before any data is touched so a bad configuration never produces
// a partial Dataset.
func (c *buildConfig) validate(batchSize int) error {
	if batchSize <= 0 {
		return chonkerrors.ErrInvalidBatchSize
	}
	if c.batchBy != BySequences && c.batchBy != ByTokens {
		return chonkerrors.ErrInvalidBatchBy
	}
	if c.gradAccum <= 0 {
		return chonkerrors.ErrInvalidGradAccum
	}
	if c.maxPadSet {
		if c.maxPadding < 0 {
			return chonkerrors.ErrNegativeMaxPadding
		}
		switch c.strategy {
		case Split, SoftDrop, HardDrop:
		default:
			return chonkerrors.ErrInvalidPadStrategy
		}
	}
	return nil
}

// WithBatchBy sets the batch sizing mode. Default is BySequences.
func WithBatchBy(mode BatchBy) BuildOption {
	return func(c *buildConfig) {
		c.batchBy = mode
	}
}

// WithGradAccumulation sets the number of gradient accumulation steps.
// A "full" logical batch is batchSize * steps sequences (BySequences) or
// steps consecutive batches (ByTokens); dropFinal trims to full batches.
// Default is 1.
func WithGradAccumulation(steps int) BuildOption {
	return func(c *buildConfig) {
		c.gradAccum = steps
	}
}

// WithDropFinal controls whether trailing input that does not fill a full
// logical batch is discarded. Default is true. The discarded count is
// observable through Dataset.NumInstances.
func WithDropFinal(drop bool) BuildOption {
	return func(c *buildConfig) {
		c.dropFinal = drop
	}
}

// WithMaxPadding bounds the padding any batch member may receive to maxPad
// tokens, applying strategy to candidate batches that would exceed it.
// maxPad must be non-negative. Without this option no padding budget is
// enforced.
func WithMaxPadding(maxPad int, strategy PadStrategy) BuildOption {
	return func(c *buildConfig) {
		c.maxPadding = maxPad
		c.maxPadSet = true
		c.strategy = strategy
	}
}

// WithWorkers sets the number of parallel collation workers. Values <= 1
// collate on the calling goroutine. Parallel collation is deterministic:
// batch order and contents are identical to the single-threaded result.
func WithWorkers(n int) BuildOption {
	return func(c *buildConfig) {
		c.workers = n
	}
}

// WithBatchShuffle enables batch-order shuffling in PadAndBatch, recording
// the shuffle permutation and its inverse on the result. rng supplies the
// entropy; nil uses the process-global source. New ignores this option:
// length-sorted batching depends on batch order for its padding bounds.
func WithBatchShuffle(rng *randv2.Rand) BuildOption {
	return func(c *buildConfig) {
		c.shuffle = true
		c.shuffleRNG = rng
	}
}
