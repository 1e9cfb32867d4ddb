package chonker

import (
	"golang.org/x/sync/errgroup"
)

// padToRangeMax tells collateBatches to pad each batch to its own longest
// member rather than to a shared global length.
const padToRangeMax = -1

// collateRanges collates every index range into a Batch padded to the
// range's own longest member, preserving range order.
func collateRanges(sorted []member, ranges []indexRange, padValue int32, workers int) ([]Batch, error) {
	return collateBatches(sorted, ranges, padValue, padToRangeMax, workers)
}

// collateRangesTo is collateRanges with a fixed padded length shared by
// all batches, used by fixed-shape batching.
func collateRangesTo(sorted []member, ranges []indexRange, padValue int32, maxLen, workers int) ([]Batch, error) {
	return collateBatches(sorted, ranges, padValue, maxLen, workers)
}

// collateBatches collates ranges into batches. With workers > 1 the ranges
// are collated concurrently; each goroutine writes into its own slot of
// the result slice, so the output is identical to the single-threaded
// result regardless of scheduling.
func collateBatches(sorted []member, ranges []indexRange, padValue int32, padTo, workers int) ([]Batch, error) {
	if len(ranges) == 0 {
		return nil, nil
	}

	one := func(r indexRange) (Batch, error) {
		if padTo == padToRangeMax {
			return collate(sorted[r.start:r.end], padValue)
		}
		return collateTo(sorted[r.start:r.end], padValue, padTo)
	}

	batches := make([]Batch, len(ranges))

	if workers <= 1 || len(ranges) == 1 {
		for i, r := range ranges {
			b, err := one(r)
			if err != nil {
				return nil, err
			}
			batches[i] = b
		}
		return batches, nil
	}

	if workers > len(ranges) {
		workers = len(ranges)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, r := range ranges {
		g.Go(func() error {
			b, err := one(r)
			if err != nil {
				return err
			}
			batches[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}
