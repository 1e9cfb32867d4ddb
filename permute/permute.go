// Package permute computes the index permutations used to reorder sequence
// data and later restore its original order.
//
// A Permutation p maps positions in the reordered view back to positions in
// the original: reordered[i] = original[p[i]]. Composing a permutation with
// its inverse is the identity, so model outputs produced from sorted or
// shuffled batches can always be mapped back to corpus order.
package permute

import (
	"cmp"
	randv2 "math/rand/v2"
	"slices"

	chonkerrors "github.com/okulic/chonker/errors"
)

// Permutation is a bijection on [0, n) represented as an index list.
type Permutation []int

// SortUnsort returns the permutation that stable-sorts keys and the
// permutation that restores the original order. Ties keep their original
// relative order. Holds for all n >= 0; n == 0 yields empty permutations.
func SortUnsort[K cmp.Ordered](keys []K, descending bool) (sortPmt, unsortPmt Permutation) {
	n := len(keys)
	sortPmt = make(Permutation, n)
	for i := range sortPmt {
		sortPmt[i] = i
	}
	// SortStableFunc preserves the original relative order of equal keys,
	// for both ascending and descending comparisons.
	if descending {
		slices.SortStableFunc(sortPmt, func(a, b int) int {
			return cmp.Compare(keys[b], keys[a])
		})
	} else {
		slices.SortStableFunc(sortPmt, func(a, b int) int {
			return cmp.Compare(keys[a], keys[b])
		})
	}
	return sortPmt, sortPmt.Inverse()
}

// ShuffleUnshuffle returns a uniformly random permutation of [0, n) and its
// inverse. Entropy comes from rng; a nil rng falls back to the process-global
// source. Pass a seeded *rand.Rand for reproducible shuffles.
func ShuffleUnshuffle(n int, rng *randv2.Rand) (shufflePmt, unshufflePmt Permutation) {
	var p []int
	if rng != nil {
		p = rng.Perm(n)
	} else {
		p = randv2.Perm(n)
	}
	shufflePmt = Permutation(p)
	return shufflePmt, shufflePmt.Inverse()
}

// Inverse returns the permutation q satisfying q[p[i]] = i for all i.
func (p Permutation) Inverse() Permutation {
	inv := make(Permutation, len(p))
	for i, j := range p {
		inv[j] = i
	}
	return inv
}

// Apply reorders xs by p, returning a new slice with out[i] = xs[p[i]].
// Returns ErrLengthMismatch if p and xs differ in length.
func Apply[T any](p Permutation, xs []T) ([]T, error) {
	if len(p) != len(xs) {
		return nil, chonkerrors.ErrLengthMismatch
	}
	out := make([]T, len(xs))
	for i, j := range p {
		out[i] = xs[j]
	}
	return out, nil
}
