// Package viterbi decodes the best path through an acyclic segmentation
// lattice.
//
// The lattice over a sequence of length n has positions 0..n; an edge
// (i, j) with i < j scores the segment covering elements i..j-1. The input
// is an n x n matrix where transitions[i][j-1] is that edge's score. Best
// here means maximum total score; scores are typically log-probabilities.
package viterbi

import chonkerrors "github.com/okulic/chonker/errors"

// Edge is one segment of the best path, covering positions [From, To).
type Edge struct {
	From, To int
}

// BestPath returns the maximum-score segmentation of the lattice and its
// total score. transitions must be square; an empty matrix yields an empty
// path with score 0.
func BestPath(transitions [][]float64) ([]Edge, float64, error) {
	n := len(transitions)
	for _, row := range transitions {
		if len(row) != n {
			return nil, 0, chonkerrors.ErrNotSquare
		}
	}
	if n == 0 {
		return nil, 0, nil
	}

	// trellis[pos] holds the best score of any path reaching pos and the
	// predecessor position that achieves it.
	score := make([]float64, n+1)
	back := make([]int, n+1)
	for pos := 1; pos <= n; pos++ {
		bestPrev := 0
		bestScore := score[0] + transitions[0][pos-1]
		for prev := 1; prev < pos; prev++ {
			if s := score[prev] + transitions[prev][pos-1]; s > bestScore {
				bestScore = s
				bestPrev = prev
			}
		}
		score[pos] = bestScore
		back[pos] = bestPrev
	}

	// Walk back from the final position collecting edges, then reverse.
	var path []Edge
	for pos := n; pos > 0; pos = back[pos] {
		path = append(path, Edge{From: back[pos], To: pos})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, score[n], nil
}
