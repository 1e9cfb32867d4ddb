package chonker

import (
	"encoding/binary"
	"hash/fnv"
	randv2 "math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *randv2.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return randv2.New(randv2.NewPCG(testSeed1^s1, testSeed2^s2))
}

// seqOfLen builds a sequence of the given length whose tokens encode their
// position, so buffer checks can verify exact placement.
func seqOfLen(length int) []int32 {
	seq := make([]int32, length)
	for i := range seq {
		seq[i] = int32(i + 1)
	}
	return seq
}

// corpusOfLengths builds one sequence per requested length.
func corpusOfLengths(lengths ...int) [][]int32 {
	corpus := make([][]int32, len(lengths))
	for i, l := range lengths {
		corpus[i] = seqOfLen(l)
	}
	return corpus
}

// randomCorpus builds n sequences with lengths in [1, maxLen] and random
// token ids.
func randomCorpus(rng *randv2.Rand, n, maxLen int) [][]int32 {
	corpus := make([][]int32, n)
	for i := range corpus {
		seq := make([]int32, rng.IntN(maxLen)+1)
		for t := range seq {
			seq[t] = int32(rng.IntN(1 << 15))
		}
		corpus[i] = seq
	}
	return corpus
}

// checkPadding verifies the batch invariant: every column holds its tokens
// before its recorded length and the pad value at every row after.
func checkPadding(t *testing.T, b Batch, padValue int32) {
	t.Helper()
	for j := 0; j < b.Size(); j++ {
		length := b.Length(j)
		for row := 0; row < b.MaxLen(); row++ {
			got := b.At(row, j)
			if row >= length && got != padValue {
				t.Errorf("column %d row %d: expected pad %d after length %d, got %d",
					j, row, padValue, length, got)
			}
			if row < length && got == padValue && padValue < 0 {
				// Pad value chosen outside the token range must not appear
				// inside the recorded length.
				t.Errorf("column %d row %d: pad value %d inside recorded length %d",
					j, row, padValue, length)
			}
		}
	}
}
