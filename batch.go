package chonker

import chonkerrors "github.com/okulic/chonker/errors"

// Batch is a padded rectangular buffer of token ids plus the original
// (unpadded) length of each member.
//
// The buffer has MaxLen rows and Size columns; column j holds member j's
// tokens at rows [0, Lengths()[j]) and the pad value at every row beyond.
// Rows are time steps, matching the (max_length, batch_size) layout that
// sequence models consume.
//
// A Batch is immutable once built and safe for concurrent readers.
type Batch struct {
	data     []int32 // row-major, maxLen rows x size columns
	lengths  []int
	maxLen   int
	padValue int32
}

// member pairs a sequence with its precomputed length.
type member struct {
	seq    []int32
	length int
}

// collate builds a padded Batch from members, left-aligning each member in
// its column and filling the remainder with padValue. The lengths list is
// in member order. members must be non-empty: an empty range has no
// defined shape.
func collate(members []member, padValue int32) (Batch, error) {
	maxLen := 0
	for _, m := range members {
		if m.length > maxLen {
			maxLen = m.length
		}
	}
	return collateTo(members, padValue, maxLen)
}

// collateTo collates members into a buffer padded to an explicit length,
// used by fixed-shape batching where all batches share the global max.
// maxLen must be at least the longest member length.
func collateTo(members []member, padValue int32, maxLen int) (Batch, error) {
	if len(members) == 0 {
		return Batch{}, chonkerrors.ErrEmptyBatch
	}

	lengths := make([]int, len(members))
	for j, m := range members {
		lengths[j] = m.length
	}

	size := len(members)
	data := make([]int32, maxLen*size)
	for i := range data {
		data[i] = padValue
	}
	for j, m := range members {
		for t := 0; t < m.length; t++ {
			data[t*size+j] = m.seq[t]
		}
	}

	return Batch{data: data, lengths: lengths, maxLen: maxLen, padValue: padValue}, nil
}

// Size returns the number of members (columns) in the batch.
func (b Batch) Size() int {
	return len(b.lengths)
}

// MaxLen returns the padded length (row count) of the batch.
func (b Batch) MaxLen() int {
	return b.maxLen
}

// PadValue returns the value used to pad members shorter than MaxLen.
func (b Batch) PadValue() int32 {
	return b.padValue
}

// Lengths returns a copy of the members' original lengths, in column order.
func (b Batch) Lengths() []int {
	out := make([]int, len(b.lengths))
	copy(out, b.lengths)
	return out
}

// Length returns member j's original length.
func (b Batch) Length(j int) int {
	return b.lengths[j]
}

// At returns the token at time step t of member j.
func (b Batch) At(t, j int) int32 {
	return b.data[t*len(b.lengths)+j]
}

// Column returns a copy of member j's full padded column.
func (b Batch) Column(j int) []int32 {
	out := make([]int32, b.maxLen)
	size := len(b.lengths)
	for t := 0; t < b.maxLen; t++ {
		out[t] = b.data[t*size+j]
	}
	return out
}

// Data returns the underlying row-major buffer. The slice is shared with
// the Batch; callers must not modify it.
func (b Batch) Data() []int32 {
	return b.data
}
