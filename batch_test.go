package chonker

import (
	"errors"
	"testing"

	chonkerrors "github.com/okulic/chonker/errors"
)

func TestCollatePlacement(t *testing.T) {
	members := []member{
		{seq: []int32{11, 12, 13}, length: 3},
		{seq: []int32{21}, length: 1},
	}
	b, err := collate(members, testPad)
	if err != nil {
		t.Fatalf("collate failed: %v", err)
	}

	if b.Size() != 2 || b.MaxLen() != 3 {
		t.Fatalf("expected shape 3x2, got %dx%d", b.MaxLen(), b.Size())
	}
	if b.PadValue() != testPad {
		t.Errorf("expected pad value %d, got %d", testPad, b.PadValue())
	}

	// Row-major: row t holds time step t of every member.
	want := []int32{
		11, 21,
		12, testPad,
		13, testPad,
	}
	got := b.Data()
	if len(got) != len(want) {
		t.Fatalf("expected %d buffer elements, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("buffer[%d]: expected %d, got %d", i, want[i], got[i])
		}
	}

	if b.At(2, 0) != 13 {
		t.Errorf("At(2,0): expected 13, got %d", b.At(2, 0))
	}
	if b.At(1, 1) != testPad {
		t.Errorf("At(1,1): expected pad, got %d", b.At(1, 1))
	}
}

func TestCollateToGlobalMax(t *testing.T) {
	members := []member{{seq: []int32{5, 6}, length: 2}}
	b, err := collateTo(members, testPad, 4)
	if err != nil {
		t.Fatalf("collateTo failed: %v", err)
	}
	if b.MaxLen() != 4 {
		t.Fatalf("expected padded length 4, got %d", b.MaxLen())
	}
	col := b.Column(0)
	want := []int32{5, 6, testPad, testPad}
	for t2 := range want {
		if col[t2] != want[t2] {
			t.Errorf("column row %d: expected %d, got %d", t2, want[t2], col[t2])
		}
	}
	if b.Length(0) != 2 {
		t.Errorf("expected original length 2, got %d", b.Length(0))
	}
}

func TestCollateEmpty(t *testing.T) {
	_, err := collate(nil, testPad)
	if !errors.Is(err, chonkerrors.ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestLengthsReturnsCopy(t *testing.T) {
	b, err := collate([]member{{seq: []int32{1, 2}, length: 2}}, testPad)
	if err != nil {
		t.Fatalf("collate failed: %v", err)
	}
	lengths := b.Lengths()
	lengths[0] = 99
	if b.Length(0) != 2 {
		t.Errorf("mutating the returned lengths slice changed the batch")
	}
}
