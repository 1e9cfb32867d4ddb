package embed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	randv2 "math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	chonkerrors "github.com/okulic/chonker/errors"
)

// fakeVocab resolves contiguous ids to its elements.
type fakeVocab []string

func (v fakeVocab) Size() int           { return len(v) }
func (v fakeVocab) Token(id int) string { return v[id] }

// writeNpy writes a version-1 .npy file holding a float32 C-order matrix,
// padding the header to a 64-byte boundary the way numpy does.
func writeNpy(t *testing.T, path string, rows [][]float32) {
	t.Helper()

	dict := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }",
		len(rows), len(rows[0]))
	preamble := 10 // magic + version + uint16 header length
	padded := ((preamble + len(dict) + 1 + 63) / 64) * 64
	headerLen := padded - preamble
	header := make([]byte, headerLen)
	copy(header, dict)
	for i := len(dict); i < headerLen-1; i++ {
		header[i] = ' '
	}
	header[headerLen-1] = '\n'

	buf := append([]byte("\x93NUMPY"), 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(headerLen))
	buf = append(buf, header...)
	for _, row := range rows {
		for _, v := range row {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write npy: %v", err)
	}
}

func writeIndices(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write indices: %v", err)
	}
}

func TestImportAlignsAndInitializesMissing(t *testing.T) {
	dir := t.TempDir()
	npyPath := filepath.Join(dir, "glove.npy")
	writeNpy(t, npyPath, [][]float32{
		{1, 2, 3},
		{4, 5, 6},
	})
	// The default sidecar path is derived from the npy path.
	writeIndices(t, filepath.Join(dir, "glove_indices.json"), `{"cat": 0, "dog": 1}`)

	vocab := fakeVocab{"<unk>", "cat", "dog"}
	emb, err := Import(npyPath, vocab, Options{
		InitRange: 0.25,
		RNG:       randv2.New(randv2.NewPCG(3, 5)),
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if emb.Dim != 3 {
		t.Fatalf("expected dim 3, got %d", emb.Dim)
	}
	if len(emb.Vectors) != 3 {
		t.Fatalf("expected one vector per vocab id, got %d", len(emb.Vectors))
	}
	if got := emb.Vectors[1]; got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("'cat': expected pretrained row 0, got %v", got)
	}
	if got := emb.Vectors[2]; got[0] != 4 || got[1] != 5 || got[2] != 6 {
		t.Errorf("'dog': expected pretrained row 1, got %v", got)
	}

	if len(emb.Missing) != 1 || emb.Missing[0] != "<unk>" {
		t.Fatalf("expected only <unk> to be missing, got %v", emb.Missing)
	}
	for i, v := range emb.Vectors[0] {
		if v <= -0.25 || v >= 0.25 {
			t.Errorf("missing vector element %d = %v outside (-0.25, 0.25)", i, v)
		}
	}
}

func TestImportExplicitIndicesPath(t *testing.T) {
	dir := t.TempDir()
	npyPath := filepath.Join(dir, "vectors.npy")
	idxPath := filepath.Join(dir, "custom.json")
	writeNpy(t, npyPath, [][]float32{{7, 8}})
	writeIndices(t, idxPath, `{"only": 0}`)

	emb, err := Import(npyPath, fakeVocab{"only"}, Options{IndicesPath: idxPath})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if got := emb.Vectors[0]; got[0] != 7 || got[1] != 8 {
		t.Errorf("expected pretrained row, got %v", got)
	}
	if len(emb.Missing) != 0 {
		t.Errorf("expected no missing tokens, got %v", emb.Missing)
	}
}

func TestImportFloat64Matrix(t *testing.T) {
	dir := t.TempDir()
	npyPath := filepath.Join(dir, "f64.npy")

	dict := "{'descr': '<f8', 'fortran_order': False, 'shape': (1, 2), }"
	headerLen := ((10+len(dict)+1+63)/64)*64 - 10
	header := make([]byte, headerLen)
	copy(header, dict)
	for i := len(dict); i < headerLen-1; i++ {
		header[i] = ' '
	}
	header[headerLen-1] = '\n'
	buf := append([]byte("\x93NUMPY"), 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(headerLen))
	buf = append(buf, header...)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(1.5))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(-2.5))
	if err := os.WriteFile(npyPath, buf, 0o644); err != nil {
		t.Fatalf("write npy: %v", err)
	}
	writeIndices(t, filepath.Join(dir, "f64_indices.json"), `{"a": 0}`)

	emb, err := Import(npyPath, fakeVocab{"a"}, Options{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if got := emb.Vectors[0]; got[0] != 1.5 || got[1] != -2.5 {
		t.Errorf("expected [1.5 -2.5], got %v", got)
	}
}

func TestImportRejectsNonNumpy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bogus.npy")
	if err := os.WriteFile(path, []byte("definitely not numpy data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, err := Import(path, fakeVocab{"a"}, Options{})
	if !errors.Is(err, chonkerrors.ErrNotNumpy) {
		t.Fatalf("expected ErrNotNumpy, got %v", err)
	}
}

func TestImportRejectsTruncated(t *testing.T) {
	dir := t.TempDir()
	npyPath := filepath.Join(dir, "trunc.npy")
	writeNpy(t, npyPath, [][]float32{{1, 2, 3}, {4, 5, 6}})

	full, err := os.ReadFile(npyPath)
	if err != nil {
		t.Fatalf("read npy: %v", err)
	}
	if err := os.WriteFile(npyPath, full[:len(full)-8], 0o644); err != nil {
		t.Fatalf("truncate npy: %v", err)
	}
	writeIndices(t, filepath.Join(dir, "trunc_indices.json"), `{"a": 0}`)

	_, err = Import(npyPath, fakeVocab{"a"}, Options{})
	if !errors.Is(err, chonkerrors.ErrEmbeddingTruncated) {
		t.Fatalf("expected ErrEmbeddingTruncated, got %v", err)
	}
}
