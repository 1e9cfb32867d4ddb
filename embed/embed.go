// Package embed imports pretrained embedding matrices stored in NumPy .npy
// format and aligns them with a vocabulary.
//
// The pretrained file is paired with a JSON sidecar mapping tokens to row
// indices. Vocabulary entries without a pretrained row are initialized
// uniformly at random and reported, so callers can log which tokens start
// untrained.
package embed

import (
	"encoding/json"
	"fmt"
	randv2 "math/rand/v2"
	"os"
)

// Embeddings holds one vector per vocabulary id, in id order.
type Embeddings struct {
	// Vectors[id] is the embedding for vocabulary id.
	Vectors [][]float32
	// Dim is the embedding dimensionality.
	Dim int
	// Missing lists the tokens that had no pretrained vector and were
	// randomly initialized, in id order.
	Missing []string
}

// Vocabulary is the minimal vocabulary view needed for alignment:
// contiguous ids [0, Size) resolving to token strings.
type Vocabulary interface {
	Size() int
	Token(id int) string
}

// Options configures Import.
type Options struct {
	// IndicesPath locates the token-to-row JSON sidecar. Empty derives
	// "<npyPath without .npy>_indices.json".
	IndicesPath string
	// InitRange bounds the uniform initialization of missing vectors to
	// (-InitRange, InitRange). Zero or negative means 1.0.
	InitRange float64
	// RNG supplies entropy for missing-vector initialization; nil uses the
	// process-global source. Inject a seeded generator for reproducible
	// initialization.
	RNG *randv2.Rand
}

// Import reads the .npy matrix at npyPath and returns one vector per
// vocabulary id. Pretrained rows are matched by token through the JSON
// sidecar; tokens without a pretrained row get uniform random vectors.
func Import(npyPath string, vocab Vocabulary, opts Options) (*Embeddings, error) {
	initRange := opts.InitRange
	if initRange <= 0 {
		initRange = 1.0
	}
	indicesPath := opts.IndicesPath
	if indicesPath == "" {
		indicesPath = trimNpySuffix(npyPath) + "_indices.json"
	}

	pretrained, err := readMatrix(npyPath)
	if err != nil {
		return nil, err
	}
	if len(pretrained) == 0 {
		return nil, fmt.Errorf("embedding matrix %s has no rows", npyPath)
	}
	dim := len(pretrained[0])

	raw, err := os.ReadFile(indicesPath)
	if err != nil {
		return nil, fmt.Errorf("read embedding indices: %w", err)
	}
	var tokToRow map[string]int
	if err := json.Unmarshal(raw, &tokToRow); err != nil {
		return nil, fmt.Errorf("decode embedding indices: %w", err)
	}

	uniform := func() float32 {
		if opts.RNG != nil {
			return float32(opts.RNG.Float64()*2*initRange - initRange)
		}
		return float32(randv2.Float64()*2*initRange - initRange)
	}

	emb := &Embeddings{
		Vectors: make([][]float32, vocab.Size()),
		Dim:     dim,
	}
	for id := 0; id < vocab.Size(); id++ {
		token := vocab.Token(id)
		if row, ok := tokToRow[token]; ok && row >= 0 && row < len(pretrained) {
			vec := make([]float32, dim)
			copy(vec, pretrained[row])
			emb.Vectors[id] = vec
			continue
		}
		vec := make([]float32, dim)
		for i := range vec {
			vec[i] = uniform()
		}
		emb.Vectors[id] = vec
		emb.Missing = append(emb.Missing, token)
	}
	return emb, nil
}

func trimNpySuffix(path string) string {
	const suffix = ".npy"
	if len(path) > len(suffix) && path[len(path)-len(suffix):] == suffix {
		return path[:len(path)-len(suffix)]
	}
	return path
}
