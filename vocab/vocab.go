// Package vocab provides a bidirectional mapping between string tokens and
// integer ids, with YAML persistence and a content checksum.
//
// The unknown token always occupies id 0. Ids are assigned in insertion
// order and never reused, so a vocabulary only grows until Reset.
package vocab

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	chonkerrors "github.com/okulic/chonker/errors"
)

// DefaultUnkToken is the unknown-token string used when none is given.
const DefaultUnkToken = "<unk>"

// Vocab is a bidirectional token <-> id map.
//
// Not safe for concurrent mutation; concurrent reads are fine once the
// vocabulary is fully built.
type Vocab struct {
	tokToID  map[string]int
	idToTok  []string
	unkToken string
	unkID    int
}

// New creates a vocabulary containing the unknown token at id 0 followed by
// any extra special tokens. An empty unkToken uses DefaultUnkToken.
func New(unkToken string, extra ...string) *Vocab {
	if unkToken == "" {
		unkToken = DefaultUnkToken
	}
	v := &Vocab{
		tokToID:  make(map[string]int),
		unkToken: unkToken,
	}
	v.AddTokens(unkToken)
	v.AddTokens(extra...)
	v.unkID = v.tokToID[unkToken]
	return v
}

// AddTokens adds tokens directly, assigning the next free id to each token
// not already present.
func (v *Vocab) AddTokens(tokens ...string) {
	for _, tok := range tokens {
		if _, ok := v.tokToID[tok]; !ok {
			v.tokToID[tok] = len(v.idToTok)
			v.idToTok = append(v.idToTok, tok)
		}
	}
}

// AddCorpus adds every token of a tokenized text (a list of token lists).
func (v *Vocab) AddCorpus(corpus [][]string) {
	for _, line := range corpus {
		v.AddTokens(line...)
	}
}

// Size returns the number of unique ids.
func (v *Vocab) Size() int {
	return len(v.idToTok)
}

// UnkToken returns the unknown-token string.
func (v *Vocab) UnkToken() string {
	return v.unkToken
}

// UnkID returns the unknown token's id.
func (v *Vocab) UnkID() int {
	return v.unkID
}

// ID returns the id for a token and whether the token is known.
func (v *Vocab) ID(tok string) (int, bool) {
	id, ok := v.tokToID[tok]
	return id, ok
}

// Token returns the token for an id, or the unknown token for ids outside
// the vocabulary.
func (v *Vocab) Token(id int) string {
	if id < 0 || id >= len(v.idToTok) {
		return v.unkToken
	}
	return v.idToTok[id]
}

// ToIDs maps tokens to ids, substituting the unknown id for tokens not in
// the vocabulary.
func (v *Vocab) ToIDs(tokens []string) []int32 {
	out := make([]int32, len(tokens))
	for i, tok := range tokens {
		if id, ok := v.tokToID[tok]; ok {
			out[i] = int32(id)
		} else {
			out[i] = int32(v.unkID)
		}
	}
	return out
}

// ToTokens maps ids to tokens, substituting the unknown token for ids
// outside the vocabulary.
func (v *Vocab) ToTokens(ids []int32) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = v.Token(int(id))
	}
	return out
}

// Reset empties the vocabulary entirely, including the unknown token.
// After Reset the vocabulary must be rebuilt (or loaded) before use.
func (v *Vocab) Reset() {
	v.tokToID = make(map[string]int)
	v.idToTok = nil
}

// Checksum returns an xxHash64 digest over the tokens in id order. Two
// vocabularies with identical token-to-id assignments have equal checksums,
// so callers can detect vocabulary drift between training runs.
func (v *Vocab) Checksum() uint64 {
	h := xxhash.New()
	for _, tok := range v.idToTok {
		// Length-prefix each token so ("ab","c") and ("a","bc") differ.
		var lenBuf [4]byte
		lenBuf[0] = byte(len(tok))
		lenBuf[1] = byte(len(tok) >> 8)
		lenBuf[2] = byte(len(tok) >> 16)
		lenBuf[3] = byte(len(tok) >> 24)
		h.Write(lenBuf[:])
		io.WriteString(h, tok)
	}
	return h.Sum64()
}

// Save writes the id-to-token mapping as a YAML document.
func (v *Vocab) Save(w io.Writer) error {
	if len(v.idToTok) == 0 {
		return chonkerrors.ErrEmptyVocab
	}
	m := make(map[int]string, len(v.idToTok))
	for id, tok := range v.idToTok {
		m[id] = tok
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode vocab: %w", err)
	}
	return enc.Close()
}

// SaveFile writes the vocabulary to a YAML file.
func (v *Vocab) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vocab file: %w", err)
	}
	if err := v.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load replaces the vocabulary with the mapping read from a YAML document.
// The token at id 0 is presumed to be the unknown token. Ids must be
// contiguous from 0.
func (v *Vocab) Load(r io.Reader) error {
	var m map[int]string
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("decode vocab: %w", err)
	}
	if len(m) == 0 {
		return chonkerrors.ErrEmptyVocab
	}

	idToTok := make([]string, len(m))
	seen := make([]bool, len(m))
	for id, tok := range m {
		if id < 0 || id >= len(m) || seen[id] {
			return chonkerrors.ErrVocabCorrupted
		}
		idToTok[id] = tok
		seen[id] = true
	}

	v.idToTok = idToTok
	v.tokToID = make(map[string]int, len(idToTok))
	for id, tok := range idToTok {
		v.tokToID[tok] = id
	}
	v.unkID = 0
	v.unkToken = idToTok[0]
	return nil
}

// LoadFile reads the vocabulary from a YAML file.
func (v *Vocab) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open vocab file: %w", err)
	}
	defer f.Close()
	return v.Load(f)
}
