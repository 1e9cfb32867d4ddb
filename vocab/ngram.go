package vocab

import "strings"

// ngramSep joins ngram elements into a single map key. The unit separator
// cannot occur in whitespace-tokenized input.
const ngramSep = "\x1f"

// NGramIndex holds 1-to-n-gram counts over a corpus together with a
// bidirectional ngram <-> id mapping, for feature extraction over token
// windows.
type NGramIndex struct {
	counts map[string]int
	toID   map[string]int
	grams  [][]string
}

// NGrams counts all 1-to-maxLen-grams over a corpus of token lists,
// discarding ngrams that occur fewer than minCount times, and assigns ids
// to the survivors. minCount values below 1 are treated as 1.
func NGrams(corpus [][]string, maxLen, minCount int) *NGramIndex {
	if minCount < 1 {
		minCount = 1
	}
	counts := make(map[string]int)
	for n := 1; n <= maxLen; n++ {
		for _, sentence := range corpus {
			for i := 0; i+n <= len(sentence); i++ {
				counts[strings.Join(sentence[i:i+n], ngramSep)]++
			}
		}
	}
	for key, c := range counts {
		if c < minCount {
			delete(counts, key)
		}
	}

	idx := &NGramIndex{
		counts: counts,
		toID:   make(map[string]int, len(counts)),
	}
	// Ids follow the original corpus order: shorter ngrams first, then
	// sentence order, then position. This keeps id assignment deterministic
	// rather than map-iteration dependent.
	for n := 1; n <= maxLen; n++ {
		for _, sentence := range corpus {
			for i := 0; i+n <= len(sentence); i++ {
				key := strings.Join(sentence[i:i+n], ngramSep)
				if _, counted := counts[key]; !counted {
					continue
				}
				if _, assigned := idx.toID[key]; assigned {
					continue
				}
				idx.toID[key] = len(idx.grams)
				gram := make([]string, n)
				copy(gram, sentence[i:i+n])
				idx.grams = append(idx.grams, gram)
			}
		}
	}
	return idx
}

// Len returns the number of indexed ngrams.
func (x *NGramIndex) Len() int {
	return len(x.grams)
}

// Count returns how often an ngram occurred, or 0 if it was filtered out.
func (x *NGramIndex) Count(gram []string) int {
	return x.counts[strings.Join(gram, ngramSep)]
}

// ID returns the id of an ngram and whether it is indexed.
func (x *NGramIndex) ID(gram []string) (int, bool) {
	id, ok := x.toID[strings.Join(gram, ngramSep)]
	return id, ok
}

// NGram returns a copy of the ngram with the given id.
func (x *NGramIndex) NGram(id int) []string {
	gram := x.grams[id]
	out := make([]string, len(gram))
	copy(out, gram)
	return out
}
