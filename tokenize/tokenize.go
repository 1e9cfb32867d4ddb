// Package tokenize splits raw text lines into word or character tokens for
// downstream vocabulary building and batching.
//
// Markup tags such as <bos> or <NAME> are treated as atomic tokens: they
// can be split away from adjacent non-whitespace text and are never broken
// into characters.
package tokenize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"
)

// Edge tokens added around each line when Config.EdgeTokens is set.
const (
	BOSToken = "<bos>"
	EOSToken = "<eos>"
)

// DefaultDelimiter is the token delimiter used when Config.Delimiter is
// empty: any run of whitespace.
const DefaultDelimiter = `\s+`

// Separating tags from surrounding text needs lookahead (a tag glued inside
// a word must gain spaces on both sides without consuming its neighbors),
// which the stdlib regexp engine cannot express.
var (
	tagBeforeTag = regexp2.MustCompile(`(<[A-Za-z0-9]*>)(?=<[A-Za-z0-9]*>)`, 0)
	tagAfterWord = regexp2.MustCompile(`(\S+)(<[A-Za-z0-9]*>)(\s+|$)`, 0)
	tagBeforeWord = regexp2.MustCompile(`(^|\s+)(<[A-Za-z0-9]*>)(\S+)`, 0)
	tagInsideWord = regexp2.MustCompile(`(?=\S+)(<[A-Za-z0-9]*>)(?=\S+)`, 0)
)

// Config controls tokenization.
type Config struct {
	// Delimiter is the token-splitting regular expression. Empty means
	// DefaultDelimiter.
	Delimiter string
	// PreserveCase keeps the original casing instead of lowercasing.
	PreserveCase bool
	// SplitTags separates <tags> from adjacent non-whitespace text before
	// splitting.
	SplitTags bool
	// EdgeTokens wraps each line in BOSToken / EOSToken.
	EdgeTokens bool
	// NormalizeNFC applies Unicode NFC normalization to each line first.
	NormalizeNFC bool
}

// TokenizeTags inserts spaces between <tags> and any adjacent
// non-whitespace characters so a whitespace split yields the tags as
// standalone tokens.
func TokenizeTags(s string) (string, error) {
	var err error
	if s, err = tagBeforeTag.Replace(s, "$1 ", -1, -1); err != nil {
		return "", fmt.Errorf("tokenize tags: %w", err)
	}
	if s, err = tagAfterWord.Replace(s, "$1 $2$3", -1, -1); err != nil {
		return "", fmt.Errorf("tokenize tags: %w", err)
	}
	if s, err = tagBeforeWord.Replace(s, "$1$2 $3", -1, -1); err != nil {
		return "", fmt.Errorf("tokenize tags: %w", err)
	}
	if s, err = tagInsideWord.Replace(s, " $1 ", -1, -1); err != nil {
		return "", fmt.Errorf("tokenize tags: %w", err)
	}
	return s, nil
}

// IsTag reports whether a word is a tag: it starts and ends with angle
// brackets.
func IsTag(word string) bool {
	return strings.HasPrefix(word, "<") && strings.HasSuffix(word, ">")
}

// SplitLines splits each line on a regex delimiter, optionally separating
// tags from surrounding text first. An empty delimiter means
// DefaultDelimiter.
func SplitLines(lines []string, delimiter string, splitTags bool) ([][]string, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	re, err := regexp.Compile(delimiter)
	if err != nil {
		return nil, fmt.Errorf("compile delimiter: %w", err)
	}

	out := make([][]string, len(lines))
	for i, line := range lines {
		if splitTags {
			if line, err = TokenizeTags(line); err != nil {
				return nil, err
			}
			line = strings.TrimSpace(line)
		}
		out[i] = re.Split(line, -1)
	}
	return out, nil
}

// Flatten concatenates a list of lists into a single list.
func Flatten[T any](lists [][]T) []T {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	out := make([]T, 0, total)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// CharsFromWords sub-tokenizes each word into characters, keeping tags
// whole.
func CharsFromWords(words []string) [][]string {
	out := make([][]string, len(words))
	for i, word := range words {
		if IsTag(word) {
			out[i] = []string{word}
			continue
		}
		chars := make([]string, 0, len(word))
		for _, r := range word {
			chars = append(chars, string(r))
		}
		out[i] = chars
	}
	return out
}

// Basic word-tokenizes lines: split on the delimiter, lowercase unless
// PreserveCase, and optionally wrap lines in edge tokens.
func Basic(lines []string, cfg Config) ([][]string, error) {
	lines = prepare(lines, cfg)
	text, err := SplitLines(lines, cfg.Delimiter, cfg.SplitTags)
	if err != nil {
		return nil, err
	}
	for i, line := range text {
		for j, word := range line {
			text[i][j] = foldCase(word, cfg.PreserveCase)
		}
	}
	if cfg.EdgeTokens {
		for i, line := range text {
			text[i] = wrapEdges(line)
		}
	}
	return text, nil
}

// Character character-tokenizes lines: split into words, then into
// characters, keeping tags whole; whitespace is excluded.
func Character(lines []string, cfg Config) ([][]string, error) {
	lines = prepare(lines, cfg)
	text, err := SplitLines(lines, cfg.Delimiter, cfg.SplitTags)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(text))
	for i, line := range text {
		for j, word := range line {
			line[j] = foldCase(word, cfg.PreserveCase)
		}
		out[i] = Flatten(CharsFromWords(line))
		if cfg.EdgeTokens {
			out[i] = wrapEdges(out[i])
		}
	}
	return out, nil
}

func prepare(lines []string, cfg Config) []string {
	if !cfg.NormalizeNFC {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = norm.NFC.String(line)
	}
	return out
}

func foldCase(s string, preserve bool) string {
	if preserve {
		return s
	}
	return strings.ToLower(s)
}

func wrapEdges(tokens []string) []string {
	out := make([]string, 0, len(tokens)+2)
	out = append(out, BOSToken)
	out = append(out, tokens...)
	return append(out, EOSToken)
}
