// Package textnorm reduces free text to a lowercase, stop-word-free token string
// before it is handed to an encoder.
package textnorm

import (
	"strings"
	"unicode"
)

// defaultStopWords is the fixed English stop-word set. Stop words are matched
// after suffix stripping.
var defaultStopWords = []string{
	"a", "an", "the", "and", "or", "but", "if", "is", "are", "was", "were", "in", "on", "at", "of", "for",
	"with", "about", "against", "between", "into", "through", "during", "before", "after", "above", "below",
	"to", "from", "up", "down", "over", "under", "again", "further", "then", "once", "here", "there", "when",
	"where", "why", "how", "all", "any", "both", "each", "few", "more", "most", "other", "some", "such", "no",
	"nor", "not", "only", "own", "same", "so", "than", "too", "very", "s", "t", "can", "will", "just", "don",
	"should", "now",
}

// Normalizer is immutable after construction and safe for concurrent use.
type Normalizer struct {
	stopWords map[string]struct{}
}

// New creates a Normalizer with the default stop-word set plus extra words.
// Extra words are lowercased; blanks are ignored.
func New(extraStopWords ...string) *Normalizer {
	set := make(map[string]struct{}, len(defaultStopWords)+len(extraStopWords))
	for _, w := range defaultStopWords {
		set[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &Normalizer{stopWords: set}
}

// Normalize lowercases text, drops everything but ASCII letters and whitespace,
// strips trailing "s" runes from each token and removes stop words.
// Survivors are joined with single spaces.
func (n *Normalizer) Normalize(text string) string {
	tokens := strings.Fields(keepLettersAndSpace(strings.ToLower(text)))

	out := tokens[:0]
	for _, tok := range tokens {
		tok = strings.TrimRight(tok, "s")
		if tok == "" {
			continue
		}
		if _, stop := n.stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// NormalizeAll normalizes each text, preserving order.
func (n *Normalizer) NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = n.Normalize(t)
	}
	return out
}

// IsStopWord reports whether word is in the stop-word set.
func (n *Normalizer) IsStopWord(word string) bool {
	_, ok := n.stopWords[word]
	return ok
}

func keepLettersAndSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
