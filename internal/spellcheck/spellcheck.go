// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package spellcheck corrects likely misspellings in free-text queries using
// a frequency vocabulary built from the corpus being searched. The domain
// corpus is the dictionary: corrections favor research jargon over anything a
// general dictionary would suggest.
// See docs/ARCHITECTURE.md § Query Normalizer.
package spellcheck

import (
	"strings"
	"unicode"
)

// letters is the substitution/insertion alphabet for candidate generation.
const letters = "abcdefghijklmnopqrstuvwxyz"

// Vocabulary is a word-frequency table accumulated from corpus text. It is
// built once at startup and never mutated afterwards, so concurrent readers
// need no synchronization. Rebuilding means constructing a new value.
type Vocabulary struct {
	counts map[string]int
	total  int
}

// BuildVocabulary tokenizes the given texts into lowercase word tokens and
// accumulates occurrence counts. Interests and publication titles both feed
// the same table.
func BuildVocabulary(texts []string) *Vocabulary {
	v := &Vocabulary{counts: make(map[string]int)}
	for _, text := range texts {
		for _, word := range Tokenize(text) {
			v.counts[word]++
			v.total++
		}
	}
	return v
}

// Size returns the number of distinct words in the vocabulary.
func (v *Vocabulary) Size() int { return len(v.counts) }

// Count returns the occurrence count for word.
func (v *Vocabulary) Count(word string) int { return v.counts[word] }

// Known reports whether word appears in the vocabulary.
func (v *Vocabulary) Known(word string) bool {
	_, ok := v.counts[word]
	return ok
}

// Tokenize splits text into lowercase word tokens (runs of letters, digits,
// or underscore), matching the tokenization used at vocabulary build time.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Corrector is the query normalizer: it maps each unknown word in a query to
// its most frequent vocabulary neighbor within edit distance 2.
type Corrector struct {
	vocab *Vocabulary
}

// NewCorrector returns a Corrector backed by the given vocabulary.
func NewCorrector(v *Vocabulary) *Corrector {
	return &Corrector{vocab: v}
}

// Correct returns the most probable spelling correction for word. A word
// already in the vocabulary is returned unchanged so domain jargon is never
// "corrected" into something else. Otherwise the known candidates at edit
// distance 1 are tried, then edit distance 2, and finally the original word
// is returned as-is. Among known candidates the highest-frequency one wins;
// frequency ties keep the earliest-generated candidate, which makes the
// result deterministic.
func (c *Corrector) Correct(word string) string {
	if c.vocab.Known(word) {
		return word
	}

	if best, ok := c.bestKnown(edits1(word)); ok {
		return best
	}

	if best, ok := c.bestKnown(edits2(word)); ok {
		return best
	}

	return word
}

// CorrectText corrects every word-like token in text, preserving the
// separators between them verbatim. Corrected tokens come out lowercase;
// original case is not restored, which is the expected behavior for search
// queries.
func (c *Corrector) CorrectText(text string) string {
	var b strings.Builder
	var run strings.Builder
	inWord := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if inWord {
			b.WriteString(c.Correct(strings.ToLower(run.String())))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}

	for _, r := range text {
		w := isWordRune(r)
		if w != inWord {
			flush()
			inWord = w
		}
		run.WriteRune(r)
	}
	flush()

	return b.String()
}

// bestKnown scans candidates in generation order and returns the known word
// with the highest vocabulary count. The strict comparison keeps the first
// candidate on ties.
func (c *Corrector) bestKnown(candidates []string) (string, bool) {
	best := ""
	bestCount := -1
	for _, cand := range candidates {
		if !c.vocab.Known(cand) {
			continue
		}
		if n := c.vocab.Count(cand); n > bestCount {
			best = cand
			bestCount = n
		}
	}
	return best, bestCount >= 0
}

// edits1 returns every string at edit distance 1 from word: deletions,
// adjacent transpositions, substitutions, and insertions over the lowercase
// alphabet. The order is deterministic; it is the tie-break order for
// candidate selection.
func edits1(word string) []string {
	w := []byte(word)
	edits := make([]string, 0, (len(w)+1)*(2*len(letters)+1))

	// Deletions.
	for i := range w {
		edits = append(edits, word[:i]+word[i+1:])
	}
	// Adjacent transpositions.
	for i := 0; i+1 < len(w); i++ {
		edits = append(edits, word[:i]+string(w[i+1])+string(w[i])+word[i+2:])
	}
	// Substitutions.
	for i := range w {
		for j := 0; j < len(letters); j++ {
			edits = append(edits, word[:i]+string(letters[j])+word[i+1:])
		}
	}
	// Insertions.
	for i := 0; i <= len(w); i++ {
		for j := 0; j < len(letters); j++ {
			edits = append(edits, word[:i]+string(letters[j])+word[i:])
		}
	}

	return edits
}

// edits2 returns the strings at edit distance 2, deduplicated to keep the
// candidate list bounded. Order remains deterministic: first-seen wins.
func edits2(word string) []string {
	seen := make(map[string]struct{})
	var edits []string
	for _, e1 := range edits1(word) {
		for _, e2 := range edits1(e1) {
			if _, ok := seen[e2]; ok {
				continue
			}
			seen[e2] = struct{}{}
			edits = append(edits, e2)
		}
	}
	return edits
}
