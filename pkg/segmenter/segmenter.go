// Package segmenter orchestrates the dictionary-driven segmentation of
// Japanese text: it builds a Lattice of dictionary-candidate and
// unknown-word spans over the input's code points, scores each span, and
// asks the lattice for the highest-scoring path.
package segmenter

import (
	"math"

	"github.com/kotoba-works/jasegment/pkg/category"
	"github.com/kotoba-works/jasegment/pkg/dictionary"
	"github.com/kotoba-works/jasegment/pkg/lattice"
)

// Token is one piece of a Tokenize result: a surface string and, if it
// matched a dictionary term, the TermID that term was built with. TermID is
// nil for unknown-word spans produced by the fallback categorizer.
type Token struct {
	TermID  *uint32
	Surface string
}

// Tokenizer segments text against a fixed Dictionary. A Tokenizer holds no
// other state, so the same instance may be used concurrently from any
// number of goroutines; each Tokenize call builds and discards its own
// Lattice.
type Tokenizer struct {
	dict *dictionary.Dictionary
}

// New returns a Tokenizer backed by dict. dict is never mutated by the
// Tokenizer and must not be mutated by the caller afterwards.
func New(dict *dictionary.Dictionary) *Tokenizer {
	return &Tokenizer{dict: dict}
}

// Tokenize segments text into the maximum-score sequence of spans, whose
// surfaces concatenate back to exactly text. It returns nil for empty input,
// and also when some code point matches neither a dictionary surface nor any
// category in category.CharCategories (an emoji, for example), since no span
// can then cover it. Tokenize never fails.
func (t *Tokenizer) Tokenize(text string) []Token {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	// Precompute code-point index -> byte offset once per call, rather than
	// rescanning the string for every candidate substring.
	byteOffsets := make([]int, n+1)
	offset := 0
	for i, r := range runes {
		byteOffsets[i] = offset
		offset += runeLen(r)
	}
	byteOffsets[n] = offset

	nodeCountHint := n * (n + 1) / 2
	lat := lattice.New(nodeCountHint, n)

	for p := 0; p < n; p++ {
		foundAnyTerm := t.addDictionaryCandidates(lat, runes, p, n)
		t.addUnknownWordFallback(lat, runes, p, n, !foundAnyTerm)
	}

	path := lat.FindPath()
	if path == nil {
		return nil
	}

	tokens := make([]Token, len(path))
	for i, node := range path {
		tokens[i] = Token{
			TermID:  node.TermID,
			Surface: text[byteOffsets[node.Start]:byteOffsets[node.End]],
		}
	}
	return tokens
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// addDictionaryCandidates enumerates every substring starting at p and
// checks it against the dictionary's kanji/kana surface maps, per spec
// §4.3.a. It reports whether at least one dictionary term was found
// starting at p, which determines whether the unknown-word fallback is
// forced at this position.
func (t *Tokenizer) addDictionaryCandidates(lat *lattice.Lattice, runes []rune, p, n int) bool {
	foundAnyTerm := false
	for end := p + 1; end <= n; end++ {
		substring := string(runes[p:end])
		cat := category.Categorize(substring)

		var terms []dictionary.TermEntry
		switch cat {
		case category.Kana, category.Katakana:
			terms = t.dict.Kana[substring]
		case category.Word:
			terms = t.dict.Kanji[substring]
		}

		for _, term := range terms {
			entry := t.dict.Entry(term)
			score := score(end-p, cat, &entry)
			termID := entry.TermID
			lat.AddNode(lattice.Node{
				TermID: &termID,
				Start:  p,
				End:    end,
				Score:  score,
			})
			foundAnyTerm = true
		}
	}
	return foundAnyTerm
}

// addUnknownWordFallback invokes the single-code-point category table at
// position p, per spec §4.3.b. Categories whose Invoke flag is false are
// skipped unless force is set (no dictionary term was found starting here).
func (t *Tokenizer) addUnknownWordFallback(lat *lattice.Lattice, runes []rune, p, n int, force bool) {
	for _, cat := range category.CharCategories {
		if !force && !cat.Invoke {
			continue
		}

		if !cat.Func(runes[p]) {
			continue
		}

		end := p + 1
		if cat.Group {
			for end < n && cat.Func(runes[end]) {
				end++
			}
		}

		substring := string(runes[p:end])
		wordCat := category.Categorize(substring)
		s := score(end-p, wordCat, nil)
		lat.AddNode(lattice.Node{
			TermID: nil,
			Start:  p,
			End:    end,
			Score:  s,
		})
	}
}

// score implements spec.md §4.3's scoring formula: a base accumulated from
// fixed bonuses, raised to a length power that rewards longer Word spans
// more steeply than other categories.
func score(length int, cat category.Category, entry *dictionary.DictionaryEntry) float32 {
	base := float32(1.0)

	if cat == category.Katakana {
		base += 15.0
	}

	if entry != nil {
		base += 5.0
		if entry.Pos.IsParticle() {
			base += 4.0
		}
		if entry.Pos.Contains(dictionary.Expression) {
			base += 2.0
		}
		if entry.Tag.Contains(dictionary.IdiomaticExpression) {
			base += 8.0
		}
	}

	power := 2.0
	if cat == category.Word {
		power = 3.0
	}

	return base * float32(math.Pow(float64(length), power))
}
