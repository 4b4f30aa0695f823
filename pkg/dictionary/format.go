package dictionary

import (
	"encoding/json"
	"strings"
)

// ToHiragana converts katakana code points to their hiragana equivalents,
// leaving everything else untouched. Katakana and hiragana occupy parallel
// Unicode blocks offset by 0x60, so the mapping is a simple rune shift over
// the range that has a hiragana counterpart.
func ToHiragana(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x30A1 && r <= 0x30F6 {
			r -= 0x60
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatDefinitions flattens a JMdict entry's senses into the JSON shape
// persisted alongside a word: one gloss list and one part-of-speech list
// per sense, concatenated across all of the entry's senses.
func FormatDefinitions(entries []JMdictEntry) (string, error) {
	var defs []DefinitionEntry
	for _, e := range entries {
		for _, sense := range e.Sense {
			var glosses []string
			for _, g := range sense.Gloss {
				glosses = append(glosses, g.Text)
			}
			defs = append(defs, DefinitionEntry{
				Senses: glosses,
				POS:    sense.PartOfSpeech,
			})
		}
	}
	b, err := json.Marshal(defs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
