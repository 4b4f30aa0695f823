package dictionary

import (
	"strconv"

	"github.com/kotoba-works/jasegment/pkg/logging"
)

// posTags maps JMdict-simplified `sense.partOfSpeech` codes to PartOfSpeech
// bits. Codes with no corresponding bit (there are many more JMdict tags
// than grammatical categories the scorer cares about) are silently
// ignored: building a full POS mapping is a dictionary-authoring concern,
// not a segmentation one.
var posTags = map[string]PartOfSpeech{
	"adj-pn":  AdjectivePrenominal,
	"adj-i":   Adjective,
	"adj-ix":  Adjective,
	"adj-na":  Adjective,
	"adj-no":  AdjectiveNo,
	"adv":     Adverb,
	"adv-to":  AdverbTo,
	"aux":     Auxiliary,
	"aux-adj": AuxiliaryAdjective,
	"aux-v":   AuxiliaryVerb,
	"conj":    Conjunction,
	"cop":     Copula,
	"ctr":     Counter,
	"exp":     Expression,
	"int":     Interjection,
	"n":       Noun,
	"n-adv":   NounAdverb,
	"n-pr":    NounProper,
	"n-pref":  NounPrefix,
	"n-suf":   NounSuffix,
	"n-t":     NounTemporal,
	"num":     Numeric,
	"pn":      Pronoun,
	"pref":    Prefix,
	"prt":     Particle,
	"suf":     Suffix,
	"v1":      IchidanVerb,
	"v1-s":    IchidanVerb,
	"v5":      GodanVerb,
	"v5aru":   GodanVerb,
	"v5b":     GodanVerb,
	"v5g":     GodanVerb,
	"v5k":     GodanVerb,
	"v5k-s":   GodanVerb,
	"v5m":     GodanVerb,
	"v5n":     GodanVerb,
	"v5r":     GodanVerb,
	"v5r-i":   GodanVerb,
	"v5s":     GodanVerb,
	"v5t":     GodanVerb,
	"v5u":     GodanVerb,
	"v5u-s":   GodanVerb,
	"vi":      IntransitiveVerb,
	"vk":      KuruVerb,
	"vs":      SuruVerb,
	"vs-i":    SuruVerb,
	"vs-s":    SuruVerb,
	"vt":      TransitiveVerb,
}

// miscTags maps JMdict-simplified tag codes to Tag bits. Build applies it to
// the tags listed on an entry's kanji and kana elements; JMdictSense has no
// misc field, so sense-level misc codes are not read.
var miscTags = map[string]Tag{
	"uk":    UsuallyKana,
	"abbr":  Abbreviation,
	"arch":  Archaic,
	"dated": DatedTerm,
	"hist":  HistoricalTerm,
	"hon":   Sonkeigo,
	"hum":   Kenjougo,
	"pol":   Teineigo,
	"id":    IdiomaticExpression,
	"obs":   ObsoleteTerm,
	"rare":  Rare,
	"yoji":  Yojijukugo,
}

// BuildResult is the output of Build: a ready-to-use Dictionary plus a side
// index from TermID back to DictionaryEntry, for consumers downstream of
// the segmenter (ingest filters on part of speech, for instance) that need
// to resolve the opaque TermID the scorer itself never inspects.
type BuildResult struct {
	Dictionary *Dictionary
	ByTermID   map[uint32]*DictionaryEntry

	// RawByTermID keeps the source JMdictEntry each term_id was built from,
	// so downstream consumers (ingest's definition/reading lookup) can
	// recover glosses and kana readings without re-parsing the dictionary
	// file. The segmenter itself never looks at this.
	RawByTermID map[uint32]JMdictEntry
}

// Build turns parsed JMdict-simplified entries into a Dictionary. Each
// (entry, kanji-or-kana surface) pair becomes a TermEntry indexed under
// that surface; every sense's part-of-speech codes and every kanji/kana
// element's tags are folded (bitwise OR) into one DictionaryEntry per JMdict
// entry, since the segmenter scores a term
// irrespective of which specific sense matched.
//
// This performs no conjugation expansion: surfaces are exactly the kanji
// and kana forms JMdict lists, each tagged InflectionType DictionaryForm.
// Enumerating inflected forms (negative, te, past, causative, ...) is an
// offline dictionary-authoring step outside the segmenter's scope; a
// generator that wants inflected coverage should expand JMdictEntry into
// additional surfaces with the appropriate InflectionType before building,
// or run entirely standalone and merge the resulting entries in.
func Build(entries []JMdictEntry) (*BuildResult, error) {
	dict := New()
	byTermID := make(map[uint32]*DictionaryEntry, len(entries))
	rawByTermID := make(map[uint32]JMdictEntry, len(entries))

	skipped := 0
	for _, e := range entries {
		termID, err := parseTermID(e.Id)
		if err != nil {
			skipped++
			continue
		}

		var pos PartOfSpeech
		var tag Tag
		for _, sense := range e.Sense {
			for _, p := range sense.PartOfSpeech {
				pos |= posTags[p]
			}
		}
		for _, el := range e.Kanji {
			for _, t := range el.Tags {
				tag |= miscTags[t]
			}
		}
		for _, el := range e.Kana {
			for _, t := range el.Tags {
				tag |= miscTags[t]
			}
		}

		entryIndex := uint32(len(dict.Entries))
		dict.Entries = append(dict.Entries, DictionaryEntry{
			TermID: termID,
			Pos:    pos,
			Tag:    tag,
		})
		byTermID[termID] = &dict.Entries[entryIndex]
		rawByTermID[termID] = e

		for _, el := range e.Kanji {
			dict.Kanji[el.Text] = append(dict.Kanji[el.Text], TermEntry{
				EntryIndex:     entryIndex,
				InflectionType: DictionaryForm,
			})
		}
		for _, el := range e.Kana {
			key := ToHiragana(el.Text)
			dict.Kana[key] = append(dict.Kana[key], TermEntry{
				EntryIndex:     entryIndex,
				InflectionType: DictionaryForm,
			})
		}
	}

	if skipped > 0 {
		logging.Get().Warn().Int("skipped", skipped).Msg("dictionary: skipped entries with unparsable id")
	}
	logging.Get().Info().
		Int("entries", len(dict.Entries)).
		Int("kanji_surfaces", len(dict.Kanji)).
		Int("kana_surfaces", len(dict.Kana)).
		Msg("dictionary built")

	return &BuildResult{Dictionary: dict, ByTermID: byTermID, RawByTermID: rawByTermID}, nil
}

func parseTermID(id string) (uint32, error) {
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
