package db

import "time"

// Word is the canonical word entry. TermID, when non-nil, is the
// dictionary-assigned identifier the segmenter resolved this word's surface
// to; words coined from unknown-word spans carry a nil TermID.
type Word struct {
	ID            int64
	Word          string
	Lemma         string
	Language      string
	Pronunciation string
	ImageURL      string
	MnemonicText  string
	Definitions   string
	TermID        *uint32
}

// Source is a provenance record for where a word was seen.
type Source struct {
	ID         int64
	SourceType string
	Title      string
	Author     string
	Website    string
	URL        string
	Meta       string
	AddedAt    time.Time
}

// WordSource links a Word with a Source and holds contextual metadata.
// ContextSentenceID and ExampleSentenceID reference rows in sentences;
// sentence text is deduplicated there rather than stored inline.
type WordSource struct {
	ID                int64
	WordID            int64
	SourceID          int64
	ContextSentenceID int64
	ExampleSentenceID int64
	OccurrenceCount   int
	FirstSeenAt       time.Time
	IsPrimary         bool
}
