// Package document turns raw fetched HTML/text into the sentence stream the
// ingestion pipeline consumes: ruby-markup cleanup, sentence splitting, and
// (optionally) a preview segmentation of each sentence for display.
package document

import (
	"regexp"
	"strings"

	"github.com/kotoba-works/jasegment/pkg/segmenter"
)

var (
	// (?s) allows dot to match newlines; (?i) makes it case-insensitive.
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses
// (<rp>...</rp>) from HTML content. Readability extracts furigana along
// with its base text, which otherwise duplicates every annotated word (e.g.
// "漢字" becomes "漢字かんじ"). Operates on bytes and is safe for Shift_JIS
// too, since <, >, r, t, p are all ASCII and < never appears as a trailing
// byte in Shift_JIS.
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	cleaned = reRP.ReplaceAll(cleaned, []byte{})
	return cleaned
}

// SplitSentences breaks text on Japanese sentence delimiters (。！？) and
// newlines, keeping the delimiter attached to the sentence it ends. Blank
// sentences are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '。' || r == '！' || r == '？' || r == '\n' {
			if s := current.String(); strings.TrimSpace(s) != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := current.String(); strings.TrimSpace(s) != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// AnalyzedSentence pairs split sentence text with its segmentation, for
// callers that want tokens alongside the original sentence (e.g. a preview
// renderer). The ingest pipeline and the CLI re-tokenize from plain sentence
// text instead of consuming this.
type AnalyzedSentence struct {
	Text   string
	Tokens []segmenter.Token
}

// Analyze splits text into sentences and tokenizes each with tok.
func Analyze(tok *segmenter.Tokenizer, text string) []AnalyzedSentence {
	sentences := SplitSentences(text)
	result := make([]AnalyzedSentence, 0, len(sentences))
	for _, s := range sentences {
		result = append(result, AnalyzedSentence{
			Text:   s,
			Tokens: tok.Tokenize(s),
		})
	}
	return result
}
