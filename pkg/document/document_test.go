package document

import (
	"testing"

	"github.com/kotoba-works/jasegment/pkg/dictionary"
	"github.com/kotoba-works/jasegment/pkg/segmenter"
)

func TestSanitizeRuby(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple Ruby",
			input:    "<ruby>漢字<rt>かんじ</rt></ruby>",
			expected: "<ruby>漢字</ruby>",
		},
		{
			name:     "Ruby with RP",
			input:    "<ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby>",
			expected: "<ruby>漢字</ruby>",
		},
		{
			name:     "Multiple Ruby",
			input:    "<ruby>私<rt>わたし</rt></ruby>は<ruby>猫<rt>ねこ</rt></ruby>である",
			expected: "<ruby>私</ruby>は<ruby>猫</ruby>である",
		},
		{
			name:     "Attributes in tags",
			input:    "<ruby class='test'>漢字<rt class='reading'>かんじ</rt></ruby>",
			expected: "<ruby class='test'>漢字</ruby>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeRuby([]byte(tt.input))
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	text := "猫が好きです。犬も好きです！本当ですか？\n次の行。"
	got := SplitSentences(text)
	want := []string{"猫が好きです。", "犬も好きです！", "本当ですか？", "次の行。"}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesDropsBlank(t *testing.T) {
	got := SplitSentences("  \n  ")
	if len(got) != 0 {
		t.Fatalf("expected no sentences from all-whitespace input, got %v", got)
	}
}

func TestSplitSentencesKeepsTrailingFragmentWithoutDelimiter(t *testing.T) {
	got := SplitSentences("これは文です。残り")
	want := []string{"これは文です。", "残り"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAnalyzeTokenizesEachSentence(t *testing.T) {
	dict := dictionary.New()
	dict.Kanji["猫"] = append(dict.Kanji["猫"], dictionary.TermEntry{EntryIndex: 0})
	dict.Entries = append(dict.Entries, dictionary.DictionaryEntry{TermID: 1, Pos: dictionary.Noun})

	tok := segmenter.New(dict)
	analyzed := Analyze(tok, "猫が好きです。犬も好きです。")

	if len(analyzed) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(analyzed), analyzed)
	}
	for _, s := range analyzed {
		if len(s.Tokens) == 0 {
			t.Errorf("sentence %q produced no tokens", s.Text)
		}
	}
}
