// Package category classifies Japanese text, both whole substrings (for
// dictionary-hit scoring) and single code points (for the unknown-word
// fallback table), by the Unicode ranges they fall into.
package category

// Category is the 4-way classification of a dictionary candidate substring.
type Category int

const (
	// Katakana substrings are entirely katakana code points.
	Katakana Category = iota
	// Kana substrings mix katakana and hiragana code points only.
	Kana
	// Word substrings mix kanji and hiragana code points only.
	Word
	// NonWord substrings match none of the rules above: they contain a code
	// point outside kanji, katakana and hiragana, or mix kanji with katakana.
	NonWord
)

func isKanji(r rune) bool {
	switch {
	case r >= 0x2E80 && r <= 0x2EF3:
		return true
	case r >= 0x2F00 && r <= 0x2FD5:
		return true
	case r == 0x3005 || r == 0x3007:
		return true
	case r >= 0x3400 && r <= 0x4DB5:
		return true
	case r >= 0x4E00 && r <= 0x9FA5:
		return true
	case r >= 0xF900 && r <= 0xFA2D:
		return true
	case r >= 0xFA30 && r <= 0xFA6A:
		return true
	}
	return false
}

func isHiragana(r rune) bool {
	return r >= 0x3041 && r <= 0x309F
}

func isKatakana(r rune) bool {
	switch {
	case r >= 0x30A1 && r <= 0x30FF:
		return true
	case r >= 0x31F0 && r <= 0x31FF:
		return true
	case r >= 0xFF66 && r <= 0xFF9D:
		return true
	case r >= 0xFF9E && r <= 0xFF9F:
		return true
	}
	return false
}

func allRunes(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

// Categorize classifies a dictionary candidate substring into one of the
// four word categories. Rules are evaluated in order and the first match
// wins: a substring is Katakana only if every code point is katakana, Kana
// only if every code point is katakana or hiragana, Word only if every code
// point is kanji or hiragana. Anything else, including mixed scripts and
// punctuation, is NonWord.
func Categorize(substring string) Category {
	if allRunes(substring, isKatakana) {
		return Katakana
	}
	if allRunes(substring, func(r rune) bool { return isKatakana(r) || isHiragana(r) }) {
		return Kana
	}
	if allRunes(substring, func(r rune) bool { return isKanji(r) || isHiragana(r) }) {
		return Word
	}
	return NonWord
}

// CharCategory is a single entry in the unknown-word fallback table: a
// closed set of script classes considered when no dictionary candidate was
// found (or, for categories with Invoke true, even when one was).
type CharCategory struct {
	// Name identifies the category for diagnostics; it plays no role in
	// matching.
	Name string
	// Invoke means this category fires even when a dictionary term was
	// found starting at the same position. When false, it only fires once
	// force is set (no dictionary term found anywhere at that position).
	Invoke bool
	// Group means the category greedily extends across consecutive code
	// points that satisfy Func, producing one span; the span is a single code
	// point when the next one does not satisfy Func. When false, only a
	// single code point is ever considered.
	Group bool
	// Func reports whether a code point belongs to this category.
	Func func(rune) bool
}

// CharCategories is the closed, ordered table of single-code-point
// categories consulted by the unknown-word fallback. Order matches the
// original table exactly; callers should try categories in this order so
// that a single position can accumulate one candidate node per matching
// category.
var CharCategories = []CharCategory{
	{
		Name:   "space",
		Invoke: false,
		Group:  true,
		Func: func(r rune) bool {
			switch r {
			case 0x0020, 0x00D0, 0x0009, 0x000B, 0x000A:
				return true
			}
			return false
		},
	},
	{
		Name:   "kanji",
		Invoke: false,
		Group:  false,
		Func:   isKanji,
	},
	{
		Name:   "symbol",
		Invoke: true,
		Group:  true,
		Func: func(r rune) bool {
			switch {
			case r >= 0x0021 && r <= 0x002F:
				return true
			case r >= 0x003A && r <= 0x0040:
				return true
			case r >= 0x005B && r <= 0x0060:
				return true
			case r >= 0x007B && r <= 0x007E:
				return true
			case r >= 0x00A1 && r <= 0x00BF:
				return true
			case r >= 0xFF01 && r <= 0xFF0F:
				return true
			case r >= 0xFF1A && r <= 0xFF1F:
				return true
			case r >= 0xFF3B && r <= 0xFF40:
				return true
			case r >= 0xFF5B && r <= 0xFF65:
				return true
			case r >= 0xFFE0 && r <= 0xFFEF:
				return true
			case r >= 0x2000 && r <= 0x206F:
				return true
			case r >= 0x20A0 && r <= 0x20CF:
				return true
			case r >= 0x20D0 && r <= 0x20FF:
				return true
			case r >= 0x2100 && r <= 0x214F:
				return true
			case r >= 0x2190 && r <= 0x21FF:
				return true
			case r >= 0x2200 && r <= 0x22FF:
				return true
			case r >= 0x2300 && r <= 0x23FF:
				return true
			case r >= 0x2460 && r <= 0x24FF:
				return true
			case r >= 0x2501 && r <= 0x257F:
				return true
			case r >= 0x2580 && r <= 0x259F:
				return true
			case r >= 0x25A0 && r <= 0x25FF:
				return true
			case r >= 0x2600 && r <= 0x26FE:
				return true
			case r >= 0x2700 && r <= 0x27BF:
				return true
			case r >= 0x27F0 && r <= 0x27FF:
				return true
			case r >= 0x27C0 && r <= 0x27EF:
				return true
			case r >= 0x2800 && r <= 0x28FF:
				return true
			case r >= 0x2900 && r <= 0x297F:
				return true
			case r >= 0x2B00 && r <= 0x2BFF:
				return true
			case r >= 0x2A00 && r <= 0x2AFF:
				return true
			case r >= 0x3300 && r <= 0x33FF:
				return true
			case r >= 0x3200 && r <= 0x32FE:
				return true
			case r >= 0x3000 && r <= 0x303F:
				return true
			case r >= 0xFE30 && r <= 0xFE4F:
				return true
			case r >= 0xFE50 && r <= 0xFE6B:
				return true
			}
			return false
		},
	},
	{
		Name:   "numeric",
		Invoke: true,
		Group:  true,
		Func: func(r rune) bool {
			switch {
			case r >= 0x0030 && r <= 0x0039:
				return true
			case r >= 0xFF10 && r <= 0xFF19:
				return true
			case r >= 0x2070 && r <= 0x209F:
				return true
			case r >= 0x2150 && r <= 0x218F:
				return true
			}
			return false
		},
	},
	{
		Name:   "alpha",
		Invoke: false,
		Group:  true,
		Func: func(r rune) bool {
			switch {
			case r >= 0x0041 && r <= 0x005A:
				return true
			case r >= 0x0061 && r <= 0x007A:
				return true
			case r >= 0x00C0 && r <= 0x00FF:
				return true
			case r >= 0x0100 && r <= 0x017F:
				return true
			case r >= 0x0180 && r <= 0x0236:
				return true
			case r >= 0x1E00 && r <= 0x1EF9:
				return true
			case r >= 0xFF21 && r <= 0xFF3A:
				return true
			case r >= 0xFF41 && r <= 0xFF5A:
				return true
			}
			return false
		},
	},
	{
		Name:   "hiragana",
		Invoke: false,
		Group:  true,
		Func:   isHiragana,
	},
	{
		Name:   "katakana",
		Invoke: true,
		Group:  true,
		Func:   isKatakana,
	},
	{
		Name:   "greek",
		Invoke: true,
		Group:  true,
		Func: func(r rune) bool {
			return r >= 0x0374 && r <= 0x03FB
		},
	},
	{
		Name:   "cyrillic",
		Invoke: true,
		Group:  true,
		Func: func(r rune) bool {
			switch {
			case r >= 0x0400 && r <= 0x04F9:
				return true
			case r >= 0x0500 && r <= 0x050F:
				return true
			}
			return false
		},
	},
}
