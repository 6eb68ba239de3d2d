package message

import "unicode"

// Format and zero-width runes that render as nothing.
var invisibleRunes = map[rune]struct{}{
	'\u00AD': {}, // SOFT HYPHEN
	'\u180E': {}, // MONGOLIAN VOWEL SEPARATOR
	'\u3164': {}, // HANGUL FILLER
	'\uFEFF': {}, // ZERO WIDTH NO-BREAK SPACE
}

func isInvisible(r rune) bool {
	if _, ok := invisibleRunes[r]; ok {
		return true
	}

	switch {
	case unicode.IsSpace(r), unicode.IsControl(r):
		return true

	// ZWSP, ZWNJ, ZWJ, LRM, RLM
	case r >= 0x200B && r <= 0x200F:
		return true
	// bidi embeddings and overrides
	case r >= 0x202A && r <= 0x202E:
		return true
	// word joiner, invisible operators, isolates
	case r >= 0x2060 && r <= 0x206F:
		return true
	// variation selectors
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF:
		return true
	// tags
	case r >= 0xE0000 && r <= 0xE007F:
		return true
	}
	return false
}

// Blank reports whether s would render as empty: only whitespace, control or zero-width runes.
func Blank(s string) bool {
	for _, r := range s {
		if !isInvisible(r) {
			return false
		}
	}
	return true
}
