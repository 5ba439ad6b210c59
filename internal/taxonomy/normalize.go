package taxonomy

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToCanonicalID derives a group identifier from operator text. The text is
// split on whitespace, each token is lower-cased with its first letter
// upper-cased, and the tokens are joined with no separator:
//
//	"  blue   cross " -> "BlueCross"
//
// Two inputs differing only in case or spacing yield the same id. Use it only
// to mint new ids; never run a persisted id back through it.
func ToCanonicalID(text string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(text) {
		lower := strings.ToLower(tok)
		r, size := utf8.DecodeRuneInString(lower)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(lower[size:])
	}
	return b.String()
}

// ToCanonicalIDPtr treats a nil text as empty.
func ToCanonicalIDPtr(text *string) string {
	if text == nil {
		return ""
	}
	return ToCanonicalID(*text)
}

// ToDisplayLabel reformats a name or id for rendering only. Camel humps are
// split ("NewRegion" -> "New Region"), whitespace is collapsed and each word's
// first letter is upper-cased. Letters are never lower-cased, so acronyms and
// existing capitalization survive.
func ToDisplayLabel(text string) string {
	words := make([]string, 0, 4)
	for _, tok := range strings.Fields(text) {
		for _, part := range splitHumps(tok) {
			r, size := utf8.DecodeRuneInString(part)
			words = append(words, string(unicode.ToUpper(r))+part[size:])
		}
	}
	return strings.Join(words, " ")
}

// splitHumps breaks tok before an upper-case rune that follows a lower-case
// one, and before the last capital of an acronym run followed by lower case
// ("BCBSTexas" -> "BCBS", "Texas").
func splitHumps(tok string) []string {
	runes := []rune(tok)
	if len(runes) < 2 {
		return []string{tok}
	}
	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := unicode.IsLower(prev) && unicode.IsUpper(cur)
		if !boundary && unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			boundary = true
		}
		if boundary {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}
