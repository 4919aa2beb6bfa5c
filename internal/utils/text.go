package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TruncateRunes cuts s to at most n runes
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// DedupeFold removes case-insensitive duplicates, keeping the first casing seen.
// Empty strings are dropped.
func DedupeFold(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// UpperFirst uppercases the first rune and leaves the rest untouched
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Capitalize uppercases the first rune and lowercases the rest
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return UpperFirst(strings.ToLower(s))
}

// TitleWords uppercases the first letter of every run of letters and
// lowercases the others.
func TitleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}

const (
	wordClass    = `[\p{L}\p{N}_]`
	nonWordClass = `[^\p{L}\p{N}_]`
)

// WholeWord compiles a pattern matching term between word boundaries.
// Letters and digits outside ASCII are word characters, so "r" does not
// match inside "résumé". An edge of term that is itself punctuation, as in
// "c++", needs a word character on its other side, like \b.
func WholeWord(term string) *regexp.Regexp {
	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)

	var b strings.Builder
	if isWordRune(first) {
		b.WriteString(`(?:^|` + nonWordClass + `)`)
	} else {
		b.WriteString(wordClass)
	}
	b.WriteString(regexp.QuoteMeta(term))
	if isWordRune(last) {
		b.WriteString(`(?:` + nonWordClass + `|$)`)
	} else {
		b.WriteString(wordClass)
	}
	return regexp.MustCompile(b.String())
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// JoinList joins items as "A", "A and B" or "A, B, and C".
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
