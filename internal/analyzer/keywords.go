package analyzer

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// corpusSize is the pseudo corpus size of the IDF term
	corpusSize = 100
	// keywordCount is the number of ranked keywords kept in a profile
	keywordCount = 25
)

var (
	nonTermChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\-+#.]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// normalize lowercases text, blanks out punctuation other than - + # . and
// collapses whitespace.
func normalize(text string) string {
	text = strings.ToLower(text)
	text = nonTermChars.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, ".,;:()[]{}"); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

type termWeight struct {
	term   string
	weight float64
}

// termWeights scores each candidate term as tf × ln(corpusSize/(1+count)).
// The IDF term uses the in-document count. Terms come back in
// first-occurrence order.
func termWeights(text string) []termWeight {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, tok := range tokenize(normalize(text)) {
		if stopwords[tok] || utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
		total++
	}

	weights := make([]termWeight, 0, len(order))
	for _, term := range order {
		count := counts[term]
		tf := float64(count) / float64(max(total, 1))
		idf := math.Log(corpusSize / float64(1+count))
		weights = append(weights, termWeight{term: term, weight: tf * idf})
	}
	return weights
}

// topKeywords returns the n highest weighted terms longer than three
// characters. Equal weights keep first-occurrence order.
func topKeywords(text string, n int) []string {
	weights := termWeights(text)
	filtered := weights[:0]
	for _, w := range weights {
		if utf8.RuneCountInString(w.term) > 3 {
			filtered = append(filtered, w)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].weight > filtered[j].weight
	})

	out := make([]string, 0, min(n, len(filtered)))
	for _, w := range filtered {
		if len(out) == n {
			break
		}
		out = append(out, w.term)
	}
	return out
}
