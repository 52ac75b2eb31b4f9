package memory

import (
	"strings"
	"unicode"
)

// similarity weights for combining text and context scores.
const (
	textWeight    = 0.8
	contextWeight = 0.2
)

// isWordRune reports whether r belongs inside a word token. Letters and
// digits from any script count, so "café" and "日本語" stay whole tokens
// instead of splitting on their non-ASCII runes.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// tokenize lower-cases the text and splits it on runs of non-word runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

// ExtractTerms returns the lower-cased word tokens of the text longer than
// two characters. Order and repeats are not significant to callers.
func ExtractTerms(text string) []string {
	var terms []string
	for _, tok := range tokenize(text) {
		if len(tok) > 2 {
			terms = append(terms, tok)
		}
	}
	return terms
}

// tokenSet returns the set of word tokens of the text.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenize(text) {
		set[tok] = true
	}
	return set
}

// termSet returns the set of extracted terms of the text.
func termSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, term := range ExtractTerms(text) {
		set[term] = true
	}
	return set
}

// intersectionSize counts keys present in both sets.
func intersectionSize(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if b[k] {
			n++
		}
	}
	return n
}

// jaccard computes |a ∩ b| / |a ∪ b|. Returns 0 if both sets are empty.
func jaccard(a, b map[string]bool) float64 {
	inter := intersectionSize(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// TextSimilarity scores two texts in [0,1]: 1.0 for identical strings,
// 0.0 if either is empty, otherwise the Jaccard index of their word-token
// sets. Symmetric.
func TextSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	return jaccard(tokenSet(a), tokenSet(b))
}

// ContextSimilarity scores two contexts in [0,1]: 1.0 if both are absent,
// 0.5 if exactly one is present, otherwise the Jaccard index of their key
// sets. Values are ignored; only key overlap matters.
func ContextSimilarity(a, b map[string]string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.5
	}
	return jaccard(keySet(a), keySet(b))
}

// keySet returns the set of keys of a context map.
func keySet(context map[string]string) map[string]bool {
	set := make(map[string]bool, len(context))
	for k := range context {
		set[k] = true
	}
	return set
}

// CombinedSimilarity blends text and context similarity with fixed weights
// (0.8 text, 0.2 context).
func CombinedSimilarity(textA string, contextA map[string]string, textB string, contextB map[string]string) float64 {
	return textWeight*TextSimilarity(textA, textB) + contextWeight*ContextSimilarity(contextA, contextB)
}

// classifyMatch determines the match type for a query against a stored
// entry. Rules are evaluated in precedence order; the first that applies
// wins. Classification never affects the similarity score.
func classifyMatch(text string, context map[string]string, entry Entry) MatchType {
	if text == entry.SourceText {
		return MatchExact
	}

	if len(context) > 0 && len(entry.Context) > 0 &&
		ContextSimilarity(context, entry.Context) > 0.8 {
		return MatchContextual
	}

	queryTerms := termSet(text)
	entryTerms := termSet(entry.SourceText)
	larger := len(queryTerms)
	if len(entryTerms) > larger {
		larger = len(entryTerms)
	}
	// With no terms on either side the overlap is undefined; fall through.
	if larger > 0 {
		overlap := float64(intersectionSize(queryTerms, entryTerms)) / float64(larger)
		if overlap > 0.7 {
			return MatchTerm
		}
	}

	return MatchFuzzy
}
