package search

import "strings"

// TrigramDistance computes an approximate word-similarity distance between a
// query and a text field, modeled on the trigram word-similarity operator of
// relational engines: 0 means the query appears (normalized) inside the text,
// 1 means no trigram overlap with any word extent of the text, and values in
// between measure how far the closest extent is from the query.
func TrigramDistance(query, text string) float64 {
	q := normalizeForMatch(query)
	t := normalizeForMatch(text)

	if q == "" || t == "" {
		return 1
	}

	// An exact or contained match always counts as distance zero.
	if strings.Contains(t, q) {
		return 0
	}

	queryWords := strings.Fields(q)
	textWords := strings.Fields(t)
	queryTrigrams := trigramSet(queryWords)
	if len(queryTrigrams) == 0 {
		return 1
	}

	// Compare the query against every word extent of the text whose length
	// is close to the query's, and keep the best similarity.
	best := 0.0
	maxExtent := len(queryWords) + 1
	for start := range textWords {
		for length := 1; length <= maxExtent && start+length <= len(textWords); length++ {
			sim := jaccard(queryTrigrams, trigramSet(textWords[start:start+length]))
			if sim > best {
				best = sim
			}
		}
	}

	return 1 - best
}

// normalizeForMatch lowercases the input and replaces every non-alphanumeric
// rune with a space, collapsing runs so that word extraction is stable.
func normalizeForMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := true
	for _, ch := range strings.ToLower(s) {
		alnum := (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9')
		if alnum {
			b.WriteRune(ch)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// trigramSet extracts the set of trigrams of the given words. Each word is
// padded with two leading spaces and one trailing space before extraction,
// matching the common relational trigram scheme.
func trigramSet(words []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range words {
		padded := "  " + w + " "
		for i := 0; i+3 <= len(padded); i++ {
			set[padded[i:i+3]] = struct{}{}
		}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b| for two trigram sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for tri := range a {
		if _, ok := b[tri]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
