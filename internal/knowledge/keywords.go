package knowledge

import (
	"regexp"
	"strings"
)

// tokenPattern splits text into alphanumeric runs.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "you": true, "your": true,
	"what": true, "where": true, "when": true, "who": true, "how": true, "which": true,
	"can": true, "does": true, "did": true, "have": true, "has": true, "this": true,
	"that": true, "with": true, "from": true, "about": true, "there": true, "please": true,
	"is": true, "it": true, "me": true, "my": true, "our": true, "any": true, "tell": true,
	"would": true, "could": true, "like": true, "want": true, "know": true, "get": true,
}

// Keywords returns the distinct significant lowercase tokens of query.
func Keywords(query string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(query), -1) {
		if len(tok) < 3 || stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Score is the fraction of keywords that occur in text, in [0,1].
func Score(keywords []string, text string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}
