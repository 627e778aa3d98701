package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/capitalize-ai/realty-chat/internal/model"
)

var (
	currencyPattern = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:k|m|million|thousand)\b)?`)
	amountPattern   = regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\s?(?:k|thousand|million)\b`)

	bedroomPattern  = regexp.MustCompile(`\b([1-6])\s*-?\s*(?:bed(?:room)?s?|br|bd)\b`)
	bathroomPattern = regexp.MustCompile(`\b([1-5])\s*-?\s*(?:bath(?:room)?s?|ba)\b`)

	// A location phrase ends at a qualifier, punctuation, or end of text.
	locationTail = `(?:\s+(?:under|below|over|above|with|for|and|or|priced|around|within|less|more|that|which|from|to|please|near|at|in)\b|[,.;:?!]|$)`

	// Evaluated in order; the first accepted capture wins.
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bin\s+([a-z][a-z0-9'\- ]*?)` + locationTail),
		regexp.MustCompile(`\bnear\s+([a-z][a-z0-9'\- ]*?)` + locationTail),
		regexp.MustCompile(`\bat\s+([a-z][a-z0-9'\- ]*?)` + locationTail),
		regexp.MustCompile(`\b([a-z][a-z'\-]*(?:\s[a-z][a-z'\-]*)?)\s+area\b`),
	}

	// Captures starting with these words are not places.
	locationStopwords = map[string]bool{
		"a": true, "an": true, "my": true, "your": true, "this": true, "that": true,
		"buying": true, "selling": true, "renting": true, "touch": true, "mind": true,
		"interested": true, "looking": true, "need": true, "least": true, "all": true,
		"what": true, "which": true, "any": true, "some": true, "it": true, "me": true,
	}
)

// ExtractEntities pulls price, location, and room counts from text.
// Entities that are not found are omitted from the map.
func ExtractEntities(text string) map[string]any {
	entities := make(map[string]any)
	lower := Normalize(text)

	if price := extractPrice(lower); price != "" {
		entities[model.EntityPrice] = price
	}
	if location := extractLocation(lower); location != "" {
		entities[model.EntityLocation] = location
	}
	if n, ok := extractCount(bedroomPattern, lower); ok {
		entities[model.EntityBedrooms] = n
	}
	if n, ok := extractCount(bathroomPattern, lower); ok {
		entities[model.EntityBathrooms] = n
	}

	if len(entities) == 0 {
		return nil
	}
	return entities
}

func extractPrice(text string) string {
	if m := currencyPattern.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(amountPattern.FindString(text))
}

func extractLocation(text string) string {
	for _, pattern := range locationPatterns {
		// Resume after the capture, not the match, so a closing
		// preposition can open the next candidate.
		for start := 0; start < len(text); {
			m := pattern.FindStringSubmatchIndex(text[start:])
			if m == nil {
				break
			}
			if loc := cleanLocation(text[start+m[2] : start+m[3]]); loc != "" {
				return loc
			}
			start += m[3]
		}
	}
	return ""
}

func cleanLocation(raw string) string {
	loc := strings.TrimSpace(raw)
	loc = strings.TrimPrefix(loc, "the ")
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return ""
	}

	first := strings.Fields(loc)[0]
	if locationStopwords[first] {
		return ""
	}
	return loc
}

func extractCount(pattern *regexp.Regexp, text string) (int, bool) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
