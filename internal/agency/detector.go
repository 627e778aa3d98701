// Package agency decides whether a visitor is asking about the business
// itself rather than about property inventory.
package agency

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultKeywords marks an agency question. A keyword must start at a word
// boundary, so "firm" does not match "confirm" but "broker" matches "brokers".
var DefaultKeywords = []string{
	// identity
	"who are you", "your name", "who owns", "about your",
	// business nouns
	"agency", "company", "firm", "broker", "brokerage", "your business", "your team",
	// location
	"your office", "where are you", "your address", "office address", "office hours", "opening hours",
	// contact
	"phone", "email", "reach you", "contact you", "contact details", "your number",
}

// Detector matches messages against a fixed keyword set.
type Detector struct {
	keywords []string
}

// NewDetector creates a detector. Nil keywords selects DefaultKeywords.
func NewDetector(keywords []string) *Detector {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &Detector{keywords: lowered}
}

// IsAgencyQuestion reports whether text asks about the agency. A non-nil
// supplied flag is authoritative and returned verbatim.
func (d *Detector) IsAgencyQuestion(text string, supplied *bool) bool {
	if supplied != nil {
		return *supplied
	}
	_, ok := d.Match(text)
	return ok
}

// Match returns the first keyword found in text.
func (d *Detector) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, k := range d.keywords {
		if containsAtWordStart(lower, k) {
			return k, true
		}
	}
	return "", false
}

func containsAtWordStart(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], keyword)
		if i < 0 {
			return false
		}
		at := offset + i
		if at == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:at])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		offset = at + 1
	}
	return false
}
