// Package intent classifies visitor messages into a closed set of intents
// and extracts real-estate entities from them.
package intent

import (
	"regexp"
	"strings"

	"github.com/capitalize-ai/realty-chat/internal/model"
)

const (
	// MatchedConfidence is reported when a rule matched.
	MatchedConfidence = 0.8
	// DefaultConfidence is reported for the general_query fallback.
	DefaultConfidence = 0.4
)

// Rule maps a pattern over normalized text to an intent label.
type Rule struct {
	Label   model.IntentLabel
	Pattern *regexp.Regexp
}

// DefaultRules is evaluated top to bottom; the first match wins.
var DefaultRules = []Rule{
	{model.IntentGreeting, regexp.MustCompile(`\b(hi|hello|hey|howdy|greetings|good (morning|afternoon|evening))\b`)},
	{model.IntentFarewell, regexp.MustCompile(`\b(bye|goodbye|see you|farewell|take care|have a nice day)\b`)},
	{model.IntentThanks, regexp.MustCompile(`\b(thanks|thank you|thx|appreciate it|much appreciated)\b`)},
	{model.IntentBotIdentity, regexp.MustCompile(`\b(are you (a )?(bot|robot|human|real|ai)|what are you|who are you|your name)\b`)},
	{model.IntentHelpRequest, regexp.MustCompile(`\b(help|assist|what can you do|how does this work)\b`)},
	{model.IntentAppointmentRequest, regexp.MustCompile(`\b(appointment|schedule|book a|viewing|showing|tour|come see)\b`)},
	{model.IntentContactRequest, regexp.MustCompile(`\b(contact|call me|phone|email|get in touch|reach (you|out)|speak (to|with))\b`)},
	{model.IntentAgentInquiry, regexp.MustCompile(`\b(agents?|realtors?|brokers?|consultants?)\b`)},
	{model.IntentCompanyInfo, regexp.MustCompile(`\b(company|agency|firm|about you|about us|your business|your team)\b`)},
	{model.IntentAddressInquiry, regexp.MustCompile(`\b(address|office|located|where are you|directions)\b`)},
	{model.IntentMortgageInquiry, regexp.MustCompile(`\b(mortgage|loan|financing|down payment|interest rate|pre-?approv\w*)\b`)},
	{model.IntentSellingInquiry, regexp.MustCompile(`\b(sell|selling|list my|valuation|appraisal|worth)\b`)},
	{model.IntentRentalInquiry, regexp.MustCompile(`\b(rent|renting|rental|lease|leasing|to let)\b`)},
	{model.IntentBuyingInquiry, regexp.MustCompile(`\b(buy|buying|purchase|purchasing|first[- ]time buyer)\b`)},
	{model.IntentPropertyInquiry, regexp.MustCompile(`\b(propert(y|ies)|houses?|homes?|apartments?|condos?|villas?|townhouses?|listings?|bedrooms?|flats?)\b`)},
	{model.IntentPropertyDetails, regexp.MustCompile(`\b(square (feet|foot|meters?)|sq ?ft|garage|pool|garden|amenities|year built|parking|details)\b`)},
	{model.IntentPriceInquiry, regexp.MustCompile(`(\$|\b(price|prices|cost|how much|budget|afford|expensive|cheap)\b)`)},
	{model.IntentLocationInquiry, regexp.MustCompile(`\b(where|location|area|neighbou?rhoods?|near|close to|district|suburb)\b`)},
	{model.IntentFeatureInquiry, regexp.MustCompile(`\b(features?|capabilit(y|ies)|functionality)\b`)},
}

// Classifier is a first-match, ordered-rule intent classifier.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier over rules. Nil rules selects DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Result is a classification together with diagnostic detail.
type Result struct {
	model.ClassifiedIntent
	Normalized     string
	MatchedPattern string
}

// Classify returns the intent of text. It never fails.
func (c *Classifier) Classify(text string) model.ClassifiedIntent {
	return c.Analyze(text).ClassifiedIntent
}

// Analyze classifies text and reports which rule matched.
func (c *Classifier) Analyze(text string) Result {
	normalized := Normalize(text)

	res := Result{
		ClassifiedIntent: model.ClassifiedIntent{
			Label:      model.IntentGeneralQuery,
			Confidence: DefaultConfidence,
			Entities:   ExtractEntities(text),
		},
		Normalized: normalized,
	}

	for _, rule := range c.rules {
		if rule.Pattern.MatchString(normalized) {
			res.Label = rule.Label
			res.Confidence = MatchedConfidence
			res.MatchedPattern = rule.Pattern.String()
			break
		}
	}

	return res
}

// Normalize lowercases and trims text.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
