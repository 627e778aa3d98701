package intent

import (
	"testing"

	"github.com/capitalize-ai/realty-chat/internal/model"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name string
		text string
		want model.IntentLabel
	}{
		{"greeting", "Hi there", model.IntentGreeting},
		{"greeting wins over property", "Hello, I want to see a property", model.IntentGreeting},
		{"farewell", "ok bye", model.IntentFarewell},
		{"thanks", "Thank you so much", model.IntentThanks},
		{"bot identity", "Are you a bot?", model.IntentBotIdentity},
		{"help", "Can you help me?", model.IntentHelpRequest},
		{"appointment", "I'd like to schedule a viewing", model.IntentAppointmentRequest},
		{"contact", "What's your email?", model.IntentContactRequest},
		{"agent", "Which agent handles this?", model.IntentAgentInquiry},
		{"company", "What is your company name?", model.IntentCompanyInfo},
		{"address", "What is the office address?", model.IntentAddressInquiry},
		{"mortgage", "Do you offer mortgage advice?", model.IntentMortgageInquiry},
		{"selling", "I want to sell my place", model.IntentSellingInquiry},
		{"rental", "Anything for rent?", model.IntentRentalInquiry},
		{"buying", "I'm a first time buyer", model.IntentBuyingInquiry},
		{"property wins over price and location", "3 bedroom house near downtown under $500k", model.IntentPropertyInquiry},
		{"property details", "Does it have a garage?", model.IntentPropertyDetails},
		{"price", "How much does it cost?", model.IntentPriceInquiry},
		{"location", "Which neighborhood is it in?", model.IntentLocationInquiry},
		{"feature", "What features are included?", model.IntentFeatureInquiry},
		{"unmatched", "Tell me something interesting", model.IntentGeneralQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Label != tt.want {
				t.Fatalf("Classify(%q) = %s, want %s", tt.text, got.Label, tt.want)
			}
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	c := NewClassifier(nil)

	matched := c.Classify("Hi there")
	if matched.Confidence != MatchedConfidence {
		t.Fatalf("expected matched confidence %v, got %v", MatchedConfidence, matched.Confidence)
	}

	unmatched := c.Classify("xyzzy")
	if unmatched.Label != model.IntentGeneralQuery || unmatched.Confidence != DefaultConfidence {
		t.Fatalf("expected general_query/%v, got %s/%v", DefaultConfidence, unmatched.Label, unmatched.Confidence)
	}
}

func TestClassifyLabelsInClosedSet(t *testing.T) {
	c := NewClassifier(nil)
	known := make(map[model.IntentLabel]bool)
	for _, l := range model.IntentLabels {
		known[l] = true
	}

	inputs := []string{
		"hi", "   ", "$$$", "1234", "near", "what is your agency phone number",
		"Bonjour, je cherche un appartement", "🏠", "RENT RENT RENT",
	}
	for _, in := range inputs {
		got := c.Classify(in)
		if !known[got.Label] {
			t.Errorf("Classify(%q) returned unknown label %q", in, got.Label)
		}
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Classify(%q) confidence %v out of range", in, got.Confidence)
		}
	}
}

func TestRulesCoverEveryLabel(t *testing.T) {
	seen := make(map[model.IntentLabel]bool)
	for _, r := range DefaultRules {
		seen[r.Label] = true
	}
	for _, l := range model.IntentLabels {
		if l == model.IntentGeneralQuery {
			continue
		}
		if !seen[l] {
			t.Errorf("no rule emits label %s", l)
		}
	}
}

func TestCustomRuleOrder(t *testing.T) {
	rules := []Rule{
		{model.IntentPropertyInquiry, DefaultRules[14].Pattern},
		{model.IntentGreeting, DefaultRules[0].Pattern},
	}
	c := NewClassifier(rules)

	got := c.Classify("hello, any property?")
	if got.Label != model.IntentPropertyInquiry {
		t.Fatalf("expected earliest declared rule to win, got %s", got.Label)
	}
}

func TestAnalyzeDebugDetail(t *testing.T) {
	c := NewClassifier(nil)

	res := c.Analyze("  HELLO  ")
	if res.Normalized != "hello" {
		t.Fatalf("expected normalized text, got %q", res.Normalized)
	}
	if res.MatchedPattern == "" {
		t.Fatal("expected matched pattern to be reported")
	}

	res = c.Analyze("qwerty")
	if res.MatchedPattern != "" {
		t.Fatalf("expected no matched pattern, got %q", res.MatchedPattern)
	}
}
