package agency

import "testing"

func TestIsAgencyQuestion(t *testing.T) {
	d := NewDetector(nil)

	tests := []struct {
		text string
		want bool
	}{
		{"Who are you?", true},
		{"What is YOUR NAME", true},
		{"What is your company name?", true},
		{"Is this an agency?", true},
		{"Which firm do you work for", true},
		{"Are you a broker", true},
		{"Where is your office", true},
		{"where are you based", true},
		{"What's your phone number", true},
		{"Can I email you", true},
		{"How can I reach you", true},
		{"Do you have brokers on call", true},
		{"Hi there", false},
		{"Can you confirm the price?", false},
		{"Does it come with an iPhone dock", false},
		{"3 bedroom house near downtown under $500k", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := d.IsAgencyQuestion(tt.text, nil); got != tt.want {
			t.Errorf("IsAgencyQuestion(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSuppliedFlagIsAuthoritative(t *testing.T) {
	d := NewDetector(nil)
	no, yes := false, true

	if d.IsAgencyQuestion("what is your company name", &no) {
		t.Fatal("supplied false flag must win over keyword match")
	}
	if !d.IsAgencyQuestion("show me condos", &yes) {
		t.Fatal("supplied true flag must win over absent keywords")
	}
}

func TestMatchReportsKeyword(t *testing.T) {
	d := NewDetector([]string{"Office"})

	k, ok := d.Match("Where is the OFFICE?")
	if !ok || k != "office" {
		t.Fatalf("expected match on office, got %q %v", k, ok)
	}
}
