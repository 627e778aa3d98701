package intent

import (
	"testing"

	"github.com/capitalize-ai/realty-chat/internal/model"
)

func TestExtractEntitiesScenario(t *testing.T) {
	got := ExtractEntities("3 bedroom house near downtown under $500k")

	if got[model.EntityBedrooms] != 3 {
		t.Fatalf("expected bedrooms=3, got %v", got[model.EntityBedrooms])
	}
	if got[model.EntityLocation] != "downtown" {
		t.Fatalf("expected location=downtown, got %v", got[model.EntityLocation])
	}
	if got[model.EntityPrice] != "$500k" {
		t.Fatalf("expected price=$500k, got %v", got[model.EntityPrice])
	}
	if _, ok := got[model.EntityBathrooms]; ok {
		t.Fatal("bathrooms should be omitted when absent")
	}
}

func TestExtractEntitiesOrderIndependent(t *testing.T) {
	a := ExtractEntities("$300,000 for 2 bedrooms")
	b := ExtractEntities("2 bedrooms for $300,000")

	for _, got := range []map[string]any{a, b} {
		if got[model.EntityPrice] != "$300,000" {
			t.Errorf("expected price $300,000, got %v", got[model.EntityPrice])
		}
		if got[model.EntityBedrooms] != 2 {
			t.Errorf("expected 2 bedrooms, got %v", got[model.EntityBedrooms])
		}
	}
}

func TestExtractEntitiesIdempotent(t *testing.T) {
	text := "4 bed 2 bath in Springfield around 750 thousand"
	first := ExtractEntities(text)
	second := ExtractEntities(text)

	if len(first) != len(second) {
		t.Fatalf("expected identical results, got %v and %v", first, second)
	}
	for k, v := range first {
		if second[k] != v {
			t.Fatalf("key %s differs: %v vs %v", k, v, second[k])
		}
	}
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]any
	}{
		{
			name: "bedrooms and bathrooms disambiguated",
			text: "4 bed 2 bath",
			want: map[string]any{model.EntityBedrooms: 4, model.EntityBathrooms: 2},
		},
		{
			name: "bedroom digit out of range",
			text: "9 bedroom mansion",
			want: map[string]any{},
		},
		{
			name: "bathroom digit out of range",
			text: "a 6 bathroom house",
			want: map[string]any{},
		},
		{
			name: "thousand amount",
			text: "budget is 750 thousand",
			want: map[string]any{model.EntityPrice: "750 thousand"},
		},
		{
			name: "k amount without currency",
			text: "around 450k please",
			want: map[string]any{model.EntityPrice: "450k"},
		},
		{
			name: "million with currency",
			text: "up to $1.2 million",
			want: map[string]any{model.EntityPrice: "$1.2 million"},
		},
		{
			name: "in location ends at punctuation",
			text: "Houses in Austin, please",
			want: map[string]any{model.EntityLocation: "austin"},
		},
		{
			name: "in wins over near",
			text: "condo in midtown near the park",
			want: map[string]any{model.EntityLocation: "midtown"},
		},
		{
			name: "at location",
			text: "anything at Riverside?",
			want: map[string]any{model.EntityLocation: "riverside"},
		},
		{
			name: "area suffix",
			text: "homes around the harbor area",
			want: map[string]any{model.EntityLocation: "harbor"},
		},
		{
			name: "non-place capture skipped",
			text: "I'm interested in buying",
			want: map[string]any{},
		},
		{
			name: "rejected capture does not hide the next phrase",
			text: "I'm interested in buying a house in Miami",
			want: map[string]any{model.EntityLocation: "miami"},
		},
		{
			name: "possessive capture skipped before the place",
			text: "looking for something in my budget in Austin",
			want: map[string]any{model.EntityLocation: "austin"},
		},
		{
			name: "nothing to extract",
			text: "hello",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEntities(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractEntities(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("ExtractEntities(%q)[%s] = %v, want %v", tt.text, k, got[k], v)
				}
			}
		})
	}
}
