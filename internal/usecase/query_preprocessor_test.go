package usecase

import (
	"strings"
	"testing"

	"github.com/sizzle/labelpress/internal/domain"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "gryta", "gryta"},
		{"surrounding space", "  gryta  ", "gryta"},
		{"inner whitespace", "röd \t  curry", "röd curry"},
		{"sql wildcards", "gry%ta_", "gry ta"},
		{"quotes and brackets", `"[lins]"`, "lins"},
		{"only noise", `%%""`, ""},
		{"keeps hyphen", "gryt-soppa", "gryt-soppa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeQuery(tt.input); got != tt.expected {
				t.Errorf("normalizeQuery(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeQuery_LongInput(t *testing.T) {
	long := strings.Repeat("kycklinggryta ", 20)

	got := normalizeQuery(long)

	if len([]rune(got)) > maxQueryLength {
		t.Errorf("Expected at most %d runes, got %d", maxQueryLength, len([]rune(got)))
	}
	if strings.HasSuffix(got, " ") || !strings.HasSuffix(got, "kycklinggryta") {
		t.Errorf("Expected cut at a word boundary, got %q", got)
	}
}

func TestSuggestionScore(t *testing.T) {
	tests := []struct {
		query    string
		name     string
		expected int
	}{
		{"gryta", "Gryta", 3},
		{"gryt", "Gryta", 2},
		{"gryt", "Vegansk gryta", 1},
		{"gryt", "Kycklinggryta", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := suggestionScore(tt.query, tt.name); got != tt.expected {
				t.Errorf("suggestionScore(%q, %q) = %d, expected %d", tt.query, tt.name, got, tt.expected)
			}
		})
	}
}

func TestRankSuggestions_StableWithinScore(t *testing.T) {
	products := []domain.ProductRecord{
		{Name: "Linsgryta"},
		{Name: "Kycklinggryta"},
		{Name: "Gryta"},
	}

	got := rankSuggestions("gryta", products)

	want := []string{"Gryta", "Linsgryta", "Kycklinggryta"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, got[i].Name)
		}
	}
}
