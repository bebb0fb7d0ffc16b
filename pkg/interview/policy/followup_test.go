package policy

import (
	"testing"

	"ai-investigator-be/pkg/interview/category"
)

func TestNeedsFollowUp(t *testing.T) {
	h := NewHeuristic(10)

	longClear := "A full task-management platform for remote engineering teams with sprint boards and time tracking"
	longHedged := "We could build almost any integration here, honestly it doesn't matter which provider we start with first"

	tests := []struct {
		name   string
		answer string
		cat    category.Category
		want   bool
	}{
		{"short answer", "A task app", category.Start, true},
		{"exactly nine words", "one two three four five six seven eight nine", category.Users, true},
		{"exactly ten words", "one two three four five six seven eight nine ten", category.Users, false},
		{"long clear answer", longClear, category.Functionality, false},
		{"long hedged answer", longHedged, category.Market, true},
		{"hedge mixed case", "We will target Maybe Europe but also the US market, with ads and partnerships everywhere", category.Market, true},
		{"i don't know", "I don't know yet what the revenue model is going to look like for this product", category.Market, true},
		{"review never follows up", "ok", category.Review, false},
		{"review with hedge", "not sure about anything really", category.Review, false},
		{"empty answer", "", category.Design, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.NeedsFollowUp(tt.answer, tt.cat); got != tt.want {
				t.Errorf("NeedsFollowUp(%q, %s) = %v, want %v", tt.answer, tt.cat, got, tt.want)
			}
		})
	}
}

func TestNeedsFollowUpDeterministic(t *testing.T) {
	h := NewHeuristic(12)
	answer := "Some mid-length answer that sits near the threshold boundary here"
	first := h.NeedsFollowUp(answer, category.Design)
	for i := 0; i < 50; i++ {
		if got := h.NeedsFollowUp(answer, category.Design); got != first {
			t.Fatalf("verdict changed between identical calls: %v then %v", first, got)
		}
	}
}

func TestNewHeuristicDefaultsThreshold(t *testing.T) {
	h := NewHeuristic(0)
	if h.MinWords() != DefaultMinWords {
		t.Errorf("MinWords() = %d, want %d", h.MinWords(), DefaultMinWords)
	}
	h = NewHeuristic(-3)
	if h.MinWords() != DefaultMinWords {
		t.Errorf("MinWords() = %d, want %d", h.MinWords(), DefaultMinWords)
	}
}
