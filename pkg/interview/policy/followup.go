package policy

import (
	"strings"

	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/utils"
)

// Policy decides whether the latest answer needs a deeper follow-up
// question before the interview advances to the next category. The
// default implementation is a heuristic; swapping in a learned classifier
// only requires satisfying this interface.
type Policy interface {
	NeedsFollowUp(answerText string, cat category.Category) bool
}

// DefaultMinWords is the answer length below which a follow-up is asked.
const DefaultMinWords = 10

// HedgeMarkers flag vague answers. Matched as case-insensitive substrings.
var HedgeMarkers = []string{
	"not sure",
	"maybe",
	"i don't know",
	"whatever",
	"doesn't matter",
	"possibly",
	"anything",
}

// Heuristic is the word-count plus hedge-marker policy.
type Heuristic struct {
	minWords int
	markers  []string
}

// NewHeuristic builds the default policy. minWords <= 0 selects
// DefaultMinWords.
func NewHeuristic(minWords int) *Heuristic {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	markers := make([]string, len(HedgeMarkers))
	copy(markers, HedgeMarkers)
	return &Heuristic{minWords: minWords, markers: markers}
}

// NeedsFollowUp applies the rules in priority order: the review category
// never follows up, short answers always do, hedged answers do, everything
// else advances. Pure and side-effect free.
func (h *Heuristic) NeedsFollowUp(answerText string, cat category.Category) bool {
	if cat == category.Review {
		return false
	}
	if utils.WordCount(answerText) < h.minWords {
		return true
	}
	lower := strings.ToLower(answerText)
	for _, marker := range h.markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// MinWords exposes the configured threshold for status reporting.
func (h *Heuristic) MinWords() int {
	return h.minWords
}
