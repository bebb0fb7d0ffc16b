package utils

import "testing"

func TestWordCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \t\n", 0},
		{"single word", "app", 1},
		{"four words", "A task management app", 4},
		{"extra spacing", "  a   b \t c  ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.input); got != tt.want {
				t.Errorf("WordCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"short", "abc", 0},
		{"exact", "abcd", 1},
		{"forty chars", "0123456789012345678901234567890123456789", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.input); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash("hello world", 100)
	b := ContentHash("hello world", 100)
	if a != b {
		t.Errorf("same input produced different hashes: %s vs %s", a, b)
	}

	c := ContentHash("hello mars", 100)
	if a == c {
		t.Errorf("different inputs produced the same hash: %s", a)
	}

	// Only the first n characters participate.
	long1 := ContentHash("prefix-same longer tail one", 11)
	long2 := ContentHash("prefix-same longer tail two", 11)
	if long1 != long2 {
		t.Errorf("hashes differ despite identical %d-char prefix", 11)
	}
}

func TestEnsureQuestionMark(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already has mark", "What does it do?", "What does it do?"},
		{"missing mark", "Tell me more", "Tell me more?"},
		{"trailing space", "Why  ", "Why?"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnsureQuestionMark(tt.input); got != tt.want {
				t.Errorf("EnsureQuestionMark(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
