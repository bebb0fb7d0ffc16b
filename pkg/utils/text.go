package utils

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// EstimateTokens approximates the token cost of s for budget accounting
// using the ~4 characters per token rule.
func EstimateTokens(s string) int {
	return len(s) / 4
}

// ContentHash returns a short FNV-1a digest of the first n characters of s.
// Chunks sharing a digest are treated as duplicate content.
func ContentHash(s string, n int) string {
	if n > 0 && len(s) > n {
		s = s[:n]
	}
	h := fnv.New64a()
	h.Write([]byte(s))
	return strconv.FormatUint(h.Sum64(), 16)
}

// EnsureQuestionMark appends a trailing question mark when s lacks one.
func EnsureQuestionMark(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return trimmed
	}
	if !strings.HasSuffix(trimmed, "?") {
		return trimmed + "?"
	}
	return trimmed
}
