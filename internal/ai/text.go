package ai

import (
	"log"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([.,;:!?])`)
	sentenceEnd      = regexp.MustCompile(`[.!?]["')\]]?$`)
)

// TruncateToLimit cuts content to at most maxChars bytes, backing up to the
// last word boundary and never splitting a UTF-8 sequence.
func TruncateToLimit(content string, maxChars int) string {
	if maxChars <= 0 || len(content) <= maxChars {
		return content
	}
	log.Printf("[Text] Truncating from %d to %d chars", len(content), maxChars)

	cut := content[:maxChars]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	if idx := strings.LastIndexAny(cut, " \n\t"); idx > maxChars/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

// CountWords returns the number of whitespace-separated words
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// EstimateTokens gives a rough output token budget for a word count
// (about 4 tokens per 3 English words plus headroom for punctuation).
func EstimateTokens(words int) int {
	if words <= 0 {
		return 0
	}
	return words*4/3 + 16
}

// CleanSummary collapses whitespace and removes the space models tend to
// leave before punctuation ("word ." becomes "word.").
func CleanSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// ClampWords limits s to maxWords words. When the cut lands mid-sentence it
// backs up to the last sentence end inside the limit that still leaves at
// least minWords words, and otherwise keeps the hard cut.
func ClampWords(s string, minWords, maxWords int) string {
	words := strings.Fields(s)
	if maxWords <= 0 || len(words) <= maxWords {
		return s
	}

	words = words[:maxWords]
	for i := len(words) - 1; i >= 0 && i+1 >= minWords; i-- {
		if sentenceEnd.MatchString(words[i]) {
			return strings.Join(words[:i+1], " ")
		}
	}
	return strings.Join(words, " ")
}
