// Package textmatch holds the fuzzy keyword matching shared by the message
// classifier and the grade extractor.
package textmatch

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Threshold policy for typo-tolerant keyword matching. The values are
// empirically tuned; short keywords skip the fuzzy path entirely because a
// one-edit tolerance on them matches half the dictionary.
const (
	// MinFuzzyKeywordLen is the shortest keyword that gets fuzzy matching.
	MinFuzzyKeywordLen = 4
	// WideThresholdLen is the keyword length from which two edits are allowed.
	WideThresholdLen = 5
)

// Threshold returns the maximum edit distance accepted for a keyword, or -1
// when the keyword is too short for fuzzy matching.
func Threshold(keyword string) int {
	n := len([]rune(keyword))
	switch {
	case n < MinFuzzyKeywordLen:
		return -1
	case n >= WideThresholdLen:
		return 2
	default:
		return 1
	}
}

// MatchesKeyword reports whether the lower-cased message matches the keyword,
// first by plain substring, then by comparing every whitespace-split token
// against the keyword under the threshold policy.
func MatchesKeyword(lowerMessage, keyword string) bool {
	if strings.Contains(lowerMessage, keyword) {
		return true
	}
	return fuzzyTokenMatch(lowerMessage, keyword)
}

// ContainsAny is the cheap path used by the substring-only keyword sets.
func ContainsAny(lowerMessage string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerMessage, kw) {
			return true
		}
	}
	return false
}

// WordMatches compares a single token against a keyword under the threshold
// policy, without the substring fast path. Used where the token position
// matters (e.g. the word next to a number in grade extraction).
func WordMatches(token, keyword string) bool {
	max := Threshold(keyword)
	if max < 0 {
		return token == keyword
	}
	return levenshtein.ComputeDistance(token, keyword) <= max
}

func fuzzyTokenMatch(lowerMessage, keyword string) bool {
	max := Threshold(keyword)
	if max < 0 {
		return false
	}
	for _, token := range strings.Fields(lowerMessage) {
		token = strings.Trim(token, ".,!?;:()\"'")
		if token == "" {
			continue
		}
		if levenshtein.ComputeDistance(token, keyword) <= max {
			return true
		}
	}
	return false
}
