package classify

import (
	"regexp"
	"strconv"
	"strings"

	"lmg-backend/internal/textmatch"
	"lmg-backend/pkg/api"
)

// Supported grade range. Numbers outside it are discarded, not clamped.
const (
	MinGrade = 5
	MaxGrade = 10
)

var gradeKeywords = []string{"klasse", "stufe", "jahrgang", "jahrgangsstufe"}

var (
	// "klasse 9", "kalsse 9" (word is fuzzy-matched against gradeKeywords);
	// the trailing boundary keeps longer numbers from being truncated to a
	// fake grade instead of discarded
	wordNumberPattern = regexp.MustCompile(`([a-zäöüß]+)\s*(\d{1,2})\b`)
	// "9. klasse"
	numberWordPattern = regexp.MustCompile(`\b(\d{1,2})\.\s*([a-zäöüß]+)`)
	// "9er" — exact, no fuzzy path
	suffixPattern = regexp.MustCompile(`\b(\d{1,2})er\b`)
	// "9. Halbjahr" / "9. HJ" — exact, no fuzzy path
	halfYearPattern = regexp.MustCompile(`\b(\d{1,2})\.\s*(?:halbjahr|hj\b)`)
)

// ExtractGrade parses a grade level out of free text. The second return value
// is false when no grade in [MinGrade, MaxGrade] is found.
func ExtractGrade(text string) (int, bool) {
	lower := strings.ToLower(text)

	for _, m := range wordNumberPattern.FindAllStringSubmatch(lower, -1) {
		if grade, ok := gradeFrom(m[2]); ok && isGradeWord(m[1]) {
			return grade, true
		}
	}
	for _, m := range numberWordPattern.FindAllStringSubmatch(lower, -1) {
		if grade, ok := gradeFrom(m[1]); ok && isGradeWord(m[2]) {
			return grade, true
		}
	}
	for _, m := range suffixPattern.FindAllStringSubmatch(lower, -1) {
		if grade, ok := gradeFrom(m[1]); ok {
			return grade, true
		}
	}
	for _, m := range halfYearPattern.FindAllStringSubmatch(lower, -1) {
		if grade, ok := gradeFrom(m[1]); ok {
			return grade, true
		}
	}
	return 0, false
}

// GradeFromConversation tries the current message first and then walks the
// history from most recent to oldest, so a grade mentioned a few turns ago
// still applies to follow-up questions.
func GradeFromConversation(message string, history []api.ChatMessage) (int, bool) {
	if grade, ok := ExtractGrade(message); ok {
		return grade, true
	}
	for i := len(history) - 1; i >= 0; i-- {
		if grade, ok := ExtractGrade(history[i].Content); ok {
			return grade, true
		}
	}
	return 0, false
}

func isGradeWord(word string) bool {
	for _, kw := range gradeKeywords {
		if textmatch.WordMatches(word, kw) {
			return true
		}
	}
	return false
}

func gradeFrom(digits string) (int, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil || n < MinGrade || n > MaxGrade {
		return 0, false
	}
	return n, true
}
