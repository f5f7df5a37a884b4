package classify

import (
	"strings"

	"lmg-backend/pkg/api"
)

// Response languages the prompt can direct the model towards. German is the
// default; anything that does not clearly read as English counts as German.
const (
	LanguageGerman  = "Deutsch"
	LanguageEnglish = "Englisch"
)

var englishMarkers = []string{
	"the", "and", "what", "which", "please", "can", "you",
	"how", "when", "is", "are", "my", "school", "grade",
}

var germanMarkers = []string{
	"der", "die", "das", "und", "ich", "ist", "nicht",
	"wie", "was", "welche", "bitte", "kann", "mir", "für",
}

// DetectLanguage guesses the language the user is currently writing in. Short
// messages with no markers at all fall back to the most recent user turns, so
// one-word follow-ups keep the active language instead of resetting it.
func DetectLanguage(message string, history []api.ChatMessage) string {
	if lang, ok := scoreLanguage(message); ok {
		return lang
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != "user" {
			continue
		}
		if lang, ok := scoreLanguage(history[i].Content); ok {
			return lang
		}
	}
	return LanguageGerman
}

func scoreLanguage(text string) (string, bool) {
	english, german := 0, 0
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:()\"'")
		if contains(englishMarkers, token) {
			english++
		}
		if contains(germanMarkers, token) {
			german++
		}
	}
	if english == 0 && german == 0 {
		return "", false
	}
	if english > german {
		return LanguageEnglish, true
	}
	return LanguageGerman, true
}

func contains(set []string, token string) bool {
	for _, s := range set {
		if s == token {
			return true
		}
	}
	return false
}
