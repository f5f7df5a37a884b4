package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lmg-backend/pkg/api"
)

func TestDetectLanguageDefaultsToGerman(t *testing.T) {
	assert.Equal(t, LanguageGerman, DetectLanguage("wie funktioniert das mit den brüchen", nil))
	assert.Equal(t, LanguageGerman, DetectLanguage("", nil))
}

func TestDetectLanguageEnglish(t *testing.T) {
	assert.Equal(t, LanguageEnglish, DetectLanguage("can you please explain what a fraction is", nil))
}

func TestDetectLanguageFallsBackToHistory(t *testing.T) {
	history := []api.ChatMessage{
		{Role: "user", Content: "please explain the homework, what is it about"},
		{Role: "assistant", Content: "Sure, it is about fractions."},
	}
	assert.Equal(t, LanguageEnglish, DetectLanguage("ok", history))
}
