package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lmg-backend/pkg/api"
)

func TestExtractGrade(t *testing.T) {
	tests := []struct {
		text  string
		grade int
		ok    bool
	}{
		{"klasse 9", 9, true},
		{"9. klasse", 9, true},
		{"kalsse 9", 9, true},
		{"Welche Module gibt es in Klasse 7?", 7, true},
		{"ich bin in der Jahrgangsstufe 10", 10, true},
		{"die 8er haben heute frei", 8, true},
		{"wir sind im 6. Halbjahr", 6, true},
		{"klasse 12", 0, false},
		{"klasse", 0, false},
		{"klasse 4", 0, false},
		{"klasse 100", 0, false},
		{"105. klasse", 0, false},
		{"die 100er haben frei", 0, false},
		{"wie spät ist es", 0, false},
	}

	for _, tc := range tests {
		grade, ok := ExtractGrade(tc.text)
		assert.Equal(t, tc.ok, ok, "text: %s", tc.text)
		if tc.ok {
			assert.Equal(t, tc.grade, grade, "text: %s", tc.text)
		}
	}
}

func TestGradeFromConversationPrefersMessage(t *testing.T) {
	history := []api.ChatMessage{
		{Role: "user", Content: "ich bin in klasse 6"},
	}
	grade, ok := GradeFromConversation("und jetzt klasse 8", history)
	assert.True(t, ok)
	assert.Equal(t, 8, grade)
}

func TestGradeFromConversationScansHistoryNewestFirst(t *testing.T) {
	history := []api.ChatMessage{
		{Role: "user", Content: "ich war in klasse 5"},
		{Role: "assistant", Content: "Alles klar."},
		{Role: "user", Content: "jetzt bin ich in klasse 7"},
		{Role: "assistant", Content: "Verstanden!"},
	}
	grade, ok := GradeFromConversation("welche module gibt es?", history)
	assert.True(t, ok)
	assert.Equal(t, 7, grade)
}

func TestGradeFromConversationNoGradeAnywhere(t *testing.T) {
	history := []api.ChatMessage{
		{Role: "user", Content: "hallo"},
	}
	_, ok := GradeFromConversation("welche module gibt es?", history)
	assert.False(t, ok)
}
