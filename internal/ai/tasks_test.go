package ai_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflash/studyflash/internal/ai"
	apperrors "github.com/studyflash/studyflash/internal/errors"
	"github.com/studyflash/studyflash/internal/models"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"fence mid-text untouched", "prefix ```json```", "prefix ```json```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ai.StripFence(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", ai.Truncate("abc", 10))
	assert.Equal(t, "ab", ai.Truncate("abc", 2))
	assert.Equal(t, "abc", ai.Truncate("abc", 0))
}

func TestParseFlashcards(t *testing.T) {
	raw := `{"flashcards": [
		{"front": "What is DNA?", "back": "Genetic material", "type": "basic", "difficulty": "easy", "tags": ["biology"]},
		{"front": "The powerhouse of the cell is {{c1::the mitochondrion}}", "back": "mitochondrion", "type": "cloze", "difficulty": "medium"}
	]}`

	cards, err := ai.ParseFlashcards(raw)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "What is DNA?", cards[0].Front)
	assert.Equal(t, models.CardBasic, cards[0].Type)
	assert.Equal(t, []string{"biology"}, cards[0].Tags)
	assert.Equal(t, models.CardCloze, cards[1].Type)
}

func TestParseFlashcardsFencedResponse(t *testing.T) {
	raw := "```json\n{\"flashcards\": [{\"front\": \"Q\", \"back\": \"A\"}]}\n```"

	cards, err := ai.ParseFlashcards(raw)
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestParseFlashcardsUnknownValuesFallBack(t *testing.T) {
	raw := `{"flashcards": [{"front": "Q", "back": "A", "type": "essay", "difficulty": "impossible"}]}`

	cards, err := ai.ParseFlashcards(raw)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, models.CardBasic, cards[0].Type)
	assert.Equal(t, models.DifficultyMedium, cards[0].Difficulty)
}

func TestParseFlashcardsSkipsEmptyCards(t *testing.T) {
	raw := `{"flashcards": [
		{"front": "  ", "back": "A"},
		{"front": "Q", "back": "A"}
	]}`

	cards, err := ai.ParseFlashcards(raw)
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestParseFlashcardsInvalidJSON(t *testing.T) {
	_, err := ai.ParseFlashcards("here are your flashcards!")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr(t, err).Code)
}

func TestParseFlashcardsNoUsableCards(t *testing.T) {
	_, err := ai.ParseFlashcards(`{"flashcards": []}`)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr(t, err).Code)
}

func TestFlashcardPromptMentionsJSON(t *testing.T) {
	// Gemini keys strict JSON mode off the prompt text, so the flashcard
	// prompt has to contain the word.
	_, prompt := ai.FlashcardPrompt("some material", 5, []string{"tag1"})
	assert.True(t, strings.Contains(strings.ToLower(prompt), "json"))
	assert.Contains(t, prompt, "5 high-quality flashcards")
	assert.Contains(t, prompt, "tag1")
}

func TestSummaryPromptOmitsJSON(t *testing.T) {
	_, prompt := ai.SummaryPrompt("some material")
	assert.False(t, strings.Contains(strings.ToLower(prompt), "json"))
}
