package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflash/studyflash/internal/export"
	"github.com/studyflash/studyflash/internal/models"
)

func TestAnkiCSV_EmptyIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	err := export.AnkiCSV(&buf, nil, "My Deck")
	require.NoError(t, err)
	assert.Zero(t, buf.Len(), "empty input should write nothing")
}

func TestAnkiCSV_HeaderPlusOneLinePerCard(t *testing.T) {
	cards := []models.Flashcard{
		{Front: "What is Go?", Back: "A programming language", Tags: []string{"go", "basics"}},
		{Front: "What is a goroutine?", Back: "A lightweight thread"},
		{Front: "What is a channel?", Back: "A typed conduit"},
	}

	var buf bytes.Buffer
	require.NoError(t, export.AnkiCSV(&buf, cards, "Go Deck"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, len(cards)+1, "expected header plus one line per card")
	assert.Equal(t, "front,back,tags,deck", lines[0])
}

func TestAnkiCSV_EscapingRoundTrip(t *testing.T) {
	cards := []models.Flashcard{
		{
			Front: `Quote: "to be, or not to be"` + "\nsecond line",
			Back:  `Answer with, commas and "quotes"`,
			Tags:  []string{"drama", "shakespeare"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.AnkiCSV(&buf, cards, "Lit"))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, cards[0].Front, records[1][0])
	assert.Equal(t, cards[0].Back, records[1][1])
	assert.Equal(t, "drama;shakespeare", records[1][2])
	assert.Equal(t, "Lit", records[1][3])
}

func TestAnkiJSON(t *testing.T) {
	cards := []models.Flashcard{
		{Front: "f", Back: "b", Type: models.CardBasic, Difficulty: models.DifficultyEasy, Tags: []string{"t"}},
	}

	var buf bytes.Buffer
	require.NoError(t, export.AnkiJSON(&buf, cards, "Deck"))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "f", out[0]["front"])
	assert.Equal(t, "Deck", out[0]["deck"])
}

func TestAnkiJSON_EmptyIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.AnkiJSON(&buf, nil, "Deck"))
	assert.Zero(t, buf.Len())
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		deck string
		want string
	}{
		{"plain", "Biology", "Biology.csv"},
		{"spaces and punctuation", "My Deck: Unit 2!", "My_Deck_Unit_2.csv"},
		{"arabic preserved", "درس العربية", "درس_العربية.csv"},
		{"only punctuation", "!!!", "flashcards.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, export.Filename(tt.deck, "csv"))
		})
	}
}
