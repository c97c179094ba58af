package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/studyflash/studyflash/internal/models"
)

// AnkiCSV writes cards as an Anki-importable CSV with front, back, tags,
// and deck columns. encoding/csv handles RFC4180 quoting of embedded
// quotes, commas, and newlines. An empty card list writes nothing.
func AnkiCSV(w io.Writer, cards []models.Flashcard, deckName string) error {
	if len(cards) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"front", "back", "tags", "deck"}); err != nil {
		return err
	}
	for _, c := range cards {
		record := []string{c.Front, c.Back, strings.Join(c.Tags, ";"), deckName}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type ankiCard struct {
	Front      string   `json:"front"`
	Back       string   `json:"back"`
	Type       string   `json:"type"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags,omitempty"`
	Deck       string   `json:"deck"`
}

// AnkiJSON writes cards as a JSON array for tools that prefer structured
// import. An empty card list writes nothing.
func AnkiJSON(w io.Writer, cards []models.Flashcard, deckName string) error {
	if len(cards) == 0 {
		return nil
	}

	out := make([]ankiCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, ankiCard{
			Front:      c.Front,
			Back:       c.Back,
			Type:       c.Type,
			Difficulty: c.Difficulty,
			Tags:       c.Tags,
			Deck:       deckName,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Latin alphanumerics plus the Arabic block survive; everything else
// collapses to an underscore.
var filenameRe = regexp.MustCompile(`[^a-zA-Z0-9\x{0600}-\x{06FF}]+`)

// Filename derives a safe download filename from a deck name.
func Filename(deckName, ext string) string {
	name := filenameRe.ReplaceAllString(strings.TrimSpace(deckName), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "flashcards"
	}
	return name + "." + ext
}
