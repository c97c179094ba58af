package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studyflash/studyflash/internal/errors"
	"github.com/studyflash/studyflash/internal/models"
)

// Task prompt templates and response parsing live here so every feature
// shares one prompt and one parser per task type instead of rebuilding them
// at each call site.

const summarySystemPrompt = "You are a study assistant that writes concise, well-structured summaries of learning material."

const flashcardSystemPrompt = "You are a study assistant that turns learning material into high-quality flashcards."

// SummaryPrompt builds the prompt for the summarize task.
func SummaryPrompt(content string) (system, prompt string) {
	prompt = fmt.Sprintf(`Create a clear, well-structured summary of the following material that helps a student review the key concepts.
The summary should:
- Be 4-8 paragraphs
- Highlight the main concepts and key points
- Use bullet points where appropriate

Return ONLY the summary text, no additional formatting or metadata.

Material:
%s`, content)
	return summarySystemPrompt, prompt
}

// FlashcardPrompt builds the prompt for the generate-flashcards task. The
// wording deliberately mentions JSON so providers with a strict-JSON
// response mode enable it.
func FlashcardPrompt(content string, count int, existingTags []string) (system, prompt string) {
	if count <= 0 {
		count = 10
	}
	prompt = fmt.Sprintf(`Analyze the following material and create %d high-quality flashcards.
Each card has a front (question or cloze), a back (answer), a type ("basic", "cloze", or "mcq"),
a difficulty ("easy", "medium", or "hard"), and optional tags.

Existing tags you might reuse if relevant: %s

Return ONLY a raw JSON object with this structure:
{
  "flashcards": [
    {"front": "String", "back": "String", "type": "basic", "difficulty": "medium", "tags": ["String"]}
  ]
}
Do not include any markdown formatting (like json code blocks).
Do not include any other text.

Material:
%s`, count, strings.Join(existingTags, ", "), content)
	return flashcardSystemPrompt, prompt
}

// DocumentAnalysisPrompt builds the prompt for the analyze-document task.
func DocumentAnalysisPrompt(content string) (system, prompt string) {
	prompt = fmt.Sprintf(`Analyze the following document and describe its topic, structure, and the key concepts a student should learn from it.
Return ONLY plain text.

Document:
%s`, content)
	return summarySystemPrompt, prompt
}

// Truncate caps content length so prompts stay inside provider token limits.
func Truncate(content string, max int) string {
	if max <= 0 || len(content) <= max {
		return content
	}
	return content[:max]
}

// StripFence removes a surrounding markdown code fence from a model
// response. Models add these despite being told not to.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type flashcardPayload struct {
	Flashcards []struct {
		Front      string   `json:"front"`
		Back       string   `json:"back"`
		Type       string   `json:"type"`
		Difficulty string   `json:"difficulty"`
		Tags       []string `json:"tags"`
	} `json:"flashcards"`
}

// ParseFlashcards parses a generate-flashcards response into model objects.
// Malformed JSON or an empty card list is a VALIDATION_ERROR; unknown type
// or difficulty values fall back to basic/medium rather than failing the
// whole batch.
func ParseFlashcards(raw string) ([]models.Flashcard, error) {
	var payload flashcardPayload
	if err := json.Unmarshal([]byte(StripFence(raw)), &payload); err != nil {
		return nil, errors.NewValidationError("flashcards", "AI response was not valid JSON")
	}

	cards := make([]models.Flashcard, 0, len(payload.Flashcards))
	for _, c := range payload.Flashcards {
		front := strings.TrimSpace(c.Front)
		back := strings.TrimSpace(c.Back)
		if front == "" || back == "" {
			continue
		}
		cardType := c.Type
		if !models.ValidCardType(cardType) {
			cardType = models.CardBasic
		}
		difficulty := c.Difficulty
		if !models.ValidDifficulty(difficulty) {
			difficulty = models.DifficultyMedium
		}
		cards = append(cards, models.Flashcard{
			Front:      front,
			Back:       back,
			Type:       cardType,
			Difficulty: difficulty,
			Tags:       c.Tags,
		})
	}
	if len(cards) == 0 {
		return nil, errors.NewValidationError("flashcards", "AI response contained no usable cards")
	}
	return cards, nil
}
