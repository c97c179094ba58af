package models

import "time"

// Flashcard types.
const (
	CardBasic = "basic"
	CardCloze = "cloze"
	CardMCQ   = "mcq"
)

// Flashcard difficulties.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Flashcard is a front/back question-answer unit generated by AI or edited
// manually. Once persisted it is owned by a session. Scheduling fields drive
// the review queue and are untouched by the editor.
type Flashcard struct {
	ID         int64     `json:"id"`
	SessionID  int64     `json:"session_id"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	Type       string    `json:"type"`
	Difficulty string    `json:"difficulty"`
	Tags       []string  `json:"tags,omitempty"`
	Category   string    `json:"category,omitempty"`
	Source     string    `json:"source,omitempty"`

	DueAt         time.Time `json:"due_at"`
	IntervalDays  int       `json:"interval_days"`
	EaseFactor    float64   `json:"ease_factor"`
	TimesReviewed int       `json:"times_reviewed"`
	TimesCorrect  int       `json:"times_correct"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidCardType reports whether s is a known flashcard type.
func ValidCardType(s string) bool {
	switch s {
	case CardBasic, CardCloze, CardMCQ:
		return true
	}
	return false
}

// ValidDifficulty reports whether s is a known difficulty level.
func ValidDifficulty(s string) bool {
	switch s {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// FlashcardFilter narrows flashcard list queries.
type FlashcardFilter struct {
	SessionID  int64
	Type       string
	Difficulty string
	Limit      int
	Offset     int
}
