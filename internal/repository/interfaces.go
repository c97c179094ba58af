package repository

import (
	"context"

	"github.com/studyflash/studyflash/internal/models"
)

// SessionRepository handles session data access
type SessionRepository interface {
	Insert(ctx context.Context, session models.Session) (int64, error)
	Get(ctx context.Context, id int64) (*models.Session, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, error)
	Count(ctx context.Context, filter models.SessionFilter) (int, error)
	UpdateTranscript(ctx context.Context, id int64, transcript string) error
	UpdateSummary(ctx context.Context, id int64, summary string) error
	Delete(ctx context.Context, id int64) error
}

// FlashcardRepository handles flashcard data access
type FlashcardRepository interface {
	InsertBatch(ctx context.Context, cards []models.Flashcard) ([]models.Flashcard, error)
	Get(ctx context.Context, id int64) (*models.Flashcard, error)
	Update(ctx context.Context, card models.Flashcard) error
	List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	CountBySession(ctx context.Context, sessionID int64) (int, error)
	NextDue(ctx context.Context, limit int) ([]models.Flashcard, error)
}

// SettingsRepository handles the persisted key/value preference store
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}
