package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/studyflash/studyflash/internal/errors"
	"github.com/studyflash/studyflash/internal/logger"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/repository"
	"github.com/studyflash/studyflash/internal/study"
)

// FlashcardService handles flashcard business logic
type FlashcardService interface {
	SaveFlashcards(ctx context.Context, sessionID int64, cards []models.Flashcard) ([]models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, card models.Flashcard) (*models.Flashcard, error)
	ListFlashcards(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	ReviewFlashcard(ctx context.Context, id int64, quality int) (*models.Flashcard, error)
	NextDue(ctx context.Context, limit int) ([]models.Flashcard, error)
}

type flashcardService struct {
	sessions repository.SessionRepository
	cards    repository.FlashcardRepository
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(sessions repository.SessionRepository, cards repository.FlashcardRepository) FlashcardService {
	return &flashcardService{sessions: sessions, cards: cards}
}

// SaveFlashcards bulk-inserts cards under the given session and returns the
// persisted rows with their assigned ids. The session must exist; a failed
// insert leaves the session untouched (callers get no partial batch).
func (s *flashcardService) SaveFlashcards(ctx context.Context, sessionID int64, cards []models.Flashcard) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)

	if len(cards) == 0 {
		return nil, errors.NewValidationError("cards", "cannot be empty")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.NewPersistenceError("get session", err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}

	for i := range cards {
		cards[i].SessionID = sessionID
		cards[i].Front = strings.TrimSpace(cards[i].Front)
		cards[i].Back = strings.TrimSpace(cards[i].Back)
		if cards[i].Front == "" || cards[i].Back == "" {
			return nil, errors.NewValidationError("cards", "front and back cannot be empty")
		}
		if !models.ValidCardType(cards[i].Type) {
			cards[i].Type = models.CardBasic
		}
		if !models.ValidDifficulty(cards[i].Difficulty) {
			cards[i].Difficulty = models.DifficultyMedium
		}
	}

	saved, err := s.cards.InsertBatch(ctx, cards)
	if err != nil {
		log.Error("failed to save flashcards: %v", err)
		return nil, errors.NewPersistenceError("save flashcards", err)
	}
	log.Info("saved %d flashcards: session_id=%d", len(saved), sessionID)
	return saved, nil
}

// UpdateFlashcard is a full-record update of the card's content fields,
// stamping updated_at. Review scheduling state is carried over from the
// stored row so an edit never reschedules a card.
func (s *flashcardService) UpdateFlashcard(ctx context.Context, card models.Flashcard) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)

	existing, err := s.cards.Get(ctx, card.ID)
	if err != nil {
		return nil, errors.NewPersistenceError("get flashcard", err)
	}
	if existing == nil {
		return nil, errors.NewNotFoundError("flashcard", card.ID)
	}

	card.Front = strings.TrimSpace(card.Front)
	card.Back = strings.TrimSpace(card.Back)
	if card.Front == "" || card.Back == "" {
		return nil, errors.NewValidationError("flashcard", "front and back cannot be empty")
	}
	if !models.ValidCardType(card.Type) {
		card.Type = existing.Type
	}
	if !models.ValidDifficulty(card.Difficulty) {
		card.Difficulty = existing.Difficulty
	}

	card.SessionID = existing.SessionID
	card.DueAt = existing.DueAt
	card.IntervalDays = existing.IntervalDays
	card.EaseFactor = existing.EaseFactor
	card.TimesReviewed = existing.TimesReviewed
	card.TimesCorrect = existing.TimesCorrect

	if err := s.cards.Update(ctx, card); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("flashcard", card.ID)
		}
		log.Error("failed to update flashcard: %v", err)
		return nil, errors.NewPersistenceError("update flashcard", err)
	}
	return s.cards.Get(ctx, card.ID)
}

func (s *flashcardService) ListFlashcards(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, errors.NewPersistenceError("list flashcards", err)
	}
	return cards, nil
}

// ReviewFlashcard applies one spaced-repetition review and persists the new
// schedule.
func (s *flashcardService) ReviewFlashcard(ctx context.Context, id int64, quality int) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)

	if quality < 0 || quality > 3 {
		return nil, errors.NewValidationError("quality", "must be between 0 and 3")
	}

	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewPersistenceError("get flashcard", err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", id)
	}

	updated := study.ApplyReview(*card, quality)
	log.Debug("applied review: id=%d, new_interval=%d, ease=%.2f", id, updated.IntervalDays, updated.EaseFactor)

	if err := s.cards.Update(ctx, updated); err != nil {
		log.Error("failed to persist review: %v", err)
		return nil, errors.NewPersistenceError("update flashcard", err)
	}
	return &updated, nil
}

func (s *flashcardService) NextDue(ctx context.Context, limit int) ([]models.Flashcard, error) {
	cards, err := s.cards.NextDue(ctx, limit)
	if err != nil {
		return nil, errors.NewPersistenceError("next due flashcards", err)
	}
	return cards, nil
}
