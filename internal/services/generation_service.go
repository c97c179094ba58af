package services

import (
	"context"
	"strings"

	"github.com/studyflash/studyflash/internal/ai"
	"github.com/studyflash/studyflash/internal/errors"
	"github.com/studyflash/studyflash/internal/logger"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/repository"
)

// Generator is the slice of the AI dispatcher the generation flows need.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ai.Options) (string, error)
}

// GenerationService orchestrates AI generation flows: summarize a session,
// generate flashcards from its content, analyze a raw document.
type GenerationService interface {
	SummarizeSession(ctx context.Context, sessionID int64) (string, error)
	GenerateFlashcards(ctx context.Context, sessionID int64, count int) ([]models.Flashcard, error)
	AnalyzeDocument(ctx context.Context, content string) (string, error)
}

type generationService struct {
	sessions   repository.SessionRepository
	dispatcher Generator
	flashcards FlashcardService
	maxContent int
	cardTarget int
}

// NewGenerationService creates a new GenerationService. maxContent caps how
// much session content goes into a prompt; cardTarget is the default number
// of cards to request.
func NewGenerationService(sessions repository.SessionRepository, flashcards FlashcardService, dispatcher Generator, maxContent, cardTarget int) GenerationService {
	if maxContent <= 0 {
		maxContent = 24000
	}
	if cardTarget <= 0 {
		cardTarget = 10
	}
	return &generationService{
		sessions:   sessions,
		dispatcher: dispatcher,
		flashcards: flashcards,
		maxContent: maxContent,
		cardTarget: cardTarget,
	}
}

// SummarizeSession asks the active provider for a summary of the session's
// transcript and stores it, advancing the session to summarized.
func (s *generationService) SummarizeSession(ctx context.Context, sessionID int64) (string, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", errors.NewPersistenceError("get session", err)
	}
	if session == nil {
		return "", errors.NewNotFoundError("session", sessionID)
	}
	if strings.TrimSpace(session.Transcript) == "" {
		return "", errors.NewValidationError("session", "has no transcript to summarize")
	}

	system, prompt := ai.SummaryPrompt(ai.Truncate(session.Transcript, s.maxContent))
	summary, err := s.dispatcher.Generate(ctx, prompt, ai.Options{SystemPrompt: system})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(summary) == "" {
		return "", errors.NewValidationError("summary", "AI returned an empty summary")
	}

	if err := s.sessions.UpdateSummary(ctx, sessionID, summary); err != nil {
		log.Error("failed to store summary: %v", err)
		return "", errors.NewPersistenceError("update summary", err)
	}
	log.Info("summary stored: session_id=%d, len=%d", sessionID, len(summary))
	return summary, nil
}

// GenerateFlashcards asks the active provider for flashcards built from the
// session's transcript (or summary when no transcript exists), parses the
// structured response, and persists the cards. The generation and the save
// are two independent steps; a save failure leaves nothing persisted from
// this call but does not roll back the session.
func (s *generationService) GenerateFlashcards(ctx context.Context, sessionID int64, count int) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.NewPersistenceError("get session", err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}

	content := session.Transcript
	if strings.TrimSpace(content) == "" {
		content = session.Summary
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.NewValidationError("session", "has no content to generate flashcards from")
	}

	if count <= 0 {
		count = s.cardTarget
	}
	existingTags, err := s.existingTags(ctx, sessionID)
	if err != nil {
		log.Warn("failed to load existing tags: %v", err)
	}

	system, prompt := ai.FlashcardPrompt(ai.Truncate(content, s.maxContent), count, existingTags)
	raw, err := s.dispatcher.Generate(ctx, prompt, ai.Options{SystemPrompt: system})
	if err != nil {
		return nil, err
	}

	cards, err := ai.ParseFlashcards(raw)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].Source = session.Title
	}
	log.Debug("parsed %d flashcards from AI response", len(cards))

	return s.flashcards.SaveFlashcards(ctx, sessionID, cards)
}

// AnalyzeDocument runs the analyze-document task over raw content without
// touching any session.
func (s *generationService) AnalyzeDocument(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", errors.NewValidationError("content", "cannot be empty")
	}
	system, prompt := ai.DocumentAnalysisPrompt(ai.Truncate(content, s.maxContent))
	return s.dispatcher.Generate(ctx, prompt, ai.Options{SystemPrompt: system})
}

func (s *generationService) existingTags(ctx context.Context, sessionID int64) ([]string, error) {
	cards, err := s.flashcards.ListFlashcards(ctx, models.FlashcardFilter{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var tags []string
	for _, c := range cards {
		for _, t := range c.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags, nil
}
