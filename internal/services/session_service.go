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
)

// SessionService handles session lifecycle business logic
type SessionService interface {
	CreateSession(ctx context.Context, title, sourceType, sourceURL string) (*models.Session, error)
	GetSession(ctx context.Context, id int64) (*models.Session, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
	UpdateTranscript(ctx context.Context, id int64, transcript string) error
	DeleteSession(ctx context.Context, id int64) error
}

type sessionService struct {
	sessions repository.SessionRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions repository.SessionRepository) SessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) CreateSession(ctx context.Context, title, sourceType, sourceURL string) (*models.Session, error) {
	log := logger.FromContext(ctx)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}
	if !models.ValidSourceType(sourceType) {
		return nil, errors.NewValidationError("source_type", "must be one of audio, document, youtube")
	}

	id, err := s.sessions.Insert(ctx, models.Session{
		Title:      title,
		SourceType: sourceType,
		SourceURL:  strings.TrimSpace(sourceURL),
	})
	if err != nil {
		log.Error("failed to create session: %v", err)
		return nil, errors.NewPersistenceError("create session", err)
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, errors.NewPersistenceError("load session", err)
	}
	log.Info("session created: id=%d, source_type=%s", id, sourceType)
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, errors.NewPersistenceError("get session", err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", id)
	}
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, 0, errors.NewPersistenceError("list sessions", err)
	}
	total, err := s.sessions.Count(ctx, filter)
	if err != nil {
		return nil, 0, errors.NewPersistenceError("count sessions", err)
	}
	return sessions, total, nil
}

// UpdateTranscript overwrites the transcript and advances status to
// transcribed. Safe to call repeatedly; later calls just overwrite.
func (s *sessionService) UpdateTranscript(ctx context.Context, id int64, transcript string) error {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(transcript) == "" {
		return errors.NewValidationError("transcript", "cannot be empty")
	}

	err := s.sessions.UpdateTranscript(ctx, id, transcript)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError("session", id)
	}
	if err != nil {
		log.Error("failed to update transcript: %v", err)
		return errors.NewPersistenceError("update transcript", err)
	}
	log.Info("transcript stored: session_id=%d, len=%d", id, len(transcript))
	return nil
}

func (s *sessionService) DeleteSession(ctx context.Context, id int64) error {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return errors.NewPersistenceError("get session", err)
	}
	if session == nil {
		return errors.NewNotFoundError("session", id)
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return errors.NewPersistenceError("delete session", err)
	}
	return nil
}
