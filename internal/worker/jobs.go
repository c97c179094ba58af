package worker

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyflash/studyflash/internal/logger"
	"github.com/studyflash/studyflash/internal/services"
)

// IngestSessionJob runs the ingestion pipeline for one session: store the
// transcript, summarize it, then generate flashcards. Each stage is a single
// attempt; a failed stage leaves earlier stages persisted and stops the
// pipeline. A session can therefore end up transcribed but never summarized,
// or summarized with zero cards.
type IngestSessionJob struct {
	JobID      uuid.UUID
	SessionID  int64
	Content    string
	CardCount  int
	Sessions   services.SessionService
	Generation services.GenerationService
}

// NewIngestSessionJob creates an ingestion job with a fresh job id.
func NewIngestSessionJob(sessionID int64, content string, cardCount int, sessions services.SessionService, generation services.GenerationService) *IngestSessionJob {
	return &IngestSessionJob{
		JobID:      uuid.New(),
		SessionID:  sessionID,
		Content:    content,
		CardCount:  cardCount,
		Sessions:   sessions,
		Generation: generation,
	}
}

func (j *IngestSessionJob) Name() string { return "ingest_session" }

func (j *IngestSessionJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"job_id":     j.JobID.String(),
		"session_id": j.SessionID,
	})
	log.Info("starting session ingestion")
	ctx = logger.NewContext(ctx, log)

	if err := j.Sessions.UpdateTranscript(ctx, j.SessionID, j.Content); err != nil {
		log.Error("transcript stage failed: %v", err)
		return err
	}

	if _, err := j.Generation.SummarizeSession(ctx, j.SessionID); err != nil {
		log.Error("summary stage failed: %v", err)
		return err
	}

	cards, err := j.Generation.GenerateFlashcards(ctx, j.SessionID, j.CardCount)
	if err != nil {
		log.Error("flashcard stage failed: %v", err)
		return err
	}

	log.Info("session ingestion complete: cards=%d", len(cards))
	return nil
}
