package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/repository"
	"github.com/studyflash/studyflash/internal/repository/sqlite"
	"github.com/studyflash/studyflash/internal/testutil"
)

type FlashcardRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.FlashcardRepository
	sessions repository.SessionRepository
}

func (s *FlashcardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewFlashcardRepository(s.db)
	s.sessions = sqlite.NewSessionRepository(s.db)
}

func (s *FlashcardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *FlashcardRepositorySuite) setupSession() int64 {
	id, err := s.sessions.Insert(context.Background(), models.Session{
		Title:      "Test Session",
		SourceType: models.SourceAudio,
	})
	s.Require().NoError(err)
	return id
}

func card(sessionID int64, front, back string) models.Flashcard {
	return models.Flashcard{
		SessionID:  sessionID,
		Front:      front,
		Back:       back,
		Type:       models.CardBasic,
		Difficulty: models.DifficultyMedium,
	}
}

func (s *FlashcardRepositorySuite) TestInsertBatchReturnsAssignedRows() {
	ctx := context.Background()
	sessionID := s.setupSession()

	c1 := card(sessionID, "What is mitosis?", "Cell division")
	c1.Tags = []string{"biology", "cells"}
	c2 := card(sessionID, "Define osmosis", "Diffusion of water")

	saved, err := s.repo.InsertBatch(ctx, []models.Flashcard{c1, c2})
	s.Require().NoError(err)
	s.Require().Len(saved, 2)

	s.Assert().Greater(saved[0].ID, int64(0))
	s.Assert().Greater(saved[1].ID, saved[0].ID)
	s.Assert().Equal("What is mitosis?", saved[0].Front)
	s.Assert().Equal([]string{"biology", "cells"}, saved[0].Tags)
	s.Assert().Equal(2.5, saved[0].EaseFactor)
	s.Assert().Equal(0, saved[0].TimesReviewed)
	s.Assert().False(saved[0].DueAt.IsZero())
	s.Assert().False(saved[0].CreatedAt.IsZero())
}

func (s *FlashcardRepositorySuite) TestInsertBatchEmptyIsNoop() {
	saved, err := s.repo.InsertBatch(context.Background(), nil)
	s.Require().NoError(err)
	s.Assert().Empty(saved)
}

func (s *FlashcardRepositorySuite) TestInsertBatchUnknownSessionRollsBack() {
	ctx := context.Background()
	sessionID := s.setupSession()

	good := card(sessionID, "Q", "A")
	bad := card(9999, "Q2", "A2") // violates the session FK

	_, err := s.repo.InsertBatch(ctx, []models.Flashcard{good, bad})
	s.Require().Error(err)

	// The whole batch rolled back, including the valid card.
	count, err := s.repo.CountBySession(ctx, sessionID)
	s.Require().NoError(err)
	s.Assert().Equal(0, count)
}

func (s *FlashcardRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), 9999)
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *FlashcardRepositorySuite) TestUpdate() {
	ctx := context.Background()
	sessionID := s.setupSession()

	saved, err := s.repo.InsertBatch(ctx, []models.Flashcard{card(sessionID, "Q", "A")})
	s.Require().NoError(err)
	s.Require().Len(saved, 1)

	c := saved[0]
	c.Front = "Edited question"
	c.Tags = []string{"edited"}
	c.DueAt = time.Now().Add(6 * 24 * time.Hour)
	c.IntervalDays = 6
	c.EaseFactor = 2.6
	c.TimesReviewed = 1
	c.TimesCorrect = 1

	s.Require().NoError(s.repo.Update(ctx, c))

	got, err := s.repo.Get(ctx, c.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Edited question", got.Front)
	s.Assert().Equal([]string{"edited"}, got.Tags)
	s.Assert().Equal(6, got.IntervalDays)
	s.Assert().Equal(2.6, got.EaseFactor)
	s.Assert().Equal(1, got.TimesReviewed)
}

func (s *FlashcardRepositorySuite) TestUpdateMissingReturnsErrNoRows() {
	c := card(1, "Q", "A")
	c.ID = 9999
	err := s.repo.Update(context.Background(), c)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *FlashcardRepositorySuite) TestListFilters() {
	ctx := context.Background()
	s1 := s.setupSession()
	s2, err := s.sessions.Insert(ctx, models.Session{Title: "Other", SourceType: models.SourceDocument})
	s.Require().NoError(err)

	hard := card(s1, "Hard Q", "A")
	hard.Difficulty = models.DifficultyHard
	_, err = s.repo.InsertBatch(ctx, []models.Flashcard{
		card(s1, "Q1", "A1"),
		hard,
	})
	s.Require().NoError(err)
	_, err = s.repo.InsertBatch(ctx, []models.Flashcard{card(s2, "Q3", "A3")})
	s.Require().NoError(err)

	bySession, err := s.repo.List(ctx, models.FlashcardFilter{SessionID: s1})
	s.Require().NoError(err)
	s.Assert().Len(bySession, 2)

	byDifficulty, err := s.repo.List(ctx, models.FlashcardFilter{SessionID: s1, Difficulty: models.DifficultyHard})
	s.Require().NoError(err)
	s.Require().Len(byDifficulty, 1)
	s.Assert().Equal("Hard Q", byDifficulty[0].Front)
}

func (s *FlashcardRepositorySuite) TestNextDueOnlyReturnsDueCards() {
	ctx := context.Background()
	sessionID := s.setupSession()

	saved, err := s.repo.InsertBatch(ctx, []models.Flashcard{
		card(sessionID, "Due now", "A"),
		card(sessionID, "Due later", "B"),
	})
	s.Require().NoError(err)
	s.Require().Len(saved, 2)

	// Push one card a week into the future.
	future := saved[1]
	future.DueAt = time.Now().UTC().Add(7 * 24 * time.Hour)
	s.Require().NoError(s.repo.Update(ctx, future))

	due, err := s.repo.NextDue(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Assert().Equal("Due now", due[0].Front)
}

func TestFlashcardRepositorySuite(t *testing.T) {
	suite.Run(t, new(FlashcardRepositorySuite))
}
