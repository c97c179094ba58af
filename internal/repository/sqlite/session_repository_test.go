package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/repository"
	"github.com/studyflash/studyflash/internal/repository/sqlite"
	"github.com/studyflash/studyflash/internal/testutil"
)

type SessionRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SessionRepository
}

func (s *SessionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSessionRepository(s.db)
}

func (s *SessionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionRepositorySuite) insertSession(title, sourceType string) int64 {
	id, err := s.repo.Insert(context.Background(), models.Session{
		Title:      title,
		SourceType: sourceType,
	})
	s.Require().NoError(err)
	return id
}

func (s *SessionRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	id := s.insertSession("Biology Lecture 3", models.SourceAudio)
	s.Assert().Greater(id, int64(0))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Biology Lecture 3", got.Title)
	s.Assert().Equal(models.SourceAudio, got.SourceType)
	s.Assert().Equal(models.StatusCreated, got.Status)
	s.Assert().Equal(0, got.CardCount)
	s.Assert().False(got.CreatedAt.IsZero())
}

func (s *SessionRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), 9999)
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *SessionRepositorySuite) TestUpdateTranscriptAdvancesStatus() {
	ctx := context.Background()
	id := s.insertSession("Notes", models.SourceDocument)

	err := s.repo.UpdateTranscript(ctx, id, "lorem ipsum")
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("lorem ipsum", got.Transcript)
	s.Assert().Equal(models.StatusTranscribed, got.Status)

	// Overwriting is allowed and keeps the same status.
	err = s.repo.UpdateTranscript(ctx, id, "corrected transcript")
	s.Require().NoError(err)

	got, err = s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("corrected transcript", got.Transcript)
	s.Assert().Equal(models.StatusTranscribed, got.Status)
}

func (s *SessionRepositorySuite) TestUpdateTranscriptMissingSession() {
	err := s.repo.UpdateTranscript(context.Background(), 9999, "text")
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *SessionRepositorySuite) TestUpdateSummaryAdvancesStatus() {
	ctx := context.Background()
	id := s.insertSession("Lecture", models.SourceYouTube)

	s.Require().NoError(s.repo.UpdateTranscript(ctx, id, "transcript"))
	s.Require().NoError(s.repo.UpdateSummary(ctx, id, "a short summary"))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("a short summary", got.Summary)
	s.Assert().Equal(models.StatusSummarized, got.Status)
}

func (s *SessionRepositorySuite) TestListAndCountWithFilter() {
	ctx := context.Background()
	s.insertSession("A", models.SourceAudio)
	s.insertSession("B", models.SourceAudio)
	s.insertSession("C", models.SourceDocument)

	all, err := s.repo.List(ctx, models.SessionFilter{})
	s.Require().NoError(err)
	s.Assert().Len(all, 3)

	audio, err := s.repo.List(ctx, models.SessionFilter{SourceType: models.SourceAudio})
	s.Require().NoError(err)
	s.Assert().Len(audio, 2)

	total, err := s.repo.Count(ctx, models.SessionFilter{SourceType: models.SourceAudio})
	s.Require().NoError(err)
	s.Assert().Equal(2, total)

	paged, err := s.repo.List(ctx, models.SessionFilter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Assert().Len(paged, 1)
}

func (s *SessionRepositorySuite) TestGetIncludesCardCount() {
	ctx := context.Background()
	id := s.insertSession("With cards", models.SourceAudio)

	cards := sqlite.NewFlashcardRepository(s.db)
	_, err := cards.InsertBatch(ctx, []models.Flashcard{
		{SessionID: id, Front: "Q1", Back: "A1", Type: models.CardBasic, Difficulty: models.DifficultyMedium, EaseFactor: 2.5},
		{SessionID: id, Front: "Q2", Back: "A2", Type: models.CardBasic, Difficulty: models.DifficultyMedium, EaseFactor: 2.5},
	})
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(2, got.CardCount)
}

func (s *SessionRepositorySuite) TestDeleteCascadesToFlashcards() {
	ctx := context.Background()
	id := s.insertSession("Doomed", models.SourceAudio)

	cards := sqlite.NewFlashcardRepository(s.db)
	saved, err := cards.InsertBatch(ctx, []models.Flashcard{
		{SessionID: id, Front: "Q", Back: "A", Type: models.CardBasic, Difficulty: models.DifficultyMedium, EaseFactor: 2.5},
	})
	s.Require().NoError(err)
	s.Require().Len(saved, 1)

	s.Require().NoError(s.repo.Delete(ctx, id))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Nil(got)

	orphan, err := cards.Get(ctx, saved[0].ID)
	s.Require().NoError(err)
	s.Assert().Nil(orphan)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
