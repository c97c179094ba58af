package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/studyflash/studyflash/internal/logger"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, s models.Session) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: title=%q, source_type=%s", s.Title, s.SourceType)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (title, source_type, source_url, status)
VALUES (?, ?, ?, ?)
`, s.Title, s.SourceType, s.SourceURL, models.StatusCreated)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get session id: %v", err)
		return 0, err
	}
	log.Debug("session inserted: id=%d", id)
	return id, nil
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%d", id)

	var s models.Session
	err := r.db.QueryRowContext(ctx, `
SELECT s.id, s.title, s.source_type, s.source_url, s.transcript, s.summary, s.status,
       (SELECT COUNT(*) FROM flashcards f WHERE f.session_id = s.id) AS card_count,
       s.created_at, s.updated_at
FROM sessions s
WHERE s.id = ?
`, id).Scan(&s.ID, &s.Title, &s.SourceType, &s.SourceURL, &s.Transcript, &s.Summary, &s.Status, &s.CardCount, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	log.Debug("session found: status=%s, card_count=%d", s.Status, s.CardCount)
	return &s, nil
}

func (r *sessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: source_type=%s, status=%s", filter.SourceType, filter.Status)

	query := sqlBuilder.Select(
		"s.id", "s.title", "s.source_type", "s.source_url", "s.transcript", "s.summary", "s.status",
		"(SELECT COUNT(*) FROM flashcards f WHERE f.session_id = s.id) AS card_count",
		"s.created_at", "s.updated_at",
	).From("sessions s")

	// Dynamic WHERE clauses
	if filter.SourceType != "" {
		query = query.Where(squirrel.Eq{"s.source_type": filter.SourceType})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"s.status": filter.Status})
	}

	// Safe ORDER BY with validation
	orderBy := "s.created_at"
	if filter.OrderBy == "updated_at" {
		orderBy = "s.updated_at"
	}
	orderDir := "DESC"
	if filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.Title, &s.SourceType, &s.SourceURL, &s.Transcript, &s.Summary, &s.Status, &s.CardCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *sessionRepository) Count(ctx context.Context, filter models.SessionFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	query := sqlBuilder.Select("COUNT(*)").From("sessions s")
	if filter.SourceType != "" {
		query = query.Where(squirrel.Eq{"s.source_type": filter.SourceType})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"s.status": filter.Status})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count sessions: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *sessionRepository) UpdateTranscript(ctx context.Context, id int64, transcript string) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating transcript: id=%d, len=%d", id, len(transcript))

	res, err := r.db.ExecContext(ctx, `
UPDATE sessions
SET transcript = ?, status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, transcript, models.StatusTranscribed, id)
	if err != nil {
		log.Error("failed to update transcript: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sessionRepository) UpdateSummary(ctx context.Context, id int64, summary string) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating summary: id=%d, len=%d", id, len(summary))

	res, err := r.db.ExecContext(ctx, `
UPDATE sessions
SET summary = ?, status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, summary, models.StatusSummarized, id)
	if err != nil {
		log.Error("failed to update summary: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("deleting session: id=%d", id)

	// Cascades to flashcards via foreign key.
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete session: %v", err)
	}
	return err
}
