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

type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sql.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

const flashcardColumns = `id, session_id, front, back, type, difficulty, tags, category, source,
       due_at, interval_days, ease_factor, times_reviewed, times_correct, created_at, updated_at`

func scanFlashcard(row interface{ Scan(...any) error }) (models.Flashcard, error) {
	var c models.Flashcard
	var tags string
	err := row.Scan(&c.ID, &c.SessionID, &c.Front, &c.Back, &c.Type, &c.Difficulty, &tags, &c.Category, &c.Source,
		&c.DueAt, &c.IntervalDays, &c.EaseFactor, &c.TimesReviewed, &c.TimesCorrect, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.Tags = splitTags(tags)
	return c, nil
}

// InsertBatch inserts all cards in one transaction and returns them with
// their assigned ids. A failure anywhere rolls the whole batch back.
func (r *flashcardRepository) InsertBatch(ctx context.Context, cards []models.Flashcard) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	if len(cards) == 0 {
		return nil, nil
	}
	log.Debug("inserting %d flashcards: session_id=%d", len(cards), cards[0].SessionID)

	saved := make([]models.Flashcard, 0, len(cards))
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO flashcards (session_id, front, back, type, difficulty, tags, category, source, ease_factor)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, 2.5)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range cards {
			res, err := stmt.ExecContext(ctx, c.SessionID, c.Front, c.Back, c.Type, c.Difficulty, joinTags(c.Tags), c.Category, c.Source)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			row := tx.QueryRowContext(ctx, `SELECT `+flashcardColumns+` FROM flashcards WHERE id = ?`, id)
			inserted, err := scanFlashcard(row)
			if err != nil {
				return err
			}
			saved = append(saved, inserted)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert flashcards: %v", err)
		return nil, err
	}
	log.Debug("inserted %d flashcards", len(saved))
	return saved, nil
}

func (r *flashcardRepository) Get(ctx context.Context, id int64) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting flashcard: id=%d", id)

	row := r.db.QueryRowContext(ctx, `SELECT `+flashcardColumns+` FROM flashcards WHERE id = ?`, id)
	c, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *flashcardRepository) Update(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard: id=%d", c.ID)

	res, err := r.db.ExecContext(ctx, `
UPDATE flashcards
SET front = ?, back = ?, type = ?, difficulty = ?, tags = ?, category = ?, source = ?,
    due_at = ?, interval_days = ?, ease_factor = ?, times_reviewed = ?, times_correct = ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, c.Front, c.Back, c.Type, c.Difficulty, joinTags(c.Tags), c.Category, c.Source,
		c.DueAt, c.IntervalDays, c.EaseFactor, c.TimesReviewed, c.TimesCorrect, c.ID)
	if err != nil {
		log.Error("failed to update flashcard: %v", err)
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

func (r *flashcardRepository) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards: session_id=%d, type=%s, difficulty=%s", filter.SessionID, filter.Type, filter.Difficulty)

	query := sqlBuilder.Select(
		"id", "session_id", "front", "back", "type", "difficulty", "tags", "category", "source",
		"due_at", "interval_days", "ease_factor", "times_reviewed", "times_correct", "created_at", "updated_at",
	).From("flashcards")

	if filter.SessionID != 0 {
		query = query.Where(squirrel.Eq{"session_id": filter.SessionID})
	}
	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}

	query = query.OrderBy("id ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
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
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, rows.Err()
}

func (r *flashcardRepository) CountBySession(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards WHERE session_id = ?`, sessionID).Scan(&count)
	return count, err
}

func (r *flashcardRepository) NextDue(ctx context.Context, limit int) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("fetching due flashcards: limit=%d", limit)

	if limit <= 0 {
		limit = 1
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+flashcardColumns+`
FROM flashcards
WHERE due_at <= CURRENT_TIMESTAMP
ORDER BY RANDOM()
LIMIT ?
`, limit)
	if err != nil {
		log.Error("failed to query due flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d due flashcards", len(cards))
	return cards, rows.Err()
}
