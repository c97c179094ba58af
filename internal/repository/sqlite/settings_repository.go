package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studyflash/studyflash/internal/logger"
	"github.com/studyflash/studyflash/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository implementation
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the stored value for key, or "" when the key is unset.
func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("settings_repo").Error("failed to get setting %s: %v", key, err)
		return "", err
	}
	return value, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("setting %s", key)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
	if err != nil {
		log.Error("failed to set %s: %v", key, err)
	}
	return err
}

func (r *settingsRepository) All(ctx context.Context) (map[string]string, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		log.Error("failed to list settings: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			log.Error("failed to scan setting row: %v", err)
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
