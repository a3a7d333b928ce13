package repository

import (
	"context"
	"database/sql"

	"forum-api/core/database"
	"forum-api/core/logger"
	"forum-api/modules/settings/entity"
)

type SettingsRepository struct {
	db database.Database
}

func NewSettingsRepository(db database.Database) *SettingsRepository {
	return &SettingsRepository{db: db}
}

type SettingsRepositoryInterface interface {
	Get(ctx context.Context) (*entity.ForumSettings, error)
	Upsert(ctx context.Context, s *entity.ForumSettings) (*entity.ForumSettings, error)
}

// Get returns the single settings row, or nil when the forum was never
// configured.
func (r *SettingsRepository) Get(ctx context.Context) (*entity.ForumSettings, error) {
	query := `
		SELECT id, forum_start_date, forum_end_date, is_registration_open, welcome_message, created_at, updated_at
		FROM forum_settings WHERE id = 1
	`

	var s entity.ForumSettings
	err := r.db.GetContext(ctx, &s, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SettingsRepository:Get", "error", err)
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, s *entity.ForumSettings) (*entity.ForumSettings, error) {
	query := `
		INSERT INTO forum_settings (id, forum_start_date, forum_end_date, is_registration_open, welcome_message)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			forum_start_date = EXCLUDED.forum_start_date,
			forum_end_date = EXCLUDED.forum_end_date,
			is_registration_open = EXCLUDED.is_registration_open,
			welcome_message = EXCLUDED.welcome_message,
			updated_at = NOW()
		RETURNING id, forum_start_date, forum_end_date, is_registration_open, welcome_message, created_at, updated_at
	`

	var saved entity.ForumSettings
	err := r.db.GetContext(ctx, &saved, query,
		s.ForumStartDate, s.ForumEndDate, s.IsRegistrationOpen, s.WelcomeMessage)
	if err != nil {
		logger.Error("SettingsRepository:Upsert", "error", err)
		return nil, err
	}
	return &saved, nil
}
