package service

import (
	"context"
	"time"

	"forum-api/core/errors"
	"forum-api/core/logger"
	"forum-api/modules/settings/dto"
	"forum-api/modules/settings/entity"
	"forum-api/modules/settings/repository"
)

type SettingsServiceInterface interface {
	Get(ctx context.Context) (*entity.ForumSettings, *errors.AppError)
	Update(ctx context.Context, req *dto.UpdateSettingsRequest) (*entity.ForumSettings, *errors.AppError)
	RegistrationOpen(ctx context.Context) (bool, *errors.AppError)
}

type settingsService struct {
	settingsRepo repository.SettingsRepositoryInterface
}

func NewSettingsService(settingsRepo repository.SettingsRepositoryInterface) SettingsServiceInterface {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get(ctx context.Context) (*entity.ForumSettings, *errors.AppError) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load settings", err)
	}
	if settings == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "forum is not configured", nil)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, req *dto.UpdateSettingsRequest) (*entity.ForumSettings, *errors.AppError) {
	if req.ForumEndDate.Before(req.ForumStartDate) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "forum end date precedes start date", nil)
	}

	saved, err := s.settingsRepo.Upsert(ctx, &entity.ForumSettings{
		ForumStartDate:     req.ForumStartDate,
		ForumEndDate:       req.ForumEndDate,
		IsRegistrationOpen: req.IsRegistrationOpen,
		WelcomeMessage:     req.WelcomeMessage,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to save settings", err)
	}

	logger.Info("SettingsService:Update:Success", "registration_open", saved.IsRegistrationOpen)
	return saved, nil
}

// RegistrationOpen reports whether new accounts may be created right now:
// the flag must be set and today must fall inside the forum window. An
// unconfigured forum means registration is closed.
func (s *settingsService) RegistrationOpen(ctx context.Context) (bool, *errors.AppError) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return false, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load settings", err)
	}
	if settings == nil || !settings.IsRegistrationOpen {
		return false, nil
	}
	now := time.Now()
	if now.Before(settings.ForumStartDate) || now.After(settings.ForumEndDate) {
		return false, nil
	}
	return true, nil
}
