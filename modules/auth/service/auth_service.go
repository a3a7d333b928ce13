package service

import (
	"context"

	"forum-api/core/cache"
	"forum-api/core/constants"
	"forum-api/core/errors"
	"forum-api/core/logger"
	"forum-api/core/utils"
	"forum-api/modules/auth/dto"
	settingsService "forum-api/modules/settings/service"
	userentity "forum-api/modules/user/entity"
	userRepository "forum-api/modules/user/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, *errors.AppError)
	Logout(ctx context.Context, rawToken string, tokenData *utils.TokenData) *errors.AppError
	Me(ctx context.Context, userID uuid.UUID) (*userentity.User, *errors.AppError)
}

type AuthService struct {
	userRepo userRepository.UserRepositoryInterface
	settings settingsService.SettingsServiceInterface
	cache    *cache.Cache
}

func NewAuthService(userRepo userRepository.UserRepositoryInterface, settings settingsService.SettingsServiceInterface, c *cache.Cache) AuthServiceInterface {
	return &AuthService{
		userRepo: userRepo,
		settings: settings,
		cache:    c,
	}
}

// Register creates a student account. Registration is gated on the forum
// window; committee and admin accounts are provisioned out of band.
func (service *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, *errors.AppError) {
	logger.Info("AuthService:Register:Start", "email", req.Email)

	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name, email and a password of at least 8 characters are required", nil)
	}

	open, appErr := service.settings.RegistrationOpen(ctx)
	if appErr != nil {
		return nil, appErr
	}
	if !open {
		return nil, errors.NewAppError(errors.ErrRegistrationClosed, "registration is closed", nil)
	}

	existing, err := service.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to check email", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user := &userentity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         userentity.RoleStudent,
		IsActive:     true,
	}
	if req.Status != nil {
		status := userentity.StudentStatus(*req.Status)
		if status != userentity.StatusENSA && status != userentity.StatusExterne {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown student status", nil)
		}
		user.Status = &status
	}
	if req.OpportunityType != nil {
		opp := userentity.OpportunityType(*req.OpportunityType)
		switch opp {
		case userentity.OpportunityPFA, userentity.OpportunityPFE,
			userentity.OpportunityEmploi, userentity.OpportunityObservation:
			user.OpportunityType = &opp
		default:
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown opportunity type", nil)
		}
	}

	created, err := service.userRepo.Create(ctx, user)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to create user", err)
	}

	logger.Info("AuthService:Register:Success", "user_id", created.ID)
	return service.issueTokens(created)
}

func (service *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError) {
	logger.Info("AuthService:Login:Start", "email", req.Email)

	blocked, err := service.cache.IsLoginBlocked(ctx, req.Email)
	if err != nil {
		logger.Warn("AuthService:Login:IsLoginBlocked", "error", err)
	}
	if blocked {
		return nil, errors.NewAppError(errors.ErrLoginBlocked, "too many failed attempts, try again later", nil)
	}

	user, err := service.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load user", err)
	}
	if user == nil || !user.IsActive {
		service.recordFailedAttempt(ctx, req.Email)
		return nil, errors.NewAppError(errors.ErrInvalidCredentials, "invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		service.recordFailedAttempt(ctx, req.Email)
		return nil, errors.NewAppError(errors.ErrInvalidCredentials, "invalid email or password", nil)
	}

	if err := service.cache.ResetLoginAttempts(ctx, req.Email); err != nil {
		logger.Warn("AuthService:Login:ResetLoginAttempts", "error", err)
	}

	logger.Info("AuthService:Login:Success", "user_id", user.ID, "role", user.Role)
	return service.issueTokens(user)
}

func (service *AuthService) recordFailedAttempt(ctx context.Context, email string) {
	if _, err := service.cache.IncrementLoginAttempt(ctx, email); err != nil {
		logger.Warn("AuthService:Login:IncrementLoginAttempt", "error", err)
	}
}

// Refresh exchanges a valid refresh token for a new token pair. The used
// refresh token is blacklisted so it cannot be replayed.
func (service *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, *errors.AppError) {
	tokenData, err := utils.ParseToken(refreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid refresh token", err)
	}
	if tokenData.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is not a refresh token", nil)
	}

	blacklisted, err := service.cache.IsTokenBlacklisted(ctx, tokenData.TokenID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to check token blacklist", err)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "refresh token already used", nil)
	}

	user, err := service.userRepo.GetByID(ctx, tokenData.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load user", err)
	}
	if user == nil || !user.IsActive {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user no longer active", nil)
	}

	if err := service.cache.AddToTokenBlacklist(ctx, tokenData.TokenID, utils.TokenRemainingTTL(refreshToken)); err != nil {
		logger.Warn("AuthService:Refresh:Blacklist", "error", err)
	}

	return service.issueTokens(user)
}

// Logout blacklists the presented access token for the rest of its life.
func (service *AuthService) Logout(ctx context.Context, rawToken string, tokenData *utils.TokenData) *errors.AppError {
	ttl := utils.TokenRemainingTTL(rawToken)
	if ttl <= 0 {
		return nil
	}
	if err := service.cache.AddToTokenBlacklist(ctx, tokenData.TokenID, ttl); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to blacklist token", err)
	}
	logger.Info("AuthService:Logout:Success", "user_id", tokenData.UserID)
	return nil
}

func (service *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userentity.User, *errors.AppError) {
	user, err := service.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}

func (service *AuthService) issueTokens(user *userentity.User) (*dto.TokenResponse, *errors.AppError) {
	access, err := utils.IssueToken(user.ID, string(user.Role), constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue access token", err)
	}
	refresh, err := utils.IssueToken(user.ID, string(user.Role), constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue refresh token", err)
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
