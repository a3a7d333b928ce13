package repository

import (
	"context"
	"database/sql"

	"forum-api/core/database"
	"forum-api/core/logger"
	"forum-api/modules/user/entity"

	"github.com/google/uuid"
)

type UserRepository struct {
	db database.Database
}

func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// UserRepositoryInterface defines the repository contract
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	CountAdmins(ctx context.Context) (int, error)
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, status, opportunity_type, is_committee, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, email, password_hash, role, status, opportunity_type, is_committee, is_active, created_at, updated_at
	`

	var created entity.User
	err := r.db.GetContext(ctx, &created, query,
		user.Name, user.Email, user.PasswordHash, user.Role,
		user.Status, user.OpportunityType, user.IsCommittee, user.IsActive)
	if err != nil {
		logger.Error("UserRepository:Create", "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, opportunity_type, is_committee, is_active, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetByID", "error", err)
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, opportunity_type, is_committee, is_active, created_at, updated_at
		FROM users WHERE email = $1
	`

	var user entity.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetByEmail", "error", err)
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE role = 'admin'`)
	if err != nil {
		logger.Error("UserRepository:CountAdmins", "error", err)
		return 0, err
	}
	return count, nil
}
