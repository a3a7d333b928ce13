package repository

import (
	"context"
	"database/sql"

	"forum-api/core/database"
	"forum-api/core/logger"
	"forum-api/core/params"
	"forum-api/modules/company/entity"

	"github.com/google/uuid"
)

type CompanyRepository struct {
	db database.Database
}

func NewCompanyRepository(db database.Database) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// CompanyRepositoryInterface defines the repository contract
type CompanyRepositoryInterface interface {
	Create(ctx context.Context, company *entity.Company) (*entity.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	List(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedCompanyEntity, error)
	ListActiveWithQueueCount(ctx context.Context) ([]entity.CompanyWithQueueCount, error)
	Update(ctx context.Context, company *entity.Company) error
	SetLogoKey(ctx context.Context, id uuid.UUID, key string) error
	SetRoom(ctx context.Context, id uuid.UUID, roomID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const companyColumns = `id, name, slug, sector, website, logo_key, estimated_interview_duration, room_id, is_active, created_at, updated_at`

func (r *CompanyRepository) Create(ctx context.Context, company *entity.Company) (*entity.Company, error) {
	query := `
		INSERT INTO companies (name, slug, sector, website, estimated_interview_duration, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + companyColumns

	var created entity.Company
	err := r.db.GetContext(ctx, &created, query,
		company.Name, company.Slug, company.Sector, company.Website,
		company.EstimatedInterviewDuration, company.IsActive)
	if err != nil {
		logger.Error("CompanyRepository:Create", "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	var company entity.Company
	err := r.db.GetContext(ctx, &company, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CompanyRepository:GetByID", "error", err)
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepository) List(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedCompanyEntity, error) {
	offset := (queryParams.PageNumber - 1) * queryParams.PageSize

	baseQuery := `FROM companies`
	args := []any{}
	if queryParams.Search != "" {
		baseQuery += ` WHERE name ILIKE $1 OR sector ILIKE $1`
		args = append(args, "%"+queryParams.Search+"%")
	}

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		logger.Error("CompanyRepository:List:Count", "error", err)
		return nil, err
	}

	query := `SELECT ` + companyColumns + ` ` + baseQuery + ` ORDER BY name ASC`
	if queryParams.Search != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, queryParams.PageSize, offset)

	var companies []entity.Company
	if err := r.db.SelectContext(ctx, &companies, query, args...); err != nil {
		logger.Error("CompanyRepository:List:Select", "error", err)
		return nil, err
	}

	return &entity.PaginatedCompanyEntity{
		Items:      companies,
		TotalItems: totalItems,
		PageNumber: queryParams.PageNumber,
		PageSize:   queryParams.PageSize,
	}, nil
}

// ListActiveWithQueueCount returns active companies with the number of
// students currently waiting, for the student browsing page.
func (r *CompanyRepository) ListActiveWithQueueCount(ctx context.Context) ([]entity.CompanyWithQueueCount, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.sector, c.website, c.logo_key,
		       c.estimated_interview_duration, c.room_id, c.is_active, c.created_at, c.updated_at,
		       COUNT(i.id) FILTER (WHERE i.status = 'WAITING') AS waiting_count
		FROM companies c
		LEFT JOIN interviews i ON i.company_id = c.id
		WHERE c.is_active = true
		GROUP BY c.id
		ORDER BY c.name ASC
	`

	var companies []entity.CompanyWithQueueCount
	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		logger.Error("CompanyRepository:ListActiveWithQueueCount", "error", err)
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, slug = $3, sector = $4, website = $5,
		    estimated_interview_duration = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		company.ID, company.Name, company.Slug, company.Sector, company.Website,
		company.EstimatedInterviewDuration, company.IsActive)
	if err != nil {
		logger.Error("CompanyRepository:Update", "error", err)
		return err
	}
	return nil
}

func (r *CompanyRepository) SetLogoKey(ctx context.Context, id uuid.UUID, key string) error {
	err := r.db.ExecContext(ctx, `UPDATE companies SET logo_key = $2, updated_at = NOW() WHERE id = $1`, id, key)
	if err != nil {
		logger.Error("CompanyRepository:SetLogoKey", "error", err)
		return err
	}
	return nil
}

// SetRoom records the room assignment on the company side of the one-to-one
// link. The room side is owned by the room repository.
func (r *CompanyRepository) SetRoom(ctx context.Context, id uuid.UUID, roomID *uuid.UUID) error {
	err := r.db.ExecContext(ctx, `UPDATE companies SET room_id = $2, updated_at = NOW() WHERE id = $1`, id, roomID)
	if err != nil {
		logger.Error("CompanyRepository:SetRoom", "error", err)
		return err
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		logger.Error("CompanyRepository:Delete", "error", err)
		return err
	}
	return nil
}
