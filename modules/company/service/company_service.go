package service

import (
	"context"

	"forum-api/core/errors"
	"forum-api/core/logger"
	"forum-api/core/params"
	"forum-api/core/storage"
	"forum-api/modules/company/dto"
	"forum-api/modules/company/entity"
	"forum-api/modules/company/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type CompanyServiceInterface interface {
	Create(ctx context.Context, req *dto.CompanyRequest) (*dto.CompanyResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, *errors.AppError)
	List(ctx context.Context, query params.QueryParams) (*entity.PaginatedCompanyEntity, *errors.AppError)
	ListActive(ctx context.Context) ([]dto.CompanyListItem, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.CompanyRequest) (*dto.CompanyResponse, *errors.AppError)
	PresignLogoUpload(ctx context.Context, id uuid.UUID, req *dto.LogoUploadRequest) (*dto.LogoUploadResponse, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
}

type companyService struct {
	companyRepo repository.CompanyRepositoryInterface
	storage     *storage.Storage
}

// NewCompanyService builds the company service. storage may be nil when no
// object store is configured; logo uploads are then unavailable.
func NewCompanyService(companyRepo repository.CompanyRepositoryInterface, st *storage.Storage) CompanyServiceInterface {
	return &companyService{companyRepo: companyRepo, storage: st}
}

func (s *companyService) Create(ctx context.Context, req *dto.CompanyRequest) (*dto.CompanyResponse, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "company name is required", nil)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	company := &entity.Company{
		Name:                       req.Name,
		Slug:                       slug.Make(req.Name),
		Sector:                     req.Sector,
		Website:                    req.Website,
		EstimatedInterviewDuration: req.EstimatedInterviewDuration,
		IsActive:                   active,
	}

	created, err := s.companyRepo.Create(ctx, company)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to create company", err)
	}

	logger.Info("CompanyService:Create:Success", "company_id", created.ID, "slug", created.Slug)
	return s.toResponse(created), nil
}

func (s *companyService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, *errors.AppError) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load company", err)
	}
	if company == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "company not found", nil)
	}
	return s.toResponse(company), nil
}

func (s *companyService) List(ctx context.Context, query params.QueryParams) (*entity.PaginatedCompanyEntity, *errors.AppError) {
	page, err := s.companyRepo.List(ctx, query)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to list companies", err)
	}
	return page, nil
}

// ListActive is the student browsing view: active companies with their
// current waiting counts.
func (s *companyService) ListActive(ctx context.Context) ([]dto.CompanyListItem, *errors.AppError) {
	companies, err := s.companyRepo.ListActiveWithQueueCount(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to list companies", err)
	}

	items := make([]dto.CompanyListItem, 0, len(companies))
	for _, c := range companies {
		item := dto.CompanyListItem{CompanyWithQueueCount: c}
		if s.storage != nil && c.LogoKey != nil {
			item.LogoURL = s.storage.ObjectURL(*c.LogoKey)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *companyService) Update(ctx context.Context, id uuid.UUID, req *dto.CompanyRequest) (*dto.CompanyResponse, *errors.AppError) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load company", err)
	}
	if company == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "company not found", nil)
	}

	if req.Name != "" && req.Name != company.Name {
		company.Name = req.Name
		company.Slug = slug.Make(req.Name)
	}
	if req.Sector != "" {
		company.Sector = req.Sector
	}
	if req.Website != nil {
		company.Website = req.Website
	}
	if req.EstimatedInterviewDuration != nil {
		company.EstimatedInterviewDuration = req.EstimatedInterviewDuration
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to update company", err)
	}

	logger.Info("CompanyService:Update:Success", "company_id", id)
	return s.toResponse(company), nil
}

// PresignLogoUpload issues a presigned PUT URL and records the object key on
// the company. The client uploads directly to the bucket.
func (s *companyService) PresignLogoUpload(ctx context.Context, id uuid.UUID, req *dto.LogoUploadRequest) (*dto.LogoUploadResponse, *errors.AppError) {
	if s.storage == nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "object storage is not configured", nil)
	}

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load company", err)
	}
	if company == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "company not found", nil)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/png"
	}

	uploadURL, key, err := s.storage.PresignLogoUpload(ctx, company.Slug, contentType)
	if err != nil {
		logger.Error("CompanyService:PresignLogoUpload", "error", err, "company_id", id)
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to presign upload", err)
	}

	if err := s.companyRepo.SetLogoKey(ctx, id, key); err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to record logo key", err)
	}

	return &dto.LogoUploadResponse{
		CompanyID: id,
		UploadURL: uploadURL,
		LogoURL:   s.storage.ObjectURL(key),
	}, nil
}

func (s *companyService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load company", err)
	}
	if company == nil {
		return errors.NewAppError(errors.ErrNotFound, "company not found", nil)
	}
	if err := s.companyRepo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to delete company", err)
	}
	logger.Info("CompanyService:Delete:Success", "company_id", id)
	return nil
}

func (s *companyService) toResponse(company *entity.Company) *dto.CompanyResponse {
	resp := &dto.CompanyResponse{Company: *company}
	if s.storage != nil && company.LogoKey != nil {
		resp.LogoURL = s.storage.ObjectURL(*company.LogoKey)
	}
	return resp
}
