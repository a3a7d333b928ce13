package dto

import (
	"forum-api/modules/company/entity"

	"github.com/google/uuid"
)

type CompanyRequest struct {
	Name                       string  `json:"name"`
	Sector                     string  `json:"sector"`
	Website                    *string `json:"website"`
	EstimatedInterviewDuration *int    `json:"estimated_interview_duration"`
	IsActive                   *bool   `json:"is_active"`
}

// CompanyResponse is a company with its logo key resolved to a public URL.
type CompanyResponse struct {
	entity.Company
	LogoURL string `json:"logo_url,omitempty"`
}

type CompanyListItem struct {
	entity.CompanyWithQueueCount
	LogoURL string `json:"logo_url,omitempty"`
}

type LogoUploadRequest struct {
	ContentType string `json:"content_type"`
}

// LogoUploadResponse carries the presigned PUT target. The client uploads
// directly to object storage and the key is recorded immediately.
type LogoUploadResponse struct {
	CompanyID uuid.UUID `json:"company_id"`
	UploadURL string    `json:"upload_url"`
	LogoURL   string    `json:"logo_url"`
}
