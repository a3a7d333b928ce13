package entity

import (
	coreEntity "forum-api/core/entity"

	"github.com/google/uuid"
)

type Company struct {
	Name                       string     `db:"name" json:"name"`
	Slug                       string     `db:"slug" json:"slug"`
	Sector                     string     `db:"sector" json:"sector"`
	Website                    *string    `db:"website" json:"website,omitempty"`
	LogoKey                    *string    `db:"logo_key" json:"-"`
	EstimatedInterviewDuration *int       `db:"estimated_interview_duration" json:"estimated_interview_duration,omitempty"`
	RoomID                     *uuid.UUID `db:"room_id" json:"room_id,omitempty"`
	IsActive                   bool       `db:"is_active" json:"is_active"`
	coreEntity.BaseEntity
}

// CompanyWithQueueCount is the student-facing listing row.
type CompanyWithQueueCount struct {
	Company
	WaitingCount int `db:"waiting_count" json:"waiting_count"`
}

type PaginatedCompanyEntity = coreEntity.Pagination[Company]
