package entity

import (
	coreEntity "forum-api/core/entity"
)

// UserRole determines which API surface a user may call.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleCommittee UserRole = "committee"
	RoleAdmin     UserRole = "admin"
)

// StudentStatus is the affiliation of a candidate relative to the hosting
// school.
type StudentStatus string

const (
	StatusENSA    StudentStatus = "ENSA"
	StatusExterne StudentStatus = "EXTERNE"
)

// OpportunityType is the kind of engagement a candidate is looking for.
type OpportunityType string

const (
	OpportunityPFA         OpportunityType = "PFA"
	OpportunityPFE         OpportunityType = "PFE"
	OpportunityEmploi      OpportunityType = "EMPLOI"
	OpportunityObservation OpportunityType = "STAGE_OBSERVATION"
)

type User struct {
	Name            string           `db:"name" json:"name"`
	Email           string           `db:"email" json:"email"`
	PasswordHash    string           `db:"password_hash" json:"-"`
	Role            UserRole         `db:"role" json:"role"`
	Status          *StudentStatus   `db:"status" json:"status,omitempty"`
	OpportunityType *OpportunityType `db:"opportunity_type" json:"opportunity_type,omitempty"`
	IsCommittee     bool             `db:"is_committee" json:"is_committee"`
	IsActive        bool             `db:"is_active" json:"is_active"`
	coreEntity.BaseEntity
}

// StatusOrDefault treats a missing affiliation as external, matching how
// priorities are computed for incomplete profiles.
func (u *User) StatusOrDefault() StudentStatus {
	if u.Status == nil {
		return StatusExterne
	}
	return *u.Status
}

func (u *User) Opportunity() OpportunityType {
	if u.OpportunityType == nil {
		return ""
	}
	return *u.OpportunityType
}
