package entity

import (
	coreEntity "forum-api/core/entity"

	"github.com/google/uuid"
)

// Room hosts at most one company and at most one running interview.
// CurrentInterviewID is the occupancy marker: non-nil means an interview is
// running in this room.
type Room struct {
	Name               string      `db:"name" json:"name"`
	Location           string      `db:"location" json:"location"`
	CompanyID          *uuid.UUID  `db:"company_id" json:"company_id,omitempty"`
	CommitteeMemberIDs []uuid.UUID `db:"-" json:"committee_member_ids"`
	CurrentInterviewID *uuid.UUID  `db:"current_interview_id" json:"current_interview_id,omitempty"`
	coreEntity.BaseEntity
}

// HasCommitteeMember reports whether the given user is authorized to operate
// this room.
func (r *Room) HasCommitteeMember(userID uuid.UUID) bool {
	for _, id := range r.CommitteeMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
