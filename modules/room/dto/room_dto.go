package dto

import "github.com/google/uuid"

type RoomRequest struct {
	Name               string      `json:"name"`
	Location           string      `json:"location"`
	CommitteeMemberIDs []uuid.UUID `json:"committee_member_ids"`
}

type AssignCompanyRequest struct {
	CompanyID *uuid.UUID `json:"company_id"`
}

type SetCommitteeMembersRequest struct {
	CommitteeMemberIDs []uuid.UUID `json:"committee_member_ids"`
}
