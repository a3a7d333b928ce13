package service

import (
	"testing"

	userentity "forum-api/modules/user/entity"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePriority(t *testing.T) {
	tests := []struct {
		name        string
		isCommittee bool
		status      userentity.StudentStatus
		opportunity userentity.OpportunityType
		want        int
	}{
		{"committee with PFA", true, userentity.StatusENSA, userentity.OpportunityPFA, 10},
		{"committee with PFE", true, userentity.StatusExterne, userentity.OpportunityPFE, 10},
		{"committee without project", true, userentity.StatusENSA, userentity.OpportunityEmploi, 9},
		{"committee with no opportunity", true, userentity.StatusENSA, "", 9},
		{"ENSA with PFE", false, userentity.StatusENSA, userentity.OpportunityPFE, 8},
		{"external with PFA", false, userentity.StatusExterne, userentity.OpportunityPFA, 7},
		{"ENSA looking for a job", false, userentity.StatusENSA, userentity.OpportunityEmploi, 6},
		{"external looking for a job", false, userentity.StatusExterne, userentity.OpportunityEmploi, 5},
		{"ENSA observation", false, userentity.StatusENSA, userentity.OpportunityObservation, 4},
		{"external observation", false, userentity.StatusExterne, userentity.OpportunityObservation, 3},
		{"no opportunity at all", false, userentity.StatusENSA, "", 1},
		{"unknown status treated as external", false, "SOMETHING_ELSE", userentity.OpportunityPFA, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePriority(tt.isCommittee, tt.status, tt.opportunity)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculatePriorityForUser_MissingProfileFields(t *testing.T) {
	// A user who never filled in status or opportunity is scored like an
	// external candidate with no opportunity.
	u := &userentity.User{Name: "anon", IsCommittee: false}
	assert.Equal(t, 1, CalculatePriorityForUser(u))

	ensa := userentity.StatusENSA
	pfe := userentity.OpportunityPFE
	u2 := &userentity.User{Name: "ensa", Status: &ensa, OpportunityType: &pfe}
	assert.Equal(t, 8, CalculatePriorityForUser(u2))
}
