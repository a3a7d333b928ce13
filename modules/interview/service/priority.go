package service

import (
	userentity "forum-api/modules/user/entity"
)

// Priority scores, highest served first. The score is snapshotted onto the
// interview at join time and never recomputed, so a candidate's later
// profile changes do not reshuffle queues they already joined.
const (
	priorityCommitteeProject = 10
	priorityCommittee        = 9
	priorityENSAProject      = 8
	priorityExterneProject   = 7
	priorityENSAEmploi       = 6
	priorityExterneEmploi    = 5
	priorityENSAObservation  = 4
	priorityExterneObservation = 3
	priorityFallback         = 1
)

// CalculatePriority maps candidate attributes to a priority score. Total
// over its inputs: a missing affiliation counts as external, anything
// unrecognized lands on the fallback score.
func CalculatePriority(isCommittee bool, status userentity.StudentStatus, opportunity userentity.OpportunityType) int {
	if status != userentity.StatusENSA {
		status = userentity.StatusExterne
	}
	isProject := opportunity == userentity.OpportunityPFA || opportunity == userentity.OpportunityPFE

	switch {
	case isCommittee && isProject:
		return priorityCommitteeProject
	case isCommittee:
		return priorityCommittee
	case status == userentity.StatusENSA && isProject:
		return priorityENSAProject
	case status == userentity.StatusExterne && isProject:
		return priorityExterneProject
	case status == userentity.StatusENSA && opportunity == userentity.OpportunityEmploi:
		return priorityENSAEmploi
	case status == userentity.StatusExterne && opportunity == userentity.OpportunityEmploi:
		return priorityExterneEmploi
	case status == userentity.StatusENSA && opportunity == userentity.OpportunityObservation:
		return priorityENSAObservation
	case status == userentity.StatusExterne && opportunity == userentity.OpportunityObservation:
		return priorityExterneObservation
	default:
		return priorityFallback
	}
}

// CalculatePriorityForUser is the convenience form used at join time.
func CalculatePriorityForUser(u *userentity.User) int {
	return CalculatePriority(u.IsCommittee, u.StatusOrDefault(), u.Opportunity())
}
