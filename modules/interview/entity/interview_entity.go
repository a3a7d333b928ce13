package entity

import (
	"time"

	coreEntity "forum-api/core/entity"
	userentity "forum-api/modules/user/entity"

	"github.com/google/uuid"
)

// InterviewStatus is the lifecycle state of an interview.
type InterviewStatus string

const (
	StatusWaiting    InterviewStatus = "WAITING"
	StatusInProgress InterviewStatus = "IN_PROGRESS"
	StatusCompleted  InterviewStatus = "COMPLETED"
	StatusCancelled  InterviewStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are permitted.
func (s InterviewStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is one of the four known statuses.
func (s InterviewStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Interview is one student's queued/active/finished engagement with one
// company. Priority is snapshotted at creation and never recomputed;
// QueuePosition is meaningful only while WAITING.
type Interview struct {
	StudentID        uuid.UUID       `db:"student_id" json:"student_id"`
	CompanyID        uuid.UUID       `db:"company_id" json:"company_id"`
	Status           InterviewStatus `db:"status" json:"status"`
	QueuePosition    int             `db:"queue_position" json:"queue_position"`
	Priority         int             `db:"priority" json:"priority"`
	ScheduledTime    *time.Time      `db:"scheduled_time" json:"scheduled_time,omitempty"`
	StartedAt        *time.Time      `db:"started_at" json:"started_at,omitempty"`
	CompletedAt      *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	NotificationSent bool            `db:"notification_sent" json:"notification_sent"`
	coreEntity.BaseEntity
}

// QueueEntry is a waiting interview joined with the candidate attributes the
// position assigner needs.
type QueueEntry struct {
	InterviewID   uuid.UUID                 `db:"interview_id"`
	StudentID     uuid.UUID                 `db:"student_id"`
	Priority      int                       `db:"priority"`
	IsCommittee   bool                      `db:"is_committee"`
	StudentStatus *userentity.StudentStatus `db:"student_status"`
	CreatedAt     time.Time                 `db:"created_at"`
}

// QueueItem is a queue row joined with the student summary, for the
// committee/company queue views.
type QueueItem struct {
	InterviewID   uuid.UUID                   `db:"interview_id" json:"interview_id"`
	StudentID     uuid.UUID                   `db:"student_id" json:"student_id"`
	StudentName   string                      `db:"student_name" json:"student_name"`
	StudentEmail  string                      `db:"student_email" json:"student_email"`
	StudentStatus *userentity.StudentStatus   `db:"student_status" json:"student_status,omitempty"`
	Opportunity   *userentity.OpportunityType `db:"opportunity_type" json:"opportunity_type,omitempty"`
	Status        InterviewStatus             `db:"status" json:"status"`
	QueuePosition int                         `db:"queue_position" json:"queue_position"`
	Priority      int                         `db:"priority" json:"priority"`
	StartedAt     *time.Time                  `db:"started_at" json:"started_at,omitempty"`
	CreatedAt     time.Time                   `db:"created_at" json:"created_at"`
}

// StudentInterview is an interview joined with its company (and the
// company's room) for the student dashboard.
type StudentInterview struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	CompanyID     uuid.UUID       `db:"company_id" json:"company_id"`
	CompanyName   string          `db:"company_name" json:"company_name"`
	CompanySector string          `db:"company_sector" json:"company_sector"`
	RoomName      *string         `db:"room_name" json:"room_name,omitempty"`
	RoomLocation  *string         `db:"room_location" json:"room_location,omitempty"`
	Status        InterviewStatus `db:"status" json:"status"`
	QueuePosition int             `db:"queue_position" json:"queue_position"`
	Priority      int             `db:"priority" json:"priority"`
	ScheduledTime *time.Time      `db:"scheduled_time" json:"scheduled_time,omitempty"`
	StartedAt     *time.Time      `db:"started_at" json:"started_at,omitempty"`
	CompletedAt   *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// AdminInterview is the admin listing row.
type AdminInterview struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	StudentName   string          `db:"student_name" json:"student_name"`
	StudentEmail  string          `db:"student_email" json:"student_email"`
	CompanyName   string          `db:"company_name" json:"company_name"`
	Status        InterviewStatus `db:"status" json:"status"`
	QueuePosition int             `db:"queue_position" json:"queue_position"`
	Priority      int             `db:"priority" json:"priority"`
	StartedAt     *time.Time      `db:"started_at" json:"started_at,omitempty"`
	CompletedAt   *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

type PaginatedAdminInterviewEntity = coreEntity.Pagination[AdminInterview]
