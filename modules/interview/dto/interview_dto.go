package dto

import (
	"time"

	interviewentity "forum-api/modules/interview/entity"
	roomentity "forum-api/modules/room/entity"

	"github.com/google/uuid"
)

type SelectCompaniesRequest struct {
	CompanyIDs []uuid.UUID `json:"company_ids"`
}

// CompanySelection is the per-company join result: the assigned position
// and a display-only wait estimate.
type CompanySelection struct {
	CompanyID            uuid.UUID `json:"company_id"`
	CompanyName          string    `json:"company_name"`
	QueuePosition        int       `json:"queue_position"`
	EstimatedWaitMinutes int       `json:"estimated_wait_minutes"`
}

type SelectCompaniesResponse struct {
	Interviews []CompanySelection `json:"interviews"`
}

type StartInterviewRequest struct {
	InterviewID uuid.UUID `json:"interview_id"`
}

type EndInterviewRequest struct {
	InterviewID uuid.UUID `json:"interview_id"`
}

type MarkAbsentRequest struct {
	InterviewID uuid.UUID `json:"interview_id"`
}

type CancelInterviewRequest struct {
	InterviewID uuid.UUID `json:"interview_id"`
}

type OverrideStatusRequest struct {
	Status string `json:"status"`
}

// QueueStatusEntry is one row of the student's polling view.
type QueueStatusEntry struct {
	InterviewID   uuid.UUID                       `json:"interview_id"`
	CompanyID     uuid.UUID                       `json:"company_id"`
	CompanyName   string                          `json:"company_name"`
	Status        interviewentity.InterviewStatus `json:"status"`
	QueuePosition int                             `json:"queue_position"`
}

type QueueStatusResponse struct {
	Positions []QueueStatusEntry `json:"positions"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// CompanyQueueResponse is the ordered queue for one company.
type CompanyQueueResponse struct {
	CompanyID uuid.UUID                   `json:"company_id"`
	Queue     []interviewentity.QueueItem `json:"queue"`
}

// RoomViewResponse is the committee member's working view: their room, the
// interview currently running there, and the upcoming queue.
type RoomViewResponse struct {
	Room             *roomentity.Room            `json:"room"`
	CompanyID        *uuid.UUID                  `json:"company_id,omitempty"`
	CompanyName      string                      `json:"company_name,omitempty"`
	CurrentInterview *interviewentity.QueueItem  `json:"current_interview,omitempty"`
	Queue            []interviewentity.QueueItem `json:"queue"`
}

type NextStudentResponse struct {
	Next *interviewentity.QueueItem `json:"next"`
}
