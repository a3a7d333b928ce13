package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"forum-api/core/database"
	"forum-api/core/logger"
	"forum-api/core/params"
	"forum-api/modules/interview/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type InterviewRepository struct {
	db database.Database
}

func NewInterviewRepository(db database.Database) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// InterviewRepositoryInterface defines the repository contract
type InterviewRepositoryInterface interface {
	Create(ctx context.Context, interview *entity.Interview) (*entity.Interview, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Interview, error)
	GetActiveByStudentAndCompany(ctx context.Context, studentID, companyID uuid.UUID) (*entity.Interview, error)
	ListWaitingByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.QueueEntry, error)
	ListQueueByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.QueueItem, error)
	GetQueueItem(ctx context.Context, interviewID uuid.UUID) (*entity.QueueItem, error)
	NextWaiting(ctx context.Context, companyID uuid.UUID) (*entity.QueueItem, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.StudentInterview, error)
	ListForAdmin(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedAdminInterviewEntity, error)
	MarkInProgress(ctx context.Context, id uuid.UUID, startedAt time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)
	ResetToWaiting(ctx context.Context, id uuid.UUID) (bool, error)
	ReassignQueuePositions(ctx context.Context, companyID uuid.UUID, orderedIDs []uuid.UUID) error
	ListNotifiable(ctx context.Context, companyID uuid.UUID, maxPosition int) ([]entity.Interview, error)
	MarkNotificationSent(ctx context.Context, id uuid.UUID) error
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (duplicate active selection, second in-progress interview).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

const interviewColumns = `id, student_id, company_id, status, queue_position, priority, scheduled_time, started_at, completed_at, notification_sent, created_at, updated_at`

func (r *InterviewRepository) Create(ctx context.Context, interview *entity.Interview) (*entity.Interview, error) {
	query := `
		INSERT INTO interviews (student_id, company_id, status, queue_position, priority, scheduled_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + interviewColumns

	var created entity.Interview
	err := r.db.GetContext(ctx, &created, query,
		interview.StudentID, interview.CompanyID, interview.Status,
		interview.QueuePosition, interview.Priority, interview.ScheduledTime)
	if err != nil {
		if !IsUniqueViolation(err) {
			logger.Error("InterviewRepository:Create", "error", err)
		}
		return nil, err
	}
	return &created, nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Interview, error) {
	var interview entity.Interview
	err := r.db.GetContext(ctx, &interview, `SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:GetByID", "error", err)
		return nil, err
	}
	return &interview, nil
}

// GetActiveByStudentAndCompany returns the student's WAITING or IN_PROGRESS
// interview for the company, if any.
func (r *InterviewRepository) GetActiveByStudentAndCompany(ctx context.Context, studentID, companyID uuid.UUID) (*entity.Interview, error) {
	query := `
		SELECT ` + interviewColumns + ` FROM interviews
		WHERE student_id = $1 AND company_id = $2 AND status IN ('WAITING', 'IN_PROGRESS')
	`
	var interview entity.Interview
	err := r.db.GetContext(ctx, &interview, query, studentID, companyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:GetActiveByStudentAndCompany", "error", err)
		return nil, err
	}
	return &interview, nil
}

// ListWaitingByCompany returns the company's waiting set joined with the
// candidate attributes the position assigner buckets on.
func (r *InterviewRepository) ListWaitingByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.QueueEntry, error) {
	query := `
		SELECT i.id AS interview_id, i.student_id, i.priority,
		       u.is_committee, u.status AS student_status, i.created_at
		FROM interviews i
		JOIN users u ON u.id = i.student_id
		WHERE i.company_id = $1 AND i.status = 'WAITING'
	`
	var entries []entity.QueueEntry
	if err := r.db.SelectContext(ctx, &entries, query, companyID); err != nil {
		logger.Error("InterviewRepository:ListWaitingByCompany", "error", err)
		return nil, err
	}
	return entries, nil
}

const queueItemColumns = `
	i.id AS interview_id, i.student_id, u.name AS student_name, u.email AS student_email,
	u.status AS student_status, u.opportunity_type,
	i.status, i.queue_position, i.priority, i.started_at, i.created_at`

// ListQueueByCompany returns the visible queue (waiting and in-progress) in
// position order.
func (r *InterviewRepository) ListQueueByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.QueueItem, error) {
	query := `
		SELECT ` + queueItemColumns + `
		FROM interviews i
		JOIN users u ON u.id = i.student_id
		WHERE i.company_id = $1 AND i.status IN ('WAITING', 'IN_PROGRESS')
		ORDER BY i.queue_position ASC
	`
	var items []entity.QueueItem
	if err := r.db.SelectContext(ctx, &items, query, companyID); err != nil {
		logger.Error("InterviewRepository:ListQueueByCompany", "error", err)
		return nil, err
	}
	return items, nil
}

func (r *InterviewRepository) GetQueueItem(ctx context.Context, interviewID uuid.UUID) (*entity.QueueItem, error) {
	query := `
		SELECT ` + queueItemColumns + `
		FROM interviews i
		JOIN users u ON u.id = i.student_id
		WHERE i.id = $1
	`
	var item entity.QueueItem
	err := r.db.GetContext(ctx, &item, query, interviewID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:GetQueueItem", "error", err)
		return nil, err
	}
	return &item, nil
}

// NextWaiting returns the waiting interview with the lowest assigned
// position, or nil when the queue is empty.
func (r *InterviewRepository) NextWaiting(ctx context.Context, companyID uuid.UUID) (*entity.QueueItem, error) {
	query := `
		SELECT ` + queueItemColumns + `
		FROM interviews i
		JOIN users u ON u.id = i.student_id
		WHERE i.company_id = $1 AND i.status = 'WAITING' AND i.queue_position > 0
		ORDER BY i.queue_position ASC
		LIMIT 1
	`
	var item entity.QueueItem
	err := r.db.GetContext(ctx, &item, query, companyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:NextWaiting", "error", err)
		return nil, err
	}
	return &item, nil
}

func (r *InterviewRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.StudentInterview, error) {
	query := `
		SELECT i.id, i.company_id, c.name AS company_name, c.sector AS company_sector,
		       r.name AS room_name, r.location AS room_location,
		       i.status, i.queue_position, i.priority, i.scheduled_time,
		       i.started_at, i.completed_at, i.created_at
		FROM interviews i
		JOIN companies c ON c.id = i.company_id
		LEFT JOIN rooms r ON r.company_id = c.id
		WHERE i.student_id = $1
		ORDER BY i.queue_position ASC, i.created_at ASC
	`
	var interviews []entity.StudentInterview
	if err := r.db.SelectContext(ctx, &interviews, query, studentID); err != nil {
		logger.Error("InterviewRepository:ListByStudent", "error", err)
		return nil, err
	}
	return interviews, nil
}

func (r *InterviewRepository) ListForAdmin(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedAdminInterviewEntity, error) {
	offset := (queryParams.PageNumber - 1) * queryParams.PageSize

	baseQuery := `
		FROM interviews i
		JOIN users u ON u.id = i.student_id
		JOIN companies c ON c.id = i.company_id
	`

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery); err != nil {
		logger.Error("InterviewRepository:ListForAdmin:Count", "error", err)
		return nil, err
	}

	query := `
		SELECT i.id, u.name AS student_name, u.email AS student_email, c.name AS company_name,
		       i.status, i.queue_position, i.priority, i.started_at, i.completed_at, i.created_at
		` + baseQuery + `
		ORDER BY i.created_at DESC
		LIMIT $1 OFFSET $2
	`
	var items []entity.AdminInterview
	if err := r.db.SelectContext(ctx, &items, query, queryParams.PageSize, offset); err != nil {
		logger.Error("InterviewRepository:ListForAdmin:Select", "error", err)
		return nil, err
	}

	return &entity.PaginatedAdminInterviewEntity{
		Items:      items,
		TotalItems: totalItems,
		PageNumber: queryParams.PageNumber,
		PageSize:   queryParams.PageSize,
	}, nil
}

// ===================== State transitions =====================
//
// Transitions carry the expected current status in the WHERE clause so a
// lost race surfaces as zero rows affected instead of a corrupt state.

func (r *InterviewRepository) MarkInProgress(ctx context.Context, id uuid.UUID, startedAt time.Time) (bool, error) {
	res, err := r.db.ExecResultContext(ctx,
		`UPDATE interviews SET status = 'IN_PROGRESS', started_at = $2, updated_at = NOW()
		 WHERE id = $1 AND status = 'WAITING'`,
		id, startedAt)
	if err != nil {
		if !IsUniqueViolation(err) {
			logger.Error("InterviewRepository:MarkInProgress", "error", err)
		}
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *InterviewRepository) MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error) {
	res, err := r.db.ExecResultContext(ctx,
		`UPDATE interviews SET status = 'COMPLETED', completed_at = $2, queue_position = 0, updated_at = NOW()
		 WHERE id = $1 AND status = 'IN_PROGRESS'`,
		id, completedAt)
	if err != nil {
		logger.Error("InterviewRepository:MarkCompleted", "error", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *InterviewRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecResultContext(ctx,
		`UPDATE interviews SET status = 'CANCELLED', queue_position = 0, updated_at = NOW()
		 WHERE id = $1 AND status = 'WAITING'`,
		id)
	if err != nil {
		logger.Error("InterviewRepository:MarkCancelled", "error", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ResetToWaiting is the administrative IN_PROGRESS -> WAITING correction;
// timestamps are cleared so the interview looks freshly queued.
func (r *InterviewRepository) ResetToWaiting(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecResultContext(ctx,
		`UPDATE interviews SET status = 'WAITING', started_at = NULL, completed_at = NULL, updated_at = NOW()
		 WHERE id = $1 AND status = 'IN_PROGRESS'`,
		id)
	if err != nil {
		logger.Error("InterviewRepository:ResetToWaiting", "error", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ReassignQueuePositions persists the assigner's total order in a single
// transaction: one statement for the ordered set, one to zero out any
// waiting stragglers not in it. Readers never observe a partial
// renumbering.
func (r *InterviewRepository) ReassignQueuePositions(ctx context.Context, companyID uuid.UUID, orderedIDs []uuid.UUID) error {
	err := r.db.Transact(ctx, func(tx *sqlx.Tx) error {
		if len(orderedIDs) > 0 {
			_, err := tx.ExecContext(ctx, `
				UPDATE interviews i
				SET queue_position = x.ord, updated_at = NOW()
				FROM (
					SELECT t.id, t.ordinality AS ord
					FROM unnest($1::uuid[]) WITH ORDINALITY AS t(id, ordinality)
				) x
				WHERE i.id = x.id
			`, pq.Array(orderedIDs))
			if err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE interviews SET queue_position = 0, updated_at = NOW()
			WHERE company_id = $1 AND status = 'WAITING' AND NOT (id = ANY($2::uuid[]))
		`, companyID, pq.Array(orderedIDs))
		return err
	})
	if err != nil {
		logger.Error("InterviewRepository:ReassignQueuePositions", "error", err, "company_id", companyID)
		return err
	}
	return nil
}

// ListNotifiable returns waiting interviews inside the notify window that
// have not been notified yet.
func (r *InterviewRepository) ListNotifiable(ctx context.Context, companyID uuid.UUID, maxPosition int) ([]entity.Interview, error) {
	query := `
		SELECT ` + interviewColumns + ` FROM interviews
		WHERE company_id = $1 AND status = 'WAITING'
		  AND queue_position > 0 AND queue_position <= $2
		  AND notification_sent = false
	`
	var interviews []entity.Interview
	if err := r.db.SelectContext(ctx, &interviews, query, companyID, maxPosition); err != nil {
		logger.Error("InterviewRepository:ListNotifiable", "error", err)
		return nil, err
	}
	return interviews, nil
}

func (r *InterviewRepository) MarkNotificationSent(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx,
		`UPDATE interviews SET notification_sent = true, updated_at = NOW() WHERE id = $1`, id); err != nil {
		logger.Error("InterviewRepository:MarkNotificationSent", "error", err)
		return err
	}
	return nil
}
