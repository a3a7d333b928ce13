package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"forum-api/core/constants"
	coreEntity "forum-api/core/entity"
	"forum-api/core/logger"
	"forum-api/core/params"
	companyRepository "forum-api/modules/company/repository"
	interviewRepository "forum-api/modules/interview/repository"
	"forum-api/modules/notification/dto"
	"forum-api/modules/notification/entity"
	"forum-api/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// queuePositionPayload is the asynq task payload for a position alert scan.
type queuePositionPayload struct {
	CompanyID uuid.UUID `json:"company_id"`
}

// NewQueuePositionTask builds the task enqueued whenever a company's queue
// positions change.
func NewQueuePositionTask(companyID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(queuePositionPayload{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskTypeQueueNotification, payload), nil
}

type NotificationService struct {
	repo          repository.NotificationRepositoryInterface
	interviewRepo interviewRepository.InterviewRepositoryInterface
	companyRepo   companyRepository.CompanyRepositoryInterface
	client        *asynq.Client
}

func NewNotificationService(
	repo repository.NotificationRepositoryInterface,
	interviewRepo interviewRepository.InterviewRepositoryInterface,
	companyRepo companyRepository.CompanyRepositoryInterface,
	client *asynq.Client,
) *NotificationService {
	return &NotificationService{
		repo:          repo,
		interviewRepo: interviewRepo,
		companyRepo:   companyRepo,
		client:        client,
	}
}

// QueuePositionsChanged enqueues a background scan of the company's queue.
// The scan runs off the request path; a lost task only delays the alert
// until the next reassignment.
func (s *NotificationService) QueuePositionsChanged(ctx context.Context, companyID uuid.UUID) {
	if s.client == nil {
		return
	}
	task, err := NewQueuePositionTask(companyID)
	if err != nil {
		logger.Error("NotificationService:QueuePositionsChanged:BuildTask", "error", err)
		return
	}
	if _, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)); err != nil {
		logger.Error("NotificationService:QueuePositionsChanged:Enqueue", "error", err, "company_id", companyID)
	}
}

// HandleQueuePositionTask is the asynq handler: it notifies every waiting
// student inside the alert window exactly once per approach.
func (s *NotificationService) HandleQueuePositionTask(ctx context.Context, t *asynq.Task) error {
	var payload queuePositionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal queue position payload: %w", err)
	}

	company, err := s.companyRepo.GetByID(ctx, payload.CompanyID)
	if err != nil {
		return err
	}
	if company == nil {
		return nil
	}

	notifiable, err := s.interviewRepo.ListNotifiable(ctx, payload.CompanyID, constants.NotifyPositionThreshold)
	if err != nil {
		return err
	}

	for _, iv := range notifiable {
		notif := &entity.Notification{
			UserID:  iv.StudentID,
			Title:   "Your turn is coming up",
			Message: fmt.Sprintf("You are position %d in the queue for %s.", iv.QueuePosition, company.Name),
			Type:    entity.TypeQueuePosition,
			Data: entity.JSONB{
				"company_id":     payload.CompanyID.String(),
				"interview_id":   iv.ID.String(),
				"queue_position": iv.QueuePosition,
			},
			IsRead: false,
			BaseEntity: coreEntity.BaseEntity{
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
		}
		if err := s.repo.Create(ctx, notif); err != nil {
			return err
		}
		if err := s.interviewRepo.MarkNotificationSent(ctx, iv.ID); err != nil {
			return err
		}
	}

	if len(notifiable) > 0 {
		logger.Info("NotificationService:HandleQueuePositionTask:Notified",
			"company_id", payload.CompanyID, "count", len(notifiable))
	}
	return nil
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
		IsRead:  false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	return s.repo.Create(ctx, notif)
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
