package service

import (
	"context"
	"encoding/json"
	"time"

	"forum-api/core/cache"
	"forum-api/core/constants"
	"forum-api/core/errors"
	"forum-api/core/logger"
	"forum-api/core/params"
	companyRepository "forum-api/modules/company/repository"
	"forum-api/modules/interview/dto"
	"forum-api/modules/interview/entity"
	"forum-api/modules/interview/repository"
	roomService "forum-api/modules/room/service"
	userRepository "forum-api/modules/user/repository"

	"github.com/google/uuid"
)

// InterviewServiceInterface orchestrates the interview lifecycle: queue
// joins, committee start/complete/absence, student cancellation and
// administrative overrides. All position recomputation goes through the
// queue service under the company lock.
type InterviewServiceInterface interface {
	SelectCompanies(ctx context.Context, studentID uuid.UUID, companyIDs []uuid.UUID) (*dto.SelectCompaniesResponse, *errors.AppError)
	Start(ctx context.Context, interviewID, committeeMemberID uuid.UUID) *errors.AppError
	Complete(ctx context.Context, interviewID, committeeMemberID uuid.UUID) *errors.AppError
	Cancel(ctx context.Context, interviewID, studentID uuid.UUID) *errors.AppError
	MarkAbsent(ctx context.Context, interviewID uuid.UUID) *errors.AppError
	AdminOverrideStatus(ctx context.Context, interviewID uuid.UUID, newStatus entity.InterviewStatus) *errors.AppError

	GetQueueForCompany(ctx context.Context, companyID uuid.UUID) (*dto.CompanyQueueResponse, *errors.AppError)
	GetRoomView(ctx context.Context, committeeMemberID uuid.UUID) (*dto.RoomViewResponse, *errors.AppError)
	NextStudent(ctx context.Context, committeeMemberID uuid.UUID) (*dto.NextStudentResponse, *errors.AppError)
	MyInterviews(ctx context.Context, studentID uuid.UUID) ([]entity.StudentInterview, *errors.AppError)
	QueueStatus(ctx context.Context, studentID uuid.UUID) (*dto.QueueStatusResponse, *errors.AppError)
	ListForAdmin(ctx context.Context, query params.QueryParams) (*entity.PaginatedAdminInterviewEntity, *errors.AppError)
}

type interviewService struct {
	interviewRepo repository.InterviewRepositoryInterface
	userRepo      userRepository.UserRepositoryInterface
	companyRepo   companyRepository.CompanyRepositoryInterface
	rooms         roomService.RoomServiceInterface
	queue         QueueServiceInterface
	cache         *cache.Cache
}

func NewInterviewService(
	interviewRepo repository.InterviewRepositoryInterface,
	userRepo userRepository.UserRepositoryInterface,
	companyRepo companyRepository.CompanyRepositoryInterface,
	rooms roomService.RoomServiceInterface,
	queue QueueServiceInterface,
	c *cache.Cache,
) InterviewServiceInterface {
	return &interviewService{
		interviewRepo: interviewRepo,
		userRepo:      userRepo,
		companyRepo:   companyRepo,
		rooms:         rooms,
		queue:         queue,
		cache:         c,
	}
}

// SelectCompanies joins the student to each company's queue. Preconditions
// for every company are validated before the first interview is created.
func (s *interviewService) SelectCompanies(ctx context.Context, studentID uuid.UUID, companyIDs []uuid.UUID) (*dto.SelectCompaniesResponse, *errors.AppError) {
	logger.Info("InterviewService:SelectCompanies:Start", "student_id", studentID, "companies", len(companyIDs))

	if len(companyIDs) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "select at least one company", nil)
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load student", err)
	}
	if student == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "student not found", nil)
	}

	// Validate every company up front so a failure mid-list leaves nothing
	// half-joined.
	companies := make(map[uuid.UUID]string, len(companyIDs))
	durations := make(map[uuid.UUID]int, len(companyIDs))
	for _, companyID := range companyIDs {
		company, err := s.companyRepo.GetByID(ctx, companyID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load company", err)
		}
		if company == nil {
			return nil, errors.NewAppError(errors.ErrNotFound, "company not found", nil)
		}
		if !company.IsActive {
			return nil, errors.NewAppError(errors.ErrCompanyUnavailable, "company is not accepting interviews", nil)
		}

		existing, err := s.interviewRepo.GetActiveByStudentAndCompany(ctx, studentID, companyID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to check existing selection", err)
		}
		if existing != nil {
			return nil, errors.NewAppError(errors.ErrAlreadySelected, "already queued for this company", nil)
		}

		companies[companyID] = company.Name
		duration := constants.DefaultInterviewDurationMinutes
		if company.EstimatedInterviewDuration != nil && *company.EstimatedInterviewDuration > 0 {
			duration = *company.EstimatedInterviewDuration
		}
		durations[companyID] = duration
	}

	priority := CalculatePriorityForUser(student)

	selections := make([]dto.CompanySelection, 0, len(companyIDs))
	for _, companyID := range companyIDs {
		var selection dto.CompanySelection
		appErr := s.queue.WithCompanyLock(companyID, func() *errors.AppError {
			created, err := s.interviewRepo.Create(ctx, &entity.Interview{
				StudentID: studentID,
				CompanyID: companyID,
				Status:    entity.StatusWaiting,
				Priority:  priority,
			})
			if err != nil {
				// The partial unique index closes the join race the
				// precondition check above cannot.
				if repository.IsUniqueViolation(err) {
					return errors.NewAppError(errors.ErrAlreadySelected, "already queued for this company", err)
				}
				return errors.NewAppError(errors.ErrStoreUnavailable, "failed to create interview", err)
			}

			positions, appErr := s.queue.AssignPositions(ctx, companyID)
			if appErr != nil {
				return appErr
			}

			position := positions[created.ID]
			wait := (position - 1) * durations[companyID]
			if wait < 0 {
				wait = 0
			}
			selection = dto.CompanySelection{
				CompanyID:            companyID,
				CompanyName:          companies[companyID],
				QueuePosition:        position,
				EstimatedWaitMinutes: wait,
			}
			return nil
		})
		if appErr != nil {
			return nil, appErr
		}
		selections = append(selections, selection)
	}

	logger.Info("InterviewService:SelectCompanies:Success", "student_id", studentID, "joined", len(selections))
	return &dto.SelectCompaniesResponse{Interviews: selections}, nil
}

// Start transitions a waiting interview to IN_PROGRESS and claims the
// company's room. Positions are deliberately not reassigned here: the
// started interview simply leaves the waiting set, and the remaining
// numbering is refreshed on the next join, completion or cancellation.
func (s *interviewService) Start(ctx context.Context, interviewID, committeeMemberID uuid.UUID) *errors.AppError {
	logger.Info("InterviewService:Start", "interview_id", interviewID, "committee_id", committeeMemberID)

	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load interview", err)
	}
	if interview == nil {
		return errors.NewAppError(errors.ErrNotFound, "interview not found", nil)
	}

	return s.queue.WithCompanyLock(interview.CompanyID, func() *errors.AppError {
		if interview.Status != entity.StatusWaiting {
			return errors.NewAppError(errors.ErrInvalidState, "interview cannot be started", nil)
		}

		room, appErr := s.rooms.RoomForCompany(ctx, interview.CompanyID)
		if appErr != nil {
			return appErr
		}
		if room == nil {
			return errors.NewAppError(errors.ErrNoRoomAssigned, "no room assigned to this company", nil)
		}

		if appErr := s.rooms.Claim(ctx, room.ID, interviewID, committeeMemberID); appErr != nil {
			return appErr
		}

		ok, err := s.interviewRepo.MarkInProgress(ctx, interviewID, time.Now())
		if err != nil || !ok {
			// Undo the claim; either the row changed under us or the
			// one-in-progress-per-company index fired.
			if relErr := s.rooms.Release(ctx, room.ID); relErr != nil {
				logger.Error("InterviewService:Start:ReleaseAfterFailure", "error", relErr, "room_id", room.ID)
			}
			if err != nil {
				if repository.IsUniqueViolation(err) {
					return errors.NewAppError(errors.ErrRoomBusy, "an interview is already in progress for this company", err)
				}
				return errors.NewAppError(errors.ErrStoreUnavailable, "failed to start interview", err)
			}
			return errors.NewAppError(errors.ErrInvalidState, "interview cannot be started", nil)
		}

		logger.Info("InterviewService:Start:Success", "interview_id", interviewID, "room_id", room.ID)
		return nil
	})
}

// Complete finishes a running interview, frees the room and renumbers the
// remaining waiting queue.
func (s *interviewService) Complete(ctx context.Context, interviewID, committeeMemberID uuid.UUID) *errors.AppError {
	logger.Info("InterviewService:Complete", "interview_id", interviewID, "committee_id", committeeMemberID)

	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load interview", err)
	}
	if interview == nil {
		return errors.NewAppError(errors.ErrNotFound, "interview not found", nil)
	}

	return s.queue.WithCompanyLock(interview.CompanyID, func() *errors.AppError {
		if interview.Status != entity.StatusInProgress {
			return errors.NewAppError(errors.ErrInvalidState, "interview is not in progress", nil)
		}

		room, appErr := s.rooms.RoomForCompany(ctx, interview.CompanyID)
		if appErr != nil {
			return appErr
		}
		if room == nil {
			return errors.NewAppError(errors.ErrNotFound, "room not found", nil)
		}
		if !room.HasCommitteeMember(committeeMemberID) {
			return errors.NewAppError(errors.ErrAccessDenied, "not authorized for this room", nil)
		}

		ok, err := s.interviewRepo.MarkCompleted(ctx, interviewID, time.Now())
		if err != nil {
			return errors.NewAppError(errors.ErrStoreUnavailable, "failed to complete interview", err)
		}
		if !ok {
			return errors.NewAppError(errors.ErrInvalidState, "interview is not in progress", nil)
		}

		if appErr := s.rooms.Release(ctx, room.ID); appErr != nil {
			return appErr
		}

		if _, appErr := s.queue.AssignPositions(ctx, interview.CompanyID); appErr != nil {
			return appErr
		}

		logger.Info("InterviewService:Complete:Success", "interview_id", interviewID)
		return nil
	})
}

// Cancel is the student-initiated withdrawal of a waiting interview.
func (s *interviewService) Cancel(ctx context.Context, interviewID, studentID uuid.UUID) *errors.AppError {
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load interview", err)
	}
	if interview == nil {
		return errors.NewAppError(errors.ErrNotFound, "interview not found", nil)
	}
	if interview.StudentID != studentID {
		return errors.NewAppError(errors.ErrNotOwner, "interview belongs to another student", nil)
	}

	return s.cancelWaiting(ctx, interview, "InterviewService:Cancel")
}

// MarkAbsent is the committee-initiated cancellation of a waiting
// interview whose student did not show up. Kept as a distinct operation
// from Cancel for audit trails even though the transition is identical.
func (s *interviewService) MarkAbsent(ctx context.Context, interviewID uuid.UUID) *errors.AppError {
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load interview", err)
	}
	if interview == nil {
		return errors.NewAppError(errors.ErrNotFound, "interview not found", nil)
	}

	return s.cancelWaiting(ctx, interview, "InterviewService:MarkAbsent")
}

func (s *interviewService) cancelWaiting(ctx context.Context, interview *entity.Interview, op string) *errors.AppError {
	return s.queue.WithCompanyLock(interview.CompanyID, func() *errors.AppError {
		if interview.Status != entity.StatusWaiting {
			return errors.NewAppError(errors.ErrInvalidState, "only waiting interviews can be cancelled", nil)
		}

		ok, err := s.interviewRepo.MarkCancelled(ctx, interview.ID)
		if err != nil {
			return errors.NewAppError(errors.ErrStoreUnavailable, "failed to cancel interview", err)
		}
		if !ok {
			return errors.NewAppError(errors.ErrInvalidState, "only waiting interviews can be cancelled", nil)
		}

		if _, appErr := s.queue.AssignPositions(ctx, interview.CompanyID); appErr != nil {
			return appErr
		}

		logger.Info(op+":Success", "interview_id", interview.ID)
		return nil
	})
}

// AdminOverrideStatus applies the regular transition rules driven by the
// target status, with one administrative exception: IN_PROGRESS may be
// moved back to WAITING (timestamps cleared, occupied room freed).
// Terminal states stay immutable.
func (s *interviewService) AdminOverrideStatus(ctx context.Context, interviewID uuid.UUID, newStatus entity.InterviewStatus) *errors.AppError {
	logger.Info("InterviewService:AdminOverrideStatus", "interview_id", interviewID, "new_status", newStatus)

	if !newStatus.Valid() {
		return errors.NewAppError(errors.ErrInvalidInput, "unknown interview status", nil)
	}

	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load interview", err)
	}
	if interview == nil {
		return errors.NewAppError(errors.ErrNotFound, "interview not found", nil)
	}

	return s.queue.WithCompanyLock(interview.CompanyID, func() *errors.AppError {
		if newStatus == interview.Status {
			return nil
		}
		if interview.Status.Terminal() {
			return errors.NewAppError(errors.ErrInvalidState, "interview is in a terminal state", nil)
		}

		var ok bool
		var err error
		switch {
		case interview.Status == entity.StatusWaiting && newStatus == entity.StatusInProgress:
			ok, err = s.interviewRepo.MarkInProgress(ctx, interviewID, time.Now())
		case interview.Status == entity.StatusWaiting && newStatus == entity.StatusCancelled:
			ok, err = s.interviewRepo.MarkCancelled(ctx, interviewID)
		case interview.Status == entity.StatusInProgress && newStatus == entity.StatusCompleted:
			ok, err = s.interviewRepo.MarkCompleted(ctx, interviewID, time.Now())
			if err == nil && ok {
				if appErr := s.rooms.ReleaseByInterview(ctx, interviewID); appErr != nil {
					return appErr
				}
			}
		case interview.Status == entity.StatusInProgress && newStatus == entity.StatusWaiting:
			ok, err = s.interviewRepo.ResetToWaiting(ctx, interviewID)
			if err == nil && ok {
				if appErr := s.rooms.ReleaseByInterview(ctx, interviewID); appErr != nil {
					return appErr
				}
			}
		default:
			return errors.NewAppError(errors.ErrInvalidState, "transition not permitted", nil)
		}
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return errors.NewAppError(errors.ErrRoomBusy, "an interview is already in progress for this company", err)
			}
			return errors.NewAppError(errors.ErrStoreUnavailable, "failed to override status", err)
		}
		if !ok {
			return errors.NewAppError(errors.ErrInvalidState, "transition not permitted", nil)
		}

		if _, appErr := s.queue.AssignPositions(ctx, interview.CompanyID); appErr != nil {
			return appErr
		}

		logger.Info("InterviewService:AdminOverrideStatus:Success",
			"interview_id", interviewID, "from", interview.Status, "to", newStatus)
		return nil
	})
}

// ===================== Read views =====================

// GetQueueForCompany serves the polled queue view behind a short-lived
// redis snapshot. The snapshot is invalidated on every reassignment, so
// staleness is bounded by the TTL.
func (s *interviewService) GetQueueForCompany(ctx context.Context, companyID uuid.UUID) (*dto.CompanyQueueResponse, *errors.AppError) {
	if s.cache != nil {
		if b, err := s.cache.GetQueueSnapshot(ctx, companyID.String()); err == nil && b != nil {
			var cached dto.CompanyQueueResponse
			if err := json.Unmarshal(b, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load company", err)
	}
	if company == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "company not found", nil)
	}

	items, err := s.interviewRepo.ListQueueByCompany(ctx, companyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load queue", err)
	}
	resp := &dto.CompanyQueueResponse{CompanyID: companyID, Queue: items}

	if s.cache != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.cache.SetQueueSnapshot(ctx, companyID.String(), b); err != nil {
				logger.Warn("InterviewService:GetQueueForCompany:SetSnapshot", "error", err)
			}
		}
	}
	return resp, nil
}

func (s *interviewService) GetRoomView(ctx context.Context, committeeMemberID uuid.UUID) (*dto.RoomViewResponse, *errors.AppError) {
	room, appErr := s.rooms.RoomForCommitteeMember(ctx, committeeMemberID)
	if appErr != nil {
		return nil, appErr
	}
	if room == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no room assigned to this committee member", nil)
	}

	view := &dto.RoomViewResponse{Room: room, CompanyID: room.CompanyID}

	if room.CompanyID != nil {
		company, err := s.companyRepo.GetByID(ctx, *room.CompanyID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load company", err)
		}
		if company != nil {
			view.CompanyName = company.Name
		}

		items, err := s.interviewRepo.ListQueueByCompany(ctx, *room.CompanyID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load queue", err)
		}
		view.Queue = items
	}

	if room.CurrentInterviewID != nil {
		current, err := s.interviewRepo.GetQueueItem(ctx, *room.CurrentInterviewID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load current interview", err)
		}
		view.CurrentInterview = current
	}

	return view, nil
}

func (s *interviewService) NextStudent(ctx context.Context, committeeMemberID uuid.UUID) (*dto.NextStudentResponse, *errors.AppError) {
	room, appErr := s.rooms.RoomForCommitteeMember(ctx, committeeMemberID)
	if appErr != nil {
		return nil, appErr
	}
	if room == nil || room.CompanyID == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no room assigned to this committee member", nil)
	}

	next, err := s.interviewRepo.NextWaiting(ctx, *room.CompanyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load next student", err)
	}
	return &dto.NextStudentResponse{Next: next}, nil
}

func (s *interviewService) MyInterviews(ctx context.Context, studentID uuid.UUID) ([]entity.StudentInterview, *errors.AppError) {
	interviews, err := s.interviewRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load interviews", err)
	}
	return interviews, nil
}

func (s *interviewService) QueueStatus(ctx context.Context, studentID uuid.UUID) (*dto.QueueStatusResponse, *errors.AppError) {
	interviews, err := s.interviewRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load interviews", err)
	}

	resp := &dto.QueueStatusResponse{Positions: []dto.QueueStatusEntry{}, FetchedAt: time.Now()}
	for _, iv := range interviews {
		if iv.Status != entity.StatusWaiting && iv.Status != entity.StatusInProgress {
			continue
		}
		resp.Positions = append(resp.Positions, dto.QueueStatusEntry{
			InterviewID:   iv.ID,
			CompanyID:     iv.CompanyID,
			CompanyName:   iv.CompanyName,
			Status:        iv.Status,
			QueuePosition: iv.QueuePosition,
		})
	}
	return resp, nil
}

func (s *interviewService) ListForAdmin(ctx context.Context, query params.QueryParams) (*entity.PaginatedAdminInterviewEntity, *errors.AppError) {
	page, err := s.interviewRepo.ListForAdmin(ctx, query)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to list interviews", err)
	}
	return page, nil
}
