package service

import (
	"context"
	"sort"
	"sync"

	"forum-api/core/cache"
	"forum-api/core/constants"
	"forum-api/core/errors"
	"forum-api/core/logger"
	"forum-api/modules/interview/entity"
	"forum-api/modules/interview/repository"
	userentity "forum-api/modules/user/entity"

	"github.com/google/uuid"
)

// Notifier is told when a company's positions changed so it can alert
// students whose turn is near. Optional.
type Notifier interface {
	QueuePositionsChanged(ctx context.Context, companyID uuid.UUID)
}

// QueueServiceInterface is the position assigner contract.
type QueueServiceInterface interface {
	WithCompanyLock(companyID uuid.UUID, fn func() *errors.AppError) *errors.AppError
	AssignPositions(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]int, *errors.AppError)
}

// QueueService recomputes queue positions for a company's waiting set.
//
// All queue-mutating operations funnel through WithCompanyLock, which
// serializes read-modify-write cycles per company in-process (the service
// runs as a single instance; the partial unique indexes on interviews are
// the durable backstop).
type QueueService struct {
	interviewRepo repository.InterviewRepositoryInterface
	cache         *cache.Cache
	notifier      Notifier

	locks sync.Map // companyID -> *sync.Mutex
}

func NewQueueService(interviewRepo repository.InterviewRepositoryInterface, c *cache.Cache) *QueueService {
	return &QueueService{
		interviewRepo: interviewRepo,
		cache:         c,
	}
}

// SetNotifier attaches the position notifier after construction; the
// notification module depends on the interview repository, so it is wired
// second.
func (s *QueueService) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *QueueService) lockFor(companyID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(companyID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// WithCompanyLock runs fn while holding the company's queue lock.
func (s *QueueService) WithCompanyLock(companyID uuid.UUID, fn func() *errors.AppError) *errors.AppError {
	mu := s.lockFor(companyID)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// AssignPositions recomputes and persists positions 1..N for the company's
// waiting interviews and returns the new position of every interview.
// Callers must hold the company lock (directly or via WithCompanyLock).
func (s *QueueService) AssignPositions(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]int, *errors.AppError) {
	entries, err := s.interviewRepo.ListWaitingByCompany(ctx, companyID)
	if err != nil {
		logger.Error("QueueService:AssignPositions:ListWaiting", "error", err, "company_id", companyID)
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load waiting queue", err)
	}

	positions := make(map[uuid.UUID]int, len(entries))
	if len(entries) == 0 {
		s.afterReassign(ctx, companyID)
		return positions, nil
	}

	ordered := orderEntries(entries)

	orderedIDs := make([]uuid.UUID, len(ordered))
	for i, e := range ordered {
		orderedIDs[i] = e.InterviewID
		positions[e.InterviewID] = i + 1
	}

	if err := s.interviewRepo.ReassignQueuePositions(ctx, companyID, orderedIDs); err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to persist queue positions", err)
	}

	logger.Info("QueueService:AssignPositions:Done", "company_id", companyID, "count", len(orderedIDs))
	s.afterReassign(ctx, companyID)
	return positions, nil
}

func (s *QueueService) afterReassign(ctx context.Context, companyID uuid.UUID) {
	if s.cache != nil {
		if err := s.cache.InvalidateQueueSnapshot(ctx, companyID.String()); err != nil {
			logger.Warn("QueueService:AssignPositions:InvalidateSnapshot", "error", err)
		}
	}
	if s.notifier != nil {
		s.notifier.QueuePositionsChanged(ctx, companyID)
	}
}

// orderEntries produces the fairness-weighted total order: sort by stored
// priority (falling back to committee/affiliation ties on creation time),
// bucket by candidate group, then interleave 3 committee / 2 external /
// 2 internal per cycle so no group monopolizes consecutive slots.
func orderEntries(entries []entity.QueueEntry) []entity.QueueEntry {
	sorted := make([]entity.QueueEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var committee, externe, ensa []entity.QueueEntry
	for _, e := range sorted {
		switch {
		case e.IsCommittee:
			committee = append(committee, e)
		case e.StudentStatus != nil && *e.StudentStatus == userentity.StatusExterne:
			externe = append(externe, e)
		default:
			ensa = append(ensa, e)
		}
	}

	// Index cursors over the three pre-sorted buckets; quotas repeat until
	// every bucket is drained.
	ordered := make([]entity.QueueEntry, 0, len(sorted))
	var ci, ei, ii int
	for ci < len(committee) || ei < len(externe) || ii < len(ensa) {
		for k := 0; k < constants.QueueQuotaCommittee && ci < len(committee); k++ {
			ordered = append(ordered, committee[ci])
			ci++
		}
		for k := 0; k < constants.QueueQuotaExternal && ei < len(externe); k++ {
			ordered = append(ordered, externe[ei])
			ei++
		}
		for k := 0; k < constants.QueueQuotaInternal && ii < len(ensa); k++ {
			ordered = append(ordered, ensa[ii])
			ii++
		}
	}
	return ordered
}
