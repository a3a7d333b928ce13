package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"forum-api/core/params"
	companyentity "forum-api/modules/company/entity"
	"forum-api/modules/interview/entity"
	roomentity "forum-api/modules/room/entity"
	userentity "forum-api/modules/user/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// In-memory repositories backing the service tests. They enforce the same
// uniqueness rules as the schema's partial indexes.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userentity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*userentity.User{}}
}

func (r *fakeUserRepo) add(u *userentity.User) *userentity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(ctx context.Context, u *userentity.User) (*userentity.User, error) {
	return r.add(u), nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*userentity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*userentity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) CountAdmins(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.Role == userentity.RoleAdmin {
			n++
		}
	}
	return n, nil
}

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[uuid.UUID]*companyentity.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: map[uuid.UUID]*companyentity.Company{}}
}

func (r *fakeCompanyRepo) add(c *companyentity.Company) *companyentity.Company {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.companies[c.ID] = c
	return c
}

func (r *fakeCompanyRepo) Create(ctx context.Context, c *companyentity.Company) (*companyentity.Company, error) {
	return r.add(c), nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*companyentity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompanyRepo) List(ctx context.Context, q params.QueryParams) (*companyentity.PaginatedCompanyEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []companyentity.Company
	for _, c := range r.companies {
		items = append(items, *c)
	}
	return &companyentity.PaginatedCompanyEntity{
		Items: items, TotalItems: len(items), PageNumber: q.PageNumber, PageSize: q.PageSize,
	}, nil
}

func (r *fakeCompanyRepo) ListActiveWithQueueCount(ctx context.Context) ([]companyentity.CompanyWithQueueCount, error) {
	return nil, nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, c *companyentity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) SetLogoKey(ctx context.Context, id uuid.UUID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.companies[id]; ok {
		c.LogoKey = &key
	}
	return nil
}

func (r *fakeCompanyRepo) SetRoom(ctx context.Context, id uuid.UUID, roomID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.companies[id]; ok {
		c.RoomID = roomID
	}
	return nil
}

func (r *fakeCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.companies, id)
	return nil
}

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*roomentity.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[uuid.UUID]*roomentity.Room{}}
}

func (r *fakeRoomRepo) add(room *roomentity.Room) *roomentity.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	r.rooms[room.ID] = room
	return room
}

func (r *fakeRoomRepo) Create(ctx context.Context, room *roomentity.Room) (*roomentity.Room, error) {
	return r.add(room), nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*roomentity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (r *fakeRoomRepo) GetByCompany(ctx context.Context, companyID uuid.UUID) (*roomentity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.CompanyID != nil && *room.CompanyID == companyID {
			cp := *room
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRoomRepo) GetByCommitteeMember(ctx context.Context, userID uuid.UUID) (*roomentity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		for _, m := range room.CommitteeMemberIDs {
			if m == userID {
				cp := *room
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeRoomRepo) List(ctx context.Context) ([]roomentity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rooms []roomentity.Room
	for _, room := range r.rooms {
		rooms = append(rooms, *room)
	}
	return rooms, nil
}

func (r *fakeRoomRepo) Update(ctx context.Context, room *roomentity.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[room.ID]; ok {
		existing.Name = room.Name
		existing.Location = room.Location
	}
	return nil
}

func (r *fakeRoomRepo) SetCompany(ctx context.Context, id uuid.UUID, companyID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[id]; ok {
		room.CompanyID = companyID
	}
	return nil
}

func (r *fakeRoomRepo) SetCommitteeMembers(ctx context.Context, id uuid.UUID, memberIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[id]; ok {
		room.CommitteeMemberIDs = memberIDs
	}
	return nil
}

func (r *fakeRoomRepo) ClaimInterview(ctx context.Context, roomID, interviewID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok || room.CurrentInterviewID != nil {
		return false, nil
	}
	room.CurrentInterviewID = &interviewID
	return true, nil
}

func (r *fakeRoomRepo) ReleaseInterview(ctx context.Context, roomID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[roomID]; ok {
		room.CurrentInterviewID = nil
	}
	return nil
}

func (r *fakeRoomRepo) ReleaseInterviewByID(ctx context.Context, interviewID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.CurrentInterviewID != nil && *room.CurrentInterviewID == interviewID {
			room.CurrentInterviewID = nil
		}
	}
	return nil
}

func (r *fakeRoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
	return nil
}

// fakeInterviewRepo mirrors the schema's partial unique indexes: one active
// selection per student and company, one IN_PROGRESS per company.
type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews map[uuid.UUID]*entity.Interview
	users      *fakeUserRepo
	companies  *fakeCompanyRepo
	seq        int
}

func newFakeInterviewRepo(users *fakeUserRepo, companies *fakeCompanyRepo) *fakeInterviewRepo {
	return &fakeInterviewRepo{
		interviews: map[uuid.UUID]*entity.Interview{},
		users:      users,
		companies:  companies,
	}
}

func uniqueViolation() error {
	return &pq.Error{Code: "23505"}
}

func (r *fakeInterviewRepo) Create(ctx context.Context, iv *entity.Interview) (*entity.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.interviews {
		if existing.StudentID == iv.StudentID && existing.CompanyID == iv.CompanyID &&
			(existing.Status == entity.StatusWaiting || existing.Status == entity.StatusInProgress) {
			return nil, uniqueViolation()
		}
	}
	cp := *iv
	cp.ID = uuid.New()
	r.seq++
	cp.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	cp.UpdatedAt = cp.CreatedAt
	r.interviews[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeInterviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok {
		return nil, nil
	}
	cp := *iv
	return &cp, nil
}

func (r *fakeInterviewRepo) GetActiveByStudentAndCompany(ctx context.Context, studentID, companyID uuid.UUID) (*entity.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, iv := range r.interviews {
		if iv.StudentID == studentID && iv.CompanyID == companyID &&
			(iv.Status == entity.StatusWaiting || iv.Status == entity.StatusInProgress) {
			cp := *iv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInterviewRepo) ListWaitingByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []entity.QueueEntry
	for _, iv := range r.interviews {
		if iv.CompanyID != companyID || iv.Status != entity.StatusWaiting {
			continue
		}
		u := r.users.users[iv.StudentID]
		entry := entity.QueueEntry{
			InterviewID: iv.ID,
			StudentID:   iv.StudentID,
			Priority:    iv.Priority,
			CreatedAt:   iv.CreatedAt,
		}
		if u != nil {
			entry.IsCommittee = u.IsCommittee
			entry.StudentStatus = u.Status
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *fakeInterviewRepo) queueItem(iv *entity.Interview) entity.QueueItem {
	item := entity.QueueItem{
		InterviewID:   iv.ID,
		StudentID:     iv.StudentID,
		Status:        iv.Status,
		QueuePosition: iv.QueuePosition,
		Priority:      iv.Priority,
		StartedAt:     iv.StartedAt,
		CreatedAt:     iv.CreatedAt,
	}
	if u := r.users.users[iv.StudentID]; u != nil {
		item.StudentName = u.Name
		item.StudentEmail = u.Email
		item.StudentStatus = u.Status
		item.Opportunity = u.OpportunityType
	}
	return item
}

func (r *fakeInterviewRepo) ListQueueByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []entity.QueueItem
	for _, iv := range r.interviews {
		if iv.CompanyID == companyID && (iv.Status == entity.StatusWaiting || iv.Status == entity.StatusInProgress) {
			items = append(items, r.queueItem(iv))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].QueuePosition < items[j].QueuePosition })
	return items, nil
}

func (r *fakeInterviewRepo) GetQueueItem(ctx context.Context, interviewID uuid.UUID) (*entity.QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[interviewID]
	if !ok {
		return nil, nil
	}
	item := r.queueItem(iv)
	return &item, nil
}

func (r *fakeInterviewRepo) NextWaiting(ctx context.Context, companyID uuid.UUID) (*entity.QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *entity.Interview
	for _, iv := range r.interviews {
		if iv.CompanyID != companyID || iv.Status != entity.StatusWaiting || iv.QueuePosition <= 0 {
			continue
		}
		if best == nil || iv.QueuePosition < best.QueuePosition {
			best = iv
		}
	}
	if best == nil {
		return nil, nil
	}
	item := r.queueItem(best)
	return &item, nil
}

func (r *fakeInterviewRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.StudentInterview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.StudentInterview
	for _, iv := range r.interviews {
		if iv.StudentID != studentID {
			continue
		}
		si := entity.StudentInterview{
			ID:            iv.ID,
			CompanyID:     iv.CompanyID,
			Status:        iv.Status,
			QueuePosition: iv.QueuePosition,
			Priority:      iv.Priority,
			StartedAt:     iv.StartedAt,
			CompletedAt:   iv.CompletedAt,
			CreatedAt:     iv.CreatedAt,
		}
		if c := r.companies.companies[iv.CompanyID]; c != nil {
			si.CompanyName = c.Name
			si.CompanySector = c.Sector
		}
		out = append(out, si)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeInterviewRepo) ListForAdmin(ctx context.Context, q params.QueryParams) (*entity.PaginatedAdminInterviewEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []entity.AdminInterview
	for _, iv := range r.interviews {
		items = append(items, entity.AdminInterview{
			ID:            iv.ID,
			Status:        iv.Status,
			QueuePosition: iv.QueuePosition,
			Priority:      iv.Priority,
			CreatedAt:     iv.CreatedAt,
		})
	}
	return &entity.PaginatedAdminInterviewEntity{
		Items: items, TotalItems: len(items), PageNumber: q.PageNumber, PageSize: q.PageSize,
	}, nil
}

func (r *fakeInterviewRepo) MarkInProgress(ctx context.Context, id uuid.UUID, startedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok || iv.Status != entity.StatusWaiting {
		return false, nil
	}
	for _, other := range r.interviews {
		if other.CompanyID == iv.CompanyID && other.Status == entity.StatusInProgress {
			return false, uniqueViolation()
		}
	}
	iv.Status = entity.StatusInProgress
	iv.StartedAt = &startedAt
	return true, nil
}

func (r *fakeInterviewRepo) MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok || iv.Status != entity.StatusInProgress {
		return false, nil
	}
	iv.Status = entity.StatusCompleted
	iv.CompletedAt = &completedAt
	iv.QueuePosition = 0
	return true, nil
}

func (r *fakeInterviewRepo) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok || iv.Status != entity.StatusWaiting {
		return false, nil
	}
	iv.Status = entity.StatusCancelled
	iv.QueuePosition = 0
	return true, nil
}

func (r *fakeInterviewRepo) ResetToWaiting(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok || iv.Status != entity.StatusInProgress {
		return false, nil
	}
	iv.Status = entity.StatusWaiting
	iv.StartedAt = nil
	iv.CompletedAt = nil
	return true, nil
}

func (r *fakeInterviewRepo) ReassignQueuePositions(ctx context.Context, companyID uuid.UUID, orderedIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inOrder := map[uuid.UUID]int{}
	for i, id := range orderedIDs {
		inOrder[id] = i + 1
	}
	for _, iv := range r.interviews {
		if iv.CompanyID != companyID || iv.Status != entity.StatusWaiting {
			continue
		}
		if pos, ok := inOrder[iv.ID]; ok {
			iv.QueuePosition = pos
		} else {
			iv.QueuePosition = 0
		}
	}
	return nil
}

func (r *fakeInterviewRepo) ListNotifiable(ctx context.Context, companyID uuid.UUID, maxPosition int) ([]entity.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Interview
	for _, iv := range r.interviews {
		if iv.CompanyID == companyID && iv.Status == entity.StatusWaiting &&
			iv.QueuePosition > 0 && iv.QueuePosition <= maxPosition && !iv.NotificationSent {
			out = append(out, *iv)
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) MarkNotificationSent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if iv, ok := r.interviews[id]; ok {
		iv.NotificationSent = true
	}
	return nil
}
