package service

import (
	"context"
	"sync"
	"testing"

	"forum-api/core/errors"
	"forum-api/core/params"
	companyentity "forum-api/modules/company/entity"
	"forum-api/modules/room/dto"
	"forum-api/modules/room/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*entity.Room
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{rooms: map[uuid.UUID]*entity.Room{}}
}

func (r *memRoomRepo) Create(ctx context.Context, room *entity.Room) (*entity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room.ID = uuid.New()
	r.rooms[room.ID] = room
	cp := *room
	return &cp, nil
}

func (r *memRoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (r *memRoomRepo) GetByCompany(ctx context.Context, companyID uuid.UUID) (*entity.Room, error) {
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

func (r *memRoomRepo) GetByCommitteeMember(ctx context.Context, userID uuid.UUID) (*entity.Room, error) {
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

func (r *memRoomRepo) List(ctx context.Context) ([]entity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Room
	for _, room := range r.rooms {
		out = append(out, *room)
	}
	return out, nil
}

func (r *memRoomRepo) Update(ctx context.Context, room *entity.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[room.ID]; ok {
		existing.Name = room.Name
		existing.Location = room.Location
	}
	return nil
}

func (r *memRoomRepo) SetCompany(ctx context.Context, id uuid.UUID, companyID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[id]; ok {
		room.CompanyID = companyID
	}
	return nil
}

func (r *memRoomRepo) SetCommitteeMembers(ctx context.Context, id uuid.UUID, memberIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[id]; ok {
		room.CommitteeMemberIDs = memberIDs
	}
	return nil
}

func (r *memRoomRepo) ClaimInterview(ctx context.Context, roomID, interviewID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok || room.CurrentInterviewID != nil {
		return false, nil
	}
	room.CurrentInterviewID = &interviewID
	return true, nil
}

func (r *memRoomRepo) ReleaseInterview(ctx context.Context, roomID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[roomID]; ok {
		room.CurrentInterviewID = nil
	}
	return nil
}

func (r *memRoomRepo) ReleaseInterviewByID(ctx context.Context, interviewID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.CurrentInterviewID != nil && *room.CurrentInterviewID == interviewID {
			room.CurrentInterviewID = nil
		}
	}
	return nil
}

func (r *memRoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
	return nil
}

type memCompanyRepo struct {
	mu        sync.Mutex
	companies map[uuid.UUID]*companyentity.Company
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: map[uuid.UUID]*companyentity.Company{}}
}

func (r *memCompanyRepo) add(c *companyentity.Company) *companyentity.Company {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	r.companies[c.ID] = c
	return c
}

func (r *memCompanyRepo) Create(ctx context.Context, c *companyentity.Company) (*companyentity.Company, error) {
	return r.add(c), nil
}

func (r *memCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*companyentity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCompanyRepo) List(ctx context.Context, q params.QueryParams) (*companyentity.PaginatedCompanyEntity, error) {
	return &companyentity.PaginatedCompanyEntity{}, nil
}

func (r *memCompanyRepo) ListActiveWithQueueCount(ctx context.Context) ([]companyentity.CompanyWithQueueCount, error) {
	return nil, nil
}

func (r *memCompanyRepo) Update(ctx context.Context, c *companyentity.Company) error { return nil }

func (r *memCompanyRepo) SetLogoKey(ctx context.Context, id uuid.UUID, key string) error { return nil }

func (r *memCompanyRepo) SetRoom(ctx context.Context, id uuid.UUID, roomID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.companies[id]; ok {
		c.RoomID = roomID
	}
	return nil
}

func (r *memCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func TestClaim_AuthorizationAndBusyCheck(t *testing.T) {
	rooms := newMemRoomRepo()
	companies := newMemCompanyRepo()
	svc := NewRoomService(rooms, companies)

	member := uuid.New()
	outsider := uuid.New()
	room, err := rooms.Create(context.Background(), &entity.Room{
		Name:               "A1",
		CommitteeMemberIDs: []uuid.UUID{member},
	})
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()

	appErr := svc.Claim(context.Background(), room.ID, first, outsider)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAccessDenied, appErr.Code)

	require.Nil(t, svc.Claim(context.Background(), room.ID, first, member))

	appErr = svc.Claim(context.Background(), room.ID, second, member)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrRoomBusy, appErr.Code)

	require.Nil(t, svc.Release(context.Background(), room.ID))
	require.Nil(t, svc.Claim(context.Background(), room.ID, second, member))
}

func TestClaim_UnknownRoom(t *testing.T) {
	svc := NewRoomService(newMemRoomRepo(), newMemCompanyRepo())

	appErr := svc.Claim(context.Background(), uuid.New(), uuid.New(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestAssignCompany_KeepsLinkOneToOne(t *testing.T) {
	rooms := newMemRoomRepo()
	companies := newMemCompanyRepo()
	svc := NewRoomService(rooms, companies)

	roomA, _ := rooms.Create(context.Background(), &entity.Room{Name: "A"})
	roomB, _ := rooms.Create(context.Background(), &entity.Room{Name: "B"})
	acme := companies.add(&companyentity.Company{Name: "acme", IsActive: true})

	require.Nil(t, svc.AssignCompany(context.Background(), roomA.ID, &acme.ID))

	gotA, _ := rooms.GetByID(context.Background(), roomA.ID)
	require.NotNil(t, gotA.CompanyID)
	assert.Equal(t, acme.ID, *gotA.CompanyID)
	gotAcme, _ := companies.GetByID(context.Background(), acme.ID)
	require.NotNil(t, gotAcme.RoomID)
	assert.Equal(t, roomA.ID, *gotAcme.RoomID)

	// Moving the company to another room unlinks the first one.
	require.Nil(t, svc.AssignCompany(context.Background(), roomB.ID, &acme.ID))

	gotA, _ = rooms.GetByID(context.Background(), roomA.ID)
	assert.Nil(t, gotA.CompanyID)
	gotB, _ := rooms.GetByID(context.Background(), roomB.ID)
	require.NotNil(t, gotB.CompanyID)
	assert.Equal(t, acme.ID, *gotB.CompanyID)
	gotAcme, _ = companies.GetByID(context.Background(), acme.ID)
	require.NotNil(t, gotAcme.RoomID)
	assert.Equal(t, roomB.ID, *gotAcme.RoomID)

	// Clearing the assignment unlinks both sides.
	require.Nil(t, svc.AssignCompany(context.Background(), roomB.ID, nil))
	gotB, _ = rooms.GetByID(context.Background(), roomB.ID)
	assert.Nil(t, gotB.CompanyID)
	gotAcme, _ = companies.GetByID(context.Background(), acme.ID)
	assert.Nil(t, gotAcme.RoomID)
}

func TestReleaseByInterview_FreesOnlyMatchingRoom(t *testing.T) {
	rooms := newMemRoomRepo()
	svc := NewRoomService(rooms, newMemCompanyRepo())

	member := uuid.New()
	roomA, _ := rooms.Create(context.Background(), &entity.Room{Name: "A", CommitteeMemberIDs: []uuid.UUID{member}})
	roomB, _ := rooms.Create(context.Background(), &entity.Room{Name: "B", CommitteeMemberIDs: []uuid.UUID{member}})

	ivA := uuid.New()
	ivB := uuid.New()
	require.Nil(t, svc.Claim(context.Background(), roomA.ID, ivA, member))
	require.Nil(t, svc.Claim(context.Background(), roomB.ID, ivB, member))

	require.Nil(t, svc.ReleaseByInterview(context.Background(), ivA))

	gotA, _ := rooms.GetByID(context.Background(), roomA.ID)
	assert.Nil(t, gotA.CurrentInterviewID)
	gotB, _ := rooms.GetByID(context.Background(), roomB.ID)
	require.NotNil(t, gotB.CurrentInterviewID)
	assert.Equal(t, ivB, *gotB.CurrentInterviewID)
}

func TestUpdateRoom_ReplacesCommitteeMembers(t *testing.T) {
	rooms := newMemRoomRepo()
	svc := NewRoomService(rooms, newMemCompanyRepo())

	room, _ := rooms.Create(context.Background(), &entity.Room{Name: "A", Location: "hall"})
	newMember := uuid.New()

	updated, appErr := svc.UpdateRoom(context.Background(), room.ID, &dto.RoomRequest{
		Name:               "A2",
		Location:           "annex",
		CommitteeMemberIDs: []uuid.UUID{newMember},
	})
	require.Nil(t, appErr)
	assert.Equal(t, "A2", updated.Name)
	assert.True(t, updated.HasCommitteeMember(newMember))

	got, _ := rooms.GetByID(context.Background(), room.ID)
	assert.Equal(t, "A2", got.Name)
	assert.Equal(t, []uuid.UUID{newMember}, got.CommitteeMemberIDs)
}
