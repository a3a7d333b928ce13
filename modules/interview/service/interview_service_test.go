package service

import (
	"context"
	"sync"
	"testing"

	"forum-api/core/errors"
	companyentity "forum-api/modules/company/entity"
	"forum-api/modules/interview/entity"
	roomentity "forum-api/modules/room/entity"
	roomService "forum-api/modules/room/service"
	userentity "forum-api/modules/user/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	users      *fakeUserRepo
	companies  *fakeCompanyRepo
	rooms      *fakeRoomRepo
	interviews *fakeInterviewRepo
	roomSvc    roomService.RoomServiceInterface
	queue      *QueueService
	svc        InterviewServiceInterface
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	companies := newFakeCompanyRepo()
	rooms := newFakeRoomRepo()
	interviews := newFakeInterviewRepo(users, companies)

	roomSvc := roomService.NewRoomService(rooms, companies)
	queue := NewQueueService(interviews, nil)
	svc := NewInterviewService(interviews, users, companies, roomSvc, queue, nil)

	return &testEnv{
		users:      users,
		companies:  companies,
		rooms:      rooms,
		interviews: interviews,
		roomSvc:    roomSvc,
		queue:      queue,
		svc:        svc,
	}
}

func (e *testEnv) student(name string, status userentity.StudentStatus, opp userentity.OpportunityType) *userentity.User {
	u := &userentity.User{Name: name, Email: name + "@test.local", Role: userentity.RoleStudent, IsActive: true}
	if status != "" {
		u.Status = &status
	}
	if opp != "" {
		u.OpportunityType = &opp
	}
	return e.users.add(u)
}

func (e *testEnv) committeeStudent(name string) *userentity.User {
	u := e.student(name, userentity.StatusENSA, userentity.OpportunityPFE)
	u.IsCommittee = true
	return u
}

func (e *testEnv) company(name string, active bool) *companyentity.Company {
	return e.companies.add(&companyentity.Company{Name: name, Slug: name, Sector: "IT", IsActive: active})
}

func (e *testEnv) room(companyID uuid.UUID, members ...uuid.UUID) *roomentity.Room {
	return e.rooms.add(&roomentity.Room{
		Name:               "room",
		CompanyID:          &companyID,
		CommitteeMemberIDs: members,
	})
}

func (e *testEnv) join(t *testing.T, studentID, companyID uuid.UUID) uuid.UUID {
	t.Helper()
	_, appErr := e.svc.SelectCompanies(context.Background(), studentID, []uuid.UUID{companyID})
	require.Nil(t, appErr)
	iv, err := e.interviews.GetActiveByStudentAndCompany(context.Background(), studentID, companyID)
	require.NoError(t, err)
	require.NotNil(t, iv)
	return iv.ID
}

func (e *testEnv) waitingPositions(t *testing.T, companyID uuid.UUID) []int {
	t.Helper()
	items, err := e.interviews.ListQueueByCompany(context.Background(), companyID)
	require.NoError(t, err)
	var positions []int
	for _, item := range items {
		if item.Status == entity.StatusWaiting {
			positions = append(positions, item.QueuePosition)
		}
	}
	return positions
}

func TestSelectCompanies_AssignsPositionAndWaitEstimate(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	duration := 20
	company.EstimatedInterviewDuration = &duration

	first := env.student("alice", userentity.StatusENSA, userentity.OpportunityPFE)
	second := env.student("bob", userentity.StatusENSA, userentity.OpportunityPFE)

	resp, appErr := env.svc.SelectCompanies(context.Background(), first.ID, []uuid.UUID{company.ID})
	require.Nil(t, appErr)
	require.Len(t, resp.Interviews, 1)
	assert.Equal(t, 1, resp.Interviews[0].QueuePosition)
	assert.Equal(t, 0, resp.Interviews[0].EstimatedWaitMinutes)
	assert.Equal(t, "acme", resp.Interviews[0].CompanyName)

	resp, appErr = env.svc.SelectCompanies(context.Background(), second.ID, []uuid.UUID{company.ID})
	require.Nil(t, appErr)
	assert.Equal(t, 2, resp.Interviews[0].QueuePosition)
	assert.Equal(t, 20, resp.Interviews[0].EstimatedWaitMinutes)
}

func TestSelectCompanies_DuplicateJoinRejected(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	student := env.student("alice", userentity.StatusENSA, userentity.OpportunityPFE)

	_, appErr := env.svc.SelectCompanies(context.Background(), student.ID, []uuid.UUID{company.ID})
	require.Nil(t, appErr)

	_, appErr = env.svc.SelectCompanies(context.Background(), student.ID, []uuid.UUID{company.ID})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadySelected, appErr.Code)
}

func TestSelectCompanies_InactiveCompanyRejected(t *testing.T) {
	env := newTestEnv()
	company := env.company("ghost", false)
	student := env.student("alice", userentity.StatusENSA, userentity.OpportunityPFE)

	_, appErr := env.svc.SelectCompanies(context.Background(), student.ID, []uuid.UUID{company.ID})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCompanyUnavailable, appErr.Code)
}

func TestSelectCompanies_CommitteeJumpsAhead(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)

	ext := env.student("ext", userentity.StatusExterne, userentity.OpportunityEmploi)
	env.join(t, ext.ID, company.ID)

	member := env.committeeStudent("member")
	memberInterview := env.join(t, member.ID, company.ID)

	iv, err := env.interviews.GetByID(context.Background(), memberInterview)
	require.NoError(t, err)
	assert.Equal(t, 1, iv.QueuePosition)
	assert.Equal(t, 10, iv.Priority)
}

func TestSelectCompanies_MultipleCompaniesAtOnce(t *testing.T) {
	env := newTestEnv()
	a := env.company("a", true)
	b := env.company("b", true)
	student := env.student("alice", userentity.StatusENSA, userentity.OpportunityPFE)

	resp, appErr := env.svc.SelectCompanies(context.Background(), student.ID, []uuid.UUID{a.ID, b.ID})
	require.Nil(t, appErr)
	require.Len(t, resp.Interviews, 2)
	assert.Equal(t, 1, resp.Interviews[0].QueuePosition)
	assert.Equal(t, 1, resp.Interviews[1].QueuePosition)
}

func TestStart_ClaimsRoomAndRejectsSecondStart(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	member := env.committeeStudent("member")
	room := env.room(company.ID, member.ID)

	s1 := env.student("s1", userentity.StatusENSA, userentity.OpportunityPFE)
	s2 := env.student("s2", userentity.StatusENSA, userentity.OpportunityPFE)
	first := env.join(t, s1.ID, company.ID)
	second := env.join(t, s2.ID, company.ID)

	appErr := env.svc.Start(context.Background(), first, member.ID)
	require.Nil(t, appErr)

	got, err := env.rooms.GetByID(context.Background(), room.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentInterviewID)
	assert.Equal(t, first, *got.CurrentInterviewID)

	iv, err := env.interviews.GetByID(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, iv.Status)
	require.NotNil(t, iv.StartedAt)

	appErr = env.svc.Start(context.Background(), second, member.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrRoomBusy, appErr.Code)
}

func TestStart_RequiresRoomAndWaitingState(t *testing.T) {
	env := newTestEnv()
	company := env.company("noroom", true)
	member := env.committeeStudent("member")

	s := env.student("s", userentity.StatusENSA, userentity.OpportunityPFE)
	ivID := env.join(t, s.ID, company.ID)

	appErr := env.svc.Start(context.Background(), ivID, member.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNoRoomAssigned, appErr.Code)
}

func TestStart_UnauthorizedCommitteeMemberDenied(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	member := env.committeeStudent("member")
	outsider := env.committeeStudent("outsider")
	env.room(company.ID, member.ID)

	s := env.student("s", userentity.StatusENSA, userentity.OpportunityPFE)
	ivID := env.join(t, s.ID, company.ID)

	appErr := env.svc.Start(context.Background(), ivID, outsider.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAccessDenied, appErr.Code)
}

func TestStart_ConcurrentOnlyOneWins(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	member := env.committeeStudent("member")
	env.room(company.ID, member.ID)

	s1 := env.student("s1", userentity.StatusENSA, userentity.OpportunityPFE)
	s2 := env.student("s2", userentity.StatusENSA, userentity.OpportunityPFE)
	first := env.join(t, s1.ID, company.ID)
	second := env.join(t, s2.ID, company.ID)

	var wg sync.WaitGroup
	results := make([]*errors.AppError, 2)
	for i, id := range []uuid.UUID{first, second} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			results[i] = env.svc.Start(context.Background(), id, member.ID)
		}(i, id)
	}
	wg.Wait()

	var ok, failed int
	for _, r := range results {
		if r == nil {
			ok++
		} else {
			failed++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
}

func TestComplete_FreesRoomAndRenumbers(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	member := env.committeeStudent("member")
	room := env.room(company.ID, member.ID)

	var ids []uuid.UUID
	for _, name := range []string{"s1", "s2", "s3"} {
		s := env.student(name, userentity.StatusENSA, userentity.OpportunityPFE)
		ids = append(ids, env.join(t, s.ID, company.ID))
	}

	require.Nil(t, env.svc.Start(context.Background(), ids[0], member.ID))
	require.Nil(t, env.svc.Complete(context.Background(), ids[0], member.ID))

	iv, err := env.interviews.GetByID(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, iv.Status)
	require.NotNil(t, iv.CompletedAt)

	got, err := env.rooms.GetByID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CurrentInterviewID)

	assert.Equal(t, []int{1, 2}, env.waitingPositions(t, company.ID))
}

func TestComplete_RequiresRoomMembership(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	member := env.committeeStudent("member")
	outsider := env.committeeStudent("outsider")
	env.room(company.ID, member.ID)

	s := env.student("s", userentity.StatusENSA, userentity.OpportunityPFE)
	ivID := env.join(t, s.ID, company.ID)
	require.Nil(t, env.svc.Start(context.Background(), ivID, member.ID))

	appErr := env.svc.Complete(context.Background(), ivID, outsider.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAccessDenied, appErr.Code)
}

func TestCancel_OwnerOnlyAndRenumbers(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)

	s1 := env.student("s1", userentity.StatusENSA, userentity.OpportunityPFE)
	s2 := env.student("s2", userentity.StatusENSA, userentity.OpportunityPFE)
	first := env.join(t, s1.ID, company.ID)
	env.join(t, s2.ID, company.ID)

	appErr := env.svc.Cancel(context.Background(), first, s2.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotOwner, appErr.Code)

	require.Nil(t, env.svc.Cancel(context.Background(), first, s1.ID))

	iv, err := env.interviews.GetByID(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, iv.Status)
	assert.Equal(t, 0, iv.QueuePosition)

	assert.Equal(t, []int{1}, env.waitingPositions(t, company.ID))
}

func TestCancel_InProgressRejected(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	member := env.committeeStudent("member")
	env.room(company.ID, member.ID)

	s := env.student("s", userentity.StatusENSA, userentity.OpportunityPFE)
	ivID := env.join(t, s.ID, company.ID)
	require.Nil(t, env.svc.Start(context.Background(), ivID, member.ID))

	appErr := env.svc.Cancel(context.Background(), ivID, s.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidState, appErr.Code)
}

func TestMarkAbsent_BehavesLikeCancel(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)

	s1 := env.student("s1", userentity.StatusENSA, userentity.OpportunityPFE)
	s2 := env.student("s2", userentity.StatusENSA, userentity.OpportunityPFE)
	first := env.join(t, s1.ID, company.ID)
	env.join(t, s2.ID, company.ID)

	require.Nil(t, env.svc.MarkAbsent(context.Background(), first))

	iv, err := env.interviews.GetByID(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, iv.Status)
	assert.Equal(t, []int{1}, env.waitingPositions(t, company.ID))
}

func TestAdminOverride_TerminalStatesImmutable(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	s := env.student("s", userentity.StatusENSA, userentity.OpportunityPFE)
	ivID := env.join(t, s.ID, company.ID)

	require.Nil(t, env.svc.AdminOverrideStatus(context.Background(), ivID, entity.StatusCancelled))

	appErr := env.svc.AdminOverrideStatus(context.Background(), ivID, entity.StatusWaiting)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidState, appErr.Code)
}

func TestAdminOverride_BackToWaitingClearsTimestampsAndFreesRoom(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	member := env.committeeStudent("member")
	room := env.room(company.ID, member.ID)

	s := env.student("s", userentity.StatusENSA, userentity.OpportunityPFE)
	ivID := env.join(t, s.ID, company.ID)
	require.Nil(t, env.svc.Start(context.Background(), ivID, member.ID))

	require.Nil(t, env.svc.AdminOverrideStatus(context.Background(), ivID, entity.StatusWaiting))

	iv, err := env.interviews.GetByID(context.Background(), ivID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusWaiting, iv.Status)
	assert.Nil(t, iv.StartedAt)
	assert.Equal(t, 1, iv.QueuePosition)

	got, err := env.rooms.GetByID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CurrentInterviewID)
}

func TestAdminOverride_UnknownStatusRejected(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	s := env.student("s", userentity.StatusENSA, userentity.OpportunityPFE)
	ivID := env.join(t, s.ID, company.ID)

	appErr := env.svc.AdminOverrideStatus(context.Background(), ivID, "EXPLODED")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestQueueStatus_ReturnsActiveOnly(t *testing.T) {
	env := newTestEnv()
	a := env.company("a", true)
	b := env.company("b", true)
	s := env.student("s", userentity.StatusENSA, userentity.OpportunityPFE)

	first := env.join(t, s.ID, a.ID)
	env.join(t, s.ID, b.ID)
	require.Nil(t, env.svc.Cancel(context.Background(), first, s.ID))

	status, appErr := env.svc.QueueStatus(context.Background(), s.ID)
	require.Nil(t, appErr)
	require.Len(t, status.Positions, 1)
	assert.Equal(t, b.ID, status.Positions[0].CompanyID)
	assert.Equal(t, 1, status.Positions[0].QueuePosition)
}

func TestPositionsStayContiguousAcrossLifecycle(t *testing.T) {
	env := newTestEnv()
	company := env.company("acme", true)
	member := env.committeeStudent("member")
	env.room(company.ID, member.ID)

	var ids []uuid.UUID
	for _, name := range []string{"s1", "s2", "s3", "s4", "s5"} {
		s := env.student(name, userentity.StatusENSA, userentity.OpportunityPFE)
		ids = append(ids, env.join(t, s.ID, company.ID))
	}

	require.Nil(t, env.svc.Cancel(context.Background(), ids[2], env.mustStudentID(t, ids[2])))
	assert.Equal(t, []int{1, 2, 3, 4}, env.waitingPositions(t, company.ID))

	require.Nil(t, env.svc.Start(context.Background(), ids[0], member.ID))
	require.Nil(t, env.svc.Complete(context.Background(), ids[0], member.ID))
	assert.Equal(t, []int{1, 2, 3}, env.waitingPositions(t, company.ID))
}

func (e *testEnv) mustStudentID(t *testing.T, interviewID uuid.UUID) uuid.UUID {
	t.Helper()
	iv, err := e.interviews.GetByID(context.Background(), interviewID)
	require.NoError(t, err)
	require.NotNil(t, iv)
	return iv.StudentID
}
