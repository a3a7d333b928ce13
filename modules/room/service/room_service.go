package service

import (
	"context"

	"forum-api/core/errors"
	"forum-api/core/logger"
	companyRepository "forum-api/modules/company/repository"
	"forum-api/modules/room/dto"
	"forum-api/modules/room/entity"
	"forum-api/modules/room/repository"

	"github.com/google/uuid"
)

// RoomServiceInterface is the occupancy coordinator plus the thin admin CRUD
// around rooms.
type RoomServiceInterface interface {
	Claim(ctx context.Context, roomID, interviewID, committeeMemberID uuid.UUID) *errors.AppError
	Release(ctx context.Context, roomID uuid.UUID) *errors.AppError
	ReleaseByInterview(ctx context.Context, interviewID uuid.UUID) *errors.AppError
	RoomForCompany(ctx context.Context, companyID uuid.UUID) (*entity.Room, *errors.AppError)
	RoomForCommitteeMember(ctx context.Context, userID uuid.UUID) (*entity.Room, *errors.AppError)

	CreateRoom(ctx context.Context, req *dto.RoomRequest) (*entity.Room, *errors.AppError)
	UpdateRoom(ctx context.Context, id uuid.UUID, req *dto.RoomRequest) (*entity.Room, *errors.AppError)
	ListRooms(ctx context.Context) ([]entity.Room, *errors.AppError)
	AssignCompany(ctx context.Context, roomID uuid.UUID, companyID *uuid.UUID) *errors.AppError
	SetCommitteeMembers(ctx context.Context, roomID uuid.UUID, memberIDs []uuid.UUID) *errors.AppError
	DeleteRoom(ctx context.Context, id uuid.UUID) *errors.AppError
}

type roomService struct {
	roomRepo    repository.RoomRepositoryInterface
	companyRepo companyRepository.CompanyRepositoryInterface
}

func NewRoomService(roomRepo repository.RoomRepositoryInterface, companyRepo companyRepository.CompanyRepositoryInterface) RoomServiceInterface {
	return &roomService{
		roomRepo:    roomRepo,
		companyRepo: companyRepo,
	}
}

// Claim occupies the room with the given interview. The committee member
// must be authorized for the room; the room must be free. The busy check is
// a conditional update, so two concurrent claims cannot both succeed.
func (s *roomService) Claim(ctx context.Context, roomID, interviewID, committeeMemberID uuid.UUID) *errors.AppError {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load room", err)
	}
	if room == nil {
		return errors.NewAppError(errors.ErrNotFound, "room not found", nil)
	}
	if !room.HasCommitteeMember(committeeMemberID) {
		logger.Warn("RoomService:Claim:AccessDenied", "room_id", roomID, "user_id", committeeMemberID)
		return errors.NewAppError(errors.ErrAccessDenied, "not authorized for this room", nil)
	}

	claimed, err := s.roomRepo.ClaimInterview(ctx, roomID, interviewID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to claim room", err)
	}
	if !claimed {
		return errors.NewAppError(errors.ErrRoomBusy, "an interview is already running in this room", nil)
	}

	logger.Info("RoomService:Claim:Success", "room_id", roomID, "interview_id", interviewID)
	return nil
}

func (s *roomService) Release(ctx context.Context, roomID uuid.UUID) *errors.AppError {
	if err := s.roomRepo.ReleaseInterview(ctx, roomID); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to release room", err)
	}
	return nil
}

func (s *roomService) ReleaseByInterview(ctx context.Context, interviewID uuid.UUID) *errors.AppError {
	if err := s.roomRepo.ReleaseInterviewByID(ctx, interviewID); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to release room", err)
	}
	return nil
}

func (s *roomService) RoomForCompany(ctx context.Context, companyID uuid.UUID) (*entity.Room, *errors.AppError) {
	room, err := s.roomRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load room", err)
	}
	return room, nil
}

func (s *roomService) RoomForCommitteeMember(ctx context.Context, userID uuid.UUID) (*entity.Room, *errors.AppError) {
	room, err := s.roomRepo.GetByCommitteeMember(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load room", err)
	}
	return room, nil
}

// ===================== Admin CRUD =====================

func (s *roomService) CreateRoom(ctx context.Context, req *dto.RoomRequest) (*entity.Room, *errors.AppError) {
	room := &entity.Room{
		Name:               req.Name,
		Location:           req.Location,
		CommitteeMemberIDs: req.CommitteeMemberIDs,
	}
	created, err := s.roomRepo.Create(ctx, room)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to create room", err)
	}
	logger.Info("RoomService:CreateRoom:Success", "room_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *roomService) UpdateRoom(ctx context.Context, id uuid.UUID, req *dto.RoomRequest) (*entity.Room, *errors.AppError) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to load room", err)
	}
	if room == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "room not found", nil)
	}

	room.Name = req.Name
	room.Location = req.Location
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to update room", err)
	}
	if req.CommitteeMemberIDs != nil {
		if err := s.roomRepo.SetCommitteeMembers(ctx, id, req.CommitteeMemberIDs); err != nil {
			return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to update committee members", err)
		}
		room.CommitteeMemberIDs = req.CommitteeMemberIDs
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context) ([]entity.Room, *errors.AppError) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to list rooms", err)
	}
	return rooms, nil
}

// AssignCompany links a room and a company one-to-one, keeping both sides
// of the link in sync. Passing nil clears the assignment.
func (s *roomService) AssignCompany(ctx context.Context, roomID uuid.UUID, companyID *uuid.UUID) *errors.AppError {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load room", err)
	}
	if room == nil {
		return errors.NewAppError(errors.ErrNotFound, "room not found", nil)
	}

	// Unlink the room's previous company.
	if room.CompanyID != nil {
		if err := s.companyRepo.SetRoom(ctx, *room.CompanyID, nil); err != nil {
			return errors.NewAppError(errors.ErrStoreUnavailable, "failed to unlink previous company", err)
		}
	}

	if companyID != nil {
		company, err := s.companyRepo.GetByID(ctx, *companyID)
		if err != nil {
			return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load company", err)
		}
		if company == nil {
			return errors.NewAppError(errors.ErrNotFound, "company not found", nil)
		}
		// A company leaves its previous room when moved.
		if company.RoomID != nil && *company.RoomID != roomID {
			if err := s.roomRepo.SetCompany(ctx, *company.RoomID, nil); err != nil {
				return errors.NewAppError(errors.ErrStoreUnavailable, "failed to unlink previous room", err)
			}
		}
		if err := s.companyRepo.SetRoom(ctx, *companyID, &roomID); err != nil {
			return errors.NewAppError(errors.ErrStoreUnavailable, "failed to link company", err)
		}
	}

	if err := s.roomRepo.SetCompany(ctx, roomID, companyID); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to assign company", err)
	}

	logger.Info("RoomService:AssignCompany:Success", "room_id", roomID, "company_id", companyID)
	return nil
}

func (s *roomService) SetCommitteeMembers(ctx context.Context, roomID uuid.UUID, memberIDs []uuid.UUID) *errors.AppError {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load room", err)
	}
	if room == nil {
		return errors.NewAppError(errors.ErrNotFound, "room not found", nil)
	}
	if err := s.roomRepo.SetCommitteeMembers(ctx, roomID, memberIDs); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to set committee members", err)
	}
	return nil
}

func (s *roomService) DeleteRoom(ctx context.Context, id uuid.UUID) *errors.AppError {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to load room", err)
	}
	if room == nil {
		return errors.NewAppError(errors.ErrNotFound, "room not found", nil)
	}
	if room.CompanyID != nil {
		if err := s.companyRepo.SetRoom(ctx, *room.CompanyID, nil); err != nil {
			return errors.NewAppError(errors.ErrStoreUnavailable, "failed to unlink company", err)
		}
	}
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to delete room", err)
	}
	return nil
}
