package repository

import (
	"context"
	"database/sql"

	"forum-api/core/database"
	"forum-api/core/logger"
	"forum-api/modules/room/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type RoomRepository struct {
	db database.Database
}

func NewRoomRepository(db database.Database) *RoomRepository {
	return &RoomRepository{db: db}
}

// RoomRepositoryInterface defines the repository contract
type RoomRepositoryInterface interface {
	Create(ctx context.Context, room *entity.Room) (*entity.Room, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	GetByCompany(ctx context.Context, companyID uuid.UUID) (*entity.Room, error)
	GetByCommitteeMember(ctx context.Context, userID uuid.UUID) (*entity.Room, error)
	List(ctx context.Context) ([]entity.Room, error)
	Update(ctx context.Context, room *entity.Room) error
	SetCompany(ctx context.Context, id uuid.UUID, companyID *uuid.UUID) error
	SetCommitteeMembers(ctx context.Context, id uuid.UUID, memberIDs []uuid.UUID) error
	ClaimInterview(ctx context.Context, roomID, interviewID uuid.UUID) (bool, error)
	ReleaseInterview(ctx context.Context, roomID uuid.UUID) error
	ReleaseInterviewByID(ctx context.Context, interviewID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const roomColumns = `id, name, location, company_id, committee_member_ids, current_interview_id, created_at, updated_at`

// scanRoom reads a room row including the uuid[] member column, which sqlx
// struct scanning cannot handle directly.
func scanRoom(row *sql.Row) (*entity.Room, error) {
	var room entity.Room
	var members []uuid.UUID
	err := row.Scan(
		&room.ID, &room.Name, &room.Location, &room.CompanyID,
		pq.Array(&members), &room.CurrentInterviewID,
		&room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	room.CommitteeMemberIDs = members
	return &room, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *entity.Room) (*entity.Room, error) {
	query := `
		INSERT INTO rooms (name, location, company_id, committee_member_ids)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + roomColumns

	row := r.db.QueryRowContext(ctx, query,
		room.Name, room.Location, room.CompanyID, pq.Array(room.CommitteeMemberIDs))
	created, err := scanRoom(row)
	if err != nil {
		logger.Error("RoomRepository:Create", "error", err)
		return nil, err
	}
	return created, nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
	room, err := scanRoom(row)
	if err != nil {
		logger.Error("RoomRepository:GetByID", "error", err)
		return nil, err
	}
	return room, nil
}

func (r *RoomRepository) GetByCompany(ctx context.Context, companyID uuid.UUID) (*entity.Room, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE company_id = $1`, companyID)
	room, err := scanRoom(row)
	if err != nil {
		logger.Error("RoomRepository:GetByCompany", "error", err)
		return nil, err
	}
	return room, nil
}

func (r *RoomRepository) GetByCommitteeMember(ctx context.Context, userID uuid.UUID) (*entity.Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE committee_member_ids @> ARRAY[$1]::uuid[] LIMIT 1`, userID)
	room, err := scanRoom(row)
	if err != nil {
		logger.Error("RoomRepository:GetByCommitteeMember", "error", err)
		return nil, err
	}
	return room, nil
}

func (r *RoomRepository) List(ctx context.Context) ([]entity.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY name ASC`)
	if err != nil {
		logger.Error("RoomRepository:List", "error", err)
		return nil, err
	}
	defer rows.Close()

	var rooms []entity.Room
	for rows.Next() {
		var room entity.Room
		var members []uuid.UUID
		if err := rows.Scan(
			&room.ID, &room.Name, &room.Location, &room.CompanyID,
			pq.Array(&members), &room.CurrentInterviewID,
			&room.CreatedAt, &room.UpdatedAt,
		); err != nil {
			logger.Error("RoomRepository:List:Scan", "error", err)
			return nil, err
		}
		room.CommitteeMemberIDs = members
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *RoomRepository) Update(ctx context.Context, room *entity.Room) error {
	query := `UPDATE rooms SET name = $2, location = $3, updated_at = NOW() WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, room.ID, room.Name, room.Location); err != nil {
		logger.Error("RoomRepository:Update", "error", err)
		return err
	}
	return nil
}

func (r *RoomRepository) SetCompany(ctx context.Context, id uuid.UUID, companyID *uuid.UUID) error {
	if err := r.db.ExecContext(ctx,
		`UPDATE rooms SET company_id = $2, updated_at = NOW() WHERE id = $1`, id, companyID); err != nil {
		logger.Error("RoomRepository:SetCompany", "error", err)
		return err
	}
	return nil
}

func (r *RoomRepository) SetCommitteeMembers(ctx context.Context, id uuid.UUID, memberIDs []uuid.UUID) error {
	if err := r.db.ExecContext(ctx,
		`UPDATE rooms SET committee_member_ids = $2, updated_at = NOW() WHERE id = $1`,
		id, pq.Array(memberIDs)); err != nil {
		logger.Error("RoomRepository:SetCommitteeMembers", "error", err)
		return err
	}
	return nil
}

// ClaimInterview marks the room as occupied by the given interview. The
// conditional WHERE is the room-busy check: false means another interview
// already holds the room.
func (r *RoomRepository) ClaimInterview(ctx context.Context, roomID, interviewID uuid.UUID) (bool, error) {
	res, err := r.db.ExecResultContext(ctx,
		`UPDATE rooms SET current_interview_id = $2, updated_at = NOW()
		 WHERE id = $1 AND current_interview_id IS NULL`,
		roomID, interviewID)
	if err != nil {
		logger.Error("RoomRepository:ClaimInterview", "error", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReleaseInterview frees the room. Releasing an already-free room is a
// no-op.
func (r *RoomRepository) ReleaseInterview(ctx context.Context, roomID uuid.UUID) error {
	if err := r.db.ExecContext(ctx,
		`UPDATE rooms SET current_interview_id = NULL, updated_at = NOW() WHERE id = $1`, roomID); err != nil {
		logger.Error("RoomRepository:ReleaseInterview", "error", err)
		return err
	}
	return nil
}

// ReleaseInterviewByID frees whichever room the given interview occupies,
// for administrative corrections.
func (r *RoomRepository) ReleaseInterviewByID(ctx context.Context, interviewID uuid.UUID) error {
	if err := r.db.ExecContext(ctx,
		`UPDATE rooms SET current_interview_id = NULL, updated_at = NOW() WHERE current_interview_id = $1`,
		interviewID); err != nil {
		logger.Error("RoomRepository:ReleaseInterviewByID", "error", err)
		return err
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id); err != nil {
		logger.Error("RoomRepository:Delete", "error", err)
		return err
	}
	return nil
}
