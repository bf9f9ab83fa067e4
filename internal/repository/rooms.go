package repository

import (
	"context"
	"database/sql"

	"cinehall/internal/database"
	"cinehall/internal/models"

	apperrors "cinehall/internal/errors"
)

type RoomRepository struct {
	db *database.DB
}

func NewRoomRepository(db *database.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create inserts the room together with its full seat grid in one
// transaction. Seats are immutable afterwards.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room, rows, seatsPerRow int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO rooms (name) VALUES ($1) RETURNING id, created_at`
	if err := tx.QueryRowContext(ctx, query, room.Name).Scan(&room.ID, &room.CreatedAt); err != nil {
		return err
	}

	seatQuery := `INSERT INTO seats (room_id, row_number, seat_number) VALUES ($1, $2, $3)`
	for row := 1; row <= rows; row++ {
		for seat := 1; seat <= seatsPerRow; seat++ {
			if _, err := tx.ExecContext(ctx, seatQuery, room.ID, row, seat); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	room := &models.Room{}
	query := `SELECT id, name, created_at FROM rooms WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(&room.ID, &room.Name, &room.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}

	return room, err
}
