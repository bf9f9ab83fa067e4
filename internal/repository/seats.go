package repository

import (
	"context"

	"cinehall/internal/database"
	"cinehall/internal/models"
)

type SeatRepository struct {
	db *database.DB
}

func NewSeatRepository(db *database.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

func (r *SeatRepository) ListByRoom(ctx context.Context, roomID int64) ([]models.Seat, error) {
	var seats []models.Seat
	query := `
		SELECT id, room_id, row_number, seat_number
		FROM seats
		WHERE room_id = $1
		ORDER BY row_number, seat_number`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seat models.Seat
		if err := rows.Scan(&seat.ID, &seat.RoomID, &seat.Row, &seat.Number); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}
