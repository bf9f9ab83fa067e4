package repository

import (
	"context"
	"database/sql"
	"time"

	"cinehall/internal/database"
	"cinehall/internal/models"

	apperrors "cinehall/internal/errors"
)

type ScreeningRepository struct {
	db *database.DB
}

func NewScreeningRepository(db *database.DB) *ScreeningRepository {
	return &ScreeningRepository{db: db}
}

// Create persists a screening after verifying the room is free for the
// whole [start, end) interval. EndTime already includes the cleanup
// buffer, so plain interval intersection is the complete check. The
// check and insert share one transaction; screening creation is rare and
// needs no finer coordination than that.
func (r *ScreeningRepository) Create(ctx context.Context, screening *models.Screening) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var overlaps bool
	overlapQuery := `
		SELECT EXISTS (
			SELECT 1 FROM screenings
			WHERE room_id = $1 AND start_time < $3 AND end_time > $2
		)`
	if err := tx.QueryRowContext(ctx, overlapQuery,
		screening.RoomID, screening.StartTime, screening.EndTime).Scan(&overlaps); err != nil {
		return err
	}
	if overlaps {
		return apperrors.ErrScheduleOverlap
	}

	insertQuery := `
		INSERT INTO screenings (movie_id, room_id, start_time, end_time, price_standard, price_reduced)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := tx.QueryRowContext(ctx, insertQuery,
		screening.MovieID,
		screening.RoomID,
		screening.StartTime,
		screening.EndTime,
		screening.PriceStandard,
		screening.PriceReduced,
	).Scan(&screening.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ScreeningRepository) GetByID(ctx context.Context, id int64) (*models.Screening, error) {
	screening := &models.Screening{}
	query := `
		SELECT s.id, s.movie_id, s.room_id, s.start_time, s.end_time,
		       s.price_standard, s.price_reduced, m.title
		FROM screenings s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.RoomID,
		&screening.StartTime,
		&screening.EndTime,
		&screening.PriceStandard,
		&screening.PriceReduced,
		&screening.MovieTitle,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}

	return screening, err
}

// List returns upcoming screenings ordered by start time.
func (r *ScreeningRepository) List(ctx context.Context, from time.Time, limit int) ([]models.ScreeningSummary, error) {
	var screenings []models.ScreeningSummary
	query := `
		SELECT s.id, m.title, s.room_id, s.start_time
		FROM screenings s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.start_time >= $1
		ORDER BY s.start_time
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.ScreeningSummary
		if err := rows.Scan(&s.ID, &s.MovieTitle, &s.RoomID, &s.StartTime); err != nil {
			return nil, err
		}
		screenings = append(screenings, s)
	}

	return screenings, rows.Err()
}

// TakenSeats is the standalone availability read used by the seat-map
// display. Booking decisions never call this; the allocator recomputes
// the same query inside its own locking transaction.
func (r *ScreeningRepository) TakenSeats(ctx context.Context, screeningID int64, now time.Time) (map[int64]bool, error) {
	return takenSeats(ctx, r.db, screeningID, now)
}
