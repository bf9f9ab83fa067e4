package repository

import (
	"context"
	"database/sql"

	"cinehall/internal/database"
	"cinehall/internal/models"

	apperrors "cinehall/internal/errors"
)

type MovieRepository struct {
	db *database.DB
}

func NewMovieRepository(db *database.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	query := `
		INSERT INTO movies (title, duration_min)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query, movie.Title, movie.DurationMin).
		Scan(&movie.ID, &movie.CreatedAt)
}

func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	movie := &models.Movie{}
	query := `SELECT id, title, duration_min, created_at FROM movies WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.DurationMin,
		&movie.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}

	return movie, err
}

func (r *MovieRepository) List(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	query := `SELECT id, title, duration_min, created_at FROM movies ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var movie models.Movie
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.DurationMin, &movie.CreatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	return movies, rows.Err()
}
