package service

import (
	"context"
	"fmt"
	"time"

	"cinehall/internal/logger"
	"cinehall/internal/models"
)

// CleanupBuffer is added after a movie ends before the room can host the
// next screening.
const CleanupBuffer = 15 * time.Minute

// ScreeningService manages the schedule and its read models: the SQL
// listing, the Elasticsearch search index and the per-screening seat map.
type ScreeningService struct {
	screenings ScreeningStore
	movies     MovieStore
	seats      SeatStore
	indexer    ScreeningIndexer
	now        func() time.Time
}

func NewScreeningService(screenings ScreeningStore, movies MovieStore, seats SeatStore, indexer ScreeningIndexer) *ScreeningService {
	return &ScreeningService{
		screenings: screenings,
		movies:     movies,
		seats:      seats,
		indexer:    indexer,
		now:        time.Now,
	}
}

// Create schedules a screening. The end time is derived from the movie
// duration plus the cleanup buffer; the store rejects room overlaps.
func (s *ScreeningService) Create(ctx context.Context, req *models.CreateScreeningRequest) (*models.Screening, error) {
	movie, err := s.movies.GetByID(ctx, req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	screening := &models.Screening{
		MovieID:       req.MovieID,
		RoomID:        req.RoomID,
		StartTime:     req.StartTime,
		EndTime:       req.StartTime.Add(time.Duration(movie.DurationMin)*time.Minute + CleanupBuffer),
		PriceStandard: req.PriceStandard,
		PriceReduced:  req.PriceReduced,
		MovieTitle:    movie.Title,
	}

	if err := s.screenings.Create(ctx, screening); err != nil {
		return nil, err
	}

	if s.indexer != nil {
		if err := s.indexer.IndexScreening(ctx, screening); err != nil {
			// Search is a read model; a missed index entry never blocks
			// scheduling.
			logger.WithContext(ctx).Error("Failed to index screening",
				"error", err,
				"screening_id", screening.ID)
		}
	}

	return screening, nil
}

func (s *ScreeningService) GetByID(ctx context.Context, id int64) (*models.Screening, error) {
	return s.screenings.GetByID(ctx, id)
}

// List serves the browse surface. Title queries go to Elasticsearch when
// it is configured; the plain upcoming listing comes from SQL.
func (s *ScreeningService) List(ctx context.Context, query, date string, page, pageSize int) ([]models.ScreeningSummary, error) {
	if s.indexer != nil && (query != "" || date != "") {
		return s.indexer.SearchScreenings(ctx, query, date, (page-1)*pageSize, pageSize)
	}

	return s.screenings.List(ctx, s.now(), pageSize)
}

// SeatMap returns every seat of the screening's room with its computed
// taken flag. Display only: the allocator recomputes availability under
// row locks and never trusts this view.
func (s *ScreeningService) SeatMap(ctx context.Context, screeningID int64) ([]models.SeatMapItem, error) {
	screening, err := s.screenings.GetByID(ctx, screeningID)
	if err != nil {
		return nil, err
	}

	seats, err := s.seats.ListByRoom(ctx, screening.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}

	taken, err := s.screenings.TakenSeats(ctx, screeningID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute taken seats: %w", err)
	}

	seatMap := make([]models.SeatMapItem, len(seats))
	for i, seat := range seats {
		seatMap[i] = models.SeatMapItem{
			ID:     seat.ID,
			Row:    seat.Row,
			Number: seat.Number,
			Taken:  taken[seat.ID],
		}
	}

	return seatMap, nil
}
