package service

import (
	"context"

	"cinehall/internal/models"
)

// CatalogService covers the simple collaborator data the reservation
// core reads: movies and rooms with their seat grids.
type CatalogService struct {
	movies MovieStore
	rooms  RoomStore
}

func NewCatalogService(movies MovieStore, rooms RoomStore) *CatalogService {
	return &CatalogService{movies: movies, rooms: rooms}
}

func (s *CatalogService) CreateMovie(ctx context.Context, req *models.CreateMovieRequest) (*models.Movie, error) {
	movie := &models.Movie{
		Title:       req.Title,
		DurationMin: req.DurationMin,
	}
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (s *CatalogService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	return s.movies.List(ctx)
}

func (s *CatalogService) CreateRoom(ctx context.Context, req *models.CreateRoomRequest) (*models.Room, error) {
	room := &models.Room{Name: req.Name}
	if err := s.rooms.Create(ctx, room, req.Rows, req.SeatsPerRow); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *CatalogService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	return s.rooms.GetByID(ctx, id)
}
