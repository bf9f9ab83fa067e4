package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinehall/internal/logger"
	"cinehall/internal/metrics"
	"cinehall/internal/models"

	apperrors "cinehall/internal/errors"
)

// ReservationService orchestrates the reservation lifecycle: request
// validation, price-tier resolution, the locking allocation in the
// store, and the side channel of lifecycle events and metrics.
type ReservationService struct {
	reservations ReservationStore
	screenings   ScreeningStore
	events       EventPublisher
	holdTTL      time.Duration
	now          func() time.Time
}

func NewReservationService(reservations ReservationStore, screenings ScreeningStore, events EventPublisher, holdTTL time.Duration) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		screenings:   screenings,
		events:       events,
		holdTTL:      holdTTL,
		now:          time.Now,
	}
}

// Create books the requested seats for a future screening, all-or-nothing.
// Malformed requests are rejected before any lock is taken.
func (s *ReservationService) Create(ctx context.Context, userID int64, req *models.CreateReservationRequest) (*models.Reservation, error) {
	if len(req.Seats) == 0 {
		return nil, fmt.Errorf("%w: empty seat selection", apperrors.ErrInvalidReservationAction)
	}

	seen := make(map[int64]bool, len(req.Seats))
	for _, seat := range req.Seats {
		if seen[seat.SeatID] {
			return nil, fmt.Errorf("%w: duplicate seat %d in selection", apperrors.ErrInvalidReservationAction, seat.SeatID)
		}
		seen[seat.SeatID] = true

		if seat.Type != "" && !seat.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown ticket type %q", apperrors.ErrInvalidReservationAction, seat.Type)
		}
	}

	screening, err := s.screenings.GetByID(ctx, req.ScreeningID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !screening.StartTime.After(now) {
		return nil, fmt.Errorf("%w: screening has already started", apperrors.ErrInvalidReservationAction)
	}

	reservation, err := s.reservations.Allocate(ctx, &models.Allocation{
		Screening: screening,
		UserID:    userID,
		Requests:  req.Seats,
		Now:       now,
		ExpiresAt: now.Add(s.holdTTL),
	})
	if err != nil {
		var conflict *apperrors.SeatConflictError
		if errors.As(err, &conflict) {
			metrics.SeatConflicts.Inc()
		}
		return nil, err
	}

	metrics.ReservationsCreated.Inc()

	seatIDs := make([]int64, len(reservation.Tickets))
	for i, t := range reservation.Tickets {
		seatIDs[i] = t.SeatID
	}
	s.publish(ctx, models.EventReservationCreated, models.ReservationCreatedEvent{
		ReservationID: reservation.ID,
		ScreeningID:   screening.ID,
		UserID:        userID,
		SeatIDs:       seatIDs,
		ExpiresAt:     reservation.ExpiresAt,
		Timestamp:     now,
	})

	return reservation, nil
}

// AddTicket appends one seat to a pending reservation.
func (s *ReservationService) AddTicket(ctx context.Context, reservationID int64, req *models.AddTicketRequest) (*models.Reservation, error) {
	if req.Type != "" && !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown ticket type %q", apperrors.ErrInvalidReservationAction, req.Type)
	}

	reservation, err := s.reservations.AddTicket(ctx, reservationID, req.SeatID, req.Type, s.now())
	if err != nil {
		return nil, err
	}

	last := reservation.Tickets[len(reservation.Tickets)-1]
	s.publish(ctx, models.EventTicketAdded, models.TicketChangedEvent{
		ReservationID: reservationID,
		TicketID:      last.ID,
		SeatID:        req.SeatID,
		Timestamp:     s.now(),
	})

	return reservation, nil
}

// RemoveTicket removes one ticket; dropping the last one cancels the
// reservation.
func (s *ReservationService) RemoveTicket(ctx context.Context, reservationID, ticketID int64) (*models.Reservation, error) {
	reservation, err := s.reservations.RemoveTicket(ctx, reservationID, ticketID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventTicketRemoved, models.TicketChangedEvent{
		ReservationID: reservationID,
		TicketID:      ticketID,
		Timestamp:     s.now(),
	})

	if reservation.Status == models.StatusCancelled {
		metrics.ReservationsCancelled.Inc()
		s.publish(ctx, models.EventReservationCancelled, models.ReservationCancelledEvent{
			ReservationID: reservationID,
			Reason:        "last ticket removed",
			Timestamp:     s.now(),
		})
	}

	return reservation, nil
}

// UpdateTicketType changes the price tier of one ticket.
func (s *ReservationService) UpdateTicketType(ctx context.Context, reservationID, ticketID int64, req *models.UpdateTicketTypeRequest) (*models.Reservation, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown ticket type %q", apperrors.ErrInvalidReservationAction, req.Type)
	}

	return s.reservations.UpdateTicketType(ctx, reservationID, ticketID, req.Type)
}

// Pay confirms a pending reservation before its hold deadline.
func (s *ReservationService) Pay(ctx context.Context, reservationID int64) (*models.Reservation, error) {
	reservation, err := s.reservations.Pay(ctx, reservationID, s.now())
	if err != nil {
		return nil, err
	}

	metrics.ReservationsPaid.Inc()

	var code string
	if reservation.Code != nil {
		code = *reservation.Code
	}
	s.publish(ctx, models.EventReservationPaid, models.ReservationPaidEvent{
		ReservationID: reservation.ID,
		Code:          code,
		TotalPrice:    reservation.TotalPrice,
		Timestamp:     s.now(),
	})

	return reservation, nil
}

// Cancel explicitly cancels a pending reservation.
func (s *ReservationService) Cancel(ctx context.Context, reservationID int64) (*models.Reservation, error) {
	reservation, err := s.reservations.Cancel(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	metrics.ReservationsCancelled.Inc()
	s.publish(ctx, models.EventReservationCancelled, models.ReservationCancelledEvent{
		ReservationID: reservationID,
		Reason:        "user cancellation",
		Timestamp:     s.now(),
	})

	return reservation, nil
}

func (s *ReservationService) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

func (s *ReservationService) ListByUser(ctx context.Context, userID int64) ([]models.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

func (s *ReservationService) publish(ctx context.Context, subject string, data interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"event_type", subject)
	}
}
