package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cinehall/internal/models"

	apperrors "cinehall/internal/errors"
)

// memStore is an in-memory stand-in for the Postgres repositories. It
// honors the same contracts, including the error taxonomy and the
// all-or-nothing allocation. A single mutex serializes mutations the
// way the row locks do in SQL.
type memStore struct {
	mu           sync.Mutex
	screenings   map[int64]*models.Screening
	seats        map[int64]models.Seat
	reservations map[int64]*models.Reservation
	nextResID    int64
	nextTicketID int64
}

func newMemStore() *memStore {
	return &memStore{
		screenings:   make(map[int64]*models.Screening),
		seats:        make(map[int64]models.Seat),
		reservations: make(map[int64]*models.Reservation),
	}
}

func (m *memStore) addScreening(s *models.Screening) {
	m.screenings[s.ID] = s
}

func (m *memStore) addSeats(roomID int64, ids ...int64) {
	for _, id := range ids {
		m.seats[id] = models.Seat{ID: id, RoomID: roomID, Row: 1, Number: int(id)}
	}
}

func cloneReservation(r *models.Reservation) *models.Reservation {
	out := *r
	out.Tickets = make([]models.Ticket, len(r.Tickets))
	copy(out.Tickets, r.Tickets)
	if r.Code != nil {
		code := *r.Code
		out.Code = &code
	}
	return &out
}

// takenLocked computes occupied seats exactly the way the SQL store
// does: paid reservations plus pending ones whose hold has not lapsed.
// Caller must hold m.mu.
func (m *memStore) takenLocked(screeningID int64, now time.Time) map[int64]bool {
	taken := make(map[int64]bool)
	for _, res := range m.reservations {
		active := res.Status == models.StatusPaid ||
			(res.Status == models.StatusPending && res.ExpiresAt.After(now))
		if !active {
			continue
		}
		for _, t := range res.Tickets {
			if t.ScreeningID == screeningID {
				taken[t.SeatID] = true
			}
		}
	}
	return taken
}

func (m *memStore) Allocate(ctx context.Context, alloc *models.Allocation) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var missing []int64
	for _, req := range alloc.Requests {
		seat, ok := m.seats[req.SeatID]
		if !ok || seat.RoomID != alloc.Screening.RoomID {
			missing = append(missing, req.SeatID)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, &apperrors.InvalidSeatError{SeatIDs: missing}
	}

	taken := m.takenLocked(alloc.Screening.ID, alloc.Now)
	var conflicts []int64
	for _, req := range alloc.Requests {
		if taken[req.SeatID] {
			conflicts = append(conflicts, req.SeatID)
		}
	}
	if len(conflicts) > 0 {
		sort.Slice(conflicts, func(i, j int) bool { return conflicts[i] < conflicts[j] })
		return nil, &apperrors.SeatConflictError{SeatIDs: conflicts}
	}

	m.nextResID++
	res := &models.Reservation{
		ID:        m.nextResID,
		UserID:    alloc.UserID,
		Status:    models.StatusPending,
		CreatedAt: alloc.Now,
		ExpiresAt: alloc.ExpiresAt,
	}
	for _, req := range alloc.Requests {
		ticketType := req.Type
		if ticketType == "" {
			ticketType = models.TicketStandard
		}
		m.nextTicketID++
		res.Tickets = append(res.Tickets, models.Ticket{
			ID:            m.nextTicketID,
			ReservationID: res.ID,
			ScreeningID:   alloc.Screening.ID,
			SeatID:        req.SeatID,
			Type:          ticketType,
			Price:         ticketType.Price(alloc.Screening),
		})
	}
	res.TotalPrice = res.TicketTotal()

	m.reservations[res.ID] = res
	return cloneReservation(res), nil
}

func (m *memStore) AddTicket(ctx context.Context, reservationID, seatID int64, ticketType models.TicketType, now time.Time) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[reservationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if res.Status != models.StatusPending {
		return nil, apperrors.ErrInvalidReservationAction
	}

	screening, ok := m.screenings[res.ScreeningID()]
	if !ok {
		return nil, apperrors.ErrInvalidReservationAction
	}

	seat, ok := m.seats[seatID]
	if !ok || seat.RoomID != screening.RoomID {
		return nil, &apperrors.InvalidSeatError{SeatIDs: []int64{seatID}}
	}
	if m.takenLocked(screening.ID, now)[seatID] {
		return nil, &apperrors.SeatConflictError{SeatIDs: []int64{seatID}}
	}

	if ticketType == "" {
		ticketType = models.TicketStandard
	}
	m.nextTicketID++
	res.Tickets = append(res.Tickets, models.Ticket{
		ID:            m.nextTicketID,
		ReservationID: res.ID,
		ScreeningID:   screening.ID,
		SeatID:        seatID,
		Type:          ticketType,
		Price:         ticketType.Price(screening),
	})
	res.TotalPrice = res.TicketTotal()

	return cloneReservation(res), nil
}

func (m *memStore) RemoveTicket(ctx context.Context, reservationID, ticketID int64) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[reservationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if res.Status != models.StatusPending {
		return nil, apperrors.ErrInvalidReservationAction
	}

	idx := -1
	for i, t := range res.Tickets {
		if t.ID == ticketID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrNotFound
	}

	res.Tickets = append(res.Tickets[:idx], res.Tickets[idx+1:]...)
	if len(res.Tickets) == 0 {
		res.Status = models.StatusCancelled
	}
	res.TotalPrice = res.TicketTotal()

	return cloneReservation(res), nil
}

func (m *memStore) UpdateTicketType(ctx context.Context, reservationID, ticketID int64, ticketType models.TicketType) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[reservationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if res.Status != models.StatusPending {
		return nil, apperrors.ErrInvalidReservationAction
	}

	screening, ok := m.screenings[res.ScreeningID()]
	if !ok {
		return nil, apperrors.ErrInvalidReservationAction
	}

	idx := -1
	for i, t := range res.Tickets {
		if t.ID == ticketID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrNotFound
	}

	res.Tickets[idx].Type = ticketType
	res.Tickets[idx].Price = ticketType.Price(screening)
	res.TotalPrice = res.TicketTotal()

	return cloneReservation(res), nil
}

func (m *memStore) Pay(ctx context.Context, reservationID int64, now time.Time) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[reservationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if res.Status == models.StatusCancelled && !now.Before(res.ExpiresAt) {
		return nil, apperrors.ErrReservationExpired
	}
	if !res.Status.CanTransitionTo(models.StatusPaid) {
		return nil, apperrors.ErrInvalidReservationAction
	}
	if !now.Before(res.ExpiresAt) {
		res.Status = models.StatusCancelled
		return nil, apperrors.ErrReservationExpired
	}

	res.Status = models.StatusPaid
	code := fmt.Sprintf("res-code-%d", res.ID)
	res.Code = &code
	for i := range res.Tickets {
		ticketCode := fmt.Sprintf("ticket-code-%d", res.Tickets[i].ID)
		res.Tickets[i].Code = &ticketCode
	}

	return cloneReservation(res), nil
}

func (m *memStore) Cancel(ctx context.Context, reservationID int64) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[reservationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !res.Status.CanTransitionTo(models.StatusCancelled) {
		return nil, apperrors.ErrInvalidReservationAction
	}

	res.Status = models.StatusCancelled
	return cloneReservation(res), nil
}

func (m *memStore) CancelExpired(ctx context.Context, now time.Time) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64
	for _, res := range m.reservations {
		if res.Status == models.StatusPending && !now.Before(res.ExpiresAt) {
			res.Status = models.StatusCancelled
			ids = append(ids, res.ID)
		}
	}
	return ids, nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneReservation(res), nil
}

func (m *memStore) ListByUser(ctx context.Context, userID int64) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Reservation
	for _, res := range m.reservations {
		if res.UserID == userID {
			out = append(out, *cloneReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memScreeningStore exposes the ScreeningStore view of the same data.
// A separate type because both store interfaces declare GetByID.
type memScreeningStore struct {
	s *memStore
}

func (m *memScreeningStore) Create(ctx context.Context, screening *models.Screening) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	screening.ID = int64(len(m.s.screenings) + 1)
	m.s.screenings[screening.ID] = screening
	return nil
}

func (m *memScreeningStore) GetByID(ctx context.Context, id int64) (*models.Screening, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	s, ok := m.s.screenings[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (m *memScreeningStore) List(ctx context.Context, from time.Time, limit int) ([]models.ScreeningSummary, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var out []models.ScreeningSummary
	for _, s := range m.s.screenings {
		if s.StartTime.Before(from) {
			continue
		}
		out = append(out, models.ScreeningSummary{
			ID:         s.ID,
			MovieTitle: s.MovieTitle,
			RoomID:     s.RoomID,
			StartTime:  s.StartTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memScreeningStore) TakenSeats(ctx context.Context, screeningID int64, now time.Time) (map[int64]bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	return m.s.takenLocked(screeningID, now), nil
}

// ListByRoom implements SeatStore.
func (m *memStore) ListByRoom(ctx context.Context, roomID int64) ([]models.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Seat
	for _, seat := range m.seats {
		if seat.RoomID == roomID {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	Subject string
	Data    interface{}
}

func (p *capturePublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Subject: subject, Data: data})
	return nil
}

func (p *capturePublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Subject
	}
	return out
}
