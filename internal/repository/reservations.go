package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"cinehall/internal/database"
	"cinehall/internal/models"

	apperrors "cinehall/internal/errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ReservationRepository struct {
	db *database.DB
}

func NewReservationRepository(db *database.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// takenSeats computes the set of seats currently held for a screening: a
// seat is taken iff a ticket references it whose reservation is PAID, or
// PENDING with an unexpired deadline. Occupancy is derived here at read
// time; there is no stored seat-status field to fall out of sync.
func takenSeats(ctx context.Context, q queryer, screeningID int64, now time.Time) (map[int64]bool, error) {
	query := `
		SELECT t.seat_id
		FROM tickets t
		JOIN reservations r ON r.id = t.reservation_id
		WHERE t.screening_id = $1
		  AND (r.status = 'PAID' OR (r.status = 'PENDING' AND r.expires_at > $2))`

	rows, err := q.QueryContext(ctx, query, screeningID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := make(map[int64]bool)
	for rows.Next() {
		var seatID int64
		if err := rows.Scan(&seatID); err != nil {
			return nil, err
		}
		taken[seatID] = true
	}

	return taken, rows.Err()
}

// lockSeats acquires exclusive row locks on the requested seats of one
// room. The ORDER BY id inside the locking statement gives every
// concurrent allocator the same acquisition order, which is what rules
// out deadlock between requests with overlapping seat sets. Returns the
// set of ids that actually exist in the room.
func lockSeats(ctx context.Context, tx *sql.Tx, roomID int64, seatIDs []int64) (map[int64]bool, error) {
	query := `
		SELECT id FROM seats
		WHERE room_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, roomID, pq.Array(seatIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locked := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		locked[id] = true
	}

	return locked, rows.Err()
}

// Allocate turns an allocation request into a persisted PENDING
// reservation, all-or-nothing. Inside one transaction: lock the seat
// rows in sorted order, verify they resolve, recompute availability
// after the locks are held, then materialize the tickets and the
// reservation. A failed step rolls back with no partial state.
func (r *ReservationRepository) Allocate(ctx context.Context, alloc *models.Allocation) (*models.Reservation, error) {
	seatIDs := make([]int64, len(alloc.Requests))
	for i, req := range alloc.Requests {
		seatIDs[i] = req.SeatID
	}
	sort.Slice(seatIDs, func(i, j int) bool { return seatIDs[i] < seatIDs[j] })

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	locked, err := lockSeats(ctx, tx, alloc.Screening.RoomID, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock seats: %w", err)
	}

	var missing []int64
	for _, id := range seatIDs {
		if !locked[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &apperrors.InvalidSeatError{SeatIDs: missing}
	}

	// The availability read happens after the locks are acquired; the
	// locks serialize concurrent allocators, making this read race-free.
	taken, err := takenSeats(ctx, tx, alloc.Screening.ID, alloc.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute taken seats: %w", err)
	}

	var conflicts []int64
	for _, id := range seatIDs {
		if taken[id] {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		return nil, &apperrors.SeatConflictError{SeatIDs: conflicts}
	}

	var total int64
	for _, req := range alloc.Requests {
		total += req.Type.Price(alloc.Screening)
	}

	var reservationID int64
	insertQuery := `
		INSERT INTO reservations (user_id, status, created_at, expires_at, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := tx.QueryRowContext(ctx, insertQuery,
		alloc.UserID,
		models.StatusPending,
		alloc.Now,
		alloc.ExpiresAt,
		total,
	).Scan(&reservationID); err != nil {
		return nil, fmt.Errorf("failed to insert reservation: %w", err)
	}

	if err := insertTickets(ctx, tx, reservationID, alloc); err != nil {
		return nil, fmt.Errorf("failed to insert tickets: %w", err)
	}

	reservation, err := getReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return reservation, nil
}

// insertTickets bulk-inserts one ticket per requested seat with the price
// resolved from the screening tier.
func insertTickets(ctx context.Context, tx *sql.Tx, reservationID int64, alloc *models.Allocation) error {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO tickets (reservation_id, screening_id, seat_id, type, price) VALUES `)

	args := make([]interface{}, 0, len(alloc.Requests)*5)
	for i, req := range alloc.Requests {
		if i > 0 {
			sb.WriteString(",")
		}
		base := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)

		ticketType := req.Type
		if ticketType == "" {
			ticketType = models.TicketStandard
		}
		args = append(args, reservationID, alloc.Screening.ID, req.SeatID, ticketType, ticketType.Price(alloc.Screening))
	}

	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

// lockReservation takes the row lock that serializes all mutations of a
// single reservation, including the race between payment and the
// sweeper.
func lockReservation(ctx context.Context, tx *sql.Tx, id int64) (models.ReservationStatus, time.Time, error) {
	var status string
	var expiresAt time.Time

	query := `SELECT status, expires_at FROM reservations WHERE id = $1 FOR UPDATE`
	err := tx.QueryRowContext(ctx, query, id).Scan(&status, &expiresAt)
	if err == sql.ErrNoRows {
		return "", time.Time{}, apperrors.ErrNotFound
	}
	if err != nil {
		return "", time.Time{}, err
	}

	return models.ReservationStatus(status), expiresAt, nil
}

// recalcTotal re-derives total_price from the current tickets, keeping
// the invariant total_price == SUM(ticket.price) after every mutation.
func recalcTotal(ctx context.Context, tx *sql.Tx, reservationID int64) error {
	query := `
		UPDATE reservations
		SET total_price = COALESCE((SELECT SUM(price) FROM tickets WHERE reservation_id = $1), 0)
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, reservationID)
	return err
}

// screeningForReservation resolves the screening a pending reservation's
// tickets belong to. Pending reservations always hold at least one
// ticket; an empty one has already cascaded to CANCELLED.
func screeningForReservation(ctx context.Context, tx *sql.Tx, reservationID int64) (*models.Screening, error) {
	screening := &models.Screening{}
	query := `
		SELECT s.id, s.movie_id, s.room_id, s.start_time, s.end_time,
		       s.price_standard, s.price_reduced
		FROM tickets t
		JOIN screenings s ON s.id = t.screening_id
		WHERE t.reservation_id = $1
		LIMIT 1`

	err := tx.QueryRowContext(ctx, query, reservationID).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.RoomID,
		&screening.StartTime,
		&screening.EndTime,
		&screening.PriceStandard,
		&screening.PriceReduced,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrInvalidReservationAction
	}
	if err != nil {
		return nil, err
	}

	return screening, nil
}

// AddTicket appends one seat to a pending reservation, re-checking
// availability under the same lock discipline as Allocate.
func (r *ReservationRepository) AddTicket(ctx context.Context, reservationID, seatID int64, ticketType models.TicketType, now time.Time) (*models.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	status, _, err := lockReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	if status != models.StatusPending {
		return nil, apperrors.ErrInvalidReservationAction
	}

	screening, err := screeningForReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}

	locked, err := lockSeats(ctx, tx, screening.RoomID, []int64{seatID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock seat: %w", err)
	}
	if !locked[seatID] {
		return nil, &apperrors.InvalidSeatError{SeatIDs: []int64{seatID}}
	}

	taken, err := takenSeats(ctx, tx, screening.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute taken seats: %w", err)
	}
	if taken[seatID] {
		return nil, &apperrors.SeatConflictError{SeatIDs: []int64{seatID}}
	}

	if ticketType == "" {
		ticketType = models.TicketStandard
	}

	insertQuery := `
		INSERT INTO tickets (reservation_id, screening_id, seat_id, type, price)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, insertQuery,
		reservationID, screening.ID, seatID, ticketType, ticketType.Price(screening)); err != nil {
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}

	if err := recalcTotal(ctx, tx, reservationID); err != nil {
		return nil, err
	}

	reservation, err := getReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return reservation, nil
}

// RemoveTicket deletes one ticket from a pending reservation. Removing
// the last ticket cascades the reservation to CANCELLED.
func (r *ReservationRepository) RemoveTicket(ctx context.Context, reservationID, ticketID int64) (*models.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	status, _, err := lockReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	if status != models.StatusPending {
		return nil, apperrors.ErrInvalidReservationAction
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM tickets WHERE id = $1 AND reservation_id = $2`, ticketID, reservationID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.ErrNotFound
	}

	var remaining int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE reservation_id = $1`, reservationID).Scan(&remaining); err != nil {
		return nil, err
	}

	if remaining == 0 {
		// Zero tickets left: the reservation holds nothing, cancel it.
		if _, err := tx.ExecContext(ctx,
			`UPDATE reservations SET status = $1, total_price = 0 WHERE id = $2`,
			models.StatusCancelled, reservationID); err != nil {
			return nil, err
		}
	} else if err := recalcTotal(ctx, tx, reservationID); err != nil {
		return nil, err
	}

	reservation, err := getReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return reservation, nil
}

// UpdateTicketType reprices one ticket of a pending reservation from the
// screening tier of the new type.
func (r *ReservationRepository) UpdateTicketType(ctx context.Context, reservationID, ticketID int64, ticketType models.TicketType) (*models.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	status, _, err := lockReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	if status != models.StatusPending {
		return nil, apperrors.ErrInvalidReservationAction
	}

	screening := &models.Screening{}
	query := `
		SELECT s.id, s.price_standard, s.price_reduced
		FROM tickets t
		JOIN screenings s ON s.id = t.screening_id
		WHERE t.id = $1 AND t.reservation_id = $2`
	err = tx.QueryRowContext(ctx, query, ticketID, reservationID).Scan(
		&screening.ID, &screening.PriceStandard, &screening.PriceReduced)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tickets SET type = $1, price = $2 WHERE id = $3`,
		ticketType, ticketType.Price(screening), ticketID); err != nil {
		return nil, err
	}

	if err := recalcTotal(ctx, tx, reservationID); err != nil {
		return nil, err
	}

	reservation, err := getReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return reservation, nil
}

// Pay confirms a pending reservation before its deadline, assigning the
// reservation code and one code per ticket. If the hold has already
// lapsed the reservation is cancelled instead and ErrReservationExpired
// is returned; the sweeper cannot race this because both sides lock the
// reservation row and PAID is terminal.
func (r *ReservationRepository) Pay(ctx context.Context, reservationID int64, now time.Time) (*models.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	status, expiresAt, err := lockReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	// A reservation the sweeper already reclaimed reports the lapsed
	// hold, not a generic illegal action.
	if status == models.StatusCancelled && !now.Before(expiresAt) {
		return nil, apperrors.ErrReservationExpired
	}
	if !status.CanTransitionTo(models.StatusPaid) {
		return nil, apperrors.ErrInvalidReservationAction
	}

	if !now.Before(expiresAt) {
		if _, err := tx.ExecContext(ctx,
			`UPDATE reservations SET status = $1 WHERE id = $2`,
			models.StatusCancelled, reservationID); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrReservationExpired
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = $1, code = $2 WHERE id = $3`,
		models.StatusPaid, uuid.NewString(), reservationID); err != nil {
		return nil, err
	}

	ticketIDs, err := ticketIDsFor(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	for _, id := range ticketIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tickets SET code = $1 WHERE id = $2`, uuid.NewString(), id); err != nil {
			return nil, err
		}
	}

	reservation, err := getReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return reservation, nil
}

// Cancel explicitly cancels a pending reservation. Cancelling a terminal
// reservation is rejected, not crashed.
func (r *ReservationRepository) Cancel(ctx context.Context, reservationID int64) (*models.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	status, _, err := lockReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	if !status.CanTransitionTo(models.StatusCancelled) {
		return nil, apperrors.ErrInvalidReservationAction
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = $1 WHERE id = $2`,
		models.StatusCancelled, reservationID); err != nil {
		return nil, err
	}

	reservation, err := getReservation(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return reservation, nil
}

// CancelExpired bulk-cancels every pending reservation whose hold
// outlived its deadline and returns the affected ids. One statement, one
// batch; the availability checker already treats these rows as free, so
// a delayed or failed sweep is a status-visibility issue, never a
// correctness one.
func (r *ReservationRepository) CancelExpired(ctx context.Context, now time.Time) ([]int64, error) {
	query := `
		UPDATE reservations
		SET status = $1
		WHERE status = $2 AND expires_at < $3
		RETURNING id`

	rows, err := r.db.QueryContext(ctx, query, models.StatusCancelled, models.StatusPending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	return getReservation(ctx, r.db, id)
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Reservation, error) {
	query := `
		SELECT id, user_id, status, created_at, expires_at, code, total_price
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.Status, &res.CreatedAt,
			&res.ExpiresAt, &res.Code, &res.TotalPrice); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range reservations {
		tickets, err := getTickets(ctx, r.db, reservations[i].ID)
		if err != nil {
			return nil, err
		}
		reservations[i].Tickets = tickets
	}

	return reservations, nil
}

func getReservation(ctx context.Context, q queryer, id int64) (*models.Reservation, error) {
	res := &models.Reservation{}
	query := `
		SELECT id, user_id, status, created_at, expires_at, code, total_price
		FROM reservations
		WHERE id = $1`

	err := q.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.UserID, &res.Status, &res.CreatedAt,
		&res.ExpiresAt, &res.Code, &res.TotalPrice)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	res.Tickets, err = getTickets(ctx, q, id)
	if err != nil {
		return nil, err
	}

	return res, nil
}

func getTickets(ctx context.Context, q queryer, reservationID int64) ([]models.Ticket, error) {
	query := `
		SELECT id, reservation_id, screening_id, seat_id, type, price, code
		FROM tickets
		WHERE reservation_id = $1
		ORDER BY id`

	rows, err := q.QueryContext(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(
			&t.ID, &t.ReservationID, &t.ScreeningID, &t.SeatID,
			&t.Type, &t.Price, &t.Code); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}

func ticketIDsFor(ctx context.Context, tx *sql.Tx, reservationID int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM tickets WHERE reservation_id = $1 ORDER BY id`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
