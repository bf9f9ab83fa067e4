package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createMoviesTable,
		createRoomsTable,
		createSeatsTable,
		createScreeningsTable,
		createReservationsTable,
		createTicketsTable,
		createScreeningRoomIndex,
		createReservationExpiryIndex,
		createTicketScreeningIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    surname VARCHAR(100) NOT NULL,
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);`

const createMoviesTable = `
CREATE TABLE IF NOT EXISTS movies (
    id SERIAL PRIMARY KEY,
    title VARCHAR(500) NOT NULL,
    duration_min INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createRoomsTable = `
CREATE TABLE IF NOT EXISTS rooms (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createSeatsTable = `
CREATE TABLE IF NOT EXISTS seats (
    id SERIAL PRIMARY KEY,
    room_id INTEGER NOT NULL REFERENCES rooms(id),
    row_number INTEGER NOT NULL,
    seat_number INTEGER NOT NULL,

    UNIQUE(room_id, row_number, seat_number)
);`

const createScreeningsTable = `
CREATE TABLE IF NOT EXISTS screenings (
    id SERIAL PRIMARY KEY,
    movie_id INTEGER NOT NULL REFERENCES movies(id),
    room_id INTEGER NOT NULL REFERENCES rooms(id),
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP NOT NULL,
    price_standard BIGINT NOT NULL,
    price_reduced BIGINT NOT NULL,

    CHECK (end_time > start_time)
);`

const createReservationsTable = `
CREATE TABLE IF NOT EXISTS reservations (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMP NOT NULL,
    code VARCHAR(36),
    total_price BIGINT NOT NULL DEFAULT 0,

    CHECK (status IN ('PENDING', 'PAID', 'CANCELLED'))
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id SERIAL PRIMARY KEY,
    reservation_id INTEGER NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
    screening_id INTEGER NOT NULL REFERENCES screenings(id),
    seat_id INTEGER NOT NULL REFERENCES seats(id),
    type VARCHAR(20) NOT NULL DEFAULT 'STANDARD',
    price BIGINT NOT NULL,
    code VARCHAR(36),

    UNIQUE(reservation_id, seat_id),
    CHECK (type IN ('STANDARD', 'REDUCED'))
);`

const createScreeningRoomIndex = `
CREATE INDEX IF NOT EXISTS screenings_room_time_idx
ON screenings (room_id, start_time, end_time);`

const createReservationExpiryIndex = `
CREATE INDEX IF NOT EXISTS reservations_pending_expiry_idx
ON reservations (expires_at) WHERE status = 'PENDING';`

const createTicketScreeningIndex = `
CREATE INDEX IF NOT EXISTS tickets_screening_idx
ON tickets (screening_id);`
