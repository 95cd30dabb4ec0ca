package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

// bookingColumns is the shared SELECT list; every booking query joins
// items and users so rows come back with the display names attached.
const bookingColumns = `b.id, b.item_id, i.name, b.booker_id, u.name,
               b.start_date, b.end_date, b.status, b.version, b.created_at, b.updated_at
        FROM bookings b
        JOIN items i ON i.id = b.item_id
        JOIN users u ON u.id = b.booker_id`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, version, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		formatTime(booking.Start),
		formatTime(booking.End),
		booking.Status,
		1,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` WHERE b.id = ?`
	booking, err := db.queryBooking(ctx, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatusWithVersion transitions a booking's status only when
// the stored version still matches, so two concurrent decisions cannot
// both succeed.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// Booker-side list queries. Ordered by start descending; offset is an
// absolute row offset, not a page index.

func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE b.booker_id = ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, bookerID, size, offset)
}

func (db *DB) GetCurrentBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE b.booker_id = ? AND b.start_date <= ? AND b.end_date >= ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	ts := formatTime(now)
	return db.queryBookings(ctx, query, bookerID, ts, ts, size, offset)
}

func (db *DB) GetPastBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE b.booker_id = ? AND b.end_date < ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, bookerID, formatTime(now), size, offset)
}

func (db *DB) GetFutureBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE b.booker_id = ? AND b.start_date > ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, bookerID, formatTime(now), size, offset)
}

func (db *DB) GetBookingsByBookerAndStatus(ctx context.Context, bookerID int64, status string, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE b.booker_id = ? AND b.status = ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, bookerID, status, size, offset)
}

// Owner-side list queries: same shapes keyed on the owner of the booked item.

func (db *DB) GetBookingsByOwner(ctx context.Context, ownerID int64, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE i.owner_id = ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, ownerID, size, offset)
}

func (db *DB) GetCurrentBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE i.owner_id = ? AND b.start_date <= ? AND b.end_date >= ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	ts := formatTime(now)
	return db.queryBookings(ctx, query, ownerID, ts, ts, size, offset)
}

func (db *DB) GetPastBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE i.owner_id = ? AND b.end_date < ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, ownerID, formatTime(now), size, offset)
}

func (db *DB) GetFutureBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE i.owner_id = ? AND b.start_date > ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, ownerID, formatTime(now), size, offset)
}

func (db *DB) GetBookingsByOwnerAndStatus(ctx context.Context, ownerID int64, status string, offset, size int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE i.owner_id = ? AND b.status = ?
        ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, ownerID, status, size, offset)
}

// FindLastBooking returns the most recent booking of the item that ended
// before now, or nil when there is none.
func (db *DB) FindLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE b.item_id = ? AND b.end_date < ?
        ORDER BY b.start_date DESC LIMIT 1`
	booking, err := db.queryBooking(ctx, query, itemID, formatTime(now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find last booking: %w", err)
	}
	return booking, nil
}

// FindNextBooking returns the earliest booking of the item starting after
// now, or nil when there is none.
func (db *DB) FindNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE b.item_id = ? AND b.start_date > ?
        ORDER BY b.start_date ASC LIMIT 1`
	booking, err := db.queryBooking(ctx, query, itemID, formatTime(now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find next booking: %w", err)
	}
	return booking, nil
}

// FindCompletedBookings returns bookings of the item by the given booker
// that ended before now. Used to gate comment creation.
func (db *DB) FindCompletedBookings(ctx context.Context, bookerID, itemID int64, now time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
        WHERE b.booker_id = ? AND b.item_id = ? AND b.end_date < ?`
	return db.queryBookings(ctx, query, bookerID, itemID, formatTime(now))
}

// GetAllBookings returns every booking ordered by start descending; only
// used by the report exporter.
func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` ORDER BY b.start_date DESC`
	return db.queryBookings(ctx, query)
}

// start_date/end_date are DATETIME columns, so the driver hands them back
// as time.Time; scan them directly like created_at.
func (db *DB) queryBooking(ctx context.Context, query string, args ...interface{}) (*models.Booking, error) {
	var b models.Booking
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(
			&b.ID, &b.ItemID, &b.ItemName, &b.BookerID, &b.BookerName,
			&b.Start, &b.End, &b.Status, &b.Version, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}
	return bookings, nil
}
