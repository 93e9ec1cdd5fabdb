package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"equiplend/internal/entity"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `
	id, equipment_id, user_id, borrower_name, borrower_email,
	start_time, duration_hours, status, created_at, updated_at`

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.EquipmentID,
		&booking.UserID,
		&booking.BorrowerName,
		&booking.BorrowerEmail,
		&booking.StartTime,
		&booking.DurationHours,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create inserts a booking inside a single transaction. The equipment row is
// locked FOR UPDATE for the duration of the check-then-insert so that two
// concurrent creates for overlapping intervals cannot both commit.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the equipment row and re-check its status under the lock.
	var equipmentStatus entity.EquipmentStatus
	query := `SELECT status FROM equipment WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, booking.EquipmentID).Scan(&equipmentStatus)
	if err == sql.ErrNoRows {
		return entity.ErrEquipmentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock equipment row: %w", err)
	}
	if equipmentStatus != entity.EquipmentStatusAvailable {
		return entity.ErrEquipmentUnavailable
	}

	// Half-open overlap re-check against active bookings.
	var conflicts int
	query = `
		SELECT COUNT(*)
		FROM bookings
		WHERE equipment_id = $1
		  AND status = 'active'
		  AND start_time < $2
		  AND start_time + make_interval(hours => duration_hours) > $3
	`
	proposedEnd := booking.EndTime()
	err = tx.QueryRowContext(ctx, query, booking.EquipmentID, proposedEnd, booking.StartTime).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("failed to check conflicting bookings: %w", err)
	}
	if conflicts > 0 {
		return entity.ErrTimeSlotConflict
	}

	query = `
		INSERT INTO bookings (
			equipment_id, user_id, borrower_name, borrower_email,
			start_time, duration_hours, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	now := time.Now()
	err = tx.QueryRowContext(ctx, query,
		booking.EquipmentID,
		booking.UserID,
		booking.BorrowerName,
		booking.BorrowerEmail,
		booking.StartTime,
		booking.DurationHours,
		booking.Status,
		now,
		now,
	).Scan(&booking.ID)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET start_time = $1, duration_hours = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		booking.StartTime,
		booking.DurationHours,
		booking.Status,
		time.Now(),
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM bookings WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*entity.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) GetAll(ctx context.Context, skip, limit int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	return r.queryBookings(ctx, query, skip, limit)
}

func (r *bookingRepository) GetByUserID(ctx context.Context, userID int64, skip, limit int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`
	return r.queryBookings(ctx, query, userID, skip, limit)
}

func (r *bookingRepository) GetByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY start_time ASC`
	return r.queryBookings(ctx, query, status)
}

func (r *bookingRepository) GetActiveByEquipment(ctx context.Context, equipmentID int64) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE equipment_id = $1 AND status = 'active' ORDER BY start_time ASC`
	return r.queryBookings(ctx, query, equipmentID)
}

func (r *bookingRepository) GetByEquipment(ctx context.Context, equipmentID int64, from, to *time.Time) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE equipment_id = $1`
	args := []interface{}{equipmentID}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND start_time >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND start_time <= $%d", len(args))
	}
	query += " ORDER BY start_time ASC"

	return r.queryBookings(ctx, query, args...)
}

func (r *bookingRepository) CountOpenByEquipment(ctx context.Context, equipmentID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE equipment_id = $1 AND status IN ('active', 'ongoing')`
	var count int64
	if err := r.db.QueryRowContext(ctx, query, equipmentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open bookings: %w", err)
	}
	return count, nil
}

// AdvanceLifecycle runs the whole sweep in one transaction: activate due
// bookings, complete finished ones, then resynchronize every equipment row
// against the post-sweep set of ongoing bookings. Idempotent for a fixed now.
func (r *bookingRepository) AdvanceLifecycle(ctx context.Context, now time.Time) (*entity.SweepResult, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result := &entity.SweepResult{}

	query := `UPDATE bookings SET status = 'ongoing', updated_at = $1 WHERE status = 'active' AND start_time <= $1`
	res, err := tx.ExecContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to activate due bookings: %w", err)
	}
	if result.Activated, err = res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	query = `
		UPDATE bookings SET status = 'completed', updated_at = $1
		WHERE status = 'ongoing' AND start_time + make_interval(hours => duration_hours) <= $1
	`
	res, err = tx.ExecContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to complete finished bookings: %w", err)
	}
	if result.Completed, err = res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	// Full resync over all equipment, not only rows touched above. Slower,
	// but self-healing against drift.
	query = `
		UPDATE equipment e SET status = 'borrowed', updated_at = $1
		WHERE e.status <> 'borrowed'
		  AND EXISTS (SELECT 1 FROM bookings b WHERE b.equipment_id = e.id AND b.status = 'ongoing')
	`
	res, err = tx.ExecContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark equipment borrowed: %w", err)
	}
	borrowed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	query = `
		UPDATE equipment e SET status = 'available', updated_at = $1
		WHERE e.status <> 'available'
		  AND NOT EXISTS (SELECT 1 FROM bookings b WHERE b.equipment_id = e.id AND b.status = 'ongoing')
	`
	res, err = tx.ExecContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark equipment available: %w", err)
	}
	released, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	result.EquipmentUpdated = borrowed + released

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

func (r *bookingRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings: %w", err)
	}
	return result.RowsAffected()
}

func (r *bookingRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old bookings: %w", err)
	}
	return result.RowsAffected()
}

func (r *bookingRepository) DeleteFinished(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE status IN ('completed', 'cancelled')`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete finished bookings: %w", err)
	}
	return result.RowsAffected()
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM bookings GROUP BY status`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.BookingStatus]int64)
	for rows.Next() {
		var status entity.BookingStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}
	return counts, nil
}
