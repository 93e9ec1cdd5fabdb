package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusOngoing   BookingStatus = "ongoing"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookingTransitions is the full lifecycle: active -> ongoing -> completed,
// cancellation only from active. Completed and cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusActive:    {BookingStatusOngoing, BookingStatusCancelled},
	BookingStatusOngoing:   {BookingStatusCompleted},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s BookingStatus) ValidateTransition(to BookingStatus) error {
	if !s.Valid() || !to.Valid() {
		return ErrInvalidBookingStatus
	}
	if !s.CanTransition(to) {
		return ErrInvalidStatusTransition
	}
	return nil
}

const (
	MinBookingHours = 1
	MaxBookingHours = 8

	// MaxAdvanceBooking is how far into the future a start time may lie.
	MaxAdvanceBooking = 14 * 24 * time.Hour
)

type Booking struct {
	ID            int64         `json:"id" db:"id"`
	EquipmentID   int64         `json:"equipment_id" db:"equipment_id"`
	UserID        int64         `json:"user_id" db:"user_id"`
	BorrowerName  string        `json:"borrower_name" db:"borrower_name"`
	BorrowerEmail string        `json:"borrower_email" db:"borrower_email"`
	StartTime     time.Time     `json:"start_time" db:"start_time"`
	DurationHours int           `json:"duration_hours" db:"duration_hours"`
	Status        BookingStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// EndTime is derived from start and duration and is never stored.
func (b *Booking) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationHours) * time.Hour)
}

// DueToStart reports whether an active booking should move to ongoing.
func (b *Booking) DueToStart(now time.Time) bool {
	return b.Status == BookingStatusActive && !b.StartTime.After(now)
}

// DueToComplete reports whether an ongoing booking should move to completed.
func (b *Booking) DueToComplete(now time.Time) bool {
	return b.Status == BookingStatusOngoing && !b.EndTime().After(now)
}

// Cancellable reports whether the owner may still cancel the booking.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingStatusActive
}

// SweepResult is the outcome of one lifecycle sweep.
type SweepResult struct {
	Activated        int64 `json:"activated"`
	Completed        int64 `json:"completed"`
	EquipmentUpdated int64 `json:"equipment_updated"`
}

func (r *SweepResult) Total() int64 {
	return r.Activated + r.Completed + r.EquipmentUpdated
}

// AvailabilityResult is the verdict for one proposed time slot.
type AvailabilityResult struct {
	EquipmentID   int64      `json:"equipment_id"`
	StartTime     time.Time  `json:"start_datetime"`
	EndTime       time.Time  `json:"end_datetime"`
	DurationHours int        `json:"duration_hours"`
	IsAvailable   bool       `json:"is_available"`
	Conflicts     []*Booking `json:"-"`
	ConflictCount int        `json:"conflicting_bookings"`
}
