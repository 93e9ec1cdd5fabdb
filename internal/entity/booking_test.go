package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingEndTime(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	b := &Booking{StartTime: start, DurationHours: 3}

	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), b.EndTime())
}

func TestBookingStatusValid(t *testing.T) {
	assert.True(t, BookingStatusActive.Valid())
	assert.True(t, BookingStatusOngoing.Valid())
	assert.True(t, BookingStatusCompleted.Valid())
	assert.True(t, BookingStatusCancelled.Valid())
	assert.False(t, BookingStatus("pending").Valid())
	assert.False(t, BookingStatus("").Valid())
}

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"active to ongoing", BookingStatusActive, BookingStatusOngoing, true},
		{"active to cancelled", BookingStatusActive, BookingStatusCancelled, true},
		{"active to completed skips ongoing", BookingStatusActive, BookingStatusCompleted, false},
		{"ongoing to completed", BookingStatusOngoing, BookingStatusCompleted, true},
		{"ongoing to cancelled", BookingStatusOngoing, BookingStatusCancelled, false},
		{"ongoing back to active", BookingStatusOngoing, BookingStatusActive, false},
		{"completed is terminal", BookingStatusCompleted, BookingStatusActive, false},
		{"cancelled is terminal", BookingStatusCancelled, BookingStatusOngoing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.from.ValidateTransition(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			}
		})
	}
}

func TestValidateTransitionUnknownStatus(t *testing.T) {
	err := BookingStatus("bogus").ValidateTransition(BookingStatusOngoing)
	require.ErrorIs(t, err, ErrInvalidBookingStatus)

	err = BookingStatusActive.ValidateTransition(BookingStatus("bogus"))
	require.ErrorIs(t, err, ErrInvalidBookingStatus)
}

func TestDueToStart(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		b    Booking
		want bool
	}{
		{"active with past start", Booking{Status: BookingStatusActive, StartTime: now.Add(-time.Minute)}, true},
		{"active starting exactly now", Booking{Status: BookingStatusActive, StartTime: now}, true},
		{"active with future start", Booking{Status: BookingStatusActive, StartTime: now.Add(time.Minute)}, false},
		{"ongoing is not due again", Booking{Status: BookingStatusOngoing, StartTime: now.Add(-time.Hour)}, false},
		{"cancelled never starts", Booking{Status: BookingStatusCancelled, StartTime: now.Add(-time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.b.DueToStart(now))
		})
	}
}

func TestDueToComplete(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		b    Booking
		want bool
	}{
		{
			"ongoing past end",
			Booking{Status: BookingStatusOngoing, StartTime: now.Add(-3 * time.Hour), DurationHours: 2},
			true,
		},
		{
			"ongoing ending exactly now",
			Booking{Status: BookingStatusOngoing, StartTime: now.Add(-2 * time.Hour), DurationHours: 2},
			true,
		},
		{
			"ongoing still running",
			Booking{Status: BookingStatusOngoing, StartTime: now.Add(-time.Hour), DurationHours: 2},
			false,
		},
		{
			"active past end is not completed directly",
			Booking{Status: BookingStatusActive, StartTime: now.Add(-3 * time.Hour), DurationHours: 2},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.b.DueToComplete(now))
		})
	}
}

func TestCancellable(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingStatusActive}).Cancellable())
	assert.False(t, (&Booking{Status: BookingStatusOngoing}).Cancellable())
	assert.False(t, (&Booking{Status: BookingStatusCompleted}).Cancellable())
	assert.False(t, (&Booking{Status: BookingStatusCancelled}).Cancellable())
}

func TestSweepResultTotal(t *testing.T) {
	r := &SweepResult{Activated: 2, Completed: 3, EquipmentUpdated: 4}
	assert.Equal(t, int64(9), r.Total())

	assert.Equal(t, int64(0), (&SweepResult{}).Total())
}
