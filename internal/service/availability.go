package service

import (
	"time"

	"equiplend/internal/entity"
)

// ValidateDuration checks the 1..8 hour bound on a proposed duration.
func ValidateDuration(hours int) error {
	if hours < entity.MinBookingHours || hours > entity.MaxBookingHours {
		return entity.ErrInvalidDuration
	}
	return nil
}

// ValidateBookingWindow checks that a proposed start lies between now and
// now plus the advance window. Independent of the overlap algorithm; now is
// passed in, never read from a live clock here.
func ValidateBookingWindow(now, start time.Time) error {
	if start.Before(now) {
		return entity.ErrStartInPast
	}
	if start.After(now.Add(entity.MaxAdvanceBooking)) {
		return entity.ErrStartTooFarAhead
	}
	return nil
}

// Overlaps applies the half-open interval test: [aStart, aEnd) and
// [bStart, bEnd) overlap iff aStart < bEnd && aEnd > bStart. Back-to-back
// intervals, where one ends exactly when the other begins, do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CheckAvailability is the pure availability verdict: the proposed slot is
// available iff no active booking overlaps it AND the stored equipment
// status is available. The status gate is independent of the interval scan;
// the stricter of the two signals wins. All conflicts are collected rather
// than short-circuiting on the first, so callers can report a count.
func CheckAvailability(
	equipmentID int64,
	equipmentStatus entity.EquipmentStatus,
	start time.Time,
	durationHours int,
	existing []*entity.Booking,
) *entity.AvailabilityResult {
	end := start.Add(time.Duration(durationHours) * time.Hour)

	var conflicts []*entity.Booking
	for _, candidate := range existing {
		if candidate.Status != entity.BookingStatusActive {
			continue
		}
		if Overlaps(candidate.StartTime, candidate.EndTime(), start, end) {
			conflicts = append(conflicts, candidate)
		}
	}

	return &entity.AvailabilityResult{
		EquipmentID:   equipmentID,
		StartTime:     start,
		EndTime:       end,
		DurationHours: durationHours,
		IsAvailable:   len(conflicts) == 0 && equipmentStatus == entity.EquipmentStatusAvailable,
		Conflicts:     conflicts,
		ConflictCount: len(conflicts),
	}
}
