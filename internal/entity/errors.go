package entity

import "errors"

var (
	// Equipment errors
	ErrEquipmentNotFound      = errors.New("equipment not found")
	ErrEquipmentUnavailable   = errors.New("equipment is not available")
	ErrEquipmentHasBookings   = errors.New("cannot delete equipment with active bookings")
	ErrInvalidEquipmentStatus = errors.New("invalid equipment status")

	// Booking errors
	ErrBookingNotFound         = errors.New("booking not found")
	ErrTimeSlotConflict        = errors.New("equipment is not available for the selected time slot")
	ErrInvalidDuration         = errors.New("booking duration must be between 1 and 8 hours")
	ErrStartInPast             = errors.New("booking start time cannot be in the past")
	ErrStartTooFarAhead        = errors.New("bookings can only be made up to 2 weeks in advance")
	ErrInvalidBookingStatus    = errors.New("invalid booking status")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrNotCancellable          = errors.New("only active bookings can be cancelled")
	ErrAdminsCannotBook        = errors.New("admins cannot create bookings")

	// Category errors
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryExists       = errors.New("category with this name already exists")
	ErrCategoryHasEquipment = errors.New("cannot delete category with assigned equipment")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// General errors
	ErrForbidden    = errors.New("not enough permissions")
	ErrUnauthorized = errors.New("could not validate credentials")
)
