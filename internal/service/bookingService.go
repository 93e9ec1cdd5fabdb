package service

import (
	"fmt"
	"time"

	"context"

	repository "equiplend/internal/database/postgres"
	"equiplend/internal/entity"

	"github.com/sirupsen/logrus"
)

// CreateBookingRequest carries the user-supplied part of a new booking.
type CreateBookingRequest struct {
	EquipmentID   int64     `json:"equipment_id" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	DurationHours int       `json:"duration_hours" binding:"required,min=1,max=8"`
}

// UpdateBookingRequest is the admin-only partial update.
type UpdateBookingRequest struct {
	StartTime     *time.Time            `json:"start_time"`
	DurationHours *int                  `json:"duration_hours"`
	Status        *entity.BookingStatus `json:"status"`
}

type bookingService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
	clock         Clock
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	equipmentRepo repository.EquipmentRepository,
	clock Clock,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		clock:         clock,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, user *entity.User, req *CreateBookingRequest) (*entity.Booking, error) {
	if user.IsAdmin() {
		return nil, entity.ErrAdminsCannotBook
	}

	if err := ValidateDuration(req.DurationHours); err != nil {
		return nil, err
	}
	if err := ValidateBookingWindow(s.clock.Now(), req.StartTime); err != nil {
		return nil, err
	}

	result, err := s.CheckAvailability(ctx, req.EquipmentID, req.StartTime, req.DurationHours)
	if err != nil {
		return nil, err
	}
	if !result.IsAvailable {
		if result.ConflictCount > 0 {
			return nil, entity.ErrTimeSlotConflict
		}
		return nil, entity.ErrEquipmentUnavailable
	}

	booking := &entity.Booking{
		EquipmentID:   req.EquipmentID,
		UserID:        user.ID,
		BorrowerName:  user.Name,
		BorrowerEmail: user.Email,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		Status:        entity.BookingStatusActive,
	}

	// The repository repeats the status and overlap checks inside one
	// transaction with the equipment row locked, closing the race between
	// two concurrent creates.
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"equipment_id": booking.EquipmentID,
		"user_id":      booking.UserID,
		"start_time":   booking.StartTime,
	}).Info("Booking created")

	return booking, nil
}

// CheckAvailability resolves the stored equipment status plus the active
// bookings, then delegates the decision to the pure checker.
func (s *bookingService) CheckAvailability(ctx context.Context, equipmentID int64, start time.Time, durationHours int) (*entity.AvailabilityResult, error) {
	status, err := s.equipmentRepo.GetStoredStatus(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookingRepo.GetActiveByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active bookings: %w", err)
	}

	return CheckAvailability(equipmentID, status, start, durationHours, existing), nil
}

func (s *bookingService) GetBooking(ctx context.Context, user *entity.User, id int64) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && booking.UserID != user.ID {
		// Do not leak other users' bookings.
		return nil, entity.ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID int64, skip, limit int) ([]*entity.Booking, error) {
	return s.bookingRepo.GetByUserID(ctx, userID, skip, limit)
}

func (s *bookingService) GetEquipmentBookings(ctx context.Context, equipmentID int64, from, to *time.Time) ([]*entity.Booking, error) {
	return s.bookingRepo.GetByEquipment(ctx, equipmentID, from, to)
}

// CancelBooking deletes the booking outright, but only while it is still
// active and only for its owner or an admin.
func (s *bookingService) CancelBooking(ctx context.Context, user *entity.User, id int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsAdmin() && booking.UserID != user.ID {
		return entity.ErrBookingNotFound
	}
	if !booking.Cancellable() {
		return entity.ErrNotCancellable
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": id,
		"user_id":    user.ID,
	}).Info("Booking cancelled and removed")
	return nil
}

// AdvanceLifecycle runs one sweep at the injected clock's current time.
func (s *bookingService) AdvanceLifecycle(ctx context.Context) (*entity.SweepResult, error) {
	now := s.clock.Now()

	result, err := s.bookingRepo.AdvanceLifecycle(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("lifecycle sweep failed: %w", err)
	}

	if result.Total() > 0 {
		logrus.WithFields(logrus.Fields{
			"activated":         result.Activated,
			"completed":         result.Completed,
			"equipment_updated": result.EquipmentUpdated,
		}).Info("Lifecycle sweep applied transitions")
	}
	return result, nil
}

func (s *bookingService) GetAllBookings(ctx context.Context, skip, limit int) ([]*entity.Booking, error) {
	return s.bookingRepo.GetAll(ctx, skip, limit)
}

func (s *bookingService) GetBookingsByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	if !status.Valid() {
		return nil, entity.ErrInvalidBookingStatus
	}
	return s.bookingRepo.GetByStatus(ctx, status)
}

func (s *bookingService) UpdateBooking(ctx context.Context, id int64, req *UpdateBookingRequest) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Status-only updates skip the full row rewrite.
	if req.Status != nil && req.StartTime == nil && req.DurationHours == nil {
		if err := booking.Status.ValidateTransition(*req.Status); err != nil {
			return nil, err
		}
		if err := s.bookingRepo.UpdateStatus(ctx, id, *req.Status); err != nil {
			return nil, err
		}
		booking.Status = *req.Status
		return booking, nil
	}

	if req.DurationHours != nil {
		if err := ValidateDuration(*req.DurationHours); err != nil {
			return nil, err
		}
		booking.DurationHours = *req.DurationHours
	}
	if req.StartTime != nil {
		if err := ValidateBookingWindow(s.clock.Now(), *req.StartTime); err != nil {
			return nil, err
		}
		booking.StartTime = *req.StartTime
	}
	if req.Status != nil {
		if err := booking.Status.ValidateTransition(*req.Status); err != nil {
			return nil, err
		}
		booking.Status = *req.Status
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, id int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !booking.Cancellable() {
		return entity.ErrNotCancellable
	}
	return s.bookingRepo.Delete(ctx, id)
}
