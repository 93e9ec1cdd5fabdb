package service

import (
	"context"
	"fmt"

	repository "equiplend/internal/database/postgres"
	"equiplend/internal/entity"

	"github.com/sirupsen/logrus"
)

type adminService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
	categoryRepo  repository.CategoryRepository
	userRepo      repository.UserRepository
	clock         Clock
}

func NewAdminService(
	bookingRepo repository.BookingRepository,
	equipmentRepo repository.EquipmentRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	clock Clock,
) AdminService {
	return &adminService{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		categoryRepo:  categoryRepo,
		userRepo:      userRepo,
		clock:         clock,
	}
}

func (s *adminService) GetDatabaseStats(ctx context.Context) (*entity.DatabaseStats, error) {
	stats := &entity.DatabaseStats{}

	var err error
	if stats.Users, stats.Admins, stats.RegularUsers, err = s.userRepo.CountByRole(ctx); err != nil {
		return nil, err
	}
	if stats.Categories, err = s.categoryRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Equipment, stats.AvailableEquipment, stats.BorrowedEquipment, err = s.equipmentRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}

	byStatus, err := s.bookingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for status, count := range byStatus {
		stats.Bookings += count
		switch status {
		case entity.BookingStatusActive:
			stats.ActiveBookings = count
		case entity.BookingStatusOngoing:
			stats.OngoingBookings = count
		case entity.BookingStatusCompleted:
			stats.CompletedBookings = count
		case entity.BookingStatusCancelled:
			stats.CancelledBookings = count
		}
	}
	return stats, nil
}

func cleanupResult(operation string, deleted int64, noun string) *entity.CleanupResult {
	message := fmt.Sprintf("Successfully deleted %d %s", deleted, noun)
	if deleted == 0 {
		message = fmt.Sprintf("No %s to clean", noun)
	}
	return &entity.CleanupResult{
		Message:      message,
		DeletedCount: deleted,
		Operation:    operation,
	}
}

func (s *adminService) CleanupBookings(ctx context.Context) (*entity.CleanupResult, error) {
	deleted, err := s.bookingRepo.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	logrus.WithField("deleted", deleted).Info("Cleaned all bookings")
	return cleanupResult("clean_all_bookings", deleted, "booking records"), nil
}

func (s *adminService) CleanupOldBookings(ctx context.Context, daysOld int) (*entity.CleanupResult, error) {
	if daysOld <= 0 {
		daysOld = 30
	}
	cutoff := s.clock.Now().AddDate(0, 0, -daysOld)

	deleted, err := s.bookingRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"deleted": deleted, "cutoff": cutoff}).Info("Cleaned old bookings")
	return cleanupResult("clean_old_bookings", deleted, fmt.Sprintf("bookings older than %d days", daysOld)), nil
}

func (s *adminService) CleanupFinishedBookings(ctx context.Context) (*entity.CleanupResult, error) {
	deleted, err := s.bookingRepo.DeleteFinished(ctx)
	if err != nil {
		return nil, err
	}
	logrus.WithField("deleted", deleted).Info("Cleaned completed/cancelled bookings")
	return cleanupResult("clean_completed_cancelled_bookings", deleted, "completed/cancelled bookings"), nil
}

func (s *adminService) CleanupEquipment(ctx context.Context) (*entity.CleanupResult, error) {
	deleted, err := s.equipmentRepo.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	logrus.WithField("deleted", deleted).Info("Cleaned all equipment")
	return cleanupResult("clean_all_equipment", deleted, "equipment records"), nil
}

// CleanupAll removes bookings first so equipment deletion does not trip the
// foreign key.
func (s *adminService) CleanupAll(ctx context.Context) (*entity.CleanupResult, error) {
	bookings, err := s.bookingRepo.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	equipment, err := s.equipmentRepo.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"deleted_bookings":  bookings,
		"deleted_equipment": equipment,
	}).Info("Cleaned all bookings and equipment")

	return &entity.CleanupResult{
		Message:      fmt.Sprintf("Successfully cleaned %d bookings and %d equipment records", bookings, equipment),
		DeletedCount: bookings + equipment,
		Operation:    "clean_all_bookings_and_equipment",
	}, nil
}

func (s *adminService) CleanupNonAdminUsers(ctx context.Context) (*entity.CleanupResult, error) {
	deleted, err := s.userRepo.DeleteNonAdmins(ctx)
	if err != nil {
		return nil, err
	}
	logrus.WithField("deleted", deleted).Info("Cleaned non-admin users")
	return cleanupResult("clean_non_admin_users", deleted, "non-admin users"), nil
}

func (s *adminService) ResetEquipmentStatus(ctx context.Context) (*entity.CleanupResult, error) {
	updated, err := s.equipmentRepo.ResetBorrowed(ctx)
	if err != nil {
		return nil, err
	}
	logrus.WithField("updated", updated).Info("Reset equipment status")

	message := fmt.Sprintf("Successfully reset %d equipment items to available status", updated)
	if updated == 0 {
		message = "No borrowed equipment to reset"
	}
	return &entity.CleanupResult{
		Message:      message,
		DeletedCount: updated,
		Operation:    "reset_equipment_status",
	}, nil
}
