package service

import (
	"context"
	"time"

	"equiplend/internal/entity"
)

// Clock abstracts "now" so booking-window validation and the lifecycle
// sweep are deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock { return systemClock{} }

type BookingService interface {
	// User-facing operations
	CreateBooking(ctx context.Context, user *entity.User, req *CreateBookingRequest) (*entity.Booking, error)
	GetBooking(ctx context.Context, user *entity.User, id int64) (*entity.Booking, error)
	GetUserBookings(ctx context.Context, userID int64, skip, limit int) ([]*entity.Booking, error)
	GetEquipmentBookings(ctx context.Context, equipmentID int64, from, to *time.Time) ([]*entity.Booking, error)
	CancelBooking(ctx context.Context, user *entity.User, id int64) error
	CheckAvailability(ctx context.Context, equipmentID int64, start time.Time, durationHours int) (*entity.AvailabilityResult, error)

	// Lifecycle sweep, invoked by the worker
	AdvanceLifecycle(ctx context.Context) (*entity.SweepResult, error)

	// Administrative operations
	GetAllBookings(ctx context.Context, skip, limit int) ([]*entity.Booking, error)
	GetBookingsByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)
	UpdateBooking(ctx context.Context, id int64, req *UpdateBookingRequest) (*entity.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type EquipmentService interface {
	CreateEquipment(ctx context.Context, req *CreateEquipmentRequest) (*entity.Equipment, error)
	GetEquipment(ctx context.Context, id int64) (*entity.Equipment, error)
	GetAllEquipment(ctx context.Context, filter *entity.EquipmentFilter) ([]*entity.Equipment, error)
	UpdateEquipment(ctx context.Context, id int64, req *UpdateEquipmentRequest) (*entity.Equipment, error)
	DeleteEquipment(ctx context.Context, id int64) error
}

type CategoryService interface {
	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, id int64) (*entity.Category, error)
	GetAllCategories(ctx context.Context) ([]*entity.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	Login(ctx context.Context, req *LoginRequest) (string, *entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetAllUsers(ctx context.Context) ([]*entity.User, error)
}

type AdminService interface {
	GetDatabaseStats(ctx context.Context) (*entity.DatabaseStats, error)
	CleanupBookings(ctx context.Context) (*entity.CleanupResult, error)
	CleanupOldBookings(ctx context.Context, daysOld int) (*entity.CleanupResult, error)
	CleanupFinishedBookings(ctx context.Context) (*entity.CleanupResult, error)
	CleanupEquipment(ctx context.Context) (*entity.CleanupResult, error)
	CleanupAll(ctx context.Context) (*entity.CleanupResult, error)
	CleanupNonAdminUsers(ctx context.Context) (*entity.CleanupResult, error)
	ResetEquipmentStatus(ctx context.Context) (*entity.CleanupResult, error)
}
