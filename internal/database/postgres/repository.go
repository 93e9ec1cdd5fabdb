package repository

import (
	"context"
	"time"

	"equiplend/internal/entity"
)

type BookingRepository interface {
	// Create inserts the booking after re-checking equipment status and
	// interval overlap inside one transaction with the equipment row locked.
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id int64) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error
	Update(ctx context.Context, booking *entity.Booking) error
	Delete(ctx context.Context, id int64) error

	// Query operations
	GetAll(ctx context.Context, skip, limit int) ([]*entity.Booking, error)
	GetByUserID(ctx context.Context, userID int64, skip, limit int) ([]*entity.Booking, error)
	GetByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)
	GetActiveByEquipment(ctx context.Context, equipmentID int64) ([]*entity.Booking, error)
	GetByEquipment(ctx context.Context, equipmentID int64, from, to *time.Time) ([]*entity.Booking, error)
	CountOpenByEquipment(ctx context.Context, equipmentID int64) (int64, error)

	// AdvanceLifecycle runs the full status sweep and equipment resync in
	// one transaction and reports the transition counts.
	AdvanceLifecycle(ctx context.Context, now time.Time) (*entity.SweepResult, error)

	// Administrative cleanup
	DeleteAll(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteFinished(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error)
}

type EquipmentRepository interface {
	Create(ctx context.Context, equipment *entity.Equipment) error
	GetByID(ctx context.Context, id int64) (*entity.Equipment, error)
	// GetStoredStatus returns the cached status column, bypassing the live
	// ongoing-booking projection used by GetByID and GetAll.
	GetStoredStatus(ctx context.Context, id int64) (entity.EquipmentStatus, error)
	GetAll(ctx context.Context, filter *entity.EquipmentFilter) ([]*entity.Equipment, error)
	Update(ctx context.Context, equipment *entity.Equipment) error
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status entity.EquipmentStatus) error

	// Administrative operations
	DeleteAll(ctx context.Context) (int64, error)
	ResetBorrowed(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (total, available, borrowed int64, err error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	RenameCategory(ctx context.Context, categoryID int64, newName string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	GetAll(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetAll(ctx context.Context) ([]*entity.User, error)
	DeleteNonAdmins(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context) (total, admins, regular int64, err error)
}
