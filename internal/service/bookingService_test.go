package service

import (
	"context"
	"testing"
	"time"

	"equiplend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock pins "now" for the window and sweep logic.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeBookingRepo overrides only the methods a given test exercises;
// the rest return zero values.
type fakeBookingRepo struct {
	createFn           func(ctx context.Context, booking *entity.Booking) error
	getByIDFn          func(ctx context.Context, id int64) (*entity.Booking, error)
	updateFn           func(ctx context.Context, booking *entity.Booking) error
	updateStatusFn     func(ctx context.Context, id int64, status entity.BookingStatus) error
	deleteFn           func(ctx context.Context, id int64) error
	getByStatusFn      func(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)
	activeByEquipment  []*entity.Booking
	advanceLifecycleFn func(ctx context.Context, now time.Time) (*entity.SweepResult, error)
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	if f.createFn != nil {
		return f.createFn(ctx, booking)
	}
	booking.ID = 1
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*entity.Booking, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, entity.ErrBookingNotFound
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, booking *entity.Booking) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, booking)
	}
	return nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeBookingRepo) GetAll(ctx context.Context, skip, limit int) ([]*entity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) GetByUserID(ctx context.Context, userID int64, skip, limit int) ([]*entity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) GetByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	if f.getByStatusFn != nil {
		return f.getByStatusFn(ctx, status)
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetActiveByEquipment(ctx context.Context, equipmentID int64) ([]*entity.Booking, error) {
	return f.activeByEquipment, nil
}

func (f *fakeBookingRepo) GetByEquipment(ctx context.Context, equipmentID int64, from, to *time.Time) ([]*entity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) CountOpenByEquipment(ctx context.Context, equipmentID int64) (int64, error) {
	return 0, nil
}

func (f *fakeBookingRepo) AdvanceLifecycle(ctx context.Context, now time.Time) (*entity.SweepResult, error) {
	if f.advanceLifecycleFn != nil {
		return f.advanceLifecycleFn(ctx, now)
	}
	return &entity.SweepResult{}, nil
}

func (f *fakeBookingRepo) DeleteAll(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeBookingRepo) DeleteFinished(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeBookingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeBookingRepo) CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error) {
	return nil, nil
}

type fakeEquipmentRepo struct {
	storedStatus    entity.EquipmentStatus
	storedStatusErr error
	getByIDFn       func(ctx context.Context, id int64) (*entity.Equipment, error)
	updateFn        func(ctx context.Context, equipment *entity.Equipment) error
	setStatusFn     func(ctx context.Context, id int64, status entity.EquipmentStatus) error
}

func (f *fakeEquipmentRepo) Create(ctx context.Context, equipment *entity.Equipment) error {
	return nil
}

func (f *fakeEquipmentRepo) GetByID(ctx context.Context, id int64) (*entity.Equipment, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, entity.ErrEquipmentNotFound
}

func (f *fakeEquipmentRepo) GetStoredStatus(ctx context.Context, id int64) (entity.EquipmentStatus, error) {
	if f.storedStatusErr != nil {
		return "", f.storedStatusErr
	}
	return f.storedStatus, nil
}

func (f *fakeEquipmentRepo) GetAll(ctx context.Context, filter *entity.EquipmentFilter) ([]*entity.Equipment, error) {
	return nil, nil
}

func (f *fakeEquipmentRepo) Update(ctx context.Context, equipment *entity.Equipment) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, equipment)
	}
	return nil
}

func (f *fakeEquipmentRepo) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeEquipmentRepo) SetStatus(ctx context.Context, id int64, status entity.EquipmentStatus) error {
	if f.setStatusFn != nil {
		return f.setStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeEquipmentRepo) DeleteAll(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeEquipmentRepo) ResetBorrowed(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeEquipmentRepo) CountByStatus(ctx context.Context) (total, available, borrowed int64, err error) {
	return 0, 0, 0, nil
}

func (f *fakeEquipmentRepo) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	return 0, nil
}

func (f *fakeEquipmentRepo) RenameCategory(ctx context.Context, categoryID int64, newName string) error {
	return nil
}

var (
	testNow   = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	testUser  = &entity.User{ID: 7, Name: "Jess Doe", Email: "jess@example.com", Role: entity.UserRoleUser}
	testAdmin = &entity.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: entity.UserRoleAdmin}
)

func newTestBookingService(bookings *fakeBookingRepo, equipment *fakeEquipmentRepo) BookingService {
	if bookings == nil {
		bookings = &fakeBookingRepo{}
	}
	if equipment == nil {
		equipment = &fakeEquipmentRepo{storedStatus: entity.EquipmentStatusAvailable}
	}
	return NewBookingService(bookings, equipment, fixedClock{now: testNow})
}

func TestCreateBooking(t *testing.T) {
	validReq := &CreateBookingRequest{
		EquipmentID:   1,
		StartTime:     testNow.Add(time.Hour),
		DurationHours: 2,
	}

	t.Run("success", func(t *testing.T) {
		svc := newTestBookingService(nil, nil)

		booking, err := svc.CreateBooking(context.Background(), testUser, validReq)

		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusActive, booking.Status)
		assert.Equal(t, testUser.ID, booking.UserID)
		assert.Equal(t, testUser.Name, booking.BorrowerName)
		assert.Equal(t, testUser.Email, booking.BorrowerEmail)
	})

	t.Run("admins cannot book", func(t *testing.T) {
		svc := newTestBookingService(nil, nil)

		_, err := svc.CreateBooking(context.Background(), testAdmin, validReq)

		assert.ErrorIs(t, err, entity.ErrAdminsCannotBook)
	})

	t.Run("invalid duration", func(t *testing.T) {
		svc := newTestBookingService(nil, nil)
		req := *validReq
		req.DurationHours = 9

		_, err := svc.CreateBooking(context.Background(), testUser, &req)

		assert.ErrorIs(t, err, entity.ErrInvalidDuration)
	})

	t.Run("start in the past", func(t *testing.T) {
		svc := newTestBookingService(nil, nil)
		req := *validReq
		req.StartTime = testNow.Add(-time.Minute)

		_, err := svc.CreateBooking(context.Background(), testUser, &req)

		assert.ErrorIs(t, err, entity.ErrStartInPast)
	})

	t.Run("start beyond advance window", func(t *testing.T) {
		svc := newTestBookingService(nil, nil)
		req := *validReq
		req.StartTime = testNow.Add(15 * 24 * time.Hour)

		_, err := svc.CreateBooking(context.Background(), testUser, &req)

		assert.ErrorIs(t, err, entity.ErrStartTooFarAhead)
	})

	t.Run("conflicting slot", func(t *testing.T) {
		bookings := &fakeBookingRepo{
			activeByEquipment: []*entity.Booking{{
				ID:            5,
				Status:        entity.BookingStatusActive,
				StartTime:     validReq.StartTime,
				DurationHours: 1,
			}},
		}
		svc := newTestBookingService(bookings, nil)

		_, err := svc.CreateBooking(context.Background(), testUser, validReq)

		assert.ErrorIs(t, err, entity.ErrTimeSlotConflict)
	})

	t.Run("equipment borrowed with no conflicts", func(t *testing.T) {
		svc := newTestBookingService(nil, &fakeEquipmentRepo{storedStatus: entity.EquipmentStatusBorrowed})

		_, err := svc.CreateBooking(context.Background(), testUser, validReq)

		assert.ErrorIs(t, err, entity.ErrEquipmentUnavailable)
	})

	t.Run("unknown equipment", func(t *testing.T) {
		svc := newTestBookingService(nil, &fakeEquipmentRepo{storedStatusErr: entity.ErrEquipmentNotFound})

		_, err := svc.CreateBooking(context.Background(), testUser, validReq)

		assert.ErrorIs(t, err, entity.ErrEquipmentNotFound)
	})

	t.Run("racing create rejected by repository", func(t *testing.T) {
		bookings := &fakeBookingRepo{
			createFn: func(ctx context.Context, booking *entity.Booking) error {
				return entity.ErrTimeSlotConflict
			},
		}
		svc := newTestBookingService(bookings, nil)

		_, err := svc.CreateBooking(context.Background(), testUser, validReq)

		assert.ErrorIs(t, err, entity.ErrTimeSlotConflict)
	})
}

func TestGetBookingOwnership(t *testing.T) {
	stored := &entity.Booking{ID: 3, UserID: testUser.ID, Status: entity.BookingStatusActive}
	bookings := &fakeBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*entity.Booking, error) {
			return stored, nil
		},
	}
	svc := newTestBookingService(bookings, nil)

	t.Run("owner can read", func(t *testing.T) {
		booking, err := svc.GetBooking(context.Background(), testUser, 3)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, booking.ID)
	})

	t.Run("admin can read", func(t *testing.T) {
		_, err := svc.GetBooking(context.Background(), testAdmin, 3)
		assert.NoError(t, err)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		stranger := &entity.User{ID: 99, Role: entity.UserRoleUser}
		_, err := svc.GetBooking(context.Background(), stranger, 3)
		assert.ErrorIs(t, err, entity.ErrBookingNotFound)
	})
}

func TestCancelBooking(t *testing.T) {
	newRepo := func(status entity.BookingStatus, deleted *int64) *fakeBookingRepo {
		return &fakeBookingRepo{
			getByIDFn: func(ctx context.Context, id int64) (*entity.Booking, error) {
				return &entity.Booking{ID: id, UserID: testUser.ID, Status: status}, nil
			},
			deleteFn: func(ctx context.Context, id int64) error {
				if deleted != nil {
					*deleted = id
				}
				return nil
			},
		}
	}

	t.Run("active booking is cancellable", func(t *testing.T) {
		var deleted int64
		svc := newTestBookingService(newRepo(entity.BookingStatusActive, &deleted), nil)

		err := svc.CancelBooking(context.Background(), testUser, 4)

		require.NoError(t, err)
		assert.Equal(t, int64(4), deleted)
	})

	t.Run("ongoing booking is not cancellable", func(t *testing.T) {
		svc := newTestBookingService(newRepo(entity.BookingStatusOngoing, nil), nil)

		err := svc.CancelBooking(context.Background(), testUser, 4)

		assert.ErrorIs(t, err, entity.ErrNotCancellable)
	})

	t.Run("completed booking is not cancellable", func(t *testing.T) {
		svc := newTestBookingService(newRepo(entity.BookingStatusCompleted, nil), nil)

		err := svc.CancelBooking(context.Background(), testUser, 4)

		assert.ErrorIs(t, err, entity.ErrNotCancellable)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		svc := newTestBookingService(newRepo(entity.BookingStatusActive, nil), nil)
		stranger := &entity.User{ID: 99, Role: entity.UserRoleUser}

		err := svc.CancelBooking(context.Background(), stranger, 4)

		assert.ErrorIs(t, err, entity.ErrBookingNotFound)
	})
}

func TestUpdateBooking(t *testing.T) {
	newRepo := func(status entity.BookingStatus, updated **entity.Booking) *fakeBookingRepo {
		return &fakeBookingRepo{
			getByIDFn: func(ctx context.Context, id int64) (*entity.Booking, error) {
				return &entity.Booking{
					ID:            id,
					Status:        status,
					StartTime:     testNow.Add(time.Hour),
					DurationHours: 2,
				}, nil
			},
			updateFn: func(ctx context.Context, booking *entity.Booking) error {
				if updated != nil {
					*updated = booking
				}
				return nil
			},
		}
	}

	t.Run("status-only change takes the status fast path", func(t *testing.T) {
		var updated *entity.Booking
		var statusWritten entity.BookingStatus
		repo := newRepo(entity.BookingStatusActive, &updated)
		repo.updateStatusFn = func(ctx context.Context, id int64, status entity.BookingStatus) error {
			statusWritten = status
			return nil
		}
		svc := newTestBookingService(repo, nil)
		status := entity.BookingStatusOngoing

		booking, err := svc.UpdateBooking(context.Background(), 5, &UpdateBookingRequest{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusOngoing, booking.Status)
		assert.Equal(t, entity.BookingStatusOngoing, statusWritten)
		assert.Nil(t, updated)
	})

	t.Run("combined change rewrites the row", func(t *testing.T) {
		var updated *entity.Booking
		svc := newTestBookingService(newRepo(entity.BookingStatusActive, &updated), nil)
		status := entity.BookingStatusOngoing
		start := testNow.Add(2 * time.Hour)

		booking, err := svc.UpdateBooking(context.Background(), 5, &UpdateBookingRequest{
			StartTime: &start,
			Status:    &status,
		})

		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusOngoing, booking.Status)
		require.NotNil(t, updated)
		assert.Equal(t, start, updated.StartTime)
		assert.Equal(t, entity.BookingStatusOngoing, updated.Status)
	})

	t.Run("illegal transition rejected", func(t *testing.T) {
		svc := newTestBookingService(newRepo(entity.BookingStatusCompleted, nil), nil)
		status := entity.BookingStatusActive

		_, err := svc.UpdateBooking(context.Background(), 5, &UpdateBookingRequest{Status: &status})

		assert.ErrorIs(t, err, entity.ErrInvalidStatusTransition)
	})

	t.Run("reschedule validates the window", func(t *testing.T) {
		svc := newTestBookingService(newRepo(entity.BookingStatusActive, nil), nil)
		past := testNow.Add(-time.Hour)

		_, err := svc.UpdateBooking(context.Background(), 5, &UpdateBookingRequest{StartTime: &past})

		assert.ErrorIs(t, err, entity.ErrStartInPast)
	})

	t.Run("duration out of bounds rejected", func(t *testing.T) {
		svc := newTestBookingService(newRepo(entity.BookingStatusActive, nil), nil)
		hours := 0

		_, err := svc.UpdateBooking(context.Background(), 5, &UpdateBookingRequest{DurationHours: &hours})

		assert.ErrorIs(t, err, entity.ErrInvalidDuration)
	})
}

func TestGetBookingsByStatus(t *testing.T) {
	t.Run("valid status passes through", func(t *testing.T) {
		bookings := &fakeBookingRepo{
			getByStatusFn: func(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
				return []*entity.Booking{{ID: 1, Status: status}}, nil
			},
		}
		svc := newTestBookingService(bookings, nil)

		result, err := svc.GetBookingsByStatus(context.Background(), entity.BookingStatusOngoing)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, entity.BookingStatusOngoing, result[0].Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc := newTestBookingService(nil, nil)

		_, err := svc.GetBookingsByStatus(context.Background(), entity.BookingStatus("pending"))

		assert.ErrorIs(t, err, entity.ErrInvalidBookingStatus)
	})
}

func TestAdvanceLifecycle(t *testing.T) {
	t.Run("passes clock time through and returns counts", func(t *testing.T) {
		var gotNow time.Time
		bookings := &fakeBookingRepo{
			advanceLifecycleFn: func(ctx context.Context, now time.Time) (*entity.SweepResult, error) {
				gotNow = now
				return &entity.SweepResult{Activated: 1, Completed: 2, EquipmentUpdated: 3}, nil
			},
		}
		svc := newTestBookingService(bookings, nil)

		result, err := svc.AdvanceLifecycle(context.Background())

		require.NoError(t, err)
		assert.Equal(t, testNow, gotNow)
		assert.Equal(t, int64(6), result.Total())
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		bookings := &fakeBookingRepo{
			advanceLifecycleFn: func(ctx context.Context, now time.Time) (*entity.SweepResult, error) {
				return nil, context.DeadlineExceeded
			},
		}
		svc := newTestBookingService(bookings, nil)

		_, err := svc.AdvanceLifecycle(context.Background())

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
