package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"equiplend/internal/entity"
	"equiplend/internal/service"

	"github.com/stretchr/testify/assert"
)

// sweepOnlyService implements just the sweep; every other method is
// unreachable from the worker.
type sweepOnlyService struct {
	sweeps  atomic.Int64
	sweepFn func(ctx context.Context) (*entity.SweepResult, error)
}

func (s *sweepOnlyService) AdvanceLifecycle(ctx context.Context) (*entity.SweepResult, error) {
	s.sweeps.Add(1)
	if s.sweepFn != nil {
		return s.sweepFn(ctx)
	}
	return &entity.SweepResult{}, nil
}

func (s *sweepOnlyService) CreateBooking(ctx context.Context, user *entity.User, req *service.CreateBookingRequest) (*entity.Booking, error) {
	panic("not used")
}

func (s *sweepOnlyService) GetBooking(ctx context.Context, user *entity.User, id int64) (*entity.Booking, error) {
	panic("not used")
}

func (s *sweepOnlyService) GetUserBookings(ctx context.Context, userID int64, skip, limit int) ([]*entity.Booking, error) {
	panic("not used")
}

func (s *sweepOnlyService) GetEquipmentBookings(ctx context.Context, equipmentID int64, from, to *time.Time) ([]*entity.Booking, error) {
	panic("not used")
}

func (s *sweepOnlyService) CancelBooking(ctx context.Context, user *entity.User, id int64) error {
	panic("not used")
}

func (s *sweepOnlyService) CheckAvailability(ctx context.Context, equipmentID int64, start time.Time, durationHours int) (*entity.AvailabilityResult, error) {
	panic("not used")
}

func (s *sweepOnlyService) GetAllBookings(ctx context.Context, skip, limit int) ([]*entity.Booking, error) {
	panic("not used")
}

func (s *sweepOnlyService) GetBookingsByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	panic("not used")
}

func (s *sweepOnlyService) UpdateBooking(ctx context.Context, id int64, req *service.UpdateBookingRequest) (*entity.Booking, error) {
	panic("not used")
}

func (s *sweepOnlyService) DeleteBooking(ctx context.Context, id int64) error {
	panic("not used")
}

func TestWorkerSweepsImmediatelyAndOnTicks(t *testing.T) {
	svc := &sweepOnlyService{}
	w := NewLifecycleWorker(svc, 20*time.Millisecond)

	w.Start(context.Background())
	time.Sleep(70 * time.Millisecond)
	w.Stop()

	// One immediate sweep plus at least two ticks.
	assert.GreaterOrEqual(t, svc.sweeps.Load(), int64(3))
}

func TestWorkerStopWaitsForLoop(t *testing.T) {
	svc := &sweepOnlyService{}
	w := NewLifecycleWorker(svc, time.Hour)

	w.Start(context.Background())
	w.Stop()

	before := svc.sweeps.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, before, svc.sweeps.Load())
}

func TestWorkerSurvivesSweepErrors(t *testing.T) {
	svc := &sweepOnlyService{
		sweepFn: func(ctx context.Context) (*entity.SweepResult, error) {
			return nil, errors.New("database down")
		},
	}
	w := NewLifecycleWorker(svc, 15*time.Millisecond)

	w.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	// Failed sweeps keep the loop alive and retrying.
	assert.GreaterOrEqual(t, svc.sweeps.Load(), int64(2))
}

func TestWorkerNeverOverlapsSweeps(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once atomic.Bool

	svc := &sweepOnlyService{
		sweepFn: func(ctx context.Context) (*entity.SweepResult, error) {
			if once.CompareAndSwap(false, true) {
				close(started)
				<-release
			}
			return &entity.SweepResult{}, nil
		},
	}
	w := NewLifecycleWorker(svc, 10*time.Millisecond)

	w.Start(context.Background())
	<-started

	// Ticks keep firing while the first sweep is blocked, but no second
	// sweep may begin until it returns.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), svc.sweeps.Load())

	close(release)
	w.Stop()
}

func TestWorkerStopBeforeStart(t *testing.T) {
	w := NewLifecycleWorker(&sweepOnlyService{}, time.Second)

	// Must not panic or block.
	w.Stop()
}
