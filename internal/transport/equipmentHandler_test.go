package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"equiplend/internal/entity"
	"equiplend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// availabilityOnlyService answers availability through the real checker;
// every other method is unreachable from the handler under test.
type availabilityOnlyService struct {
	calls    int
	status   entity.EquipmentStatus
	existing []*entity.Booking
}

func (s *availabilityOnlyService) CheckAvailability(ctx context.Context, equipmentID int64, start time.Time, durationHours int) (*entity.AvailabilityResult, error) {
	s.calls++
	return service.CheckAvailability(equipmentID, s.status, start, durationHours, s.existing), nil
}

func (s *availabilityOnlyService) CreateBooking(ctx context.Context, user *entity.User, req *service.CreateBookingRequest) (*entity.Booking, error) {
	panic("not used")
}

func (s *availabilityOnlyService) GetBooking(ctx context.Context, user *entity.User, id int64) (*entity.Booking, error) {
	panic("not used")
}

func (s *availabilityOnlyService) GetUserBookings(ctx context.Context, userID int64, skip, limit int) ([]*entity.Booking, error) {
	panic("not used")
}

func (s *availabilityOnlyService) GetEquipmentBookings(ctx context.Context, equipmentID int64, from, to *time.Time) ([]*entity.Booking, error) {
	panic("not used")
}

func (s *availabilityOnlyService) CancelBooking(ctx context.Context, user *entity.User, id int64) error {
	panic("not used")
}

func (s *availabilityOnlyService) AdvanceLifecycle(ctx context.Context) (*entity.SweepResult, error) {
	panic("not used")
}

func (s *availabilityOnlyService) GetAllBookings(ctx context.Context, skip, limit int) ([]*entity.Booking, error) {
	panic("not used")
}

func (s *availabilityOnlyService) GetBookingsByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	panic("not used")
}

func (s *availabilityOnlyService) UpdateBooking(ctx context.Context, id int64, req *service.UpdateBookingRequest) (*entity.Booking, error) {
	panic("not used")
}

func (s *availabilityOnlyService) DeleteBooking(ctx context.Context, id int64) error {
	panic("not used")
}

func availabilityRouter(svc *availabilityOnlyService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewEquipmentHandler(nil, svc)
	router := gin.New()
	router.GET("/api/equipment/:id/availability", handler.CheckAvailability)
	return router
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	slot := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := &availabilityOnlyService{
		status: entity.EquipmentStatusAvailable,
		existing: []*entity.Booking{{
			ID:            10,
			EquipmentID:   1,
			Status:        entity.BookingStatusActive,
			StartTime:     slot,
			DurationHours: 2,
		}},
	}
	router := availabilityRouter(svc)

	get := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/equipment/1/availability?"+query, nil)
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("conflicting slot reported", func(t *testing.T) {
		w := get("start_datetime=" + slot.Format(time.RFC3339) + "&duration_hours=2")

		require.Equal(t, http.StatusOK, w.Code)

		var result entity.AvailabilityResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.IsAvailable)
		assert.Equal(t, 1, result.ConflictCount)
	})

	t.Run("negative duration rejected before the checker runs", func(t *testing.T) {
		before := svc.calls

		w := get("start_datetime=" + slot.Format(time.RFC3339) + "&duration_hours=-5")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), entity.ErrInvalidDuration.Error())
		assert.Equal(t, before, svc.calls)
	})

	t.Run("duration above the cap rejected", func(t *testing.T) {
		w := get("start_datetime=" + slot.Format(time.RFC3339) + "&duration_hours=9")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), entity.ErrInvalidDuration.Error())
	})

	t.Run("missing start_datetime rejected", func(t *testing.T) {
		w := get("duration_hours=2")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
