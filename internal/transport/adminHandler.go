package transport

import (
	"net/http"
	"strconv"

	"equiplend/internal/entity"
	"equiplend/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService   service.AdminService
	bookingService service.BookingService
	userService    service.UserService
}

func NewAdminHandler(adminService service.AdminService, bookingService service.BookingService, userService service.UserService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		bookingService: bookingService,
		userService:    userService,
	}
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetDatabaseStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetAllBookings lists every booking, optionally narrowed to one status.
func (h *AdminHandler) GetAllBookings(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		bookings, err := h.bookingService.GetBookingsByStatus(c.Request.Context(), entity.BookingStatus(status))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bookings)
		return
	}

	skip, limit := parsePagination(c)

	bookings, err := h.bookingService.GetAllBookings(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req service.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *AdminHandler) DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	if err := h.bookingService.DeleteBooking(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}

func (h *AdminHandler) CleanupBookings(c *gin.Context) {
	result, err := h.adminService.CleanupBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) CleanupOldBookings(c *gin.Context) {
	daysOld := 30
	if raw := c.Query("days_old"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'days_old'"})
			return
		}
		daysOld = parsed
	}

	result, err := h.adminService.CleanupOldBookings(c.Request.Context(), daysOld)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) CleanupFinishedBookings(c *gin.Context) {
	result, err := h.adminService.CleanupFinishedBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) CleanupEquipment(c *gin.Context) {
	result, err := h.adminService.CleanupEquipment(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) CleanupAll(c *gin.Context) {
	result, err := h.adminService.CleanupAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) CleanupUsers(c *gin.Context) {
	result, err := h.adminService.CleanupNonAdminUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ResetEquipmentStatus(c *gin.Context) {
	result, err := h.adminService.ResetEquipmentStatus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
