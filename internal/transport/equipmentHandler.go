package transport

import (
	"net/http"
	"strconv"
	"time"

	"equiplend/internal/entity"
	"equiplend/internal/service"

	"github.com/gin-gonic/gin"
)

type EquipmentHandler struct {
	equipmentService service.EquipmentService
	bookingService   service.BookingService
}

func NewEquipmentHandler(equipmentService service.EquipmentService, bookingService service.BookingService) *EquipmentHandler {
	return &EquipmentHandler{
		equipmentService: equipmentService,
		bookingService:   bookingService,
	}
}

func (h *EquipmentHandler) GetAllEquipment(c *gin.Context) {
	skip, limit := parsePagination(c)
	filter := &entity.EquipmentFilter{
		Category: c.Query("category"),
		Status:   entity.EquipmentStatus(c.Query("status")),
		Search:   c.Query("search"),
		Skip:     skip,
		Limit:    limit,
	}

	equipment, err := h.equipmentService.GetAllEquipment(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	equipment, err := h.equipmentService.GetEquipment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

// CheckAvailability answers whether the equipment is free for the
// requested slot. start_datetime is RFC 3339, duration_hours defaults to 1.
func (h *EquipmentHandler) CheckAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start_datetime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'start_datetime' timestamp"})
		return
	}

	durationHours := 1
	if raw := c.Query("duration_hours"); raw != "" {
		durationHours, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'duration_hours'"})
			return
		}
	}
	if err := service.ValidateDuration(durationHours); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.bookingService.CheckAvailability(c.Request.Context(), id, start, durationHours)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	var req service.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	equipment, err := h.equipmentService.CreateEquipment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, equipment)
}

func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	var req service.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	equipment, err := h.equipmentService.UpdateEquipment(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	if err := h.equipmentService.DeleteEquipment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "equipment deleted"})
}
