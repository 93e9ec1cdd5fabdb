package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"equiplend/config"
	"equiplend/internal/entity"
	"equiplend/internal/service"
	"equiplend/internal/transport/middleware"
	"equiplend/pkg/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(
	cfg *config.Config,
	bookingHandler *BookingHandler,
	equipmentHandler *EquipmentHandler,
	categoryHandler *CategoryHandler,
	userHandler *UserHandler,
	adminHandler *AdminHandler,
	tokens *auth.TokenManager,
	userService service.UserService,
) *gin.Engine {

	if cfg.Booking.DefaultListLimit > 0 {
		defaultListLimit = cfg.Booking.DefaultListLimit
	}
	if cfg.Booking.MaxListLimit > 0 {
		maxListLimit = cfg.Booking.MaxListLimit
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	authRequired := middleware.AuthRequired(tokens, userService)
	adminRequired := middleware.AdminRequired()

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", userHandler.Register)
			authGroup.POST("/login", userHandler.Login)
			authGroup.GET("/me", authRequired, userHandler.Me)
		}

		equipment := api.Group("/equipment")
		{
			equipment.GET("", equipmentHandler.GetAllEquipment)
			equipment.GET("/:id", equipmentHandler.GetEquipment)
			equipment.GET("/:id/availability", equipmentHandler.CheckAvailability)
			equipment.POST("", authRequired, adminRequired, equipmentHandler.CreateEquipment)
			equipment.PUT("/:id", authRequired, adminRequired, equipmentHandler.UpdateEquipment)
			equipment.DELETE("/:id", authRequired, adminRequired, equipmentHandler.DeleteEquipment)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.GetAllCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.POST("", authRequired, adminRequired, categoryHandler.CreateCategory)
			categories.PUT("/:id", authRequired, adminRequired, categoryHandler.UpdateCategory)
			categories.DELETE("/:id", authRequired, adminRequired, categoryHandler.DeleteCategory)
		}

		bookings := api.Group("/bookings", authRequired)
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.GetMyBookings)
			bookings.GET("/equipment/:id", bookingHandler.GetEquipmentBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.DELETE("/:id", bookingHandler.CancelBooking)
		}

		admin := api.Group("/admin", authRequired, adminRequired)
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/users", adminHandler.GetUsers)
			admin.GET("/bookings", adminHandler.GetAllBookings)
			admin.PUT("/bookings/:id", adminHandler.UpdateBooking)
			admin.DELETE("/bookings/:id", adminHandler.DeleteBooking)

			admin.DELETE("/cleanup/bookings", adminHandler.CleanupBookings)
			admin.DELETE("/cleanup/bookings/old", adminHandler.CleanupOldBookings)
			admin.DELETE("/cleanup/bookings/finished", adminHandler.CleanupFinishedBookings)
			admin.DELETE("/cleanup/equipment", adminHandler.CleanupEquipment)
			admin.DELETE("/cleanup/all", adminHandler.CleanupAll)
			admin.DELETE("/cleanup/users", adminHandler.CleanupUsers)
			admin.PUT("/equipment/reset-status", adminHandler.ResetEquipmentStatus)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return router
}

var (
	defaultListLimit = 100
	maxListLimit     = 500
)

// parsePagination reads skip/limit query params, falling back to the
// configured defaults when absent, malformed, or over the cap.
func parsePagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit
}

// respondError maps domain sentinels onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, entity.ErrEquipmentNotFound),
		errors.Is(err, entity.ErrBookingNotFound),
		errors.Is(err, entity.ErrCategoryNotFound),
		errors.Is(err, entity.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrTimeSlotConflict),
		errors.Is(err, entity.ErrEquipmentUnavailable),
		errors.Is(err, entity.ErrCategoryExists),
		errors.Is(err, entity.ErrUserExists),
		errors.Is(err, entity.ErrNotCancellable),
		errors.Is(err, entity.ErrEquipmentHasBookings),
		errors.Is(err, entity.ErrCategoryHasEquipment),
		errors.Is(err, entity.ErrInvalidStatusTransition):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrInvalidDuration),
		errors.Is(err, entity.ErrStartInPast),
		errors.Is(err, entity.ErrStartTooFarAhead),
		errors.Is(err, entity.ErrInvalidBookingStatus),
		errors.Is(err, entity.ErrInvalidEquipmentStatus):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrAdminsCannotBook),
		errors.Is(err, entity.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrInvalidCredentials),
		errors.Is(err, entity.ErrUnauthorized):
		status = http.StatusUnauthorized
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
