package routes

import (
	"guidely/internal/config"
	"guidely/internal/handlers"
	"guidely/internal/middleware"
	"guidely/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, security *config.SecurityConfig) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(security))
	{
		bookings.POST("", bookingHandler.Create)
		bookings.GET("", bookingHandler.List)
		bookings.GET("/:id", bookingHandler.Get)
		bookings.PUT("/:id/cancel", bookingHandler.Cancel)
	}

	admin := r.Group("/bookings")
	admin.Use(middleware.AuthRequired(security), middleware.RequireRole(models.RoleAdmin))
	{
		admin.PUT("/:id/allocate", bookingHandler.Allocate)
		admin.PUT("/:id/complete", bookingHandler.Complete)
	}
}
