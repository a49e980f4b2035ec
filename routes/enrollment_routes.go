package routes

import (
	"guidely/internal/config"
	"guidely/internal/handlers"
	"guidely/internal/middleware"
	"guidely/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupEnrollmentRoutes(r *gin.RouterGroup, enrollmentHandler *handlers.EnrollmentHandler, security *config.SecurityConfig) {
	// Submitting an application is public.
	r.POST("/enrollments", enrollmentHandler.Create)

	admin := r.Group("/enrollments")
	admin.Use(middleware.AuthRequired(security), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("", enrollmentHandler.List)
		admin.GET("/:id", enrollmentHandler.Get)
		admin.PUT("/:id/verify", enrollmentHandler.Verify)
	}
}
