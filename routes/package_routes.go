package routes

import (
	"guidely/internal/config"
	"guidely/internal/handlers"
	"guidely/internal/middleware"
	"guidely/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupPackageRoutes(r *gin.RouterGroup, packageHandler *handlers.PackageHandler, security *config.SecurityConfig) {
	// Listing is public; an admin token widens the status filter.
	packages := r.Group("/packages")
	packages.Use(middleware.AuthOptional(security))
	{
		packages.GET("", packageHandler.List)
		packages.GET("/:id", packageHandler.Get)
	}

	admin := r.Group("/packages")
	admin.Use(middleware.AuthRequired(security), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("", packageHandler.Create)
		admin.PUT("/:id", packageHandler.Update)
		admin.DELETE("/:id", packageHandler.Delete)
		admin.PUT("/:id/status", packageHandler.SetStatus)
		admin.PUT("/:id/featured", packageHandler.SetFeatured)
	}
}
