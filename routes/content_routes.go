package routes

import (
	"guidely/internal/config"
	"guidely/internal/handlers"
	"guidely/internal/middleware"
	"guidely/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupContentRoutes(r *gin.RouterGroup, contentHandler *handlers.ContentHandler, security *config.SecurityConfig) {
	blogs := r.Group("/blogs")
	blogs.Use(middleware.AuthOptional(security))
	{
		blogs.GET("", contentHandler.ListBlogs)
		blogs.GET("/:id", contentHandler.GetBlog)
	}

	blogAdmin := r.Group("/blogs")
	blogAdmin.Use(middleware.AuthRequired(security), middleware.RequireRole(models.RoleAdmin))
	{
		blogAdmin.POST("", contentHandler.CreateBlog)
		blogAdmin.PUT("/:id", contentHandler.UpdateBlog)
		blogAdmin.DELETE("/:id", contentHandler.DeleteBlog)
	}

	r.POST("/leads", contentHandler.CreateLead)

	leadAdmin := r.Group("/leads")
	leadAdmin.Use(middleware.AuthRequired(security), middleware.RequireRole(models.RoleAdmin))
	{
		leadAdmin.GET("", contentHandler.ListLeads)
		leadAdmin.PUT("/:id/status", contentHandler.UpdateLeadStatus)
	}
}
