package routes

import (
	"guidely/internal/config"
	"guidely/internal/handlers"
	"guidely/internal/middleware"
	"guidely/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, security *config.SecurityConfig) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	session := r.Group("/auth")
	session.Use(middleware.AuthRequired(security))
	{
		session.POST("/change-password", authHandler.ChangePassword)
		session.GET("/profile", authHandler.GetProfile)
		session.PUT("/profile", authHandler.UpdateProfile)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(security), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/guides", authHandler.CreateGuide)
		admin.GET("/accounts", authHandler.ListAccounts)
		admin.PUT("/accounts/:id/status", authHandler.UpdateAccountStatus)
	}
}
