package routes

import (
	"guidely/internal/config"
	"guidely/internal/handlers"
	"guidely/internal/middleware"
	"guidely/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(r *gin.RouterGroup, paymentHandler *handlers.PaymentHandler, security *config.SecurityConfig) {
	// The webhook authenticates by signature, not session.
	r.POST("/webhooks/payment", paymentHandler.Webhook)

	payments := r.Group("/payments")
	payments.Use(middleware.AuthRequired(security))
	{
		payments.POST("/orders", paymentHandler.CreateOrder)
		payments.POST("/verify", paymentHandler.Verify)
		payments.POST("/final-orders", paymentHandler.CreateFinalOrder)
		payments.POST("/verify-final", paymentHandler.Verify)
	}

	admin := r.Group("/payments")
	admin.Use(middleware.AuthRequired(security), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/transactions", paymentHandler.ListTransactions)
	}
}
