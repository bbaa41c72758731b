package guestauth

import (
	"darshan/internal/shared/config"
	"darshan/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes configures the guest auth routes
func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/otp/request", controller.RequestOTP)
		auth.POST("/otp/verify", controller.VerifyOTP)
		auth.DELETE("/session", middleware.GuestAuth(cfg), controller.EndSession)
	}
}
