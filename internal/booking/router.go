package booking

import (
	"darshan/internal/shared/config"
	"darshan/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking routes. The payment page is
// token-free: the browser navigates there without headers, and the random
// booking ref plus the short handoff TTL gate access.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookingGroup := rg.Group("/bookings")
	{
		bookingGroup.GET("/:ref/pay", controller.PaymentPage)

		protected := bookingGroup.Group("")
		protected.Use(middleware.GuestAuth(cfg))
		{
			protected.POST("/confirm", controller.Confirm)
			protected.GET("", controller.ListHandoffs)
		}
	}
}
