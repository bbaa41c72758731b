package pricing

import (
	"github.com/gin-gonic/gin"
)

// SetupPricingRoutes configures the pricing routes
func SetupPricingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Token-free: the selection screen loads prices before the user
	// authenticates
	rg.GET("/pricing", controller.GetPricing)
}
