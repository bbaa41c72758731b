package places

import (
	"github.com/gin-gonic/gin"
)

// SetupPlaceRoutes configures place content routes
func SetupPlaceRoutes(rg *gin.RouterGroup, controller *Controller) {
	places := rg.Group("/places")
	{
		places.GET("/:slug", controller.GetPlace)
	}
}
