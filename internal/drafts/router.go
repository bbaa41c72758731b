package drafts

import (
	"github.com/gin-gonic/gin"
)

// SetupDraftRoutes configures the draft routes. Drafts are created before
// the user authenticates; the random draft id is the access capability.
func SetupDraftRoutes(rg *gin.RouterGroup, controller *Controller) {
	draftGroup := rg.Group("/drafts")
	{
		draftGroup.POST("", controller.CreateDraft)
		draftGroup.GET("/:id", controller.GetDraft)
	}
}
