package pricing

import (
	"net/http"
	"time"

	"darshan/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetPricing godoc
// @Summary Normalized ticket pricing for a place and visit date
// @Tags pricing
// @Produce json
// @Param placeId query string true "backend place id"
// @Param date query string true "visit date (YYYY-MM-DD)"
// @Param specificChargesId query string false "pricing context id"
// @Success 200 {object} response.StandardApiResponse
// @Router /pricing [get]
func (c *Controller) GetPricing(ctx *gin.Context) {
	placeID := ctx.Query("placeId")
	if placeID == "" {
		response.Error(ctx, http.StatusBadRequest, "placeId is required", nil)
		return
	}

	dateStr := ctx.Query("date")
	visitDate, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		return
	}

	chargesID := ctx.Query("specificChargesId")

	sheet := c.service.GetPriceSheet(ctx.Request.Context(), placeID, visitDate, chargesID)
	response.Success(ctx, http.StatusOK, "Pricing retrieved successfully", sheet)
}
