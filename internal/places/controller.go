package places

import (
	"errors"
	"net/http"

	"darshan/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetPlace godoc
// @Summary Place content and bookability for the place page
// @Tags places
// @Produce json
// @Param slug path string true "place slug"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /places/{slug} [get]
func (c *Controller) GetPlace(ctx *gin.Context) {
	slug := ctx.Param("slug")

	place, err := c.service.GetPlace(ctx.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			response.Error(ctx, http.StatusNotFound, "Place not found", nil)
			return
		}
		response.Error(ctx, http.StatusBadGateway, "Failed to load place", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Place retrieved successfully", place)
}
