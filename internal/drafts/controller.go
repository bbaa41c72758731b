package drafts

import (
	"errors"
	"net/http"

	"darshan/internal/places"
	"darshan/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateDraft godoc
// @Summary Create a booking draft
// @Description Prices the submitted selection against the live sheet and stores it for the rest of the flow
// @Tags drafts
// @Accept json
// @Produce json
// @Param request body CreateDraftRequest true "Ticket selection"
// @Success 201 {object} response.StandardApiResponse{data=BookingDraft}
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Failure 422 {object} response.StandardApiResponse
// @Router /drafts [post]
func (ctrl *Controller) CreateDraft(c *gin.Context) {
	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	draft, err := ctrl.service.CreateDraft(c.Request.Context(), &req)
	if err != nil {
		var vErrs validator.ValidationErrors
		switch {
		case errors.As(err, &vErrs), errors.Is(err, ErrBadVisitDate):
			response.ValidationError(c, err.Error())
		case errors.Is(err, places.ErrPlaceNotFound):
			response.Error(c, http.StatusNotFound, "place not found", nil)
		case errors.Is(err, ErrPlaceNotBookable):
			response.Error(c, http.StatusConflict, "this place does not take online bookings", nil)
		case errors.Is(err, ErrUnknownTicketType),
			errors.Is(err, ErrEmptySelection),
			errors.Is(err, ErrTooManyTickets):
			response.ValidationError(c, err.Error())
		default:
			response.Error(c, http.StatusBadGateway, "failed to create draft", err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, "draft created", draft)
}

// GetDraft godoc
// @Summary Fetch a booking draft
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.StandardApiResponse{data=BookingDraft}
// @Failure 404 {object} response.StandardApiResponse
// @Router /drafts/{id} [get]
func (ctrl *Controller) GetDraft(c *gin.Context) {
	draft, err := ctrl.service.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			response.Error(c, http.StatusNotFound, "draft not found or expired", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to fetch draft", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "draft fetched", draft)
}
