package booking

import (
	"errors"
	"net/http"

	"darshan/internal/drafts"
	"darshan/internal/guestauth"
	"darshan/internal/payment"
	"darshan/internal/shared/middleware"
	"darshan/internal/shared/upstream"
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

// Confirm godoc
// @Summary Confirm a draft and hand off to payment
// @Description Creates the booking upstream at live prices and returns the payment page URL
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConfirmRequest true "Draft to confirm"
// @Success 200 {object} response.StandardApiResponse{data=ConfirmResponse}
// @Failure 401 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Failure 502 {object} response.StandardApiResponse
// @Router /bookings/confirm [post]
func (ctrl *Controller) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	sessionID := c.GetString(middleware.ContextSessionID)
	resp, err := ctrl.service.Confirm(c.Request.Context(), sessionID, &req)
	if err != nil {
		var vErrs validator.ValidationErrors
		switch {
		case errors.As(err, &vErrs):
			response.ValidationError(c, err.Error())
		case errors.Is(err, guestauth.ErrSessionNotFound), errors.Is(err, upstream.ErrUnauthorized):
			response.Error(c, http.StatusUnauthorized, "session expired, please verify again", nil)
		case errors.Is(err, drafts.ErrDraftNotFound):
			response.Error(c, http.StatusNotFound, "draft not found or expired", nil)
		case errors.Is(err, drafts.ErrDraftSpent):
			response.Error(c, http.StatusConflict, "this draft has already been confirmed", nil)
		case errors.Is(err, payment.ErrGatewayNotConfigured):
			response.Error(c, http.StatusServiceUnavailable, "payment is temporarily unavailable", nil)
		default:
			response.Error(c, http.StatusBadGateway, "failed to confirm booking", err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, "booking confirmed", resp)
}

// PaymentPage godoc
// @Summary Serve the payment gateway handoff page
// @Description Returns an HTML page that forwards the booking's payment fields to the gateway from the user's browser
// @Tags bookings
// @Produce html
// @Param ref path string true "Booking reference"
// @Success 200 {string} string "auto-submitting gateway form"
// @Failure 410 {object} response.StandardApiResponse
// @Router /bookings/{ref}/pay [get]
func (ctrl *Controller) PaymentPage(c *gin.Context) {
	handoff, err := ctrl.service.GetPaymentHandoff(c.Request.Context(), c.Param("ref"))
	if err != nil {
		if errors.Is(err, ErrHandoffExpired) {
			response.Error(c, http.StatusGone, "payment window expired, please confirm again", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load payment page", err.Error())
		return
	}

	html, err := payment.BuildForm(handoff.GatewayURL, handoff.Data)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to render payment page", err.Error())
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// ListHandoffs godoc
// @Summary List this session's payment handoffs
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse{data=[]HandoffRecord}
// @Router /bookings [get]
func (ctrl *Controller) ListHandoffs(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)
	records, err := ctrl.service.ListHandoffs(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "bookings fetched", records)
}
