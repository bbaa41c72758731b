package guestauth

import (
	"errors"
	"net/http"

	"darshan/internal/shared/middleware"
	"darshan/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// RequestOTP godoc
// @Summary Request a one-time password
// @Description Sends an OTP to the given mobile number or email via the booking engine
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OTPRequest true "Contact details"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 429 {object} response.StandardApiResponse{data=CooldownResponse}
// @Router /auth/otp/request [post]
func (ctrl *Controller) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := ctrl.service.RequestOTP(c.Request.Context(), &req); err != nil {
		var cooldown *CooldownError
		if errors.As(err, &cooldown) {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"please wait before requesting another code",
				CooldownResponse{RetryAt: cooldown.RetryAt}, nil)
			return
		}
		response.Error(c, http.StatusBadGateway, "failed to send verification code", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "verification code sent", nil)
}

// VerifyOTP godoc
// @Summary Verify a one-time password
// @Description Exchanges a valid OTP for a guest session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OTPVerifyRequest true "Contact and code"
// @Success 200 {object} response.StandardApiResponse{data=AuthResponse}
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /auth/otp/verify [post]
func (ctrl *Controller) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	authResp, err := ctrl.service.VerifyOTP(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrVerificationFailed) {
			response.Error(c, http.StatusUnauthorized, "verification failed", nil)
			return
		}
		response.Error(c, http.StatusBadGateway, "failed to verify code", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "verification successful", authResp)
}

// EndSession godoc
// @Summary End the current guest session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse
// @Router /auth/session [delete]
func (ctrl *Controller) EndSession(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)
	if err := ctrl.service.Invalidate(c.Request.Context(), sessionID, "user_logout"); err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to end session", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "session ended", nil)
}
