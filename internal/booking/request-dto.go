package booking

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ConfirmRequest asks the service to turn a draft into an upstream booking
// and a payment handoff
type ConfirmRequest struct {
	DraftID  string `json:"draft_id" validate:"required"`
	DeviceID string `json:"device_id"`
}

// Validate checks the request shape
func (r *ConfirmRequest) Validate() error {
	return validate.Struct(r)
}
