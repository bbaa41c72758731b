package guestauth

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	mobileRe = regexp.MustCompile(`^[0-9]{10,}$`)
	otpRe    = regexp.MustCompile(`^[0-9]{4,6}$`)
)

// OTP request payload
type OTPRequest struct {
	Channel Channel `json:"channel" validate:"required,oneof=MOBILE EMAIL"`
	Contact string  `json:"contact" validate:"required"`
}

// OTP verification payload
type OTPVerifyRequest struct {
	Channel Channel `json:"channel" validate:"required,oneof=MOBILE EMAIL"`
	Contact string  `json:"contact" validate:"required"`
	OTP     string  `json:"otp" validate:"required"`
}

// validateContact checks the contact shape for a channel before any
// network call is made
func validateContact(channel Channel, contact string) error {
	switch channel {
	case ChannelEmail:
		if err := validate.Var(contact, "required,email"); err != nil {
			return fmt.Errorf("enter a valid email address")
		}
	case ChannelMobile:
		if !mobileRe.MatchString(contact) {
			return fmt.Errorf("mobile number must be at least 10 digits")
		}
	default:
		return fmt.Errorf("unknown channel %q", channel)
	}
	return nil
}

// Validate checks the OTP request shape
func (r *OTPRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validateContact(r.Channel, r.Contact)
}

// Validate checks the verification request shape
func (r *OTPVerifyRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if err := validateContact(r.Channel, r.Contact); err != nil {
		return err
	}
	if !otpRe.MatchString(r.OTP) {
		return fmt.Errorf("OTP must be a 4-6 digit code")
	}
	return nil
}
