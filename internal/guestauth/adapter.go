package guestauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"darshan/internal/shared/upstream"
	"darshan/internal/shared/utils/envelope"
)

// ErrVerificationFailed is returned when the OTP backend does not issue a
// token for the submitted code
var ErrVerificationFailed = errors.New("OTP verification failed")

// VerifiedToken is the credential extracted from a successful verify
// response (possibly nested one level under a result field)
type VerifiedToken struct {
	Token       string `json:"token"`
	TokenExpiry int64  `json:"tokenExpiry"`
}

// Adapter drives the guest OTP backend
type Adapter interface {
	RequestOTP(ctx context.Context, channel Channel, contact string) error
	VerifyOTP(ctx context.Context, channel Channel, contact, otp string) (*VerifiedToken, error)
}

type apiAdapter struct {
	client *upstream.Client
}

// NewAdapter creates a guest-auth adapter
func NewAdapter(client *upstream.Client) Adapter {
	return &apiAdapter{client: client}
}

// contactField returns the form field name the backend expects per channel
func contactField(channel Channel) string {
	if channel == ChannelEmail {
		return "email"
	}
	return "mobileNo"
}

func emailVerifyQuery(channel Channel) url.Values {
	query := url.Values{}
	query.Set("isEmailVerify", fmt.Sprintf("%t", channel == ChannelEmail))
	return query
}

func (a *apiAdapter) RequestOTP(ctx context.Context, channel Channel, contact string) error {
	form := url.Values{}
	form.Set(contactField(channel), contact)

	raw, err := a.client.PostForm(ctx, "/guest/login", emailVerifyQuery(channel), form)
	if err != nil {
		return fmt.Errorf("guest login failed: %w", err)
	}

	var resp struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &resp); err == nil && resp.Success != nil && !*resp.Success {
		if resp.Message == "" {
			resp.Message = "login rejected"
		}
		return fmt.Errorf("guest login failed: %s", resp.Message)
	}
	return nil
}

func (a *apiAdapter) VerifyOTP(ctx context.Context, channel Channel, contact, otp string) (*VerifiedToken, error) {
	form := url.Values{}
	form.Set(contactField(channel), contact)
	form.Set("otp", otp)

	raw, err := a.client.PostForm(ctx, "/guest/verify", emailVerifyQuery(channel), form)
	if err != nil {
		return nil, fmt.Errorf("guest verify failed: %w", err)
	}

	var token VerifiedToken
	if err := envelope.UnwrapInto(raw, &token); err != nil {
		return nil, fmt.Errorf("guest verify parse failed: %w", err)
	}
	if token.Token == "" {
		return nil, ErrVerificationFailed
	}
	return &token, nil
}
