package guestauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"darshan/internal/shared/config"
	"darshan/internal/shared/upstream"
	"darshan/pkg/logger"
	"darshan/pkg/ratelimit"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// CooldownError reports that a resend was attempted inside the cooldown
// window
type CooldownError struct {
	RetryAt int64 // unix seconds
}

func (e *CooldownError) Error() string {
	return "OTP already requested, wait before resending"
}

// Service drives the guest OTP flow and owns the verified-session lifecycle
type Service interface {
	RequestOTP(ctx context.Context, req *OTPRequest) error
	VerifyOTP(ctx context.Context, req *OTPVerifyRequest) (*AuthResponse, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	Invalidate(ctx context.Context, sessionID, cause string) error
	InvalidationHook() upstream.AuthFailureHook
}

type service struct {
	adapter  Adapter
	sessions SessionStore
	limiter  *ratelimit.RateLimiter
	cfg      *config.Config
	log      *logger.Logger
}

// NewService creates a guest-auth service. limiter may be nil, which
// disables the server-side resend cooldown.
func NewService(adapter Adapter, sessions SessionStore, limiter *ratelimit.RateLimiter, cfg *config.Config) Service {
	return &service{
		adapter:  adapter,
		sessions: sessions,
		limiter:  limiter,
		cfg:      cfg,
		log:      logger.GetDefault(),
	}
}

func (s *service) RequestOTP(ctx context.Context, req *OTPRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if s.limiter != nil {
		result, err := s.limiter.AllowOTPResend(ctx, strings.ToLower(req.Contact))
		if err == nil && !result.Allowed {
			return &CooldownError{RetryAt: result.ResetTime}
		}
		// A limiter outage must not block login; the upstream may still
		// throttle independently
	}

	if err := s.adapter.RequestOTP(ctx, req.Channel, req.Contact); err != nil {
		return err
	}

	s.log.LogOTPRequested(ctx, string(req.Channel), maskContact(req.Contact))
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, req *OTPVerifyRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	token, err := s.adapter.VerifyOTP(ctx, req.Channel, req.Contact, req.OTP)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:          uuid.New().String(),
		Contact:     req.Contact,
		Channel:     req.Channel,
		Token:       token.Token,
		TokenExpiry: token.TokenExpiry,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	sessionToken, err := s.signSessionToken(session)
	if err != nil {
		return nil, err
	}

	s.log.LogAuthSuccess(ctx, session.ID, string(session.Channel))

	return &AuthResponse{
		SessionToken: sessionToken,
		ExpiresIn:    int64(s.cfg.JWT.JWTExpiresIn.Seconds()),
		Contact:      session.Contact,
		Channel:      session.Channel,
	}, nil
}

func (s *service) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *service) Invalidate(ctx context.Context, sessionID, cause string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.log.LogSessionInvalidated(ctx, sessionID, cause)
	return nil
}

// InvalidationHook tears down the owning session when an upstream call
// comes back 401/403
func (s *service) InvalidationHook() upstream.AuthFailureHook {
	return func(ctx context.Context) {
		if sessionID, ok := upstream.SessionIDFromContext(ctx); ok {
			_ = s.Invalidate(ctx, sessionID, "upstream_unauthorized")
		}
	}
}

// signSessionToken issues the service's own short-lived JWT referencing
// the stored session
func (s *service) signSessionToken(session *Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"type":       "guest",
		"session_id": session.ID,
		"contact":    session.Contact,
		"channel":    string(session.Channel),
		"iat":        now.Unix(),
		"exp":        now.Add(s.cfg.JWT.JWTExpiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// maskContact hides most of a contact value for logging
func maskContact(contact string) string {
	if at := strings.IndexByte(contact, '@'); at > 0 {
		if at <= 2 {
			return "**" + contact[at:]
		}
		return contact[:2] + strings.Repeat("*", at-2) + contact[at:]
	}
	if len(contact) <= 4 {
		return strings.Repeat("*", len(contact))
	}
	return strings.Repeat("*", len(contact)-4) + contact[len(contact)-4:]
}
