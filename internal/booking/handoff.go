package booking

import (
	"context"
	"errors"
	"time"

	"darshan/internal/payment"
	"darshan/pkg/cache"
)

// ErrHandoffExpired is returned when the payment page is requested after
// the handoff slot has lapsed
var ErrHandoffExpired = errors.New("payment handoff expired")

// PaymentHandoff is the short-lived bundle the payment page renders from:
// the gateway endpoint plus the opaque field set to POST there. It expires
// quickly; an expired handoff means restarting the confirm step.
type PaymentHandoff struct {
	BookingRef string       `json:"booking_ref"`
	GatewayURL string       `json:"gateway_url"`
	Data       payment.Data `json:"data"`
	CreatedAt  time.Time    `json:"created_at"`
}

// HandoffStore holds pending payment handoffs keyed by booking ref
type HandoffStore interface {
	Save(ctx context.Context, handoff *PaymentHandoff) error
	Get(ctx context.Context, bookingRef string) (*PaymentHandoff, error)
	Delete(ctx context.Context, bookingRef string) error
}

type redisHandoffStore struct {
	cache cache.Service
	ttl   time.Duration
}

// NewHandoffStore creates a Redis-backed handoff store
func NewHandoffStore(cacheSvc cache.Service, ttl time.Duration) HandoffStore {
	return &redisHandoffStore{cache: cacheSvc, ttl: ttl}
}

func handoffKey(bookingRef string) string {
	return "darshan:handoff:" + bookingRef
}

func (s *redisHandoffStore) Save(ctx context.Context, handoff *PaymentHandoff) error {
	return s.cache.Set(ctx, handoffKey(handoff.BookingRef), handoff, s.ttl)
}

func (s *redisHandoffStore) Get(ctx context.Context, bookingRef string) (*PaymentHandoff, error) {
	var handoff PaymentHandoff
	err := s.cache.Get(ctx, handoffKey(bookingRef), &handoff)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrHandoffExpired
		}
		return nil, err
	}
	return &handoff, nil
}

func (s *redisHandoffStore) Delete(ctx context.Context, bookingRef string) error {
	return s.cache.Delete(ctx, handoffKey(bookingRef))
}
