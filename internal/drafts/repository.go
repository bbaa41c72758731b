package drafts

import (
	"context"
	"errors"
	"time"

	"darshan/pkg/cache"
)

// Repository holds drafts with a bounded lifetime. Expiry is the storage
// layer's job; callers see an expired draft as ErrDraftNotFound.
type Repository interface {
	Save(ctx context.Context, draft *BookingDraft) error
	Get(ctx context.Context, id string) (*BookingDraft, error)
	Delete(ctx context.Context, id string) error
}

type redisRepository struct {
	cache cache.Service
	ttl   time.Duration
}

// NewRepository creates a Redis-backed draft repository
func NewRepository(cacheSvc cache.Service, ttl time.Duration) Repository {
	return &redisRepository{cache: cacheSvc, ttl: ttl}
}

func draftKey(id string) string {
	return "darshan:draft:" + id
}

func (r *redisRepository) Save(ctx context.Context, draft *BookingDraft) error {
	return r.cache.Set(ctx, draftKey(draft.ID), draft, r.ttl)
}

func (r *redisRepository) Get(ctx context.Context, id string) (*BookingDraft, error) {
	var draft BookingDraft
	err := r.cache.Get(ctx, draftKey(id), &draft)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return &draft, nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, draftKey(id))
}
