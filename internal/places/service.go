package places

import (
	"context"
	"fmt"
	"time"

	"darshan/pkg/cache"
	"darshan/pkg/logger"
)

// Service resolves place content for the booking flow
type Service interface {
	// GetPlace returns the place content for a slug, with the backend
	// place attached when the booking backend knows the site
	GetPlace(ctx context.Context, slug string) (*Place, error)
}

type service struct {
	adapter  Adapter
	cache    cache.Service
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewService creates a place service. cacheSvc may be nil; content is then
// fetched directly on every request.
func NewService(adapter Adapter, cacheSvc cache.Service, cacheTTL time.Duration) Service {
	return &service{
		adapter:  adapter,
		cache:    cacheSvc,
		cacheTTL: cacheTTL,
		log:      logger.GetDefault(),
	}
}

func (s *service) GetPlace(ctx context.Context, slug string) (*Place, error) {
	if slug == "" {
		return nil, fmt.Errorf("place slug is required")
	}

	place, err := s.getContent(ctx, slug)
	if err != nil {
		return nil, err
	}

	// The booking backend may not know this site; the place page still
	// renders, pricing later substitutes defaults
	backend, err := s.adapter.ResolveBackendPlace(ctx, place.CatalogID)
	if err != nil {
		s.log.ErrorWithContext(ctx, "Backend place resolution failed", err,
			map[string]interface{}{"slug": slug, "catalog_id": place.CatalogID})
	} else {
		place.Backend = backend
	}

	return place, nil
}

func (s *service) getContent(ctx context.Context, slug string) (*Place, error) {
	if s.cache == nil {
		return s.adapter.FetchPlace(ctx, slug)
	}

	var place Place
	key := "darshan:place:" + slug
	err := s.cache.GetOrSet(ctx, key, s.cacheTTL, func() (interface{}, error) {
		return s.adapter.FetchPlace(ctx, slug)
	}, &place)
	if err != nil {
		return nil, err
	}
	return &place, nil
}
