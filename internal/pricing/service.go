package pricing

import (
	"context"
	"time"

	"darshan/pkg/logger"
)

// Service resolves the price sheet for a place and visit date. A failed
// fetch degrades to the hardcoded default entries instead of failing the
// page; the caller can see this through PriceSheet.Degraded.
type Service interface {
	GetPriceSheet(ctx context.Context, placeID string, visitDate time.Time, chargesID string) *PriceSheet
}

type service struct {
	adapter          Adapter
	defaultChargesID string
	log              *logger.Logger
}

// NewService creates a pricing service
func NewService(adapter Adapter, defaultChargesID string) Service {
	return &service{
		adapter:          adapter,
		defaultChargesID: defaultChargesID,
		log:              logger.GetDefault(),
	}
}

func (s *service) GetPriceSheet(ctx context.Context, placeID string, visitDate time.Time, chargesID string) *PriceSheet {
	if chargesID == "" {
		chargesID = s.defaultChargesID
	}

	sheet, err := s.adapter.FetchPriceSheet(ctx, placeID, visitDate, chargesID)
	if err != nil {
		// Booking must remain possible in degraded mode
		s.log.LogPricingFallback(ctx, placeID, err)
		return DefaultPriceSheet()
	}
	return sheet
}
