package pricing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"darshan/internal/shared/upstream"
	"darshan/internal/shared/utils/envelope"
)

// ErrMissingPlaceID is a hard failure: without a backend place id there is
// nothing to fetch prices for.
var ErrMissingPlaceID = errors.New("backend place id is required")

// Adapter fetches raw per-date ticket-type records for a place
type Adapter interface {
	FetchPriceSheet(ctx context.Context, placeID string, visitDate time.Time, chargesID string) (*PriceSheet, error)
}

type apiAdapter struct {
	client *upstream.Client
}

// NewAdapter creates a pricing adapter over the booking backend
func NewAdapter(client *upstream.Client) Adapter {
	return &apiAdapter{client: client}
}

// FetchPriceSheet calls the token-free mobile pricing endpoint and
// normalizes the response. The payload may be wrapped in zero, one or two
// result envelopes.
func (a *apiAdapter) FetchPriceSheet(ctx context.Context, placeID string, visitDate time.Time, chargesID string) (*PriceSheet, error) {
	if placeID == "" {
		return nil, ErrMissingPlaceID
	}

	query := url.Values{}
	query.Set("placeId", placeID)
	query.Set("date", strconv.FormatInt(VisitDateEpochMillis(visitDate), 10))
	query.Set("specificChargesId", chargesID)

	raw, err := a.client.GetJSON(ctx, "/booking/tickets/mobile", query, "")
	if err != nil {
		return nil, fmt.Errorf("ticket pricing fetch failed: %w", err)
	}

	var sheet ticketSheetDto
	if err := envelope.UnwrapInto(raw, &sheet); err != nil {
		return nil, fmt.Errorf("ticket pricing parse failed: %w", err)
	}
	if sheet.TicketTypeDtos == nil {
		return nil, fmt.Errorf("ticket pricing response has no ticketTypeDtos")
	}

	out := &PriceSheet{
		SeasonID:          sheet.ID,
		MaxAllowedTickets: sheet.MaxAllowedTickets,
		TicketTypes:       Normalize(sheet.TicketTypeDtos),
	}

	// Records carry the season they belong to; prefer it over the sheet id
	for _, dto := range sheet.TicketTypeDtos {
		if dto.SeasonID != "" {
			out.SeasonID = dto.SeasonID
			break
		}
	}
	for _, shift := range sheet.ShiftDtos {
		if shift.Active && !shift.Delete {
			out.ShiftID = shift.ID
			break
		}
	}

	return out, nil
}

// VisitDateEpochMillis resolves a visit date to the fixed reference instant
// the backend expects: local midnight of that day, in epoch milliseconds.
func VisitDateEpochMillis(t time.Time) int64 {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.UnixMilli()
}
