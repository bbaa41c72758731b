package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"darshan/internal/shared/upstream"
	"darshan/internal/shared/utils/envelope"
)

// ErrNoBookingRef is returned when the create call succeeds but carries no
// booking identifier
var ErrNoBookingRef = errors.New("booking create response has no booking id")

// ticketLine is one ticket-type line of the upstream create payload
type ticketLine struct {
	TicketTypeID string   `json:"ticketTypeId"`
	Qty          int      `json:"qty"`
	AddOnList    []string `json:"addOnList"`
}

// createBookingPayload is the upstream create body. Field names and the
// fixed device/vip values follow what the backend's own web client sends.
type createBookingPayload struct {
	BookingDate        int64        `json:"bookingDate"` // epoch millis, local midnight
	PlaceID            string       `json:"placeId"`
	Device             string       `json:"device"`
	DeviceID           string       `json:"deviceId"`
	SeasonID           string       `json:"seasonId,omitempty"`
	ShiftID            string       `json:"shiftId,omitempty"`
	VIP                bool         `json:"vip"`
	TicketUserDtoClone []ticketLine `json:"ticketUserDtoClone"`
}

// Adapter drives the booking backend's create/confirm pair
type Adapter interface {
	// CreateBooking registers the booking upstream and returns its reference
	CreateBooking(ctx context.Context, bearer string, payload *createBookingPayload) (string, error)
	// ConfirmBooking locks the booking and returns the raw payment payload
	ConfirmBooking(ctx context.Context, bearer, bookingRef string) (json.RawMessage, error)
}

type apiAdapter struct {
	client *upstream.Client
}

// NewAdapter creates a booking adapter
func NewAdapter(client *upstream.Client) Adapter {
	return &apiAdapter{client: client}
}

func (a *apiAdapter) CreateBooking(ctx context.Context, bearer string, payload *createBookingPayload) (string, error) {
	query := url.Values{}
	query.Set("onSite", "false")

	raw, err := a.client.PostJSON(ctx, "/booking/create/v2", query, payload, bearer)
	if err != nil {
		return "", fmt.Errorf("booking create failed: %w", err)
	}

	// The reference has been seen under both names
	var resp struct {
		BookingID string `json:"bookingId"`
		ID        string `json:"id"`
	}
	if err := envelope.UnwrapInto(raw, &resp); err != nil {
		return "", fmt.Errorf("booking create parse failed: %w", err)
	}

	ref := resp.BookingID
	if ref == "" {
		ref = resp.ID
	}
	if ref == "" {
		return "", ErrNoBookingRef
	}
	return ref, nil
}

func (a *apiAdapter) ConfirmBooking(ctx context.Context, bearer, bookingRef string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("bookingId", bookingRef)

	raw, err := a.client.GetJSON(ctx, "/booking/confirm/v2", query, bearer)
	if err != nil {
		return nil, fmt.Errorf("booking confirm failed: %w", err)
	}
	return raw, nil
}
