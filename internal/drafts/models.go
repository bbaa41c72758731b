package drafts

import (
	"errors"
	"fmt"
	"time"
)

// DraftState tracks a draft through the flow
type DraftState string

const (
	StateDrafted   DraftState = "DRAFTED"   // selection captured, user not yet verified
	StateVerifying DraftState = "VERIFYING" // handed to the OTP screen
	StateConfirmed DraftState = "CONFIRMED" // booking created upstream, draft is spent
)

// ErrDraftNotFound is returned when a draft id has no stored draft
// (expired or never created)
var ErrDraftNotFound = errors.New("booking draft not found")

// ErrDraftSpent is returned when a confirmed draft is confirmed again
var ErrDraftSpent = errors.New("booking draft already confirmed")

// SelectedTicket is one priced line of a draft. UnitPrice and Subtotal are
// whole rupees, computed server-side from the price sheet.
type SelectedTicket struct {
	TicketID  string `json:"ticket_id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// BookingDraft captures one in-progress selection. It lives in
// session-scoped storage with a bounded lifetime; an expired draft simply
// disappears and the user restarts selection.
type BookingDraft struct {
	ID             string           `json:"id"`
	PlaceSlug      string           `json:"place_slug"`
	PlaceName      string           `json:"place_name"`
	CatalogPlaceID string           `json:"catalog_place_id"`
	BackendPlaceID string           `json:"backend_place_id,omitempty"`
	SeasonID       string           `json:"season_id,omitempty"`
	ShiftID        string           `json:"shift_id,omitempty"`
	ChargesID      string           `json:"charges_id,omitempty"`
	Tickets        []SelectedTicket `json:"tickets"`
	Total          int64            `json:"total"`
	VisitDate      time.Time        `json:"visit_date"`
	Degraded       bool             `json:"degraded"`
	State          DraftState       `json:"state"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Transition moves the draft to the next state, rejecting moves that skip
// or rewind the flow
func (d *BookingDraft) Transition(next DraftState) error {
	valid := map[DraftState]DraftState{
		StateDrafted:   StateVerifying,
		StateVerifying: StateConfirmed,
	}
	if d.State == StateConfirmed {
		return ErrDraftSpent
	}
	if valid[d.State] != next {
		return fmt.Errorf("invalid draft transition %s -> %s", d.State, next)
	}
	d.State = next
	return nil
}

// TicketCount returns the total number of tickets across all lines
func (d *BookingDraft) TicketCount() int {
	n := 0
	for _, t := range d.Tickets {
		n += t.Count
	}
	return n
}
