package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"darshan/internal/places"
	"darshan/internal/pricing"
	"darshan/pkg/logger"

	"github.com/google/uuid"
)

// ErrPlaceNotBookable is returned when a draft targets a place that does
// not take online bookings
var ErrPlaceNotBookable = errors.New("place does not take online bookings")

// ErrUnknownTicketType is returned when a selection references a ticket id
// absent from the live price sheet
var ErrUnknownTicketType = errors.New("unknown ticket type")

// ErrEmptySelection is returned when the priced selection comes to zero
var ErrEmptySelection = errors.New("selection total must be greater than zero")

// ErrTooManyTickets is returned when the selection exceeds the sheet's
// per-booking limit
var ErrTooManyTickets = errors.New("selection exceeds the ticket limit for this date")

// Service owns the draft lifecycle. All money math happens here, against
// the live price sheet; client-submitted prices are never trusted.
type Service interface {
	CreateDraft(ctx context.Context, req *CreateDraftRequest) (*BookingDraft, error)
	GetDraft(ctx context.Context, id string) (*BookingDraft, error)
	MarkVerifying(ctx context.Context, id string) (*BookingDraft, error)
	MarkConfirmed(ctx context.Context, draft *BookingDraft) error
}

type service struct {
	repo    Repository
	places  places.Service
	pricing pricing.Service
	log     *logger.Logger
}

// NewService creates a draft service
func NewService(repo Repository, placeSvc places.Service, pricingSvc pricing.Service) Service {
	return &service{
		repo:    repo,
		places:  placeSvc,
		pricing: pricingSvc,
		log:     logger.GetDefault(),
	}
}

func (s *service) CreateDraft(ctx context.Context, req *CreateDraftRequest) (*BookingDraft, error) {
	visitDate, err := req.Validate()
	if err != nil {
		return nil, err
	}

	place, err := s.places.GetPlace(ctx, req.PlaceSlug)
	if err != nil {
		return nil, err
	}
	if !place.Bookable {
		return nil, ErrPlaceNotBookable
	}

	backendPlaceID := ""
	if place.Backend != nil {
		backendPlaceID = place.Backend.ID
	}

	// Degrades to the default sheet when the backend is unknown or
	// unreachable; booking stays possible at default prices
	sheet := s.pricing.GetPriceSheet(ctx, backendPlaceID, visitDate, req.ChargesID)

	draft := &BookingDraft{
		ID:             uuid.New().String(),
		PlaceSlug:      req.PlaceSlug,
		PlaceName:      place.Name,
		CatalogPlaceID: place.CatalogID,
		BackendPlaceID: backendPlaceID,
		SeasonID:       sheet.SeasonID,
		ShiftID:        sheet.ShiftID,
		ChargesID:      req.ChargesID,
		VisitDate:      visitDate,
		Degraded:       sheet.Degraded,
		State:          StateDrafted,
		CreatedAt:      time.Now().UTC(),
	}

	for _, sel := range req.Tickets {
		if sel.Count == 0 {
			continue
		}
		tt, ok := sheet.FindByID(sel.TicketID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTicketType, sel.TicketID)
		}
		subtotal := tt.Price * int64(sel.Count)
		draft.Tickets = append(draft.Tickets, SelectedTicket{
			TicketID:  tt.ID,
			Name:      tt.Name,
			Count:     sel.Count,
			UnitPrice: tt.Price,
			Subtotal:  subtotal,
		})
		draft.Total += subtotal
	}

	if draft.Total <= 0 {
		return nil, ErrEmptySelection
	}
	if sheet.MaxAllowedTickets > 0 && draft.TicketCount() > sheet.MaxAllowedTickets {
		return nil, ErrTooManyTickets
	}

	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}

	s.log.LogDraftCreated(ctx, draft.ID, draft.PlaceSlug, draft.Total)
	return draft, nil
}

func (s *service) GetDraft(ctx context.Context, id string) (*BookingDraft, error) {
	return s.repo.Get(ctx, id)
}

// MarkVerifying pins the draft to the OTP screen. Idempotent for drafts
// already verifying, so a refresh does not error.
func (s *service) MarkVerifying(ctx context.Context, id string) (*BookingDraft, error) {
	draft, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.State == StateVerifying {
		return draft, nil
	}
	if err := draft.Transition(StateVerifying); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// MarkConfirmed spends the draft after the upstream booking is created
func (s *service) MarkConfirmed(ctx context.Context, draft *BookingDraft) error {
	if err := draft.Transition(StateConfirmed); err != nil {
		return err
	}
	return s.repo.Save(ctx, draft)
}
