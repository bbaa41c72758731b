package booking

import (
	"context"
	"fmt"
	"time"

	"darshan/internal/drafts"
	"darshan/internal/guestauth"
	"darshan/internal/payment"
	"darshan/internal/pricing"
	"darshan/internal/shared/config"
	"darshan/pkg/logger"
)

// Notifier delivers post-handoff notifications. Implementations must not
// block the confirm path on delivery.
type Notifier interface {
	NotifyBookingHandoff(ctx context.Context, record *HandoffRecord) error
}

// Service turns a verified draft into an upstream booking and a payment
// handoff
type Service interface {
	Confirm(ctx context.Context, sessionID string, req *ConfirmRequest) (*ConfirmResponse, error)
	GetPaymentHandoff(ctx context.Context, bookingRef string) (*PaymentHandoff, error)
	ListHandoffs(ctx context.Context, sessionID string) ([]HandoffRecord, error)
}

type service struct {
	adapter  Adapter
	repo     Repository
	handoffs HandoffStore
	drafts   drafts.Service
	pricing  pricing.Service
	auth     guestauth.Service
	notifier Notifier
	cfg      *config.Config
	log      *logger.Logger
}

// NewService creates a booking service. notifier may be nil.
func NewService(adapter Adapter, repo Repository, handoffs HandoffStore,
	draftSvc drafts.Service, pricingSvc pricing.Service, authSvc guestauth.Service,
	notifier Notifier, cfg *config.Config) Service {
	return &service{
		adapter:  adapter,
		repo:     repo,
		handoffs: handoffs,
		drafts:   draftSvc,
		pricing:  pricingSvc,
		auth:     authSvc,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.GetDefault(),
	}
}

func (s *service) Confirm(ctx context.Context, sessionID string, req *ConfirmRequest) (*ConfirmResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session, err := s.auth.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	draft, err := s.drafts.MarkVerifying(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}

	// Reprice against the live sheet; the draft's stored total is a quote,
	// not a commitment
	sheet := s.pricing.GetPriceSheet(ctx, draft.BackendPlaceID, draft.VisitDate, draft.ChargesID)
	s.reprice(ctx, draft, sheet)

	payload := s.buildPayload(draft, sheet, req.DeviceID, session.ID)

	bookingRef, err := s.adapter.CreateBooking(ctx, session.Token, payload)
	if err != nil {
		return nil, err
	}

	raw, err := s.adapter.ConfirmBooking(ctx, session.Token, bookingRef)
	if err != nil {
		return nil, err
	}

	data, err := payment.ExtractData(raw)
	if err != nil {
		return nil, fmt.Errorf("booking %s confirmed but unusable for payment: %w", bookingRef, err)
	}

	gatewayURL, err := payment.GatewayURL(&s.cfg.Payment)
	if err != nil {
		return nil, err
	}

	if err := s.drafts.MarkConfirmed(ctx, draft); err != nil {
		return nil, err
	}

	record := &HandoffRecord{
		BookingRef:     bookingRef,
		DraftID:        draft.ID,
		SessionID:      session.ID,
		PlaceName:      draft.PlaceName,
		BackendPlaceID: draft.BackendPlaceID,
		Contact:        session.Contact,
		Channel:        string(session.Channel),
		VisitDate:      draft.VisitDate,
		TicketCount:    draft.TicketCount(),
		TotalAmount:    draft.Total,
		Degraded:       draft.Degraded,
		Status:         StatusHandedOff,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// The upstream booking exists; losing the audit row must not lose
		// the user's payment handoff
		s.log.ErrorWithContext(ctx, "Failed to persist handoff record", err,
			map[string]interface{}{"booking_ref": bookingRef})
	}

	handoff := &PaymentHandoff{
		BookingRef: bookingRef,
		GatewayURL: gatewayURL,
		Data:       data,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.handoffs.Save(ctx, handoff); err != nil {
		return nil, fmt.Errorf("failed to store payment handoff: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyBookingHandoff(ctx, record); err != nil {
			s.log.ErrorWithContext(ctx, "Failed to queue handoff notification", err,
				map[string]interface{}{"booking_ref": bookingRef})
		}
	}

	s.log.LogBookingHandoff(ctx, bookingRef, draft.ID, draft.Total)

	return &ConfirmResponse{
		BookingRef: bookingRef,
		Total:      draft.Total,
		Degraded:   draft.Degraded,
		PayURL:     fmt.Sprintf("%s/bookings/%s/pay", s.cfg.GetAPIBasePath(), bookingRef),
		ExpiresIn:  int64(s.cfg.Redis.HandoffTTL.Seconds()),
	}, nil
}

// reprice recomputes the draft's money lines from the live sheet. A line
// whose ticket type vanished from the sheet keeps its drafted price.
func (s *service) reprice(ctx context.Context, draft *drafts.BookingDraft, sheet *pricing.PriceSheet) {
	staleTotal := draft.Total
	draft.Total = 0
	for i := range draft.Tickets {
		line := &draft.Tickets[i]
		if tt, ok := sheet.FindByID(line.TicketID); ok {
			line.UnitPrice = tt.Price
		}
		line.Subtotal = line.UnitPrice * int64(line.Count)
		draft.Total += line.Subtotal
	}
	draft.Degraded = draft.Degraded || sheet.Degraded

	if draft.Total != staleTotal {
		s.log.InfoWithContext(ctx, "Draft total superseded at confirm", map[string]interface{}{
			"draft_id":  draft.ID,
			"old_total": staleTotal,
			"new_total": draft.Total,
		})
	}
}

func (s *service) buildPayload(draft *drafts.BookingDraft, sheet *pricing.PriceSheet, deviceID, sessionID string) *createBookingPayload {
	seasonID := sheet.SeasonID
	if seasonID == "" {
		seasonID = draft.SeasonID
	}
	shiftID := sheet.ShiftID
	if shiftID == "" {
		shiftID = draft.ShiftID
	}
	if deviceID == "" {
		deviceID = sessionID
	}

	lines := make([]ticketLine, 0, len(draft.Tickets))
	for _, t := range draft.Tickets {
		lines = append(lines, ticketLine{
			TicketTypeID: t.TicketID,
			Qty:          t.Count,
			AddOnList:    []string{},
		})
	}

	return &createBookingPayload{
		BookingDate:        pricing.VisitDateEpochMillis(draft.VisitDate),
		PlaceID:            draft.BackendPlaceID,
		Device:             "Web",
		DeviceID:           deviceID,
		SeasonID:           seasonID,
		ShiftID:            shiftID,
		VIP:                false,
		TicketUserDtoClone: lines,
	}
}

func (s *service) GetPaymentHandoff(ctx context.Context, bookingRef string) (*PaymentHandoff, error) {
	return s.handoffs.Get(ctx, bookingRef)
}

func (s *service) ListHandoffs(ctx context.Context, sessionID string) ([]HandoffRecord, error) {
	return s.repo.ListBySession(ctx, sessionID)
}
