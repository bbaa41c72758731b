package booking

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"darshan/internal/drafts"
	"darshan/internal/guestauth"
	"darshan/internal/pricing"
	"darshan/internal/shared/config"
	"darshan/internal/shared/upstream"
)

type fakeAdapter struct {
	createErr   error
	confirmErr  error
	bookingRef  string
	confirmBody string

	gotPayload *createBookingPayload
	gotBearer  string
}

func (a *fakeAdapter) CreateBooking(ctx context.Context, bearer string, payload *createBookingPayload) (string, error) {
	a.gotBearer = bearer
	a.gotPayload = payload
	if a.createErr != nil {
		return "", a.createErr
	}
	return a.bookingRef, nil
}

func (a *fakeAdapter) ConfirmBooking(ctx context.Context, bearer, bookingRef string) (json.RawMessage, error) {
	if a.confirmErr != nil {
		return nil, a.confirmErr
	}
	return json.RawMessage(a.confirmBody), nil
}

type memoryRepo struct {
	records []*HandoffRecord
}

func (r *memoryRepo) Create(ctx context.Context, record *HandoffRecord) error {
	r.records = append(r.records, record)
	return nil
}

func (r *memoryRepo) GetByBookingRef(ctx context.Context, ref string) (*HandoffRecord, error) {
	for _, rec := range r.records {
		if rec.BookingRef == ref {
			return rec, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *memoryRepo) ListBySession(ctx context.Context, sessionID string) ([]HandoffRecord, error) {
	var out []HandoffRecord
	for _, rec := range r.records {
		if rec.SessionID == sessionID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

type memoryHandoffs struct {
	handoffs map[string]*PaymentHandoff
}

func newMemoryHandoffs() *memoryHandoffs {
	return &memoryHandoffs{handoffs: make(map[string]*PaymentHandoff)}
}

func (s *memoryHandoffs) Save(ctx context.Context, handoff *PaymentHandoff) error {
	s.handoffs[handoff.BookingRef] = handoff
	return nil
}

func (s *memoryHandoffs) Get(ctx context.Context, ref string) (*PaymentHandoff, error) {
	handoff, ok := s.handoffs[ref]
	if !ok {
		return nil, ErrHandoffExpired
	}
	return handoff, nil
}

func (s *memoryHandoffs) Delete(ctx context.Context, ref string) error {
	delete(s.handoffs, ref)
	return nil
}

type fakeDraftService struct {
	drafts map[string]*drafts.BookingDraft
}

func (s *fakeDraftService) CreateDraft(ctx context.Context, req *drafts.CreateDraftRequest) (*drafts.BookingDraft, error) {
	return nil, errors.New("not used")
}

func (s *fakeDraftService) GetDraft(ctx context.Context, id string) (*drafts.BookingDraft, error) {
	draft, ok := s.drafts[id]
	if !ok {
		return nil, drafts.ErrDraftNotFound
	}
	return draft, nil
}

func (s *fakeDraftService) MarkVerifying(ctx context.Context, id string) (*drafts.BookingDraft, error) {
	draft, err := s.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.State == drafts.StateConfirmed {
		return nil, drafts.ErrDraftSpent
	}
	draft.State = drafts.StateVerifying
	return draft, nil
}

func (s *fakeDraftService) MarkConfirmed(ctx context.Context, draft *drafts.BookingDraft) error {
	if draft.State == drafts.StateConfirmed {
		return drafts.ErrDraftSpent
	}
	draft.State = drafts.StateConfirmed
	return nil
}

type stubPricing struct {
	sheet *pricing.PriceSheet
}

func (s *stubPricing) GetPriceSheet(ctx context.Context, placeID string, visitDate time.Time, chargesID string) *pricing.PriceSheet {
	return s.sheet
}

type fakeAuthService struct {
	sessions map[string]*guestauth.Session
}

func (s *fakeAuthService) RequestOTP(ctx context.Context, req *guestauth.OTPRequest) error {
	return errors.New("not used")
}

func (s *fakeAuthService) VerifyOTP(ctx context.Context, req *guestauth.OTPVerifyRequest) (*guestauth.AuthResponse, error) {
	return nil, errors.New("not used")
}

func (s *fakeAuthService) GetSession(ctx context.Context, sessionID string) (*guestauth.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, guestauth.ErrSessionNotFound
	}
	return session, nil
}

func (s *fakeAuthService) Invalidate(ctx context.Context, sessionID, cause string) error {
	delete(s.sessions, sessionID)
	return nil
}

func (s *fakeAuthService) InvalidationHook() upstream.AuthFailureHook {
	return func(ctx context.Context) {}
}

type recordingNotifier struct {
	records []*HandoffRecord
}

func (n *recordingNotifier) NotifyBookingHandoff(ctx context.Context, record *HandoffRecord) error {
	n.records = append(n.records, record)
	return nil
}

const validPaymentBody = `{"result":{"ENCDATA":"abc==","MERCHANTCODE":"m1","SERVICEID":"s1"}}`

func testDraft() *drafts.BookingDraft {
	return &drafts.BookingDraft{
		ID:             "draft-1",
		PlaceSlug:      "sun-temple",
		PlaceName:      "Sun Temple",
		CatalogPlaceID: "cat-1",
		BackendPlaceID: "place-1",
		SeasonID:       "season-1",
		ShiftID:        "shift-1",
		Tickets: []drafts.SelectedTicket{
			{TicketID: "t1", Name: "Indian Citizen", Count: 2, UnitPrice: 50, Subtotal: 100},
		},
		Total:     100,
		VisitDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local),
		State:     drafts.StateDrafted,
	}
}

func liveSheet() *pricing.PriceSheet {
	return &pricing.PriceSheet{
		SeasonID: "season-1",
		ShiftID:  "shift-1",
		TicketTypes: []pricing.TicketType{
			{ID: "t1", Name: "Indian Citizen", Price: 50, Category: pricing.CategoryIndian},
		},
	}
}

func bookingConfig() *config.Config {
	return &config.Config{
		APIPrefix:  "/api",
		APIVersion: "v1",
		Redis:      config.RedisConfig{HandoffTTL: 15 * time.Minute},
		Payment: config.PaymentConfig{
			Environment: "stage",
			StageURL:    "https://stage.pay.example.com",
		},
	}
}

type fixture struct {
	svc      Service
	adapter  *fakeAdapter
	repo     *memoryRepo
	handoffs *memoryHandoffs
	notifier *recordingNotifier
	drafts   *fakeDraftService
}

func newFixture(draft *drafts.BookingDraft, sheet *pricing.PriceSheet, adapter *fakeAdapter) *fixture {
	f := &fixture{
		adapter:  adapter,
		repo:     &memoryRepo{},
		handoffs: newMemoryHandoffs(),
		notifier: &recordingNotifier{},
		drafts:   &fakeDraftService{drafts: map[string]*drafts.BookingDraft{}},
	}
	if draft != nil {
		f.drafts.drafts[draft.ID] = draft
	}
	auth := &fakeAuthService{sessions: map[string]*guestauth.Session{
		"sess-1": {ID: "sess-1", Contact: "visitor@example.com", Channel: guestauth.ChannelEmail, Token: "upstream-token"},
	}}
	f.svc = NewService(adapter, f.repo, f.handoffs, f.drafts, &stubPricing{sheet: sheet}, auth, f.notifier, bookingConfig())
	return f
}

func TestConfirmHappyPath(t *testing.T) {
	draft := testDraft()
	f := newFixture(draft, liveSheet(), &fakeAdapter{bookingRef: "bk-1", confirmBody: validPaymentBody})

	resp, err := f.svc.Confirm(context.Background(), "sess-1", &ConfirmRequest{DraftID: "draft-1"})
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}

	if resp.BookingRef != "bk-1" {
		t.Errorf("BookingRef = %q", resp.BookingRef)
	}
	if resp.Total != 100 {
		t.Errorf("Total = %d, want 100", resp.Total)
	}
	if !strings.HasSuffix(resp.PayURL, "/api/v1/bookings/bk-1/pay") {
		t.Errorf("PayURL = %q", resp.PayURL)
	}

	// Upstream got the session's bearer token and the drafted lines
	if f.adapter.gotBearer != "upstream-token" {
		t.Errorf("bearer = %q", f.adapter.gotBearer)
	}
	payload := f.adapter.gotPayload
	if payload.PlaceID != "place-1" || payload.Device != "Web" || payload.VIP {
		t.Errorf("payload = %+v", payload)
	}
	if len(payload.TicketUserDtoClone) != 1 || payload.TicketUserDtoClone[0].Qty != 2 {
		t.Errorf("ticket lines = %+v", payload.TicketUserDtoClone)
	}
	if payload.TicketUserDtoClone[0].AddOnList == nil {
		t.Error("addOnList must be an empty list, not null")
	}

	// Draft is spent, audit row written, handoff stored, notification queued
	if draft.State != drafts.StateConfirmed {
		t.Errorf("draft state = %v, want CONFIRMED", draft.State)
	}
	if len(f.repo.records) != 1 || f.repo.records[0].BookingRef != "bk-1" {
		t.Errorf("records = %+v", f.repo.records)
	}
	if _, err := f.handoffs.Get(context.Background(), "bk-1"); err != nil {
		t.Errorf("handoff not stored: %v", err)
	}
	if len(f.notifier.records) != 1 {
		t.Errorf("notifications = %d, want 1", len(f.notifier.records))
	}
}

func TestConfirmRepricesStaleDraft(t *testing.T) {
	draft := testDraft() // drafted at 50 per ticket
	sheet := liveSheet()
	sheet.TicketTypes[0].Price = 75 // price rose since drafting

	f := newFixture(draft, sheet, &fakeAdapter{bookingRef: "bk-1", confirmBody: validPaymentBody})

	resp, err := f.svc.Confirm(context.Background(), "sess-1", &ConfirmRequest{DraftID: "draft-1"})
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}

	if resp.Total != 150 {
		t.Errorf("Total = %d, want the recomputed 150", resp.Total)
	}
	if f.repo.records[0].TotalAmount != 150 {
		t.Errorf("audit total = %d, want 150", f.repo.records[0].TotalAmount)
	}
}

func TestConfirmUnknownSession(t *testing.T) {
	f := newFixture(testDraft(), liveSheet(), &fakeAdapter{bookingRef: "bk-1", confirmBody: validPaymentBody})

	_, err := f.svc.Confirm(context.Background(), "sess-unknown", &ConfirmRequest{DraftID: "draft-1"})
	if !errors.Is(err, guestauth.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestConfirmMissingDraft(t *testing.T) {
	f := newFixture(nil, liveSheet(), &fakeAdapter{bookingRef: "bk-1", confirmBody: validPaymentBody})

	_, err := f.svc.Confirm(context.Background(), "sess-1", &ConfirmRequest{DraftID: "draft-1"})
	if !errors.Is(err, drafts.ErrDraftNotFound) {
		t.Errorf("err = %v, want ErrDraftNotFound", err)
	}
}

func TestConfirmSpentDraft(t *testing.T) {
	draft := testDraft()
	draft.State = drafts.StateConfirmed
	f := newFixture(draft, liveSheet(), &fakeAdapter{bookingRef: "bk-1", confirmBody: validPaymentBody})

	_, err := f.svc.Confirm(context.Background(), "sess-1", &ConfirmRequest{DraftID: "draft-1"})
	if !errors.Is(err, drafts.ErrDraftSpent) {
		t.Errorf("err = %v, want ErrDraftSpent", err)
	}
}

func TestConfirmInvalidPaymentPayload(t *testing.T) {
	f := newFixture(testDraft(), liveSheet(),
		&fakeAdapter{bookingRef: "bk-1", confirmBody: `{"result":{"message":"no gateway fields"}}`})

	_, err := f.svc.Confirm(context.Background(), "sess-1", &ConfirmRequest{DraftID: "draft-1"})
	if err == nil {
		t.Fatal("expected error for payload without gateway fields")
	}
	if len(f.repo.records) != 0 {
		t.Error("no audit row should be written for a failed handoff")
	}
}

func TestConfirmUpstreamRejectsToken(t *testing.T) {
	f := newFixture(testDraft(), liveSheet(), &fakeAdapter{createErr: upstream.ErrUnauthorized})

	_, err := f.svc.Confirm(context.Background(), "sess-1", &ConfirmRequest{DraftID: "draft-1"})
	if !errors.Is(err, upstream.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestGetPaymentHandoffExpired(t *testing.T) {
	f := newFixture(testDraft(), liveSheet(), &fakeAdapter{bookingRef: "bk-1", confirmBody: validPaymentBody})

	_, err := f.svc.GetPaymentHandoff(context.Background(), "gone")
	if !errors.Is(err, ErrHandoffExpired) {
		t.Errorf("err = %v, want ErrHandoffExpired", err)
	}
}
