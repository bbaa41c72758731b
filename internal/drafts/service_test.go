package drafts

import (
	"context"
	"errors"
	"testing"
	"time"

	"darshan/internal/places"
	"darshan/internal/pricing"
)

type stubPlaceService struct {
	place *places.Place
	err   error
}

func (s *stubPlaceService) GetPlace(ctx context.Context, slug string) (*places.Place, error) {
	return s.place, s.err
}

type stubPricingService struct {
	sheet *pricing.PriceSheet
}

func (s *stubPricingService) GetPriceSheet(ctx context.Context, placeID string, visitDate time.Time, chargesID string) *pricing.PriceSheet {
	return s.sheet
}

type memoryRepository struct {
	drafts map[string]*BookingDraft
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{drafts: make(map[string]*BookingDraft)}
}

func (r *memoryRepository) Save(ctx context.Context, draft *BookingDraft) error {
	copied := *draft
	r.drafts[draft.ID] = &copied
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id string) (*BookingDraft, error) {
	draft, ok := r.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	delete(r.drafts, id)
	return nil
}

func liveSheet() *pricing.PriceSheet {
	return &pricing.PriceSheet{
		SeasonID:          "season-1",
		ShiftID:           "shift-1",
		MaxAllowedTickets: 5,
		TicketTypes: []pricing.TicketType{
			{ID: "t1", Name: "Indian Citizen", Price: 50, Category: pricing.CategoryIndian},
			{ID: "t2", Name: "Foreign Citizen", Price: 200, Category: pricing.CategoryForeigner},
		},
	}
}

func bookablePlace() *places.Place {
	return &places.Place{
		CatalogID: "cat-1",
		Name:      "Sun Temple",
		Bookable:  true,
		Backend:   &places.BackendPlace{ID: "place-1", Name: "Sun Temple"},
	}
}

func newTestService(place *places.Place, placeErr error, sheet *pricing.PriceSheet) (Service, *memoryRepository) {
	repo := newMemoryRepository()
	svc := NewService(repo, &stubPlaceService{place: place, err: placeErr}, &stubPricingService{sheet: sheet})
	return svc, repo
}

func TestCreateDraftComputesTotals(t *testing.T) {
	svc, _ := newTestService(bookablePlace(), nil, liveSheet())

	draft, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "sun-temple",
		VisitDate: "2026-09-01",
		Tickets: []TicketSelection{
			{TicketID: "t1", Count: 2},
			{TicketID: "t2", Count: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateDraft returned error: %v", err)
	}

	if draft.Total != 2*50+200 {
		t.Errorf("Total = %d, want 300", draft.Total)
	}
	if draft.Tickets[0].Subtotal != 100 {
		t.Errorf("first subtotal = %d, want 100", draft.Tickets[0].Subtotal)
	}
	if draft.State != StateDrafted {
		t.Errorf("State = %v, want DRAFTED", draft.State)
	}
	if draft.BackendPlaceID != "place-1" {
		t.Errorf("BackendPlaceID = %q, want place-1", draft.BackendPlaceID)
	}
	if draft.SeasonID != "season-1" || draft.ShiftID != "shift-1" {
		t.Errorf("season/shift = %q/%q, want season-1/shift-1", draft.SeasonID, draft.ShiftID)
	}
}

func TestCreateDraftIgnoresClientPrices(t *testing.T) {
	// The request carries only ids and counts; prices always come from the
	// sheet. A tampered sheet id surfaces as unknown.
	svc, _ := newTestService(bookablePlace(), nil, liveSheet())

	_, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "sun-temple",
		VisitDate: "2026-09-01",
		Tickets:   []TicketSelection{{TicketID: "forged", Count: 1}},
	})
	if !errors.Is(err, ErrUnknownTicketType) {
		t.Errorf("err = %v, want ErrUnknownTicketType", err)
	}
}

func TestCreateDraftZeroCountLinesDropped(t *testing.T) {
	svc, _ := newTestService(bookablePlace(), nil, liveSheet())

	draft, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "sun-temple",
		VisitDate: "2026-09-01",
		Tickets: []TicketSelection{
			{TicketID: "t1", Count: 1},
			{TicketID: "t2", Count: 0},
		},
	})
	if err != nil {
		t.Fatalf("CreateDraft returned error: %v", err)
	}
	if len(draft.Tickets) != 1 || draft.Total != 50 {
		t.Errorf("draft = %d lines total %d, want 1 line at 50", len(draft.Tickets), draft.Total)
	}
}

func TestCreateDraftAllZeroCounts(t *testing.T) {
	svc, _ := newTestService(bookablePlace(), nil, liveSheet())

	_, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "sun-temple",
		VisitDate: "2026-09-01",
		Tickets:   []TicketSelection{{TicketID: "t1", Count: 0}},
	})
	if !errors.Is(err, ErrEmptySelection) {
		t.Errorf("err = %v, want ErrEmptySelection", err)
	}
}

func TestCreateDraftNotBookable(t *testing.T) {
	place := bookablePlace()
	place.Bookable = false
	svc, _ := newTestService(place, nil, liveSheet())

	_, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "sun-temple",
		VisitDate: "2026-09-01",
		Tickets:   []TicketSelection{{TicketID: "t1", Count: 1}},
	})
	if !errors.Is(err, ErrPlaceNotBookable) {
		t.Errorf("err = %v, want ErrPlaceNotBookable", err)
	}
}

func TestCreateDraftPlaceNotFound(t *testing.T) {
	svc, _ := newTestService(nil, places.ErrPlaceNotFound, liveSheet())

	_, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "missing",
		VisitDate: "2026-09-01",
		Tickets:   []TicketSelection{{TicketID: "t1", Count: 1}},
	})
	if !errors.Is(err, places.ErrPlaceNotFound) {
		t.Errorf("err = %v, want ErrPlaceNotFound", err)
	}
}

func TestCreateDraftTooManyTickets(t *testing.T) {
	svc, _ := newTestService(bookablePlace(), nil, liveSheet())

	_, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "sun-temple",
		VisitDate: "2026-09-01",
		Tickets:   []TicketSelection{{TicketID: "t1", Count: 6}},
	})
	if !errors.Is(err, ErrTooManyTickets) {
		t.Errorf("err = %v, want ErrTooManyTickets", err)
	}
}

func TestCreateDraftBadVisitDate(t *testing.T) {
	svc, _ := newTestService(bookablePlace(), nil, liveSheet())

	_, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "sun-temple",
		VisitDate: "01-09-2026",
		Tickets:   []TicketSelection{{TicketID: "t1", Count: 1}},
	})
	if !errors.Is(err, ErrBadVisitDate) {
		t.Errorf("err = %v, want ErrBadVisitDate", err)
	}
}

func TestCreateDraftDegradedSheet(t *testing.T) {
	// A place without a backend mapping still books, at default prices
	place := bookablePlace()
	place.Backend = nil
	svc, _ := newTestService(place, nil, pricing.DefaultPriceSheet())

	draft, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "sun-temple",
		VisitDate: "2026-09-01",
		Tickets:   []TicketSelection{{TicketID: "default-indian", Count: 2}},
	})
	if err != nil {
		t.Fatalf("CreateDraft returned error: %v", err)
	}
	if !draft.Degraded {
		t.Error("draft must carry the degraded flag")
	}
	if draft.Total != 100 {
		t.Errorf("Total = %d, want 100", draft.Total)
	}
}

func TestDraftLifecycle(t *testing.T) {
	svc, _ := newTestService(bookablePlace(), nil, liveSheet())

	draft, err := svc.CreateDraft(context.Background(), &CreateDraftRequest{
		PlaceSlug: "sun-temple",
		VisitDate: "2026-09-01",
		Tickets:   []TicketSelection{{TicketID: "t1", Count: 1}},
	})
	if err != nil {
		t.Fatalf("CreateDraft returned error: %v", err)
	}

	verifying, err := svc.MarkVerifying(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("MarkVerifying returned error: %v", err)
	}
	if verifying.State != StateVerifying {
		t.Errorf("State = %v, want VERIFYING", verifying.State)
	}

	// Idempotent for a refresh
	again, err := svc.MarkVerifying(context.Background(), draft.ID)
	if err != nil || again.State != StateVerifying {
		t.Errorf("second MarkVerifying = %v state %v", err, again.State)
	}

	if err := svc.MarkConfirmed(context.Background(), again); err != nil {
		t.Fatalf("MarkConfirmed returned error: %v", err)
	}

	// A spent draft cannot restart the flow
	if _, err := svc.MarkVerifying(context.Background(), draft.ID); !errors.Is(err, ErrDraftSpent) {
		t.Errorf("err = %v, want ErrDraftSpent", err)
	}
}

func TestGetDraftMissing(t *testing.T) {
	svc, _ := newTestService(bookablePlace(), nil, liveSheet())

	if _, err := svc.GetDraft(context.Background(), "nope"); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("err = %v, want ErrDraftNotFound", err)
	}
}
