package pricing

import "strings"

// Category classifies a visitor for pricing purposes
type Category string

const (
	CategoryIndian    Category = "INDIAN"
	CategoryForeigner Category = "FOREIGNER"
	CategoryOther     Category = "OTHER"
)

// TicketType is the normalized per-category ticket row consumed by the
// selection flow. Price is whole rupees.
type TicketType struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Category Category `json:"category"`
}

// ticketTypeDto mirrors the raw backend record; only consumed fields are kept
type ticketTypeDto struct {
	ID                   string  `json:"id"`
	SeasonID             string  `json:"seasonId"`
	MasterTicketTypeName string  `json:"masterTicketTypeName"`
	Amount               float64 `json:"amount"`
	Active               bool    `json:"active"`
	Delete               bool    `json:"delete"`
}

// shiftDto mirrors the raw backend shift record
type shiftDto struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Delete bool   `json:"delete"`
}

// ticketSheetDto is the raw /booking/tickets/mobile payload after the
// result envelope has been unwrapped
type ticketSheetDto struct {
	ID                string          `json:"id"`
	MaxAllowedTickets int             `json:"maxAllowedTickets"`
	ShiftDtos         []shiftDto      `json:"shiftDtos"`
	TicketTypeDtos    []ticketTypeDto `json:"ticketTypeDtos"`
}

// PriceSheet is the normalized pricing for one place and visit date
type PriceSheet struct {
	SeasonID          string       `json:"season_id,omitempty"`
	ShiftID           string       `json:"shift_id,omitempty"`
	MaxAllowedTickets int          `json:"max_allowed_tickets,omitempty"`
	TicketTypes       []TicketType `json:"ticket_types"`

	// Degraded marks that the sheet holds the hardcoded defaults because
	// the live fetch failed; booking stays possible at these prices.
	Degraded bool `json:"degraded"`
}

// Default prices used when the live fetch fails
const (
	defaultIndianPrice    = 50
	defaultForeignerPrice = 200
)

// DefaultTicketTypes returns the two-entry fallback set
func DefaultTicketTypes() []TicketType {
	return []TicketType{
		{ID: "default-indian", Name: "Indian Citizen", Price: defaultIndianPrice, Category: CategoryIndian},
		{ID: "default-foreigner", Name: "Foreign Citizen", Price: defaultForeignerPrice, Category: CategoryForeigner},
	}
}

// DefaultPriceSheet returns the degraded-mode sheet
func DefaultPriceSheet() *PriceSheet {
	return &PriceSheet{
		TicketTypes: DefaultTicketTypes(),
		Degraded:    true,
	}
}

// InferCategory classifies a ticket row by its display name.
// Precedence matters: a name containing both "indian" and "foreign"
// resolves to INDIAN.
func InferCategory(name string) Category {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "indian"):
		return CategoryIndian
	case strings.Contains(n, "foreign"):
		return CategoryForeigner
	default:
		return CategoryOther
	}
}

// Normalize maps raw ticket-type records to the uniform shape, keeping a
// record iff it is active, not deleted and carries a positive amount.
func Normalize(dtos []ticketTypeDto) []TicketType {
	out := make([]TicketType, 0, len(dtos))
	for _, dto := range dtos {
		if !dto.Active || dto.Delete || dto.Amount <= 0 {
			continue
		}
		out = append(out, TicketType{
			ID:       dto.ID,
			Name:     dto.MasterTicketTypeName,
			Price:    int64(dto.Amount),
			Category: InferCategory(dto.MasterTicketTypeName),
		})
	}
	return out
}

// FindByID returns the ticket type with the given id, if present
func (s *PriceSheet) FindByID(id string) (TicketType, bool) {
	for _, tt := range s.TicketTypes {
		if tt.ID == id {
			return tt, true
		}
	}
	return TicketType{}, false
}
