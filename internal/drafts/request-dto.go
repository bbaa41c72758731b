package drafts

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrBadVisitDate is returned for visit dates not in YYYY-MM-DD form
var ErrBadVisitDate = errors.New("visit_date must be YYYY-MM-DD")

// TicketSelection is one requested line: a ticket type and how many.
// Zero counts are legal; the service gates on the priced total instead.
type TicketSelection struct {
	TicketID string `json:"ticket_id" validate:"required"`
	Count    int    `json:"count" validate:"gte=0"`
}

// CreateDraftRequest captures the user's selection. Prices are not
// accepted from the client; the service recomputes them from the sheet.
type CreateDraftRequest struct {
	PlaceSlug string            `json:"place_slug" validate:"required"`
	VisitDate string            `json:"visit_date" validate:"required"` // YYYY-MM-DD
	ChargesID string            `json:"charges_id"`
	Tickets   []TicketSelection `json:"tickets" validate:"required,min=1,dive"`
}

// Validate checks the request shape and parses the visit date
func (r *CreateDraftRequest) Validate() (time.Time, error) {
	if err := validate.Struct(r); err != nil {
		return time.Time{}, err
	}
	visitDate, err := time.ParseInLocation("2006-01-02", r.VisitDate, time.Local)
	if err != nil {
		return time.Time{}, ErrBadVisitDate
	}
	return visitDate, nil
}
