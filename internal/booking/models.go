package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Handoff status values
const (
	StatusHandedOff = "HANDED_OFF" // booking created upstream, user sent to the gateway
)

// HandoffRecord is the durable audit row for one payment handoff. Payment
// settlement happens on the gateway's side; this row records that we
// created the booking and forwarded the user.
type HandoffRecord struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BookingRef     string    `json:"booking_ref" gorm:"uniqueIndex;not null"`
	DraftID        string    `json:"draft_id" gorm:"index;not null"`
	SessionID      string    `json:"session_id" gorm:"index;not null"`
	PlaceName      string    `json:"place_name" gorm:"not null"`
	BackendPlaceID string    `json:"backend_place_id"`
	Contact        string    `json:"contact" gorm:"not null"`
	Channel        string    `json:"channel" gorm:"not null"`
	VisitDate      time.Time `json:"visit_date" gorm:"not null"`
	TicketCount    int       `json:"ticket_count" gorm:"not null"`
	TotalAmount    int64     `json:"total_amount" gorm:"not null"`
	Degraded       bool      `json:"degraded" gorm:"default:false"`
	Status         string    `json:"status" gorm:"not null;default:'HANDED_OFF'"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (HandoffRecord) TableName() string {
	return "booking_handoffs"
}

func (h *HandoffRecord) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
