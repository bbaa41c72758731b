package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies what happened
type NotificationType string

const (
	NotificationTypeBookingHandoff NotificationType = "booking_handoff"
)

// NotificationStatus tracks delivery progress
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusQueued  NotificationStatus = "queued"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
	NotificationStatusSkipped NotificationStatus = "skipped"
)

// Notification is the message that travels through the pipeline. Only
// email delivery is wired; mobile-channel recipients are recorded and
// skipped by the consumer.
type Notification struct {
	ID         uuid.UUID          `json:"id"`
	Type       NotificationType   `json:"type"`
	Recipient  string             `json:"recipient"`
	Channel    string             `json:"channel"` // MOBILE or EMAIL
	Subject    string             `json:"subject"`
	BookingRef string             `json:"booking_ref"`
	PlaceName  string             `json:"place_name"`
	VisitDate  time.Time          `json:"visit_date"`
	Tickets    int                `json:"tickets"`
	Total      int64              `json:"total"` // whole rupees
	Status     NotificationStatus `json:"status"`
	LastError  string             `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// NewBookingHandoffNotification builds the message for one payment handoff
func NewBookingHandoffNotification(recipient, channel, bookingRef, placeName string,
	visitDate time.Time, tickets int, total int64) *Notification {
	now := time.Now().UTC()
	return &Notification{
		ID:         uuid.New(),
		Type:       NotificationTypeBookingHandoff,
		Recipient:  recipient,
		Channel:    channel,
		Subject:    "Your booking for " + placeName,
		BookingRef: bookingRef,
		PlaceName:  placeName,
		VisitDate:  visitDate,
		Tickets:    tickets,
		Total:      total,
		Status:     NotificationStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ToJSON serializes the notification for the wire
func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// FromJSON deserializes a notification from the wire
func FromJSON(data []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetPartitionKey routes all messages for one recipient to one partition,
// preserving per-recipient ordering
func (n *Notification) GetPartitionKey() string {
	if n.Recipient != "" {
		return n.Recipient
	}
	return n.ID.String()
}
