package notifications

import (
	"testing"
	"time"
)

func TestNewBookingHandoffNotification(t *testing.T) {
	visit := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	n := NewBookingHandoffNotification("visitor@example.com", "EMAIL", "bk-1", "Sun Temple", visit, 3, 250)

	if n.Type != NotificationTypeBookingHandoff {
		t.Errorf("Type = %v", n.Type)
	}
	if n.Status != NotificationStatusPending {
		t.Errorf("Status = %v, want pending", n.Status)
	}
	if n.Subject != "Your booking for Sun Temple" {
		t.Errorf("Subject = %q", n.Subject)
	}
	if n.Total != 250 || n.Tickets != 3 {
		t.Errorf("Total/Tickets = %d/%d", n.Total, n.Tickets)
	}
}

func TestGetPartitionKey(t *testing.T) {
	n := NewBookingHandoffNotification("visitor@example.com", "EMAIL", "bk-1", "Sun Temple", time.Now(), 1, 50)
	if n.GetPartitionKey() != "visitor@example.com" {
		t.Errorf("partition key = %q, want the recipient", n.GetPartitionKey())
	}

	n.Recipient = ""
	if n.GetPartitionKey() != n.ID.String() {
		t.Error("empty recipient must fall back to the notification id")
	}
}

func TestRoundTrip(t *testing.T) {
	n := NewBookingHandoffNotification("visitor@example.com", "EMAIL", "bk-1", "Sun Temple", time.Now().UTC(), 2, 100)

	data, err := n.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON returned error: %v", err)
	}
	decoded, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON returned error: %v", err)
	}
	if decoded.BookingRef != "bk-1" || decoded.Recipient != "visitor@example.com" {
		t.Errorf("decoded = %+v", decoded)
	}
}
