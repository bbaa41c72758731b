package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrRecordNotFound is returned when no handoff row exists for a ref
var ErrRecordNotFound = errors.New("handoff record not found")

// Repository persists the handoff audit trail
type Repository interface {
	Create(ctx context.Context, record *HandoffRecord) error
	GetByBookingRef(ctx context.Context, bookingRef string) (*HandoffRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]HandoffRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a booking repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *HandoffRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) GetByBookingRef(ctx context.Context, bookingRef string) (*HandoffRecord, error) {
	var record HandoffRecord
	err := r.db.WithContext(ctx).Where("booking_ref = ?", bookingRef).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]HandoffRecord, error) {
	var records []HandoffRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
