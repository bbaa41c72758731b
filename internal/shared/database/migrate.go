package database

import (
	"darshan/internal/booking"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&booking.HandoffRecord{},
	)
}
