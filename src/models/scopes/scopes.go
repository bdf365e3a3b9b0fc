package scopes

import (
	"time"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithIDs(ids ...uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", ids)
	}
}

func WithPendingStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "pending")
}

func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// OccupyingCapacity selects the bookings that count against a slot's
// capacity for a date. Pending holds occupy seats only until their
// expiry, whether or not the expiry job has run yet.
func OccupyingCapacity(slotID uint, date time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("time_slot_id = ? AND date = ?", slotID, date.Format("2006-01-02")).
			Where("(status = ? OR (status = ? AND expires_at > ?))", "confirmed", "pending", time.Now())
	}
}
