package attendance

import (
	"time"

	"gorm.io/gorm"
)

// Record is one user's attendance for one calendar day.
type Record struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_attendance_user_day"`
	Day       time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_day"`
	CheckIn   *time.Time
	CheckOut  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Record) TableName() string { return "attendance" }

// Migrate creates or updates the attendance table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Record{})
}
