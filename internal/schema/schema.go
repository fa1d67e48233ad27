// Package schema creates and upgrades every table the portal owns.
package schema

import (
	"fmt"

	"gorm.io/gorm"

	"portal/internal/attendance"
	"portal/internal/user"
)

// Apply migrates users and profiles, then attendance.
func Apply(db *gorm.DB) error {
	if err := user.Migrate(db); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if err := attendance.Migrate(db); err != nil {
		return fmt.Errorf("migrate attendance: %w", err)
	}
	return nil
}
