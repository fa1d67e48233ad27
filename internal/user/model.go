package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is a registered identity. Email is stored lower-cased and is the login key.
type User struct {
	ID           string   `gorm:"primaryKey;size:36"`
	Email        string   `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	DisplayName  string   `gorm:"size:255;not null;default:''"`
	Profile      *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile extends a User one-to-one.
type Profile struct {
	UserID    string `gorm:"primaryKey;size:36"`
	Role      string `gorm:"size:100;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Name is the display name, or the local part of the email when none was stored.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// Role returns the profile role, empty when the profile is missing.
func (u *User) Role() string {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.Role
}

// Migrate creates or updates the users and profiles tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Profile{})
}
