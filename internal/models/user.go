// Package models defines the domain entities shared by every storage backend.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. Password holds a bcrypt hash and is never serialized.
type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null;size:30" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	Bio            string    `gorm:"type:text" json:"bio"`
	ProfilePicture string    `gorm:"type:text" json:"profilePicture"`
	CreatedDate    time.Time `gorm:"not null" json:"createdDate"`
	FollowerCount  int       `gorm:"not null" json:"followerCount"`
	FollowingCount int       `gorm:"not null" json:"followingCount"`
}

// BeforeCreate assigns a UUID and creation date when they are unset.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedDate.IsZero() {
		u.CreatedDate = time.Now().UTC()
	}
	return nil
}

// Sanitized returns a copy of the user without the password hash.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
