package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a text reply attached to a Content.
type Comment struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ContentID      string    `gorm:"type:varchar(36);not null;index" json:"contentId"`
	AuthorID       string    `gorm:"type:varchar(36);not null" json:"authorId"`
	AuthorUsername string    `gorm:"not null" json:"authorUsername"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	Timestamp      time.Time `gorm:"not null;index" json:"timestamp"`
}

// BeforeCreate assigns a UUID and timestamp when they are unset.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	return nil
}
