package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content is a post holding text, an image reference, or both.
type Content struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AuthorID       string    `gorm:"type:varchar(36);not null;index" json:"authorId"`
	AuthorUsername string    `gorm:"not null" json:"authorUsername"`
	Text           string    `gorm:"type:text" json:"text"`
	ImageID        string    `gorm:"type:varchar(36)" json:"imageId,omitempty"`
	ImageURL       string    `gorm:"type:text" json:"imageUrl,omitempty"`
	Timestamp      time.Time `gorm:"not null;index:idx_contents_timestamp,sort:desc" json:"timestamp"`
	LikesCount     int       `gorm:"not null" json:"likesCount"`
	CommentCount   int       `gorm:"not null" json:"commentCount"`
}

// BeforeCreate assigns a UUID and timestamp when they are unset.
func (c *Content) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	return nil
}

// Like records a single user's membership in a content's likes set.
type Like struct {
	ContentID string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt time.Time `gorm:"not null"`
}

// Image is an immutable uploaded blob referenced by a Content.
type Image struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Data        []byte    `gorm:"not null" json:"-"`
	ContentType string    `gorm:"not null;size:64" json:"contentType"`
	UploadedAt  time.Time `gorm:"not null" json:"uploadedAt"`
}

// BeforeCreate assigns a UUID and upload time when they are unset.
func (i *Image) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.UploadedAt.IsZero() {
		i.UploadedAt = time.Now().UTC()
	}
	return nil
}
