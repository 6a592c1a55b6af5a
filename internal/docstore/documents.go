package docstore

import (
	"time"

	"agora/internal/models"

	"github.com/google/uuid"
)

type userDoc struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	Email          string    `bson:"email"`
	Password       string    `bson:"password"`
	Bio            string    `bson:"bio"`
	ProfilePicture string    `bson:"profile_picture"`
	CreatedDate    time.Time `bson:"created_date"`
	FollowerCount  int       `bson:"follower_count"`
	FollowingCount int       `bson:"following_count"`
}

// contentDoc embeds the likes set so a toggle is one conditional update.
type contentDoc struct {
	ID             string    `bson:"_id"`
	AuthorID       string    `bson:"author_id"`
	AuthorUsername string    `bson:"author_username"`
	Text           string    `bson:"text"`
	ImageID        string    `bson:"image_id,omitempty"`
	ImageURL       string    `bson:"image_url,omitempty"`
	Timestamp      time.Time `bson:"timestamp"`
	Likes          []string  `bson:"likes"`
	LikesCount     int       `bson:"likes_count"`
	CommentCount   int       `bson:"comment_count"`
}

type followDoc struct {
	ID          string    `bson:"_id"`
	FollowerID  string    `bson:"follower_id"`
	FollowingID string    `bson:"following_id"`
	Timestamp   time.Time `bson:"timestamp"`
}

type commentDoc struct {
	ID             string    `bson:"_id"`
	ContentID      string    `bson:"content_id"`
	AuthorID       string    `bson:"author_id"`
	AuthorUsername string    `bson:"author_username"`
	Text           string    `bson:"text"`
	Timestamp      time.Time `bson:"timestamp"`
}

type imageDoc struct {
	ID          string    `bson:"_id"`
	Data        []byte    `bson:"data"`
	ContentType string    `bson:"content_type"`
	UploadedAt  time.Time `bson:"uploaded_at"`
}

func newUserDoc(u *models.User) userDoc {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedDate.IsZero() {
		u.CreatedDate = now()
	}
	return userDoc{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.Password,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		CreatedDate:    u.CreatedDate,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
	}
}

func (d userDoc) model() models.User {
	return models.User{
		ID:             d.ID,
		Username:       d.Username,
		Email:          d.Email,
		Password:       d.Password,
		Bio:            d.Bio,
		ProfilePicture: d.ProfilePicture,
		CreatedDate:    d.CreatedDate,
		FollowerCount:  d.FollowerCount,
		FollowingCount: d.FollowingCount,
	}
}

func newContentDoc(c *models.Content) contentDoc {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = now()
	}
	return contentDoc{
		ID:             c.ID,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.AuthorUsername,
		Text:           c.Text,
		ImageID:        c.ImageID,
		ImageURL:       c.ImageURL,
		Timestamp:      c.Timestamp,
		Likes:          []string{},
		LikesCount:     c.LikesCount,
		CommentCount:   c.CommentCount,
	}
}

func (d contentDoc) model() models.Content {
	return models.Content{
		ID:             d.ID,
		AuthorID:       d.AuthorID,
		AuthorUsername: d.AuthorUsername,
		Text:           d.Text,
		ImageID:        d.ImageID,
		ImageURL:       d.ImageURL,
		Timestamp:      d.Timestamp,
		LikesCount:     d.LikesCount,
		CommentCount:   d.CommentCount,
	}
}

func newFollowDoc(f *models.Follow) followDoc {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Timestamp.IsZero() {
		f.Timestamp = now()
	}
	return followDoc{ID: f.ID, FollowerID: f.FollowerID, FollowingID: f.FollowingID, Timestamp: f.Timestamp}
}

func newCommentDoc(c *models.Comment) commentDoc {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = now()
	}
	return commentDoc{
		ID:             c.ID,
		ContentID:      c.ContentID,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.AuthorUsername,
		Text:           c.Text,
		Timestamp:      c.Timestamp,
	}
}

func (d commentDoc) model() models.Comment {
	return models.Comment{
		ID:             d.ID,
		ContentID:      d.ContentID,
		AuthorID:       d.AuthorID,
		AuthorUsername: d.AuthorUsername,
		Text:           d.Text,
		Timestamp:      d.Timestamp,
	}
}

func newImageDoc(i *models.Image) imageDoc {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.UploadedAt.IsZero() {
		i.UploadedAt = now()
	}
	return imageDoc{ID: i.ID, Data: i.Data, ContentType: i.ContentType, UploadedAt: i.UploadedAt}
}

func (d imageDoc) model() models.Image {
	return models.Image{ID: d.ID, Data: d.Data, ContentType: d.ContentType, UploadedAt: d.UploadedAt}
}
