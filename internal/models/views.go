package models

// ContentViewer carries the per-viewer annotations of a content.
type ContentViewer struct {
	IsLiked bool `json:"isLiked"`
}

// ContentView is a content enriched for presentation.
type ContentView struct {
	Content
	ImageData            string         `json:"imageData,omitempty"`
	AuthorProfilePicture string         `json:"authorProfilePicture,omitempty"`
	Viewer               *ContentViewer `json:"viewer,omitempty"`
}

// CommentView is a comment enriched with its author's current picture.
type CommentView struct {
	Comment
	AuthorProfilePicture string `json:"authorProfilePicture,omitempty"`
}

// UserViewer carries the per-viewer annotations of a user.
type UserViewer struct {
	IsFollowing bool `json:"isFollowing"`
}

// UserView is a user as presented to a (possibly anonymous) viewer.
type UserView struct {
	User
	Viewer *UserViewer `json:"viewer,omitempty"`
}
