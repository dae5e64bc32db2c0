package posts

import "time"

// Author is the embedded user block on posts and comments.
type Author struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

// Post is a feed entry with its interaction counts, shaped like the
// original client's post type.
type Post struct {
	ID           string    `json:"id"`
	Content      *string   `json:"content"`
	ImageURL     *string   `json:"image_url"`
	Likes        int       `json:"likes"`
	NrOfComments int       `json:"nr_of_comments"`
	LikedByMe    bool      `json:"liked_by_me"`
	User         Author    `json:"user"`
	CreatedAt    time.Time `json:"created_at"`
}

// Comment belongs to a post; ParentID threads replies.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	ParentID  *string   `json:"parent_id"`
	Content   string    `json:"content"`
	User      Author    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest is the body for POST /posts. At least one of content and
// image_url must be present.
type CreateRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// CommentRequest is the body for POST /posts/{id}/comments.
type CommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

// LikeResult reports the toggle outcome.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}
