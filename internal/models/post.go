package models

import (
	"fmt"
	"time"
)

// Post belongs to exactly one user. CreatedAt is set by the database on insert.
type Post struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id" validate:"gt=0"`
	Title     string    `json:"title" validate:"required,max=255"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPost returns a post for userID that has not been stored yet.
func NewPost(userID int, title, content string) Post {
	return Post{UserID: userID, Title: title, Content: content}
}

// Equal reports whether p and other refer to the same stored post.
func (p Post) Equal(other Post) bool {
	return p.ID == other.ID
}

func (p Post) String() string {
	return fmt.Sprintf("Post{id=%d, userId=%d, title=%q, content=%q, createdAt=%s}",
		p.ID, p.UserID, p.Title, p.Content, p.CreatedAt.Format(time.RFC3339))
}
