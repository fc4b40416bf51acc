package models

import "time"

// Post is a blog entry. AuthorID never changes after creation.
type Post struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   int       `json:"author_id"`
	Author     string    `json:"author"` // username, filled by JOIN
	DatePosted time.Time `json:"date_posted"`
	UpdatedAt  time.Time `json:"updated_at"`
}
