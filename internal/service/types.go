package service

import (
	"time"

	"blog/internal/models"
)

// PostInput is the editable part of a post.
type PostInput struct {
	Title   string
	Content string
}

// PostPage is one page of a newest-first post listing.
type PostPage struct {
	Posts       []models.Post `json:"posts"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	Total       int           `json:"total"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// Account is a user together with its profile.
type Account struct {
	User    models.User    `json:"user"`
	Profile models.Profile `json:"profile"`
}

// AccountUpdate holds optional changes; nil fields are left as they are.
type AccountUpdate struct {
	Username *string
	Email    *string
	Image    *string
	Bio      *string
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "CREATED", "UPDATED", "DELETED"
	// PostID limits the history to one post; zero means all posts.
	PostID int
}
