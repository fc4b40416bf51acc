package models

import "time"

// DefaultProfileImage is assigned to every profile at creation.
const DefaultProfileImage = "default.jpg"

// Profile is the one-to-one companion record of a User.
type Profile struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Image     string    `json:"image"`
	Bio       string    `json:"bio,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
