package service

import "blog/internal/models"

// Actor is the identity behind the current request.
type Actor struct {
	UserID   int
	Username string
}

// Decision is the outcome of an authorization guard.
type Decision int

const (
	Allow Decision = iota
	LoginRequired
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case LoginRequired:
		return "login_required"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Err maps the decision to ErrLoginRequired, ErrForbidden or nil.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case LoginRequired:
		return ErrLoginRequired
	default:
		return ErrForbidden
	}
}

// RequireAuthenticated allows any known actor.
func RequireAuthenticated(actor *Actor) Decision {
	if actor == nil || actor.UserID == 0 {
		return LoginRequired
	}
	return Allow
}

// RequireAuthor allows only the author of post. Anonymous actors get
// LoginRequired before authorship is considered.
func RequireAuthor(actor *Actor, post models.Post) Decision {
	if d := RequireAuthenticated(actor); d != Allow {
		return d
	}
	if actor.UserID != post.AuthorID {
		return Forbidden
	}
	return Allow
}
