package service

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrLoginRequired = errors.New("login required")
	ErrForbidden     = errors.New("forbidden")

	ErrPostNotFound = errors.New("post not found")
	ErrPageNotFound = errors.New("page not found")

	ErrUsernameTaken  = errors.New("username already taken")
	ErrProfileExists  = errors.New("profile already exists")
	ErrProfileMissing = errors.New("profile missing")
)
