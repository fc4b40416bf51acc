package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blog/internal/models"
	"blog/internal/repository"
)

type ActivityService struct {
	eventRepo repository.EventRepo
}

func NewActivityService(eventRepo repository.EventRepo) *ActivityService {
	return &ActivityService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = fmt.Errorf("%w: time range From must be <= To", ErrInvalidInput)
	errInvalidEventType = fmt.Errorf("%w: event type must be CREATED, UPDATED or DELETED", ErrInvalidInput)
	errInvalidPostID    = fmt.Errorf("%w: post id must be positive", ErrInvalidInput)
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the range and type.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	switch eventType {
	case "", models.EventPostCreated, models.EventPostUpdated, models.EventPostDeleted:
	default:
		return time.Time{}, time.Time{}, "", errInvalidEventType
	}
	return from, to, eventType, nil
}

func (s *ActivityService) List(ctx context.Context, f LogFilter) ([]models.PostEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	if f.PostID < 0 {
		return nil, errInvalidPostID
	}
	return s.eventRepo.List(ctx, repository.EventFilter{From: from, To: to, Type: typ, PostID: f.PostID})
}
