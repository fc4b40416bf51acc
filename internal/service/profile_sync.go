package service

import (
	"context"
	"errors"
	"fmt"

	"blog/internal/models"
	"blog/internal/repository"
)

// SyncProfile must run in the same transaction as every save of user.
//
// When created is true the user was just inserted and exactly one profile is
// created for it; an existing profile yields ErrProfileExists. On every call
// the profile is then persisted again: pending carries in-memory changes made
// alongside the user update, and when nil the stored profile is re-saved as is.
func SyncProfile(ctx context.Context, profiles repository.ProfileRepo, user models.User, created bool, pending *models.Profile) (*models.Profile, error) {
	if created {
		fresh := models.Profile{UserID: user.ID, Image: models.DefaultProfileImage}
		id, err := profiles.Create(ctx, fresh)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, fmt.Errorf("create profile for user %d: %w", user.ID, ErrProfileExists)
			}
			return nil, fmt.Errorf("create profile for user %d: %w", user.ID, err)
		}
		fresh.ID = id
		if pending == nil {
			pending = &fresh
		} else {
			pending.ID = id
			if pending.Image == "" {
				pending.Image = fresh.Image
			}
		}
	}

	if pending == nil {
		stored, err := profiles.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, fmt.Errorf("user %d: %w", user.ID, ErrProfileMissing)
		}
		pending = stored
	}
	pending.UserID = user.ID

	if err := profiles.Save(ctx, *pending); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", user.ID, ErrProfileMissing)
		}
		return nil, err
	}
	return pending, nil
}
