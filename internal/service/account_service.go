package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"blog/internal/models"
	"blog/internal/repository"
)

type AccountService struct {
	tx       repository.TxRunner
	users    repository.UserRepo
	profiles repository.ProfileRepo
}

func NewAccountService(tx repository.TxRunner, users repository.UserRepo, profiles repository.ProfileRepo) *AccountService {
	return &AccountService{tx: tx, users: users, profiles: profiles}
}

func (s *AccountService) GetAccount(ctx context.Context, userID int) (Account, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Account{}, err
	}
	if u == nil {
		return Account{}, ErrUserNotFound
	}
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return Account{}, err
	}
	if p == nil {
		return Account{}, fmt.Errorf("user %d: %w", userID, ErrProfileMissing)
	}
	return Account{User: *u, Profile: *p}, nil
}

// UpdateAccount saves the user and, in the same transaction, its profile.
func (s *AccountService) UpdateAccount(ctx context.Context, userID int, upd AccountUpdate) (Account, error) {
	var out Account
	err := s.tx.InTx(ctx, func(tx *repository.Repository) error {
		u, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUserNotFound
		}
		p, err := tx.Profiles.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if err := applyUserUpdate(u, upd); err != nil {
			return err
		}
		if p != nil {
			applyProfileUpdate(p, upd)
		}

		if err := tx.Users.Update(ctx, *u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%q: %w", u.Username, ErrUsernameTaken)
			}
			return err
		}
		saved, err := SyncProfile(ctx, tx.Profiles, *u, false, p)
		if err != nil {
			return err
		}
		out = Account{User: *u, Profile: *saved}
		return nil
	})
	if err != nil {
		return Account{}, err
	}
	return out, nil
}

func applyUserUpdate(u *models.User, upd AccountUpdate) error {
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if name == "" || utf8.RuneCountInString(name) > maxUsernameLen {
			return fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidInput, maxUsernameLen)
		}
		u.Username = name
	}
	if upd.Email != nil {
		u.Email = strings.TrimSpace(*upd.Email)
	}
	return nil
}

func applyProfileUpdate(p *models.Profile, upd AccountUpdate) {
	if upd.Image != nil {
		p.Image = strings.TrimSpace(*upd.Image)
		if p.Image == "" {
			p.Image = models.DefaultProfileImage
		}
	}
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
}
