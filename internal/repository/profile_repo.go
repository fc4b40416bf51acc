package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog/internal/models"
)

type ProfileRepository struct {
	db querier
}

func NewProfileRepository(db querier) *ProfileRepository {
	return &ProfileRepository{db: db}
}

var _ ProfileRepo = (*ProfileRepository)(nil)

const (
	insertProfileSQL = `INSERT INTO profiles (user_id, image, bio, updated_at) VALUES (?, ?, ?, ?)`
	selectProfileSQL = `SELECT id, user_id, image, bio, updated_at FROM profiles WHERE user_id = ?`
	saveProfileSQL   = `UPDATE profiles SET image = ?, bio = ?, updated_at = ? WHERE user_id = ?`
)

// Create inserts the profile of p.UserID. A second profile for the same
// user fails with ErrDuplicate.
func (r *ProfileRepository) Create(ctx context.Context, p models.Profile) (int, error) {
	if p.Image == "" {
		p.Image = models.DefaultProfileImage
	}
	res, err := r.db.ExecContext(ctx, insertProfileSQL, p.UserID, p.Image, p.Bio, utcNowIfZero(p.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert profile for user %d: %w", p.UserID, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert profile for user %d: %w", p.UserID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for profile of user %d: %w", p.UserID, err)
	}
	return int(lastID), nil
}

// GetByUserID returns (nil, nil) when the user has no profile.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowContext(ctx, selectProfileSQL, userID).
		Scan(&p.ID, &p.UserID, &p.Image, &p.Bio, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select profile for user %d: %w", userID, err)
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// Save writes the mutable profile fields back and bumps updated_at.
func (r *ProfileRepository) Save(ctx context.Context, p models.Profile) error {
	res, err := r.db.ExecContext(ctx, saveProfileSQL, p.Image, p.Bio, time.Now().UTC(), p.UserID)
	if err != nil {
		return fmt.Errorf("save profile for user %d: %w", p.UserID, err)
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("save profile for user %d: %w", p.UserID, err)
	}
	return nil
}

// utcNowIfZero returns t in UTC, or the current UTC time for a zero t.
func utcNowIfZero(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
