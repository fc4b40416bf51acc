package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicate is returned when an insert violates a UNIQUE constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned by mutations that matched no row.
	ErrNotFound = errors.New("record not found")
)

type UserRepo interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Update(ctx context.Context, u models.User) error
}

type ProfileRepo interface {
	Create(ctx context.Context, p models.Profile) (int, error)
	GetByUserID(ctx context.Context, userID int) (*models.Profile, error)
	Save(ctx context.Context, p models.Profile) error
}

type PostRepo interface {
	Create(ctx context.Context, p models.Post) (int, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	// List returns posts newest first. authorID == 0 means all authors.
	List(ctx context.Context, authorID, limit, offset int) ([]models.Post, error)
	Count(ctx context.Context, authorID int) (int, error)
	Update(ctx context.Context, p models.Post) error
	Delete(ctx context.Context, id int) error
}

// EventFilter narrows an activity listing. Zero fields do not filter.
type EventFilter struct {
	From   time.Time
	To     time.Time
	Type   string
	PostID int
}

type EventRepo interface {
	Append(ctx context.Context, e models.PostEvent) error
	List(ctx context.Context, f EventFilter) ([]models.PostEvent, error)
}

// TxRunner runs fn inside one transaction, handing it repositories bound to that transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *Repository) error) error
}

// querier is the subset shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository struct {
	Users    UserRepo
	Profiles ProfileRepo
	Posts    PostRepo
	Events   EventRepo

	db *sql.DB // nil when bound to a transaction
}

var _ TxRunner = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	r := newRepository(db)
	r.db = db
	return r
}

func newRepository(q querier) *Repository {
	return &Repository{
		Users:    NewUserRepository(q),
		Profiles: NewProfileRepository(q),
		Posts:    NewPostRepository(q),
		Events:   NewEventSQLite(q),
	}
}

// InTx commits when fn returns nil and rolls back otherwise.
// Calling InTx on a transaction-bound Repository reuses the open transaction.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(newRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// affectedOrNotFound maps a zero-row mutation to ErrNotFound.
func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
