package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"blog/internal/models"
	"blog/internal/repository"
	"blog/internal/repository/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errProfileWrite = errors.New("profile write failed")

// faultyProfiles fails the selected profile writes and delegates the rest.
type faultyProfiles struct {
	repository.ProfileRepo
	failCreate bool
	failSave   bool
}

func (f faultyProfiles) Create(ctx context.Context, p models.Profile) (int, error) {
	if f.failCreate {
		return 0, errProfileWrite
	}
	return f.ProfileRepo.Create(ctx, p)
}

func (f faultyProfiles) Save(ctx context.Context, p models.Profile) error {
	if f.failSave {
		return errProfileWrite
	}
	return f.ProfileRepo.Save(ctx, p)
}

// faultyTx opens real SQLite transactions but binds faultyProfiles to them.
type faultyTx struct {
	repo   *repository.Repository
	faults faultyProfiles
}

func (f faultyTx) InTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	return f.repo.InTx(ctx, func(tx *repository.Repository) error {
		bound := *tx
		profiles := f.faults
		profiles.ProfileRepo = tx.Profiles
		bound.Profiles = profiles
		return fn(&bound)
	})
}

func openSQLite(t *testing.T) (*sql.DB, *repository.Repository) {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, repository.NewRepository(conn)
}

// boundedCtx fails instead of hanging if a write escapes the open transaction
// and waits for the single SQLite connection.
func boundedCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func countRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(query, args...).Scan(&n))
	return n
}

func TestSignUp_SQLite_CreatesExactlyOneProfile(t *testing.T) {
	conn, repos := openSQLite(t)
	ctx := boundedCtx(t)
	svc := NewAuthService(repos, repos.Users, Options{SigningKey: testSigningKey})

	id, err := svc.SignUp(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, conn, `SELECT COUNT(*) FROM profiles WHERE user_id = ?`, id))
	assert.Equal(t, 1, countRows(t, conn, `SELECT COUNT(*) FROM profiles`))
}

func TestSignUp_SQLite_ProfileFailureLeavesNoUser(t *testing.T) {
	conn, repos := openSQLite(t)
	ctx := boundedCtx(t)
	opts := Options{SigningKey: testSigningKey}

	broken := NewAuthService(faultyTx{repo: repos, faults: faultyProfiles{failCreate: true}}, repos.Users, opts)
	_, err := broken.SignUp(ctx, "alice", "", "pw")
	require.ErrorIs(t, err, errProfileWrite)

	assert.Zero(t, countRows(t, conn, `SELECT COUNT(*) FROM users WHERE username = ?`, "alice"))
	assert.Zero(t, countRows(t, conn, `SELECT COUNT(*) FROM profiles`))

	// The name is free again once the failed sign-up is rolled back.
	_, err = NewAuthService(repos, repos.Users, opts).SignUp(ctx, "alice", "", "pw")
	require.NoError(t, err)
}

func TestUpdateAccount_SQLite_UsernameTakenKeepsProfile(t *testing.T) {
	_, repos := openSQLite(t)
	ctx := boundedCtx(t)
	auth := NewAuthService(repos, repos.Users, Options{SigningKey: testSigningKey})
	accounts := NewAccountService(repos, repos.Users, repos.Profiles)

	aliceID, err := auth.SignUp(ctx, "alice", "", "pw")
	require.NoError(t, err)
	_, err = auth.SignUp(ctx, "bob", "", "pw")
	require.NoError(t, err)

	_, err = accounts.UpdateAccount(ctx, aliceID, AccountUpdate{Username: strPtr("bob"), Bio: strPtr("new bio")})
	require.ErrorIs(t, err, ErrUsernameTaken)

	acc, err := accounts.GetAccount(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.User.Username)
	assert.Empty(t, acc.Profile.Bio)
}

func TestUpdateAccount_SQLite_ProfileFailureKeepsUser(t *testing.T) {
	_, repos := openSQLite(t)
	ctx := boundedCtx(t)
	auth := NewAuthService(repos, repos.Users, Options{SigningKey: testSigningKey})

	aliceID, err := auth.SignUp(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	broken := NewAccountService(faultyTx{repo: repos, faults: faultyProfiles{failSave: true}}, repos.Users, repos.Profiles)
	_, err = broken.UpdateAccount(ctx, aliceID, AccountUpdate{
		Username: strPtr("alicia"),
		Email:    strPtr("alicia@example.com"),
		Bio:      strPtr("new bio"),
	})
	require.ErrorIs(t, err, errProfileWrite)

	acc, err := NewAccountService(repos, repos.Users, repos.Profiles).GetAccount(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.User.Username)
	assert.Equal(t, "alice@example.com", acc.User.Email)
	assert.Empty(t, acc.Profile.Bio)
}
