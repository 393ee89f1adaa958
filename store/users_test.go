package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRows = []string{"privy_id", "username", "email", "full_name", "avatar_s3key", "created_at", "updated_at"}

func TestUserCreate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("did:privy:abc", "alice", "alice@example.org", "Alice", "").
		WillReturnRows(sqlmock.NewRows(userRows).
			AddRow("did:privy:abc", "alice", "alice@example.org", "Alice", "", now, now))

	user, err := s.Create(context.Background(), &NewUser{
		PrivyID:  "did:privy:abc",
		Username: "alice",
		Email:    "alice@example.org",
		FullName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "did:privy:abc", user.PrivyID)
	assert.Equal(t, "alice", user.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := s.Create(context.Background(), &NewUser{
		PrivyID:  "did:privy:abc",
		Username: "alice",
		Email:    "alice@example.org",
	})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetOrCreateInserts(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("did:privy:abc", "user_did:privy", "did:privy@privy.user", "Privy User", "").
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, userRows...), "is_new")).
			AddRow("did:privy:abc", "user_did:privy", "did:privy@privy.user", "Privy User", nil, now, now, true))

	user, created, err := s.GetOrCreate(context.Background(), &NewUser{
		PrivyID:  "did:privy:abc",
		Username: "user_did:privy",
		Email:    "did:privy@privy.user",
		FullName: "Privy User",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "did:privy:abc", user.PrivyID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetOrCreateReturnsExisting(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, userRows...), "is_new")).
			AddRow("did:privy:abc", "alice", "alice@example.org", "Alice", nil, now, now, false))

	user, created, err := s.GetOrCreate(context.Background(), &NewUser{
		PrivyID:  "did:privy:abc",
		Username: "user_did:privy",
		Email:    "did:privy@privy.user",
		FullName: "Privy User",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "alice", user.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	now := time.Now()
	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userRows).
			AddRow("did:privy:abc", "alice", "alice@example.org", nil, nil, now, now))

	user, err := s.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "did:privy:abc", user.PrivyID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("nobody@example.org").
		WillReturnRows(sqlmock.NewRows(userRows))

	_, err := s.GetByEmail(context.Background(), "nobody@example.org")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectQuery("SELECT .* FROM users").
		WithArgs("did:privy:missing").
		WillReturnRows(sqlmock.NewRows(userRows))

	_, err := s.Get(context.Background(), "did:privy:missing")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdatePartial(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	username := "alice2"
	mock.ExpectExec("UPDATE users SET").
		WithArgs("alice2", nil, nil, nil, "did:privy:abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Update(context.Background(), "did:privy:abc", &UserUpdate{Username: &username})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), "did:privy:missing", &UserUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserList(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM users").
		WithArgs(int64(20), int64(20)).
		WillReturnRows(sqlmock.NewRows(userRows).
			AddRow("u1", "alice", "a@example.org", "", "", now, now).
			AddRow("u2", "bob", "b@example.org", "", "", now, now))

	users, err := s.List(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsernameExists(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := s.UsernameExists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDelete(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStore(db)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("did:privy:abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), "did:privy:abc"))
	require.NoError(t, mock.ExpectationsWereMet())
}
