package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var walletRows = []string{"wallet_id", "wallet_address", "created_at", "updated_at"}

func TestWalletCreate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs("w1", "0xabc").
		WillReturnRows(sqlmock.NewRows(walletRows).AddRow("w1", "0xabc", now, now))

	wallet, err := s.Create(context.Background(), &NewWallet{WalletID: "w1", WalletAddress: "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, "0xabc", wallet.WalletAddress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletCreateDuplicateAddress(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	mock.ExpectQuery("INSERT INTO wallets").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "wallets_wallet_address_key"})

	_, err := s.Create(context.Background(), &NewWallet{WalletID: "w2", WalletAddress: "0xabc"})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Das erste Wallet eines Users wird innerhalb der Transaktion primär
// gesetzt; die User-Zeile wird vorher gesperrt.
func TestWalletLinkFirstBecomesPrimary(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT privy_id FROM users WHERE privy_id = .+ FOR UPDATE").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"privy_id"}).AddRow("u1"))
	mock.ExpectQuery("INSERT INTO user_wallets").
		WithArgs("u1", "w1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "wallet_id", "is_primary", "created_at"}).
			AddRow("u1", "w1", true, now))
	mock.ExpectCommit()

	link, err := s.Link(context.Background(), "u1", "w1")
	require.NoError(t, err)
	assert.True(t, link.IsPrimary)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletLinkUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT privy_id FROM users WHERE privy_id = .+ FOR UPDATE").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"privy_id"}))
	mock.ExpectRollback()

	_, err := s.Link(context.Background(), "ghost", "w1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Umschalten des Primär-Wallets: Sperre, altes Flag löschen, neues setzen.
func TestSetPrimaryOrdering(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT privy_id FROM users WHERE privy_id = .+ FOR UPDATE").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"privy_id"}).AddRow("u1"))
	mock.ExpectExec("UPDATE user_wallets SET is_primary = FALSE").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE user_wallets SET is_primary = TRUE").
		WithArgs("u1", "w2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SetPrimary(context.Background(), "u1", "w2"))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Ist das Ziel-Wallet nicht verknüpft, wird die Transaktion verworfen und
// das alte Primär-Flag bleibt erhalten.
func TestSetPrimaryUnlinkedWalletRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT privy_id FROM users WHERE privy_id = .+ FOR UPDATE").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"privy_id"}).AddRow("u1"))
	mock.ExpectExec("UPDATE user_wallets SET is_primary = FALSE").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE user_wallets SET is_primary = TRUE").
		WithArgs("u1", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.SetPrimary(context.Background(), "u1", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletUnlinkNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	mock.ExpectExec("DELETE FROM user_wallets").
		WithArgs("u1", "w9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Unlink(context.Background(), "u1", "w9"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletAddress(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	mock.ExpectQuery("SELECT wallet_address FROM wallets").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_address"}).AddRow("0xabc"))

	addr, err := s.Address(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", addr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletAddressNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	mock.ExpectQuery("SELECT wallet_address FROM wallets").
		WithArgs("w9").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_address"}))

	_, err := s.Address(context.Background(), "w9")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPrimaryWallets(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	mock.ExpectQuery("FROM user_wallets uw").
		WithArgs(pq.Array([]string{"u1", "u2"})).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "wallet_id", "wallet_address"}).
			AddRow("u1", "w1", "0xabc").
			AddRow("u2", "w2", "0xdef"))

	rows, err := s.PrimaryWallets(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0xabc", rows[0].WalletAddress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPrimaryWalletsEmptyInput(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	rows, err := s.PrimaryWallets(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewWalletStore(db)

	now := time.Now()
	mock.ExpectQuery("FROM user_wallets uw").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(walletRows).
			AddRow("w1", "0xabc", now, now).
			AddRow("w2", "0xdef", now, now))

	wallets, err := s.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, wallets, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
