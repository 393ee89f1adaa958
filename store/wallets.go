package store

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"publish3/models"
)

// WalletStore kapselt wallets und die user_wallets-Verknüpfungen.
type WalletStore struct {
	db *gorm.DB
}

func NewWalletStore(db *gorm.DB) *WalletStore {
	return &WalletStore{db: db}
}

// NewWallet sind die von Privy gelieferten Wallet-Stammdaten.
type NewWallet struct {
	WalletID      string `json:"wallet_id"`
	WalletAddress string `json:"wallet_address"`
}

const walletColumns = `wallet_id, wallet_address, created_at, updated_at`

func (s *WalletStore) Create(ctx context.Context, n *NewWallet) (*models.Wallet, error) {
	var w models.Wallet
	res := s.db.WithContext(ctx).Raw(`
		INSERT INTO wallets (wallet_id, wallet_address)
		VALUES (?, ?)
		RETURNING `+walletColumns,
		n.WalletID, n.WalletAddress,
	).Scan(&w)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return &w, nil
}

func (s *WalletStore) Get(ctx context.Context, walletID string) (*models.Wallet, error) {
	var w models.Wallet
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+walletColumns+` FROM wallets WHERE wallet_id = ?`, walletID,
	).Scan(&w)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (s *WalletStore) Address(ctx context.Context, walletID string) (string, error) {
	var addr string
	res := s.db.WithContext(ctx).Raw(
		`SELECT wallet_address FROM wallets WHERE wallet_id = ?`, walletID,
	).Scan(&addr)
	if res.Error != nil {
		return "", wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrNotFound
	}
	return addr, nil
}

func (s *WalletStore) Exists(ctx context.Context, walletID string) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(
		`SELECT EXISTS(SELECT 1 FROM wallets WHERE wallet_id = ?)`, walletID,
	).Scan(&exists).Error
	return exists, wrapErr(err)
}

// Link verknüpft ein Wallet mit einem User. Das erste verknüpfte Wallet
// eines Users wird automatisch primär. Die User-Zeile wird gesperrt, damit
// parallele Verknüpfungen nicht zwei Primär-Wallets erzeugen; der unique
// partial index auf user_wallets fängt Restfälle hart ab.
func (s *WalletStore) Link(ctx context.Context, userID, walletID string) (*models.UserWallet, error) {
	var uw models.UserWallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked string
		res := tx.Raw(`SELECT privy_id FROM users WHERE privy_id = ? FOR UPDATE`, userID).Scan(&locked)
		if res.Error != nil {
			return wrapErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		res = tx.Raw(`
			INSERT INTO user_wallets (user_id, wallet_id, is_primary)
			VALUES (?, ?, NOT EXISTS(SELECT 1 FROM user_wallets WHERE user_id = ? AND is_primary))
			RETURNING user_id, wallet_id, is_primary, created_at`,
			userID, walletID, userID,
		).Scan(&uw)
		return wrapErr(res.Error)
	})
	if err != nil {
		return nil, err
	}
	return &uw, nil
}

// Unlink löst die Verknüpfung; das Wallet selbst bleibt bestehen.
func (s *WalletStore) Unlink(ctx context.Context, userID, walletID string) error {
	res := s.db.WithContext(ctx).Exec(
		`DELETE FROM user_wallets WHERE user_id = ? AND wallet_id = ?`, userID, walletID,
	)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPrimary macht walletID zum primären Wallet des Users. Die Sperre auf
// der User-Zeile serialisiert konkurrierende Umschaltungen, so dass nach
// jedem Ausgang genau ein Wallet primär ist.
func (s *WalletStore) SetPrimary(ctx context.Context, userID, walletID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked string
		res := tx.Raw(`SELECT privy_id FROM users WHERE privy_id = ? FOR UPDATE`, userID).Scan(&locked)
		if res.Error != nil {
			return wrapErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Exec(
			`UPDATE user_wallets SET is_primary = FALSE WHERE user_id = ? AND is_primary`, userID,
		).Error; err != nil {
			return wrapErr(err)
		}
		res = tx.Exec(
			`UPDATE user_wallets SET is_primary = TRUE WHERE user_id = ? AND wallet_id = ?`,
			userID, walletID,
		)
		if res.Error != nil {
			return wrapErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Primary liefert das primäre Wallet des Users.
func (s *WalletStore) Primary(ctx context.Context, userID string) (*models.Wallet, error) {
	var w models.Wallet
	res := s.db.WithContext(ctx).Raw(`
		SELECT w.wallet_id, w.wallet_address, w.created_at, w.updated_at
		FROM user_wallets uw
		JOIN wallets w ON uw.wallet_id = w.wallet_id
		WHERE uw.user_id = ? AND uw.is_primary`, userID,
	).Scan(&w)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &w, nil
}

// UserPrimaryWallet ordnet einem User sein primäres Wallet zu.
type UserPrimaryWallet struct {
	UserID        string `json:"user_id"`
	WalletID      string `json:"wallet_id"`
	WalletAddress string `json:"wallet_address"`
}

// PrimaryWallets liefert die primären Wallets mehrerer Nutzer in einem
// Statement. Nutzer ohne primäres Wallet fehlen im Ergebnis.
func (s *WalletStore) PrimaryWallets(ctx context.Context, userIDs []string) ([]UserPrimaryWallet, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []UserPrimaryWallet
	res := s.db.WithContext(ctx).Raw(`
		SELECT uw.user_id, w.wallet_id, w.wallet_address
		FROM user_wallets uw
		JOIN wallets w ON uw.wallet_id = w.wallet_id
		WHERE uw.user_id = ANY(?) AND uw.is_primary`, pq.Array(userIDs),
	).Scan(&rows)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return rows, nil
}

// ListByUser liefert alle Wallets des Users, das primäre zuerst.
func (s *WalletStore) ListByUser(ctx context.Context, userID string) ([]models.Wallet, error) {
	var wallets []models.Wallet
	res := s.db.WithContext(ctx).Raw(`
		SELECT w.wallet_id, w.wallet_address, w.created_at, w.updated_at
		FROM user_wallets uw
		JOIN wallets w ON uw.wallet_id = w.wallet_id
		WHERE uw.user_id = ?
		ORDER BY uw.is_primary DESC, uw.created_at ASC`, userID,
	).Scan(&wallets)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return wallets, nil
}
