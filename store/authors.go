package store

import (
	"context"

	"gorm.io/gorm"

	"publish3/models"
)

// AuthorStore kapselt die Autorenprofile (1:1-Erweiterung der Users).
type AuthorStore struct {
	db *gorm.DB
}

func NewAuthorStore(db *gorm.DB) *AuthorStore {
	return &AuthorStore{db: db}
}

// NewAuthor legt das Profil für einen bestehenden User an; das Wallet
// muss existieren und darf keinem anderen Autor gehören.
type NewAuthor struct {
	PrivyID     string `json:"privy_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation"`
	WalletID    string `json:"wallet_id"`
}

// AuthorUpdate enthält die änderbaren Felder; nil lässt ein Feld unverändert.
type AuthorUpdate struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Affiliation *string `json:"affiliation"`
	WalletID    *string `json:"wallet_id"`
}

const authorColumns = `privy_id, name, email, affiliation, wallet_id, created_at, updated_at`

func (s *AuthorStore) Create(ctx context.Context, n *NewAuthor) (*models.Author, error) {
	var a models.Author
	res := s.db.WithContext(ctx).Raw(`
		INSERT INTO authors (privy_id, name, email, affiliation, wallet_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+authorColumns,
		n.PrivyID, n.Name, n.Email, n.Affiliation, n.WalletID,
	).Scan(&a)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return &a, nil
}

func (s *AuthorStore) Get(ctx context.Context, privyID string) (*models.Author, error) {
	var a models.Author
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+authorColumns+` FROM authors WHERE privy_id = ?`, privyID,
	).Scan(&a)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &a, nil
}

// GetWithWallet löst die Payout-Adresse über wallets auf.
func (s *AuthorStore) GetWithWallet(ctx context.Context, privyID string) (*models.AuthorWithWallet, error) {
	var a models.AuthorWithWallet
	res := s.db.WithContext(ctx).Raw(`
		SELECT a.privy_id, a.name, a.email, a.affiliation, a.wallet_id,
		       w.wallet_address, a.created_at, a.updated_at
		FROM authors a
		JOIN wallets w ON w.wallet_id = a.wallet_id
		WHERE a.privy_id = ?`, privyID,
	).Scan(&a)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *AuthorStore) List(ctx context.Context, page, limit int64) ([]models.Author, error) {
	limit, offset := pageBounds(page, limit)
	var authors []models.Author
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+authorColumns+` FROM authors
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, limit, offset,
	).Scan(&authors)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return authors, nil
}

func (s *AuthorStore) Update(ctx context.Context, privyID string, upd *AuthorUpdate) error {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE authors SET
			name = COALESCE(?, name),
			email = COALESCE(?, email),
			affiliation = COALESCE(?, affiliation),
			wallet_id = COALESCE(?, wallet_id),
			updated_at = NOW()
		WHERE privy_id = ?`,
		upd.Name, upd.Email, upd.Affiliation, upd.WalletID, privyID,
	)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AuthorStore) Delete(ctx context.Context, privyID string) error {
	res := s.db.WithContext(ctx).Exec(`DELETE FROM authors WHERE privy_id = ?`, privyID)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AuthorStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM authors`).Scan(&count).Error
	return count, wrapErr(err)
}
