package store

import (
	"context"

	"gorm.io/gorm"

	"publish3/models"
)

// UserStore kapselt alle Datenbankoperationen auf users.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// NewUser sind die Felder für das Anlegen eines Users; die privy_id kommt
// vom Identity-Provider.
type NewUser struct {
	PrivyID     string `json:"privy_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	AvatarS3Key string `json:"avatar_s3key"`
}

// UserUpdate enthält die änderbaren Felder; nil lässt ein Feld unverändert.
type UserUpdate struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	FullName    *string `json:"full_name"`
	AvatarS3Key *string `json:"avatar_s3key"`
}

const userColumns = `privy_id, username, email, full_name, avatar_s3key, created_at, updated_at`

func (s *UserStore) Create(ctx context.Context, n *NewUser) (*models.User, error) {
	var u models.User
	res := s.db.WithContext(ctx).Raw(`
		INSERT INTO users (privy_id, username, email, full_name, avatar_s3key)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		n.PrivyID, n.Username, n.Email, n.FullName, n.AvatarS3Key,
	).Scan(&u)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return &u, nil
}

// GetOrCreate legt den User beim ersten Login in einem einzigen Statement an
// und liefert ihn sonst unverändert zurück (Upsert über die privy_id). Das
// zweite Ergebnis zeigt an, ob die Zeile neu eingefügt wurde; xmax = 0 gilt
// in Postgres nur für frisch eingefügte Zeilen.
func (s *UserStore) GetOrCreate(ctx context.Context, n *NewUser) (*models.User, bool, error) {
	var row struct {
		models.User
		IsNew bool `gorm:"column:is_new"`
	}
	res := s.db.WithContext(ctx).Raw(`
		INSERT INTO users (privy_id, username, email, full_name, avatar_s3key)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (privy_id) DO UPDATE SET updated_at = NOW()
		RETURNING `+userColumns+`, (xmax = 0) AS is_new`,
		n.PrivyID, n.Username, n.Email, n.FullName, n.AvatarS3Key,
	).Scan(&row)
	if res.Error != nil {
		return nil, false, wrapErr(res.Error)
	}
	return &row.User, row.IsNew, nil
}

func (s *UserStore) Get(ctx context.Context, privyID string) (*models.User, error) {
	var u models.User
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+userColumns+` FROM users WHERE privy_id = ?`, privyID,
	).Scan(&u)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	).Scan(&u)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	).Scan(&u)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) List(ctx context.Context, page, limit int64) ([]models.User, error) {
	limit, offset := pageBounds(page, limit)
	var users []models.User
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+userColumns+` FROM users
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, limit, offset,
	).Scan(&users)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return users, nil
}

func (s *UserStore) Update(ctx context.Context, privyID string, upd *UserUpdate) error {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE users SET
			username = COALESCE(?, username),
			email = COALESCE(?, email),
			full_name = COALESCE(?, full_name),
			avatar_s3key = COALESCE(?, avatar_s3key),
			updated_at = NOW()
		WHERE privy_id = ?`,
		upd.Username, upd.Email, upd.FullName, upd.AvatarS3Key, privyID,
	)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete entfernt den User; Autorenprofil, Wallet-Verknüpfungen und
// Publikationen hängen per ON DELETE CASCADE daran.
func (s *UserStore) Delete(ctx context.Context, privyID string) error {
	res := s.db.WithContext(ctx).Exec(`DELETE FROM users WHERE privy_id = ?`, privyID)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username,
	).Scan(&exists).Error
	return exists, wrapErr(err)
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email,
	).Scan(&exists).Error
	return exists, wrapErr(err)
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM users`).Scan(&count).Error
	return count, wrapErr(err)
}
