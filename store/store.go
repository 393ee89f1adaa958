package store

import (
	"gorm.io/gorm"
)

// Store bündelt die Entity-Stores über einer gemeinsamen Verbindung.
// Sämtliche Integritätsregeln (Unique, FK, Check, Cascade) liegen im
// Schema; die Stores validieren nichts doppelt, sondern übersetzen
// Constraint-Verletzungen in die Fehlertaxonomie aus errors.go.
type Store struct {
	Users        *UserStore
	Wallets      *WalletStore
	Authors      *AuthorStore
	Publications *PublicationStore
	Citations    *CitationStore
}

func New(db *gorm.DB) *Store {
	return &Store{
		Users:        NewUserStore(db),
		Wallets:      NewWalletStore(db),
		Authors:      NewAuthorStore(db),
		Publications: NewPublicationStore(db),
		Citations:    NewCitationStore(db),
	}
}

// pageBounds normalisiert Paginierungsparameter (Default: Seite 1, 20 Zeilen).
func pageBounds(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return limit, (page - 1) * limit
}
