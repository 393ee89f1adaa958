package models

import (
	"time"
)

// Author ist das 1:1-Autorenprofil eines Users (gleicher Primärschlüssel,
// cascade-delete mit dem User). Das Payout-Wallet ist pro Autor eindeutig;
// die Adresse wird über wallets aufgelöst, nicht dupliziert.
type Author struct {
	PrivyID     string    `json:"privy_id" gorm:"column:privy_id;primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Email       *string   `json:"email,omitempty" gorm:"uniqueIndex"`
	Affiliation *string   `json:"affiliation,omitempty"`
	WalletID    string    `json:"wallet_id" gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Author) TableName() string { return "authors" }

// AuthorWithWallet ist die Join-Sicht auf authors mit der über wallets
// aufgelösten Payout-Adresse.
type AuthorWithWallet struct {
	PrivyID       string    `json:"privy_id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Affiliation   *string   `json:"affiliation,omitempty"`
	WalletID      string    `json:"wallet_id"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
