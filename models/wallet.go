package models

import (
	"time"
)

// Wallet ist ein von Privy provisioniertes Custodial-Wallet. Es existiert
// unabhängig von Usern; die Verknüpfung läuft über UserWallet.
type Wallet struct {
	WalletID      string    `json:"wallet_id" gorm:"column:wallet_id;primaryKey"`
	WalletAddress string    `json:"wallet_address" gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Wallet) TableName() string { return "wallets" }

// UserWallet verknüpft User und Wallet (m:n). Pro User darf höchstens
// eine Zeile is_primary tragen, erzwungen durch einen unique partial index.
type UserWallet struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	WalletID  string    `json:"wallet_id" gorm:"primaryKey"`
	IsPrimary bool      `json:"is_primary" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserWallet) TableName() string { return "user_wallets" }
