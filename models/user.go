package models

import (
	"time"
)

// User repräsentiert ein über Privy authentifiziertes Konto.
// Primärschlüssel ist die vom Identity-Provider vergebene DID.
type User struct {
	PrivyID     string    `json:"privy_id" gorm:"column:privy_id;primaryKey"`
	Username    string    `json:"username" gorm:"uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName    *string   `json:"full_name,omitempty"`
	AvatarS3Key *string   `json:"avatar_s3key,omitempty" gorm:"column:avatar_s3key"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (User) TableName() string { return "users" }
