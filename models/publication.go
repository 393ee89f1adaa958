package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Publikationsstatus für die On-Chain-Veröffentlichung. Der geschlossene
// Wertebereich wird per Check-Constraint im Schema erzwungen.
const (
	StatusPendingOnchain = "PENDING_ONCHAIN"
	StatusPublished      = "PUBLISHED"
	StatusFailed         = "FAILED"
)

// ValidStatus meldet, ob s ein zulässiger Publikationsstatus ist.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendingOnchain, StatusPublished, StatusFailed:
		return true
	}
	return false
}

// Publication repräsentiert ein Paper samt On-Chain-Konditionen.
// price ist in der kleinsten Währungseinheit, citation_royalty_bps in
// Basispunkten (1/100 Prozent) an zitierte Werke.
type Publication struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID             string         `json:"user_id" gorm:"not null;index"`
	Title              string         `json:"title" gorm:"not null"`
	About              string         `json:"about" gorm:"type:text;not null"`
	Tags               pq.StringArray `json:"tags" gorm:"type:text[];not null"`
	S3Key              string         `json:"s3key" gorm:"column:s3key;not null"`
	TransactionHash    *string        `json:"transaction_hash,omitempty"`
	Status             string         `json:"status" gorm:"not null;default:'PENDING_ONCHAIN'"`
	Price              int64          `json:"price" gorm:"not null;default:0"`
	CitationRoyaltyBps int32          `json:"citation_royalty_bps" gorm:"column:citation_royalty_bps;not null;default:0"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (Publication) TableName() string { return "publications" }

// PublicationAuthor ordnet Autoren einer Publikation zu. author_order
// bestimmt die Anzeige-Reihenfolge und muss nicht eindeutig sein.
type PublicationAuthor struct {
	PublicationID uuid.UUID `json:"publication_id" gorm:"type:uuid;primaryKey"`
	AuthorID      string    `json:"author_id" gorm:"primaryKey"`
	AuthorOrder   int32     `json:"author_order" gorm:"not null;default:0"`
}

func (PublicationAuthor) TableName() string { return "publication_authors" }

// PublicationAuthorDetail ist die Join-Sicht auf publication_authors
// mit den Profilfeldern des Autors, sortiert nach author_order.
type PublicationAuthorDetail struct {
	PublicationID     uuid.UUID `json:"publication_id"`
	AuthorID          string    `json:"author_id"`
	AuthorOrder       int32     `json:"author_order"`
	AuthorName        string    `json:"author_name"`
	AuthorEmail       *string   `json:"author_email,omitempty"`
	AuthorAffiliation *string   `json:"author_affiliation,omitempty"`
	WalletAddress     string    `json:"wallet_address"`
}
