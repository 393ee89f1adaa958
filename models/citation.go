package models

import (
	"time"

	"github.com/google/uuid"
)

// Citation modelliert eine gerichtete Kante: citing zitiert cited.
// Das Paar (citing, cited) ist eindeutig, Selbstzitate sind per
// Check-Constraint ausgeschlossen.
type Citation struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CitingPublicationID uuid.UUID `json:"citing_publication_id" gorm:"type:uuid;not null"`
	CitedPublicationID  uuid.UUID `json:"cited_publication_id" gorm:"type:uuid;not null"`
	CitationContext     *string   `json:"citation_context,omitempty" gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at"`
}

func (Citation) TableName() string { return "citations" }
