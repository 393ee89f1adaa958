package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"publish3/models"
)

// CitationStore verwaltet die gerichteten Zitationskanten zwischen
// Publikationen. Duplikate und Selbstzitate blockt das Schema.
type CitationStore struct {
	db *gorm.DB
}

func NewCitationStore(db *gorm.DB) *CitationStore {
	return &CitationStore{db: db}
}

type NewCitation struct {
	CitingPublicationID uuid.UUID `json:"citing_publication_id"`
	CitedPublicationID  uuid.UUID `json:"cited_publication_id"`
	CitationContext     *string   `json:"citation_context"`
}

const citationColumns = `id, citing_publication_id, cited_publication_id, citation_context, created_at`

func (s *CitationStore) Create(ctx context.Context, n *NewCitation) (*models.Citation, error) {
	var c models.Citation
	res := s.db.WithContext(ctx).Raw(`
		INSERT INTO citations (citing_publication_id, cited_publication_id, citation_context)
		VALUES (?, ?, ?)
		RETURNING `+citationColumns,
		n.CitingPublicationID, n.CitedPublicationID, n.CitationContext,
	).Scan(&c)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return &c, nil
}

func (s *CitationStore) Get(ctx context.Context, id uuid.UUID) (*models.Citation, error) {
	var c models.Citation
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+citationColumns+` FROM citations WHERE id = ?`, id,
	).Scan(&c)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &c, nil
}

// GetByPublications sucht die Kante zwischen zwei konkreten Publikationen.
func (s *CitationStore) GetByPublications(ctx context.Context, citing, cited uuid.UUID) (*models.Citation, error) {
	var c models.Citation
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+citationColumns+` FROM citations
		WHERE citing_publication_id = ? AND cited_publication_id = ?`,
		citing, cited,
	).Scan(&c)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *CitationStore) List(ctx context.Context, page, limit int64) ([]models.Citation, error) {
	limit, offset := pageBounds(page, limit)
	var cits []models.Citation
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+citationColumns+` FROM citations
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, limit, offset,
	).Scan(&cits)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return cits, nil
}

// ListFrom sind die ausgehenden Kanten: was die Publikation zitiert.
func (s *CitationStore) ListFrom(ctx context.Context, citingID uuid.UUID) ([]models.Citation, error) {
	var cits []models.Citation
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+citationColumns+` FROM citations
		WHERE citing_publication_id = ?
		ORDER BY created_at DESC`, citingID,
	).Scan(&cits)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return cits, nil
}

// ListTo sind die eingehenden Kanten: wer die Publikation zitiert.
func (s *CitationStore) ListTo(ctx context.Context, citedID uuid.UUID) ([]models.Citation, error) {
	var cits []models.Citation
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+citationColumns+` FROM citations
		WHERE cited_publication_id = ?
		ORDER BY created_at DESC`, citedID,
	).Scan(&cits)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return cits, nil
}

// UpdateContext ändert nur den Freitext der Zitation; die Kante selbst
// ist unveränderlich.
func (s *CitationStore) UpdateContext(ctx context.Context, id uuid.UUID, citationContext *string) error {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE citations SET citation_context = ? WHERE id = ?`,
		citationContext, id,
	)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CitationStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Exec(`DELETE FROM citations WHERE id = ?`, id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CitationStore) DeleteByPublications(ctx context.Context, citing, cited uuid.UUID) error {
	res := s.db.WithContext(ctx).Exec(`
		DELETE FROM citations
		WHERE citing_publication_id = ? AND cited_publication_id = ?`,
		citing, cited,
	)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CitationStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM citations`).Scan(&count).Error
	return count, wrapErr(err)
}

func (s *CitationStore) CountFrom(ctx context.Context, citingID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM citations WHERE citing_publication_id = ?`, citingID,
	).Scan(&count).Error
	return count, wrapErr(err)
}

func (s *CitationStore) CountTo(ctx context.Context, citedID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM citations WHERE cited_publication_id = ?`, citedID,
	).Scan(&count).Error
	return count, wrapErr(err)
}
