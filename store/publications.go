package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"publish3/models"
)

// PublicationStore kapselt publications samt Autoren-Zuordnungen.
type PublicationStore struct {
	db *gorm.DB
}

func NewPublicationStore(db *gorm.DB) *PublicationStore {
	return &PublicationStore{db: db}
}

// AuthorRef benennt einen Autor und seine Position in der Autorenliste.
type AuthorRef struct {
	AuthorID    string `json:"author_id"`
	AuthorOrder int32  `json:"author_order"`
}

// NewPublication sind die Felder beim Einreichen eines Papers. Die Datei
// liegt bereits im Object Storage; hier wird nur der Schlüssel abgelegt.
// Status, ID und Zeitstempel vergibt die Datenbank.
type NewPublication struct {
	UserID             string      `json:"user_id"`
	Title              string      `json:"title"`
	About              string      `json:"about"`
	Tags               []string    `json:"tags"`
	S3Key              string      `json:"s3key"`
	Price              int64       `json:"price"`
	CitationRoyaltyBps int32       `json:"citation_royalty_bps"`
	Authors            []AuthorRef `json:"authors"`
}

// PublicationUpdate enthält die änderbaren Felder; nil lässt ein Feld
// unverändert. Status und Transaction-Hash laufen über SetStatus.
type PublicationUpdate struct {
	Title              *string  `json:"title"`
	About              *string  `json:"about"`
	Tags               []string `json:"tags"`
	S3Key              *string  `json:"s3key"`
	Price              *int64   `json:"price"`
	CitationRoyaltyBps *int32   `json:"citation_royalty_bps"`
}

const publicationColumns = `id, user_id, title, about, tags, s3key, transaction_hash,
	status, price, citation_royalty_bps, created_at, updated_at`

// Create legt die Publikation und ihre Autorenzeilen in einer Transaktion
// an: entweder alles oder nichts.
func (s *PublicationStore) Create(ctx context.Context, n *NewPublication) (*models.Publication, error) {
	var p models.Publication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		res := tx.Raw(`
			INSERT INTO publications (user_id, title, about, tags, s3key, price, citation_royalty_bps)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING `+publicationColumns,
			n.UserID, n.Title, n.About, pq.Array(tags), n.S3Key, n.Price, n.CitationRoyaltyBps,
		).Scan(&p)
		if res.Error != nil {
			return wrapErr(res.Error)
		}
		for _, ref := range n.Authors {
			if err := tx.Exec(`
				INSERT INTO publication_authors (publication_id, author_id, author_order)
				VALUES (?, ?, ?)`,
				p.ID, ref.AuthorID, ref.AuthorOrder,
			).Error; err != nil {
				return wrapErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PublicationStore) Get(ctx context.Context, id uuid.UUID) (*models.Publication, error) {
	var p models.Publication
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+publicationColumns+` FROM publications WHERE id = ?`, id,
	).Scan(&p)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *PublicationStore) List(ctx context.Context, page, limit int64) ([]models.Publication, error) {
	limit, offset := pageBounds(page, limit)
	var pubs []models.Publication
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+publicationColumns+` FROM publications
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, limit, offset,
	).Scan(&pubs)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return pubs, nil
}

func (s *PublicationStore) ListByUser(ctx context.Context, userID string, page, limit int64) ([]models.Publication, error) {
	limit, offset := pageBounds(page, limit)
	var pubs []models.Publication
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+publicationColumns+` FROM publications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, userID, limit, offset,
	).Scan(&pubs)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return pubs, nil
}

func (s *PublicationStore) ListByStatus(ctx context.Context, status string, page, limit int64) ([]models.Publication, error) {
	limit, offset := pageBounds(page, limit)
	var pubs []models.Publication
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+publicationColumns+` FROM publications
		WHERE status = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, status, limit, offset,
	).Scan(&pubs)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return pubs, nil
}

func (s *PublicationStore) SearchByTitle(ctx context.Context, query string, page, limit int64) ([]models.Publication, error) {
	limit, offset := pageBounds(page, limit)
	var pubs []models.Publication
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+publicationColumns+` FROM publications
		WHERE title ILIKE ?
		ORDER BY title ASC
		LIMIT ? OFFSET ?`, "%"+query+"%", limit, offset,
	).Scan(&pubs)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return pubs, nil
}

func (s *PublicationStore) SearchByTag(ctx context.Context, tag string, page, limit int64) ([]models.Publication, error) {
	limit, offset := pageBounds(page, limit)
	var pubs []models.Publication
	res := s.db.WithContext(ctx).Raw(`
		SELECT `+publicationColumns+` FROM publications
		WHERE ? = ANY(tags)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, tag, limit, offset,
	).Scan(&pubs)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return pubs, nil
}

func (s *PublicationStore) Update(ctx context.Context, id uuid.UUID, upd *PublicationUpdate) error {
	var tags interface{}
	if upd.Tags != nil {
		tags = pq.Array(upd.Tags)
	}
	res := s.db.WithContext(ctx).Exec(`
		UPDATE publications SET
			title = COALESCE(?, title),
			about = COALESCE(?, about),
			tags = COALESCE(?, tags),
			s3key = COALESCE(?, s3key),
			price = COALESCE(?, price),
			citation_royalty_bps = COALESCE(?, citation_royalty_bps),
			updated_at = NOW()
		WHERE id = ?`,
		upd.Title, upd.About, tags, upd.S3Key, upd.Price, upd.CitationRoyaltyBps, id,
	)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus ist der Callback-Pfad des Blockchain-Submitters: er meldet
// Transaction-Hash und Endzustand (PUBLISHED oder FAILED). Unzulässige
// Werte weist der Check-Constraint im Schema ab.
func (s *PublicationStore) SetStatus(ctx context.Context, id uuid.UUID, status string, txHash *string) error {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE publications SET
			status = ?,
			transaction_hash = COALESCE(?, transaction_hash),
			updated_at = NOW()
		WHERE id = ?`,
		status, txHash, id,
	)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PublicationStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Exec(`DELETE FROM publications WHERE id = ?`, id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PublicationStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM publications`).Scan(&count).Error
	return count, wrapErr(err)
}

func (s *PublicationStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM publications WHERE user_id = ?`, userID,
	).Scan(&count).Error
	return count, wrapErr(err)
}

// CountByStatus speist u.a. den Pending-Onchain-Watchdog.
func (s *PublicationStore) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM publications WHERE status = ?`, status,
	).Scan(&count).Error
	return count, wrapErr(err)
}

// CitedBy liefert die Publikationen, die die angegebene zitieren.
func (s *PublicationStore) CitedBy(ctx context.Context, id uuid.UUID) ([]models.Publication, error) {
	var pubs []models.Publication
	res := s.db.WithContext(ctx).Raw(`
		SELECT p.id, p.user_id, p.title, p.about, p.tags, p.s3key, p.transaction_hash,
		       p.status, p.price, p.citation_royalty_bps, p.created_at, p.updated_at
		FROM publications p
		JOIN citations c ON p.id = c.citing_publication_id
		WHERE c.cited_publication_id = ?
		ORDER BY c.created_at DESC`, id,
	).Scan(&pubs)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return pubs, nil
}
