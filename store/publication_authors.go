package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"publish3/models"
)

func (s *PublicationStore) AddAuthor(ctx context.Context, publicationID uuid.UUID, ref AuthorRef) error {
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO publication_authors (publication_id, author_id, author_order)
		VALUES (?, ?, ?)`,
		publicationID, ref.AuthorID, ref.AuthorOrder,
	).Error
	return wrapErr(err)
}

// SetAuthors ersetzt die komplette Autorenliste einer Publikation atomar.
func (s *PublicationStore) SetAuthors(ctx context.Context, publicationID uuid.UUID, refs []AuthorRef) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			DELETE FROM publication_authors WHERE publication_id = ?`,
			publicationID,
		).Error; err != nil {
			return wrapErr(err)
		}
		for _, ref := range refs {
			if err := tx.Exec(`
				INSERT INTO publication_authors (publication_id, author_id, author_order)
				VALUES (?, ?, ?)`,
				publicationID, ref.AuthorID, ref.AuthorOrder,
			).Error; err != nil {
				return wrapErr(err)
			}
		}
		return nil
	})
}

func (s *PublicationStore) HasAuthor(ctx context.Context, publicationID uuid.UUID, authorID string) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(`
		SELECT EXISTS(
			SELECT 1 FROM publication_authors
			WHERE publication_id = ? AND author_id = ?)`,
		publicationID, authorID,
	).Scan(&exists).Error
	return exists, wrapErr(err)
}

func (s *PublicationStore) RemoveAuthor(ctx context.Context, publicationID uuid.UUID, authorID string) error {
	res := s.db.WithContext(ctx).Exec(`
		DELETE FROM publication_authors
		WHERE publication_id = ? AND author_id = ?`,
		publicationID, authorID,
	)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PublicationStore) UpdateAuthorOrder(ctx context.Context, publicationID uuid.UUID, authorID string, order int32) error {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE publication_authors SET author_order = ?
		WHERE publication_id = ? AND author_id = ?`,
		order, publicationID, authorID,
	)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAuthors liefert die Autorenliste in Leserfolge, mit Name und
// Wallet-Adresse aus den Stammdaten dazugezogen.
func (s *PublicationStore) ListAuthors(ctx context.Context, publicationID uuid.UUID) ([]models.PublicationAuthorDetail, error) {
	var details []models.PublicationAuthorDetail
	res := s.db.WithContext(ctx).Raw(`
		SELECT pa.publication_id, pa.author_id, pa.author_order,
		       a.name AS author_name, a.email AS author_email,
		       a.affiliation AS author_affiliation, w.wallet_address
		FROM publication_authors pa
		JOIN authors a ON a.privy_id = pa.author_id
		JOIN wallets w ON w.wallet_id = a.wallet_id
		WHERE pa.publication_id = ?
		ORDER BY pa.author_order ASC`, publicationID,
	).Scan(&details)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return details, nil
}

// ListForAuthor ist die Gegenrichtung: alle Publikationen eines Autors.
func (s *PublicationStore) ListForAuthor(ctx context.Context, authorID string, page, limit int64) ([]models.Publication, error) {
	limit, offset := pageBounds(page, limit)
	var pubs []models.Publication
	res := s.db.WithContext(ctx).Raw(`
		SELECT p.id, p.user_id, p.title, p.about, p.tags, p.s3key, p.transaction_hash,
		       p.status, p.price, p.citation_royalty_bps, p.created_at, p.updated_at
		FROM publications p
		JOIN publication_authors pa ON pa.publication_id = p.id
		WHERE pa.author_id = ?
		ORDER BY p.created_at DESC
		LIMIT ? OFFSET ?`, authorID, limit, offset,
	).Scan(&pubs)
	if res.Error != nil {
		return nil, wrapErr(res.Error)
	}
	return pubs, nil
}
