package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var citationRows = []string{"id", "citing_publication_id", "cited_publication_id", "citation_context", "created_at"}

func TestCitationCreate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCitationStore(db)

	id := uuid.New()
	citing := uuid.New()
	cited := uuid.New()
	quote := "siehe Abschnitt 3"

	mock.ExpectQuery("INSERT INTO citations").
		WithArgs(citing, cited, "siehe Abschnitt 3").
		WillReturnRows(sqlmock.NewRows(citationRows).
			AddRow(id, citing, cited, quote, time.Now()))

	citation, err := s.Create(context.Background(), &NewCitation{
		CitingPublicationID: citing,
		CitedPublicationID:  cited,
		CitationContext:     &quote,
	})
	require.NoError(t, err)
	assert.Equal(t, id, citation.ID)
	assert.Equal(t, citing, citation.CitingPublicationID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Dieselbe Kante darf nur einmal existieren.
func TestCitationCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCitationStore(db)

	mock.ExpectQuery("INSERT INTO citations").
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "citations_citing_publication_id_cited_publication_id_key",
		})

	_, err := s.Create(context.Background(), &NewCitation{
		CitingPublicationID: uuid.New(),
		CitedPublicationID:  uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Selbstzitate blockt der Check-Constraint.
func TestCitationCreateSelfCite(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCitationStore(db)

	mock.ExpectQuery("INSERT INTO citations").
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "citations_no_self_cite_check"})

	id := uuid.New()
	_, err := s.Create(context.Background(), &NewCitation{
		CitingPublicationID: id,
		CitedPublicationID:  id,
	})
	require.Error(t, err)
	assert.True(t, IsCheck(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCitationGetByPublicationsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCitationStore(db)

	mock.ExpectQuery("FROM citations").
		WillReturnRows(sqlmock.NewRows(citationRows))

	_, err := s.GetByPublications(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCitationListTo(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCitationStore(db)

	cited := uuid.New()
	mock.ExpectQuery("WHERE cited_publication_id").
		WithArgs(cited).
		WillReturnRows(sqlmock.NewRows(citationRows).
			AddRow(uuid.New(), uuid.New(), cited, nil, time.Now()).
			AddRow(uuid.New(), uuid.New(), cited, nil, time.Now()))

	citations, err := s.ListTo(context.Background(), cited)
	require.NoError(t, err)
	assert.Len(t, citations, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCitationDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCitationStore(db)

	mock.ExpectExec("DELETE FROM citations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), uuid.New()), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCitationCountTo(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCitationStore(db)

	cited := uuid.New()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(cited).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

	count, err := s.CountTo(context.Background(), cited)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	require.NoError(t, mock.ExpectationsWereMet())
}
