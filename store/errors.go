package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound meldet eine Lese-, Update- oder Delete-Operation auf einen
// nicht vorhandenen Primärschlüssel.
var ErrNotFound = errors.New("record not found")

// ConstraintKind kategorisiert die verletzte Regel.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintCheck      ConstraintKind = "check"
)

// ConstraintError ist eine vom Storage-Layer abgewiesene Schreiboperation.
// Constraint trägt den Namen der verletzten Regel, damit der Aufrufer eine
// verwertbare Meldung bauen kann. Solche Fehler sind nicht transient und
// werden nie wiederholt.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint %q violated", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// PostgreSQL-Fehlercodes der Klasse 23 (integrity constraint violation).
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// wrapErr übersetzt Treiber- und GORM-Fehler in die Taxonomie des Stores.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ConstraintError{Kind: ConstraintUnique, Constraint: pgErr.ConstraintName, Err: err}
		case pgForeignKeyViolation:
			return &ConstraintError{Kind: ConstraintForeignKey, Constraint: pgErr.ConstraintName, Err: err}
		case pgCheckViolation:
			return &ConstraintError{Kind: ConstraintCheck, Constraint: pgErr.ConstraintName, Err: err}
		}
	}
	return err
}

func isKind(err error, kind ConstraintKind) bool {
	var cerr *ConstraintError
	return errors.As(err, &cerr) && cerr.Kind == kind
}

// IsDuplicate meldet eine Unique-Verletzung.
func IsDuplicate(err error) bool { return isKind(err, ConstraintUnique) }

// IsForeignKey meldet eine verletzte Referenz (auch fehlende Vorbedingung,
// etwa publication_authors vor dem Autor).
func IsForeignKey(err error) bool { return isKind(err, ConstraintForeignKey) }

// IsCheck meldet eine Check-Verletzung (Status-Enum, Preis, Selbstzitat).
func IsCheck(err error) bool { return isKind(err, ConstraintCheck) }
