package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

func sqlConn(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	goose.SetBaseFS(migrationsFS)
	return sqlDB, nil
}

// Apply führt alle ausstehenden Up-Migrationen in Versionsreihenfolge aus.
// Jeder Schritt läuft in einer eigenen Transaktion; goose führt die
// Versions-Ledger-Tabelle, ein erneuter Aufruf ist ein No-op.
func Apply(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := sqlConn(db)
	if err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, migrationsDir)
}

// ApplyTo migriert vorwärts bis einschließlich der Zielversion.
func ApplyTo(ctx context.Context, db *gorm.DB, version int64) error {
	sqlDB, err := sqlConn(db)
	if err != nil {
		return err
	}
	return goose.UpToContext(ctx, sqlDB, migrationsDir, version)
}

// Revert rollt die letzten steps Migrationen in umgekehrter Reihenfolge
// zurück und schlägt fehl, wenn ein Down-Schritt fehlt.
func Revert(ctx context.Context, db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("revert: steps must be >= 1, got %d", steps)
	}
	sqlDB, err := sqlConn(db)
	if err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("revert step %d/%d: %w", i+1, steps, err)
		}
	}
	return nil
}

// Version liefert die aktuell angewandte Schema-Version aus dem Ledger.
func Version(ctx context.Context, db *gorm.DB) (int64, error) {
	sqlDB, err := sqlConn(db)
	if err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}

// Status schreibt den Migrationsstatus (angewandt/ausstehend) nach stdout.
func Status(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := sqlConn(db)
	if err != nil {
		return err
	}
	return goose.StatusContext(ctx, sqlDB, migrationsDir)
}
