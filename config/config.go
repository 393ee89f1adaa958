package config

import (
	"encoding/base64"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	// Privy-Authentifizierung: App-ID und ES256-Verifikationsschlüssel (Base64 PEM)
	PrivyAppID           string `envconfig:"PRIVY_APP_ID" required:"true"`
	PrivyVerificationKey string `envconfig:"PRIVY_JWT_VERIFICATION_KEY" required:"true"`

	// Shared Secret für den Blockchain-Submitter-Callback
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	S3Key      string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3Secret   string `envconfig:"S3_SECRET_KEY" required:"true"`
	S3Endpoint string `envconfig:"S3_ENDPOINT" required:"true"`
	S3Region   string `envconfig:"S3_REGION" required:"true"`
	S3Bucket   string `envconfig:"S3_BUCKET" required:"true"`

	// Gültigkeitsdauer der Presigned-Download-Links in Minuten
	DownloadURLTTLMinutes int `envconfig:"DOWNLOAD_URL_TTL_MINUTES" default:"15"`

	// Watchdog für Publikationen, die PENDING_ONCHAIN hängen bleiben
	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"*/10 * * * *"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// PrivyKeyPEM dekodiert den Base64-kodierten EC-PEM-Schlüssel.
func (c *Config) PrivyKeyPEM() ([]byte, error) {
	pem, err := base64.StdEncoding.DecodeString(c.PrivyVerificationKey)
	if err != nil {
		return nil, fmt.Errorf("PRIVY_JWT_VERIFICATION_KEY must be valid base64: %w", err)
	}
	return pem, nil
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
