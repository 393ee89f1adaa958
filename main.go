package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"publish3/auth"
	"publish3/config"
	"publish3/db"
	"publish3/models"
	"publish3/storage"
	"publish3/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	newPublicationsCounter prometheus.Counter
	pendingOnchainGauge    prometheus.Gauge
)

func init() {
	newPublicationsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "publications_created_total",
			Help: "Total number of publications submitted to the platform.",
		},
	)
	pendingOnchainGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "publications_pending_onchain",
			Help: "Number of publications still waiting for on-chain confirmation.",
		},
	)
	prometheus.MustRegister(newPublicationsCounter, pendingOnchainGauge)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	// Migrations laufen beim Start; ein Fehler bricht den Prozess ab,
	// damit der Server nie gegen ein halbes Schema arbeitet.
	if err := db.Apply(context.Background(), gormDB); err != nil {
		logging.Fatal("Database migration failed", zap.Error(err))
	}
	version, err := db.Version(context.Background(), gormDB)
	if err != nil {
		logging.Fatal("Failed to read schema version", zap.Error(err))
	}
	logging.Info("Database schema up to date", zap.Int64("version", version))

	// Setup Object Storage
	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	if err := storage.EnsureBucket(context.Background(), s3Client, cfg.S3Bucket); err != nil {
		logging.Fatal("S3 bucket setup failed", zap.Error(err))
	}

	st := store.New(gormDB)

	privyKey, err := cfg.PrivyKeyPEM()
	if err != nil {
		logging.Fatal("Privy key decode failed", zap.Error(err))
	}
	verifier, err := auth.NewVerifier(cfg.PrivyAppID, privyKey)
	if err != nil {
		logging.Fatal("Privy verifier setup failed", zap.Error(err))
	}

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupUserRoutes(router, st, verifier, s3Client, cfg, logging)
	setupWalletRoutes(router, st, verifier, logging)
	setupAuthorRoutes(router, st, verifier, logging)
	setupPublicationRoutes(router, st, verifier, s3Client, cfg, logging)
	setupPublicationAuthorRoutes(router, st, verifier, logging)
	setupCitationRoutes(router, st, verifier, logging)

	// Watchdog: wie viele Publikationen hängen noch PENDING_ONCHAIN?
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		count, err := st.Publications.CountByStatus(context.Background(), models.StatusPendingOnchain)
		if err != nil {
			logging.Error("Pending-onchain watchdog failed", zap.Error(err))
			return
		}
		pendingOnchainGauge.Set(float64(count))
		if count > 0 {
			logging.Info("Publications awaiting on-chain confirmation", zap.Int64("count", count))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}
