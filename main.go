package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/harmonylab/lab-api/internal/api"
	"github.com/harmonylab/lab-api/internal/config"
	"github.com/harmonylab/lab-api/internal/database"
	"github.com/harmonylab/lab-api/internal/exercise"
	"github.com/harmonylab/lab-api/internal/metrics"
	"github.com/harmonylab/lab-api/internal/store"
	"github.com/harmonylab/lab-api/pkg/embedded"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "lab-api@" + releaseVersion,              // Use embedded release version
			EnableTracing:    true,                                     // Enable tracing for spans
			TracesSampleRate: 1.0,                                      // 100% sampling for now, adjust based on volume
			EnableLogs:       true,                                     // Enable Sentry Logs feature
			Debug:            cfg.Environment != environmentProduction, // Enable debug in non-prod
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			// Flush on shutdown
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	// Pick the exercise store backend
	st, err := buildStore(cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to initialize exercise store:", err)
	}

	// CloudWatch metrics (enabled in production only)
	cw, err := metrics.NewClient(context.Background(), cfg.Environment)
	if err != nil {
		log.Printf("Failed to initialize CloudWatch metrics: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(st, cfg, cw, GetVersion())

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func buildStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreBackend == "postgres" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		log.Printf("📁 Exercise store: postgres")
		return store.NewGormStore(db), nil
	}

	log.Printf("📁 Exercise store: files under %s", cfg.DataDir)
	st := store.NewFileStore(cfg.DataDir)
	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		seedSampleExercises(st)
	}
	return st, nil
}

// seedSampleExercises loads the bundled exercises into a fresh store. Seeding
// failures are logged, never fatal.
func seedSampleExercises(st store.Store) {
	for _, sample := range embedded.SampleExercises() {
		def, err := exercise.FromJSON(sample.Definition)
		if err != nil {
			log.Printf("Skipping sample exercise %s: %v", sample.GroupName, err)
			continue
		}
		if _, err := st.CreateExercise("", sample.GroupName, def); err != nil {
			log.Printf("Failed to seed sample exercise %s: %v", sample.GroupName, err)
		}
	}
	log.Printf("🌱 Seeded sample exercises")
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
