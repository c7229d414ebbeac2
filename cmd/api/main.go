// cmd/api/main.go
// Ember API server entry point

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ember-dating/ember-backend/internal/auth"
	"github.com/ember-dating/ember-backend/internal/common/database"
	"github.com/ember-dating/ember-backend/internal/common/utils"
	"github.com/ember-dating/ember-backend/internal/config"
	"github.com/ember-dating/ember-backend/internal/dating"
	"github.com/ember-dating/ember-backend/internal/embedding"
	"github.com/ember-dating/ember-backend/internal/geocode"
	"github.com/ember-dating/ember-backend/internal/messaging"
	"github.com/ember-dating/ember-backend/internal/notification"
	"github.com/ember-dating/ember-backend/internal/profile"
)

var startTime = time.Now()

func main() {
	log.Println("🔥 Starting Ember API Server...")

	// Step 1: Configuration
	log.Println("📋 Step 1: Loading configuration...")
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Printf("✅ Configuration loaded (environment: %s)", cfg.Environment)

	// Step 2: PostgreSQL
	log.Println("🗄️  Step 2: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Database connected")

	// Step 3: Migrations
	log.Println("🔧 Step 3: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Migrations complete")

	// Step 4: Redis (optional, backs the geocode cache)
	log.Println("📦 Step 4: Connecting to Redis...")
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, geocode caching disabled: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("✅ Redis connected")
	}

	// Step 5: External collaborators
	log.Println("🌍 Step 5: Wiring external services...")

	var embedder embedding.Client
	if cfg.EmbeddingURL != "" {
		embedder = embedding.NewHTTPClient(cfg.EmbeddingURL, cfg.EmbeddingModel, cfg.EmbeddingDimension)
		log.Printf("✅ Embedding service: %s (model %s)", cfg.EmbeddingURL, cfg.EmbeddingModel)
	} else {
		log.Println("⚠️  EMBEDDING_URL not set, bio embeddings disabled")
	}

	var geocoder geocode.Resolver
	if cfg.GeocodeURL != "" {
		geocoder = geocode.NewHTTPResolver(cfg.GeocodeURL)
		if redisClient != nil {
			geocoder = geocode.NewCachedResolver(geocoder, redisClient, cfg.GeocodeCacheTTL)
		}
		log.Printf("✅ Geocode service: %s", cfg.GeocodeURL)
	} else {
		log.Println("⚠️  GEOCODE_URL not set, reverse geocoding disabled")
	}

	var emailProvider notification.EmailProvider
	if cfg.EmailProvider == "sendgrid" {
		emailProvider = notification.NewSendGridProvider(cfg.SendGridAPIKey, cfg.EmailFrom)
		log.Println("✅ Email provider: sendgrid")
	} else {
		emailProvider = notification.NewMockProvider()
		log.Println("✅ Email provider: mock")
	}

	// Step 6: Chat listener (LISTEN/NOTIFY fan-out)
	log.Println("📡 Step 6: Starting chat notification listener...")
	chatListener, err := messaging.NewListener(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to start chat listener: %v", err)
	}
	defer chatListener.Close()
	log.Println("✅ Chat listener ready")

	// Step 7: Services and handlers
	log.Println("🏗️  Step 7: Initializing services...")

	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo, embedder, geocoder)
	profileHandler := profile.NewHandler(profileService)

	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, profileService, cfg.JWTSecret, cfg.BCryptCost,
		cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	notifier := notification.NewService(db, emailProvider)

	datingRepo := dating.NewPostgresRepository(db)
	datingService := dating.NewService(datingRepo, notifier)
	datingHandler := dating.NewHandler(datingService)

	chatRepo := messaging.NewPostgresRepository(db)
	chatService := messaging.NewService(chatRepo)
	chatHandler := messaging.NewHandler(chatService, chatListener)

	log.Println("✅ Services initialized")

	// Step 8: Routes
	log.Println("🛣️  Step 8: Registering routes...")
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	auth.RegisterRoutes(router, authHandler)
	profile.RegisterRoutes(router, profileHandler, authMiddleware)
	dating.RegisterRoutes(router, datingHandler, authMiddleware)
	messaging.RegisterRoutes(router, chatHandler, authMiddleware)
	log.Println("✅ Routes registered")

	// Step 9: Serve
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // chat streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Forced shutdown: %v", err)
	}
	log.Println("👋 Server stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(startTime).String(),
	})
}

// requestIDMiddleware tags every request with an id for log correlation
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs method, path, status and duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s %d %v [%s]",
			r.Method, r.URL.Path, wrapped.statusCode, time.Since(start),
			w.Header().Get("X-Request-ID"))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware allows cross-origin requests from web clients
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// runMigrations creates the schema. Every statement is idempotent, so
// running at every boot is safe.
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL DEFAULT '',
			last_name VARCHAR(100) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			gender VARCHAR(1) NOT NULL DEFAULT 'O',
			interested_in TEXT[] NOT NULL DEFAULT '{}',
			bio TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			age INTEGER,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			city VARCHAR(100) NOT NULL DEFAULT '',
			country VARCHAR(100) NOT NULL DEFAULT '',
			occupation VARCHAR(100) NOT NULL DEFAULT '',
			university VARCHAR(100) NOT NULL DEFAULT '',
			max_distance INTEGER NOT NULL DEFAULT 20,
			max_age_diff INTEGER NOT NULL DEFAULT 5,
			embedding DOUBLE PRECISION[],
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS swipes (
			id BIGSERIAL PRIMARY KEY,
			actor_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			action VARCHAR(4) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT swipes_no_self CHECK (actor_id <> target_id),
			CONSTRAINT swipes_unique_pair UNIQUE (actor_id, target_id)
		)`,

		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			user1_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user2_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT matches_pair_sorted CHECK (user1_id < user2_id),
			CONSTRAINT matches_unique_pair UNIQUE (user1_id, user2_id)
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)`,
		`CREATE INDEX IF NOT EXISTS idx_swipes_target ON swipes(target_id, action)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user1 ON matches(user1_id) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON matches(user2_id) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_messages_match ON messages(match_id, id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return err
		}
		log.Printf("   Migration %d/%d applied", i+1, len(migrations))
	}
	return nil
}
