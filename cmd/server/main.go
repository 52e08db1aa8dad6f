package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"arbor/internal/auth"
	"arbor/internal/config"
	"arbor/internal/handler"
	"arbor/internal/middleware"
	"arbor/internal/repository/postgres"
	"arbor/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"delete_policy", cfg.DeletePolicy,
	)

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	pathRepo := postgres.NewPathMapRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Services and handlers
	folderService := service.NewFolderService(folderRepo, pathRepo, txManager, cfg, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	healthHandler := handler.NewHealthHandler(pool)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Check)

	// Folder routes; the search route must not collide with {id}, which only
	// matches a single path segment
	mux.HandleFunc("GET /folders", folderHandler.ListFolders)
	mux.HandleFunc("GET /folders/search/{term}", folderHandler.SearchFolders)
	mux.HandleFunc("GET /folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("POST /folders/{parentId}", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /folders/{id}", folderHandler.DeleteFolder)

	// Middleware chain: CORS -> Recovery -> Auth -> Routes
	var root http.Handler = mux
	root = middleware.Auth(verifier, userRepo, logger)(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
