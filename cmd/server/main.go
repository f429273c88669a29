// Package main is the entry point for the metatype API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"

	appctx "metatype/internal/core/context"
	"metatype/internal/core/locale"
	"metatype/internal/domain/auth"
	"metatype/internal/domain/typedef"
	v1 "metatype/internal/infrastructure/http/v1"
	"metatype/internal/infrastructure/storage/postgres"
	"metatype/internal/infrastructure/storage/postgres/typedef_repo"
	"metatype/internal/metadata"
	"metatype/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Startup operations carry their own trace for log correlation.
	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext())
	log.Info("starting metatype server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Locale environment ---
	// Default reads APP_LOCALE and falls back to English when it is
	// unset or unparseable.
	env := locale.Default()
	log.Infow("locale environment initialized", "locale", env.Tag().String())

	// --- Type registry and definitions ---
	registry := metadata.NewRegistry(env)
	repo := typedef_repo.NewRepo(pool)
	typeService := typedef.NewService(repo, registry, env)

	if err := typeService.LoadAll(ctx); err != nil {
		log.Fatalw("failed to load type definitions", "error", err)
	}

	// --- Auth services ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	var apiKeys *auth.APIKeyService
	if client, hash := os.Getenv("API_CLIENT"), os.Getenv("API_KEY_HASH"); client != "" && hash != "" {
		apiKeys = auth.NewAPIKeyService([]auth.ServiceAccount{
			{Name: client, KeyHash: hash, Roles: []string{"writer"}},
		})
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		JWTValidator:    jwtService,
		APIKeyValidator: apiKeys,
		TypeDefService:  typeService,
		AdminRole:       getEnv("ADMIN_ROLE", ""),
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      gzhttp.GzipHandler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
