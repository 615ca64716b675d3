// Command server runs the habit tracker API.
//
// Configuration is via environment variables:
//
//	PORT             listen port (default 8080)
//	DB_PATH          SQLite database file (default data/streaks.db)
//	JWT_SECRET       session signing secret, required
//	STORE_LATENCY_MS artificial store latency for local development (default 0)
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/praveenhebbal38/Streak-Master/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/streaks.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("creating database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Generate one with: openssl rand -hex 32
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	var storeLatency time.Duration
	if ms := os.Getenv("STORE_LATENCY_MS"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil || n < 0 {
			logger.Error("invalid STORE_LATENCY_MS value", slog.String("value", ms))
			os.Exit(1)
		}
		storeLatency = time.Duration(n) * time.Millisecond
	}

	cfg := server.Config{
		Port:         port,
		DBPath:       dbPath,
		JWTSecret:    jwtSecret,
		StoreLatency: storeLatency,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
