package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hackline/judgeflow/cliparse"
	"github.com/hackline/judgeflow/db"
	"github.com/hackline/judgeflow/middleware"
	"github.com/hackline/judgeflow/registry"
	"github.com/hackline/judgeflow/router"
)

func main() {
	var err error

	// Load .env if present (local development convenience)
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env file")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database (sqlite or postgres)
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Provision teams and judges from the roster hand-off, if configured
	if cfg.RosterPath != "" {
		roster, err := registry.LoadRoster(cfg.RosterPath)
		if err != nil {
			slog.Error("roster load failed", "error", err, "path", cfg.RosterPath)
			os.Exit(1)
		}
		if err := registry.New(dbConn).ApplyRoster(context.Background(), roster); err != nil {
			slog.Error("roster apply failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Roster applied", "teams", len(roster.Teams), "judges", len(roster.Judges))
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "judges_per_team", cfg.JudgesPerTeam, "default_round", cfg.DefaultRound)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
