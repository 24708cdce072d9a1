package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/cliparse"
	"github.com/danielhkuo/verivote/db"
	"github.com/danielhkuo/verivote/metrics"
	"github.com/danielhkuo/verivote/middleware"
	"github.com/danielhkuo/verivote/router"
	"github.com/danielhkuo/verivote/session"
)

func main() {
	var err error

	// Load .env if present; real env vars win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	candidates := ballot.DefaultCandidates()
	if cfg.CandidatesFile != "" {
		candidates, err = ballot.LoadCandidates(cfg.CandidatesFile)
		if err != nil {
			slog.Error("failed to load candidates", "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	election, err := ballot.NewElection(ctx, db.NewSQLStore(dbConn, cfg.ElectionID), candidates, ballot.Options{
		GenesisBlock:  cfg.GenesisBlock,
		NullifierSalt: cfg.NullifierSalt,
	})
	if err != nil {
		slog.Error("failed to open election", "error", err)
		os.Exit(1)
	}
	slog.Info("Election ready", "election_id", cfg.ElectionID, "candidates", election.CandidateCount())

	sessions := session.NewRegistry(election, cfg.StepDelay, nil)
	go sessions.Run(ctx, time.Minute, cfg.SessionTTL)

	// Create router
	mux := router.NewRouter(election, sessions, metrics.New(sessions.Len), cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "demo_otp", cfg.DemoOTP)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
