package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/confdesk/confdesk/internal/api"
	"github.com/confdesk/confdesk/internal/auth"
	"github.com/confdesk/confdesk/internal/config"
	"github.com/confdesk/confdesk/internal/storage/sqlite"
	"github.com/confdesk/confdesk/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	router := api.NewRouter(store, jwtManager)

	// Wrap with h2c so clients can use HTTP/2 without TLS.
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Server starting", "address", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}
