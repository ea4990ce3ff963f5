package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/tripmate/console/internal/audit"
	"github.com/tripmate/console/internal/config"
	"github.com/tripmate/console/internal/events"
	httpapi "github.com/tripmate/console/internal/http"
	"github.com/tripmate/console/internal/kyc"
	"github.com/tripmate/console/internal/logging"
	"github.com/tripmate/console/internal/payments"
	"github.com/tripmate/console/internal/platform"
	"github.com/tripmate/console/internal/routing"
	"github.com/tripmate/console/internal/session"
)

func main() {
	cfg, err := config.LoadServerConfig()
	logger := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.PGDSN != "" && cfg.RunMigrations {
		runMigrations(cfg.PGDSN, logger)
	}

	var persist session.Persister
	if cfg.RedisAddr != "" {
		persist = session.NewRedisPersister(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionKey, cfg.SessionTTL)
	}
	sessions := session.NewManager(persist, logger)
	sessions.Restore(context.Background())

	client := platform.NewClient(cfg.PlatformBaseURL, cfg.RequestTimeout)
	client.TokenFunc = sessions.Token

	var auditStore audit.Store
	if cfg.PGDSN != "" {
		if ps, err := audit.NewPostgresStore(cfg.PGDSN); err == nil {
			auditStore = ps
		} else {
			logger.Warn("audit postgres unavailable, using memory store", "error", err)
		}
	}
	if auditStore == nil {
		auditStore = audit.NewMemoryStore()
	}

	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
	}

	var stripeClient *payments.StripeClient
	if cfg.StripeKey != "" {
		stripeClient = payments.NewStripeClient(cfg.StripeKey)
	}

	resolver := routing.NewCache(routing.NewOSRMClient(cfg.OSRMBaseURL, cfg.OSRMProfile), 5*time.Minute)

	wsURL := cfg.PlatformWSURL
	if wsURL == "" {
		wsURL = deriveWSURL(cfg.PlatformBaseURL)
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Platform: client,
		Sessions: sessions,
		KYC:      kyc.NewService(client),
		Resolver: resolver,
		Audit:    auditStore,
		Events:   publisher,
		Payments: stripeClient,
		WSURL:    wsURL,
		Logger:   logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("console listening", "addr", cfg.HTTPAddr, "platform", cfg.PlatformBaseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

// deriveWSURL turns the REST base into the realtime endpoint.
func deriveWSURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://") + "/ws"
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://") + "/ws"
	}
	return base + "/ws"
}

func runMigrations(dsn string, logger *slog.Logger) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Warn("migration db open error", "error", err)
		return
	}
	defer db.Close()
	b, err := os.ReadFile(filepath.Join("migrations", "001_create_admin_audit.sql"))
	if err != nil {
		logger.Warn("migration read error", "error", err)
		return
	}
	if _, err := db.Exec(string(b)); err != nil {
		logger.Warn("migration exec error", "error", err)
	}
}
