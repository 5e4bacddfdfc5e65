// Package main contains the entrypoint for the Bloom menopause
// assistant service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/bloomagain/bloombot/internal/ai"
	"github.com/bloomagain/bloombot/internal/classify"
	"github.com/bloomagain/bloombot/internal/config"
	"github.com/bloomagain/bloombot/internal/httpapi"
	"github.com/bloomagain/bloombot/internal/logger"
	"github.com/bloomagain/bloombot/internal/orchestrator"
	"github.com/bloomagain/bloombot/internal/responder"
	"github.com/bloomagain/bloombot/internal/scheduler"
	"github.com/bloomagain/bloombot/internal/session"
	"github.com/bloomagain/bloombot/internal/userdata"
	"github.com/bloomagain/bloombot/internal/whatsapp"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires all components, serves until the context is cancelled, and
// returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	// The user data store is optional: without it every lookup degrades
	// to "no data" and the assistant keeps answering.
	var users *userdata.Store
	db, err := userdata.NewDB(cfg.Database.Path, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
	if err != nil {
		log.Error("Failed to open user database, continuing without personalization", "path", cfg.Database.Path, "error", err)
	} else {
		defer userdata.CloseDB(db)
		users = userdata.NewStore(db, log)
	}

	aiClient, err := ai.NewClient(ctx, cfg.AI, log)
	if err != nil {
		log.Error("Failed to initialize AI client", "backend", cfg.AI.Backend, "error", err)
		return 1
	}

	sessions := session.NewStore(cfg.Session.MaxExchanges, log)
	orch := orchestrator.New(
		sessions,
		users,
		classify.New(aiClient, log),
		responder.All(aiClient, log),
		cfg.Session.ContextExchanges,
		log,
	)

	webhook := whatsapp.NewHandler(orch, sessions, cfg.Twilio.MaxMessageLength, log)
	sender := whatsapp.NewSender(cfg.Twilio, log)
	if sender.Enabled() {
		log.Info("Outbound WhatsApp messaging enabled", "from", cfg.Twilio.WhatsAppNumber)
	}

	server := httpapi.NewServer(cfg.Server, orch, webhook, log)

	sched, err := scheduler.New(sessions, users, log)
	if err != nil {
		log.Error("Failed to initialize scheduler", "error", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server starting", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		return sched.Stop()
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Service stopped due to error", "error", err)
		return 1
	}

	log.Info("Service stopped gracefully.")
	return 0
}
