package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/console"
	"github.com/hackgods/clinic-scheduling/internal/db"
	"github.com/hackgods/clinic-scheduling/internal/notify"
	"github.com/hackgods/clinic-scheduling/pkg/logging"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("app", "clinic", "env", cfg.Env)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	files, err := db.OpenDataDir(cfg.DataDir)
	if err != nil {
		log.Fatalf("data dir error: %v", err)
	}

	store, err := appointment.OpenStore(files, appointment.WithLogger(logger))
	if err != nil {
		log.Fatalf("load store: %v", err)
	}
	if store.Seeded() {
		logger.Info("sample data created", "data_dir", files.Dir)
	}

	var email notify.EmailSender
	if cfg.EmailEnabled() {
		sender, err := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if err != nil {
			log.Fatalf("email sender: %v", err)
		}
		email = sender
		logger.Info("email delivery enabled", "from", cfg.SendGridFromEmail)
	}

	dispatcher := notify.NewDispatcher(os.Stdout, email, cfg.NotifyTimeout, logger)
	svc := appointment.NewService(store, dispatcher, logger)

	if err := console.New(svc, os.Stdin, os.Stdout, logger).Run(rootCtx); err != nil {
		log.Fatalf("console: %v", err)
	}
}
