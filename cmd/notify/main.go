package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cardlet/cardlet-invites/internal/mailer"
	"github.com/cardlet/cardlet-invites/internal/notify"
	"github.com/cardlet/cardlet-invites/pkg/config"
	"github.com/cardlet/cardlet-invites/pkg/events"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	consumer := notify.NewConsumer(eventBus, mailer.FromConfig(cfg.Email))
	if err := consumer.Start(); err != nil {
		logger.Error("Failed to subscribe", "error", err)
		os.Exit(1)
	}

	logger.Info("Notify worker started", "queue", notify.QueueName)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down notify worker...")
}
