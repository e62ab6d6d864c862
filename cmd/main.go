package main

import (
	"os"
	"os/signal"
	"syscall"

	"netflix-pin-relay/internal/bot"
	"netflix-pin-relay/internal/config"
	"netflix-pin-relay/internal/logging"
	"netflix-pin-relay/internal/mailbox"
	"netflix-pin-relay/internal/netflix"
	"netflix-pin-relay/internal/relay"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logging.Log.Fatalf("Configuration error: %v", err)
	}

	logging.Log.Infof("Starting Netflix PIN relay, watching %s for mail from %s", cfg.Email.MailBox, cfg.TargetFrom)

	// Start background cleanup for Rod temp directories
	netflix.StartCleanup()

	reader := mailbox.New(cfg)
	service := relay.NewService(cfg, reader, netflix.NewRodBrowser())
	handler := bot.NewHandler(service)

	session, err := bot.NewSession(cfg.Discord.Token, handler)
	if err != nil {
		logging.Log.Fatalf("Discord session error: %v", err)
	}

	if err := session.Open(); err != nil {
		logging.Log.Fatalf("Discord connection error: %v", err)
	}
	defer func() {
		_ = session.Close()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logging.Log.Infof("Received signal %v, shutting down", sig)
}
