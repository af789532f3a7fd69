package main

// Sends one nudge to conversations abandoned mid-flow. Run it once per sweep
// (cron) or keep it running with CVBOT_REMINDER_INTERVAL_MINUTES set.

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"cvbot-backend/internal/bootstrap"
	"cvbot-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	intervalMinutes := envInt("CVBOT_REMINDER_INTERVAL_MINUTES", 0)
	if intervalMinutes <= 0 {
		sent, err := app.Sweeper.Sweep(ctx)
		if err != nil {
			log.Fatalf("sweep: %v", err)
		}
		log.Printf("sweep done, %d reminders sent", sent)
		return
	}

	log.Printf("reminder loop started interval=%dm idle=%s", intervalMinutes, app.Sweeper.Idle)
	app.Sweeper.Run(ctx, time.Duration(intervalMinutes)*time.Minute)
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
