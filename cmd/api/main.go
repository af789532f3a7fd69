package main

import (
	"context"
	"log"

	"cvbot-backend/internal/bootstrap"
	"cvbot-backend/internal/delivery"
	"cvbot-backend/internal/server"
	"cvbot-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	if cfg.DeliveryQueueURL != "" {
		queue, err := delivery.NewSQSQueue(ctx, cfg.DeliveryQueueURL, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("delivery queue: %v", err)
		}
		app.Engine.Delivery = queue
	} else {
		app.Engine.Delivery = delivery.NewInProcess(app.Orchestrator)
	}

	r := server.NewEngine(app.Engine)
	addr := server.Addr(cfg.Port)
	log.Printf("Starting webhook server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
