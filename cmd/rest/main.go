package main

import (
	"context"
	"log"

	"commercial-hub-be/internal/bootstrap"
	"commercial-hub-be/internal/config"
	"commercial-hub-be/internal/server"
	"commercial-hub-be/internal/tracer"
	"commercial-hub-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	if err := container.RelayService.Start(); err != nil {
		log.Printf("Background Relay Error: %v", err)
	}
	defer container.RelayService.Stop()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
