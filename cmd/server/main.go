package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juiceai/juice-server/internal/api"
	"github.com/juiceai/juice-server/internal/config"
	"github.com/juiceai/juice-server/internal/extractor"
	"github.com/juiceai/juice-server/internal/render"
	"github.com/juiceai/juice-server/internal/service/campaign"
	"github.com/juiceai/juice-server/internal/service/contact"
	"github.com/juiceai/juice-server/internal/store/redisstore"
	"github.com/juiceai/juice-server/internal/store/sqlite"
	"github.com/juiceai/juice-server/internal/worker"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := checkPortAvailable(cfg.Server.Host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		contactSvc  *contact.Service
		campaignSvc *campaign.Service
		users       api.UserStore
	)

	switch cfg.Storage.Engine {
	case "sqlite", "":
		db, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to open sqlite store: %v", err)
		}
		defer db.Close()
		contactSvc = contact.NewService(sqlite.NewContactRepo(db), sqlite.NewListRepo(db))
		campaignSvc = campaign.NewService(sqlite.NewCampaignRepo(db))
		users = sqlite.NewUserRepo(db)
		log.Printf("Storage: sqlite (%s)", cfg.Storage.Path)
	case "redis":
		client, err := redisstore.Open(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to redis store: %v", err)
		}
		defer client.Close()
		contactSvc = contact.NewService(redisstore.NewContactRepo(client), redisstore.NewListRepo(client))
		campaignSvc = campaign.NewService(redisstore.NewCampaignRepo(client))
		users = redisstore.NewUserRepo(client)
		log.Printf("Storage: redis (%s)", cfg.Storage.RedisAddr)
	default:
		log.Fatalf("Unknown storage engine %q (want sqlite or redis)", cfg.Storage.Engine)
	}

	exClient := extractor.NewClient(cfg.Extractor)
	renderer := render.NewTemplateService()

	if cfg.Scheduler.Enabled {
		sched := worker.NewScheduler(campaignSvc, contactSvc, renderer, cfg.Scheduler.PollInterval())
		go sched.Run(ctx)
		log.Printf("Campaign scheduler started (poll interval: %s)", cfg.Scheduler.PollInterval())
	} else {
		log.Println("Campaign scheduler disabled")
	}

	server := api.NewServer(cfg, contactSvc, campaignSvc, users, exClient, renderer)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s (env: %s, extractor: %s)", addr, cfg.Server.Environment, cfg.Extractor.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
