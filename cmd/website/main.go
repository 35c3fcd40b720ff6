package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Uzair-37/Standard-website/internal/analytics"
	"github.com/Uzair-37/Standard-website/internal/catalog"
	"github.com/Uzair-37/Standard-website/internal/chatbot"
	"github.com/Uzair-37/Standard-website/internal/config"
	"github.com/Uzair-37/Standard-website/internal/inventory"
	"github.com/Uzair-37/Standard-website/internal/server"
)

func main() {
	configPath := flag.String("config", "website.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load .env before reading configuration
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	// 1. Load Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Catalog
	products, err := catalog.NewRepository(cfg.Catalog.SeedFile)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}
	catalogSvc := catalog.NewService(products)

	// 3. Initialize Inventory (simulated upstream)
	connector := inventory.NewSimulator(products.List(), cfg.Inventory.Latency())
	inventorySvc := inventory.NewService(connector, products)

	// 4. Initialize Chatbot
	rules, err := chatbot.LoadRules(cfg.Chatbot.RulesDir)
	if err != nil {
		slog.Error("Failed to load chatbot rules", "error", err)
		os.Exit(1)
	}
	responder := chatbot.NewResponder(rules, cfg.Chatbot.FallbackReply)
	chatbotSvc := chatbot.NewService(responder)

	// 5. Initialize Analytics (restore snapshots, then flush on a timer)
	analyticsSvc := analytics.NewService(analytics.Options{
		MaxEvents:     cfg.Analytics.MaxEvents,
		MaxInsights:   cfg.Analytics.MaxInsights,
		FlushEvery:    cfg.Analytics.FlushEvery,
		TrafficPath:   cfg.Analytics.TrafficPath(),
		InsightsPath:  cfg.Analytics.InsightsPath(),
		MaxBodySizeMB: cfg.Server.MaxBodySizeMB,
	})
	analyticsSvc.Load()

	flusher := analytics.NewFlusher(analyticsSvc, cfg.Analytics.Interval())

	// 6. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode)
	catalogSvc.RegisterRoutes(srv.Engine)
	inventorySvc.RegisterRoutes(srv.Engine)
	chatbotSvc.RegisterRoutes(srv.Engine)
	analyticsSvc.RegisterRoutes(srv.Engine)

	srv.RegisterStatus("analytics", func() any {
		return map[string]int{
			"events":   analyticsSvc.EventCount(),
			"insights": analyticsSvc.InsightCount(),
			"sessions": analyticsSvc.SessionCount(),
		}
	})
	srv.RegisterStatus("catalog", func() any {
		return map[string]int{"products": len(products.List())}
	})
	srv.RegisterStatus("chatbot", func() any {
		return map[string]int{"rules": len(responder.Rules())}
	})

	// 7. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flusherDone := make(chan struct{})
	go func() {
		defer close(flusherDone)
		if err := flusher.Start(ctx); err != nil {
			slog.Error("Flusher stopped with error", "error", err)
		}
	}()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	// Stop the flusher (it writes a final snapshot) and wait for it.
	cancel()
	<-flusherDone

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
