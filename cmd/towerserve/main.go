package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/defendertower/internal/catalog"
	"github.com/lawnchairsociety/defendertower/internal/config"
	"github.com/lawnchairsociety/defendertower/internal/logger"
	"github.com/lawnchairsociety/defendertower/internal/store"
	"github.com/lawnchairsociety/defendertower/internal/stream"
	"github.com/lawnchairsociety/defendertower/internal/tower"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

func main() {
	configFile := flag.String("config", "data/tower.yaml", "Path to config YAML file")
	addr := flag.String("addr", "", "Listen address (default: from config)")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*configFile)
	if err != nil {
		log.Printf("Using default logging: %v", err)
	}
	logger.Initialize(logConfig)

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Stream.Address = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger.Info("Starting tower stream server")

	var tiles *wfc.Catalog
	if cfg.Catalog.Path != "" {
		tiles, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		logger.Info("Catalog loaded", "path", cfg.Catalog.Path, "tiles", tiles.Len())
	}
	gen := tower.NewGenerator(tiles)

	var runs *store.Store
	if cfg.Store.Enabled {
		runs, err = store.OpenWithConfig(cfg.Store.Config)
		if err != nil {
			log.Fatalf("Failed to open run store: %v", err)
		}
		defer runs.Close()
		logger.Info("Run store opened", "driver", cfg.Store.Driver)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := stream.NewServer(gen, cfg.Structure, cfg.Stream, runs)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("Stream server stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("Server shut down")
}
