package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/vadim/neo-outreach/internal/app"
	"github.com/vadim/neo-outreach/internal/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to environment)")
	flag.Parse()

	// Load configuration
	cfg := config.MustLoad()
	if *configPath != "" {
		fileCfg, err := config.LoadFromFile(*configPath)
		if err != nil {
			log.Fatalf("failed to load config file: %v", err)
		}
		cfg = fileCfg
	}

	// Create root context
	ctx := context.Background()

	// Initialize application
	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	// Run application (blocks until shutdown)
	if err := application.Run(ctx); err != nil {
		log.Printf("application error: %v", err)
		os.Exit(1)
	}
}
