package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"chatterbox/internal/app"
	"chatterbox/pkg/config"
	"chatterbox/pkg/logger"
	"chatterbox/pkg/shutdown"
)

// version is set via ldflags during release builds.
var version = "dev"

func main() {
	_ = godotenv.Load(".env")

	cfgPath := flag.String("config", os.Getenv("CHATTERBOX_CONFIG"), "path to YAML config file")
	addr := flag.String("addr", "", "listen address override (host:port)")
	chatDir := flag.String("chat-dir", "", "persisted-session directory override")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Flags win over env and file.
	if *addr != "" {
		host, port, perr := config.SplitAddr(*addr)
		if perr != nil {
			log.Fatalf("invalid -addr %q: %v", *addr, perr)
		}
		cfg.Server.Address, cfg.Server.Port = host, port
	}
	if *chatDir != "" {
		cfg.Chat.Dir = *chatDir
	}

	logger.Init(cfg.Logging.Level)

	a, err := app.New(cfg, version)
	if err != nil {
		logger.Error("startup_failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		logger.Error("server_exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server_stopped")
}
