package main

import (
	"context"
	"fmt"
	"os"

	"github.com/JoelChinoP/voting-system-front/internal/config"
	"github.com/JoelChinoP/voting-system-front/internal/logger"
	"github.com/JoelChinoP/voting-system-front/internal/webshell"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	srv, err := webshell.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create web shell")
	}

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Web shell failed")
	}
}
