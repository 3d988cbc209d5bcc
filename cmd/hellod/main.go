package main

import (
	"flag"
	"os"

	"github.com/block/hello-server-go/internal/config"
	"github.com/block/hello-server-go/internal/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", -1, "Server port (overrides PORT env var)")
	flag.Parse()

	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Override port if specified via flag
	if *port >= 0 {
		cfg.Port = *port
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Invalid -port flag")
		}
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}
	log.Logger = log.Level(level)

	log.Info().
		Int("port", cfg.Port).
		Bool("secret_set", cfg.SecretVariable != nil).
		Msg("Starting hello server")

	// Serve until the process is terminated; a bind failure is fatal
	if err := server.New(cfg, log.Logger).Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
