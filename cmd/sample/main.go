// Command sample runs the configured sample input through the inference
// adapter once and prints the result. It is a local smoke test.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Brownie44l1/seg-api/internal/app"
	"github.com/Brownie44l1/seg-api/internal/config"
	"github.com/Brownie44l1/seg-api/internal/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "configs/application.yaml", "path to the application config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := logger.Init(cfg.AppLogLevel, cfg.AppName, cfg.AppEnv); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	adapter, closer, err := app.Build(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build inference adapter")
	}
	defer closer.Close()

	output, err := adapter.Run(context.Background(), cfg.SampleInput())
	if err != nil {
		log.Error().Err(err).Msg("Sample inference failed")
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode output")
		os.Exit(1)
	}
	fmt.Println("Sample Inference Output:", string(encoded))
}
