package app

import (
	"fmt"
	"io"

	"github.com/Brownie44l1/seg-api/internal/config"
	"github.com/Brownie44l1/seg-api/internal/infer"
	"github.com/Brownie44l1/seg-api/internal/model"
	"github.com/rs/zerolog/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Build wires the configured predictor into an adapter. Without a model path
// the adapter serves placeholder predictions. The closer releases the model.
func Build(cfg *config.Config) (*infer.Adapter, io.Closer, error) {
	tmpl, err := cfg.Template()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid prediction_template: %w", err)
	}

	var predictor infer.Predictor = infer.StaticPredictor{}
	var closer io.Closer = nopCloser{}
	if cfg.ModelPath != "" {
		log.Info().Str("model_path", cfg.ModelPath).Msg("Loading model")
		server, err := model.NewServer(cfg.ModelPath, cfg.MetadataPath, cfg.OrtLibraryPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize model server: %w", err)
		}
		log.Info().
			Strs("classes", server.Metadata.Classes).
			Int("image_size", server.Metadata.ImageSize).
			Msg("Model loaded")
		predictor = model.NewSegmenter(server, server.Metadata, cfg.ImageFeature)
		closer = server
	} else {
		log.Warn().Msg("model_path not set, serving placeholder predictions")
	}

	adapter, err := infer.New(tmpl, predictor)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return adapter, closer, nil
}
