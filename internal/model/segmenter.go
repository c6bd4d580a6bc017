package model

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sort"

	"github.com/Brownie44l1/seg-api/internal/infer"
	"github.com/Brownie44l1/seg-api/internal/record"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"
)

var ErrNoImageFeature = fmt.Errorf("%w: no image feature to segment", infer.ErrUnusableInput)

// Segmenter turns one base64 image feature into a segmentation mask.
// Image slots receive the mask as PNG at the source resolution, float slots
// the foreground ratio, int slots the foreground pixel count and string
// slots the dominant class label.
type Segmenter struct {
	network      Network
	meta         Metadata
	imageFeature string
}

func NewSegmenter(network Network, meta Metadata, imageFeature string) *Segmenter {
	return &Segmenter{
		network:      network,
		meta:         meta,
		imageFeature: imageFeature,
	}
}

func (s *Segmenter) Name() string {
	return "segmenter"
}

func (s *Segmenter) Predict(ctx context.Context, features infer.Features, slots []record.Record) (map[string]record.Value, error) {
	name, err := s.imageName(features)
	if err != nil {
		return nil, err
	}
	data, _ := features.Image(name)

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image %q: %w", infer.ErrUnusableInput, name, err)
	}
	bounds := src.Bounds()
	log.Debug().
		Str("feature", name).
		Str("format", format).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("segmenting image")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores, err := s.network.Run(Preprocess(src, s.meta))
	if err != nil {
		return nil, err
	}

	channels, size := s.meta.Channels(), s.meta.ImageSize
	classes, err := ClassMap(scores, channels, size, size)
	if err != nil {
		return nil, err
	}
	numClasses := max(channels, 2)

	mask := MaskImage(classes, numClasses, size, size)
	restored := resize.Resize(uint(bounds.Dx()), uint(bounds.Dy()), mask, resize.NearestNeighbor)
	encoded, err := EncodePNG(restored)
	if err != nil {
		return nil, err
	}

	summary := summarize(classes, numClasses)
	values := make(map[string]record.Value, len(slots))
	for _, slot := range slots {
		switch slot.Kind {
		case record.KindImage:
			values[slot.Name] = record.Image(bytes.Clone(encoded))
		case record.KindFloat:
			values[slot.Name] = record.Float(summary.ratio())
		case record.KindInt:
			values[slot.Name] = record.Int(summary.foreground)
		case record.KindString:
			values[slot.Name] = record.Text(s.meta.label(summary.dominant))
		}
	}
	return values, nil
}

func (s *Segmenter) imageName(features infer.Features) (string, error) {
	if s.imageFeature != "" {
		if _, ok := features.Image(s.imageFeature); !ok {
			return "", fmt.Errorf("%w: feature %q is missing or not an image", ErrNoImageFeature, s.imageFeature)
		}
		return s.imageFeature, nil
	}
	names := features.Named(record.KindImage)
	switch len(names) {
	case 0:
		return "", ErrNoImageFeature
	case 1:
		return names[0], nil
	}
	sort.Strings(names)
	return "", fmt.Errorf("%w: ambiguous image features %v, set image_feature", ErrNoImageFeature, names)
}
