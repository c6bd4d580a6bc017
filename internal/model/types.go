package model

import (
	"encoding/json"
	"fmt"
	"os"
)

type Metadata struct {
	InputName   string    `json:"input_name"`
	OutputName  string    `json:"output_name"`
	InputShape  []int64   `json:"input_shape"`
	OutputShape []int64   `json:"output_shape"`
	Classes     []string  `json:"classes"`
	ImageSize   int       `json:"image_size"`
	Mean        []float32 `json:"mean"`
	Std         []float32 `json:"std"`
}

func LoadMetadata(path string) (Metadata, error) {
	metaFile, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if metadata.InputName == "" {
		metadata.InputName = "input"
	}
	if metadata.OutputName == "" {
		metadata.OutputName = "output"
	}
	if err := metadata.Validate(); err != nil {
		return Metadata{}, err
	}
	return metadata, nil
}

// Validate checks that the shapes describe an NCHW image in and a per-pixel
// class map out at the configured resolution.
func (m Metadata) Validate() error {
	if m.ImageSize <= 0 {
		return fmt.Errorf("image_size must be positive, got %d", m.ImageSize)
	}
	size := int64(m.ImageSize)
	if len(m.InputShape) != 4 || m.InputShape[0] != 1 || m.InputShape[1] != 3 ||
		m.InputShape[2] != size || m.InputShape[3] != size {
		return fmt.Errorf("input_shape must be [1 3 %d %d], got %v", size, size, m.InputShape)
	}
	if len(m.OutputShape) != 4 || m.OutputShape[0] != 1 || m.OutputShape[1] < 1 ||
		m.OutputShape[2] != size || m.OutputShape[3] != size {
		return fmt.Errorf("output_shape must be [1 C %d %d], got %v", size, size, m.OutputShape)
	}
	if len(m.Mean) != 0 && len(m.Mean) != 3 {
		return fmt.Errorf("mean must have 3 channels, got %d", len(m.Mean))
	}
	if len(m.Std) != 0 && len(m.Std) != 3 {
		return fmt.Errorf("std must have 3 channels, got %d", len(m.Std))
	}
	for _, s := range m.Std {
		if s == 0 {
			return fmt.Errorf("std must not contain zero")
		}
	}
	return nil
}

// Channels is the number of class planes the network emits. A single plane
// holds binary logits.
func (m Metadata) Channels() int {
	return int(m.OutputShape[1])
}

func (m Metadata) normalization() (mean, std [3]float32) {
	std = [3]float32{1, 1, 1}
	copy(mean[:], m.Mean)
	if len(m.Std) == 3 {
		copy(std[:], m.Std)
	}
	return mean, std
}

func (m Metadata) label(class int) string {
	if class < len(m.Classes) {
		return m.Classes[class]
	}
	return fmt.Sprintf("class_%d", class)
}
