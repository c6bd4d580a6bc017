package model

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata(size int, channels int64) Metadata {
	s := int64(size)
	return Metadata{
		InputName:   "input",
		OutputName:  "output",
		InputShape:  []int64{1, 3, s, s},
		OutputShape: []int64{1, channels, s, s},
		Classes:     []string{"background", "defect"},
		ImageSize:   size,
	}
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"input_shape": [1, 3, 256, 256],
		"output_shape": [1, 2, 256, 256],
		"classes": ["background", "pore"],
		"image_size": 256,
		"mean": [0.485, 0.456, 0.406],
		"std": [0.229, 0.224, 0.225]
	}`), 0o600))

	meta, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "input", meta.InputName)
	assert.Equal(t, "output", meta.OutputName)
	assert.Equal(t, 2, meta.Channels())
	assert.Equal(t, "pore", meta.label(1))
	assert.Equal(t, "class_5", meta.label(5))

	_, err = LoadMetadata(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestMetadataValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Metadata)
	}{
		{"zero size", func(m *Metadata) { m.ImageSize = 0 }},
		{"input channels", func(m *Metadata) { m.InputShape = []int64{1, 1, 4, 4} }},
		{"output resolution", func(m *Metadata) { m.OutputShape = []int64{1, 2, 8, 8} }},
		{"output rank", func(m *Metadata) { m.OutputShape = []int64{1, 4, 4} }},
		{"mean channels", func(m *Metadata) { m.Mean = []float32{0.5} }},
		{"zero std", func(m *Metadata) { m.Std = []float32{1, 0, 1} }},
	}
	require.NoError(t, testMetadata(4, 2).Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := testMetadata(4, 2)
			tt.mutate(&meta)
			assert.Error(t, meta.Validate())
		})
	}
}

func TestPreprocess(t *testing.T) {
	meta := testMetadata(4, 2)
	meta.Mean = []float32{0.5, 0.5, 0.5}
	meta.Std = []float32{0.5, 0.5, 0.5}

	data := Preprocess(solidImage(10, 7, color.RGBA{R: 255, G: 0, B: 255, A: 255}), meta)
	require.Len(t, data, 3*4*4)

	for i := 0; i < 16; i++ {
		assert.InDelta(t, 1.0, data[i], 0.01, "red at %d", i)
		assert.InDelta(t, -1.0, data[16+i], 0.01, "green at %d", i)
		assert.InDelta(t, 1.0, data[32+i], 0.01, "blue at %d", i)
	}
}

func TestClassMap(t *testing.T) {
	// two classes on a 1x3 image: class 1 wins only in the middle
	classes, err := ClassMap([]float32{
		0.9, 0.1, 0.6,
		0.1, 0.8, 0.2,
	}, 2, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, classes)

	classes, err = ClassMap([]float32{-1, 2, 0}, 1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, classes)

	_, err = ClassMap([]float32{1, 2}, 2, 1, 3)
	assert.Error(t, err)
}

func TestMaskImage(t *testing.T) {
	binary := MaskImage([]int{0, 1, 1, 0}, 2, 2, 2)
	assert.Equal(t, []uint8{0, 255, 255, 0}, binary.Pix)

	multi := MaskImage([]int{0, 1, 2, 3}, 4, 4, 1)
	assert.Equal(t, []uint8{0, 85, 170, 255}, multi.Pix)
}

func TestEncodePNG(t *testing.T) {
	encoded, err := EncodePNG(MaskImage([]int{0, 1}, 2, 2, 1))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 1), decoded.Bounds())
}

func TestSummarize(t *testing.T) {
	s := summarize([]int{0, 2, 2, 1, 2, 0}, 3)
	assert.Equal(t, 4, s.foreground)
	assert.Equal(t, 2, s.dominant)
	assert.InDelta(t, 4.0/6.0, s.ratio(), 1e-9)

	assert.Zero(t, summarize(nil, 2).ratio())
}
