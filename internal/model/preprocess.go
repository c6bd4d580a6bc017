package model

import (
	"image"

	"github.com/nfnt/resize"
)

// Preprocess resizes img to the network resolution and lays it out as a
// normalised CHW float32 tensor.
func Preprocess(img image.Image, meta Metadata) []float32 {
	targetSize := uint(meta.ImageSize)
	resized := resize.Resize(targetSize, targetSize, img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	mean, std := meta.normalization()

	plane := width * height
	inputData := make([]float32, 3*plane)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			pixelIndex := y*width + x
			inputData[pixelIndex] = (float32(r)/65535.0 - mean[0]) / std[0]
			inputData[plane+pixelIndex] = (float32(g)/65535.0 - mean[1]) / std[1]
			inputData[2*plane+pixelIndex] = (float32(b)/65535.0 - mean[2]) / std[2]
		}
	}
	return inputData
}
