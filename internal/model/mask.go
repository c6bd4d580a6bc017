package model

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// ClassMap reduces a CHW score tensor to one class index per pixel. With a
// single channel the scores are binary logits thresholded at zero.
func ClassMap(scores []float32, channels, height, width int) ([]int, error) {
	plane := height * width
	if len(scores) != channels*plane {
		return nil, fmt.Errorf("expected %d output values (%dx%dx%d), got %d",
			channels*plane, channels, height, width, len(scores))
	}

	classes := make([]int, plane)
	if channels == 1 {
		for i, s := range scores {
			if s > 0 {
				classes[i] = 1
			}
		}
		return classes, nil
	}

	for i := 0; i < plane; i++ {
		best, bestScore := 0, scores[i]
		for c := 1; c < channels; c++ {
			if v := scores[c*plane+i]; v > bestScore {
				best, bestScore = c, v
			}
		}
		classes[i] = best
	}
	return classes, nil
}

// MaskImage spreads class indices over the full grey range: background is 0,
// the last class is 255.
func MaskImage(classes []int, numClasses, width, height int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	levels := numClasses - 1
	if levels < 1 {
		levels = 1
	}
	for i, c := range classes {
		mask.Pix[i] = uint8(c * 255 / levels)
	}
	return mask
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type maskSummary struct {
	foreground int
	total      int
	dominant   int
}

func summarize(classes []int, numClasses int) maskSummary {
	counts := make([]int, numClasses)
	summary := maskSummary{total: len(classes)}
	for _, c := range classes {
		counts[c]++
		if c != 0 {
			summary.foreground++
		}
	}
	for c, n := range counts {
		if n > counts[summary.dominant] {
			summary.dominant = c
		}
	}
	return summary
}

func (s maskSummary) ratio() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.foreground) / float64(s.total)
}
