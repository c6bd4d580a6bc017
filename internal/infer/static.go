package infer

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"

	"github.com/Brownie44l1/seg-api/internal/record"
)

// StaticPredictor fills every slot with a fixed placeholder of its kind. It
// backs the service when no model is configured.
type StaticPredictor struct{}

func (StaticPredictor) Name() string {
	return "static"
}

func (StaticPredictor) Predict(_ context.Context, _ Features, slots []record.Record) (map[string]record.Value, error) {
	values := make(map[string]record.Value, len(slots))
	for _, slot := range slots {
		switch slot.Kind {
		case record.KindString:
			values[slot.Name] = record.Text("predicted_value")
		case record.KindFloat:
			values[slot.Name] = record.Float(0)
		case record.KindInt:
			values[slot.Name] = record.Int(0)
		case record.KindImage:
			values[slot.Name] = record.Image(bytes.Clone(blankPNG()))
		}
	}
	return values, nil
}

var blankPNG = sync.OnceValue(func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		panic(err)
	}
	return buf.Bytes()
})
