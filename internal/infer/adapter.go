package infer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Brownie44l1/seg-api/internal/record"
	"github.com/rs/zerolog/log"
)

// Predictor is the model behind the adapter. Predict receives the validated
// input features and a private copy of the output slots, and returns one
// value per slot name. It must not retain or mutate shared state per call.
type Predictor interface {
	Name() string
	Predict(ctx context.Context, features Features, slots []record.Record) (map[string]record.Value, error)
}

// Adapter validates input records, runs the predictor and returns output
// records shaped by the template. It is safe for concurrent use.
type Adapter struct {
	template  record.Template
	predictor Predictor
}

func New(template record.Template, predictor Predictor) (*Adapter, error) {
	if predictor == nil {
		return nil, errors.New("predictor is nil")
	}
	if template.Len() == 0 {
		return nil, errors.New("prediction template has no slots")
	}
	return &Adapter{template: template, predictor: predictor}, nil
}

func (a *Adapter) PredictorName() string {
	return a.predictor.Name()
}

func (a *Adapter) Template() record.Template {
	return a.template
}

// Run is the single inference entry point. Record errors on the input are
// returned unchanged; an output that fails verification is wrapped with
// ErrInvalidOutput.
func (a *Adapter) Run(ctx context.Context, input []record.Raw) ([]record.Raw, error) {
	records, err := record.Parse(input)
	if err != nil {
		return nil, err
	}
	features := NewFeatures(records)

	slots := a.template.Clone()
	values, err := a.predictor.Predict(ctx, features, record.Clone(slots))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPrediction, a.predictor.Name(), err)
	}
	for i := range slots {
		value, ok := values[slots[i].Name]
		if !ok || value == nil {
			return nil, fmt.Errorf("%w %q", ErrMissingPrediction, slots[i].Name)
		}
		slots[i].Value = value
	}

	output := record.Wire(slots)
	if err := record.Verify(output); err != nil {
		log.Error().Err(err).Str("predictor", a.predictor.Name()).Msg("predictor output failed verification")
		return nil, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	log.Debug().
		Str("predictor", a.predictor.Name()).
		Int("inputs", len(records)).
		Int("outputs", len(output)).
		Msg("inference completed")
	return output, nil
}
