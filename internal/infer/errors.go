package infer

import "errors"

var (
	ErrPrediction        = errors.New("prediction failed")
	ErrMissingPrediction = errors.New("predictor returned no value for slot")
	ErrInvalidOutput     = errors.New("predictor produced an invalid output record")

	// ErrUnusableInput is wrapped by predictors when valid records still
	// cannot be used, such as an image value that is not a decodable image.
	ErrUnusableInput = errors.New("input cannot be used by predictor")
)
