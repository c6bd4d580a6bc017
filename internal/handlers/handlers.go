package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Brownie44l1/seg-api/internal/config"
	"github.com/Brownie44l1/seg-api/internal/infer"
	"github.com/Brownie44l1/seg-api/internal/metrics"
	"github.com/Brownie44l1/seg-api/internal/record"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	adapter *infer.Adapter
	cfg     *config.Config
}

func NewHandler(adapter *infer.Adapter, cfg *config.Config) *Handler {
	return &Handler{
		adapter: adapter,
		cfg:     cfg,
	}
}

type InferRequest struct {
	ModelInput []record.Raw `json:"model_input"`
}

type InferResponse struct {
	Results  []record.Raw `json:"results"`
	Duration float64      `json:"duration"`
}

type ConfigResponse struct {
	ModelName          string       `json:"model_name"`
	ModelVersion       string       `json:"model_version"`
	InputFeatures      []record.Raw `json:"input_features"`
	PredictionTemplate []record.Raw `json:"prediction_template"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"predictor": h.adapter.PredictorName(),
	})
}

func (h *Handler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		ModelName:          h.cfg.ModelName,
		ModelVersion:       h.cfg.ModelVersion,
		InputFeatures:      h.cfg.SampleInput(),
		PredictionTemplate: h.adapter.Template().Wire(),
	})
}

func (h *Handler) Infer(c *gin.Context) {
	start := time.Now()

	var req InferRequest
	decoder := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes))
	// keep 3 and 3.0 apart for int checks
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.ModelInput == nil {
		abort(c, http.StatusBadRequest, "model_input is required")
		return
	}

	results, err := h.adapter.Run(c.Request.Context(), req.ModelInput)
	h.observe(start, err)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("inference failed")
		}
		abort(c, status, err.Error())
		return
	}

	c.JSON(http.StatusOK, InferResponse{
		Results:  results,
		Duration: time.Since(start).Seconds(),
	})
}

func (h *Handler) observe(start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case statusFor(err) == http.StatusUnprocessableEntity:
		outcome = "rejected"
		metrics.Incr(metrics.InferRecordError, nil)
	default:
		outcome = "failed"
	}
	tags := []string{
		metrics.Tag(metrics.TagPredictor, h.adapter.PredictorName()),
		metrics.Tag(metrics.TagOutcome, outcome),
	}
	metrics.Timing(metrics.InferLatency, time.Since(start), tags)
	metrics.Incr(metrics.InferCount, tags)
}

// statusFor maps caller mistakes to 422 and everything else, including an
// adapter output that fails its own verification, to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, infer.ErrInvalidOutput):
		return http.StatusInternalServerError
	case errors.Is(err, record.ErrInvalidRecord), errors.Is(err, infer.ErrUnusableInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}
