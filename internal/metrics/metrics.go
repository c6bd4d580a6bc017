package metrics

import (
	"fmt"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog/log"
)

const (
	InferLatency        = "seg_api.infer.latency"
	InferCount          = "seg_api.infer.count"
	InferRecordError    = "seg_api.infer.record_error"
	CSVRows             = "seg_api.csv.rows"
	APIRequestLatency   = "seg_api.api.request.latency"
	APIRequestCount     = "seg_api.api.request.count"
	TagPath             = "path"
	TagMethod           = "method"
	TagHTTPStatusCode   = "http_status_code"
	TagPredictor        = "predictor"
	TagOutcome          = "outcome"
	defaultSamplingRate = 1.0
)

var (
	// It is safe to use one client from multiple goroutines simultaneously.
	client       statsd.ClientInterface = &statsd.NoOpClient{}
	samplingRate                        = defaultSamplingRate
)

type Options struct {
	Enabled      bool
	Host         string
	Port         int
	SamplingRate float64
	Env          string
	Service      string
}

// Init points the package at a statsd agent. When disabled, or when the
// client cannot be created, metrics become no-ops instead of failing the
// service.
func Init(opts Options) {
	if !opts.Enabled {
		client = &statsd.NoOpClient{}
		return
	}
	samplingRate = opts.SamplingRate
	if samplingRate <= 0 || samplingRate > 1 {
		samplingRate = defaultSamplingRate
	}

	address := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	c, err := statsd.New(address, statsd.WithTags([]string{
		"env:" + opts.Env,
		"service:" + opts.Service,
	}))
	if err != nil {
		log.Error().Err(err).Str("address", address).Msg("statsd client initialization failed, metrics will be unavailable")
		client = &statsd.NoOpClient{}
		return
	}
	client = c
	log.Info().Str("address", address).Float64("sampling_rate", samplingRate).Msg("metrics client initialized")
}

func Close() error {
	return client.Close()
}

func Tag(key, value string) string {
	return key + ":" + value
}

func Timing(name string, value time.Duration, tags []string) {
	if err := client.Timing(name, value, tags, samplingRate); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("statsd timing failed")
	}
}

func Count(name string, value int64, tags []string) {
	if err := client.Count(name, value, tags, samplingRate); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("statsd count failed")
	}
}

func Incr(name string, tags []string) {
	Count(name, 1, tags)
}
