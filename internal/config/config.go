package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Brownie44l1/seg-api/internal/record"
	"github.com/spf13/viper"
)

type Config struct {
	AppName     string `mapstructure:"app_name"`
	AppEnv      string `mapstructure:"app_env"`
	AppPort     int    `mapstructure:"app_port"`
	AppLogLevel string `mapstructure:"app_log_level"`

	ModelName      string `mapstructure:"model_name"`
	ModelVersion   string `mapstructure:"model_version"`
	ModelPath      string `mapstructure:"model_path"`
	MetadataPath   string `mapstructure:"metadata_path"`
	OrtLibraryPath string `mapstructure:"ort_library_path"`
	ImageFeature   string `mapstructure:"image_feature"`

	MetricsEnabled      bool    `mapstructure:"metrics_enabled"`
	MetricsHost         string  `mapstructure:"metrics_host"`
	MetricsPort         int     `mapstructure:"metrics_port"`
	MetricsSamplingRate float64 `mapstructure:"metrics_sampling_rate"`

	CSVWorkers     int   `mapstructure:"csv_workers"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`

	PredictionTemplate []record.Raw `mapstructure:"prediction_template"`
	InputFeatures      []record.Raw `mapstructure:"input_features"`
}

// Load reads the YAML file at path (optional) and applies environment
// overrides such as APP_PORT or MODEL_PATH.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		// JSON files parse as YAML too, and YAML keeps 10 and 10.0 apart.
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "seg-api")
	v.SetDefault("app_env", "local")
	v.SetDefault("app_port", 8080)
	v.SetDefault("app_log_level", "INFO")
	v.SetDefault("model_name", "segmentation")
	v.SetDefault("model_version", "v1")
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("metrics_host", "localhost")
	v.SetDefault("metrics_port", 8125)
	v.SetDefault("metrics_sampling_rate", 1.0)
	v.SetDefault("csv_workers", 4)
	v.SetDefault("max_upload_bytes", 10<<20)
}

func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"app_name":              "APP_NAME",
		"app_env":               "APP_ENV",
		"app_port":              "APP_PORT",
		"app_log_level":         "APP_LOG_LEVEL",
		"model_name":            "MODEL_NAME",
		"model_version":         "MODEL_VERSION",
		"model_path":            "MODEL_PATH",
		"metadata_path":         "METADATA_PATH",
		"ort_library_path":      "ORT_LIBRARY_PATH",
		"image_feature":         "IMAGE_FEATURE",
		"metrics_enabled":       "METRICS_ENABLED",
		"metrics_host":          "METRICS_HOST",
		"metrics_port":          "METRICS_PORT",
		"metrics_sampling_rate": "METRICS_SAMPLING_RATE",
		"csv_workers":           "CSV_WORKERS",
		"max_upload_bytes":      "MAX_UPLOAD_BYTES",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("app_port out of range: %d", c.AppPort)
	}
	if c.CSVWorkers < 1 {
		return fmt.Errorf("csv_workers must be at least 1, got %d", c.CSVWorkers)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.ModelPath != "" && c.MetadataPath == "" {
		return errors.New("metadata_path is required when model_path is set")
	}
	if _, err := c.Template(); err != nil {
		return fmt.Errorf("invalid prediction_template: %w", err)
	}
	if err := record.Verify(c.InputFeatures); err != nil {
		return fmt.Errorf("invalid input_features: %w", err)
	}
	return nil
}

func (c *Config) Template() (record.Template, error) {
	return record.NewTemplate(c.PredictionTemplate)
}

// SampleInput returns a private copy of the configured input features, used
// as the smoke-test input and as the column layout for CSV batches.
func (c *Config) SampleInput() []record.Raw {
	out := make([]record.Raw, len(c.InputFeatures))
	for i, r := range c.InputFeatures {
		cp := make(record.Raw, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
