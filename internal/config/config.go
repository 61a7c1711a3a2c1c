// Package config provides configuration loading and validation for the CLI and services.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Defaults applied by MergeWithDefaults and FromEnv.
const (
	DefaultStrategy          = "overlap"
	DefaultSkillWeight       = 70.0
	DefaultExperienceWeight  = 30.0
	DefaultRequestQueue      = "resume_analysis_requests"
	DefaultResultQueue       = "resume_analysis_results"
	DefaultWorkerConcurrency = 4
	DefaultS3Region          = "auto"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment
// variables or CLI flags.
type Config struct {
	// Scoring
	Strategy         string  `json:"strategy,omitempty"`          // overlap or statistical
	VocabularyPath   string  `json:"vocabulary_path,omitempty"`   // Vocabulary JSON file
	SkillWeight      float64 `json:"skill_weight,omitempty"`      // Overlap points for skill coverage
	ExperienceWeight float64 `json:"experience_weight,omitempty"` // Overlap points for experience

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for SPA job pages
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for the vocabulary store

	// Worker
	AMQPURL           string `json:"amqp_url,omitempty"`
	RequestQueue      string `json:"request_queue,omitempty"`
	ResultQueue       string `json:"result_queue,omitempty"`
	WorkerConcurrency int    `json:"worker_concurrency,omitempty"`

	// Resume objects referenced by queued requests
	S3Bucket   string `json:"s3_bucket,omitempty"`
	S3Endpoint string `json:"s3_endpoint,omitempty"` // Custom endpoint (R2, MinIO)
	S3Region   string `json:"s3_region,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the command that needs them.
func (c *Config) Validate() error {
	switch c.Strategy {
	case "", "overlap", "statistical":
	default:
		return fmt.Errorf("config error: unknown strategy %q", c.Strategy)
	}

	if c.SkillWeight < 0 || c.ExperienceWeight < 0 {
		return fmt.Errorf("config error: weights must be non-negative")
	}
	if (c.SkillWeight != 0 || c.ExperienceWeight != 0) &&
		math.Abs(c.SkillWeight+c.ExperienceWeight-100) > 1e-9 {
		return fmt.Errorf("config error: 'skill_weight' and 'experience_weight' must sum to 100")
	}

	if c.WorkerConcurrency < 0 {
		return fmt.Errorf("config error: 'worker_concurrency' must be non-negative")
	}

	if c.VocabularyPath != "" {
		if _, err := os.Stat(c.VocabularyPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: vocabulary file not found: %s", c.VocabularyPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults, then from the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Strategy == "" {
		result.Strategy = firstNonEmpty(defaults.Strategy, DefaultStrategy)
	}
	if result.VocabularyPath == "" {
		result.VocabularyPath = defaults.VocabularyPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.AMQPURL == "" {
		result.AMQPURL = defaults.AMQPURL
	}
	if result.RequestQueue == "" {
		result.RequestQueue = firstNonEmpty(defaults.RequestQueue, DefaultRequestQueue)
	}
	if result.ResultQueue == "" {
		result.ResultQueue = firstNonEmpty(defaults.ResultQueue, DefaultResultQueue)
	}
	if result.S3Bucket == "" {
		result.S3Bucket = defaults.S3Bucket
	}
	if result.S3Endpoint == "" {
		result.S3Endpoint = defaults.S3Endpoint
	}
	if result.S3Region == "" {
		result.S3Region = firstNonEmpty(defaults.S3Region, DefaultS3Region)
	}

	if result.WorkerConcurrency == 0 {
		if defaults.WorkerConcurrency > 0 {
			result.WorkerConcurrency = defaults.WorkerConcurrency
		} else {
			result.WorkerConcurrency = DefaultWorkerConcurrency
		}
	}

	// Weights are merged as a pair so a half-set file can't break the sum
	if result.SkillWeight == 0 && result.ExperienceWeight == 0 {
		if defaults.SkillWeight != 0 || defaults.ExperienceWeight != 0 {
			result.SkillWeight, result.ExperienceWeight = defaults.SkillWeight, defaults.ExperienceWeight
		} else {
			result.SkillWeight, result.ExperienceWeight = DefaultSkillWeight, DefaultExperienceWeight
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
