package config

import (
	"os"
	"strconv"
	"time"
)

// FromEnv reads configuration from environment variables (after .env has
// been loaded by main). Unset variables leave fields zero so the result can
// be passed to MergeWithDefaults.
func FromEnv() Config {
	return Config{
		Strategy:          GetEnvString("SCREENER_STRATEGY", ""),
		VocabularyPath:    GetEnvString("SCREENER_VOCABULARY", ""),
		SkillWeight:       GetEnvFloat("SCREENER_SKILL_WEIGHT", 0),
		ExperienceWeight:  GetEnvFloat("SCREENER_EXPERIENCE_WEIGHT", 0),
		UseBrowser:        GetEnvBool("SCREENER_USE_BROWSER", false),
		Verbose:           GetEnvBool("SCREENER_VERBOSE", false),
		DatabaseURL:       GetEnvString("DATABASE_URL", ""),
		AMQPURL:           GetEnvString("AMQP_URL", ""),
		RequestQueue:      GetEnvString("REQUEST_QUEUE", ""),
		ResultQueue:       GetEnvString("RESULT_QUEUE", ""),
		WorkerConcurrency: GetEnvInt("WORKER_CONCURRENCY", 0),
		S3Bucket:          GetEnvString("S3_BUCKET", ""),
		S3Endpoint:        GetEnvString("S3_ENDPOINT", ""),
		S3Region:          GetEnvString("S3_REGION", ""),
	}
}

// GetEnvString gets an environment variable as a string with a default value.
func GetEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an environment variable as an integer with a default value.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvFloat gets an environment variable as a float with a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvBool gets an environment variable as a boolean with a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetEnvDuration gets an environment variable as a duration with a default value.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
