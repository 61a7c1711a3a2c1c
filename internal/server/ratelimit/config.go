package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/resume-screener/internal/config"
)

// EndpointConfig is the limit for one endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // Requests per Window; 0 means unlimited
	Window time.Duration // Refill window
	Burst  int           // Bucket capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !config.GetEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    config.GetEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   config.GetEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: config.GetEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(config.GetEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(config.GetEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(config.GetEnvInt("RATE_LIMIT_ANALYZE_PER_MINUTE", 60)),
	}
}

// DefaultEndpointConfigs returns per-endpoint limits. analyzePerMinute sets
// the single-analysis tier; uploads and batches get a fraction of it.
func DefaultEndpointConfigs(analyzePerMinute int) []EndpointConfig {
	heavy := max(analyzePerMinute/6, 1)
	return []EndpointConfig{
		// Document parsing and fan-out are the expensive calls
		{Path: "/analyze/upload", Method: "POST", Limit: heavy, Window: time.Minute, Burst: max(heavy/2, 1)},
		{Path: "/analyze/batch", Method: "POST", Limit: heavy, Window: time.Minute, Burst: max(heavy/2, 1)},
		{Path: "/analyze", Method: "POST", Limit: analyzePerMinute, Window: time.Minute, Burst: max(analyzePerMinute/6, 1)},
		// Reads fall through to the default limit; /health and /metrics are unlimited
	}
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
