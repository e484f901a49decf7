package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "SSKR_HOME"
	EnvOutputFormat = "SSKR_OUTPUT_FORMAT"
	EnvVerbose      = "SSKR_VERBOSE"
	EnvLogLevel     = "SSKR_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"
	EnvRateLimit    = "SSKR_RATE_LIMIT"
)

// ApplyEnvironment applies environment variable overrides to the
// configuration. Invalid values are recorded as warnings rather than
// failing startup, mirroring the teacher's tolerant-override pattern.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output.
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}

	// SSKR_RATE_LIMIT sets the local server's requests-per-second rate;
	// a non-positive or unparsable value leaves the current rate in place
	// and records a warning.
	if v := os.Getenv(EnvRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.RateLimitPerSecond = n
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: invalid rate limit %q", EnvRateLimit, v))
		}
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
