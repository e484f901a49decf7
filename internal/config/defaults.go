package config

// Defaults returns the default configuration: a 2-of-3 plus 3-of-5,
// group-threshold-2 policy (the same shape as spec.md §8's SSKR
// fixture) since most installs will want a reasonable starting point
// rather than an empty policy.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.sskr",
		Encryption: EncryptionConfig{
			Method:        "age",
			KeyDerivation: "scrypt",
		},
		Policy: PolicyConfig{
			DefaultGroupThreshold: 2,
			DefaultGroups: []PolicyGroupEntry{
				{Threshold: 2, Count: 3},
				{Threshold: 3, Count: 5},
			},
		},
		Security: SecurityConfig{
			MemoryLock: true,
		},
		Server: ServerConfig{
			RateLimitPerSecond: 10,
			RateLimitBurst:     20,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.sskr/sskr.log",
		},
	}
}
