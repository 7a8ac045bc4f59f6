// internal/workers/matching/rank-match-results/config.go
package rankmatchresults

import "time"

type Config struct {
	Timeout time.Duration
	// MaxItems caps the ranked list; zero means unlimited.
	MaxItems int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
