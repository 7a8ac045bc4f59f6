// internal/workers/matching/refine-match-results/config.go
package refinematchresults

import "time"

type Config struct {
	Timeout time.Duration
	// PageSize is the fixed slice size exposed to the presentation layer.
	PageSize int
	// HideLowScoreThreshold is the cutoff applied by the hide-low-score toggle.
	HideLowScoreThreshold int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:               10 * time.Second,
		PageSize:              5,
		HideLowScoreThreshold: 60,
	}
}
