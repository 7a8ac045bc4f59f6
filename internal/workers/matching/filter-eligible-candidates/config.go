// internal/workers/matching/filter-eligible-candidates/config.go
package filtereligiblecandidates

import "time"

type Config struct {
	Timeout               time.Duration
	EnrichmentConcurrency int
	CacheTTL              time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:               20 * time.Second,
		EnrichmentConcurrency: 8,
		CacheTTL:              5 * time.Minute,
	}
}
