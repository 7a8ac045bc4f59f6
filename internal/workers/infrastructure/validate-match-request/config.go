// internal/workers/infrastructure/validate-match-request/config.go
package validatematchrequest

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
