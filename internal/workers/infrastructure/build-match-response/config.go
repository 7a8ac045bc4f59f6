// internal/workers/infrastructure/build-match-response/config.go
package buildmatchresponse

import "time"

type Config struct {
	Timeout    time.Duration
	AppVersion string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		AppVersion: "1.0.0",
	}
}
