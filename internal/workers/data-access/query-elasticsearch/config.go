// internal/workers/data-access/query-elasticsearch/config.go
package queryelasticsearch

import "time"

type Config struct {
	Timeout     time.Duration
	PoolIndex   string
	MaxPoolSize int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     15 * time.Second,
		PoolIndex:   "candidate_pool",
		MaxPoolSize: 500,
	}
}
