// internal/workers/advisory/aggregate-farm-data/config.go
package aggregatefarmdata

import (
	"time"

	"agri-advisory-workers/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	CacheTTL       time.Duration
	CacheKeyPrefix string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		CacheKeyPrefix: "advisory:aggregate:",
	}
}

// FromAppConfig reads the worker timeout and cache settings. A zero CacheTTL
// leaves the cache off.
func FromAppConfig(cfg *config.Config) *Config {
	c := LoadConfig()
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	c.CacheTTL = config.GetDuration(cfg.Aggregation.CacheTTL)
	if cfg.Aggregation.CacheKeyPrefix != "" {
		c.CacheKeyPrefix = cfg.Aggregation.CacheKeyPrefix
	}
	return c
}
