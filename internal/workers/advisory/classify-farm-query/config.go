// internal/workers/advisory/classify-farm-query/config.go
package classifyfarmquery

import "time"

type Config struct {
	Timeout         time.Duration
	DefaultLanguage string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         5 * time.Second,
		DefaultLanguage: "en",
	}
}
