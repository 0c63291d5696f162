// internal/workers/fulfillment/fulfill-dining-request/config.go
package fulfilldiningrequest

import (
	"time"

	"dining-concierge/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
