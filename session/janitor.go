package session

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// Janitor sweeps idle sessions on a fixed interval.
type Janitor struct {
	store    Store
	maxIdle  time.Duration
	interval time.Duration
}

func NewJanitor(store Store, maxIdle, interval time.Duration) *Janitor {
	return &Janitor{store: store, maxIdle: maxIdle, interval: interval}
}

// Run blocks until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := j.store.Sweep(j.maxIdle); n > 0 {
				logger.Info("Swept idle sessions",
					zap.Int("removed", n),
					zap.Int("active", j.store.Len()))
			}
		}
	}
}
