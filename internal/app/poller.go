package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zhaohua/mpconsole/internal/sizes"
	"github.com/zhaohua/mpconsole/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
	largestLimit        = 50
)

// Poller refreshes the store in the background.
type Poller struct {
	trigger chan struct{}
}

// Trigger asks for a poll now. Requests made while one is pending coalesce.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// StartPoller launches a background goroutine that refreshes the store. After
// a failed poll the next attempt waits base*2^failures, capped at maxBackoff.
// It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client sizes.API, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Poller{trigger: make(chan struct{}, 1)}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			case <-p.trigger:
				timer.Stop()
				logger.Debug("poll requested")
			}
			refresh(ctx, store, client, logger)
			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer.Reset(wait)
		}
	}()
	return p
}

// calculateBackoff returns the delay before the next poll.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	limit := max(maxBackoff, base)
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= limit {
			return limit
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, client sizes.API, logger *zap.Logger) {
	watches, err := client.ListWatches(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		logger.Warn("watch poll failed", zap.Error(err), zap.Int("failures", store.Snapshot().ConsecutiveFailures))
		return
	}
	largest, err := client.FetchLargest(ctx, sizes.LargestQuery{Limit: largestLimit})
	if err != nil {
		store.Update(nil, nil, err)
		logger.Warn("largest poll failed", zap.Error(err), zap.Int("failures", store.Snapshot().ConsecutiveFailures))
		return
	}
	store.Update(watches, largest, nil)
	logger.Debug("poll ok", zap.Int("watches", len(watches)), zap.Int("largest", len(largest)))
}
