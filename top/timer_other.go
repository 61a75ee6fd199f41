//go:build !linux

package top

import (
	"context"
	"fmt"
	"time"
)

type tickerTimer struct {
	every  time.Duration
	last   time.Time
	ticker *time.Ticker
}

// NewTimer relies on time.Ticker which uses the monotonic clock. Overruns are
// computed from the elapsed time since the previous expiration.
func NewTimer(every time.Duration) (Timer, error) {
	if every <= 0 {
		return nil, fmt.Errorf("invalid timer period: %s", every)
	}
	return &tickerTimer{
		every:  every,
		last:   time.Now(),
		ticker: time.NewTicker(every),
	}, nil
}

func (t *tickerTimer) Wait(ctx context.Context) (uint64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-t.ticker.C:
		count := uint64(time.Since(t.last) / t.every)
		if count == 0 {
			count = 1
		}
		t.last = t.last.Add(time.Duration(count) * t.every)
		return count, nil
	}
}

func (t *tickerTimer) Close() error {
	t.ticker.Stop()
	return nil
}
