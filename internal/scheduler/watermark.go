// Package scheduler runs the daily due-reminder loop.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const watermarkKey = "reminder:last_sent"

// Watermark records the last day reminders went out, keyed in redis so a
// restart (or a second replica) cannot re-send the same day's batch.
type Watermark struct {
	rdb *redis.Client
}

// NewWatermark constructs a Watermark.
func NewWatermark(rdb *redis.Client) *Watermark {
	return &Watermark{rdb: rdb}
}

// SentToday reports whether reminders already went out on day.
func (w *Watermark) SentToday(ctx context.Context, day time.Time) (bool, error) {
	val, err := w.rdb.Get(ctx, watermarkKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("scheduler: read watermark: %w", err)
	}
	return val == day.Format("2006-01-02"), nil
}

// MarkSent records day as the last reminder day.
func (w *Watermark) MarkSent(ctx context.Context, day time.Time) error {
	if err := w.rdb.Set(ctx, watermarkKey, day.Format("2006-01-02"), 0).Err(); err != nil {
		return fmt.Errorf("scheduler: write watermark: %w", err)
	}
	return nil
}
