package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/duetrack/duetrack/internal/customers"
	"github.com/duetrack/duetrack/internal/notify"
)

const (
	pollInterval = 20 * time.Second
	// firedBackoff keeps the loop from matching the same minute twice.
	firedBackoff = 61 * time.Second
)

// CustomerSource lists the customers the reminder batch covers.
type CustomerSource interface {
	List(ctx context.Context, activeOnly bool) ([]customers.Customer, error)
}

// DailyReminder polls the clock and dispatches one reminder batch per day at
// the configured hour and minute.
type DailyReminder struct {
	logger     *slog.Logger
	source     CustomerSource
	dispatcher notify.Dispatcher
	watermark  *Watermark
	shopName   string
	hour       int
	minute     int
	now        func() time.Time
}

// NewDailyReminder constructs the scheduler. hour/minute are local time.
func NewDailyReminder(logger *slog.Logger, source CustomerSource, dispatcher notify.Dispatcher, watermark *Watermark, shopName string, hour, minute int) *DailyReminder {
	return &DailyReminder{
		logger:     logger,
		source:     source,
		dispatcher: dispatcher,
		watermark:  watermark,
		shopName:   shopName,
		hour:       hour,
		minute:     minute,
		now:        time.Now,
	}
}

// Run polls until the context is cancelled.
func (d *DailyReminder) Run(ctx context.Context) error {
	d.logger.Info("reminder scheduler started",
		slog.Int("hour", d.hour), slog.Int("minute", d.minute))
	for {
		wait := pollInterval
		now := d.now()
		if d.due(now) {
			sent, err := d.watermark.SentToday(ctx, now)
			if err != nil {
				d.logger.Error("reminder watermark", slog.Any("error", err))
			} else if !sent {
				if err := d.fire(ctx, now); err != nil {
					d.logger.Error("reminder batch", slog.Any("error", err))
				} else if err := d.watermark.MarkSent(ctx, now); err != nil {
					d.logger.Error("reminder watermark", slog.Any("error", err))
				}
				wait = firedBackoff
			}
		}

		select {
		case <-ctx.Done():
			d.logger.Info("reminder scheduler stopped")
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// due reports whether now matches the configured fire time.
func (d *DailyReminder) due(now time.Time) bool {
	return now.Hour() == d.hour && now.Minute() == d.minute
}

// fire dispatches one reminder per active customer with an outstanding due.
func (d *DailyReminder) fire(ctx context.Context, now time.Time) error {
	all, err := d.source.List(ctx, true)
	if err != nil {
		return err
	}
	var sent int
	for _, c := range all {
		if c.Due <= 0 || c.Email == "" {
			continue
		}
		msg := notify.DueReminder(d.shopName, c.Name, c.Email, c.Due)
		if err := d.dispatcher.Send(ctx, msg); err != nil {
			d.logger.Warn("reminder dispatch failed",
				slog.Int64("customer_id", c.ID), slog.Any("error", err))
			continue
		}
		sent++
	}
	d.logger.Info("reminder batch dispatched",
		slog.String("day", now.Format("2006-01-02")), slog.Int("sent", sent))
	return nil
}
