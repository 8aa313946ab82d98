package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/duetrack/duetrack/internal/customers"
	"github.com/duetrack/duetrack/internal/notify"
)

type stubSource struct {
	customers []customers.Customer
}

func (s stubSource) List(ctx context.Context, activeOnly bool) ([]customers.Customer, error) {
	return s.customers, nil
}

type captureDispatcher struct {
	sent []notify.Message
}

func (d *captureDispatcher) Send(ctx context.Context, msg notify.Message) error {
	d.sent = append(d.sent, msg)
	return nil
}

func newWatermark(t *testing.T) *Watermark {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewWatermark(client)
}

func TestWatermarkRoundTrip(t *testing.T) {
	wm := newWatermark(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	sent, err := wm.SentToday(ctx, day)
	require.NoError(t, err)
	require.False(t, sent)

	require.NoError(t, wm.MarkSent(ctx, day))

	sent, err = wm.SentToday(ctx, day)
	require.NoError(t, err)
	require.True(t, sent)

	// A new day resets the check.
	sent, err = wm.SentToday(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.False(t, sent)
}

func TestDueMatchesConfiguredMinute(t *testing.T) {
	d := NewDailyReminder(slog.Default(), stubSource{}, &captureDispatcher{}, newWatermark(t), "Corner Shop", 9, 0)

	require.True(t, d.due(time.Date(2026, 3, 1, 9, 0, 45, 0, time.UTC)))
	require.False(t, d.due(time.Date(2026, 3, 1, 9, 1, 0, 0, time.UTC)))
	require.False(t, d.due(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)))
}

func TestFireSkipsClearedAndUnreachableCustomers(t *testing.T) {
	source := stubSource{customers: []customers.Customer{
		{ID: 1, Name: "Jane Doe", Email: "jane@example.com", Due: 500},
		{ID: 2, Name: "Paid Up", Email: "paid@example.com", Due: 0},
		{ID: 3, Name: "No Email", Email: "", Due: 300},
	}}
	dispatcher := &captureDispatcher{}
	d := NewDailyReminder(slog.Default(), source, dispatcher, newWatermark(t), "Corner Shop", 9, 0)

	require.NoError(t, d.fire(context.Background(), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))
	require.Len(t, dispatcher.sent, 1)
	require.Equal(t, "jane@example.com", dispatcher.sent[0].To)
	require.Contains(t, dispatcher.sent[0].Body, "Corner Shop")
}

func TestRunFiresOncePerDay(t *testing.T) {
	source := stubSource{customers: []customers.Customer{
		{ID: 1, Name: "Jane Doe", Email: "jane@example.com", Due: 500},
	}}
	dispatcher := &captureDispatcher{}
	wm := newWatermark(t)
	d := NewDailyReminder(slog.Default(), source, dispatcher, wm, "Corner Shop", 9, 0)

	now := time.Date(2026, 3, 1, 9, 0, 10, 0, time.UTC)
	d.now = func() time.Time { return now }

	sent, err := wm.SentToday(context.Background(), now)
	require.NoError(t, err)
	require.False(t, sent)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		ok, err := wm.SentToday(context.Background(), now)
		return err == nil && ok
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
	require.Len(t, dispatcher.sent, 1)
}
