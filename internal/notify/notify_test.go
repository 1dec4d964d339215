package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/logger"
	"storefront/internal/model"
)

var now = time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC)

func notif(id string, ts time.Time, read bool) model.Notification {
	return model.Notification{ID: id, Timestamp: ts, Read: read}
}

func ids(items []model.Notification) []string {
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.ID)
	}
	return out
}

func TestSortUnreadFirstThenNewest(t *testing.T) {
	in := []model.Notification{
		notif("old-read", now.Add(-3*time.Hour), true),
		notif("new-read", now.Add(-1*time.Hour), true),
		notif("old-unread", now.Add(-5*time.Hour), false),
		notif("new-unread", now.Add(-2*time.Hour), false),
	}

	got := Sort(in)
	assert.Equal(t, []string{"new-unread", "old-unread", "new-read", "old-read"}, ids(got))
	assert.Equal(t, "old-read", in[0].ID)
}

func TestGroupByDay(t *testing.T) {
	in := []model.Notification{
		notif("today", now.Add(-2*time.Hour), false),
		notif("midnight", time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), false),
		notif("yesterday", time.Date(2026, 3, 17, 23, 59, 0, 0, time.UTC), false),
		notif("three-days", now.AddDate(0, 0, -3), false),
		notif("month", now.AddDate(0, -1, 0), false),
	}

	groups := GroupByDay(in, now)
	require.Len(t, groups, 4)
	assert.Equal(t, GroupToday, groups[0].Name)
	assert.Equal(t, []string{"today", "midnight"}, ids(groups[0].Items))
	assert.Equal(t, GroupYesterday, groups[1].Name)
	assert.Equal(t, GroupLastWeek, groups[2].Name)
	assert.Equal(t, []string{"three-days"}, ids(groups[2].Items))
	assert.Equal(t, GroupOlder, groups[3].Name)
}

func TestGroupByDaySkipsEmptyGroups(t *testing.T) {
	groups := GroupByDay([]model.Notification{notif("a", now.AddDate(-1, 0, 0), true)}, now)
	require.Len(t, groups, 1)
	assert.Equal(t, GroupOlder, groups[0].Name)

	assert.Empty(t, GroupByDay(nil, now))
}

func TestOnDayAndUnreadCount(t *testing.T) {
	in := []model.Notification{
		notif("a", now, false),
		notif("b", now.AddDate(0, 0, -1), true),
		notif("c", now.Add(-time.Hour), true),
	}
	assert.Equal(t, []string{"a", "c"}, ids(OnDay(in, now)))
	assert.Equal(t, 1, UnreadCount(in))
}

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	owner   bool
	replies [][]model.Notification
	err     error
}

func (f *fakeFetcher) ListNotifications(ctx context.Context, owner bool) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.owner = owner
	if f.err != nil {
		return nil, f.err
	}
	if len(f.replies) == 0 {
		return nil, nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

func TestPollerRefreshKeepsLastGoodList(t *testing.T) {
	f := &fakeFetcher{replies: [][]model.Notification{{
		notif("a", now, true),
		notif("b", now.Add(-time.Minute), false),
	}}}
	p := NewPoller(f, true, time.Minute, logger.Nop())

	var gotUnread int
	p.OnChange(func(items []model.Notification, unread int) { gotUnread = unread })

	items, err := p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(items))
	assert.Equal(t, 1, gotUnread)
	assert.True(t, f.owner)

	f.err = errors.New("offline")
	items, err = p.Refresh(context.Background())
	assert.Error(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, p.Unread())
}

func TestPollerNonPositiveIntervalUsesDefault(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		p := NewPoller(&fakeFetcher{}, false, d, logger.Nop())
		assert.Equal(t, DefaultInterval, p.interval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() { NewPoller(&fakeFetcher{}, false, 0, logger.Nop()).Run(ctx) })
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	f := &fakeFetcher{}
	p := NewPoller(f, false, 5*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.calls >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestFeedBoundedNewestFirst(t *testing.T) {
	f := NewFeed(2)
	f.Add(model.StatusChange{UserID: "u1", OrderID: "1", Status: "accepted"})
	f.Add(model.StatusChange{UserID: "u1", OrderID: "1", Status: "packed"})
	f.Add(model.StatusChange{UserID: "u1", OrderID: "1", Status: "shipped"})
	f.Add(model.StatusChange{UserID: "u2", OrderID: "2", Status: "pending"})
	f.Add(model.StatusChange{OrderID: "3", Status: "pending"})

	got := f.List("u1")
	require.Len(t, got, 2)
	assert.Equal(t, "shipped", got[0].Status)
	assert.Equal(t, "packed", got[1].Status)
	assert.Len(t, f.List("u2"), 1)
	assert.Empty(t, f.List(""))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Order #SF-12 is now shipped",
		Message(model.StatusChange{OrderID: "abc", OrderNumber: "SF-12", Status: "Shipped"}))
	assert.Equal(t, "Order #abc is now cancelled: out of stock",
		Message(model.StatusChange{OrderID: "abc", Status: "cancelled", Reason: "out of stock"}))
}
