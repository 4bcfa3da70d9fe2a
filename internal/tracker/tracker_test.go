package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrivas/tradeacademy/internal/domain/sessions"
)

type stubStore struct {
	mu   sync.Mutex
	recs []sessions.Session
	err  error
}

func (s *stubStore) ListActive(context.Context, string) ([]sessions.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recs, s.err
}

func (s *stubStore) set(recs []sessions.Session) {
	s.mu.Lock()
	s.recs = recs
	s.mu.Unlock()
}

type stubNotifier struct {
	mu    sync.Mutex
	calls []int64
}

func (n *stubNotifier) SessionStartingSoon(_ context.Context, s sessions.Session, _ time.Time) error {
	n.mu.Lock()
	n.calls = append(n.calls, s.ID)
	n.mu.Unlock()
	return nil
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func mkSession(id int64, date, startTime string) sessions.Session {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return sessions.Session{ID: id, Service: "TraderCall", Date: d, StartTime: startTime, IsActive: true}
}

type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.cur = c.cur.Add(d)
	c.mu.Unlock()
}

func TestTrackerPicksAndCountsDown(t *testing.T) {
	clock := &fakeClock{cur: time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)}
	store := &stubStore{recs: []sessions.Session{
		mkSession(1, "2024-09-01", "09:00"), // past
		mkSession(2, "2024-10-11", "13:00"),
	}}
	trk := New(Options{Store: store, Location: time.UTC, Now: clock.now})

	ctx := context.Background()
	trk.reselect(ctx)
	trk.refresh(ctx)

	next, cd, ok := trk.Snapshot()
	require.True(t, ok)
	assert.Equal(t, int64(2), next.ID)
	assert.Equal(t, sessions.Countdown{Days: 26, Hours: 13}, cd)

	// a minute later the countdown has moved, the pick has not
	clock.advance(time.Minute)
	trk.refresh(ctx)
	next, cd, ok = trk.Snapshot()
	require.True(t, ok)
	assert.Equal(t, int64(2), next.ID)
	assert.Equal(t, sessions.Countdown{Days: 26, Hours: 12, Minutes: 59}, cd)
}

func TestTrackerDropsStartedSession(t *testing.T) {
	clock := &fakeClock{cur: time.Date(2024, 9, 15, 8, 59, 0, 0, time.UTC)}
	store := &stubStore{recs: []sessions.Session{mkSession(1, "2024-09-15", "09:00")}}
	trk := New(Options{Store: store, Location: time.UTC, Now: clock.now})

	ctx := context.Background()
	trk.reselect(ctx)
	trk.refresh(ctx)
	_, _, ok := trk.Snapshot()
	require.True(t, ok)

	// session start passes between reselects; the minute refresh must not
	// freeze the countdown at zero
	clock.advance(2 * time.Minute)
	trk.refresh(ctx)
	_, _, ok = trk.Snapshot()
	assert.False(t, ok)
}

func TestTrackerEmptyScheduleIsNotAnError(t *testing.T) {
	clock := &fakeClock{cur: time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)}
	store := &stubStore{}
	trk := New(Options{Store: store, Location: time.UTC, Now: clock.now})

	ctx := context.Background()
	trk.reselect(ctx)
	trk.refresh(ctx)
	_, _, ok := trk.Snapshot()
	assert.False(t, ok)
}

func TestTrackerKeepsLastPickOnStoreError(t *testing.T) {
	clock := &fakeClock{cur: time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)}
	store := &stubStore{recs: []sessions.Session{mkSession(1, "2024-10-11", "13:00")}}
	trk := New(Options{Store: store, Location: time.UTC, Now: clock.now})

	ctx := context.Background()
	trk.reselect(ctx)
	trk.refresh(ctx)

	store.mu.Lock()
	store.err = errors.New("db down")
	store.mu.Unlock()

	trk.reselect(ctx)
	_, _, ok := trk.Snapshot()
	assert.True(t, ok)
}

func TestTrackerRemindsOnce(t *testing.T) {
	clock := &fakeClock{cur: time.Date(2024, 9, 15, 8, 50, 0, 0, time.UTC)}
	store := &stubStore{recs: []sessions.Session{mkSession(1, "2024-09-15", "09:00")}}
	notifier := &stubNotifier{}
	trk := New(Options{
		Store:        store,
		Location:     time.UTC,
		Now:          clock.now,
		Notifier:     notifier,
		ReminderLead: 15 * time.Minute,
	})

	ctx := context.Background()
	trk.reselect(ctx)
	trk.refresh(ctx)
	assert.Equal(t, 1, notifier.count())

	clock.advance(time.Minute)
	trk.refresh(ctx)
	assert.Equal(t, 1, notifier.count())
}

func TestTrackerRunStopsWithContext(t *testing.T) {
	clock := &fakeClock{cur: time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)}
	store := &stubStore{recs: []sessions.Session{mkSession(1, "2024-10-11", "13:00")}}
	trk := New(Options{
		Store:         store,
		Location:      time.UTC,
		Now:           clock.now,
		RefreshEvery:  5 * time.Millisecond,
		ReselectEvery: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- trk.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, _, ok := trk.Snapshot()
		return ok
	}, time.Second, time.Millisecond)

	// schedule change is picked up by the reselect ticker
	store.set([]sessions.Session{mkSession(2, "2024-10-10", "13:00")})
	require.Eventually(t, func() bool {
		next, _, ok := trk.Snapshot()
		return ok && next.ID == 2
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop on context cancellation")
	}
}
