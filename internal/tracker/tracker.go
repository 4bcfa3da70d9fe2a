// Package tracker owns the recurring timers behind the "next session"
// countdown. The value shown to users only has minute precision, so the
// countdown is re-derived once a minute; re-selecting the next session from
// the database is much rarer (the pick only changes when a session starts or
// the schedule is edited), so that runs on its own hourly cadence. Both
// timers stop with the context: the tracker never outlives the process
// lifecycle that started it.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmrivas/tradeacademy/internal/domain/sessions"
)

const (
	DefaultRefreshEvery  = time.Minute
	DefaultReselectEvery = time.Hour
)

type Store interface {
	ListActive(ctx context.Context, service string) ([]sessions.Session, error)
}

type Notifier interface {
	SessionStartingSoon(ctx context.Context, s sessions.Session, at time.Time) error
}

type Options struct {
	Store         Store
	Location      *time.Location
	Log           *slog.Logger
	Notifier      Notifier          // optional
	Gauge         prometheus.Gauge  // optional, seconds to next session
	Now           func() time.Time  // defaults to time.Now
	RefreshEvery  time.Duration     // defaults to DefaultRefreshEvery
	ReselectEvery time.Duration     // defaults to DefaultReselectEvery
	ReminderLead  time.Duration     // 0 disables reminders
}

type Tracker struct {
	opts Options

	mu        sync.Mutex
	next      *sessions.Session
	nextAt    time.Time
	countdown sessions.Countdown
	reminded  map[int64]bool
}

func New(opts Options) *Tracker {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RefreshEvery <= 0 {
		opts.RefreshEvery = DefaultRefreshEvery
	}
	if opts.ReselectEvery <= 0 {
		opts.ReselectEvery = DefaultReselectEvery
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Tracker{
		opts:     opts,
		reminded: make(map[int64]bool),
	}
}

// Run blocks until ctx is cancelled. Both tickers are released on every exit
// path.
func (t *Tracker) Run(ctx context.Context) error {
	t.reselect(ctx)
	t.refresh(ctx)

	refresh := time.NewTicker(t.opts.RefreshEvery)
	defer refresh.Stop()
	reselect := time.NewTicker(t.opts.ReselectEvery)
	defer reselect.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-reselect.C:
			t.reselect(ctx)
			t.refresh(ctx)
		case <-refresh.C:
			t.refresh(ctx)
		}
	}
}

// Snapshot returns the current pick and its countdown. ok is false when no
// future session is scheduled; callers render "dates to be announced" then,
// never a zeroed countdown.
func (t *Tracker) Snapshot() (sessions.Session, sessions.Countdown, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.next == nil {
		return sessions.Session{}, sessions.Countdown{}, false
	}
	return *t.next, t.countdown, true
}

func (t *Tracker) reselect(ctx context.Context) {
	recs, err := t.opts.Store.ListActive(ctx, "")
	if err != nil {
		if ctx.Err() == nil && t.opts.Log != nil {
			t.opts.Log.Error("tracker: session reload failed", "err", err)
		}
		return
	}
	now := t.opts.Now()
	next := sessions.SelectNext(recs, now, t.opts.Location)

	t.mu.Lock()
	t.next = next
	if next != nil {
		t.nextAt, _ = next.Instant(t.opts.Location)
	}
	t.mu.Unlock()
}

func (t *Tracker) refresh(ctx context.Context) {
	now := t.opts.Now()

	t.mu.Lock()
	// the pick may have started since the last hourly reselect; drop it
	// rather than freeze at zero
	if t.next != nil && !t.nextAt.After(now) {
		t.next = nil
	}
	next := t.next
	nextAt := t.nextAt
	if next != nil {
		t.countdown = sessions.ComputeCountdown(nextAt, now)
	} else {
		t.countdown = sessions.Countdown{}
	}
	t.mu.Unlock()

	if t.opts.Gauge != nil {
		if next != nil {
			t.opts.Gauge.Set(nextAt.Sub(now).Seconds())
		} else {
			t.opts.Gauge.Set(0)
		}
	}

	if next != nil && t.opts.Notifier != nil && t.opts.ReminderLead > 0 {
		t.maybeRemind(ctx, *next, nextAt, now)
	}
}

func (t *Tracker) maybeRemind(ctx context.Context, s sessions.Session, at, now time.Time) {
	t.mu.Lock()
	sent := t.reminded[s.ID]
	t.mu.Unlock()
	if sent || now.Before(at.Add(-t.opts.ReminderLead)) {
		return
	}
	if err := t.opts.Notifier.SessionStartingSoon(ctx, s, at); err != nil {
		if t.opts.Log != nil {
			t.opts.Log.Error("tracker: reminder failed", "session_id", s.ID, "err", err)
		}
		return
	}
	t.mu.Lock()
	t.reminded[s.ID] = true
	t.mu.Unlock()
}
