package sessions

import (
	"sort"
	"time"
)

// Countdown is the floored days/hours/minutes left until a session. All
// fields are zero once the instant has passed; there is no seconds field and
// nothing is ever rounded up past the true start.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// ComputeCountdown breaks target-now into whole days, then hours (0-23),
// then minutes (0-59), discarding the sub-minute remainder.
func ComputeCountdown(target, now time.Time) Countdown {
	d := target.Sub(now)
	if d <= 0 {
		return Countdown{}
	}
	return Countdown{
		Days:    int(d / (24 * time.Hour)),
		Hours:   int(d % (24 * time.Hour) / time.Hour),
		Minutes: int(d % time.Hour / time.Minute),
	}
}

// SelectNext returns the earliest active session strictly after now, or nil
// when none is scheduled ("dates to be announced"). Sessions with an
// unparseable start time are skipped. Equal instants are ordered by ID so
// the pick is reproducible.
func SelectNext(records []Session, now time.Time, loc *time.Location) *Session {
	type candidate struct {
		s  Session
		at time.Time
	}
	var cands []candidate
	for _, s := range records {
		if !s.IsActive {
			continue
		}
		at, ok := s.Instant(loc)
		if !ok || !at.After(now) {
			continue
		}
		cands = append(cands, candidate{s: s, at: at})
	}
	if len(cands) == 0 {
		return nil
	}
	sort.Slice(cands, func(i, j int) bool {
		if !cands[i].at.Equal(cands[j].at) {
			return cands[i].at.Before(cands[j].at)
		}
		return cands[i].s.ID < cands[j].s.ID
	})
	next := cands[0].s
	return &next
}
