package sessions

import (
	"strconv"
	"strings"
	"time"
)

// Session is a scheduled live class for one service. Date carries the
// calendar day; StartTime is "HH:MM" in the reference timezone. Published
// sessions are only ever toggled via IsActive, never edited.
type Session struct {
	ID        int64
	Service   string
	Date      time.Time
	StartTime string
	Title     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Instant resolves Date+StartTime to a single instant in loc. ok is false
// when StartTime is not a valid HH:MM clock; such records are ineligible for
// scheduling but must not break it.
func (s Session) Instant(loc *time.Location) (time.Time, bool) {
	hh, mm, ok := parseClock(s.StartTime)
	if !ok {
		return time.Time{}, false
	}
	y, m, d := s.Date.Date()
	return time.Date(y, m, d, hh, mm, 0, 0, loc), true
}

func parseClock(v string) (hh, mm int, ok bool) {
	h, m, found := strings.Cut(v, ":")
	if !found || len(h) != 2 || len(m) != 2 {
		return 0, 0, false
	}
	hh, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, false
	}
	mm, err = strconv.Atoi(m)
	if err != nil {
		return 0, 0, false
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, 0, false
	}
	return hh, mm, true
}
