package subscriptions

import "time"

// Record is one grant of access to a service: time-bounded for alert
// subscriptions, open-ended for one-time training purchases (EndDate == nil).
// Records are deactivated on cancellation or payment failure, never deleted.
type Record struct {
	ID        int64
	UserID    int64
	Service   string
	StartDate time.Time
	EndDate   *time.Time
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Grants reports whether the record gives access to service at the given
// instant. Expiry is strict: a record whose EndDate equals now is already
// expired.
func (r Record) Grants(service string, now time.Time) bool {
	if !r.Active || r.Service != service {
		return false
	}
	return r.EndDate == nil || r.EndDate.After(now)
}

// IsSubscribed reports whether at least one of the user's records currently
// grants access to service. An empty slice or an unknown service yields
// false; the check never fails, a broken record only denies access.
func IsSubscribed(records []Record, service string, now time.Time) bool {
	for _, r := range records {
		if r.Grants(service, now) {
			return true
		}
	}
	return false
}
