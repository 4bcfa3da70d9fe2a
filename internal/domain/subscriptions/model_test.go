package subscriptions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsSubscribed(t *testing.T) {
	now := time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)
	endIn := func(d time.Duration) *time.Time {
		e := now.Add(d)
		return &e
	}

	tests := []struct {
		name    string
		records []Record
		service string
		want    bool
	}{
		{
			name:    "no records",
			records: nil,
			service: "SmartMoney",
			want:    false,
		},
		{
			name:    "active non-expiring record",
			records: []Record{{Service: "SmartMoney", Active: true}},
			service: "SmartMoney",
			want:    true,
		},
		{
			name:    "record for a different service",
			records: []Record{{Service: "TraderCall", Active: true}},
			service: "SmartMoney",
			want:    false,
		},
		{
			name:    "unknown service never matches",
			records: []Record{{Service: "TraderCall", Active: true}},
			service: "NoSuchService",
			want:    false,
		},
		{
			name:    "end date exactly now is expired",
			records: []Record{{Service: "SmartMoney", Active: true, EndDate: endIn(0)}},
			service: "SmartMoney",
			want:    false,
		},
		{
			name:    "end date one second from now is valid",
			records: []Record{{Service: "SmartMoney", Active: true, EndDate: endIn(time.Second)}},
			service: "SmartMoney",
			want:    true,
		},
		{
			name:    "inactive record denies regardless of dates",
			records: []Record{{Service: "SmartMoney", Active: false}},
			service: "SmartMoney",
			want:    false,
		},
		{
			name:    "expired record denies",
			records: []Record{{Service: "SmartMoney", Active: true, EndDate: endIn(-24 * time.Hour)}},
			service: "SmartMoney",
			want:    false,
		},
		{
			name: "one valid record among expired ones suffices",
			records: []Record{
				{Service: "SmartMoney", Active: true, EndDate: endIn(-24 * time.Hour)},
				{Service: "SmartMoney", Active: true},
			},
			service: "SmartMoney",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsSubscribed(tt.records, tt.service, now)
			assert.Equal(t, tt.want, got)
			// pure function: same input, same answer
			assert.Equal(t, got, IsSubscribed(tt.records, tt.service, now))
		})
	}
}

func TestRecordGrantsStrictBoundary(t *testing.T) {
	now := time.Date(2024, 9, 15, 12, 30, 0, 0, time.UTC)

	end := now
	r := Record{Service: "CashFlow", Active: true, EndDate: &end}
	assert.False(t, r.Grants("CashFlow", now))

	end = now.Add(time.Second)
	assert.True(t, r.Grants("CashFlow", now))
}
