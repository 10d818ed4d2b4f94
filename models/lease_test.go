package models_test

import (
	"testing"
	"time"

	"github.com/mattobell/dealer_backend/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLeaseTermMonths(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"one year", date(2025, time.January, 1), date(2026, time.January, 1), 12},
		{"three months", date(2025, time.March, 15), date(2025, time.June, 15), 3},
		{"same month", date(2025, time.March, 1), date(2025, time.March, 28), 0},
		{"year boundary", date(2025, time.November, 1), date(2026, time.February, 1), 3},
		{"end before start", date(2025, time.June, 1), date(2025, time.January, 1), 0},
		{"zero start", time.Time{}, date(2025, time.June, 1), 0},
		{"zero end", date(2025, time.June, 1), time.Time{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := models.LeaseTermMonths(tc.start, tc.end); got != tc.want {
				t.Fatalf("LeaseTermMonths = %d, want %d", got, tc.want)
			}
		})
	}
}
