package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNextMarketOpen(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load America/New_York timezone: %v", err)
	}

	tests := []struct {
		name     string
		now      time.Time
		expected time.Duration
	}{
		{"before the open", time.Date(2026, 1, 5, 8, 0, 0, 0, ny), 90 * time.Minute},
		{"exactly at the open", time.Date(2026, 1, 5, 9, 30, 0, 0, ny), 24 * time.Hour},
		{"during the session", time.Date(2026, 1, 5, 10, 0, 0, 0, ny), 23*time.Hour + 30*time.Minute},
		{"friday evening skips the weekend", time.Date(2026, 1, 9, 17, 0, 0, 0, ny), 64*time.Hour + 30*time.Minute},
		{"saturday", time.Date(2026, 1, 10, 12, 0, 0, 0, ny), 45*time.Hour + 30*time.Minute},
		{"weekend with DST start", time.Date(2026, 3, 6, 17, 0, 0, 0, ny), 63*time.Hour + 30*time.Minute},
		{"input in another zone", time.Date(2026, 1, 5, 13, 0, 0, 0, time.UTC), 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TimeUntilNextMarketOpen(tt.now)
			if got != tt.expected {
				t.Errorf("TimeUntilNextMarketOpen(%v) = %v, expected %v", tt.now, got, tt.expected)
			}
		})
	}
}

func TestTimeUntilNextMarketOpen_AlwaysPositive(t *testing.T) {
	t.Parallel()

	now := time.Now()
	for i := range 14 {
		d := TimeUntilNextMarketOpen(now.Add(time.Duration(i) * 12 * time.Hour))
		if d <= 0 || d > 4*24*time.Hour {
			t.Errorf("iteration %d: unexpected duration %v", i, d)
		}
	}
}
