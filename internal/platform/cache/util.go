package cache

import (
	"time"
	_ "time/tzdata"
)

var newYork, _ = time.LoadLocation("America/New_York")

// TimeUntilNextMarketOpen は次の米国市場の寄り付き（平日 9:30 ET）までの期間を返します。
// 祝日は考慮しません。
func TimeUntilNextMarketOpen(now time.Time) time.Duration {
	t := now.In(newYork)

	open := time.Date(t.Year(), t.Month(), t.Day(), 9, 30, 0, 0, newYork)
	// 今日の寄り付きが既に過ぎている場合は翌日
	if !t.Before(open) {
		open = open.AddDate(0, 0, 1)
	}
	for open.Weekday() == time.Saturday || open.Weekday() == time.Sunday {
		open = open.AddDate(0, 0, 1)
	}
	return open.Sub(now)
}
