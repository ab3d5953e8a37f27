package events_test

import "time"

func testDate() time.Time {
	return time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)
}
