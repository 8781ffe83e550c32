package gateway

import "time"

// Window returns the start_time range selected by f, relative to now. from
// is inclusive and to exclusive; a zero to means no upper bound. Weeks start
// on Monday.
func (f EventFilter) Window(now time.Time) (from, to time.Time) {
	from = now
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch f {
	case EventsThisWeek:
		offset := (int(day.Weekday()) + 6) % 7
		to = day.AddDate(0, 0, 7-offset)
	case EventsThisMonth:
		to = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	}
	return from, to
}

// ActiveSince is the earliest last_active_at accepted by MembersActive.
func ActiveSince(now time.Time) time.Time {
	return now.AddDate(0, 0, -ActiveWindowDays)
}
