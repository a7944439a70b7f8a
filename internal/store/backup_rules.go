package store

import "time"

// RecordOnce returns the value a record-once milestone should hold after
// date is reported. changed is false when cur was already set.
func RecordOnce(cur *time.Time, date time.Time) (next *time.Time, changed bool) {
	if cur != nil {
		return cur, false
	}
	t := normalize(date)
	return &t, true
}

// Advance returns the value a monotonic milestone should hold after date is
// reported: date if cur is unset or earlier, cur otherwise. It never clears.
func Advance(cur *time.Time, date time.Time) (next *time.Time, changed bool) {
	if cur != nil && !date.After(*cur) {
		return cur, false
	}
	t := normalize(date)
	return &t, true
}

// normalize drops the monotonic reading and location so stored dates compare
// the same after a round trip through disk.
func normalize(t time.Time) time.Time { return t.Round(0).UTC() }
