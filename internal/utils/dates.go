package utils

import "time"

const dayKeyLayout = "2006-01-02"

// DayKey renders the date part of t in the ISO format used as the
// attendance map key and as the report column header.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

func CurrentDayKey() string {
	return DayKey(time.Now())
}

// DayKeysBack returns the day keys of the `days` consecutive days ending at
// `end`, oldest first.
func DayKeysBack(end time.Time, days int) []string {
	if days <= 0 {
		return nil
	}
	keys := make([]string, days)
	start := end.AddDate(0, 0, -(days - 1))
	for index := 0; index < days; index++ {
		keys[index] = DayKey(start.AddDate(0, 0, index))
	}
	return keys
}
