package screens

import "time"

// FormatDate renders a YYYY-MM-DD date as "Jan 2". Unparseable input is returned as is.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}

// FormatTime renders an HH:MM time as "3:04 PM". Unparseable input is returned as is.
func FormatTime(clock string) string {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return t.Format("3:04 PM")
		}
	}
	return clock
}
