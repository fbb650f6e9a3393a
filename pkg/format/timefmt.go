package format

import (
	"fmt"
	"time"
)

// TimeOptions controls FormatTime.
type TimeOptions struct {
	OmitDate     bool
	Milliseconds bool
	Use12Hour    bool
}

// FormatTime renders t in local time as "2006-01-02 15:04:05" by default.
func FormatTime(t time.Time, opts TimeOptions) string {
	t = t.Local()

	hour := t.Hour()
	suffix := ""
	if opts.Use12Hour {
		suffix = " AM"
		if hour >= 12 {
			suffix = " PM"
		}
		hour %= 12
		if hour == 0 {
			hour = 12
		}
	}

	s := fmt.Sprintf("%02d:%02d:%02d", hour, t.Minute(), t.Second())
	if !opts.OmitDate {
		s = fmt.Sprintf("%04d-%02d-%02d ", t.Year(), int(t.Month()), t.Day()) + s
	}
	if opts.Milliseconds {
		s += fmt.Sprintf(".%03d", t.Nanosecond()/int(time.Millisecond))
	}
	return s + suffix
}
