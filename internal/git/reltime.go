package git

import (
	"fmt"
	"time"
)

var now = time.Now

// relativeTime formats t the way `git log --format=%cr` does
func relativeTime(t time.Time) string {
	d := now().Sub(t)
	if d < 0 {
		return "in the future"
	}

	secs := int64(d / time.Second)
	switch {
	case secs < 90:
		return plural(secs, "second")
	case secs < 90*60:
		return plural((secs+30)/60, "minute")
	case secs < 36*3600:
		return plural((secs+1800)/3600, "hour")
	}

	days := (secs + 43200) / 86400
	switch {
	case days < 14:
		return plural(days, "day")
	case days < 70:
		return plural((days+3)/7, "week")
	case days < 365:
		return plural((days+15)/30, "month")
	}

	years := days / 365
	months := (days%365*12 + 182) / 365
	if months >= 12 {
		years++
		months -= 12
	}
	if years < 5 && months > 0 {
		return fmt.Sprintf("%s, %s", pluralNoAgo(years, "year"), plural(months, "month"))
	}
	return plural((days+183)/365, "year")
}

func plural(n int64, unit string) string {
	return pluralNoAgo(n, unit) + " ago"
}

func pluralNoAgo(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
