package domain

import (
	"fmt"
	"strings"
	"time"
)

var wordUnits = []struct {
	size time.Duration
	name string
}{
	{7 * 24 * time.Hour, "week"},
	{24 * time.Hour, "day"},
	{time.Hour, "hour"},
	{time.Minute, "minute"},
	{time.Second, "second"},
}

// FormatDuration spells d out to the second, e.g. "1 hour 4 minutes 30 seconds".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "a few seconds"
	}
	d = d.Truncate(time.Second)
	parts := make([]string, 0, len(wordUnits))
	for _, u := range wordUnits {
		n := d / u.size
		if n == 0 {
			continue
		}
		d -= n * u.size
		if n == 1 {
			parts = append(parts, "1 "+u.name)
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", n, u.name))
		}
	}
	return strings.Join(parts, " ")
}
