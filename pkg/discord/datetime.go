package discord

import (
	"strings"
	"time"

	"eventbot/internal/domain"
)

var (
	dateLayouts = []string{"02.01.2006", "2.1.2006", "02/01/2006", "2/1/2006"}
	timeLayouts = []string{"15:04", "15h04", "15.04"}
)

// ParseEventDate parses a date (DD.MM.YYYY or DD/MM/YYYY) and an optional time (HH:MM) in loc.
// withTime is false for a date-only value. Both empty yields the zero time.
func ParseEventDate(dateStr, timeStr string, loc *time.Location) (t time.Time, withTime bool, err error) {
	dateStr = strings.TrimSpace(dateStr)
	timeStr = strings.TrimSpace(timeStr)
	if dateStr == "" {
		if timeStr != "" {
			return time.Time{}, false, domain.ErrInvalidDate
		}
		return time.Time{}, false, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	d, ok := parseAny(dateLayouts, dateStr)
	if !ok {
		return time.Time{}, false, domain.ErrInvalidDate
	}
	if timeStr == "" {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), false, nil
	}
	hm, ok := parseAny(timeLayouts, timeStr)
	if !ok {
		return time.Time{}, false, domain.ErrInvalidDate
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hm.Hour(), hm.Minute(), 0, 0, loc), true, nil
}

func parseAny(layouts []string, s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
