// Package datex normalizes the date representations found in timeline data
// (ISO timestamps, day-first numeric dates, prose dates) into civil dates.
package datex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var (
	isoPrefix = regexp.MustCompile(`^(-?\d{4,})-(\d{2})-(\d{2})`)
	dayFirst  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4}|\d{2})$`)
)

var genericLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.ANSIC,
	time.UnixDate,
	time.RFC822Z,
	time.RFC822,
}

// Parse converts text into a calendar date. The second result is false when
// no supported layout matches or the date does not exist.
func Parse(text string) (civil.Date, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return civil.Date{}, false
	}

	// A trailing time part keeps its written offset, so the calendar day is
	// the ISO prefix itself.
	if m := isoPrefix.FindStringSubmatch(s); m != nil {
		return fromParts(m[1], m[2], m[3])
	}

	if m := dayFirst.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		d := civil.Date{Year: year, Month: time.Month(month), Day: day}
		if !d.IsValid() {
			return civil.Date{}, false
		}
		return d, true
	}

	return parseLayouts(s, genericLayouts)
}

func fromParts(year, month, day string) (civil.Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return civil.Date{}, false
	}
	mo, _ := strconv.Atoi(month)
	dd, _ := strconv.Atoi(day)
	d := civil.Date{Year: y, Month: time.Month(mo), Day: dd}
	if !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}

func parseLayouts(s string, layouts []string) (civil.Date, bool) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return civil.DateOf(t), true
		}
	}
	return civil.Date{}, false
}

// FormatISO renders d as zero-padded YYYY-MM-DD. Years outside 0..9999 keep
// all their digits and a leading minus when negative.
func FormatISO(d civil.Date) string {
	if d.Year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -d.Year, int(d.Month), d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// FormatDisplay renders d as DD/MM/YYYY, the layout used by local storage.
func FormatDisplay(d civil.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// ParseOrToday is Parse with unparseable input degrading to the date of now.
func ParseOrToday(text string, now time.Time) civil.Date {
	if d, ok := Parse(text); ok {
		return d
	}
	return civil.DateOf(now)
}

// Ptr parses text and returns nil on failure.
func Ptr(text string) *civil.Date {
	d, ok := Parse(text)
	if !ok {
		return nil
	}
	return &d
}
