package services

import (
	"fmt"
	"time"
)

// Member-facing dates are rendered in Dutch ("zaterdag 7 maart"); Go has no
// locale-aware time formatting, so the tables live here.
var dutchWeekdays = map[time.Weekday]string{
	time.Monday:    "maandag",
	time.Tuesday:   "dinsdag",
	time.Wednesday: "woensdag",
	time.Thursday:  "donderdag",
	time.Friday:    "vrijdag",
	time.Saturday:  "zaterdag",
	time.Sunday:    "zondag",
}

var dutchMonths = map[time.Month]string{
	time.January:   "januari",
	time.February:  "februari",
	time.March:     "maart",
	time.April:     "april",
	time.May:       "mei",
	time.June:      "juni",
	time.July:      "juli",
	time.August:    "augustus",
	time.September: "september",
	time.October:   "oktober",
	time.November:  "november",
	time.December:  "december",
}

// FormatDutchDate renders a date the way members expect it in emails.
func FormatDutchDate(t time.Time) string {
	return fmt.Sprintf("%s %d %s", dutchWeekdays[t.Weekday()], t.Day(), dutchMonths[t.Month()])
}
