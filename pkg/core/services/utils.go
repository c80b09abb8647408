package services

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

// filterFlyingDays keeps the days the bot manages: flying days that are not
// in the past, within the lookahead horizon (0 = unbounded) and not matched
// by a skip rule. The result is sorted ascending by date.
func filterFlyingDays(days []model.Day, now time.Time, lookaheadDays int, skipRules []*rrule.RRule) []model.Day {
	yesterday := now.Add(-24 * time.Hour)
	horizon := now.AddDate(0, 0, lookaheadDays)

	filtered := make([]model.Day, 0, len(days))
	for _, day := range days {
		if !day.FlyingDay {
			continue
		}
		if !day.Date.After(yesterday) {
			continue
		}
		if lookaheadDays > 0 && day.Date.After(horizon) {
			continue
		}
		if matchesSkipRule(day.Date, skipRules) {
			continue
		}
		filtered = append(filtered, day)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(filtered[j].Date)
	})
	return filtered
}

// matchesSkipRule reports whether any skip rule has an occurrence on the
// given calendar day.
func matchesSkipRule(date time.Time, skipRules []*rrule.RRule) bool {
	dayStart := date
	dayEnd := date.Add(24*time.Hour - time.Nanosecond)
	for _, rule := range skipRules {
		if len(rule.Between(dayStart, dayEnd, true)) > 0 {
			return true
		}
	}
	return false
}
