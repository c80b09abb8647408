package admission

import (
	"time"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

// DayRoster is one flying day together with its confirmed, classified
// signups. Rosters are the unit of work flowing between the aggregation
// pass and the rule evaluation pass.
type DayRoster struct {
	Day     model.Day
	Signups []model.Signup
}

// WeekKey groups a student's signups by the ISO week of the day being
// flown, not the week the signup was placed in.
type WeekKey struct {
	MemberID int
	Week     int
}

// WeekEntry is one signup a student holds within an ISO week.
type WeekEntry struct {
	DayID      int
	SignedUpAt time.Time
}

// WeeklyAggregate maps students to their signups per ISO week across the
// whole batch. It must be built from every day in the batch before any
// day's rules run: the weekend quota rule needs visibility into a
// student's bookings on days processed later in date order.
type WeeklyAggregate map[WeekKey][]WeekEntry

// NewWeekKey keys a student to the ISO week the given day falls in.
func NewWeekKey(memberID int, dayDate time.Time) WeekKey {
	_, week := dayDate.ISOWeek()
	return WeekKey{MemberID: memberID, Week: week}
}

// AggregateWeeks builds the cross-day weekly aggregate from all rosters in
// the batch. Only student signups participate.
func AggregateWeeks(rosters []DayRoster) WeeklyAggregate {
	weeks := make(WeeklyAggregate)
	for _, roster := range rosters {
		for _, signup := range roster.Signups {
			if signup.Classification != model.ClassificationStudent {
				continue
			}
			key := NewWeekKey(signup.MemberID, roster.Day.Date)
			weeks[key] = append(weeks[key], WeekEntry{
				DayID:      signup.DayID,
				SignedUpAt: signup.SignedUpAt,
			})
		}
	}
	return weeks
}

// Entries returns the student's signups for the given week.
func (w WeeklyAggregate) Entries(key WeekKey) []WeekEntry {
	return w[key]
}

// Priority returns the week's priority entry: the earliest signup, with
// identical timestamps broken by lowest day ID so the result is stable.
func (w WeeklyAggregate) Priority(key WeekKey) (WeekEntry, bool) {
	entries := w[key]
	if len(entries) == 0 {
		return WeekEntry{}, false
	}

	best := entries[0]
	for _, entry := range entries[1:] {
		if entry.SignedUpAt.Before(best.SignedUpAt) {
			best = entry
			continue
		}
		if entry.SignedUpAt.Equal(best.SignedUpAt) && entry.DayID < best.DayID {
			best = entry
		}
	}
	return best, true
}
