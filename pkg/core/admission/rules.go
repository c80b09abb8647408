package admission

import (
	"time"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

const (
	// StudentsPerInstructor caps the number of student slots each available
	// instructor opens up on a day.
	StudentsPerInstructor = 4

	// BookingWindow is how far ahead of the flying day a student may sign up.
	BookingWindow = 7 * 24 * time.Hour

	// weekendCutoffLead is the gap between the start of the flying day and
	// the moment weekend slots open up for everyone: 30h before a Saturday
	// midnight is Thursday 18:00. The rule is applied literally to Sunday
	// days too (giving Friday 18:00); whether Sunday should share the
	// Thursday moment is a product decision that has not been taken.
	weekendCutoffLead = 30 * time.Hour
)

// Outcome is the terminal state of one signup after rule evaluation:
// accepted, or rejected with exactly one reason.
type Outcome struct {
	Accepted bool
	Reason   model.Reason
}

func accepted() Outcome { return Outcome{Accepted: true} }
func rejected(r model.Reason) Outcome { return Outcome{Reason: r} }

// dayContext carries the per-day facts shared by all rules.
type dayContext struct {
	day                  model.Day
	instructorsAvailable int
	weeks                WeeklyAggregate
	earliestSignup       time.Time // day date minus the booking window
	weekendCutoff        time.Time
	weekend              bool
}

// A rule rejects a student signup with a reason, or passes it on to the
// next rule. ordinal is the signup's 1-based position in signed-up order
// and counts every student on the day, including ones rejected by earlier
// rules.
type rule struct {
	name     string
	evaluate func(ctx *dayContext, s model.Signup, ordinal int) (model.Reason, bool)
}

// studentRules in evaluation order; the first matching rule wins.
var studentRules = []rule{
	{
		// No instructors offered to fly: no student flies.
		name: "instructors-available",
		evaluate: func(ctx *dayContext, _ model.Signup, _ int) (model.Reason, bool) {
			if ctx.instructorsAvailable == 0 {
				return model.ReasonInstructorsUnavailable, true
			}
			return "", false
		},
	},
	{
		// Students may only book within the 7-day-ahead window.
		name: "booking-window",
		evaluate: func(ctx *dayContext, s model.Signup, _ int) (model.Reason, bool) {
			if s.SignedUpAt.Before(ctx.earliestSignup) {
				return model.ReasonBookedTooEarly, true
			}
			return "", false
		},
	},
	{
		// Each available instructor opens a fixed number of student slots.
		// The ordinal deliberately counts earlier-rejected students too.
		name: "instructor-capacity",
		evaluate: func(ctx *dayContext, _ model.Signup, ordinal int) (model.Reason, bool) {
			if ordinal > ctx.instructorsAvailable*StudentsPerInstructor {
				return model.ReasonDayFull, true
			}
			return "", false
		},
	},
	{
		// A student holding multiple signups in the same ISO week keeps only
		// the priority one on weekend days booked before the cutoff. Pushes
		// students toward weekday bookings.
		name: "weekend-quota",
		evaluate: func(ctx *dayContext, s model.Signup, _ int) (model.Reason, bool) {
			if !ctx.weekend || !s.SignedUpAt.Before(ctx.weekendCutoff) {
				return "", false
			}
			key := NewWeekKey(s.MemberID, ctx.day.Date)
			if len(ctx.weeks.Entries(key)) < 2 {
				return "", false
			}
			if priority, ok := ctx.weeks.Priority(key); ok && priority.DayID == s.DayID {
				return "", false
			}
			return model.ReasonWeekendQuota, true
		},
	},
}

// evaluateSignup runs the ordered rules, stopping at the first match.
func evaluateSignup(ctx *dayContext, s model.Signup, ordinal int) Outcome {
	for _, r := range studentRules {
		if reason, matched := r.evaluate(ctx, s, ordinal); matched {
			return rejected(reason)
		}
	}
	return accepted()
}
