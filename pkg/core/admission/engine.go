package admission

import (
	"sort"
	"time"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

// DayEvaluation is the outcome of running the admission rules for one day.
type DayEvaluation struct {
	Day       model.Day
	Decisions []model.RemovalDecision
	Accepted  []model.Signup

	// Headcounts for reporting.
	Students               int
	InstructorsAvailable   int
	InstructorsUnavailable int
}

// EvaluateDay runs the ordered admission rules over one day's student
// signups and emits a removal decision per rejection. It is pure: the
// roster must already be classified and the weekly aggregate must cover
// the whole batch. Acceptance is implicit and produces no record.
func EvaluateDay(roster DayRoster, weeks WeeklyAggregate) DayEvaluation {
	students := make([]model.Signup, 0, len(roster.Signups))
	var instructorsAvailable, instructorsUnavailable int
	for _, s := range roster.Signups {
		switch s.Classification {
		case model.ClassificationStudent:
			students = append(students, s)
		case model.ClassificationInstructorAvailable:
			instructorsAvailable++
		case model.ClassificationInstructorUnavailable:
			instructorsUnavailable++
		}
	}

	// Earlier signups outrank later ones; member ID keeps equal timestamps
	// in a stable order.
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].SignedUpAt.Equal(students[j].SignedUpAt) {
			return students[i].MemberID < students[j].MemberID
		}
		return students[i].SignedUpAt.Before(students[j].SignedUpAt)
	})

	day := roster.Day
	weekday := day.Date.Weekday()
	ctx := &dayContext{
		day:                  day,
		instructorsAvailable: instructorsAvailable,
		weeks:                weeks,
		earliestSignup:       day.Date.Add(-BookingWindow),
		weekendCutoff:        day.Date.Add(-weekendCutoffLead),
		weekend:              weekday == time.Saturday || weekday == time.Sunday,
	}

	eval := DayEvaluation{
		Day:                    day,
		Students:               len(students),
		InstructorsAvailable:   instructorsAvailable,
		InstructorsUnavailable: instructorsUnavailable,
	}

	for i, s := range students {
		outcome := evaluateSignup(ctx, s, i+1)
		if outcome.Accepted {
			eval.Accepted = append(eval.Accepted, s)
			continue
		}
		eval.Decisions = append(eval.Decisions, model.RemovalDecision{
			MemberID: s.MemberID,
			DayID:    s.DayID,
			DayDate:  day.Date,
			Reason:   outcome.Reason,
		})
	}

	return eval
}
