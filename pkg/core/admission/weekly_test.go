package admission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

func day(id int, date string) model.Day {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Day{ID: id, Date: parsed, FlyingDay: true}
}

func studentSignup(memberID, dayID int, signedUpAt string) model.Signup {
	parsed, err := time.Parse("2006-01-02 15:04", signedUpAt)
	if err != nil {
		panic(err)
	}
	return model.Signup{
		MemberID:       memberID,
		DayID:          dayID,
		Confirmed:      true,
		SignedUpAt:     parsed,
		Groups:         []string{model.GroupSoloStudent},
		Classification: model.ClassificationStudent,
	}
}

func instructorSignup(memberID, dayID int) model.Signup {
	return model.Signup{
		MemberID:            memberID,
		DayID:               dayID,
		Confirmed:           true,
		WantsInstructorRole: true,
		Groups:              []string{model.GroupInstructor},
		Classification:      model.ClassificationInstructorAvailable,
	}
}

func TestAggregateWeeks_GroupsByFlyingWeek(t *testing.T) {
	// 2026-03-07 is a Saturday in ISO week 10, 2026-03-08 the Sunday.
	// 2026-03-11 is the Wednesday of ISO week 11.
	rosters := []DayRoster{
		{Day: day(1, "2026-03-07"), Signups: []model.Signup{
			studentSignup(100, 1, "2026-03-03 09:00"),
			instructorSignup(900, 1),
		}},
		{Day: day(2, "2026-03-08"), Signups: []model.Signup{
			studentSignup(100, 2, "2026-03-03 10:00"),
		}},
		{Day: day(3, "2026-03-11"), Signups: []model.Signup{
			studentSignup(100, 3, "2026-03-05 08:00"),
		}},
	}

	weeks := AggregateWeeks(rosters)

	week10 := weeks.Entries(WeekKey{MemberID: 100, Week: 10})
	require.Len(t, week10, 2)

	week11 := weeks.Entries(WeekKey{MemberID: 100, Week: 11})
	require.Len(t, week11, 1)
	assert.Equal(t, 3, week11[0].DayID)

	// Instructor signups never enter the aggregate.
	assert.Empty(t, weeks.Entries(WeekKey{MemberID: 900, Week: 10}))
}

func TestPriority_EarliestSignupWins(t *testing.T) {
	rosters := []DayRoster{
		{Day: day(1, "2026-03-07"), Signups: []model.Signup{
			studentSignup(100, 1, "2026-03-03 09:00"),
		}},
		{Day: day(2, "2026-03-08"), Signups: []model.Signup{
			studentSignup(100, 2, "2026-03-03 10:00"),
		}},
	}

	weeks := AggregateWeeks(rosters)

	priority, ok := weeks.Priority(NewWeekKey(100, rosters[0].Day.Date))
	require.True(t, ok)
	assert.Equal(t, 1, priority.DayID)
}

func TestPriority_TieBrokenByLowestDayID(t *testing.T) {
	rosters := []DayRoster{
		{Day: day(7, "2026-03-07"), Signups: []model.Signup{
			studentSignup(100, 7, "2026-03-03 09:00"),
		}},
		{Day: day(4, "2026-03-08"), Signups: []model.Signup{
			studentSignup(100, 4, "2026-03-03 09:00"),
		}},
	}

	weeks := AggregateWeeks(rosters)

	priority, ok := weeks.Priority(NewWeekKey(100, rosters[0].Day.Date))
	require.True(t, ok)
	assert.Equal(t, 4, priority.DayID)
}

func TestPriority_EmptyWeek(t *testing.T) {
	weeks := AggregateWeeks(nil)

	_, ok := weeks.Priority(WeekKey{MemberID: 1, Week: 1})
	assert.False(t, ok)
}
