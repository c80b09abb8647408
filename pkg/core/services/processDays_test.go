package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idegeus/zweefbot/internal/config"
	"github.com/idegeus/zweefbot/pkg/clients/zweefclient"
	"github.com/idegeus/zweefbot/pkg/core/model"
)

func processConfig() *config.Config {
	return &config.Config{
		ClubName:  "ZCNK",
		StatusURL: "https://status.example.com",
	}
}

func studentOn(memberID, dayID int, signedUpAt string) model.Signup {
	return model.Signup{
		MemberID:   memberID,
		DayID:      dayID,
		Confirmed:  true,
		SignedUpAt: mustTime(signedUpAt),
		Groups:     []string{model.GroupSoloStudent},
	}
}

func instructorOn(memberID, dayID int) model.Signup {
	return model.Signup{
		MemberID:            memberID,
		DayID:               dayID,
		Confirmed:           true,
		SignedUpAt:          mustTime("2026-03-01 08:00"),
		WantsInstructorRole: true,
		Groups:              []string{model.GroupInstructor},
	}
}

func weekendBatchSource() *mockDaySource {
	saturday := model.Day{ID: 7, Date: mustDate("2026-03-07"), FlyingDay: true}
	sunday := model.Day{ID: 8, Date: mustDate("2026-03-08"), FlyingDay: true}

	return &mockDaySource{
		days: []model.Day{saturday, sunday},
		details: map[int]*zweefclient.DayDetails{
			7: {
				Signups: []model.Signup{
					instructorOn(301, 7),
					studentOn(201, 7, "2026-03-01 12:00"),
					studentOn(202, 7, "2026-03-01 13:00"),
				},
				Messages: []model.DayMessage{
					{ID: 54, Text: "Briefing om 09:00 in de hangar"},
					{ID: 55, Text: "Vandaag: 3 pax, zie https://status.example.com (1234)."},
				},
			},
			8: {
				Signups: []model.Signup{
					instructorOn(301, 8),
					studentOn(201, 8, "2026-03-01 10:00"),
				},
			},
		},
	}
}

func weekendBatchDirectory() *mockDirectory {
	return &mockDirectory{members: []model.Member{
		{ID: 201, FirstName: "Anna", LastName: "de Vries", Email: "anna@example.com"},
		{ID: 202, FirstName: "Bram", LastName: "Jansen", Email: "bram@example.com"},
		{ID: 301, FirstName: "Cees", LastName: "Bakker", Email: "cees@example.com"},
	}}
}

func runProcessDays(t *testing.T, source *mockDaySource, directory *mockDirectory, sink *mockRemovalSink, notifier *mockNotifier, messages *mockMessageSink, opts ProcessOptions) (*ProcessResult, error) {
	t.Helper()
	bookings := &mockBookingSource{slots: map[string][]model.BookingSlot{
		"2026-03-07": {{ID: 1, Title: "Ochtend", Bookings: 3}},
	}}
	if opts.Now.IsZero() {
		opts.Now = mustTime("2026-03-04 12:00")
	}
	return ProcessDays(context.Background(), source, directory, sink, notifier, bookings, messages, processConfig(), zap.NewNop(), opts)
}

// A student booked on both weekend days keeps only the priority day. The
// priority is on Sunday here while Saturday is processed first, so the
// Saturday removal proves the weekly aggregate spans the whole batch
// before any day's rules run.
func TestProcessDaysWeekendQuotaAcrossDays(t *testing.T) {
	source := weekendBatchSource()
	sink := &mockRemovalSink{}
	notifier := &mockNotifier{}
	messages := &mockMessageSink{}

	result, err := runProcessDays(t, source, weekendBatchDirectory(), sink, notifier, messages, ProcessOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, result.DaysTotal)
	assert.Equal(t, 2, result.DaysProcessed)
	assert.Empty(t, result.SkippedDays)

	require.Len(t, result.Removed, 1)
	assert.Equal(t, 201, result.Removed[0].MemberID)
	assert.Equal(t, 7, result.Removed[0].DayID)
	assert.Equal(t, model.ReasonWeekendQuota, result.Removed[0].Reason)
	assert.Equal(t, []removalCall{{dayID: 7, memberID: 201}}, sink.calls)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "anna@example.com", notifier.sent[0].to)
	assert.Contains(t, notifier.sent[0].subject, "zaterdag 7 maart")
}

func TestProcessDaysReusesExistingDayMessage(t *testing.T) {
	source := weekendBatchSource()
	messages := &mockMessageSink{}

	result, err := runProcessDays(t, source, weekendBatchDirectory(), &mockRemovalSink{}, &mockNotifier{}, messages, ProcessOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, result.MessagesSet)

	require.Len(t, messages.upserts, 2)
	assert.Equal(t, 7, messages.upserts[0].dayID)
	assert.Equal(t, 55, messages.upserts[0].messageID, "Saturday replaces its existing message")
	assert.Equal(t, 8, messages.upserts[1].dayID)
	assert.Zero(t, messages.upserts[1].messageID, "Sunday gets a fresh message")
	assert.Contains(t, messages.upserts[0].text, "3 pax")
	assert.Contains(t, messages.upserts[1].text, "0 pax")
}

func TestProcessDaysSkipsDayOnFetchError(t *testing.T) {
	source := weekendBatchSource()
	source.detailsErr = map[int]error{7: fmt.Errorf("request failed: %w", errors.New("status 500"))}
	sink := &mockRemovalSink{}

	result, err := runProcessDays(t, source, weekendBatchDirectory(), sink, &mockNotifier{}, &mockMessageSink{}, ProcessOptions{})

	require.NoError(t, err)
	require.Len(t, result.SkippedDays, 1)
	assert.Equal(t, 7, result.SkippedDays[0].DayID)
	assert.Equal(t, 1, result.DaysProcessed)

	// Without the Saturday roster there is only one signup in the week,
	// so nothing gets removed on Sunday.
	assert.Empty(t, result.Removed)
	assert.Empty(t, sink.calls)
}

func TestProcessDaysAbortsOnMalformedPayload(t *testing.T) {
	source := weekendBatchSource()
	source.detailsErr = map[int]error{7: fmt.Errorf("decode day: %w", zweefclient.ErrMalformedResponse)}
	sink := &mockRemovalSink{}

	result, err := runProcessDays(t, source, weekendBatchDirectory(), sink, &mockNotifier{}, &mockMessageSink{}, ProcessOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, zweefclient.ErrMalformedResponse)
	assert.Nil(t, result)
	assert.Empty(t, sink.calls)
}

func TestProcessDaysFailsOnDayListError(t *testing.T) {
	source := &mockDaySource{daysErr: errors.New("status 503")}

	result, err := runProcessDays(t, source, weekendBatchDirectory(), &mockRemovalSink{}, &mockNotifier{}, &mockMessageSink{}, ProcessOptions{})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestProcessDaysFailsOnDirectoryError(t *testing.T) {
	source := weekendBatchSource()
	directory := &mockDirectory{err: errors.New("status 503")}

	result, err := runProcessDays(t, source, directory, &mockRemovalSink{}, &mockNotifier{}, &mockMessageSink{}, ProcessOptions{})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestProcessDaysDryRunHasNoExternalEffect(t *testing.T) {
	source := weekendBatchSource()
	sink := &mockRemovalSink{}
	notifier := &mockNotifier{}
	messages := &mockMessageSink{}

	result, err := runProcessDays(t, source, weekendBatchDirectory(), sink, notifier, messages, ProcessOptions{DryRun: true})

	require.NoError(t, err)
	require.Len(t, result.Removed, 1, "decisions are still evaluated")
	assert.Empty(t, sink.calls)
	assert.Empty(t, notifier.sent)
	assert.Empty(t, messages.upserts)
}

func TestProcessDaysReportsFailedMessage(t *testing.T) {
	source := weekendBatchSource()
	messages := &mockMessageSink{err: errors.New("status 500")}

	result, err := runProcessDays(t, source, weekendBatchDirectory(), &mockRemovalSink{}, &mockNotifier{}, messages, ProcessOptions{})

	require.NoError(t, err)
	assert.Zero(t, result.MessagesSet)
	require.Len(t, result.FailedMessages, 2)
	assert.Equal(t, 2, result.DaysProcessed, "message failures do not stop the batch")
}
