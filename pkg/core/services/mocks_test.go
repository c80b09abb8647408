package services

import (
	"context"
	"fmt"
	"time"

	"github.com/idegeus/zweefbot/pkg/clients/zweefclient"
	"github.com/idegeus/zweefbot/pkg/core/model"
)

// Shared mocks for the service tests, implementing the narrow interfaces
// the services depend on.

type mockDaySource struct {
	days       []model.Day
	daysErr    error
	details    map[int]*zweefclient.DayDetails
	detailsErr map[int]error
	fetched    []int
}

func (m *mockDaySource) ListDays(ctx context.Context) ([]model.Day, error) {
	if m.daysErr != nil {
		return nil, m.daysErr
	}
	return m.days, nil
}

func (m *mockDaySource) GetDaySignups(ctx context.Context, dayID int) (*zweefclient.DayDetails, error) {
	m.fetched = append(m.fetched, dayID)
	if err, ok := m.detailsErr[dayID]; ok {
		return nil, err
	}
	details, ok := m.details[dayID]
	if !ok {
		return &zweefclient.DayDetails{}, nil
	}
	return details, nil
}

type mockDirectory struct {
	members []model.Member
	err     error
}

func (m *mockDirectory) ListAccounts(ctx context.Context) ([]model.Member, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.members, nil
}

type removalCall struct {
	dayID    int
	memberID int
}

type mockRemovalSink struct {
	calls   []removalCall
	failFor map[removalCall]error
}

func (m *mockRemovalSink) RemoveSignup(ctx context.Context, dayID, memberID int) error {
	call := removalCall{dayID: dayID, memberID: memberID}
	m.calls = append(m.calls, call)
	if err, ok := m.failFor[call]; ok {
		return err
	}
	return nil
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

type mockNotifier struct {
	sent    []sentEmail
	failFor map[string]error // keyed by recipient address
}

func (m *mockNotifier) SendEmail(to, subject, body string) error {
	if err, ok := m.failFor[to]; ok {
		return err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

type mockBookingSource struct {
	slots map[string][]model.BookingSlot // keyed by date
	err   error
}

func (m *mockBookingSource) GetDaySlots(ctx context.Context, day time.Time) ([]model.BookingSlot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.slots[day.Format("2006-01-02")], nil
}

type upsertCall struct {
	dayID     int
	messageID int
	text      string
}

type mockMessageSink struct {
	upserts []upsertCall
	nextID  int
	err     error
}

func (m *mockMessageSink) UpsertDayMessage(ctx context.Context, dayID, messageID int, date time.Time, text string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.upserts = append(m.upserts, upsertCall{dayID: dayID, messageID: messageID, text: text})
	if messageID != 0 {
		return messageID, nil
	}
	m.nextID++
	return m.nextID, nil
}

func mustDate(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(fmt.Sprintf("invalid test date %q", value))
	}
	return parsed
}

func mustTime(value string) time.Time {
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(fmt.Sprintf("invalid test time %q", value))
	}
	return parsed
}
