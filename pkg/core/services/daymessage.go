package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

// dayMessagePrefix marks the bot's own status messages on a day's notice
// board, both for composing and for recognising them on a later run.
const dayMessagePrefix = "Vandaag:"

// BookingSource provides the external passenger booking slots for a day.
type BookingSource interface {
	GetDaySlots(ctx context.Context, day time.Time) ([]model.BookingSlot, error)
}

// MessageSink maintains the single outward-facing status message per day.
type MessageSink interface {
	UpsertDayMessage(ctx context.Context, dayID, messageID int, date time.Time, text string) (int, error)
}

// findBotMessage returns the ID of the day's existing status message, if any.
func findBotMessage(messages []model.DayMessage) (int, bool) {
	for _, message := range messages {
		if strings.Contains(message.Text, dayMessagePrefix) {
			return message.ID, true
		}
	}
	return 0, false
}

// composeDayMessage builds the status line for a day from its booking
// slots. The random token keeps repeated messages visually distinct in
// the feed.
func composeDayMessage(slots []model.BookingSlot, statusURL string) string {
	total := 0
	for _, slot := range slots {
		total += slot.Bookings
	}
	token := 1000 + rand.Intn(9000)
	return fmt.Sprintf("%s %d pax, zie %s (%d).", dayMessagePrefix, total, statusURL, token)
}

// BroadcastDayMessage aggregates the day's external bookings into one
// status message and upserts it, replacing the existing message when
// existingID is non-zero so each day carries at most one live message.
func BroadcastDayMessage(
	ctx context.Context,
	bookings BookingSource,
	sink MessageSink,
	day model.Day,
	existingID int,
	statusURL string,
	logger *zap.Logger,
	dryRun bool,
) (int, error) {
	slots, err := bookings.GetDaySlots(ctx, day.Date)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch booking slots: %w", err)
	}

	text := composeDayMessage(slots, statusURL)
	logger.Debug("Composed day message",
		zap.Int("day_id", day.ID),
		zap.String("text", text))

	if dryRun {
		logger.Info("Dry run: day message not sent",
			zap.Int("day_id", day.ID),
			zap.String("text", text))
		return existingID, nil
	}

	messageID, err := sink.UpsertDayMessage(ctx, day.ID, existingID, day.Date, text)
	if err != nil {
		return 0, fmt.Errorf("failed to set day message: %w", err)
	}
	return messageID, nil
}
