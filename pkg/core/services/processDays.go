package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idegeus/zweefbot/internal/config"
	"github.com/idegeus/zweefbot/pkg/clients/zweefclient"
	"github.com/idegeus/zweefbot/pkg/core/admission"
	"github.com/idegeus/zweefbot/pkg/core/model"
)

// DaySource provides the club's flying days and their signup state.
type DaySource interface {
	ListDays(ctx context.Context) ([]model.Day, error)
	GetDaySignups(ctx context.Context, dayID int) (*zweefclient.DayDetails, error)
}

// AccountDirectory lists the club's member directory.
type AccountDirectory interface {
	ListAccounts(ctx context.Context) ([]model.Member, error)
}

// ProcessOptions tune one processDays run.
type ProcessOptions struct {
	// DryRun evaluates and logs decisions without touching the removal
	// sink, the notifier or the message sink.
	DryRun bool

	// Production enables the configured pacing between per-day fetches,
	// to keep load off the shared upstream servers.
	Production bool

	// Now overrides the clock; zero means time.Now(). Used in tests.
	Now time.Time
}

// ProcessResult is the full report of one run.
type ProcessResult struct {
	RunID         string
	DaysTotal     int
	DaysProcessed int

	Removed             []model.RemovalDecision
	SkippedDays         []SkippedDay
	UnknownMembers      []UnknownMemberRef
	FailedRemovals      []FailedRemoval
	FailedNotifications []FailedNotification

	MessagesSet    int
	FailedMessages []FailedMessage
}

// ProcessDays is the main batch: it fetches the upcoming flying days,
// aggregates every day's student signups per ISO week, runs the admission
// rules day by day, executes the removal decisions and refreshes each
// day's broadcast message.
//
// The two passes are a strict ordering dependency: the weekly aggregate
// must cover the whole batch before any day's rules run, because the
// weekend quota rule looks at a student's bookings on days later in date
// order. Per-day failures skip that day and the run continues; a malformed
// payload aborts the whole run since no downstream logic can be trusted.
func ProcessDays(
	ctx context.Context,
	source DaySource,
	directory AccountDirectory,
	removals RemovalSink,
	notifier Notifier,
	bookings BookingSource,
	messages MessageSink,
	cfg *config.Config,
	logger *zap.Logger,
	opts ProcessOptions,
) (*ProcessResult, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))
	logger.Info("Starting processDays",
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("production", opts.Production))

	skipRules, err := cfg.SkipRRules()
	if err != nil {
		return nil, fmt.Errorf("invalid skip rules: %w", err)
	}

	// Step 1: fetch the club calendar and narrow it to the days we manage.
	logger.Debug("Fetching days")
	days, err := source.ListDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch days: %w", err)
	}
	flyingDays := filterFlyingDays(days, now, cfg.LookaheadDays, skipRules)
	logger.Info("Filtered flying days",
		zap.Int("total", len(days)),
		zap.Int("upcoming", len(flyingDays)))

	// Step 2: fetch the member directory for notifications.
	logger.Debug("Fetching accounts")
	accounts, err := directory.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	members := make(map[int]model.Member, len(accounts))
	for _, member := range accounts {
		members[member.ID] = member
	}
	logger.Debug("Fetched accounts", zap.Int("count", len(accounts)))

	result := &ProcessResult{RunID: runID, DaysTotal: len(flyingDays)}

	var pace time.Duration
	if opts.Production {
		pace = cfg.Pace()
	}

	// Pass 1: fetch and classify every day's signups before any rules run.
	rosters := make([]admission.DayRoster, 0, len(flyingDays))
	messageIDs := make(map[int]int)
	for i, day := range flyingDays {
		if pace > 0 && i > 0 {
			time.Sleep(pace)
		}

		details, err := source.GetDaySignups(ctx, day.ID)
		if err != nil {
			if errors.Is(err, zweefclient.ErrMalformedResponse) {
				return nil, fmt.Errorf("aborting run, day %d payload cannot be trusted: %w", day.ID, err)
			}
			logger.Warn("Skipping day, signups unavailable",
				zap.Int("day_id", day.ID),
				zap.Error(err))
			result.SkippedDays = append(result.SkippedDays, SkippedDay{
				DayID: day.ID,
				Date:  day.Date,
				Err:   err,
			})
			continue
		}

		if id, ok := findBotMessage(details.Messages); ok {
			messageIDs[day.ID] = id
		}

		signups := make([]model.Signup, len(details.Signups))
		for j, signup := range details.Signups {
			signup.Classification = admission.Classify(signup)
			signups[j] = signup
		}
		rosters = append(rosters, admission.DayRoster{Day: day, Signups: signups})
	}

	weeks := admission.AggregateWeeks(rosters)
	logger.Debug("Aggregated weekly signups", zap.Int("week_keys", len(weeks)))

	// Pass 2: evaluate the rules day by day and execute the decisions.
	for _, roster := range rosters {
		eval := admission.EvaluateDay(roster, weeks)
		logger.Info("Day evaluated",
			zap.Int("day_id", eval.Day.ID),
			zap.String("date", eval.Day.Date.Format("2006-01-02")),
			zap.Int("students", eval.Students),
			zap.Int("instructors_available", eval.InstructorsAvailable),
			zap.Int("instructors_unavailable", eval.InstructorsUnavailable),
			zap.Int("removals", len(eval.Decisions)))

		exec := ExecuteDecisions(ctx, eval.Decisions, members, removals, notifier, cfg.ClubName, logger, opts.DryRun)
		result.Removed = append(result.Removed, exec.Removed...)
		result.UnknownMembers = append(result.UnknownMembers, exec.UnknownMembers...)
		result.FailedRemovals = append(result.FailedRemovals, exec.FailedRemovals...)
		result.FailedNotifications = append(result.FailedNotifications, exec.FailedNotifications...)

		if _, err := BroadcastDayMessage(ctx, bookings, messages, roster.Day, messageIDs[roster.Day.ID], cfg.StatusURL, logger, opts.DryRun); err != nil {
			logger.Warn("Day message failed",
				zap.Int("day_id", roster.Day.ID),
				zap.Error(err))
			result.FailedMessages = append(result.FailedMessages, FailedMessage{
				DayID: roster.Day.ID,
				Err:   err,
			})
		} else {
			result.MessagesSet++
		}

		result.DaysProcessed++
	}

	logger.Info("processDays completed",
		zap.Int("days_processed", result.DaysProcessed),
		zap.Int("days_skipped", len(result.SkippedDays)),
		zap.Int("signups_removed", len(result.Removed)),
		zap.Int("removals_failed", len(result.FailedRemovals)),
		zap.Int("notifications_failed", len(result.FailedNotifications)),
		zap.Int("messages_set", result.MessagesSet))

	return result, nil
}
