package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

// RemovalSink removes a member's signup from a day. It must be safe to
// call for a signup that is already gone.
type RemovalSink interface {
	RemoveSignup(ctx context.Context, dayID, memberID int) error
}

// Notifier delivers one email per removal decision.
type Notifier interface {
	SendEmail(to, subject, body string) error
}

// ExecutionResult collects per-decision outcomes. Failures are reported,
// never retried, and never abort the remaining decisions.
type ExecutionResult struct {
	Removed             []model.RemovalDecision
	UnknownMembers      []UnknownMemberRef
	FailedRemovals      []FailedRemoval
	FailedNotifications []FailedNotification
}

// ExecuteDecisions carries out removal decisions: one removal call and one
// notification email each. The member is resolved before any external
// effect so the directory is never queried with an id it cannot answer.
// A failed removal aborts that decision's notification; a failed
// notification leaves the removal in place.
func ExecuteDecisions(
	ctx context.Context,
	decisions []model.RemovalDecision,
	members map[int]model.Member,
	removals RemovalSink,
	notifier Notifier,
	clubName string,
	logger *zap.Logger,
	dryRun bool,
) *ExecutionResult {
	result := &ExecutionResult{}

	for _, decision := range decisions {
		member, ok := members[decision.MemberID]
		if !ok {
			logger.Warn("Skipping decision for unknown member",
				zap.Int("member_id", decision.MemberID),
				zap.Int("day_id", decision.DayID))
			result.UnknownMembers = append(result.UnknownMembers, UnknownMemberRef{
				MemberID: decision.MemberID,
				DayID:    decision.DayID,
			})
			continue
		}

		logger.Info("Removing signup",
			zap.Int("member_id", decision.MemberID),
			zap.Int("day_id", decision.DayID),
			zap.String("reason", string(decision.Reason)))

		if dryRun {
			result.Removed = append(result.Removed, decision)
			continue
		}

		if err := removals.RemoveSignup(ctx, decision.DayID, decision.MemberID); err != nil {
			logger.Error("Removal failed",
				zap.Int("member_id", decision.MemberID),
				zap.Int("day_id", decision.DayID),
				zap.Error(err))
			result.FailedRemovals = append(result.FailedRemovals, FailedRemoval{
				Decision: decision,
				Err:      err,
			})
			continue
		}
		result.Removed = append(result.Removed, decision)

		subject, body := removalMessage(decision, member, clubName)
		if err := notifier.SendEmail(member.Email, subject, body); err != nil {
			logger.Error("Notification failed",
				zap.Int("member_id", decision.MemberID),
				zap.String("email", member.Email),
				zap.Error(err))
			result.FailedNotifications = append(result.FailedNotifications, FailedNotification{
				Decision: decision,
				Email:    member.Email,
				Err:      err,
			})
		}
	}

	return result
}

// removalMessage builds the member-facing subject and body for a decision.
// The explanations are part of the club's member communication and stay in
// Dutch.
func removalMessage(decision model.RemovalDecision, member model.Member, clubName string) (string, string) {
	datum := FormatDutchDate(decision.DayDate)

	var explanation string
	switch decision.Reason {
	case model.ReasonInstructorsUnavailable:
		explanation = fmt.Sprintf("Er hebben zich (nog) geen instructeurs ingeschreven op %s, dus kan je niet vliegen als DBO'er. De HoT is op de hoogte gesteld, probeer het later opnieuw.", datum)
	case model.ReasonBookedTooEarly:
		explanation = fmt.Sprintf("Je mag vanaf 7 dagen voor %s aanmelden als DBO'er. Deze eis is er om te voorkomen dat te lang vooruit geboekt wordt.", datum)
	case model.ReasonDayFull:
		explanation = fmt.Sprintf("De vliegdag op %s zit aan het maximale aantal DBO'ers (meestal 4 per instructeur). Deze eis is er om te voorkomen dat er te veel aspiranten zijn per instructeur.", datum)
	case model.ReasonWeekendQuota:
		explanation = fmt.Sprintf("Je hebt al eerder een andere dag deze week geboekt. Wissel de dag op %s om, probeer door de weeks te boeken, of probeer na donderdag 18:00 opnieuw: dan komen de open slots in het weekend beschikbaar.", datum)
	}

	subject := fmt.Sprintf("Over jouw afmelding in ZweefApp %s op %s", clubName, datum)
	body := fmt.Sprintf("Beste %s,\n\nDit is een speciaal bericht vanuit de ZweefApp.\n\n%s\n\n-- Webmaster ZweefApp\n",
		member.FullName(), explanation)

	return subject, body
}
