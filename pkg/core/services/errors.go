package services

import (
	"time"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

// SkippedDay records a day dropped from the batch because its signup data
// could not be fetched. The rest of the run continues.
type SkippedDay struct {
	DayID int
	Date  time.Time
	Err   error
}

// UnknownMemberRef records a removal decision that could not be executed
// because the member is missing from the account directory.
type UnknownMemberRef struct {
	MemberID int
	DayID    int
}

// FailedRemoval records a removal call that errored. The paired
// notification is not sent in that case.
type FailedRemoval struct {
	Decision model.RemovalDecision
	Err      error
}

// FailedNotification records a notification that errored after its removal
// already succeeded. The removal is authoritative and is never rolled back.
type FailedNotification struct {
	Decision model.RemovalDecision
	Email    string
	Err      error
}

// FailedMessage records a day whose broadcast message could not be set.
type FailedMessage struct {
	DayID int
	Err   error
}
