package model

import (
	"fmt"
	"time"
)

// Group names as they appear in the ZweefApp accounts payload.
const (
	GroupSoloStudent = "solist"
	GroupInstructor  = "instructeur"
)

// Classification is the admission category of a signup, derived once from
// the member's groups and the self-declared instructor flag.
type Classification string

const (
	ClassificationStudent               Classification = "student"
	ClassificationInstructorAvailable   Classification = "instructor-available"
	ClassificationInstructorUnavailable Classification = "instructor-unavailable"
	ClassificationOther                 Classification = "other"
)

// Day represents a single day on the club calendar
type Day struct {
	ID        int
	Date      time.Time // midnight, local club time
	FlyingDay bool
}

// Signup represents one confirmed registration of a member on a day
type Signup struct {
	MemberID            int
	DayID               int
	Confirmed           bool
	SignedUpAt          time.Time
	WantsInstructorRole bool
	Groups              []string
	Classification      Classification
}

// Member represents a club member in the account directory
type Member struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
}

func (m Member) FullName() string {
	return fmt.Sprintf("%s %s", m.FirstName, m.LastName)
}

// DayMessage is an existing message on a day's notice board
type DayMessage struct {
	ID   int
	Text string
}

// BookingSlot is one slot in the external passenger booking calendar,
// carrying the number of bookings placed in it
type BookingSlot struct {
	ID       int
	Title    string
	Bookings int
}

// Reason identifies why a student signup was removed. The codes are part of
// the member-facing contract and match the notification templates.
type Reason string

const (
	ReasonInstructorsUnavailable Reason = "IST_UNAVAIL"
	ReasonBookedTooEarly         Reason = "DBO_EARLY"
	ReasonDayFull                Reason = "DBO_FULL"
	ReasonWeekendQuota           Reason = "DBO_WEEKND_QUOTA"
)

func (r Reason) IsValid() bool {
	switch r {
	case ReasonInstructorsUnavailable, ReasonBookedTooEarly, ReasonDayFull, ReasonWeekendQuota:
		return true
	}
	return false
}

// RemovalDecision is the output of the admission rules for one rejected
// signup. Exactly one is produced per rejection; acceptance emits nothing.
type RemovalDecision struct {
	MemberID int
	DayID    int
	DayDate  time.Time
	Reason   Reason
}
