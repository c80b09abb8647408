package zweefclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

const dateLayout = "2006-01-02"

// Timestamp layouts seen in date_aangemeld fields; the API is not
// consistent about carrying a zone offset.
var signupTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type dayDTO struct {
	DagID    int    `json:"dag_id"`
	Datum    string `json:"datum"`
	Vliegend bool   `json:"is_vliegend"`
}

type signupDTO struct {
	Aangemeld     bool   `json:"aangemeld"`
	DateAangemeld string `json:"date_aangemeld"`
	AsInstructeur bool   `json:"as_instructeur"`
	Vlieger       struct {
		ID         int      `json:"id"`
		GroupNames []string `json:"group_names"`
	} `json:"vlieger"`
}

type messageDTO struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// DayDetails is the full signup state of one day: the confirmed signups
// plus any messages already on the day's notice board.
type DayDetails struct {
	Signups  []model.Signup
	Messages []model.DayMessage
}

// ListDays returns every day on the club calendar, flying or not.
func (c *Client) ListDays(ctx context.Context) ([]model.Day, error) {
	var out struct {
		Days []dayDTO `json:"days"`
	}
	if err := c.do(ctx, http.MethodGet, c.internalBase+"days.json", c.userHeaders(), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}

	days := make([]model.Day, 0, len(out.Days))
	for _, d := range out.Days {
		date, err := time.Parse(dateLayout, d.Datum)
		if err != nil {
			return nil, fmt.Errorf("day %d carries invalid date %q: %w", d.DagID, d.Datum, ErrMalformedResponse)
		}
		days = append(days, model.Day{ID: d.DagID, Date: date, FlyingDay: d.Vliegend})
	}
	return days, nil
}

// GetDaySignups fetches one day's signups and notice-board messages.
// Unconfirmed signups (members who signed off again) are filtered out here;
// they take no part in admission.
func (c *Client) GetDaySignups(ctx context.Context, dayID int) (*DayDetails, error) {
	payload := map[string]int{"dag_id": dayID}
	var out struct {
		Aanmeldingen []signupDTO  `json:"aanmeldingen"`
		Messages     []messageDTO `json:"messages"`
	}
	if err := c.do(ctx, http.MethodPost, c.internalBase+"aanmeldingen/get_dag.json", c.userHeaders(), payload, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch signups for day %d: %w", dayID, err)
	}

	details := &DayDetails{}
	for _, dto := range out.Aanmeldingen {
		if !dto.Aangemeld {
			continue
		}
		signedUpAt, err := parseSignupTime(dto.DateAangemeld)
		if err != nil {
			return nil, fmt.Errorf("signup of member %d on day %d carries invalid timestamp %q: %w",
				dto.Vlieger.ID, dayID, dto.DateAangemeld, ErrMalformedResponse)
		}
		details.Signups = append(details.Signups, model.Signup{
			MemberID:            dto.Vlieger.ID,
			DayID:               dayID,
			Confirmed:           true,
			SignedUpAt:          signedUpAt,
			WantsInstructorRole: dto.AsInstructeur,
			Groups:              dto.Vlieger.GroupNames,
		})
	}
	for _, msg := range out.Messages {
		details.Messages = append(details.Messages, model.DayMessage{ID: msg.ID, Text: msg.Message})
	}
	return details, nil
}

func parseSignupTime(value string) (time.Time, error) {
	for _, layout := range signupTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
