package zweefclient

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// UpsertDayMessage creates or replaces a message on a day's notice board
// and returns the message ID. A messageID of 0 creates a new message;
// passing an existing ID overwrites it, which is how the bot keeps at most
// one live status message per day.
func (c *Client) UpsertDayMessage(ctx context.Context, dayID, messageID int, date time.Time, text string) (int, error) {
	payload := map[string]any{
		"message":  text,
		"as_email": false,
		"id":       nil,
		"dag_id":   dayID,
		"datum":    date.Format(dateLayout),
	}
	if messageID != 0 {
		payload["id"] = messageID
	}

	var out struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, c.internalBase+"aanmeldingen/message.json", c.userHeaders(), payload, &out); err != nil {
		return 0, fmt.Errorf("failed to set message on day %d: %w", dayID, err)
	}

	if out.ID != 0 {
		return out.ID, nil
	}
	return messageID, nil
}
