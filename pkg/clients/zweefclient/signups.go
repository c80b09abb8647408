package zweefclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// RemoveSignup signs a member off from a day. Removing a signup that is
// already gone is not an error: the admin API answers 404 for an absent
// signup and the caller must be able to replay decisions safely.
func (c *Client) RemoveSignup(ctx context.Context, dayID, memberID int) error {
	payload := map[string]any{
		"action": "meld_af",
		"dag_id": dayID,
		"lid":    memberID,
	}

	err := c.do(ctx, http.MethodPost, c.internalBase+"aanmeldingen/save.json", c.userHeaders(), payload, nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to remove signup of member %d on day %d: %w", memberID, dayID, err)
	}
	return nil
}
