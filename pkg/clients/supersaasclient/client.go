package supersaasclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

const DefaultBaseURL = "https://www.supersaas.com"

// Client reads the club's passenger booking calendar on SuperSaaS.
type Client struct {
	httpClient *http.Client
	baseURL    string
	calendarID int
	apiKey     string
}

// NewClient builds a client for one SuperSaaS schedule.
func NewClient(calendarID int, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:    DefaultBaseURL,
		calendarID: calendarID,
		apiKey:     apiKey,
	}
}

// NewClientWithBaseURL is NewClient against a non-default host, used in tests.
func NewClientWithBaseURL(baseURL string, calendarID int, apiKey string) *Client {
	client := NewClient(calendarID, apiKey)
	client.baseURL = baseURL
	return client
}

type slotDTO struct {
	ID       int               `json:"id"`
	Title    string            `json:"title"`
	Bookings []json.RawMessage `json:"bookings"`
}

// GetDaySlots returns the booking slots that fall on the given calendar day.
func (c *Client) GetDaySlots(ctx context.Context, day time.Time) ([]model.BookingSlot, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("slot", "true")
	query.Set("from", day.Format("2006-01-02"))
	query.Set("to", day.AddDate(0, 0, 1).Format("2006-01-02"))

	endpoint := fmt.Sprintf("%s/api/range/%d.json?%s", c.baseURL, c.calendarID, query.Encode())

	var out struct {
		Slots []slotDTO `json:"slots"`
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("booking calendar request failed: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("booking calendar answered %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("booking calendar answered %s", resp.Status)
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("failed to decode booking calendar response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots for %s (schedule %d): %w",
			day.Format("2006-01-02"), c.calendarID, err)
	}

	slots := make([]model.BookingSlot, 0, len(out.Slots))
	for _, dto := range out.Slots {
		slots = append(slots, model.BookingSlot{
			ID:       dto.ID,
			Title:    dto.Title,
			Bookings: len(dto.Bookings),
		})
	}
	return slots, nil
}
