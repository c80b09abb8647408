package zweefclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrMalformedResponse marks a payload whose shape cannot be trusted.
// Callers treat it as fatal for the whole run: if the API schema moved
// under us, no per-day logic downstream is safe.
var ErrMalformedResponse = errors.New("malformed zweefapp response")

// StatusError is returned for non-2xx responses that are not retried.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("zweefapp request to %s failed with status %d", e.URL, e.Code)
}

// Client talks to the ZweefApp club admin API. The internal API (admin UI
// endpoints) requires a bearer token obtained via Login; the external API
// uses a static API key.
type Client struct {
	httpClient   *http.Client
	internalBase string
	externalBase string
	appURL       string
	appVersion   string
	apiKey       string
	userToken    string
}

// NewClient builds a client for one club. adminBaseURL is the admin host
// (e.g. https://admin.zweef.app), appURL the club's member-facing app URL
// used for Referer/Origin headers.
func NewClient(adminBaseURL, clubSlug, appURL, appVersion, apiKey string) *Client {
	base := strings.TrimSuffix(adminBaseURL, "/") + "/club/" + clubSlug + "/"
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		internalBase: base + "internal_api/",
		externalBase: base,
		appURL:       strings.TrimSuffix(appURL, "/"),
		appVersion:   appVersion,
		apiKey:       apiKey,
	}
}

// Login performs the admin user login and stores the bearer token used by
// all internal API endpoints.
func (c *Client) Login(ctx context.Context, email, password, clientSecret string) error {
	payload := map[string]string{
		"grant_type":    "login",
		"client_secret": clientSecret,
		"email":         email,
		"password":      password,
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, c.internalBase+"auth/login.json", c.userHeaders(), payload, &out); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if out.AccessToken == "" {
		return fmt.Errorf("login response carries no access token: %w", ErrMalformedResponse)
	}

	c.userToken = out.AccessToken
	return nil
}

// userHeaders builds the header set for admin-user requests to the
// internal API.
func (c *Client) userHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Referer", c.appURL+"/")
	headers.Set("Version", c.appVersion)
	headers.Set("Content-Type", "application/json")
	headers.Set("Origin", c.appURL)
	if c.userToken != "" {
		headers.Set("Authorization", "Bearer "+c.userToken)
	}
	return headers
}

// apiHeaders builds the header set for API-key requests to the external API.
func (c *Client) apiHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Referer", c.appURL+"/")
	headers.Set("Content-Type", "application/json")
	headers.Set("Origin", c.appURL)
	if c.apiKey != "" {
		headers.Set("X-API-KEY", c.apiKey)
	}
	return headers
}

// do sends one JSON request and decodes the JSON response into out.
// Network failures and 5xx responses are retried with backoff; other
// non-2xx statuses surface as a StatusError.
func (c *Client) do(ctx context.Context, method, url string, headers http.Header, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header = headers.Clone()

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("request to %s failed: %w", url, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(&StatusError{Code: resp.StatusCode, URL: url})
		}
		if resp.StatusCode >= 400 {
			return &StatusError{Code: resp.StatusCode, URL: url}
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("failed to decode response from %s: %w", url, ErrMalformedResponse)
			}
		}
		return nil
	})
}
