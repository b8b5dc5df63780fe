package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// Client is a Microsoft Graph implementation of the core.MailProvider port.
// It carries an externally-established bearer token and never refreshes it;
// when the token is absent or expired the session checks fail and callers
// decide what to do.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	tokenExpiry time.Time
	logger      *zap.Logger
}

// NewClient creates a new Graph client. tokenExpiry may be the zero time
// when the caller does not know the token lifetime.
func NewClient(baseURL, accessToken string, tokenExpiry time.Time, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		accessToken: accessToken,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// HasActiveSession reports whether a usable bearer token is present
func (c *Client) HasActiveSession() bool {
	if c.accessToken == "" {
		return false
	}
	if !c.tokenExpiry.IsZero() && time.Now().After(c.tokenExpiry) {
		return false
	}
	return true
}

// ListMailUsers enumerates directory users that have a mailbox
func (c *Client) ListMailUsers(ctx context.Context) ([]core.MailboxUser, error) {
	var page userPage
	query := url.Values{}
	query.Set("$select", "id,mail")
	query.Set("$top", "999")
	if err := c.get(ctx, "/users", query, &page); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]core.MailboxUser, 0, len(page.Value))
	for _, u := range page.Value {
		if u.Mail == "" {
			continue
		}
		users = append(users, core.MailboxUser{ID: u.ID, MailAddress: u.Mail})
	}
	return users, nil
}

// ListMessages lists up to pageSize message summaries for a mailbox
func (c *Client) ListMessages(ctx context.Context, userID string, pageSize int) ([]core.MessageSummary, error) {
	var page messagePage
	query := url.Values{}
	query.Set("$select", "id,subject,from,sentDateTime")
	query.Set("$top", strconv.Itoa(pageSize))
	path := "/users/" + url.PathEscape(userID) + "/messages"
	if err := c.get(ctx, path, query, &page); err != nil {
		return nil, fmt.Errorf("failed to list messages for user %s: %w", userID, err)
	}

	summaries := make([]core.MessageSummary, 0, len(page.Value))
	for _, m := range page.Value {
		summaries = append(summaries, core.MessageSummary{
			ID:      m.ID,
			Subject: m.Subject,
			From:    m.From.EmailAddress.Address,
			SentAt:  parseGraphTime(m.SentDateTime),
		})
	}
	return summaries, nil
}

// GetMessageBody fetches the full, markup-bearing body of one message
func (c *Client) GetMessageBody(ctx context.Context, userID, messageID string) (string, error) {
	var msg messageResource
	query := url.Values{}
	query.Set("$select", "body")
	path := "/users/" + url.PathEscape(userID) + "/messages/" + url.PathEscape(messageID)
	if err := c.get(ctx, path, query, &msg); err != nil {
		return "", fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}
	if msg.Body == nil {
		return "", nil
	}
	return msg.Body.Content, nil
}

// DeleteMessage removes one message from a mailbox
func (c *Client) DeleteMessage(ctx context.Context, userID, messageID string) error {
	path := "/users/" + url.PathEscape(userID) + "/messages/" + url.PathEscape(messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to delete message %s: %s", messageID, readAPIError(resp))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readAPIError(resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Graph request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()))

	return c.httpClient.Do(req)
}

// readAPIError extracts the Graph error message from a failed response,
// falling back to the raw body.
func readAPIError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return resp.Status
	}
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Err.Message != "" {
		return fmt.Sprintf("%s: %s", apiErr.Err.Code, apiErr.Err.Message)
	}
	return string(body)
}

// parseGraphTime parses Graph's sentDateTime. A malformed timestamp yields
// the zero time rather than an error; the report column stays empty.
func parseGraphTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
