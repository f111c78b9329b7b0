package campaigns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 15 * time.Second
)

// Client is an HTTP client for the dashboard's account/campaign service
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithToken sets the bearer token sent with every request
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new campaign service client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error returned by the campaign service
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("campaign service error: %s (status: %d)", e.Message, e.StatusCode)
}

// AccountData is an account as returned by the overview endpoint
type AccountData struct {
	ID                string `json:"id"`
	DisplayName       string `json:"display_name"`
	Platform          string `json:"platform"`
	Status            string `json:"status"`
	PendingLeadsCount int    `json:"pending_leads_count"`
}

// CampaignData is a campaign with its accounts
type CampaignData struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Platform string        `json:"platform"`
	Status   string        `json:"status"`
	Accounts []AccountData `json:"accounts"`
}

// OverviewOutput is the full campaign/account snapshot
type OverviewOutput struct {
	Campaigns  []CampaignData `json:"campaigns"`
	Unassigned []AccountData  `json:"unassigned_accounts"`
}

// GetOverview fetches every campaign with its accounts plus the unassigned accounts
// GET /api/campaigns/overview
func (c *Client) GetOverview(ctx context.Context) (*OverviewOutput, error) {
	var out OverviewOutput
	if err := c.call(ctx, http.MethodGet, "/api/campaigns/overview", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type assignRequest struct {
	CampaignID string `json:"campaign_id"`
}

// Assign moves one account to a campaign. An empty campaign id unassigns it.
// POST /api/accounts/{account-id}/assign
func (c *Client) Assign(ctx context.Context, accountID, campaignID string) error {
	path := fmt.Sprintf("/api/accounts/%s/assign", url.PathEscape(accountID))
	return c.call(ctx, http.MethodPost, path, assignRequest{CampaignID: campaignID}, nil)
}

type bulkAssignRequest struct {
	AccountIDs []string `json:"account_ids"`
	CampaignID string   `json:"campaign_id"`
}

// BulkAssign moves several accounts to a campaign in one request
// POST /api/accounts/bulk-assign
func (c *Client) BulkAssign(ctx context.Context, accountIDs []string, campaignID string) error {
	return c.call(ctx, http.MethodPost, "/api/accounts/bulk-assign", bulkAssignRequest{
		AccountIDs: accountIDs,
		CampaignID: campaignID,
	}, nil)
}

type startAccountRequest struct {
	DisplayName string `json:"display_name"`
}

// StartAccount activates one account of a campaign
// POST /api/campaigns/{campaign-id}/accounts/{account-id}/start
func (c *Client) StartAccount(ctx context.Context, campaignID, accountID, displayName string) error {
	path := fmt.Sprintf("/api/campaigns/%s/accounts/%s/start", url.PathEscape(campaignID), url.PathEscape(accountID))
	return c.call(ctx, http.MethodPost, path, startAccountRequest{DisplayName: displayName}, nil)
}

// PauseAccount pauses one account of a campaign
// POST /api/campaigns/{campaign-id}/accounts/{account-id}/pause
func (c *Client) PauseAccount(ctx context.Context, campaignID, accountID string) error {
	path := fmt.Sprintf("/api/campaigns/%s/accounts/%s/pause", url.PathEscape(campaignID), url.PathEscape(accountID))
	return c.call(ctx, http.MethodPost, path, nil, nil)
}

// StartAllAccounts activates every account of a campaign
// POST /api/campaigns/{campaign-id}/start-all
func (c *Client) StartAllAccounts(ctx context.Context, campaignID string) error {
	path := fmt.Sprintf("/api/campaigns/%s/start-all", url.PathEscape(campaignID))
	return c.call(ctx, http.MethodPost, path, nil, nil)
}

// PauseAllAccounts pauses every account of a campaign
// POST /api/campaigns/{campaign-id}/pause-all
func (c *Client) PauseAllAccounts(ctx context.Context, campaignID string) error {
	path := fmt.Sprintf("/api/campaigns/%s/pause-all", url.PathEscape(campaignID))
	return c.call(ctx, http.MethodPost, path, nil, nil)
}

// call builds a JSON request against the service
func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.do(req, out)
}

// do executes an HTTP request and decodes the response
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
