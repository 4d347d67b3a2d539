package kit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fatflowers/paylist/pkg/metrics"
)

const (
	DefaultBaseURL = "https://api.kit.com/v4"
	apiKeyHeader   = "X-Kit-Api-Key"
	maxErrorBody   = 4 << 10
)

// APIError is returned for non-2xx responses.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kit %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

type ClientOptions struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Metrics    metrics.WebhookMetrics
}

// Client talks to the Kit v4 REST API on behalf of one creator.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	metrics metrics.WebhookMetrics
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("kit: api key is empty")
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NoopWebhookMetrics{}
	}
	return &Client{baseURL: base, apiKey: opts.APIKey, http: hc, metrics: m}, nil
}

type subscriberRequest struct {
	EmailAddress string `json:"email_address"`
	FirstName    string `json:"first_name,omitempty"`
}

type subscriberResponse struct {
	Subscriber struct {
		ID           int64  `json:"id"`
		EmailAddress string `json:"email_address"`
		State        string `json:"state"`
	} `json:"subscriber"`
}

// UpsertSubscriber creates the subscriber, or updates the existing one with the
// same email, and returns its Kit id.
func (c *Client) UpsertSubscriber(ctx context.Context, email, firstName string) (int64, error) {
	var out subscriberResponse
	err := c.do(ctx, "create_subscriber", http.MethodPost, "/subscribers", subscriberRequest{
		EmailAddress: email,
		FirstName:    firstName,
	}, &out)
	if err != nil {
		return 0, err
	}
	if out.Subscriber.ID == 0 {
		return 0, fmt.Errorf("kit create_subscriber: response has no subscriber id")
	}
	return out.Subscriber.ID, nil
}

func (c *Client) AddTag(ctx context.Context, tagID, subscriberID int64) error {
	path := "/tags/" + strconv.FormatInt(tagID, 10) + "/subscribers/" + strconv.FormatInt(subscriberID, 10)
	return c.do(ctx, "add_tag", http.MethodPost, path, struct{}{}, nil)
}

func (c *Client) RemoveTag(ctx context.Context, tagID, subscriberID int64) error {
	path := "/tags/" + strconv.FormatInt(tagID, 10) + "/subscribers/" + strconv.FormatInt(subscriberID, 10)
	return c.do(ctx, "remove_tag", http.MethodDelete, path, nil, nil)
}

func (c *Client) Unsubscribe(ctx context.Context, subscriberID int64) error {
	path := "/subscribers/" + strconv.FormatInt(subscriberID, 10) + "/unsubscribe"
	return c.do(ctx, "unsubscribe", http.MethodPost, path, struct{}{}, nil)
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("kit %s: encode request: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("kit %s: build request: %w", endpoint, err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.RecordAPICallDuration(endpoint, time.Since(start))
	if err != nil {
		c.metrics.RecordAPICall(endpoint, "transport_error")
		return fmt.Errorf("kit %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordAPICall(endpoint, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("kit %s: decode response: %w", endpoint, err)
	}
	return nil
}
