// Package abs talks to an Audiobookshelf server's item API.
package abs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/microbrews/abs-chapters/model"
	"github.com/microbrews/abs-chapters/utils"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, e.Status, body)
}

type Client struct {
	restyClient *resty.Client
}

var _ model.Library = (*Client)(nil)

type Option func(*options)

type options struct {
	timeout time.Duration
	verbose bool
}

// WithTimeout sets the per-request timeout. The default is 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithVerbose logs every request and response.
func WithVerbose(v bool) Option {
	return func(o *options) { o.verbose = v }
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	o := options{timeout: utils.DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		restyClient: utils.NewRestyClient(strings.TrimRight(baseURL, "/"), apiKey, o.timeout, o.verbose),
	}
}

// GetItem fetches an expanded library item.
func (c *Client) GetItem(ctx context.Context, itemID string) (*model.Item, error) {
	log.Printf("Getting item %v\n", itemID)

	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetPathParam("itemId", itemID).
		SetQueryParam("expanded", "1").
		Get("/api/items/{itemId}")
	if err != nil {
		return nil, fmt.Errorf("failed to get item %v: %w", itemID, err)
	}
	if !isSuccess(resp) {
		return nil, statusError(resp)
	}

	item := &model.Item{}
	if err := json.Unmarshal(resp.Body(), item); err != nil {
		return nil, fmt.Errorf("failed to decode item %v: %w", itemID, err)
	}

	log.Printf("Item %v has %d chapters, duration %.3fs\n", itemID, len(item.Media.Chapters), item.Media.Duration)
	return item, nil
}

// UpdateChapters replaces the item's chapters and returns the server's
// response body as is.
func (c *Client) UpdateChapters(ctx context.Context, itemID string, chapters []model.Chapter) (json.RawMessage, error) {
	log.Printf("Updating %d chapters of item %v\n", len(chapters), itemID)

	if chapters == nil {
		chapters = []model.Chapter{}
	}
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetPathParam("itemId", itemID).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{"chapters": chapters}).
		Post("/api/items/{itemId}/chapters")
	if err != nil {
		return nil, fmt.Errorf("failed to update chapters of item %v: %w", itemID, err)
	}
	if !isSuccess(resp) {
		return nil, statusError(resp)
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("failed to update chapters of item %v: response is not JSON: %q", itemID, body)
	}
	return json.RawMessage(body), nil
}

func isSuccess(resp *resty.Response) bool {
	return resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices
}

func statusError(resp *resty.Response) error {
	return &StatusError{
		Method:     resp.Request.Method,
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       string(resp.Body()),
	}
}
