// Package civicclerk is the client for the civic-meeting-calendar portal
// the city hosts its agendas on.
package civicclerk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/models"
)

const (
	defaultBaseURL = "https://kissimmeefl.api.civicclerk.com/v1"
	defaultOrderBy = "startDateTime desc, eventName desc"
	defaultTimeout = 15 * time.Second
)

// Op is the comparison operator for the event date filter.
type Op string

const (
	Before Op = "lt"
	After  Op = "gt"
)

// Client queries the calendar API.
type Client struct {
	BaseURL string
	client  *http.Client
	now     func() time.Time
}

// New returns a Client. Empty baseURL and zero timeout use the public
// portal defaults.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

type eventsResponse struct {
	Value []models.Event `json:"value"`
}

// Events lists calendar events with startDateTime before or after
// filterDate (YYYY-MM-DD; empty means today). orderBy defaults to newest
// first.
func (c *Client) Events(ctx context.Context, filterDate string, op Op, orderBy string) ([]models.Event, error) {
	if filterDate == "" {
		filterDate = c.now().Format("2006-01-02")
	}
	if op == "" {
		op = Before
	}
	if orderBy == "" {
		orderBy = defaultOrderBy
	}

	params := url.Values{}
	params.Set("$filter", fmt.Sprintf("startDateTime %s %s", op, filterDate))
	params.Set("$orderby", orderBy)

	var out eventsResponse
	if err := c.get(ctx, "/Events?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Value, nil
}

// Event fetches one calendar event by id.
func (c *Client) Event(ctx context.Context, id int) (models.Event, error) {
	var out models.Event
	err := c.get(ctx, "/Events/"+strconv.Itoa(id), &out)
	return out, err
}

// EventMedia fetches the media attachments for one event.
func (c *Client) EventMedia(ctx context.Context, id int) (models.EventMedia, error) {
	var out models.EventMedia
	err := c.get(ctx, "/EventsMedia/"+strconv.Itoa(id), &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build calendar request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read calendar response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendar returned %d for %s", resp.StatusCode, path)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode calendar response: %w", err)
	}
	return nil
}
