// Package publicnotices is the client for the public-records notice-search
// API. The endpoint takes a HAL-style JSON POST with a free-text keyword
// filter, a county filter, and pagination.
package publicnotices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/models"
)

const (
	defaultBaseURL = "https://floridapublicnotices.com/"
	defaultTimeout = 30 * time.Second
)

// Client searches the notice API for a fixed keyword/county filter.
type Client struct {
	BaseURL  string
	Keywords string
	Counties []string
	client   *http.Client
	logger   *slog.Logger
}

// New returns a Client. An empty baseURL falls back to the public endpoint,
// a zero timeout to 30s.
func New(baseURL, keywords string, counties []string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL:  baseURL,
		Keywords: keywords,
		Counties: counties,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// searchRequest mirrors the API's POST body. Offset and SortBy serialize as
// null when unset, which is what the endpoint expects.
type searchRequest struct {
	Counties []string `json:"counties"`
	Keywords string   `json:"keywords"`
	Offset   *int     `json:"offset"`
	Paper    string   `json:"paper"`
	SortBy   *string  `json:"sort-by"`
	Limit    int      `json:"limit"`
}

// searchResponse covers the two object-shaped response layouts. Some
// deployments return a bare top-level array instead; Search falls back to
// that shape when both lists are empty.
type searchResponse struct {
	Embedded struct {
		Notices []models.RawNotice `json:"notices"`
	} `json:"_embedded"`
	Results []models.RawNotice `json:"results"`
}

// Search fetches one page of raw notices. offset < 0 requests the first
// page. Any HTTP error or unrecognizable response shape is returned as an
// error; the caller treats that as fatal for the run.
func (c *Client) Search(ctx context.Context, offset, limit int) ([]models.RawNotice, error) {
	reqBody := searchRequest{
		Counties: c.Counties,
		Keywords: c.Keywords,
		Paper:    "-1",
		Limit:    limit,
	}
	if reqBody.Counties == nil {
		reqBody.Counties = []string{}
	}
	if offset >= 0 {
		reqBody.Offset = &offset
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/hal+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search notices: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, fmt.Errorf("notice search returned %d: %s", resp.StatusCode, snippet)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err == nil {
		if len(sr.Embedded.Notices) > 0 {
			return sr.Embedded.Notices, nil
		}
		if len(sr.Results) > 0 {
			return sr.Results, nil
		}
	}

	var list []models.RawNotice
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	// An object response with no recognizable list is an empty result, a
	// non-JSON body is garbage.
	if json.Valid(body) {
		c.logger.Warn("notice search returned no notices", "bytes", len(body))
		return nil, nil
	}
	return nil, fmt.Errorf("notice search returned an unrecognizable response (%d bytes)", len(body))
}
