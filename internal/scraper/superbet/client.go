package superbet

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
)

const (
	defaultBaseURL = "https://superbet.com/api/widget"
	sportID        = 5 // football
	lookaheadDays  = 3
)

// marketIDs are the Superbet market ids the classifier knows how to map;
// anything else would be discarded anyway, so we do not ask for it.
var marketIDs = []int{547, 539, 531, 555, 546, 530, 532, 542, 557}

// Client is the REST client for the Superbet widget API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Superbet client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListEventIDs returns the ids of upcoming football events in the scrape
// window.
func (c *Client) ListEventIDs(ctx context.Context, now time.Time) ([]string, error) {
	params := url.Values{}
	params.Set("from", now.UTC().Format("2006-01-02T15:04:05"))
	params.Set("to", now.UTC().AddDate(0, 0, lookaheadDays).Format("2006-01-02T15:04:05"))

	path := fmt.Sprintf("/v2/pt-BR/sports/%d/events?%s", sportID, params.Encode())

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("superbet: list events: %w", err)
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("superbet: decode event list: %w", err)
	}

	ids := make([]string, 0, len(resp.Data))
	for _, ev := range resp.Data {
		if ev.EventID != "" {
			ids = append(ids, ev.EventID)
		}
	}
	return ids, nil
}

// GetEvent returns the full event with the mapped market ids included.
func (c *Client) GetEvent(ctx context.Context, eventID string) (apiEvent, error) {
	ids := make([]string, len(marketIDs))
	for i, id := range marketIDs {
		ids[i] = strconv.Itoa(id)
	}

	params := url.Values{}
	params.Set("includeMarkets", strings.Join(ids, ","))

	path := fmt.Sprintf("/v2/pt-BR/events/%s?%s", url.PathEscape(eventID), params.Encode())

	body, err := c.doGet(ctx, path)
	if err != nil {
		return apiEvent{}, fmt.Errorf("superbet: get event %s: %w", eventID, err)
	}

	var resp eventResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return apiEvent{}, fmt.Errorf("superbet: decode event %s: %w", eventID, err)
	}
	if len(resp.Data) == 0 {
		return apiEvent{}, fmt.Errorf("superbet: event %s: empty response", eventID)
	}
	return resp.Data[0], nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
