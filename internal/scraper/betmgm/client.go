package betmgm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultGraphQLURL  = "https://www.betmgm.bet.br/api/lmbas"
	defaultOfferingURL = "https://us1.offering-api.kambicdn.com/offering/v2018/betmgmbr"

	lookaheadDays = 4
	pageSize      = 50

	persistedQueryHash = "b858aece8798aeb4f1d93bfd29d95ac3dc0932f609a1710dd2d55bd5988eb954"
)

// Client talks to the BetMGM GraphQL gateway for event discovery and to the
// Kambi offering CDN for market detail.
type Client struct {
	graphqlURL  string
	offeringURL string
	httpClient  *http.Client
}

func NewClient(graphqlURL, offeringURL string) *Client {
	if graphqlURL == "" {
		graphqlURL = defaultGraphQLURL
	}
	if offeringURL == "" {
		offeringURL = defaultOfferingURL
	}
	return &Client{
		graphqlURL:  graphqlURL,
		offeringURL: offeringURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListEvents pages through the persisted AllLeaguesPaginatedQuery and returns
// every upcoming football event.
func (c *Client) ListEvents(ctx context.Context) ([]listedEvent, error) {
	var all []listedEvent
	after := "0"

	for {
		resp, err := c.queryPage(ctx, after)
		if err != nil {
			return nil, err
		}

		conn := resp.Data.Viewer.Sports.SportsEventsConnection
		for _, edge := range conn.Edges {
			for _, group := range edge.Node.Groups {
				all = append(all, group.Events...)
			}
		}

		if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor == "" {
			return all, nil
		}
		after = conn.PageInfo.EndCursor
	}
}

func (c *Client) queryPage(ctx context.Context, after string) (graphqlResponse, error) {
	payload := map[string]any{
		"operationName": "AllLeaguesPaginatedQuery",
		"variables": map[string]any{
			"after":                    after,
			"first":                    pageSize,
			"skipAllLeaguesSportsQuery": false,
			"filter": map[string]any{
				"eventType":    "MATCH",
				"sport":        "football",
				"upcomingDays": lookaheadDays,
			},
			"grouping": []string{"COUNTRY_AZ", "LEAGUE_POPULARITY"},
			"lang":     "pt_BR",
			"market":   "BR",
			"offering": "betmgmbr",
			"popularEventsGroup": []map[string]any{{
				"country": "brazil",
				"league":  "brasileirao_serie_a",
				"sport":   "football",
			}},
		},
		"extensions": map[string]any{
			"persistedQuery": map[string]any{
				"version":    1,
				"sha256Hash": persistedQueryHash,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return graphqlResponse{}, fmt.Errorf("betmgm: marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return graphqlResponse{}, fmt.Errorf("betmgm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-Id", "sportsbook")
	req.Header.Set("X-Client-Id", "sportsbook")
	req.Header.Set("X-App-Version", "3.57.0")
	req.Header.Set("X-Client-Version", "3.57.0")
	req.Header.Set("X-Kambi-Env", "PROD")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return graphqlResponse{}, fmt.Errorf("betmgm: graphql request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return graphqlResponse{}, fmt.Errorf("betmgm: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return graphqlResponse{}, fmt.Errorf("betmgm: graphql status %d", resp.StatusCode)
	}

	var out graphqlResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return graphqlResponse{}, fmt.Errorf("betmgm: decode graphql response: %w", err)
	}
	return out, nil
}

// GetEventOffers returns the full Kambi bet-offer view for one event.
func (c *Client) GetEventOffers(ctx context.Context, eventID string) (offeringResponse, error) {
	url := fmt.Sprintf(
		"%s/betoffer/event/%s.json?channel_id=1&client_id=200&includeParticipants=true&lang=pt_BR&market=BR&range_size=1",
		c.offeringURL, eventID,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return offeringResponse{}, fmt.Errorf("betmgm: create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Origin", "https://www.betmgm.bet.br")
	req.Header.Set("Referer", "https://www.betmgm.bet.br/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return offeringResponse{}, fmt.Errorf("betmgm: offering request %s: %w", eventID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return offeringResponse{}, fmt.Errorf("betmgm: read offering %s: %w", eventID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return offeringResponse{}, fmt.Errorf("betmgm: offering %s status %d", eventID, resp.StatusCode)
	}

	var out offeringResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return offeringResponse{}, fmt.Errorf("betmgm: decode offering %s: %w", eventID, err)
	}
	return out, nil
}
