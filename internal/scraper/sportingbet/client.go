package sportingbet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://www.sportingbet.bet.br"
	sportID        = 4 // football

	defaultAccessID = "YTRhMjczYjctNTBlNy00MWZlLTliMGMtMWNkOWQxMThmZTI2"
)

// Client talks to the two Sportingbet API families: the CDS betting-offer
// API (counts, fixture-view) and the sports widget API (competition lobby).
type Client struct {
	baseURL    string
	accessID   string
	httpClient *http.Client
}

func NewClient(baseURL, accessID string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if accessID == "" {
		accessID = defaultAccessID
	}
	return &Client{
		baseURL:  baseURL,
		accessID: accessID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListCompetitions returns every football competition with its region
// resolved from the taxonomy listing.
func (c *Client) ListCompetitions(ctx context.Context) ([]competition, error) {
	params := url.Values{}
	params.Set("x-bwin-accessid", c.accessID)
	params.Set("lang", "pt-br")
	params.Set("country", "BR")
	params.Set("userCountry", "BR")
	params.Set("state", "Latest")
	params.Set("tagTypes", "Sport,Region,Tournament,Competition,VirtualCompetition,VirtualCompetitionGroup")
	params.Set("extendedTags", "Sport,Region,Tournament,Competition,VirtualCompetition,VirtualCompetitionGroup")
	params.Set("sportIds", strconv.Itoa(sportID))
	params.Set("sortBy", "Tags")
	params.Set("participantMapping", "All")
	params.Set("includeDynamicCategories", "false")

	body, err := c.doGet(ctx, "/cds-api/bettingoffer/counts?"+params.Encode(), true)
	if err != nil {
		return nil, fmt.Errorf("sportingbet: list competitions: %w", err)
	}

	var entries []countsEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("sportingbet: decode counts: %w", err)
	}

	regions := make(map[int]string)
	var compTags []countsTag
	for _, e := range entries {
		switch e.Tag.Type {
		case "Region":
			regions[e.Tag.ID] = e.Tag.Name.Value
		case "Competition":
			compTags = append(compTags, e.Tag)
		}
	}

	comps := make([]competition, 0, len(compTags))
	for _, tag := range compTags {
		if tag.ID == 0 || tag.ParentID == 0 {
			continue
		}
		compoundID := tag.CompoundID
		if compoundID == "" {
			compoundID = fmt.Sprintf("%d:%d", tag.SportID, tag.ID)
		}
		comps = append(comps, competition{
			ID:         tag.ID,
			CompoundID: compoundID,
			RegionID:   tag.ParentID,
			RegionName: regions[tag.ParentID],
			Name:       tag.Name.Value,
		})
	}
	return comps, nil
}

// ListFixtureIDs returns the fixture ids visible in one competition's lobby
// widget. The widget payload nests fixtures at arbitrary depth, so the
// response is walked generically.
func (c *Client) ListFixtureIDs(ctx context.Context, comp competition) ([]string, error) {
	params := url.Values{}
	params.Set("layoutSize", "Large")
	params.Set("page", "CompetitionLobby")
	params.Set("sportId", strconv.Itoa(sportID))
	params.Set("regionId", strconv.Itoa(comp.RegionID))
	params.Set("competitionId", strconv.Itoa(comp.ID))
	params.Set("compoundCompetitionId", comp.CompoundID)
	params.Set("widgetId", "/mobilesports-v1.0/layout/layout_standards/modules/competition/defaultcontainer")
	params.Set("shouldIncludePayload", "true")

	body, err := c.doGet(ctx, "/pt-br/sports/api/widget/widgetdata?"+params.Encode(), false)
	if err != nil {
		return nil, fmt.Errorf("sportingbet: competition %d fixtures: %w", comp.ID, err)
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("sportingbet: decode widget payload: %w", err)
	}

	var ids []string
	collectFixtureIDs(payload, &ids)
	return ids, nil
}

// collectFixtureIDs walks the widget tree picking ids out of every
// "fixtures" array it finds.
func collectFixtureIDs(node any, ids *[]string) {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			if key == "fixtures" {
				if arr, ok := child.([]any); ok {
					for _, item := range arr {
						if fx, ok := item.(map[string]any); ok {
							if id := fixtureID(fx); id != "" {
								*ids = append(*ids, id)
							}
						}
					}
					continue
				}
			}
			collectFixtureIDs(child, ids)
		}
	case []any:
		for _, item := range v {
			collectFixtureIDs(item, ids)
		}
	}
}

func fixtureID(fx map[string]any) string {
	for _, key := range []string{"id", "fixtureId"} {
		switch v := fx[key].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

// GetFixture returns the full market view for one fixture.
func (c *Client) GetFixture(ctx context.Context, fixtureID string) (fixtureDetail, error) {
	params := url.Values{}
	params.Set("x-bwin-accessid", c.accessID)
	params.Set("lang", "pt-br")
	params.Set("country", "BR")
	params.Set("userCountry", "BR")
	params.Set("offerMapping", "All")
	params.Set("scoreboardMode", "Full")
	params.Set("fixtureIds", fixtureID)
	params.Set("state", "Latest")
	params.Set("includePrecreatedBetBuilder", "true")
	params.Set("supportVirtual", "true")
	params.Set("isBettingInsightsEnabled", "false")
	params.Set("useRegionalisedConfiguration", "true")
	params.Set("includeRelatedFixtures", "false")
	params.Set("statisticsModes", "None")

	body, err := c.doGet(ctx, "/cds-api/bettingoffer/fixture-view?"+params.Encode(), true)
	if err != nil {
		return fixtureDetail{}, fmt.Errorf("sportingbet: fixture %s: %w", fixtureID, err)
	}

	var view fixtureView
	if err := json.Unmarshal(body, &view); err != nil {
		return fixtureDetail{}, fmt.Errorf("sportingbet: decode fixture %s: %w", fixtureID, err)
	}
	return view.Fixture, nil
}

func (c *Client) doGet(ctx context.Context, path string, cds bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	sportURL := c.baseURL + "/pt-br/sports/futebol-4"
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("X-Device-Type", "desktop")
	req.Header.Set("X-From-Product", "host-app")
	req.Header.Set("X-Bwin-Browser-Url", sportURL)
	req.Header.Set("Referer", sportURL)
	if cds {
		req.Header.Set("X-Bwin-Cds-Api", "https://row8-cds-api.itsfogo.com")
	} else {
		req.Header.Set("X-Bwin-Sports-Api", "prod")
	}

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
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
