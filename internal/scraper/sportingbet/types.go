package sportingbet

import (
	"encoding/json"
	"strings"
)

// Wire types for the Sportingbet (bwin) CDS and sports-widget APIs.

// textValue is a localized string; the API sometimes sends a plain string and
// sometimes {"value": "..."}.
type textValue struct {
	Value string
}

func (t *textValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, "{") {
		var obj struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		t.Value = obj.Value
		return nil
	}
	var plain string
	if err := json.Unmarshal(b, &plain); err != nil {
		return err
	}
	t.Value = plain
	return nil
}

// countsEntry is one row of the /bettingoffer/counts taxonomy listing.
type countsEntry struct {
	Tag countsTag `json:"tag"`
}

type countsTag struct {
	Type       string    `json:"type"`
	ID         int       `json:"id"`
	ParentID   int       `json:"parentId"`
	SportID    int       `json:"sportId"`
	CompoundID string    `json:"compoundId"`
	Name       textValue `json:"name"`
}

// competition pairs a competition with its region, resolved from the counts
// listing.
type competition struct {
	ID         int
	CompoundID string
	RegionID   int
	RegionName string
	Name       string
}

// fixtureView is the /bettingoffer/fixture-view response.
type fixtureView struct {
	Fixture fixtureDetail `json:"fixture"`
}

type fixtureDetail struct {
	ID            string         `json:"id"`
	StartDate     string         `json:"startDate"`
	CutOffDate    string         `json:"cutOffDate"`
	FixtureType   string         `json:"fixtureType"`
	Sport         sportRef       `json:"sport"`
	Participants  []participant  `json:"participants"`
	OptionMarkets []optionMarket `json:"optionMarkets"`
}

type sportRef struct {
	ID int `json:"id"`
}

type participant struct {
	Name       textValue `json:"name"`
	Properties struct {
		Type string `json:"type"`
	} `json:"properties"`
}

type optionMarket struct {
	ID         int64          `json:"id"`
	Name       textValue      `json:"name"`
	Parameters []marketParam  `json:"parameters"`
	Options    []marketOption `json:"options"`
}

type marketParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (m optionMarket) paramMap() map[string]string {
	out := make(map[string]string, len(m.Parameters))
	for _, p := range m.Parameters {
		if p.Key != "" {
			out[p.Key] = p.Value
		}
	}
	return out
}

type marketOption struct {
	ID           int64       `json:"id"`
	Code         string      `json:"code"`
	Name         textValue   `json:"name"`
	Status       string      `json:"status"`
	MarketID     int64       `json:"marketId"`
	BoostedPrice json.Number `json:"boostedPrice"`
	Price        struct {
		Decimal float64 `json:"decimal"`
	} `json:"price"`
}
