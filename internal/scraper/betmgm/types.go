package betmgm

// Wire types for the BetMGM GraphQL listing and the Kambi offering API.

// graphqlResponse is the AllLeaguesPaginatedQuery response, trimmed to the
// fields the scraper walks.
type graphqlResponse struct {
	Data struct {
		Viewer struct {
			Sports struct {
				SportsEventsConnection struct {
					Edges []struct {
						Node struct {
							Groups []struct {
								Events []listedEvent `json:"events"`
							} `json:"groups"`
						} `json:"node"`
					} `json:"edges"`
					PageInfo pageInfo `json:"pageInfo"`
				} `json:"sportsEventsConnection"`
			} `json:"sports"`
		} `json:"viewer"`
	} `json:"data"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// listedEvent is one event from the GraphQL listing; market detail comes from
// the offering API separately.
type listedEvent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
	Start       string `json:"start"`
	League      struct {
		Name    string `json:"name"`
		Country struct {
			Name string `json:"name"`
		} `json:"country"`
	} `json:"league"`
}

// offeringResponse is the Kambi betoffer/event response.
type offeringResponse struct {
	Events    []offeringEvent `json:"events"`
	BetOffers []betOffer      `json:"betOffers"`
}

type offeringEvent struct {
	ID           int64  `json:"id"`
	Start        string `json:"start"`
	Participants []struct {
		Name string `json:"name"`
	} `json:"participants"`
}

type betOffer struct {
	ID        int64 `json:"id"`
	Criterion struct {
		Label string `json:"label"`
	} `json:"criterion"`
	BetOfferType struct {
		Name string `json:"name"`
	} `json:"betOfferType"`
	Label    string         `json:"label"`
	Outcomes []kambiOutcome `json:"outcomes"`
}

// kambiOutcome carries odds both as a milli-odds integer and, when present,
// as formatted strings.
type kambiOutcome struct {
	ID         int64  `json:"id"`
	BetOfferID int64  `json:"betOfferId"`
	Label      string `json:"label"`
	Status     string `json:"status"`
	Odds       int64  `json:"odds"`
	OddsDec    string `json:"oddsDecimal"`
	Fractional string `json:"oddsFractional"`
	American   string `json:"oddsAmerican"`
}
