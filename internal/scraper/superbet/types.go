package superbet

// Wire types for the Superbet widget API.

type listResponse struct {
	Data []listEvent `json:"data"`
}

type listEvent struct {
	EventID string `json:"eventId"`
}

type eventResponse struct {
	Data []apiEvent `json:"data"`
}

type apiEvent struct {
	EventID   string   `json:"eventId"`
	MatchName string   `json:"matchName"`
	MatchDate string   `json:"matchDate"`
	MatchTags string   `json:"matchTags"`
	Odds      []apiOdd `json:"odds"`
}

// apiOdd is one outcome row; Superbet flattens markets into the odds list, so
// rows sharing a marketId belong to the same market.
type apiOdd struct {
	MarketID   int     `json:"marketId"`
	MarketName string  `json:"marketName"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
	OutcomeID  string  `json:"outcomeId"`
}
