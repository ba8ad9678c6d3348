package sportingbet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/superodds/superodds/internal/domain"
)

// Mapper classifies Sportingbet markets and outcomes. Markets dispatch on the
// MarketType parameter; outcomes on the option code. Rules are evaluated in
// order, first match wins, no match means discard.
type Mapper struct{}

var _ domain.Classifier = Mapper{}

var lineRe = regexp.MustCompile(`(\d+[.,]\d+)`)

type marketRule struct {
	marketType string
	canonical  domain.MarketType
	withLine   bool
}

var marketRules = []marketRule{
	{"3way", domain.MarketResultadoFinal, false},
	{"BTTS", domain.MarketBTTS, false},
	{"DoubleChance", domain.MarketDuplaChance, false},
	{"DrawNoBet", domain.MarketDrawNoBet, false},
	{"Handicap", domain.MarketHandicap3Way, true},
	{"2wayHandicap", domain.MarketHandicapAsian2Way, true},
	{"ThreeWayAndBTTS", domain.MarketResultadoBTTS, false},
	{"ToWinAndBTTS", domain.MarketResultadoBTTS, false},
	{"ThreeWayAndOverUnder", domain.MarketResultadoTotalGols, true},
	{"DoubleChanceAndOverUnder", domain.MarketDuplaChanceTotalGols, true},
}

func (Mapper) ClassifyMarket(m domain.RawMarket) (domain.MarketMapping, bool) {
	marketType := m.Params["MarketType"]
	for _, r := range marketRules {
		if r.marketType != marketType {
			continue
		}
		// A plain 1X2 with a range parameter is some specialized variant we
		// cannot represent.
		if marketType == "3way" && m.Params["RangeValue"] != "" {
			return domain.MarketMapping{}, false
		}
		mapping := domain.MarketMapping{
			Canonical: r.canonical,
			Period:    mapPeriod(m.Params["Period"]),
			Happening: domain.HappeningGoals,
		}
		if r.withLine {
			mapping.Line = extractLine(m.Params["RangeValue"], m.Name)
		}
		return mapping, true
	}
	return domain.MarketMapping{}, false
}

func mapPeriod(period string) domain.PeriodType {
	switch period {
	case "FirstHalf":
		return domain.PeriodFirstHalf
	case "SecondHalf":
		return domain.PeriodSecondHalf
	default:
		return domain.PeriodRegularTime
	}
}

// extractLine prefers the RangeValue parameter, falling back to the first
// decimal in the market name. Sportingbet writes decimals with a comma.
func extractLine(rangeValue, marketName string) *float64 {
	if rangeValue != "" {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(rangeValue, ",", "."), 64); err == nil {
			return &v
		}
	}
	if match := lineRe.FindStringSubmatch(marketName); match != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64); err == nil {
			return &v
		}
	}
	return nil
}

type codePred func(code, lower string) bool

func codeIs(want string) codePred {
	return func(code, _ string) bool { return code == want }
}

func codeHasAll(subs ...string) codePred {
	return func(_, lower string) bool {
		for _, s := range subs {
			if !strings.Contains(lower, s) {
				return false
			}
		}
		return true
	}
}

type outcomeRule struct {
	market  domain.MarketType
	match   codePred
	outcome domain.OutcomeType
}

var outcomeRules = []outcomeRule{
	// 1X2
	{domain.MarketResultadoFinal, codeIs("1"), domain.OutcomeHome},
	{domain.MarketResultadoFinal, codeIs("X"), domain.OutcomeDraw},
	{domain.MarketResultadoFinal, codeIs("2"), domain.OutcomeAway},

	// BTTS
	{domain.MarketBTTS, codeIs("Yes"), domain.OutcomeYes},
	{domain.MarketBTTS, codeIs("No"), domain.OutcomeNo},

	// Double chance
	{domain.MarketDuplaChance, codeIs("1X"), domain.OutcomeHomeOrDraw},
	{domain.MarketDuplaChance, codeIs("X2"), domain.OutcomeDrawOrAway},
	{domain.MarketDuplaChance, codeIs("12"), domain.OutcomeHomeOrAway},

	// Draw no bet
	{domain.MarketDrawNoBet, codeIs("1"), domain.OutcomeHome},
	{domain.MarketDrawNoBet, codeIs("2"), domain.OutcomeAway},

	// Handicap 3-way
	{domain.MarketHandicap3Way, codeIs("1"), domain.OutcomeHomeHcp},
	{domain.MarketHandicap3Way, codeIs("X"), domain.OutcomeDrawHcp},
	{domain.MarketHandicap3Way, codeIs("2"), domain.OutcomeAwayHcp},

	// Asian handicap 2-way
	{domain.MarketHandicapAsian2Way, codeIs("1"), domain.OutcomeHomeHandicap},
	{domain.MarketHandicapAsian2Way, codeIs("2"), domain.OutcomeAwayHandicap},

	// Result + BTTS combos carry composite codes like "1Yes".
	{domain.MarketResultadoBTTS, codeHasAll("1", "yes"), domain.OutcomeHomeAndYes},
	{domain.MarketResultadoBTTS, codeHasAll("1", "no"), domain.OutcomeHomeAndNo},
	{domain.MarketResultadoBTTS, codeHasAll("x", "yes"), domain.OutcomeDrawAndYes},
	{domain.MarketResultadoBTTS, codeHasAll("x", "no"), domain.OutcomeDrawAndNo},
	{domain.MarketResultadoBTTS, codeHasAll("2", "yes"), domain.OutcomeAwayAndYes},
	{domain.MarketResultadoBTTS, codeHasAll("2", "no"), domain.OutcomeAwayAndNo},

	// Result + total goals
	{domain.MarketResultadoTotalGols, codeHasAll("1", "over"), domain.OutcomeHomeAndOver},
	{domain.MarketResultadoTotalGols, codeHasAll("1", "under"), domain.OutcomeHomeAndUnder},
	{domain.MarketResultadoTotalGols, codeHasAll("x", "over"), domain.OutcomeDrawAndOver},
	{domain.MarketResultadoTotalGols, codeHasAll("x", "under"), domain.OutcomeDrawAndUnder},
	{domain.MarketResultadoTotalGols, codeHasAll("2", "over"), domain.OutcomeAwayAndOver},
	{domain.MarketResultadoTotalGols, codeHasAll("2", "under"), domain.OutcomeAwayAndUnder},

	// Double chance + total goals
	{domain.MarketDuplaChanceTotalGols, codeHasAll("1x", "over"), domain.OutcomeHomeOrDrawAndOver},
	{domain.MarketDuplaChanceTotalGols, codeHasAll("1x", "under"), domain.OutcomeHomeOrDrawAndUnder},
	{domain.MarketDuplaChanceTotalGols, codeHasAll("x2", "over"), domain.OutcomeDrawOrAwayAndOver},
	{domain.MarketDuplaChanceTotalGols, codeHasAll("x2", "under"), domain.OutcomeDrawOrAwayAndUnder},
	{domain.MarketDuplaChanceTotalGols, codeHasAll("12", "over"), domain.OutcomeHomeOrAwayAndOver},
	{domain.MarketDuplaChanceTotalGols, codeHasAll("12", "under"), domain.OutcomeHomeOrAwayAndUnder},
}

func (Mapper) ClassifyOutcome(o domain.RawOutcome, mapping domain.MarketMapping) (domain.OutcomeType, bool) {
	code := strings.TrimSpace(o.Code)
	if code == "" {
		return "", false
	}
	lower := strings.ToLower(code)
	for _, r := range outcomeRules {
		if r.market != mapping.Canonical {
			continue
		}
		if r.match(code, lower) {
			return r.outcome, true
		}
	}
	return "", false
}
