package superbet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/superodds/superodds/internal/domain"
)

// Mapper classifies Superbet markets and outcomes. Markets dispatch on the
// numeric market id; outcomes on the option label. Rules are evaluated in
// order, first match wins, no match means discard.
type Mapper struct{}

var _ domain.Classifier = Mapper{}

var lineRe = regexp.MustCompile(`\((\d+\.?\d*)\)`)

type marketRule struct {
	id           int
	canonical    domain.MarketType
	lineFromName bool
}

var marketRules = []marketRule{
	{547, domain.MarketResultadoFinal, false},       // Resultado Final (1X2)
	{539, domain.MarketBTTS, false},                 // Ambas as Equipes Marcam
	{531, domain.MarketDuplaChance, false},          // Dupla Chance
	{555, domain.MarketDrawNoBet, false},            // Empate Anula Aposta
	{546, domain.MarketHandicap3Way, false},         // Handicap 3-way
	{530, domain.MarketHandicapAsian2Way, false},    // Handicap Asiatico
	{532, domain.MarketResultadoBTTS, false},        // Resultado Final & Ambas Marcam
	{542, domain.MarketDuplaChanceTotalGols, true},  // Dupla Chance & Total de Gols
	{557, domain.MarketResultadoTotalGols, true},    // Resultado Final & Total de Gols
}

func (Mapper) ClassifyMarket(m domain.RawMarket) (domain.MarketMapping, bool) {
	id, err := strconv.Atoi(m.ProviderMarketID)
	if err != nil {
		return domain.MarketMapping{}, false
	}
	for _, r := range marketRules {
		if r.id != id {
			continue
		}
		mapping := domain.MarketMapping{
			Canonical: r.canonical,
			Period:    domain.PeriodRegularTime,
			Happening: domain.HappeningGoals,
		}
		if r.lineFromName {
			mapping.Line = extractLine(m.Name)
		}
		return mapping, true
	}
	return domain.MarketMapping{}, false
}

// extractLine pulls the threshold out of a market name like
// "Dupla Chance & Total de Gols (2.5)".
func extractLine(name string) *float64 {
	match := lineRe.FindStringSubmatch(name)
	if match == nil {
		return nil
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

type labelPred func(raw, lower string) bool

func eq(want string) labelPred {
	return func(raw, _ string) bool { return raw == want }
}

func has(sub string) labelPred {
	return func(_, lower string) bool { return strings.Contains(lower, sub) }
}

func hasAny(subs ...string) labelPred {
	return func(_, lower string) bool {
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

func all(preds ...labelPred) labelPred {
	return func(raw, lower string) bool {
		for _, p := range preds {
			if !p(raw, lower) {
				return false
			}
		}
		return true
	}
}

type outcomeRule struct {
	market  domain.MarketType
	match   labelPred
	outcome domain.OutcomeType
}

// outcomeRules has no entries for the handicap markets: Superbet handicap
// options carry no stable code, so they classify to discard and the market is
// dropped as optionless.
var outcomeRules = []outcomeRule{
	// Resultado Final (1X2)
	{domain.MarketResultadoFinal, eq("1"), domain.OutcomeHome},
	{domain.MarketResultadoFinal, eq("X"), domain.OutcomeDraw},
	{domain.MarketResultadoFinal, eq("2"), domain.OutcomeAway},

	// Ambas as Equipes Marcam
	{domain.MarketBTTS, eq("Sim"), domain.OutcomeYes},
	{domain.MarketBTTS, eq("Não"), domain.OutcomeNo},

	// Dupla Chance
	{domain.MarketDuplaChance, eq("1X"), domain.OutcomeHomeOrDraw},
	{domain.MarketDuplaChance, eq("X2"), domain.OutcomeDrawOrAway},
	{domain.MarketDuplaChance, eq("12"), domain.OutcomeHomeOrAway},

	// Empate Anula Aposta: option labels are team names. Distinguishing the
	// sides by digit containment is a provisional rule pending a stable code
	// from the provider.
	{domain.MarketDrawNoBet, has("1"), domain.OutcomeHome},
	{domain.MarketDrawNoBet, has("2"), domain.OutcomeAway},

	// Resultado Final & Ambas Marcam
	{domain.MarketResultadoBTTS, all(hasAny("1", "home"), hasAny("sim", "yes")), domain.OutcomeHomeAndYes},
	{domain.MarketResultadoBTTS, all(hasAny("1", "home"), hasAny("não", "no")), domain.OutcomeHomeAndNo},
	{domain.MarketResultadoBTTS, all(hasAny("x", "empate", "draw"), hasAny("sim", "yes")), domain.OutcomeDrawAndYes},
	{domain.MarketResultadoBTTS, all(hasAny("x", "empate", "draw"), hasAny("não", "no")), domain.OutcomeDrawAndNo},
	{domain.MarketResultadoBTTS, all(hasAny("2", "away"), hasAny("sim", "yes")), domain.OutcomeAwayAndYes},
	{domain.MarketResultadoBTTS, all(hasAny("2", "away"), hasAny("não", "no")), domain.OutcomeAwayAndNo},

	// Dupla Chance & Total de Gols
	{domain.MarketDuplaChanceTotalGols, all(has("1x"), hasAny("mais", "over")), domain.OutcomeHomeOrDrawAndOver},
	{domain.MarketDuplaChanceTotalGols, all(has("1x"), hasAny("menos", "under")), domain.OutcomeHomeOrDrawAndUnder},
	{domain.MarketDuplaChanceTotalGols, all(has("x2"), hasAny("mais", "over")), domain.OutcomeDrawOrAwayAndOver},
	{domain.MarketDuplaChanceTotalGols, all(has("x2"), hasAny("menos", "under")), domain.OutcomeDrawOrAwayAndUnder},
	{domain.MarketDuplaChanceTotalGols, all(has("12"), hasAny("mais", "over")), domain.OutcomeHomeOrAwayAndOver},
	{domain.MarketDuplaChanceTotalGols, all(has("12"), hasAny("menos", "under")), domain.OutcomeHomeOrAwayAndUnder},

	// Resultado Final & Total de Gols ("1 e Mais de 2.5", ...)
	{domain.MarketResultadoTotalGols, all(has("1 e"), hasAny("mais", "over")), domain.OutcomeHomeAndOver},
	{domain.MarketResultadoTotalGols, all(has("1 e"), hasAny("menos", "under")), domain.OutcomeHomeAndUnder},
	{domain.MarketResultadoTotalGols, all(has("x e"), hasAny("mais", "over")), domain.OutcomeDrawAndOver},
	{domain.MarketResultadoTotalGols, all(has("x e"), hasAny("menos", "under")), domain.OutcomeDrawAndUnder},
	{domain.MarketResultadoTotalGols, all(has("2 e"), hasAny("mais", "over")), domain.OutcomeAwayAndOver},
	{domain.MarketResultadoTotalGols, all(has("2 e"), hasAny("menos", "under")), domain.OutcomeAwayAndUnder},
}

func (Mapper) ClassifyOutcome(o domain.RawOutcome, mapping domain.MarketMapping) (domain.OutcomeType, bool) {
	raw := strings.TrimSpace(o.Label)
	if raw == "" {
		return "", false
	}
	lower := strings.ToLower(raw)
	for _, r := range outcomeRules {
		if r.market != mapping.Canonical {
			continue
		}
		if r.match(raw, lower) {
			return r.outcome, true
		}
	}
	return "", false
}
