package betmgm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/superodds/superodds/internal/domain"
)

// Mapper classifies BetMGM (Kambi) markets and outcomes. Kambi describes a
// market with a free-text "criterion" label, localized pt-BR or English, so
// the rules are substring matches over the criterion and offer labels. Rules
// are evaluated in order, first match wins, no match means discard.
type Mapper struct{}

var _ domain.Classifier = Mapper{}

var lineRe = regexp.MustCompile(`([+-]?\d+[.,]?\d*)`)

// ruleInput is the lowered text a market rule matches against.
type ruleInput struct {
	criterion string
	label     string
	offerType string
}

type marketRule struct {
	match     func(in ruleInput) bool
	canonical domain.MarketType
	happening domain.HappeningType
	withLine  bool
}

// marketRules orders matter: the asian-handicap rule must run before the
// generic handicap rule, and the combined result rules before the plain
// totals rule would be wrong the other way around.
var marketRules = []marketRule{
	{ // Result + Total Goals. Must precede the plain 1X2 and totals rules.
		match: func(in ruleInput) bool {
			c := in.criterion
			return hasAnyOf(c, "result", "resultado") &&
				(strings.Contains(c, "total") || hasAnyOf(in.label, "over", "under", "mais", "menos")) &&
				!hasAnyOf(c, "double", "dupla")
		},
		canonical: domain.MarketResultadoTotalGols,
		happening: domain.HappeningGoals,
		withLine:  true,
	},
	{ // Result + BTTS. Must precede the plain BTTS rule.
		match: func(in ruleInput) bool {
			c := in.criterion
			return hasAnyOf(c, "result", "resultado") && hasAnyOf(c, "btts", "ambas", "both teams")
		},
		canonical: domain.MarketResultadoBTTS,
		happening: domain.HappeningGoals,
	},
	{ // Resultado Final / Full Time Result / Match Result / 1X2
		match: func(in ruleInput) bool {
			c := in.criterion
			return hasAll(c, "resultado", "final") ||
				hasAll(c, "full", "time") ||
				hasAll(c, "match", "result") ||
				strings.Contains(c, "3-way") ||
				c == "1x2"
		},
		canonical: domain.MarketResultadoFinal,
		happening: domain.HappeningGoals,
	},
	{ // Double Chance + Total Goals. Must precede the plain double-chance rule.
		match: func(in ruleInput) bool {
			c := in.criterion
			return hasAnyOf(c, "double", "dupla") && strings.Contains(c, "chance") &&
				(strings.Contains(c, "total") || hasAnyOf(in.label, "over", "under", "mais", "menos"))
		},
		canonical: domain.MarketDuplaChanceTotalGols,
		happening: domain.HappeningGoals,
		withLine:  true,
	},
	{ // Ambas Marcam / Both Teams To Score
		match: func(in ruleInput) bool {
			c := in.criterion
			return hasAll(c, "ambas", "marcam") || hasAll(c, "both", "teams") || strings.Contains(c, "btts")
		},
		canonical: domain.MarketBTTS,
		happening: domain.HappeningGoals,
	},
	{ // Dupla Chance / Double Chance
		match: func(in ruleInput) bool {
			return hasAll(in.criterion, "dupla", "chance") || hasAll(in.criterion, "double", "chance")
		},
		canonical: domain.MarketDuplaChance,
		happening: domain.HappeningGoals,
	},
	{ // Draw No Bet / Empate Anula Aposta
		match: func(in ruleInput) bool {
			return hasAll(in.criterion, "draw", "no", "bet") || hasAll(in.criterion, "empate", "anula")
		},
		canonical: domain.MarketDrawNoBet,
		happening: domain.HappeningGoals,
	},
	{ // Asian Handicap: named asian, or any handicap whose offer is two-way.
		match: func(in ruleInput) bool {
			c := in.criterion
			return hasAll(c, "asian", "handicap") ||
				hasAll(c, "handicap", "asiático") ||
				(strings.Contains(c, "handicap") && strings.Contains(in.offerType, "OT_TWO"))
		},
		canonical: domain.MarketHandicapAsian2Way,
		happening: domain.HappeningGoals,
		withLine:  true,
	},
	{ // Remaining handicaps are three-way (European).
		match: func(in ruleInput) bool {
			return strings.Contains(in.criterion, "handicap")
		},
		canonical: domain.MarketHandicap3Way,
		happening: domain.HappeningGoals,
		withLine:  true,
	},
	{ // Total Goals Over/Under
		match: func(in ruleInput) bool {
			c := in.criterion
			if !strings.Contains(c, "total") {
				return false
			}
			if !hasAnyOf(c, "goals", "gols") {
				return false
			}
			// Combined markets ("Resultado e Total de Gols") fall through to
			// their own rules below.
			if hasAnyOf(c, "result", "resultado", "chance") {
				return false
			}
			return hasAnyOf(c, "over", "under") || hasAnyOf(in.label, "over", "under", "mais", "menos")
		},
		canonical: domain.MarketTotalGolsOverUnder,
		happening: domain.HappeningGoals,
		withLine:  true,
	},
	{ // Total Corners
		match: func(in ruleInput) bool {
			return hasAnyOf(in.criterion, "corner", "escanteio")
		},
		canonical: domain.MarketTotalEscanteiosOU,
		happening: domain.HappeningCorners,
		withLine:  true,
	},
	{ // Total Cards ("cart" stems cartão/cartões/cartao)
		match: func(in ruleInput) bool {
			return hasAnyOf(in.criterion, "card", "cart")
		},
		canonical: domain.MarketTotalCartoesOverUnder,
		happening: domain.HappeningCards,
		withLine:  true,
	},
}

func (Mapper) ClassifyMarket(m domain.RawMarket) (domain.MarketMapping, bool) {
	in := ruleInput{
		criterion: strings.ToLower(m.Name),
		label:     strings.ToLower(m.Params["label"]),
		offerType: m.OfferType,
	}
	for _, r := range marketRules {
		if !r.match(in) {
			continue
		}
		mapping := domain.MarketMapping{
			Canonical: r.canonical,
			Period:    domain.PeriodRegularTime,
			Happening: r.happening,
		}
		if r.withLine {
			mapping.Line = extractLine(m.Params["label"])
		}
		return mapping, true
	}
	return domain.MarketMapping{}, false
}

// extractLine pulls the signed decimal out of the offer label, e.g.
// "Mais de (2,5)" or "Grêmio (-0.75)". Composite labels lead with the
// selection ("1 e Mais de 2,5"), so the last numeric token is the line.
func extractLine(label string) *float64 {
	matches := lineRe.FindAllStringSubmatch(label, -1)
	if len(matches) == 0 {
		return nil
	}
	s := strings.ReplaceAll(strings.TrimPrefix(matches[len(matches)-1][1], "+"), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

type outcomeRule struct {
	market  domain.MarketType
	match   func(lower string) bool
	outcome domain.OutcomeType
}

func hasAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func hasAnyOf(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func anyOf(subs ...string) func(string) bool {
	return func(lower string) bool { return hasAnyOf(lower, subs...) }
}

func exactly(want string) func(string) bool {
	return func(lower string) bool { return lower == want }
}

func either(preds ...func(string) bool) func(string) bool {
	return func(lower string) bool {
		for _, p := range preds {
			if p(lower) {
				return true
			}
		}
		return false
	}
}

func both(a, b func(string) bool) func(string) bool {
	return func(lower string) bool { return a(lower) && b(lower) }
}

// startsAny matches the leading token of a composite label like
// "1 e Mais de 2,5" or "Empate e Sim". Matching the prefix keeps line digits
// later in the label from being mistaken for a 1/X/2 selection.
func startsAny(prefixes ...string) func(string) bool {
	return func(lower string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(lower, p) {
				return true
			}
		}
		return false
	}
}

var outcomeRules = []outcomeRule{
	// 1X2
	{domain.MarketResultadoFinal, either(anyOf("home", "mandante"), exactly("1")), domain.OutcomeHome},
	{domain.MarketResultadoFinal, either(anyOf("draw", "empate"), exactly("x")), domain.OutcomeDraw},
	{domain.MarketResultadoFinal, either(anyOf("away", "visitante"), exactly("2")), domain.OutcomeAway},

	// BTTS
	{domain.MarketBTTS, anyOf("yes", "sim"), domain.OutcomeYes},
	{domain.MarketBTTS, anyOf("no", "não", "nao"), domain.OutcomeNo},

	// Double chance
	{domain.MarketDuplaChance, either(anyOf("1x"), both(anyOf("home"), anyOf("draw"))), domain.OutcomeHomeOrDraw},
	{domain.MarketDuplaChance, either(anyOf("x2"), both(anyOf("draw"), anyOf("away"))), domain.OutcomeDrawOrAway},
	{domain.MarketDuplaChance, either(anyOf("12"), both(anyOf("home"), anyOf("away"))), domain.OutcomeHomeOrAway},

	// Draw no bet
	{domain.MarketDrawNoBet, either(anyOf("home"), exactly("1")), domain.OutcomeHome},
	{domain.MarketDrawNoBet, either(anyOf("away"), exactly("2")), domain.OutcomeAway},

	// Totals (goals, corners, cards)
	{domain.MarketTotalGolsOverUnder, anyOf("over", "mais", "acima"), domain.OutcomeOver},
	{domain.MarketTotalGolsOverUnder, anyOf("under", "menos", "abaixo"), domain.OutcomeUnder},
	{domain.MarketTotalEscanteiosOU, anyOf("over", "mais", "acima"), domain.OutcomeOver},
	{domain.MarketTotalEscanteiosOU, anyOf("under", "menos", "abaixo"), domain.OutcomeUnder},
	{domain.MarketTotalCartoesOverUnder, anyOf("over", "mais", "acima"), domain.OutcomeOver},
	{domain.MarketTotalCartoesOverUnder, anyOf("under", "menos", "abaixo"), domain.OutcomeUnder},

	// Asian handicap
	{domain.MarketHandicapAsian2Way, either(anyOf("home", "mandante"), exactly("1")), domain.OutcomeHomeHandicap},
	{domain.MarketHandicapAsian2Way, either(anyOf("away", "visitante"), exactly("2")), domain.OutcomeAwayHandicap},

	// European handicap
	{domain.MarketHandicap3Way, either(anyOf("home", "mandante"), exactly("1")), domain.OutcomeHomeHcp},
	{domain.MarketHandicap3Way, either(anyOf("draw", "empate"), exactly("x")), domain.OutcomeDrawHcp},
	{domain.MarketHandicap3Way, either(anyOf("away", "visitante"), exactly("2")), domain.OutcomeAwayHcp},

	// Result + total goals. The result part leads the composite label, the
	// totals part follows, so the 1/X/2 selection is matched as a prefix.
	{domain.MarketResultadoTotalGols, both(startsAny("1", "home", "mandante"), anyOf("over", "mais")), domain.OutcomeHomeAndOver},
	{domain.MarketResultadoTotalGols, both(startsAny("1", "home", "mandante"), anyOf("under", "menos")), domain.OutcomeHomeAndUnder},
	{domain.MarketResultadoTotalGols, both(startsAny("x", "empate", "draw"), anyOf("over", "mais")), domain.OutcomeDrawAndOver},
	{domain.MarketResultadoTotalGols, both(startsAny("x", "empate", "draw"), anyOf("under", "menos")), domain.OutcomeDrawAndUnder},
	{domain.MarketResultadoTotalGols, both(startsAny("2", "away", "visitante"), anyOf("over", "mais")), domain.OutcomeAwayAndOver},
	{domain.MarketResultadoTotalGols, both(startsAny("2", "away", "visitante"), anyOf("under", "menos")), domain.OutcomeAwayAndUnder},

	// Result + BTTS
	{domain.MarketResultadoBTTS, both(startsAny("1", "home", "mandante"), anyOf("sim", "yes")), domain.OutcomeHomeAndYes},
	{domain.MarketResultadoBTTS, both(startsAny("1", "home", "mandante"), anyOf("não", "nao", "no")), domain.OutcomeHomeAndNo},
	{domain.MarketResultadoBTTS, both(startsAny("x", "empate", "draw"), anyOf("sim", "yes")), domain.OutcomeDrawAndYes},
	{domain.MarketResultadoBTTS, both(startsAny("x", "empate", "draw"), anyOf("não", "nao", "no")), domain.OutcomeDrawAndNo},
	{domain.MarketResultadoBTTS, both(startsAny("2", "away", "visitante"), anyOf("sim", "yes")), domain.OutcomeAwayAndYes},
	{domain.MarketResultadoBTTS, both(startsAny("2", "away", "visitante"), anyOf("não", "nao", "no")), domain.OutcomeAwayAndNo},

	// Double chance + total goals
	{domain.MarketDuplaChanceTotalGols, both(startsAny("1x"), anyOf("over", "mais")), domain.OutcomeHomeOrDrawAndOver},
	{domain.MarketDuplaChanceTotalGols, both(startsAny("1x"), anyOf("under", "menos")), domain.OutcomeHomeOrDrawAndUnder},
	{domain.MarketDuplaChanceTotalGols, both(startsAny("x2"), anyOf("over", "mais")), domain.OutcomeDrawOrAwayAndOver},
	{domain.MarketDuplaChanceTotalGols, both(startsAny("x2"), anyOf("under", "menos")), domain.OutcomeDrawOrAwayAndUnder},
	{domain.MarketDuplaChanceTotalGols, both(startsAny("12"), anyOf("over", "mais")), domain.OutcomeHomeOrAwayAndOver},
	{domain.MarketDuplaChanceTotalGols, both(startsAny("12"), anyOf("under", "menos")), domain.OutcomeHomeOrAwayAndUnder},
}

func (Mapper) ClassifyOutcome(o domain.RawOutcome, mapping domain.MarketMapping) (domain.OutcomeType, bool) {
	lower := strings.ToLower(strings.TrimSpace(o.Label))
	if lower == "" {
		return "", false
	}
	for _, r := range outcomeRules {
		if r.market != mapping.Canonical {
			continue
		}
		if r.match(lower) {
			return r.outcome, true
		}
	}
	return "", false
}
