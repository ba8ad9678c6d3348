package domain

// MarketType is the canonical market taxonomy. Every provider-native market
// must be mapped to exactly one of these values or discarded; no market is
// ever persisted with an empty or unknown type.
type MarketType string

const (
	MarketResultadoFinal        MarketType = "resultado_final"
	MarketDuplaChance           MarketType = "dupla_chance"
	MarketBTTS                  MarketType = "btts"
	MarketDrawNoBet             MarketType = "draw_no_bet"
	MarketResultadoTotalGols    MarketType = "resultado_total_gols"
	MarketHandicapAsian2Way     MarketType = "handicap_asian_2way"
	MarketResultadoBTTS         MarketType = "resultado_btts"
	MarketResultadoBTTSWin      MarketType = "resultado_btts_win"
	MarketHandicap3Way          MarketType = "handicap_3way"
	MarketDuplaChanceTotalGols  MarketType = "dupla_chance_total_gols"
	MarketTotalCartoesOverUnder MarketType = "total_cartoes_over_under"
	MarketTotalEscanteiosOU     MarketType = "total_escanteios_over_under"
	MarketTotalGolsOverUnder    MarketType = "total_gols_over_under"
)

// OutcomeType is the canonical outcome taxonomy for market options.
type OutcomeType string

const (
	// Basic 1X2.
	OutcomeHome OutcomeType = "HOME"
	OutcomeDraw OutcomeType = "DRAW"
	OutcomeAway OutcomeType = "AWAY"

	// Double chance.
	OutcomeHomeOrDraw OutcomeType = "HOME_OR_DRAW"
	OutcomeDrawOrAway OutcomeType = "DRAW_OR_AWAY"
	OutcomeHomeOrAway OutcomeType = "HOME_OR_AWAY"

	// Over / under.
	OutcomeOver  OutcomeType = "OVER"
	OutcomeUnder OutcomeType = "UNDER"

	// Both teams to score.
	OutcomeYes OutcomeType = "YES"
	OutcomeNo  OutcomeType = "NO"

	// Combined 1X2 + totals.
	OutcomeHomeAndOver  OutcomeType = "HOME_AND_OVER"
	OutcomeHomeAndUnder OutcomeType = "HOME_AND_UNDER"
	OutcomeDrawAndOver  OutcomeType = "DRAW_AND_OVER"
	OutcomeDrawAndUnder OutcomeType = "DRAW_AND_UNDER"
	OutcomeAwayAndOver  OutcomeType = "AWAY_AND_OVER"
	OutcomeAwayAndUnder OutcomeType = "AWAY_AND_UNDER"

	// Combined 1X2 + BTTS.
	OutcomeHomeAndYes OutcomeType = "HOME_AND_YES"
	OutcomeHomeAndNo  OutcomeType = "HOME_AND_NO"
	OutcomeDrawAndYes OutcomeType = "DRAW_AND_YES"
	OutcomeDrawAndNo  OutcomeType = "DRAW_AND_NO"
	OutcomeAwayAndYes OutcomeType = "AWAY_AND_YES"
	OutcomeAwayAndNo  OutcomeType = "AWAY_AND_NO"

	// Win + BTTS.
	OutcomeHomeWinAndYes OutcomeType = "HOME_WIN_AND_YES"
	OutcomeAwayWinAndYes OutcomeType = "AWAY_WIN_AND_YES"

	// Double chance + totals.
	OutcomeHomeOrDrawAndOver  OutcomeType = "HOME_OR_DRAW_AND_OVER"
	OutcomeHomeOrDrawAndUnder OutcomeType = "HOME_OR_DRAW_AND_UNDER"
	OutcomeDrawOrAwayAndOver  OutcomeType = "DRAW_OR_AWAY_AND_OVER"
	OutcomeDrawOrAwayAndUnder OutcomeType = "DRAW_OR_AWAY_AND_UNDER"
	OutcomeHomeOrAwayAndOver  OutcomeType = "HOME_OR_AWAY_AND_OVER"
	OutcomeHomeOrAwayAndUnder OutcomeType = "HOME_OR_AWAY_AND_UNDER"

	// Handicap.
	OutcomeHomeHandicap OutcomeType = "HOME_HANDICAP"
	OutcomeAwayHandicap OutcomeType = "AWAY_HANDICAP"
	OutcomeHomeHcp      OutcomeType = "HOME_HCP"
	OutcomeDrawHcp      OutcomeType = "DRAW_HCP"
	OutcomeAwayHcp      OutcomeType = "AWAY_HCP"

	// OutcomeOther is a debug-only sentinel for inspection tooling. Builders
	// treat it the same as an unmapped outcome: it is never persisted.
	OutcomeOther OutcomeType = "OTHER"
)

// PeriodType identifies the part of the match a market refers to.
type PeriodType string

const (
	PeriodRegularTime PeriodType = "REGULAR_TIME"
	PeriodFirstHalf   PeriodType = "FIRST_HALF"
	PeriodSecondHalf  PeriodType = "SECOND_HALF"
)

// HappeningType identifies what a market counts.
type HappeningType string

const (
	HappeningGoals   HappeningType = "GOALS"
	HappeningCards   HappeningType = "CARDS"
	HappeningCorners HappeningType = "CORNERS"
)

// ParticipantSide marks a market that is specific to one team. Global markets
// leave it empty.
type ParticipantSide string

const (
	SideHome ParticipantSide = "HOME"
	SideAway ParticipantSide = "AWAY"
)
