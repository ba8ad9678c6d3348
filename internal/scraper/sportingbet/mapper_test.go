package sportingbet

import (
	"testing"

	"github.com/superodds/superodds/internal/domain"
)

func market(params map[string]string, name string) domain.RawMarket {
	return domain.RawMarket{ProviderMarketID: "42", Name: name, Params: params}
}

func TestClassifyMarket(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]string
		mname      string
		want       domain.MarketType
		wantPeriod domain.PeriodType
		wantLine   *float64
		wantOK     bool
	}{
		{
			"1x2", map[string]string{"MarketType": "3way"}, "Resultado da partida",
			domain.MarketResultadoFinal, domain.PeriodRegularTime, nil, true,
		},
		{
			"1x2 first half", map[string]string{"MarketType": "3way", "Period": "FirstHalf"}, "Resultado 1º tempo",
			domain.MarketResultadoFinal, domain.PeriodFirstHalf, nil, true,
		},
		{
			"1x2 with range is a special variant", map[string]string{"MarketType": "3way", "RangeValue": "2"}, "Resultado",
			"", "", nil, false,
		},
		{
			"btts", map[string]string{"MarketType": "BTTS"}, "Ambas marcam",
			domain.MarketBTTS, domain.PeriodRegularTime, nil, true,
		},
		{
			"double chance", map[string]string{"MarketType": "DoubleChance"}, "Dupla chance",
			domain.MarketDuplaChance, domain.PeriodRegularTime, nil, true,
		},
		{
			"draw no bet", map[string]string{"MarketType": "DrawNoBet"}, "Empate anula",
			domain.MarketDrawNoBet, domain.PeriodRegularTime, nil, true,
		},
		{
			"handicap with comma range", map[string]string{"MarketType": "Handicap", "RangeValue": "-1,5"}, "Handicap",
			domain.MarketHandicap3Way, domain.PeriodRegularTime, fptr(-1.5), true,
		},
		{
			"asian handicap", map[string]string{"MarketType": "2wayHandicap", "RangeValue": "0,75"}, "Handicap asiático",
			domain.MarketHandicapAsian2Way, domain.PeriodRegularTime, fptr(0.75), true,
		},
		{
			"result and btts", map[string]string{"MarketType": "ThreeWayAndBTTS"}, "Resultado e ambas marcam",
			domain.MarketResultadoBTTS, domain.PeriodRegularTime, nil, true,
		},
		{
			"to win and btts", map[string]string{"MarketType": "ToWinAndBTTS"}, "Vencer e ambas marcam",
			domain.MarketResultadoBTTS, domain.PeriodRegularTime, nil, true,
		},
		{
			"result and total line from name", map[string]string{"MarketType": "ThreeWayAndOverUnder"}, "Resultado e total 2,5",
			domain.MarketResultadoTotalGols, domain.PeriodRegularTime, fptr(2.5), true,
		},
		{
			"dc and total", map[string]string{"MarketType": "DoubleChanceAndOverUnder", "RangeValue": "3,5"}, "Dupla chance e total",
			domain.MarketDuplaChanceTotalGols, domain.PeriodRegularTime, fptr(3.5), true,
		},
		{
			"unknown market type", map[string]string{"MarketType": "CornerCount"}, "Escanteios",
			"", "", nil, false,
		},
		{
			"missing market type", map[string]string{}, "???",
			"", "", nil, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mapper{}.ClassifyMarket(market(tt.params, tt.mname))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Canonical != tt.want {
				t.Errorf("canonical = %s, want %s", got.Canonical, tt.want)
			}
			if got.Period != tt.wantPeriod {
				t.Errorf("period = %s, want %s", got.Period, tt.wantPeriod)
			}
			if (got.Line == nil) != (tt.wantLine == nil) {
				t.Fatalf("line = %v, want %v", got.Line, tt.wantLine)
			}
			if got.Line != nil && *got.Line != *tt.wantLine {
				t.Errorf("line = %v, want %v", *got.Line, *tt.wantLine)
			}
		})
	}
}

func TestClassifyOutcome(t *testing.T) {
	tests := []struct {
		name   string
		market domain.MarketType
		code   string
		want   domain.OutcomeType
		wantOK bool
	}{
		{"home", domain.MarketResultadoFinal, "1", domain.OutcomeHome, true},
		{"draw", domain.MarketResultadoFinal, "X", domain.OutcomeDraw, true},
		{"away", domain.MarketResultadoFinal, "2", domain.OutcomeAway, true},
		{"btts yes", domain.MarketBTTS, "Yes", domain.OutcomeYes, true},
		{"btts no", domain.MarketBTTS, "No", domain.OutcomeNo, true},
		{"dc 1x", domain.MarketDuplaChance, "1X", domain.OutcomeHomeOrDraw, true},
		{"dnb home", domain.MarketDrawNoBet, "1", domain.OutcomeHome, true},
		{"dnb away", domain.MarketDrawNoBet, "2", domain.OutcomeAway, true},
		{"dnb draw code discarded", domain.MarketDrawNoBet, "X", "", false},
		{"handicap 3way draw", domain.MarketHandicap3Way, "X", domain.OutcomeDrawHcp, true},
		{"asian home", domain.MarketHandicapAsian2Way, "1", domain.OutcomeHomeHandicap, true},
		{"asian away", domain.MarketHandicapAsian2Way, "2", domain.OutcomeAwayHandicap, true},
		{"asian draw discarded", domain.MarketHandicapAsian2Way, "X", "", false},
		{"result btts composite", domain.MarketResultadoBTTS, "1Yes", domain.OutcomeHomeAndYes, true},
		{"result btts draw no", domain.MarketResultadoBTTS, "XNo", domain.OutcomeDrawAndNo, true},
		{"result total away under", domain.MarketResultadoTotalGols, "2Under", domain.OutcomeAwayAndUnder, true},
		{"dc total 1x over", domain.MarketDuplaChanceTotalGols, "1XOver", domain.OutcomeHomeOrDrawAndOver, true},
		{"dc total x2 under", domain.MarketDuplaChanceTotalGols, "X2Under", domain.OutcomeDrawOrAwayAndUnder, true},
		{"empty code", domain.MarketResultadoFinal, "", "", false},
		{"junk code", domain.MarketResultadoFinal, "Q", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mapper{}.ClassifyOutcome(
				domain.RawOutcome{Code: tt.code},
				domain.MarketMapping{Canonical: tt.market},
			)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("outcome = %s, want %s", got, tt.want)
			}
		})
	}
}

func fptr(v float64) *float64 { return &v }
