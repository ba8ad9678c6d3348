package betmgm

import (
	"testing"

	"github.com/superodds/superodds/internal/domain"
)

func offer(criterion, label, offerType string) domain.RawMarket {
	return domain.RawMarket{
		ProviderMarketID: "1001",
		Name:             criterion,
		OfferType:        offerType,
		Params:           map[string]string{"label": label},
	}
}

func TestClassifyMarket(t *testing.T) {
	tests := []struct {
		name          string
		criterion     string
		label         string
		offerType     string
		want          domain.MarketType
		wantHappening domain.HappeningType
		wantLine      *float64
		wantOK        bool
	}{
		{
			"resultado final pt", "Resultado Final", "", "OT_THREE",
			domain.MarketResultadoFinal, domain.HappeningGoals, nil, true,
		},
		{
			"full time result en", "Full Time Result", "", "OT_THREE",
			domain.MarketResultadoFinal, domain.HappeningGoals, nil, true,
		},
		{
			"1x2 literal", "1X2", "", "OT_THREE",
			domain.MarketResultadoFinal, domain.HappeningGoals, nil, true,
		},
		{
			"btts pt", "Ambas as Equipes Marcam", "", "OT_YESNO",
			domain.MarketBTTS, domain.HappeningGoals, nil, true,
		},
		{
			"dupla chance", "Dupla Chance", "", "OT_THREE",
			domain.MarketDuplaChance, domain.HappeningGoals, nil, true,
		},
		{
			"draw no bet", "Empate Anula Aposta", "", "OT_TWO",
			domain.MarketDrawNoBet, domain.HappeningGoals, nil, true,
		},
		{
			"asian handicap by name", "Handicap Asiático", "Grêmio -0,75", "OT_TWO",
			domain.MarketHandicapAsian2Way, domain.HappeningGoals, fptr(-0.75), true,
		},
		{
			"two way handicap is asian", "Handicap", "Fluminense +1.5", "OT_TWO",
			domain.MarketHandicapAsian2Way, domain.HappeningGoals, fptr(1.5), true,
		},
		{
			"three way handicap", "Handicap", "Empate (-1)", "OT_THREE",
			domain.MarketHandicap3Way, domain.HappeningGoals, fptr(-1), true,
		},
		{
			"total gols", "Total de Gols", "Mais de (2,5)", "OT_OVER_UNDER",
			domain.MarketTotalGolsOverUnder, domain.HappeningGoals, fptr(2.5), true,
		},
		{
			"resultado e total", "Resultado e Total de Gols", "1 e Mais de 2,5", "OT_COMBINED",
			domain.MarketResultadoTotalGols, domain.HappeningGoals, fptr(2.5), true,
		},
		{
			"resultado e ambas marcam", "Resultado e Ambas Marcam", "Empate e Sim", "OT_COMBINED",
			domain.MarketResultadoBTTS, domain.HappeningGoals, nil, true,
		},
		{
			"dupla chance e total", "Dupla Chance e Total de Gols", "1X e Menos de 3,5", "OT_COMBINED",
			domain.MarketDuplaChanceTotalGols, domain.HappeningGoals, fptr(3.5), true,
		},
		{
			"escanteios", "Total de Escanteios", "Mais de (9,5)", "OT_OVER_UNDER",
			domain.MarketTotalEscanteiosOU, domain.HappeningCorners, fptr(9.5), true,
		},
		{
			"cartoes", "Total de Cartões", "Menos de (4,5)", "OT_OVER_UNDER",
			domain.MarketTotalCartoesOverUnder, domain.HappeningCards, fptr(4.5), true,
		},
		{
			"unknown criterion", "Jogador a Marcar", "Arrascaeta", "OT_YESNO",
			"", "", nil, false,
		},
		{
			"correct score discarded", "Placar Exato", "2-1", "OT_SCORE",
			"", "", nil, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mapper{}.ClassifyMarket(offer(tt.criterion, tt.label, tt.offerType))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Canonical != tt.want {
				t.Errorf("canonical = %s, want %s", got.Canonical, tt.want)
			}
			if got.Happening != tt.wantHappening {
				t.Errorf("happening = %s, want %s", got.Happening, tt.wantHappening)
			}
			if got.Period != domain.PeriodRegularTime {
				t.Errorf("period = %s, want %s", got.Period, domain.PeriodRegularTime)
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
		label  string
		want   domain.OutcomeType
		wantOK bool
	}{
		{"home by keyword", domain.MarketResultadoFinal, "Mandante", domain.OutcomeHome, true},
		{"home literal 1", domain.MarketResultadoFinal, "1", domain.OutcomeHome, true},
		{"draw pt", domain.MarketResultadoFinal, "Empate", domain.OutcomeDraw, true},
		{"away en", domain.MarketResultadoFinal, "Away", domain.OutcomeAway, true},
		{"team name label discarded", domain.MarketResultadoFinal, "Grêmio", "", false},
		{"btts sim", domain.MarketBTTS, "Sim", domain.OutcomeYes, true},
		{"btts nao unaccented", domain.MarketBTTS, "Nao", domain.OutcomeNo, true},
		{"dc 1x", domain.MarketDuplaChance, "1X", domain.OutcomeHomeOrDraw, true},
		{"dc x2", domain.MarketDuplaChance, "X2", domain.OutcomeDrawOrAway, true},
		{"dc 12", domain.MarketDuplaChance, "12", domain.OutcomeHomeOrAway, true},
		{"over pt", domain.MarketTotalGolsOverUnder, "Mais de (2,5)", domain.OutcomeOver, true},
		{"under pt", domain.MarketTotalGolsOverUnder, "Menos de (2,5)", domain.OutcomeUnder, true},
		{"corners over", domain.MarketTotalEscanteiosOU, "Acima de 9,5", domain.OutcomeOver, true},
		{"cards under", domain.MarketTotalCartoesOverUnder, "Abaixo de 4,5", domain.OutcomeUnder, true},
		{"asian home", domain.MarketHandicapAsian2Way, "1", domain.OutcomeHomeHandicap, true},
		{"hcp draw", domain.MarketHandicap3Way, "Empate (-1)", domain.OutcomeDrawHcp, true},
		{"hcp team name discarded", domain.MarketHandicapAsian2Way, "Grêmio -0,75", "", false},
		{"result total home over", domain.MarketResultadoTotalGols, "1 e Mais de 2,5", domain.OutcomeHomeAndOver, true},
		{"result btts draw no", domain.MarketResultadoBTTS, "Empate e Não", domain.OutcomeDrawAndNo, true},
		{"dc total x2 under", domain.MarketDuplaChanceTotalGols, "X2 e Menos de 3,5", domain.OutcomeDrawOrAwayAndUnder, true},
		{"empty label", domain.MarketBTTS, "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mapper{}.ClassifyOutcome(
				domain.RawOutcome{Label: tt.label},
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
