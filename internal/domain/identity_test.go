package domain

import (
	"testing"
	"time"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Gremio", "GREMIO"},
		{"diacritics", "Grêmio", "GREMIO"},
		{"space to underscore", "São Paulo", "SAO_PAULO"},
		{"hyphen to underscore", "Atlético-Mineiro", "ATLETICO_MINEIRO"},
		{"punctuation run collapses", "Real -- Madrid!!", "REAL_MADRID"},
		{"leading trailing trimmed", "  (Palmeiras)  ", "PALMEIRAS"},
		{"digits kept", "América MG 2", "AMERICA_MG_2"},
		{"already normalized", "SAO_PAULO", "SAO_PAULO"},
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"only punctuation", "-- !!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{"Grêmio", "São Paulo", "Atlético-Mineiro", "  x--y  ", "ÀÉÎÕÜ ç"}
	for _, in := range inputs {
		once := NormalizeText(in)
		if twice := NormalizeText(once); twice != once {
			t.Errorf("NormalizeText not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestEventIdentity(t *testing.T) {
	start := time.Date(2025, 12, 3, 0, 30, 0, 0, time.UTC)
	got := EventIdentity("Futebol", start, "Grêmio", "Fluminense")
	want := "FUTEBOL-20251203T003000Z-GREMIO-FLUMINENSE"
	if got != want {
		t.Errorf("EventIdentity = %q, want %q", got, want)
	}
}

func TestEventIdentityUsesUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2025, 12, 2, 21, 30, 0, 0, loc) // 00:30 UTC next day
	utc := time.Date(2025, 12, 3, 0, 30, 0, 0, time.UTC)

	if a, b := EventIdentity("Futebol", local, "A", "B"), EventIdentity("Futebol", utc, "A", "B"); a != b {
		t.Errorf("identity depends on input zone: %q vs %q", a, b)
	}
}

func TestEventIdentityStable(t *testing.T) {
	start := time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC)
	first := EventIdentity("Futebol", start, "São Paulo", "Atlético-Mineiro")
	for i := 0; i < 10; i++ {
		if got := EventIdentity("Futebol", start, "São Paulo", "Atlético-Mineiro"); got != first {
			t.Fatalf("identity not stable across calls: %q vs %q", got, first)
		}
	}
}

func TestMarketKey(t *testing.T) {
	line := 2.5
	m := UnifiedMarket{
		Canonical: MarketTotalGolsOverUnder,
		Period:    PeriodRegularTime,
		Line:      &line,
		Happening: HappeningGoals,
	}
	want := "total_gols_over_under|REGULAR_TIME|2.5|GOALS||"
	if got := m.Key(); got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}

	noLine := UnifiedMarket{Canonical: MarketResultadoFinal, Period: PeriodRegularTime}
	if got := noLine.Key(); got != "resultado_final|REGULAR_TIME||||" {
		t.Errorf("Key() without line = %q", got)
	}
}

func TestMarketKeyDistinguishesLines(t *testing.T) {
	a, b := 1.5, 2.5
	ma := UnifiedMarket{Canonical: MarketTotalGolsOverUnder, Period: PeriodRegularTime, Line: &a, Happening: HappeningGoals}
	mb := UnifiedMarket{Canonical: MarketTotalGolsOverUnder, Period: PeriodRegularTime, Line: &b, Happening: HappeningGoals}
	if ma.Key() == mb.Key() {
		t.Error("markets with different lines share a key")
	}
}
