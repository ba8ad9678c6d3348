package domain

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// identityTimeLayout renders the fixture start as a compact UTC stamp.
// The resulting identity string is wire-visible and must stay byte-stable.
const identityTimeLayout = "20060102T150405Z"

// stripMarks decomposes text and drops the combining marks, turning "Ê" into
// "E". Built once; Transform is safe for concurrent use.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText canonicalizes free text for identity derivation: uppercase,
// diacritics stripped, every run of non-alphanumeric characters collapsed to a
// single underscore, leading and trailing underscores trimmed. Blank input
// normalizes to "".
//
//	"Grêmio"           -> "GREMIO"
//	"São Paulo"        -> "SAO_PAULO"
//	"Atlético-Mineiro" -> "ATLETICO_MINEIRO"
//
// The function is idempotent: normalizing already-normalized text is a no-op.
func NormalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = strings.ToUpper(s)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// EventIdentity derives the cross-provider primary key for a fixture:
//
//	SPORT-yyyyMMddTHHmmssZ-HOME-AWAY
//
// e.g. "FUTEBOL-20251203T003000Z-GREMIO-FLUMINENSE". The same inputs always
// produce the same bytes, independent of provider, locale, or call order.
func EventIdentity(sport string, start time.Time, home, away string) string {
	parts := []string{
		NormalizeText(sport),
		start.UTC().Format(identityTimeLayout),
		NormalizeText(home),
		NormalizeText(away),
	}
	return strings.Join(parts, "-")
}
