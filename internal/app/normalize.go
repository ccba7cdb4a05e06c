package app

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"tripplanner/internal/domain"
)

// NameKey maps a display name to its identity key. Two places with the same
// key are the same place everywhere in an itinerary.
type NameKey func(name string) string

// ScriptFilter reports whether a name is written in the destination's script.
type ScriptFilter func(name string) bool

// Locale bundles the identity scheme and name filter of a destination.
type Locale struct {
	Key    NameKey
	Accept ScriptFilter
}

// VietnameseLocale keys names by VietnameseKey and keeps only names that carry
// at least one Vietnamese letter.
func VietnameseLocale() Locale {
	return Locale{Key: VietnameseKey, Accept: HasVietnameseScript}
}

// combining diacritical marks block
var stripMarks = runes.Remove(runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}))

// VietnameseKey lowercases, trims, decomposes (NFD), drops combining marks and
// collapses runs of whitespace. "đ" has no decomposition and is kept as is.
func VietnameseKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	out, _, err := transform.String(transform.Chain(norm.NFD, stripMarks), s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.FieldsFunc(out, unicode.IsSpace), " ")
}

const vietnameseLetters = "àáảãạăằắẳẵặâầấẩẫậèéẻẽẹêềếểễệìíỉĩịòóỏõọôồốổỗộơờớởỡợùúủũụưừứửữựỳýỷỹỵđĐ"

// HasVietnameseScript is true when name contains a Vietnamese accented letter.
// Names are compared in composed form so decomposed input also matches.
func HasVietnameseScript(name string) bool {
	return strings.ContainsAny(strings.ToLower(norm.NFC.String(name)), vietnameseLetters)
}

// Pools is the category partition the scheduler consumes.
type Pools struct {
	Food  []domain.Candidate
	Drink []domain.Candidate
	Other []domain.Candidate
}

// Dedup merges sources in priority order: a later candidate whose key was
// already seen is dropped, never merged. Empty names and names failing the
// locale filter are discarded.
func Dedup(loc Locale, sources ...[]domain.Candidate) []domain.Candidate {
	seen := make(map[string]struct{})
	var out []domain.Candidate
	dropped := 0
	for _, src := range sources {
		for _, c := range src {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				continue
			}
			if loc.Accept != nil && !loc.Accept(name) {
				dropped++
				continue
			}
			k := loc.Key(name)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, c)
		}
	}
	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("candidates rejected by locale filter")
	}
	return out
}

// Partition splits candidates into food, drink and other, preserving order.
func Partition(cands []domain.Candidate) Pools {
	var p Pools
	for _, c := range cands {
		switch {
		case c.Category.IsFood():
			p.Food = append(p.Food, c)
		case c.Category.IsDrink():
			p.Drink = append(p.Drink, c)
		default:
			p.Other = append(p.Other, c)
		}
	}
	return p
}
