package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator flags messages containing blacklisted words using an
// Aho-Corasick automaton built over a normalized alphabet. Matching is
// resilient to casing, Leet speak and interleaved noise: "B.4.d.g.€r"
// still matches "badger".
type Moderator struct {
	matcher *goahocorasick.Machine
	log     *slog.Logger
}

// NewModerator builds the automaton from a normalized version of the
// provided word list.
func NewModerator(censoredWords []string, log *slog.Logger) (Moderator, error) {
	patterns := make([][]rune, len(censoredWords))
	for i, word := range censoredWords {
		patterns[i] = normalizeRunes([]rune(word))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: m, log: log}, nil
}

// IsProfane reports whether text contains at least one blacklisted word.
// The search stops on the first hit.
func (m *Moderator) IsProfane(text string) bool {
	normalized := normalizeRunes([]rune(text))
	if len(normalized) == 0 {
		return false
	}

	hits := m.matcher.MultiPatternSearch(normalized, true)
	if len(hits) == 0 {
		return false
	}
	m.log.Debug("Blacklisted word matched", "word", string(hits[0].Word))
	return true
}

// normalizeRunes applies simplification and noise removal to a slice of runes.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common Leet speak characters back to their standard alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies characters that should be ignored during the pattern matching phase.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
