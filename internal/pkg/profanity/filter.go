/*
Package profanity implements the predicate used to reject offensive chat messages.

Forbidden words are compiled into an Aho-Corasick automaton so a message is
scanned in a single pass regardless of list size. Input is normalized before
matching (lower-casing, leet-speak simplification, punctuation and whitespace
removal) so obfuscated spellings like "s.h-1.t" still match.
*/
package profanity

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// DefaultWords is the built-in forbidden word list, used when no custom list
// is configured.
var DefaultWords = []string{
	"ass",
	"asshole",
	"bastard",
	"bitch",
	"bullshit",
	"crap",
	"cunt",
	"damn",
	"dick",
	"fuck",
	"piss",
	"prick",
	"shit",
	"slut",
	"whore",
}

// Filter reports whether a text contains any forbidden word.
type Filter struct {
	matcher *goahocorasick.Machine
}

// New compiles the given word list into a Filter.
// Words are normalized with the same rules applied to scanned text.
func New(words []string) (*Filter, error) {
	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = normalizeRunes([]rune(word))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}

	return &Filter{matcher: m}, nil
}

// IsProfane reports whether text contains at least one forbidden word after
// normalization. It never mutates or stores the input.
func (f *Filter) IsProfane(text string) bool {
	normalized := normalizeRunes([]rune(text))
	if len(normalized) == 0 {
		return false
	}

	return len(f.matcher.MultiPatternSearch(normalized, true)) > 0
}

// normalizeRunes lower-cases, maps leet-speak digits back to letters, and
// drops punctuation, symbols, and whitespace.
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

// simplifyRune maps common leet-speak characters back to their standard alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
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

// isNoise identifies characters ignored during matching.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
