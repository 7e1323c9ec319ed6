// Package transliteration converts Serbian text written in (Croatian-style)
// Latin script to Serbian Cyrillic and back.
//
// Latin to Cyrillic is word based: each whitespace-delimited token is either
// transliterated or, when it looks like a foreign word, an abbreviation, a
// URL or a measurement such as "5kg", left in Latin. Cyrillic to Latin is a
// plain table lookup.
//
// An Engine is immutable after New and safe for concurrent use.
package transliteration

import (
	"fmt"
	"strings"

	"github.com/jusunglee/srbcyr/internal/wordlist"
	"github.com/samber/lo"
)

// Direction selects the target script.
type Direction string

const (
	Cyrillic Direction = "cyrillic"
	Latin    Direction = "latin"
)

// ParseDirection accepts "cyrillic" or "latin".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Cyrillic, Latin:
		return d, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// Tally counts what happened to the tokens of one conversion.
type Tally struct {
	Transliterated int
	Foreign        int
	Partial        int
}

// Add returns the sum of t and o.
func (t Tally) Add(o Tally) Tally {
	return Tally{
		Transliterated: t.Transliterated + o.Transliterated,
		Foreign:        t.Foreign + o.Foreign,
		Partial:        t.Partial + o.Partial,
	}
}

// Total is the number of word tokens seen.
func (t Tally) Total() int {
	return t.Transliterated + t.Foreign + t.Partial
}

type Engine struct {
	lists        wordlist.Lists
	wholeForeign map[string]struct{}
	forward      *strings.Replacer
	reverse      *reverseMapper
}

// New builds an engine from loaded word lists. It fails if either mapping
// table maps the same grapheme twice.
func New(lists wordlist.Lists) (*Engine, error) {
	if err := checkMappings(latinToCyrillic); err != nil {
		return nil, fmt.Errorf("latin to cyrillic table: %w", err)
	}
	if err := checkMappings(cyrillicToLatin); err != nil {
		return nil, fmt.Errorf("cyrillic to latin table: %w", err)
	}

	return &Engine{
		lists: lists,
		wholeForeign: lo.SliceToMap(lists.WholeForeignWords, func(w string) (string, struct{}) {
			return w, struct{}{}
		}),
		forward: newForwardReplacer(latinToCyrillic),
		reverse: newReverseMapper(cyrillicToLatin),
	}, nil
}

// TextToCyrillic transliterates text to Cyrillic, leaving foreign tokens in
// Latin. Runs of spaces collapse to one; line breaks are kept. Blank input is
// returned unchanged.
func (e *Engine) TextToCyrillic(text string) string {
	out, _ := e.textToCyrillic(text)
	return out
}

// ToLatin converts Cyrillic text to Latin. Everything outside the table,
// including existing Latin text, is copied unchanged.
func (e *Engine) ToLatin(text string) string {
	return e.reverse.replace(text)
}

// Convert runs the conversion for dir and reports token outcomes. The
// Latin direction has no classification step and returns an empty Tally.
func (e *Engine) Convert(text string, dir Direction) (string, Tally) {
	if dir == Latin {
		return e.ToLatin(text), Tally{}
	}
	return e.textToCyrillic(text)
}

func (e *Engine) textToCyrillic(text string) (string, Tally) {
	var t Tally
	if strings.TrimSpace(text) == "" {
		return text, t
	}

	tokens := Tokenize(text)
	for i, tok := range tokens {
		if isLineEnding(tok) {
			continue
		}
		if n, ok := e.ForeignPrefixLength(tok, '-'); ok {
			tokens[i] = tok[:n] + e.WordToCyrillic(tok[n:])
			t.Partial++
			continue
		}
		if e.IsForeign(tok) {
			t.Foreign++
			continue
		}
		tokens[i] = e.WordToCyrillic(tok)
		t.Transliterated++
	}
	return Rejoin(tokens), t
}

// WordToCyrillic maps a single word without classifying it. Exception-listed
// digraphs are split first so "konjugacija" keeps н and ј apart.
func (e *Engine) WordToCyrillic(word string) string {
	word, split := e.splitDigraphs(word)
	out := e.forward.Replace(word)
	if split {
		out = digraphJoiners.Replace(out)
	}
	return out
}
