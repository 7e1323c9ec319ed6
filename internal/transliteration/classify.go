package transliteration

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Rule names the check that decided a classification.
type Rule string

const (
	RuleNone             Rule = ""
	RuleEmpty            Rule = "empty"
	RuleNativeException  Rule = "native-exception"
	RuleEmphaticSpelling Rule = "emphatic-spelling"
	RuleForeignSubstring Rule = "foreign-substring"
	RuleForeignPrefix    Rule = "foreign-prefix"
	RuleForeignWord      Rule = "foreign-word"
	RuleMeasurementUnit  Rule = "measurement-unit"
)

// Classification is the outcome for one word. Rule is RuleNone when no check
// matched and the word falls through to the native default.
type Classification struct {
	Foreign bool
	Rule    Rule
}

// Letters and sequences that do not occur in native Serbian Latin spelling.
var foreignCombinations = []string{
	"q", "w", "x", "y",
	"é", "á", "à", "ó", "ò", "ü", "ö", "ä", "ê", "è", "ú", "ù", "í", "ì", "ï",
	"ő", "ű", "ñ", "ş", "ç", "ğ", "ı", "ł", "ý", "ø", "ß",
	"&", "@", "#",
	"bb", "cc", "cs", "dd", "dh", "ee", "ff", "gg", "gy", "hh", "ie", "kk",
	"ll", "ly", "nn", "ny", "ph", "pp", "rr", "sh", "ss", "sz", "tt", "uu",
	"zh", "zs", "zz", "ch", "gh", "th",
	"'s", "'t",
	".com", ".edu", ".net", ".info", ".rs", ".org",
	"©", "®", "™",
}

// Letters stretched for emphasis ("ooooo", "šššš").
var emphaticCombinations = []string{
	"aaa", "ccc", "čč", "ćć", "eee", "fff", "hhh", "mmm",
	"ooo", "ppp", "rrr", "sss", "šš", "ttt", "uuu", "vvv", "zzz", "žž",
}

// Characters stripped from both ends of a word before it is classified.
const excessiveChars = "!?,:;.*-—~`'\"„”“‘’(){}[]<>«»/\\"

func isExcessive(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(excessiveChars, r)
}

func trimExcessive(word string) string {
	return strings.TrimFunc(word, isExcessive)
}

type candidate struct {
	trimmed string
	lower   string
}

type classifierRule struct {
	rule    Rule
	foreign bool
	match   func(e *Engine, c candidate) bool
}

// Evaluated in order; the first match decides.
var classifierRules = []classifierRule{
	{RuleNativeException, false, func(e *Engine, c candidate) bool {
		return hasAnyPrefix(c.lower, e.lists.NativeWithForeignCombinations)
	}},
	{RuleEmphaticSpelling, false, func(_ *Engine, c candidate) bool {
		return containsAny(c.lower, emphaticCombinations)
	}},
	{RuleForeignSubstring, true, func(_ *Engine, c candidate) bool {
		return containsAny(c.lower, foreignCombinations)
	}},
	{RuleForeignPrefix, true, func(e *Engine, c candidate) bool {
		return hasAnyPrefix(c.lower, e.lists.CommonForeignWords)
	}},
	{RuleForeignWord, true, func(e *Engine, c candidate) bool {
		_, ok := e.wholeForeign[c.lower]
		return ok
	}},
	{RuleMeasurementUnit, true, func(_ *Engine, c candidate) bool {
		return LooksLikeMeasurement(c.trimmed)
	}},
}

// Classify decides whether word should stay in Latin script.
func (e *Engine) Classify(word string) Classification {
	trimmed := trimExcessive(word)
	if trimmed == "" {
		return Classification{Rule: RuleEmpty}
	}
	c := candidate{trimmed: trimmed, lower: strings.ToLower(trimmed)}

	for _, r := range classifierRules {
		if r.match(e, c) {
			return Classification{Foreign: r.foreign, Rule: r.rule}
		}
	}
	return Classification{}
}

// IsForeign reports whether word should be left untransliterated.
func (e *Engine) IsForeign(word string) bool {
	return e.Classify(word).Foreign
}

// ForeignPrefixLength checks whether word starts with a whole foreign word
// immediately followed by sep, as in "dj-evi". It returns the byte offset in
// word just past sep; everything before it stays in Latin.
func (e *Engine) ForeignPrefixLength(word string, sep rune) (int, bool) {
	trimmed := trimExcessive(word)
	if trimmed == "" {
		return 0, false
	}
	lead := len(word) - len(strings.TrimLeftFunc(word, isExcessive))

	for _, fw := range e.lists.WholeForeignWords {
		if n, ok := foldedPrefix(trimmed, fw+string(sep)); ok {
			return lead + n, true
		}
	}
	return 0, false
}

// foldedPrefix reports whether s starts with the lowercase prefix, ignoring
// case in s, and returns the number of bytes of s it spans.
func foldedPrefix(s, prefix string) (int, bool) {
	n := 0
	for _, pr := range prefix {
		if n >= len(s) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(s[n:])
		if unicode.ToLower(r) != pr {
			return 0, false
		}
		n += size
	}
	return n, true
}

func hasAnyPrefix(word string, prefixes []string) bool {
	return lo.ContainsBy(prefixes, func(p string) bool {
		return strings.HasPrefix(word, p)
	})
}

func containsAny(word string, subs []string) bool {
	return lo.ContainsBy(subs, func(s string) bool {
		return strings.Contains(word, s)
	})
}
