package transliteration

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrDuplicateMapping is returned when a mapping table lists the same source
// grapheme twice.
var ErrDuplicateMapping = errors.New("duplicate mapping key")

type mapping struct {
	from string
	to   string
}

// Latin (including the Unicode digraph ligatures, decomposed caron/acute
// forms and a Cyrillic ј typed after d, l or n) to Serbian Cyrillic.
// Digraphs are listed before the letters they are built from.
var latinToCyrillic = []mapping{
	{"DJ", "Ђ"},
	{"DЈ", "Ђ"}, // D + cyrillic J
	{"Dj", "Ђ"},
	{"Dј", "Ђ"}, // D + cyrillic j
	{"LJ", "Љ"},
	{"LЈ", "Љ"}, // L + cyrillic J
	{"Ǉ", "Љ"},
	{"Lj", "Љ"},
	{"Lј", "Љ"}, // L + cyrillic j
	{"ǈ", "Љ"},
	{"NJ", "Њ"},
	{"NЈ", "Њ"}, // N + cyrillic J
	{"Ǌ", "Њ"},
	{"Nj", "Њ"},
	{"Nј", "Њ"}, // N + cyrillic j
	{"ǋ", "Њ"},
	{"DŽ", "Џ"},
	{"Ǆ", "Џ"},
	{"DZ\u030C", "Џ"}, // combining caron
	{"Dž", "Џ"},
	{"ǅ", "Џ"},
	{"Dz\u030C", "Џ"}, // combining caron
	{"dj", "ђ"},
	{"dј", "ђ"}, // d + cyrillic j
	{"lj", "љ"},
	{"lј", "љ"}, // l + cyrillic j
	{"ǉ", "љ"},
	{"nj", "њ"},
	{"nј", "њ"}, // n + cyrillic j
	{"ǌ", "њ"},
	{"dž", "џ"},
	{"ǆ", "џ"},
	{"dz\u030C", "џ"}, // combining caron

	{"A", "А"},
	{"B", "Б"},
	{"V", "В"},
	{"G", "Г"},
	{"D", "Д"},
	{"Đ", "Ђ"},
	{"Ð", "Ђ"},
	{"ᴆ", "Ђ"},
	{"E", "Е"},
	{"Ž", "Ж"},
	{"Z\u030C", "Ж"}, // combining caron
	{"Z", "З"},
	{"I", "И"},
	{"J", "Ј"},
	{"K", "К"},
	{"L", "Л"},
	{"M", "М"},
	{"N", "Н"},
	{"O", "О"},
	{"P", "П"},
	{"R", "Р"},
	{"S", "С"},
	{"T", "Т"},
	{"Ć", "Ћ"},
	{"C\u0301", "Ћ"}, // combining acute
	{"U", "У"},
	{"F", "Ф"},
	{"H", "Х"},
	{"C", "Ц"},
	{"Č", "Ч"},
	{"C\u030C", "Ч"}, // combining caron
	{"Š", "Ш"},
	{"S\u030C", "Ш"}, // combining caron

	{"a", "а"},
	{"æ", "ае"},
	{"b", "б"},
	{"v", "в"},
	{"g", "г"},
	{"d", "д"},
	{"đ", "ђ"},
	{"e", "е"},
	{"ž", "ж"},
	{"z\u030C", "ж"}, // combining caron
	{"z", "з"},
	{"i", "и"},
	{"ĳ", "иј"},
	{"j", "ј"},
	{"k", "к"},
	{"l", "л"},
	{"m", "м"},
	{"n", "н"},
	{"o", "о"},
	{"œ", "ое"},
	{"p", "п"},
	{"r", "р"},
	{"s", "с"},
	{"ﬆ", "ст"},
	{"t", "т"},
	{"ć", "ћ"},
	{"c\u0301", "ћ"}, // combining acute
	{"u", "у"},
	{"f", "ф"},
	{"ﬁ", "фи"},
	{"ﬂ", "фл"},
	{"h", "х"},
	{"c", "ц"},
	{"č", "ч"},
	{"c\u030C", "ч"}, // combining caron
	{"š", "ш"},
	{"s\u030C", "ш"}, // combining caron
}

// Serbian Cyrillic to Latin. The digraph letters followed by a lowercase
// vowel come first so a title-case Њ becomes "Nj" and not "NJ".
var cyrillicToLatin = []mapping{
	{"Ња", "Nja"},
	{"Ње", "Nje"},
	{"Њи", "Nji"},
	{"Њо", "Njo"},
	{"Њу", "Nju"},
	{"Ља", "Lja"},
	{"Ље", "Lje"},
	{"Љи", "Lji"},
	{"Љо", "Ljo"},
	{"Љу", "Lju"},
	{"Џа", "Dža"},
	{"Џе", "Dže"},
	{"Џи", "Dži"},
	{"Џо", "Džo"},
	{"Џу", "Džu"},

	{"А", "A"},
	{"Б", "B"},
	{"В", "V"},
	{"Г", "G"},
	{"Д", "D"},
	{"Ђ", "Đ"},
	{"Е", "E"},
	{"Ж", "Ž"},
	{"З", "Z"},
	{"И", "I"},
	{"Ј", "J"},
	{"К", "K"},
	{"Л", "L"},
	{"Љ", "LJ"},
	{"М", "M"},
	{"Н", "N"},
	{"Њ", "NJ"},
	{"О", "O"},
	{"П", "P"},
	{"Р", "R"},
	{"С", "S"},
	{"Т", "T"},
	{"Ћ", "Ć"},
	{"У", "U"},
	{"Ф", "F"},
	{"Х", "H"},
	{"Ц", "C"},
	{"Ч", "Č"},
	{"Џ", "DŽ"},
	{"Ш", "Š"},

	{"а", "a"},
	{"б", "b"},
	{"в", "v"},
	{"г", "g"},
	{"д", "d"},
	{"ђ", "đ"},
	{"е", "e"},
	{"ж", "ž"},
	{"з", "z"},
	{"и", "i"},
	{"ј", "j"},
	{"к", "k"},
	{"л", "l"},
	{"љ", "lj"},
	{"м", "m"},
	{"н", "n"},
	{"њ", "nj"},
	{"о", "o"},
	{"п", "p"},
	{"р", "r"},
	{"с", "s"},
	{"т", "t"},
	{"ћ", "ć"},
	{"у", "u"},
	{"ф", "f"},
	{"х", "h"},
	{"ц", "c"},
	{"ч", "č"},
	{"џ", "dž"},
	{"ш", "š"},
}

// checkMappings reports the first source grapheme that appears twice.
func checkMappings(table []mapping) error {
	seen := make(map[string]string, len(table))
	for _, m := range table {
		if prev, ok := seen[m.from]; ok {
			return fmt.Errorf("%w: %q maps to %q and %q", ErrDuplicateMapping, m.from, prev, m.to)
		}
		seen[m.from] = m.to
	}
	return nil
}

// longestFirst returns a copy of table where longer sources precede shorter
// ones. Entries of equal length keep their declared order.
func longestFirst(table []mapping) []mapping {
	out := slices.Clone(table)
	slices.SortStableFunc(out, func(a, b mapping) int {
		return utf8.RuneCountInString(b.from) - utf8.RuneCountInString(a.from)
	})
	return out
}

// newForwardReplacer builds a single-pass replacer. strings.Replacer tries
// candidates in argument order at each position, so a digraph always wins
// over its first letter and replaced output is never scanned again.
func newForwardReplacer(table []mapping) *strings.Replacer {
	ordered := longestFirst(table)
	oldnew := make([]string, 0, 2*len(ordered))
	for _, m := range ordered {
		oldnew = append(oldnew, m.from, m.to)
	}
	return strings.NewReplacer(oldnew...)
}

// reverseMapper replaces every match of one alternation in a single pass.
type reverseMapper struct {
	re     *regexp.Regexp
	lookup map[string]string
}

func newReverseMapper(table []mapping) *reverseMapper {
	ordered := longestFirst(table)
	alts := make([]string, len(ordered))
	lookup := make(map[string]string, len(ordered))
	for i, m := range ordered {
		alts[i] = regexp.QuoteMeta(m.from)
		lookup[m.from] = m.to
	}
	return &reverseMapper{
		re:     regexp.MustCompile(strings.Join(alts, "|")),
		lookup: lookup,
	}
}

func (m *reverseMapper) replace(text string) string {
	return m.re.ReplaceAllStringFunc(text, func(match string) string {
		return m.lookup[match]
	})
}
