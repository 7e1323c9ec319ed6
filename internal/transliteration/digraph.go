package transliteration

import (
	"strings"

	"github.com/jusunglee/srbcyr/internal/wordlist"
)

// zwnj keeps two Latin letters from being read as one digraph.
const zwnj = "\u200C"

var digraphSplitters = map[string]*strings.Replacer{
	wordlist.DigraphNJ: strings.NewReplacer(
		"nj", "n"+zwnj+"j",
		"Nj", "N"+zwnj+"j",
		"NJ", "N"+zwnj+"J",
	),
	wordlist.DigraphDJ: strings.NewReplacer(
		"dj", "d"+zwnj+"j",
		"Dj", "D"+zwnj+"j",
		"DJ", "D"+zwnj+"J",
	),
	wordlist.DigraphDZH: strings.NewReplacer(
		"dž", "d"+zwnj+"ž",
		"Dž", "D"+zwnj+"ž",
		"DŽ", "D"+zwnj+"Ž",
	),
}

// digraphJoiners removes the joiners the splitters put in once the pair has
// been mapped to Cyrillic. Any other zero-width non-joiner is left alone.
var digraphJoiners = strings.NewReplacer(
	"\u043D"+zwnj+"\u0458", "\u043D\u0458", // нј
	"\u041D"+zwnj+"\u0458", "\u041D\u0458", // Нј
	"\u041D"+zwnj+"\u0408", "\u041D\u0408", // НЈ
	"\u0434"+zwnj+"\u0458", "\u0434\u0458", // дј
	"\u0414"+zwnj+"\u0458", "\u0414\u0458", // Дј
	"\u0414"+zwnj+"\u0408", "\u0414\u0408", // ДЈ
	"\u0434"+zwnj+"\u0436", "\u0434\u0436", // дж
	"\u0414"+zwnj+"\u0436", "\u0414\u0436", // Дж
	"\u0414"+zwnj+"\u0416", "\u0414\u0416", // ДЖ
)

// SplitDigraphs inserts a zero-width non-joiner inside every "nj", "dj" or
// "dž" of word when the word starts with one of that digraph's exception
// entries ("konjugacija", "nadživeti"). One matching entry splits every
// occurrence of the digraph in the word.
func (e *Engine) SplitDigraphs(word string) string {
	out, _ := e.splitDigraphs(word)
	return out
}

func (e *Engine) splitDigraphs(word string) (string, bool) {
	lower := strings.ToLower(trimExcessive(word))
	split := false
	for _, d := range wordlist.Digraphs {
		if !strings.Contains(lower, d) {
			continue
		}
		if hasAnyPrefix(lower, e.lists.DigraphExceptions[d]) {
			word = digraphSplitters[d].Replace(word)
			split = true
		}
	}
	return word, split
}
