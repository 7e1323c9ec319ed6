package transliteration

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	lineFeed = "\n"
	crlf     = "\r\n"
)

func isLineEnding(token string) bool {
	return token == lineFeed || token == crlf
}

// Tokenize splits text on runs of whitespace. "\r\n" and "\n" are kept as
// tokens of their own so Rejoin can put the line breaks back.
func Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/5+1)
	start := -1

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, text[start:end])
			start = -1
		}
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\n':
			flush(i)
			tokens = append(tokens, lineFeed)
		case r == '\r' && strings.HasPrefix(text[i+size:], lineFeed):
			flush(i)
			tokens = append(tokens, crlf)
			size += len(lineFeed)
		case unicode.IsSpace(r):
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
		i += size
	}
	flush(len(text))

	return tokens
}

// Rejoin puts a single space between consecutive words. A line ending gets
// no space before or after it.
func Rejoin(tokens []string) string {
	var b strings.Builder
	afterWord := false
	for _, t := range tokens {
		if isLineEnding(t) {
			b.WriteString(t)
			afterWord = false
			continue
		}
		if afterWord {
			b.WriteByte(' ')
		}
		b.WriteString(t)
		afterWord = true
	}
	return b.String()
}
