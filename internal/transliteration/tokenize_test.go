package transliteration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a b", []string{"a", "b"}},
		{"  a\t\tb  ", []string{"a", "b"}},
		{"a\nb", []string{"a", "\n", "b"}},
		{"a\r\nb", []string{"a", "\r\n", "b"}},
		{"a \n\n b", []string{"a", "\n", "\n", "b"}},
		{"a\rb", []string{"a", "b"}},
		{"a\u00A0b", []string{"a", "b"}},
		{"reč\n", []string{"reč", "\n"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.input), "Tokenize(%q)", tt.input)
	}
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize(" \t "))
}

func TestRejoin(t *testing.T) {
	tests := []struct {
		tokens []string
		want   string
	}{
		{[]string{"a", "b"}, "a b"},
		{[]string{"a", "\n", "b"}, "a\nb"},
		{[]string{"\n", "a"}, "\na"},
		{[]string{"a", "\r\n"}, "a\r\n"},
		{[]string{"a", "\n", "\n", "b", "c"}, "a\n\nb c"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rejoin(tt.tokens), "Rejoin(%q)", tt.tokens)
	}
}

func TestTokenizeRejoinNormalizesSpacing(t *testing.T) {
	in := "Prvi   red\r\n\tdrugi  red\n"
	assert.Equal(t, "Prvi red\r\ndrugi red\n", Rejoin(Tokenize(in)))
}
