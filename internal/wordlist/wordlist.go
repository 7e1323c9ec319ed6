// Package wordlist loads the reference lists the transliteration engine
// consults when deciding whether a word is foreign and where Latin digraphs
// must be split.
package wordlist

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// List file names inside the loaded FS.
const (
	NativeWithForeignCombinationsFile = "serb_words_with_foreign_combs.txt"
	CommonForeignWordsFile            = "serb_common_foreign_words.txt"
	WholeForeignWordsFile             = "whole_foreign_words.txt"
	NJExceptionsFile                  = "nj_digraph_exceptions.txt"
	DJExceptionsFile                  = "dj_digraph_exceptions.txt"
	DZHExceptionsFile                 = "dzh_digraph_exceptions.txt"
)

// Ambiguous Latin digraphs that have exception lists.
const (
	DigraphNJ  = "nj"
	DigraphDJ  = "dj"
	DigraphDZH = "dž"
)

// Digraphs lists the ambiguous digraphs in the order they are checked.
var Digraphs = []string{DigraphNJ, DigraphDJ, DigraphDZH}

var digraphFiles = map[string]string{
	DigraphNJ:  NJExceptionsFile,
	DigraphDJ:  DJExceptionsFile,
	DigraphDZH: DZHExceptionsFile,
}

// ErrEmptyName is returned when a list file name is empty.
var ErrEmptyName = errors.New("empty list file name")

// Lists holds every list the engine needs. All entries are lowercase, NFC
// normalised and free of spaces.
type Lists struct {
	// NativeWithForeignCombinations suppresses the foreign verdict for words
	// starting with any entry.
	NativeWithForeignCombinations []string
	// CommonForeignWords flags words starting with any entry.
	CommonForeignWords []string
	// WholeForeignWords flags words equal to an entry, and hyphenated
	// compounds whose first segment is an entry.
	WholeForeignWords []string
	// DigraphExceptions maps each ambiguous digraph to word beginnings where
	// it stands for two separate letters.
	DigraphExceptions map[string][]string
}

// Load reads all six list files from fsys. A missing or unreadable file is an
// error: the classifier must not run with a partial rule set.
func Load(fsys fs.FS) (Lists, error) {
	var (
		l   Lists
		err error
	)
	if l.NativeWithForeignCombinations, err = ReadFile(fsys, NativeWithForeignCombinationsFile); err != nil {
		return Lists{}, err
	}
	if l.CommonForeignWords, err = ReadFile(fsys, CommonForeignWordsFile); err != nil {
		return Lists{}, err
	}
	if l.WholeForeignWords, err = ReadFile(fsys, WholeForeignWordsFile); err != nil {
		return Lists{}, err
	}

	l.DigraphExceptions = make(map[string][]string, len(Digraphs))
	for _, d := range Digraphs {
		entries, err := ReadFile(fsys, digraphFiles[d])
		if err != nil {
			return Lists{}, err
		}
		l.DigraphExceptions[d] = entries
	}
	return l, nil
}

// ReadFile opens name in fsys and parses it with Parse.
func ReadFile(fsys fs.FS, name string) ([]string, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening word list %s: %w", name, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading word list %s: %w", name, err)
	}
	return entries, nil
}

// Parse reads one entry per line. Blank lines and lines starting with '#' are
// skipped; spaces inside an entry are removed.
func Parse(r io.Reader) ([]string, error) {
	var entries []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry := strings.ToLower(norm.NFC.String(strings.ReplaceAll(line, " ", "")))
		if entry == "" {
			continue
		}
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Fingerprint returns a stable hex digest of every entry. Two Lists with the
// same fingerprint produce identical transliterations.
func (l Lists) Fingerprint() string {
	h := sha256.New()
	write := func(section string, entries []string) {
		io.WriteString(h, section)
		h.Write([]byte{0})
		for _, e := range entries {
			io.WriteString(h, e)
			h.Write([]byte{'\n'})
		}
	}
	write(NativeWithForeignCombinationsFile, l.NativeWithForeignCombinations)
	write(CommonForeignWordsFile, l.CommonForeignWords)
	write(WholeForeignWordsFile, l.WholeForeignWords)

	digraphs := make([]string, 0, len(l.DigraphExceptions))
	for d := range l.DigraphExceptions {
		digraphs = append(digraphs, d)
	}
	slices.Sort(digraphs)
	for _, d := range digraphs {
		write(d, l.DigraphExceptions[d])
	}
	return hex.EncodeToString(h.Sum(nil))
}
