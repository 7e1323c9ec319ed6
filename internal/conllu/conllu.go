// Package conllu applies the transliteration engine to the prose fields of
// CoNLL-U files: sentence text comments, word forms, lemmas and the
// Normalized= entries of the MISC column. Everything else is copied as is.
package conllu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jusunglee/srbcyr/internal/transliteration"
)

const (
	textComment  = "# text ="
	normalizedKV = "Normalized="

	colForm  = 1
	colLemma = 2
	colMisc  = 9

	maxLineSize = 4 << 20
	// ctx is checked every this many lines.
	cancelCheckEvery = 1024
)

// Converter is the part of the engine the processor needs.
type Converter interface {
	Convert(text string, dir transliteration.Direction) (string, transliteration.Tally)
}

// Stats summarises one Process call.
type Stats struct {
	Lines int
	Tally transliteration.Tally
}

type Processor struct {
	conv Converter
	dir  transliteration.Direction
}

func New(conv Converter, dir transliteration.Direction) *Processor {
	return &Processor{conv: conv, dir: dir}
}

// Line converts one CoNLL-U line. Surrounding whitespace is dropped.
func (p *Processor) Line(line string) (string, transliteration.Tally) {
	line = strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(line, textComment):
		_, text, _ := strings.Cut(line, "=")
		out, t := p.conv.Convert(text, p.dir)
		return textComment + " " + strings.TrimSpace(out), t
	case line == "":
		return line, transliteration.Tally{}
	case line[0] >= '0' && line[0] <= '9':
		return p.tokenLine(line)
	default:
		return line, transliteration.Tally{}
	}
}

func (p *Processor) tokenLine(line string) (string, transliteration.Tally) {
	var tally transliteration.Tally
	cols := strings.Split(line, "\t")

	for _, c := range []int{colForm, colLemma} {
		if c < len(cols) {
			out, t := p.conv.Convert(cols[c], p.dir)
			cols[c] = out
			tally = tally.Add(t)
		}
	}

	if colMisc < len(cols) && strings.Contains(cols[colMisc], normalizedKV) {
		entries := strings.Split(cols[colMisc], "|")
		for i, e := range entries {
			value, ok := strings.CutPrefix(e, normalizedKV)
			if !ok {
				continue
			}
			out, t := p.conv.Convert(value, p.dir)
			entries[i] = normalizedKV + out
			tally = tally.Add(t)
		}
		cols[colMisc] = strings.Join(entries, "|")
	}

	return strings.Join(cols, "\t"), tally
}

// Process reads r line by line and writes one converted line per input line
// to w, each terminated by "\n".
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	bw := bufio.NewWriter(w)

	for sc.Scan() {
		if stats.Lines%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
		out, t := p.Line(sc.Text())
		stats.Lines++
		stats.Tally = stats.Tally.Add(t)

		if _, err := bw.WriteString(out); err != nil {
			return stats, fmt.Errorf("writing line %d: %w", stats.Lines, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return stats, fmt.Errorf("writing line %d: %w", stats.Lines, err)
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("reading line %d: %w", stats.Lines+1, err)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flushing output: %w", err)
	}
	return stats, nil
}
