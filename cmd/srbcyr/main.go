package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jusunglee/srbcyr/data"
	"github.com/jusunglee/srbcyr/internal/logger"
	"github.com/jusunglee/srbcyr/internal/transliteration"
	"github.com/jusunglee/srbcyr/internal/wordlist"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("srbcyr")
	var (
		direction = fs.StringEnumLong("direction", "target script", string(transliteration.Cyrillic), string(transliteration.Latin))
		listsDir  = fs.StringLong("lists-dir", "", "directory with word list files (default: built-in lists)")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("SRBCYR")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.New()

	dir, err := transliteration.ParseDirection(*direction)
	if err != nil {
		return err
	}
	lists, err := wordlist.Load(listsFS(*listsDir))
	if err != nil {
		return fmt.Errorf("loading word lists: %w", err)
	}
	engine, err := transliteration.New(lists)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	tally, err := filter(ctx, engine, dir, os.Stdin, os.Stdout)
	log.DebugContext(ctx, "done",
		"direction", dir,
		"tokens.transliterated", tally.Transliterated,
		"tokens.foreign", tally.Foreign,
		"tokens.partial", tally.Partial,
	)
	return err
}

type converter interface {
	Convert(text string, dir transliteration.Direction) (string, transliteration.Tally)
}

// filter converts r line by line into w, flushing after every line so it
// can sit in an interactive pipe. Each line keeps its own terminator.
func filter(ctx context.Context, conv converter, dir transliteration.Direction, r io.Reader, w io.Writer) (transliteration.Tally, error) {
	var tally transliteration.Tally

	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return tally, fmt.Errorf("reading input: %w", readErr)
		}
		if line == "" {
			return tally, nil
		}
		if err := ctx.Err(); err != nil {
			return tally, err
		}

		body, eol := splitLineEnding(line)
		out, t := conv.Convert(body, dir)
		tally = tally.Add(t)

		if _, err := bw.WriteString(out + eol); err != nil {
			return tally, fmt.Errorf("writing output: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return tally, fmt.Errorf("writing output: %w", err)
		}
		if readErr != nil {
			return tally, nil
		}
	}
}

func splitLineEnding(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	}
	return line, ""
}

func listsFS(dir string) fs.FS {
	if dir == "" {
		return data.Lists
	}
	return os.DirFS(dir)
}
