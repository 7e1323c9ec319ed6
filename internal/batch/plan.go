// Package batch converts many CoNLL-U files in parallel: it resolves the
// inputs into jobs, runs them on a bounded worker pool and optionally skips
// files a ledger says are already up to date.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jusunglee/srbcyr/internal/transliteration"
	"github.com/samber/lo"
)

// DefaultExt is matched when an input names a directory. Files in it that
// already end in "-cyr" or "-lat" are left out.
const DefaultExt = ".conllu"

var (
	ErrNoInputs     = errors.New("no input files")
	ErrOutputNotDir = errors.New("output must be an existing directory when converting several files")
	ErrSameFile     = errors.New("output would overwrite its input")
	ErrOutputClash  = errors.New("two inputs map to the same output file")
)

// Job is one input file and where its conversion goes.
type Job struct {
	Input  string
	Output string
}

// Plan resolves inputs (files, glob patterns and directories) into jobs.
//
// A single input that is not a directory writes to output directly, unless
// output is an existing directory. Otherwise output must be an existing
// directory and each file gets a suffixed name inside it. An empty output
// places each result next to its input.
func Plan(inputs []string, output string, dir transliteration.Direction) ([]Job, error) {
	files, err := expand(inputs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoInputs
	}

	outIsDir := false
	if output != "" {
		if fi, err := os.Stat(output); err == nil && fi.IsDir() {
			outIsDir = true
		}
	}

	singleFile := len(inputs) == 1 && len(files) == 1 && !isDir(inputs[0]) && !hasMeta(inputs[0])
	if !singleFile && output != "" && !outIsDir {
		return nil, fmt.Errorf("%w: %s", ErrOutputNotDir, output)
	}

	jobs := make([]Job, 0, len(files))
	for _, f := range files {
		var out string
		switch {
		case output == "":
			out = filepath.Join(filepath.Dir(f), OutputName(f, dir))
		case outIsDir:
			out = filepath.Join(output, OutputName(f, dir))
		default:
			out = filepath.Clean(output)
		}
		if samePath(f, out) {
			return nil, fmt.Errorf("%w: %s", ErrSameFile, f)
		}
		jobs = append(jobs, Job{Input: f, Output: out})
	}

	dupes := lo.FindDuplicatesBy(jobs, func(j Job) string { return j.Output })
	if len(dupes) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrOutputClash, dupes[0].Output)
	}
	return jobs, nil
}

// OutputName returns the file name a converted copy of path gets:
// "a.conllu" becomes "a-cyr.conllu" or "a-lat.conllu".
func OutputName(path string, dir transliteration.Direction) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + suffix(dir) + ext
}

func suffix(dir transliteration.Direction) string {
	if dir == transliteration.Latin {
		return "-lat"
	}
	return "-cyr"
}

func expand(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		switch {
		case hasMeta(in):
			matches, err := filepath.Glob(in)
			if err != nil {
				return nil, fmt.Errorf("expanding %q: %w", in, err)
			}
			matches = lo.Filter(matches, func(m string, _ int) bool { return !isDir(m) })
			slices.Sort(matches)
			files = append(files, matches...)
		case isDir(in):
			matches, err := filepath.Glob(filepath.Join(in, "*"+DefaultExt))
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", in, err)
			}
			matches = lo.Reject(matches, func(m string, _ int) bool { return isConverted(m) })
			slices.Sort(matches)
			files = append(files, matches...)
		default:
			if _, err := os.Stat(in); err != nil {
				return nil, fmt.Errorf("reading input: %w", err)
			}
			files = append(files, in)
		}
	}

	files = lo.Map(files, func(f string, _ int) string { return filepath.Clean(f) })
	return lo.Uniq(files), nil
}

// isConverted reports whether path looks like the output of an earlier run.
func isConverted(path string) bool {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(stem, suffix(transliteration.Cyrillic)) ||
		strings.HasSuffix(stem, suffix(transliteration.Latin))
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[`)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
