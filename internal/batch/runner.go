package batch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jusunglee/srbcyr/internal/conllu"
	"github.com/jusunglee/srbcyr/internal/ledger"
	"github.com/jusunglee/srbcyr/internal/metrics"
	"github.com/jusunglee/srbcyr/internal/transliteration"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
)

// Result describes one finished job.
type Result struct {
	Job
	Status   Status
	Stats    conllu.Stats
	Checksum string
	Duration time.Duration
}

// Summary is the outcome of a Run, in job order.
type Summary struct {
	Results []Result
}

func (s Summary) Converted() int {
	return lo.CountBy(s.Results, func(r Result) bool { return r.Status == StatusConverted })
}

func (s Summary) Skipped() int {
	return lo.CountBy(s.Results, func(r Result) bool { return r.Status == StatusSkipped })
}

func (s Summary) Lines() int {
	return lo.SumBy(s.Results, func(r Result) int { return r.Stats.Lines })
}

func (s Summary) Tally() transliteration.Tally {
	var t transliteration.Tally
	for _, r := range s.Results {
		t = t.Add(r.Stats.Tally)
	}
	return t
}

type Config struct {
	Direction transliteration.Direction
	// Ruleset identifies the word lists; a change invalidates ledger entries.
	Ruleset string
	// Store is optional. Without it every job is converted.
	Store   ledger.Store
	Workers int
	Force   bool
	// OnFileDone, when set, is called from the worker after each successful job.
	OnFileDone func(Result)
}

type Runner struct {
	conv conllu.Converter
	cfg  Config
	log  *slog.Logger
}

func NewRunner(conv conllu.Converter, cfg Config, log *slog.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Direction == "" {
		cfg.Direction = transliteration.Cyrillic
	}
	return &Runner{conv: conv, cfg: cfg, log: log}
}

// Run converts jobs on at most cfg.Workers goroutines. The first failure
// cancels the jobs that have not started yet; results of finished jobs are
// still returned.
func (r *Runner) Run(ctx context.Context, jobs []Job) (Summary, error) {
	results := make([]Result, len(jobs))
	done := make([]bool, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.RunOne(ctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			done[i] = true
			if r.cfg.OnFileDone != nil {
				r.cfg.OnFileDone(res)
			}
			return nil
		})
	}
	err := g.Wait()

	var summary Summary
	for i, ok := range done {
		if ok {
			summary.Results = append(summary.Results, results[i])
		}
	}
	return summary, err
}

// RunOne converts a single job on the calling goroutine.
func (r *Runner) RunOne(ctx context.Context, job Job) (Result, error) {
	res, err := r.processFile(ctx, job)
	if err != nil {
		metrics.FilesProcessed.WithLabelValues(string(r.cfg.Direction), metrics.ResultError).Inc()
		r.log.ErrorContext(ctx, "file failed", "input", job.Input, "error", err)
		return Result{}, fmt.Errorf("converting %s: %w", job.Input, err)
	}
	return res, nil
}

func (r *Runner) processFile(ctx context.Context, job Job) (Result, error) {
	start := time.Now()
	dir := string(r.cfg.Direction)

	data, err := os.ReadFile(job.Input)
	if err != nil {
		return Result{}, fmt.Errorf("reading input: %w", err)
	}
	sum := sha256.Sum256(data)
	res := Result{Job: job, Checksum: hex.EncodeToString(sum[:])}

	inKey, outKey := absPath(job.Input), absPath(job.Output)

	if r.cfg.Store != nil && !r.cfg.Force {
		prev, err := r.cfg.Store.GetFile(ctx, inKey, dir)
		switch {
		case err == nil:
			if prev.Fresh(res.Checksum, r.cfg.Ruleset, outKey) && fileExists(job.Output) {
				res.Status = StatusSkipped
				res.Stats.Lines = int(prev.Lines)
				res.Duration = time.Since(start)
				metrics.FilesProcessed.WithLabelValues(dir, metrics.ResultSkipped).Inc()
				r.log.DebugContext(ctx, "file unchanged, skipping", "input", job.Input, "output", job.Output)
				return res, nil
			}
		case !ledger.IsNotFound(err):
			return Result{}, fmt.Errorf("checking ledger: %w", err)
		}
	}

	proc := conllu.New(r.conv, r.cfg.Direction)
	err = writeAtomic(job.Output, func(w io.Writer) error {
		stats, err := proc.Process(ctx, bytes.NewReader(data), w)
		res.Stats = stats
		return err
	})
	if err != nil {
		return Result{}, err
	}
	res.Status = StatusConverted
	res.Duration = time.Since(start)

	metrics.FilesProcessed.WithLabelValues(dir, metrics.ResultConverted).Inc()
	metrics.FileDuration.WithLabelValues(dir).Observe(res.Duration.Seconds())
	metrics.LinesProcessed.WithLabelValues(dir).Add(float64(res.Stats.Lines))
	recordTokens(res.Stats.Tally)

	if r.cfg.Store != nil {
		_, err := r.cfg.Store.RecordFile(ctx, ledger.RecordFileParams{
			InputPath:  inKey,
			Direction:  dir,
			OutputPath: outKey,
			Checksum:   res.Checksum,
			Ruleset:    r.cfg.Ruleset,
			Lines:      int64(res.Stats.Lines),
			Tokens:     int64(res.Stats.Tally.Total()),
		})
		if err != nil {
			return Result{}, fmt.Errorf("updating ledger: %w", err)
		}
	}

	r.log.InfoContext(ctx, "converted file",
		"input", job.Input,
		"output", job.Output,
		"lines", res.Stats.Lines,
		"tokens.foreign", res.Stats.Tally.Foreign,
		"tokens.partial", res.Stats.Tally.Partial,
		"duration", res.Duration,
	)
	return res, nil
}

func recordTokens(t transliteration.Tally) {
	metrics.Tokens.WithLabelValues(metrics.OutcomeTransliterated).Add(float64(t.Transliterated))
	metrics.Tokens.WithLabelValues(metrics.OutcomeForeign).Add(float64(t.Foreign))
	metrics.Tokens.WithLabelValues(metrics.OutcomePartial).Add(float64(t.Partial))
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
