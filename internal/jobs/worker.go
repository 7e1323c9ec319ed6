package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jusunglee/srbcyr/internal/batch"
	"github.com/jusunglee/srbcyr/internal/transliteration"
	"github.com/riverqueue/river"
)

// FileRunner converts one file; *batch.Runner implements it.
type FileRunner interface {
	RunOne(ctx context.Context, job batch.Job) (batch.Result, error)
}

type ConvertWorker struct {
	river.WorkerDefaults[ConvertFileArgs]
	runners map[transliteration.Direction]FileRunner
	log     *slog.Logger
}

// NewConvertWorker takes one runner per direction the worker accepts.
func NewConvertWorker(runners map[transliteration.Direction]FileRunner, log *slog.Logger) *ConvertWorker {
	return &ConvertWorker{runners: runners, log: log}
}

func (w *ConvertWorker) Work(ctx context.Context, job *river.Job[ConvertFileArgs]) error {
	args := job.Args

	dir, err := transliteration.ParseDirection(args.Direction)
	if err != nil {
		// Retrying cannot fix the arguments.
		return river.JobCancel(err)
	}
	runner, ok := w.runners[dir]
	if !ok {
		return river.JobCancel(fmt.Errorf("worker does not convert to %s", dir))
	}

	res, err := runner.RunOne(ctx, batch.Job{Input: args.Input, Output: args.Output})
	if err != nil {
		return err
	}

	w.log.InfoContext(ctx, "queued file done",
		"job_id", job.ID,
		"attempt", job.Attempt,
		"input", args.Input,
		"status", res.Status,
	)
	return nil
}
