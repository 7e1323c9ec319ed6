package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/srbcyr/internal/batch"
	"github.com/jusunglee/srbcyr/internal/transliteration"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
)

// NewClient migrates the River tables in pool and returns a client. With a
// nil worker the client can only insert jobs.
func NewClient(ctx context.Context, pool *pgxpool.Pool, worker *ConvertWorker, maxWorkers int, log *slog.Logger) (*river.Client[pgx.Tx], error) {
	driver := riverpgxv5.New(pool)

	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		return nil, fmt.Errorf("creating river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return nil, fmt.Errorf("running river migrations: %w", err)
	}

	cfg := &river.Config{Logger: log}
	if worker != nil {
		workers := river.NewWorkers()
		river.AddWorker(workers, worker)
		cfg.Workers = workers
		cfg.Queues = map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		}
	}

	client, err := river.NewClient(driver, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating river client: %w", err)
	}
	return client, nil
}

// Inserter is the part of the River client Enqueue needs.
type Inserter interface {
	InsertMany(ctx context.Context, params []river.InsertManyParams) ([]*rivertype.JobInsertResult, error)
}

// Enqueue inserts one convert_file job per planned file and returns how many
// were new; files already waiting in the queue are not added twice.
func Enqueue(ctx context.Context, q Inserter, jobs []batch.Job, dir transliteration.Direction) (int, error) {
	params := make([]river.InsertManyParams, 0, len(jobs))
	for _, j := range jobs {
		params = append(params, river.InsertManyParams{Args: ConvertFileArgs{
			Input:     absPath(j.Input),
			Output:    absPath(j.Output),
			Direction: string(dir),
		}})
	}

	results, err := q.InsertMany(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("enqueuing %d files: %w", len(jobs), err)
	}

	inserted := 0
	for _, r := range results {
		if !r.UniqueSkippedAsDuplicate {
			inserted++
		}
	}
	return inserted, nil
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
