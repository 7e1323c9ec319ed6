package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jusunglee/srbcyr/data"
	"github.com/jusunglee/srbcyr/internal/batch"
	"github.com/jusunglee/srbcyr/internal/envsetup"
	"github.com/jusunglee/srbcyr/internal/health"
	"github.com/jusunglee/srbcyr/internal/jobs"
	"github.com/jusunglee/srbcyr/internal/ledger"
	"github.com/jusunglee/srbcyr/internal/ledger/postgres"
	"github.com/jusunglee/srbcyr/internal/ledger/sqlite"
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

	fs := ff.NewFlagSet("conllutrans")
	var (
		inputs      = fs.StringListLong("input", "CoNLL-U file, directory or glob (repeatable; positional args also accepted)")
		output      = fs.StringLong("output", "", "output file, or directory when converting several files (default: next to each input)")
		direction   = fs.StringEnumLong("direction", "target script", string(transliteration.Cyrillic), string(transliteration.Latin))
		listsDir    = fs.StringLong("lists-dir", "", "directory with word list files (default: built-in lists)")
		workers     = fs.Int64Long("workers", 0, "files converted in parallel (default: number of CPUs)")
		stateDB     = fs.StringLong("state-db", "", "ledger of converted files: sqlite path or postgres:// URL (empty disables)")
		force       = fs.BoolLong("force", "convert files even if the ledger says they are up to date")
		listState   = fs.BoolLong("list-state", "print the ledger entries and exit")
		enqueue     = fs.BoolLong("enqueue", "queue the files for --queue-worker processes instead of converting them (postgres ledger only)")
		queueWorker = fs.BoolLong("queue-worker", "convert queued files until interrupted (postgres ledger only)")
		setup       = fs.BoolLong("setup", "write a .env file interactively and exit")
		metricsAddr = fs.StringLong("metrics-addr", "", "serve /health and /metrics on this address while running")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("SRBCYR")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *setup {
		saved, err := envsetup.Run(".env")
		if err != nil {
			return fmt.Errorf("running setup: %w", err)
		}
		if saved {
			fmt.Println("wrote .env")
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.New()

	var store ledger.Store
	if *stateDB != "" {
		s, err := openLedger(ctx, *stateDB)
		if err != nil {
			return fmt.Errorf("opening ledger: %w", err)
		}
		defer s.Close()
		store = s
	}

	if *listState {
		if store == nil {
			return errors.New("--list-state needs --state-db")
		}
		files, err := store.ListFiles(ctx)
		if err != nil {
			return fmt.Errorf("listing ledger: %w", err)
		}
		fmt.Println(renderLedger(files))
		return nil
	}

	pg, isPostgres := store.(*postgres.Store)
	if (*enqueue || *queueWorker) && !isPostgres {
		return errors.New("--enqueue and --queue-worker need a postgres:// --state-db")
	}

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

	nWorkers := int(*workers)
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	newRunner := func(d transliteration.Direction, onDone func(batch.Result)) *batch.Runner {
		return batch.NewRunner(engine, batch.Config{
			Direction:  d,
			Ruleset:    lists.Fingerprint(),
			Store:      store,
			Workers:    nWorkers,
			Force:      *force,
			OnFileDone: onDone,
		}, log)
	}

	progress := &health.Progress{}
	if *metricsAddr != "" {
		srv := health.New(*metricsAddr, progress)
		go func() {
			log.InfoContext(ctx, "starting metrics server", "addr", *metricsAddr)
			if err := srv.Start(); err != nil {
				log.ErrorContext(ctx, "metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	if *queueWorker {
		onDone := func(batch.Result) { progress.FileDone() }
		worker := jobs.NewConvertWorker(map[transliteration.Direction]jobs.FileRunner{
			transliteration.Cyrillic: newRunner(transliteration.Cyrillic, onDone),
			transliteration.Latin:    newRunner(transliteration.Latin, onDone),
		}, log)
		return runQueueWorker(ctx, pg, worker, nWorkers, log)
	}

	all := append(*inputs, fs.GetArgs()...)
	if len(all) == 0 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return errors.New("at least one input is required")
	}

	plan, err := batch.Plan(all, *output, dir)
	if err != nil {
		return err
	}

	if *enqueue {
		client, err := jobs.NewClient(ctx, pg.Pool(), nil, 0, log)
		if err != nil {
			return err
		}
		n, err := jobs.Enqueue(ctx, client, plan, dir)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "files queued", "new", n, "already_queued", len(plan)-n)
		return nil
	}

	progress.SetTotal(len(plan))
	log.InfoContext(ctx, "converting",
		"files", len(plan),
		"direction", dir,
		"ruleset", lists.Fingerprint()[:12],
		"ledger", *stateDB != "",
	)

	runner := newRunner(dir, func(batch.Result) { progress.FileDone() })
	start := time.Now()
	summary, err := runner.Run(ctx, plan)
	fmt.Println(renderSummary(summary, len(plan), time.Since(start)))
	return err
}

func runQueueWorker(ctx context.Context, pg *postgres.Store, worker *jobs.ConvertWorker, maxWorkers int, log *slog.Logger) error {
	client, err := jobs.NewClient(ctx, pg.Pool(), worker, maxWorkers, log)
	if err != nil {
		return err
	}
	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("starting river client: %w", err)
	}
	log.InfoContext(ctx, "queue worker started", "max_workers", maxWorkers)

	<-ctx.Done()

	// Finish in-flight files before exiting
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.Stop(stopCtx); err != nil {
		log.Error("river client stop error", "error", err)
	}
	log.Info("queue worker stopped")
	return nil
}

func listsFS(dir string) fs.FS {
	if dir == "" {
		return data.Lists
	}
	return os.DirFS(dir)
}

func openLedger(ctx context.Context, dsn string) (ledger.Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.New(ctx, dsn)
	}
	return sqlite.New(ctx, dsn)
}
