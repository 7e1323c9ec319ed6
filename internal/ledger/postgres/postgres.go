package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/srbcyr/internal/ledger"
)

//go:embed schema.sql
var schemaSQL string

// Store implements ledger.Store using PostgreSQL via pgx
type Store struct {
	pool *pgxpool.Pool
}

var _ ledger.Store = (*Store)(nil)

// New connects to databaseURL and makes sure the ledger table exists
func New(ctx context.Context, databaseURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	// A batch run records one row per file; a handful of connections is plenty.
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Pool exposes the connection pool so the job queue can share it.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const selectColumns = `input_path, direction, output_path, checksum, ruleset, lines, tokens, processed_at`

func (s *Store) GetFile(ctx context.Context, inputPath, direction string) (ledger.File, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+selectColumns+`
		FROM processed_files
		WHERE input_path = $1 AND direction = $2
	`, inputPath, direction)

	f, err := scanFile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.File{}, ledger.ErrNotFound
	}
	return f, err
}

func (s *Store) RecordFile(ctx context.Context, arg ledger.RecordFileParams) (ledger.File, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO processed_files (input_path, direction, output_path, checksum, ruleset, lines, tokens, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (input_path, direction) DO UPDATE SET
			output_path = EXCLUDED.output_path,
			checksum = EXCLUDED.checksum,
			ruleset = EXCLUDED.ruleset,
			lines = EXCLUDED.lines,
			tokens = EXCLUDED.tokens,
			processed_at = EXCLUDED.processed_at
		RETURNING `+selectColumns,
		arg.InputPath, arg.Direction, arg.OutputPath, arg.Checksum, arg.Ruleset, arg.Lines, arg.Tokens)

	f, err := scanFile(row)
	if err != nil {
		return ledger.File{}, fmt.Errorf("recording %s: %w", arg.InputPath, err)
	}
	return f, nil
}

func (s *Store) ListFiles(ctx context.Context) ([]ledger.File, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM processed_files
		ORDER BY processed_at DESC, input_path, direction
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []ledger.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanFile(row pgx.Row) (ledger.File, error) {
	var f ledger.File
	err := row.Scan(&f.InputPath, &f.Direction, &f.OutputPath, &f.Checksum, &f.Ruleset, &f.Lines, &f.Tokens, &f.ProcessedAt)
	if err != nil {
		return ledger.File{}, err
	}
	f.ProcessedAt = f.ProcessedAt.UTC()
	return f, nil
}
