package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jusunglee/srbcyr/internal/ledger"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store implements ledger.Store using SQLite
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ledger.Store = (*Store)(nil)

// New opens (or creates) the ledger database at dbPath
func New(ctx context.Context, dbPath string) (*Store, error) {
	dbPath = strings.TrimPrefix(dbPath, "sqlite://")

	isNew := false
	if dbPath != ":memory:" {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			isNew = true
		}
	}

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}
	// Workers record files concurrently; one connection serialises the
	// writes and keeps ":memory:" databases alive across calls.
	sqliteDB.SetMaxOpenConns(1)

	if _, err := sqliteDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := sqliteDB.ExecContext(ctx, schemaSQL); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if isNew {
		slog.Info("created new ledger database", "path", dbPath)
	}

	return &Store{db: sqliteDB, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetFile(ctx context.Context, inputPath, direction string) (ledger.File, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT input_path, direction, output_path, checksum, ruleset, lines, tokens, processed_at
		FROM processed_files
		WHERE input_path = ? AND direction = ?
	`, inputPath, direction)

	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.File{}, ledger.ErrNotFound
	}
	return f, err
}

func (s *Store) RecordFile(ctx context.Context, arg ledger.RecordFileParams) (ledger.File, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_files (input_path, direction, output_path, checksum, ruleset, lines, tokens, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (input_path, direction) DO UPDATE SET
			output_path = excluded.output_path,
			checksum = excluded.checksum,
			ruleset = excluded.ruleset,
			lines = excluded.lines,
			tokens = excluded.tokens,
			processed_at = excluded.processed_at
	`, arg.InputPath, arg.Direction, arg.OutputPath, arg.Checksum, arg.Ruleset, arg.Lines, arg.Tokens, s.now().Unix())
	if err != nil {
		return ledger.File{}, fmt.Errorf("recording %s: %w", arg.InputPath, err)
	}

	return s.GetFile(ctx, arg.InputPath, arg.Direction)
}

func (s *Store) ListFiles(ctx context.Context) ([]ledger.File, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT input_path, direction, output_path, checksum, ruleset, lines, tokens, processed_at
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

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (ledger.File, error) {
	var f ledger.File
	var processedAt int64
	err := row.Scan(&f.InputPath, &f.Direction, &f.OutputPath, &f.Checksum, &f.Ruleset, &f.Lines, &f.Tokens, &processedAt)
	if err != nil {
		return ledger.File{}, err
	}
	f.ProcessedAt = time.Unix(processedAt, 0).UTC()
	return f, nil
}
