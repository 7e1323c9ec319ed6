// Package ledger records which input files a run has already converted, so a
// later run can skip files whose content and rule set are unchanged.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when the ledger has no entry for a file.
var ErrNotFound = errors.New("ledger entry not found")

// IsNotFound returns true if the error indicates a missing entry.
// Works with pgx, database/sql, and the package's own ErrNotFound.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, pgx.ErrNoRows)
}

// File is one converted input. An input is keyed by its path and the
// direction it was converted in.
type File struct {
	InputPath   string
	Direction   string
	OutputPath  string
	Checksum    string
	Ruleset     string
	Lines       int64
	Tokens      int64
	ProcessedAt time.Time
}

type RecordFileParams struct {
	InputPath  string
	Direction  string
	OutputPath string
	Checksum   string
	Ruleset    string
	Lines      int64
	Tokens     int64
}

// Store is implemented by the sqlite and postgres backends.
type Store interface {
	GetFile(ctx context.Context, inputPath, direction string) (File, error)
	RecordFile(ctx context.Context, arg RecordFileParams) (File, error)
	ListFiles(ctx context.Context) ([]File, error)
	Close() error
}

// Fresh reports whether f still describes the given input: same content,
// same rule set and same output path.
func (f File) Fresh(checksum, ruleset, outputPath string) bool {
	return f.Checksum == checksum && f.Ruleset == ruleset && f.OutputPath == outputPath
}
