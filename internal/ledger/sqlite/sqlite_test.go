package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jusunglee/srbcyr/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndGetFile(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	_, err := store.GetFile(ctx, "in/a.conllu", "cyrillic")
	assert.True(t, ledger.IsNotFound(err))

	f, err := store.RecordFile(ctx, ledger.RecordFileParams{
		InputPath:  "in/a.conllu",
		Direction:  "cyrillic",
		OutputPath: "out/a-cyr.conllu",
		Checksum:   "c1",
		Ruleset:    "r1",
		Lines:      12,
		Tokens:     40,
	})
	require.NoError(t, err)
	assert.Equal(t, "out/a-cyr.conllu", f.OutputPath)
	assert.Equal(t, int64(12), f.Lines)
	assert.Equal(t, int64(40), f.Tokens)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), f.ProcessedAt)

	// Same input in the other direction is a separate entry
	_, err = store.GetFile(ctx, "in/a.conllu", "latin")
	assert.True(t, ledger.IsNotFound(err))
}

func TestRecordFileUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	params := ledger.RecordFileParams{
		InputPath: "in/a.conllu", Direction: "cyrillic", OutputPath: "out/a-cyr.conllu",
		Checksum: "c1", Ruleset: "r1", Lines: 1, Tokens: 1,
	}
	_, err := store.RecordFile(ctx, params)
	require.NoError(t, err)

	params.Checksum = "c2"
	params.Lines = 5
	f, err := store.RecordFile(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "c2", f.Checksum)
	assert.Equal(t, int64(5), f.Lines)

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestListFilesOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := int64(1700000000)
	store.now = func() time.Time { ts++; return time.Unix(ts, 0) }

	for _, in := range []string{"a.conllu", "b.conllu", "c.conllu"} {
		_, err := store.RecordFile(ctx, ledger.RecordFileParams{InputPath: in, Direction: "cyrillic"})
		require.NoError(t, err)
	}

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "c.conllu", files[0].InputPath)
	assert.Equal(t, "a.conllu", files[2].InputPath)
}

func TestConcurrentRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.RecordFile(ctx, ledger.RecordFileParams{
				InputPath: filepath.Join("in", string(rune('a'+i))+".conllu"),
				Direction: "cyrillic",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 20)
}

func TestFileBackedStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	store, err := New(ctx, "sqlite://"+path)
	require.NoError(t, err)
	_, err = store.RecordFile(ctx, ledger.RecordFileParams{InputPath: "a.conllu", Direction: "latin", Checksum: "c"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = New(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	f, err := store.GetFile(ctx, "a.conllu", "latin")
	require.NoError(t, err)
	assert.Equal(t, "c", f.Checksum)
}
