package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jusunglee/srbcyr/internal/batch"
	"github.com/jusunglee/srbcyr/internal/transliteration"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFileRunner struct {
	mock.Mock
}

func (m *MockFileRunner) RunOne(ctx context.Context, job batch.Job) (batch.Result, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(batch.Result), args.Error(1)
}

type MockInserter struct {
	mock.Mock
}

func (m *MockInserter) InsertMany(ctx context.Context, params []river.InsertManyParams) ([]*rivertype.JobInsertResult, error) {
	args := m.Called(ctx, params)
	res, _ := args.Get(0).([]*rivertype.JobInsertResult)
	return res, args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func riverJob(args ConvertFileArgs) *river.Job[ConvertFileArgs] {
	return &river.Job[ConvertFileArgs]{
		JobRow: &rivertype.JobRow{ID: 7, Attempt: 1, Kind: args.Kind()},
		Args:   args,
	}
}

func TestConvertFileArgs(t *testing.T) {
	args := ConvertFileArgs{Input: "/in/a.conllu", Output: "/out/a-cyr.conllu", Direction: "cyrillic"}
	assert.Equal(t, "convert_file", args.Kind())

	opts := args.InsertOpts()
	assert.True(t, opts.UniqueOpts.ByArgs)
	assert.Equal(t, 3, opts.MaxAttempts)
	assert.Contains(t, opts.UniqueOpts.ByState, rivertype.JobStateRunning)
}

func TestWorkConvertsFile(t *testing.T) {
	runner := &MockFileRunner{}
	runner.On("RunOne", mock.Anything, batch.Job{Input: "/in/a.conllu", Output: "/out/a-lat.conllu"}).
		Return(batch.Result{Status: batch.StatusConverted}, nil)

	w := NewConvertWorker(map[transliteration.Direction]FileRunner{transliteration.Latin: runner}, discard())
	err := w.Work(context.Background(), riverJob(ConvertFileArgs{
		Input: "/in/a.conllu", Output: "/out/a-lat.conllu", Direction: "latin",
	}))
	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestWorkReturnsRunnerError(t *testing.T) {
	runner := &MockFileRunner{}
	runner.On("RunOne", mock.Anything, mock.Anything).Return(batch.Result{}, errors.New("disk full"))

	w := NewConvertWorker(map[transliteration.Direction]FileRunner{transliteration.Cyrillic: runner}, discard())
	err := w.Work(context.Background(), riverJob(ConvertFileArgs{Input: "a", Output: "b", Direction: "cyrillic"}))
	assert.EqualError(t, err, "disk full")
}

func TestWorkCancelsBadDirection(t *testing.T) {
	runner := &MockFileRunner{}
	w := NewConvertWorker(map[transliteration.Direction]FileRunner{transliteration.Cyrillic: runner}, discard())

	err := w.Work(context.Background(), riverJob(ConvertFileArgs{Input: "a", Output: "b", Direction: "klingon"}))
	assert.Error(t, err)

	err = w.Work(context.Background(), riverJob(ConvertFileArgs{Input: "a", Output: "b", Direction: "latin"}))
	assert.ErrorContains(t, err, "does not convert to latin")

	runner.AssertNotCalled(t, "RunOne", mock.Anything, mock.Anything)
}

func TestEnqueue(t *testing.T) {
	dir := t.TempDir()
	jobs := []batch.Job{
		{Input: filepath.Join(dir, "a.conllu"), Output: filepath.Join(dir, "a-cyr.conllu")},
		{Input: filepath.Join(dir, "b.conllu"), Output: filepath.Join(dir, "b-cyr.conllu")},
	}

	q := &MockInserter{}
	q.On("InsertMany", mock.Anything, mock.MatchedBy(func(p []river.InsertManyParams) bool {
		if len(p) != 2 {
			return false
		}
		a, ok := p[0].Args.(ConvertFileArgs)
		return ok && a.Input == jobs[0].Input && a.Output == jobs[0].Output && a.Direction == "cyrillic"
	})).Return([]*rivertype.JobInsertResult{
		{Job: &rivertype.JobRow{ID: 1}},
		{Job: &rivertype.JobRow{ID: 2}, UniqueSkippedAsDuplicate: true},
	}, nil)

	n, err := Enqueue(context.Background(), q, jobs, transliteration.Cyrillic)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	q.AssertExpectations(t)
}

func TestEnqueueError(t *testing.T) {
	q := &MockInserter{}
	q.On("InsertMany", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := Enqueue(context.Background(), q, []batch.Job{{Input: "a", Output: "b"}}, transliteration.Latin)
	assert.ErrorContains(t, err, "connection refused")
}
