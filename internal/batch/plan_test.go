package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/jusunglee/srbcyr/internal/transliteration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# sent_id = 1\n"), 0o644))
	return path
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "a-cyr.conllu", OutputName("in/a.conllu", transliteration.Cyrillic))
	assert.Equal(t, "a-lat.conllu", OutputName("a.conllu", transliteration.Latin))
	assert.Equal(t, "notes-cyr", OutputName("/tmp/notes", transliteration.Cyrillic))
	assert.Equal(t, "a.b-cyr.txt", OutputName("a.b.txt", transliteration.Cyrillic))
}

func TestPlanSingleFile(t *testing.T) {
	root := t.TempDir()
	in := touch(t, filepath.Join(root, "a.conllu"))
	out := filepath.Join(root, "converted.conllu")

	jobs, err := Plan([]string{in}, out, transliteration.Cyrillic)
	require.NoError(t, err)
	assert.Equal(t, []Job{{Input: in, Output: out}}, jobs)
}

func TestPlanSingleFileIntoDir(t *testing.T) {
	root := t.TempDir()
	in := touch(t, filepath.Join(root, "a.conllu"))
	outDir := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	jobs, err := Plan([]string{in}, outDir, transliteration.Latin)
	require.NoError(t, err)
	assert.Equal(t, []Job{{Input: in, Output: filepath.Join(outDir, "a-lat.conllu")}}, jobs)
}

func TestPlanNextToInput(t *testing.T) {
	root := t.TempDir()
	in := touch(t, filepath.Join(root, "a.conllu"))

	jobs, err := Plan([]string{in}, "", transliteration.Cyrillic)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a-cyr.conllu"), jobs[0].Output)
}

func TestPlanDirectory(t *testing.T) {
	root := t.TempDir()
	inDir := filepath.Join(root, "in")
	b := touch(t, filepath.Join(inDir, "b.conllu"))
	a := touch(t, filepath.Join(inDir, "a.conllu"))
	touch(t, filepath.Join(inDir, "readme.txt"))
	touch(t, filepath.Join(inDir, "nested", "c.conllu"))
	outDir := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	jobs, err := Plan([]string{inDir}, outDir, transliteration.Cyrillic)
	require.NoError(t, err)
	assert.Equal(t, []Job{
		{Input: a, Output: filepath.Join(outDir, "a-cyr.conllu")},
		{Input: b, Output: filepath.Join(outDir, "b-cyr.conllu")},
	}, jobs)
}

func TestPlanDirectorySkipsConvertedFiles(t *testing.T) {
	inDir := t.TempDir()
	a := touch(t, filepath.Join(inDir, "a.conllu"))
	touch(t, filepath.Join(inDir, "a-cyr.conllu"))
	touch(t, filepath.Join(inDir, "b-lat.conllu"))

	jobs, err := Plan([]string{inDir}, "", transliteration.Cyrillic)
	require.NoError(t, err)
	assert.Equal(t, []Job{{Input: a, Output: filepath.Join(inDir, "a-cyr.conllu")}}, jobs)

	// Named explicitly, a suffixed file is still an input.
	b := filepath.Join(inDir, "b-lat.conllu")
	jobs, err = Plan([]string{b}, "", transliteration.Cyrillic)
	require.NoError(t, err)
	assert.Equal(t, []Job{{Input: b, Output: filepath.Join(inDir, "b-lat-cyr.conllu")}}, jobs)
}

func TestPlanSeveralInputsNeedOutputDir(t *testing.T) {
	root := t.TempDir()
	a := touch(t, filepath.Join(root, "a.conllu"))
	b := touch(t, filepath.Join(root, "b.conllu"))

	_, err := Plan([]string{a, b}, filepath.Join(root, "missing"), transliteration.Cyrillic)
	assert.ErrorIs(t, err, ErrOutputNotDir)

	// A directory input needs a directory output even when it holds one file.
	dir := filepath.Join(root, "one")
	touch(t, filepath.Join(dir, "x.conllu"))
	_, err = Plan([]string{dir}, filepath.Join(root, "x.out"), transliteration.Cyrillic)
	assert.ErrorIs(t, err, ErrOutputNotDir)
}

func TestPlanGlobDeduplicates(t *testing.T) {
	root := t.TempDir()
	a := touch(t, filepath.Join(root, "a.conllu"))
	b := touch(t, filepath.Join(root, "b.conllu"))

	jobs, err := Plan([]string{filepath.Join(root, "*.conllu"), a, root + "/./b.conllu"}, "", transliteration.Cyrillic)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, a, jobs[0].Input)
	assert.Equal(t, b, jobs[1].Input)
}

func TestPlanErrors(t *testing.T) {
	root := t.TempDir()

	_, err := Plan([]string{filepath.Join(root, "*.conllu")}, "", transliteration.Cyrillic)
	assert.ErrorIs(t, err, ErrNoInputs)

	_, err = Plan([]string{filepath.Join(root, "nope.conllu")}, "", transliteration.Cyrillic)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	a := touch(t, filepath.Join(root, "a.conllu"))
	_, err = Plan([]string{a}, a, transliteration.Cyrillic)
	assert.ErrorIs(t, err, ErrSameFile)

	touch(t, filepath.Join(root, "x", "s.conllu"))
	touch(t, filepath.Join(root, "y", "s.conllu"))
	outDir := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))
	_, err = Plan([]string{filepath.Join(root, "x"), filepath.Join(root, "y")}, outDir, transliteration.Cyrillic)
	assert.ErrorIs(t, err, ErrOutputClash)
}
