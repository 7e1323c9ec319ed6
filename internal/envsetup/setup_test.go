package envsetup

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enter(t *testing.T, m model, value string) model {
	t.Helper()
	m.input.SetValue(value)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model)
}

func tab(t *testing.T, m model) model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	return next.(model)
}

func TestWizardWritesEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	assert.True(t, NeedsSetup(path))

	m := New(path)
	m = enter(t, m, "")
	assert.Equal(t, stepDirection, m.step)
	m = enter(t, m, "2")
	m = tab(t, m)
	assert.Equal(t, stepStateDB, m.step)
	m = enter(t, m, "")
	m = enter(t, m, "4")
	assert.Equal(t, stepConfirm, m.step)
	assert.Contains(t, m.View(), "built-in")

	m.input.SetValue("y")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NoError(t, m.err)
	assert.True(t, m.saved)
	assert.NotNil(t, cmd)
	assert.False(t, NeedsSetup(path))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"SRBCYR_DIRECTION": "latin",
		"SRBCYR_STATE_DB":  defaultStateDB,
		"SRBCYR_WORKERS":   "4",
	}, env)
}

func TestWizardValidates(t *testing.T) {
	m := enter(t, New(filepath.Join(t.TempDir(), ".env")), "")

	m = enter(t, m, "cirilica")
	assert.Equal(t, stepDirection, m.step)
	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "please enter 1")

	m = enter(t, m, "cyrillic")
	assert.Equal(t, stepListsDir, m.step)
	assert.NoError(t, m.err)

	m = enter(t, m, t.TempDir())
	assert.Equal(t, stepListsDir, m.step)
	assert.ErrorContains(t, m.err, "does not hold the word lists")

	m = tab(t, m)
	m = tab(t, m)
	assert.Equal(t, stepWorkers, m.step)

	m = enter(t, m, "zero")
	assert.Equal(t, stepWorkers, m.step)
	m = enter(t, m, "-1")
	assert.Equal(t, stepWorkers, m.step)
	m = tab(t, m)
	assert.Equal(t, stepConfirm, m.step)
	assert.Contains(t, m.View(), "disabled")
}

func TestWizardRestartsOnNo(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), ".env"))
	m = enter(t, m, "")
	m = enter(t, m, "1")
	m = tab(t, m)
	m = tab(t, m)
	m = tab(t, m)
	m = enter(t, m, "n")

	assert.Equal(t, stepWelcome, m.step)
	assert.Equal(t, Config{}, m.cfg)
	assert.False(t, m.saved)
}

func TestConfigEnvOmitsEmpty(t *testing.T) {
	assert.Equal(t, map[string]string{"SRBCYR_DIRECTION": "cyrillic"}, Config{Direction: "cyrillic"}.Env())
}
