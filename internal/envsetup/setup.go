// envsetup provides a small .env wizard for conllutrans. It collects the
// settings that are tedious to pass as flags on every run and writes them as
// SRBCYR_* variables, which the CLIs read through godotenv and ff.
package envsetup

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/jusunglee/srbcyr/internal/wordlist"
)

const defaultStateDB = "srbcyr-ledger.db"

type step int

const (
	stepWelcome step = iota
	stepDirection
	stepListsDir
	stepStateDB
	stepWorkers
	stepConfirm
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Config holds the values the wizard collects. Empty fields are left out of
// the written file so the flag defaults apply.
type Config struct {
	Direction string
	ListsDir  string
	StateDB   string
	Workers   string
}

// Env returns the variables for c, keyed the way ff maps flag names.
func (c Config) Env() map[string]string {
	env := map[string]string{"SRBCYR_DIRECTION": c.Direction}
	if c.ListsDir != "" {
		env["SRBCYR_LISTS_DIR"] = c.ListsDir
	}
	if c.StateDB != "" {
		env["SRBCYR_STATE_DB"] = c.StateDB
	}
	if c.Workers != "" {
		env["SRBCYR_WORKERS"] = c.Workers
	}
	return env
}

type model struct {
	step  step
	cfg   Config
	input textinput.Model
	path  string
	err   error
	saved bool
}

// New returns a wizard that writes to path.
func New(path string) model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return model{step: stepWelcome, input: ti, path: path}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		case tea.KeyTab:
			return m.skip()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) next(s step) model {
	m.step = s
	m.err = nil
	m.input.SetValue("")
	m.input.Placeholder = ""
	if s == stepStateDB {
		m.input.Placeholder = defaultStateDB
	}
	return m
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepWelcome:
		return m.next(stepDirection), nil

	case stepDirection:
		switch strings.ToLower(value) {
		case "1", "cyrillic", "":
			m.cfg.Direction = "cyrillic"
		case "2", "latin":
			m.cfg.Direction = "latin"
		default:
			m.err = fmt.Errorf("please enter 1 for Cyrillic or 2 for Latin")
			return m, nil
		}
		return m.next(stepListsDir), nil

	case stepListsDir:
		if value != "" {
			if _, err := wordlist.Load(os.DirFS(value)); err != nil {
				m.err = fmt.Errorf("%s does not hold the word lists: %w", value, err)
				return m, nil
			}
		}
		m.cfg.ListsDir = value
		return m.next(stepStateDB), nil

	case stepStateDB:
		if value == "" {
			value = defaultStateDB
		}
		m.cfg.StateDB = value
		return m.next(stepWorkers), nil

	case stepWorkers:
		if value != "" {
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				m.err = fmt.Errorf("workers must be a positive number")
				return m, nil
			}
		}
		m.cfg.Workers = value
		return m.next(stepConfirm), nil

	case stepConfirm:
		switch strings.ToLower(value) {
		case "y", "yes", "":
			if err := m.writeEnvFile(); err != nil {
				m.err = err
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		case "n", "no":
			m.cfg = Config{}
			return m.next(stepWelcome), nil
		}
	}
	return m, nil
}

// skip leaves an optional setting empty.
func (m model) skip() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepListsDir:
		m.cfg.ListsDir = ""
		return m.next(stepStateDB), nil
	case stepStateDB:
		m.cfg.StateDB = ""
		return m.next(stepWorkers), nil
	case stepWorkers:
		m.cfg.Workers = ""
		return m.next(stepConfirm), nil
	}
	return m, nil
}

func (m model) writeEnvFile() error {
	content, err := godotenv.Marshal(m.cfg.Env())
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return os.WriteFile(m.path, []byte("# Generated by conllutrans --setup\n"+content+"\n"), 0o600)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (m model) View() string {
	var s strings.Builder

	switch m.step {
	case stepWelcome:
		s.WriteString(titleStyle.Render("conllutrans setup"))
		s.WriteString("\n\n")
		s.WriteString("This wizard writes " + m.path + " so you can run conllutrans\n")
		s.WriteString("with just the input files. It asks for:\n\n")
		s.WriteString("  - the target script\n")
		s.WriteString("  - an optional word list directory\n")
		s.WriteString("  - where to keep the ledger of converted files\n")
		s.WriteString("  - how many files to convert in parallel\n")
		s.WriteString("\n")
		s.WriteString(dimStyle.Render("Press Enter to continue, Ctrl+C to exit"))

	case stepDirection:
		s.WriteString(titleStyle.Render("Step 1: Target script"))
		s.WriteString("\n\n")
		s.WriteString("  1. Cyrillic (Latin input, foreign words kept)\n")
		s.WriteString("  2. Latin\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Enter 1 or 2:"))

	case stepListsDir:
		s.WriteString(titleStyle.Render("Step 2: Word lists"))
		s.WriteString("\n\n")
		s.WriteString("A directory with your own copies of the six list files.\n")
		s.WriteString("Leave empty to use the built-in lists.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Directory (tab to skip):"))

	case stepStateDB:
		s.WriteString(titleStyle.Render("Step 3: Ledger"))
		s.WriteString("\n\n")
		s.WriteString("Files already converted with the same word lists are skipped.\n")
		s.WriteString("Use a sqlite file path or a postgres:// URL.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Ledger (enter for default, tab to disable):"))

	case stepWorkers:
		s.WriteString(titleStyle.Render("Step 4: Workers"))
		s.WriteString("\n\n")
		s.WriteString(labelStyle.Render("Files in parallel (tab for one per CPU):"))

	case stepConfirm:
		s.WriteString(titleStyle.Render("Configuration"))
		s.WriteString("\n\n")
		s.WriteString("  Direction:  " + successStyle.Render(m.cfg.Direction) + "\n")
		s.WriteString("  Word lists: " + successStyle.Render(orDefault(m.cfg.ListsDir, "built-in")) + "\n")
		s.WriteString("  Ledger:     " + successStyle.Render(orDefault(m.cfg.StateDB, "disabled")) + "\n")
		s.WriteString("  Workers:    " + successStyle.Render(orDefault(m.cfg.Workers, "one per CPU")) + "\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Save this configuration? [Y/n]:"))
	}

	if m.step != stepWelcome {
		s.WriteString("\n")
		s.WriteString(m.input.View())
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	s.WriteString("\n")
	return s.String()
}

// Run starts the wizard and reports whether a file was written.
func Run(path string) (bool, error) {
	p := tea.NewProgram(New(path))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(model)
	return m.saved, nil
}

// NeedsSetup checks if the .env file exists
func NeedsSetup(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}
