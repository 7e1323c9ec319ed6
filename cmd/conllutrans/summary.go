package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jusunglee/srbcyr/internal/batch"
	"github.com/jusunglee/srbcyr/internal/ledger"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func row(label string, value any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value))
}

func renderSummary(s batch.Summary, planned int, elapsed time.Duration) string {
	tally := s.Tally()

	status := successStyle.Render("done")
	if failed := planned - len(s.Results); failed > 0 {
		status = errorStyle.Render(fmt.Sprintf("%d file(s) not converted", failed))
	}

	lines := []string{
		titleStyle.Render("conllutrans") + "  " + status,
		"",
		row("converted", s.Converted()),
		row("skipped", s.Skipped()),
		row("lines", s.Lines()),
		row("transliterated", tally.Transliterated),
		row("foreign", tally.Foreign),
		row("partial", tally.Partial),
		row("elapsed", elapsed.Round(time.Millisecond)),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderLedger(files []ledger.File) string {
	if len(files) == 0 {
		return labelStyle.UnsetWidth().Render("ledger is empty")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d ledger entries", len(files))))
	for _, f := range files {
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(f.InputPath))
		b.WriteString(labelStyle.UnsetWidth().Render(fmt.Sprintf(
			"  %s → %s  %d lines  %s",
			f.Direction, f.OutputPath, f.Lines, f.ProcessedAt.Local().Format(time.DateTime),
		)))
	}
	return b.String()
}
