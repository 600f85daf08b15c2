package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/squadcast/internal/tasks"
)

// Table renders rows under headers with a rounded border in the primary color.
func (p *Palette) Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render()
}

// Progress renders one lifecycle progress update as a single line.
func (p *Palette) Progress(u tasks.ProgressUpdate) string {
	counter := p.Help(fmt.Sprintf("[%d/%d]", u.Step, u.Total))
	phase := p.phase.Render(u.Phase.String())
	return fmt.Sprintf("%s %s %s", counter, phase, u.Message)
}
