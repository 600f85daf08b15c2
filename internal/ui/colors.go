package ui

import "github.com/charmbracelet/lipgloss"

// Brand colors shared by the terminal palette and the setup page
const (
	ColorPrimary = "#7D56F4"
	ColorOK      = "#04B575"
	ColorError   = "#FF0000"
	ColorWarn    = "#FFA500"
	ColorMuted   = "#626262"
)

// Default is the palette used by the CLI
var Default = NewPalette(ColorPrimary, ColorOK, ColorError, ColorWarn, ColorMuted)

// Palette holds the styles for CLI output: headings, status marks, hints
// and lifecycle phase names.
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	phase  lipgloss.Style
	border lipgloss.Style
}

// NewPalette builds a palette from hex colors. Phase names and table borders
// take the primary color.
func NewPalette(primary, ok, failed, warn, muted string) *Palette {
	return &Palette{
		title:  NewBold(primary).MarginBottom(1),
		ok:     NewBold(ok),
		err:    NewBold(failed),
		warn:   NewStyle(warn),
		help:   NewEm(muted),
		phase:  NewStyle(primary),
		border: NewStyle(primary),
	}
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) OK(s string) string    { return p.ok.Render(s) }
func (p *Palette) Err(s string) string   { return p.err.Render(s) }
func (p *Palette) Warn(s string) string  { return p.warn.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

func NewStyle(fg string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(fg)) }
func NewBold(fg string) lipgloss.Style  { return NewStyle(fg).Bold(true) }
func NewEm(fg string) lipgloss.Style    { return NewStyle(fg).Italic(true) }
