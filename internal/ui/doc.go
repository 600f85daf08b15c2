// Package ui styles terminal output for the squadcast CLI with lipgloss.
//
// [Palette] holds the named styles (title, ok, error, warning, help) and renders tables and lifecycle progress lines.
// The brand colors are exported so the setup page can use the same scheme.
package ui
