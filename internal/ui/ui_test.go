package ui

import (
	"strings"
	"testing"

	"github.com/desertthunder/squadcast/internal/tasks"
)

func TestPalette(t *testing.T) {
	p := NewPalette(ColorPrimary, ColorOK, ColorError, ColorWarn, ColorMuted)

	for name, render := range map[string]func(string) string{
		"Title": p.Title,
		"OK":    p.OK,
		"Err":   p.Err,
		"Warn":  p.Warn,
		"Help":  p.Help,
	} {
		t.Run(name, func(t *testing.T) {
			if got := render("hello"); !strings.Contains(got, "hello") {
				t.Errorf("%s() lost its text: %q", name, got)
			}
		})
	}
}

func TestTable(t *testing.T) {
	out := Default.Table([]string{"ID", "Name"}, [][]string{{"show-1", "Morning Pod"}, {"show-2", "Night Pod"}})

	for _, want := range []string{"ID", "Name", "show-1", "Morning Pod", "Night Pod"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestProgress(t *testing.T) {
	out := Default.Progress(tasks.ProgressUpdate{Phase: tasks.CreateMeeting, Step: 2, Total: 3, Message: "Creating session: Interview..."})

	for _, want := range []string{"[2/3]", "create_meeting", "Creating session: Interview..."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
