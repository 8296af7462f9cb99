// Package display renders engine output for the console front-end:
// styled plain text, optional markdown rendering, and a wait spinner
// for translations in flight.
package display

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// renderer is lazily initialized by InitRenderer; nil means plain
// output.
var renderer *glamour.TermRenderer

// InitRenderer prepares the markdown renderer. Safe to skip; ShowContent
// falls back to plain text when no renderer is available.
func InitRenderer() error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	renderer = r
	return nil
}

// NewSpinner returns a wait spinner with the given suffix text. Callers
// Start and Stop it around the slow call.
func NewSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	return s
}

// ShowContent prints command output, markdown-rendered when a renderer
// was initialized.
func ShowContent(content string) {
	if content == "" {
		return
	}
	if renderer != nil {
		if out, err := renderer.Render(content); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(content)
}

// ShowError prints a failure message in the error style.
func ShowError(msg string) {
	fmt.Fprintln(os.Stderr, errStyle.Render(msg))
}

// ShowNote prints de-emphasized informational text, such as the
// translated form of a natural-language input.
func ShowNote(msg string) {
	fmt.Println(faintStyle.Render(msg))
}
