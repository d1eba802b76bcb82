package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/aretw0/modassist/pkg/domain"
)

// Styler colors status lines for one output.
type Styler struct {
	profile termenv.Profile
}

// NewStyler detects the color profile of w. Non-terminal writers get plain text.
func NewStyler(w io.Writer) Styler {
	return Styler{profile: termenv.NewOutput(w).EnvColorProfile()}
}

// PlainStyler never emits escape sequences.
func PlainStyler() Styler {
	return Styler{profile: termenv.Ascii}
}

// Status formats one report, e.g. "✔ Solidify modifier added".
func (s Styler) Status(level domain.Level, message string) string {
	mark, color := "✔", "#22c55e"
	if level == domain.LevelError {
		mark, color = "✘", "#ef4444"
	}
	prefix := s.profile.String(mark).Foreground(s.profile.Color(color)).Bold()
	return fmt.Sprintf("%s %s", prefix, message)
}

// Faint dims secondary text such as prompts and hints.
func (s Styler) Faint(text string) string {
	return s.profile.String(text).Foreground(s.profile.Color("#94a3b8")).String()
}
