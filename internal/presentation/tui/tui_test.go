package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/modassist/internal/presentation/tui"
	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/registry"
)

func TestCommandsMarkdown(t *testing.T) {
	md := tui.CommandsMarkdown(registry.Default().Definitions())

	assert.True(t, strings.HasPrefix(md, "# Commands\n"))
	assert.Contains(t, md, "| Smart Array | `make array` |")
	assert.Contains(t, md, "|  |  |  | two selected objects: a mesh and an empty (object mode) |")
	assert.Contains(t, md, "| Shrinkwrap | `shrinkwrap` | shrinkwrap, conform, wrap | two mesh objects to be selected (object mode) |")
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer(60)
	out, err := render("# Commands\n\nsolidify")
	require.NoError(t, err)
	assert.Contains(t, out, "solidify")
}

func TestStyler_Plain(t *testing.T) {
	s := tui.PlainStyler()
	assert.Equal(t, "✔ Solidify modifier added", s.Status(domain.LevelInfo, "Solidify modifier added"))
	assert.Equal(t, "✘ Please select an object first", s.Status(domain.LevelError, "Please select an object first"))
	assert.Equal(t, "hint", s.Faint("hint"))
}

func TestStyler_NonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	s := tui.NewStyler(&buf)
	assert.Equal(t, "✔ done", s.Status(domain.LevelInfo, "done"))
}
