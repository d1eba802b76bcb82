package interpreter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"Under Limit", MaxCommandSize - 1, false},
		{"Exact Limit", MaxCommandSize, false},
		{"Over Limit", MaxCommandSize + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sanitize(strings.Repeat("a", tt.size))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCommandTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitize_ControlChars(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"make array", "make array"},
		{"make\tarray", "make array"},
		{"\x1b[31mmirror\x1b[0m", " [31mmirror [0m"},
		{"solid\x00ify", "solid ify"},
		{"curve\ndeform", "curve deform"},
	}
	for _, tt := range tests {
		got, err := Sanitize(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSanitize_InvalidUTF8(t *testing.T) {
	_, err := Sanitize("mirror \xff")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
