package interpreter

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxCommandSize is the largest command text accepted, in bytes.
const MaxCommandSize = 1024

var (
	ErrCommandTooLarge = errors.New("command exceeds maximum allowed size")
	ErrInvalidUTF8     = errors.New("command contains invalid UTF-8 sequences")
)

// Sanitize enforces the size limit, validates UTF-8 and replaces control characters
// (ANSI escapes, NUL, newlines) with spaces, so commands are always one clean line.
func Sanitize(text string) (string, error) {
	if len(text) > MaxCommandSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrCommandTooLarge, len(text), MaxCommandSize)
	}
	if !utf8.ValidString(text) {
		return "", ErrInvalidUTF8
	}

	// Fast path: nothing to strip.
	if strings.IndexFunc(text, unicode.IsControl) < 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
