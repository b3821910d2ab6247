package rackfile

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameSize bounds qualified jack names arriving from HTTP, MCP or files.
const MaxNameSize = 256

var (
	ErrNameTooLarge = errors.New("name exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("name contains invalid UTF-8 sequences")
)

// SanitizeName enforces MaxNameSize, validates UTF-8 and strips control
// characters and surrounding whitespace. Oversized input is rejected rather
// than truncated so that a truncated name never resolves to another jack.
func SanitizeName(name string) (string, error) {
	if len(name) > MaxNameSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrNameTooLarge, len(name), MaxNameSize)
	}
	if !utf8.ValidString(name) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(name, unicode.IsControl) < 0 {
		return strings.TrimSpace(name), nil
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
