package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/arbor/pkg/domain"
)

// DefaultMaxInputSize is the text limit used by SanitizeText when none is given.
const DefaultMaxInputSize = 4096

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeText cleans text inputs before the wrapped leaf sees them. Texts
// larger than maxSize bytes or with invalid UTF-8 are rejected with an error;
// control characters other than newline, tab and carriage return are stripped.
// A maxSize of zero or less uses DefaultMaxInputSize.
func SanitizeText(maxSize int) Transformer {
	if maxSize <= 0 {
		maxSize = DefaultMaxInputSize
	}
	return MapInput(func(ctx context.Context, input domain.Input) (domain.Input, error) {
		text, ok := input.(domain.TextInput)
		if !ok {
			return input, nil
		}
		clean, err := SanitizeString(text.Text, maxSize)
		if err != nil {
			return input, err
		}
		text.Text = clean
		return text, nil
	})
}

// SanitizeString applies the SanitizeText rules to a single string.
func SanitizeString(s string, maxSize int) (string, error) {
	if len(s) > maxSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(s), maxSize)
	}
	if !utf8.ValidString(s) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(s, unsafeControl) < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
