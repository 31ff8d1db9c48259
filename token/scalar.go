package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrQuote = errors.New("bad quoted scalar")

// Unquote decodes a quoted scalar, including the surrounding quotes.
// Double-quoted scalars support the usual escapes; single-quoted scalars
// support only the doubled-quote escape.
func Unquote(b []byte) (string, error) {
	if len(b) < 2 {
		return "", fmt.Errorf("%w: %q", ErrQuote, b)
	}
	switch b[0] {
	case '\'':
		if b[len(b)-1] != '\'' {
			return "", fmt.Errorf("%w: unterminated %q", ErrQuote, b)
		}
		body := string(b[1 : len(b)-1])
		return strings.ReplaceAll(body, "''", "'"), nil
	case '"':
		if b[len(b)-1] != '"' {
			return "", fmt.Errorf("%w: unterminated %q", ErrQuote, b)
		}
		return unquoteDouble(b)
	default:
		return "", fmt.Errorf("%w: %q", ErrQuote, b)
	}
}

func unquoteDouble(b []byte) (string, error) {
	var sb strings.Builder
	i := 1
	end := len(b) - 1
	for i < end {
		c := b[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= end {
			return "", fmt.Errorf("%w: trailing escape in %q", ErrQuote, b)
		}
		switch b[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case '\'':
			sb.WriteByte('\'')
		case 'x', 'u', 'U':
			n := map[byte]int{'x': 2, 'u': 4, 'U': 8}[b[i]]
			if i+n >= end+1 {
				return "", fmt.Errorf("%w: short \\%c escape in %q", ErrQuote, b[i], b)
			}
			v, err := strconv.ParseUint(string(b[i+1:i+1+n]), 16, 32)
			if err != nil {
				return "", fmt.Errorf("%w: bad \\%c escape in %q", ErrQuote, b[i], b)
			}
			sb.WriteRune(rune(v))
			i += n
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c in %q", ErrQuote, b[i], b)
		}
		i++
	}
	return sb.String(), nil
}

// Quote renders s as a double-quoted scalar.
func Quote(s string) string {
	return strconv.Quote(s)
}

// IsNullText reports whether s is one of the plain spellings of null.
func IsNullText(s string) bool {
	switch s {
	case "", "~", "null", "Null", "NULL":
		return true
	}
	return false
}

func isBoolText(s string) bool {
	switch s {
	case "true", "True", "TRUE", "false", "False", "FALSE":
		return true
	}
	return false
}

func isNumberText(s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

// indicator characters which cannot start a plain scalar
const indicators = "&*!#-?{}[]:,>|%@`'\""

// NeedsQuote reports whether s must be quoted to survive a round trip as a
// value scalar. The test is conservative: anything that could be mistaken
// for structure, a comment, another scalar type, or that carries edge
// whitespace gets quoted.
func NeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	if !utf8.ValidString(s) {
		return true
	}
	if strings.IndexByte(indicators, s[0]) >= 0 {
		switch s[0] {
		case '-', '?':
			// a dash or question mark is only structural alone or
			// followed by a space
			if len(s) == 1 || s[1] == ' ' {
				return true
			}
		default:
			return true
		}
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}
	if strings.ContainsAny(s, "\n\t\r") {
		return true
	}
	if strings.Contains(s, ": ") || strings.HasSuffix(s, ":") {
		return true
	}
	if strings.Contains(s, " #") {
		return true
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return false
}

// NeedsKeyQuote is like NeedsQuote but for map keys, which additionally
// cannot contain a plain colon.
func NeedsKeyQuote(s string) bool {
	return NeedsQuote(s) || strings.ContainsAny(s, ":{}[],")
}

// Ambiguous reports whether the plain spelling of s would be read back as
// null, a boolean, or a number rather than a string. Writers quote such
// strings to keep typed round trips exact.
func Ambiguous(s string) bool {
	return IsNullText(s) || isBoolText(s) || isNumberText(s)
}
