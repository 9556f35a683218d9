package parser

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrOutOfRange    = errors.New("literal out of range")
	ErrMalformed     = errors.New("malformed literal")
	ErrInvalidEscape = errors.New("invalid escape sequence")
)

// splitIntLiteral strips underscores and the type suffix and returns the
// digits with their radix.
func splitIntLiteral(raw string) (digits string, radix int, isLong bool) {
	s := strings.ReplaceAll(raw, "_", "")
	if strings.HasSuffix(s, "l") || strings.HasSuffix(s, "L") {
		isLong = true
		s = s[:len(s)-1]
	}
	switch {
	case len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X"):
		return s[2:], 16, isLong
	case len(s) > 2 && (s[:2] == "0b" || s[:2] == "0B"):
		return s[2:], 2, isLong
	case len(s) > 1 && s[0] == '0':
		return s[1:], 8, isLong
	}
	return s, 10, isLong
}

// IsLongLiteral reports whether raw carries an l or L suffix.
func IsLongLiteral(raw string) bool {
	return strings.HasSuffix(raw, "l") || strings.HasSuffix(raw, "L")
}

func parseUnsigned(raw string, bits int, negated bool) (int64, error) {
	digits, radix, _ := splitIntLiteral(raw)
	if digits == "" {
		return 0, fmt.Errorf("parse %q: %w", raw, ErrMalformed)
	}
	v, ok := new(big.Int).SetString(digits, radix)
	if !ok {
		return 0, fmt.Errorf("parse %q: %w", raw, ErrMalformed)
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	if radix == 10 {
		// decimal literals are signed; 2^(bits-1) is only allowed under unary minus
		max := new(big.Int).Rsh(limit, 1)
		if v.Cmp(max) > 0 || (v.Cmp(max) == 0 && !negated) {
			return 0, fmt.Errorf("parse %q: %w", raw, ErrOutOfRange)
		}
		if v.Cmp(max) == 0 {
			// -2^(bits-1): return the wrapped value, the caller negates it again
			return new(big.Int).Neg(max).Int64(), nil
		}
		return v.Int64(), nil
	}
	if v.Cmp(limit) >= 0 {
		return 0, fmt.Errorf("parse %q: %w", raw, ErrOutOfRange)
	}
	// two's complement reinterpretation
	if bits == 32 {
		return int64(int32(uint32(v.Uint64()))), nil
	}
	return int64(v.Uint64()), nil
}

// ParseIntLiteral evaluates an int literal. negated tells whether the
// literal is the operand of unary minus, which admits 2147483648.
func ParseIntLiteral(raw string, negated bool) (int32, error) {
	v, err := parseUnsigned(raw, 32, negated)
	return int32(v), err
}

// ParseLongLiteral evaluates a long literal, suffix included.
func ParseLongLiteral(raw string, negated bool) (int64, error) {
	return parseUnsigned(raw, 64, negated)
}

func floatDigits(raw string) string {
	s := strings.ReplaceAll(raw, "_", "")
	if n := len(s); n > 0 {
		switch s[n-1] {
		case 'f', 'F', 'd', 'D':
			if !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) || strings.ContainsAny(s, "pP") {
				s = s[:n-1]
			}
		}
	}
	return s
}

// IsFloatLiteral reports whether raw denotes a float (not double) literal.
func IsFloatLiteral(raw string) bool {
	return strings.HasSuffix(raw, "f") || strings.HasSuffix(raw, "F")
}

func hasNonZeroDigit(s string) bool {
	mantissa := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		mantissa = s[2:]
		if i := strings.IndexAny(mantissa, "pP"); i >= 0 {
			mantissa = mantissa[:i]
		}
	} else if i := strings.IndexAny(mantissa, "eE"); i >= 0 {
		mantissa = mantissa[:i]
	}
	return strings.ContainsAny(mantissa, "123456789abcdefABCDEF")
}

func parseFloat(raw string, bits int) (float64, error) {
	s := floatDigits(raw)
	v, err := strconv.ParseFloat(s, bits)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, fmt.Errorf("parse %q: %w", raw, ErrOutOfRange)
		}
		return 0, fmt.Errorf("parse %q: %w", raw, ErrMalformed)
	}
	if v == 0 && hasNonZeroDigit(s) {
		return 0, fmt.Errorf("parse %q: %w", raw, ErrOutOfRange)
	}
	return v, nil
}

func ParseFloatLiteral(raw string) (float32, error) {
	v, err := parseFloat(raw, 32)
	if err == nil && math.IsInf(float64(float32(v)), 0) {
		return 0, fmt.Errorf("parse %q: %w", raw, ErrOutOfRange)
	}
	return float32(v), err
}

func ParseDoubleLiteral(raw string) (float64, error) {
	return parseFloat(raw, 64)
}

// unescape interprets the escape sequences of a literal body. Unicode
// escapes are decoded here as well.
func unescape(body string, textBlock bool) (string, error) {
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", ErrInvalidEscape
		}
		switch e := body[i]; e {
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case 's':
			sb.WriteByte(' ')
		case '"', '\'', '\\':
			sb.WriteByte(e)
		case '\n':
			if !textBlock {
				return "", ErrInvalidEscape
			}
		case 'u':
			for i < len(body) && body[i] == 'u' {
				i++
			}
			if i+4 > len(body) {
				return "", ErrInvalidEscape
			}
			v, err := strconv.ParseUint(body[i:i+4], 16, 16)
			if err != nil {
				return "", ErrInvalidEscape
			}
			sb.WriteRune(rune(v))
			i += 3
		default:
			if e < '0' || e > '7' {
				return "", ErrInvalidEscape
			}
			max := 2
			if e <= '3' {
				max = 3
			}
			j := i
			for j < len(body) && j-i < max && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(body[i:j], 8, 8)
			sb.WriteRune(rune(v))
			i = j - 1
		}
	}
	return sb.String(), nil
}

// UnquoteChar evaluates a char literal including its quotes.
func UnquoteChar(raw string) (rune, error) {
	if len(raw) < 3 || raw[0] != '\'' || raw[len(raw)-1] != '\'' {
		return 0, fmt.Errorf("unquote %s: %w", raw, ErrMalformed)
	}
	s, err := unescape(raw[1:len(raw)-1], false)
	if err != nil {
		return 0, fmt.Errorf("unquote %s: %w", raw, err)
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r > 0xFFFF {
		return 0, fmt.Errorf("unquote %s: %w", raw, ErrMalformed)
	}
	return r, nil
}

// UnquoteString evaluates a string literal including its quotes.
func UnquoteString(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("unquote %s: %w", raw, ErrMalformed)
	}
	s, err := unescape(raw[1:len(raw)-1], false)
	if err != nil {
		return "", fmt.Errorf("unquote %s: %w", raw, err)
	}
	return s, nil
}

// TextBlockValue evaluates a text block: incidental indentation and
// trailing spaces are stripped before escapes are interpreted.
func TextBlockValue(raw string) (string, error) {
	if !strings.HasPrefix(raw, `"""`) || !strings.HasSuffix(raw, `"""`) || len(raw) < 6 {
		return "", fmt.Errorf("text block: %w", ErrMalformed)
	}
	body := raw[3 : len(raw)-3]
	nl := strings.IndexAny(body, "\r\n")
	if nl < 0 || strings.TrimLeft(body[:nl], " \t\f") != "" {
		return "", fmt.Errorf("text block: %w", ErrMalformed)
	}
	body = strings.ReplaceAll(body[nl:], "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	lines := strings.Split(body[1:], "\n")

	// the last line counts for indentation even when blank: it holds the
	// closing delimiter
	minIndent := math.MaxInt
	for i, line := range lines {
		last := i == len(lines)-1
		if strings.TrimSpace(line) == "" && !last {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t\f"))
		if indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == math.MaxInt {
		minIndent = 0
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= minIndent {
			line = line[minIndent:]
		} else {
			line = ""
		}
		out[i] = strings.TrimRight(line, " \t\f")
	}
	s, err := unescape(strings.Join(out, "\n"), true)
	if err != nil {
		return "", fmt.Errorf("text block: %w", err)
	}
	return s, nil
}
