package parser

import (
	"bytes"
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// translateUnicodeEscapes replaces every \uXXXX escape in src with the
// UTF-8 encoding of the character it denotes, as the first step of
// lexical translation. A backslash only starts an escape when an even
// number of backslashes precedes it. offsets maps each byte of the result,
// and its end, back to src; it is nil when src holds no escape.
func translateUnicodeEscapes(src []byte) ([]byte, []int) {
	if !bytes.Contains(src, []byte(`\u`)) {
		return src, nil
	}
	out := make([]byte, 0, len(src))
	offsets := make([]int, 0, len(src)+1)
	translated := false
	slashes := 0
	for i := 0; i < len(src); {
		if src[i] == '\\' && slashes%2 == 0 {
			if r, n := unicodeEscape(src[i:]); n > 0 {
				if utf16.IsSurrogate(r) {
					if low, m := unicodeEscape(src[i+n:]); m > 0 {
						if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
							r, n = pair, n+m
						}
					}
				}
				start := len(out)
				out = utf8.AppendRune(out, r)
				for range out[start:] {
					offsets = append(offsets, i)
				}
				i += n
				slashes = 0
				translated = true
				continue
			}
		}
		if src[i] == '\\' {
			slashes++
		} else {
			slashes = 0
		}
		out = append(out, src[i])
		offsets = append(offsets, i)
		i++
	}
	if !translated {
		return src, nil
	}
	return out, append(offsets, len(src))
}

// unicodeEscape decodes the escape at the start of s: a backslash, one or
// more 'u' and four hex digits. It returns the number of bytes used, or 0
// when s does not start with a well-formed escape.
func unicodeEscape(s []byte) (rune, int) {
	if len(s) < 2 || s[0] != '\\' || s[1] != 'u' {
		return 0, 0
	}
	i := 1
	for i < len(s) && s[i] == 'u' {
		i++
	}
	if len(s) < i+4 {
		return 0, 0
	}
	var r rune
	for _, c := range s[i : i+4] {
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, 0
		}
		r = r<<4 | rune(d)
	}
	return r, i + 4
}

// rawPosition maps an offset into the translated input to a position in
// the source as written.
func (l *Lexer) rawPosition(offset int) Position {
	if offset >= len(l.offsets) {
		offset = len(l.offsets) - 1
	}
	raw := l.offsets[offset]
	if l.lineStarts == nil {
		l.lineStarts = []int{0}
		for i, c := range l.raw {
			if c == '\n' {
				l.lineStarts = append(l.lineStarts, i+1)
			}
		}
	}
	line := sort.SearchInts(l.lineStarts, raw+1)
	return Position{File: l.file, Offset: raw, Line: line, Column: raw - l.lineStarts[line-1] + 1}
}
