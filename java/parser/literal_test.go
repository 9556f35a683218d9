package parser

import (
	"errors"
	"math"
	"testing"
)

func TestParseIntLiteral(t *testing.T) {
	tests := []struct {
		raw     string
		negated bool
		want    int32
		wantErr error
	}{
		{"0", false, 0, nil},
		{"42", false, 42, nil},
		{"1_000_000", false, 1000000, nil},
		{"0x7fffffff", false, math.MaxInt32, nil},
		{"0xffffffff", false, -1, nil},
		{"0x8000_0000", false, math.MinInt32, nil},
		{"017", false, 15, nil},
		{"0b1010", false, 10, nil},
		{"2147483647", false, math.MaxInt32, nil},
		{"2147483648", true, math.MinInt32, nil},
		{"2147483648", false, 0, ErrOutOfRange},
		{"0x1_0000_0000", false, 0, ErrOutOfRange},
		{"099", false, 0, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseIntLiteral(tt.raw, tt.negated)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseIntLiteral(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseIntLiteral(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseLongLiteral(t *testing.T) {
	tests := []struct {
		raw     string
		negated bool
		want    int64
		wantErr error
	}{
		{"0L", false, 0, nil},
		{"9223372036854775807L", false, math.MaxInt64, nil},
		{"9223372036854775808L", true, math.MinInt64, nil},
		{"9223372036854775808L", false, 0, ErrOutOfRange},
		{"0xffff_ffff_ffff_ffffL", false, -1, nil},
		{"0x7fffffffl", false, math.MaxInt32, nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLongLiteral(tt.raw, tt.negated)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseLongLiteral(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseLongLiteral(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseFloatingLiterals(t *testing.T) {
	doubles := []struct {
		raw     string
		want    float64
		wantErr error
	}{
		{"1.5", 1.5, nil},
		{"1e3", 1000, nil},
		{".5", 0.5, nil},
		{"1_0.2_5d", 10.25, nil},
		{"0x1p4", 16, nil},
		{"0x1.8p1D", 3, nil},
		{"0.0", 0, nil},
		{"1.", 1, nil},
		{"1.e3", 1000, nil},
		{"2.D", 2, nil},
		{"1e400", 0, ErrOutOfRange},
		{"1e-400", 0, ErrOutOfRange},
	}
	for _, tt := range doubles {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDoubleLiteral(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseDoubleLiteral(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseDoubleLiteral(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}

	if got, err := ParseFloatLiteral("3.25f"); err != nil || got != 3.25 {
		t.Errorf("ParseFloatLiteral(3.25f) = %v, %v", got, err)
	}
	if _, err := ParseFloatLiteral("1e39f"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ParseFloatLiteral(1e39f) error = %v, want out of range", err)
	}
	if !IsFloatLiteral("1F") || IsFloatLiteral("1.0") {
		t.Error("IsFloatLiteral misclassifies suffixes")
	}
}

func TestUnquote(t *testing.T) {
	chars := []struct {
		raw  string
		want rune
	}{
		{`'a'`, 'a'},
		{`'\n'`, '\n'},
		{`'\''`, '\''},
		{`'\101'`, 'A'},
		{`'\0'`, 0},
		{`'A'`, 'A'},
		{`'\uuu00e9'`, 'é'},
		{`'é'`, 'é'},
	}
	for _, tt := range chars {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := UnquoteChar(tt.raw)
			if err != nil || got != tt.want {
				t.Errorf("UnquoteChar(%s) = %q, %v, want %q", tt.raw, got, err, tt.want)
			}
		})
	}

	strs := []struct {
		raw  string
		want string
	}{
		{`""`, ""},
		{`"plain"`, "plain"},
		{`"tab\there"`, "tab\there"},
		{`"q\"q"`, `q"q`},
		{`"\377"`, "ÿ"},
		{`"\s"`, " "},
	}
	for _, tt := range strs {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := UnquoteString(tt.raw)
			if err != nil || got != tt.want {
				t.Errorf("UnquoteString(%s) = %q, %v, want %q", tt.raw, got, err, tt.want)
			}
		})
	}

	if _, err := UnquoteString(`"bad\q"`); !errors.Is(err, ErrInvalidEscape) {
		t.Errorf("UnquoteString(bad escape) error = %v", err)
	}
	if _, err := UnquoteChar(`'ab'`); !errors.Is(err, ErrMalformed) {
		t.Errorf("UnquoteChar('ab') error = %v", err)
	}
}

func TestTextBlockValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "strips incidental indentation",
			raw:  "\"\"\"\n    Hello,\n      World!\n    \"\"\"",
			want: "Hello,\n  World!\n",
		},
		{
			name: "closing delimiter on last line",
			raw:  "\"\"\"\n    one\n    two\"\"\"",
			want: "one\ntwo",
		},
		{
			name: "closing delimiter sets indentation",
			raw:  "\"\"\"\n    indented\n  \"\"\"",
			want: "  indented\n",
		},
		{
			name: "trailing spaces are removed",
			raw:  "\"\"\"\n  a   \n  b\\s\n  \"\"\"",
			want: "a\nb \n",
		},
		{
			name: "line continuation",
			raw:  "\"\"\"\n  one \\\n  two\n  \"\"\"",
			want: "one two\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TextBlockValue(tt.raw)
			if err != nil {
				t.Fatalf("TextBlockValue error: %v", err)
			}
			if got != tt.want {
				t.Errorf("TextBlockValue = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := TextBlockValue(`"""x"""`); !errors.Is(err, ErrMalformed) {
		t.Errorf("single-line text block error = %v, want malformed", err)
	}
}
