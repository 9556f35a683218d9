package parser

import (
	"testing"
)

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenError, "Error"},
		{TokenIdent, "Identifier"},
		{TokenIntLiteral, "IntLiteral"},
		{TokenStringLiteral, "StringLiteral"},
		{TokenTrue, "true"},
		{TokenNull, "null"},
		{TokenClass, "class"},
		{TokenLParen, "("},
		{TokenEllipsis, "..."},
		{TokenArrow, "->"},
		{TokenColonColon, "::"},
		{TokenUShrAssign, ">>>="},
		{TokenKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("TokenKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident string
		level SourceLevel
		want  TokenKind
	}{
		{"class", Java8, TokenClass},
		{"synchronized", Java8, TokenSynchronized},
		{"goto", Java8, TokenGoto},
		{"true", Java8, TokenTrue},
		{"assert", Java3, TokenIdent},
		{"assert", Java4, TokenAssert},
		{"enum", Java4, TokenIdent},
		{"enum", Java5, TokenEnum},
		{"var", Java21, TokenIdent},
		{"record", Java21, TokenIdent},
		{"yield", Java21, TokenIdent},
		{"sealed", Java21, TokenIdent},
		{"module", Java21, TokenIdent},
		{"notAKeyword", Java21, TokenIdent},
		{"", Java21, TokenIdent},
	}

	for _, tt := range tests {
		t.Run(tt.ident+"@"+tt.level.String(), func(t *testing.T) {
			if got := LookupKeyword(tt.ident, tt.level); got != tt.want {
				t.Errorf("LookupKeyword(%q, %v) = %v, want %v", tt.ident, tt.level, got, tt.want)
			}
		})
	}
}

func TestTokenIsWord(t *testing.T) {
	tok := Token{Kind: TokenIdent, Literal: "record"}
	if !tok.IsWord("record") {
		t.Errorf("IsWord(record) = false, want true")
	}
	if tok.IsWord("yield") {
		t.Errorf("IsWord(yield) = true, want false")
	}
	kw := Token{Kind: TokenClass, Literal: "class"}
	if kw.IsWord("class") {
		t.Errorf("keyword token must not match as a word")
	}
}

func TestParseSourceLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    SourceLevel
		wantErr bool
	}{
		{"1.4", Java4, false},
		{"1.8", Java8, false},
		{"8", Java8, false},
		{" 17 ", Java17, false},
		{"21", Java21, false},
		{"1.2", 0, true},
		{"99", 0, true},
		{"eight", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSourceLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSourceLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSourceLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourceLevelString(t *testing.T) {
	if got := Java4.String(); got != "1.4" {
		t.Errorf("Java4.String() = %q, want 1.4", got)
	}
	if got := Java11.String(); got != "11" {
		t.Errorf("Java11.String() = %q, want 11", got)
	}
}
