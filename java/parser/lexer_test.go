package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/problem"
)

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("class Foo {}"), "Test.java")
	pos := lexer.Position()

	if pos.File != "Test.java" {
		t.Errorf("File = %q, want %q", pos.File, "Test.java")
	}
	if pos.Line != 1 {
		t.Errorf("Line = %d, want %d", pos.Line, 1)
	}
	if pos.Column != 1 {
		t.Errorf("Column = %d, want %d", pos.Column, 1)
	}
	if pos.Offset != 0 {
		t.Errorf("Offset = %d, want %d", pos.Offset, 0)
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"class", TokenClass},
		{"public", TokenPublic},
		{"private", TokenPrivate},
		{"protected", TokenProtected},
		{"static", TokenStatic},
		{"final", TokenFinal},
		{"abstract", TokenAbstract},
		{"interface", TokenInterface},
		{"extends", TokenExtends},
		{"implements", TokenImplements},
		{"void", TokenVoid},
		{"int", TokenInt},
		{"boolean", TokenBoolean},
		{"if", TokenIf},
		{"else", TokenElse},
		{"for", TokenFor},
		{"while", TokenWhile},
		{"return", TokenReturn},
		{"new", TokenNew},
		{"this", TokenThis},
		{"super", TokenSuper},
		{"true", TokenTrue},
		{"false", TokenFalse},
		{"null", TokenNull},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{
		"foo",
		"Bar",
		"_private",
		"$special",
		"camelCase",
		"SCREAMING_CASE",
		"with123Numbers",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lexer := NewLexer([]byte(input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != TokenIdent {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenIdent)
			}
			if tok.Literal != input {
				t.Errorf("Literal = %q, want %q", tok.Literal, input)
			}
		})
	}
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"(", TokenLParen},
		{")", TokenRParen},
		{"{", TokenLBrace},
		{"}", TokenRBrace},
		{"[", TokenLBracket},
		{"]", TokenRBracket},
		{";", TokenSemicolon},
		{",", TokenComma},
		{".", TokenDot},
		{"...", TokenEllipsis},
		{"@", TokenAt},
		{"::", TokenColonColon},
		{":", TokenColon},
		{"=", TokenAssign},
		{"==", TokenEQ},
		{"!=", TokenNE},
		{"<", TokenLT},
		{"<=", TokenLE},
		{">", TokenGT},
		{">=", TokenGE},
		{"&&", TokenAnd},
		{"||", TokenOr},
		{"!", TokenNot},
		{"&", TokenBitAnd},
		{"|", TokenBitOr},
		{"^", TokenBitXor},
		{"~", TokenBitNot},
		{"<<", TokenShl},
		{">>", TokenShr},
		{">>>", TokenUShr},
		{"+", TokenPlus},
		{"-", TokenMinus},
		{"*", TokenStar},
		{"/", TokenSlash},
		{"%", TokenPercent},
		{"++", TokenIncrement},
		{"--", TokenDecrement},
		{"?", TokenQuestion},
		{"->", TokenArrow},
		{"+=", TokenPlusAssign},
		{"-=", TokenMinusAssign},
		{"*=", TokenStarAssign},
		{"/=", TokenSlashAssign},
		{"%=", TokenPercentAssign},
		{"&=", TokenAndAssign},
		{"|=", TokenOrAssign},
		{"^=", TokenXorAssign},
		{"<<=", TokenShlAssign},
		{">>=", TokenShrAssign},
		{">>>=", TokenUShrAssign},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenIntLiteral},
		{"123", TokenIntLiteral},
		{"1_000_000", TokenIntLiteral},
		{"123L", TokenIntLiteral},
		{"0x1F", TokenIntLiteral},
		{"0xDEAD_BEEF", TokenIntLiteral},
		{"0b1010", TokenIntLiteral},
		{"0b1010_1010", TokenIntLiteral},
		{"3.14", TokenFloatLiteral},
		{"3.14f", TokenFloatLiteral},
		{"3.14d", TokenFloatLiteral},
		{"1e10", TokenFloatLiteral},
		{"1.5e-10", TokenFloatLiteral},
		{"1.5E+10", TokenFloatLiteral},
		{"1.", TokenFloatLiteral},
		{"1.e3", TokenFloatLiteral},
		{"1.E5", TokenFloatLiteral},
		{"1.e-3", TokenFloatLiteral},
		{"1.f", TokenFloatLiteral},
		{"2.D", TokenFloatLiteral},
		{"1.d", TokenFloatLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
			if tok.Err != 0 {
				t.Errorf("Err = %v, want none", tok.Err)
			}
		})
	}
}

func TestLexerNumberBeforeMemberAccess(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenKind
	}{
		{"1.foo", []TokenKind{TokenIntLiteral, TokenDot, TokenIdent}},
		{"1.equals", []TokenKind{TokenIntLiteral, TokenDot, TokenIdent}},
		{"1.fx", []TokenKind{TokenIntLiteral, TokenDot, TokenIdent}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			var got []TokenKind
			for tok := lexer.NextToken(); tok.Kind != TokenEOF; tok = lexer.NextToken() {
				got = append(got, tok.Kind)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{`"hello"`, TokenStringLiteral},
		{`"hello world"`, TokenStringLiteral},
		{`"with \"escapes\""`, TokenStringLiteral},
		{`"with\nnewline"`, TokenStringLiteral},
		{`""`, TokenStringLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerCharLiterals(t *testing.T) {
	tests := []string{
		`'a'`,
		`'\n'`,
		`'\''`,
		`'\\'`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lexer := NewLexer([]byte(input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != TokenCharLiteral {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenCharLiteral)
			}
			if tok.Literal != input {
				t.Errorf("Literal = %q, want %q", tok.Literal, input)
			}
		})
	}
}

func TestLexerComments(t *testing.T) {
	t.Run("line comment", func(t *testing.T) {
		lexer := NewLexer([]byte("// this is a comment"), "test.java")
		tok := lexer.NextToken()
		if tok.Kind != TokenLineComment {
			t.Errorf("Kind = %v, want %v", tok.Kind, TokenLineComment)
		}
		if tok.Literal != "// this is a comment" {
			t.Errorf("Literal = %q", tok.Literal)
		}
	})

	t.Run("block comment", func(t *testing.T) {
		lexer := NewLexer([]byte("/* block comment */"), "test.java")
		tok := lexer.NextToken()
		if tok.Kind != TokenComment {
			t.Errorf("Kind = %v, want %v", tok.Kind, TokenComment)
		}
		if tok.Literal != "/* block comment */" {
			t.Errorf("Literal = %q", tok.Literal)
		}
	})

	t.Run("multiline block comment", func(t *testing.T) {
		input := "/* line1\n   line2 */"
		lexer := NewLexer([]byte(input), "test.java")
		tok := lexer.NextToken()
		if tok.Kind != TokenComment {
			t.Errorf("Kind = %v, want %v", tok.Kind, TokenComment)
		}
	})
}

func TestLexerTextBlock(t *testing.T) {
	input := `"""
    hello
    world
    """`
	lexer := NewLexer([]byte(input), "test.java")
	tok := lexer.NextToken()
	if tok.Kind != TokenTextBlock {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenTextBlock)
	}
}

func TestLexerWhitespace(t *testing.T) {
	lexer := NewLexer([]byte("   \t\n  "), "test.java")
	tok := lexer.NextToken()
	if tok.Kind != TokenWhitespace {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenWhitespace)
	}
}

func TestLexerEOF(t *testing.T) {
	lexer := NewLexer([]byte(""), "test.java")
	tok := lexer.NextToken()
	if tok.Kind != TokenEOF {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenEOF)
	}
}

func TestLexerPositionTracking(t *testing.T) {
	lexer := NewLexer([]byte("foo\nbar"), "test.java")

	tok1 := lexer.NextToken()
	if tok1.Span.Start.Line != 1 || tok1.Span.Start.Column != 1 {
		t.Errorf("First token at (%d, %d), want (1, 1)", tok1.Span.Start.Line, tok1.Span.Start.Column)
	}

	lexer.NextToken() // newline whitespace

	tok2 := lexer.NextToken()
	if tok2.Span.Start.Line != 2 || tok2.Span.Start.Column != 1 {
		t.Errorf("Second token at (%d, %d), want (2, 1)", tok2.Span.Start.Line, tok2.Span.Start.Column)
	}
}

func TestLexerSequence(t *testing.T) {
	input := "public class Foo { }"
	lexer := NewLexer([]byte(input), "test.java")

	expected := []TokenKind{
		TokenPublic,
		TokenWhitespace,
		TokenClass,
		TokenWhitespace,
		TokenIdent,
		TokenWhitespace,
		TokenLBrace,
		TokenWhitespace,
		TokenRBrace,
		TokenEOF,
	}

	for i, want := range expected {
		tok := lexer.NextToken()
		if tok.Kind != want {
			t.Errorf("Token %d: Kind = %v, want %v", i, tok.Kind, want)
		}
	}
}

func TestLexerUnknownCharacter(t *testing.T) {
	lexer := NewLexer([]byte("#"), "test.java")
	tok := lexer.NextToken()
	if tok.Kind != TokenError {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenError)
	}
}

func TestLexerLexicalErrors(t *testing.T) {
	tests := []struct {
		input string
		level SourceLevel
		err   problem.ID
	}{
		{`"unterminated`, Java21, problem.UnterminatedString},
		{`'a`, Java21, problem.UnterminatedChar},
		{`''`, Java21, problem.EmptyCharLiteral},
		{`'ab'`, Java21, problem.InvalidCharLiteral},
		{`"bad \q escape"`, Java21, problem.InvalidEscape},
		{"/* never closed", Java21, problem.UnterminatedComment},
		{"1__", Java21, problem.InvalidUnderscore},
		{"0x", Java21, problem.InvalidHexLiteral},
		{"0b102", Java21, problem.InvalidBinaryLiteral},
		{"09", Java21, problem.InvalidOctalLiteral},
		{"0x1.0", Java21, problem.InvalidFloatLiteral},
		{"\"\"\"\n  open", Java21, problem.UnterminatedTextBlock},
		{"\"\"\"\n  text\"\"\"", Java14, problem.TextBlockNotSupported},
		{"#", Java21, problem.InvalidCharacter},
		{"_", Java9, problem.UnderscoreAsIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java", WithLexerSourceLevel(tt.level))
			tok := lexer.NextToken()
			if tok.Err != tt.err {
				t.Errorf("Err = %v, want %v (token %v)", tok.Err, tt.err, tok)
			}
			if tok.Span.End.Offset == tok.Span.Start.Offset {
				t.Errorf("error token %v is empty", tok)
			}
		})
	}
}

func TestLexerUnderscoreBeforeJava9(t *testing.T) {
	lexer := NewLexer([]byte("_"), "test.java", WithLexerSourceLevel(Java8))
	tok := lexer.NextToken()
	if tok.Kind != TokenIdent || tok.Err != 0 {
		t.Errorf("token = %v (err %v), want a plain identifier", tok, tok.Err)
	}
}

func TestLexerUnicodeIdentifier(t *testing.T) {
	lexer := NewLexer([]byte("größe = 1"), "test.java")
	tok := lexer.NextToken()
	if tok.Kind != TokenIdent || tok.Literal != "größe" {
		t.Errorf("token = %v, want Identifier(größe)", tok)
	}
}

func TestLexerUnicodeEscapes(t *testing.T) {
	type lexeme struct {
		Kind    TokenKind
		Literal string
	}
	tests := []struct {
		name  string
		input string
		want  []lexeme
	}{
		{"identifier", `int \u0061bc = 1;`, []lexeme{
			{TokenInt, "int"}, {TokenIdent, "abc"}, {TokenAssign, "="}, {TokenIntLiteral, "1"}, {TokenSemicolon, ";"},
		}},
		{"keyword", `\u0069nt x;`, []lexeme{{TokenInt, "int"}, {TokenIdent, "x"}, {TokenSemicolon, ";"}}},
		{"several u", `\uuu0078;`, []lexeme{{TokenIdent, "x"}, {TokenSemicolon, ";"}}},
		{"string", `"\u0041b"`, []lexeme{{TokenStringLiteral, `"Ab"`}}},
		{"escaped backslash", `"\\u0041"`, []lexeme{{TokenStringLiteral, `"\\u0041"`}}},
		{"surrogate pair", `\uD835\uDC9C = 1`, []lexeme{{TokenIdent, "\U0001D49C"}, {TokenAssign, "="}, {TokenIntLiteral, "1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []lexeme
			for _, tok := range NewLexer([]byte(tt.input), "test.java").Tokenize() {
				if tok.Err != 0 {
					t.Errorf("token %v has error %v", tok, tok.Err)
				}
				if tok.Kind != TokenEOF {
					got = append(got, lexeme{tok.Kind, tok.Literal})
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerUnicodeEscapeSpans(t *testing.T) {
	input := "int \\u0061bc\n  = x; // \\u0041\nfoo"
	lexer := NewLexer([]byte(input), "test.java")
	tokens := lexer.Tokenize()
	var spans [][4]int
	for _, tok := range tokens {
		spans = append(spans, [4]int{tok.Span.Start.Offset, tok.Span.End.Offset, tok.Span.Start.Line, tok.Span.Start.Column})
	}
	want := [][4]int{
		{0, 3, 1, 1},   // int
		{4, 12, 1, 5},  // \u0061bc
		{15, 16, 2, 3}, // =
		{17, 18, 2, 5}, // x
		{18, 19, 2, 6}, // ;
		{30, 33, 3, 1}, // foo
		{33, 33, 3, 4}, // EOF
	}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	comments := lexer.Comments()
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	if c := comments[0]; c.Span.Start.Offset != 20 || c.Span.End.Offset != 29 || c.Text != "// A" {
		t.Errorf("comment = %+v, want // A at 20..29", c)
	}
}

func TestLexerNonSealed(t *testing.T) {
	lexer := NewLexer([]byte("non-sealed class"), "test.java")
	tok := lexer.NextToken()
	if tok.Kind != TokenNonSealed || tok.Literal != "non-sealed" {
		t.Errorf("token = %v, want non-sealed", tok)
	}
}

func TestLexerCommentTable(t *testing.T) {
	input := "// line\n/* block */\n/** doc */\nclass A {}"
	lexer := NewLexer([]byte(input), "test.java")
	lexer.Tokenize()

	starts := lexer.CommentStarts()
	ends := lexer.CommentEnds()
	if len(starts) != 3 || len(ends) != 3 {
		t.Fatalf("recorded %d/%d comments, want 3", len(starts), len(ends))
	}
	if starts[0] >= 0 {
		t.Errorf("line comment start = %d, want negative", starts[0])
	}
	if starts[1] < 0 || ends[1] < 0 {
		t.Errorf("block comment entry = (%d, %d), want positive", starts[1], ends[1])
	}
	if ends[2] >= 0 {
		t.Errorf("javadoc end = %d, want negative", ends[2])
	}

	classOffset := len(input) - len("class A {}")
	flushed := lexer.FlushCommentsDefinedPriorTo(classOffset)
	if len(flushed) != 3 {
		t.Fatalf("flushed %d comments, want 3", len(flushed))
	}
	if flushed[2].Kind != ast.JavadocComment || flushed[2].Text != "/** doc */" {
		t.Errorf("last flushed = %+v, want the javadoc", flushed[2])
	}
	if again := lexer.FlushCommentsDefinedPriorTo(classOffset); len(again) != 0 {
		t.Errorf("second flush returned %d comments, want 0", len(again))
	}
}
