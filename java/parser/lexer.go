package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/problem"
)

type LexerOption func(*Lexer)

func WithLexerSourceLevel(level SourceLevel) LexerOption {
	return func(l *Lexer) {
		l.level = level
	}
}

// Lexer turns Java source bytes into tokens. It never fails: malformed input
// produces tokens with Err set. Comments are returned as tokens and also
// recorded in the comment table.
type Lexer struct {
	input        []byte
	raw          []byte
	offsets      []int
	lineStarts   []int
	file         string
	pos          int
	line         int
	column       int
	isModuleInfo bool
	level        SourceLevel

	// Comment table. Block comment starts are stored as offsets, line
	// comment starts as -(offset+1). Javadoc ends are stored negated.
	commentStarts []int
	commentEnds   []int
	commentText   []string
	flushed       int
}

func NewLexer(input []byte, file string, opts ...LexerOption) *Lexer {
	l := &Lexer{
		input:        input,
		raw:          input,
		file:         file,
		pos:          0,
		line:         1,
		column:       1,
		isModuleInfo: isModuleInfoFile(file),
		level:        LatestSourceLevel,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.input, l.offsets = translateUnicodeEscapes(input)
	return l
}

func isModuleInfoFile(file string) bool {
	return strings.HasSuffix(file, "module-info.java")
}

func (l *Lexer) IsModuleInfo() bool {
	return l.isModuleInfo
}

func (l *Lexer) SourceLevel() SourceLevel {
	return l.level
}

// Position returns the position of the cursor in the source as written.
func (l *Lexer) Position() Position {
	if l.offsets != nil {
		return l.rawPosition(l.pos)
	}
	return l.cursor()
}

// cursor is the position in the translated input. Scanning works on
// cursor offsets; NextToken maps them back before handing out a token.
func (l *Lexer) cursor() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// CommentStarts returns the recorded comment start entries.
func (l *Lexer) CommentStarts() []int {
	return l.commentStarts
}

// CommentEnds returns the recorded comment end entries.
func (l *Lexer) CommentEnds() []int {
	return l.commentEnds
}

func (l *Lexer) recordComment(start, end int, kind ast.CommentKind, text string) {
	if l.offsets != nil {
		start, end = l.offsets[start], l.offsets[end]
	}
	switch kind {
	case ast.LineComment:
		l.commentStarts = append(l.commentStarts, -(start + 1))
		l.commentEnds = append(l.commentEnds, end)
	case ast.JavadocComment:
		l.commentStarts = append(l.commentStarts, start)
		l.commentEnds = append(l.commentEnds, -end)
	default:
		l.commentStarts = append(l.commentStarts, start)
		l.commentEnds = append(l.commentEnds, end)
	}
	l.commentText = append(l.commentText, text)
}

func (l *Lexer) comment(i int) ast.Comment {
	start, end := l.commentStarts[i], l.commentEnds[i]
	kind := ast.BlockComment
	if start < 0 {
		kind = ast.LineComment
		start = -start - 1
	}
	if end < 0 {
		kind = ast.JavadocComment
		end = -end
	}
	return ast.Comment{
		Kind: kind,
		Span: Span{
			Start: l.positionAt(start),
			End:   l.positionAt(end),
		},
		Text: l.commentText[i],
	}
}

// FlushCommentsDefinedPriorTo hands out the pending comments that end at or
// before pos and removes them from the pending window.
func (l *Lexer) FlushCommentsDefinedPriorTo(pos int) []ast.Comment {
	var out []ast.Comment
	for l.flushed < len(l.commentStarts) {
		end := l.commentEnds[l.flushed]
		if end < 0 {
			end = -end
		}
		if end > pos {
			break
		}
		out = append(out, l.comment(l.flushed))
		l.flushed++
	}
	return out
}

// Comments returns every recorded comment.
func (l *Lexer) Comments() []ast.Comment {
	out := make([]ast.Comment, len(l.commentStarts))
	for i := range l.commentStarts {
		out[i] = l.comment(i)
	}
	return out
}

// positionAt recomputes line and column for a source offset already
// scanned.
func (l *Lexer) positionAt(offset int) Position {
	line, col := 1, 1
	for i := 0; i < offset && i < len(l.raw); i++ {
		if l.raw[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{File: l.file, Offset: offset, Line: line, Column: col}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	if l.input[l.pos] < utf8.RuneSelf {
		return rune(l.input[l.pos]), 1
	}
	return utf8.DecodeRune(l.input[l.pos:])
}

// NextToken scans the next token. Its span refers to the source as
// written, its literal to the text after Unicode escape translation.
func (l *Lexer) NextToken() Token {
	tok := l.nextToken()
	if l.offsets != nil {
		tok.Span = Span{Start: l.rawPosition(tok.Span.Start.Offset), End: l.rawPosition(tok.Span.End.Offset)}
	}
	return tok
}

func (l *Lexer) nextToken() Token {
	startPos := l.cursor()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' {
		return l.scanWhitespace(startPos)
	}

	if r, _ := l.peekRune(); isJavaLetter(r) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	if ch == '\'' {
		return l.scanCharLiteral(startPos)
	}

	if ch == '"' {
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(startPos)
		}
		return l.scanStringLiteral(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' {
			l.advance()
		} else {
			break
		}
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for !l.atEOF() && l.peek() != '\n' && l.peek() != '\r' {
		l.advance()
	}
	tok := l.token(TokenLineComment, start)
	l.recordComment(start.Offset, l.pos, ast.LineComment, tok.Literal)
	return tok
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	kind := ast.BlockComment
	// /**/ is an empty block comment, not javadoc.
	if l.peek() == '*' && l.peekN(1) != '/' {
		kind = ast.JavadocComment
	}
	terminated := false
	for !l.atEOF() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			terminated = true
			break
		}
		l.advance()
	}
	tok := l.token(TokenComment, start)
	if !terminated {
		tok.Err = problem.UnterminatedComment
	}
	l.recordComment(start.Offset, l.pos, kind, tok.Literal)
	return tok
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for {
		r, size := l.peekRune()
		if size == 0 || !isJavaLetterOrDigit(r) {
			break
		}
		l.advanceN(size)
	}
	end := l.cursor()
	literal := string(l.input[start.Offset:end.Offset])

	if literal == "non" && l.peek() == '-' {
		remaining := l.input[l.pos:]
		if len(remaining) >= 7 && string(remaining[:7]) == "-sealed" {
			if len(remaining) == 7 || !isJavaLetterOrDigit(rune(remaining[7])) {
				l.advanceN(7)
				return l.token(TokenNonSealed, start)
			}
		}
	}

	tok := Token{
		Kind:    LookupKeyword(literal, l.level),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
	if literal == "_" && l.level >= Java9 {
		tok.Err = problem.UnderscoreAsIdentifier
	}
	return tok
}

// scanDigits consumes digits accepted by isValid and underscores. It reports
// whether underscores were misplaced (leading or trailing) and whether any
// digit was seen.
func (l *Lexer) scanDigits(isValid func(byte) bool) (sawDigit, badUnderscore bool) {
	last := byte(0)
	for {
		ch := l.peek()
		if ch == '_' {
			if !sawDigit {
				badUnderscore = true
			}
			l.advance()
			last = ch
			continue
		}
		if !isValid(ch) {
			break
		}
		sawDigit = true
		l.advance()
		last = ch
	}
	if last == '_' {
		badUnderscore = true
	}
	return sawDigit, badUnderscore
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		return l.scanHexNumber(start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		return l.scanBinaryNumber(start)
	}

	var err problem.ID
	isFloat := false
	_, bad := l.scanDigits(isDigit)
	if bad {
		err = problem.InvalidUnderscore
	}

	if l.peek() == '.' && l.fractionFollows() {
		isFloat = true
		l.advance()
		if l.peek() == '_' {
			err = problem.InvalidUnderscore
		}
		if _, bad := l.scanDigits(isDigit); bad {
			err = problem.InvalidUnderscore
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		saw, bad := l.scanDigits(isDigit)
		if !saw {
			err = problem.InvalidFloatLiteral
		} else if bad {
			err = problem.InvalidUnderscore
		}
	}

	ch := l.peek()
	if ch == 'f' || ch == 'F' || ch == 'd' || ch == 'D' {
		isFloat = true
		l.advance()
	} else if (ch == 'l' || ch == 'L') && !isFloat {
		l.advance()
	}

	kind := TokenIntLiteral
	if isFloat {
		kind = TokenFloatLiteral
	}
	tok := l.token(kind, start)
	if err == 0 && !isFloat && len(tok.Literal) > 1 && tok.Literal[0] == '0' {
		for _, c := range strings.TrimRight(tok.Literal, "lL") {
			if c == '8' || c == '9' {
				err = problem.InvalidOctalLiteral
				break
			}
		}
	}
	if err == 0 && isJavaLetterByte(l.peek()) {
		// 12abc: glue the trailing letters into one bad token.
		for isJavaLetterByte(l.peek()) || isDigit(l.peek()) {
			l.advance()
		}
		tok = l.token(kind, start)
		err = problem.InvalidFloatLiteral
		if kind == TokenIntLiteral {
			err = problem.InvalidCharacter
		}
	}
	tok.Err = err
	return tok
}

// fractionFollows reports whether the '.' at the cursor continues a
// decimal literal: 1.5, 1., 1.e3, 1.f and 2.D all do, 1.foo does not.
func (l *Lexer) fractionFollows() bool {
	next := l.peekN(1)
	switch {
	case isDigit(next):
		return true
	case next == 'e' || next == 'E':
		c := l.peekN(2)
		if c == '+' || c == '-' {
			c = l.peekN(3)
		}
		return isDigit(c)
	case next == 'f' || next == 'F' || next == 'd' || next == 'D':
		after := l.peekN(2)
		return !isJavaLetterByte(after) && !isDigit(after)
	}
	return !isJavaLetterByte(next) && next != '.'
}

func (l *Lexer) scanHexNumber(start Position) Token {
	l.advanceN(2)
	var err problem.ID
	sawDigit, bad := l.scanDigits(isHexDigit)
	if bad {
		err = problem.InvalidUnderscore
	}
	isFloat := false
	if l.peek() == '.' {
		isFloat = true
		l.advance()
		saw, bad := l.scanDigits(isHexDigit)
		sawDigit = sawDigit || saw
		if bad {
			err = problem.InvalidUnderscore
		}
	}
	if l.peek() == 'p' || l.peek() == 'P' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if saw, _ := l.scanDigits(isDigit); !saw {
			err = problem.InvalidFloatLiteral
		}
	} else if isFloat {
		// hex floats require a binary exponent
		err = problem.InvalidFloatLiteral
	}
	if isFloat {
		if l.peek() == 'f' || l.peek() == 'F' || l.peek() == 'd' || l.peek() == 'D' {
			l.advance()
		}
	} else if l.peek() == 'l' || l.peek() == 'L' {
		l.advance()
	}
	kind := TokenIntLiteral
	if isFloat {
		kind = TokenFloatLiteral
	}
	tok := l.token(kind, start)
	if !sawDigit {
		err = problem.InvalidHexLiteral
	}
	tok.Err = err
	return tok
}

func (l *Lexer) scanBinaryNumber(start Position) Token {
	l.advanceN(2)
	var err problem.ID
	sawDigit, bad := l.scanDigits(func(ch byte) bool { return ch == '0' || ch == '1' })
	if bad {
		err = problem.InvalidUnderscore
	}
	if isDigit(l.peek()) {
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		err = problem.InvalidBinaryLiteral
	}
	if l.peek() == 'l' || l.peek() == 'L' {
		l.advance()
	}
	tok := l.token(TokenIntLiteral, start)
	if !sawDigit {
		err = problem.InvalidBinaryLiteral
	}
	tok.Err = err
	return tok
}

// scanEscape consumes one escape sequence after the backslash and reports
// whether it was valid.
func (l *Lexer) scanEscape(textBlock bool) bool {
	ch := l.peek()
	switch {
	case ch == 'b' || ch == 't' || ch == 'n' || ch == 'f' || ch == 'r' ||
		ch == '"' || ch == '\'' || ch == '\\' || ch == 's':
		l.advance()
		return true
	case ch >= '0' && ch <= '7':
		max := 2
		if ch <= '3' {
			max = 3
		}
		for i := 0; i < max && l.peek() >= '0' && l.peek() <= '7'; i++ {
			l.advance()
		}
		return true
	case ch == 'u':
		for l.peek() == 'u' {
			l.advance()
		}
		for i := 0; i < 4; i++ {
			if !isHexDigit(l.peek()) {
				return false
			}
			l.advance()
		}
		return true
	case textBlock && (ch == '\n' || ch == '\r'):
		l.advance()
		if ch == '\r' && l.peek() == '\n' {
			l.advance()
		}
		return true
	}
	if !l.atEOF() && ch != '\n' {
		l.advance()
	}
	return false
}

func (l *Lexer) scanCharLiteral(start Position) Token {
	l.advance()
	var err problem.ID
	count := 0
	for !l.atEOF() && l.peek() != '\'' && l.peek() != '\n' && l.peek() != '\r' {
		if l.peek() == '\\' {
			l.advance()
			if !l.scanEscape(false) && err == 0 {
				err = problem.InvalidEscape
			}
		} else {
			_, size := l.peekRune()
			l.advanceN(size)
		}
		count++
	}
	if l.peek() == '\'' {
		l.advance()
		switch {
		case count == 0:
			err = problem.EmptyCharLiteral
		case count > 1 && err == 0:
			err = problem.InvalidCharLiteral
		}
	} else {
		err = problem.UnterminatedChar
	}
	tok := l.token(TokenCharLiteral, start)
	tok.Err = err
	return tok
}

func (l *Lexer) scanStringLiteral(start Position) Token {
	l.advance()
	var err problem.ID
	for !l.atEOF() && l.peek() != '"' && l.peek() != '\n' && l.peek() != '\r' {
		if l.peek() == '\\' {
			l.advance()
			if !l.scanEscape(false) && err == 0 {
				err = problem.InvalidEscape
			}
			continue
		}
		l.advance()
	}
	if l.peek() == '"' {
		l.advance()
	} else {
		err = problem.UnterminatedString
	}
	tok := l.token(TokenStringLiteral, start)
	tok.Err = err
	return tok
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	var err problem.ID
	for l.peek() == ' ' || l.peek() == '\t' || l.peek() == '\f' {
		l.advance()
	}
	if l.peek() != '\n' && l.peek() != '\r' {
		// the opening delimiter must be followed by a line terminator
		err = problem.UnterminatedTextBlock
	}
	terminated := false
	for !l.atEOF() {
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			terminated = true
			break
		}
		if l.peek() == '\\' {
			l.advance()
			if !l.scanEscape(true) && err == 0 {
				err = problem.InvalidEscape
			}
			continue
		}
		l.advance()
	}
	if !terminated {
		err = problem.UnterminatedTextBlock
	}
	tok := l.token(TokenTextBlock, start)
	if err == 0 && l.level < Java15 {
		err = problem.TextBlockNotSupported
	}
	tok.Err = err
	return tok
}

var operators = []struct {
	text string
	kind TokenKind
}{
	// longest first
	{">>>=", TokenUShrAssign},
	{"<<=", TokenShlAssign},
	{">>=", TokenShrAssign},
	{">>>", TokenUShr},
	{"...", TokenEllipsis},
	{"::", TokenColonColon},
	{"==", TokenEQ},
	{"!=", TokenNE},
	{"<=", TokenLE},
	{">=", TokenGE},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"<<", TokenShl},
	{">>", TokenShr},
	{"++", TokenIncrement},
	{"--", TokenDecrement},
	{"->", TokenArrow},
	{"+=", TokenPlusAssign},
	{"-=", TokenMinusAssign},
	{"*=", TokenStarAssign},
	{"/=", TokenSlashAssign},
	{"%=", TokenPercentAssign},
	{"&=", TokenAndAssign},
	{"|=", TokenOrAssign},
	{"^=", TokenXorAssign},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{",", TokenComma},
	{".", TokenDot},
	{"@", TokenAt},
	{"=", TokenAssign},
	{"<", TokenLT},
	{">", TokenGT},
	{"!", TokenNot},
	{"~", TokenBitNot},
	{"?", TokenQuestion},
	{":", TokenColon},
	{"&", TokenBitAnd},
	{"|", TokenBitOr},
	{"^", TokenBitXor},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
}

func (l *Lexer) scanOperator(start Position) Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			l.advanceN(len(op.text))
			return l.token(op.kind, start)
		}
	}

	_, size := l.peekRune()
	l.advanceN(size)
	tok := l.token(TokenError, start)
	tok.Err = problem.InvalidCharacter
	return tok
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.cursor()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

// Tokenize scans the whole input, skipping whitespace and comments.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			if tok.Err == 0 {
				continue
			}
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetterByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isJavaLetter(r rune) bool {
	if r < utf8.RuneSelf {
		return isJavaLetterByte(byte(r))
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Sc, r) || unicode.Is(unicode.Pc, r) || unicode.Is(unicode.Nl, r)
}

func isJavaLetterOrDigit(r rune) bool {
	if r < utf8.RuneSelf {
		return isJavaLetterByte(byte(r)) || isDigit(byte(r))
	}
	return isJavaLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}
