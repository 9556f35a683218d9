package parser

import (
	"io"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/problem"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithComments attaches every comment to the resulting compilation unit.
func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

func WithSourceLevel(level SourceLevel) Option {
	return func(p *Parser) {
		p.level = level
	}
}

// WithReporter sets where lexical and syntax problems go. Without it they
// are collected and available from Problems.
func WithReporter(r problem.Reporter) Option {
	return func(p *Parser) {
		p.reporter = r
	}
}

type entryKind int

const (
	entryUnit entryKind = iota
	entryExpression
	entryStatement
)

// syntaxError is the panic value used to unwind a failed strict parse.
type syntaxError struct {
	tok Token
}

// Parser is a recursive-descent Java parser. The first syntax error of a
// compilation unit switches it into recovery mode, see recovery.go.
type Parser struct {
	file            string
	level           SourceLevel
	includeComments bool
	reporter        problem.Reporter
	collector       *problem.Collector
	reader          io.Reader
	input           []byte
	lexer           *Lexer
	tokens          []Token
	pos             int
	entry           entryKind

	// open is the stack of declarations being parsed; it seeds recovery.
	open        []openDecl
	recovery    *recovery
	recovering  bool
	speculating int
	splits      []tokenSplit
	exprDepth   int
	switchDepth int

	errorCount      int
	lastErrorOffset int
	eofExpected     string

	unit   *ast.CompilationUnit
	result ast.Node
	done   bool
}

func newParser(r io.Reader, entry entryKind, opts []Option) *Parser {
	p := &Parser{
		level:           LatestSourceLevel,
		reader:          r,
		entry:           entry,
		lastErrorOffset: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.reporter == nil {
		p.collector = problem.NewCollector()
		p.reporter = p.collector
	}
	return p
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	return newParser(r, entryUnit, opts)
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, entryExpression, opts)
}

func ParseStatement(r io.Reader, opts ...Option) *Parser {
	return newParser(r, entryStatement, opts)
}

// Finish parses the input as a compilation unit. It always returns a unit;
// syntax errors are reported and the tree is rebuilt by recovery.
func (p *Parser) Finish() *ast.CompilationUnit {
	p.run()
	if p.unit == nil {
		p.unit = &ast.CompilationUnit{File: p.file}
		ast.SetFlags(p.unit, ast.Malformed)
	}
	return p.unit
}

// FinishExpression parses the input as a single expression.
func (p *Parser) FinishExpression() ast.Expr {
	p.run()
	if e, ok := p.result.(ast.Expr); ok {
		return e
	}
	bad := &ast.BadExpr{}
	ast.SetFlags(bad, ast.Malformed)
	return bad
}

// FinishStatement parses the input as a single block statement.
func (p *Parser) FinishStatement() ast.Stmt {
	p.run()
	if s, ok := p.result.(ast.Stmt); ok {
		return s
	}
	empty := &ast.EmptyStmt{}
	ast.SetFlags(empty, ast.Malformed)
	return empty
}

// Problems returns the problems reported so far when no reporter was
// configured.
func (p *Parser) Problems() []problem.Problem {
	if p.collector == nil {
		return nil
	}
	return p.collector.Problems()
}

func (p *Parser) ErrorCount() int {
	return p.errorCount
}

func (p *Parser) Lexer() *Lexer {
	return p.lexer
}

// Tokens returns the significant tokens of the input.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

func (p *Parser) run() {
	if p.done {
		return
	}
	p.done = true
	if err := p.readAll(); err != nil {
		p.reporter.Report(problem.New(problem.InternalError, problem.Location{File: p.file}, err))
		p.errorCount++
		return
	}
	p.lexer = NewLexer(p.input, p.file, WithLexerSourceLevel(p.level))
	p.tokenize()

	switch p.entry {
	case entryUnit:
		p.runUnit()
	case entryExpression:
		p.result = p.strict(func() ast.Node {
			e := p.parseExpression()
			p.expect(TokenEOF)
			return e
		})
	case entryStatement:
		p.result = p.strict(func() ast.Node {
			s := p.parseBlockStatement()
			p.expect(TokenEOF)
			return s
		})
	}
	if p.eofExpected != "" && p.entry != entryUnit {
		p.reportAt(p.peek(), problem.SyntaxErrorInsertToComplete, p.eofExpected, "Expression")
	}
}

// strict runs fn and converts a syntax error panic into a nil result.
func (p *Parser) strict(fn func() ast.Node) (n ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*syntaxError); !ok {
				panic(r)
			}
			n = nil
		}
	}()
	return fn()
}

func (p *Parser) runUnit() {
	unit := &ast.CompilationUnit{File: p.file}
	p.unit = unit
	failed := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(*syntaxError); !ok {
					panic(r)
				}
				failed = true
			}
		}()
		p.parseCompilationUnit(unit)
	}()
	if failed {
		p.recoverUnit()
	}
	if p.includeComments {
		unit.Comments = p.lexer.Comments()
	}
	if p.errorCount > 0 {
		ast.SetFlags(unit, ast.HasSyntaxErrors)
	}
}

func (p *Parser) tokenize() {
	for {
		tok := p.lexer.NextToken()
		if tok.Err != 0 {
			p.reportLexical(tok)
		}
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		case TokenError:
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) location(tok Token) problem.Location {
	return problem.Location{
		File:   p.file,
		Start:  tok.Span.Start.Offset,
		End:    tok.Span.End.Offset,
		Line:   tok.Span.Start.Line,
		Column: tok.Span.Start.Column,
	}
}

func (p *Parser) reportLexical(tok Token) {
	var args []any
	switch tok.Err {
	case problem.InvalidCharacter:
		args = []any{tok.Literal}
	case problem.InvalidOctalLiteral:
		args = []any{tok.Literal}
	}
	p.reporter.Report(problem.New(tok.Err, p.location(tok), args...))
	if tok.Err != problem.UnderscoreAsIdentifier {
		p.errorCount++
	}
}

func (p *Parser) reportAt(tok Token, id problem.ID, args ...any) {
	p.reporter.Report(problem.New(id, p.location(tok), args...))
	p.errorCount++
}

// reportSyntax reports a syntax error at tok unless one was already
// reported there or the parser is only looking ahead.
func (p *Parser) reportSyntax(tok Token, expected string) {
	if p.speculating > 0 {
		return
	}
	if tok.Span.Start.Offset == p.lastErrorOffset {
		return
	}
	p.lastErrorOffset = tok.Span.Start.Offset
	if tok.Kind == TokenEOF {
		if p.eofExpected == "" {
			p.eofExpected = expected
		}
		return
	}
	if expected == "" {
		p.reportAt(tok, problem.SyntaxErrorDeleteToken, tok.Literal)
		return
	}
	p.reportAt(tok, problem.SyntaxErrorOnToken, tok.Literal, expected)
}

// fail reports a syntax error at the current token and unwinds.
func (p *Parser) fail(expected string) {
	tok := p.peek()
	p.reportSyntax(tok, expected)
	panic(&syntaxError{tok: tok})
}

type tokenSplit struct {
	index int
	tok   Token
}

// lookahead runs fn speculatively and always rewinds. It reports whether fn
// completed without a syntax error.
func (p *Parser) lookahead(fn func()) bool {
	savedPos, savedSplits, savedOpen := p.pos, len(p.splits), len(p.open)
	ok := p.speculate(fn)
	p.rewind(savedPos, savedSplits, savedOpen)
	return ok
}

// attempt runs fn speculatively and rewinds only on failure.
func (p *Parser) attempt(fn func()) bool {
	savedPos, savedSplits, savedOpen := p.pos, len(p.splits), len(p.open)
	ok := p.speculate(fn)
	if !ok {
		p.rewind(savedPos, savedSplits, savedOpen)
	}
	return ok
}

func (p *Parser) speculate(fn func()) (ok bool) {
	p.speculating++
	defer func() {
		p.speculating--
		if r := recover(); r != nil {
			if _, isSyntax := r.(*syntaxError); !isSyntax {
				panic(r)
			}
			ok = false
		}
	}()
	fn()
	return true
}

// try runs fn for real (errors are reported) and rewinds on failure.
func (p *Parser) try(fn func()) (ok bool) {
	savedPos, savedSplits, savedOpen := p.pos, len(p.splits), len(p.open)
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntax := r.(*syntaxError); !isSyntax {
				panic(r)
			}
			p.rewind(savedPos, savedSplits, savedOpen)
			ok = false
		}
	}()
	fn()
	return true
}

func (p *Parser) rewind(pos, splits, open int) {
	for i := len(p.splits) - 1; i >= splits; i-- {
		p.tokens[p.splits[i].index] = p.splits[i].tok
	}
	p.splits = p.splits[:splits]
	p.pos = pos
	if len(p.open) > open {
		p.open = p.open[:open]
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkWord(w string) bool {
	return p.peek().IsWord(w)
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// accept consumes the current token if it has the given kind.
func (p *Parser) accept(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind) Token {
	if !p.check(kind) {
		p.fail(kind.String())
	}
	return p.advance()
}

func (p *Parser) isIdentifierLike() bool {
	return p.check(TokenIdent)
}

func (p *Parser) ident() *ast.Ident {
	tok := p.peek()
	if tok.Kind != TokenIdent {
		p.fail("Identifier")
	}
	p.advance()
	return &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: tok.Literal}
}

// prevEnd is the end of the last consumed token.
func (p *Parser) prevEnd() Position {
	if p.pos == 0 {
		return p.peek().Span.Start
	}
	return p.tokens[p.pos-1].Span.End
}

func (p *Parser) span(start Position) Span {
	end := p.prevEnd()
	if end.Offset < start.Offset {
		end = start
	}
	return Span{Start: start, End: end}
}

func (p *Parser) startPos() Position {
	return p.peek().Span.Start
}

// expectGT consumes a closing angle bracket, splitting shift tokens.
func (p *Parser) expectGT() {
	switch p.peek().Kind {
	case TokenGT:
		p.advance()
	case TokenShr:
		p.splitToken(TokenGT)
	case TokenUShr:
		p.splitToken(TokenShr)
	case TokenGE:
		p.splitToken(TokenAssign)
	case TokenShrAssign:
		p.splitToken(TokenGE)
	case TokenUShrAssign:
		p.splitToken(TokenShrAssign)
	default:
		p.fail(">")
	}
}

// splitToken consumes the first '>' of the current token and leaves the
// remainder in its place.
func (p *Parser) splitToken(remainder TokenKind) {
	tok := p.tokens[p.pos]
	p.splits = append(p.splits, tokenSplit{index: p.pos, tok: tok})
	p.tokens[p.pos] = Token{
		Kind:    remainder,
		Literal: tok.Literal[1:],
		Span: Span{
			Start: Position{
				File:   tok.Span.Start.File,
				Offset: tok.Span.Start.Offset + 1,
				Line:   tok.Span.Start.Line,
				Column: tok.Span.Start.Column + 1,
			},
			End: tok.Span.End,
		},
	}
}

// docBefore returns the javadoc comment directly preceding offset.
func (p *Parser) docBefore(offset int) *ast.Comment {
	if p.speculating > 0 || p.lexer == nil {
		return nil
	}
	var doc *ast.Comment
	for _, c := range p.lexer.FlushCommentsDefinedPriorTo(offset) {
		if c.Kind == ast.JavadocComment {
			c := c
			doc = &c
		}
	}
	return doc
}

// openDecl is a declaration whose body the strict parser is inside of.
type openDecl struct {
	kind       elemKind
	node       ast.Node
	childStart int
}

func (p *Parser) pushOpen(kind elemKind, node ast.Node) {
	if p.recovering || p.exprDepth > 0 {
		return
	}
	p.open = append(p.open, openDecl{kind: kind, node: node, childStart: p.pos})
}

func (p *Parser) popOpen(node ast.Node) {
	if n := len(p.open); n > 0 && p.open[n-1].node == node {
		p.open = p.open[:n-1]
	}
}

// markChild records where the next child of the innermost open
// declaration starts. It is called after each complete child, so that
// recovery resumes after the children already attached.
func (p *Parser) markChild(node ast.Node) {
	if n := len(p.open); n > 0 && p.open[n-1].node == node {
		p.open[n-1].childStart = p.pos
	}
}
