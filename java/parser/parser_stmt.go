package parser

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/problem"
)

// reportSoft reports a syntax problem that does not unwind the parse.
func (p *Parser) reportSoft(tok Token, id problem.ID, args ...any) {
	if p.speculating > 0 {
		return
	}
	p.reportAt(tok, id, args...)
}

// parseBlockStatements parses statements up to the closing brace. owner is
// the open declaration the statements belong to.
func (p *Parser) parseBlockStatements(block *ast.Block, owner ast.Node) {
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		block.Stmts = append(block.Stmts, p.parseBlockStatement())
		p.markChild(owner)
	}
}

// parseBlock parses a braced block. Tracked blocks take part in recovery.
func (p *Parser) parseBlock(track bool) *ast.Block {
	start := p.startPos()
	b := &ast.Block{Base: ast.Base{Range: Span{Start: start, End: start}}}
	p.expect(TokenLBrace)
	if track {
		p.pushOpen(elemBlock, b)
	}
	p.parseBlockStatements(b, b)
	p.expect(TokenRBrace)
	if track {
		p.popOpen(b)
	}
	b.Range = p.span(start)
	return b
}

func (p *Parser) parseBlockStatement() ast.Stmt {
	start := p.startPos()
	if p.isLocalTypeDecl() {
		doc := p.docBefore(start.Offset)
		mods := p.parseModifiers()
		td := p.parseTypeDeclRest(start, mods, doc)
		td.Local = true
		return &ast.LocalClassDecl{Base: ast.Base{Range: td.Range}, Decl: td}
	}
	if p.isLocalVarDecl() {
		decl := p.parseLocalVarDecl()
		p.expect(TokenSemicolon)
		decl.Range = p.span(start)
		return decl
	}
	return p.parseStatement()
}

func (p *Parser) isLocalTypeDecl() bool {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenAbstract, TokenFinal, TokenStatic, TokenStrictfp, TokenAt, TokenNonSealed, TokenIdent:
	default:
		return false
	}
	if p.check(TokenIdent) && !p.checkWord("record") && !p.checkWord("sealed") {
		return false
	}
	return p.lookahead(func() {
		p.parseModifiers()
		if !p.isTypeDeclKeyword() {
			p.fail("class")
		}
	})
}

// isLocalVarDecl looks for Modifiers Type Identifier followed by one of
// = ; , [ or :.
func (p *Parser) isLocalVarDecl() bool {
	switch p.peek().Kind {
	case TokenIdent, TokenFinal, TokenAt, TokenBoolean, TokenByte, TokenChar,
		TokenShort, TokenInt, TokenLong, TokenFloat, TokenDouble:
	default:
		return false
	}
	if p.checkWord("yield") && p.level >= Java14 {
		return false
	}
	return p.lookahead(func() {
		p.parseModifiers()
		p.parseType()
		p.ident()
		switch p.peek().Kind {
		case TokenAssign, TokenSemicolon, TokenComma, TokenLBracket, TokenColon:
		default:
			p.fail("=")
		}
	})
}

// localType turns an unqualified, unparameterized var into the inferred
// type from Java 10 on.
func (p *Parser) localType(t ast.TypeNode) ast.TypeNode {
	ct, ok := t.(*ast.ClassType)
	if !ok || p.level < Java10 || ct.Qualifier != nil || len(ct.Args) > 0 || ct.Name.Name != "var" {
		return t
	}
	return &ast.VarType{Base: ast.Base{Range: ct.Range}}
}

// parseLocalVarDecl parses a local variable declaration without the
// terminating semicolon.
func (p *Parser) parseLocalVarDecl() *ast.LocalVarDecl {
	start := p.startPos()
	decl := &ast.LocalVarDecl{Modifiers: p.parseModifiers()}
	decl.Type = p.localType(p.parseType())
	name := p.ident()
	decl.Vars = p.parseDeclaratorsAfterName(name, start)
	decl.Range = p.span(start)
	return decl
}

func (p *Parser) parseStatement() ast.Stmt {
	start := p.startPos()
	tok := p.peek()
	switch tok.Kind {
	case TokenLBrace:
		return p.parseBlock(true)
	case TokenSemicolon:
		p.advance()
		return &ast.EmptyStmt{Base: ast.Base{Range: p.span(start)}}
	case TokenIf:
		return p.parseIf()
	case TokenWhile:
		p.advance()
		s := &ast.WhileStmt{Cond: p.parseParExpr()}
		s.Body = p.parseStatement()
		s.Range = p.span(start)
		return s
	case TokenDo:
		p.advance()
		s := &ast.DoStmt{Body: p.parseStatement()}
		p.expect(TokenWhile)
		s.Cond = p.parseParExpr()
		p.expect(TokenSemicolon)
		s.Range = p.span(start)
		return s
	case TokenFor:
		return p.parseFor()
	case TokenTry:
		return p.parseTry()
	case TokenSwitch:
		p.advance()
		s := &ast.SwitchStmt{Selector: p.parseParExpr()}
		s.Cases = p.parseSwitchBody(false)
		s.Range = p.span(start)
		return s
	case TokenReturn:
		p.advance()
		s := &ast.ReturnStmt{}
		if !p.check(TokenSemicolon) {
			s.Result = p.parseExpression()
		}
		p.expect(TokenSemicolon)
		s.Range = p.span(start)
		return s
	case TokenBreak:
		p.advance()
		s := &ast.BreakStmt{}
		if p.check(TokenIdent) {
			s.Label = p.ident()
		}
		p.expect(TokenSemicolon)
		s.Range = p.span(start)
		return s
	case TokenContinue:
		p.advance()
		s := &ast.ContinueStmt{}
		if p.check(TokenIdent) {
			s.Label = p.ident()
		}
		p.expect(TokenSemicolon)
		s.Range = p.span(start)
		return s
	case TokenThrow:
		p.advance()
		s := &ast.ThrowStmt{X: p.parseExpression()}
		p.expect(TokenSemicolon)
		s.Range = p.span(start)
		return s
	case TokenSynchronized:
		p.advance()
		s := &ast.SyncStmt{Lock: p.parseParExpr()}
		s.Body = p.parseBlock(true)
		s.Range = p.span(start)
		return s
	case TokenAssert:
		p.advance()
		s := &ast.AssertStmt{Cond: p.parseExpression()}
		if p.accept(TokenColon) {
			s.Message = p.parseExpression()
		}
		p.expect(TokenSemicolon)
		s.Range = p.span(start)
		return s
	case TokenIdent:
		if p.peekN(1).Kind == TokenColon {
			s := &ast.LabeledStmt{Label: p.ident()}
			p.advance()
			s.Body = p.parseStatement()
			s.Range = p.span(start)
			return s
		}
		if p.isYieldStatement() {
			p.advance()
			s := &ast.YieldStmt{Value: p.parseExpression()}
			p.expect(TokenSemicolon)
			s.Range = p.span(start)
			return s
		}
	case TokenElse, TokenCatch, TokenFinally, TokenCase, TokenDefault:
		p.fail("")
	}
	if p.isConstructorCall() {
		return p.parseConstructorCall()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) isYieldStatement() bool {
	if !p.checkWord("yield") || p.level < Java14 {
		return false
	}
	switch p.peekN(1).Kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenPercentAssign, TokenAndAssign, TokenOrAssign, TokenXorAssign, TokenShlAssign,
		TokenShrAssign, TokenUShrAssign, TokenDot, TokenLBracket, TokenColonColon,
		TokenSemicolon, TokenIncrement, TokenDecrement, TokenEOF:
		return false
	case TokenLParen:
		return p.switchDepth > 0
	}
	return true
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	start := p.startPos()
	tok := p.peek()
	x := p.parseExpression()
	if !isStatementExpression(x) {
		p.reportSoft(tok, problem.SyntaxErrorInsertToComplete, "AssignmentOperator Expression", "Expression")
	}
	p.expect(TokenSemicolon)
	return &ast.ExprStmt{Base: ast.Base{Range: p.span(start)}, X: x}
}

func isStatementExpression(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.Assign, *ast.MethodCall, *ast.NewObject:
		return true
	case *ast.Unary:
		return x.Op == ast.OpInc || x.Op == ast.OpDec
	}
	return false
}

func (p *Parser) parseParExpr() ast.Expr {
	p.expect(TokenLParen)
	x := p.parseExpression()
	p.expect(TokenRParen)
	return x
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.startPos()
	p.expect(TokenIf)
	s := &ast.IfStmt{Cond: p.parseParExpr()}
	s.Then = p.parseStatement()
	if p.accept(TokenElse) {
		s.Else = p.parseStatement()
	}
	s.Range = p.span(start)
	return s
}

func (p *Parser) isForEach() bool {
	return p.lookahead(func() {
		p.parseModifiers()
		p.parseType()
		p.ident()
		p.expect(TokenColon)
	})
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.startPos()
	p.expect(TokenFor)
	p.expect(TokenLParen)

	if p.isForEach() {
		s := &ast.ForEachStmt{}
		varStart := p.startPos()
		v := &ast.LocalVarDecl{Modifiers: p.parseModifiers()}
		v.Type = p.localType(p.parseType())
		name := p.ident()
		v.Vars = []*ast.VarDeclarator{{Base: ast.Base{Range: name.Range}, Name: name}}
		v.Range = p.span(varStart)
		s.Var = v
		p.expect(TokenColon)
		s.Iterable = p.parseExpression()
		p.expect(TokenRParen)
		s.Body = p.parseStatement()
		s.Range = p.span(start)
		return s
	}

	s := &ast.ForStmt{}
	if !p.check(TokenSemicolon) {
		if p.isLocalVarDecl() {
			s.Init = append(s.Init, p.parseLocalVarDecl())
		} else {
			for {
				exprStart := p.startPos()
				x := p.parseExpression()
				s.Init = append(s.Init, &ast.ExprStmt{Base: ast.Base{Range: p.span(exprStart)}, X: x})
				if !p.accept(TokenComma) {
					break
				}
			}
		}
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenSemicolon) {
		s.Cond = p.parseExpression()
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenRParen) {
		for {
			s.Update = append(s.Update, p.parseExpression())
			if !p.accept(TokenComma) {
				break
			}
		}
	}
	p.expect(TokenRParen)
	s.Body = p.parseStatement()
	s.Range = p.span(start)
	return s
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.startPos()
	tryTok := p.expect(TokenTry)
	s := &ast.TryStmt{}
	if p.accept(TokenLParen) {
		for !p.check(TokenRParen) {
			s.Resources = append(s.Resources, p.parseResource())
			if !p.accept(TokenSemicolon) {
				break
			}
		}
		p.expect(TokenRParen)
	}
	s.Body = p.parseBlock(true)
	for p.check(TokenCatch) {
		s.Catches = append(s.Catches, p.parseCatch())
	}
	if p.accept(TokenFinally) {
		s.Finally = p.parseBlock(true)
	}
	if len(s.Catches) == 0 && s.Finally == nil && len(s.Resources) == 0 {
		p.reportSoft(tryTok, problem.SyntaxErrorInsertToComplete, "Finally", "TryStatement")
	}
	s.Range = p.span(start)
	return s
}

func (p *Parser) parseResource() ast.Node {
	isDecl := p.lookahead(func() {
		p.parseModifiers()
		p.parseType()
		p.ident()
		p.expect(TokenAssign)
	})
	if !isDecl {
		return p.parseExpression()
	}
	start := p.startPos()
	decl := &ast.LocalVarDecl{Modifiers: p.parseModifiers()}
	decl.Type = p.localType(p.parseType())
	decl.Vars = []*ast.VarDeclarator{p.parseDeclarator()}
	decl.Range = p.span(start)
	return decl
}

func (p *Parser) parseCatch() *ast.CatchClause {
	start := p.startPos()
	p.expect(TokenCatch)
	p.expect(TokenLParen)
	paramStart := p.startPos()
	param := &ast.Param{Modifiers: p.parseModifiers()}
	typ := p.parseType()
	if p.check(TokenBitOr) {
		union := &ast.UnionType{Alternatives: []ast.TypeNode{typ}}
		for p.accept(TokenBitOr) {
			union.Alternatives = append(union.Alternatives, p.parseType())
		}
		union.Range = p.span(typ.Span().Start)
		typ = union
	}
	param.Type = typ
	param.Name = p.ident()
	param.Range = p.span(paramStart)
	p.expect(TokenRParen)
	c := &ast.CatchClause{Param: param, Body: p.parseBlock(true)}
	c.Range = p.span(start)
	return c
}

// parseSwitchBody parses the braced case groups of a switch statement or
// expression.
func (p *Parser) parseSwitchBody(isExpr bool) []*ast.SwitchCase {
	p.expect(TokenLBrace)
	p.switchDepth++
	defer func() { p.switchDepth-- }()
	var cases []*ast.SwitchCase
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		cases = append(cases, p.parseSwitchCase(isExpr))
	}
	p.expect(TokenRBrace)
	return cases
}

func (p *Parser) parseSwitchCase(isExpr bool) *ast.SwitchCase {
	start := p.startPos()
	c := &ast.SwitchCase{}
	switch {
	case p.accept(TokenDefault):
		c.Default = true
	case p.accept(TokenCase):
		for {
			if p.check(TokenDefault) {
				p.advance()
				c.Default = true
			} else {
				c.Labels = append(c.Labels, p.parseCaseLabel())
			}
			if !p.accept(TokenComma) {
				break
			}
		}
		if p.checkWord("when") {
			p.advance()
			c.Guard = p.parseExpression()
		}
	default:
		p.fail("case")
	}

	if p.accept(TokenArrow) {
		c.Arrow = true
		c.Body = []ast.Stmt{p.parseArrowBody(isExpr)}
		c.Range = p.span(start)
		return c
	}
	p.expect(TokenColon)
	for !p.match(TokenCase, TokenDefault, TokenRBrace, TokenEOF) {
		c.Body = append(c.Body, p.parseBlockStatement())
	}
	c.Range = p.span(start)
	return c
}

func (p *Parser) parseArrowBody(isExpr bool) ast.Stmt {
	start := p.startPos()
	switch {
	case p.check(TokenLBrace):
		return p.parseBlock(!isExpr)
	case p.check(TokenThrow):
		return p.parseStatement()
	}
	x := p.parseExpression()
	p.expect(TokenSemicolon)
	if isExpr {
		return &ast.YieldStmt{Base: ast.Base{Range: p.span(start)}, Value: x}
	}
	if !isStatementExpression(x) {
		p.reportSoft(p.tokens[p.pos-1], problem.SyntaxErrorInsertToComplete, "AssignmentOperator Expression", "Expression")
	}
	return &ast.ExprStmt{Base: ast.Base{Range: p.span(start)}, X: x}
}

func (p *Parser) isPatternStart() bool {
	return p.lookahead(func() {
		p.parseModifiers()
		p.parseType()
		if p.check(TokenLParen) {
			return
		}
		p.ident()
	})
}

func (p *Parser) parseCaseLabel() ast.Expr {
	if p.level >= Java16 && p.isPatternStart() {
		return p.parsePattern()
	}
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	return p.parseConditional()
}

// parsePattern parses a type pattern or a record pattern.
func (p *Parser) parsePattern() ast.Expr {
	start := p.startPos()
	mods := p.parseModifiers()
	typ := p.localType(p.parseType())
	if p.accept(TokenLParen) {
		rp := &ast.RecordPattern{Type: typ}
		if !p.check(TokenRParen) {
			for {
				rp.Subs = append(rp.Subs, p.parsePattern())
				if !p.accept(TokenComma) {
					break
				}
			}
		}
		p.expect(TokenRParen)
		rp.Range = p.span(start)
		return rp
	}
	tp := &ast.TypePattern{Modifiers: mods, Type: typ, Name: p.ident()}
	tp.Range = p.span(start)
	return tp
}

// isConstructorCall detects this(...), super(...), their explicitly
// parameterized forms and qualified super calls like outer.super(...).
func (p *Parser) isConstructorCall() bool {
	switch p.peek().Kind {
	case TokenThis, TokenSuper:
		return p.peekN(1).Kind == TokenLParen
	case TokenLT:
		return p.lookahead(func() {
			p.parseTypeArgs(false)
			if !p.match(TokenThis, TokenSuper) {
				p.fail("this")
			}
		})
	case TokenIdent:
		return p.lookahead(func() {
			p.ident()
			for p.accept(TokenDot) {
				if p.accept(TokenSuper) {
					p.expect(TokenLParen)
					return
				}
				if p.check(TokenLT) {
					p.parseTypeArgs(false)
					p.expect(TokenSuper)
					p.expect(TokenLParen)
					return
				}
				p.ident()
			}
			p.fail("super")
		})
	}
	return false
}

func (p *Parser) parseConstructorCall() ast.Stmt {
	start := p.startPos()
	call := &ast.ConstructorCall{}
	if p.check(TokenIdent) {
		var q ast.Expr = p.nameExpr(p.ident())
		for p.accept(TokenDot) && p.check(TokenIdent) {
			id := p.ident()
			q = &ast.FieldAccess{Base: ast.Base{Range: Span{Start: start, End: id.Range.End}}, X: q, Name: id}
		}
		call.Qualifier = q
	}
	if p.check(TokenLT) {
		call.TypeArgs, _ = p.parseTypeArgs(false)
	}
	if p.accept(TokenSuper) {
		call.Super = true
	} else {
		p.expect(TokenThis)
	}
	call.Args = p.parseArguments()
	p.expect(TokenSemicolon)
	call.Range = p.span(start)
	return call
}
