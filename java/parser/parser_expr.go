package parser

import (
	"github.com/dhamidi/jfront/java/ast"
)

// parseExpression parses an assignment expression or a lambda. Blocks
// nested in expressions are never tracked for recovery.
func (p *Parser) parseExpression() ast.Expr {
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	return p.parseAssignment()
}

var assignOps = map[TokenKind]ast.Operator{
	TokenAssign:        ast.OpAssign,
	TokenPlusAssign:    ast.OpAddAssign,
	TokenMinusAssign:   ast.OpSubAssign,
	TokenStarAssign:    ast.OpMulAssign,
	TokenSlashAssign:   ast.OpDivAssign,
	TokenPercentAssign: ast.OpRemAssign,
	TokenAndAssign:     ast.OpAndAssign,
	TokenOrAssign:      ast.OpOrAssign,
	TokenXorAssign:     ast.OpXorAssign,
	TokenShlAssign:     ast.OpShlAssign,
	TokenShrAssign:     ast.OpShrAssign,
	TokenUShrAssign:    ast.OpUShrAssign,
}

var binaryOps = map[TokenKind]ast.Operator{
	TokenOr:      ast.OpOrOr,
	TokenAnd:     ast.OpAndAnd,
	TokenBitOr:   ast.OpOr,
	TokenBitXor:  ast.OpXor,
	TokenBitAnd:  ast.OpAnd,
	TokenEQ:      ast.OpEQ,
	TokenNE:      ast.OpNE,
	TokenLT:      ast.OpLT,
	TokenGT:      ast.OpGT,
	TokenLE:      ast.OpLE,
	TokenGE:      ast.OpGE,
	TokenShl:     ast.OpShl,
	TokenShr:     ast.OpShr,
	TokenUShr:    ast.OpUShr,
	TokenPlus:    ast.OpAdd,
	TokenMinus:   ast.OpSub,
	TokenStar:    ast.OpMul,
	TokenSlash:   ast.OpDiv,
	TokenPercent: ast.OpRem,
}

const instanceofPrecedence = 7

func (p *Parser) parseAssignment() ast.Expr {
	if p.isLambdaStart() {
		return p.parseLambda()
	}
	start := p.startPos()
	lhs := p.parseConditional()
	op, ok := assignOps[p.peek().Kind]
	if !ok {
		return lhs
	}
	p.advance()
	rhs := p.parseAssignment()
	return &ast.Assign{Base: ast.Base{Range: p.span(start)}, Op: op, Target: lhs, Value: rhs}
}

// isLambdaStart reports whether an identifier or a parenthesized list is
// followed by an arrow.
func (p *Parser) isLambdaStart() bool {
	switch p.peek().Kind {
	case TokenIdent:
		return p.peekN(1).Kind == TokenArrow
	case TokenLParen:
		depth := 0
		for i := p.pos; i < len(p.tokens); i++ {
			switch p.tokens[i].Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
				if depth == 0 {
					return i+1 < len(p.tokens) && p.tokens[i+1].Kind == TokenArrow
				}
			case TokenLBrace, TokenRBrace, TokenSemicolon, TokenEOF:
				return false
			}
		}
	}
	return false
}

func (p *Parser) parseLambda() ast.Expr {
	start := p.startPos()
	l := &ast.Lambda{}
	if p.check(TokenIdent) {
		id := p.ident()
		l.Params = []*ast.Param{{Base: ast.Base{Range: id.Range}, Name: id}}
	} else {
		p.expect(TokenLParen)
		implicit := p.check(TokenIdent) && (p.peekN(1).Kind == TokenComma || p.peekN(1).Kind == TokenRParen)
		if !p.check(TokenRParen) {
			for {
				if implicit {
					id := p.ident()
					l.Params = append(l.Params, &ast.Param{Base: ast.Base{Range: id.Range}, Name: id})
				} else {
					param := p.parseParam()
					param.Type = p.localType(param.Type)
					l.Params = append(l.Params, param)
				}
				if !p.accept(TokenComma) {
					break
				}
			}
		}
		p.expect(TokenRParen)
		l.Explicit = !implicit && len(l.Params) > 0
	}
	p.expect(TokenArrow)
	if p.check(TokenLBrace) {
		l.Body = p.parseBlock(false)
	} else {
		l.Body = p.parseExpression()
	}
	l.Range = p.span(start)
	return l
}

func (p *Parser) parseConditional() ast.Expr {
	start := p.startPos()
	cond := p.parseBinary(1)
	if !p.accept(TokenQuestion) {
		return cond
	}
	c := &ast.Conditional{Cond: cond}
	c.Then = p.parseExpression()
	p.expect(TokenColon)
	if p.isLambdaStart() {
		c.Else = p.parseLambda()
	} else {
		c.Else = p.parseConditional()
	}
	c.Range = p.span(start)
	return c
}

// parseBinary is a precedence climbing parser over the infix operators,
// instanceof included.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	start := p.startPos()
	x := p.parseUnary()
	for {
		if p.check(TokenInstanceof) {
			if instanceofPrecedence < minPrec {
				return x
			}
			p.advance()
			x = p.parseInstanceofRest(start, x)
			continue
		}
		op, ok := binaryOps[p.peek().Kind]
		if !ok || op.Precedence() < minPrec {
			return x
		}
		p.advance()
		y := p.parseBinary(op.Precedence() + 1)
		x = &ast.Binary{Base: ast.Base{Range: p.span(start)}, Op: op, X: x, Y: y}
	}
}

func (p *Parser) parseInstanceofRest(start Position, x ast.Expr) ast.Expr {
	io := &ast.InstanceOf{X: x}
	if p.check(TokenFinal) || p.check(TokenAt) {
		pat := p.parsePattern()
		io.Pattern = pat
		io.Type = patternType(pat)
	} else {
		typ := p.parseType()
		switch {
		case p.check(TokenLParen):
			rp := &ast.RecordPattern{Type: typ}
			p.advance()
			if !p.check(TokenRParen) {
				for {
					rp.Subs = append(rp.Subs, p.parsePattern())
					if !p.accept(TokenComma) {
						break
					}
				}
			}
			p.expect(TokenRParen)
			rp.Range = p.span(typ.Span().Start)
			io.Pattern = rp
		case p.check(TokenIdent) && !p.checkWord("when"):
			name := p.ident()
			io.Pattern = &ast.TypePattern{
				Base: ast.Base{Range: p.span(typ.Span().Start)},
				Type: typ,
				Name: name,
			}
		}
		io.Type = typ
	}
	io.Range = p.span(start)
	return io
}

func patternType(e ast.Expr) ast.TypeNode {
	switch e := e.(type) {
	case *ast.TypePattern:
		return e.Type
	case *ast.RecordPattern:
		return e.Type
	}
	return nil
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.startPos()
	var op ast.Operator
	switch p.peek().Kind {
	case TokenIncrement:
		op = ast.OpInc
	case TokenDecrement:
		op = ast.OpDec
	case TokenPlus:
		op = ast.OpPos
	case TokenMinus:
		op = ast.OpNeg
	case TokenNot:
		op = ast.OpNot
	case TokenBitNot:
		op = ast.OpBitNot
	case TokenLParen:
		if p.isCast() {
			return p.parseCast(start)
		}
		return p.parsePostfix(p.parsePrimary())
	default:
		return p.parsePostfix(p.parsePrimary())
	}
	p.advance()
	x := p.parseUnary()
	return &ast.Unary{Base: ast.Base{Range: p.span(start)}, Op: op, X: x}
}

// isCast decides whether a parenthesized prefix is a cast. Primitive
// casts may be followed by any unary expression, reference casts only by
// an operand that cannot continue a binary expression.
func (p *Parser) isCast() bool {
	if _, prim := isPrimitiveKind(p.peekN(1).Kind); prim {
		return p.lookahead(func() {
			p.advance()
			p.parseType()
			p.expect(TokenRParen)
		})
	}
	if p.peekN(1).Kind != TokenIdent && p.peekN(1).Kind != TokenAt {
		return false
	}
	return p.lookahead(func() {
		p.advance()
		p.parseType()
		for p.accept(TokenBitAnd) {
			p.parseType()
		}
		p.expect(TokenRParen)
		if !p.startsCastOperand() && !p.isLambdaStart() {
			p.fail("Expression")
		}
	})
}

func (p *Parser) startsCastOperand() bool {
	switch p.peek().Kind {
	case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral,
		TokenStringLiteral, TokenTextBlock, TokenTrue, TokenFalse, TokenNull,
		TokenLParen, TokenNot, TokenBitNot, TokenThis, TokenSuper, TokenNew,
		TokenSwitch, TokenBoolean, TokenByte, TokenChar, TokenShort, TokenInt,
		TokenLong, TokenFloat, TokenDouble, TokenVoid:
		return true
	}
	return false
}

func (p *Parser) parseCast(start Position) ast.Expr {
	p.expect(TokenLParen)
	typ := p.parseType()
	if p.check(TokenBitAnd) {
		inter := &ast.IntersectionType{Types: []ast.TypeNode{typ}}
		for p.accept(TokenBitAnd) {
			inter.Types = append(inter.Types, p.parseType())
		}
		inter.Range = p.span(typ.Span().Start)
		typ = inter
	}
	p.expect(TokenRParen)
	c := &ast.Cast{Type: typ}
	if p.isLambdaStart() {
		c.X = p.parseLambda()
	} else {
		c.X = p.parseUnary()
	}
	c.Range = p.span(start)
	return c
}

func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	start := x.Span().Start
	for {
		switch {
		case p.check(TokenIncrement):
			p.advance()
			x = &ast.Unary{Base: ast.Base{Range: p.span(start)}, Op: ast.OpInc, X: x, Postfix: true}
		case p.check(TokenDecrement):
			p.advance()
			x = &ast.Unary{Base: ast.Base{Range: p.span(start)}, Op: ast.OpDec, X: x, Postfix: true}
		default:
			return x
		}
	}
}

func (p *Parser) nameExpr(id *ast.Ident) *ast.Name {
	return &ast.Name{Base: ast.Base{Range: id.Range}, Ident: id}
}

func (p *Parser) literal(kind ast.LiteralKind) ast.Expr {
	tok := p.advance()
	return &ast.Literal{Base: ast.Base{Range: tok.Span}, LitKind: kind, Raw: tok.Literal}
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.startPos()
	tok := p.peek()
	var x ast.Expr
	switch tok.Kind {
	case TokenIntLiteral:
		if IsLongLiteral(tok.Literal) {
			x = p.literal(ast.LongLit)
		} else {
			x = p.literal(ast.IntLit)
		}
	case TokenFloatLiteral:
		if IsFloatLiteral(tok.Literal) {
			x = p.literal(ast.FloatLit)
		} else {
			x = p.literal(ast.DoubleLit)
		}
	case TokenCharLiteral:
		x = p.literal(ast.CharLit)
	case TokenStringLiteral:
		x = p.literal(ast.StringLit)
	case TokenTextBlock:
		x = p.literal(ast.TextBlockLit)
	case TokenTrue, TokenFalse:
		x = p.literal(ast.BoolLit)
	case TokenNull:
		x = p.literal(ast.NullLit)
	case TokenThis:
		p.advance()
		x = &ast.This{Base: ast.Base{Range: tok.Span}}
	case TokenSuper:
		p.advance()
		x = &ast.Super{Base: ast.Base{Range: tok.Span}}
		if !p.check(TokenDot) && !p.check(TokenColonColon) {
			p.fail(".")
		}
	case TokenNew:
		x = p.parseCreator(nil, start)
	case TokenLParen:
		p.advance()
		inner := p.parseExpression()
		p.expect(TokenRParen)
		x = &ast.Paren{Base: ast.Base{Range: p.span(start)}, X: inner}
	case TokenSwitch:
		x = p.parseSwitchExpr()
	case TokenBoolean, TokenByte, TokenChar, TokenShort, TokenInt, TokenLong,
		TokenFloat, TokenDouble, TokenVoid:
		return p.parseTypeInExpr(start, p.parseResultType())
	case TokenIdent:
		if p.peekN(1).Kind == TokenLT && p.isGenericTypeRef() {
			return p.parseTypeInExpr(start, p.parseType())
		}
		id := p.ident()
		if p.check(TokenLParen) {
			call := &ast.MethodCall{Name: id, Args: p.parseArguments()}
			call.Range = p.span(start)
			x = call
		} else {
			x = p.nameExpr(id)
		}
	default:
		p.fail("Expression")
	}
	return p.parseSelectors(start, x)
}

// isGenericTypeRef looks for a parameterized type used as a method
// reference qualifier, as in List<String>::new.
func (p *Parser) isGenericTypeRef() bool {
	return p.lookahead(func() {
		p.parseType()
		p.expect(TokenColonColon)
	})
}

// parseTypeInExpr handles T.class, T[].class and T::m where T is already
// parsed.
func (p *Parser) parseTypeInExpr(start Position, typ ast.TypeNode) ast.Expr {
	typ = p.parseDims(typ)
	if p.accept(TokenColonColon) {
		return p.parseMethodRefRest(start, &ast.TypeExpr{Base: ast.Base{Range: typ.Span()}, Type: typ})
	}
	p.expect(TokenDot)
	p.expect(TokenClass)
	x := &ast.ClassLit{Base: ast.Base{Range: p.span(start)}, Type: typ}
	return p.parseSelectors(start, x)
}

func (p *Parser) parseMethodRefRest(start Position, x ast.Node) ast.Expr {
	ref := &ast.MethodRef{X: x}
	if p.check(TokenLT) {
		ref.TypeArgs, _ = p.parseTypeArgs(false)
	}
	if p.check(TokenNew) {
		tok := p.advance()
		ref.Name = &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: "new"}
	} else {
		ref.Name = p.ident()
	}
	ref.Range = p.span(start)
	return ref
}

// exprToClassType converts a dotted name expression to a class type.
func exprToClassType(x ast.Expr) (*ast.ClassType, bool) {
	switch x := x.(type) {
	case *ast.Name:
		return &ast.ClassType{Base: ast.Base{Range: x.Range}, Name: x.Ident}, true
	case *ast.FieldAccess:
		q, ok := exprToClassType(x.X)
		if !ok {
			return nil, false
		}
		return &ast.ClassType{Base: ast.Base{Range: x.Range}, Qualifier: q, Name: x.Name}, true
	}
	return nil, false
}

// exprToQualifiedName converts a dotted name expression to a qualified
// name, used by Outer.this and Outer.super.
func exprToQualifiedName(x ast.Expr) (*ast.QualifiedName, bool) {
	ct, ok := exprToClassType(x)
	if !ok {
		return nil, false
	}
	q := &ast.QualifiedName{Base: ast.Base{Range: ct.Range}}
	for c := ct; c != nil; c = c.Qualifier {
		q.Parts = append([]*ast.Ident{c.Name}, q.Parts...)
	}
	return q, true
}

func (p *Parser) parseSelectors(start Position, x ast.Expr) ast.Expr {
	for {
		switch {
		case p.check(TokenDot):
			p.advance()
			x = p.parseDotSelector(start, x)
		case p.check(TokenLBracket):
			if p.peekN(1).Kind == TokenRBracket {
				ct, ok := exprToClassType(x)
				if !ok {
					p.fail("Expression")
				}
				return p.parseTypeInExpr(start, ct)
			}
			p.advance()
			index := p.parseExpression()
			p.expect(TokenRBracket)
			x = &ast.ArrayAccess{Base: ast.Base{Range: p.span(start)}, X: x, Index: index}
		case p.check(TokenColonColon):
			p.advance()
			return p.parseMethodRefRest(start, x)
		default:
			return x
		}
	}
}

func (p *Parser) parseDotSelector(start Position, x ast.Expr) ast.Expr {
	switch p.peek().Kind {
	case TokenIdent:
		id := p.ident()
		if p.check(TokenLParen) {
			args := p.parseArguments()
			return &ast.MethodCall{Base: ast.Base{Range: p.span(start)}, X: x, Name: id, Args: args}
		}
		return &ast.FieldAccess{Base: ast.Base{Range: p.span(start)}, X: x, Name: id}
	case TokenLT:
		typeArgs, _ := p.parseTypeArgs(false)
		id := p.ident()
		args := p.parseArguments()
		return &ast.MethodCall{Base: ast.Base{Range: p.span(start)}, X: x, TypeArgs: typeArgs, Name: id, Args: args}
	case TokenNew:
		return p.parseCreator(x, start)
	case TokenThis:
		p.advance()
		q, ok := exprToQualifiedName(x)
		if !ok {
			p.fail("Identifier")
		}
		return &ast.This{Base: ast.Base{Range: p.span(start)}, Qualifier: q}
	case TokenSuper:
		p.advance()
		q, ok := exprToQualifiedName(x)
		if !ok {
			p.fail("Identifier")
		}
		if !p.check(TokenDot) && !p.check(TokenColonColon) {
			p.fail(".")
		}
		return &ast.Super{Base: ast.Base{Range: p.span(start)}, Qualifier: q}
	case TokenClass:
		p.advance()
		ct, ok := exprToClassType(x)
		if !ok {
			p.fail("Identifier")
		}
		return &ast.ClassLit{Base: ast.Base{Range: p.span(start)}, Type: ct}
	}
	p.fail("Identifier")
	return nil
}

func (p *Parser) parseArguments() []ast.Expr {
	p.expect(TokenLParen)
	var args []ast.Expr
	if !p.check(TokenRParen) {
		for {
			args = append(args, p.parseExpression())
			if !p.accept(TokenComma) {
				break
			}
		}
	}
	p.expect(TokenRParen)
	return args
}

// parseCreator parses a class instance or array creation after an
// optional outer instance.
func (p *Parser) parseCreator(outer ast.Expr, start Position) ast.Expr {
	p.expect(TokenNew)
	var typeArgs []ast.TypeNode
	if p.check(TokenLT) {
		typeArgs, _ = p.parseTypeArgs(false)
	}

	var elem ast.TypeNode
	if prim, ok := isPrimitiveKind(p.peek().Kind); ok {
		tok := p.advance()
		elem = &ast.PrimitiveType{Base: ast.Base{Range: tok.Span}, Prim: prim}
		if !p.check(TokenLBracket) {
			p.fail("[")
		}
	} else {
		var annotations []*ast.Annotation
		for p.check(TokenAt) {
			annotations = append(annotations, p.parseAnnotation())
		}
		ct := p.parseClassType(true)
		ct.Annotations = append(annotations, ct.Annotations...)
		if !p.check(TokenLBracket) {
			n := &ast.NewObject{Outer: outer, TypeArgs: typeArgs, Type: ct}
			n.Args = p.parseArguments()
			if p.check(TokenLBrace) {
				bodyStart := p.startPos()
				body := &ast.TypeDecl{DeclKind: ast.ClassKind, Anonymous: true}
				p.parseTypeBody(body, false)
				body.Range = p.span(bodyStart)
				n.Body = body
			}
			n.Range = p.span(start)
			return n
		}
		elem = ct
	}
	return p.parseArrayCreatorRest(start, elem)
}

func (p *Parser) parseArrayCreatorRest(start Position, elem ast.TypeNode) ast.Expr {
	n := &ast.NewArray{Elem: elem}
	for p.check(TokenLBracket) {
		if p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
			n.ExtraDims++
			continue
		}
		if n.ExtraDims > 0 {
			p.fail("]")
		}
		p.advance()
		n.DimExprs = append(n.DimExprs, p.parseExpression())
		p.expect(TokenRBracket)
	}
	if len(n.DimExprs) == 0 {
		if !p.check(TokenLBrace) {
			p.fail("{")
		}
		n.Init = p.parseArrayInit()
	}
	n.Range = p.span(start)
	return n
}

func (p *Parser) parseSwitchExpr() ast.Expr {
	start := p.startPos()
	p.expect(TokenSwitch)
	s := &ast.SwitchExpr{Selector: p.parseParExpr()}
	s.Cases = p.parseSwitchBody(true)
	s.Range = p.span(start)
	return s
}
