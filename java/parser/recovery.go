package parser

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/problem"
)

// Recovery takes over after the first syntax error of a compilation unit.
// The declarations the strict parser was inside of become an arena of
// recovered elements; parsing resumes at the start of the innermost
// element's current child and every subsequent token is offered to the
// innermost element, which either absorbs it, opens a nested element or
// closes itself and hands the token to its parent.

type elemKind int

const (
	elemUnit elemKind = iota
	elemType
	elemMethod
	elemField
	elemLocal
	elemBlock
	elemStatement
	elemInitializer
)

func (k elemKind) String() string {
	switch k {
	case elemUnit:
		return "unit"
	case elemType:
		return "type"
	case elemMethod:
		return "method"
	case elemField:
		return "field"
	case elemLocal:
		return "local"
	case elemBlock:
		return "block"
	case elemStatement:
		return "statement"
	case elemInitializer:
		return "initializer"
	}
	return "unknown"
}

// recoveredElement is one partially parsed node. bracketBalance counts the
// braces opened by the element and not yet closed; it is zero for
// variables, which end at a semicolon instead.
type recoveredElement struct {
	kind           elemKind
	parent         int
	node           ast.Node
	bracketBalance int
	closed         bool

	// variables: the declarator whose initializer is pending
	decl                           *ast.VarDeclarator
	alreadyCompletedInitialization bool

	// enum types: whether the constant list was parsed
	constantsDone bool
}

type recovery struct {
	elems []recoveredElement
	top   int
}

func (r *recovery) current() *recoveredElement {
	return &r.elems[r.top]
}

// recoverUnit converts the open declarations into recovered elements and
// consumes the rest of the input in recovery mode.
func (p *Parser) recoverUnit() {
	p.recovering = true
	p.recovery = &recovery{}
	p.convertOpen()
	p.flagErrors()

	for !p.check(TokenEOF) {
		r := p.recovery
		pos, top, n := p.pos, r.top, len(r.elems)
		switch r.current().kind {
		case elemUnit:
			p.recoverInUnit()
		case elemType:
			p.recoverInType()
		case elemMethod, elemInitializer, elemBlock:
			p.recoverInBody()
		case elemField, elemLocal:
			p.recoverInVariable()
		}
		if p.pos == pos && r.top == top && len(r.elems) == n {
			p.reportSyntax(p.peek(), "")
			p.advance()
		}
	}
	p.finishRecovery()
	p.updatedCompilationUnit()
}

// convertOpen seeds the arena with the strict parser's open declarations.
// Their nodes were not yet attached to their parents.
func (p *Parser) convertOpen() {
	r := p.recovery
	if len(p.open) == 0 || p.open[0].node != ast.Node(p.unit) {
		r.elems = append(r.elems, recoveredElement{kind: elemUnit, parent: -1, node: p.unit})
		p.pos = 0
	}
	resume := 0
	for _, od := range p.open {
		e := recoveredElement{
			kind:          od.kind,
			parent:        len(r.elems) - 1,
			node:          od.node,
			constantsDone: true,
		}
		if od.kind != elemUnit {
			e.bracketBalance = 1
			p.attach(e.parent, od.node)
		}
		if td, ok := od.node.(*ast.TypeDecl); ok && td.DeclKind == ast.EnumKind {
			if od.childStart > 0 && p.tokens[od.childStart-1].Kind == TokenLBrace {
				td.EnumConstants = nil
				e.constantsDone = false
			}
		}
		r.elems = append(r.elems, e)
		resume = od.childStart
	}
	r.top = len(r.elems) - 1
	p.open = nil
	p.rewind(resume, 0, 0)
}

// attach adds node to the children of the element at index parent.
func (p *Parser) attach(parent int, node ast.Node) {
	switch owner := p.recovery.elems[parent].node.(type) {
	case *ast.CompilationUnit:
		switch n := node.(type) {
		case *ast.TypeDecl:
			owner.Types = append(owner.Types, n)
		case *ast.ImportDecl:
			owner.Imports = append(owner.Imports, n)
		case *ast.PackageDecl:
			owner.Package = n
		case *ast.ModuleDecl:
			owner.Module = n
		}
	case *ast.TypeDecl:
		switch n := node.(type) {
		case *ast.EnumConstant:
			owner.EnumConstants = append(owner.EnumConstants, n)
		case ast.Decl:
			owner.Members = append(owner.Members, n)
		}
	case *ast.MethodDecl:
		if owner.Body == nil {
			owner.Body = &ast.Block{}
		}
		appendStmt(owner.Body, node)
	case *ast.Initializer:
		appendStmt(owner.Body, node)
	case *ast.Block:
		appendStmt(owner, node)
	}
}

func appendStmt(b *ast.Block, node ast.Node) {
	switch n := node.(type) {
	case ast.Stmt:
		b.Stmts = append(b.Stmts, n)
	case *ast.TypeDecl:
		n.Local = true
		b.Stmts = append(b.Stmts, &ast.LocalClassDecl{Base: ast.Base{Range: n.Range}, Decl: n})
	}
}

func kindOf(node ast.Node) elemKind {
	switch node.(type) {
	case *ast.TypeDecl:
		return elemType
	case *ast.MethodDecl:
		return elemMethod
	case *ast.Initializer:
		return elemInitializer
	case *ast.Block:
		return elemBlock
	case *ast.FieldDecl:
		return elemField
	case *ast.LocalVarDecl:
		return elemLocal
	}
	return elemStatement
}

// add attaches node to the innermost element. A node with a positive
// bracket balance opened a body and becomes the innermost element.
func (p *Parser) add(node ast.Node, bracketBalance int) {
	r := p.recovery
	ast.SetFlags(node, ast.Recovered)
	p.attach(r.top, node)
	if bracketBalance <= 0 {
		return
	}
	e := recoveredElement{
		kind:           kindOf(node),
		parent:         r.top,
		node:           node,
		bracketBalance: bracketBalance,
		constantsDone:  true,
	}
	if td, ok := node.(*ast.TypeDecl); ok && td.DeclKind == ast.EnumKind {
		e.constantsDone = false
	}
	r.elems = append(r.elems, e)
	r.top = len(r.elems) - 1
}

// addVariable attaches a field or local variable declaration whose
// declarator decl may still receive an initializer.
func (p *Parser) addVariable(node ast.Node, decl *ast.VarDeclarator) {
	r := p.recovery
	ast.SetFlags(node, ast.Recovered)
	p.attach(r.top, node)
	r.elems = append(r.elems, recoveredElement{
		kind:   kindOf(node),
		parent: r.top,
		node:   node,
		decl:   decl,
	})
	r.top = len(r.elems) - 1
}

// flagErrors marks the innermost element and its ancestors.
func (p *Parser) flagErrors() {
	r := p.recovery
	for i := r.top; i >= 0; i = r.elems[i].parent {
		ast.SetFlags(r.elems[i].node, ast.HasSyntaxErrors)
	}
}

// closeElement completes the element at index i and makes its parent the
// innermost element.
func (p *Parser) closeElement(i int, end Position, malformed bool) {
	r := p.recovery
	e := &r.elems[i]
	e.closed = true
	e.bracketBalance = 0
	setEnd(e.node, end)
	if malformed {
		ast.SetFlags(e.node, ast.Malformed)
	}
	r.top = e.parent
}

func setEnd(node ast.Node, end Position) {
	switch n := node.(type) {
	case *ast.MethodDecl:
		if n.Body != nil {
			n.Body.SetEnd(end)
		}
		n.SetEnd(end)
	case *ast.Initializer:
		n.Body.SetEnd(end)
		n.SetEnd(end)
	case *ast.CompilationUnit:
	default:
		ast.SetSpan(node, Span{Start: node.Span().Start, End: end})
	}
}

// updateOnOpeningBrace consumes a '{' the innermost element did not
// absorb itself.
func (p *Parser) updateOnOpeningBrace() {
	r := p.recovery
	e := r.current()
	switch e.kind {
	case elemField, elemLocal:
		p.closeElement(r.top, p.prevEnd(), !e.alreadyCompletedInitialization)
		p.updateOnOpeningBrace()
	case elemType:
		start := p.startPos()
		p.advance()
		init := &ast.Initializer{Body: &ast.Block{Base: ast.Base{Range: Span{Start: start, End: start}}}}
		init.Range = Span{Start: start, End: start}
		p.add(init, 1)
	case elemUnit:
		p.reportSyntax(p.peek(), "")
		p.advance()
	default:
		start := p.startPos()
		p.advance()
		p.add(&ast.Block{Base: ast.Base{Range: Span{Start: start, End: start}}}, 1)
	}
}

// updateOnClosingBrace consumes a '}' for the innermost braced element.
// Variables are completed first and the brace goes to their parent.
func (p *Parser) updateOnClosingBrace() {
	r := p.recovery
	e := r.current()
	switch {
	case e.kind == elemUnit:
		p.reportSyntax(p.peek(), "")
		p.advance()
	case e.bracketBalance == 0:
		p.closeElement(r.top, p.prevEnd(), !e.alreadyCompletedInitialization)
	default:
		tok := p.advance()
		e.bracketBalance--
		if e.bracketBalance == 0 {
			p.closeElement(r.top, tok.Span.End, false)
		}
	}
}

func (p *Parser) recoverInUnit() {
	unit := p.unit
	switch {
	case p.check(TokenSemicolon):
		p.advance()
	case p.check(TokenRBrace):
		p.updateOnClosingBrace()
	case p.check(TokenLBrace):
		p.updateOnOpeningBrace()
	case p.check(TokenPackage) || p.isAnnotatedPackage():
		var pkg *ast.PackageDecl
		if p.try(func() { pkg = p.parsePackageDecl() }) {
			ast.SetFlags(pkg, ast.Recovered)
			unit.Package = pkg
			return
		}
		p.flagErrors()
		p.skipUnitStatement()
	case p.check(TokenImport):
		var imp *ast.ImportDecl
		if p.try(func() { imp = p.parseImportDecl() }) {
			p.add(imp, 0)
			return
		}
		p.flagErrors()
		if p.attempt(func() { imp = p.parseImportHeader() }) {
			ast.SetFlags(imp, ast.Malformed)
			p.add(imp, 0)
			p.accept(TokenSemicolon)
			return
		}
		p.skipUnitStatement()
	case p.isModuleDecl():
		var mod *ast.ModuleDecl
		if p.try(func() { mod = p.parseModuleDecl() }) {
			p.add(mod, 0)
			return
		}
		p.flagErrors()
		p.skipToTypeStart()
	default:
		var td *ast.TypeDecl
		if p.try(func() { td = p.parseTypeDecl() }) {
			p.add(td, 0)
			return
		}
		p.flagErrors()
		if p.recoverTypeHeader() {
			return
		}
		p.skipToTypeStart()
	}
}

// skipUnitStatement drops a broken package or import declaration up to
// its semicolon or the start of the next top level declaration.
func (p *Parser) skipUnitStatement() {
	p.advance()
	for !p.check(TokenEOF) {
		if p.accept(TokenSemicolon) {
			return
		}
		if p.isModifierStart() || p.isTypeDeclKeyword() || p.match(TokenImport, TokenPackage, TokenLBrace, TokenRBrace) {
			return
		}
		p.advance()
	}
}

// skipToTypeStart drops tokens until something that can begin a top level
// declaration.
func (p *Parser) skipToTypeStart() {
	p.advance()
	for !p.check(TokenEOF) {
		if p.isModifierStart() || p.isTypeDeclKeyword() || p.match(TokenImport, TokenPackage) {
			return
		}
		p.advance()
	}
}

func (p *Parser) recoverInType() {
	r := p.recovery
	e := r.current()
	td := e.node.(*ast.TypeDecl)

	if !e.constantsDone {
		e.constantsDone = true
		p.recoverEnumConstants(td)
		return
	}

	switch {
	case p.check(TokenRBrace):
		p.updateOnClosingBrace()
		return
	case p.check(TokenLBrace):
		p.updateOnOpeningBrace()
		return
	case p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace:
		start := p.startPos()
		p.advance()
		bodyStart := p.startPos()
		p.advance()
		init := &ast.Initializer{Static: true, Body: &ast.Block{Base: ast.Base{Range: Span{Start: bodyStart, End: bodyStart}}}}
		init.Range = Span{Start: start, End: start}
		p.add(init, 1)
		return
	}

	var m ast.Decl
	if p.try(func() { m = p.parseMember(td) }) {
		if m != nil {
			p.add(m, 0)
		}
		return
	}
	p.flagErrors()
	if p.recoverTypeHeader() || p.recoverMethodHeader(td) || p.recoverFieldHeader() {
		return
	}
	p.advance()
}

// recoverEnumConstants parses the constant list one constant at a time,
// dropping the tokens of constants that fail.
func (p *Parser) recoverEnumConstants(td *ast.TypeDecl) {
	for !p.check(TokenEOF) {
		if p.accept(TokenSemicolon) || p.check(TokenRBrace) {
			return
		}
		var c *ast.EnumConstant
		if p.try(func() { c = p.parseEnumConstant() }) {
			ast.SetFlags(c, ast.Recovered)
			td.EnumConstants = append(td.EnumConstants, c)
		} else {
			p.flagErrors()
			p.skipTo(TokenComma, TokenSemicolon, TokenRBrace)
		}
		if !p.accept(TokenComma) {
			p.accept(TokenSemicolon)
			return
		}
	}
}

func (p *Parser) recoverInBody() {
	switch p.peek().Kind {
	case TokenRBrace:
		p.updateOnClosingBrace()
		return
	case TokenLBrace:
		p.updateOnOpeningBrace()
		return
	case TokenCase, TokenDefault:
		p.skipCaseLabel()
		return
	}

	var s ast.Stmt
	if p.try(func() { s = p.parseBlockStatement() }) {
		p.add(s, 0)
		return
	}
	p.flagErrors()
	if p.isMemberHeader() {
		p.closeBodiesUpToType()
		return
	}
	if p.recoverLocalHeader() {
		return
	}
	p.skipStatement()
}

// isMemberHeader reports whether the tokens ahead can only start a member
// declaration: an access modifier or a method header followed by its body.
func (p *Parser) isMemberHeader() bool {
	switch p.peek().Kind {
	case TokenPublic, TokenProtected, TokenPrivate:
		return true
	}
	return p.lookahead(func() {
		p.parseModifiers()
		if p.check(TokenLT) {
			p.parseTypeParams()
		}
		p.parseResultType()
		p.ident()
		p.expect(TokenLParen)
		p.skipParens()
		if !p.match(TokenLBrace, TokenThrows) {
			p.fail("{")
		}
	})
}

// closeBodiesUpToType abandons the unclosed bodies around the current
// position so the enclosing type sees the next member.
func (p *Parser) closeBodiesUpToType() {
	r := p.recovery
	for {
		e := r.current()
		if e.kind == elemType || e.kind == elemUnit {
			return
		}
		p.closeElement(r.top, p.prevEnd(), true)
	}
}

func (p *Parser) skipCaseLabel() {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		case TokenColon, TokenArrow:
			if depth <= 0 {
				p.advance()
				return
			}
		case TokenSemicolon, TokenLBrace, TokenRBrace:
			return
		}
		p.advance()
	}
}

func (p *Parser) recoverInVariable() {
	r := p.recovery
	e := r.current()
	switch p.peek().Kind {
	case TokenAssign:
		p.advance()
		if p.check(TokenLBrace) {
			return
		}
		var init ast.Expr
		if p.attempt(func() { init = p.parseExpression() }) {
			e.decl.Init = init
		} else {
			ast.SetFlags(e.node, ast.Malformed)
			p.skipBalanced(TokenComma, TokenSemicolon)
		}
		e.alreadyCompletedInitialization = true
		p.extendDecl(e)
	case TokenLBrace:
		if e.alreadyCompletedInitialization || e.decl.Init != nil || !p.declIsArray(e) || p.tokens[p.pos-1].Kind != TokenAssign {
			p.updateOnOpeningBrace()
			return
		}
		e.decl.Init = p.recoverArrayInit()
		e.alreadyCompletedInitialization = true
		p.extendDecl(e)
	case TokenComma:
		p.advance()
		start := p.startPos()
		var v *ast.VarDeclarator
		if !p.attempt(func() {
			v = &ast.VarDeclarator{Name: p.ident()}
			v.Dims = p.parseDimCount()
		}) {
			p.closeElement(r.top, p.prevEnd(), true)
			return
		}
		v.Range = p.span(start)
		switch n := e.node.(type) {
		case *ast.FieldDecl:
			n.Vars = append(n.Vars, v)
		case *ast.LocalVarDecl:
			n.Vars = append(n.Vars, v)
		}
		e.decl = v
		e.alreadyCompletedInitialization = false
	case TokenSemicolon:
		p.advance()
		p.closeElement(r.top, p.prevEnd(), false)
	case TokenRBrace:
		p.updateOnClosingBrace()
	default:
		p.reportSyntax(p.peek(), ";")
		p.closeElement(r.top, p.prevEnd(), true)
	}
}

func (p *Parser) extendDecl(e *recoveredElement) {
	e.decl.SetEnd(p.prevEnd())
	if e.decl.Range.End.Offset < e.decl.Range.Start.Offset {
		e.decl.SetEnd(e.decl.Range.Start)
	}
}

// declIsArray decides whether a '{' after '=' starts an array initializer:
// the declared type or the declarator must have array dimensions.
func (p *Parser) declIsArray(e *recoveredElement) bool {
	if e.decl.Dims > 0 {
		return true
	}
	var t ast.TypeNode
	switch n := e.node.(type) {
	case *ast.FieldDecl:
		t = n.Type
	case *ast.LocalVarDecl:
		t = n.Type
	}
	_, ok := t.(*ast.ArrayType)
	return ok
}

// recoverArrayInit parses an array initializer element by element,
// replacing elements that fail with malformed placeholders.
func (p *Parser) recoverArrayInit() *ast.ArrayInit {
	start := p.startPos()
	init := &ast.ArrayInit{}
	p.advance()
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		elemStart := p.startPos()
		var elem ast.Expr
		ok := p.try(func() {
			elem = p.parseVarInit()
			if !p.match(TokenComma, TokenRBrace) {
				p.fail("}")
			}
		})
		if !ok {
			p.skipBalanced(TokenComma)
			bad := &ast.BadExpr{Base: ast.Base{Range: p.span(elemStart)}}
			ast.SetFlags(bad, ast.Malformed)
			ast.SetFlags(init, ast.HasSyntaxErrors)
			elem = bad
		}
		init.Elems = append(init.Elems, elem)
		if !p.accept(TokenComma) {
			break
		}
	}
	if !p.accept(TokenRBrace) {
		ast.SetFlags(init, ast.Malformed)
	}
	init.Range = p.span(start)
	return init
}

func (p *Parser) recoverTypeHeader() bool {
	start := p.startPos()
	var td *ast.TypeDecl
	if !p.attempt(func() {
		mods := p.parseModifiers()
		if !p.isTypeDeclKeyword() {
			p.fail("class")
		}
		td = &ast.TypeDecl{Modifiers: mods}
		td.Range = Span{Start: start, End: start}
		p.parseTypeKindAndName(td)
	}) {
		return false
	}
	if !p.attempt(func() { p.parseTypeHeaderRest(td) }) {
		td.TypeParams, td.Components, td.Extends, td.Implements, td.Permits = nil, nil, nil, nil, nil
		p.skipTo(TokenLBrace, TokenSemicolon, TokenRBrace)
	}
	if !p.check(TokenLBrace) {
		td.Range = p.span(start)
		ast.SetFlags(td, ast.Malformed)
		p.add(td, 0)
		return true
	}
	td.BodyStart = p.startPos()
	p.advance()
	td.Range = p.span(start)
	p.add(td, 1)
	return true
}

func (p *Parser) recoverMethodHeader(owner *ast.TypeDecl) bool {
	start := p.startPos()
	var md *ast.MethodDecl
	if !p.attempt(func() {
		md = &ast.MethodDecl{Modifiers: p.parseModifiers()}
		if p.check(TokenLT) {
			md.TypeParams = p.parseTypeParams()
		}
		if p.check(TokenIdent) && p.peekN(1).Kind == TokenLParen {
			md.Name = p.ident()
			md.Constructor = md.Name.Name == owner.NameString()
		} else {
			md.Result = p.parseResultType()
			md.Name = p.ident()
		}
		if !p.check(TokenLParen) {
			p.fail("(")
		}
	}) {
		return false
	}
	if !p.attempt(func() { p.parseMethodRest(md) }) {
		md.Params, md.Receiver, md.Dims, md.Throws = nil, nil, 0, nil
		ast.SetFlags(md, ast.Malformed)
		p.skipTo(TokenLBrace, TokenSemicolon, TokenRBrace)
	}
	md.Range = p.span(start)
	switch {
	case p.check(TokenLBrace):
		bodyStart := p.startPos()
		p.advance()
		md.Body = &ast.Block{Base: ast.Base{Range: Span{Start: bodyStart, End: bodyStart}}}
		p.add(md, 1)
	case p.accept(TokenSemicolon):
		md.Range = p.span(start)
		p.add(md, 0)
	default:
		ast.SetFlags(md, ast.Malformed)
		p.add(md, 0)
	}
	return true
}

func (p *Parser) recoverFieldHeader() bool {
	start := p.startPos()
	var fd *ast.FieldDecl
	var v *ast.VarDeclarator
	if !p.attempt(func() {
		fd = &ast.FieldDecl{Modifiers: p.parseModifiers()}
		fd.Type = p.parseType()
		v = &ast.VarDeclarator{Name: p.ident()}
		v.Dims = p.parseDimCount()
	}) {
		return false
	}
	v.Range = p.span(v.Name.Range.Start)
	fd.Vars = []*ast.VarDeclarator{v}
	fd.Range = p.span(start)
	p.addVariable(fd, v)
	return true
}

func (p *Parser) recoverLocalHeader() bool {
	start := p.startPos()
	var decl *ast.LocalVarDecl
	var v *ast.VarDeclarator
	if !p.attempt(func() {
		decl = &ast.LocalVarDecl{Modifiers: p.parseModifiers()}
		decl.Type = p.localType(p.parseType())
		v = &ast.VarDeclarator{Name: p.ident()}
		v.Dims = p.parseDimCount()
		if !p.match(TokenAssign, TokenComma, TokenSemicolon) {
			p.fail("=")
		}
	}) {
		return false
	}
	v.Range = p.span(v.Name.Range.Start)
	decl.Vars = []*ast.VarDeclarator{v}
	decl.Range = p.span(start)
	p.addVariable(decl, v)
	return true
}

// skipStatement drops tokens up to and including the next semicolon
// outside parentheses. It stops before braces.
func (p *Parser) skipStatement() {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			if depth > 0 {
				depth--
			}
		case TokenSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case TokenLBrace, TokenRBrace:
			return
		}
		p.advance()
	}
}

// skipBalanced drops tokens until one of stop at nesting depth zero, or
// a closing brace that would leave the current nesting. The stop token is
// not consumed.
func (p *Parser) skipBalanced(stop ...TokenKind) {
	depth := 0
	for !p.check(TokenEOF) {
		kind := p.peek().Kind
		if depth == 0 {
			for _, s := range stop {
				if kind == s {
					return
				}
			}
		}
		switch kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBracket:
			if depth > 0 {
				depth--
			}
		case TokenRBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

func (p *Parser) skipTo(stop ...TokenKind) {
	for !p.check(TokenEOF) && !p.match(stop...) {
		p.advance()
	}
}

// skipParens consumes tokens through the parenthesis matching one that
// was already consumed.
func (p *Parser) skipParens() {
	depth := 1
	for !p.check(TokenEOF) {
		switch p.advance().Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				return
			}
		}
	}
	p.fail(")")
}

func braceContext(kind elemKind) string {
	switch kind {
	case elemType:
		return "ClassBody"
	case elemMethod:
		return "MethodBody"
	case elemField:
		return "FieldDeclaration"
	case elemLocal:
		return "LocalVariableDeclarationStatement"
	case elemUnit:
		return "CompilationUnit"
	}
	return "Block"
}

// finishRecovery closes every element still open at the end of input.
func (p *Parser) finishRecovery() {
	r := p.recovery
	last := p.peek()
	if len(p.tokens) > 1 {
		last = p.tokens[len(p.tokens)-2]
	}

	reported := false
	for i := r.top; i > 0; i = r.elems[i].parent {
		if r.elems[i].bracketBalance > 0 {
			p.reportAt(last, problem.SyntaxErrorInsertToComplete, "}", braceContext(r.elems[i].kind))
			reported = true
			break
		}
	}
	if !reported && p.eofExpected != "" {
		p.reportAt(last, problem.SyntaxErrorInsertToComplete, p.eofExpected, braceContext(r.current().kind))
	}

	end := p.prevEnd()
	for r.top > 0 {
		e := r.current()
		malformed := e.bracketBalance > 0 || (e.kind != elemUnit && !e.alreadyCompletedInitialization && e.decl != nil)
		if malformed {
			ast.SetFlags(e.node, ast.HasSyntaxErrors)
		}
		p.closeElement(r.top, end, malformed)
	}
}

// updatedCompilationUnit finalizes the unit after recovery.
func (p *Parser) updatedCompilationUnit() *ast.CompilationUnit {
	p.finishUnitSpan(p.unit)
	ast.SetFlags(p.unit, ast.HasSyntaxErrors)
	return p.unit
}
