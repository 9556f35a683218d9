package parser

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/problem"
)

func (p *Parser) parseCompilationUnit(unit *ast.CompilationUnit) {
	p.pushOpen(elemUnit, unit)

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		unit.Package = p.parsePackageDecl()
		p.markChild(unit)
	}

	for p.check(TokenImport) || p.check(TokenSemicolon) {
		if !p.accept(TokenSemicolon) {
			unit.Imports = append(unit.Imports, p.parseImportDecl())
		}
		p.markChild(unit)
	}

	if p.isModuleDecl() {
		unit.Module = p.parseModuleDecl()
		p.markChild(unit)
	}

	for !p.check(TokenEOF) {
		if !p.accept(TokenSemicolon) {
			unit.Types = append(unit.Types, p.parseTypeDecl())
		}
		p.markChild(unit)
	}

	p.finishUnitSpan(unit)
	p.popOpen(unit)
}

func (p *Parser) finishUnitSpan(unit *ast.CompilationUnit) {
	eof := p.tokens[len(p.tokens)-1]
	unit.Range = Span{
		Start: Position{File: p.file, Offset: 0, Line: 1, Column: 1},
		End:   eof.Span.End,
	}
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.check(TokenAt) {
		return false
	}
	return p.lookahead(func() {
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		p.expect(TokenPackage)
	})
}

func (p *Parser) parsePackageDecl() *ast.PackageDecl {
	start := p.startPos()
	pkg := &ast.PackageDecl{}
	for p.check(TokenAt) {
		pkg.Annotations = append(pkg.Annotations, p.parseAnnotation())
	}
	p.expect(TokenPackage)
	pkg.Name = p.parseQualifiedName()
	p.expect(TokenSemicolon)
	pkg.Range = p.span(start)
	return pkg
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.startPos()
	imp := p.parseImportHeader()
	p.expect(TokenSemicolon)
	imp.Range = p.span(start)
	return imp
}

// parseImportHeader parses an import declaration up to its semicolon.
func (p *Parser) parseImportHeader() *ast.ImportDecl {
	start := p.startPos()
	imp := &ast.ImportDecl{}
	p.expect(TokenImport)
	if p.accept(TokenStatic) {
		imp.Static = true
	}
	nameStart := p.startPos()
	name := &ast.QualifiedName{}
	name.Parts = append(name.Parts, p.ident())
	for p.accept(TokenDot) {
		if p.accept(TokenStar) {
			imp.OnDemand = true
			break
		}
		name.Parts = append(name.Parts, p.ident())
	}
	name.Range = p.span(nameStart)
	imp.Name = name
	imp.Range = p.span(start)
	return imp
}

func (p *Parser) parseQualifiedName() *ast.QualifiedName {
	start := p.startPos()
	name := &ast.QualifiedName{}
	name.Parts = append(name.Parts, p.ident())
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		name.Parts = append(name.Parts, p.ident())
	}
	name.Range = p.span(start)
	return name
}

func (p *Parser) isModuleDecl() bool {
	if p.lexer != nil && !p.lexer.IsModuleInfo() && p.file != "" {
		return false
	}
	return p.lookahead(func() {
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		if p.checkWord("open") {
			p.advance()
		}
		if !p.checkWord("module") {
			p.fail("module")
		}
		p.advance()
		p.ident()
	})
}

func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	start := p.startPos()
	mod := &ast.ModuleDecl{}
	for p.check(TokenAt) {
		mod.Annotations = append(mod.Annotations, p.parseAnnotation())
	}
	if p.checkWord("open") {
		p.advance()
		mod.Open = true
	}
	p.advance() // module
	mod.Name = p.parseQualifiedName()
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		mod.Directives = append(mod.Directives, p.parseModuleDirective())
	}
	p.expect(TokenRBrace)
	mod.Range = p.span(start)
	return mod
}

func (p *Parser) parseModuleDirective() *ast.ModuleDirective {
	start := p.startPos()
	tok := p.peek()
	d := &ast.ModuleDirective{Directive: tok.Literal}
	switch {
	case tok.IsWord("requires"):
		p.advance()
		for p.checkWord("transitive") || p.check(TokenStatic) {
			if p.checkWord("transitive") && p.peekN(1).Kind == TokenSemicolon {
				break
			}
			d.Modifiers = append(d.Modifiers, p.advance().Literal)
		}
		d.Name = p.parseQualifiedName()
	case tok.IsWord("exports"), tok.IsWord("opens"):
		p.advance()
		d.Name = p.parseQualifiedName()
		if p.checkWord("to") {
			p.advance()
			d.Targets = p.parseQualifiedNameList()
		}
	case tok.IsWord("uses"):
		p.advance()
		d.Name = p.parseQualifiedName()
	case tok.IsWord("provides"):
		p.advance()
		d.Name = p.parseQualifiedName()
		if !p.checkWord("with") {
			p.fail("with")
		}
		p.advance()
		d.Targets = p.parseQualifiedNameList()
	default:
		p.fail("ModuleDirective")
	}
	p.expect(TokenSemicolon)
	d.Range = p.span(start)
	return d
}

func (p *Parser) parseQualifiedNameList() []*ast.QualifiedName {
	names := []*ast.QualifiedName{p.parseQualifiedName()}
	for p.accept(TokenComma) {
		names = append(names, p.parseQualifiedName())
	}
	return names
}

// isTypeDeclKeyword reports whether the current token, after modifiers,
// starts a type declaration.
func (p *Parser) isTypeDeclKeyword() bool {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenAt:
		return p.peekN(1).Kind == TokenInterface
	case TokenIdent:
		return p.level >= Java16 && p.checkWord("record") && p.peekN(1).Kind == TokenIdent
	}
	return false
}

func (p *Parser) parseTypeDecl() *ast.TypeDecl {
	start := p.startPos()
	doc := p.docBefore(start.Offset)
	mods := p.parseModifiers()
	if !p.isTypeDeclKeyword() {
		p.fail("class, interface, enum or record")
	}
	return p.parseTypeDeclRest(start, mods, doc)
}

func (p *Parser) parseTypeDeclRest(start Position, mods *ast.Modifiers, doc *ast.Comment) *ast.TypeDecl {
	td := &ast.TypeDecl{Base: ast.Base{Range: Span{Start: start, End: start}}, Modifiers: mods, Doc: doc}
	p.parseTypeHeader(td)
	p.parseTypeBody(td, true)
	td.Range = p.span(start)
	return td
}

// parseTypeHeader parses from the kind keyword up to the opening brace.
func (p *Parser) parseTypeHeader(td *ast.TypeDecl) {
	p.parseTypeKindAndName(td)
	p.parseTypeHeaderRest(td)
}

func (p *Parser) parseTypeKindAndName(td *ast.TypeDecl) {
	switch {
	case p.accept(TokenClass):
		td.DeclKind = ast.ClassKind
	case p.accept(TokenInterface):
		td.DeclKind = ast.InterfaceKind
	case p.accept(TokenEnum):
		td.DeclKind = ast.EnumKind
	case p.check(TokenAt):
		p.advance()
		p.expect(TokenInterface)
		td.DeclKind = ast.AnnotationKind
	case p.checkWord("record"):
		p.advance()
		td.DeclKind = ast.RecordKind
	default:
		p.fail("class")
	}
	td.Name = p.ident()
}

func (p *Parser) parseTypeHeaderRest(td *ast.TypeDecl) {
	if p.check(TokenLT) {
		td.TypeParams = p.parseTypeParams()
	}
	if td.DeclKind == ast.RecordKind {
		td.Components = p.parseRecordComponents()
	}
	p.parseTypeClauses(td)
}

func (p *Parser) parseTypeClauses(td *ast.TypeDecl) {
	for {
		switch {
		case p.check(TokenExtends):
			p.advance()
			if td.DeclKind == ast.InterfaceKind {
				td.Implements = append(td.Implements, p.parseTypeList()...)
			} else {
				td.Extends = p.parseClassType(false)
			}
		case p.check(TokenImplements):
			p.advance()
			td.Implements = append(td.Implements, p.parseTypeList()...)
		case p.checkWord("permits"):
			p.advance()
			td.Permits = append(td.Permits, p.parseTypeList()...)
		default:
			return
		}
	}
}

func (p *Parser) parseTypeList() []ast.TypeNode {
	types := []ast.TypeNode{p.parseClassType(false)}
	for p.accept(TokenComma) {
		types = append(types, p.parseClassType(false))
	}
	return types
}

func (p *Parser) parseRecordComponents() []*ast.Param {
	p.expect(TokenLParen)
	var params []*ast.Param
	if !p.check(TokenRParen) {
		for {
			params = append(params, p.parseParam())
			if !p.accept(TokenComma) {
				break
			}
		}
	}
	p.expect(TokenRParen)
	return params
}

// parseTypeBody parses the braces and members of td. When track is set the
// body is registered as an open declaration for recovery.
func (p *Parser) parseTypeBody(td *ast.TypeDecl, track bool) {
	td.BodyStart = p.startPos()
	p.expect(TokenLBrace)
	if track {
		p.pushOpen(elemType, td)
	}
	if td.DeclKind == ast.EnumKind {
		p.markChild(td)
		p.parseEnumConstants(td)
		p.markChild(td)
	}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		if m := p.parseMember(td); m != nil {
			td.Members = append(td.Members, m)
		}
		p.markChild(td)
	}
	p.expect(TokenRBrace)
	if track {
		p.popOpen(td)
	}
}

func (p *Parser) parseEnumConstants(td *ast.TypeDecl) {
	for !p.check(TokenSemicolon) && !p.check(TokenRBrace) {
		td.EnumConstants = append(td.EnumConstants, p.parseEnumConstant())
		if !p.accept(TokenComma) {
			break
		}
	}
	if !p.check(TokenRBrace) {
		p.expect(TokenSemicolon)
	}
}

// untracked runs fn without recording open declarations, so recovery
// resumes at the enclosing member.
func (p *Parser) untracked(fn func()) {
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	fn()
}

func (p *Parser) parseEnumConstant() *ast.EnumConstant {
	start := p.startPos()
	ec := &ast.EnumConstant{Doc: p.docBefore(start.Offset)}
	for p.check(TokenAt) {
		ec.Annotations = append(ec.Annotations, p.parseAnnotation())
	}
	ec.Name = p.ident()
	if p.check(TokenLParen) {
		ec.Args = p.parseArguments()
	}
	if p.check(TokenLBrace) {
		bodyStart := p.startPos()
		body := &ast.TypeDecl{DeclKind: ast.ClassKind, Anonymous: true}
		p.untracked(func() { p.parseTypeBody(body, false) })
		body.Range = p.span(bodyStart)
		ec.Body = body
	}
	ec.Range = p.span(start)
	return ec
}

// parseMember parses one class body declaration. It returns nil for a
// stray semicolon.
func (p *Parser) parseMember(owner *ast.TypeDecl) ast.Decl {
	if p.accept(TokenSemicolon) {
		return nil
	}
	start := p.startPos()
	if p.check(TokenLBrace) || (p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace) {
		return p.parseInitializer()
	}
	doc := p.docBefore(start.Offset)
	mods := p.parseModifiers()

	if p.isTypeDeclKeyword() {
		return p.parseTypeDeclRest(start, mods, doc)
	}

	md := &ast.MethodDecl{Base: ast.Base{Range: Span{Start: start, End: start}}, Modifiers: mods, Doc: doc}
	if p.check(TokenLT) {
		md.TypeParams = p.parseTypeParams()
	}

	// constructor, compact constructor or method without return type
	if p.check(TokenIdent) && (p.peekN(1).Kind == TokenLParen ||
		(owner != nil && owner.DeclKind == ast.RecordKind && p.peekN(1).Kind == TokenLBrace && p.peek().Literal == owner.NameString())) {
		md.Name = p.ident()
		md.Constructor = owner != nil && md.Name.Name == owner.NameString()
		if p.check(TokenLBrace) {
			md.Compact = true
		} else {
			p.parseMethodRest(md)
		}
		p.parseMethodBody(md)
		md.Range = p.span(start)
		return md
	}

	typ := p.parseResultType()
	name := p.ident()
	if p.check(TokenLParen) {
		md.Result = typ
		md.Name = name
		p.parseMethodRest(md)
		if p.check(TokenDefault) {
			p.advance()
			md.Default = p.parseElementValue()
		}
		p.parseMethodBody(md)
		md.Range = p.span(start)
		return md
	}

	if len(md.TypeParams) > 0 {
		p.fail("(")
	}
	fd := &ast.FieldDecl{Modifiers: mods, Type: typ, Doc: doc}
	fd.Vars = p.parseDeclaratorsAfterName(name, start)
	p.expect(TokenSemicolon)
	fd.Range = p.span(start)
	return fd
}

func (p *Parser) parseInitializer() *ast.Initializer {
	start := p.startPos()
	init := &ast.Initializer{Base: ast.Base{Range: Span{Start: start, End: start}}}
	if p.accept(TokenStatic) {
		init.Static = true
	}
	blockStart := p.startPos()
	init.Body = &ast.Block{Base: ast.Base{Range: Span{Start: blockStart, End: blockStart}}}
	p.expect(TokenLBrace)
	p.pushOpen(elemInitializer, init)
	p.parseBlockStatements(init.Body, init)
	p.expect(TokenRBrace)
	p.popOpen(init)
	init.Body.Range = p.span(blockStart)
	init.Range = p.span(start)
	return init
}

func (p *Parser) parseResultType() ast.TypeNode {
	if p.check(TokenVoid) {
		tok := p.advance()
		return &ast.PrimitiveType{Base: ast.Base{Range: tok.Span}, Prim: ast.Void}
	}
	return p.parseType()
}

// parseMethodRest parses parameters, dimensions and the throws clause.
func (p *Parser) parseMethodRest(md *ast.MethodDecl) {
	p.parseFormalParams(md)
	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
		md.Dims++
	}
	if p.accept(TokenThrows) {
		md.Throws = p.parseTypeList()
	}
}

func (p *Parser) parseFormalParams(md *ast.MethodDecl) {
	p.expect(TokenLParen)
	if !p.check(TokenRParen) {
		for {
			if p.isReceiverParam() {
				md.Receiver = p.parseReceiverParam()
			} else {
				md.Params = append(md.Params, p.parseParam())
			}
			if !p.accept(TokenComma) {
				break
			}
		}
	}
	p.expect(TokenRParen)
}

func (p *Parser) isReceiverParam() bool {
	return p.lookahead(func() {
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		p.parseType()
		for p.check(TokenIdent) && p.peekN(1).Kind == TokenDot {
			p.advance()
			p.advance()
		}
		p.expect(TokenThis)
	})
}

func (p *Parser) parseReceiverParam() *ast.Param {
	start := p.startPos()
	param := &ast.Param{Modifiers: p.parseModifiers()}
	param.Type = p.parseType()
	for p.check(TokenIdent) && p.peekN(1).Kind == TokenDot {
		p.advance()
		p.advance()
	}
	tok := p.expect(TokenThis)
	param.Name = &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: "this"}
	param.Range = p.span(start)
	return param
}

func (p *Parser) parseParam() *ast.Param {
	start := p.startPos()
	param := &ast.Param{Modifiers: p.parseModifiers()}
	param.Type = p.parseType()
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	if p.accept(TokenEllipsis) {
		param.Varargs = true
	}
	param.Name = p.ident()
	param.Dims = p.parseDimCount()
	param.Range = p.span(start)
	return param
}

func (p *Parser) parseDimCount() int {
	n := 0
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		n++
	}
	return n
}

func (p *Parser) parseMethodBody(md *ast.MethodDecl) {
	if p.accept(TokenSemicolon) {
		return
	}
	start := p.startPos()
	body := &ast.Block{Base: ast.Base{Range: Span{Start: start, End: start}}}
	md.Body = body
	p.expect(TokenLBrace)
	p.pushOpen(elemMethod, md)
	p.parseBlockStatements(body, md)
	p.expect(TokenRBrace)
	p.popOpen(md)
	body.Range = p.span(start)
}

// parseDeclaratorsAfterName parses the declarators of a field or local
// variable whose first name is already consumed.
func (p *Parser) parseDeclaratorsAfterName(first *ast.Ident, start Position) []*ast.VarDeclarator {
	v := &ast.VarDeclarator{Name: first}
	v.Dims = p.parseDimCount()
	if p.accept(TokenAssign) {
		v.Init = p.parseVarInit()
	}
	v.Range = Span{Start: first.Range.Start, End: p.prevEnd()}
	vars := []*ast.VarDeclarator{v}
	for p.accept(TokenComma) {
		vars = append(vars, p.parseDeclarator())
	}
	return vars
}

func (p *Parser) parseDeclarator() *ast.VarDeclarator {
	start := p.startPos()
	v := &ast.VarDeclarator{Name: p.ident()}
	v.Dims = p.parseDimCount()
	if p.accept(TokenAssign) {
		v.Init = p.parseVarInit()
	}
	v.Range = p.span(start)
	return v
}

func (p *Parser) parseVarInit() ast.Expr {
	if p.check(TokenLBrace) {
		return p.parseArrayInit()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInit() *ast.ArrayInit {
	start := p.startPos()
	init := &ast.ArrayInit{}
	p.expect(TokenLBrace)
	p.untracked(func() {
		for !p.check(TokenRBrace) {
			init.Elems = append(init.Elems, p.parseVarInit())
			if !p.accept(TokenComma) {
				break
			}
		}
	})
	p.expect(TokenRBrace)
	init.Range = p.span(start)
	return init
}

// isModifierStart reports whether the current token begins a modifier.
func (p *Parser) isModifierStart() bool {
	switch p.peek().Kind {
	case TokenPublic, TokenProtected, TokenPrivate, TokenStatic, TokenFinal,
		TokenAbstract, TokenNative, TokenSynchronized, TokenTransient,
		TokenVolatile, TokenStrictfp, TokenNonSealed:
		return true
	case TokenDefault:
		next := p.peekN(1).Kind
		return next != TokenColon && next != TokenArrow
	case TokenAt:
		return p.peekN(1).Kind != TokenInterface
	case TokenIdent:
		if p.checkWord("sealed") {
			switch p.peekN(1).Kind {
			case TokenClass, TokenInterface, TokenAbstract, TokenPublic, TokenProtected,
				TokenPrivate, TokenStatic, TokenStrictfp, TokenAt:
				return true
			}
		}
	}
	return false
}

func (p *Parser) parseModifiers() *ast.Modifiers {
	start := p.startPos()
	mods := &ast.Modifiers{}
	for p.isModifierStart() {
		tok := p.peek()
		if tok.Kind == TokenAt {
			mods.Annotations = append(mods.Annotations, p.parseAnnotation())
			continue
		}
		p.advance()
		flag, ok := ast.ModifierByName(tok.Literal)
		if !ok {
			continue
		}
		if mods.Mods&flag != 0 {
			p.reportAt(tok, problem.SyntaxErrorDeleteToken, tok.Literal)
		}
		mods.Mods |= flag
	}
	mods.Range = p.span(start)
	return mods
}

func (p *Parser) parseAnnotation() *ast.Annotation {
	start := p.startPos()
	p.expect(TokenAt)
	a := &ast.Annotation{Name: p.parseQualifiedName()}
	if p.accept(TokenLParen) {
		if !p.check(TokenRParen) {
			if p.check(TokenIdent) && p.peekN(1).Kind == TokenAssign {
				for {
					evStart := p.startPos()
					ev := &ast.ElementValue{Name: p.ident()}
					p.expect(TokenAssign)
					ev.Value = p.parseElementValue()
					ev.Range = p.span(evStart)
					a.Args = append(a.Args, ev)
					if !p.accept(TokenComma) {
						break
					}
				}
			} else {
				evStart := p.startPos()
				ev := &ast.ElementValue{Value: p.parseElementValue()}
				ev.Range = p.span(evStart)
				a.Args = append(a.Args, ev)
			}
		}
		p.expect(TokenRParen)
	}
	a.Range = p.span(start)
	return a
}

func (p *Parser) parseElementValue() ast.Expr {
	switch {
	case p.check(TokenAt):
		return p.parseAnnotation()
	case p.check(TokenLBrace):
		start := p.startPos()
		init := &ast.ArrayInit{}
		p.advance()
		for !p.check(TokenRBrace) {
			init.Elems = append(init.Elems, p.parseElementValue())
			if !p.accept(TokenComma) {
				break
			}
		}
		p.expect(TokenRBrace)
		init.Range = p.span(start)
		return init
	}
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	return p.parseConditional()
}

func (p *Parser) parseTypeParams() []*ast.TypeParam {
	p.expect(TokenLT)
	var params []*ast.TypeParam
	for {
		start := p.startPos()
		tp := &ast.TypeParam{}
		for p.check(TokenAt) {
			tp.Annotations = append(tp.Annotations, p.parseAnnotation())
		}
		tp.Name = p.ident()
		if p.accept(TokenExtends) {
			tp.Bounds = append(tp.Bounds, p.parseType())
			for p.accept(TokenBitAnd) {
				tp.Bounds = append(tp.Bounds, p.parseType())
			}
		}
		tp.Range = p.span(start)
		params = append(params, tp)
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expectGT()
	return params
}

func isPrimitiveKind(kind TokenKind) (ast.PrimitiveKind, bool) {
	switch kind {
	case TokenBoolean:
		return ast.Boolean, true
	case TokenByte:
		return ast.Byte, true
	case TokenChar:
		return ast.Char, true
	case TokenShort:
		return ast.Short, true
	case TokenInt:
		return ast.Int, true
	case TokenLong:
		return ast.Long, true
	case TokenFloat:
		return ast.Float, true
	case TokenDouble:
		return ast.Double, true
	}
	return 0, false
}

// parseType parses a primitive, class or array type.
func (p *Parser) parseType() ast.TypeNode {
	var annotations []*ast.Annotation
	for p.check(TokenAt) {
		annotations = append(annotations, p.parseAnnotation())
	}
	var t ast.TypeNode
	if prim, ok := isPrimitiveKind(p.peek().Kind); ok {
		tok := p.advance()
		t = &ast.PrimitiveType{Base: ast.Base{Range: tok.Span}, Prim: prim}
	} else {
		ct := p.parseClassType(false)
		ct.Annotations = append(annotations, ct.Annotations...)
		t = ct
	}
	return p.parseDims(t)
}

func (p *Parser) parseDims(t ast.TypeNode) ast.TypeNode {
	for {
		if p.check(TokenAt) {
			ok := p.lookahead(func() {
				for p.check(TokenAt) {
					p.parseAnnotation()
				}
				p.expect(TokenLBracket)
				p.expect(TokenRBracket)
			})
			if !ok {
				return t
			}
			for p.check(TokenAt) {
				p.parseAnnotation()
			}
		}
		if !(p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket) {
			return t
		}
		p.advance()
		p.advance()
		t = &ast.ArrayType{Base: ast.Base{Range: Span{Start: t.Span().Start, End: p.prevEnd()}}, Elem: t}
	}
}

// parseClassType parses Name<Args>.Name<Args>... allowDiamond permits <>.
func (p *Parser) parseClassType(allowDiamond bool) *ast.ClassType {
	start := p.startPos()
	var ct *ast.ClassType
	for {
		seg := &ast.ClassType{Qualifier: ct}
		for p.check(TokenAt) {
			seg.Annotations = append(seg.Annotations, p.parseAnnotation())
		}
		seg.Name = p.ident()
		if p.check(TokenLT) {
			seg.Args, seg.Diamond = p.parseTypeArgs(allowDiamond)
		}
		seg.Range = p.span(start)
		ct = seg
		if !(p.check(TokenDot) && (p.peekN(1).Kind == TokenIdent || p.peekN(1).Kind == TokenAt)) {
			return ct
		}
		p.advance()
	}
}

func (p *Parser) parseTypeArgs(allowDiamond bool) ([]ast.TypeNode, bool) {
	p.expect(TokenLT)
	if allowDiamond && p.check(TokenGT) {
		p.advance()
		return nil, true
	}
	var args []ast.TypeNode
	for {
		args = append(args, p.parseTypeArg())
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expectGT()
	return args, false
}

func (p *Parser) parseTypeArg() ast.TypeNode {
	start := p.startPos()
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	if !p.check(TokenQuestion) {
		return p.parseType()
	}
	p.advance()
	w := &ast.WildcardType{}
	if p.accept(TokenExtends) {
		w.Bound = p.parseType()
	} else if p.accept(TokenSuper) {
		w.Super = true
		w.Bound = p.parseType()
	}
	w.Range = p.span(start)
	return w
}
