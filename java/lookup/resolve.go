package lookup

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/problem"
)

// resolver resolves the type references and bodies of one unit. Problems go
// to the unit's reporter; errors inside a body mark its member erroneous.
type resolver struct {
	env  *Environment
	us   *unitState
	info *Info

	member      ast.Node
	depth       int
	assigned    map[LocalID]int
	initialized map[LocalID]bool
	switches    []*switchTarget
}

// switchTarget collects the results of the switch expression being
// resolved.
type switchTarget struct {
	target  TypeID
	results []ast.Expr
}

func (e *Environment) typeResolver(us *unitState) *resolver {
	return &resolver{env: e, us: us, info: us.info}
}

func (e *Environment) bodyResolver(us *unitState, info *Info) *resolver {
	return &resolver{
		env:         e,
		us:          us,
		info:        info,
		assigned:    make(map[LocalID]int),
		initialized: make(map[LocalID]bool),
	}
}

func (r *resolver) report(id problem.ID, n ast.Node, args ...any) {
	if r.us == nil || r.us.unit == nil {
		return
	}
	p := problem.New(id, location(r.us.unit.File, n), args...)
	if p.IsError() && r.member != nil && r.info != nil {
		r.info.Erroneous[r.member] = true
	}
	r.us.reporter.Report(p)
}

// ResolveUnit resolves the bodies of the types declared in unit: field
// initializers, methods, constructors, initializers and enum constants.
// The unit's type bindings are built and completed first when needed.
// Resolving a unit twice returns the same Info.
func (e *Environment) ResolveUnit(unit *ast.CompilationUnit) *Info {
	e.completeUnit(unit)
	us := e.units[unit]
	if us.resolved {
		return us.info
	}
	us.resolved = true
	r := e.bodyResolver(us, us.info)
	for _, td := range unit.Types {
		r.nestedType(td)
	}
	e.runBoundChecks()
	r.finishLocals()
	log.Debugf("resolved %s: %d expressions", unit.File, len(us.info.Types))
	return us.info
}

// finishLocals decides effective finality: a local is effectively final
// when it is never assigned after its initialization.
func (r *resolver) finishLocals() {
	for id, n := range r.assigned {
		l := r.env.Local(id)
		if n > 1 || n == 1 && r.initialized[id] {
			l.Effective = false
		}
	}
}

func (r *resolver) typeDecl(td *ast.TypeDecl) {
	e := r.env
	id, ok := e.declTypes[td]
	if !ok {
		return
	}
	savedMember, savedSwitches := r.member, r.switches
	defer func() { r.member, r.switches = savedMember, savedSwitches }()
	r.switches = nil

	t := e.types[id]
	e.ensureMembers(id)
	scope := e.declScope(t)
	if td.Name != nil {
		r.info.Defs[td.Name] = TypeSymbol(id)
	}
	for _, c := range td.EnumConstants {
		r.guard(c, func() { r.enumConstant(t, scope, c) })
	}
	for _, m := range td.Members {
		switch m := m.(type) {
		case *ast.FieldDecl:
			r.fieldDecl(scope, m)
		case *ast.MethodDecl:
			r.guard(m, func() { r.methodDecl(t, scope, m) })
		case *ast.Initializer:
			r.guard(m, func() {
				r.member = m
				r.block(newMethodScope(scope, 0, m.Static), m.Body)
			})
		case *ast.TypeDecl:
			r.nestedType(m)
		}
	}
	r.guard(td, func() { r.defaultConstructor(t, td) })
}

// guard resolves one member. An abort raised inside it skips the rest of
// that member only; the member is marked erroneous and aborted.
func (r *resolver) guard(member ast.Node, fn func()) {
	switches, saved := r.switches, r.member
	a := problem.Catch(problem.AbortMethod, fn)
	if a == nil {
		return
	}
	r.switches, r.member = switches, saved
	log.Debugf("%s", a)
	r.info.Erroneous[member] = true
	r.info.Aborted[member] = true
}

// nestedType resolves a type declaration. A type abort skips the rest of
// that type.
func (r *resolver) nestedType(td *ast.TypeDecl) {
	member := r.member
	if a := problem.Catch(problem.AbortType, func() { r.typeDecl(td) }); a != nil {
		r.member = member
		log.Debugf("%s", a)
		r.info.Aborted[td] = true
	}
}

func (r *resolver) enumConstant(t *TypeBinding, scope Scope, c *ast.EnumConstant) {
	e := r.env
	for _, f := range t.Fields {
		if e.fields[f].Name == c.Name.Name {
			r.info.Defs[c.Name] = FieldSymbol(f)
			break
		}
	}
	r.member = c
	ms := newMethodScope(scope, 0, true)
	args := r.args(ms, c.Args)
	from := t.ID
	if c.Body != nil {
		body := e.buildLocalType(r.us, c.Body, ms)
		e.completeAnonymous(body, t.ID)
		r.info.LocalTypes[c.Body] = body
		from = body
	}
	m := r.invoke(ms, c.Name, t.Name, e.Methods(t.ID, "<init>"), args, t.ID, NoType, from, true)
	if m != 0 {
		r.info.Methods[c] = m
		r.checkArgs(ms, c, c.Args, args, m)
	} else {
		r.leftovers(ms, c.Args, args)
	}
	if c.Body != nil {
		r.typeDecl(c.Body)
	}
}

func (r *resolver) fieldDecl(scope Scope, fd *ast.FieldDecl) {
	e := r.env
	for _, v := range fd.Vars {
		id := e.declFields[v]
		f := e.Field(id)
		if f == nil {
			continue
		}
		r.info.Defs[v.Name] = FieldSymbol(id)
		if v.Init == nil {
			continue
		}
		r.guard(v, func() {
			r.member = v
			r.initializer(newMethodScope(scope, 0, f.IsStatic()), v.Init, f.Type)
		})
	}
}

func (r *resolver) methodDecl(t *TypeBinding, scope Scope, md *ast.MethodDecl) {
	e := r.env
	id := e.declMethods[md]
	mb := e.Method(id)
	if mb == nil {
		return
	}
	if md.Name != nil {
		r.info.Defs[md.Name] = MethodSymbol(id)
	}
	r.member = md
	ms := newMethodScope(scope, id, mb.IsStatic())
	ms.TypeVars = mb.TypeVars
	ms.Return = mb.Return
	params := md.Params
	if md.Compact {
		params = t.Decl.Components
	}
	for i, p := range params {
		typ := NoType
		if i < len(mb.Params) {
			typ = mb.Params[i]
		}
		lid := r.declareLocal(ms, p.Name, typ, p.Modifiers.Has(ast.ModFinal), true)
		r.initialized[lid] = true
	}
	if md.Default != nil {
		r.expr(ms, md.Default, mb.Return)
	}
	if md.Body == nil {
		return
	}
	if mb.Constructor && !explicitConstructorCall(md.Body) {
		r.implicitSuper(t, md, md.Name)
	}
	r.block(ms, md.Body)
}

func explicitConstructorCall(b *ast.Block) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[0].(*ast.ConstructorCall)
	return ok
}

// implicitSuper binds the super() call a constructor without an explicit
// constructor call starts with. The call is recorded under key: the
// constructor declaration, or the type declaration for a default
// constructor. Problems are reported at name.
func (r *resolver) implicitSuper(t *TypeBinding, key ast.Node, name *ast.Ident) {
	e := r.env
	if t.DeclKind != ast.ClassKind || t.Superclass == NoType || e.Kind(t.Superclass) == KindMissing {
		return
	}
	m, pid := e.FindMethod(e.Methods(t.Superclass, "<init>"), nil, t.ID, NoType)
	switch pid {
	case 0:
		r.info.Methods[key] = m
	case problem.NotVisible:
		r.report(problem.NotVisible, name, "constructor", e.MethodName(m))
	default:
		r.report(problem.UndefinedConstructor, name, e.Type(e.Declared(t.Superclass)).Name, "")
	}
}

// defaultConstructor resolves the super() call of a class whose
// constructor the compiler supplies.
func (r *resolver) defaultConstructor(t *TypeBinding, td *ast.TypeDecl) {
	if t.Anonymous || td.Name == nil {
		return
	}
	for _, m := range td.Members {
		if md, ok := m.(*ast.MethodDecl); ok && md.Constructor {
			return
		}
	}
	r.member = td
	r.implicitSuper(t, td, td.Name)
}

// initializer resolves the initializer of a variable of type typ.
func (r *resolver) initializer(s Scope, init ast.Expr, typ TypeID) {
	if ai, ok := init.(*ast.ArrayInit); ok {
		r.arrayInit(s, ai, typ)
		return
	}
	r.expr(s, init, typ)
	r.coerce(init, typ)
}

func (r *resolver) block(s Scope, b *ast.Block) {
	if b == nil {
		return
	}
	bs := newBlockScope(s)
	for _, st := range b.Stmts {
		r.stmt(bs, st)
	}
}

func (r *resolver) stmt(s Scope, st ast.Stmt) {
	e := r.env
	switch st := st.(type) {
	case *ast.Block:
		r.block(s, st)
	case *ast.LocalVarDecl:
		r.localVars(s, st, false)
	case *ast.LocalClassDecl:
		r.localClass(s, st.Decl)
	case *ast.ExprStmt:
		r.expr(s, st.X, NoType)
	case *ast.IfStmt:
		is := newBlockScope(s)
		r.condition(is, st.Cond)
		r.stmt(newBlockScope(is), st.Then)
		if st.Else != nil {
			r.stmt(newBlockScope(is), st.Else)
		}
		if st.Else == nil && completesAbruptly(st.Then) {
			hoistPatterns(is, s)
		}
	case *ast.WhileStmt:
		ws := newBlockScope(s)
		r.condition(ws, st.Cond)
		r.stmt(ws, st.Body)
	case *ast.DoStmt:
		r.stmt(newBlockScope(s), st.Body)
		r.condition(newBlockScope(s), st.Cond)
	case *ast.ForStmt:
		fs := newBlockScope(s)
		for _, init := range st.Init {
			r.stmt(fs, init)
		}
		if st.Cond != nil {
			r.condition(fs, st.Cond)
		}
		for _, u := range st.Update {
			r.expr(fs, u, NoType)
		}
		r.stmt(newBlockScope(fs), st.Body)
	case *ast.ForEachStmt:
		r.forEach(s, st)
	case *ast.ReturnStmt:
		r.returnStmt(s, st)
	case *ast.YieldStmt:
		if len(r.switches) == 0 {
			r.expr(s, st.Value, NoType)
			return
		}
		sw := r.switches[len(r.switches)-1]
		r.expr(s, st.Value, sw.target)
		sw.results = append(sw.results, st.Value)
	case *ast.ThrowStmt:
		t := r.expr(s, st.X, NoType)
		if throwable := e.WellKnown("java.lang.Throwable"); t != NoType && !e.IsSubtype(t, throwable) {
			r.report(problem.IncompatibleTypes, st.X, e.TypeName(t), "Throwable")
		}
	case *ast.SwitchStmt:
		sel := r.expr(s, st.Selector, NoType)
		r.switchCases(s, sel, st.Cases, nil)
	case *ast.TryStmt:
		r.tryStmt(s, st)
	case *ast.LabeledStmt:
		r.stmt(s, st.Body)
	case *ast.SyncStmt:
		t := r.expr(s, st.Lock, NoType)
		if t != NoType && !e.IsReference(t) {
			r.report(problem.IncompatibleTypes, st.Lock, e.TypeName(t), "Object")
		}
		r.block(s, st.Body)
	case *ast.AssertStmt:
		r.condition(s, st.Cond)
		if st.Message != nil {
			r.expr(s, st.Message, NoType)
		}
	case *ast.ConstructorCall:
		r.constructorCall(s, st)
	}
}

// completesAbruptly reports whether a statement syntactically ends in a
// jump, so that pattern variables of a negated test stay in scope after
// the if statement guarding it.
func completesAbruptly(st ast.Stmt) bool {
	switch st := st.(type) {
	case *ast.ReturnStmt, *ast.ThrowStmt, *ast.BreakStmt, *ast.ContinueStmt, *ast.YieldStmt:
		return true
	case *ast.Block:
		return len(st.Stmts) > 0 && completesAbruptly(st.Stmts[len(st.Stmts)-1])
	}
	return false
}

func hoistPatterns(from *BlockScope, to Scope) {
	var locals map[string]LocalID
	switch to := to.(type) {
	case *BlockScope:
		if to.locals == nil {
			to.locals = make(map[string]LocalID)
		}
		locals = to.locals
	case *MethodScope:
		locals = to.locals
	default:
		return
	}
	for name, id := range from.locals {
		locals[name] = id
	}
}

// condition resolves a boolean condition.
func (r *resolver) condition(s Scope, x ast.Expr) {
	e := r.env
	t := r.expr(s, x, e.Base(constant.TBoolean))
	if t == NoType {
		return
	}
	if r.primOf(t) != constant.TBoolean {
		r.report(problem.IncompatibleTypes, x, e.TypeName(t), "boolean")
		return
	}
	r.coerce(x, e.Base(constant.TBoolean))
}

func (r *resolver) localVars(s Scope, d *ast.LocalVarDecl, resource bool) {
	e := r.env
	base := r.resolveType(s, d.Type)
	_, inferred := d.Type.(*ast.VarType)
	final := resource || d.Modifiers.Has(ast.ModFinal)
	for _, v := range d.Vars {
		typ := e.Array(base, v.Dims)
		if base != NoType && e.Prim(base) == constant.TVoid {
			r.report(problem.VoidValue, v.Name, v.Name.Name)
			typ = NoType
		}
		var lid LocalID
		if inferred {
			typ = NoType
			if v.Init != nil {
				typ = r.inferLocal(s, v)
			}
			lid = r.declareLocal(s, v.Name, typ, final, false)
		} else {
			lid = r.declareLocal(s, v.Name, typ, final, false)
			if v.Init != nil {
				r.initializer(s, v.Init, typ)
			}
		}
		if v.Init == nil {
			continue
		}
		r.initialized[lid] = true
		if final {
			r.localConstant(lid, v.Init)
		}
		if resource {
			r.checkCloseable(v.Init, typ)
		}
	}
}

func (r *resolver) inferLocal(s Scope, v *ast.VarDeclarator) TypeID {
	e := r.env
	if ai, ok := v.Init.(*ast.ArrayInit); ok {
		r.arrayInit(s, ai, NoType)
		return NoType
	}
	t := r.expr(s, v.Init, NoType)
	switch {
	case e.Kind(t) == KindNull:
		r.report(problem.IncompatibleTypes, v.Init, "null", "var")
		return NoType
	case e.Prim(t) == constant.TVoid:
		r.report(problem.VoidValue, v.Name, v.Name.Name)
		return NoType
	}
	return t
}

// localConstant records the value of a final local of primitive or String
// type initialized with a constant expression.
func (r *resolver) localConstant(lid LocalID, init ast.Expr) {
	e := r.env
	l := e.Local(lid)
	c, ok := r.info.ConstantOf(init)
	if !ok {
		return
	}
	if p := e.Prim(l.Type); p != constant.TUndefined {
		if v, ok := constant.CastTo(c, p); ok && e.IsAssignable(r.info.Types[init], l.Type, c) {
			l.Constant = v
		}
		return
	}
	if r.isString(l.Type) && c.Kind() == constant.TString {
		l.Constant = c
	}
}

func (r *resolver) checkCloseable(x ast.Expr, t TypeID) {
	e := r.env
	closeable := e.WellKnown("java.lang.AutoCloseable")
	if t == NoType || closeable == NoType || e.IsSubtype(t, closeable) {
		return
	}
	r.report(problem.IncompatibleTypes, x, e.TypeName(t), "AutoCloseable")
}

func (r *resolver) localClass(s Scope, td *ast.TypeDecl) {
	e := r.env
	id := e.buildLocalType(r.us, td, s)
	if bs, ok := s.(*BlockScope); ok {
		if bs.types == nil {
			bs.types = make(map[string]TypeID)
		}
		bs.types[td.NameString()] = id
	}
	r.info.LocalTypes[td] = id
	r.typeDecl(td)
}

func (r *resolver) forEach(s Scope, st *ast.ForEachStmt) {
	e := r.env
	fs := newBlockScope(s)
	it := r.expr(s, st.Iterable, NoType)
	elem := r.iterElem(st.Iterable, it)
	d := st.Var
	base := r.resolveType(fs, d.Type)
	_, inferred := d.Type.(*ast.VarType)
	for _, v := range d.Vars {
		typ := e.Array(base, v.Dims)
		if inferred {
			typ = elem
		} else if elem != NoType && typ != NoType && !e.IsCompatible(elem, typ) {
			r.report(problem.IncompatibleTypes, st.Iterable, e.TypeName(elem), e.TypeName(typ))
		}
		lid := r.declareLocal(fs, v.Name, typ, d.Modifiers.Has(ast.ModFinal), false)
		r.initialized[lid] = true
	}
	r.stmt(newBlockScope(fs), st.Body)
}

// iterElem returns the element type of an array or Iterable.
func (r *resolver) iterElem(x ast.Expr, t TypeID) TypeID {
	e := r.env
	if t == NoType || e.Kind(t) == KindMissing {
		return NoType
	}
	if e.Kind(t) == KindArray {
		return e.ElementType(t)
	}
	iterable := e.WellKnown("java.lang.Iterable")
	sup := e.AsSuper(t, iterable)
	if sup == NoType {
		r.report(problem.InvalidIterable, x)
		return NoType
	}
	st := e.Type(sup)
	if st.Kind != KindParameterized || len(st.Args) == 0 {
		return e.Object()
	}
	return e.upperBound(st.Args[0])
}

// upperBound replaces a wildcard by the type its values are known to have.
func (e *Environment) upperBound(t TypeID) TypeID {
	tb := e.Type(t)
	if tb == nil || tb.Kind != KindWildcard {
		return t
	}
	if tb.BoundKind == ExtendsBound {
		return tb.Bound
	}
	return e.Object()
}

func (r *resolver) returnStmt(s Scope, st *ast.ReturnStmt) {
	e := r.env
	ms := enclosingMethod(s)
	if ms == nil || ms.Lambda && ms.Return == NoType {
		if st.Result != nil {
			r.expr(s, st.Result, NoType)
		}
		return
	}
	ret := ms.Return
	isVoid := ret == NoType || e.Prim(ret) == constant.TVoid
	switch {
	case st.Result == nil && !isVoid:
		r.report(problem.ShouldReturnValue, st, e.TypeName(ret))
	case st.Result != nil && isVoid:
		r.expr(s, st.Result, NoType)
		r.report(problem.VoidMethodReturnsValue, st.Result)
	case st.Result != nil:
		r.expr(s, st.Result, ret)
		r.coerce(st.Result, ret)
	}
}

func (r *resolver) tryStmt(s Scope, st *ast.TryStmt) {
	e := r.env
	ts := newBlockScope(s)
	for _, res := range st.Resources {
		switch res := res.(type) {
		case *ast.LocalVarDecl:
			r.localVars(ts, res, true)
		case ast.Expr:
			r.checkCloseable(res, r.expr(ts, res, NoType))
		}
	}
	r.block(ts, st.Body)
	for _, c := range st.Catches {
		cs := newBlockScope(s)
		typ := r.resolveType(cs, c.Param.Type)
		_, union := c.Param.Type.(*ast.UnionType)
		if throwable := e.WellKnown("java.lang.Throwable"); !union && typ != NoType && !e.IsSubtype(typ, throwable) {
			r.report(problem.IncompatibleTypes, c.Param.Type, e.TypeName(typ), "Throwable")
		}
		lid := r.declareLocal(cs, c.Param.Name, typ, union || c.Param.Modifiers.Has(ast.ModFinal), false)
		r.initialized[lid] = true
		r.block(cs, c.Body)
	}
	if st.Finally != nil {
		r.block(s, st.Finally)
	}
}

// switchCases resolves the labels and bodies of a switch. sw is set for
// switch expressions.
func (r *resolver) switchCases(s Scope, sel TypeID, cases []*ast.SwitchCase, sw *switchTarget) {
	e := r.env
	decl := e.Type(e.Declared(sel))
	enum := decl != nil && decl.Modifiers.Has(ModEnum)
	shared := newBlockScope(s)
	for _, c := range cases {
		cs := shared
		if c.Arrow || hasPattern(c.Labels) {
			cs = newBlockScope(shared)
		}
		for _, l := range c.Labels {
			r.caseLabel(cs, l, sel, enum)
		}
		if c.Guard != nil {
			r.condition(cs, c.Guard)
		}
		if sw != nil && c.Arrow && len(c.Body) == 1 {
			if es, ok := c.Body[0].(*ast.ExprStmt); ok {
				r.expr(cs, es.X, sw.target)
				sw.results = append(sw.results, es.X)
				continue
			}
		}
		for _, st := range c.Body {
			r.stmt(cs, st)
		}
	}
}

func hasPattern(labels []ast.Expr) bool {
	for _, l := range labels {
		switch l.(type) {
		case *ast.TypePattern, *ast.RecordPattern:
			return true
		}
	}
	return false
}

func (r *resolver) caseLabel(s Scope, l ast.Expr, sel TypeID, enum bool) {
	e := r.env
	switch l := l.(type) {
	case *ast.TypePattern, *ast.RecordPattern:
		t := r.pattern(s, l, sel)
		if sel != NoType && t != NoType && !e.IsCastable(sel, t) {
			r.report(problem.IncompatibleTypes, l, e.TypeName(sel), e.TypeName(t))
		}
		return
	case *ast.Name:
		if enum {
			if f := e.FindField(sel, l.Ident.Name); f != 0 && e.Field(f).Modifiers.Has(ModEnum) {
				r.info.Fields[l] = f
				r.info.Uses[l.Ident] = FieldSymbol(f)
				r.info.Types[l] = sel
				return
			}
			r.report(problem.UndefinedField, l, l.Ident.Name)
			return
		}
	}
	t := r.expr(s, l, sel)
	if e.Kind(t) == KindNull {
		return
	}
	c := r.info.Constants[l]
	if sel != NoType && t != NoType && !e.IsAssignable(t, sel, c) && !e.IsAssignable(t, e.Unbox(sel), c) {
		r.report(problem.IncompatibleTypes, l, e.TypeName(t), e.TypeName(sel))
	}
}

func (r *resolver) constructorCall(s Scope, st *ast.ConstructorCall) {
	e := r.env
	cur := r.currentType(s)
	if st.Qualifier != nil {
		r.expr(s, st.Qualifier, NoType)
	}
	target := cur
	if st.Super {
		target = e.Superclass(cur)
	}
	args := r.args(s, st.Args)
	if target == NoType || e.Kind(target) == KindMissing {
		r.leftovers(s, st.Args, args)
		return
	}
	m := r.invoke(s, st, e.Type(e.Declared(target)).Name, e.Methods(target, "<init>"), args, target, NoType, cur, true)
	if m == 0 {
		r.leftovers(s, st.Args, args)
		return
	}
	r.info.Methods[st] = m
	r.checkArgs(s, st, st.Args, args, m)
}

// FieldConstant returns the value of a constant variable: a final field of
// primitive or String type initialized with a constant expression.
// Source initializers are evaluated on first use.
func (e *Environment) FieldConstant(id FieldID) constant.Constant {
	f := e.Field(id)
	if f == nil {
		return constant.NotAConstant
	}
	if f.Original != 0 && f.Original != id {
		return e.FieldConstant(f.Original)
	}
	switch f.constState {
	case 1:
		return constant.NotAConstant
	case 2:
		return f.constant
	}
	f.constState = 1
	f.constant = e.evalFieldConstant(f)
	f.constState = 2
	return f.constant
}

func (e *Environment) evalFieldConstant(f *FieldBinding) constant.Constant {
	v := f.Decl
	if v == nil || v.Init == nil || !isConstantForm(v.Init) {
		return constant.NotAConstant
	}
	prim := e.Prim(f.Type)
	if prim == constant.TUndefined && e.Resolve(f.Type) != e.StringType() {
		return constant.NotAConstant
	}
	t := e.Type(f.Declaring)
	us := e.unitOf(t)
	quiet := &unitState{unit: us.unit, reporter: problem.Discard, pkg: us.pkg, scope: us.scope}
	r := e.bodyResolver(quiet, NewInfo())
	typ := r.expr(newMethodScope(e.declScope(t), 0, f.IsStatic()), v.Init, f.Type)
	c, ok := r.info.ConstantOf(v.Init)
	if !ok || !e.IsAssignable(typ, f.Type, c) {
		return constant.NotAConstant
	}
	if prim == constant.TUndefined {
		if c.Kind() == constant.TString {
			return c
		}
		return constant.NotAConstant
	}
	cc, ok := constant.CastTo(c, prim)
	if !ok {
		return constant.NotAConstant
	}
	return cc
}

// isConstantForm reports whether an expression is built only from the
// forms a constant expression may take.
func isConstantForm(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.Literal:
		return x.LitKind != ast.NullLit
	case *ast.Name:
		return true
	case *ast.FieldAccess:
		switch x.X.(type) {
		case *ast.Name, *ast.FieldAccess:
			return isConstantForm(x.X)
		}
		return false
	case *ast.Paren:
		return isConstantForm(x.X)
	case *ast.Unary:
		return x.Op != ast.OpInc && x.Op != ast.OpDec && isConstantForm(x.X)
	case *ast.Binary:
		return isConstantForm(x.X) && isConstantForm(x.Y)
	case *ast.Conditional:
		return isConstantForm(x.Cond) && isConstantForm(x.Then) && isConstantForm(x.Else)
	case *ast.Cast:
		return isConstantForm(x.X)
	}
	return false
}
