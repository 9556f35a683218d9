package flow

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/problem"
)

func (a *analyzer) exprs(list []ast.Expr, in *Info) *Info {
	for _, x := range list {
		in = a.expr(x, in)
	}
	return in
}

// expr analyzes an expression evaluated for its value and returns the
// state after it.
func (a *analyzer) expr(x ast.Expr, in *Info) *Info {
	switch x := x.(type) {
	case nil:
		return in
	case *ast.Paren:
		return a.expr(x.X, in)
	case *ast.Name:
		a.read(x.Ident, in)
		return in
	case *ast.FieldAccess:
		if isThis(x.X) {
			a.readField(x, in)
			return in
		}
		return a.expr(x.X, in)
	case *ast.MethodCall:
		if x.X != nil {
			in = a.expr(x.X, in)
		}
		in = a.exprs(x.Args, in)
		if m, ok := a.info.Methods[x]; ok {
			a.thrownBy(x, m)
		}
		return in
	case *ast.NewObject:
		if x.Outer != nil {
			in = a.expr(x.Outer, in)
		}
		in = a.exprs(x.Args, in)
		if m, ok := a.info.Methods[x]; ok {
			a.thrownBy(x, m)
		}
		if x.Body != nil {
			a.typeDecl(x.Body)
		}
		return in
	case *ast.NewArray:
		in = a.exprs(x.DimExprs, in)
		if x.Init != nil {
			in = a.expr(x.Init, in)
		}
		return in
	case *ast.ArrayInit:
		return a.exprs(x.Elems, in)
	case *ast.ArrayAccess:
		return a.expr(x.Index, a.expr(x.X, in))
	case *ast.Unary:
		switch x.Op {
		case ast.OpInc, ast.OpDec:
			return a.assign(x.X, nil, true, in)
		case ast.OpNot:
			return a.condition(x, in).UnconditionalInits()
		}
		return a.expr(x.X, in)
	case *ast.Binary:
		if x.Op == ast.OpAndAnd || x.Op == ast.OpOrOr {
			return a.condition(x, in).UnconditionalInits()
		}
		return a.expr(x.Y, a.expr(x.X, in))
	case *ast.Assign:
		return a.assign(x.Target, x.Value, x.Op != ast.OpAssign, in)
	case *ast.Conditional:
		c := a.condition(x.Cond, in)
		then := a.expr(x.Then, c.InitsWhenTrue().Copy())
		return then.MergedWith(a.expr(x.Else, c.InitsWhenFalse().Copy()))
	case *ast.Cast:
		return a.expr(x.X, in)
	case *ast.InstanceOf:
		in = a.expr(x.X, in)
		if x.Pattern != nil {
			in = a.expr(x.Pattern, in)
		}
		return in
	case *ast.TypePattern:
		if s, ok := a.declareLocal(x.Name); ok {
			in.MarkAsDefinitelyAssigned(s)
		}
		return in
	case *ast.RecordPattern:
		return a.exprs(x.Subs, in)
	case *ast.Lambda:
		a.lambda(x, in)
		return in
	case *ast.MethodRef:
		if q, ok := x.X.(ast.Expr); ok {
			in = a.expr(q, in)
		}
		return in
	case *ast.SwitchExpr:
		return a.switchBody(x.Selector, x.Cases, true, in)
	case *ast.Literal, *ast.This, *ast.Super, *ast.ClassLit, *ast.TypeExpr, *ast.BadExpr, *ast.Annotation:
		return in
	}
	log.Warningf("flow: unhandled expression %s", x.Kind())
	return in
}

// condition analyzes a boolean expression and returns a conditional
// state. Constant conditions make the ruled-out branch vacuous.
func (a *analyzer) condition(x ast.Expr, in *Info) *Info {
	if x == nil {
		return Conditional(in, in.Copy())
	}
	x = ast.Unparen(x)
	if c, ok := a.info.ConstantOf(x); ok && c.Kind() == constant.TBoolean {
		if c.Bool() {
			return Conditional(in, vacuousInfo)
		}
		return Conditional(vacuousInfo, in)
	}
	switch x := x.(type) {
	case *ast.Unary:
		if x.Op == ast.OpNot {
			c := a.condition(x.X, in)
			return Conditional(c.InitsWhenFalse(), c.InitsWhenTrue())
		}
	case *ast.Binary:
		switch x.Op {
		case ast.OpAndAnd:
			l := a.condition(x.X, in)
			r := a.condition(x.Y, l.InitsWhenTrue().Copy())
			return Conditional(r.InitsWhenTrue(), l.InitsWhenFalse().MergedWith(r.InitsWhenFalse()))
		case ast.OpOrOr:
			l := a.condition(x.X, in)
			r := a.condition(x.Y, l.InitsWhenFalse().Copy())
			return Conditional(l.InitsWhenTrue().MergedWith(r.InitsWhenTrue()), r.InitsWhenFalse())
		}
	case *ast.Conditional:
		c := a.condition(x.Cond, in)
		t := a.condition(x.Then, c.InitsWhenTrue().Copy())
		f := a.condition(x.Else, c.InitsWhenFalse().Copy())
		return Conditional(
			t.InitsWhenTrue().MergedWith(f.InitsWhenTrue()),
			t.InitsWhenFalse().MergedWith(f.InitsWhenFalse()))
	}
	out := a.expr(x, in)
	return Conditional(out, out.Copy())
}

func (a *analyzer) isConstant(x ast.Expr, v bool) bool {
	c, ok := a.info.ConstantOf(ast.Unparen(x))
	return ok && c.Kind() == constant.TBoolean && c.Bool() == v
}

func isThis(x ast.Expr) bool {
	t, ok := ast.Unparen(x).(*ast.This)
	return ok && t.Qualifier == nil
}

// fieldID returns the declared field behind a possibly substituted one.
func (a *analyzer) fieldID(id lookup.FieldID) lookup.FieldID {
	if f := a.env.Field(id); f != nil && f.Original != 0 {
		return f.Original
	}
	return id
}

// targetSlot returns the slot of a tracked variable an assignment target
// names.
func (a *analyzer) targetSlot(x ast.Expr) (uint, bool) {
	switch x := ast.Unparen(x).(type) {
	case *ast.Name:
		sym, ok := a.info.Uses[x.Ident]
		if !ok {
			return 0, false
		}
		if sym.Kind == lookup.SymField {
			sym = lookup.FieldSymbol(a.fieldID(lookup.FieldID(sym.ID)))
		}
		return a.slot(sym)
	case *ast.FieldAccess:
		if f, ok := a.info.Fields[x]; ok && isThis(x.X) {
			return a.slot(lookup.FieldSymbol(a.fieldID(f)))
		}
	}
	return 0, false
}

// initializing reports whether the current body may assign or must not
// read before assignment the blank final f.
func (a *analyzer) initializing(f lookup.FieldID) bool {
	fb := a.env.Field(f)
	if fb == nil || !a.finals[f] {
		return false
	}
	if fb.IsStatic() {
		return a.kind == memberStaticInit
	}
	return a.kind == memberConstructor || a.kind == memberInstanceInit
}

func (a *analyzer) read(id *ast.Ident, in *Info) {
	sym, ok := a.info.Uses[id]
	if !ok {
		return
	}
	switch sym.Kind {
	case lookup.SymLocal:
		if s, ok := a.slot(sym); ok && !in.IsDefinitelyAssigned(s) {
			a.report(problem.UninitializedLocal, id, id.Name)
		}
	case lookup.SymField:
		a.readBlankFinal(a.fieldID(lookup.FieldID(sym.ID)), id, in)
	}
}

func (a *analyzer) readField(x *ast.FieldAccess, in *Info) {
	if f, ok := a.info.Fields[x]; ok {
		a.readBlankFinal(a.fieldID(f), x.Name, in)
	}
}

func (a *analyzer) readBlankFinal(f lookup.FieldID, id *ast.Ident, in *Info) {
	if !a.initializing(f) {
		return
	}
	if s, ok := a.slot(lookup.FieldSymbol(f)); ok && !in.IsDefinitelyAssigned(s) {
		a.report(problem.UninitializedBlankFinal, id, id.Name)
	}
}

// assign analyzes an assignment, compound assignment or increment of
// target. value is nil for increments.
func (a *analyzer) assign(target, value ast.Expr, compound bool, in *Info) *Info {
	switch t := ast.Unparen(target).(type) {
	case *ast.Name:
		if compound {
			a.read(t.Ident, in)
		}
		in = a.expr(value, in)
		if sym, ok := a.info.Uses[t.Ident]; ok {
			a.write(sym, t.Ident, in)
		}
		return in
	case *ast.FieldAccess:
		f, ok := a.info.Fields[t]
		this := isThis(t.X)
		if this && compound {
			a.readField(t, in)
		}
		if !this {
			in = a.expr(t.X, in)
		}
		in = a.expr(value, in)
		switch {
		case ok && this:
			a.write(lookup.FieldSymbol(f), t.Name, in)
		case ok && a.isFinal(f):
			a.report(problem.FinalFieldAssignment, t.Name, t.Name.Name)
		}
		return in
	case *ast.ArrayAccess:
		in = a.expr(t.Index, a.expr(t.X, in))
		return a.expr(value, in)
	}
	return a.expr(value, a.expr(target, in))
}

func (a *analyzer) isFinal(f lookup.FieldID) bool {
	fb := a.env.Field(f)
	return fb != nil && fb.IsFinal()
}

// write records an assignment to a local or field and reports assignments
// to finals that may already hold a value.
func (a *analyzer) write(sym lookup.Symbol, id *ast.Ident, in *Info) {
	switch sym.Kind {
	case lookup.SymLocal:
		l := a.env.Local(lookup.LocalID(sym.ID))
		s, tracked := a.slot(sym)
		if l != nil && l.Final && (!tracked || in.IsPotentiallyAssigned(s)) {
			a.report(problem.FinalReassignment, id, id.Name)
		}
		if tracked {
			in.MarkAsDefinitelyAssigned(s)
		}
	case lookup.SymField:
		f := a.fieldID(lookup.FieldID(sym.ID))
		if !a.isFinal(f) {
			return
		}
		s, tracked := a.slot(lookup.FieldSymbol(f))
		if !tracked || !a.initializing(f) || in.IsPotentiallyAssigned(s) {
			a.report(problem.FinalFieldAssignment, id, id.Name)
			return
		}
		in.MarkAsDefinitelyAssigned(s)
	}
}

// lambda analyzes a lambda body. It starts from the state at the lambda
// and does not change the enclosing state.
func (a *analyzer) lambda(x *ast.Lambda, in *Info) {
	mc := a.memberContext(memberLambda, lookup.NoType, nil)
	mc.parent = a.ctx
	if m := a.env.Method(a.info.Methods[x]); m != nil {
		mc.result, mc.throws = m.Return, m.Throws
	}
	savedCtx, savedKind := a.ctx, a.kind
	a.ctx, a.kind = mc, memberLambda
	defer func() { a.ctx, a.kind = savedCtx, savedKind }()

	body := in.Copy()
	for _, p := range x.Params {
		if s, ok := a.declareLocal(p.Name); ok {
			body.MarkAsDefinitelyAssigned(s)
		}
	}
	switch b := x.Body.(type) {
	case *ast.Block:
		end := a.block(b, body)
		if end.Reachable() && !a.isVoid(mc.result) {
			a.report(problem.MissingReturn, x, a.env.TypeName(mc.result))
		}
	case ast.Expr:
		a.expr(b, body)
	}
}
