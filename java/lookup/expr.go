package lookup

import (
	"strings"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/problem"
)

// maxExprDepth bounds the nesting of expressions resolved in one member.
const maxExprDepth = 1000

// expr resolves an expression and records its type. target is the type the
// context expects, NoType when there is none; it types lambdas, method
// references, diamonds and generic method results.
func (r *resolver) expr(s Scope, x ast.Expr, target TypeID) TypeID {
	if x == nil {
		return NoType
	}
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > maxExprDepth {
		r.report(problem.ExpressionTooComplex, x)
		problem.Raise(problem.AbortMethod, "", "expression nested deeper than %d", maxExprDepth)
	}
	t := r.exprType(s, x, target)
	r.info.Types[x] = t
	return t
}

func (r *resolver) exprType(s Scope, x ast.Expr, target TypeID) TypeID {
	switch x := x.(type) {
	case *ast.Literal:
		return r.literal(x)
	case *ast.Name:
		return r.name(s, x)
	case *ast.FieldAccess:
		return r.fieldAccess(s, x)
	case *ast.MethodCall:
		return r.methodCall(s, x, target)
	case *ast.NewObject:
		return r.newObject(s, x, target)
	case *ast.NewArray:
		return r.newArray(s, x)
	case *ast.ArrayInit:
		r.arrayInit(s, x, target)
		return r.info.Types[x]
	case *ast.ArrayAccess:
		return r.arrayAccess(s, x)
	case *ast.Unary:
		return r.unary(s, x)
	case *ast.Binary:
		return r.binary(s, x)
	case *ast.Assign:
		return r.assign(s, x)
	case *ast.Conditional:
		return r.conditional(s, x, target)
	case *ast.Cast:
		return r.cast(s, x)
	case *ast.InstanceOf:
		return r.instanceOf(s, x)
	case *ast.This:
		return r.this(s, x)
	case *ast.Super:
		return r.superType(s, x)
	case *ast.ClassLit:
		return r.classLit(s, x)
	case *ast.Lambda:
		return r.lambda(s, x, target)
	case *ast.MethodRef:
		return r.methodRef(s, x, target)
	case *ast.SwitchExpr:
		return r.switchExpr(s, x, target)
	case *ast.Paren:
		t := r.expr(s, x.X, target)
		if c, ok := r.info.ConstantOf(x.X); ok {
			r.info.Constants[x] = c
		}
		return t
	case *ast.TypeExpr:
		return r.resolveType(s, x.Type)
	case *ast.TypePattern, *ast.RecordPattern:
		return r.pattern(s, x, NoType)
	case *ast.Annotation:
		return NoType
	case *ast.BadExpr:
		return NoType
	}
	log.Debugf("unhandled expression %T", x)
	return NoType
}

// coerce checks that the resolved expression x can be assigned to a
// variable of type to and records the conversion it needs.
func (r *resolver) coerce(x ast.Expr, to TypeID) {
	e := r.env
	from := r.info.Types[x]
	if from == NoType || to == NoType || e.Kind(from) == KindMissing || e.Kind(to) == KindMissing {
		return
	}
	if e.Prim(from) == constant.TVoid {
		r.report(problem.IncompatibleTypes, x, "void", e.TypeName(to))
		return
	}
	c := r.info.Constants[x]
	if !e.IsAssignable(from, to, c) {
		r.report(problem.IncompatibleTypes, x, e.TypeName(from), e.TypeName(to))
		return
	}
	if from != to && (e.Prim(from) != constant.TUndefined || e.Prim(to) != constant.TUndefined) {
		r.info.Conversions[x] = to
	}
}

// convert records a numeric promotion of an operand.
func (r *resolver) convert(x ast.Expr, to constant.TypeID) {
	t := r.env.Base(to)
	if r.info.Types[x] != t {
		r.info.Conversions[x] = t
	}
}

// primOf returns the primitive type of t or of the primitive it boxes.
func (r *resolver) primOf(t TypeID) constant.TypeID {
	e := r.env
	if p := e.Prim(t); p != constant.TUndefined {
		return p
	}
	return e.Prim(e.Unbox(t))
}

func (r *resolver) isString(t TypeID) bool {
	s := r.env.StringType()
	return t != NoType && s != NoType && r.env.Resolve(t) == s
}

func (r *resolver) literal(x *ast.Literal) TypeID {
	e := r.env
	typ := r.literalType(x.LitKind)
	c, err := constant.FromLiteral(x.LitKind, x.Raw, false)
	if err != nil {
		switch x.LitKind {
		case ast.IntLit, ast.LongLit:
			r.report(problem.IntegerOutOfRange, x, x.Raw, e.TypeName(typ))
		}
		return typ
	}
	if c.IsValid() {
		r.info.Constants[x] = c
	}
	return typ
}

func (r *resolver) literalType(k ast.LiteralKind) TypeID {
	e := r.env
	switch k {
	case ast.IntLit:
		return e.Base(constant.TInt)
	case ast.LongLit:
		return e.Base(constant.TLong)
	case ast.FloatLit:
		return e.Base(constant.TFloat)
	case ast.DoubleLit:
		return e.Base(constant.TDouble)
	case ast.CharLit:
		return e.Base(constant.TChar)
	case ast.StringLit, ast.TextBlockLit:
		return e.StringType()
	case ast.BoolLit:
		return e.Base(constant.TBoolean)
	}
	return e.Base(constant.TNull)
}

// findVariable looks a simple name up as a local or a field, from s
// outward. static tells whether a static context lies between s and the
// type declaring the field.
func (r *resolver) findVariable(s Scope, name string) (sym Symbol, static bool) {
	e := r.env
	for sc := s; sc != nil; sc = sc.Parent() {
		switch sc := sc.(type) {
		case *BlockScope:
			if id, ok := sc.locals[name]; ok {
				return LocalSymbol(id), false
			}
		case *MethodScope:
			if id, ok := sc.locals[name]; ok {
				return LocalSymbol(id), false
			}
			if sc.Static && !sc.Lambda {
				static = true
			}
		case *ClassScope:
			if f := e.FindField(sc.Type, name); f != 0 {
				return FieldSymbol(f), static
			}
			if tb := e.Type(sc.Type); tb.Modifiers.IsStatic() {
				static = true
			}
		case *CompilationUnitScope:
			sc.resolveImports()
			for _, t := range sc.staticSingle[name] {
				if f := e.FindField(t, name); f != 0 && e.Field(f).IsStatic() {
					return FieldSymbol(f), false
				}
			}
			for _, t := range sc.staticOnDemand {
				if f := e.FindField(t, name); f != 0 && e.Field(f).IsStatic() {
					return FieldSymbol(f), false
				}
			}
		}
	}
	return Symbol{}, false
}

func (r *resolver) name(s Scope, x *ast.Name) TypeID {
	e := r.env
	name := x.Ident.Name
	sym, static := r.findVariable(s, name)
	switch sym.Kind {
	case SymLocal:
		l := e.Local(LocalID(sym.ID))
		r.info.Uses[x.Ident] = sym
		if l.Constant.IsValid() {
			r.info.Constants[x] = l.Constant
		}
		return l.Type
	case SymField:
		f := FieldID(sym.ID)
		fb := e.Field(f)
		if static && !fb.IsStatic() {
			r.report(problem.NonStaticFromStatic, x, "field", name)
		}
		r.useField(s, x, x.Ident, f)
		return fb.Type
	}
	r.report(problem.UndefinedName, x, name)
	return NoType
}

// useField records a field reference and checks its visibility.
func (r *resolver) useField(s Scope, x ast.Expr, id *ast.Ident, f FieldID) {
	e := r.env
	fb := e.Field(f)
	from := r.currentType(s)
	if fb.Declaring != NoType && !e.IsVisible(fb.Modifiers, fb.Declaring, from) {
		r.report(problem.NotVisible, id, "field", fb.Name)
	}
	r.deprecated(id, fb.Modifiers, "field", e.TypeName(fb.Declaring)+"."+fb.Name, from, fb.Declaring)
	r.info.Fields[x] = f
	r.info.Uses[id] = FieldSymbol(f)
	if c := e.FieldConstant(f); c.IsValid() {
		r.info.Constants[x] = c
	}
}

type qualKind uint8

const (
	qualError qualKind = iota
	qualValue
	qualType
	qualPackage
)

// qualifier classifies the expression to the left of a dot: a value, a
// type or a package. Values and types are resolved and recorded.
func (r *resolver) qualifier(s Scope, x ast.Expr) (qualKind, TypeID, string) {
	e := r.env
	switch q := x.(type) {
	case *ast.Name:
		name := q.Ident.Name
		if sym, _ := r.findVariable(s, name); sym.Kind != SymNone {
			return qualValue, r.expr(s, q, NoType), ""
		}
		if t := e.lookupType(s, name); t != NoType {
			r.useType(s, q.Ident, t)
			return qualType, t, ""
		}
		return qualPackage, NoType, name
	case *ast.FieldAccess:
		if _, ok := q.X.(*ast.Super); ok {
			return qualValue, r.expr(s, q, NoType), ""
		}
		k, t, pkg := r.qualifier(s, q.X)
		name := q.Name.Name
		switch k {
		case qualPackage:
			full := pkg + "." + name
			if id, ok := e.TypeByName(full); ok {
				r.useType(s, q.Name, id)
				return qualType, id, ""
			}
			return qualPackage, NoType, full
		case qualType:
			if e.FindField(t, name) == 0 {
				if m := e.MemberType(t, name); m != NoType {
					r.useType(s, q.Name, m)
					return qualType, m, ""
				}
			}
			ft := r.selectField(s, q, t, true)
			r.info.Types[q] = ft
			if ft == NoType {
				return qualError, NoType, ""
			}
			return qualValue, ft, ""
		case qualValue:
			ft := r.selectField(s, q, t, false)
			r.info.Types[q] = ft
			if ft == NoType {
				return qualError, NoType, ""
			}
			return qualValue, ft, ""
		}
		return qualError, NoType, ""
	}
	t := r.expr(s, x, NoType)
	if t == NoType {
		return qualError, NoType, ""
	}
	return qualValue, t, ""
}

func (r *resolver) useType(s Scope, id *ast.Ident, t TypeID) {
	e := r.env
	r.info.Uses[id] = TypeSymbol(t)
	from := r.currentType(s)
	if !e.isTypeVisible(t, from) {
		r.report(problem.NotVisible, id, "type", e.TypeName(t))
	}
	r.deprecated(id, e.Type(t).Modifiers, "type", e.TypeName(t), from, t)
}

func (r *resolver) fieldAccess(s Scope, x *ast.FieldAccess) TypeID {
	if sup, ok := x.X.(*ast.Super); ok {
		t := r.expr(s, sup, NoType)
		return r.selectField(s, x, t, false)
	}
	k, t, pkg := r.qualifier(s, x.X)
	switch k {
	case qualValue:
		return r.selectField(s, x, t, false)
	case qualType:
		return r.selectField(s, x, t, true)
	case qualPackage:
		if _, ok := r.env.TypeByName(pkg + "." + x.Name.Name); ok {
			r.report(problem.UndefinedName, x, pkg+"."+x.Name.Name)
			return NoType
		}
		r.report(problem.UndefinedName, x.X, pkg)
	}
	return NoType
}

// selectField resolves the field x.Name of a value of type t, or of the
// type t itself when static is set.
func (r *resolver) selectField(s Scope, x *ast.FieldAccess, t TypeID, static bool) TypeID {
	e := r.env
	name := x.Name.Name
	if t == NoType || e.Kind(t) == KindMissing {
		return NoType
	}
	if e.Prim(t) != constant.TUndefined {
		r.report(problem.UndefinedField, x.Name, name)
		return NoType
	}
	if e.Kind(t) == KindParameterized {
		t = e.Capture(t)
	}
	f := e.FindField(t, name)
	if f == 0 {
		r.report(problem.UndefinedField, x.Name, name)
		return NoType
	}
	fb := e.Field(f)
	if static && !fb.IsStatic() {
		r.report(problem.NonStaticFromStatic, x.Name, "field", name)
	}
	r.useField(s, x, x.Name, f)
	return fb.Type
}

// args resolves the actual arguments of an invocation except lambdas and
// method references, which need the parameter type first.
func (r *resolver) args(s Scope, xs []ast.Expr) []Arg {
	e := r.env
	out := make([]Arg, len(xs))
	for i, x := range xs {
		switch f := ast.Unparen(x).(type) {
		case *ast.Lambda:
			value, void := lambdaShape(f)
			out[i] = Arg{Functional: true, Arity: len(f.Params), Value: value, Void: void}
			continue
		case *ast.MethodRef:
			out[i] = Arg{Functional: true, Arity: -1, Value: true, Void: true}
			continue
		}
		t := r.expr(s, x, NoType)
		if r.isPoly(x) {
			t = e.Erasure(t)
		}
		out[i] = Arg{Type: t, Constant: r.info.Constants[x]}
	}
	return out
}

// isPoly reports whether an argument's type depends on its invocation
// context: diamonds and calls of generic methods.
func (r *resolver) isPoly(x ast.Expr) bool {
	e := r.env
	switch x := ast.Unparen(x).(type) {
	case *ast.NewObject:
		return x.Type != nil && x.Type.Diamond && x.Body == nil
	case *ast.MethodCall:
		m := e.Method(r.info.Methods[x])
		if m == nil {
			return false
		}
		orig := e.Method(m.Original)
		return orig != nil && len(orig.TypeVars) > 0 && e.isGenericType(orig.Return)
	}
	return false
}

// lambdaShape tells whether a lambda body can produce a value and whether
// it can complete without one.
func lambdaShape(l *ast.Lambda) (value, void bool) {
	switch b := l.Body.(type) {
	case *ast.Block:
		returns, values := 0, 0
		ast.Inspect(b, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.Lambda, *ast.TypeDecl:
				return false
			case *ast.ReturnStmt:
				returns++
				if n.Result != nil {
					values++
				}
			}
			return true
		})
		if values > 0 {
			return true, false
		}
		if returns == 0 && len(b.Stmts) > 0 {
			if _, ok := b.Stmts[len(b.Stmts)-1].(*ast.ThrowStmt); ok {
				return true, true
			}
		}
		return false, true
	case ast.Expr:
		switch ast.Unparen(b).(type) {
		case *ast.MethodCall, *ast.Assign, *ast.NewObject:
			return true, true
		case *ast.Unary:
			op := ast.Unparen(b).(*ast.Unary).Op
			return true, op == ast.OpInc || op == ast.OpDec
		}
		return true, false
	}
	return false, true
}

// invoke selects the method or constructor an invocation calls and reports
// why none could be found.
func (r *resolver) invoke(s Scope, at ast.Node, name string, cands []MethodID, args []Arg, recv, target, from TypeID, ctor bool) MethodID {
	e := r.env
	m, pid := e.FindMethod(cands, args, from, target)
	switch pid {
	case 0:
		r.deprecated(at, e.Method(m).Modifiers, "method", e.MethodName(m), from, e.Method(m).Declaring)
		return m
	case problem.NotVisible:
		kind := "method"
		if ctor {
			kind = "constructor"
		}
		r.report(problem.NotVisible, at, kind, e.MethodName(m))
		return m
	case problem.AmbiguousMethod:
		r.report(problem.AmbiguousMethod, at, name, r.argNames(args), e.TypeName(recv))
		return m
	}
	for _, a := range args {
		if !a.Functional && (a.Type == NoType || e.Kind(a.Type) == KindMissing) {
			return 0
		}
	}
	if ctor {
		r.report(problem.UndefinedConstructor, at, name, r.argNames(args))
	} else {
		r.report(problem.UndefinedMethod, at, name, r.argNames(args), e.TypeName(recv))
	}
	return 0
}

func (r *resolver) argNames(args []Arg) string {
	names := make([]string, len(args))
	for i, a := range args {
		switch {
		case a.Functional && a.Arity < 0:
			names[i] = "method reference"
		case a.Functional:
			names[i] = "lambda"
		default:
			names[i] = r.env.TypeName(a.Type)
		}
	}
	return strings.Join(names, ", ")
}

// checkArgs resolves functional arguments against the parameter types of
// the selected method and records argument conversions.
func (r *resolver) checkArgs(s Scope, at ast.Node, xs []ast.Expr, args []Arg, m MethodID) {
	e := r.env
	mb := e.Method(m)
	n := len(mb.Params)
	varargs := false
	if mb.IsVarargs() && n > 0 {
		switch {
		case len(xs) != n:
			varargs = true
		default:
			last := args[n-1]
			varargs = !last.Functional && last.Type != NoType && !e.IsCompatible(last.Type, mb.Params[n-1])
		}
	}
	if varargs {
		r.info.Varargs[at] = true
	}
	for i, x := range xs {
		var p TypeID
		switch {
		case varargs && i >= n-1:
			p = e.ElementType(mb.Params[n-1])
		case i < n:
			p = mb.Params[i]
		}
		if args[i].Functional {
			r.expr(s, x, p)
			continue
		}
		if r.isPoly(x) && p != NoType && e.Prim(p) == constant.TUndefined && e.IsSubtype(r.info.Types[x], e.Erasure(p)) {
			r.info.Types[x] = p
			continue
		}
		r.coerce(x, p)
	}
}

// leftovers resolves the functional arguments of an invocation that could
// not be bound, without a target.
func (r *resolver) leftovers(s Scope, xs []ast.Expr, args []Arg) {
	for i, x := range xs {
		if args[i].Functional {
			r.expr(s, x, NoType)
		}
	}
}

// findMethods collects the methods an unqualified invocation may call: the
// members of the innermost enclosing class that has a method of that name,
// else the statically imported ones.
func (r *resolver) findMethods(s Scope, name string) (cands []MethodID, recv TypeID, static bool) {
	e := r.env
	for sc := s; sc != nil; sc = sc.Parent() {
		switch sc := sc.(type) {
		case *MethodScope:
			if sc.Static && !sc.Lambda {
				static = true
			}
		case *ClassScope:
			if ms := e.Methods(sc.Type, name); len(ms) > 0 {
				return ms, sc.Type, static
			}
			if e.Type(sc.Type).Modifiers.IsStatic() {
				static = true
			}
		case *CompilationUnitScope:
			sc.resolveImports()
			var owners []TypeID
			owners = append(owners, sc.staticSingle[name]...)
			owners = append(owners, sc.staticOnDemand...)
			for _, t := range owners {
				for _, m := range e.Methods(t, name) {
					if e.Method(m).IsStatic() {
						cands = append(cands, m)
						if recv == NoType {
							recv = t
						}
					}
				}
			}
			return cands, recv, false
		}
	}
	return nil, NoType, false
}

func (r *resolver) methodCall(s Scope, x *ast.MethodCall, target TypeID) TypeID {
	e := r.env
	name := x.Name.Name
	var (
		cands    []MethodID
		recv     TypeID
		static   bool
		implicit bool
	)
	switch q := x.X.(type) {
	case nil:
		cands, recv, implicit = r.findMethods(s, name)
		if recv == NoType {
			recv = r.currentType(s)
		}
	case *ast.Super:
		recv = r.expr(s, q, NoType)
		if recv != NoType {
			cands = e.Methods(recv, name)
		}
	default:
		k, t, pkg := r.qualifier(s, q)
		switch k {
		case qualPackage:
			r.report(problem.UndefinedName, q, pkg)
			r.leftovers(s, x.Args, r.args(s, x.Args))
			return NoType
		case qualType:
			static = true
		}
		recv = t
		if recv == NoType || e.Kind(recv) == KindMissing {
			r.leftovers(s, x.Args, r.args(s, x.Args))
			return NoType
		}
		if e.Prim(recv) != constant.TUndefined {
			args := r.args(s, x.Args)
			r.report(problem.UndefinedMethod, x.Name, name, r.argNames(args), e.TypeName(recv))
			r.leftovers(s, x.Args, args)
			return NoType
		}
		cands = e.Methods(e.Capture(recv), name)
	}
	args := r.args(s, x.Args)
	m := r.invoke(s, x.Name, name, cands, args, recv, target, r.currentType(s), false)
	if m == 0 {
		r.leftovers(s, x.Args, args)
		return NoType
	}
	mb := e.Method(m)
	if (static || implicit) && !mb.IsStatic() {
		r.report(problem.NonStaticFromStatic, x.Name, "method", e.MethodName(m))
	}
	r.info.Methods[x] = m
	r.info.Uses[x.Name] = MethodSymbol(m)
	r.checkArgs(s, x, x.Args, args, m)
	if name == "getClass" && len(x.Args) == 0 && !static {
		return r.classOf(e.Wildcard(e.Erasure(recv), ExtendsBound))
	}
	return mb.Return
}

// classOf returns Class<arg>.
func (r *resolver) classOf(arg TypeID) TypeID {
	e := r.env
	cls := e.WellKnown("java.lang.Class")
	if cls == NoType || len(e.Type(cls).TypeVars) == 0 {
		return cls
	}
	return e.Parameterize(cls, []TypeID{arg}, NoType)
}

func (r *resolver) newObject(s Scope, x *ast.NewObject, target TypeID) TypeID {
	e := r.env
	var t TypeID
	if x.Outer != nil {
		outer := r.expr(s, x.Outer, NoType)
		if outer != NoType {
			t = e.MemberType(e.Declared(outer), x.Type.Name.Name)
			if t == NoType {
				r.report(problem.UndefinedType, x.Type, x.Type.Name.Name)
			}
		}
		r.info.TypeRefs[x.Type] = t
	} else {
		t = r.resolveClassType(s, x.Type, x.Type.Diamond)
		r.info.TypeRefs[x.Type] = t
	}
	args := r.args(s, x.Args)
	if t == NoType || e.Kind(t) == KindMissing || e.Kind(t) == KindTypeVariable {
		if e.Kind(t) == KindTypeVariable {
			r.report(problem.AbstractInstantiation, x.Type, e.TypeName(t))
		}
		r.leftovers(s, x.Args, args)
		if x.Body != nil {
			body := e.buildLocalType(r.us, x.Body, s)
			e.completeAnonymous(body, NoType)
			r.info.LocalTypes[x.Body] = body
			r.typeDecl(x.Body)
		}
		return NoType
	}
	decl := e.Type(e.Declared(t))
	if x.Type.Diamond {
		t = r.inferDiamond(t, args, target)
	}
	if x.Body == nil && (decl.Modifiers.Has(ModAbstract) || decl.Modifiers.Has(ModEnum)) {
		r.report(problem.AbstractInstantiation, x.Type, e.TypeName(decl.ID))
	}
	result := t
	from := r.currentType(s)
	if x.Body != nil {
		body := e.buildLocalType(r.us, x.Body, s)
		e.completeAnonymous(body, t)
		r.info.LocalTypes[x.Body] = body
		result, from = body, body
	}
	if decl.IsInterface() {
		if len(x.Args) > 0 {
			r.report(problem.UndefinedConstructor, x.Type, "Object", r.argNames(args))
		}
		r.leftovers(s, x.Args, args)
	} else {
		m := r.invoke(s, x.Type, decl.Name, e.Methods(t, "<init>"), args, t, NoType, from, true)
		if m != 0 {
			r.info.Methods[x] = m
			r.checkArgs(s, x, x.Args, args, m)
		} else {
			r.leftovers(s, x.Args, args)
		}
	}
	if x.Body != nil {
		r.typeDecl(x.Body)
	}
	return result
}

// inferDiamond infers the type arguments of new C<>(args) from the
// constructor arguments and then from the target type.
func (r *resolver) inferDiamond(generic TypeID, args []Arg, target TypeID) TypeID {
	e := r.env
	g := e.Type(generic)
	if len(g.TypeVars) == 0 {
		return generic
	}
	inferred := make(map[TypeID]TypeID)
	for _, c := range e.Methods(generic, "<init>") {
		mb := e.Method(c)
		n := len(mb.Params)
		if n != len(args) && !(mb.IsVarargs() && len(args) >= n-1) {
			continue
		}
		for i, a := range args {
			if a.Functional || a.Type == NoType || n == 0 {
				continue
			}
			p := mb.Params[min(i, n-1)]
			if mb.IsVarargs() && i >= n-1 && !(len(args) == n && e.Kind(a.Type) == KindArray) {
				p = e.ElementType(mb.Params[n-1])
			}
			e.inferFrom(p, a.Type, g.TypeVars, inferred)
		}
		break
	}
	if target != NoType && e.IsReference(target) {
		self := e.Parameterize(generic, g.TypeVars, NoType)
		e.inferFrom(self, target, g.TypeVars, inferred)
	}
	targs := make([]TypeID, len(g.TypeVars))
	for i, v := range g.TypeVars {
		a, ok := inferred[v]
		switch {
		case !ok:
			a = e.Erasure(v)
		case e.Kind(a) == KindWildcard:
			if wb := e.Type(a); wb.BoundKind != Unbounded {
				a = wb.Bound
			} else {
				a = e.Erasure(v)
			}
		}
		targs[i] = a
	}
	return e.Parameterize(generic, targs, NoType)
}

func (r *resolver) newArray(s Scope, x *ast.NewArray) TypeID {
	e := r.env
	elem := r.resolveType(s, x.Elem)
	for _, d := range x.DimExprs {
		r.index(s, d)
	}
	if elem == NoType {
		if x.Init != nil {
			r.arrayInit(s, x.Init, NoType)
		}
		return NoType
	}
	typ := e.Array(elem, len(x.DimExprs)+x.ExtraDims)
	if x.Init != nil {
		r.arrayInit(s, x.Init, typ)
	}
	return typ
}

// index resolves an array index or dimension, which must promote to int.
func (r *resolver) index(s Scope, x ast.Expr) {
	e := r.env
	t := r.expr(s, x, NoType)
	if t == NoType {
		return
	}
	if constant.PromoteUnary(r.primOf(t)) != constant.TInt {
		r.report(problem.IncompatibleTypes, x, e.TypeName(t), "int")
		return
	}
	r.convert(x, constant.TInt)
}

func (r *resolver) arrayInit(s Scope, x *ast.ArrayInit, typ TypeID) {
	e := r.env
	if typ != NoType && e.Kind(typ) != KindArray {
		r.report(problem.IncompatibleTypes, x, "array initializer", e.TypeName(typ))
		typ = NoType
	}
	elem := e.ElementType(typ)
	for _, el := range x.Elems {
		r.initializer(s, el, elem)
	}
	r.info.Types[x] = typ
}

func (r *resolver) arrayAccess(s Scope, x *ast.ArrayAccess) TypeID {
	e := r.env
	t := r.expr(s, x.X, NoType)
	r.index(s, x.Index)
	if t == NoType || e.Kind(t) == KindMissing {
		return NoType
	}
	if e.Kind(t) != KindArray {
		r.report(problem.NotAnArray, x.X, e.TypeName(t))
		return NoType
	}
	return e.ElementType(t)
}

func (r *resolver) unary(s Scope, x *ast.Unary) TypeID {
	e := r.env
	if x.Op == ast.OpNeg {
		if lit, ok := ast.Unparen(x.X).(*ast.Literal); ok && (lit.LitKind == ast.IntLit || lit.LitKind == ast.LongLit) {
			return r.negatedLiteral(x, lit)
		}
	}
	t := r.expr(s, x.X, NoType)
	if t == NoType {
		return NoType
	}
	p := r.primOf(t)
	bad := func() TypeID {
		r.report(problem.InvalidOperator, x, x.Op.String(), e.TypeName(t))
		return NoType
	}
	switch x.Op {
	case ast.OpInc, ast.OpDec:
		if !p.IsNumeric() {
			return bad()
		}
		r.noteAssign(x.X)
		return t
	case ast.OpNot:
		if p != constant.TBoolean {
			return bad()
		}
		r.convert(x.X, constant.TBoolean)
		if c, ok := r.info.ConstantOf(x.X); ok {
			if v, ok := constant.UnaryOp(x.Op, c, constant.TBoolean); ok {
				r.info.Constants[x] = v
			}
		}
		return e.Base(constant.TBoolean)
	}
	pt := constant.PromoteUnary(p)
	if pt == constant.TUndefined || x.Op == ast.OpBitNot && !pt.IsIntegral() {
		return bad()
	}
	r.convert(x.X, pt)
	if c, ok := r.info.ConstantOf(x.X); ok {
		if v, ok := constant.UnaryOp(x.Op, c, pt); ok {
			r.info.Constants[x] = v
		}
	}
	return e.Base(pt)
}

// negatedLiteral evaluates -lit, which admits the magnitude of the most
// negative int and long.
func (r *resolver) negatedLiteral(x *ast.Unary, lit *ast.Literal) TypeID {
	e := r.env
	typ := r.literalType(lit.LitKind)
	r.info.Types[lit] = typ
	if p, ok := x.X.(*ast.Paren); ok {
		r.info.Types[p] = typ
	}
	c, err := constant.FromLiteral(lit.LitKind, lit.Raw, true)
	if err != nil {
		r.report(problem.IntegerOutOfRange, x, "-"+lit.Raw, e.TypeName(typ))
		return typ
	}
	r.info.Constants[x] = c
	if v, ok := constant.UnaryOp(ast.OpNeg, c, e.Prim(typ)); ok {
		r.info.Constants[lit] = v
	}
	return typ
}

func (r *resolver) binary(s Scope, x *ast.Binary) TypeID {
	e := r.env
	lt := r.expr(s, x.X, NoType)
	rt := r.expr(s, x.Y, NoType)
	boolean := e.Base(constant.TBoolean)
	if lt == NoType || rt == NoType {
		if x.Op.IsComparison() || x.Op == ast.OpAndAnd || x.Op == ast.OpOrOr {
			return boolean
		}
		return NoType
	}
	lp, rp := r.primOf(lt), r.primOf(rt)
	bad := func() TypeID {
		r.report(problem.InvalidOperator, x, x.Op.String(), e.TypeName(lt)+", "+e.TypeName(rt))
		return NoType
	}
	fold := func(typ constant.TypeID) {
		lc, ok1 := r.info.ConstantOf(x.X)
		rc, ok2 := r.info.ConstantOf(x.Y)
		if !ok1 || !ok2 {
			return
		}
		if v, ok := constant.BinaryOp(x.Op, lc, rc, typ); ok {
			r.info.Constants[x] = v
		}
	}
	if lp == constant.TVoid || rp == constant.TVoid {
		return bad()
	}
	switch op := x.Op; {
	case op == ast.OpAndAnd || op == ast.OpOrOr:
		if lp != constant.TBoolean || rp != constant.TBoolean {
			return bad()
		}
		r.convert(x.X, constant.TBoolean)
		r.convert(x.Y, constant.TBoolean)
		fold(constant.TBoolean)
		return boolean
	case op == ast.OpAdd && (r.isString(lt) || r.isString(rt)):
		fold(constant.TString)
		return e.StringType()
	case op == ast.OpAdd || op == ast.OpSub || op == ast.OpMul || op == ast.OpDiv || op == ast.OpRem:
		pt := constant.PromoteBinary(lp, rp)
		if pt == constant.TUndefined {
			return bad()
		}
		r.convert(x.X, pt)
		r.convert(x.Y, pt)
		fold(pt)
		return e.Base(pt)
	case op.IsShift():
		lpt, rpt := constant.PromoteUnary(lp), constant.PromoteUnary(rp)
		if !lpt.IsIntegral() || !rpt.IsIntegral() {
			return bad()
		}
		r.convert(x.X, lpt)
		r.convert(x.Y, rpt)
		fold(lpt)
		return e.Base(lpt)
	case op == ast.OpLT || op == ast.OpGT || op == ast.OpLE || op == ast.OpGE:
		pt := constant.PromoteBinary(lp, rp)
		if pt == constant.TUndefined {
			return bad()
		}
		r.convert(x.X, pt)
		r.convert(x.Y, pt)
		fold(pt)
		return boolean
	case op == ast.OpEQ || op == ast.OpNE:
		lref, rref := e.Prim(lt) == constant.TUndefined, e.Prim(rt) == constant.TUndefined
		switch {
		case lp.IsNumeric() && rp.IsNumeric() && !(lref && rref):
			pt := constant.PromoteBinary(lp, rp)
			r.convert(x.X, pt)
			r.convert(x.Y, pt)
			fold(pt)
		case lp == constant.TBoolean && rp == constant.TBoolean && !(lref && rref):
			r.convert(x.X, constant.TBoolean)
			r.convert(x.Y, constant.TBoolean)
			fold(constant.TBoolean)
		case lref && rref:
			if !e.IsCastable(lt, rt) && !e.IsCastable(rt, lt) {
				r.report(problem.IncompatibleInstanceof, x, e.TypeName(lt), e.TypeName(rt))
			}
		default:
			return bad()
		}
		return boolean
	case op == ast.OpAnd || op == ast.OpOr || op == ast.OpXor:
		switch {
		case lp == constant.TBoolean && rp == constant.TBoolean:
			r.convert(x.X, constant.TBoolean)
			r.convert(x.Y, constant.TBoolean)
			fold(constant.TBoolean)
			return boolean
		case lp.IsIntegral() && rp.IsIntegral():
			pt := constant.PromoteBinary(lp, rp)
			r.convert(x.X, pt)
			r.convert(x.Y, pt)
			fold(pt)
			return e.Base(pt)
		}
		return bad()
	}
	return bad()
}

// noteAssign counts assignments to locals for effective finality.
func (r *resolver) noteAssign(target ast.Expr) {
	if n, ok := ast.Unparen(target).(*ast.Name); ok {
		if sym, ok := r.info.Uses[n.Ident]; ok && sym.Kind == SymLocal {
			r.assigned[LocalID(sym.ID)]++
		}
	}
}

func isVariable(x ast.Expr) bool {
	switch ast.Unparen(x).(type) {
	case *ast.Name, *ast.FieldAccess, *ast.ArrayAccess:
		return true
	}
	return false
}

func (r *resolver) assign(s Scope, x *ast.Assign) TypeID {
	e := r.env
	tt := r.expr(s, x.Target, NoType)
	delete(r.info.Constants, x.Target)
	if !isVariable(x.Target) {
		r.report(problem.InvalidOperator, x, x.Op.String(), e.TypeName(tt))
	}
	r.noteAssign(x.Target)
	if x.Op == ast.OpAssign {
		if ai, ok := x.Value.(*ast.ArrayInit); ok {
			r.arrayInit(s, ai, tt)
			return tt
		}
		r.expr(s, x.Value, tt)
		r.coerce(x.Value, tt)
		return tt
	}
	vt := r.expr(s, x.Value, NoType)
	if tt == NoType || vt == NoType {
		return tt
	}
	op := x.Op.Binary()
	lp, rp := r.primOf(tt), r.primOf(vt)
	ok := false
	switch {
	case op == ast.OpAdd && r.isString(tt):
		ok = rp != constant.TVoid
	case op.IsShift():
		ok = constant.PromoteUnary(lp).IsIntegral() && constant.PromoteUnary(rp).IsIntegral()
	case op == ast.OpAnd || op == ast.OpOr || op == ast.OpXor:
		ok = lp == constant.TBoolean && rp == constant.TBoolean || lp.IsIntegral() && rp.IsIntegral()
	default:
		ok = lp.IsNumeric() && rp.IsNumeric()
	}
	if !ok {
		r.report(problem.InvalidOperator, x, op.String(), e.TypeName(tt)+", "+e.TypeName(vt))
	}
	return tt
}

func (r *resolver) conditional(s Scope, x *ast.Conditional, target TypeID) TypeID {
	e := r.env
	r.condition(s, x.Cond)
	tt := r.expr(s, x.Then, target)
	et := r.expr(s, x.Else, target)
	typ := r.unify([]ast.Expr{x.Then, x.Else}, target)
	if typ == NoType {
		return NoType
	}
	if tt != NoType {
		r.coerce(x.Then, typ)
	}
	if et != NoType {
		r.coerce(x.Else, typ)
	}
	cond, ok1 := r.info.ConstantOf(x.Cond)
	tc, ok2 := r.info.ConstantOf(x.Then)
	ec, ok3 := r.info.ConstantOf(x.Else)
	if ok1 && ok2 && ok3 {
		v := ec
		if cond.Bool() {
			v = tc
		}
		if p := e.Prim(typ); p != constant.TUndefined {
			v, _ = constant.CastTo(v, p)
		}
		if v.IsValid() {
			r.info.Constants[x] = v
		}
	}
	return typ
}

// unify computes the type of a conditional or switch expression from the
// types of its result expressions.
func (r *resolver) unify(xs []ast.Expr, target TypeID) TypeID {
	e := r.env
	var types []TypeID
	var exprs []ast.Expr
	for _, x := range xs {
		if t := r.info.Types[x]; t != NoType {
			types = append(types, t)
			exprs = append(exprs, x)
		}
	}
	if len(types) == 0 {
		return target
	}
	same := true
	for _, t := range types[1:] {
		same = same && e.isSame(t, types[0])
	}
	if same {
		return types[0]
	}
	allBool, allNum := true, true
	for _, t := range types {
		p := r.primOf(t)
		allBool = allBool && p == constant.TBoolean
		allNum = allNum && p.IsNumeric()
	}
	switch {
	case allBool:
		return e.Base(constant.TBoolean)
	case allNum:
		return e.Base(r.numericResult(types, exprs))
	}
	if target != NoType && e.IsReference(target) {
		return target
	}
	var refs []TypeID
	for _, t := range types {
		switch {
		case e.Kind(t) == KindNull:
		case e.Prim(t) != constant.TUndefined:
			refs = append(refs, e.Box(t))
		default:
			refs = append(refs, t)
		}
	}
	if len(refs) == 0 {
		return types[0]
	}
	return e.Lub(refs)
}

// numericResult applies the rules for numeric conditional operands: a
// narrower type absorbs int constants that fit it, otherwise binary
// promotion.
func (r *resolver) numericResult(types []TypeID, xs []ast.Expr) constant.TypeID {
	prims := make([]constant.TypeID, len(types))
	for i, t := range types {
		prims[i] = r.primOf(t)
	}
	var narrow constant.TypeID
	for i, p := range prims {
		if _, isConst := r.info.ConstantOf(xs[i]); p == constant.TInt && isConst {
			continue
		}
		if narrow == constant.TUndefined {
			narrow = p
		} else if narrow != p {
			narrow = constant.TUndefined
			break
		}
	}
	if narrow == constant.TByte || narrow == constant.TShort || narrow == constant.TChar {
		fits := true
		for i, p := range prims {
			if c, ok := r.info.ConstantOf(xs[i]); p == constant.TInt && ok && !constant.FitsIn(c, narrow) {
				fits = false
			}
		}
		if fits {
			return narrow
		}
	}
	result := prims[0]
	for _, p := range prims[1:] {
		result = constant.PromoteBinary(result, p)
	}
	return constant.PromoteUnary(result)
}

func (r *resolver) cast(s Scope, x *ast.Cast) TypeID {
	e := r.env
	typ := r.resolveType(s, x.Type)
	switch ast.Unparen(x.X).(type) {
	case *ast.Lambda, *ast.MethodRef:
		r.expr(s, x.X, typ)
		return typ
	}
	xt := r.expr(s, x.X, NoType)
	if xt == NoType || typ == NoType {
		return typ
	}
	if !e.IsCastable(xt, typ) {
		r.report(problem.InvalidCast, x, e.TypeName(xt), e.TypeName(typ))
		return typ
	}
	if c, ok := r.info.ConstantOf(x.X); ok {
		switch p := e.Prim(typ); {
		case p != constant.TUndefined:
			if v, ok := constant.CastTo(c, p); ok {
				r.info.Constants[x] = v
			}
		case r.isString(typ) && c.Kind() == constant.TString:
			r.info.Constants[x] = c
		}
	}
	return typ
}

func (r *resolver) instanceOf(s Scope, x *ast.InstanceOf) TypeID {
	e := r.env
	xt := r.expr(s, x.X, NoType)
	var typ TypeID
	if x.Pattern != nil {
		typ = r.pattern(s, x.Pattern, xt)
	} else {
		typ = r.resolveType(s, x.Type)
	}
	switch {
	case xt == NoType || typ == NoType:
	case e.Prim(xt) != constant.TUndefined || !e.IsCastable(xt, typ):
		r.report(problem.IncompatibleInstanceof, x, e.TypeName(xt), e.TypeName(typ))
	}
	return e.Base(constant.TBoolean)
}

// pattern resolves a type or record pattern matched against a value of
// type matched and declares its binding variables.
func (r *resolver) pattern(s Scope, p ast.Expr, matched TypeID) TypeID {
	e := r.env
	switch p := p.(type) {
	case *ast.TypePattern:
		typ := r.resolveType(s, p.Type)
		if _, ok := p.Type.(*ast.VarType); ok || p.Type == nil {
			typ = matched
		}
		if p.Name != nil {
			lid := r.declareLocal(s, p.Name, typ, p.Modifiers.Has(ast.ModFinal), false)
			l := e.Local(lid)
			l.Pattern = true
			r.initialized[lid] = true
		}
		r.info.Types[p] = typ
		return typ
	case *ast.RecordPattern:
		typ := r.resolveType(s, p.Type)
		comps := r.recordComponents(typ)
		for i, sub := range p.Subs {
			ct := NoType
			if i < len(comps) {
				ct = comps[i]
			}
			r.pattern(s, sub, ct)
		}
		r.info.Types[p] = typ
		return typ
	}
	return r.expr(s, p, matched)
}

// recordComponents returns the component types of a record type,
// substituted for its type arguments.
func (r *resolver) recordComponents(t TypeID) []TypeID {
	e := r.env
	decl := e.Type(e.Declared(t))
	if decl == nil || !decl.Modifiers.Has(ModRecord) {
		return nil
	}
	e.ensureMembers(decl.ID)
	var out []TypeID
	for _, f := range decl.Fields {
		if !e.Field(f).IsStatic() {
			out = append(out, e.Field(e.substitutedField(t, f)).Type)
		}
	}
	return out
}

// typeFromQualifier resolves the qualifier of this, super or a qualified
// this.
func (r *resolver) typeFromQualifier(s Scope, q *ast.QualifiedName) TypeID {
	e := r.env
	names := q.Names()
	t := e.lookupType(s, names[0])
	if t == NoType {
		if id, ok := e.TypeByName(q.String()); ok {
			return id
		}
		return NoType
	}
	for _, n := range names[1:] {
		if t = e.MemberType(t, n); t == NoType {
			return NoType
		}
	}
	return t
}

func (r *resolver) this(s Scope, x *ast.This) TypeID {
	e := r.env
	if x.Qualifier == nil {
		if isStaticContext(s) {
			r.report(problem.ThisInStaticContext, x, "this")
		}
		return r.currentType(s)
	}
	t := r.typeFromQualifier(s, x.Qualifier)
	static := false
	for sc := s; sc != nil; sc = sc.Parent() {
		switch sc := sc.(type) {
		case *MethodScope:
			if sc.Static && !sc.Lambda {
				static = true
			}
		case *ClassScope:
			if e.Declared(sc.Type) == e.Declared(t) {
				if static {
					r.report(problem.ThisInStaticContext, x, "this")
				}
				return sc.Type
			}
			if e.Type(sc.Type).Modifiers.IsStatic() {
				static = true
			}
		}
	}
	r.report(problem.UndefinedName, x, x.Qualifier.String()+".this")
	return NoType
}

// superType types super, or T.super for an enclosing class or a direct
// superinterface T.
func (r *resolver) superType(s Scope, x *ast.Super) TypeID {
	e := r.env
	if isStaticContext(s) {
		r.report(problem.ThisInStaticContext, x, "super")
	}
	cur := r.currentType(s)
	if x.Qualifier == nil {
		return e.Superclass(cur)
	}
	t := r.typeFromQualifier(s, x.Qualifier)
	if t == NoType {
		r.report(problem.UndefinedType, x.Qualifier, x.Qualifier.String())
		return NoType
	}
	if e.isInterfaceType(t) {
		return t
	}
	return e.Superclass(t)
}

func (r *resolver) classLit(s Scope, x *ast.ClassLit) TypeID {
	e := r.env
	t := r.resolveType(s, x.Type)
	var arg TypeID
	switch p := e.Prim(t); {
	case t == NoType:
		arg = e.Object()
	case p == constant.TVoid:
		arg = e.WellKnown("java.lang.Void")
	case p != constant.TUndefined:
		arg = e.Box(t)
	default:
		arg = e.Erasure(t)
	}
	return r.classOf(arg)
}

// functionalTarget returns the functional method a lambda or method
// reference implements, reporting targets that are not functional
// interfaces.
func (r *resolver) functionalTarget(x ast.Node, target TypeID) MethodID {
	e := r.env
	if target == NoType || e.Kind(target) == KindMissing {
		return 0
	}
	fm := e.FunctionalMethod(target)
	if fm == 0 {
		r.report(problem.NotAFunctionalInterface, x)
	}
	return fm
}

func (r *resolver) lambda(s Scope, x *ast.Lambda, target TypeID) TypeID {
	e := r.env
	fm := r.functionalTarget(x, target)
	ls := newLambdaScope(s)
	var fb *MethodBinding
	if fm != 0 {
		fb = e.Method(fm)
		ls.Return = fb.Return
		if len(fb.Params) != len(x.Params) {
			r.report(problem.IncompatibleTypes, x, "lambda", e.TypeName(target))
			fb = nil
		}
	}
	for i, p := range x.Params {
		typ := NoType
		_, inferred := p.Type.(*ast.VarType)
		switch {
		case p.Type != nil && !inferred:
			typ = r.resolveType(ls, paramType(p))
		case fb != nil:
			typ = e.upperBound(fb.Params[i])
		}
		lid := r.declareLocal(ls, p.Name, typ, p.Modifiers.Has(ast.ModFinal), true)
		r.initialized[lid] = true
	}
	saved := r.switches
	r.switches = nil
	switch b := x.Body.(type) {
	case *ast.Block:
		r.block(ls, b)
	case ast.Expr:
		if fb == nil || e.Prim(fb.Return) == constant.TVoid {
			r.expr(ls, b, NoType)
		} else {
			r.expr(ls, b, fb.Return)
			r.coerce(b, fb.Return)
		}
	}
	r.switches = saved
	if fm == 0 {
		return NoType
	}
	r.info.Methods[x] = fm
	return target
}

func (r *resolver) methodRef(s Scope, x *ast.MethodRef, target TypeID) TypeID {
	e := r.env
	fm := r.functionalTarget(x, target)
	var (
		recv   TypeID
		isType bool
	)
	switch q := x.X.(type) {
	case *ast.TypeExpr:
		recv, isType = r.resolveType(s, q.Type), true
		r.info.Types[q] = recv
	case *ast.Super:
		recv = r.expr(s, q, NoType)
	case ast.TypeNode:
		recv, isType = r.resolveType(s, q), true
	case ast.Expr:
		k, t, pkg := r.qualifier(s, q)
		if k == qualPackage {
			r.report(problem.UndefinedName, q, pkg)
		}
		recv = t
		isType = k == qualType
	}
	if fm == 0 || recv == NoType || e.Kind(recv) == KindMissing {
		if fm == 0 {
			return NoType
		}
		return target
	}
	fb := e.Method(fm)
	args := make([]Arg, len(fb.Params))
	for i, p := range fb.Params {
		args[i] = Arg{Type: e.upperBound(p)}
	}
	name := x.Name.Name
	from := r.currentType(s)
	var (
		m   MethodID
		pid problem.ID
	)
	switch {
	case name == "new" && e.Kind(recv) == KindArray:
		return target
	case name == "new":
		m, pid = e.FindMethod(e.Methods(recv, "<init>"), args, from, NoType)
	case isType:
		var statics, instance []MethodID
		for _, c := range e.Methods(recv, name) {
			if e.Method(c).IsStatic() {
				statics = append(statics, c)
			} else {
				instance = append(instance, c)
			}
		}
		m, pid = e.FindMethod(statics, args, from, NoType)
		if pid != 0 && len(args) > 0 && e.IsCompatible(args[0].Type, recv) {
			if m2, pid2 := e.FindMethod(instance, args[1:], from, NoType); pid2 == 0 {
				m, pid = m2, 0
			}
		}
	default:
		m, pid = e.FindMethod(e.Methods(recv, name), args, from, NoType)
	}
	switch pid {
	case 0:
	case problem.NotVisible:
		r.report(problem.NotVisible, x.Name, "method", e.MethodName(m))
	case problem.AmbiguousMethod:
		r.report(problem.AmbiguousMethod, x.Name, name, r.argNames(args), e.TypeName(recv))
	default:
		if name == "new" {
			r.report(problem.UndefinedConstructor, x.Name, e.TypeName(recv), r.argNames(args))
		} else {
			r.report(problem.UndefinedMethod, x.Name, name, r.argNames(args), e.TypeName(recv))
		}
		return target
	}
	r.info.Methods[x] = m
	r.info.Uses[x.Name] = MethodSymbol(m)
	return target
}

func (r *resolver) switchExpr(s Scope, x *ast.SwitchExpr, target TypeID) TypeID {
	sel := r.expr(s, x.Selector, NoType)
	sw := &switchTarget{target: target}
	r.switches = append(r.switches, sw)
	r.switchCases(s, sel, x.Cases, sw)
	r.switches = r.switches[:len(r.switches)-1]
	typ := r.unify(sw.results, target)
	for _, v := range sw.results {
		if r.info.Types[v] != NoType {
			r.coerce(v, typ)
		}
	}
	return typ
}
