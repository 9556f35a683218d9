package lookup

import (
	"strings"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/problem"
)

// MemberType finds a member type by simple name, declared in t or
// inherited from its supertypes.
func (e *Environment) MemberType(t TypeID, name string) TypeID {
	seen := make(map[TypeID]bool)
	var walk func(TypeID) TypeID
	walk = func(id TypeID) TypeID {
		id = e.Declared(id)
		tb := e.Type(id)
		if tb == nil || !tb.IsDeclared() || seen[id] {
			return NoType
		}
		seen[id] = true
		if tb.Kind == KindBinary {
			e.ensureMembers(id)
		}
		for _, m := range tb.MemberTypes {
			if mt := e.Type(m); mt != nil && mt.Name == name {
				return mt.ID
			}
		}
		if tb.state&completingSupertypes != 0 {
			return NoType
		}
		e.ensureSupertypes(id)
		if tb.Superclass != NoType {
			if m := walk(tb.Superclass); m != NoType {
				return m
			}
		}
		for _, i := range tb.Interfaces {
			if m := walk(i); m != NoType {
				return m
			}
		}
		return NoType
	}
	return walk(t)
}

func (e *Environment) arrayLength() FieldID {
	if id, ok := e.memberMemo[memberKey{field: true}]; ok {
		return FieldID(id)
	}
	id := e.newField(&FieldBinding{Name: "length", Modifiers: ModPublic | ModFinal, Type: e.Base(constant.TInt), constState: 2})
	e.memberMemo[memberKey{field: true}] = int32(id)
	return id
}

// IsArrayLength reports whether f is the length pseudo-field of arrays.
func (e *Environment) IsArrayLength(f FieldID) bool {
	id, ok := e.memberMemo[memberKey{field: true}]
	return ok && FieldID(id) == f
}

// FindField looks a field up in t and its supertypes. Fields of
// parameterized types have their type substituted.
func (e *Environment) FindField(t TypeID, name string) FieldID {
	seen := make(map[TypeID]bool)
	var walk func(TypeID) FieldID
	walk = func(id TypeID) FieldID {
		id = e.Resolve(id)
		tb := e.Type(id)
		if tb == nil || seen[id] {
			return 0
		}
		seen[id] = true
		switch tb.Kind {
		case KindArray:
			if name == "length" {
				return e.arrayLength()
			}
			return walk(e.Object())
		case KindTypeVariable, KindCaptured, KindIntersection:
			for _, b := range tb.Bounds {
				if f := walk(b); f != 0 {
					return f
				}
			}
			return walk(e.Object())
		}
		decl := e.Declared(id)
		e.ensureMembers(decl)
		for _, f := range e.Type(decl).Fields {
			if e.fields[f].Name == name {
				return e.substitutedField(id, f)
			}
		}
		if s := e.Superclass(id); s != NoType {
			if f := walk(s); f != 0 {
				return f
			}
		}
		for _, i := range e.SuperInterfaces(id) {
			if f := walk(i); f != 0 {
				return f
			}
		}
		return 0
	}
	return walk(t)
}

func (e *Environment) substitutedField(recv TypeID, f FieldID) FieldID {
	s := e.SubstitutionOf(recv)
	if s.IsEmpty() || e.fields[f].IsStatic() {
		return f
	}
	key := memberKey{field: true, receiver: recv, member: int32(f)}
	if id, ok := e.memberMemo[key]; ok {
		return FieldID(id)
	}
	orig := e.fields[f]
	typ := e.Substitute(s, orig.Type)
	if typ == orig.Type {
		e.memberMemo[key] = int32(f)
		return f
	}
	cp := *orig
	cp.Type = typ
	cp.Original = orig.ID
	id := e.newField(&cp)
	e.memberMemo[key] = int32(id)
	return id
}

func (e *Environment) substitutedMethod(recv TypeID, m MethodID) MethodID {
	s := e.SubstitutionOf(recv)
	if s.IsEmpty() {
		return m
	}
	key := memberKey{receiver: recv, member: int32(m)}
	if id, ok := e.memberMemo[key]; ok {
		return MethodID(id)
	}
	orig := e.methods[m]
	cp := *orig
	cp.Params = e.SubstituteAll(s, orig.Params)
	cp.Return = e.Substitute(s, orig.Return)
	cp.Throws = e.SubstituteAll(s, orig.Throws)
	cp.Original = orig.Original
	id := e.newMethod(&cp)
	e.memberMemo[key] = int32(id)
	return id
}

// Methods returns the methods named name that are members of t: declared
// or inherited and not overridden, with the type arguments of t
// substituted. Constructors are not inherited.
func (e *Environment) Methods(t TypeID, name string) []MethodID {
	var out []MethodID
	seen := make(map[TypeID]bool)
	overridden := func(m MethodID) bool {
		mb := e.methods[m]
		for _, x := range out {
			xb := e.methods[x]
			if e.sameErasures(xb.Params, mb.Params) {
				return !xb.IsAbstract() || mb.IsAbstract()
			}
		}
		return false
	}
	var walk func(TypeID, bool)
	walk = func(id TypeID, top bool) {
		id = e.Resolve(id)
		tb := e.Type(id)
		if tb == nil || seen[id] {
			return
		}
		seen[id] = true
		switch tb.Kind {
		case KindArray:
			if name == "clone" {
				out = append(out, e.arrayClone(id))
				return
			}
			walk(e.Object(), false)
			return
		case KindTypeVariable, KindCaptured, KindIntersection:
			for _, b := range tb.Bounds {
				walk(b, false)
			}
			walk(e.Object(), false)
			return
		case KindBase, KindNull, KindWildcard:
			return
		}
		decl := e.Declared(id)
		e.ensureMembers(decl)
		db := e.Type(decl)
		for _, m := range db.Methods {
			mb := e.methods[m]
			if mb.Name != name || mb.Constructor && !top {
				continue
			}
			if m = e.substitutedMethod(id, m); !overridden(m) {
				out = append(out, m)
			}
		}
		if name == "<init>" {
			return
		}
		if s := e.Superclass(id); s != NoType {
			walk(s, false)
		}
		for _, i := range e.SuperInterfaces(id) {
			walk(i, false)
		}
		if db.IsInterface() {
			walk(e.Object(), false)
		}
	}
	walk(t, true)
	return out
}

func (e *Environment) arrayClone(arr TypeID) MethodID {
	key := memberKey{receiver: arr, member: -1}
	if id, ok := e.memberMemo[key]; ok {
		return MethodID(id)
	}
	id := e.newMethod(&MethodBinding{Name: "clone", Declaring: e.Object(), Modifiers: ModPublic, Return: arr})
	e.memberMemo[key] = int32(id)
	return id
}

// HasMethodNamed reports whether t has any member method with this name.
func (e *Environment) HasMethodNamed(t TypeID, name string) bool {
	return len(e.Methods(t, name)) > 0
}

// outermost returns the top-level type enclosing t.
func (e *Environment) outermost(t TypeID) TypeID {
	for {
		tb := e.Type(e.Declared(t))
		if tb == nil || tb.Enclosing == NoType {
			return e.Declared(t)
		}
		t = tb.Enclosing
	}
}

// IsVisible reports whether a member with the given modifiers declared in
// declaring can be accessed from code in the type from.
func (e *Environment) IsVisible(mods Modifiers, declaring, from TypeID) bool {
	d := e.Type(e.Declared(declaring))
	f := e.Type(e.Declared(from))
	if d == nil || f == nil || d.Kind == KindMissing {
		return true
	}
	switch {
	case mods.Has(ModPublic):
		return true
	case mods.Has(ModPrivate):
		return e.outermost(declaring) == e.outermost(from)
	case d.Package == f.Package:
		return true
	case mods.Has(ModProtected):
		for c := f.ID; c != NoType; {
			if e.AsSuper(c, d.ID) != NoType {
				return true
			}
			cb := e.Type(c)
			c = cb.Enclosing
		}
	}
	return false
}

// isTypeVisible reports whether a type can be named from the type from.
func (e *Environment) isTypeVisible(t, from TypeID) bool {
	tb := e.Type(e.Declared(t))
	if tb == nil || !tb.IsDeclared() || from == NoType {
		return true
	}
	if tb.Enclosing == NoType {
		fb := e.Type(from)
		return tb.Modifiers.Has(ModPublic) || fb == nil || fb.Package == tb.Package
	}
	return e.IsVisible(tb.Modifiers, tb.Enclosing, from)
}

// GetExactMethod finds the method of t named selector whose parameter
// erasures are identical to the erasures of argTypes, searching t first
// and then its superclasses. Two equally exact candidates in the same type
// report AmbiguousMethod.
func (e *Environment) GetExactMethod(t TypeID, selector string, argTypes []TypeID) (MethodID, problem.ID) {
	for c := e.Resolve(t); c != NoType; c = e.Superclass(c) {
		decl := e.Declared(c)
		e.ensureMembers(decl)
		var found MethodID
		for _, m := range e.Type(decl).Methods {
			mb := e.methods[m]
			if mb.Name != selector || len(mb.Params) != len(argTypes) || !e.sameErasures(mb.Params, argTypes) {
				continue
			}
			if found != 0 {
				return 0, problem.AmbiguousMethod
			}
			found = m
		}
		if found != 0 {
			return e.substitutedMethod(c, found), 0
		}
		if selector == "<init>" {
			break
		}
	}
	return 0, problem.UndefinedMethod
}

// Arg describes an actual argument of a method invocation for overload
// resolution. Lambda and MethodRef arguments have no type of their own;
// Arity is the number of lambda parameters (-1 for method references) and
// Value tells whether a lambda body yields a value.
type Arg struct {
	Type       TypeID
	Constant   constant.Constant
	Functional bool
	Arity      int
	Value      bool
	Void       bool
}

type phase int

const (
	phaseStrict phase = iota
	phaseLoose
	phaseVarargs
)

// FindMethod selects the method to invoke among the candidates by the
// three applicability phases: strict, loose (boxing) and variable arity,
// then picks the most specific applicable method. from is the type the
// invocation appears in, for visibility; target is the type its context
// expects, NoType if none, used to infer type arguments of generic methods.
// The returned problem is 0 on success, UndefinedMethod, NotVisible or
// AmbiguousMethod otherwise.
func (e *Environment) FindMethod(candidates []MethodID, args []Arg, from, target TypeID) (MethodID, problem.ID) {
	var visible []MethodID
	for _, m := range candidates {
		mb := e.methods[m]
		if e.IsVisible(mb.Modifiers, mb.Declaring, from) {
			visible = append(visible, m)
		}
	}
	for ph := phaseStrict; ph <= phaseVarargs; ph++ {
		var applicable []MethodID
		for _, m := range visible {
			if inst, ok := e.applicable(m, args, ph, target); ok {
				applicable = append(applicable, inst)
			}
		}
		if len(applicable) == 0 {
			continue
		}
		return e.mostSpecific(applicable, ph == phaseVarargs, len(args))
	}
	if len(visible) < len(candidates) {
		for _, m := range candidates {
			for ph := phaseStrict; ph <= phaseVarargs; ph++ {
				if _, ok := e.applicable(m, args, ph, target); ok {
					return m, problem.NotVisible
				}
			}
		}
	}
	return 0, problem.UndefinedMethod
}

// applicable checks one candidate in one phase. Generic methods are
// instantiated from the argument types first.
func (e *Environment) applicable(m MethodID, args []Arg, ph phase, target TypeID) (MethodID, bool) {
	mb := e.methods[m]
	n := len(mb.Params)
	if ph == phaseVarargs {
		if !mb.IsVarargs() || len(args) < n-1 {
			return 0, false
		}
	} else if len(args) != n {
		return 0, false
	}
	if len(mb.TypeVars) > 0 {
		m = e.InferMethod(m, args, target)
		mb = e.methods[m]
	}
	for i, a := range args {
		var p TypeID
		switch {
		case ph == phaseVarargs && i >= n-1:
			p = e.ElementType(mb.Params[n-1])
		default:
			p = mb.Params[i]
		}
		if !e.argFits(a, p, ph) {
			return 0, false
		}
	}
	return m, true
}

func (e *Environment) argFits(a Arg, p TypeID, ph phase) bool {
	if a.Functional {
		fm := e.FunctionalMethod(p)
		if fm == 0 {
			return e.Kind(p) == KindMissing || p == NoType
		}
		fb := e.methods[fm]
		if a.Arity >= 0 && len(fb.Params) != a.Arity {
			return false
		}
		isVoid := e.Prim(fb.Return) == constant.TVoid
		if isVoid && !a.Void || !isVoid && !a.Value && a.Arity >= 0 {
			return false
		}
		return true
	}
	if a.Type == NoType || p == NoType {
		return true
	}
	if ph == phaseStrict {
		pa, pp := e.Prim(a.Type), e.Prim(p)
		if (pa == constant.TUndefined) != (pp == constant.TUndefined) {
			return false
		}
		return e.IsSubtype(a.Type, p) || e.IsAssignable(a.Type, p, constant.NotAConstant) && pa == constant.TUndefined
	}
	return e.IsCompatible(a.Type, p)
}

// moreSpecific reports whether m1 is at least as specific as m2 for an
// invocation with n arguments.
func (e *Environment) moreSpecific(m1, m2 MethodID, varargs bool, n int) bool {
	a, b := e.methods[m1], e.methods[m2]
	param := func(mb *MethodBinding, i int) TypeID {
		k := len(mb.Params)
		if varargs && i >= k-1 {
			return e.ElementType(mb.Params[k-1])
		}
		return mb.Params[i]
	}
	count := len(a.Params)
	if varargs {
		count = max(n, len(a.Params), len(b.Params))
	}
	for i := 0; i < count; i++ {
		pa, pb := param(a, i), param(b, i)
		if !e.IsSubtype(pa, pb) {
			return false
		}
	}
	return true
}

func (e *Environment) mostSpecific(ms []MethodID, varargs bool, n int) (MethodID, problem.ID) {
	var maximal []MethodID
	for _, m := range ms {
		best := true
		for _, o := range ms {
			if o != m && !e.moreSpecific(m, o, varargs, n) {
				best = false
				break
			}
		}
		if best {
			maximal = append(maximal, m)
		}
	}
	switch {
	case len(maximal) == 1:
		return maximal[0], 0
	case len(maximal) == 0:
		return ms[0], problem.AmbiguousMethod
	}
	for _, m := range maximal {
		if !e.methods[m].IsAbstract() {
			return m, 0
		}
	}
	first := e.methods[maximal[0]]
	for _, m := range maximal[1:] {
		if !e.sameErasures(e.methods[m].Params, first.Params) {
			return maximal[0], problem.AmbiguousMethod
		}
	}
	return maximal[0], 0
}

// FunctionalMethod returns the single abstract method of a functional
// interface type, substituted for the type's arguments, or 0 when t is
// not a functional interface.
func (e *Environment) FunctionalMethod(t TypeID) MethodID {
	tb := e.Type(t)
	if tb == nil {
		return 0
	}
	t = e.nonWildcard(t)
	decl := e.Type(e.Declared(t))
	if decl == nil || !decl.IsDeclared() || !decl.IsInterface() || decl.Modifiers.Has(ModAnnotation) {
		return 0
	}
	var found MethodID
	seen := make(map[TypeID]bool)
	var walk func(TypeID) bool
	walk = func(id TypeID) bool {
		id = e.Resolve(id)
		if seen[id] {
			return true
		}
		seen[id] = true
		d := e.Declared(id)
		e.ensureMembers(d)
		for _, m := range e.Type(d).Methods {
			mb := e.methods[m]
			if !mb.IsAbstract() || mb.IsStatic() || isObjectMethod(mb) {
				continue
			}
			sm := e.substitutedMethod(id, m)
			if found == 0 {
				found = sm
				continue
			}
			fb := e.methods[found]
			if fb.Name != mb.Name || !e.sameErasures(fb.Params, e.methods[sm].Params) {
				return false
			}
		}
		for _, i := range e.SuperInterfaces(id) {
			if !walk(i) {
				return false
			}
		}
		return true
	}
	if !walk(t) {
		return 0
	}
	return found
}

func isObjectMethod(m *MethodBinding) bool {
	switch {
	case m.Name == "equals" && len(m.Params) == 1, m.Name == "hashCode" && len(m.Params) == 0, m.Name == "toString" && len(m.Params) == 0:
		return true
	}
	return false
}

// nonWildcard replaces the wildcard arguments of a functional interface
// type by their bounds.
func (e *Environment) nonWildcard(t TypeID) TypeID {
	tb := e.Type(t)
	if tb == nil || tb.Kind != KindParameterized {
		return t
	}
	g := e.Type(tb.Generic)
	args := make([]TypeID, len(tb.Args))
	changed := false
	for i, a := range tb.Args {
		args[i] = a
		w := e.Type(a)
		if w == nil || w.Kind != KindWildcard {
			continue
		}
		changed = true
		switch {
		case w.BoundKind != Unbounded:
			args[i] = w.Bound
		case i < len(g.TypeVars) && len(e.Type(g.TypeVars[i]).Bounds) > 0:
			args[i] = e.Type(g.TypeVars[i]).Bounds[0]
		default:
			args[i] = e.Object()
		}
	}
	if !changed {
		return t
	}
	return e.parameterize(tb.Generic, args, tb.Outer, tb.Degraded)
}

// InferMethod instantiates a generic method from the argument types and,
// for variables the arguments leave open, from the target type of the
// invocation. Variables that stay open become their erased bounds.
func (e *Environment) InferMethod(m MethodID, args []Arg, target TypeID) MethodID {
	mb := e.methods[m]
	if len(mb.TypeVars) == 0 {
		return m
	}
	inferred := make(map[TypeID]TypeID)
	n := len(mb.Params)
	for i, a := range args {
		if a.Type == NoType || a.Functional || n == 0 {
			continue
		}
		p := mb.Params[min(i, n-1)]
		if i >= n-1 && mb.IsVarargs() && !(len(args) == n && e.Kind(a.Type) == KindArray) {
			p = e.ElementType(mb.Params[n-1])
		}
		e.inferFrom(p, a.Type, mb.TypeVars, inferred)
	}
	if target != NoType && e.Prim(mb.Return) != constant.TVoid {
		e.inferFrom(mb.Return, target, mb.TypeVars, inferred)
	}
	s := Substitution{Vars: mb.TypeVars}
	for _, v := range mb.TypeVars {
		a, ok := inferred[v]
		if !ok {
			a = e.Erasure(v)
		}
		s.Args = append(s.Args, a)
	}
	key := "infer:" + idList([]TypeID{TypeID(m)}) + ":" + idList(s.Args)
	if id, ok := e.inferMemo[key]; ok {
		return id
	}
	cp := *mb
	cp.Params = e.SubstituteAll(s, mb.Params)
	cp.Return = e.Substitute(s, mb.Return)
	cp.Throws = e.SubstituteAll(s, mb.Throws)
	cp.TypeVars = nil
	cp.Original = mb.Original
	id := e.newMethod(&cp)
	e.inferMemo[key] = id
	return id
}

// inferFrom matches a formal type against an actual type and records the
// type variables it determines. The first inference of a variable wins,
// except that a later primitive box or a common supertype may widen it.
func (e *Environment) inferFrom(formal, actual TypeID, vars []TypeID, out map[TypeID]TypeID) {
	formal, actual = e.Resolve(formal), e.Resolve(actual)
	ft := e.Type(formal)
	if ft == nil || actual == NoType || e.Kind(actual) == KindNull {
		return
	}
	if ft.Kind == KindTypeVariable && containsType(vars, formal) {
		if e.Prim(actual) != constant.TUndefined {
			actual = e.Box(actual)
		}
		if prev, ok := out[formal]; ok && !e.IsSubtype(actual, prev) {
			if e.IsSubtype(prev, actual) {
				out[formal] = actual
			} else {
				out[formal] = e.Lub([]TypeID{prev, actual})
			}
			return
		}
		if _, ok := out[formal]; !ok {
			out[formal] = actual
		}
		return
	}
	at := e.Type(actual)
	switch ft.Kind {
	case KindArray:
		if at.Kind == KindArray {
			e.inferFrom(e.ElementType(formal), e.ElementType(actual), vars, out)
		}
	case KindWildcard:
		if ft.Bound != NoType {
			if at.Kind == KindWildcard {
				actual = at.Bound
			}
			e.inferFrom(ft.Bound, actual, vars, out)
		}
	case KindParameterized:
		sup := e.AsSuper(actual, e.Declared(formal))
		if sup == NoType {
			sup = e.AsSuper(formal, e.Declared(actual))
			if sup == NoType {
				return
			}
			e.inferFrom(sup, actual, vars, out)
			return
		}
		st := e.Type(sup)
		if st.Kind != KindParameterized {
			return
		}
		for i := range ft.Args {
			if i < len(st.Args) {
				e.inferFrom(ft.Args[i], st.Args[i], vars, out)
			}
		}
	}
}

// checkAbstractMethods reports the inherited abstract methods a concrete
// source class does not implement.
func (e *Environment) checkAbstractMethods(us *unitState, id TypeID) {
	t := e.Type(id)
	if t == nil || t.Kind != KindSource || t.IsInterface() || t.Modifiers.Has(ModAbstract) {
		return
	}
	if t.DeclKind == ast.EnumKind && !t.Modifiers.Has(ModFinal) {
		return
	}
	reported := make(map[string]bool)
	seen := make(map[TypeID]bool)
	var walk func(TypeID)
	walk = func(sup TypeID) {
		sup = e.Resolve(sup)
		if sup == NoType || seen[sup] {
			return
		}
		seen[sup] = true
		d := e.Declared(sup)
		e.ensureMembers(d)
		for _, m := range e.Type(d).Methods {
			mb := e.methods[m]
			if !mb.IsAbstract() || mb.IsStatic() {
				continue
			}
			sm := e.methods[e.substitutedMethod(sup, m)]
			if e.implements(id, sm) {
				continue
			}
			sig := mb.Name + "(" + e.typeNames(sm.Params) + ")"
			if !reported[sig] {
				reported[sig] = true
				us.report(problem.UnimplementedAbstractMethod, nameNode(t.Decl), t.Name, e.TypeName(sm.Declaring)+"."+sig)
			}
		}
		walk(e.Superclass(sup))
		for _, i := range e.SuperInterfaces(sup) {
			walk(i)
		}
	}
	walk(e.Superclass(id))
	for _, i := range e.SuperInterfaces(id) {
		walk(i)
	}
}

// implements reports whether class t or one of its superclasses or
// superinterfaces declares a non-abstract method with the signature of m.
func (e *Environment) implements(t TypeID, m *MethodBinding) bool {
	for _, c := range e.Methods(t, m.Name) {
		cb := e.methods[c]
		if !cb.IsAbstract() && len(cb.Params) == len(m.Params) && e.sameErasures(cb.Params, m.Params) {
			return true
		}
	}
	return false
}

// typeNames renders a parameter list for messages.
func (e *Environment) typeNames(ids []TypeID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = e.TypeName(id)
	}
	return strings.Join(names, ", ")
}
