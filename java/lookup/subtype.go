package lookup

import (
	"github.com/dhamidi/jfront/java/constant"
)

// Superclass returns the direct superclass of t with the type arguments
// of t substituted. Arrays and type variables without a class bound have
// Object as superclass.
func (e *Environment) Superclass(t TypeID) TypeID {
	tb := e.Type(t)
	if tb == nil {
		return NoType
	}
	switch tb.Kind {
	case KindSource, KindBinary:
		e.ensureSupertypes(tb.ID)
		return e.Resolve(tb.Superclass)
	case KindParameterized:
		g := e.Type(tb.Generic)
		e.ensureSupertypes(g.ID)
		if g.Superclass == NoType {
			return NoType
		}
		return e.Resolve(e.Substitute(e.SubstitutionOf(tb.ID), g.Superclass))
	case KindRaw:
		g := e.Type(tb.Generic)
		e.ensureSupertypes(g.ID)
		return e.Erasure(g.Superclass)
	case KindArray:
		return e.Object()
	case KindTypeVariable, KindCaptured, KindIntersection:
		e.ensureSupertypes(tb.DeclaringType)
		if len(tb.Bounds) > 0 && !e.isInterfaceType(tb.Bounds[0]) {
			return e.Resolve(tb.Bounds[0])
		}
		return e.Object()
	}
	return NoType
}

// SuperInterfaces returns the direct superinterfaces of t, substituted.
func (e *Environment) SuperInterfaces(t TypeID) []TypeID {
	tb := e.Type(t)
	if tb == nil {
		return nil
	}
	switch tb.Kind {
	case KindSource, KindBinary:
		e.ensureSupertypes(tb.ID)
		return tb.Interfaces
	case KindParameterized:
		g := e.Type(tb.Generic)
		e.ensureSupertypes(g.ID)
		return e.SubstituteAll(e.SubstitutionOf(tb.ID), g.Interfaces)
	case KindRaw:
		g := e.Type(tb.Generic)
		e.ensureSupertypes(g.ID)
		out := make([]TypeID, len(g.Interfaces))
		for i, x := range g.Interfaces {
			out[i] = e.Erasure(x)
		}
		return out
	case KindArray:
		return []TypeID{e.WellKnown("java.lang.Cloneable"), e.WellKnown("java.io.Serializable")}
	case KindTypeVariable, KindCaptured, KindIntersection:
		var out []TypeID
		for _, b := range tb.Bounds {
			if e.isInterfaceType(b) {
				out = append(out, b)
			}
		}
		return out
	}
	return nil
}

// AsSuper returns the supertype of t whose declaration is decl, with type
// arguments as seen from t, or NoType when t does not inherit from decl.
func (e *Environment) AsSuper(t, decl TypeID) TypeID {
	seen := make(map[TypeID]bool)
	var walk func(TypeID) TypeID
	walk = func(id TypeID) TypeID {
		id = e.Resolve(id)
		if id == NoType || seen[id] {
			return NoType
		}
		seen[id] = true
		if e.Declared(id) == decl {
			return id
		}
		if s := e.Superclass(id); s != NoType {
			if r := walk(s); r != NoType {
				return r
			}
		}
		for _, i := range e.SuperInterfaces(id) {
			if r := walk(i); r != NoType {
				return r
			}
		}
		return NoType
	}
	return walk(t)
}

// isSame compares two types for identity. Parameterized types built before
// and after an unresolved type was swapped may have distinct IDs; they are
// compared structurally.
func (e *Environment) isSame(a, b TypeID) bool {
	a, b = e.Resolve(a), e.Resolve(b)
	if a == b {
		return true
	}
	ta, tb := e.Type(a), e.Type(b)
	if ta == nil || tb == nil || ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindParameterized:
		if e.Resolve(ta.Generic) != e.Resolve(tb.Generic) || len(ta.Args) != len(tb.Args) || !e.isSame(ta.Outer, tb.Outer) {
			return false
		}
		for i := range ta.Args {
			if !e.isSame(ta.Args[i], tb.Args[i]) {
				return false
			}
		}
		return true
	case KindRaw:
		return e.Resolve(ta.Generic) == e.Resolve(tb.Generic)
	case KindArray:
		return ta.Dims == tb.Dims && e.isSame(ta.Elem, tb.Elem)
	case KindWildcard:
		return ta.BoundKind == tb.BoundKind && e.isSame(ta.Bound, tb.Bound)
	}
	return false
}

func (e *Environment) isObject(t TypeID) bool {
	return e.Resolve(t) == e.Object()
}

// IsReference reports whether t is a reference type, null included.
func (e *Environment) IsReference(t TypeID) bool {
	k := e.Kind(t)
	return k != KindBase && k != KindInvalid
}

// Prim returns the primitive kind of a base type, TUndefined otherwise.
func (e *Environment) Prim(t TypeID) constant.TypeID {
	if tb := e.Type(t); tb != nil && tb.Kind == KindBase {
		return tb.Prim
	}
	return constant.TUndefined
}

func primWidens(from, to constant.TypeID) bool {
	if from == to {
		return true
	}
	switch from {
	case constant.TByte:
		return to == constant.TShort || to == constant.TInt || to == constant.TLong || to == constant.TFloat || to == constant.TDouble
	case constant.TShort, constant.TChar:
		return to == constant.TInt || to == constant.TLong || to == constant.TFloat || to == constant.TDouble
	case constant.TInt:
		return to == constant.TLong || to == constant.TFloat || to == constant.TDouble
	case constant.TLong:
		return to == constant.TFloat || to == constant.TDouble
	case constant.TFloat:
		return to == constant.TDouble
	}
	return false
}

// IsSubtype reports whether a is a subtype of b. NoType and missing types
// are compatible with everything so that one error does not cascade.
func (e *Environment) IsSubtype(a, b TypeID) bool {
	a, b = e.Resolve(a), e.Resolve(b)
	if a == b {
		return true
	}
	ta, tb := e.Type(a), e.Type(b)
	if ta == nil || tb == nil || ta.Kind == KindMissing || tb.Kind == KindMissing {
		return true
	}
	if ta.Kind == KindBase || tb.Kind == KindBase {
		return ta.Kind == KindBase && tb.Kind == KindBase && ta.Prim != constant.TVoid && tb.Prim != constant.TVoid &&
			ta.Prim != constant.TBoolean && tb.Prim != constant.TBoolean && primWidens(ta.Prim, tb.Prim)
	}
	if tb.Kind == KindNull {
		return false
	}
	if ta.Kind == KindNull {
		return true
	}
	if e.isObject(b) {
		return true
	}
	switch tb.Kind {
	case KindIntersection:
		for _, x := range tb.Bounds {
			if !e.IsSubtype(a, x) {
				return false
			}
		}
		return true
	case KindCaptured:
		if tb.Lower != NoType && e.IsSubtype(a, tb.Lower) {
			return true
		}
		return e.boundReaches(ta, b)
	case KindTypeVariable:
		return e.boundReaches(ta, b)
	case KindArray:
		if ta.Kind != KindArray {
			return e.boundReaches(ta, b)
		}
		ea, eb := e.ElementType(a), e.ElementType(b)
		if e.Kind(ea) == KindBase || e.Kind(eb) == KindBase {
			return e.isSame(ea, eb)
		}
		return e.IsSubtype(ea, eb)
	case KindWildcard:
		return false
	}
	switch ta.Kind {
	case KindArray:
		q := tb.Qualified
		return tb.Kind != KindParameterized && (q == "java.lang.Cloneable" || q == "java.io.Serializable")
	case KindTypeVariable, KindCaptured, KindIntersection:
		return e.boundReaches(ta, b)
	case KindWildcard:
		if ta.BoundKind == ExtendsBound {
			return e.IsSubtype(ta.Bound, b)
		}
		return false
	}
	sup := e.AsSuper(a, e.Declared(b))
	if sup == NoType {
		return false
	}
	if tb.Kind != KindParameterized {
		return true
	}
	st := e.Type(sup)
	if st.Kind != KindParameterized {
		// unchecked conversion from a raw or generic declaration
		return true
	}
	if len(st.Args) != len(tb.Args) {
		return st.Degraded || tb.Degraded
	}
	for i := range tb.Args {
		if !e.containsArg(tb.Args[i], st.Args[i]) {
			return false
		}
	}
	if tb.Outer != NoType && st.Outer != NoType {
		return e.IsSubtype(st.Outer, tb.Outer)
	}
	return true
}

// boundReaches reports whether a type variable, captured variable or
// intersection has an upper bound that is a subtype of b.
func (e *Environment) boundReaches(ta *TypeBinding, b TypeID) bool {
	switch ta.Kind {
	case KindTypeVariable, KindCaptured, KindIntersection:
	default:
		return false
	}
	for _, x := range ta.Bounds {
		if e.IsSubtype(x, b) {
			return true
		}
	}
	return false
}

// containsArg reports whether the type argument s is contained by t.
func (e *Environment) containsArg(t, s TypeID) bool {
	tt := e.Type(t)
	if tt == nil {
		return true
	}
	if tt.Kind != KindWildcard {
		return e.isSame(t, s)
	}
	st := e.Type(s)
	switch tt.BoundKind {
	case Unbounded:
		return true
	case ExtendsBound:
		if st != nil && st.Kind == KindWildcard {
			if st.BoundKind != ExtendsBound {
				return e.isObject(tt.Bound)
			}
			return e.IsSubtype(st.Bound, tt.Bound)
		}
		return e.IsSubtype(s, tt.Bound)
	default:
		if st != nil && st.Kind == KindWildcard {
			return st.BoundKind == SuperBound && e.IsSubtype(tt.Bound, st.Bound)
		}
		return e.IsSubtype(tt.Bound, s)
	}
}

var boxNames = map[constant.TypeID]string{
	constant.TBoolean: "java.lang.Boolean",
	constant.TByte:    "java.lang.Byte",
	constant.TChar:    "java.lang.Character",
	constant.TShort:   "java.lang.Short",
	constant.TInt:     "java.lang.Integer",
	constant.TLong:    "java.lang.Long",
	constant.TFloat:   "java.lang.Float",
	constant.TDouble:  "java.lang.Double",
}

// Box returns the wrapper class of a primitive type.
func (e *Environment) Box(t TypeID) TypeID {
	if n, ok := boxNames[e.Prim(t)]; ok {
		return e.WellKnown(n)
	}
	return NoType
}

// Unbox returns the primitive type wrapped by t, or NoType.
func (e *Environment) Unbox(t TypeID) TypeID {
	tb := e.Type(e.Declared(t))
	if tb == nil {
		return NoType
	}
	if tb.Kind == KindTypeVariable || tb.Kind == KindCaptured {
		if len(tb.Bounds) == 0 {
			return NoType
		}
		return e.Unbox(tb.Bounds[0])
	}
	for p, n := range boxNames {
		if tb.Qualified == n {
			return e.Base(p)
		}
	}
	return NoType
}

// IsCompatible reports whether a value of type from can be assigned to a
// variable of type to: widening, boxing, unboxing and subtyping.
func (e *Environment) IsCompatible(from, to TypeID) bool {
	return e.IsAssignable(from, to, constant.NotAConstant)
}

// IsAssignable is IsCompatible plus the narrowing of int constants to
// byte, short and char (and their wrappers) when the value fits.
func (e *Environment) IsAssignable(from, to TypeID, c constant.Constant) bool {
	if from == NoType || to == NoType {
		return true
	}
	pf, pt := e.Prim(from), e.Prim(to)
	switch {
	case pf == constant.TVoid || pt == constant.TVoid:
		return false
	case pf != constant.TUndefined && pt != constant.TUndefined:
		if e.IsSubtype(from, to) || pf == constant.TBoolean && pt == constant.TBoolean {
			return true
		}
		return e.constantNarrows(c, pf, pt)
	case pf != constant.TUndefined:
		if e.IsSubtype(e.Box(from), to) {
			return true
		}
		if u := e.Unbox(to); u != NoType && pf != constant.TLong && pf != constant.TFloat && pf != constant.TDouble {
			return e.Prim(u) != constant.TInt && e.constantNarrows(c, pf, e.Prim(u))
		}
		return false
	case pt != constant.TUndefined:
		u := e.Unbox(from)
		return u != NoType && (e.Prim(u) == pt || e.IsSubtype(u, to))
	}
	return e.IsSubtype(from, to) || e.IsSubtype(e.Erasure(from), e.Erasure(to)) && e.Kind(from) == KindRaw
}

func (e *Environment) constantNarrows(c constant.Constant, from, to constant.TypeID) bool {
	if !c.IsValid() {
		return false
	}
	switch from {
	case constant.TByte, constant.TShort, constant.TChar, constant.TInt:
	default:
		return false
	}
	switch to {
	case constant.TByte, constant.TShort, constant.TChar:
		return constant.FitsIn(c, to)
	}
	return false
}

// IsCastable reports whether a cast from one type to another is legal.
func (e *Environment) IsCastable(from, to TypeID) bool {
	if from == NoType || to == NoType {
		return true
	}
	pf, pt := e.Prim(from), e.Prim(to)
	switch {
	case pf == constant.TVoid || pt == constant.TVoid:
		return false
	case pf != constant.TUndefined && pt != constant.TUndefined:
		return (pf == constant.TBoolean) == (pt == constant.TBoolean)
	case pf != constant.TUndefined:
		return e.IsSubtype(e.Box(from), to)
	case pt != constant.TUndefined:
		u := e.Unbox(from)
		if u != NoType {
			return e.IsSubtype(u, to)
		}
		return e.isObject(from) || e.Kind(from) == KindTypeVariable
	}
	return e.referenceCastable(from, to)
}

func (e *Environment) referenceCastable(from, to TypeID) bool {
	if e.IsSubtype(from, to) || e.IsSubtype(to, from) {
		return true
	}
	ef, et := e.Erasure(from), e.Erasure(to)
	if e.IsSubtype(ef, et) || e.IsSubtype(et, ef) {
		return true
	}
	tf, tt := e.Type(from), e.Type(to)
	switch {
	case tf.Kind == KindTypeVariable || tf.Kind == KindCaptured || tt.Kind == KindTypeVariable || tt.Kind == KindCaptured:
		return true
	case tf.Kind == KindArray && tt.Kind == KindArray:
		xf, xt := e.ElementType(from), e.ElementType(to)
		if e.Kind(xf) == KindBase || e.Kind(xt) == KindBase {
			return e.isSame(xf, xt)
		}
		return e.referenceCastable(xf, xt)
	case tf.Kind == KindArray || tt.Kind == KindArray:
		return false
	}
	df, dt := e.Type(ef), e.Type(et)
	switch {
	case df.IsInterface() && dt.IsInterface():
		return true
	case df.IsInterface():
		return !dt.Modifiers.Has(ModFinal)
	case dt.IsInterface():
		return !df.Modifiers.Has(ModFinal)
	}
	return false
}

// Lub returns a common supertype of the given reference types: the first
// class in the superclass chain of the first type that all others extend,
// or the single shared interface.
func (e *Environment) Lub(types []TypeID) TypeID {
	if len(types) == 0 {
		return NoType
	}
	first := types[0]
	all := func(c TypeID) bool {
		for _, t := range types {
			if !e.IsSubtype(t, c) {
				return false
			}
		}
		return true
	}
	if all(first) {
		return first
	}
	for c := e.Superclass(e.Erasure(first)); c != NoType; c = e.Superclass(c) {
		if all(c) {
			if e.isObject(c) {
				for _, i := range e.SuperInterfaces(e.Erasure(first)) {
					if all(i) {
						return i
					}
				}
			}
			return c
		}
	}
	return e.Object()
}
