package lookup

import (
	"strconv"
)

// follow resolves redirections without triggering resolution of
// unresolved placeholders.
func (e *Environment) follow(id TypeID) TypeID {
	for {
		to, ok := e.redirect[id]
		if !ok {
			return id
		}
		id = to
	}
}

// raw returns the arena entry for id after following redirections only.
func (e *Environment) raw(id TypeID) *TypeBinding {
	id = e.follow(id)
	if id <= 0 || int(id) >= len(e.types) {
		return nil
	}
	return e.types[id]
}

func (e *Environment) isPending(id TypeID) bool {
	t := e.raw(id)
	return t != nil && (t.Kind == KindUnresolved && !t.resolved || t.pending)
}

// intern returns the memoized binding for key, creating it with build when
// absent. Components that still mention unresolved types get the new
// binding registered as a wrapper.
func (e *Environment) intern(key typeKey, build func() *TypeBinding, components ...TypeID) TypeID {
	if id, ok := e.memo[key]; ok {
		return e.follow(id)
	}
	t := build()
	id := e.newType(t)
	e.memo[key] = id
	for _, c := range components {
		if e.isPending(c) {
			t.pending = true
			e.addWrapper(c, wrapper{kind: wrapType, id: int32(id)})
		}
	}
	return id
}

func (e *Environment) followAll(ids []TypeID) []TypeID {
	out := make([]TypeID, len(ids))
	for i, id := range ids {
		out[i] = e.follow(id)
	}
	return out
}

// Array returns the array type with dims dimensions of elem. Arrays of
// arrays are flattened so that Elem is never an array.
func (e *Environment) Array(elem TypeID, dims int) TypeID {
	elem = e.follow(elem)
	if dims <= 0 || elem == NoType {
		return elem
	}
	if t := e.raw(elem); t.Kind == KindArray {
		elem, dims = t.Elem, dims+t.Dims
	}
	key := typeKey{kind: KindArray, a: elem, args: strconv.Itoa(dims)}
	return e.intern(key, func() *TypeBinding {
		return &TypeBinding{Kind: KindArray, Elem: elem, Dims: dims}
	}, elem)
}

// ElementType returns the type of the elements of an array type: one
// dimension less.
func (e *Environment) ElementType(arr TypeID) TypeID {
	t := e.Type(arr)
	if t == nil || t.Kind != KindArray {
		return NoType
	}
	return e.Array(t.Elem, t.Dims-1)
}

// Parameterize returns generic<args> with an optional parameterized
// enclosing type. The same generic, arguments and enclosing type always
// yield the same TypeID.
func (e *Environment) Parameterize(generic TypeID, args []TypeID, outer TypeID) TypeID {
	return e.parameterize(generic, args, outer, false)
}

func (e *Environment) parameterize(generic TypeID, args []TypeID, outer TypeID, degraded bool) TypeID {
	generic, outer, args = e.follow(generic), e.follow(outer), e.followAll(args)
	key := typeKey{kind: KindParameterized, a: generic, b: outer, args: idList(args), degraded: degraded}
	return e.intern(key, func() *TypeBinding {
		return &TypeBinding{Kind: KindParameterized, Generic: generic, Args: args, Outer: outer, Degraded: degraded}
	}, append([]TypeID{generic, outer}, args...)...)
}

// Raw returns the raw type of a generic type.
func (e *Environment) Raw(generic TypeID) TypeID {
	generic = e.follow(generic)
	return e.intern(typeKey{kind: KindRaw, a: generic}, func() *TypeBinding {
		return &TypeBinding{Kind: KindRaw, Generic: generic}
	}, generic)
}

// Wildcard returns ?, ? extends bound or ? super bound.
func (e *Environment) Wildcard(bound TypeID, kind WildcardKind) TypeID {
	bound = e.follow(bound)
	if kind == Unbounded {
		bound = NoType
	}
	return e.intern(typeKey{kind: KindWildcard, a: bound, args: strconv.Itoa(int(kind))}, func() *TypeBinding {
		return &TypeBinding{Kind: KindWildcard, Bound: bound, BoundKind: kind}
	}, bound)
}

// Intersection returns the intersection of the given types, or the single
// type when only one is given.
func (e *Environment) Intersection(types []TypeID) TypeID {
	if len(types) == 1 {
		return e.follow(types[0])
	}
	types = e.followAll(types)
	return e.intern(typeKey{kind: KindIntersection, args: idList(types)}, func() *TypeBinding {
		return &TypeBinding{Kind: KindIntersection, Bounds: types}
	}, types...)
}

func (e *Environment) newTypeVariable(name string, rank int, declaringType TypeID, declaringMethod MethodID) TypeID {
	return e.newType(&TypeBinding{
		Kind:          KindTypeVariable,
		Name:          name,
		Rank:          rank,
		DeclaringType: declaringType,
		DeclaringMeth: declaringMethod,
		state:         completedHeader,
	})
}

// Substitution maps type variables to type arguments.
type Substitution struct {
	Vars []TypeID
	Args []TypeID
}

func (s Substitution) IsEmpty() bool { return len(s.Vars) == 0 }

// SubstitutionOf returns the substitution a parameterized type applies to
// the members of its generic type, including the type arguments of its
// enclosing types. A raw type substitutes the erasures of the variables.
func (e *Environment) SubstitutionOf(p TypeID) Substitution {
	var s Substitution
	for p != NoType {
		t := e.Type(p)
		if t == nil {
			break
		}
		switch t.Kind {
		case KindParameterized:
			g := e.Type(t.Generic)
			for i, v := range g.TypeVars {
				if i < len(t.Args) {
					s.Vars = append(s.Vars, v)
					s.Args = append(s.Args, t.Args[i])
				}
			}
			p = t.Outer
		case KindRaw:
			g := e.Type(t.Generic)
			for _, v := range g.TypeVars {
				s.Vars = append(s.Vars, v)
				s.Args = append(s.Args, e.Erasure(v))
			}
			p = NoType
		default:
			p = NoType
		}
	}
	return s
}

// Substitute applies s to t. Composite types are rebuilt only when a
// component changes, so substituting twice yields the same TypeID.
func (e *Environment) Substitute(s Substitution, t TypeID) TypeID {
	if s.IsEmpty() || t == NoType {
		return t
	}
	id := e.follow(t)
	tb := e.raw(id)
	if tb == nil {
		return t
	}
	switch tb.Kind {
	case KindTypeVariable:
		for i, v := range s.Vars {
			if e.follow(v) == id {
				return s.Args[i]
			}
		}
		return id
	case KindParameterized:
		args := make([]TypeID, len(tb.Args))
		changed := false
		for i, a := range tb.Args {
			args[i] = e.Substitute(s, a)
			changed = changed || args[i] != e.follow(a)
		}
		outer := tb.Outer
		if outer != NoType {
			outer = e.Substitute(s, outer)
			changed = changed || outer != e.follow(tb.Outer)
		}
		if !changed {
			return id
		}
		return e.parameterize(tb.Generic, args, outer, tb.Degraded)
	case KindArray:
		elem := e.Substitute(s, tb.Elem)
		if elem == e.follow(tb.Elem) {
			return id
		}
		return e.Array(elem, tb.Dims)
	case KindWildcard:
		if tb.Bound == NoType {
			return id
		}
		b := e.Substitute(s, tb.Bound)
		if b == e.follow(tb.Bound) {
			return id
		}
		return e.Wildcard(b, tb.BoundKind)
	case KindIntersection:
		bounds := make([]TypeID, len(tb.Bounds))
		changed := false
		for i, b := range tb.Bounds {
			bounds[i] = e.Substitute(s, b)
			changed = changed || bounds[i] != e.follow(b)
		}
		if !changed {
			return id
		}
		return e.Intersection(bounds)
	}
	return id
}

// SubstituteAll applies s to each type.
func (e *Environment) SubstituteAll(s Substitution, ids []TypeID) []TypeID {
	if s.IsEmpty() {
		return ids
	}
	out := make([]TypeID, len(ids))
	for i, id := range ids {
		out[i] = e.Substitute(s, id)
	}
	return out
}

// Erasure returns the erasure of t.
func (e *Environment) Erasure(t TypeID) TypeID {
	tb := e.Type(t)
	if tb == nil {
		return NoType
	}
	switch tb.Kind {
	case KindParameterized, KindRaw:
		return e.Resolve(tb.Generic)
	case KindTypeVariable, KindCaptured, KindIntersection:
		if len(tb.Bounds) > 0 {
			return e.Erasure(tb.Bounds[0])
		}
		return e.Object()
	case KindWildcard:
		if tb.BoundKind == ExtendsBound {
			return e.Erasure(tb.Bound)
		}
		return e.Object()
	case KindArray:
		return e.Array(e.Erasure(tb.Elem), tb.Dims)
	}
	return tb.ID
}

// IsGeneric reports whether a declared type has type parameters.
func (e *Environment) IsGeneric(t TypeID) bool {
	tb := e.Type(t)
	if tb == nil || !tb.IsDeclared() {
		return false
	}
	return len(tb.TypeVars) > 0
}

// Declared returns the generic declaration behind a parameterized or raw
// type, or t itself.
func (e *Environment) Declared(t TypeID) TypeID {
	tb := e.Type(t)
	if tb == nil {
		return NoType
	}
	if tb.Kind == KindParameterized || tb.Kind == KindRaw {
		return e.Resolve(tb.Generic)
	}
	return tb.ID
}

// Capture applies capture conversion: wildcard arguments are replaced by
// fresh captured type variables whose upper bounds combine the wildcard
// bound and the declared bound of the type parameter.
func (e *Environment) Capture(p TypeID) TypeID {
	tb := e.Type(p)
	if tb == nil || tb.Kind != KindParameterized {
		return p
	}
	hasWildcard := false
	for _, a := range tb.Args {
		if e.Kind(a) == KindWildcard {
			hasWildcard = true
		}
	}
	if !hasWildcard {
		return p
	}
	g := e.Type(tb.Generic)
	e.ensureSupertypes(g.ID)
	args := make([]TypeID, len(tb.Args))
	var captured []*TypeBinding
	for i, a := range tb.Args {
		w := e.Type(a)
		if w.Kind != KindWildcard {
			args[i] = e.Resolve(a)
			continue
		}
		c := &TypeBinding{Kind: KindCaptured, Name: "capture#" + strconv.Itoa(len(e.types)), Rank: i, DeclaringType: g.ID}
		args[i] = e.newType(c)
		captured = append(captured, c)
		switch w.BoundKind {
		case ExtendsBound:
			c.Bounds = []TypeID{w.Bound}
		case SuperBound:
			c.Lower = w.Bound
		}
	}
	s := Substitution{Vars: g.TypeVars, Args: args}
	for _, c := range captured {
		if c.Rank >= len(g.TypeVars) {
			continue
		}
		for _, b := range e.Type(g.TypeVars[c.Rank]).Bounds {
			b = e.Substitute(s, b)
			if b != e.Object() && !containsType(c.Bounds, b) {
				c.Bounds = append(c.Bounds, b)
			}
		}
	}
	return e.parameterize(tb.Generic, args, tb.Outer, tb.Degraded)
}

func containsType(ids []TypeID, id TypeID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
