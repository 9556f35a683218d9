package lookup

import (
	"strconv"
	"strings"
)

type wrapperKind uint8

const (
	wrapType wrapperKind = iota
	wrapField
	wrapMethod
)

// wrapper is a binding that mentions an unresolved type and must be
// updated when the type is resolved.
type wrapper struct {
	kind wrapperKind
	id   int32
}

// UnresolvedReference returns a placeholder for a type named in a class
// file. The type is only looked up when the placeholder is first used;
// until then bindings that mention it are recorded as wrappers.
func (e *Environment) UnresolvedReference(compound []string) TypeID {
	internal := strings.Join(compound, "/")
	if id, ok := e.byBinary[internal]; ok {
		return e.follow(id)
	}
	if id, ok := e.unresolved[internal]; ok {
		return e.follow(id)
	}
	id := e.newType(&TypeBinding{
		Kind:         KindUnresolved,
		Name:         compound[len(compound)-1],
		BinaryName:   internal,
		CompoundName: compound,
	})
	e.unresolved[internal] = id
	return id
}

func (e *Environment) addWrapper(component TypeID, w wrapper) {
	t := e.raw(component)
	if t == nil {
		return
	}
	for _, x := range t.wrappers {
		if x == w {
			return
		}
	}
	t.wrappers = append(t.wrappers, w)
}

// noteMember registers a field or method whose types mention unresolved
// placeholders.
func (e *Environment) noteMember(kind wrapperKind, id int32, types ...TypeID) {
	for _, t := range types {
		if e.isPending(t) {
			e.addWrapper(t, wrapper{kind: kind, id: id})
		}
	}
}

// resolveUnresolved looks up the real type behind a placeholder, redirects
// the placeholder to it and swaps it into every wrapper. A type that cannot
// be found resolves to a missing type. Calling it again is a no-op.
func (e *Environment) resolveUnresolved(id TypeID) {
	t := e.types[id]
	if t.Kind != KindUnresolved || t.resolved {
		return
	}
	t.resolved = true
	real, ok := e.typeByBinaryName(t.BinaryName)
	if !ok {
		real = e.missing(t.CompoundName)
	}
	e.redirect[id] = real
	e.swapWrappers(t, id, real)
}

func (e *Environment) swapWrappers(t *TypeBinding, from, to TypeID) {
	wrappers := t.wrappers
	t.wrappers = nil
	for _, w := range wrappers {
		e.swapUnresolved(w, from, to)
	}
}

func swapIn(ids []TypeID, from, to TypeID) {
	for i, id := range ids {
		if id == from {
			ids[i] = to
		}
	}
}

func swapOne(id *TypeID, from, to TypeID) {
	if *id == from {
		*id = to
	}
}

// swapUnresolved replaces from by to in one wrapper. A composite type whose
// new shape already exists in the memo table is redirected to the existing
// binding, and its own wrappers are updated in turn.
func (e *Environment) swapUnresolved(w wrapper, from, to TypeID) {
	switch w.kind {
	case wrapField:
		f := e.fields[w.id]
		swapOne(&f.Type, from, to)
	case wrapMethod:
		m := e.methods[w.id]
		swapIn(m.Params, from, to)
		swapIn(m.Throws, from, to)
		swapOne(&m.Return, from, to)
	case wrapType:
		id := TypeID(w.id)
		tb := e.types[id]
		oldKey, memoized := e.keyOf(tb)
		swapOne(&tb.Generic, from, to)
		swapOne(&tb.Outer, from, to)
		swapOne(&tb.Elem, from, to)
		swapOne(&tb.Bound, from, to)
		swapOne(&tb.Lower, from, to)
		swapOne(&tb.Superclass, from, to)
		swapIn(tb.Args, from, to)
		swapIn(tb.Bounds, from, to)
		swapIn(tb.Interfaces, from, to)
		if tb.Kind == KindArray {
			if inner := e.raw(tb.Elem); inner != nil && inner.Kind == KindArray {
				tb.Elem, tb.Dims = inner.Elem, tb.Dims+inner.Dims
			}
		}
		if !memoized {
			return
		}
		if e.memo[oldKey] == id {
			delete(e.memo, oldKey)
		}
		newKey, _ := e.keyOf(tb)
		if existing, ok := e.memo[newKey]; ok && e.follow(existing) != id {
			e.redirect[id] = e.follow(existing)
			e.swapWrappers(tb, id, e.follow(existing))
			return
		}
		e.memo[newKey] = id
	}
}

// keyOf rebuilds the memo key of a composite type.
func (e *Environment) keyOf(t *TypeBinding) (typeKey, bool) {
	switch t.Kind {
	case KindArray:
		return typeKey{kind: KindArray, a: t.Elem, args: strconv.Itoa(t.Dims)}, true
	case KindParameterized:
		return typeKey{kind: KindParameterized, a: t.Generic, b: t.Outer, args: idList(t.Args), degraded: t.Degraded}, true
	case KindRaw:
		return typeKey{kind: KindRaw, a: t.Generic}, true
	case KindWildcard:
		return typeKey{kind: KindWildcard, a: t.Bound, args: strconv.Itoa(int(t.BoundKind))}, true
	case KindIntersection:
		return typeKey{kind: KindIntersection, args: idList(t.Bounds)}, true
	}
	return typeKey{}, false
}
