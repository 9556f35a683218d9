package lookup

import (
	"strings"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/problem"
)

// boundCheck is a parameterized type reference whose arguments are checked
// against the bounds of the type variables once all headers are complete.
type boundCheck struct {
	us    *unitState
	node  ast.Node
	param TypeID
}

var primKinds = map[ast.PrimitiveKind]constant.TypeID{
	ast.Boolean: constant.TBoolean,
	ast.Byte:    constant.TByte,
	ast.Char:    constant.TChar,
	ast.Short:   constant.TShort,
	ast.Int:     constant.TInt,
	ast.Long:    constant.TLong,
	ast.Float:   constant.TFloat,
	ast.Double:  constant.TDouble,
	ast.Void:    constant.TVoid,
}

// resolveType returns the type a type node denotes in scope s. Unknown
// names are reported and yield a missing type.
func (r *resolver) resolveType(s Scope, n ast.TypeNode) TypeID {
	if n == nil {
		return NoType
	}
	id := r.resolveTypeNode(s, n)
	if r.info != nil {
		r.info.TypeRefs[n] = id
	}
	return id
}

func (r *resolver) resolveTypeNode(s Scope, n ast.TypeNode) TypeID {
	e := r.env
	switch n := n.(type) {
	case *ast.PrimitiveType:
		return e.Base(primKinds[n.Prim])
	case *ast.ArrayType:
		elem := r.resolveType(s, n.Elem)
		if e.Prim(elem) == constant.TVoid {
			return elem
		}
		return e.Array(elem, 1)
	case *ast.WildcardType:
		if n.Bound == nil {
			return e.Wildcard(NoType, Unbounded)
		}
		kind := ExtendsBound
		if n.Super {
			kind = SuperBound
		}
		return e.Wildcard(r.resolveType(s, n.Bound), kind)
	case *ast.UnionType:
		var alts []TypeID
		for _, a := range n.Alternatives {
			alts = append(alts, r.resolveType(s, a))
		}
		return e.Lub(alts)
	case *ast.IntersectionType:
		var parts []TypeID
		for _, p := range n.Types {
			parts = append(parts, r.resolveType(s, p))
		}
		return e.Intersection(parts)
	case *ast.VarType:
		return NoType
	case *ast.ClassType:
		return r.resolveClassType(s, n, false)
	}
	return NoType
}

// resolveClassType resolves a possibly qualified class type. With diamond
// set the generic declaration is returned for the caller to infer.
func (r *resolver) resolveClassType(s Scope, ct *ast.ClassType, diamond bool) TypeID {
	e := r.env
	var segs []*ast.ClassType
	for c := ct; c != nil; c = c.Qualifier {
		segs = append([]*ast.ClassType{c}, segs...)
	}
	names := ct.Names()

	start := 0
	id := e.lookupType(s, names[0])
	if id == NoType {
		for k := 1; k < len(segs); k++ {
			internal := strings.Join(names[:k+1], "/")
			if t, ok := e.typeByBinaryName(internal); ok {
				id, start = t, k
				break
			}
		}
	}
	if id == NoType {
		r.report(problem.UndefinedType, ct, strings.Join(names, "."))
		return e.missing(names)
	}
	if from := r.currentType(s); !e.isTypeVisible(id, from) {
		r.report(problem.NotVisible, segs[start], "type", e.TypeName(id))
	}
	r.deprecated(segs[start], e.Type(id).Modifiers, "type", e.TypeName(id), r.currentType(s), id)
	current := r.applyArgs(s, id, segs[start], NoType, diamond && start == len(segs)-1)
	for k := start + 1; k < len(segs); k++ {
		member := e.MemberType(e.Declared(current), names[k])
		if member == NoType {
			if e.Kind(current) != KindMissing {
				r.report(problem.UndefinedType, segs[k], strings.Join(names[:k+1], "."))
			}
			return e.missing(names[:k+1])
		}
		outer := NoType
		if e.Kind(current) == KindParameterized && !e.Type(member).Modifiers.IsStatic() {
			outer = current
		}
		current = r.applyArgs(s, member, segs[k], outer, diamond && k == len(segs)-1)
	}
	return current
}

func (r *resolver) applyArgs(s Scope, generic TypeID, seg *ast.ClassType, outer TypeID, diamond bool) TypeID {
	e := r.env
	gt := e.Type(generic)
	if gt.Kind == KindMissing || gt.Kind == KindTypeVariable {
		return generic
	}
	if diamond || seg.Diamond {
		return generic
	}
	if len(seg.Args) == 0 {
		if outer != NoType {
			return e.Parameterize(generic, nil, outer)
		}
		if len(gt.TypeVars) > 0 {
			return e.Raw(generic)
		}
		return generic
	}
	args := make([]TypeID, len(seg.Args))
	written := make([]string, len(seg.Args))
	for i, a := range seg.Args {
		args[i] = r.resolveType(s, a)
		if e.Prim(args[i]) != constant.TUndefined {
			r.report(problem.IncompatibleTypes, a, e.TypeName(args[i]), "Object")
			args[i] = e.Box(args[i])
		}
		written[i] = ast.TypeString(a)
	}
	vars := gt.TypeVars
	switch {
	case len(vars) == 0:
		r.report(problem.NonGenericType, seg, e.TypeName(generic), strings.Join(written, ", "))
		return generic
	case len(vars) != len(args):
		r.report(problem.IncorrectArityForParameterizedType, seg, e.TypeName(generic), strings.Join(written, ", "))
		e.ensureSupertypes(generic)
		fixed := make([]TypeID, len(vars))
		for i := range fixed {
			if i < len(args) {
				fixed[i] = args[i]
			} else {
				fixed[i] = e.Erasure(vars[i])
			}
		}
		return e.parameterize(generic, fixed, outer, true)
	}
	p := e.Parameterize(generic, args, outer)
	if r.us != nil {
		e.boundChecks = append(e.boundChecks, boundCheck{us: r.us, node: seg, param: p})
	}
	return p
}

// runBoundChecks reports type arguments that are not within the bounds of
// their type variables.
func (e *Environment) runBoundChecks() {
	checks := e.boundChecks
	e.boundChecks = nil
	for _, c := range checks {
		p := e.Type(c.param)
		if p == nil || p.Kind != KindParameterized || p.Degraded {
			continue
		}
		g := e.Type(p.Generic)
		e.ensureSupertypes(g.ID)
		s := e.SubstitutionOf(p.ID)
		for i, v := range g.TypeVars {
			if i >= len(p.Args) || e.Kind(p.Args[i]) == KindWildcard {
				continue
			}
			for _, b := range e.Type(v).Bounds {
				sb := e.Substitute(s, b)
				if !e.IsSubtype(p.Args[i], sb) {
					c.us.report(problem.TypeArgumentMismatch, c.node,
						e.TypeName(p.Args[i]), e.types[v].Name, e.TypeName(b), e.TypeName(g.ID))
					break
				}
			}
		}
	}
}

// currentType returns the innermost class enclosing s, NoType at unit
// level.
func (r *resolver) currentType(s Scope) TypeID {
	if cs := enclosingClass(s); cs != nil {
		return cs.Type
	}
	return NoType
}

// deprecated reports the use of a deprecated type or member from outside
// the type that declares it.
func (r *resolver) deprecated(n ast.Node, mods Modifiers, kind, name string, from, declaring TypeID) {
	if !mods.Has(ModDeprecated) || from == NoType {
		return
	}
	e := r.env
	if e.outermost(from) == e.outermost(declaring) {
		return
	}
	if fb := e.Type(from); fb != nil && fb.Modifiers.Has(ModDeprecated) {
		return
	}
	r.report(problem.DeprecatedUse, n, kind, name)
}
