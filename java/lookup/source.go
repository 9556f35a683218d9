package lookup

import (
	"strconv"
	"strings"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/problem"
)

// unitState tracks the bindings built for one compilation unit.
type unitState struct {
	unit      *ast.CompilationUnit
	reporter  problem.Reporter
	pkg       string
	types     []TypeID
	scope     *CompilationUnitScope
	info      *Info
	completed bool
	resolved  bool
}

func location(file string, n ast.Node) problem.Location {
	sp := n.Span()
	return problem.Location{
		File:   file,
		Start:  sp.Start.Offset,
		End:    sp.End.Offset,
		Line:   sp.Start.Line,
		Column: sp.Start.Column,
	}
}

func (us *unitState) report(id problem.ID, n ast.Node, args ...any) {
	us.reporter.Report(problem.New(id, location(us.unit.File, n), args...))
}

// BuildTypeBindings creates the bindings of the types declared in unit:
// top-level and member types. Local and anonymous types are created when
// their bodies are resolved.
func (e *Environment) BuildTypeBindings(unit *ast.CompilationUnit) {
	e.buildUnit(unit, e.reporter)
}

// CompleteTypeBindings connects the supertypes, type variable bounds,
// fields and methods of the types declared in unit.
func (e *Environment) CompleteTypeBindings(unit *ast.CompilationUnit) {
	e.completeUnit(unit)
}

func (e *Environment) buildUnit(unit *ast.CompilationUnit, reporter problem.Reporter) *unitState {
	if us, ok := e.units[unit]; ok {
		return us
	}
	us := &unitState{unit: unit, reporter: reporter, pkg: unit.PackageName(), info: NewInfo()}
	us.scope = &CompilationUnitScope{env: e, unit: us}
	e.units[unit] = us
	if us.pkg != "" {
		e.packageID(us.pkg)
	}
	for _, td := range unit.Types {
		e.buildSourceType(us, td, NoType)
	}
	return us
}

func (e *Environment) completeUnit(unit *ast.CompilationUnit) {
	us, ok := e.units[unit]
	if !ok {
		us = e.buildUnit(unit, e.reporter)
	}
	if us.completed {
		return
	}
	us.completed = true
	us.scope.resolveImports()
	for _, id := range us.types {
		e.ensureSupertypes(id)
	}
	for _, id := range us.types {
		e.ensureMembers(id)
	}
	for _, id := range us.types {
		e.checkAbstractMethods(us, id)
	}
	e.runBoundChecks()
}

func sourceModifiers(m *ast.Modifiers) Modifiers {
	if m == nil {
		return 0
	}
	pairs := []struct {
		ast ast.ModifierFlags
		mod Modifiers
	}{
		{ast.ModPublic, ModPublic},
		{ast.ModProtected, ModProtected},
		{ast.ModPrivate, ModPrivate},
		{ast.ModStatic, ModStatic},
		{ast.ModFinal, ModFinal},
		{ast.ModAbstract, ModAbstract},
		{ast.ModNative, ModNative},
		{ast.ModSynchronized, ModSynchronized},
		{ast.ModTransient, ModTransient},
		{ast.ModVolatile, ModVolatile},
		{ast.ModStrictfp, ModStrictfp},
		{ast.ModDefault, ModDefault},
		{ast.ModSealed, ModSealed},
	}
	var out Modifiers
	for _, p := range pairs {
		if m.Mods&p.ast != 0 {
			out |= p.mod
		}
	}
	if m.HasAnnotation("Deprecated") {
		out |= ModDeprecated
	}
	return out
}

// isDeprecatedDoc reports whether a doc comment has a @deprecated block
// tag, that is one starting a line after the leading asterisks.
func isDeprecatedDoc(doc *ast.Comment) bool {
	if doc == nil {
		return false
	}
	for _, line := range strings.Split(doc.Text, "\n") {
		line = strings.TrimLeft(line, " \t*/")
		rest, ok := strings.CutPrefix(line, "@deprecated")
		if !ok {
			continue
		}
		if rest == "" || !isTagChar(rest[0]) {
			return true
		}
	}
	return false
}

func isTagChar(c byte) bool {
	return c == '_' || c == '-' || c == '.' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// buildSourceType creates the binding of a type declaration and of its
// member types.
func (e *Environment) buildSourceType(us *unitState, td *ast.TypeDecl, enclosing TypeID) TypeID {
	if id, ok := e.declTypes[td]; ok {
		return id
	}
	t := &TypeBinding{
		Kind:      KindSource,
		Name:      td.NameString(),
		Package:   us.pkg,
		Modifiers: sourceModifiers(td.Modifiers),
		DeclKind:  td.DeclKind,
		Enclosing: enclosing,
		Local:     td.Local || td.Anonymous,
		Anonymous: td.Anonymous,
		Decl:      td,
		Unit:      us.unit,
		state:     completedHeader,
	}
	if isDeprecatedDoc(td.Doc) {
		t.Modifiers |= ModDeprecated
	}
	outer := e.Type(enclosing)
	switch {
	case outer == nil:
		t.BinaryName = joinInternal(us.pkg, t.Name)
		t.Qualified = t.Name
		if us.pkg != "" {
			t.Qualified = us.pkg + "." + t.Name
		}
	case t.Local:
		top := outer
		for top.Local && top.Enclosing != NoType {
			top = e.Type(top.Enclosing)
		}
		e.localNames[top.ID]++
		t.BinaryName = top.BinaryName + "$" + strconv.Itoa(e.localNames[top.ID]) + t.Name
		t.Qualified = t.Name
		if t.Anonymous {
			t.Qualified = strings.ReplaceAll(t.BinaryName, "/", ".")
		}
	default:
		t.BinaryName = outer.BinaryName + "$" + t.Name
		t.Qualified = outer.Qualified + "." + t.Name
	}
	switch td.DeclKind {
	case ast.InterfaceKind:
		t.Modifiers |= ModInterface | ModAbstract
	case ast.AnnotationKind:
		t.Modifiers |= ModInterface | ModAbstract | ModAnnotation
	case ast.EnumKind:
		t.Modifiers |= ModEnum
		final := true
		for _, c := range td.EnumConstants {
			if c.Body != nil {
				final = false
			}
		}
		if final {
			t.Modifiers |= ModFinal
		}
	case ast.RecordKind:
		t.Modifiers |= ModRecord | ModFinal
	}
	if outer != nil && !t.Local {
		if outer.IsInterface() {
			t.Modifiers |= ModPublic | ModStatic
		}
		if td.DeclKind != ast.ClassKind {
			t.Modifiers |= ModStatic
		}
	}
	if t.Anonymous {
		t.Modifiers |= ModFinal
	}

	id := e.newType(t)
	e.declTypes[td] = id
	if prev, ok := e.byBinary[t.BinaryName]; ok && e.Kind(prev) == KindSource {
		us.report(problem.DuplicateType, nameNode(td), t.Qualified)
	} else {
		e.byBinary[t.BinaryName] = id
		if outer == nil || !t.Local && e.byName[outer.Qualified] == outer.ID {
			e.byName[t.Qualified] = id
		}
	}
	if !t.Local {
		us.types = append(us.types, id)
	}
	for i, tp := range td.TypeParams {
		v := e.newTypeVariable(tp.Name.Name, i, id, 0)
		t.TypeVars = append(t.TypeVars, v)
	}
	seen := make(map[string]bool)
	for _, m := range td.MemberTypes() {
		mid := e.buildSourceType(us, m, id)
		if seen[m.NameString()] {
			us.report(problem.DuplicateType, nameNode(m), e.types[mid].Qualified)
		}
		seen[m.NameString()] = true
		t.MemberTypes = append(t.MemberTypes, mid)
	}
	log.Debugf("built source type %s", t.BinaryName)
	return id
}

func nameNode(td *ast.TypeDecl) ast.Node {
	if td.Name != nil {
		return td.Name
	}
	return td
}

// TypeOfDecl returns the binding created for a type declaration.
func (e *Environment) TypeOfDecl(td *ast.TypeDecl) TypeID { return e.declTypes[td] }

// MethodOfDecl returns the binding created for a method or constructor.
func (e *Environment) MethodOfDecl(md *ast.MethodDecl) MethodID { return e.declMethods[md] }

// FieldOfDecl returns the binding of one declarator of a field declaration.
func (e *Environment) FieldOfDecl(vd *ast.VarDeclarator) FieldID { return e.declFields[vd] }

func (e *Environment) ensureSupertypes(id TypeID) {
	t := e.Type(id)
	if t == nil || !t.IsDeclared() || t.state&(completedSupertypes|completingSupertypes) != 0 {
		return
	}
	t.state |= completingSupertypes
	switch t.Kind {
	case KindSource:
		e.completeSourceSupertypes(t)
	case KindBinary:
		e.completeBinarySupertypes(t)
	}
	t.state = t.state&^completingSupertypes | completedSupertypes
}

func (e *Environment) ensureMembers(id TypeID) {
	t := e.Type(id)
	if t == nil || !t.IsDeclared() || t.state&completedMembers != 0 {
		return
	}
	e.ensureSupertypes(t.ID)
	t.state |= completedMembers
	switch t.Kind {
	case KindSource:
		e.completeSourceMembers(t)
	case KindBinary:
		e.completeBinaryMembers(t)
	}
}

func (e *Environment) unitOf(t *TypeBinding) *unitState {
	if us, ok := e.units[t.Unit]; ok {
		return us
	}
	return &unitState{unit: t.Unit, reporter: problem.Discard}
}

// declScope is the scope a type's own declaration header and body see:
// its type variables and members on top of the enclosing scopes.
func (e *Environment) declScope(t *TypeBinding) Scope {
	if s, ok := e.typeScopes[t.ID]; ok {
		return s
	}
	us := e.unitOf(t)
	var parent Scope = us.scope
	if t.Enclosing != NoType {
		parent = e.declScope(e.Type(t.Enclosing))
	}
	s := newClassScope(parent, t.ID)
	e.typeScopes[t.ID] = s
	return s
}

func (e *Environment) completeSourceSupertypes(t *TypeBinding) {
	us := e.unitOf(t)
	td := t.Decl
	scope := e.declScope(t)
	r := e.typeResolver(us)

	for i, tp := range td.TypeParams {
		v := e.types[t.TypeVars[i]]
		for _, b := range tp.Bounds {
			v.Bounds = append(v.Bounds, r.resolveType(scope, b))
		}
		v.state |= completedSupertypes
	}

	object := e.Object()
	switch td.DeclKind {
	case ast.EnumKind:
		t.Superclass = e.Parameterize(e.WellKnown("java.lang.Enum"), []TypeID{t.ID}, NoType)
	case ast.RecordKind:
		t.Superclass = e.WellKnown("java.lang.Record")
	case ast.InterfaceKind, ast.AnnotationKind:
		t.Superclass = object
		if td.DeclKind == ast.AnnotationKind {
			t.Interfaces = append(t.Interfaces, e.WellKnown("java.lang.annotation.Annotation"))
		}
	default:
		if t.ID != object {
			t.Superclass = object
		}
		if td.Extends != nil {
			sup := r.resolveType(scope, td.Extends)
			st := e.Type(sup)
			switch {
			case st == nil || st.Kind == KindMissing:
			case !e.isClassType(sup):
				us.report(problem.SuperclassMustBeClass, td.Extends, e.TypeName(sup), t.Qualified)
			case e.inheritsFrom(sup, t.ID):
				us.report(problem.CyclicInheritance, td.Extends, t.Qualified)
			default:
				if e.Type(e.Declared(sup)).Modifiers.Has(ModFinal) {
					us.report(problem.ExtendsFinal, td.Extends, t.Qualified, e.TypeName(sup))
				}
				t.Superclass = sup
			}
		}
	}
	for _, n := range td.Implements {
		sup := r.resolveType(scope, n)
		st := e.Type(sup)
		switch {
		case st == nil:
		case st.Kind == KindMissing:
		case !e.isInterfaceType(sup):
			us.report(problem.SuperinterfaceMustBeInterface, n, e.TypeName(sup), t.Qualified)
		case e.inheritsFrom(sup, t.ID):
			us.report(problem.CyclicInheritance, n, t.Qualified)
		default:
			t.Interfaces = append(t.Interfaces, sup)
		}
	}
}

func (e *Environment) isClassType(id TypeID) bool {
	t := e.Type(e.Declared(id))
	return t != nil && t.IsDeclared() && !t.IsInterface()
}

func (e *Environment) isInterfaceType(id TypeID) bool {
	t := e.Type(e.Declared(id))
	return t != nil && t.IsDeclared() && t.IsInterface()
}

// inheritsFrom reports whether sup is target or reaches it through the
// supertypes completed so far.
func (e *Environment) inheritsFrom(sup, target TypeID) bool {
	seen := make(map[TypeID]bool)
	var walk func(TypeID) bool
	walk = func(id TypeID) bool {
		id = e.Declared(id)
		if id == target {
			return true
		}
		if id == NoType || seen[id] {
			return false
		}
		seen[id] = true
		e.ensureSupertypes(id)
		t := e.Type(id)
		if t.Superclass != NoType && walk(t.Superclass) {
			return true
		}
		for _, i := range t.Interfaces {
			if walk(i) {
				return true
			}
		}
		return false
	}
	return walk(sup)
}

func (e *Environment) completeSourceMembers(t *TypeBinding) {
	us := e.unitOf(t)
	td := t.Decl
	scope := e.declScope(t)
	r := e.typeResolver(us)
	iface := t.IsInterface()

	fieldNames := make(map[string]bool)
	addField := func(f *FieldBinding, at ast.Node) FieldID {
		if fieldNames[f.Name] {
			us.report(problem.DuplicateField, at, t.Qualified, f.Name)
		}
		fieldNames[f.Name] = true
		id := e.newField(f)
		t.Fields = append(t.Fields, id)
		return id
	}

	for _, c := range td.EnumConstants {
		f := &FieldBinding{
			Name:       c.Name.Name,
			Declaring:  t.ID,
			Modifiers:  ModPublic | ModStatic | ModFinal | ModEnum,
			Type:       t.ID,
			constState: 2,
		}
		if isDeprecatedDoc(c.Doc) {
			f.Modifiers |= ModDeprecated
		}
		addField(f, c.Name)
	}
	for _, p := range td.Components {
		typ := r.resolveType(scope, paramType(p))
		addField(&FieldBinding{Name: p.Name.Name, Declaring: t.ID, Modifiers: ModPrivate | ModFinal, Type: typ, constState: 2}, p.Name)
	}
	for _, fd := range td.Fields() {
		mods := sourceModifiers(fd.Modifiers)
		if iface {
			mods |= ModPublic | ModStatic | ModFinal
		}
		if isDeprecatedDoc(fd.Doc) {
			mods |= ModDeprecated
		}
		base := r.resolveType(scope, fd.Type)
		for _, v := range fd.Vars {
			f := &FieldBinding{
				Name:      v.Name.Name,
				Declaring: t.ID,
				Modifiers: mods,
				Type:      e.Array(base, v.Dims),
				Decl:      v,
			}
			if !f.IsFinal() || v.Init == nil {
				f.constState = 2
			}
			if base == e.Base(constant.TVoid) {
				us.report(problem.VoidValue, v.Name, v.Name.Name)
			}
			e.declFields[v] = addField(f, v.Name)
		}
	}

	var ctors int
	for _, md := range td.Methods() {
		id := e.buildSourceMethod(us, r, t, scope, md)
		if e.methods[id].Constructor {
			ctors++
		}
	}

	switch td.DeclKind {
	case ast.EnumKind:
		e.addSyntheticMethod(t, "values", ModPublic|ModStatic, e.Array(t.ID, 1))
		e.addSyntheticMethod(t, "valueOf", ModPublic|ModStatic, t.ID, e.StringType())
	case ast.RecordKind:
		e.completeRecord(t, r, scope)
	}
	if ctors == 0 && !iface && !t.Anonymous && td.DeclKind != ast.RecordKind {
		e.addDefaultConstructor(t)
	}
	e.checkDuplicateMethods(us, t)
}

func paramType(p *ast.Param) ast.TypeNode {
	if p.Type == nil {
		return nil
	}
	t := ast.ArrayDims(p.Type, p.Dims)
	if p.Varargs {
		t = ast.ArrayDims(t, 1)
	}
	return t
}

func (e *Environment) addSyntheticMethod(t *TypeBinding, name string, mods Modifiers, ret TypeID, params ...TypeID) MethodID {
	id := e.newMethod(&MethodBinding{Name: name, Declaring: t.ID, Modifiers: mods | ModSynthetic, Return: ret, Params: params})
	t.Methods = append(t.Methods, id)
	return id
}

func (e *Environment) addDefaultConstructor(t *TypeBinding) {
	var mods Modifiers
	switch {
	case t.DeclKind == ast.EnumKind:
		mods = ModPrivate
	default:
		mods = t.Modifiers & (ModPublic | ModProtected | ModPrivate)
	}
	id := e.newMethod(&MethodBinding{Name: "<init>", Declaring: t.ID, Modifiers: mods | ModSynthetic, Return: e.Base(constant.TVoid), Constructor: true})
	t.Methods = append(t.Methods, id)
}

// completeRecord adds the accessors and the canonical constructor a record
// does not declare itself.
func (e *Environment) completeRecord(t *TypeBinding, r *resolver, scope Scope) {
	var comps []TypeID
	var names []string
	for _, p := range t.Decl.Components {
		comps = append(comps, r.resolveType(scope, paramType(p)))
		names = append(names, p.Name.Name)
	}
	declared := func(name string, params []TypeID) bool {
		for _, mid := range t.Methods {
			m := e.methods[mid]
			if m.Name == name && e.sameErasures(m.Params, params) {
				return true
			}
		}
		return false
	}
	for i, name := range names {
		if !declared(name, nil) {
			e.addSyntheticMethod(t, name, ModPublic, comps[i])
		}
	}
	if !declared("<init>", comps) {
		id := e.newMethod(&MethodBinding{
			Name: "<init>", Declaring: t.ID, Modifiers: ModPublic | ModSynthetic,
			Params: comps, ParamNames: names, Return: e.Base(constant.TVoid), Constructor: true,
		})
		t.Methods = append(t.Methods, id)
	}
}

func (e *Environment) buildSourceMethod(us *unitState, r *resolver, t *TypeBinding, scope Scope, md *ast.MethodDecl) MethodID {
	m := &MethodBinding{
		Name:        md.NameString(),
		Declaring:   t.ID,
		Modifiers:   sourceModifiers(md.Modifiers),
		Constructor: md.Constructor,
		Decl:        md,
	}
	if m.Constructor {
		m.Name = "<init>"
	}
	if isDeprecatedDoc(md.Doc) {
		m.Modifiers |= ModDeprecated
	}
	iface := t.IsInterface()
	if iface {
		if !m.Modifiers.Has(ModPrivate) {
			m.Modifiers |= ModPublic
		}
		if md.Body == nil && !m.Modifiers.Has(ModStatic|ModPrivate) {
			m.Modifiers |= ModAbstract
		}
	}
	id := e.newMethod(m)
	e.declMethods[md] = id
	t.Methods = append(t.Methods, id)

	ms := &MethodScope{parent: scope, Method: id, Static: m.IsStatic(), locals: map[string]LocalID{}}
	for i, tp := range md.TypeParams {
		m.TypeVars = append(m.TypeVars, e.newTypeVariable(tp.Name.Name, i, NoType, id))
	}
	ms.TypeVars = m.TypeVars
	for i, tp := range md.TypeParams {
		v := e.types[m.TypeVars[i]]
		for _, b := range tp.Bounds {
			v.Bounds = append(v.Bounds, r.resolveType(ms, b))
		}
		v.state |= completedSupertypes
	}

	switch {
	case m.Constructor:
		m.Return = e.Base(constant.TVoid)
	case md.Result == nil:
		us.report(problem.MissingReturnType, md.Name)
		m.Return = e.Base(constant.TVoid)
	default:
		m.Return = e.Array(r.resolveType(ms, md.Result), md.Dims)
	}
	params := md.Params
	if md.Compact {
		params = t.Decl.Components
	}
	for i, p := range params {
		m.Params = append(m.Params, r.resolveType(ms, paramType(p)))
		m.ParamNames = append(m.ParamNames, p.Name.Name)
		if p.Varargs && i == len(params)-1 {
			m.Modifiers |= ModVarargs
		}
	}
	for _, x := range md.Throws {
		m.Throws = append(m.Throws, r.resolveType(ms, x))
	}

	switch {
	case md.Body == nil && !m.IsAbstract() && !m.Modifiers.Has(ModNative) && !md.Compact:
		us.report(problem.MethodBodyRequired, md.Name)
	case md.Body != nil && m.IsAbstract():
		us.report(problem.AbstractMethodWithBody, md.Name)
	}
	return id
}

func (e *Environment) sameErasures(a, b []TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if e.Erasure(a[i]) != e.Erasure(b[i]) {
			return false
		}
	}
	return true
}

func (e *Environment) checkDuplicateMethods(us *unitState, t *TypeBinding) {
	for i, a := range t.Methods {
		ma := e.methods[a]
		if ma.Decl == nil {
			continue
		}
		for _, b := range t.Methods[:i] {
			mb := e.methods[b]
			if mb.Name == ma.Name && e.sameErasures(ma.Params, mb.Params) {
				name := ma.Name
				if ma.Constructor {
					name = t.Name
				}
				us.report(problem.DuplicateMethod, ma.Decl.Name, name+"("+e.typeNames(ma.Params)+")", t.Name)
				break
			}
		}
	}
}

// buildLocalType creates and completes a local or anonymous class found in
// a body. Its supertypes and members are resolved against scope.
func (e *Environment) buildLocalType(us *unitState, td *ast.TypeDecl, scope Scope) TypeID {
	enclosing := NoType
	if cs := enclosingClass(scope); cs != nil {
		enclosing = cs.Type
	}
	id := e.buildSourceType(us, td, enclosing)
	t := e.types[id]
	e.typeScopes[id] = newClassScope(scope, id)
	for _, m := range t.MemberTypes {
		e.ensureSupertypes(m)
	}
	if !t.Anonymous {
		e.ensureSupertypes(id)
	}
	return id
}

// completeAnonymous sets the supertype of an anonymous class from the type
// named in its class instance creation expression.
func (e *Environment) completeAnonymous(id, super TypeID) {
	t := e.types[id]
	if t.state&completedSupertypes != 0 {
		return
	}
	t.state |= completedSupertypes
	switch {
	case super == NoType:
		t.Superclass = e.Object()
	case e.isInterfaceType(super):
		t.Superclass = e.Object()
		t.Interfaces = []TypeID{super}
	default:
		t.Superclass = super
	}
	for _, m := range t.MemberTypes {
		e.ensureSupertypes(m)
	}
}
