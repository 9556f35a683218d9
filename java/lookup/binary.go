package lookup

import (
	"strings"

	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
)

func modifiersFromAccess(f classfile.AccessFlags) Modifiers {
	var m Modifiers
	pairs := []struct {
		acc classfile.AccessFlags
		mod Modifiers
	}{
		{classfile.AccPublic, ModPublic},
		{classfile.AccPrivate, ModPrivate},
		{classfile.AccProtected, ModProtected},
		{classfile.AccStatic, ModStatic},
		{classfile.AccFinal, ModFinal},
		{classfile.AccAbstract, ModAbstract},
		{classfile.AccNative, ModNative},
		{classfile.AccInterface, ModInterface},
		{classfile.AccAnnotation, ModAnnotation},
		{classfile.AccEnum, ModEnum},
		{classfile.AccSynthetic, ModSynthetic},
	}
	for _, p := range pairs {
		if f&p.acc != 0 {
			m |= p.mod
		}
	}
	return m
}

// acceptBinary creates the binding of a class file. Supertypes and members
// are read on first use.
func (e *Environment) acceptBinary(cf *classfile.ClassFile) TypeID {
	internal := cf.ClassName()
	if id, ok := e.byBinary[internal]; ok {
		return id
	}
	pkg, simple := "", internal
	if i := strings.LastIndexByte(internal, '/'); i >= 0 {
		pkg, simple = strings.ReplaceAll(internal[:i], "/", "."), internal[i+1:]
	}
	t := &TypeBinding{
		Kind:       KindBinary,
		Package:    pkg,
		BinaryName: internal,
		Modifiers:  modifiersFromAccess(cf.AccessFlags),
		class:      cf,
		state:      completedHeader,
	}
	switch {
	case cf.AccessFlags.IsAnnotation():
		t.DeclKind = ast.AnnotationKind
	case cf.AccessFlags.IsInterface():
		t.DeclKind = ast.InterfaceKind
	case cf.AccessFlags.IsEnum():
		t.DeclKind = ast.EnumKind
	case cf.SuperClassName() == "java/lang/Record":
		t.DeclKind = ast.RecordKind
		t.Modifiers |= ModRecord
	}
	if cf.IsDeprecated() {
		t.Modifiers |= ModDeprecated
	}
	id := e.newType(t)
	e.byBinary[internal] = id

	t.Name, t.Qualified = simple, strings.ReplaceAll(internal, "/", ".")
	if own, ok := cf.OwnInnerClass(); ok {
		t.Name = own.SimpleName
		t.Modifiers = modifiersFromAccess(own.AccessFlags) | t.Modifiers&(ModDeprecated|ModRecord)
		if own.Outer == "" {
			t.Local = true
			t.Anonymous = own.SimpleName == ""
		} else if outer, ok := e.typeByBinaryName(own.Outer); ok {
			t.Enclosing = outer
			t.Qualified = e.Type(outer).Qualified + "." + t.Name
		}
	}
	e.byName[t.Qualified] = id

	if sig := cf.Signature(); sig != "" {
		cs, err := classfile.ParseClassSignature(sig)
		if err != nil {
			log.Warningf("ignoring signature of %s: %s", internal, err)
		} else {
			t.classSig = cs
			for i, tp := range cs.TypeParams {
				t.TypeVars = append(t.TypeVars, e.newTypeVariable(tp.Name, i, id, 0))
			}
		}
	}
	log.Debugf("loaded binary type %s", internal)
	return id
}

// sigScope resolves type variable names in signatures.
type sigScope struct {
	vars  []TypeID
	outer *sigScope
}

func (e *Environment) typeVarNamed(s *sigScope, name string) TypeID {
	for ; s != nil; s = s.outer {
		for _, v := range s.vars {
			if e.types[v].Name == name {
				return v
			}
		}
	}
	return NoType
}

// classSigScope is the scope of type variables visible in a binary type:
// its own and those of the enclosing instance types.
func (e *Environment) classSigScope(id TypeID) *sigScope {
	t := e.types[id]
	var outer *sigScope
	if t.Enclosing != NoType && !t.Modifiers.IsStatic() {
		outer = e.classSigScope(e.Resolve(t.Enclosing))
	}
	return &sigScope{vars: t.TypeVars, outer: outer}
}

func baseFromDescriptor(c byte) constant.TypeID {
	switch c {
	case 'Z':
		return constant.TBoolean
	case 'B':
		return constant.TByte
	case 'C':
		return constant.TChar
	case 'S':
		return constant.TShort
	case 'I':
		return constant.TInt
	case 'J':
		return constant.TLong
	case 'F':
		return constant.TFloat
	case 'D':
		return constant.TDouble
	}
	return constant.TVoid
}

func (e *Environment) fromSig(sig classfile.TypeSig, scope *sigScope) TypeID {
	switch s := sig.(type) {
	case classfile.BaseTypeSig:
		return e.Base(baseFromDescriptor(byte(s)))
	case *classfile.TypeVarSig:
		if v := e.typeVarNamed(scope, s.Name); v != NoType {
			return v
		}
		return e.Object()
	case *classfile.ArrayTypeSig:
		return e.Array(e.fromSig(s.Elem, scope), 1)
	case *classfile.ClassTypeSig:
		generic := e.UnresolvedReference(strings.Split(s.Name, "/"))
		var outer TypeID
		if s.Outer != nil {
			outer = e.fromSig(s.Outer, scope)
		}
		if len(s.Args) == 0 && outer == NoType {
			return generic
		}
		args := make([]TypeID, len(s.Args))
		for i, a := range s.Args {
			switch a.Wildcard {
			case '*':
				args[i] = e.Wildcard(NoType, Unbounded)
			case '+':
				args[i] = e.Wildcard(e.fromSig(a.Type, scope), ExtendsBound)
			case '-':
				args[i] = e.Wildcard(e.fromSig(a.Type, scope), SuperBound)
			default:
				args[i] = e.fromSig(a.Type, scope)
			}
		}
		if len(args) == 0 {
			return generic
		}
		return e.Parameterize(generic, args, outer)
	}
	return NoType
}

func (e *Environment) typeParamBounds(vars []TypeID, params []classfile.TypeParamSig, scope *sigScope) {
	for i, tp := range params {
		if i >= len(vars) {
			break
		}
		v := e.types[vars[i]]
		if tp.ClassBound != nil {
			v.Bounds = append(v.Bounds, e.fromSig(tp.ClassBound, scope))
		}
		for _, b := range tp.InterfaceBounds {
			v.Bounds = append(v.Bounds, e.fromSig(b, scope))
		}
		for _, b := range v.Bounds {
			if e.isPending(b) {
				e.addWrapper(b, wrapper{kind: wrapType, id: int32(v.ID)})
			}
		}
		v.state |= completedSupertypes
	}
}

func (e *Environment) completeBinarySupertypes(t *TypeBinding) {
	cf := t.class
	scope := e.classSigScope(t.ID)
	if cs := t.classSig; cs != nil {
		e.typeParamBounds(t.TypeVars, cs.TypeParams, scope)
		if cs.Super != nil && cf.SuperClass != 0 {
			t.Superclass = e.fromSig(cs.Super, scope)
		}
		for _, i := range cs.Interfaces {
			t.Interfaces = append(t.Interfaces, e.fromSig(i, scope))
		}
	} else {
		if s := cf.SuperClassName(); s != "" {
			t.Superclass = e.UnresolvedReference(strings.Split(s, "/"))
		}
		for _, i := range cf.InterfaceNames() {
			t.Interfaces = append(t.Interfaces, e.UnresolvedReference(strings.Split(i, "/")))
		}
	}
	if t.Superclass != NoType && e.isPending(t.Superclass) {
		e.addWrapper(t.Superclass, wrapper{kind: wrapType, id: int32(t.ID)})
	}
	for _, i := range t.Interfaces {
		if e.isPending(i) {
			e.addWrapper(i, wrapper{kind: wrapType, id: int32(t.ID)})
		}
	}
}

func (e *Environment) completeBinaryMembers(t *TypeBinding) {
	cf := t.class
	cp := cf.ConstantPool
	scope := e.classSigScope(t.ID)

	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.AccessFlags.IsSynthetic() {
			continue
		}
		desc := f.Signature(cp)
		if desc == "" {
			desc = f.Descriptor(cp)
		}
		sig, err := classfile.ParseFieldSignature(desc)
		if err != nil {
			log.Warningf("skipping field %s.%s: %s", t.BinaryName, f.Name(cp), err)
			continue
		}
		fb := &FieldBinding{
			Name:      f.Name(cp),
			Declaring: t.ID,
			Modifiers: modifiersFromAccess(f.AccessFlags),
			Type:      e.fromSig(sig, scope),
		}
		if f.IsDeprecated(cp) {
			fb.Modifiers |= ModDeprecated
		}
		if v, ok := f.ConstantValue(cp); ok && fb.IsStatic() && fb.IsFinal() {
			fb.constant = constantFromClassFile(v, desc)
		}
		fb.constState = 2
		id := e.newField(fb)
		e.noteMember(wrapField, int32(id), fb.Type)
		t.Fields = append(t.Fields, id)
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		name := m.Name(cp)
		if m.AccessFlags.IsSynthetic() || m.AccessFlags.Has(classfile.AccBridge) || name == "<clinit>" {
			continue
		}
		mb := &MethodBinding{
			Name:        name,
			Declaring:   t.ID,
			Modifiers:   modifiersFromAccess(m.AccessFlags),
			Constructor: name == "<init>",
		}
		if m.AccessFlags.Has(classfile.AccVarargs) {
			mb.Modifiers |= ModVarargs
		}
		if m.IsDeprecated(cp) {
			mb.Modifiers |= ModDeprecated
		}
		if t.IsInterface() && !mb.IsAbstract() && !mb.IsStatic() && !mb.Modifiers.Has(ModPrivate) {
			mb.Modifiers |= ModDefault
		}
		id := e.newMethod(mb)
		if !e.fillBinaryMethod(t, mb, m, cp, scope) {
			continue
		}
		e.noteMember(wrapMethod, int32(id), append(append([]TypeID{mb.Return}, mb.Params...), mb.Throws...)...)
		t.Methods = append(t.Methods, id)
	}

	for _, ic := range cf.InnerClasses() {
		if ic.Outer != t.BinaryName || ic.SimpleName == "" || ic.AccessFlags.IsSynthetic() {
			continue
		}
		if m, ok := e.typeByBinaryName(ic.Name); ok {
			t.MemberTypes = append(t.MemberTypes, m)
		}
	}
}

func (e *Environment) fillBinaryMethod(t *TypeBinding, mb *MethodBinding, m *classfile.MethodInfo, cp classfile.ConstantPool, scope *sigScope) bool {
	if sig := m.Signature(cp); sig != "" {
		ms, err := classfile.ParseMethodSignature(sig)
		if err == nil {
			for i, tp := range ms.TypeParams {
				mb.TypeVars = append(mb.TypeVars, e.newTypeVariable(tp.Name, i, NoType, mb.ID))
			}
			mscope := &sigScope{vars: mb.TypeVars, outer: scope}
			e.typeParamBounds(mb.TypeVars, ms.TypeParams, mscope)
			for _, p := range ms.Params {
				mb.Params = append(mb.Params, e.fromSig(p, mscope))
			}
			mb.Return = e.Base(constant.TVoid)
			if ms.Return != nil {
				mb.Return = e.fromSig(ms.Return, mscope)
			}
			for _, x := range ms.Throws {
				mb.Throws = append(mb.Throws, e.fromSig(x, mscope))
			}
			if len(mb.Throws) == 0 {
				mb.Throws = e.exceptionRefs(m.ExceptionNames(cp))
			}
			return true
		}
		log.Warningf("ignoring signature of %s.%s: %s", t.BinaryName, mb.Name, err)
	}
	md, err := classfile.ParseMethodDescriptor(m.Descriptor(cp))
	if err != nil {
		log.Warningf("skipping method %s.%s: %s", t.BinaryName, mb.Name, err)
		return false
	}
	params := md.Parameters
	if mb.Constructor && t.Enclosing != NoType && !t.Modifiers.IsStatic() && !t.IsInterface() && len(params) > 0 {
		params = params[1:]
	}
	for _, p := range params {
		mb.Params = append(mb.Params, e.fromDescriptor(p))
	}
	mb.Return = e.Base(constant.TVoid)
	if md.Return != nil {
		mb.Return = e.fromDescriptor(*md.Return)
	}
	mb.Throws = e.exceptionRefs(m.ExceptionNames(cp))
	return true
}

func (e *Environment) fromDescriptor(ft classfile.FieldType) TypeID {
	var elem TypeID
	if ft.Base != 0 {
		elem = e.Base(baseFromDescriptor(ft.Base))
	} else {
		elem = e.UnresolvedReference(strings.Split(ft.ClassName, "/"))
	}
	return e.Array(elem, ft.ArrayDepth)
}

func (e *Environment) exceptionRefs(names []string) []TypeID {
	var out []TypeID
	for _, n := range names {
		out = append(out, e.UnresolvedReference(strings.Split(n, "/")))
	}
	return out
}

func constantFromClassFile(v any, desc string) constant.Constant {
	switch v := v.(type) {
	case int32:
		switch desc {
		case "Z":
			return constant.Bool(v != 0)
		case "B":
			return constant.Byte(int8(v))
		case "C":
			return constant.Char(uint16(v))
		case "S":
			return constant.Short(int16(v))
		}
		return constant.Int(v)
	case int64:
		return constant.Long(v)
	case float32:
		return constant.Float(v)
	case float64:
		return constant.Double(v)
	case string:
		return constant.String(v)
	}
	return constant.NotAConstant
}
