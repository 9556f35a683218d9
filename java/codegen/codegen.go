// Package codegen translates resolved and flow-analyzed compilation units
// into class files.
//
// Every type declared in a unit, member, local and anonymous types
// included, becomes one class file. Bodies are compiled from the side
// tables of lookup.Info; methods that contain errors, or constructs the
// generator does not translate, get a problem method body that throws
// java.lang.Error with the messages of the problems found inside them.
package codegen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/problem"
)

var log = commonlog.GetLogger("jfront.codegen")

// Output is one generated class.
type Output struct {
	Name  string // internal name, e.g. p/Outer$Inner
	Type  lookup.TypeID
	Class *classfile.ClassFile
	Data  []byte
}

type Option func(*generator)

// WithProblems supplies the problems reported for the unit. Their
// messages become the bodies of problem methods.
func WithProblems(problems []problem.Problem) Option {
	return func(g *generator) { g.problems = problems }
}

// WithReporter receives the warnings about constructs that were replaced
// by problem methods.
func WithReporter(r problem.Reporter) Option {
	return func(g *generator) { g.reporter = r }
}

// Generate produces the class files of unit. An error is returned when a
// class cannot be encoded, for example because its constant pool
// overflows.
func Generate(unit *ast.CompilationUnit, info *lookup.Info, env *lookup.Environment, opts ...Option) ([]*Output, error) {
	g := &generator{
		env:          env,
		info:         info,
		unit:         unit,
		reporter:     problem.Discard,
		byType:       make(map[lookup.TypeID]*classGen),
		widenFields:  make(map[lookup.FieldID]bool),
		widenMethods: make(map[lookup.MethodID]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, td := range unit.Types {
		id := env.TypeOfDecl(td)
		if id == lookup.NoType {
			continue
		}
		g.topLevel(td, id)
	}
	var out []*Output
	for _, cg := range g.classes {
		o, err := cg.finish()
		if err != nil {
			return out, err
		}
		out = append(out, o)
	}
	log.Debugf("generated %d classes for %s", len(out), unit.File)
	return out, nil
}

// topLevel generates a top level type and its nested classes. A type
// abort drops the classes generated for it; the other types of the unit
// are still generated.
func (g *generator) topLevel(td *ast.TypeDecl, id lookup.TypeID) {
	n := len(g.classes)
	a := problem.Catch(problem.AbortType, func() { g.class(td, id, nil, nil) })
	if a == nil {
		return
	}
	log.Infof("%s: %s", td.NameString(), a)
	for _, cg := range g.classes[n:] {
		delete(g.byType, cg.id)
	}
	g.classes = g.classes[:n]
}

type generator struct {
	env      *lookup.Environment
	info     *lookup.Info
	unit     *ast.CompilationUnit
	problems []problem.Problem
	reporter problem.Reporter

	classes []*classGen
	byType  map[lookup.TypeID]*classGen

	// Private members used from another class of the same nest are
	// emitted with package access.
	widenFields  map[lookup.FieldID]bool
	widenMethods map[lookup.MethodID]bool
}

// member is a field or method waiting for the end of generation, when its
// final access flags are known.
type member struct {
	field  lookup.FieldID
	method lookup.MethodID
	flags  classfile.AccessFlags
	name   string
	desc   string
	attrs  []classfile.AttributeInfo
}

type classGen struct {
	g    *generator
	id   lookup.TypeID
	tb   *lookup.TypeBinding
	decl *ast.TypeDecl
	b    *classfile.Builder

	// outer is the type of the enclosing instance kept in this$0.
	outer lookup.TypeID
	// captured are the locals of enclosing bodies copied into val$ fields.
	captured []lookup.LocalID
	// nested are the classes listed in the InnerClasses attribute.
	nested []lookup.TypeID

	fields  []*member
	methods []*member

	assertions bool

	// Anonymous classes: the constructor invoked by the instance creation
	// expression, whether the superclass needs an enclosing instance
	// passed in, and the descriptor of the generated constructor.
	superCtor  lookup.MethodID
	superOuter lookup.TypeID
	enumBody   bool
	anonDesc   string
}

// class generates the class of a type declaration. site is the frame of
// the body declaring a local or anonymous class, nil otherwise; origin is
// the instance creation expression or enum constant of an anonymous
// class.
func (g *generator) class(td *ast.TypeDecl, id lookup.TypeID, site *frame, origin ast.Node) *classGen {
	if cg := g.byType[id]; cg != nil {
		return cg
	}
	env := g.env
	tb := env.Type(id)
	cg := &classGen{g: g, id: id, tb: tb, decl: td}
	g.byType[id] = cg
	g.classes = append(g.classes, cg)

	switch {
	case site != nil:
		if !site.static {
			cg.outer = site.cg.id
		}
		cg.captured = g.captures(td, site)
		site.cg.nest(id)
	case tb.Enclosing != lookup.NoType && td.DeclKind == ast.ClassKind && !tb.Modifiers.IsStatic():
		cg.outer = tb.Enclosing
	}
	cg.assertions = hasAssert(td)
	if tb.Anonymous {
		cg.anonymousSuper(origin)
	}

	super := "java/lang/Object"
	if sc := env.Superclass(id); sc != lookup.NoType && !tb.IsInterface() {
		super = env.BinaryName(sc)
	}
	if tb.DeclKind == ast.RecordKind {
		super = "java/lang/Record"
	}
	var ifaces []string
	for _, i := range env.SuperInterfaces(id) {
		ifaces = append(ifaces, env.BinaryName(i))
	}
	cg.b = classfile.NewBuilder(classFlags(tb), tb.BinaryName, super, ifaces)
	log.Debugf("generating %s", tb.BinaryName)

	cg.members()
	for _, mt := range td.MemberTypes() {
		if mid := env.TypeOfDecl(mt); mid != lookup.NoType {
			g.class(mt, mid, nil, nil)
			cg.nest(mid)
		}
	}
	return cg
}

// nest records t in the InnerClasses attribute of cg.
func (cg *classGen) nest(t lookup.TypeID) {
	for _, n := range cg.nested {
		if n == t {
			return
		}
	}
	cg.nested = append(cg.nested, t)
}

// members generates fields, methods and the class initializer.
func (cg *classGen) members() {
	env, td := cg.g.env, cg.decl
	if cg.outer != lookup.NoType {
		cg.addField(0, classfile.AccFinal|classfile.AccSynthetic, "this$0", env.Descriptor(cg.outer))
	}
	for _, lid := range cg.captured {
		l := env.Local(lid)
		cg.addField(0, classfile.AccPrivate|classfile.AccFinal|classfile.AccSynthetic, "val$"+l.Name, env.Descriptor(l.Type))
	}
	for _, fid := range cg.tb.Fields {
		cg.field(fid)
	}
	if td.DeclKind == ast.EnumKind {
		cg.addField(0, classfile.AccPrivate|classfile.AccStatic|classfile.AccFinal|classfile.AccSynthetic, "$VALUES", "["+env.Descriptor(cg.id))
	}
	if cg.assertions {
		cg.addField(0, classfile.AccStatic|classfile.AccFinal|classfile.AccSynthetic, "$assertionsDisabled", "Z")
	}

	for _, mid := range cg.tb.Methods {
		mb := env.Method(mid)
		switch {
		case mb.Decl != nil:
			cg.method(mb.Decl, mid)
		case mb.Constructor:
			cg.syntheticConstructor(mid)
		case td.DeclKind == ast.EnumKind && mb.Name == "values":
			cg.enumValues(mid)
		case td.DeclKind == ast.EnumKind && mb.Name == "valueOf":
			cg.enumValueOf(mid)
		case td.DeclKind == ast.RecordKind:
			cg.recordAccessor(mid)
		}
	}
	if cg.tb.Anonymous {
		cg.anonymousConstructor()
	}
	if cg.needsClinit() {
		cg.clinit()
	}
}

func (cg *classGen) addField(fid lookup.FieldID, flags classfile.AccessFlags, name, desc string, attrs ...classfile.AttributeInfo) {
	cg.fields = append(cg.fields, &member{field: fid, flags: flags, name: name, desc: desc, attrs: attrs})
}

func (cg *classGen) addMethod(mid lookup.MethodID, flags classfile.AccessFlags, name, desc string, attrs ...classfile.AttributeInfo) {
	cg.methods = append(cg.methods, &member{method: mid, flags: flags, name: name, desc: desc, attrs: attrs})
}

func (cg *classGen) field(fid lookup.FieldID) {
	env, b := cg.g.env, cg.b
	f := env.Field(fid)
	var attrs []classfile.AttributeInfo
	if f.IsStatic() && f.IsFinal() {
		if c := env.FieldConstant(fid); c.IsValid() {
			attrs = append(attrs, b.ConstantValueAttr(cg.poolConstant(c)))
		}
	}
	if sig := env.FieldSignature(f.Type); sig != "" {
		attrs = append(attrs, b.SignatureAttr(sig))
	}
	if f.Modifiers.Has(lookup.ModDeprecated) {
		attrs = append(attrs, b.DeprecatedAttr())
	}
	cg.addField(fid, memberFlags(f.Modifiers), f.Name, env.Descriptor(f.Type), attrs...)
}

// method generates a declared method or constructor.
func (cg *classGen) method(md *ast.MethodDecl, mid lookup.MethodID) {
	g, env, b := cg.g, cg.g.env, cg.b
	mb := env.Method(mid)
	flags := memberFlags(mb.Modifiers)
	name, desc := mb.Name, env.MethodDescriptor(mid)
	if mb.Constructor {
		desc = g.ctorDescriptor(mid)
	}
	var attrs []classfile.AttributeInfo
	if len(mb.Throws) > 0 {
		names := make([]string, len(mb.Throws))
		for i, t := range mb.Throws {
			names[i] = env.BinaryName(t)
		}
		attrs = append(attrs, b.ExceptionsAttr(names))
	}
	if sig := env.MethodSignature(mid); sig != "" {
		attrs = append(attrs, b.SignatureAttr(sig))
	}
	if mb.Modifiers.Has(lookup.ModDeprecated) {
		attrs = append(attrs, b.DeprecatedAttr())
	}

	if cg.tb.IsInterface() && md.Body != nil {
		// Interface methods with bodies need a newer class file version.
		g.unsupported(md, "interface method bodies")
		if mb.IsStatic() || mb.Modifiers.Has(lookup.ModPrivate) {
			return
		}
		cg.addMethod(mid, flags|classfile.AccAbstract, name, desc, attrs...)
		return
	}
	if md.Body == nil && !md.Compact {
		cg.addMethod(mid, flags, name, desc, attrs...)
		return
	}

	static := mb.IsStatic()
	c := cg.body(md, static, desc, func(f *frame) {
		f.params(md, mb)
		if mb.Constructor {
			f.constructor(md, mid)
		} else {
			f.block(md.Body)
			if f.c.reachable {
				f.c.op(opReturn, 0)
			}
		}
	})
	attrs = append([]classfile.AttributeInfo{cg.codeAttr(c)}, attrs...)
	cg.addMethod(mid, flags, name, desc, attrs...)
}

// body compiles the code of one member; n is nil for members without a
// declaration. Erroneous members and members using constructs the
// generator does not support get a problem body.
func (cg *classGen) body(n ast.Node, static bool, desc string, gen func(f *frame)) *code {
	g := cg.g
	if n == nil {
		n = cg.decl
	} else if g.erroneous(n) || g.info.Aborted[cg.decl] {
		return cg.problemCode(n, static, desc, g.messages(n))
	}
	var c *code
	if a := problem.Catch(problem.AbortMethod, func() { c = cg.gen(static, gen) }); a != nil {
		log.Debugf("%s: %s", cg.tb.BinaryName, a)
		return cg.problemCode(n, static, desc, []string{a.Reason})
	}
	if c.overflow || len(c.buf) >= 65536 {
		return cg.problemCode(n, static, desc, []string{"The code of this method is too large"})
	}
	return c
}

func (cg *classGen) gen(static bool, gen func(f *frame)) *code {
	f := newFrame(cg, static)
	gen(f)
	return f.c
}

func (g *generator) unsupported(at ast.Node, what string) {
	sp := at.Span()
	g.reporter.Report(problem.New(problem.CodegenUnsupported, problem.Location{
		File:   g.unit.File,
		Start:  sp.Start.Offset,
		End:    sp.End.Offset,
		Line:   sp.Start.Line,
		Column: sp.Start.Column,
	}, what))
}

func (g *generator) erroneous(n ast.Node) bool {
	return g.info.Erroneous[n] || g.info.Aborted[n] || n.Flags().Has(ast.HasSyntaxErrors) || n.Flags().Has(ast.Malformed)
}

// messages returns the messages of the errors reported inside n.
func (g *generator) messages(n ast.Node) []string {
	sp := n.Span()
	var out []string
	for _, p := range g.problems {
		if !p.IsError() || p.File != "" && p.File != g.unit.File {
			continue
		}
		if p.Start >= sp.Start.Offset && p.Start < sp.End.Offset {
			out = append(out, p.Message)
		}
	}
	return out
}

// problemMessage is the message of the error thrown by a problem method.
func problemMessage(msgs []string) string {
	switch len(msgs) {
	case 0:
		return "Unresolved compilation problem: \n\tUnknown error\n"
	case 1:
		return "Unresolved compilation problem: \n\t" + msgs[0] + "\n"
	}
	return "Unresolved compilation problems: \n\t" + strings.Join(msgs, "\n\t") + "\n"
}

// problemCode is a body that throws java.lang.Error with msgs.
func (cg *classGen) problemCode(n ast.Node, static bool, desc string, msgs []string) *code {
	c := newCode()
	args, _ := descriptorSlots(desc)
	c.maxLocals = args
	if !static {
		c.maxLocals++
	}
	c.line(n.Span().Start.Line)
	cg.throwError(c, problemMessage(msgs))
	return c
}

func (cg *classGen) throwError(c *code, msg string) {
	b := cg.b
	c.op2(opNew, 1, b.Class("java/lang/Error"))
	c.op(opDup, 1)
	ldc(c, b.String(msg), 1)
	c.op2(opInvokespecial, -2, b.Methodref("java/lang/Error", "<init>", "(Ljava/lang/String;)V", false))
	c.op(opAthrow, -1)
}

func ldc(c *code, idx uint16, delta int) {
	if idx < 256 {
		c.op(opLdc, delta, byte(idx))
		return
	}
	c.op2(opLdcW, delta, idx)
}

func (cg *classGen) codeAttr(c *code) classfile.AttributeInfo {
	b := cg.b
	var attrs []classfile.AttributeInfo
	if len(c.lines) > 0 {
		attrs = append(attrs, b.LineNumberTableAttr(c.lines))
	}
	return b.CodeAttr(&classfile.CodeAttribute{
		MaxStack:       uint16(c.maxStack),
		MaxLocals:      uint16(c.maxLocals),
		Code:           c.buf,
		ExceptionTable: c.handlers,
		Attributes:     attrs,
	})
}

// finish adds the members and class attributes and encodes the class.
func (cg *classGen) finish() (*Output, error) {
	g, env, b := cg.g, cg.g.env, cg.b
	for _, f := range cg.fields {
		flags := f.flags
		if f.field != 0 && g.widenFields[f.field] {
			flags &^= classfile.AccPrivate
		}
		b.AddField(flags, f.name, f.desc, f.attrs...)
	}
	for _, m := range cg.methods {
		flags := m.flags
		if m.method != 0 && g.widenMethods[m.method] {
			flags &^= classfile.AccPrivate
		}
		b.AddMethod(flags, m.name, m.desc, m.attrs...)
	}

	var inner []classfile.InnerClass
	if cg.tb.Enclosing != lookup.NoType {
		inner = append(inner, g.innerClass(cg.id))
	}
	for _, n := range cg.nested {
		if n != cg.id {
			inner = append(inner, g.innerClass(n))
		}
	}
	if len(inner) > 0 {
		b.AddAttribute(b.InnerClassesAttr(inner))
	}
	if g.unit.File != "" {
		b.AddAttribute(b.SourceFileAttr(filepath.Base(g.unit.File)))
	}
	if sig := env.ClassSignature(cg.id); sig != "" {
		b.AddAttribute(b.SignatureAttr(sig))
	}
	if cg.tb.Modifiers.Has(lookup.ModDeprecated) {
		b.AddAttribute(b.DeprecatedAttr())
	}
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("generate %s: %w", cg.tb.BinaryName, err)
	}
	cf := b.ClassFile()
	data, err := classfile.Marshal(cf)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", cg.tb.BinaryName, err)
	}
	return &Output{Name: cg.tb.BinaryName, Type: cg.id, Class: cf, Data: data}, nil
}

func (g *generator) innerClass(t lookup.TypeID) classfile.InnerClass {
	env := g.env
	tb := env.Type(t)
	ic := classfile.InnerClass{Name: tb.BinaryName, AccessFlags: innerFlags(tb)}
	if !tb.Local && tb.Enclosing != lookup.NoType {
		ic.Outer = env.Type(tb.Enclosing).BinaryName
	}
	if !tb.Anonymous {
		ic.SimpleName = tb.Name
	}
	return ic
}

// classFlags are the access flags of the class file itself: nested
// classes are public or package private there.
func classFlags(tb *lookup.TypeBinding) classfile.AccessFlags {
	m := tb.Modifiers
	var f classfile.AccessFlags
	if m.Has(lookup.ModPublic) || m.Has(lookup.ModProtected) {
		f |= classfile.AccPublic
	}
	if m.Has(lookup.ModFinal) {
		f |= classfile.AccFinal
	}
	if m.Has(lookup.ModAbstract) {
		f |= classfile.AccAbstract
	}
	switch {
	case m.Has(lookup.ModInterface):
		f |= classfile.AccInterface | classfile.AccAbstract
		if m.Has(lookup.ModAnnotation) {
			f |= classfile.AccAnnotation
		}
	default:
		f |= classfile.AccSuper
	}
	if m.Has(lookup.ModEnum) {
		f |= classfile.AccEnum
	}
	if m.Has(lookup.ModSynthetic) {
		f |= classfile.AccSynthetic
	}
	return f
}

func innerFlags(tb *lookup.TypeBinding) classfile.AccessFlags {
	f := classFlags(tb) &^ (classfile.AccPublic | classfile.AccSuper)
	m := tb.Modifiers
	switch {
	case m.Has(lookup.ModPublic):
		f |= classfile.AccPublic
	case m.Has(lookup.ModProtected):
		f |= classfile.AccProtected
	case m.Has(lookup.ModPrivate):
		f |= classfile.AccPrivate
	}
	if m.IsStatic() {
		f |= classfile.AccStatic
	}
	return f
}

var memberFlagTable = []struct {
	mod  lookup.Modifiers
	flag classfile.AccessFlags
}{
	{lookup.ModPublic, classfile.AccPublic},
	{lookup.ModPrivate, classfile.AccPrivate},
	{lookup.ModProtected, classfile.AccProtected},
	{lookup.ModStatic, classfile.AccStatic},
	{lookup.ModFinal, classfile.AccFinal},
	{lookup.ModSynchronized, classfile.AccSynchronized},
	{lookup.ModVolatile, classfile.AccVolatile},
	{lookup.ModTransient, classfile.AccTransient},
	{lookup.ModNative, classfile.AccNative},
	{lookup.ModAbstract, classfile.AccAbstract},
	{lookup.ModStrictfp, classfile.AccStrict},
	{lookup.ModVarargs, classfile.AccVarargs},
	{lookup.ModSynthetic, classfile.AccSynthetic},
	{lookup.ModEnum, classfile.AccEnum},
}

func memberFlags(m lookup.Modifiers) classfile.AccessFlags {
	var f classfile.AccessFlags
	for _, e := range memberFlagTable {
		if m.Has(e.mod) {
			f |= e.flag
		}
	}
	return f
}

// hasAssert reports whether td contains an assert statement outside of
// nested class declarations.
func hasAssert(td *ast.TypeDecl) bool {
	found := false
	for _, m := range td.Members {
		if _, ok := m.(*ast.TypeDecl); ok {
			continue
		}
		ast.Inspect(m, func(n ast.Node) bool {
			switch n.(type) {
			case *ast.AssertStmt:
				found = true
			case *ast.TypeDecl:
				return false
			}
			return !found
		})
	}
	for _, c := range td.EnumConstants {
		for _, x := range c.Args {
			ast.Inspect(x, func(n ast.Node) bool {
				_, isAssert := n.(*ast.AssertStmt)
				found = found || isAssert
				_, nested := n.(*ast.TypeDecl)
				return !found && !nested
			})
		}
	}
	return found
}
