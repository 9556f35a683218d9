// Package format renders syntax trees, class files and problems as text
// for the command line tools.
package format

import (
	"encoding"
	"strings"

	"github.com/dhamidi/jfront/classfile"
)

// Encoder writes one class file.
type Encoder interface {
	encoding.TextMarshaler
	Encode(cf *classfile.ClassFile) error
}

// TypeName renders a descriptor type in source form, e.g. java.lang.String[].
func TypeName(ft classfile.FieldType) string {
	var name string
	switch ft.Base {
	case 0:
		name = classfile.InternalToSourceName(ft.ClassName)
	case 'B':
		name = "byte"
	case 'C':
		name = "char"
	case 'D':
		name = "double"
	case 'F':
		name = "float"
	case 'I':
		name = "int"
	case 'J':
		name = "long"
	case 'S':
		name = "short"
	case 'Z':
		name = "boolean"
	}
	return name + strings.Repeat("[]", ft.ArrayDepth)
}

func fieldTypeName(desc string) string {
	ft, err := classfile.ParseFieldDescriptor(desc)
	if err != nil {
		return desc
	}
	return TypeName(ft)
}

func methodTypeNames(desc string) (ret string, params []string) {
	md, err := classfile.ParseMethodDescriptor(desc)
	if err != nil {
		return desc, nil
	}
	ret = "void"
	if md.Return != nil {
		ret = TypeName(*md.Return)
	}
	for _, p := range md.Parameters {
		params = append(params, TypeName(p))
	}
	return ret, params
}

func classKind(cf *classfile.ClassFile) string {
	f := cf.AccessFlags
	switch {
	case f.IsAnnotation():
		return "annotation"
	case f.IsEnum():
		return "enum"
	case f.IsInterface():
		return "interface"
	case f.IsModule():
		return "module"
	case cf.SuperClassName() == "java/lang/Record":
		return "record"
	default:
		return "class"
	}
}

func visibility(f classfile.AccessFlags) string {
	switch {
	case f.IsPublic():
		return "public"
	case f.IsProtected():
		return "protected"
	case f.IsPrivate():
		return "private"
	}
	return "package"
}

func classModifiers(f classfile.AccessFlags) []string {
	var mods []string
	if f.IsAbstract() && !f.IsInterface() {
		mods = append(mods, "abstract")
	}
	if f.IsFinal() {
		mods = append(mods, "final")
	}
	if f.IsSynthetic() {
		mods = append(mods, "synthetic")
	}
	return mods
}

func fieldModifiers(f classfile.AccessFlags) []string {
	var mods []string
	if f.IsStatic() {
		mods = append(mods, "static")
	}
	if f.IsFinal() {
		mods = append(mods, "final")
	}
	if f.Has(classfile.AccVolatile) {
		mods = append(mods, "volatile")
	}
	if f.Has(classfile.AccTransient) {
		mods = append(mods, "transient")
	}
	if f.IsEnum() {
		mods = append(mods, "enum")
	}
	if f.IsSynthetic() {
		mods = append(mods, "synthetic")
	}
	return mods
}

func methodModifiers(f classfile.AccessFlags) []string {
	var mods []string
	if f.IsStatic() {
		mods = append(mods, "static")
	}
	if f.IsFinal() {
		mods = append(mods, "final")
	}
	if f.IsAbstract() {
		mods = append(mods, "abstract")
	}
	if f.Has(classfile.AccSynchronized) {
		mods = append(mods, "synchronized")
	}
	if f.Has(classfile.AccNative) {
		mods = append(mods, "native")
	}
	if f.IsVarargs() {
		mods = append(mods, "varargs")
	}
	if f.Has(classfile.AccBridge) {
		mods = append(mods, "bridge")
	}
	if f.IsSynthetic() {
		mods = append(mods, "synthetic")
	}
	return mods
}

func joinOrDash(parts []string, sep string) string {
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, sep)
}
