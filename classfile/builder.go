package classfile

import (
	"encoding/binary"
	"fmt"
	"math"
)

type poolKey struct {
	tag  ConstantTag
	s    string
	a, b uint64
}

// Builder assembles a ClassFile. Constant pool entries are deduplicated:
// asking twice for the same constant returns the same index.
type Builder struct {
	cf    *ClassFile
	index map[poolKey]uint16
	err   error
}

// NewBuilder starts a class file for the internal name. super is "" only
// for java/lang/Object.
func NewBuilder(flags AccessFlags, name, super string, interfaces []string) *Builder {
	b := &Builder{
		cf:    &ClassFile{MajorVersion: MajorVersion49, AccessFlags: flags},
		index: make(map[poolKey]uint16),
	}
	b.cf.ThisClass = b.Class(name)
	if super != "" {
		b.cf.SuperClass = b.Class(super)
	}
	for _, i := range interfaces {
		b.cf.Interfaces = append(b.cf.Interfaces, b.Class(i))
	}
	return b
}

// Err reports a constant pool overflow or an attribute that could not be
// encoded.
func (b *Builder) Err() error { return b.err }

// ClassFile returns the class built so far.
func (b *Builder) ClassFile() *ClassFile { return b.cf }

func (b *Builder) add(key poolKey, e ConstantPoolEntry) uint16 {
	if idx, ok := b.index[key]; ok {
		return idx
	}
	slots := 1
	if key.tag == ConstantLong || key.tag == ConstantDouble {
		slots = 2
	}
	if len(b.cf.ConstantPool)+slots >= math.MaxUint16 {
		if b.err == nil {
			b.err = fmt.Errorf("constant pool of %s overflows", b.cf.ClassName())
		}
		return 0
	}
	b.cf.ConstantPool = append(b.cf.ConstantPool, e)
	idx := uint16(len(b.cf.ConstantPool))
	if slots == 2 {
		b.cf.ConstantPool = append(b.cf.ConstantPool, nil)
	}
	b.index[key] = idx
	return idx
}

func (b *Builder) Utf8(s string) uint16 {
	return b.add(poolKey{tag: ConstantUtf8, s: s}, &ConstantUtf8Info{Value: s})
}

func (b *Builder) Class(name string) uint16 {
	n := b.Utf8(name)
	return b.add(poolKey{tag: ConstantClass, a: uint64(n)}, &ConstantClassInfo{NameIndex: n})
}

func (b *Builder) String(s string) uint16 {
	n := b.Utf8(s)
	return b.add(poolKey{tag: ConstantString, a: uint64(n)}, &ConstantStringInfo{StringIndex: n})
}

func (b *Builder) Integer(v int32) uint16 {
	return b.add(poolKey{tag: ConstantInteger, a: uint64(uint32(v))}, &ConstantIntegerInfo{Value: v})
}

func (b *Builder) Float(v float32) uint16 {
	return b.add(poolKey{tag: ConstantFloat, a: uint64(math.Float32bits(v))}, &ConstantFloatInfo{Value: v})
}

func (b *Builder) Long(v int64) uint16 {
	return b.add(poolKey{tag: ConstantLong, a: uint64(v)}, &ConstantLongInfo{Value: v})
}

func (b *Builder) Double(v float64) uint16 {
	return b.add(poolKey{tag: ConstantDouble, a: math.Float64bits(v)}, &ConstantDoubleInfo{Value: v})
}

func (b *Builder) NameAndType(name, descriptor string) uint16 {
	n, d := b.Utf8(name), b.Utf8(descriptor)
	return b.add(poolKey{tag: ConstantNameAndType, a: uint64(n), b: uint64(d)},
		&ConstantNameAndTypeInfo{NameIndex: n, DescriptorIndex: d})
}

func (b *Builder) memberRef(tag ConstantTag, owner, name, descriptor string) uint16 {
	c, nt := b.Class(owner), b.NameAndType(name, descriptor)
	return b.add(poolKey{tag: tag, a: uint64(c), b: uint64(nt)},
		&ConstantMemberRefInfo{RefTag: tag, ClassIndex: c, NameAndTypeIndex: nt})
}

func (b *Builder) Fieldref(owner, name, descriptor string) uint16 {
	return b.memberRef(ConstantFieldref, owner, name, descriptor)
}

// Methodref returns a Methodref, or an InterfaceMethodref when owner is an
// interface.
func (b *Builder) Methodref(owner, name, descriptor string, iface bool) uint16 {
	if iface {
		return b.memberRef(ConstantInterfaceMethodref, owner, name, descriptor)
	}
	return b.memberRef(ConstantMethodref, owner, name, descriptor)
}

func (b *Builder) AddField(flags AccessFlags, name, descriptor string, attrs ...AttributeInfo) {
	b.cf.Fields = append(b.cf.Fields, FieldInfo{
		AccessFlags:     flags,
		NameIndex:       b.Utf8(name),
		DescriptorIndex: b.Utf8(descriptor),
		Attributes:      attrs,
	})
}

func (b *Builder) AddMethod(flags AccessFlags, name, descriptor string, attrs ...AttributeInfo) {
	b.cf.Methods = append(b.cf.Methods, MethodInfo{
		AccessFlags:     flags,
		NameIndex:       b.Utf8(name),
		DescriptorIndex: b.Utf8(descriptor),
		Attributes:      attrs,
	})
}

func (b *Builder) AddAttribute(a AttributeInfo) {
	b.cf.Attributes = append(b.cf.Attributes, a)
}

// attribute encodes an attribute body and decodes it back so that Parsed
// matches what Parse would produce.
func (b *Builder) attribute(name string, body []byte) AttributeInfo {
	a := AttributeInfo{NameIndex: b.Utf8(name), Info: body}
	if err := decodeAttribute(&a, b.cf.ConstantPool); err != nil && b.err == nil {
		b.err = err
	}
	return a
}

func u2(out []byte, v uint16) []byte { return binary.BigEndian.AppendUint16(out, v) }
func u4(out []byte, v uint32) []byte { return binary.BigEndian.AppendUint32(out, v) }

func (b *Builder) ConstantValueAttr(index uint16) AttributeInfo {
	return b.attribute(AttrConstantValue, u2(nil, index))
}

func (b *Builder) SignatureAttr(signature string) AttributeInfo {
	return b.attribute(AttrSignature, u2(nil, b.Utf8(signature)))
}

func (b *Builder) SourceFileAttr(file string) AttributeInfo {
	return b.attribute(AttrSourceFile, u2(nil, b.Utf8(file)))
}

func (b *Builder) DeprecatedAttr() AttributeInfo {
	return b.attribute(AttrDeprecated, nil)
}

func (b *Builder) ExceptionsAttr(names []string) AttributeInfo {
	body := u2(nil, uint16(len(names)))
	for _, n := range names {
		body = u2(body, b.Class(n))
	}
	return b.attribute(AttrExceptions, body)
}

func (b *Builder) InnerClassesAttr(classes []InnerClass) AttributeInfo {
	body := u2(nil, uint16(len(classes)))
	for _, ic := range classes {
		body = u2(body, b.Class(ic.Name))
		var outer, simple uint16
		if ic.Outer != "" {
			outer = b.Class(ic.Outer)
		}
		if ic.SimpleName != "" {
			simple = b.Utf8(ic.SimpleName)
		}
		body = u2(u2(u2(body, outer), simple), uint16(ic.AccessFlags))
	}
	return b.attribute(AttrInnerClasses, body)
}

func (b *Builder) LineNumberTableAttr(lines []LineNumberEntry) AttributeInfo {
	body := u2(nil, uint16(len(lines)))
	for _, l := range lines {
		body = u2(u2(body, l.StartPC), l.LineNumber)
	}
	return b.attribute(AttrLineNumberTable, body)
}

func (b *Builder) CodeAttr(code *CodeAttribute) AttributeInfo {
	if len(code.Code) == 0 || len(code.Code) >= 65536 {
		if b.err == nil {
			b.err = fmt.Errorf("code length %d out of range", len(code.Code))
		}
	}
	body := u2(u2(nil, code.MaxStack), code.MaxLocals)
	body = u4(body, uint32(len(code.Code)))
	body = append(body, code.Code...)
	body = u2(body, uint16(len(code.ExceptionTable)))
	for _, e := range code.ExceptionTable {
		body = u2(u2(u2(u2(body, e.StartPC), e.EndPC), e.HandlerPC), e.CatchType)
	}
	body = appendAttributes(body, code.Attributes)
	return b.attribute(AttrCode, body)
}

func appendAttributes(out []byte, attrs []AttributeInfo) []byte {
	out = u2(out, uint16(len(attrs)))
	for _, a := range attrs {
		out = u2(out, a.NameIndex)
		out = u4(out, uint32(len(a.Info)))
		out = append(out, a.Info...)
	}
	return out
}
