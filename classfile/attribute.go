package classfile

import (
	"encoding/binary"
	"fmt"
)

// Attribute names the compiler reads or writes.
const (
	AttrCode            = "Code"
	AttrConstantValue   = "ConstantValue"
	AttrSignature       = "Signature"
	AttrExceptions      = "Exceptions"
	AttrSourceFile      = "SourceFile"
	AttrInnerClasses    = "InnerClasses"
	AttrLineNumberTable = "LineNumberTable"
	AttrDeprecated      = "Deprecated"
	AttrSynthetic       = "Synthetic"
	AttrEnclosingMethod = "EnclosingMethod"
)

// AttributeInfo is a raw attribute. Parsed holds the decoded form for the
// attributes listed above and is nil for everything else.
type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
	Parsed    any
}

type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []AttributeInfo
}

type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

type EnclosingMethodAttribute struct {
	ClassIndex  uint16
	MethodIndex uint16
}

// IndexAttribute is the decoded form of attributes whose body is a single
// constant pool index: ConstantValue, Signature and SourceFile.
type IndexAttribute uint16

// MarkerAttribute is the decoded form of Deprecated and Synthetic.
type MarkerAttribute struct{}

type attrReader struct {
	data []byte
	pos  int
	err  error
}

func (r *attrReader) u2() uint16 {
	if r.err != nil {
		return 0
	}
	if r.pos+2 > len(r.data) {
		r.err = fmt.Errorf("attribute truncated at offset %d", r.pos)
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *attrReader) u4() uint32 {
	hi := r.u2()
	lo := r.u2()
	return uint32(hi)<<16 | uint32(lo)
}

func (r *attrReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("attribute truncated at offset %d", r.pos)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *attrReader) u2s() []uint16 {
	n := int(r.u2())
	out := make([]uint16, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.u2())
	}
	return out
}

// decodeAttribute fills attr.Parsed for the attributes the compiler uses.
func decodeAttribute(attr *AttributeInfo, cp ConstantPool) error {
	r := &attrReader{data: attr.Info}
	switch name := cp.GetUtf8(attr.NameIndex); name {
	case AttrCode:
		code := &CodeAttribute{MaxStack: r.u2(), MaxLocals: r.u2()}
		code.Code = r.bytes(int(r.u4()))
		n := int(r.u2())
		for i := 0; i < n && r.err == nil; i++ {
			code.ExceptionTable = append(code.ExceptionTable, ExceptionTableEntry{
				StartPC: r.u2(), EndPC: r.u2(), HandlerPC: r.u2(), CatchType: r.u2(),
			})
		}
		n = int(r.u2())
		for i := 0; i < n && r.err == nil; i++ {
			nested := AttributeInfo{NameIndex: r.u2()}
			nested.Info = r.bytes(int(r.u4()))
			if r.err == nil {
				if err := decodeAttribute(&nested, cp); err != nil {
					return err
				}
			}
			code.Attributes = append(code.Attributes, nested)
		}
		attr.Parsed = code
	case AttrConstantValue, AttrSignature, AttrSourceFile:
		attr.Parsed = IndexAttribute(r.u2())
	case AttrExceptions:
		attr.Parsed = r.u2s()
	case AttrInnerClasses:
		n := int(r.u2())
		entries := make([]InnerClassEntry, 0, n)
		for i := 0; i < n && r.err == nil; i++ {
			entries = append(entries, InnerClassEntry{
				InnerClassInfoIndex:   r.u2(),
				OuterClassInfoIndex:   r.u2(),
				InnerNameIndex:        r.u2(),
				InnerClassAccessFlags: AccessFlags(r.u2()),
			})
		}
		attr.Parsed = entries
	case AttrLineNumberTable:
		n := int(r.u2())
		entries := make([]LineNumberEntry, 0, n)
		for i := 0; i < n && r.err == nil; i++ {
			entries = append(entries, LineNumberEntry{StartPC: r.u2(), LineNumber: r.u2()})
		}
		attr.Parsed = entries
	case AttrEnclosingMethod:
		attr.Parsed = &EnclosingMethodAttribute{ClassIndex: r.u2(), MethodIndex: r.u2()}
	case AttrDeprecated, AttrSynthetic:
		attr.Parsed = MarkerAttribute{}
	}
	if r.err != nil {
		return fmt.Errorf("decode %s attribute: %w", cp.GetUtf8(attr.NameIndex), r.err)
	}
	return nil
}

// findAttribute returns the first attribute called name.
func findAttribute(attrs []AttributeInfo, cp ConstantPool, name string) *AttributeInfo {
	for i := range attrs {
		if cp.GetUtf8(attrs[i].NameIndex) == name {
			return &attrs[i]
		}
	}
	return nil
}

func indexAttribute(attrs []AttributeInfo, cp ConstantPool, name string) (uint16, bool) {
	a := findAttribute(attrs, cp, name)
	if a == nil {
		return 0, false
	}
	idx, ok := a.Parsed.(IndexAttribute)
	return uint16(idx), ok
}

func signatureOf(attrs []AttributeInfo, cp ConstantPool) string {
	idx, ok := indexAttribute(attrs, cp, AttrSignature)
	if !ok {
		return ""
	}
	return cp.GetUtf8(idx)
}

func hasMarker(attrs []AttributeInfo, cp ConstantPool, name string) bool {
	return findAttribute(attrs, cp, name) != nil
}
