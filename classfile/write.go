package classfile

import (
	"fmt"
	"io"
	"math"
)

// Marshal encodes cf in class file format.
func Marshal(cf *ClassFile) ([]byte, error) {
	if len(cf.ConstantPool)+1 > math.MaxUint16 {
		return nil, fmt.Errorf("marshal %s: constant pool has %d entries", cf.ClassName(), len(cf.ConstantPool))
	}
	out := u4(nil, Magic)
	out = u2(out, cf.MinorVersion)
	out = u2(out, cf.MajorVersion)

	out = u2(out, uint16(len(cf.ConstantPool)+1))
	for i, e := range cf.ConstantPool {
		if e == nil {
			continue
		}
		var err error
		out, err = appendEntry(out, e)
		if err != nil {
			return nil, fmt.Errorf("marshal constant pool entry %d: %w", i+1, err)
		}
	}

	out = u2(out, uint16(cf.AccessFlags))
	out = u2(out, cf.ThisClass)
	out = u2(out, cf.SuperClass)
	out = u2(out, uint16(len(cf.Interfaces)))
	for _, i := range cf.Interfaces {
		out = u2(out, i)
	}
	out = u2(out, uint16(len(cf.Fields)))
	for _, f := range cf.Fields {
		out = u2(u2(u2(out, uint16(f.AccessFlags)), f.NameIndex), f.DescriptorIndex)
		out = appendAttributes(out, f.Attributes)
	}
	out = u2(out, uint16(len(cf.Methods)))
	for _, m := range cf.Methods {
		out = u2(u2(u2(out, uint16(m.AccessFlags)), m.NameIndex), m.DescriptorIndex)
		out = appendAttributes(out, m.Attributes)
	}
	out = appendAttributes(out, cf.Attributes)
	return out, nil
}

// WriteTo writes the encoded class file to w.
func (cf *ClassFile) WriteTo(w io.Writer) (int64, error) {
	data, err := Marshal(cf)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func appendEntry(out []byte, e ConstantPoolEntry) ([]byte, error) {
	out = append(out, byte(e.Tag()))
	switch e := e.(type) {
	case *ConstantUtf8Info:
		b := encodeModifiedUtf8(e.Value)
		if len(b) > math.MaxUint16 {
			return nil, fmt.Errorf("string of %d bytes is too long", len(b))
		}
		out = append(u2(out, uint16(len(b))), b...)
	case *ConstantIntegerInfo:
		out = u4(out, uint32(e.Value))
	case *ConstantFloatInfo:
		out = u4(out, math.Float32bits(e.Value))
	case *ConstantLongInfo:
		out = u4(u4(out, uint32(uint64(e.Value)>>32)), uint32(e.Value))
	case *ConstantDoubleInfo:
		bits := math.Float64bits(e.Value)
		out = u4(u4(out, uint32(bits>>32)), uint32(bits))
	case *ConstantClassInfo:
		out = u2(out, e.NameIndex)
	case *ConstantStringInfo:
		out = u2(out, e.StringIndex)
	case *ConstantMemberRefInfo:
		out = u2(u2(out, e.ClassIndex), e.NameAndTypeIndex)
	case *ConstantNameAndTypeInfo:
		out = u2(u2(out, e.NameIndex), e.DescriptorIndex)
	case *ConstantMethodHandleInfo:
		out = u2(append(out, e.ReferenceKind), e.ReferenceIndex)
	case *ConstantMethodTypeInfo:
		out = u2(out, e.DescriptorIndex)
	case *ConstantDynamicInfo:
		out = u2(u2(out, e.BootstrapMethodAttrIndex), e.NameAndTypeIndex)
	case *ConstantModuleInfo:
		out = u2(out, e.NameIndex)
	case *ConstantPackageInfo:
		out = u2(out, e.NameIndex)
	default:
		return nil, fmt.Errorf("unsupported entry %T", e)
	}
	return out, nil
}
