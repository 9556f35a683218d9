package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf16"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	count := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("read header: %w", r.err)
	}
	if count == 0 {
		return nil, fmt.Errorf("invalid constant pool count 0")
	}

	cf.ConstantPool = make(ConstantPool, count-1)
	for i := uint16(1); i < count; i++ {
		entry, wide, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, err)
		}
		cf.ConstantPool[i-1] = entry
		if wide {
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()
	cf.Interfaces = make([]uint16, r.readU2())
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class info: %w", r.err)
	}
	if _, ok := cf.ConstantPool.Entry(cf.ThisClass).(*ConstantClassInfo); !ok {
		return nil, fmt.Errorf("this_class index %d is not a class entry", cf.ThisClass)
	}

	cf.Fields = make([]FieldInfo, r.readU2())
	for i := range cf.Fields {
		f := &cf.Fields[i]
		f.AccessFlags, f.NameIndex, f.DescriptorIndex = AccessFlags(r.readU2()), r.readU2(), r.readU2()
		attrs, err := readAttributes(r, cf.ConstantPool)
		if err != nil {
			return nil, fmt.Errorf("read field %d: %w", i, err)
		}
		f.Attributes = attrs
	}

	cf.Methods = make([]MethodInfo, r.readU2())
	for i := range cf.Methods {
		m := &cf.Methods[i]
		m.AccessFlags, m.NameIndex, m.DescriptorIndex = AccessFlags(r.readU2()), r.readU2(), r.readU2()
		attrs, err := readAttributes(r, cf.ConstantPool)
		if err != nil {
			return nil, fmt.Errorf("read method %d: %w", i, err)
		}
		m.Attributes = attrs
	}

	attrs, err := readAttributes(r, cf.ConstantPool)
	if err != nil {
		return nil, fmt.Errorf("read class attributes: %w", err)
	}
	cf.Attributes = attrs
	return cf, nil
}

func readConstantPoolEntry(r *reader) (entry ConstantPoolEntry, wide bool, err error) {
	tag := ConstantTag(r.readU1())
	switch tag {
	case ConstantUtf8:
		entry = &ConstantUtf8Info{Value: decodeModifiedUtf8(r.readBytes(int(r.readU2())))}
	case ConstantInteger:
		entry = &ConstantIntegerInfo{Value: int32(r.readU4())}
	case ConstantFloat:
		entry = &ConstantFloatInfo{Value: math.Float32frombits(r.readU4())}
	case ConstantLong:
		high, low := r.readU4(), r.readU4()
		entry, wide = &ConstantLongInfo{Value: int64(high)<<32 | int64(low)}, true
	case ConstantDouble:
		high, low := r.readU4(), r.readU4()
		entry, wide = &ConstantDoubleInfo{Value: math.Float64frombits(uint64(high)<<32 | uint64(low))}, true
	case ConstantClass:
		entry = &ConstantClassInfo{NameIndex: r.readU2()}
	case ConstantString:
		entry = &ConstantStringInfo{StringIndex: r.readU2()}
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref:
		entry = &ConstantMemberRefInfo{RefTag: tag, ClassIndex: r.readU2(), NameAndTypeIndex: r.readU2()}
	case ConstantNameAndType:
		entry = &ConstantNameAndTypeInfo{NameIndex: r.readU2(), DescriptorIndex: r.readU2()}
	case ConstantMethodHandle:
		entry = &ConstantMethodHandleInfo{ReferenceKind: r.readU1(), ReferenceIndex: r.readU2()}
	case ConstantMethodType:
		entry = &ConstantMethodTypeInfo{DescriptorIndex: r.readU2()}
	case ConstantDynamic, ConstantInvokeDynamic:
		entry = &ConstantDynamicInfo{DynTag: tag, BootstrapMethodAttrIndex: r.readU2(), NameAndTypeIndex: r.readU2()}
	case ConstantModule:
		entry = &ConstantModuleInfo{NameIndex: r.readU2()}
	case ConstantPackage:
		entry = &ConstantPackageInfo{NameIndex: r.readU2()}
	default:
		if r.err == nil {
			return nil, false, fmt.Errorf("unknown constant pool tag: %d", tag)
		}
	}
	if r.err != nil {
		return nil, false, r.err
	}
	return entry, wide, nil
}

func readAttributes(r *reader, cp ConstantPool) ([]AttributeInfo, error) {
	n := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make([]AttributeInfo, n)
	for i := range attrs {
		attrs[i].NameIndex = r.readU2()
		attrs[i].Info = r.readBytes(int(r.readU4()))
		if r.err != nil {
			return nil, r.err
		}
		if err := decodeAttribute(&attrs[i], cp); err != nil {
			return nil, err
		}
	}
	return attrs, nil
}

// decodeModifiedUtf8 decodes the class file string encoding: NUL is two
// bytes and supplementary characters are surrogate pairs of three bytes
// each.
func decodeModifiedUtf8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, uint16(c))
			i++
		}
	}
	return string(utf16.Decode(units))
}

// encodeModifiedUtf8 is the inverse of decodeModifiedUtf8.
func encodeModifiedUtf8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
		default:
			out = append(out, 0xE0|byte(u>>12), 0x80|byte(u>>6&0x3F), 0x80|byte(u&0x3F))
		}
	}
	return out
}
