package classfile

import "fmt"

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct{ Value string }
type ConstantIntegerInfo struct{ Value int32 }
type ConstantFloatInfo struct{ Value float32 }
type ConstantLongInfo struct{ Value int64 }
type ConstantDoubleInfo struct{ Value float64 }
type ConstantClassInfo struct{ NameIndex uint16 }
type ConstantStringInfo struct{ StringIndex uint16 }
type ConstantMethodTypeInfo struct{ DescriptorIndex uint16 }
type ConstantModuleInfo struct{ NameIndex uint16 }
type ConstantPackageInfo struct{ NameIndex uint16 }

// ConstantMemberRefInfo is a Fieldref, Methodref or InterfaceMethodref
// entry; RefTag tells which.
type ConstantMemberRefInfo struct {
	RefTag           ConstantTag
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

type ConstantMethodHandleInfo struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

// ConstantDynamicInfo is a Dynamic or InvokeDynamic entry.
type ConstantDynamicInfo struct {
	DynTag                   ConstantTag
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (*ConstantUtf8Info) Tag() ConstantTag         { return ConstantUtf8 }
func (*ConstantIntegerInfo) Tag() ConstantTag      { return ConstantInteger }
func (*ConstantFloatInfo) Tag() ConstantTag        { return ConstantFloat }
func (*ConstantLongInfo) Tag() ConstantTag         { return ConstantLong }
func (*ConstantDoubleInfo) Tag() ConstantTag       { return ConstantDouble }
func (*ConstantClassInfo) Tag() ConstantTag        { return ConstantClass }
func (*ConstantStringInfo) Tag() ConstantTag       { return ConstantString }
func (*ConstantMethodTypeInfo) Tag() ConstantTag   { return ConstantMethodType }
func (*ConstantModuleInfo) Tag() ConstantTag       { return ConstantModule }
func (*ConstantPackageInfo) Tag() ConstantTag      { return ConstantPackage }
func (c *ConstantMemberRefInfo) Tag() ConstantTag  { return c.RefTag }
func (*ConstantNameAndTypeInfo) Tag() ConstantTag  { return ConstantNameAndType }
func (*ConstantMethodHandleInfo) Tag() ConstantTag { return ConstantMethodHandle }
func (c *ConstantDynamicInfo) Tag() ConstantTag    { return c.DynTag }

// ConstantPool holds the entries of a class file pool. Index i of the class
// file is element i-1; the slot after a long or double entry is nil.
type ConstantPool []ConstantPoolEntry

// Entry returns the entry at a class file index, or nil when the index is
// out of range or names an unusable slot.
func (cp ConstantPool) Entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func entryAs[T ConstantPoolEntry](cp ConstantPool, index uint16) (T, bool) {
	e, ok := cp.Entry(index).(T)
	return e, ok
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if e, ok := entryAs[*ConstantUtf8Info](cp, index); ok {
		return e.Value
	}
	return ""
}

// GetClassName returns the internal name of a Class entry.
func (cp ConstantPool) GetClassName(index uint16) string {
	if e, ok := entryAs[*ConstantClassInfo](cp, index); ok {
		return cp.GetUtf8(e.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetString(index uint16) string {
	if e, ok := entryAs[*ConstantStringInfo](cp, index); ok {
		return cp.GetUtf8(e.StringIndex)
	}
	return ""
}

func (cp ConstantPool) GetNameAndType(index uint16) (name, descriptor string) {
	if e, ok := entryAs[*ConstantNameAndTypeInfo](cp, index); ok {
		return cp.GetUtf8(e.NameIndex), cp.GetUtf8(e.DescriptorIndex)
	}
	return "", ""
}

// GetMemberRef resolves a field or method reference.
func (cp ConstantPool) GetMemberRef(index uint16) (owner, name, descriptor string) {
	e, ok := entryAs[*ConstantMemberRefInfo](cp, index)
	if !ok {
		return "", "", ""
	}
	name, descriptor = cp.GetNameAndType(e.NameAndTypeIndex)
	return cp.GetClassName(e.ClassIndex), name, descriptor
}

// Loadable returns the value of an Integer, Float, Long, Double or String
// entry as int32, float32, int64, float64 or string.
func (cp ConstantPool) Loadable(index uint16) (any, error) {
	switch e := cp.Entry(index).(type) {
	case *ConstantIntegerInfo:
		return e.Value, nil
	case *ConstantFloatInfo:
		return e.Value, nil
	case *ConstantLongInfo:
		return e.Value, nil
	case *ConstantDoubleInfo:
		return e.Value, nil
	case *ConstantStringInfo:
		return cp.GetUtf8(e.StringIndex), nil
	case nil:
		return nil, fmt.Errorf("constant pool index %d out of range", index)
	default:
		return nil, fmt.Errorf("constant pool entry %d has tag %d, not a constant value", index, e.Tag())
	}
}
