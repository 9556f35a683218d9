package classfile

type MethodInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (m *MethodInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(m.NameIndex)
}

func (m *MethodInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(m.DescriptorIndex)
}

func (m *MethodInfo) Signature(cp ConstantPool) string {
	return signatureOf(m.Attributes, cp)
}

func (m *MethodInfo) Code(cp ConstantPool) *CodeAttribute {
	a := findAttribute(m.Attributes, cp, AttrCode)
	if a == nil {
		return nil
	}
	code, _ := a.Parsed.(*CodeAttribute)
	return code
}

// ExceptionNames returns the internal names listed in the throws clause.
func (m *MethodInfo) ExceptionNames(cp ConstantPool) []string {
	a := findAttribute(m.Attributes, cp, AttrExceptions)
	if a == nil {
		return nil
	}
	idx, _ := a.Parsed.([]uint16)
	names := make([]string, len(idx))
	for i, x := range idx {
		names[i] = cp.GetClassName(x)
	}
	return names
}

func (m *MethodInfo) IsDeprecated(cp ConstantPool) bool {
	return hasMarker(m.Attributes, cp, AttrDeprecated)
}

func (m *MethodInfo) IsConstructor(cp ConstantPool) bool {
	return m.Name(cp) == "<init>"
}

// LineNumbers returns the line number table of the method's code.
func (m *MethodInfo) LineNumbers(cp ConstantPool) []LineNumberEntry {
	code := m.Code(cp)
	if code == nil {
		return nil
	}
	a := findAttribute(code.Attributes, cp, AttrLineNumberTable)
	if a == nil {
		return nil
	}
	entries, _ := a.Parsed.([]LineNumberEntry)
	return entries
}
