package classfile

type FieldInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (f *FieldInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(f.NameIndex)
}

func (f *FieldInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(f.DescriptorIndex)
}

func (f *FieldInfo) Signature(cp ConstantPool) string {
	return signatureOf(f.Attributes, cp)
}

// ConstantValue returns the field's compile-time constant as int32,
// float32, int64, float64 or string; ok is false when the field has none.
func (f *FieldInfo) ConstantValue(cp ConstantPool) (v any, ok bool) {
	idx, found := indexAttribute(f.Attributes, cp, AttrConstantValue)
	if !found {
		return nil, false
	}
	v, err := cp.Loadable(idx)
	return v, err == nil
}

func (f *FieldInfo) IsDeprecated(cp ConstantPool) bool {
	return hasMarker(f.Attributes, cp, AttrDeprecated)
}
