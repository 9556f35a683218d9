// Package classfile reads and writes Java class files.
//
// Parse decodes the structures the compiler needs to build binary type
// bindings; Builder and Marshal produce class files from generated code.
// Names use the internal form (java/lang/Object) throughout.
package classfile

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []AttributeInfo
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

// SuperClassName is "" for java/lang/Object and module-info.
func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) GetField(name string) *FieldInfo {
	for i := range cf.Fields {
		if cf.Fields[i].Name(cf.ConstantPool) == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// GetMethod finds a method by name and, unless descriptor is empty, by
// descriptor.
func (cf *ClassFile) GetMethod(name, descriptor string) *MethodInfo {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name(cf.ConstantPool) == name && (descriptor == "" || m.Descriptor(cf.ConstantPool) == descriptor) {
			return m
		}
	}
	return nil
}

func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	return findAttribute(cf.Attributes, cf.ConstantPool, name)
}

// Signature returns the generic class signature, or "".
func (cf *ClassFile) Signature() string {
	return signatureOf(cf.Attributes, cf.ConstantPool)
}

func (cf *ClassFile) SourceFile() string {
	idx, ok := indexAttribute(cf.Attributes, cf.ConstantPool, AttrSourceFile)
	if !ok {
		return ""
	}
	return cf.ConstantPool.GetUtf8(idx)
}

func (cf *ClassFile) IsDeprecated() bool {
	return hasMarker(cf.Attributes, cf.ConstantPool, AttrDeprecated)
}

// InnerClass describes one InnerClasses entry with names resolved.
type InnerClass struct {
	Name        string // internal name, e.g. java/util/Map$Entry
	Outer       string // "" for local and anonymous classes
	SimpleName  string // "" for anonymous classes
	AccessFlags AccessFlags
}

func (cf *ClassFile) InnerClasses() []InnerClass {
	a := cf.GetAttribute(AttrInnerClasses)
	if a == nil {
		return nil
	}
	entries, _ := a.Parsed.([]InnerClassEntry)
	out := make([]InnerClass, 0, len(entries))
	for _, e := range entries {
		out = append(out, InnerClass{
			Name:        cf.ConstantPool.GetClassName(e.InnerClassInfoIndex),
			Outer:       cf.ConstantPool.GetClassName(e.OuterClassInfoIndex),
			SimpleName:  cf.ConstantPool.GetUtf8(e.InnerNameIndex),
			AccessFlags: e.InnerClassAccessFlags,
		})
	}
	return out
}

// OwnInnerClass returns the InnerClasses entry describing this class
// itself, present when the class is nested.
func (cf *ClassFile) OwnInnerClass() (InnerClass, bool) {
	name := cf.ClassName()
	for _, ic := range cf.InnerClasses() {
		if ic.Name == name {
			return ic, true
		}
	}
	return InnerClass{}, false
}
