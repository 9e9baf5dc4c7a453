package classfile

// Version is a class file's {major, minor} pair, ordered lexicographically
// by major then minor. It gates which constant-pool tags are legal (e.g.
// Dynamic requires major >= 55, InvokeDynamic major >= 51).
type Version struct {
	Major uint16
	Minor uint16
}

// Less reports whether v is lexicographically before other.
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

// MaxSupportedMajor is the highest class file major version this
// implementation understands (Java 11 / class file format 55).
const MaxSupportedMajor = 55

// Access flag bits, shared across classes, fields, and methods (not every
// bit is legal on every kind of member; JVM spec tables 4.1-A/4.5-A/4.6-A).
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSuper        = 0x0020 // also AccSynchronized on methods
	AccVolatile     = 0x0040 // also AccBridge on methods
	AccTransient    = 0x0080 // also AccVarargs on methods
	AccNative       = 0x0100
	AccInterface    = 0x0200
	AccAbstract     = 0x0400
	AccStrict       = 0x0800
	AccSynthetic    = 0x1000
	AccAnnotation   = 0x2000
	AccEnum         = 0x4000
	AccModule       = 0x8000
)

// ObjectClassName is the name of the one class with no superclass.
const ObjectClassName = "java/lang/Object"

// Class is the decoded in-memory form of a class file.
type Class struct {
	Version         Version
	Pool            Pool
	AccessFlags     uint16
	ThisClassIndex  uint16
	SuperClassIndex uint16
	InterfaceIndex  []uint16
	Fields          []Member
	Methods         []Member
	Attributes      []Attribute
}

// Name resolves this class's own name from the constant pool.
func (c *Class) Name() (string, error) {
	return c.Pool.AsClassName(c.ThisClassIndex)
}

// SuperName resolves the superclass name, or "" for java/lang/Object.
func (c *Class) SuperName() (string, error) {
	if c.SuperClassIndex == 0 {
		return "", nil
	}
	return c.Pool.AsClassName(c.SuperClassIndex)
}

// InterfaceNames resolves every directly-implemented interface's name.
func (c *Class) InterfaceNames() ([]string, error) {
	names := make([]string, len(c.InterfaceIndex))
	for i, idx := range c.InterfaceIndex {
		name, err := c.Pool.AsClassName(idx)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// IsInterface reports whether the ACC_INTERFACE bit is set.
func (c *Class) IsInterface() bool { return c.AccessFlags&AccInterface != 0 }

// FindMethod finds a method by name and descriptor.
func (c *Class) FindMethod(name, descriptor string) *Member {
	for i := range c.Methods {
		if c.Methods[i].Name == name && c.Methods[i].Descriptor == descriptor {
			return &c.Methods[i]
		}
	}
	return nil
}

// FindField finds a field by name.
func (c *Class) FindField(name string) *Member {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

// Member is a Field or Method record: {access, name, descriptor, attributes}.
// Name/Descriptor are resolved at parse time since they're always needed.
type Member struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Name            string
	Descriptor      string
	Attributes      []Attribute
	Code            *Code // non-nil iff one Code attribute was present
}

// Attribute is a raw {name, info bytes} pair. Info bytes are retained
// unparsed so attribute kinds can be lazily decoded; Code is
// the one attribute eagerly decoded because the interpreter always needs it.
type Attribute struct {
	NameIndex uint16
	Name      string
	Info      []byte
}

// ExceptionHandler is one entry of a Code attribute's exception table:
// covers instruction offsets [PCStart, PCEnd), half-open so HandlerPC itself
// can sit one past the end without an off-by-one.
type ExceptionHandler struct {
	PCStart   uint16
	PCEnd     uint16
	HandlerPC uint16
	CatchType uint16 // 0 means catch-all (finally)
}

// Covers reports whether pc falls within this handler's half-open range.
func (e ExceptionHandler) Covers(pc int) bool {
	return pc >= int(e.PCStart) && pc < int(e.PCEnd)
}

// Code is the decoded form of a method's Code attribute.
type Code struct {
	MaxStack       uint16
	MaxLocals      uint16
	Instructions   []byte
	ExceptionTable []ExceptionHandler
	Attributes     []Attribute
}
