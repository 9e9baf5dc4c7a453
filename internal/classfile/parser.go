package classfile

import (
	"fmt"
	"io"
	"os"

	"github.com/mabhi256/jvmgo/internal/binreader"
)

// magic is the 32-bit number that opens every class file.
const magic = 0xCAFEBABE

// ErrMalformed wraps a class-file structural decoding failure.
type ErrMalformed struct{ msg string }

func (e *ErrMalformed) Error() string { return "classfile: malformed class file: " + e.msg }

// ErrUnsupportedVersion is returned when major exceeds MaxSupportedMajor.
type ErrUnsupportedVersion struct{ Major, Minor uint16 }

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("classfile: unsupported class file version %d.%d (max supported major %d)", e.Major, e.Minor, MaxSupportedMajor)
}

// ParseFile opens and parses a .class file from the given path.
func ParseFile(path string) (*Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("classfile: opening %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a class file in file order: magic, version, constant pool,
// access flags, this/super, interfaces, fields, methods, attributes.
func Parse(r io.Reader) (*Class, error) {
	br := binreader.New(r)

	m, err := br.U4()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading magic: %w", err)
	}
	if m != magic {
		return nil, &ErrMalformed{fmt.Sprintf("bad magic 0x%08X, want 0x%08X", m, magic)}
	}

	minor, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading minor version: %w", err)
	}
	major, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading major version: %w", err)
	}
	if major > MaxSupportedMajor {
		return nil, &ErrUnsupportedVersion{Major: major, Minor: minor}
	}

	cpCount, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading constant_pool_count: %w", err)
	}
	pool, err := parsePool(br, cpCount)
	if err != nil {
		return nil, fmt.Errorf("classfile: parsing constant pool: %w", err)
	}
	for i, e := range pool {
		var minMajor uint16
		switch e.Tag {
		case TagMethodHandle, TagMethodType, TagInvokeDynamic:
			minMajor = 51
		case TagModule, TagPackage:
			minMajor = 53
		case TagDynamic:
			minMajor = 55
		}
		if major < minMajor {
			return nil, &ErrMalformed{fmt.Sprintf("constant pool tag %d at index %d needs major version %d, class has %d", e.Tag, i, minMajor, major)}
		}
	}

	c := &Class{Version: Version{Major: major, Minor: minor}, Pool: pool}

	if c.AccessFlags, err = br.U2(); err != nil {
		return nil, fmt.Errorf("classfile: reading access_flags: %w", err)
	}
	if c.ThisClassIndex, err = br.U2(); err != nil {
		return nil, fmt.Errorf("classfile: reading this_class: %w", err)
	}
	if c.SuperClassIndex, err = br.U2(); err != nil {
		return nil, fmt.Errorf("classfile: reading super_class: %w", err)
	}
	if c.InterfaceIndex, err = br.U2Vector(); err != nil {
		return nil, fmt.Errorf("classfile: reading interfaces: %w", err)
	}

	if c.Fields, err = parseMembers(br, pool); err != nil {
		return nil, fmt.Errorf("classfile: parsing fields: %w", err)
	}
	if c.Methods, err = parseMembers(br, pool); err != nil {
		return nil, fmt.Errorf("classfile: parsing methods: %w", err)
	}
	if c.Attributes, err = parseAttributes(br, pool); err != nil {
		return nil, fmt.Errorf("classfile: parsing class attributes: %w", err)
	}

	return c, nil
}

func parseMembers(br *binreader.Reader, pool Pool) ([]Member, error) {
	count, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("reading count: %w", err)
	}
	members := make([]Member, count)
	for i := range members {
		var m Member
		if m.AccessFlags, err = br.U2(); err != nil {
			return nil, fmt.Errorf("member %d access_flags: %w", i, err)
		}
		if m.NameIndex, err = br.U2(); err != nil {
			return nil, fmt.Errorf("member %d name_index: %w", i, err)
		}
		if m.DescriptorIndex, err = br.U2(); err != nil {
			return nil, fmt.Errorf("member %d descriptor_index: %w", i, err)
		}
		if m.Attributes, err = parseAttributes(br, pool); err != nil {
			return nil, fmt.Errorf("member %d attributes: %w", i, err)
		}
		if m.Name, err = pool.AsUTF8(m.NameIndex); err != nil {
			return nil, fmt.Errorf("member %d resolving name: %w", i, err)
		}
		if m.Descriptor, err = pool.AsUTF8(m.DescriptorIndex); err != nil {
			return nil, fmt.Errorf("member %d resolving descriptor: %w", i, err)
		}
		for _, a := range m.Attributes {
			if a.Name == "Code" {
				code, err := parseCode(a.Info)
				if err != nil {
					return nil, fmt.Errorf("member %d (%s) Code attribute: %w", i, m.Name, err)
				}
				m.Code = code
				break
			}
		}
		members[i] = m
	}
	return members, nil
}

func parseAttributes(br *binreader.Reader, pool Pool) ([]Attribute, error) {
	count, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("reading attribute count: %w", err)
	}
	attrs := make([]Attribute, count)
	for i := range attrs {
		nameIdx, err := br.U2()
		if err != nil {
			return nil, fmt.Errorf("attribute %d name_index: %w", i, err)
		}
		length, err := br.U4()
		if err != nil {
			return nil, fmt.Errorf("attribute %d length: %w", i, err)
		}
		info, err := br.ReadN(int(length))
		if err != nil {
			return nil, fmt.Errorf("attribute %d info: %w", i, err)
		}
		name, err := pool.AsUTF8(nameIdx)
		if err != nil {
			return nil, fmt.Errorf("attribute %d resolving name: %w", i, err)
		}
		attrs[i] = Attribute{NameIndex: nameIdx, Name: name, Info: info}
	}
	return attrs, nil
}

// parseCode decodes a Code attribute's info bytes per JVM spec 4.7.3:
// max_stack, max_locals, code_length, code[], exception_table_length,
// exception_table[], attributes_count, attributes[].
func parseCode(info []byte) (*Code, error) {
	br := binreader.New(newByteReader(info))

	maxStack, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("max_stack: %w", err)
	}
	maxLocals, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("max_locals: %w", err)
	}
	codeLen, err := br.U4()
	if err != nil {
		return nil, fmt.Errorf("code_length: %w", err)
	}
	code, err := br.ReadN(int(codeLen))
	if err != nil {
		return nil, fmt.Errorf("code: %w", err)
	}

	exCount, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("exception_table_length: %w", err)
	}
	table := make([]ExceptionHandler, exCount)
	for i := range table {
		start, err := br.U2()
		if err != nil {
			return nil, fmt.Errorf("exception_table[%d].start_pc: %w", i, err)
		}
		end, err := br.U2()
		if err != nil {
			return nil, fmt.Errorf("exception_table[%d].end_pc: %w", i, err)
		}
		handler, err := br.U2()
		if err != nil {
			return nil, fmt.Errorf("exception_table[%d].handler_pc: %w", i, err)
		}
		catch, err := br.U2()
		if err != nil {
			return nil, fmt.Errorf("exception_table[%d].catch_type: %w", i, err)
		}
		table[i] = ExceptionHandler{PCStart: start, PCEnd: end, HandlerPC: handler, CatchType: catch}
	}

	// Sub-attributes (LineNumberTable, LocalVariableTable, StackMapTable,
	// etc.) are retained unparsed; we don't have the enclosing class's pool
	// here so names can't be resolved without it, and the interpreter never
	// needs them resolved.
	attrCount, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("attributes_count: %w", err)
	}
	subAttrs := make([]Attribute, attrCount)
	for i := range subAttrs {
		// Names are left unresolved (Name holds the raw index as a string)
		// since sub-attribute contents are never consulted by the
		// interpreter; callers needing them should re-parse with the pool.
		nameIdx, err := br.U2()
		if err != nil {
			return nil, fmt.Errorf("sub-attribute %d name_index: %w", i, err)
		}
		length, err := br.U4()
		if err != nil {
			return nil, fmt.Errorf("sub-attribute %d length: %w", i, err)
		}
		data, err := br.ReadN(int(length))
		if err != nil {
			return nil, fmt.Errorf("sub-attribute %d info: %w", i, err)
		}
		subAttrs[i] = Attribute{Name: fmt.Sprintf("#%d", nameIdx), Info: data}
	}

	return &Code{
		MaxStack:       maxStack,
		MaxLocals:      maxLocals,
		Instructions:   code,
		ExceptionTable: table,
		Attributes:     subAttrs,
	}, nil
}

// Write serializes c back to the on-disk class file format, the exact
// inverse of Parse.
func Write(c *Class) []byte {
	w := binreader.NewWriter()
	w.U4(magic)
	w.U2(c.Version.Minor)
	w.U2(c.Version.Major)
	writePool(w, c.Pool)
	w.U2(c.AccessFlags)
	w.U2(c.ThisClassIndex)
	w.U2(c.SuperClassIndex)
	w.U2(uint16(len(c.InterfaceIndex)))
	for _, idx := range c.InterfaceIndex {
		w.U2(idx)
	}
	writeMembers(w, c.Fields)
	writeMembers(w, c.Methods)
	writeAttributes(w, c.Attributes)
	return w.Bytes()
}

func writeMembers(w *binreader.Writer, members []Member) {
	w.U2(uint16(len(members)))
	for _, m := range members {
		w.U2(m.AccessFlags)
		w.U2(m.NameIndex)
		w.U2(m.DescriptorIndex)
		writeAttributes(w, m.Attributes)
	}
}

func writeAttributes(w *binreader.Writer, attrs []Attribute) {
	w.U2(uint16(len(attrs)))
	for _, a := range attrs {
		w.U2(a.NameIndex)
		w.U4(uint32(len(a.Info)))
		w.WriteN(a.Info)
	}
}

// newByteReader adapts a []byte to io.Reader without importing "bytes" at
// call sites that only need Parse's internals.
func newByteReader(b []byte) io.Reader {
	return &sliceReader{b: b}
}

type sliceReader struct {
	b []byte
	i int
}

func (s *sliceReader) Read(p []byte) (int, error) {
	if s.i >= len(s.b) {
		return 0, io.EOF
	}
	n := copy(p, s.b[s.i:])
	s.i += n
	return n, nil
}
