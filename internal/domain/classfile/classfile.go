// Package classfile parses compiled JVM class binaries far enough to recover
// the symbolic references each method body makes: the constant pool, the
// method table, and the Code attribute's instruction stream.
package classfile

import (
	"errors"
	"fmt"
	"strings"
)

const classMagic = 0xCAFEBABE

// Constant pool entry tags, per JVMS §4.4.
const (
	constUtf8               = 1
	constInteger            = 3
	constFloat              = 4
	constLong               = 5
	constDouble             = 6
	constClass              = 7
	constString             = 8
	constFieldref           = 9
	constMethodref          = 10
	constInterfaceMethodref = 11
	constNameAndType        = 12
	constMethodHandle       = 15
	constMethodType         = 16
	constDynamic            = 17
	constInvokeDynamic      = 18
	constModule             = 19
	constPackage            = 20
)

// Reference is one symbolic reference found in a method body.
type Reference struct {
	Class  string // dotted fully qualified name
	Member string // empty for plain class references (new, checkcast, ...)
}

// Method is one method with the references its body makes, in bytecode order.
type Method struct {
	Name       string
	Descriptor string
	Refs       []Reference
}

// Class is the parsed view of one class binary.
type Class struct {
	Name       string // dotted fully qualified name
	SuperClass string // empty for java.lang.Object
	Methods    []Method
}

// cpEntry keeps just enough of a constant pool entry for reference recovery.
type cpEntry struct {
	tag        uint8
	idx1, idx2 uint16
	str        string
}

// Parse decodes a class binary. Any structural inconsistency is an error;
// callers treat it as a corrupt archive.
func Parse(data []byte) (*Class, error) {
	r := &reader{buf: data}

	if magic := r.u4(); magic != classMagic {
		if r.err != nil {
			return nil, r.err
		}
		return nil, fmt.Errorf("bad magic 0x%08X", magic)
	}
	r.u2() // minor version
	r.u2() // major version

	pool, err := parseConstantPool(r)
	if err != nil {
		return nil, err
	}

	r.u2() // access flags
	thisClass := r.u2()
	superClass := r.u2()

	interfaceCount := r.u2()
	for i := 0; i < int(interfaceCount); i++ {
		r.u2()
	}

	if err := skipMembers(r); err != nil { // fields
		return nil, err
	}

	cls := &Class{}
	cls.Name, err = pool.className(thisClass)
	if err != nil {
		return nil, err
	}
	if superClass != 0 {
		cls.SuperClass, err = pool.className(superClass)
		if err != nil {
			return nil, err
		}
	}

	methodCount := r.u2()
	for i := 0; i < int(methodCount); i++ {
		m, err := parseMethod(r, pool)
		if err != nil {
			return nil, err
		}
		cls.Methods = append(cls.Methods, m)
	}

	// Trailing class attributes are irrelevant here; accept any remainder.
	if r.err != nil {
		return nil, r.err
	}
	return cls, nil
}

// parseConstantPool reads the 1-indexed pool. Long and double entries occupy
// two slots, with an unusable placeholder at n+1.
func parseConstantPool(r *reader) (constantPool, error) {
	count := r.u2()
	if r.err != nil {
		return nil, r.err
	}
	pool := make(constantPool, 1, count) // index 0 is unusable

	for len(pool) < int(count) {
		tag := r.u1()
		e := cpEntry{tag: tag}
		switch tag {
		case constUtf8:
			length := r.u2()
			e.str = string(r.bytes(int(length)))
		case constInteger, constFloat:
			r.bytes(4)
		case constLong, constDouble:
			r.bytes(8)
		case constClass, constString, constMethodType, constModule, constPackage:
			e.idx1 = r.u2()
		case constFieldref, constMethodref, constInterfaceMethodref,
			constNameAndType, constDynamic, constInvokeDynamic:
			e.idx1 = r.u2()
			e.idx2 = r.u2()
		case constMethodHandle:
			r.u1()
			e.idx1 = r.u2()
		default:
			if r.err != nil {
				return nil, r.err
			}
			return nil, fmt.Errorf("invalid constant pool tag %d at index %d", tag, len(pool))
		}
		if r.err != nil {
			return nil, r.err
		}
		pool = append(pool, e)
		if tag == constLong || tag == constDouble {
			pool = append(pool, cpEntry{})
		}
	}
	return pool, nil
}

// skipMembers skips a field or method table without interpreting it.
func skipMembers(r *reader) error {
	count := r.u2()
	for i := 0; i < int(count); i++ {
		r.u2() // access flags
		r.u2() // name
		r.u2() // descriptor
		if err := skipAttributes(r); err != nil {
			return err
		}
	}
	return r.err
}

func parseMethod(r *reader, pool constantPool) (Method, error) {
	r.u2() // access flags
	nameIdx := r.u2()
	descIdx := r.u2()

	m := Method{}
	var err error
	if m.Name, err = pool.utf8(nameIdx); err != nil {
		return m, err
	}
	if m.Descriptor, err = pool.utf8(descIdx); err != nil {
		return m, err
	}

	attrCount := r.u2()
	for i := 0; i < int(attrCount); i++ {
		attrNameIdx := r.u2()
		attrLen := r.u4()
		body := r.bytes(int(attrLen))
		if r.err != nil {
			return m, r.err
		}
		name, err := pool.utf8(attrNameIdx)
		if err != nil {
			return m, err
		}
		if name != "Code" {
			continue
		}
		refs, err := scanCode(body, pool)
		if err != nil {
			return m, fmt.Errorf("method %s%s: %w", m.Name, m.Descriptor, err)
		}
		m.Refs = refs
	}
	return m, r.err
}

func skipAttributes(r *reader) error {
	count := r.u2()
	for i := 0; i < int(count); i++ {
		r.u2() // name
		length := r.u4()
		r.bytes(int(length))
	}
	return r.err
}

type constantPool []cpEntry

func (p constantPool) entry(idx uint16, tag uint8) (cpEntry, error) {
	if idx == 0 || int(idx) >= len(p) {
		return cpEntry{}, fmt.Errorf("constant pool index %d out of range", idx)
	}
	e := p[idx]
	if e.tag != tag {
		return cpEntry{}, fmt.Errorf("constant pool index %d: tag %d, want %d", idx, e.tag, tag)
	}
	return e, nil
}

func (p constantPool) utf8(idx uint16) (string, error) {
	e, err := p.entry(idx, constUtf8)
	if err != nil {
		return "", err
	}
	return e.str, nil
}

// className resolves a Class entry to dotted form. Array descriptors resolve
// to their element class; primitive arrays resolve to "".
func (p constantPool) className(idx uint16) (string, error) {
	e, err := p.entry(idx, constClass)
	if err != nil {
		return "", err
	}
	name, err := p.utf8(e.idx1)
	if err != nil {
		return "", err
	}
	return binaryToDotted(name), nil
}

// memberRef resolves a Fieldref/Methodref/InterfaceMethodref entry.
func (p constantPool) memberRef(idx uint16) (class, member string, err error) {
	if idx == 0 || int(idx) >= len(p) {
		return "", "", fmt.Errorf("constant pool index %d out of range", idx)
	}
	e := p[idx]
	switch e.tag {
	case constFieldref, constMethodref, constInterfaceMethodref:
	default:
		return "", "", fmt.Errorf("constant pool index %d: tag %d is not a member reference", idx, e.tag)
	}
	class, err = p.className(e.idx1)
	if err != nil {
		return "", "", err
	}
	nat, err := p.entry(e.idx2, constNameAndType)
	if err != nil {
		return "", "", err
	}
	member, err = p.utf8(nat.idx1)
	if err != nil {
		return "", "", err
	}
	return class, member, nil
}

// binaryToDotted converts an internal name ("java/io/File" or an array
// descriptor like "[Ljava/io/File;") to dotted form. Primitive arrays
// reference no class and map to "".
func binaryToDotted(name string) string {
	for strings.HasPrefix(name, "[") {
		name = name[1:]
	}
	if strings.HasPrefix(name, "L") && strings.HasSuffix(name, ";") {
		name = name[1 : len(name)-1]
	} else if !strings.Contains(name, "/") && len(name) == 1 {
		return "" // primitive element type
	}
	return strings.ReplaceAll(name, "/", ".")
}

// reader is a sticky-error big-endian cursor over the class binary.
type reader struct {
	buf []byte
	off int
	err error
}

var errTruncated = errors.New("truncated class file")

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.buf) {
		r.err = errTruncated
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u1() uint8 {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u2() uint16 {
	b := r.bytes(2)
	if b == nil {
		return 0
	}
	return uint16(b[0])<<8 | uint16(b[1])
}

func (r *reader) u4() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
