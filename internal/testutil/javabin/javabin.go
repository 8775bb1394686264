// Package javabin synthesizes minimal valid JVM class binaries and jar
// archives for tests. The emitted classes carry real constant pools and Code
// attributes so the production parser exercises its full path.
package javabin

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Call names a member access a synthetic method body performs.
type Call struct {
	Class  string // dotted target class
	Member string
}

// MethodSpec describes one synthetic method.
type MethodSpec struct {
	Name       string
	Descriptor string // defaults to "()V"
	Invokes    []Call // emitted as invokestatic
	Reads      []Call // emitted as getstatic
	News       []string
}

// ClassSpec describes one synthetic class.
type ClassSpec struct {
	Name    string // dotted
	Super   string // defaults to java.lang.Object
	Methods []MethodSpec
}

// Class emits a class binary for the spec.
func Class(spec ClassSpec) []byte {
	cp := newConstPool()
	if spec.Super == "" {
		spec.Super = "java.lang.Object"
	}
	thisIdx := cp.class(spec.Name)
	superIdx := cp.class(spec.Super)
	codeAttr := cp.utf8("Code")

	type builtMethod struct {
		nameIdx, descIdx uint16
		code             []byte
	}
	var methods []builtMethod
	for _, m := range spec.Methods {
		if m.Descriptor == "" {
			m.Descriptor = "()V"
		}
		var code bytes.Buffer
		for _, c := range m.Reads {
			code.WriteByte(0xB2) // getstatic
			writeU2(&code, cp.fieldref(c.Class, c.Member, "I"))
			code.WriteByte(0x57) // pop
		}
		for _, n := range m.News {
			code.WriteByte(0xBB) // new
			writeU2(&code, cp.class(n))
			code.WriteByte(0x57) // pop
		}
		for _, c := range m.Invokes {
			code.WriteByte(0xB8) // invokestatic
			writeU2(&code, cp.methodref(c.Class, c.Member, "()V"))
		}
		code.WriteByte(0xB1) // return
		methods = append(methods, builtMethod{
			nameIdx: cp.utf8(m.Name),
			descIdx: cp.utf8(m.Descriptor),
			code:    code.Bytes(),
		})
	}

	var out bytes.Buffer
	writeU4(&out, 0xCAFEBABE)
	writeU2(&out, 0)  // minor
	writeU2(&out, 52) // major, Java 8
	cp.writeTo(&out)
	writeU2(&out, 0x0021) // ACC_PUBLIC | ACC_SUPER
	writeU2(&out, thisIdx)
	writeU2(&out, superIdx)
	writeU2(&out, 0) // interfaces
	writeU2(&out, 0) // fields
	writeU2(&out, uint16(len(methods)))
	for _, m := range methods {
		writeU2(&out, 0x0009) // ACC_PUBLIC | ACC_STATIC
		writeU2(&out, m.nameIdx)
		writeU2(&out, m.descIdx)
		writeU2(&out, 1) // one attribute: Code
		writeU2(&out, codeAttr)
		writeU4(&out, uint32(12+len(m.code))) // attribute length
		writeU2(&out, 8)                      // max_stack
		writeU2(&out, 8)                      // max_locals
		writeU4(&out, uint32(len(m.code)))
		out.Write(m.code)
		writeU2(&out, 0) // exception table
		writeU2(&out, 0) // code attributes
	}
	writeU2(&out, 0) // class attributes
	return out.Bytes()
}

// Jar writes a jar containing the given classes (plus any raw extra entries)
// into dir and returns its path.
func Jar(t *testing.T, dir, name string, classes ...ClassSpec) string {
	t.Helper()
	entries := make(map[string][]byte, len(classes))
	for _, spec := range classes {
		entries[internalName(spec.Name)+".class"] = Class(spec)
	}
	return RawJar(t, dir, name, entries)
}

// RawJar writes a jar with arbitrary entries into dir and returns its path.
func RawJar(t *testing.T, dir, name string, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for entryName, data := range entries {
		f, err := w.Create(entryName)
		if err != nil {
			t.Fatalf("creating jar entry %s: %v", entryName, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("writing jar entry %s: %v", entryName, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing jar: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing jar %s: %v", path, err)
	}
	return path
}

// CorruptJar writes a file that is not a valid zip archive.
func CorruptJar(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatalf("writing corrupt jar: %v", err)
	}
	return path
}

func internalName(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}

// constPool builds a deduplicated constant pool.
type constPool struct {
	entries []poolEntry
	lookup  map[string]uint16
}

type poolEntry struct {
	tag        uint8
	idx1, idx2 uint16
	str        string
}

func newConstPool() *constPool {
	return &constPool{lookup: make(map[string]uint16)}
}

func (cp *constPool) add(key string, e poolEntry) uint16 {
	if idx, ok := cp.lookup[key]; ok {
		return idx
	}
	cp.entries = append(cp.entries, e)
	idx := uint16(len(cp.entries)) // pool is 1-indexed
	cp.lookup[key] = idx
	return idx
}

func (cp *constPool) utf8(s string) uint16 {
	return cp.add("u:"+s, poolEntry{tag: 1, str: s})
}

func (cp *constPool) class(dotted string) uint16 {
	name := cp.utf8(internalName(dotted))
	return cp.add("c:"+dotted, poolEntry{tag: 7, idx1: name})
}

func (cp *constPool) nameAndType(name, desc string) uint16 {
	n := cp.utf8(name)
	d := cp.utf8(desc)
	return cp.add("n:"+name+":"+desc, poolEntry{tag: 12, idx1: n, idx2: d})
}

func (cp *constPool) methodref(class, name, desc string) uint16 {
	c := cp.class(class)
	nat := cp.nameAndType(name, desc)
	return cp.add("m:"+class+"."+name+desc, poolEntry{tag: 10, idx1: c, idx2: nat})
}

func (cp *constPool) fieldref(class, name, desc string) uint16 {
	c := cp.class(class)
	nat := cp.nameAndType(name, desc)
	return cp.add("f:"+class+"."+name+desc, poolEntry{tag: 9, idx1: c, idx2: nat})
}

func (cp *constPool) writeTo(out *bytes.Buffer) {
	writeU2(out, uint16(len(cp.entries)+1))
	for _, e := range cp.entries {
		out.WriteByte(e.tag)
		switch e.tag {
		case 1:
			writeU2(out, uint16(len(e.str)))
			out.WriteString(e.str)
		case 7:
			writeU2(out, e.idx1)
		case 9, 10, 12:
			writeU2(out, e.idx1)
			writeU2(out, e.idx2)
		}
	}
}

func writeU2(out *bytes.Buffer, v uint16) {
	_ = binary.Write(out, binary.BigEndian, v)
}

func writeU4(out *bytes.Buffer, v uint32) {
	_ = binary.Write(out, binary.BigEndian, v)
}
