// Package archive reads dependency jars from disk into the domain's
// in-memory archive view.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/miivari/jaraudit/internal/domain"
	"github.com/miivari/jaraudit/internal/domain/classfile"
)

// JarLoader implements domain.ArchiveLoader over zip-format jar archives.
type JarLoader struct{}

func New() *JarLoader { return &JarLoader{} }

// Load parses every class in the archive, including method-body references.
// A jar that cannot be opened, or any class entry that cannot be parsed, is a
// *domain.CorruptArchiveError: partial archives make auditing unsound.
func (l *JarLoader) Load(ref domain.ArchiveRef) (*domain.LoadedArchive, error) {
	return l.read(ref, true)
}

// ListClasses enumerates defined class names without parsing class bodies.
func (l *JarLoader) ListClasses(ref domain.ArchiveRef) (*domain.LoadedArchive, error) {
	return l.read(ref, false)
}

func (l *JarLoader) read(ref domain.ArchiveRef, parse bool) (*domain.LoadedArchive, error) {
	r, err := zip.OpenReader(ref.Path)
	if err != nil {
		return nil, &domain.CorruptArchiveError{Path: ref.Path, Err: err}
	}
	defer r.Close()

	la := &domain.LoadedArchive{Ref: ref}
	for _, f := range r.File {
		if !isClassEntry(f.Name) {
			continue
		}
		if !parse {
			la.ClassNames = append(la.ClassNames, entryClassName(f.Name))
			continue
		}

		data, err := readEntry(f)
		if err != nil {
			return nil, &domain.CorruptArchiveError{Path: ref.Path, Err: err}
		}
		cls, err := classfile.Parse(data)
		if err != nil {
			return nil, &domain.CorruptArchiveError{
				Path: ref.Path,
				Err:  fmt.Errorf("entry %s: %w", f.Name, err),
			}
		}
		la.ClassNames = append(la.ClassNames, cls.Name)
		la.Classes = append(la.Classes, toClassUnit(cls, ref))
	}
	return la, nil
}

func toClassUnit(cls *classfile.Class, ref domain.ArchiveRef) domain.ClassUnit {
	unit := domain.ClassUnit{Name: cls.Name, Archive: ref}
	for _, m := range cls.Methods {
		signature := m.Name + m.Descriptor
		for _, r := range m.Refs {
			unit.Refs = append(unit.Refs, domain.SymbolicRef{
				Target: r.Class,
				Member: r.Member,
				Method: signature,
			})
		}
	}
	return unit
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", f.Name, err)
	}
	return data, nil
}

// isClassEntry filters to real class definitions: manifest metadata and
// module descriptors carry no auditable code.
func isClassEntry(name string) bool {
	if !strings.HasSuffix(name, ".class") {
		return false
	}
	if strings.HasPrefix(name, "META-INF/") {
		return false
	}
	return name != "module-info.class"
}

func entryClassName(name string) string {
	return strings.ReplaceAll(strings.TrimSuffix(name, ".class"), "/", ".")
}
