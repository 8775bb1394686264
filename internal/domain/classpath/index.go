package classpath

import (
	"github.com/miivari/jaraudit/internal/domain"
	"github.com/miivari/jaraudit/internal/domain/platform"
)

// Index is the resolution classpath: every class defined by the loaded
// archives plus the platform's built-in namespace. Immutable once built.
type Index struct {
	classes  map[string]domain.ArchiveRef
	platform *platform.Catalog
}

// NewIndex returns an empty index backed by the given platform catalog.
func NewIndex(catalog *platform.Catalog) *Index {
	return &Index{
		classes:  make(map[string]domain.ArchiveRef),
		platform: catalog,
	}
}

// AddArchive registers every class the archive defines. First definition
// wins, matching classpath-order resolution.
func (ix *Index) AddArchive(la *domain.LoadedArchive) {
	for _, name := range la.ClassNames {
		if _, ok := ix.classes[name]; !ok {
			ix.classes[name] = la.Ref
		}
	}
}

// Resolve reports whether the class can be located anywhere on the combined
// resolution classpath, including the platform built-ins.
func (ix *Index) Resolve(class string) bool {
	if _, ok := ix.classes[class]; ok {
		return true
	}
	return ix.platform.Contains(class)
}

// DefinedBy returns the archive defining the class, when a loaded archive
// (rather than the platform) provides it.
func (ix *Index) DefinedBy(class string) (domain.ArchiveRef, bool) {
	ref, ok := ix.classes[class]
	return ref, ok
}
