package jarhell

import (
	"fmt"
	"io"

	"github.com/miivari/jaraudit/internal/domain"
	"github.com/miivari/jaraudit/internal/domain/platform"
)

// Run is the worker-side pass: enumerate every class the jar-hell archives
// define and report the ones whose names belong to the platform's built-in
// namespace. The framed payload goes to w; the returned count drives the
// worker's exit status.
func Run(w io.Writer, loader domain.ArchiveLoader, catalog *platform.Catalog, jars []domain.ArchiveRef) (int, error) {
	var collisions []domain.CollisionEntry
	for _, jar := range jars {
		la, err := loader.ListClasses(jar)
		if err != nil {
			return 0, fmt.Errorf("listing classes in %s: %w", jar.Path, err)
		}
		for _, class := range la.ClassNames {
			if catalog.Contains(class) {
				collisions = append(collisions, domain.CollisionEntry{
					Class:   class,
					Archive: jar.Coordinate,
				})
			}
		}
	}
	WritePayload(w, collisions)
	return len(collisions), nil
}
