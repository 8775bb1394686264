// Package classpath partitions the declared dependency sets into the
// role-tagged collections the audit passes consume, and indexes the combined
// resolution classpath.
package classpath

import (
	"github.com/miivari/jaraudit/internal/domain"
)

// Sets are the declared dependency sets handed over by the build.
type Sets struct {
	Runtime     []domain.ArchiveRef // runtime-visible dependencies
	CompileOnly []domain.ArchiveRef // compile-only dependencies
	JarHell     []domain.ArchiveRef // archives checked against platform classes
}

// Partition is the classified classpath. Archives are role-tagged and the
// collections are immutable thereafter.
type Partition struct {
	// Analyze holds the archives scanned for forbidden-API references.
	Analyze []domain.ArchiveRef
	// Context holds resolution-only archives: compile-only dependencies
	// plus exempted first-party archives.
	Context []domain.ArchiveRef
	// JarHell holds the archives whose classes must not collide with the
	// platform's own.
	JarHell []domain.ArchiveRef
}

// NoWork reports that nothing is left to audit after exemption. The whole
// audit is then a no-op: downstream passes must not run.
func (p Partition) NoWork() bool {
	return len(p.Analyze) == 0 && len(p.JarHell) == 0
}

// Partition classifies the declared sets. Dependencies whose coordinate group
// matches an exempt prefix are first-party: never analyzed, never jar-hell
// checked, but kept as resolution context so references into them resolve.
func PartitionSets(sets Sets, cfg domain.AuditConfig) Partition {
	var p Partition

	for _, ref := range sets.Runtime {
		if cfg.GroupExcluded(ref.Group()) {
			ref.Role = domain.RolePlatformSelfContext
			p.Context = append(p.Context, ref)
			continue
		}
		ref.Role = domain.RoleRuntimeAnalyzed
		p.Analyze = append(p.Analyze, ref)
	}

	for _, ref := range sets.CompileOnly {
		ref.Role = domain.RoleCompileOnlyContext
		p.Context = append(p.Context, ref)
	}

	for _, ref := range sets.JarHell {
		if cfg.GroupExcluded(ref.Group()) {
			continue
		}
		ref.Role = domain.RoleRuntimeAnalyzed
		p.JarHell = append(p.JarHell, ref)
	}

	return p
}
