package domain

import "context"

// LoadedArchive is the in-memory view of one archive after reading.
type LoadedArchive struct {
	Ref        ArchiveRef
	ClassNames []string    // every class the archive defines, dotted form
	Classes    []ClassUnit // parsed units; empty when loaded names-only
}

// ArchiveLoader reads dependency archives from disk.
type ArchiveLoader interface {
	// Load parses every class in the archive, including method-body
	// references. Used for runtime-analyzed archives.
	Load(ref ArchiveRef) (*LoadedArchive, error)
	// ListClasses enumerates defined class names without parsing bodies.
	// Used for context and jar-hell archives.
	ListClasses(ref ArchiveRef) (*LoadedArchive, error)
}

// CollisionChecker runs the isolated platform-collision pass. The contract is
// one synchronous request/response exchange; abnormal termination surfaces as
// *ToolCrashedError.
type CollisionChecker interface {
	Check(ctx context.Context, jars []ArchiveRef) ([]CollisionEntry, error)
}

// ConfigLoader reads the project audit configuration.
type ConfigLoader interface {
	Load(projectPath string) (AuditConfig, error)
}

// GitInfo provides repository metadata for report provenance.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}

// AuditHistory persists audit outcomes across runs.
type AuditHistory interface {
	Save(projectPath string, entry AuditEntry) error
	Load(projectPath string) ([]AuditEntry, error)
}
