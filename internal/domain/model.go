package domain

import "time"

// Role classifies how an archive participates in the audit.
type Role string

const (
	// RoleRuntimeAnalyzed marks archives whose classes are scanned for
	// forbidden-API references.
	RoleRuntimeAnalyzed Role = "runtime-analyzed"
	// RoleCompileOnlyContext marks archives that are never scanned but stay
	// available for reference resolution.
	RoleCompileOnlyContext Role = "compile-only-context"
	// RolePlatformSelfContext marks the platform's own first-party archives,
	// used only as resolution context.
	RolePlatformSelfContext Role = "platform-self-context"
)

// ArchiveRef identifies one dependency archive. Immutable after partitioning.
type ArchiveRef struct {
	Coordinate string `json:"coordinate"` // group:artifact:version, opaque
	Path       string `json:"path"`
	Role       Role   `json:"role"`
}

// Group returns the group segment of the coordinate (everything before the
// first colon, or the whole coordinate if there is none).
func (a ArchiveRef) Group() string {
	for i := 0; i < len(a.Coordinate); i++ {
		if a.Coordinate[i] == ':' {
			return a.Coordinate[:i]
		}
	}
	return a.Coordinate
}

// SymbolicRef is one outgoing reference made by a method body: a target class
// and, for field/method references, the target member name.
type SymbolicRef struct {
	Target string // dotted fully qualified class name
	Member string // empty for plain class references
	Method string // referencing method in the source class, e.g. "run()V"
}

// ClassUnit is one compiled class loaded for analysis.
type ClassUnit struct {
	Name    string // dotted fully qualified name
	Archive ArchiveRef
	Refs    []SymbolicRef
}

// Violation records a symbolic reference that matched a signature rule.
// Ordered for reporting by (source class, method).
type Violation struct {
	Class   string `json:"class"`  // source class
	Method  string `json:"method"` // referencing method signature
	Target  string `json:"target"` // referenced class
	Member  string `json:"member,omitempty"`
	Message string `json:"message"`
	// DefinedIn is the coordinate of the archive defining the target, when a
	// loaded archive rather than the platform provides it.
	DefinedIn string `json:"defined_in,omitempty"`
}

// MissingClassRef records a reference whose target class could not be located
// anywhere on the resolution classpath. A resolution failure, not a finding.
type MissingClassRef struct {
	Class          string `json:"class"` // the missing target
	ReferencedFrom string `json:"referenced_from"`
}

// CollisionEntry records a jar-hell class that shadows a platform built-in.
type CollisionEntry struct {
	Class   string `json:"class"`
	Archive string `json:"archive"` // coordinate of the defining archive
}

// Verdict is the overall outcome of an audit.
type Verdict string

const (
	VerdictSkipped Verdict = "skipped" // no applicable dependencies, not a pass
	VerdictPassed  Verdict = "passed"
	VerdictFailed  Verdict = "failed"
)

// Reason tags a failed verdict. Stable for scripting.
type Reason string

const (
	ReasonViolationsFound   Reason = "ViolationsFound"
	ReasonMissingClasses    Reason = "MissingClasses"
	ReasonPlatformCollision Reason = "PlatformCollision"
	ReasonMalformedRuleFile Reason = "MalformedRuleFile"
	ReasonToolCrashed       Reason = "ToolCrashed"
)

// Phase is a step in the audit state machine:
// Idle -> Partitioning -> {Skipped | Analyzing} -> Aggregating -> Done.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhasePartitioning Phase = "partitioning"
	PhaseAnalyzing    Phase = "analyzing"
	PhaseAggregating  Phase = "aggregating"
	PhaseDone         Phase = "done"
)

// AuditReport is the sole externally visible artifact besides the exit status.
// Constructed once after both analysis passes complete; immutable.
type AuditReport struct {
	Verdict        Verdict           `json:"verdict"`
	Reason         Reason            `json:"reason,omitempty"`
	Violations     []Violation       `json:"violations,omitempty"`
	MissingClasses []MissingClassRef `json:"missing_classes,omitempty"`
	Collisions     []CollisionEntry  `json:"collisions,omitempty"`
	ToolFailure    string            `json:"tool_failure,omitempty"`
	CommitHash     string            `json:"commit_hash,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
}

// AuditEntry is one line of audit history.
type AuditEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	Verdict        Verdict   `json:"verdict"`
	Reason         Reason    `json:"reason,omitempty"`
	Violations     int       `json:"violations"`
	MissingClasses int       `json:"missing_classes"`
	Collisions     int       `json:"collisions"`
	CommitHash     string    `json:"commit_hash,omitempty"`
}
