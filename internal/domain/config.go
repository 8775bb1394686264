package domain

import "fmt"

// Missing-class handling modes. Fatal by default; warn downgrades a
// resolution gap to a reported warning without failing the audit.
const (
	MissingClassesFatal = "fatal"
	MissingClassesWarn  = "warn"
)

// AuditConfig is the project-level configuration read from .jaraudit.yaml.
type AuditConfig struct {
	// ExcludeGroups lists coordinate-group prefixes exempt from analysis.
	// Matching is case-sensitive on dot-delimited segments, so
	// "org.acme" exempts "org.acme" and "org.acme.plugin" but not
	// "org.acmeish".
	ExcludeGroups []string `yaml:"exclude_groups"`
	// MissingClasses is "fatal" or "warn".
	MissingClasses string `yaml:"missing_classes"`
	// RulesFile is the default signature rule file, relative to the project.
	RulesFile string `yaml:"rules_file"`
	// PlatformClassList optionally names a file listing exact platform
	// class names, one per line, supplementing the built-in prefixes.
	PlatformClassList string `yaml:"platform_classlist"`
	// DisableHistory turns off audit history persistence.
	DisableHistory bool `yaml:"disable_history"`
}

// DefaultConfig returns the configuration used when no .jaraudit.yaml exists.
func DefaultConfig() AuditConfig {
	return AuditConfig{
		MissingClasses: MissingClassesFatal,
		RulesFile:      "forbidden-signatures.txt",
	}
}

// Validate catches typos before the config is merged and used.
func (c AuditConfig) Validate() error {
	switch c.MissingClasses {
	case "", MissingClassesFatal, MissingClassesWarn:
	default:
		return fmt.Errorf("missing_classes must be %q or %q, got %q",
			MissingClassesFatal, MissingClassesWarn, c.MissingClasses)
	}
	for _, g := range c.ExcludeGroups {
		if g == "" {
			return fmt.Errorf("exclude_groups must not contain empty entries")
		}
	}
	return nil
}

// MissingClassesFatal reports whether unresolved references fail the audit.
func (c AuditConfig) MissingClassesAreFatal() bool {
	return c.MissingClasses != MissingClassesWarn
}

// GroupExcluded reports whether a coordinate group matches one of the exempt
// prefixes: equal to a prefix, or extending it at a dot boundary.
func (c AuditConfig) GroupExcluded(group string) bool {
	for _, prefix := range c.ExcludeGroups {
		if group == prefix {
			return true
		}
		if len(group) > len(prefix) && group[:len(prefix)] == prefix && group[len(prefix)] == '.' {
			return true
		}
	}
	return false
}
