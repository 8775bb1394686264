package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Report section markers. Stable: integration scripts grep for these.
const (
	reportHeader = "Forbidden APIs output:"
	reportFooter = "==end of forbidden APIs=="
)

// Text renders the canonical report. The shape is fixed: a platform collision
// short-circuits everything else; otherwise the tool diagnostic block is
// followed by the violation and missing-class listings.
func (r *AuditReport) Text() string {
	var b strings.Builder

	if r.Reason == ReasonMalformedRuleFile || r.Reason == ReasonToolCrashed {
		return "FATAL: " + r.ToolFailure + "\n"
	}

	if len(r.Collisions) > 0 {
		b.WriteString("FATAL: classes colliding with platform bootstrap classes:\n")
		for _, c := range sortedCollisions(r.Collisions) {
			fmt.Fprintf(&b, "  * %s (%s)\n", c.Class, c.Archive)
		}
		if r.ToolFailure != "" {
			b.WriteString(r.ToolFailure + "\n")
		}
		return b.String()
	}

	b.WriteString(reportHeader + "\n")
	for _, v := range GroupViolations(r.Violations) {
		b.WriteString(v.diagnostic() + "\n")
	}
	for _, m := range sortedMissing(r.MissingClasses) {
		fmt.Fprintf(&b, "WARNING: Class '%s' cannot be loaded (referenced from %s). Please fix the classpath!\n",
			m.Class, m.ReferencedFrom)
	}
	b.WriteString(reportFooter + "\n")

	if classes := r.ClassesWithViolations(); len(classes) > 0 {
		b.WriteString("Classes with violations:\n")
		for _, c := range classes {
			fmt.Fprintf(&b, "  * %s\n", c)
		}
	}
	if missing := r.MissingClassNames(); len(missing) > 0 {
		b.WriteString("Missing classes:\n")
		for _, c := range missing {
			fmt.Fprintf(&b, "  * %s\n", c)
		}
	}

	return b.String()
}

func (v Violation) diagnostic() string {
	target := v.Target
	kind := "Forbidden class/interface use"
	if v.Member != "" {
		kind = "Forbidden member use"
		target = v.Target + "#" + v.Member
	}
	return fmt.Sprintf("ERROR: %s: %s [%s] (in %s, method %s)",
		kind, target, v.Message, v.Class, v.Method)
}

// ClassesWithViolations returns the distinct source class names containing at
// least one violation, sorted.
func (r *AuditReport) ClassesWithViolations() []string {
	return distinctSorted(r.Violations, func(v Violation) string { return v.Class })
}

// MissingClassNames returns the distinct missing class names, sorted.
func (r *AuditReport) MissingClassNames() []string {
	return distinctSorted(r.MissingClasses, func(m MissingClassRef) string { return m.Class })
}

// GroupViolations orders violations for display: grouped by source class in
// first-appearance order, each group sorted by method name then message.
func GroupViolations(violations []Violation) []Violation {
	var classOrder []string
	groups := make(map[string][]Violation)
	for _, v := range violations {
		if _, seen := groups[v.Class]; !seen {
			classOrder = append(classOrder, v.Class)
		}
		groups[v.Class] = append(groups[v.Class], v)
	}

	ordered := make([]Violation, 0, len(violations))
	for _, class := range classOrder {
		group := groups[class]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Method != group[j].Method {
				return group[i].Method < group[j].Method
			}
			return group[i].Message < group[j].Message
		})
		ordered = append(ordered, group...)
	}
	return ordered
}

func sortedMissing(missing []MissingClassRef) []MissingClassRef {
	out := make([]MissingClassRef, len(missing))
	copy(out, missing)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class < out[j].Class
		}
		return out[i].ReferencedFrom < out[j].ReferencedFrom
	})
	return out
}

func sortedCollisions(collisions []CollisionEntry) []CollisionEntry {
	out := make([]CollisionEntry, len(collisions))
	copy(out, collisions)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class < out[j].Class
		}
		return out[i].Archive < out[j].Archive
	})
	return out
}

func distinctSorted[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		k := key(item)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
