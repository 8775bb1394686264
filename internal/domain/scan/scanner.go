// Package scan resolves the symbolic references of analyzed classes and
// matches them against the signature rule table.
package scan

import (
	"github.com/miivari/jaraudit/internal/domain"
	"github.com/miivari/jaraudit/internal/domain/classpath"
	"github.com/miivari/jaraudit/internal/domain/rules"
)

// Result holds the scanner's findings. A reference produces either a
// Violation (resolved and rule-matched) or a MissingClassRef (unresolvable),
// never both.
type Result struct {
	Violations []domain.Violation
	Missing    []domain.MissingClassRef
}

// Scan processes every class unit in order. Resolution is attempted first:
// an unresolvable target short-circuits rule matching for that reference.
// The first matching rule wins; repeated references matching the same rule
// stay distinct (grouping happens only at report time).
func Scan(units []domain.ClassUnit, index *classpath.Index, ruleSet *rules.RuleSet) Result {
	var res Result
	seenMissing := make(map[[2]string]bool)

	for _, unit := range units {
		for _, ref := range unit.Refs {
			if !index.Resolve(ref.Target) {
				key := [2]string{ref.Target, unit.Name}
				if !seenMissing[key] {
					seenMissing[key] = true
					res.Missing = append(res.Missing, domain.MissingClassRef{
						Class:          ref.Target,
						ReferencedFrom: unit.Name,
					})
				}
				continue
			}

			rule, ok := ruleSet.Match(ref.Target, ref.Member)
			if !ok {
				continue
			}
			violation := domain.Violation{
				Class:   unit.Name,
				Method:  ref.Method,
				Target:  ref.Target,
				Message: rule.Message,
			}
			if rule.Kind == rules.KindClassMember {
				violation.Member = ref.Member
			}
			if owner, ok := index.DefinedBy(ref.Target); ok {
				violation.DefinedIn = owner.Coordinate
			}
			res.Violations = append(res.Violations, violation)
		}
	}
	return res
}
