// Package rules parses forbidden-API signature files and matches symbolic
// references against them.
package rules

import "strings"

// Kind discriminates the rule variants so matching stays total instead of
// being scattered string-suffix checks.
type Kind int

const (
	// KindWholeClass forbids every use of one exact class.
	KindWholeClass Kind = iota
	// KindWholeClassPrefix forbids a class and everything nested under it
	// (pattern written with a trailing ".**").
	KindWholeClassPrefix
	// KindClassMember forbids one member of one exact class.
	KindClassMember
)

// Rule is one forbidden-API entry. Immutable once parsed.
type Rule struct {
	Kind    Kind   `json:"kind"`
	Class   string `json:"class"` // dotted name; the prefix for KindWholeClassPrefix
	Member  string `json:"member,omitempty"`
	Message string `json:"message"`
}

// Matches reports whether a reference to class (and optionally member) is
// forbidden by this rule.
func (r Rule) Matches(class, member string) bool {
	switch r.Kind {
	case KindWholeClass:
		return class == r.Class
	case KindWholeClassPrefix:
		if class == r.Class {
			return true
		}
		if !strings.HasPrefix(class, r.Class) {
			return false
		}
		sep := class[len(r.Class)]
		return sep == '.' || sep == '$'
	case KindClassMember:
		return class == r.Class && member != "" && member == r.Member
	}
	return false
}

// RuleSet is the parsed rule table. Read-only during scanning.
type RuleSet struct {
	Rules []Rule `json:"rules"`
}

// Match returns the first rule forbidding the given reference. Rules apply in
// file order; the first match wins.
func (s *RuleSet) Match(class, member string) (Rule, bool) {
	for _, r := range s.Rules {
		if r.Matches(class, member) {
			return r, true
		}
	}
	return Rule{}, false
}

// Empty reports whether the set contains no rules.
func (s *RuleSet) Empty() bool { return len(s.Rules) == 0 }
