package rules

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const defaultMessageDirective = "@defaultMessage"

// fallbackMessage is used when neither a per-rule message nor a default
// message directive applies.
const fallbackMessage = "forbidden API"

// MalformedRuleFileError is fatal: the audit aborts before scanning starts.
type MalformedRuleFileError struct {
	Line   int
	Text   string
	Detail string
}

func (e *MalformedRuleFileError) Error() string {
	return fmt.Sprintf("malformed rule file: line %d %q: %s", e.Line, e.Text, e.Detail)
}

// ParseFile parses a signature rule file from disk.
func ParseFile(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rule file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the line-oriented rule format:
//
//	# comment
//	@defaultMessage some text        resets the default for later rules
//	fully.qualified.Class            whole-class rule
//	fully.qualified.Class.**         class-and-nested prefix rule
//	fully.qualified.Class#member     member rule
//	<pattern> @ message              per-rule message override
//
// Blank lines and lines starting with '#' are ignored. A syntactically
// invalid pattern yields a *MalformedRuleFileError.
func Parse(r io.Reader) (*RuleSet, error) {
	set := &RuleSet{}
	defaultMsg := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, defaultMessageDirective) {
			msg := strings.TrimSpace(line[len(defaultMessageDirective):])
			if msg == "" {
				return nil, &MalformedRuleFileError{Line: lineNo, Text: line, Detail: "empty default message"}
			}
			defaultMsg = msg
			continue
		}
		if strings.HasPrefix(line, "@") {
			return nil, &MalformedRuleFileError{Line: lineNo, Text: line, Detail: "unknown directive"}
		}

		pattern := line
		message := defaultMsg
		if idx := strings.Index(line, " @ "); idx >= 0 {
			pattern = strings.TrimSpace(line[:idx])
			message = strings.TrimSpace(line[idx+3:])
		}
		if message == "" {
			message = fallbackMessage
		}

		rule, err := parsePattern(pattern, message, lineNo, line)
		if err != nil {
			return nil, err
		}
		set.Rules = append(set.Rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	return set, nil
}

func parsePattern(pattern, message string, lineNo int, line string) (Rule, error) {
	malformed := func(detail string) (Rule, error) {
		return Rule{}, &MalformedRuleFileError{Line: lineNo, Text: line, Detail: detail}
	}

	class := pattern
	member := ""
	if idx := strings.Index(pattern, "#"); idx >= 0 {
		class = pattern[:idx]
		member = pattern[idx+1:]
		if member == "" {
			return malformed("empty member name after '#'")
		}
		if strings.Contains(member, "#") {
			return malformed("more than one '#' in pattern")
		}
	}

	kind := KindWholeClass
	if strings.HasSuffix(class, ".**") {
		if member != "" {
			return malformed("member rule cannot use a wildcard class pattern")
		}
		kind = KindWholeClassPrefix
		class = strings.TrimSuffix(class, ".**")
	} else if strings.Contains(class, "*") {
		return malformed("wildcard only allowed as trailing '.**'")
	}
	if member != "" {
		kind = KindClassMember
	}

	if !validClassName(class) {
		return malformed("not a valid class name pattern")
	}
	if member != "" && !validIdentifier(memberName(member)) {
		return malformed("not a valid member name")
	}

	return Rule{Kind: kind, Class: class, Member: memberName(member), Message: message}, nil
}

// memberName strips a trailing argument list, so "exit(int)" keys on "exit".
func memberName(member string) string {
	if idx := strings.Index(member, "("); idx >= 0 {
		return member[:idx]
	}
	return member
}

func validClassName(name string) bool {
	if name == "" {
		return false
	}
	for _, segment := range strings.Split(name, ".") {
		// Nested classes may appear as Outer$Inner within a segment.
		for _, part := range strings.Split(segment, "$") {
			if !validIdentifier(part) {
				return false
			}
		}
	}
	return true
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		letter := c == '_' || c == '$' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		digit := c >= '0' && c <= '9'
		if i == 0 && !letter {
			return false
		}
		if !letter && !digit {
			return false
		}
	}
	return true
}
