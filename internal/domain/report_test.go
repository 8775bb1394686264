package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miivari/jaraudit/internal/domain"
)

func TestText_ViolationReport(t *testing.T) {
	report := &domain.AuditReport{
		Verdict: domain.VerdictFailed,
		Reason:  domain.ReasonViolationsFound,
		Violations: []domain.Violation{
			{Class: "com.acme.App", Method: "run()V", Target: "java.lang.Runtime", Message: "never fork"},
		},
	}

	text := report.Text()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Equal(t, []string{
		"Forbidden APIs output:",
		"ERROR: Forbidden class/interface use: java.lang.Runtime [never fork] (in com.acme.App, method run()V)",
		"==end of forbidden APIs==",
		"Classes with violations:",
		"  * com.acme.App",
	}, lines)
}

func TestText_MemberViolationUsesHashForm(t *testing.T) {
	report := &domain.AuditReport{
		Verdict: domain.VerdictFailed,
		Reason:  domain.ReasonViolationsFound,
		Violations: []domain.Violation{
			{Class: "com.acme.App", Method: "run()V", Target: "java.lang.System", Member: "exit", Message: "no exits"},
		},
	}
	assert.Contains(t, report.Text(),
		"ERROR: Forbidden member use: java.lang.System#exit [no exits] (in com.acme.App, method run()V)")
}

func TestText_MissingClassWarning(t *testing.T) {
	report := &domain.AuditReport{
		Verdict: domain.VerdictFailed,
		Reason:  domain.ReasonMissingClasses,
		MissingClasses: []domain.MissingClassRef{
			{Class: "com.gone.Helper", ReferencedFrom: "com.acme.App"},
		},
	}

	text := report.Text()
	assert.Contains(t, text,
		"WARNING: Class 'com.gone.Helper' cannot be loaded (referenced from com.acme.App). Please fix the classpath!")
	assert.Contains(t, text, "Missing classes:\n  * com.gone.Helper")
	assert.NotContains(t, text, "Classes with violations:")
}

func TestText_CollisionsShortCircuitEverything(t *testing.T) {
	report := &domain.AuditReport{
		Verdict: domain.VerdictFailed,
		Reason:  domain.ReasonPlatformCollision,
		Violations: []domain.Violation{
			{Class: "com.acme.App", Method: "run()V", Target: "java.lang.Runtime", Message: "m"},
		},
		Collisions: []domain.CollisionEntry{
			{Class: "javax.xml.Thing", Archive: "org.acme:xml:1.0"},
			{Class: "java.util.Fake", Archive: "org.acme:fake:1.0"},
		},
		ToolFailure: "isolated collision check found 2 class(es) shadowing platform classes",
	}

	text := report.Text()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Equal(t, []string{
		"FATAL: classes colliding with platform bootstrap classes:",
		"  * java.util.Fake (org.acme:fake:1.0)",
		"  * javax.xml.Thing (org.acme:xml:1.0)",
		"isolated collision check found 2 class(es) shadowing platform classes",
	}, lines)
	assert.NotContains(t, text, "Forbidden APIs output:")
}

func TestText_ToolCrashIsFatalLineOnly(t *testing.T) {
	report := &domain.AuditReport{
		Verdict:     domain.VerdictFailed,
		Reason:      domain.ReasonToolCrashed,
		ToolFailure: "collision worker crashed: worker timed out",
	}
	assert.Equal(t, "FATAL: collision worker crashed: worker timed out\n", report.Text())
}

func TestText_CleanRunIsEmptyBlock(t *testing.T) {
	report := &domain.AuditReport{Verdict: domain.VerdictPassed}
	assert.Equal(t, "Forbidden APIs output:\n==end of forbidden APIs==\n", report.Text())
}

func TestGroupViolations_ClassFirstAppearanceThenMethod(t *testing.T) {
	violations := []domain.Violation{
		{Class: "com.acme.B", Method: "z()V", Target: "t", Message: "m"},
		{Class: "com.acme.A", Method: "b()V", Target: "t", Message: "m"},
		{Class: "com.acme.B", Method: "a()V", Target: "t", Message: "m"},
		{Class: "com.acme.A", Method: "a()V", Target: "t", Message: "m"},
	}
	ordered := domain.GroupViolations(violations)

	got := make([]string, len(ordered))
	for i, v := range ordered {
		got[i] = v.Class + "/" + v.Method
	}
	assert.Equal(t, []string{
		"com.acme.B/a()V",
		"com.acme.B/z()V",
		"com.acme.A/a()V",
		"com.acme.A/b()V",
	}, got)
}

func TestText_DeterministicAcrossInputOrder(t *testing.T) {
	a := &domain.AuditReport{
		Verdict: domain.VerdictFailed,
		Reason:  domain.ReasonMissingClasses,
		MissingClasses: []domain.MissingClassRef{
			{Class: "b.B", ReferencedFrom: "x.X"},
			{Class: "a.A", ReferencedFrom: "x.X"},
		},
	}
	b := &domain.AuditReport{
		Verdict: domain.VerdictFailed,
		Reason:  domain.ReasonMissingClasses,
		MissingClasses: []domain.MissingClassRef{
			{Class: "a.A", ReferencedFrom: "x.X"},
			{Class: "b.B", ReferencedFrom: "x.X"},
		},
	}
	assert.Equal(t, a.Text(), b.Text())
}

func TestClassesWithViolations_DistinctSorted(t *testing.T) {
	report := &domain.AuditReport{Violations: []domain.Violation{
		{Class: "com.acme.B"},
		{Class: "com.acme.A"},
		{Class: "com.acme.B"},
	}}
	assert.Equal(t, []string{"com.acme.A", "com.acme.B"}, report.ClassesWithViolations())
}
