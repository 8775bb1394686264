package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miivari/jaraudit/internal/adapters/inbound/cli"
	"github.com/miivari/jaraudit/internal/testutil/javabin"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jaraudit")
}

func TestRulesLint_CleanFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.txt",
		"@defaultMessage use the wrapper\njava.lang.Runtime\nsun.misc.**\n")
	out, err := run(t, "rules", "lint", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 2 rule(s)")
}

func TestRulesLint_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.txt", "# nothing forbidden yet\n")
	out, err := run(t, "rules", "lint", path)
	require.NoError(t, err)
	assert.Contains(t, out, "file defines no rules")
}

func TestRulesLint_MalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.txt", "java.*.Runtime\n")
	_, err := run(t, "rules", "lint", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestAuditCommand_SkippedWithoutInput(t *testing.T) {
	out, err := run(t, "audit", "--path", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "SKIPPED")
}

func TestAuditCommand_ViolationsFailWithReport(t *testing.T) {
	dir := t.TempDir()
	jar := javabin.Jar(t, dir, "dep.jar", javabin.ClassSpec{
		Name: "com.dep.Worker",
		Methods: []javabin.MethodSpec{{
			Name:    "run",
			Invokes: []javabin.Call{{Class: "java.lang.Runtime", Member: "getRuntime"}},
		}},
	})
	rules := writeFile(t, dir, "rules.txt", "java.lang.Runtime @ never fork\n")

	out, err := run(t, "audit",
		"--path", dir,
		"--rules", rules,
		"--scan", "org.dep:dep:1="+jar,
		"--no-history",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ViolationsFound")
	assert.Contains(t, out, "Forbidden APIs output:")
	assert.Contains(t, out,
		"ERROR: Forbidden class/interface use: java.lang.Runtime [never fork] (in com.dep.Worker, method run()V)")
	assert.Contains(t, out, "==end of forbidden APIs==")
}

func TestAuditCommand_MemberRuleForbidsOnlyThatMember(t *testing.T) {
	dir := t.TempDir()
	jar := javabin.Jar(t, dir, "dep.jar", javabin.ClassSpec{
		Name: "com.dep.Worker",
		Methods: []javabin.MethodSpec{{
			Name: "run",
			Invokes: []javabin.Call{
				{Class: "java.lang.System", Member: "exit"},
				{Class: "java.lang.System", Member: "getenv"},
			},
		}},
	})
	rules := writeFile(t, dir, "rules.txt", "java.lang.System#exit(int) @ no exits\n")

	out, err := run(t, "audit",
		"--path", dir,
		"--rules", rules,
		"--scan", "org.dep:dep:1="+jar,
		"--no-history",
	)
	require.Error(t, err)
	assert.Contains(t, out,
		"ERROR: Forbidden member use: java.lang.System#exit [no exits] (in com.dep.Worker, method run()V)")
	assert.NotContains(t, out, "getenv", "other members of the class stay allowed")
}

func TestAuditCommand_WildcardRuleMatchesOneMember(t *testing.T) {
	dir := t.TempDir()
	jar := javabin.Jar(t, dir, "dep.jar", javabin.ClassSpec{
		Name: "com.dep.Cleaner",
		Methods: []javabin.MethodSpec{{
			Name:    "wipe",
			Invokes: []javabin.Call{{Class: "java.io.File", Member: "delete"}},
		}},
	})
	rules := writeFile(t, dir, "rules.txt", "java.io.** @ no raw file access\n")

	out, err := run(t, "audit",
		"--path", dir,
		"--rules", rules,
		"--scan", "org.dep:dep:1="+jar,
		"--no-history",
	)
	require.Error(t, err)
	assert.Contains(t, out,
		"ERROR: Forbidden class/interface use: java.io.File [no raw file access] (in com.dep.Cleaner, method wipe()V)")
	assert.Contains(t, out, "Classes with violations:")
	assert.Contains(t, out, "  * com.dep.Cleaner")
}

func TestAuditCommand_PassedJSON(t *testing.T) {
	dir := t.TempDir()
	jar := javabin.Jar(t, dir, "dep.jar", javabin.ClassSpec{Name: "com.dep.Worker"})
	rules := writeFile(t, dir, "rules.txt", "java.lang.Runtime\n")

	out, err := run(t, "audit",
		"--path", dir,
		"--rules", rules,
		"--scan", "org.dep:dep:1="+jar,
		"--json", "--no-history",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"verdict": "passed"`)
}

func TestAuditCommand_MissingClassesWarnMode(t *testing.T) {
	dir := t.TempDir()
	jar := javabin.Jar(t, dir, "dep.jar", javabin.ClassSpec{
		Name: "com.dep.Worker",
		Methods: []javabin.MethodSpec{{
			Name:    "run",
			Invokes: []javabin.Call{{Class: "com.gone.Helper", Member: "help"}},
		}},
	})
	rules := writeFile(t, dir, "rules.txt", "java.lang.Runtime\n")

	out, err := run(t, "audit",
		"--path", dir,
		"--rules", rules,
		"--scan", "org.dep:dep:1="+jar,
		"--missing-classes", "warn",
		"--no-history",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "WARNING: Class 'com.gone.Helper' cannot be loaded")
}

func TestAuditCommand_ExcludedGroupSkips(t *testing.T) {
	dir := t.TempDir()
	jar := javabin.Jar(t, dir, "dep.jar", javabin.ClassSpec{
		Name: "com.self.Core",
		Methods: []javabin.MethodSpec{{
			Name:    "run",
			Invokes: []javabin.Call{{Class: "java.lang.Runtime", Member: "getRuntime"}},
		}},
	})
	rules := writeFile(t, dir, "rules.txt", "java.lang.Runtime\n")

	out, err := run(t, "audit",
		"--path", dir,
		"--rules", rules,
		"--scan", "org.self:core:1="+jar,
		"--exclude", "org.self",
		"--no-history",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "SKIPPED")
}

func TestAuditCommand_RejectsBadArchiveSpec(t *testing.T) {
	_, err := run(t, "audit", "--scan", "missing-path-part")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coordinate=path")
}

func TestWorkerCommand_CollisionsExitNonZero(t *testing.T) {
	dir := t.TempDir()
	jar := javabin.Jar(t, dir, "dep.jar", javabin.ClassSpec{Name: "java.util.Fake"})

	out, err := run(t, "jarhell-worker", "--jar", "org.acme:fake:1.0="+jar)
	require.Error(t, err)
	assert.Contains(t, out, "-- jarhell worker output --")
	assert.Contains(t, out, "collision:java.util.Fake=org.acme:fake:1.0")
	assert.Contains(t, out, "-- end jarhell worker output --")
}

func TestWorkerCommand_CleanJar(t *testing.T) {
	dir := t.TempDir()
	jar := javabin.Jar(t, dir, "dep.jar", javabin.ClassSpec{Name: "com.dep.Ok"})

	out, err := run(t, "jarhell-worker", "--jar", "org.dep:ok:1="+jar)
	require.NoError(t, err)
	assert.Contains(t, out, "-- jarhell worker output --")
	assert.NotContains(t, out, "collision:")
}
