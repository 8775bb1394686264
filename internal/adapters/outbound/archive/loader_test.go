package archive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miivari/jaraudit/internal/adapters/outbound/archive"
	"github.com/miivari/jaraudit/internal/domain"
	"github.com/miivari/jaraudit/internal/testutil/javabin"
)

func TestLoad_ParsesClassesAndRefs(t *testing.T) {
	dir := t.TempDir()
	path := javabin.Jar(t, dir, "dep.jar", javabin.ClassSpec{
		Name: "com.dep.Worker",
		Methods: []javabin.MethodSpec{{
			Name:    "run",
			Invokes: []javabin.Call{{Class: "java.lang.Runtime", Member: "getRuntime"}},
		}},
	})

	la, err := archive.New().Load(domain.ArchiveRef{Coordinate: "org.dep:dep:1", Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.dep.Worker"}, la.ClassNames)
	require.Len(t, la.Classes, 1)
	require.Len(t, la.Classes[0].Refs, 1)
	assert.Equal(t, domain.SymbolicRef{
		Target: "java.lang.Runtime",
		Member: "getRuntime",
		Method: "run()V",
	}, la.Classes[0].Refs[0])
}

func TestListClasses_NamesOnly(t *testing.T) {
	dir := t.TempDir()
	path := javabin.Jar(t, dir, "dep.jar",
		javabin.ClassSpec{Name: "com.dep.A"},
		javabin.ClassSpec{Name: "com.dep.B"},
	)

	la, err := archive.New().ListClasses(domain.ArchiveRef{Path: path})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"com.dep.A", "com.dep.B"}, la.ClassNames)
	assert.Empty(t, la.Classes)
}

func TestLoad_SkipsMetadataEntries(t *testing.T) {
	dir := t.TempDir()
	path := javabin.RawJar(t, dir, "dep.jar", map[string][]byte{
		"com/dep/A.class":             javabin.Class(javabin.ClassSpec{Name: "com.dep.A"}),
		"module-info.class":           []byte("not parsed"),
		"META-INF/versions/9/X.class": []byte("not parsed"),
		"META-INF/MANIFEST.MF":        []byte("Manifest-Version: 1.0"),
		"com/dep/resource.properties": []byte("k=v"),
	})

	la, err := archive.New().Load(domain.ArchiveRef{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.dep.A"}, la.ClassNames)
}

func TestLoad_CorruptJar(t *testing.T) {
	dir := t.TempDir()
	path := javabin.CorruptJar(t, dir, "broken.jar")

	_, err := archive.New().Load(domain.ArchiveRef{Path: path})
	var corrupt *domain.CorruptArchiveError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, path, corrupt.Path)
}

func TestLoad_CorruptClassEntry(t *testing.T) {
	dir := t.TempDir()
	path := javabin.RawJar(t, dir, "dep.jar", map[string][]byte{
		"com/dep/Broken.class": {0xCA, 0xFE},
	})

	_, err := archive.New().Load(domain.ArchiveRef{Path: path})
	var corrupt *domain.CorruptArchiveError
	assert.ErrorAs(t, err, &corrupt)
}

func TestListClasses_DoesNotParseEntries(t *testing.T) {
	// A names-only read must succeed even when class bodies are garbage.
	dir := t.TempDir()
	path := javabin.RawJar(t, dir, "dep.jar", map[string][]byte{
		"com/dep/Broken.class": {0xCA, 0xFE},
	})

	la, err := archive.New().ListClasses(domain.ArchiveRef{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.dep.Broken"}, la.ClassNames)
}
