package classfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miivari/jaraudit/internal/domain/classfile"
	"github.com/miivari/jaraudit/internal/testutil/javabin"
)

func TestParse_ClassIdentity(t *testing.T) {
	data := javabin.Class(javabin.ClassSpec{Name: "com.acme.App"})
	cls, err := classfile.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "com.acme.App", cls.Name)
	assert.Equal(t, "java.lang.Object", cls.SuperClass)
}

func TestParse_MethodBodyReferences(t *testing.T) {
	data := javabin.Class(javabin.ClassSpec{
		Name: "com.acme.App",
		Methods: []javabin.MethodSpec{{
			Name:    "run",
			Invokes: []javabin.Call{{Class: "java.lang.Runtime", Member: "getRuntime"}},
			Reads:   []javabin.Call{{Class: "java.lang.System", Member: "out"}},
			News:    []string{"java.util.ArrayList"},
		}},
	})
	cls, err := classfile.Parse(data)
	require.NoError(t, err)
	require.Len(t, cls.Methods, 1)

	m := cls.Methods[0]
	assert.Equal(t, "run", m.Name)
	assert.Equal(t, "()V", m.Descriptor)
	assert.Contains(t, m.Refs, classfile.Reference{Class: "java.lang.Runtime", Member: "getRuntime"})
	assert.Contains(t, m.Refs, classfile.Reference{Class: "java.lang.System", Member: "out"})
	assert.Contains(t, m.Refs, classfile.Reference{Class: "java.util.ArrayList"})
}

func TestParse_MultipleMethodsKeepTheirOwnRefs(t *testing.T) {
	data := javabin.Class(javabin.ClassSpec{
		Name: "com.acme.App",
		Methods: []javabin.MethodSpec{
			{Name: "a", Invokes: []javabin.Call{{Class: "com.acme.Alpha", Member: "go"}}},
			{Name: "b", Invokes: []javabin.Call{{Class: "com.acme.Beta", Member: "go"}}},
		},
	})
	cls, err := classfile.Parse(data)
	require.NoError(t, err)
	require.Len(t, cls.Methods, 2)
	assert.Equal(t, []classfile.Reference{{Class: "com.acme.Alpha", Member: "go"}}, cls.Methods[0].Refs)
	assert.Equal(t, []classfile.Reference{{Class: "com.acme.Beta", Member: "go"}}, cls.Methods[1].Refs)
}

func TestParse_RejectsBadMagic(t *testing.T) {
	data := javabin.Class(javabin.ClassSpec{Name: "com.acme.App"})
	data[0] = 0x00
	_, err := classfile.Parse(data)
	assert.Error(t, err)
}

func TestParse_RejectsTruncatedInput(t *testing.T) {
	data := javabin.Class(javabin.ClassSpec{
		Name:    "com.acme.App",
		Methods: []javabin.MethodSpec{{Name: "run"}},
	})
	for _, cut := range []int{0, 4, 10, len(data) / 2} {
		_, err := classfile.Parse(data[:cut])
		assert.Error(t, err, "prefix of %d bytes", cut)
	}
}
