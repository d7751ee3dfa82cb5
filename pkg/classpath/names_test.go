package classpath_test

import (
	"classscan/pkg/classpath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameCodec(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) string
		in   string
		out  string
	}{
		{"dots to separators", classpath.DotsToSeparators, "cn.fh.lightning", "cn/fh/lightning"},
		{"dots to separators without dots", classpath.DotsToSeparators, "single", "single"},
		{"separators to dots", classpath.SeparatorsToDots, "cn/fh/lightning", "cn.fh.lightning"},
		{"trim suffix", classpath.TrimArtifactSuffix, "Apple.class", "Apple"},
		{"trim only last suffix", classpath.TrimArtifactSuffix, "a/b/Apple.class", "a/b/Apple"},
		{"trim without dot", classpath.TrimArtifactSuffix, "Apple", "Apple"},
		{"entry to name", classpath.EntryToName, "com/example/inner/Baz.class", "com.example.inner.Baz"},
		{"name to entry", classpath.NameToEntry, "com.example.Foo", "com/example/Foo.class"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, tc.fn(tc.in))
		})
	}
}

func TestNamespaceRoundTrip(t *testing.T) {
	for _, ns := range []string{"a", "a.b.c", "org.apache.log4j", "com.example2.v1"} {
		require.Equal(t, ns, classpath.SeparatorsToDots(classpath.DotsToSeparators(ns)))
	}
}

func TestClassification(t *testing.T) {
	require.True(t, classpath.IsClassFile("Foo.class"))
	require.False(t, classpath.IsClassFile("Foo.java"))
	require.False(t, classpath.IsClassFile("Foo.classx"))

	require.True(t, classpath.IsArchive("/opt/lib/log4j.jar"))
	require.False(t, classpath.IsArchive("/opt/lib/log4j"))
	require.False(t, classpath.IsArchive("/opt/lib/log4j.jar.bak"))
}
