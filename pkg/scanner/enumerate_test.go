package scanner_test

import (
	"classscan/internal/classtest"
	"classscan/pkg/classpath"
	"classscan/pkg/scanner"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestScan_FollowsSymlinks(t *testing.T) {
	fs := classtest.NewFS()
	classtest.WriteTree(t, fs, "/cp", map[string][]byte{
		"com/example/Foo.class":  nil,
		"shared/S.class":         nil,
		"shared/deep/D.class":    nil,
		"other/Aliased.class":    nil,
		"other/notes/README.txt": []byte("not a class"),
	})
	require.NoError(t, fs.Symlink("../../shared", "/cp/com/example/linked"))
	require.NoError(t, fs.Symlink("/cp/other/Aliased.class", "/cp/com/example/Alias.class"))
	require.NoError(t, fs.Symlink("/cp/nowhere", "/cp/com/example/dangling"))
	// both loop back into the walk
	require.NoError(t, fs.Symlink("..", "/cp/shared/up"))
	require.NoError(t, fs.Symlink("/cp/com/example", "/cp/shared/deep/home"))

	resolver, _, s := newTestScanner(t, fs)
	resolver.EXPECT().Resource(gomock.Any(), "com/example").Return("file:/cp/com/example", true, nil)

	names, err := s.Scan(context.Background(), "com.example")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		"com.example.Foo",
		"com.example.Alias",
		"com.example.linked.S",
		"com.example.linked.deep.D",
	}, names)
}

func TestScan_SameTargetUnderTwoLinks(t *testing.T) {
	fs := classtest.NewFS()
	classtest.WriteTree(t, fs, "/cp", map[string][]byte{
		"app/Main.class":  nil,
		"shared/S.class": nil,
	})
	require.NoError(t, fs.Symlink("/cp/shared", "/cp/app/one"))
	require.NoError(t, fs.Symlink("/cp/shared", "/cp/app/two"))

	resolver, _, s := newTestScanner(t, fs)
	resolver.EXPECT().Resource(gomock.Any(), "app").Return("file:/cp/app", true, nil)

	names, err := s.Scan(context.Background(), "app")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"app.Main", "app.one.S", "app.two.S"}, names)
}

func TestScan_FollowsHostSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated rights on windows")
	}

	dir := t.TempDir()
	classtest.WriteTree(t, osfs.New(dir), "cp", map[string][]byte{
		"com/example/Foo.class": nil,
		"shared/S.class":        nil,
	})
	cp := filepath.Join(dir, "cp")
	require.NoError(t, os.Symlink(filepath.Join("..", "..", "shared"), filepath.Join(cp, "com", "example", "linked")))
	require.NoError(t, os.Symlink("..", filepath.Join(cp, "shared", "up")))

	p, err := classpath.NewOS(cp)
	require.NoError(t, err)
	s, err := scanner.New(scanner.NewOptions(p))
	require.NoError(t, err)

	names, err := s.Scan(context.Background(), "com.example")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"com.example.Foo", "com.example.linked.S"}, names)
}
