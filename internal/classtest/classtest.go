// Package classtest builds class trees and jar archives on a billy filesystem
// for tests.
package classtest

import (
	"path"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// DefaultMajor is the class-file major version written when none is given.
const DefaultMajor = 52

// Class returns a minimal class-file body carrying the given major version.
func Class(major uint16) []byte {
	return []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, byte(major >> 8), byte(major)}
}

// NewFS returns an empty in-memory filesystem.
//
//nolint:ireturn // billy.Filesystem is an interface; signature is dictated by upstream.
func NewFS() billy.Filesystem {
	return memfs.New()
}

// WriteTree writes every file of tree under root. Keys are slash-form paths
// relative to root; a nil value writes a class body with DefaultMajor.
func WriteTree(t *testing.T, fs billy.Filesystem, root string, tree map[string][]byte) {
	t.Helper()

	require.NoError(t, fs.MkdirAll(root, 0o755))
	for name, body := range tree {
		if body == nil {
			body = Class(DefaultMajor)
		}
		full := path.Join(root, name)
		require.NoError(t, fs.MkdirAll(path.Dir(full), 0o755))
		require.NoError(t, util.WriteFile(fs, full, body, 0o644))
	}
}

// WriteJar writes a jar at jarPath holding entries in the given order. A nil
// body writes a class body with DefaultMajor; names ending in '/' become
// directory entries.
func WriteJar(t *testing.T, fs billy.Filesystem, jarPath string, entries []Entry) {
	t.Helper()

	require.NoError(t, fs.MkdirAll(path.Dir(jarPath), 0o755))
	f, err := fs.Create(jarPath)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		require.NoError(t, err)
		if e.Name[len(e.Name)-1] == '/' {
			continue
		}
		body := e.Body
		if body == nil {
			body = Class(DefaultMajor)
		}
		_, err = w.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// Entry is a single jar entry.
type Entry struct {
	Name string
	Body []byte
}

// Entries builds class entries with default bodies for the given names.
func Entries(names ...string) []Entry {
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		out = append(out, Entry{Name: n})
	}

	return out
}
