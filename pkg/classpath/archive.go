package classpath

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"
)

// Archive is an open jar whose entry index has been read. It holds the
// underlying file open until Close is called.
type Archive struct {
	*zip.Reader

	file billy.File
}

// OpenArchive opens the jar at path on fs and reads its entry index.
// The caller owns the returned Archive and must Close it.
func OpenArchive(fs billy.Filesystem, path string) (*Archive, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat archive %q", path)
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open archive %q", path)
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()

		return nil, errors.Wrapf(err, "read archive index %q", path)
	}

	return &Archive{Reader: r, file: f}, nil
}

// Find returns the entry with exactly the given name, or nil.
func (a *Archive) Find(name string) *zip.File {
	for _, f := range a.File {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// HasPrefix reports whether any entry lives under the directory dir
// (given in slash form, without a trailing slash).
func (a *Archive) HasPrefix(dir string) bool {
	prefix := dir + "/"
	for _, f := range a.File {
		if f.Name == dir || strings.HasPrefix(f.Name, prefix) {
			return true
		}
	}

	return false
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	if err := a.file.Close(); err != nil {
		return errors.Wrap(err, "close archive")
	}

	return nil
}
