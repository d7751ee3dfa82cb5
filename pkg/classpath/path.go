// Package classpath resolves namespaces and class names against an ordered
// list of directories and jar archives, and converts between dotted names,
// slash-form entry paths and resource locators.
package classpath

import (
	"classscan/pkg/logger"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"
)

// Path is an ordered classpath. Entries are absolute paths of directories or
// jar archives on fs; the first entry containing a resource wins.
type Path struct {
	fs      billy.Filesystem
	entries []string
}

// New creates a classpath of entries on fs. Entries are used as given.
func New(fs billy.Filesystem, entries ...string) *Path {
	return &Path{fs: fs, entries: entries}
}

// NewOS creates a classpath on the host filesystem. Relative entries are made
// absolute against the working directory.
func NewOS(entries ...string) (*Path, error) {
	abs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == "" {
			continue
		}
		a, err := filepath.Abs(e)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve classpath entry %q", e)
		}
		abs = append(abs, filepath.ToSlash(a))
	}

	return New(HostFS(), abs...), nil
}

// HostFS returns a filesystem that accepts absolute host paths.
//
//nolint:ireturn // billy.Filesystem is an interface; signature is dictated by upstream.
func HostFS() billy.Filesystem {
	return osfs.New("/")
}

// Split splits a classpath string on the host list separator (':' or ';').
func Split(s string) []string {
	var out []string
	for _, e := range strings.Split(s, string(os.PathListSeparator)) {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}

	return out
}

// Entries returns the classpath entries in lookup order.
func (p *Path) Entries() []string {
	return append([]string(nil), p.entries...)
}

// Filesystem returns the filesystem entries live on.
//
//nolint:ireturn // billy.Filesystem is an interface; signature is dictated by upstream.
func (p *Path) Filesystem() billy.Filesystem {
	return p.fs
}

// Resource looks up rel (slash form, e.g. "com/example") and returns the
// resource locator of the first entry that contains it. Unreadable entries
// are skipped.
func (p *Path) Resource(ctx context.Context, rel string) (string, bool, error) {
	rel = strings.Trim(rel, "/")
	for _, entry := range p.entries {
		if IsArchive(entry) {
			found, err := p.archiveHas(entry, rel)
			if err != nil {
				logger.Debug(ctx, "skipping unreadable classpath archive",
					zap.String("entry", entry), zap.Error(err))

				continue
			}
			if found {
				return ArchiveLocator(entry, rel), true, nil
			}

			continue
		}

		candidate := path.Join(entry, rel)
		if _, err := p.fs.Stat(candidate); err == nil {
			return DirLocator(candidate), true, nil
		}
	}

	return "", false, nil
}

func (p *Path) archiveHas(jar, rel string) (bool, error) {
	a, err := OpenArchive(p.fs, jar)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = a.Close()
	}()

	return a.Find(rel) != nil || a.HasPrefix(rel), nil
}
