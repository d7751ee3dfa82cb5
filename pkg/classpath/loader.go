package classpath

import (
	"classscan/pkg/domain"
	"classscan/pkg/logger"
	"classscan/pkg/serrors"
	"context"
	"os"
	"path"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Loader resolves qualified names to type handles by locating the class
// artifact on a classpath and reading its header.
type Loader struct {
	path *Path
}

// NewLoader creates a Loader backed by p.
func NewLoader(p *Path) *Loader {
	return &Loader{path: p}
}

// Load finds the class artifact for name. It fails with serrors.ErrNotFound
// when no entry holds the artifact and with serrors.ErrInvalidClass when the
// artifact is not a compiled class.
func (l *Loader) Load(ctx context.Context, name domain.QualifiedName) (domain.TypeHandle, error) {
	entry := NameToEntry(name)
	for _, root := range l.path.entries {
		var (
			h        domain.TypeHandle
			found    bool
			err      error
			location string
		)
		if IsArchive(root) {
			location = ArchiveLocator(root, entry)
			h, found, err = l.loadFromArchive(ctx, root, entry)
		} else {
			file := path.Join(root, entry)
			location = DirLocator(file)
			h, found, err = l.loadFromFile(file)
		}
		if err != nil {
			return domain.TypeHandle{}, errors.Wrapf(err, "load %s", name)
		}
		if found {
			h.Name = name
			h.Location = location

			return h, nil
		}
	}

	return domain.TypeHandle{}, serrors.With(serrors.ErrNotFound, "class %s not found on classpath", name)
}

func (l *Loader) loadFromFile(file string) (domain.TypeHandle, bool, error) {
	f, err := l.path.fs.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.TypeHandle{}, false, nil
		}

		return domain.TypeHandle{}, false, errors.Wrapf(err, "open %q", file)
	}
	defer func() {
		_ = f.Close()
	}()

	hdr, err := readHeader(f)
	if err != nil {
		return domain.TypeHandle{}, false, err
	}

	return domain.TypeHandle{MajorVersion: hdr.Major, MinorVersion: hdr.Minor}, true, nil
}

func (l *Loader) loadFromArchive(ctx context.Context, jar, entry string) (domain.TypeHandle, bool, error) {
	a, err := OpenArchive(l.path.fs, jar)
	if err != nil {
		logger.Debug(ctx, "skipping unreadable classpath archive", zap.String("entry", jar), zap.Error(err))

		return domain.TypeHandle{}, false, nil
	}
	defer func() {
		_ = a.Close()
	}()

	zf := a.Find(entry)
	if zf == nil {
		return domain.TypeHandle{}, false, nil
	}

	rc, err := zf.Open()
	if err != nil {
		return domain.TypeHandle{}, false, errors.Wrapf(err, "open entry %q", entry)
	}
	defer func() {
		_ = rc.Close()
	}()

	hdr, err := readHeader(rc)
	if err != nil {
		return domain.TypeHandle{}, false, err
	}

	return domain.TypeHandle{MajorVersion: hdr.Major, MinorVersion: hdr.Minor}, true, nil
}
