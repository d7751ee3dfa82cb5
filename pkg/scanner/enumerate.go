package scanner

import (
	"classscan/pkg/classpath"
	"classscan/pkg/logger"
	"classscan/pkg/serrors"
	"context"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
)

// enumerator lists the class artifacts under a resolved root location.
type enumerator struct {
	fs billy.Filesystem
}

// maxLinkHops bounds the symbolic links followed while resolving one path.
const maxLinkHops = 255

// dirFrame is a directory still to be listed: its symlink-free path on the
// filesystem, the namespace-relative path it corresponds to and the link
// targets followed to reach it.
type dirFrame struct {
	dir     string
	rel     string
	targets []string
}

// directory recursively lists root, whose namespace-relative path is rel,
// and returns "rel/.../Name.class" for every class artifact found. Listing
// order is whatever the filesystem returns. Directories that cannot be listed
// contribute nothing.
//
// Symbolic links are followed. A link whose target contains a directory
// already on the way down is a loop and is not descended into.
func (e enumerator) directory(ctx context.Context, root, rel string) []string {
	var entries []string

	if resolved, err := e.realPath(root); err == nil {
		root = resolved
	}

	stack := []dirFrame{{dir: root, rel: rel, targets: []string{root}}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		infos, err := e.fs.ReadDir(cur.dir)
		if err != nil {
			logger.Debug(ctx, "could not list directory", zap.String("dir", cur.dir), zap.Error(err))

			continue
		}

		for _, info := range infos {
			name := info.Name()
			entryRel := cur.rel + "/" + name
			switch {
			case info.Mode()&os.ModeSymlink != 0:
				frame, isDir, ok := e.follow(ctx, cur, path.Join(cur.dir, name), entryRel)
				if ok && isDir {
					stack = append(stack, frame)
				} else if ok && classpath.IsClassFile(name) {
					entries = append(entries, entryRel)
				}
			case info.IsDir():
				stack = append(stack, dirFrame{dir: path.Join(cur.dir, name), rel: entryRel, targets: cur.targets})
			case classpath.IsClassFile(name):
				entries = append(entries, entryRel)
			}
		}
	}

	return entries
}

// follow resolves the link at link. ok is false for dangling links and for
// links that would loop back into the walk.
func (e enumerator) follow(ctx context.Context, cur dirFrame, link, rel string) (dirFrame, bool, bool) {
	target, err := e.realPath(link)
	if err != nil {
		logger.Debug(ctx, "could not resolve link", zap.String("link", link), zap.Error(err))

		return dirFrame{}, false, false
	}

	info, err := e.fs.Stat(target)
	if err != nil {
		logger.Debug(ctx, "skipping dangling link", zap.String("link", link), zap.Error(err))

		return dirFrame{}, false, false
	}
	if !info.IsDir() {
		return dirFrame{}, false, true
	}

	if within(cur.dir, target) || slices.ContainsFunc(cur.targets, func(t string) bool { return within(t, target) }) {
		logger.Debug(ctx, "skipping link loop", zap.String("link", link), zap.String("target", target))

		return dirFrame{}, false, false
	}

	return dirFrame{
		dir:     target,
		rel:     rel,
		targets: append(slices.Clip(cur.targets), target),
	}, true, true
}

// realPath resolves every symbolic link in the absolute slash-form path p.
func (e enumerator) realPath(p string) (string, error) {
	pending := strings.Split(strings.Trim(path.Clean(p), "/"), "/")
	resolved := "/"

	for hops := 0; len(pending) > 0; {
		part := pending[0]
		pending = pending[1:]

		switch part {
		case "", ".":
			continue
		case "..":
			resolved = path.Dir(resolved)

			continue
		}

		next := path.Join(resolved, part)
		info, err := e.fs.Lstat(next)
		if err != nil {
			return "", fmt.Errorf("could not stat %q: %w", next, err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			resolved = next

			continue
		}

		if hops++; hops > maxLinkHops {
			return "", fmt.Errorf("too many links resolving %q", p)
		}
		target, err := e.fs.Readlink(next)
		if err != nil {
			return "", fmt.Errorf("could not read link %q: %w", next, err)
		}
		if path.IsAbs(target) {
			resolved = "/"
		}
		pending = append(strings.Split(target, "/"), pending...)
	}

	return resolved, nil
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	return p == dir || dir == "/" || strings.HasPrefix(p, dir+"/")
}

// archive reads the entry index of the jar at jarPath and returns every class
// entry under rel, verbatim. The archive is closed before returning.
func (e enumerator) archive(jarPath, rel string) ([]string, error) {
	a, err := classpath.OpenArchive(e.fs, jarPath)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrEnumeration, err, "could not read archive")
	}
	defer func() {
		_ = a.Close()
	}()

	prefix := rel + "/"

	var entries []string
	for _, f := range a.File {
		if strings.HasPrefix(f.Name, prefix) && classpath.IsClassFile(f.Name) {
			entries = append(entries, f.Name)
		}
	}

	return entries, nil
}
