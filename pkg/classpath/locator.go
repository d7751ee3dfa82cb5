package classpath

import (
	"classscan/pkg/serrors"
	"net/url"
	"strings"
)

const (
	fileScheme     = "file:"
	archiveScheme  = "jar:"
	innerSeparator = "!"
)

// DirLocator builds the resource locator of a directory: "file:<escaped path>".
func DirLocator(absPath string) string {
	return fileScheme + escapePath(absPath)
}

// ArchiveLocator builds the resource locator of rel inside the archive at
// absPath: "jar:file:<escaped path>!/<rel>".
func ArchiveLocator(absPath, rel string) string {
	return archiveScheme + fileScheme + escapePath(absPath) + innerSeparator + "/" + rel
}

// RootLocation decodes a resource locator into the filesystem path it refers
// to. It accepts the two canonical forms:
//
//	file:/home/whf/cn/fh                -> /home/whf/cn/fh
//	jar:file:/home/whf/foo.jar!/cn/fh   -> /home/whf/foo.jar
//
// Percent-escapes are decoded; a malformed escape fails with serrors.ErrDecode.
// The second return value reports whether the path names an archive.
func RootLocation(locator string) (string, bool, error) {
	raw := strings.TrimPrefix(locator, archiveScheme)
	if !strings.HasPrefix(raw, fileScheme) {
		return "", false, serrors.With(serrors.ErrDecode, "unsupported resource locator %q", locator)
	}
	raw = strings.TrimPrefix(raw, fileScheme)

	// file:///abs carries an empty authority
	if strings.HasPrefix(raw, "///") {
		raw = raw[2:]
	}

	// the inner path is cut before decoding so an escaped '!' stays part of the path
	if i := strings.Index(raw, innerSeparator); i >= 0 {
		raw = raw[:i]
	}

	path, err := url.PathUnescape(raw)
	if err != nil {
		return "", false, serrors.Wrap(serrors.ErrDecode, err, "could not decode resource locator %q", locator)
	}

	return path, IsArchive(path), nil
}

func escapePath(p string) string {
	escaped := (&url.URL{Path: p}).EscapedPath()

	return strings.ReplaceAll(escaped, innerSeparator, "%21")
}
