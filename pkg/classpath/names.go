package classpath

import "strings"

const (
	// ClassSuffix marks an entry as a compiled-class artifact.
	ClassSuffix = ".class"
	// ArchiveSuffix marks a resolved root location as a packed archive.
	ArchiveSuffix = ".jar"
)

// DotsToSeparators converts a dotted namespace into slash form: "a.b.c" -> "a/b/c".
func DotsToSeparators(s string) string {
	return strings.ReplaceAll(s, ".", "/")
}

// SeparatorsToDots converts a slash-form path into dotted form: "a/b/C" -> "a.b.C".
func SeparatorsToDots(s string) string {
	return strings.ReplaceAll(s, "/", ".")
}

// TrimArtifactSuffix removes everything from the last '.' onward:
// "Apple.class" -> "Apple". Input without a '.' is returned unchanged.
func TrimArtifactSuffix(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[:i]
	}

	return s
}

// IsClassFile reports whether name carries the compiled-class suffix.
func IsClassFile(name string) bool {
	return strings.HasSuffix(name, ClassSuffix)
}

// IsArchive reports whether path names a packed archive. Classification is by
// suffix only; a misnamed file is misclassified.
func IsArchive(path string) bool {
	return strings.HasSuffix(path, ArchiveSuffix)
}

// EntryToName converts a namespace-relative entry path ("a/b/X.class") into
// its qualified name ("a.b.X").
func EntryToName(entry string) string {
	return SeparatorsToDots(TrimArtifactSuffix(entry))
}

// NameToEntry converts a qualified name ("a.b.X") into the entry path of its
// class artifact ("a/b/X.class").
func NameToEntry(name string) string {
	return DotsToSeparators(name) + ClassSuffix
}
