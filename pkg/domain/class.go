package domain

import (
	"fmt"
	"strings"
)

// QualifiedName is the dotted, fully qualified name of a discovered class,
// e.g. "com.example.service.Foo".
type QualifiedName = string

// TypeHandle describes a class that was resolved from its qualified name.
type TypeHandle struct {
	// Name is the fully qualified name the handle was loaded for.
	Name QualifiedName `json:"name"`
	// Location is the resource locator of the class artifact
	// ("file:..." or "jar:file:...!/...").
	Location string `json:"location"`
	// MajorVersion and MinorVersion come from the class-file header.
	MajorVersion uint16 `json:"majorVersion"`
	MinorVersion uint16 `json:"minorVersion"`
}

// Package returns the namespace the type belongs to, or "" for the default namespace.
func (h TypeHandle) Package() string {
	if i := strings.LastIndexByte(h.Name, '.'); i >= 0 {
		return h.Name[:i]
	}

	return ""
}

// SimpleName returns the name without its namespace.
func (h TypeHandle) SimpleName() string {
	return h.Name[strings.LastIndexByte(h.Name, '.')+1:]
}

// Release maps the class-file major version to the platform release that
// introduced it (45 -> "1.1", 49 -> "5", 52 -> "8", 61 -> "17"). Unknown versions
// are reported as "unknown".
func (h TypeHandle) Release() string {
	switch {
	case h.MajorVersion >= 49:
		return fmt.Sprintf("%d", h.MajorVersion-44)
	case h.MajorVersion >= 45:
		return fmt.Sprintf("1.%d", h.MajorVersion-44)
	default:
		return "unknown"
	}
}
