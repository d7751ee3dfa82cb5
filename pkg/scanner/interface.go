package scanner

import (
	"classscan/pkg/domain"
	"context"
)

// Scanner finds the classes reachable under one or more namespaces.
//
//go:generate mockgen -package mockscanner -source=interface.go -destination=mock/mockscanner.go *
type Scanner interface {
	// Scan returns the qualified names of every accepted class under the
	// given namespaces and their sub-namespaces.
	Scan(ctx context.Context, namespaces ...string) ([]domain.QualifiedName, error)
	// ScanAndLoad scans and resolves every accepted name to a type handle.
	// Names that cannot be loaded are logged and skipped.
	ScanAndLoad(ctx context.Context, namespaces ...string) ([]domain.TypeHandle, error)
}

// Resolver maps a slash-form, namespace-relative path ("com/example") to at
// most one resource locator ("file:/..." or "jar:file:/...!/...").
type Resolver interface {
	Resource(ctx context.Context, rel string) (locator string, found bool, err error)
}

// TypeLoader resolves a qualified name to a loaded type handle. Implementations
// fail with serrors.ErrNotFound when the name cannot be resolved.
type TypeLoader interface {
	Load(ctx context.Context, name domain.QualifiedName) (domain.TypeHandle, error)
}
