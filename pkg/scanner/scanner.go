// Package scanner finds the compiled classes reachable under a namespace,
// whether the namespace lives in a directory tree or inside a jar archive,
// and filters their qualified names through an include/exclude chain.
package scanner

import (
	"classscan/pkg/classpath"
	"classscan/pkg/domain"
	"classscan/pkg/logger"
	"classscan/pkg/serrors"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Options configure a ClasspathScanner.
type Options struct {
	// Resolver maps namespaces to resource locators. Required.
	Resolver Resolver
	// Loader resolves names to type handles in ScanAndLoad. Optional; without
	// it ScanAndLoad fails with serrors.ErrBadRequest.
	Loader TypeLoader
	// FS is the filesystem the decoded locators point into. Defaults to the
	// host filesystem.
	FS billy.Filesystem
	// MeterProvider receives the scanner metrics. Defaults to the global
	// OpenTelemetry provider.
	MeterProvider metric.MeterProvider
}

// NewOptions builds Options whose resolver, loader and filesystem all come
// from the classpath p.
func NewOptions(p *classpath.Path) Options {
	return Options{
		Resolver: p,
		Loader:   classpath.NewLoader(p),
		FS:       p.Filesystem(),
	}
}

// ClasspathScanner is the Scanner implementation. It owns its filter chain;
// the resolver and loader are shared and outlive it.
//
// A ClasspathScanner performs all work synchronously on the calling goroutine
// and takes no locks: mutating its filters while a scan is running on the same
// instance is a caller error and needs external synchronization.
type ClasspathScanner struct {
	resolver   Resolver
	loader     TypeLoader
	enumerator enumerator
	filter     *FilterChain
	metrics    *instruments
}

var _ Scanner = (*ClasspathScanner)(nil)

// New creates a scanner with the default include filter registered.
func New(opts Options) (*ClasspathScanner, error) {
	if opts.Resolver == nil {
		return nil, serrors.With(serrors.ErrBadRequest, "scanner requires a resolver")
	}
	if opts.FS == nil {
		opts.FS = classpath.HostFS()
	}
	if opts.MeterProvider == nil {
		opts.MeterProvider = otel.GetMeterProvider()
	}

	ins, err := newInstruments(opts.MeterProvider)
	if err != nil {
		return nil, fmt.Errorf("could not create scanner metrics: %w", err)
	}

	return &ClasspathScanner{
		resolver:   opts.Resolver,
		loader:     opts.Loader,
		enumerator: enumerator{fs: opts.FS},
		filter:     NewFilterChain(),
		metrics:    ins,
	}, nil
}

// AddIncludeFilter appends a regular expression names must fully match to be
// accepted. An invalid expression fails with serrors.ErrInvalidPattern.
func (s *ClasspathScanner) AddIncludeFilter(expr string) error {
	return s.filter.AddInclude(expr)
}

// AddExcludeFilter appends a regular expression that rejects every name it
// fully matches. An invalid expression fails with serrors.ErrInvalidPattern.
func (s *ClasspathScanner) AddExcludeFilter(expr string) error {
	return s.filter.AddExclude(expr)
}

// ResetFilter drops every filter rule. With useDefault the default include
// rule is registered again; without it every name that is not excluded is
// accepted.
func (s *ClasspathScanner) ResetFilter(useDefault bool) {
	s.filter.Reset(useDefault)
}

// Filter returns the scanner's filter chain.
func (s *ClasspathScanner) Filter() *FilterChain {
	return s.filter
}

// Scan returns the accepted qualified names under each namespace, in argument
// order and then in enumeration order within a namespace. Empty namespaces are
// skipped. Each namespace is scanned independently: a failing namespace
// contributes nothing, the others still contribute, and the failures are
// returned joined together with the names that were found.
func (s *ClasspathScanner) Scan(ctx context.Context, namespaces ...string) ([]domain.QualifiedName, error) {
	names := make([]domain.QualifiedName, 0)
	if len(namespaces) == 0 {
		logger.Debug(ctx, "no namespaces to scan")

		return names, nil
	}

	var errs []error
	for _, ns := range namespaces {
		found, err := s.scanNamespace(ctx, ns)
		if err != nil {
			logger.Error(ctx, "could not scan namespace", zap.String("namespace", ns), zap.Error(err))
			errs = append(errs, fmt.Errorf("could not scan namespace %q: %w", ns, err))

			continue
		}
		names = append(names, found...)
	}

	return names, errors.Join(errs...)
}

// ScanAndLoad scans the namespaces and loads every accepted name through the
// configured TypeLoader. A name that fails to load is logged and skipped.
// Errors from Scan are returned together with the handles that were loaded.
func (s *ClasspathScanner) ScanAndLoad(ctx context.Context, namespaces ...string) ([]domain.TypeHandle, error) {
	if s.loader == nil {
		return nil, serrors.With(serrors.ErrBadRequest, "scanner has no type loader")
	}

	names, scanErr := s.Scan(ctx, namespaces...)

	handles := make([]domain.TypeHandle, 0, len(names))
	for _, name := range names {
		h, err := s.loader.Load(ctx, name)
		if err != nil {
			logger.Warn(ctx, "could not load type", zap.String("name", name), zap.Error(err))
			s.metrics.loadFailures.Add(ctx, 1)

			continue
		}
		handles = append(handles, h)
	}

	return handles, scanErr
}

func (s *ClasspathScanner) scanNamespace(ctx context.Context, ns string) ([]domain.QualifiedName, error) {
	start := time.Now()
	if ns == "" {
		logger.Debug(ctx, "skipping empty namespace")
		s.metrics.namespaceDone(ctx, outcomeSkipped, start)

		return nil, nil
	}

	ctx = logger.WithFields(ctx, zap.String("namespace", ns))
	logger.Debug(ctx, "begin scan namespace")

	rel := classpath.DotsToSeparators(ns)
	locator, found, err := s.resolver.Resource(ctx, rel)
	if err != nil {
		s.metrics.namespaceDone(ctx, outcomeError, start)

		return nil, fmt.Errorf("could not resolve namespace: %w", err)
	}
	if !found {
		logger.Debug(ctx, "namespace not found on classpath")
		s.metrics.namespaceDone(ctx, outcomeMiss, start)

		return nil, nil
	}

	root, isArchive, err := classpath.RootLocation(locator)
	if err != nil {
		s.metrics.namespaceDone(ctx, outcomeError, start)

		return nil, err
	}

	var entries []string
	if isArchive {
		entries, err = s.enumerator.archive(root, rel)
		if err != nil {
			s.metrics.namespaceDone(ctx, outcomeError, start)

			return nil, err
		}
		s.metrics.enumerated(ctx, storageArchive, len(entries))
	} else {
		entries = s.enumerator.directory(ctx, root, rel)
		s.metrics.enumerated(ctx, storageDirectory, len(entries))
	}

	names := make([]domain.QualifiedName, 0, len(entries))
	for _, entry := range entries {
		name := classpath.EntryToName(entry)
		if s.filter.Match(name) {
			names = append(names, name)
		}
	}
	s.metrics.filtered(ctx, len(names), len(entries)-len(names))
	s.metrics.namespaceDone(ctx, outcomeOK, start)

	logger.Debug(ctx, "end scan namespace",
		zap.String("root", root), zap.Int("entries", len(entries)), zap.Int("accepted", len(names)))

	return names, nil
}
