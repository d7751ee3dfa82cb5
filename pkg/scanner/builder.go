package scanner

import (
	"classscan/pkg/classpath"
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"go.opentelemetry.io/otel/metric"
)

// Builder assembles a ClasspathScanner fluently:
//
//	s, err := scanner.NewBuilder().
//		WithClasspath(cp).
//		AddExcludeFilter(`^.*OtherServiceImpl$`).
//		Build()
type Builder struct {
	opts      Options
	includes  []string
	excludes  []string
	noDefault bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithClasspath takes the resolver, loader and filesystem from p.
func (b *Builder) WithClasspath(p *classpath.Path) *Builder {
	mp := b.opts.MeterProvider
	b.opts = NewOptions(p)
	b.opts.MeterProvider = mp

	return b
}

// WithResolver sets the resolver.
func (b *Builder) WithResolver(r Resolver) *Builder {
	b.opts.Resolver = r

	return b
}

// WithLoader sets the type loader used by ScanAndLoad.
func (b *Builder) WithLoader(l TypeLoader) *Builder {
	b.opts.Loader = l

	return b
}

// WithFilesystem sets the filesystem resolved locations are read from.
func (b *Builder) WithFilesystem(fs billy.Filesystem) *Builder {
	b.opts.FS = fs

	return b
}

// WithMeterProvider sets the provider scanner metrics are recorded on.
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.opts.MeterProvider = mp

	return b
}

// AddIncludeFilter queues an include rule.
func (b *Builder) AddIncludeFilter(expr string) *Builder {
	b.includes = append(b.includes, expr)

	return b
}

// AddExcludeFilter queues an exclude rule.
func (b *Builder) AddExcludeFilter(expr string) *Builder {
	b.excludes = append(b.excludes, expr)

	return b
}

// WithoutDefaultFilter drops the default include rule before queued rules
// are added.
func (b *Builder) WithoutDefaultFilter() *Builder {
	b.noDefault = true

	return b
}

// Build creates the scanner. Every invalid queued rule is reported.
func (b *Builder) Build() (*ClasspathScanner, error) {
	s, err := New(b.opts)
	if err != nil {
		return nil, err
	}
	if b.noDefault {
		s.ResetFilter(false)
	}

	var errs []error
	for _, expr := range b.includes {
		if err := s.AddIncludeFilter(expr); err != nil {
			errs = append(errs, err)
		}
	}
	for _, expr := range b.excludes {
		if err := s.AddExcludeFilter(expr); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("could not build scanner: %w", errors.Join(errs...))
	}

	return s, nil
}
