package scanner

import (
	"classscan/pkg/metrics"
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "classscan/pkg/scanner"

// namespace scan outcomes
const (
	outcomeOK      = "ok"
	outcomeMiss    = "miss"
	outcomeSkipped = "skipped"
	outcomeError   = "error"
)

// storage forms of a resolved namespace
const (
	storageDirectory = "directory"
	storageArchive   = "archive"
)

type instruments struct {
	namespaces   metric.Int64Counter
	entries      metric.Int64Counter
	classes      metric.Int64Counter
	loadFailures metric.Int64Counter
	duration     metric.Float64Histogram
}

func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	m := mp.Meter(meterName)

	var (
		ins instruments
		err error
	)
	if ins.namespaces, err = m.Int64Counter("scanner.namespaces",
		metric.WithDescription("Namespaces processed, by outcome."),
		metric.WithUnit("{namespace}")); err != nil {
		return nil, fmt.Errorf("could not create namespaces counter: %w", err)
	}
	if ins.entries, err = m.Int64Counter("scanner.entries",
		metric.WithDescription("Class artifacts enumerated, by storage form."),
		metric.WithUnit("{entry}")); err != nil {
		return nil, fmt.Errorf("could not create entries counter: %w", err)
	}
	if ins.classes, err = m.Int64Counter("scanner.classes",
		metric.WithDescription("Qualified names evaluated by the filter chain, by acceptance."),
		metric.WithUnit("{class}")); err != nil {
		return nil, fmt.Errorf("could not create classes counter: %w", err)
	}
	if ins.loadFailures, err = m.Int64Counter("scanner.load.failures",
		metric.WithDescription("Names skipped because they could not be loaded."),
		metric.WithUnit("{class}")); err != nil {
		return nil, fmt.Errorf("could not create load failures counter: %w", err)
	}
	if ins.duration, err = m.Float64Histogram("scanner.scan.duration",
		metric.WithDescription("Time spent scanning a single namespace."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	return &ins, nil
}

func (ins *instruments) namespaceDone(ctx context.Context, outcome string, start time.Time) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	ins.namespaces.Add(ctx, 1, attrs)
	ins.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}

func (ins *instruments) enumerated(ctx context.Context, storage string, n int) {
	ins.entries.Add(ctx, int64(n), metric.WithAttributes(attribute.String("storage", storage)))
}

func (ins *instruments) filtered(ctx context.Context, accepted, rejected int) {
	ins.classes.Add(ctx, int64(accepted), metric.WithAttributes(attribute.Bool("accepted", true)))
	ins.classes.Add(ctx, int64(rejected), metric.WithAttributes(attribute.Bool("accepted", false)))
}
