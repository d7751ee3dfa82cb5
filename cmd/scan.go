package main

import (
	"classscan/internal/config"
	"classscan/pkg/classpath"
	"classscan/pkg/logger"
	"classscan/pkg/metrics"
	"classscan/pkg/scanner"
	"classscan/pkg/serrors"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// scanFlags are the flags shared by scan and load. They add to the values
// taken from the configuration.
type scanFlags struct {
	classpath []string
	include   []string
	exclude   []string
	noDefault bool
	format    string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.classpath, "classpath", "p", nil,
		"Classpath entry (directory or jar); repeatable, or a list joined by the path list separator")
	cmd.Flags().StringArrayVarP(&f.include, "include", "i", nil, "Include regular expression; repeatable")
	cmd.Flags().StringArrayVarP(&f.exclude, "exclude", "e", nil, "Exclude regular expression; repeatable")
	cmd.Flags().BoolVar(&f.noDefault, "no-default-filter", false, "Drop the default include rule that accepts every name")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatText, "Output format: text or json")
}

// run builds a scanner from cfg and the flags, hands it to fn and, when
// enabled, writes the scan metrics afterwards.
func (f *scanFlags) run(ctx context.Context, cfg *config.Config, fn func(scanner.Scanner) error) error {
	if f.format != formatText && f.format != formatJSON {
		return serrors.With(serrors.ErrBadRequest, "unknown output format %q", f.format)
	}

	var (
		mp  metric.MeterProvider
		reg *prometheus.Registry
	)
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		provider, err := metrics.NewProvider(reg)
		if err != nil {
			return err
		}
		defer func() {
			if err := provider.Shutdown(ctx); err != nil {
				logger.Warn(ctx, "could not shut down meter provider", zap.Error(err))
			}
		}()
		mp = provider
	}

	s, err := f.build(ctx, cfg, mp)
	if err != nil {
		return err
	}

	runErr := fn(s)

	if reg != nil {
		if err := writeMetrics(reg, cfg.Metrics.Output); err != nil {
			logger.Warn(ctx, "could not write metrics", zap.Error(err))
		}
	}

	return runErr
}

func (f *scanFlags) build(ctx context.Context, cfg *config.Config, mp metric.MeterProvider) (*scanner.ClasspathScanner, error) {
	entries := append([]string(nil), cfg.Classpath...)
	for _, p := range f.classpath {
		entries = append(entries, classpath.Split(p)...)
	}
	if len(entries) == 0 {
		entries = []string{"."}
	}

	cp, err := classpath.NewOS(entries...)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid classpath")
	}
	logger.Debug(ctx, "using classpath", zap.Strings("entries", cp.Entries()))

	b := scanner.NewBuilder().WithClasspath(cp).WithMeterProvider(mp)
	if cfg.Filter.NoDefault || f.noDefault {
		b.WithoutDefaultFilter()
	}
	for _, expr := range append(append([]string(nil), cfg.Filter.Include...), f.include...) {
		b.AddIncludeFilter(expr)
	}
	for _, expr := range append(append([]string(nil), cfg.Filter.Exclude...), f.exclude...) {
		b.AddExcludeFilter(expr)
	}

	return b.Build()
}

func writeMetrics(reg prometheus.Gatherer, output string) error {
	if output == "" || output == "-" {
		return metrics.WriteText(reg, os.Stderr)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("could not create metrics file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return metrics.WriteText(reg, file)
}

// printScan writes whatever names the scan found, even when some namespaces
// failed, and then returns the scan error.
func printScan(ctx context.Context, s scanner.Scanner, w io.Writer, format string, namespaces []string) error {
	names, err := s.Scan(ctx, namespaces...)
	if werr := writeNames(w, format, names); werr != nil {
		return werr
	}

	return err
}

// printLoad is printScan for loaded type handles.
func printLoad(ctx context.Context, s scanner.Scanner, w io.Writer, format string, namespaces []string) error {
	handles, err := s.ScanAndLoad(ctx, namespaces...)
	if werr := writeHandles(w, format, handles); werr != nil {
		return werr
	}

	return err
}

func scanCommand(cfg *config.Config) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [namespace...]",
		Short: "Prints the qualified names of the classes under the given namespaces",
		Example: `  classscan scan -p build/classes com.example
  classscan scan -p lib/log4j.jar --no-default-filter -i '.*(xml).*' -e '.*(DOMConfigurator).*' org.apache.log4j`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.Named(cmd.Context(), cmd.Name())

			return flags.run(ctx, cfg, func(s scanner.Scanner) error {
				return printScan(ctx, s, cmd.OutOrStdout(), flags.format, args)
			})
		},
	}
	flags.register(cmd)

	return cmd
}

func loadCommand(cfg *config.Config) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "load [namespace...]",
		Short: "Scans the given namespaces and loads every class found, printing its class-file details",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.Named(cmd.Context(), cmd.Name())

			return flags.run(ctx, cfg, func(s scanner.Scanner) error {
				return printLoad(ctx, s, cmd.OutOrStdout(), flags.format, args)
			})
		},
	}
	flags.register(cmd)

	return cmd
}
