package main

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/hupe1980/spectra"
	promspectra "github.com/hupe1980/spectra/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	logLevel       string
	workers        int
	memoryLimit    int64
	ioLimit        int64
	metricsFile    string
	minioSecure    bool
	minioEndpoint  string
	awsRegion      string
	downloadPartMB int64
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "spectra",
		Short:         "Spectral graph clustering",
		Long:          `spectra partitions graphs by spectral modularity maximization or balanced cut and scores existing partitions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.IntVar(&g.workers, "workers", runtime.GOMAXPROCS(0), "maximum concurrent kernel workers")
	pf.Int64Var(&g.memoryLimit, "memory-limit", 0, "device memory budget in bytes (0 = unlimited)")
	pf.Int64Var(&g.ioLimit, "io-limit", 0, "dataset read limit in bytes per second (0 = unlimited)")
	pf.StringVar(&g.metricsFile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	pf.StringVar(&g.minioEndpoint, "minio-endpoint", "", "endpoint for minio:// inputs, overrides the URI host")
	pf.BoolVar(&g.minioSecure, "minio-secure", false, "use TLS for minio:// inputs")
	pf.StringVar(&g.awsRegion, "aws-region", "", "region for s3:// inputs")
	pf.Int64Var(&g.downloadPartMB, "download-part-mb", 8, "part size in MiB for concurrent s3:// downloads")

	cmd.AddCommand(newClusterCmd(g), newAnalyzeCmd(g))
	return cmd
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// session bundles the resource handle with the metrics registry it reports to.
type session struct {
	h        *spectra.ResourceHandle
	registry *prometheus.Registry
	file     string
}

func (g *globalFlags) open() (*session, error) {
	level, err := parseLevel(g.logLevel)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	h := spectra.NewResourceHandle(
		spectra.WithLogLevel(level),
		spectra.WithMetricsCollector(promspectra.NewCollector(reg)),
		spectra.WithMaxWorkers(g.workers),
		spectra.WithMemoryLimit(g.memoryLimit),
		spectra.WithIOLimit(g.ioLimit),
	)
	return &session{h: h, registry: reg, file: g.metricsFile}, nil
}

func (s *session) close() error {
	err := s.h.Close()
	if s.file != "" {
		if werr := prometheus.WriteToTextfile(s.file, s.registry); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}
