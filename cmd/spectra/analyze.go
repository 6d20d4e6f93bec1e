package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/spectra"
	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/internal/conv"
	"github.com/spf13/cobra"
)

type analyzeFlags struct {
	graphFlags
	assignments string
	clusters    int
}

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze INPUT",
		Short: "Score a partition by modularity, edge cut and ratio cut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, f, args[0])
		},
	}

	f.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&f.assignments, "clusters", "", `"vertex,cluster" CSV as written by the cluster command`)
	fs.IntVarP(&f.clusters, "num-clusters", "k", 0, "number of clusters (defaults to the largest id + 1)")
	_ = cmd.MarkFlagRequired("clusters")
	return cmd
}

func runAnalyze(cmd *cobra.Command, g *globalFlags, f *analyzeFlags, input string) (err error) {
	ctx := cmd.Context()

	file, err := os.Open(f.assignments)
	if err != nil {
		return err
	}
	vertices, clusters, err := readAssignments(file)
	_ = file.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", f.assignments, err)
	}

	k := f.clusters
	if k == 0 {
		for _, c := range clusters {
			if int(c) >= k {
				k = int(c) + 1
			}
		}
	}

	s, err := g.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	gr, err := f.load(ctx, g, s.h, input)
	if err != nil {
		return err
	}
	defer gr.Free()

	vv, cv, err := assignmentViews(gr.VertexType(), vertices, clusters)
	if err != nil {
		return err
	}

	scores := []struct {
		name string
		fn   func() (float64, error)
	}{
		{"modularity", func() (float64, error) { return spectra.AnalyzeModularity(ctx, s.h, gr, k, vv, cv) }},
		{"edge_cut", func() (float64, error) { return spectra.AnalyzeEdgeCut(ctx, s.h, gr, k, vv, cv) }},
		{"ratio_cut", func() (float64, error) { return spectra.AnalyzeRatioCut(ctx, s.h, gr, k, vv, cv) }},
	}
	out := cmd.OutOrStdout()
	for _, sc := range scores {
		v, err := sc.fn()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%.6f\n", sc.name, v)
	}
	return nil
}

// assignmentViews narrows the parsed ids to the graph's vertex type.
func assignmentViews(vt array.DataType, vertices, clusters []int64) (*array.View, *array.View, error) {
	if vt == array.Int64 {
		return array.HostView(vertices), array.HostView(clusters), nil
	}
	v32 := make([]int32, len(vertices))
	c32 := make([]int32, len(clusters))
	for i := range vertices {
		v, err := conv.Int64To[int32](vertices[i])
		if err != nil {
			return nil, nil, fmt.Errorf("vertex %d: %w", vertices[i], err)
		}
		c, err := conv.Int64To[int32](clusters[i])
		if err != nil {
			return nil, nil, fmt.Errorf("cluster %d: %w", clusters[i], err)
		}
		v32[i], c32[i] = v, c
	}
	return array.HostView(v32), array.HostView(c32), nil
}
