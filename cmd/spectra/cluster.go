package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/spectra"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type clusterFlags struct {
	graphFlags
	algorithm    string
	paramsFile   string
	output       string
	clusters     int
	eigenvectors int
	eigenTol     float64
	eigenIter    int
	kmeansTol    float64
	kmeansIter   int
	seed         int64
	check        bool
}

func newClusterCmd(g *globalFlags) *cobra.Command {
	f := &clusterFlags{}

	cmd := &cobra.Command{
		Use:   "cluster INPUT",
		Short: "Partition a graph into clusters",
		Long: `Reads an edge list from a local path, s3://bucket/key or minio://host/bucket/key
and writes one "vertex,cluster" row per vertex.

Parameters come from the defaults for -k, then --params (YAML), then any flag set
explicitly on the command line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCluster(cmd, g, f, args[0])
		},
	}

	f.register(cmd)
	return cmd
}

func (f *clusterFlags) register(cmd *cobra.Command) {
	f.graphFlags.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&f.algorithm, "algorithm", "modularity", "clustering algorithm (modularity, balanced-cut)")
	fs.StringVar(&f.paramsFile, "params", "", "YAML file with clustering parameters")
	fs.StringVarP(&f.output, "output", "o", "", "write assignments to this file instead of stdout")
	fs.IntVarP(&f.clusters, "clusters", "k", 2, "number of clusters")
	fs.IntVar(&f.eigenvectors, "eigenvectors", 0, "embedding dimension (defaults to the cluster count)")
	fs.Float64Var(&f.eigenTol, "eigen-tolerance", 0, "eigen solver tolerance")
	fs.IntVar(&f.eigenIter, "eigen-max-iterations", 0, "eigen solver iteration cap")
	fs.Float64Var(&f.kmeansTol, "kmeans-tolerance", 0, "k-means tolerance")
	fs.IntVar(&f.kmeansIter, "kmeans-max-iterations", 0, "k-means iteration cap")
	fs.Int64Var(&f.seed, "seed", 0, "random seed")
	fs.BoolVar(&f.check, "check", false, "verify symmetry and non-negative weights before clustering")
}

// params layers defaults, the YAML file and explicit flags.
func (f *clusterFlags) params(cmd *cobra.Command) (spectra.ClusteringParams, error) {
	p := spectra.DefaultClusteringParams(f.clusters)

	if f.paramsFile != "" {
		data, err := os.ReadFile(f.paramsFile)
		if err != nil {
			return p, err
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("parse %s: %w", f.paramsFile, err)
		}
	}

	changed := cmd.Flags().Changed
	if changed("clusters") {
		p.NumClusters = f.clusters
	}
	if changed("eigenvectors") {
		p.NumEigenvectors = f.eigenvectors
	}
	if changed("eigen-tolerance") {
		p.EigenTolerance = f.eigenTol
	}
	if changed("eigen-max-iterations") {
		p.EigenMaxIterations = f.eigenIter
	}
	if changed("kmeans-tolerance") {
		p.KMeansTolerance = f.kmeansTol
	}
	if changed("kmeans-max-iterations") {
		p.KMeansMaxIterations = f.kmeansIter
	}
	if changed("seed") {
		p.Seed = f.seed
	}
	if changed("check") {
		p.DoExpensiveCheck = f.check
	}
	return p, nil
}

func runCluster(cmd *cobra.Command, g *globalFlags, f *clusterFlags, input string) (err error) {
	ctx := cmd.Context()

	run := spectra.SpectralClustering
	switch f.algorithm {
	case "modularity":
	case "balanced-cut":
		run = spectra.BalancedCutClustering
	default:
		return fmt.Errorf("unknown algorithm %q", f.algorithm)
	}

	params, err := f.params(cmd)
	if err != nil {
		return err
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

	res, err := run(ctx, s.h, gr, params)
	if err != nil {
		return err
	}
	defer res.Free()

	vv, err := res.Vertices()
	if err != nil {
		return err
	}
	cv, err := res.Clusters()
	if err != nil {
		return err
	}
	vertices, err := vv.Int64s()
	if err != nil {
		return err
	}
	clusters, err := cv.Int64s()
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	return writeAssignments(out, vertices, clusters)
}
