package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/spectra"
	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/dataset"
	"github.com/hupe1980/spectra/graph"
	"github.com/spf13/cobra"
)

// graphFlags select how an input file becomes a graph.
type graphFlags struct {
	format     string
	vertexType string
	edgeType   string
	weightType string
	symmetrize bool
	renumber   bool
	transposed bool
}

func (f *graphFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.format, "format", "auto", "input format (auto, edgelist, csv, mtx)")
	fs.StringVar(&f.vertexType, "vertex-type", "int32", "vertex id type (int32, int64)")
	fs.StringVar(&f.edgeType, "edge-type", "", "edge offset type (int32, int64); defaults to the vertex type")
	fs.StringVar(&f.weightType, "weight-type", "float32", "weight type (float32, float64)")
	fs.BoolVar(&f.symmetrize, "symmetrize", true, "add the reverse of every edge")
	fs.BoolVar(&f.renumber, "renumber", true, "compact sparse vertex ids")
	fs.BoolVar(&f.transposed, "store-transposed", false, "build destination-oriented storage")
}

func (f *graphFlags) load(ctx context.Context, g *globalFlags, h *spectra.ResourceHandle, input string) (*graph.Graph, error) {
	format, err := dataset.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}
	vt, err := array.ParseDataType(f.vertexType)
	if err != nil {
		return nil, err
	}
	wt, err := array.ParseDataType(f.weightType)
	if err != nil {
		return nil, err
	}
	et := array.Unknown
	if f.edgeType != "" {
		if et, err = array.ParseDataType(f.edgeType); err != nil {
			return nil, err
		}
	}

	store, name, err := g.resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	if format == dataset.FormatAuto {
		format = dataset.DetectFormat(name)
	}
	el, err := dataset.OpenFormat(ctx, store, name, format, h.Device())
	if err != nil {
		return nil, err
	}

	src, dst, weights, err := el.Views(vt, wt)
	if err != nil {
		return nil, err
	}

	props := el.Properties()
	symmetrize := f.symmetrize || el.Symmetric
	if symmetrize {
		props.IsSymmetric = true
	}
	opts := graph.Options{
		StoreTransposed: f.transposed,
		Renumber:        f.renumber,
		Symmetrize:      symmetrize,
		EdgeType:        et,
	}
	if weights == nil {
		opts.WeightType = wt
	}
	return graph.NewSG(ctx, h.Device(), props, src, dst, weights, opts)
}

// writeAssignments writes "vertex,cluster" rows with a header.
func writeAssignments(w io.Writer, vertices, clusters []int64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vertex", "cluster"}); err != nil {
		return err
	}
	for i := range vertices {
		if err := cw.Write([]string{
			strconv.FormatInt(vertices[i], 10),
			strconv.FormatInt(clusters[i], 10),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readAssignments parses the output of writeAssignments. The header row is
// optional.
func readAssignments(r io.Reader) (vertices, clusters []int64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		v, verr := strconv.ParseInt(rec[0], 10, 64)
		c, cerr := strconv.ParseInt(rec[1], 10, 64)
		if verr != nil || cerr != nil {
			if first {
				continue
			}
			line, _ := cr.FieldPos(0)
			return nil, nil, fmt.Errorf("line %d: invalid assignment %q", line, rec)
		}
		vertices = append(vertices, v)
		clusters = append(clusters, c)
	}
	return vertices, clusters, nil
}
