// Package dataset loads edge lists into the typed host views graph
// creation expects.
//
// Three text formats are understood: whitespace-separated edge lists
// ("src dst [weight]", '#' or '%' comments), CSV with an optional header
// row, and Matrix Market coordinate files. Input compressed with gzip,
// zstd or LZ4 (frame format) is detected by its magic bytes and
// decompressed transparently.
//
//	el, err := dataset.Open(ctx, blobstore.NewLocalStore("data"), "karate.mtx.gz", dev)
//	src, dst, w, err := el.Views(array.Int32, array.Float32)
//	g, err := graph.NewSG(ctx, dev, el.Properties(), src, dst, w, graph.Options{Symmetrize: el.Symmetric})
package dataset
