// Package array provides the type-erased arrays that cross the spectra API.
//
// A DeviceArray owns one device buffer and remembers its element type as a
// runtime DataType tag. A View is a non-owning window onto a DeviceArray (or
// onto a host slice used as input); typed access goes through As, which
// checks the tag:
//
//	view, _ := result.Clusters()
//	clusters, err := array.As[int32](view)
//	if errors.Is(err, array.ErrTypeMismatch) {
//	    // the graph uses int64 vertices
//	}
//
// Views over a DeviceArray become invalid once the array is freed; As then
// returns ErrFreed.
package array
