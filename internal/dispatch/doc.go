// Package dispatch selects a typed instantiation of an algorithm from the
// runtime tags of a graph.
//
// A Table maps every supported (vertex, edge, weight, edge type, transposed,
// multi-GPU) key to a typed operation. Rows are produced by Candidate, which
// expands one typed operation into the four storage layouts, so a table only
// ever contains combinations the graph package can store.
package dispatch
