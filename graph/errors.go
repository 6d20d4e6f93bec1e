package graph

import "errors"

var (
	// ErrInvalidInput is returned for malformed edge lists or options.
	ErrInvalidInput = errors.New("graph: invalid input")

	// ErrUnsupportedTypeCombination is returned for vertex/edge/weight
	// combinations no storage instantiation exists for.
	ErrUnsupportedTypeCombination = errors.New("graph: unsupported type combination")

	// ErrStorageType is returned when the typed storage requested does not
	// match the graph's tags.
	ErrStorageType = errors.New("graph: storage type does not match graph tags")

	// ErrCorruptStorage is returned when adjacency arrays violate their invariants.
	ErrCorruptStorage = errors.New("graph: corrupt storage")

	// ErrFreed is returned when a freed graph is used.
	ErrFreed = errors.New("graph: graph has been freed")
)
