// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Device buffers are carved from 64-byte aligned blocks so that every
// element slice starts on a cache line, whatever its element width.
package mem
