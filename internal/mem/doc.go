// Package mem provides alignment and page arithmetic for the arena.
//
// # Alignment
//
// Align rounds a size up to a power-of-two boundary. An alignment of zero
// means "no constraint" and returns the size unchanged.
//
// # Pages
//
// PageSize is queried from the operating system once per process. Every
// backing block handed to a region is a whole multiple of it.
//
// # Aligned Allocation
//
// AllocAligned returns Go-heap memory whose first byte sits on a requested
// power-of-two boundary. It backs the heap provider.
package mem
