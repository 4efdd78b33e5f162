// Package region implements the bump allocator behind every arena region.
//
// A Region is one contiguous slice of a backing block. Its bookkeeping
// (tail and capacity) lives in a small pointer-free header at the start of
// that slice; the usable bytes follow the header. Allocation only ever moves
// the tail forward, so space is reclaimed solely by releasing the whole
// block.
package region
