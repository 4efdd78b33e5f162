// Package backing acquires and releases the raw memory blocks regions are
// carved from.
//
// Every block handed out by a Provider is zero-filled, writable and a whole
// multiple of the platform page size. Callers return exactly the slice they
// were given.
//
// # Providers
//
//   - OS maps anonymous private memory with mmap(2) (VirtualAlloc on
//     Windows). Blocks live outside the Go heap.
//   - Heap hands out page-aligned Go-heap slices. Useful where mapping is
//     unavailable or undesirable; released blocks are reclaimed by the GC.
//   - Limit wraps another provider with a memory Budget and fails fast once
//     the budget is exhausted.
//
// Blocks must never hold Go pointers: mapped memory is invisible to the
// garbage collector.
package backing
