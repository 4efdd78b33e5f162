// Package mmap provides anonymous memory mappings for off-heap allocation.
//
// # Overview
//
// MapAnon reserves private, zero-filled, read-write virtual memory directly
// from the operating system. The memory lives outside the Go heap: the
// garbage collector neither scans nor moves it, and it is only returned to
// the OS when the owning Mapping is closed.
//
// # Usage
//
//	m, err := mmap.MapAnon(64 * 1024)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes()
//
//	// Provide kernel hints for access patterns
//	m.Advise(mmap.AccessWillNeed)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) for hints
//   - Windows: VirtualAlloc/VirtualFree (advice is a no-op)
//
// # Restrictions
//
// Mapped memory must never hold Go pointers. The collector does not see it,
// so anything referenced only from a mapping may be freed underneath it.
package mmap
