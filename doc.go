// Package arena provides a region-based bump allocator on top of
// page-granular backing memory.
//
// An Arena hands out aligned blocks from a chain of regions and releases
// everything at once with Delete. There is no per-allocation free.
//
// # Quick Start
//
//	a, err := arena.New(64 << 10)
//	if err != nil {
//		return err
//	}
//	defer a.Delete()
//
//	p, _ := a.Alloc(128, 16)           // raw bytes, 16-byte aligned
//	xs, _ := arena.Alloc[uint64](a, 8) // typed slice
//
// # Strategies
//
// Two placement strategies share the same region chain:
//
//   - Alloc (append) only looks at the last region. It is O(1) and keeps
//     allocations in creation order.
//   - Fit scans regions in creation order and uses the first one with room.
//     It reuses space left behind in earlier regions at the cost of a scan.
//
// Both grow the chain when nothing fits. A new region holds
// max(request, RegionCapacity()) usable bytes, rounded up to whole pages.
// SetRegionCapacity changes the target for future growth, which is how
// callers implement adaptive policies such as doubling.
//
// # Backing Memory
//
// Blocks come from a backing.Provider. The default maps anonymous memory
// from the operating system; backing.Heap uses the Go heap and
// backing.Limit enforces a byte budget:
//
//	a, err := arena.New(0, arena.WithMemoryLimit(256<<20))
//
// When backing memory cannot be acquired, allocation returns an error
// matching ErrOutOfMemory and the arena stays usable.
//
// # Pointer Rules
//
// Arena memory is not scanned by the garbage collector. Do not store Go
// pointers (including strings, slices, maps or interfaces) in it, and do
// not use arena memory after Delete.
//
// # Observability
//
// WithLogger attaches a structured slog logger and WithMetricsObserver an
// event observer. BasicMetricsObserver counts events in memory;
// the metrics/prom package exports them to Prometheus. Stats, Regions and
// Dump describe the current chain.
//
// # Thread Safety
//
// An Arena is not safe for concurrent use. Backing providers, budgets and
// metrics observers may be shared between arenas used on different
// goroutines.
package arena
