// Package resource implements a memory budget shared by backing providers.
//
// The Controller tracks how many bytes of backing memory are outstanding and,
// when configured with a limit, refuses acquisitions that would exceed it.
//
// # Memory Management
//
// Tracking uses a weighted semaphore for the hard limit and an atomic counter
// for usage. AcquireMemory is non-blocking and returns immediately with
// ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(1024 * 1024); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(1024 * 1024)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use, so one budget can be
// shared by arenas living on different goroutines.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
