package arena

import (
	"unsafe"
)

// Stats is a snapshot of arena memory usage.
//
//   - BytesReserved: backing memory held, including headers
//   - BytesCapacity: usable bytes across all regions
//   - BytesUsed: sum of region tails, including alignment padding
//   - BytesFree: BytesCapacity - BytesUsed; free space only Fit can reach
//     outside the last region
type Stats struct {
	Regions        int
	FullRegions    int
	BytesReserved  int
	BytesCapacity  int
	BytesUsed      int
	BytesFree      int
	RegionCapacity int
}

// RegionInfo describes one region of the chain.
type RegionInfo struct {
	Index     int
	Tail      int
	Capacity  int
	BlockSize int
	Embedded  bool
	Base      uintptr
}

// Stats returns current usage. A deleted arena reports zero values.
func (a *Arena) Stats() Stats {
	if a.deleted {
		return Stats{}
	}

	s := Stats{
		Regions:        len(a.regions),
		FullRegions:    int(a.full.GetCardinality()), //nolint:gosec // bounded by region count
		BytesReserved:  len(a.block),
		RegionCapacity: a.RegionCapacity(),
	}
	for _, r := range a.regions {
		if r.Owned() {
			s.BytesReserved += len(r.Block())
		}
		s.BytesCapacity += r.Capacity()
		s.BytesUsed += r.Tail()
	}
	s.BytesFree = s.BytesCapacity - s.BytesUsed
	return s
}

// Usage returns the used share of usable capacity as a percentage.
func (a *Arena) Usage() float64 {
	stats := a.Stats()
	if stats.BytesCapacity == 0 {
		return 0
	}
	return float64(stats.BytesUsed) / float64(stats.BytesCapacity) * 100
}

// Regions returns the chain in creation order.
func (a *Arena) Regions() []RegionInfo {
	if a.deleted {
		return nil
	}

	infos := make([]RegionInfo, 0, len(a.regions))
	for _, r := range a.regions {
		blockSize := len(r.Block())
		if !r.Owned() {
			blockSize = len(a.block)
		}
		infos = append(infos, RegionInfo{
			Index:     r.Index(),
			Tail:      r.Tail(),
			Capacity:  r.Capacity(),
			BlockSize: blockSize,
			Embedded:  !r.Owned(),
			Base:      r.Base(),
		})
	}
	return infos
}

// RegionOf returns the index of the region whose usable bytes contain p,
// or -1 if p does not point into the arena.
func (a *Arena) RegionOf(p unsafe.Pointer) int {
	if a.deleted || p == nil {
		return -1
	}
	addr := uintptr(p)
	for _, r := range a.regions {
		if r.Contains(addr) {
			return r.Index()
		}
	}
	return -1
}
