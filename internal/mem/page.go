package mem

import "sync"

var pageSize = sync.OnceValue(osPageSize)

// PageSize returns the platform page size.
func PageSize() int {
	return pageSize()
}
