//go:build !unix

package mem

import "os"

func osPageSize() int {
	return os.Getpagesize()
}
