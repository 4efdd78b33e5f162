//go:build unix

package mem

import "golang.org/x/sys/unix"

func osPageSize() int {
	return unix.Getpagesize()
}
