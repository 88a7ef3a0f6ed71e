//go:build unix

package main

import (
	"errors"

	"golang.org/x/sys/unix"
)

func (mm *memoryMap) mmap(index int64) (err error) {
	offset, length := mm.window(index)
	if length == 0 {
		mm.b = nil
		return nil
	}
	// syscall will block 1 thread
	mm.b, err = unix.Mmap(int(mm.f.Fd()), offset, int(length), unix.PROT_READ, unix.MAP_SHARED)
	return err
}

func (mm *memoryMap) munmap() error {
	if mm.b == nil {
		return nil
	}
	err := unix.Munmap(mm.b)
	mm.b = nil
	if errors.Is(err, unix.EINVAL) {
		return nil
	}
	return err
}
