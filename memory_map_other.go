//go:build !unix

package main

import (
	"errors"
	"io"
)

// mmap reads the window instead of mapping it.
func (mm *memoryMap) mmap(index int64) error {
	offset, length := mm.window(index)
	if length == 0 {
		mm.b = nil
		return nil
	}
	b := make([]byte, length)
	n, err := mm.f.ReadAt(b, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	mm.b = b[:n]
	return nil
}

func (mm *memoryMap) munmap() error {
	mm.b = nil
	return nil
}
