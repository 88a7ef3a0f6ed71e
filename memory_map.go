package main

import (
	"os"
)

// memoryMap exposes one chunk of a file at a time, extended by overlap bytes
// so the last line owned by the chunk can be read in full.
type memoryMap struct {
	f              *os.File
	size           int64
	chunk, overlap int64
	b              []byte
}

func openFile(path string) (f *os.File, size int64, _ error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, st.Size(), nil
}

// window returns the byte range of chunk index; length is 0 past EOF.
func (mm *memoryMap) window(index int64) (offset, length int64) {
	offset = index * mm.chunk
	length = mm.chunk + mm.overlap
	if left := mm.size - offset; left < 1 {
		return offset, 0
	} else if left < length {
		length = left
	}
	return offset, length
}

// atEOF reports whether the current mapping of chunk index ends the file.
func (mm *memoryMap) atEOF(index int64) bool {
	return index*mm.chunk+int64(len(mm.b)) == mm.size
}
