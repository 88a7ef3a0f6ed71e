package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/mariiatuzovska/floatmem/internal/program"
)

const newLine = byte('\n')

var errLineTooLong = errors.New("line does not fit in chunk overlap")

// lineError locates a failure by the absolute byte offset of its line.
type lineError struct {
	offset int64
	err    error
}

func (e *lineError) Error() string {
	return fmt.Sprintf("line at byte %d: %v", e.offset, e.err)
}

func (e *lineError) Unwrap() error { return e.err }

// parseChunk parses the lines owned by chunk index, whose mapping starts at
// index*chunk and is held in b.
//
// A chunk owns every line whose preceding newline lies inside it; chunk 0
// also owns the first line. eof reports that b runs to the end of the file,
// which allows a final line without a newline.
func parseChunk(ctx context.Context, p *program.Parser, b []byte, index, chunk int64, eof bool) ([]program.Op, error) {
	base := index * chunk
	pos := 0

	// the line running into this chunk belongs to the previous one
	if index != 0 {
		nl := bytes.IndexByte(b, newLine)
		if nl < 0 {
			return nil, nil
		}
		pos = nl + 1
	}

	var ops []program.Op
	for int64(pos) <= chunk && pos < len(b) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := pos
		var line []byte
		if nl := bytes.IndexByte(b[pos:], newLine); nl >= 0 {
			line = b[pos : pos+nl]
			pos += nl + 1
		} else if eof {
			line = b[pos:]
			pos = len(b)
		} else {
			return nil, &lineError{offset: base + int64(start), err: errLineTooLong}
		}

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		op, err := p.ParseLine(line)
		if err != nil {
			return nil, &lineError{offset: base + int64(start), err: err}
		}
		ops = append(ops, op)
	}
	return ops, nil
}
