package program

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidOp     = errors.New("invalid op")
	ErrInvalidMask   = errors.New("invalid mask")
	ErrInvalidNumber = errors.New("invalid number")
	ErrOutOfRange    = errors.New("out of range")
)

var (
	maskPrefix = []byte("mask")
	memPrefix  = []byte("mem[")
)

// Parser turns program lines into ops for a fixed address width.
type Parser struct {
	width int
	limit uint64 // largest address or value that fits width
}

// NewParser returns a parser for width-bit masks, addresses and values.
// width must be in [1, 64].
func NewParser(width int) *Parser {
	return &Parser{width: width, limit: ^uint64(0) >> (64 - width)}
}

// Width is the number of bits of every mask, address and value.
func (p *Parser) Width() int { return p.width }

// ParseLine parses one line of the form "mask = <bits>" or
// "mem[<addr>] = <value>". Surrounding blanks and a trailing '\r' are
// ignored.
func (p *Parser) ParseLine(line []byte) (Op, error) {
	line = bytes.TrimSpace(line)
	switch {
	case bytes.HasPrefix(line, memPrefix):
		return p.parseMem(line)
	case bytes.HasPrefix(line, maskPrefix):
		return p.parseMask(line)
	}
	return Op{}, fmt.Errorf("%w: %q", ErrInvalidOp, line)
}

func (p *Parser) parseMask(line []byte) (Op, error) {
	rest, ok := cutAssign(line[len(maskPrefix):])
	if !ok {
		return Op{}, fmt.Errorf("%w: %q", ErrInvalidOp, line)
	}
	if len(rest) != p.width {
		return Op{}, fmt.Errorf("%w: %q has %d bits, want %d", ErrInvalidMask, rest, len(rest), p.width)
	}

	m := Mask{And: p.limit}
	for i, c := range rest {
		bit := uint64(1) << (p.width - 1 - i)
		switch c {
		case '0':
			m.And &^= bit
		case '1':
			m.Or |= bit
		case 'X':
			m.Floating |= bit
		default:
			return Op{}, fmt.Errorf("%w: %q at position %d in %q", ErrInvalidMask, c, i, rest)
		}
	}
	return Op{Kind: OpMask, Mask: m}, nil
}

func (p *Parser) parseMem(line []byte) (Op, error) {
	body := line[len(memPrefix):]
	end := bytes.IndexByte(body, ']')
	if end < 0 {
		return Op{}, fmt.Errorf("%w: %q", ErrInvalidOp, line)
	}
	rest, ok := cutAssign(body[end+1:])
	if !ok {
		return Op{}, fmt.Errorf("%w: %q", ErrInvalidOp, line)
	}

	addr, err := p.number("address", body[:end])
	if err != nil {
		return Op{}, err
	}
	value, err := p.number("value", rest)
	if err != nil {
		return Op{}, err
	}
	return Op{Kind: OpWrite, Addr: addr, Value: value}, nil
}

func (p *Parser) number(what string, b []byte) (uint64, error) {
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s %s exceeds %d bits", ErrOutOfRange, what, b, p.width)
		}
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumber, what, b)
	}
	if n > p.limit {
		return 0, fmt.Errorf("%w: %s %d exceeds %d bits", ErrOutOfRange, what, n, p.width)
	}
	return n, nil
}

// cutAssign strips " = " from the front of b and returns what follows it.
func cutAssign(b []byte) ([]byte, bool) {
	b = bytes.TrimLeft(b, " \t")
	if len(b) == 0 || b[0] != '=' {
		return nil, false
	}
	return bytes.TrimLeft(b[1:], " \t"), true
}
