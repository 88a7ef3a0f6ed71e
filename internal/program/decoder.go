package program

import (
	"fmt"

	"github.com/mariiatuzovska/floatmem/internal/memory"
)

// Decoder consumes ops in program order and reports the sum of memory.
type Decoder interface {
	Apply(op Op)
	Sum() uint64
}

// Decoder names accepted by NewDecoder.
const (
	DecoderValue   = "v1"
	DecoderAddress = "v2"
)

// NewDecoder returns the decoder registered under name.
func NewDecoder(name string) (Decoder, error) {
	switch name {
	case DecoderValue:
		return NewValueDecoder(), nil
	case DecoderAddress:
		return NewAddressDecoder(), nil
	}
	return nil, fmt.Errorf("unknown decoder %q", name)
}

// ValueDecoder applies the mask to written values; addresses are used as is.
type ValueDecoder struct {
	mask Mask
	mem  map[uint64]uint64
}

func NewValueDecoder() *ValueDecoder {
	return &ValueDecoder{
		mask: Mask{And: ^uint64(0)},
		mem:  make(map[uint64]uint64),
	}
}

func (d *ValueDecoder) Apply(op Op) {
	switch op.Kind {
	case OpMask:
		d.mask = op.Mask
	case OpWrite:
		v := op.Value&d.mask.And | d.mask.Or
		if v == 0 {
			delete(d.mem, op.Addr)
			return
		}
		d.mem[op.Addr] = v
	}
}

func (d *ValueDecoder) Sum() uint64 {
	var sum uint64
	for _, v := range d.mem {
		sum += v
	}
	return sum
}

// AddressDecoder applies the mask to write addresses. Floating bits make a
// single write cover every combination of their values.
type AddressDecoder struct {
	or, floating uint64
	ledger       memory.Ledger
}

func NewAddressDecoder() *AddressDecoder {
	return &AddressDecoder{}
}

func (d *AddressDecoder) Apply(op Op) {
	switch op.Kind {
	case OpMask:
		d.or, d.floating = op.Mask.Or, op.Mask.Floating
	case OpWrite:
		r := memory.NewRegion(op.Addr|d.or, d.floating)
		d.ledger.Submit(r, int64(op.Value))
	}
}

func (d *AddressDecoder) Sum() uint64 {
	return d.ledger.Total()
}

// Terms is the number of ledger terms currently held.
func (d *AddressDecoder) Terms() int {
	return d.ledger.Len()
}

// Replay applies ops in order to every decoder.
func Replay(ops []Op, decoders ...Decoder) {
	for _, op := range ops {
		for _, d := range decoders {
			d.Apply(op)
		}
	}
}
