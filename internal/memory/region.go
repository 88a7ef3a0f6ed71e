// Package memory implements masked memory regions and the overlap ledger
// that sums values written through floating address masks without expanding
// them into concrete addresses.
package memory

import (
	"iter"
	"math/bits"
	"strings"
)

// Region is a set of concrete addresses: every bit set in Floating may take
// either value, every other bit is taken from Fixed.
//
// Fixed&Floating is always zero, so two regions denote the same address set
// exactly when they are equal.
type Region struct {
	Fixed    uint64
	Floating uint64
}

// NewRegion returns the region of addr with the floating bits released.
func NewRegion(addr, floating uint64) Region {
	return Region{Fixed: addr &^ floating, Floating: floating}
}

// Intersect returns the addresses common to a and b. The second result is
// false when the regions disagree on a bit that is fixed in both.
func Intersect(a, b Region) (Region, bool) {
	bothFixed := ^a.Floating & ^b.Floating
	if a.Fixed&bothFixed != b.Fixed&bothFixed {
		return Region{}, false
	}
	return Region{
		Fixed:    a.Fixed | b.Fixed,
		Floating: a.Floating & b.Floating,
	}, true
}

// Cardinality is the number of concrete addresses in r.
//
// A region floating on all 64 bits does not fit and yields 0.
func (r Region) Cardinality() uint64 {
	return 1 << bits.OnesCount64(r.Floating)
}

// Contains reports whether addr is one of the addresses of r.
func (r Region) Contains(addr uint64) bool {
	return addr&^r.Floating == r.Fixed
}

// Addresses yields every concrete address of r in ascending order.
func (r Region) Addresses() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		// walk the submasks of Floating in increasing order
		sub := uint64(0)
		for {
			if !yield(r.Fixed | sub) {
				return
			}
			sub = (sub - r.Floating) & r.Floating
			if sub == 0 {
				return
			}
		}
	}
}

// Format renders the low width bits of r most significant first, using
// 'X' for floating bits.
func (r Region) Format(width int) string {
	var sb strings.Builder
	sb.Grow(width)
	for i := width - 1; i >= 0; i-- {
		bit := uint64(1) << i
		switch {
		case r.Floating&bit != 0:
			sb.WriteByte('X')
		case r.Fixed&bit != 0:
			sb.WriteByte('1')
		default:
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
