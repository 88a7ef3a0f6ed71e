// Package program parses memory initialization programs and replays them
// through memory decoders.
package program

// OpKind tells a mask update from a memory write.
type OpKind uint8

const (
	OpMask OpKind = iota + 1
	OpWrite
)

func (k OpKind) String() string {
	switch k {
	case OpMask:
		return "mask"
	case OpWrite:
		return "mem"
	default:
		return "unknown"
	}
}

// Mask is a parsed bitmask line. A '0' clears its bit in And, a '1' sets it
// in Or and an 'X' sets it in Floating.
type Mask struct {
	Or       uint64
	And      uint64
	Floating uint64
}

// Op is one program line. Mask is set for OpMask; Addr and Value for OpWrite.
type Op struct {
	Kind  OpKind
	Mask  Mask
	Addr  uint64
	Value uint64
}
