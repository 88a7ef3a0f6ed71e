package memory

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	region Region
	value  int64
}

// bruteForce expands every write and keeps the last value per address.
func bruteForce(writes []write) uint64 {
	mem := make(map[uint64]int64)
	for _, w := range writes {
		for addr := range w.region.Addresses() {
			mem[addr] = w.value
		}
	}
	var total uint64
	for _, v := range mem {
		total += uint64(v)
	}
	return total
}

func submitAll(writes []write) *Ledger {
	var l Ledger
	for _, w := range writes {
		l.Submit(w.region, w.value)
	}
	return &l
}

// randomRegion draws a region over width bits with at most maxFloating
// floating bits.
func randomRegion(rng *rand.Rand, width, maxFloating int) Region {
	mask := uint64(1)<<width - 1
	var floating uint64
	for range rng.IntN(maxFloating + 1) {
		floating |= 1 << rng.IntN(width)
	}
	return NewRegion(rng.Uint64()&mask, floating)
}

func TestLedgerMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(14, 2020))
	for round := range 200 {
		// a narrow width forces plenty of overlaps
		width := 4 + rng.IntN(8)
		writes := make([]write, 1+rng.IntN(40))
		for i := range writes {
			writes[i] = write{
				region: randomRegion(rng, width, 6),
				value:  rng.Int64N(1 << 36),
			}
		}
		l := submitAll(writes)
		require.Equal(t, bruteForce(writes), l.Total(), "round %d width %d", round, width)
	}
}

func TestLedgerFullContainmentRemovesOldTerm(t *testing.T) {
	a := NewRegion(0b1010, 0)
	b := NewRegion(0b1000, 0b0011)

	l := submitAll([]write{{a, 7}, {b, 3}})

	require.Equal(t, []Term{{Region: b, Multiplier: 3}}, l.Terms())
	assert.Equal(t, uint64(3*4), l.Total())
}

func TestLedgerDisjointAccumulates(t *testing.T) {
	a := NewRegion(0b0000, 0b0011)
	b := NewRegion(0b1000, 0b0001)

	l := submitAll([]write{{a, 5}, {b, 11}})

	assert.Equal(t, []Term{{Region: a, Multiplier: 5}, {Region: b, Multiplier: 11}}, l.Terms())
	assert.Equal(t, uint64(5*4+11*2), l.Total())
}

func TestLedgerIdempotentRewrite(t *testing.T) {
	r := NewRegion(0b0100, 0b1001)

	once := submitAll([]write{{r, 9}})
	twice := submitAll([]write{{r, 9}, {r, 9}})

	assert.Equal(t, once.Total(), twice.Total())
	assert.Equal(t, once.Terms(), twice.Terms())
}

func TestLedgerPartialOverlapAddsCorrection(t *testing.T) {
	a := NewRegion(0b0000, 0b0011) // 0..3
	b := NewRegion(0b0010, 0b0100) // 2, 6

	l := submitAll([]write{{a, 10}, {b, 1}})

	assert.Equal(t, []Term{
		{Region: a, Multiplier: 10},
		{Region: NewRegion(0b0010, 0), Multiplier: -10},
		{Region: b, Multiplier: 1},
	}, l.Terms())
	// 0,1,3 keep 10; 2 and 6 hold 1
	assert.Equal(t, uint64(32), l.Total())
}

func TestLedgerCancelsBeforeAdding(t *testing.T) {
	// Three writes whose overlaps nest: the third must cancel the
	// correction left by the second as well as both originals.
	writes := []write{
		{NewRegion(0b0000, 0b0111), 100},
		{NewRegion(0b0001, 0b0110), 10},
		{NewRegion(0b0011, 0b1100), 1},
	}
	l := submitAll(writes)
	assert.Equal(t, bruteForce(writes), l.Total())
}

func TestLedgerZeroWriteClears(t *testing.T) {
	a := NewRegion(0, 0b0111)
	writes := []write{{a, 8}, {NewRegion(0b0001, 0b0010), 0}}

	l := submitAll(writes)

	assert.Equal(t, bruteForce(writes), l.Total())
	assert.Equal(t, uint64(6*8), l.Total())
	for _, term := range l.Terms() {
		assert.NotZero(t, term.Multiplier)
	}

	l.Submit(a, 0)
	assert.Zero(t, l.Len())
	assert.Zero(t, l.Total())
}

func TestLedgerExample(t *testing.T) {
	// mask = 000000000000000000000000000000X1001X, mem[42] = 100
	// mask = 00000000000000000000000000000000X0XX, mem[26] = 1
	writes := []write{
		{NewRegion(42|0b010010, 0b100001), 100},
		{NewRegion(26, 0b1011), 1},
	}
	l := submitAll(writes)
	assert.Equal(t, bruteForce(writes), l.Total())
	assert.Equal(t, uint64(208), l.Total())
}

func TestLedgerWideRegionDoesNotExpand(t *testing.T) {
	const width = 36
	all := uint64(1)<<width - 1
	half := all &^ (1 << (width - 1))

	var l Ledger
	l.Submit(NewRegion(0, all), 1)
	l.Submit(NewRegion(0, half), 2)

	assert.Equal(t, uint64(1)<<(width-1)*3, l.Total())
	assert.Equal(t, 3, l.Len())
}

func TestLedgerEmpty(t *testing.T) {
	var l Ledger
	assert.Zero(t, l.Total())
	assert.Zero(t, l.Len())
}
