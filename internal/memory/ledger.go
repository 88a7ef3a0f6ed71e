package memory

// Term is one ledger entry. Multiplier is an inclusion-exclusion coefficient,
// not a written value: summed over every term whose region contains an
// address, the multipliers give the value of the last write to it.
type Term struct {
	Region     Region
	Multiplier int64
}

// Ledger accumulates masked writes as signed terms. Later writes override
// earlier ones exactly on the addresses they share.
//
// The zero value is an empty ledger. A Ledger is not safe for concurrent use.
type Ledger struct {
	terms       []Term
	corrections []Term
}

// Submit records value written to every address of r.
//
// Every existing term, prior corrections included, is cancelled on its
// overlap with r before the term for r is added.
func (l *Ledger) Submit(r Region, value int64) {
	n := len(l.terms)
	kept := l.terms[:0]
	l.corrections = l.corrections[:0]
	for _, t := range l.terms[:n] {
		overlap, ok := Intersect(t.Region, r)
		switch {
		case !ok:
			kept = append(kept, t)
		case overlap == t.Region:
			// fully rewritten by r
		default:
			kept = append(kept, t)
			l.corrections = append(l.corrections, Term{Region: overlap, Multiplier: -t.Multiplier})
		}
	}
	// kept aliases l.terms and never overtakes the scan index
	l.terms = append(kept, l.corrections...)
	if value != 0 {
		l.terms = append(l.terms, Term{Region: r, Multiplier: value})
	}
}

// Total returns the sum of the values held by every written address.
//
// Arithmetic wraps modulo 2^64; the result is exact whenever the true sum
// fits in a uint64.
func (l *Ledger) Total() uint64 {
	var total uint64
	for _, t := range l.terms {
		total += uint64(t.Multiplier) * t.Region.Cardinality()
	}
	return total
}

// Len is the number of terms currently held.
func (l *Ledger) Len() int {
	return len(l.terms)
}

// Terms returns a copy of the current terms in no particular order.
func (l *Ledger) Terms() []Term {
	return append([]Term(nil), l.terms...)
}
