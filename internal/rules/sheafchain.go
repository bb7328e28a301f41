package rules

import (
	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// SheafChain is an ordered list of Sheaves scanned out of one rule side.
// Plain text outside any "[...]" group becomes its own degenerate
// (single-Fragment) Sheaf so bare characters and bracketed alternations mix
// freely; e.g. "h[a*b]t" parses as three Sheaves: "h", "[a*b]", "t".
type SheafChain struct {
	raw     string
	Sheaves []*Sheaf
}

// ParseSheafChain scans raw for balanced "[...]" groups, wrapping
// everything else into degenerate Sheaves.
func ParseSheafChain(raw string) (*SheafChain, error) {
	sc := &SheafChain{raw: raw}

	var outside []byte
	flushOutside := func() error {
		if len(outside) == 0 {
			return nil
		}
		s, err := ParseSheaf(string(outside))
		if err != nil {
			return err
		}
		sc.Sheaves = append(sc.Sheaves, s)
		outside = nil
		return nil
	}

	i := 0
	for i < len(raw) {
		if raw[i] == '[' {
			if err := flushOutside(); err != nil {
				return nil, err
			}
			depth := 0
			j := i
			for ; j < len(raw); j++ {
				switch raw[j] {
				case '[':
					depth++
				case ']':
					depth--
					if depth == 0 {
						goto closed
					}
				}
			}
			return nil, glerrors.Parse(glerrors.Location{}, "unbalanced '[' in rule side %q", raw)
		closed:
			inner := raw[i+1 : j]
			s, err := ParseSheaf(inner)
			if err != nil {
				return nil, err
			}
			sc.Sheaves = append(sc.Sheaves, s)
			i = j + 1
			continue
		}
		outside = append(outside, raw[i])
		i++
	}
	if err := flushOutside(); err != nil {
		return nil, err
	}

	return sc, nil
}

// Finalize finalizes every Sheaf. A Sheaf holding more than one Fragment
// ('*'-joined, bracketed or not) is linkable: its Fragments must all
// produce the same number of combinations. A single-Fragment Sheaf has
// nothing to link.
func (sc *SheafChain) Finalize(errs *glerrors.List, cs *charset.Charset) {
	for _, s := range sc.Sheaves {
		linkable := len(s.Fragments) > 1
		s.Finalize(errs, linkable, cs)
	}
}

// NumCombinations returns the total number of combinations the chain
// enumerates: the product of each Sheaf's combination count.
func (sc *SheafChain) NumCombinations() int {
	n := 1
	for _, s := range sc.Sheaves {
		if len(s.Combinations) == 0 {
			return 0
		}
		n *= len(s.Combinations)
	}
	return n
}

// Iterator returns a fresh, restartable SheafChainIterator over the chain.
func (sc *SheafChain) Iterator() *SheafChainIterator {
	idx := make([]int, len(sc.Sheaves))
	return &SheafChainIterator{chain: sc, idx: idx}
}

// SheafChainIterator advances an index per Sheaf odometer-style, emitting
// the concatenation of the currently selected combination from each Sheaf
// at every step.
type SheafChainIterator struct {
	chain *SheafChain
	idx   []int
	done  bool
}

// Next returns the next combination and true, or (nil, false) once every
// combination has been emitted. The iterator is finite: it emits exactly
// chain.NumCombinations() sequences before returning false, and is
// restartable via chain.Iterator().
func (it *SheafChainIterator) Next() (token.Sequence, bool) {
	if it.done {
		return nil, false
	}
	if len(it.chain.Sheaves) == 0 {
		it.done = true
		return token.Sequence{}, true
	}
	if it.chain.NumCombinations() == 0 {
		it.done = true
		return nil, false
	}

	seq := it.current()

	// advance the odometer for the next call.
	for pos := len(it.idx) - 1; pos >= 0; pos-- {
		it.idx[pos]++
		if it.idx[pos] < len(it.chain.Sheaves[pos].Combinations) {
			break
		}
		it.idx[pos] = 0
		if pos == 0 {
			it.done = true
		}
	}

	return seq, true
}

func (it *SheafChainIterator) current() token.Sequence {
	var seq token.Sequence
	for i, s := range it.chain.Sheaves {
		if len(s.Combinations) == 0 {
			continue
		}
		seq = append(seq, s.Combinations[it.idx[i]]...)
	}
	return seq
}
