// Package core implements EvalTable, the paired (even, odd) view of a
// multilinear polynomial split along its most significant variable, and
// VirtualPolynomial, a vector of EvalTables folded in lockstep during
// sum-check.
package core

import (
	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/poly"
)

// EvalPair holds the two values of a polynomial at a point that differ
// only in the currently-leading variable. "even" and "odd" name the two
// hypercube cosets that differ in the most significant variable, not the
// parity of the index.
type EvalPair struct {
	Even field.F
	Odd  field.F
}

// EvalTable is a multilinear polynomial "split" along its most
// significant variable: a slice of EvalPairs of length 2^(NumVars-1)
// plus NumVars. EvalTable holds a snapshot (copy) of the originating
// polynomial's evaluations, so folding it never mutates the polynomial
// it was built from.
type EvalTable struct {
	NumVars int
	Pairs   []EvalPair
}

// NewEvalTable pairs p.E[i] (for i < 2^(NumVars-1)) with
// p.E[i+2^(NumVars-1)].
//
// A zero-variable polynomial with a resolved value (len(p.E) == 1, the
// single-element witness case) is a
// degenerate, already-bound table: it has no leading variable left to
// split on, so both halves of its single pair collapse to the same
// value. The additive-identity "empty" polynomial (NumVars == 0 and
// len(p.E) == 0, poly.Empty()) has no value to hold at all and is
// rejected, since it represents "no polynomial", not "a bound one".
func NewEvalTable(p *poly.MultilinearPolynomial) (*EvalTable, error) {
	if p.NumVars == 0 {
		if len(p.E) != 1 {
			return nil, clerr.SizeError("cannot build an EvalTable from a zero-variable polynomial with no resolved value")
		}
		return &EvalTable{NumVars: 0, Pairs: []EvalPair{{Even: p.E[0], Odd: p.E[0]}}}, nil
	}
	half := 1 << uint(p.NumVars-1)
	pairs := make([]EvalPair, half)
	for i := 0; i < half; i++ {
		pairs[i] = EvalPair{Even: p.E[i], Odd: p.E[i+half]}
	}
	return &EvalTable{NumVars: p.NumVars, Pairs: pairs}, nil
}

// FoldIntoHalf shrinks the table from 2^(NumVars-1) pairs to
// 2^(NumVars-2) pairs by binding the current most significant variable
// to alpha:
//
//	pair[i].even <- pair[i].even + alpha*(pair[i].odd - pair[i].even)
//	pair[i].odd  <- pair[i+L].even + alpha*(pair[i+L].odd - pair[i+L].even)
//
// where L = len(table)/2. Precondition: len(table) > 1.
func (t *EvalTable) FoldIntoHalf(alpha field.F) error {
	if len(t.Pairs) <= 1 {
		return clerr.SizeError("cannot fold an EvalTable with a single pair")
	}
	l := len(t.Pairs) / 2
	next := make([]EvalPair, l)
	for i := 0; i < l; i++ {
		next[i].Even = bindPair(t.Pairs[i], alpha)
		next[i].Odd = bindPair(t.Pairs[i+l], alpha)
	}
	t.Pairs = next
	t.NumVars--
	return nil
}

func bindPair(p EvalPair, alpha field.F) field.F {
	var diff, term, out field.F
	diff.Sub(&p.Odd, &p.Even)
	term.Mul(&diff, &alpha)
	out.Add(&p.Even, &term)
	return out
}

// Residual returns pair[0].even + alphaLast*(pair[0].odd - pair[0].even),
// the final residual evaluation after the last round's challenge.
// Precondition: len(table) == 1.
func (t *EvalTable) Residual(alphaLast field.F) (field.F, error) {
	if len(t.Pairs) != 1 {
		return field.Zero(), clerr.SizeError("residual requires a single remaining pair")
	}
	return bindPair(t.Pairs[0], alphaLast), nil
}
