package core

import (
	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/poly"
)

// VirtualPolynomial is a vector of EvalTables sharing the same NumVars,
// addressed positionally by the sum-check combine function. It is created
// once at the start of sum-check, half-folded once per round, and at the
// final round each inner table has length 1.
type VirtualPolynomial struct {
	NumVars int
	Tables  []*EvalTable
}

// NewVirtualPolynomial builds a VirtualPolynomial from a list of
// multilinear polynomials that must all share the same NumVars.
func NewVirtualPolynomial(polys []*poly.MultilinearPolynomial) (*VirtualPolynomial, error) {
	if len(polys) == 0 {
		return nil, clerr.SizeError("virtual polynomial needs at least one constituent")
	}
	nv := polys[0].NumVars
	tables := make([]*EvalTable, len(polys))
	for i, p := range polys {
		if p.NumVars != nv {
			return nil, clerr.SizeError("constituent polynomials have mismatched num_vars")
		}
		t, err := NewEvalTable(p)
		if err != nil {
			return nil, err
		}
		tables[i] = t
	}
	return &VirtualPolynomial{NumVars: nv, Tables: tables}, nil
}

// Len returns the current folded length common to every inner table.
func (v *VirtualPolynomial) Len() int {
	if len(v.Tables) == 0 {
		return 0
	}
	return len(v.Tables[0].Pairs)
}

// FoldIntoHalf applies FoldIntoHalf(alpha) to every inner table in lockstep.
func (v *VirtualPolynomial) FoldIntoHalf(alpha field.F) error {
	for _, t := range v.Tables {
		if err := t.FoldIntoHalf(alpha); err != nil {
			return err
		}
	}
	v.NumVars--
	return nil
}

// Evaluations returns one field element per inner polynomial after the
// final round, by residual-combining each table's single remaining pair
// with alphaLast.
func (v *VirtualPolynomial) Evaluations(alphaLast field.F) ([]field.F, error) {
	out := make([]field.F, len(v.Tables))
	for i, t := range v.Tables {
		r, err := t.Residual(alphaLast)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
