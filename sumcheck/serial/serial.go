// Package serial is the reference sum-check backend: straightforward
// loops, no parallelism, used as the semantics every other backend must
// match byte-for-byte.
package serial

import (
	"github.com/pseXperiments/clookup/core"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/sumcheck"
	"github.com/pseXperiments/clookup/transcript"
)

// Backend is the serial sum-check prover.
type Backend struct {
	Combine sumcheck.CombineFunc
}

// New returns a serial backend bound to the given combine function.
func New(combine sumcheck.CombineFunc) *Backend {
	return &Backend{Combine: combine}
}

var _ sumcheck.Prover = (*Backend)(nil)

// Prove implements sumcheck.Prover.
func (b *Backend) Prove(ts transcript.Transcript, vp *core.VirtualPolynomial, numVars, degree int) ([]field.F, []field.F, error) {
	return sumcheck.RunProve(ts, vp, numVars, degree, b.Combine, roundSum)
}

// ProverParam implements sumcheck.Prover's pp-generation capability.
// The serial backend carries no parameters beyond the shape every
// backend shares.
func (b *Backend) ProverParam(numVars, degree int) sumcheck.Params {
	return sumcheck.ProverParam(numVars, degree)
}

// roundSum computes r_poly[kappa] by iterating every index i in
// [0, len(table)) serially.
func roundSum(vp *core.VirtualPolynomial, kappa int, combine sumcheck.CombineFunc) field.F {
	n := vp.Len()
	k := len(vp.Tables)
	vals := make([]field.F, k)
	kappaF := field.FromUint64(uint64(kappa))

	var total field.F
	for i := 0; i < n; i++ {
		for j, t := range vp.Tables {
			vals[j] = sumcheck.InterpolatePair(t.Pairs[i].Even, t.Pairs[i].Odd, kappaF)
		}
		g := combine(vals)
		total.Add(&total, &g)
	}
	return total
}
