// Package parallel is the data-parallel sum-check backend: round-
// polynomial evaluation is split across disjoint index ranges, with
// each worker producing a partial sum that is then combined. Given the
// same inputs it produces byte-identical transcripts to the serial
// backend.
package parallel

import (
	"sync"

	"github.com/pseXperiments/clookup/core"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/internal/workpool"
	"github.com/pseXperiments/clookup/sumcheck"
	"github.com/pseXperiments/clookup/transcript"
)

// parallelThreshold is the index-range length above which a round's
// summation is split across worker goroutines.
const parallelThreshold = 64

// Backend is the data-parallel sum-check prover.
type Backend struct {
	Combine sumcheck.CombineFunc
}

// New returns a parallel backend bound to the given combine function.
func New(combine sumcheck.CombineFunc) *Backend {
	return &Backend{Combine: combine}
}

var _ sumcheck.Prover = (*Backend)(nil)

// Prove implements sumcheck.Prover.
func (b *Backend) Prove(ts transcript.Transcript, vp *core.VirtualPolynomial, numVars, degree int) ([]field.F, []field.F, error) {
	return sumcheck.RunProve(ts, vp, numVars, degree, b.Combine, roundSum)
}

// ProverParam implements sumcheck.Prover's pp-generation capability.
// The parallel backend's chunking is an implementation detail of Prove,
// not a parameter, so it reports the same shape every backend does.
func (b *Backend) ProverParam(numVars, degree int) sumcheck.Params {
	return sumcheck.ProverParam(numVars, degree)
}

// roundSum computes r_poly[kappa] by partitioning the index range
// [0, len(table)) into disjoint chunks, one per worker, and summing each
// worker's partial result. No chunk writes outside its own range.
func roundSum(vp *core.VirtualPolynomial, kappa int, combine sumcheck.CombineFunc) field.F {
	n := vp.Len()
	kappaF := field.FromUint64(uint64(kappa))

	if n <= parallelThreshold {
		return serialSum(vp, 0, n, kappaF, combine)
	}

	var partials []field.F
	var mu sync.Mutex
	workpool.Range(n, func(lo, hi int) {
		p := serialSum(vp, lo, hi, kappaF, combine)
		mu.Lock()
		partials = append(partials, p)
		mu.Unlock()
	})

	var total field.F
	for _, p := range partials {
		total.Add(&total, &p)
	}
	return total
}

func serialSum(vp *core.VirtualPolynomial, lo, hi int, kappa field.F, combine sumcheck.CombineFunc) field.F {
	k := len(vp.Tables)
	vals := make([]field.F, k)
	var total field.F
	for i := lo; i < hi; i++ {
		for j, t := range vp.Tables {
			vals[j] = sumcheck.InterpolatePair(t.Pairs[i].Even, t.Pairs[i].Odd, kappa)
		}
		g := combine(vals)
		total.Add(&total, &g)
	}
	return total
}
